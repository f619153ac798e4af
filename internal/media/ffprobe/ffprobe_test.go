package ffprobe

import (
	"math"
	"testing"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", CodecName: "h264", Width: 1920, Height: 1080, FrameRate: "30000/1001"},
			{CodecType: "audio"},
			{CodecType: "audio"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			BitRate:  "32000",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
	stream, ok := result.FirstVideoStream()
	if !ok {
		t.Fatal("expected a video stream")
	}
	if stream.CodecName != "h264" {
		t.Fatalf("unexpected codec: %s", stream.CodecName)
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected duration 0, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
	if _, ok := result.FirstVideoStream(); ok {
		t.Fatal("expected no video stream")
	}
}

func TestFrameRateValue(t *testing.T) {
	cases := []struct {
		rational string
		want     float64
		ok       bool
	}{
		{"30/1", 30, true},
		{"30000/1001", 30000.0 / 1001.0, true},
		{"25", 25, true},
		{"0/0", 0, false},
		{"", 0, false},
		{"garbage", 0, false},
		{"30/0", 0, false},
	}
	for _, tc := range cases {
		got, ok := Stream{FrameRate: tc.rational}.FrameRateValue()
		if ok != tc.ok {
			t.Fatalf("%q: expected ok=%v, got %v", tc.rational, tc.ok, ok)
		}
		if ok && math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%q: expected %v fps, got %v", tc.rational, tc.want, got)
		}
	}
}
