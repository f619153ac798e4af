package media

import (
	"context"
	"errors"
	"testing"

	"splice/internal/media/ffprobe"
	"splice/internal/xerrors"
)

func staticProber(results map[string]ffprobe.Result, failures map[string]error) Prober {
	return ProberFunc(func(_ context.Context, path string) (ffprobe.Result, error) {
		if err, ok := failures[path]; ok {
			return ffprobe.Result{}, err
		}
		result, ok := results[path]
		if !ok {
			return ffprobe.Result{}, errors.New("unexpected probe")
		}
		return result, nil
	})
}

func videoResult(codec string, width, height int, rate, duration string) ffprobe.Result {
	return ffprobe.Result{
		Streams: []ffprobe.Stream{
			{CodecType: "video", CodecName: codec, Width: width, Height: height, FrameRate: rate},
			{CodecType: "audio", CodecName: "aac"},
		},
		Format: ffprobe.Format{Duration: duration},
	}
}

func TestDescribe(t *testing.T) {
	prober := staticProber(map[string]ffprobe.Result{
		"/videos/a.mp4": videoResult("h264", 1920, 1080, "30000/1001", "12.5"),
	}, nil)

	desc, err := Describe(context.Background(), prober, "/videos/a.mp4")
	if err != nil {
		t.Fatalf("describe failed: %v", err)
	}
	if desc.CodecName != "H264" {
		t.Fatalf("expected upper-cased codec, got %q", desc.CodecName)
	}
	if desc.Width != 1920 || desc.Height != 1080 {
		t.Fatalf("unexpected dimensions: %dx%d", desc.Width, desc.Height)
	}
	if desc.FrameRateRational != "30000/1001" {
		t.Fatalf("unexpected frame rate rational: %q", desc.FrameRateRational)
	}
	if desc.DurationSeconds != 12.5 {
		t.Fatalf("unexpected duration: %v", desc.DurationSeconds)
	}
	if desc.Path != "/videos/a.mp4" {
		t.Fatalf("unexpected path: %q", desc.Path)
	}
}

func TestDescribeRejectsAudioOnlyFile(t *testing.T) {
	prober := staticProber(map[string]ffprobe.Result{
		"/videos/song.mp4": {
			Streams: []ffprobe.Stream{{CodecType: "audio", CodecName: "mp3"}},
		},
	}, nil)

	_, err := Describe(context.Background(), prober, "/videos/song.mp4")
	if err == nil {
		t.Fatal("expected error for file without video stream")
	}
	if !errors.Is(err, xerrors.ErrProbe) {
		t.Fatalf("expected probe error, got %v", err)
	}
}

func TestDescribeWrapsProbeFailure(t *testing.T) {
	prober := staticProber(nil, map[string]error{
		"/videos/broken.mp4": errors.New("boom"),
	})

	_, err := Describe(context.Background(), prober, "/videos/broken.mp4")
	if !errors.Is(err, xerrors.ErrProbe) {
		t.Fatalf("expected probe error, got %v", err)
	}
}

func TestDescribeAllRecordsPositionalFailures(t *testing.T) {
	prober := staticProber(map[string]ffprobe.Result{
		"/videos/a.mp4": videoResult("h264", 1920, 1080, "30/1", "10"),
		"/videos/c.mp4": videoResult("h264", 1920, 1080, "30/1", "20"),
	}, map[string]error{
		"/videos/b.mp4": errors.New("unreadable"),
	})

	descs, errs, ok := DescribeAll(context.Background(), prober, []string{"/videos/a.mp4", "/videos/b.mp4", "/videos/c.mp4"})
	if ok {
		t.Fatal("expected ok=false when one probe fails")
	}
	if len(descs) != 3 || len(errs) != 3 {
		t.Fatalf("expected positional slices of 3, got %d and %d", len(descs), len(errs))
	}
	if errs[0] != nil || errs[2] != nil {
		t.Fatalf("unexpected errors for good inputs: %v, %v", errs[0], errs[2])
	}
	if errs[1] == nil {
		t.Fatal("expected error at failed index")
	}
	if descs[0].CodecName != "H264" || descs[2].CodecName != "H264" {
		t.Fatalf("expected good descriptors at surviving indices: %+v", descs)
	}
}

func TestTotalDuration(t *testing.T) {
	prober := staticProber(map[string]ffprobe.Result{
		"/videos/a.mp4": videoResult("h264", 1920, 1080, "30/1", "10.5"),
		"/videos/b.mp4": videoResult("h264", 1920, 1080, "30/1", "4.5"),
	}, nil)

	total, err := TotalDuration(context.Background(), prober, []string{"/videos/a.mp4", "/videos/b.mp4"})
	if err != nil {
		t.Fatalf("total duration failed: %v", err)
	}
	if total != 15 {
		t.Fatalf("expected 15s, got %v", total)
	}
}

func TestTotalDurationFailsWhenAnyProbeFails(t *testing.T) {
	prober := staticProber(map[string]ffprobe.Result{
		"/videos/a.mp4": videoResult("h264", 1920, 1080, "30/1", "10"),
	}, map[string]error{
		"/videos/b.mp4": errors.New("unreadable"),
	})

	if _, err := TotalDuration(context.Background(), prober, []string{"/videos/a.mp4", "/videos/b.mp4"}); err == nil {
		t.Fatal("expected error when a probe fails")
	}
}

func TestTotalDurationFailsOnMissingDuration(t *testing.T) {
	prober := staticProber(map[string]ffprobe.Result{
		"/videos/a.mp4": videoResult("h264", 1920, 1080, "30/1", ""),
	}, nil)

	if _, err := TotalDuration(context.Background(), prober, []string{"/videos/a.mp4"}); err == nil {
		t.Fatal("expected error when duration is unreported")
	}
}

func TestProbeDimensions(t *testing.T) {
	prober := staticProber(map[string]ffprobe.Result{
		"/videos/a.mp4": videoResult("h264", 1280, 720, "30/1", "10"),
	}, map[string]error{
		"/videos/broken.mp4": errors.New("unreadable"),
	})

	width, height := ProbeDimensions(context.Background(), prober, "/videos/a.mp4")
	if width != 1280 || height != 720 {
		t.Fatalf("expected probed dimensions, got %dx%d", width, height)
	}

	width, height = ProbeDimensions(context.Background(), prober, "/videos/broken.mp4")
	if width != FallbackWidth || height != FallbackHeight {
		t.Fatalf("expected fallback dimensions, got %dx%d", width, height)
	}
}

func TestDescriptorSummary(t *testing.T) {
	desc := Descriptor{CodecName: "H264", Width: 1920, Height: 1080, FrameRateRational: "30000/1001"}
	if got := desc.Summary(); got != "H264 1920x1080 29.97fps" {
		t.Fatalf("unexpected summary: %q", got)
	}
	if got := (Descriptor{}).Summary(); got != "no video info" {
		t.Fatalf("unexpected empty summary: %q", got)
	}
}

func TestDescriptorFrameRateRounding(t *testing.T) {
	desc := Descriptor{FrameRateRational: "30000/1001"}
	if got := desc.FrameRate(); got != 29.97 {
		t.Fatalf("expected 29.97, got %v", got)
	}
	if got := (Descriptor{FrameRateRational: "bad"}).FrameRate(); got != 0 {
		t.Fatalf("expected 0 for malformed rational, got %v", got)
	}
}
