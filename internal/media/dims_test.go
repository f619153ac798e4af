package media

import "testing"

func TestCalculateDownscaleDims(t *testing.T) {
	cases := []struct {
		width, height int
		factor        float64
		wantW, wantH  int
	}{
		{1920, 1080, 0.5, 960, 540},
		{1280, 720, 0.5, 640, 360},
		{1279, 719, 0.5, 638, 358},
		{1920, 1080, 0.25, 480, 270},
		{854, 480, 0.5, 426, 240},
		{100, 100, 0.03, 2, 2},
	}
	for _, tc := range cases {
		gotW, gotH := CalculateDownscaleDims(tc.width, tc.height, tc.factor)
		if gotW != tc.wantW || gotH != tc.wantH {
			t.Fatalf("%dx%d @ %v: expected %dx%d, got %dx%d", tc.width, tc.height, tc.factor, tc.wantW, tc.wantH, gotW, gotH)
		}
		if gotW%2 != 0 || gotH%2 != 0 {
			t.Fatalf("%dx%d @ %v: dimensions must be even, got %dx%d", tc.width, tc.height, tc.factor, gotW, gotH)
		}
	}
}
