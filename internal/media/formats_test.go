package media

import "testing"

func TestIsSupportedPath(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/videos/clip.mp4", true},
		{"/videos/CLIP.MKV", true},
		{"/videos/archive.m2ts", true},
		{"/videos/notes.txt", false},
		{"/videos/noext", false},
	}
	for _, tc := range cases {
		if got := IsSupportedPath(tc.path); got != tc.want {
			t.Fatalf("%q: expected %v, got %v", tc.path, tc.want, got)
		}
	}
}

func TestSupportedExtensionListIsSorted(t *testing.T) {
	extensions := SupportedExtensionList()
	if len(extensions) == 0 {
		t.Fatal("expected a non-empty extension list")
	}
	for i := 1; i < len(extensions); i++ {
		if extensions[i-1] >= extensions[i] {
			t.Fatalf("extension list not sorted at %d: %q >= %q", i, extensions[i-1], extensions[i])
		}
	}
	if extensions[0] != ".3gp" {
		t.Fatalf("unexpected first extension: %q", extensions[0])
	}
}
