package media

import (
	"path/filepath"
	"sort"
	"strings"
)

// supportedExtensions enumerates the container extensions accepted as merge
// inputs. The set mirrors the formats the probe step can reliably inspect.
var supportedExtensions = map[string]struct{}{
	".mp4":  {},
	".mkv":  {},
	".mov":  {},
	".avi":  {},
	".flv":  {},
	".wmv":  {},
	".webm": {},
	".mpg":  {},
	".mpeg": {},
	".m4v":  {},
	".3gp":  {},
	".ts":   {},
	".ogv":  {},
	".vob":  {},
	".f4v":  {},
	".mts":  {},
	".m2ts": {},
	".divx": {},
	".xvid": {},
	".rm":   {},
	".rmvb": {},
	".asf":  {},
	".mxf":  {},
	".yuv":  {},
	".dv":   {},
	".amv":  {},
	".nsv":  {},
}

// IsSupportedPath reports whether the path carries a recognized video
// container extension. The check is case-insensitive.
func IsSupportedPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := supportedExtensions[ext]
	return ok
}

// SupportedExtensionList returns the accepted extensions sorted for display.
func SupportedExtensionList() []string {
	extensions := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}
