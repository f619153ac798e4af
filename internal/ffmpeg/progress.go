package ffmpeg

import (
	"math"
	"regexp"
	"strconv"
)

// IndeterminatePercent marks a progress update that carries a message but no
// usable percentage, for runs whose total duration is unknown.
const IndeterminatePercent = -1

// ProgressUpdate captures one step of merge progress.
type ProgressUpdate struct {
	Stage   string
	Percent int
	Message string
}

// Determinate reports whether the update carries a usable percentage.
func (u ProgressUpdate) Determinate() bool {
	return u.Percent >= 0
}

// timePattern matches the encoder's elapsed-time token anywhere in a stderr
// line. Negative or N/A timestamps intentionally fail the match.
var timePattern = regexp.MustCompile(`time=(\d+):(\d+):(\d+(?:\.\d+)?)`)

// ParseTime extracts the `time=HH:MM:SS.cc` token from an encoder stderr
// line and converts it to total seconds. Lines without the token return
// ok=false and are skipped silently; the encoder emits many non-progress
// lines on the same stream.
func ParseTime(line string) (float64, bool) {
	match := timePattern.FindStringSubmatch(line)
	if match == nil {
		return 0, false
	}
	hours, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(match[3], 64)
	if err != nil {
		return 0, false
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds, true
}

// ProgressScale maps elapsed encode time into a reserved band of the
// reported percentage range. Offset is the band floor (setup work owns
// everything below it), Span the band width, and Cap the ceiling reported
// until the process has actually exited.
type ProgressScale struct {
	Offset int
	Span   int
	Cap    int
}

// EncodeScale is the band used by merge jobs: setup owns 0-30, line-derived
// progress lives in 30-90, and completion owns 100.
var EncodeScale = ProgressScale{Offset: 30, Span: 60, Cap: 90}

// Percent maps elapsed seconds against the expected total into the band.
// Non-positive totals pin the result to the band floor.
func (s ProgressScale) Percent(elapsed, total float64) int {
	if total <= 0 {
		return s.Offset
	}
	percent := s.Offset + int(math.Round(elapsed/total*float64(s.Span)))
	if percent > s.Cap {
		return s.Cap
	}
	if percent < s.Offset {
		return s.Offset
	}
	return percent
}
