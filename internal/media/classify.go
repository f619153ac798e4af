package media

import "fmt"

// Verdict is the uniformity decision for a set of inputs. Issues is empty
// exactly when Uniform is true.
type Verdict struct {
	Uniform bool
	Issues  []string
}

// Classify decides whether the described inputs can be concatenated with a
// pure stream copy. Inputs are uniform only when codec name, width, height,
// and the raw frame-rate rational all match the first input exactly. errs is
// the positional probe-error slice from DescribeAll; any probe failure makes
// the verdict non-uniform because the pipeline cannot prove compatibility.
func Classify(descs []Descriptor, errs []error) Verdict {
	if len(descs) == 0 {
		return Verdict{Issues: []string{"no videos provided"}}
	}

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed > 0 {
		noun := "video"
		if failed > 1 {
			noun = "videos"
		}
		return Verdict{Issues: []string{fmt.Sprintf("failed to read metadata from %d %s", failed, noun)}}
	}

	if len(descs) == 1 {
		return Verdict{Uniform: true}
	}

	first := descs[0]
	issues := make([]string, 0)
	for i, desc := range descs[1:] {
		for _, issue := range compatibilityIssues(first, desc) {
			issues = append(issues, fmt.Sprintf("video %d: %s", i+2, issue))
		}
	}
	if len(issues) > 0 {
		return Verdict{Issues: issues}
	}
	return Verdict{Uniform: true}
}

func compatibilityIssues(first, other Descriptor) []string {
	issues := make([]string, 0, 3)
	if first.CodecName != other.CodecName {
		issues = append(issues, fmt.Sprintf("different codecs: %s vs %s", orUnknown(first.CodecName), orUnknown(other.CodecName)))
	}
	if first.Width != other.Width || first.Height != other.Height {
		issues = append(issues, fmt.Sprintf("different resolutions: %s vs %s", orUnknown(first.Resolution()), orUnknown(other.Resolution())))
	}
	if first.FrameRateRational != other.FrameRateRational {
		issues = append(issues, fmt.Sprintf("different framerates: %s vs %s", frameRateLabel(first), frameRateLabel(other)))
	}
	return issues
}

// frameRateLabel prefers the rounded fps form but falls back to the raw
// rational so rationals that round to the same display value stay
// distinguishable in mismatch output.
func frameRateLabel(desc Descriptor) string {
	if rate := desc.FrameRate(); rate > 0 {
		return fmt.Sprintf("%gfps (%s)", rate, desc.FrameRateRational)
	}
	return orUnknown(desc.FrameRateRational)
}

func orUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
