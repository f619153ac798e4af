// Package media derives merge-relevant video properties from probe results
// and decides whether a set of inputs can be concatenated without
// re-encoding.
//
// This package depends only on internal/media/ffprobe and could be extracted
// as a standalone library alongside ffprobe.
//
// Key types:
//   - Descriptor: the per-file properties the pipeline compares and displays
//   - Verdict: the uniformity decision with per-file mismatch detail
//
// Primary entry points:
//   - Describe: probes one file into a Descriptor
//   - Classify: compares Descriptors for stream-copy eligibility
//   - TotalDuration: sums probed durations for progress estimation
package media
