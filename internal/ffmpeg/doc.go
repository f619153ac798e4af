// Package ffmpeg builds encoder invocations and supervises their execution.
//
// The package owns three concerns:
//   - command construction: concat list files plus the argument vectors for
//     stream-copy previews, normalizing merges, and downscale passes
//   - process execution: an Executor abstraction whose production
//     implementation streams encoder stderr line-by-line while the process
//     runs, with platform-specific spawn attributes behind build tags
//   - progress extraction: parsing the encoder's unstructured stderr text
//     into elapsed seconds and scaling those into a reporting band
//
// Nothing here decides WHETHER to merge; callers pick the argument builder
// after classifying their inputs.
package ffmpeg
