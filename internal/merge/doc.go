// Package merge coordinates the video merge pipeline: probing inputs,
// deciding between the stream-copy fast path and a normalizing re-encode,
// driving the encoder subprocess, and reporting progress and completion to
// the caller.
//
// Each job runs on its own goroutine behind a Handle. An orchestrator allows
// one job in flight at a time; callers needing concurrent merges create
// separate orchestrators.
package merge
