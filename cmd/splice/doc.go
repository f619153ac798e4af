// Command splice merges video files with ffmpeg and manages the preview
// cache, merge history, and tool preflight from one CLI.
package main
