package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"splice/internal/ffmpeg"
	"splice/internal/logging"
)

// progressPrinter renders merge progress to the terminal. On a TTY it
// rewrites a single line in place; otherwise it prints one line per
// percentage bucket so piped output stays readable.
type progressPrinter struct {
	out         io.Writer
	interactive bool

	mu       sync.Mutex
	sampler  *logging.ProgressSampler
	lastLine int
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{
		out:         out,
		interactive: shouldColorize(out),
		sampler:     logging.NewProgressSampler(10),
	}
}

func (p *progressPrinter) update(update ffmpeg.ProgressUpdate) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var line string
	if update.Determinate() {
		line = fmt.Sprintf("%3d%% %s", update.Percent, update.Message)
	} else {
		line = fmt.Sprintf("     %s", update.Message)
	}

	if p.interactive {
		padding := ""
		if pad := p.lastLine - len(line); pad > 0 {
			padding = strings.Repeat(" ", pad)
		}
		fmt.Fprintf(p.out, "\r%s%s", line, padding)
		p.lastLine = len(line)
		return
	}
	if p.sampler.ShouldLog(update.Percent, update.Stage) {
		fmt.Fprintln(p.out, strings.TrimSpace(line))
	}
}

// finish terminates the in-place line so completion output starts fresh.
func (p *progressPrinter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.interactive && p.lastLine > 0 {
		fmt.Fprintln(p.out)
		p.lastLine = 0
	}
}
