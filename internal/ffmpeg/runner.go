package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"splice/internal/xerrors"
)

// Executor abstracts encoder execution for testability. Run starts the
// binary, streams every non-empty stderr line to onLine while the process is
// alive, and returns the exit code once it finishes. The exit code is -1
// when the process never spawned.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onLine func(string)) (int, error)
}

// NewExecutor returns the production executor.
func NewExecutor() Executor {
	return commandExecutor{}
}

// waitDelay bounds how long a terminated process may linger before being
// killed outright.
const waitDelay = 5 * time.Second

// maxLineBytes caps a single stderr line; the encoder occasionally dumps
// whole filter graphs onto one line.
const maxLineBytes = 1024 * 1024

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onLine func(string)) (int, error) {
	if strings.TrimSpace(binary) == "" {
		return -1, xerrors.Wrap(xerrors.ErrSpawn, "spawn", "encoder", "binary required", nil)
	}

	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.SysProcAttr = spawnAttributes()
	cmd.Cancel = func() error {
		return terminateProcess(cmd.Process)
	}
	cmd.WaitDelay = waitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, xerrors.Wrap(xerrors.ErrSpawn, "spawn", "encoder", "stdout pipe", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, xerrors.Wrap(xerrors.ErrSpawn, "spawn", "encoder", "stderr pipe", err)
	}
	if err := cmd.Start(); err != nil {
		return -1, xerrors.Wrap(xerrors.ErrSpawn, "spawn", "encoder", binary, err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	wg.Add(2)
	go func() {
		defer wg.Done()
		// The encoder writes nothing useful to stdout; drain it so the
		// process never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, stdout)
	}()
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		scanner.Split(scanEncoderLines)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if onLine != nil {
				onLine(line)
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}()

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return -1, xerrors.Wrap(xerrors.ErrExit, "run", "encoder", "read output", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			return code, xerrors.Wrap(xerrors.ErrExit, "run", "encoder", fmt.Sprintf("exit code %d", code), err)
		}
		return -1, xerrors.Wrap(xerrors.ErrExit, "run", "encoder", "wait", err)
	}
	return 0, nil
}

// scanEncoderLines treats both \r and \n as line delimiters and consumes
// delimiter runs. The encoder rewrites its progress line in place with bare
// carriage returns, so a newline-only scanner would sit on progress output
// until exit.
func scanEncoderLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i := 0; i < len(data); i++ {
		if data[i] == '\r' || data[i] == '\n' {
			advance = i + 1
			for advance < len(data) && (data[advance] == '\r' || data[advance] == '\n') {
				advance++
			}
			return advance, data[0:i], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Tail retains the most recent non-progress stderr lines so failures can
// surface the encoder's own explanation.
type Tail struct {
	mu    sync.Mutex
	max   int
	lines []string
}

// NewTail returns a tail buffer holding at most max lines.
func NewTail(max int) *Tail {
	if max <= 0 {
		max = 10
	}
	return &Tail{max: max}
}

// Add records a line, discarding the oldest once the buffer is full. Empty
// lines and progress lines are skipped; they explain nothing.
func (t *Tail) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	if _, ok := ParseTime(line); ok {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[1:]
	}
}

// Lines returns a copy of the buffered lines, oldest first.
func (t *Tail) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.lines...)
}

// String joins the buffered lines for inclusion in an error message.
func (t *Tail) String() string {
	return strings.Join(t.Lines(), "\n")
}
