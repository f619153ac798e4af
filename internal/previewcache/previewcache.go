// Package previewcache tracks preview artifacts produced by merge jobs and
// ages them out of the shared cache directory.
//
// The manager keeps a session-local tracked list (the artifacts this process
// created) but clearing operations also sweep the cache directory itself, so
// a fresh process can clear previews left behind by an earlier run. Disk
// mutations take a cross-process file lock; the in-memory list and the
// filesystem stay paired: a file removed from disk always leaves the tracked
// list, and a tracked entry whose file is already gone is dropped rather
// than retried forever.
package previewcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"splice/internal/logging"
	"splice/internal/xerrors"
)

const (
	artifactPrefix = "preview-"
	lockFileName   = ".splice-cache.lock"

	// lockRetryDelay paces lock acquisition attempts against other
	// processes mutating the same cache directory.
	lockRetryDelay = 100 * time.Millisecond
)

// Manager owns the preview cache directory.
type Manager struct {
	dir      string
	maxBytes int64
	logger   *slog.Logger
	lock     *flock.Flock

	mu      sync.Mutex
	tracked []string
}

// Stats describes current cache usage.
type Stats struct {
	Entries    int           `json:"entries"`
	Tracked    int           `json:"tracked"`
	TotalBytes int64         `json:"total_bytes"`
	MaxBytes   int64         `json:"max_bytes"`
	Files      []FileSummary `json:"files"`
}

// FileSummary surfaces one cached preview so the CLI can list them.
type FileSummary struct {
	Path       string    `json:"path"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// NewManager builds a cache manager for the given directory; returns nil
// when the directory is unset. maxGiB of 0 or less disables size pruning but
// keeps tracking and age-based clearing.
func NewManager(dir string, maxGiB int, logger *slog.Logger) *Manager {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	var maxBytes int64
	if maxGiB > 0 {
		maxBytes = int64(maxGiB) * 1024 * 1024 * 1024
	}
	manager := &Manager{
		dir:      dir,
		maxBytes: maxBytes,
		lock:     flock.New(filepath.Join(dir, lockFileName)),
	}
	manager.SetLogger(logger)
	return manager
}

// SetLogger refreshes the manager's logging destination.
func (m *Manager) SetLogger(logger *slog.Logger) {
	if m == nil {
		return
	}
	m.logger = logging.WithComponent(logger, "previewcache")
}

// Dir returns the cache directory root.
func (m *Manager) Dir() string {
	if m == nil {
		return ""
	}
	return m.dir
}

// ArtifactPath reserves a fresh artifact location inside the cache. The
// extension defaults to .mp4; stream-copied previews should pass their
// input container's extension so the copy stays re-mux-safe.
func (m *Manager) ArtifactPath(ext string) string {
	if m == nil {
		return ""
	}
	ext = strings.TrimSpace(ext)
	if ext == "" {
		ext = ".mp4"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(m.dir, fmt.Sprintf("%s%s%s", artifactPrefix, uuid.NewString(), ext))
}

// Record registers a written preview artifact and prunes older entries to
// stay within the size cap. The artifact itself is protected from pruning.
func (m *Manager) Record(ctx context.Context, path string) error {
	if m == nil {
		return nil
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return xerrors.Wrap(xerrors.ErrCacheIO, "cache", "record", "empty artifact path", nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return xerrors.Wrap(xerrors.ErrCacheIO, "cache", "record", path, err)
	}
	if info.IsDir() {
		return xerrors.Wrap(xerrors.ErrCacheIO, "cache", "record", fmt.Sprintf("%s is a directory", path), nil)
	}

	m.mu.Lock()
	m.tracked = append(m.tracked, path)
	m.mu.Unlock()

	if err := m.Prune(ctx, path); err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "recorded preview artifact",
		logging.String("path", path),
		logging.Int64("size_bytes", info.Size()))
	return nil
}

// Tracked returns a copy of the session-tracked artifact list.
func (m *Manager) Tracked() []string {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.tracked...)
}

// ClearOlderThan removes cached previews whose modification time is older
// than maxAge, from disk and from the tracked list. Removal is best-effort;
// the returned error aggregates individual failures while the count reports
// what actually came off disk.
func (m *Manager) ClearOlderThan(ctx context.Context, maxAge time.Duration) (int, error) {
	if m == nil {
		return 0, nil
	}
	cutoff := time.Now().Add(-maxAge)
	return m.clear(ctx, "clear aged previews", func(info os.FileInfo) bool {
		return info.ModTime().Before(cutoff)
	})
}

// ClearAll removes every cached preview immediately. Missing files are not
// errors.
func (m *Manager) ClearAll(ctx context.Context) (int, error) {
	if m == nil {
		return 0, nil
	}
	return m.clear(ctx, "clear all previews", func(os.FileInfo) bool {
		return true
	})
}

func (m *Manager) clear(ctx context.Context, op string, shouldRemove func(os.FileInfo) bool) (int, error) {
	unlock, err := m.acquireLock(ctx, op)
	if err != nil {
		return 0, err
	}
	defer unlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	trackedSet := make(map[string]struct{}, len(m.tracked))
	for _, path := range m.tracked {
		trackedSet[path] = struct{}{}
	}

	removed := 0
	var failures []error
	remaining := make([]string, 0, len(m.tracked))
	for _, path := range m.candidatesLocked() {
		_, isTracked := trackedSet[path]
		info, statErr := os.Stat(path)
		if statErr != nil {
			// Already gone; drop it from tracking instead of carrying
			// the stale entry forever.
			continue
		}
		if !shouldRemove(info) {
			if isTracked {
				remaining = append(remaining, path)
			}
			continue
		}
		if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			failures = append(failures, fmt.Errorf("%s: %w", path, removeErr))
			if isTracked {
				remaining = append(remaining, path)
			}
			continue
		}
		removed++
	}
	m.tracked = remaining

	if removed > 0 {
		m.logger.InfoContext(ctx, "cleared preview artifacts",
			logging.String("operation", op),
			logging.Int("removed", removed))
	}
	if len(failures) > 0 {
		return removed, xerrors.Wrap(xerrors.ErrCacheIO, "cache", op, "", errors.Join(failures...))
	}
	return removed, nil
}

// candidatesLocked returns the union of session-tracked artifacts and
// preview files found on disk, without duplicates. Caller holds m.mu.
func (m *Manager) candidatesLocked() []string {
	seen := make(map[string]struct{}, len(m.tracked))
	candidates := make([]string, 0, len(m.tracked))
	for _, path := range m.tracked {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		candidates = append(candidates, path)
	}
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return candidates
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), artifactPrefix) {
			continue
		}
		path := filepath.Join(m.dir, entry.Name())
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		candidates = append(candidates, path)
	}
	return candidates
}

// Prune removes the oldest previews until total size fits the cap. keepPath
// is never removed; if it alone exceeds the cap an error is returned.
func (m *Manager) Prune(ctx context.Context, keepPath string) error {
	if m == nil || m.maxBytes <= 0 {
		return nil
	}
	unlock, err := m.acquireLock(ctx, "prune")
	if err != nil {
		return err
	}
	defer unlock()

	entries, total, err := m.scan()
	if err != nil {
		return err
	}
	for len(entries) > 0 && total > m.maxBytes {
		oldest := entries[0]
		if oldest.path == keepPath {
			if len(entries) == 1 {
				return xerrors.Wrap(xerrors.ErrCacheIO, "cache", "prune",
					fmt.Sprintf("cache over limit and active artifact %s cannot be pruned", keepPath), nil)
			}
			entries = entries[1:]
			continue
		}
		if err := os.Remove(oldest.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return xerrors.Wrap(xerrors.ErrCacheIO, "cache", "prune", oldest.path, err)
		}
		m.dropTracked(oldest.path)
		m.logger.InfoContext(ctx, "pruned preview artifact",
			logging.String("path", oldest.path),
			logging.Int64("size_bytes", oldest.sizeBytes))
		total -= oldest.sizeBytes
		entries = entries[1:]
	}
	return nil
}

// Stats returns current cache usage, newest artifacts first.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if m == nil {
		return stats, nil
	}
	entries, total, err := m.scan()
	if err != nil {
		return stats, err
	}
	files := make([]FileSummary, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		files = append(files, FileSummary{
			Path:       entry.path,
			SizeBytes:  entry.sizeBytes,
			ModifiedAt: entry.modTime,
		})
	}
	m.mu.Lock()
	tracked := len(m.tracked)
	m.mu.Unlock()
	stats = Stats{
		Entries:    len(entries),
		Tracked:    tracked,
		TotalBytes: total,
		MaxBytes:   m.maxBytes,
		Files:      files,
	}
	if len(entries) == 0 {
		m.logger.DebugContext(ctx, "preview cache empty")
	}
	return stats, nil
}

type cacheEntry struct {
	path      string
	sizeBytes int64
	modTime   time.Time
}

// scan lists preview files oldest first with their total size.
func (m *Manager) scan() ([]cacheEntry, int64, error) {
	entries := make([]cacheEntry, 0)
	var total int64
	items, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, 0, nil
		}
		return nil, 0, xerrors.Wrap(xerrors.ErrCacheIO, "cache", "scan", m.dir, err)
	}
	for _, item := range items {
		if item.IsDir() || !strings.HasPrefix(item.Name(), artifactPrefix) {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		total += info.Size()
		entries = append(entries, cacheEntry{
			path:      filepath.Join(m.dir, item.Name()),
			sizeBytes: info.Size(),
			modTime:   info.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].modTime.Before(entries[j].modTime)
	})
	return entries, total, nil
}

func (m *Manager) dropTracked(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	remaining := m.tracked[:0]
	for _, tracked := range m.tracked {
		if tracked != path {
			remaining = append(remaining, tracked)
		}
	}
	m.tracked = remaining
}

// acquireLock takes the cross-process cache lock, creating the cache
// directory on first use.
func (m *Manager) acquireLock(ctx context.Context, op string) (func(), error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, xerrors.Wrap(xerrors.ErrCacheIO, "cache", op, "create cache directory", err)
	}
	ok, err := m.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, xerrors.Wrap(xerrors.ErrCacheIO, "cache", op, "acquire cache lock", err)
	}
	if !ok {
		return nil, xerrors.Wrap(xerrors.ErrCacheIO, "cache", op, "cache lock unavailable", nil)
	}
	return func() {
		_ = m.lock.Unlock()
	}, nil
}
