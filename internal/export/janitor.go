package export

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// Janitor removes registered files when Cleanup is called. The CLI calls
// Cleanup before the process exits and on interrupt.
type Janitor struct {
	mu    sync.Mutex
	paths []string
	done  bool
}

// NewJanitor returns an empty Janitor.
func NewJanitor() *Janitor {
	return &Janitor{}
}

// Track registers paths for removal. Paths tracked after Cleanup are
// removed immediately.
func (j *Janitor) Track(paths ...string) {
	j.mu.Lock()
	if !j.done {
		j.paths = append(j.paths, paths...)
		j.mu.Unlock()
		return
	}
	j.mu.Unlock()

	for _, p := range paths {
		_ = os.Remove(p) //nolint:errcheck // best effort after shutdown
	}
}

// Tracked returns the registered paths that have not been removed yet.
func (j *Janitor) Tracked() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.paths))
	copy(out, j.paths)
	return out
}

// Cleanup removes every tracked file. Files that no longer exist are not
// an error. It is safe to call more than once.
func (j *Janitor) Cleanup() error {
	j.mu.Lock()
	paths := j.paths
	j.paths = nil
	j.done = true
	j.mu.Unlock()

	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}
