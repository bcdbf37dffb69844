// Package prof wraps runtime/pprof for the --cpu-profile and --mem-profile
// flags.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Options names the profile outputs; empty paths are disabled.
type Options struct {
	CPU string
	Mem string
}

// Session is an active profiling run. Stop is idempotent.
type Session struct {
	cpu     *os.File
	memPath string
	stopped bool
}

// Start begins CPU profiling when requested. The heap profile is written
// at Stop so it reflects the whole run.
func Start(opts Options) (*Session, error) {
	s := &Session{memPath: opts.Mem}
	if opts.CPU == "" {
		return s, nil
	}
	// #nosec G304 -- path comes from the user's --cpu-profile flag
	f, err := os.Create(opts.CPU)
	if err != nil {
		return nil, fmt.Errorf("failed to create cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to start cpu profile: %w", err)
	}
	s.cpu = f
	return s, nil
}

// Stop ends CPU profiling and writes the heap profile.
func (s *Session) Stop() error {
	if s == nil || s.stopped {
		return nil
	}
	s.stopped = true

	var errs []error
	if s.cpu != nil {
		pprof.StopCPUProfile()
		if err := s.cpu.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cpu profile: %w", err))
		}
	}
	if s.memPath != "" {
		if err := writeHeap(s.memPath); err != nil {
			errs = append(errs, fmt.Errorf("heap profile: %w", err))
		}
	}
	return errors.Join(errs...)
}

func writeHeap(path string) error {
	// #nosec G304 -- path comes from the user's --mem-profile flag
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
