//go:build !linux && !windows

package main

import (
	"fmt"
	"runtime"

	"cosmicsplit/process"
)

func newOpener() process.Opener {
	return process.OpenerFunc(func(name string) (process.Process, error) {
		return nil, fmt.Errorf("reading process memory is not supported on %s: %w", runtime.GOOS, process.ErrProcessNotFound)
	})
}
