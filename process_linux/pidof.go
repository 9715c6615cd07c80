//go:build linux

package process_linux

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"cosmicsplit/process"
)

// The kernel truncates comm to TASK_COMM_LEN-1 bytes.
const commLen = 15

// ListByName returns all processes whose comm, exe basename or argv[0] basename equals name.
// argv[0] matters for Windows games running under Wine/Proton, where exe points at the loader
// and argv[0] is a path like `Z:\games\Game\Binaries\Win64\Game-Win64-Shipping.exe`.
func ListByName(name string) ([]process.ProcessInfo, error) {
	if name == "" {
		return nil, errors.New("empty name")
	}

	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("read /proc: %w", err)
	}

	selfPID := os.Getpid()
	var out []process.ProcessInfo

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil || pid <= 0 {
			continue // not a PID dir
		}
		if pid == selfPID {
			continue
		}

		if info, ok := matchProcess(pid, name); ok {
			out = append(out, info)
		}
	}

	return out, nil
}

func matchProcess(pid int, name string) (process.ProcessInfo, bool) {
	dir := filepath.Join("/proc", strconv.Itoa(pid))
	info := process.ProcessInfo{PID: process.ProcessID(pid)}

	comm, _ := os.ReadFile(filepath.Join(dir, "comm"))
	info.Name = string(bytesTrimNL(comm))

	// Resolve /proc/<pid>/exe symlink; may fail if zombie or permission
	info.Exe, _ = os.Readlink(filepath.Join(dir, "exe"))
	if info.Exe != "" && filepath.Base(info.Exe) == name {
		return info, true
	}

	cmdline, _ := os.ReadFile(filepath.Join(dir, "cmdline"))
	if argv0, _, _ := bytes.Cut(cmdline, []byte{0}); len(argv0) > 0 {
		if windowsBase(string(argv0)) == name {
			return info, true
		}
	}

	if info.Name == name {
		return info, true
	}
	if len(name) > commLen && info.Name == name[:commLen] && info.Exe == "" {
		return info, true
	}

	return info, false
}

// windowsBase returns the last element of a path using either separator
func windowsBase(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// OneByName returns the first match for name (lowest PID), or os.ErrNotExist if none.
func OneByName(name string) (process.ProcessInfo, error) {
	ps, err := ListByName(name)
	if err != nil {
		return process.ProcessInfo{}, err
	}
	if len(ps) == 0 {
		return process.ProcessInfo{}, os.ErrNotExist
	}
	// pick the lowest PID for determinism
	minIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i].PID < ps[minIdx].PID {
			minIdx = i
		}
	}
	return ps[minIdx], nil
}

// ----- helpers -----

func procExists(pid int) bool {
	_, err := os.Stat(filepath.Join("/proc", strconv.Itoa(pid)))
	if err == nil {
		return true
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	// For transient errors (permission, EIO): fall back to kill 0
	return syscall.Kill(pid, 0) == nil
}

// readStartTime returns field 22 of /proc/<pid>/stat (start time in clock ticks)
func readStartTime(pid int) (uint64, error) {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return 0, err
	}
	return parseStartTime(data)
}

func parseStartTime(stat []byte) (uint64, error) {
	// comm is wrapped in parentheses and may itself contain spaces or ')'
	end := bytes.LastIndexByte(stat, ')')
	if end < 0 {
		return 0, errors.New("malformed stat: no comm terminator")
	}
	// fields after comm start at field 3 (state); starttime is field 22
	fields := strings.Fields(string(stat[end+1:]))
	const startTimeIndex = 22 - 3
	if len(fields) <= startTimeIndex {
		return 0, fmt.Errorf("malformed stat: %d fields after comm", len(fields))
	}
	return strconv.ParseUint(fields[startTimeIndex], 10, 64)
}

func bytesTrimNL(b []byte) []byte {
	for len(b) > 0 {
		switch b[len(b)-1] {
		case '\n', '\r', ' ', '\t':
			b = b[:len(b)-1]
		default:
			return b
		}
	}
	return b
}
