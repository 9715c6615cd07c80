//go:build linux

package process_linux

import (
	"fmt"

	"cosmicsplit/process"

	"golang.org/x/sys/unix"
)

// readRemote copies size bytes from the target into a fresh buffer with one
// process_vm_readv call. Anything short of a full read is an error.
func readRemote(pid process.ProcessID, addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	buf := make([]byte, size)

	local := []unix.Iovec{{Base: &buf[0]}}
	local[0].SetLen(len(buf))
	remote := []unix.RemoteIovec{{Base: uintptr(addr), Len: len(buf)}}

	n, err := unix.ProcessVMReadv(int(pid), local, remote, 0)
	if err != nil {
		return nil, fmt.Errorf("process_vm_readv: %w", err)
	}
	if n != len(buf) {
		return nil, fmt.Errorf("partial read: %d of %d bytes", n, len(buf))
	}
	return buf, nil
}

// ReadMemory reads size bytes at addr. Unmapped memory surfaces as EFAULT from
// the kernel, so the memory map is not consulted.
func (p *LinuxProcess) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	p.mu.Lock()
	pid := p.pid
	p.mu.Unlock()

	if pid == 0 {
		return nil, process.ErrProcessNotOpen
	}
	if size == 0 {
		return []byte{}, nil
	}

	last := addr + process.ProcessMemoryAddress(size) - 1
	if !isPlausibleAddress(addr) || !isPlausibleAddress(last) {
		return nil, fmt.Errorf("read at %s: %w", addr.ToString(), process.ErrAddressNotMapped)
	}

	data, err := readRemote(pid, addr, size)
	if err != nil {
		return nil, fmt.Errorf("read at %s: %w", addr.ToString(), err)
	}
	return data, nil
}
