// Package process_blob provides an in-memory process.Process.
//
// An Image holds sparse memory in fixed-size pages, so tests can lay out pointer
// chains at arbitrary addresses and recordings of a live process can be replayed
// offline. Reads touching a page that was never written fail with
// process.ErrAddressNotMapped, like an unmapped address in a real process.
package process_blob

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"cosmicsplit/pod"
	"cosmicsplit/process"
)

const pageSize = 0x1000

type Image struct {
	mu      sync.Mutex
	pid     process.ProcessID
	name    string
	modules []process.ModuleInfo
	pages   map[uint64][]byte
	alive   bool
	handle  bool
	closes  int
	reads   int
}

var _ process.Process = (*Image)(nil)

func NewImage(pid process.ProcessID, name string) *Image {
	return &Image{
		pid:    pid,
		name:   name,
		pages:  make(map[uint64][]byte),
		alive:  true,
		handle: true,
	}
}

func (p *Image) Name() string {
	return p.name
}

// Close releases the handle; the image itself stays alive and can be reopened
func (p *Image) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handle {
		p.handle = false
		p.closes++
	}
	return nil
}

// Closes returns how many times an open handle was closed
func (p *Image) Closes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closes
}

// Kill marks the image as exited; IsOpen reports false from then on
func (p *Image) Kill() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alive = false
}

func (p *Image) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alive
}

func (p *Image) reopen() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handle = true
}

func (p *Image) GetPID() process.ProcessID {
	return p.pid
}

func (p *Image) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alive && p.handle
}

// Reads returns how many ReadMemory calls the image has served
func (p *Image) Reads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads
}

// AddModule registers (or replaces) a module by name
func (p *Image) AddModule(module process.ModuleInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.modules {
		if p.modules[i].Name == module.Name {
			p.modules[i] = module
			return
		}
	}
	p.modules = append(p.modules, module)
}

func (p *Image) Modules() []process.ModuleInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]process.ModuleInfo(nil), p.modules...)
}

func (p *Image) GetModule(name string) (process.ModuleInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.alive || !p.handle {
		return process.ModuleInfo{}, process.ErrProcessNotOpen
	}
	for _, m := range p.modules {
		if m.Name == name {
			return m, nil
		}
	}
	return process.ModuleInfo{}, fmt.Errorf("%s: %w", name, process.ErrModuleNotFound)
}

func (p *Image) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.alive || !p.handle {
		return nil, process.ErrProcessNotOpen
	}
	p.reads++

	start := uint64(addr)
	end := start + uint64(size)
	if end < start {
		return nil, process.ErrAddressNotMapped
	}

	out := make([]byte, 0, size)
	for cur := start; cur < end; {
		page, ok := p.pages[cur&^(pageSize-1)]
		if !ok {
			return nil, fmt.Errorf("read at 0x%x: %w", cur, process.ErrAddressNotMapped)
		}
		off := cur & (pageSize - 1)
		n := min(uint64(pageSize)-off, end-cur)
		out = append(out, page[off:off+n]...)
		cur += n
	}
	return out, nil
}

// Write stores data at addr, mapping any page it touches
func (p *Image) Write(addr process.ProcessMemoryAddress, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cur := uint64(addr)
	for len(data) > 0 {
		pageAddr := cur &^ (pageSize - 1)
		page, ok := p.pages[pageAddr]
		if !ok {
			page = make([]byte, pageSize)
			p.pages[pageAddr] = page
		}
		off := cur & (pageSize - 1)
		n := copy(page[off:], data)
		data = data[n:]
		cur += uint64(n)
	}
}

// Unmap drops the page containing addr
func (p *Image) Unmap(addr process.ProcessMemoryAddress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pages, uint64(addr)&^(pageSize-1))
}

func (p *Image) PutUINT8(addr process.ProcessMemoryAddress, v uint8) {
	p.Write(addr, []byte{v})
}

func (p *Image) PutUINT16(addr process.ProcessMemoryAddress, v uint16) {
	p.Write(addr, binary.LittleEndian.AppendUint16(nil, v))
}

func (p *Image) PutUINT32(addr process.ProcessMemoryAddress, v uint32) {
	p.Write(addr, binary.LittleEndian.AppendUint32(nil, v))
}

func (p *Image) PutUINT64(addr process.ProcessMemoryAddress, v uint64) {
	p.Write(addr, binary.LittleEndian.AppendUint64(nil, v))
}

func (p *Image) PutPointer(addr, target process.ProcessMemoryAddress) {
	p.PutUINT64(addr, uint64(target))
}

// PutUTF16 writes s as UTF-16LE into a buffer of exactly units code units, zero padded
func (p *Image) PutUTF16(addr process.ProcessMemoryAddress, s string, units int) {
	buf := make([]byte, units*2)
	for i, u := range pod.EncodeString16(s) {
		if i >= units {
			break
		}
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	p.Write(addr, buf)
}

// regions coalesces mapped pages into contiguous address ranges
func (p *Image) regions() []region {
	addrs := make([]uint64, 0, len(p.pages))
	for a := range p.pages {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	var out []region
	for _, a := range addrs {
		if n := len(out); n > 0 && out[n-1].Address+uint64(len(out[n-1].Data)) == a {
			out[n-1].Data = append(out[n-1].Data, p.pages[a]...)
			continue
		}
		out = append(out, region{Address: a, Data: append([]byte(nil), p.pages[a]...)})
	}
	return out
}

type region struct {
	Address uint64
	Data    []byte
}
