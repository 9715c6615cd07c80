package memory_map

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// MemoryMapItem represents a memory region in a process's address space
type MemoryMapItem struct {
	Address uint64 `json:"address"` // The starting address of the memory region
	Size    uint64 `json:"size"`    // The size of the memory region in bytes
	Perms   string `json:"perms"`   // Permissions (e.g., "r-xp" for read, execute, private)
	Offset  uint64 `json:"offset"`  // Offset into the mapped file
	Path    string `json:"path"`    // Mapped file path, empty for anonymous regions
}

// String returns a string representation of the memory map item
func (mmItem MemoryMapItem) String() string {
	return fmt.Sprintf("Address: %x, Size: %d, Perms: %s, Path: %s", mmItem.Address, mmItem.Size, mmItem.Perms, mmItem.Path)
}

func (mmItem MemoryMapItem) End() uint64 {
	return mmItem.Address + mmItem.Size
}

func (mmItem MemoryMapItem) IsReadable() bool {
	return len(mmItem.Perms) > 0 && mmItem.Perms[0] == 'r'
}

func (mmItem MemoryMapItem) IsWritable() bool {
	return len(mmItem.Perms) > 1 && mmItem.Perms[1] == 'w'
}

// Sort orders a memory map by address; Find requires it.
func Sort(memoryMap []MemoryMapItem) {
	sort.Slice(memoryMap, func(i, j int) bool {
		return memoryMap[i].Address < memoryMap[j].Address
	})
}

// Find returns the region containing addr, or nil. memoryMap must be sorted by address.
func Find(addr uint64, memoryMap []MemoryMapItem) *MemoryMapItem {
	i := sort.Search(len(memoryMap), func(i int) bool {
		return memoryMap[i].End() > addr
	})
	if i < len(memoryMap) && memoryMap[i].Address <= addr {
		return &memoryMap[i]
	}

	return nil
}

// ContainsRange reports whether [addr, addr+size) is covered by contiguous readable regions.
func ContainsRange(addr, size uint64, memoryMap []MemoryMapItem) bool {
	end := addr + size
	if end < addr {
		return false
	}
	for cur := addr; cur < end; {
		item := Find(cur, memoryMap)
		if item == nil || !item.IsReadable() {
			return false
		}
		cur = item.End()
	}
	return true
}

// ModuleRange returns the span covered by every mapping of the named file.
// Names are compared case-insensitively against the base name of the mapped path.
func ModuleRange(name string, memoryMap []MemoryMapItem) (base, size uint64, ok bool) {
	var lo, hi uint64
	for _, item := range memoryMap {
		if item.Path == "" || !strings.EqualFold(filepath.Base(item.Path), name) {
			continue
		}
		if !ok || item.Address < lo {
			lo = item.Address
		}
		if !ok || item.End() > hi {
			hi = item.End()
		}
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi - lo, true
}
