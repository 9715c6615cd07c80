//go:build linux

package memory_map

import (
	"os"
	"strconv"
)

// ReadMemoryMap parses /proc/<pid>/maps
func ReadMemoryMap(pid int) ([]MemoryMapItem, error) {
	f, err := os.Open("/proc/" + strconv.Itoa(pid) + "/maps")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseMaps(f)
}
