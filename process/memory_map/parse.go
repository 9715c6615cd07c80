package memory_map

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// ParseMaps parses the /proc/[pid]/maps text format
func ParseMaps(r io.Reader) ([]MemoryMapItem, error) {
	var memoryMap []MemoryMapItem
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		// 00400000-0040b000 r-xp 00000000 08:01 1234   /path/to/file
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}

		addrRange := strings.Split(fields[0], "-")
		if len(addrRange) != 2 {
			continue
		}

		startAddr, err := strconv.ParseUint(addrRange[0], 16, 64)
		if err != nil {
			continue
		}

		endAddr, err := strconv.ParseUint(addrRange[1], 16, 64)
		if err != nil || endAddr < startAddr {
			continue
		}

		item := MemoryMapItem{
			Address: startAddr,
			Size:    endAddr - startAddr,
			Perms:   fields[1],
		}

		if len(fields) > 2 {
			if off, err := strconv.ParseUint(fields[2], 16, 64); err == nil {
				item.Offset = off
			}
		}

		// The path may contain spaces
		if len(fields) > 5 {
			item.Path = strings.Join(fields[5:], " ")
		}

		memoryMap = append(memoryMap, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	Sort(memoryMap)
	return memoryMap, nil
}
