package process_blob

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cosmicsplit/process"
	"cosmicsplit/process/memory_map"
)

type metadata struct {
	PID     process.ProcessID    `json:"pid"`
	Name    string               `json:"name"`
	Modules []process.ModuleInfo `json:"modules"`
}

func blobFilename(dirname string, address, size uint64) string {
	return filepath.Join(dirname, fmt.Sprintf("blob_0x%x_%d.bin", address, size))
}

// Save writes the image to a directory: metadata.json, process_memory_map.json and one
// blob_0x<addr>_<size>.bin per contiguous region.
func (p *Image) Save(dirname string) error {
	if err := os.MkdirAll(dirname, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	p.mu.Lock()
	meta := metadata{PID: p.pid, Name: p.name, Modules: append([]process.ModuleInfo(nil), p.modules...)}
	regions := p.regions()
	p.mu.Unlock()

	metadataJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, "metadata.json"), metadataJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	mm := make([]memory_map.MemoryMapItem, len(regions))
	for i, r := range regions {
		mm[i] = memory_map.MemoryMapItem{Address: r.Address, Size: uint64(len(r.Data)), Perms: "r--p"}
	}
	memoryMapJSON, err := json.MarshalIndent(mm, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory map: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, "process_memory_map.json"), memoryMapJSON, 0644); err != nil {
		return fmt.Errorf("failed to write memory map file: %w", err)
	}

	for _, r := range regions {
		if err := os.WriteFile(blobFilename(dirname, r.Address, uint64(len(r.Data))), r.Data, 0644); err != nil {
			return fmt.Errorf("failed to write memory file for region at 0x%x: %w", r.Address, err)
		}
	}

	return nil
}

// Load reads an image previously written by Save
func Load(dirname string) (*Image, error) {
	metadataBytes, err := os.ReadFile(filepath.Join(dirname, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var meta metadata
	if err := json.Unmarshal(metadataBytes, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}

	mmBytes, err := os.ReadFile(filepath.Join(dirname, "process_memory_map.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read memory map: %w", err)
	}

	var mm []memory_map.MemoryMapItem
	if err := json.Unmarshal(mmBytes, &mm); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memory map: %w", err)
	}

	img := NewImage(meta.PID, meta.Name)
	for _, m := range meta.Modules {
		img.AddModule(m)
	}

	for _, region := range mm {
		filename := blobFilename(dirname, region.Address, region.Size)
		data, err := os.ReadFile(filename)
		if os.IsNotExist(err) {
			continue // Blob not saved
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read blob %s: %w", filename, err)
		}
		img.Write(process.ProcessMemoryAddress(region.Address), data)
	}

	return img, nil
}
