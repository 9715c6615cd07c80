package process_blob

import (
	"bytes"
	"errors"
	"testing"

	"cosmicsplit/process"
)

func TestImageReadAcrossPages(t *testing.T) {
	img := NewImage(1, "game.exe")
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	img.Write(0x1FFC, data)

	got, err := img.ReadMemory(0x1FFC, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("expected %v, got %v", data, got)
	}
}

func TestImageUnmapped(t *testing.T) {
	img := NewImage(1, "game.exe")
	img.PutUINT32(0x1FFC, 7)

	if _, err := img.ReadMemory(0x1FFC, 8); !errors.Is(err, process.ErrAddressNotMapped) {
		t.Fatalf("expected ErrAddressNotMapped, got %v", err)
	}

	img.Unmap(0x1000)
	if _, err := img.ReadMemory(0x1FFC, 4); !errors.Is(err, process.ErrAddressNotMapped) {
		t.Fatalf("expected ErrAddressNotMapped after unmap, got %v", err)
	}
}

func TestImageHandleLifecycle(t *testing.T) {
	img := NewImage(1, "game.exe")
	img.PutUINT8(0x1000, 1)

	img.Close()
	img.Close()
	if img.IsOpen() || img.Closes() != 1 {
		t.Fatalf("expected one close, open %v closes %d", img.IsOpen(), img.Closes())
	}
	if _, err := img.ReadMemory(0x1000, 1); !errors.Is(err, process.ErrProcessNotOpen) {
		t.Fatalf("expected ErrProcessNotOpen, got %v", err)
	}

	o := NewOpener(img)
	if _, err := o.OpenProcessByName("game.exe"); err != nil {
		t.Fatalf("expected reopen, got %v", err)
	}
	if !img.IsOpen() {
		t.Fatalf("expected handle to be open again")
	}

	img.Kill()
	if img.IsOpen() {
		t.Fatalf("expected killed image to be closed")
	}
	if _, err := o.OpenProcessByName("game.exe"); !errors.Is(err, process.ErrProcessNotFound) {
		t.Fatalf("expected ErrProcessNotFound, got %v", err)
	}
	if o.Attempts() != 2 {
		t.Fatalf("expected 2 attempts, got %d", o.Attempts())
	}
}

func TestImageModules(t *testing.T) {
	img := NewImage(1, "game.exe")
	img.AddModule(process.ModuleInfo{Name: "game.exe", Base: 0x140000000, Size: 0x1000})
	img.AddModule(process.ModuleInfo{Name: "game.exe", Base: 0x140000000, Size: 0x2000})

	m, err := img.GetModule("game.exe")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Size != 0x2000 || len(img.Modules()) != 1 {
		t.Fatalf("expected module to be replaced, got %v", img.Modules())
	}
	if _, err := img.GetModule("other.dll"); !errors.Is(err, process.ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	img := NewImage(42, "game.exe")
	img.AddModule(process.ModuleInfo{Name: "game.exe", Base: 0x140000000, Size: 0x5D73000})
	img.PutUINT64(0x140000010, 0xDEADBEEF)
	img.PutUINT64(0x140001000, 0x1234)
	img.PutUTF16(0x10000000, "/Game", 8)

	dir := t.TempDir()
	if err := img.Save(dir); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.GetPID() != 42 || loaded.Name() != "game.exe" {
		t.Fatalf("unexpected metadata pid %d name %q", loaded.GetPID(), loaded.Name())
	}

	v, err := process.Read[uint64](loaded, 0x140000010)
	if err != nil || v != 0xDEADBEEF {
		t.Fatalf("expected 0xDEADBEEF, got 0x%x (%v)", v, err)
	}
	v, err = process.Read[uint64](loaded, 0x140001000)
	if err != nil || v != 0x1234 {
		t.Fatalf("expected 0x1234, got 0x%x (%v)", v, err)
	}
	m, err := loaded.GetModule("game.exe")
	if err != nil || m.Size != 0x5D73000 {
		t.Fatalf("expected module to survive, got %v (%v)", m, err)
	}
	if _, err := loaded.ReadMemory(0x20000000, 1); !errors.Is(err, process.ErrAddressNotMapped) {
		t.Fatalf("expected unmapped read to fail, got %v", err)
	}
}

func TestRecorder(t *testing.T) {
	live := NewImage(7, "game.exe")
	live.AddModule(process.ModuleInfo{Name: "game.exe", Base: 0x140000000, Size: 0x1000})
	live.PutPointer(0x140000100, 0x10000000)
	live.PutUINT32(0x10000020, 99)

	rec := NewRecorder(live, "game.exe")
	if _, err := rec.GetModule("game.exe"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := process.ReadPath[uint32](rec, 0x140000000, 0x100, 0x20)
	if err != nil || v != 99 {
		t.Fatalf("expected 99, got %d (%v)", v, err)
	}
	if _, err := rec.ReadMemory(0x50000000, 4); err == nil {
		t.Fatalf("expected unmapped read to fail")
	}

	replay := rec.Image()
	v, err = process.ReadPath[uint32](replay, 0x140000000, 0x100, 0x20)
	if err != nil || v != 99 {
		t.Fatalf("expected replay to read 99, got %d (%v)", v, err)
	}
	if len(replay.Modules()) != 1 {
		t.Fatalf("expected recorded module, got %v", replay.Modules())
	}
	if _, err := replay.ReadMemory(0x50000000, 4); !errors.Is(err, process.ErrAddressNotMapped) {
		t.Fatalf("expected failed reads not to be recorded, got %v", err)
	}
}
