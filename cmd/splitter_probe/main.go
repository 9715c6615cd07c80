package main

import (
	"flag"
	"fmt"
	"os"

	"cosmicsplit/config"
	"cosmicsplit/game"
	"cosmicsplit/hexdump"
	"cosmicsplit/pod"
	"cosmicsplit/process"
	"cosmicsplit/process/memory_map"
	"cosmicsplit/process_blob"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// probe reads every game path once and prints what the splitter would see
func main() {
	exeFlag := flag.String("exe", game.Executable, "Executable name of the game process")
	fromFlag := flag.String("from", "", "Read from a saved recording instead of the running game")
	saveFlag := flag.String("save", "", "Save every read to this directory for offline replay")
	hexFlag := flag.Bool("hex", false, "Hexdump the bytes behind each path")
	flag.Parse()

	proc, err := open(*exeFlag, *fromFlag)
	if err != nil {
		config.Exitf("Error opening %s: %v", *exeFlag, err)
	}
	defer proc.Close()

	isPointer := pointerCheck(proc)

	var recorder *process_blob.Recorder
	if *saveFlag != "" {
		recorder = process_blob.NewRecorder(proc, *exeFlag)
		proc = recorder
	}

	module, err := proc.GetModule(*exeFlag)
	if err != nil {
		config.Exitf("Error finding module %s: %v", *exeFlag, err)
	}
	fmt.Printf("Module: %s, %s\n", module.String(), humanize.IBytes(uint64(module.Size)))

	size := module.Size
	if imageSize, err := process.ImageSize(proc, module.Base); err == nil {
		size = imageSize
		fmt.Printf("SizeOfImage: %s\n", size.ToString())
	} else {
		fmt.Printf("PE header: %v\n", err)
	}

	version, ok := game.VersionFromModuleSize(size)
	if !ok {
		config.Exitf("Unknown module size %s. Game version not supported.", size.ToString())
	}
	paths, _ := game.NewPaths(version)
	fmt.Printf("Version: %s\n\n", version)

	t := newTable(
		column{header: "Quantity"},
		column{header: "Address", format: func(s string) string { return coloransi.Foreground(coloransi.Cyan, s) }},
		column{header: "Value", format: colorValue},
		column{header: "Path"},
	)

	base := module.Base
	var dumps []dump

	addPath(t, &dumps, proc, base, "game flow state len", paths.GameFlowStateLen)
	addPath(t, &dumps, proc, base, "game flow state", paths.GameFlowState)
	addPath(t, &dumps, proc, base, "transition description", paths.TransitionDescription)
	addPath(t, &dumps, proc, base, "current world", paths.CurrentWorld)
	addPath(t, &dumps, proc, base, "streaming levels loading", paths.NumStreamingLevelsBeingLoaded)
	addPath(t, &dumps, proc, base, "streaming levels", paths.StreamingLevelsLen)
	addPath(t, &dumps, proc, base, "boss health", paths.BossHealth)

	begun, err := paths.BegunPlay.Read(proc, base)
	addr, _ := paths.BegunPlay.Path().Resolve(proc, base)
	t.addRow("begun play", addrString(addr), valueString(begun, err), paths.BegunPlay.String())

	t.render(os.Stdout)

	snap := game.NewMemory(paths, nil).Update(proc, base)
	fmt.Printf("\nLoading: %v\n", snap.Loading)
	if snap.Transition != nil {
		fmt.Printf("Transition: %v\n", snap.Transition.Current)
	}
	if snap.GameFlowState != nil {
		fmt.Printf("Game flow state: %v\n", snap.GameFlowState.Current)
	}

	if *hexFlag {
		for _, d := range dumps {
			fmt.Printf("\n%s @ 0x%x\n", d.name, d.addr)
			o := hexdump.DefaultOptions()
			o.StartAddress = uint64(d.addr)
			o.Wide = d.wide
			o.IsPointer = isPointer
			o.Plain = !isatty.IsTerminal(os.Stdout.Fd())
			fmt.Print(hexdump.Dump(d.data, o))
		}
	}

	if recorder != nil {
		if err := recorder.Image().Save(*saveFlag); err != nil {
			config.Exitf("Error saving recording: %v", err)
		}
		fmt.Printf("\nRecording saved to %s\n", *saveFlag)
	}
}

func open(exe, from string) (process.Process, error) {
	if from != "" {
		img, err := process_blob.Load(from)
		if err != nil {
			return nil, err
		}
		fmt.Printf("Loaded recording from %s (pid %d)\n", from, img.GetPID())
		return img, nil
	}
	return newOpener().OpenProcessByName(exe)
}

// pointerCheck prefers the process memory map and falls back to a probing read
func pointerCheck(proc process.Process) func(uint64) bool {
	if mp, ok := proc.(interface {
		GetMemoryMap() ([]memory_map.MemoryMapItem, error)
	}); ok {
		if mm, err := mp.GetMemoryMap(); err == nil {
			return func(v uint64) bool { return memory_map.ContainsRange(v, uint64(process.PointerSize), mm) }
		}
	}
	return func(v uint64) bool {
		_, err := proc.ReadMemory(process.ProcessMemoryAddress(v), 1)
		return err == nil
	}
}

type dump struct {
	name string
	addr process.ProcessMemoryAddress
	data []byte
	wide bool
}

func addPath[T any](t *table, dumps *[]dump, proc process.Process, base process.ProcessMemoryAddress, name string, path process.Path[T]) {
	addr, err := path.Resolve(proc, base)
	if err != nil {
		t.addRow(name, "", valueString[T](*new(T), err), path.String())
		return
	}

	v, err := path.Read(proc, base)
	t.addRow(name, addrString(addr), valueString(v, err), path.String())

	if data, err := proc.ReadMemory(addr, process.ProcessMemorySize(pod.SizeOf[T]())); err == nil {
		*dumps = append(*dumps, dump{name: name, addr: addr, data: data, wide: name == "transition description"})
	}
}

func addrString(addr process.ProcessMemoryAddress) string {
	if addr.IsNull() {
		return ""
	}
	return addr.ToString()
}

func valueString[T any](v T, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	switch x := any(v).(type) {
	case [game.TransitionDescriptionUnits]uint16:
		s, err := pod.CString16(x[:])
		if err != nil {
			return "error: " + err.Error()
		}
		return fmt.Sprintf("%q", s)
	case uint64:
		return fmt.Sprintf("0x%x", x)
	}
	return fmt.Sprintf("%v", v)
}

func colorValue(s string) string {
	if len(s) >= 6 && s[:6] == "error:" {
		return coloransi.Foreground(coloransi.Red, s)
	}
	return coloransi.Foreground(coloransi.Green, s)
}
