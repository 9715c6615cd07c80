package splitter

import (
	"fmt"

	"cosmicsplit/game"
	"cosmicsplit/process"
)

// MessageUnknownVersion is sent to Diagnostics when the main module size matches no known build
const MessageUnknownVersion = "Unknown module size. Game version not supported."

// session is everything known about one attached game process. It is thrown away
// as a whole when the process goes away.
type session struct {
	proc   process.Process
	module process.ModuleInfo
	memory *game.Memory
	engine engine
}

func (s *Splitter) attach() (*session, error) {
	proc, err := s.opener.OpenProcessByName(s.executable)
	if err != nil {
		return nil, err
	}

	module, err := proc.GetModule(s.executable)
	if err != nil {
		s.closeProcess(proc)
		return nil, fmt.Errorf("main module: %w", err)
	}

	size := s.moduleSize(proc, module)
	version, ok := game.VersionFromModuleSize(size)
	if !ok {
		s.closeProcess(proc)
		s.diag.PrintMessage(MessageUnknownVersion)
		return nil, fmt.Errorf("module size %s: %w", size.ToString(), ErrUnknownVersion)
	}

	paths, ok := game.NewPaths(version)
	if !ok {
		s.closeProcess(proc)
		return nil, fmt.Errorf("version %v: %w", version, ErrUnknownVersion)
	}

	s.log.Infoln("Attached to", s.executable, "pid", proc.GetPID(), "version", version, "module", module.String())

	return &session{
		proc:   proc,
		module: module,
		memory: game.NewMemory(paths, s.log),
	}, nil
}

// moduleSize prefers SizeOfImage from the PE header over the size the process
// backend reports for the module.
func (s *Splitter) moduleSize(proc process.Process, module process.ModuleInfo) process.ProcessMemorySize {
	size, err := process.ImageSize(proc, module.Base)
	if err != nil {
		s.log.Debugln("PE header unreadable, using module size", module.Size.ToString()+":", err)
		return module.Size
	}
	if size != module.Size {
		s.log.Debugln("SizeOfImage", size.ToString(), "differs from module size", module.Size.ToString())
	}
	return size
}

func (s *Splitter) closeProcess(proc process.Process) {
	if err := proc.Close(); err != nil {
		s.log.Debugln("close process", proc.GetPID(), "failed:", err)
	}
}
