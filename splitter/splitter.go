package splitter

import (
	"errors"
	"sync"

	"cosmicsplit/game"
	"cosmicsplit/process"
	"cosmicsplit/timer"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// ErrUnknownVersion is returned by an attach attempt when the main module size
// matches no supported build.
var ErrUnknownVersion = errors.New("unknown game version")

type Options struct {
	// Executable defaults to game.Executable
	Executable string

	Opener      process.Opener
	Timer       timer.Timer
	Settings    SettingsSource
	Diagnostics Diagnostics
}

// Splitter owns the attached game session. It is safe to call Update from
// several goroutines; calls are serialized.
type Splitter struct {
	mu sync.Mutex

	executable string
	opener     process.Opener
	timer      timer.Timer
	settings   SettingsSource
	diag       Diagnostics
	log        *logger.Logger

	session *session
}

func New(opts Options) *Splitter {
	s := &Splitter{
		executable: opts.Executable,
		opener:     opts.Opener,
		timer:      opts.Timer,
		settings:   opts.Settings,
		diag:       opts.Diagnostics,
		log:        logger.NewLogger(coloransi.Color(coloransi.Green, coloransi.BrightBlack, "splitter")),
	}
	if s.executable == "" {
		s.executable = game.Executable
	}
	if s.settings == nil {
		s.settings = StaticSettings(DefaultSettings())
	}
	if s.diag == nil {
		s.diag = DiagnosticsFunc(func(msg string) { s.log.Warn(msg) })
	}
	return s
}

// Update runs one tick: attach if needed, sample memory, drive the timer
func (s *Splitter) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureAttached()
	if s.session == nil {
		return
	}

	settings := s.settings.Settings()
	snap := s.session.memory.Update(s.session.proc, s.session.module.Base)
	s.session.engine.step(snap, settings, s.timer)
}

// Attached reports whether a game process is currently attached
func (s *Splitter) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// Snapshot returns the last memory snapshot, ok is false while detached
func (s *Splitter) Snapshot() (game.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return game.Snapshot{}, false
	}
	return s.session.memory.Snapshot(), true
}

// Close releases the attached process, if any
func (s *Splitter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	err := s.session.proc.Close()
	s.session = nil
	return err
}

func (s *Splitter) ensureAttached() {
	if s.session != nil {
		if s.session.proc.IsOpen() {
			return
		}
		s.log.Infoln("Game process", s.session.proc.GetPID(), "closed, detaching")
		s.closeProcess(s.session.proc)
		s.session = nil
	}

	sess, err := s.attach()
	if err != nil {
		if !errors.Is(err, process.ErrProcessNotFound) {
			s.log.Debugln("attach failed:", err)
		}
		return
	}
	s.session = sess
}
