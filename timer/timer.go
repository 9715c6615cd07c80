// Package timer is the speedrun timer the splitter drives.
package timer

import "sync"

// State is the timer phase as reported by the host
type State uint8

const (
	NotRunning State = iota
	Running
	Paused
	Ended
)

func (s State) String() string {
	switch s {
	case NotRunning:
		return "NotRunning"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	case Ended:
		return "Ended"
	}
	return "Unknown"
}

// ParseState parses a phase name as LiveSplit reports it
func ParseState(s string) (State, bool) {
	for _, st := range []State{NotRunning, Running, Paused, Ended} {
		if st.String() == s {
			return st, true
		}
	}
	return NotRunning, false
}

// Timer is the set of commands the splitter issues. Commands are fire and forget;
// the host decides whether they apply to its current phase.
type Timer interface {
	Start()
	Reset()
	Split()
	PauseGameTime()
	ResumeGameTime()
	State() State
}

// Command names a Timer call, as seen by a Recorder
type Command string

const (
	CommandStart          Command = "start"
	CommandReset          Command = "reset"
	CommandSplit          Command = "split"
	CommandPauseGameTime  Command = "pause"
	CommandResumeGameTime Command = "resume"
)

// Recorder is a Timer that keeps every command in call order. Its phase only changes
// through SetState, the way a host applies commands on its own schedule.
type Recorder struct {
	mu       sync.Mutex
	state    State
	commands []Command
}

var _ Timer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, c)
}

func (r *Recorder) Start()          { r.record(CommandStart) }
func (r *Recorder) Reset()          { r.record(CommandReset) }
func (r *Recorder) Split()          { r.record(CommandSplit) }
func (r *Recorder) PauseGameTime()  { r.record(CommandPauseGameTime) }
func (r *Recorder) ResumeGameTime() { r.record(CommandResumeGameTime) }

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SetState sets the phase State reports
func (r *Recorder) SetState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s
}

// Commands returns a copy of the recorded commands
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.commands...)
}

// Count returns how many times c was issued
func (r *Recorder) Count(c Command) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, got := range r.commands {
		if got == c {
			n++
		}
	}
	return n
}

// Last returns the most recent command, or "" when none was issued
func (r *Recorder) Last() Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.commands) == 0 {
		return ""
	}
	return r.commands[len(r.commands)-1]
}

// Clear forgets the recorded commands, keeping the phase
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
}
