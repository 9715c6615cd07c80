package splitter

import (
	"cosmicsplit/game"
	"cosmicsplit/timer"
)

// engine turns one snapshot into timer commands. Its only state is the end of run
// latch, which lives as long as the session.
type engine struct {
	readyToEnd bool
}

// step issues commands in a fixed order: start or reset, then game time pause or
// resume, then the final split.
func (e *engine) step(snap game.Snapshot, settings Settings, t timer.Timer) {
	e.startOrReset(snap, settings, t)

	if pauseGameTime(snap) {
		t.PauseGameTime()
	} else {
		t.ResumeGameTime()
	}

	e.split(snap, t)
}

// startOrReset fires when the game leaves the main menu for the hub, i.e. a new game
func (e *engine) startOrReset(snap game.Snapshot, settings Settings, t timer.Timer) {
	if !snap.NewGame() {
		return
	}

	if settings.ResetOnNewGame {
		t.Reset()
	}
	if t.State() == timer.NotRunning {
		t.Start()
		e.readyToEnd = false
	}
}

// pauseGameTime reports whether game time should stand still this tick
func pauseGameTime(snap game.Snapshot) bool {
	if snap.BegunPlay == nil || !snap.BegunPlay.Current {
		return true
	}

	if snap.Transition != nil && snap.Transition.Current == game.TransitionMenu {
		return snap.Loading
	}

	// Undefined means the active state list was empty, which is no better than no sample
	if snap.GameFlowState == nil || snap.GameFlowState.Current == game.GameFlowUndefined {
		return snap.Loading
	}

	switch snap.GameFlowState.Current {
	case game.GameFlowQuickTravelTransition, game.GameFlowLoadingTransition:
		return true
	case game.GameFlowRescue:
		return snap.Loading
	}
	return false
}

// split latches when the final boss health drops to zero and splits on the next
// loading transition, once the defeat cinematic has played. Only a sampled drop
// latches: the health pair is left as is once the arena unloads.
func (e *engine) split(snap game.Snapshot, t timer.Timer) {
	if snap.BossDefeated() {
		e.readyToEnd = true
	}

	if e.readyToEnd && snap.GameFlowState != nil && snap.GameFlowState.Current == game.GameFlowLoadingTransition {
		e.readyToEnd = false
		t.Split()
	}
}
