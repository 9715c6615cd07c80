package game

import (
	"cosmicsplit/process"
	"cosmicsplit/watcher"

	"github.com/Moonlight-Companies/gologger/logger"
)

// Snapshot is the read-only view of one tick. A nil pair means the quantity has
// never been read successfully since attach.
type Snapshot struct {
	Transition    *watcher.Pair[Transition]
	GameFlowState *watcher.Pair[GameFlowState]
	BegunPlay     *watcher.Pair[bool]
	BossHealth    *watcher.Pair[uint32]

	// TransitionSampled and BossHealthSampled are true when the pair was
	// updated by this tick's read rather than carried over from an older one
	TransitionSampled bool
	BossHealthSampled bool

	// Loading is derived from fresh reads of this tick, see Memory.Update
	Loading bool
}

// NewGame reports a fresh main menu to hub transition
func (s Snapshot) NewGame() bool {
	return s.TransitionSampled && s.Transition != nil && s.Transition.ChangedFromTo(TransitionMenu, TransitionHub)
}

// BossDefeated reports a fresh drop of the final boss health to zero
func (s Snapshot) BossDefeated() bool {
	return s.BossHealthSampled && s.BossHealth != nil && s.BossHealth.ChangedTo(0)
}

// Memory samples the tracked quantities of one attached process
type Memory struct {
	paths Paths
	log   *logger.Logger

	transition    watcher.Watcher[Transition]
	gameFlowState watcher.Watcher[GameFlowState]
	begunPlay     watcher.Watcher[bool]
	bossHealth    watcher.Watcher[uint32]
	loading       bool

	transitionSampled bool
	bossHealthSampled bool

	failing map[string]bool
}

func NewMemory(paths Paths, log *logger.Logger) *Memory {
	return &Memory{
		paths:   paths,
		log:     log,
		failing: make(map[string]bool),
	}
}

func (m *Memory) Paths() Paths {
	return m.paths
}

// Update reads every quantity once. Each read is independent: one failing path
// does not keep the others from updating.
func (m *Memory) Update(r process.MemoryReader, base process.ProcessMemoryAddress) Snapshot {
	_, m.transitionSampled = m.transition.Update(m.readTransition(r, base))
	m.gameFlowState.Update(m.readGameFlowState(r, base))

	begunPlay, err := m.paths.BegunPlay.Read(r, base)
	m.note("begun play", err)
	m.begunPlay.Update(begunPlay, err == nil)

	_, m.bossHealthSampled = m.bossHealth.Update(m.readBossHealth(r, base))

	m.loading = m.readIsLoading(r, base, begunPlay && err == nil)

	return m.Snapshot()
}

func (m *Memory) Snapshot() Snapshot {
	return Snapshot{
		Transition:    pairOf(&m.transition),
		GameFlowState: pairOf(&m.gameFlowState),
		BegunPlay:     pairOf(&m.begunPlay),
		BossHealth:    pairOf(&m.bossHealth),

		TransitionSampled: m.transitionSampled,
		BossHealthSampled: m.bossHealthSampled,

		Loading: m.loading,
	}
}

func pairOf[T comparable](w *watcher.Watcher[T]) *watcher.Pair[T] {
	p, ok := w.Pair()
	if !ok {
		return nil
	}
	return &p
}

func (m *Memory) readTransition(r process.MemoryReader, base process.ProcessMemoryAddress) (Transition, bool) {
	buf, err := m.paths.TransitionDescription.Read(r, base)
	m.note("transition description", err)
	if err != nil {
		return 0, false
	}
	// Levels we do not care about leave the last known transition in place
	return DecodeTransition(buf)
}

// readGameFlowState reports Undefined while the active state list is empty. The engine
// clears the list length during some transitions but leaves the stale state behind.
func (m *Memory) readGameFlowState(r process.MemoryReader, base process.ProcessMemoryAddress) (GameFlowState, bool) {
	n, err := m.paths.GameFlowStateLen.Read(r, base)
	m.note("game flow state length", err)
	if err != nil {
		return 0, false
	}
	if n == 0 {
		return GameFlowUndefined, true
	}

	state, err := m.paths.GameFlowState.Read(r, base)
	m.note("game flow state", err)
	if err != nil {
		return 0, false
	}
	return state, true
}

// readBossHealth only trusts the health value while the boss arena is streamed in
func (m *Memory) readBossHealth(r process.MemoryReader, base process.ProcessMemoryAddress) (uint32, bool) {
	levels, err := m.paths.StreamingLevelsLen.Read(r, base)
	m.note("streaming levels length", err)
	if err != nil || levels != m.paths.BossLevelCount {
		return 0, false
	}

	health, err := m.paths.BossHealth.Read(r, base)
	m.note("boss health", err)
	if err != nil {
		return 0, false
	}
	return health, true
}

// readIsLoading is true when there is no world, the world has not begun play, or
// streaming levels are still loading. An unreadable world pointer is not loading.
func (m *Memory) readIsLoading(r process.MemoryReader, base process.ProcessMemoryAddress, begunPlay bool) bool {
	world, err := m.paths.CurrentWorld.Read(r, base)
	m.note("current world", err)
	if err != nil {
		return false
	}

	streaming, err := m.paths.NumStreamingLevelsBeingLoaded.Read(r, base)
	if err != nil {
		streaming = 0
	}

	return world == 0 || !begunPlay || streaming > 0
}

// note logs when a quantity starts or stops failing, not on every tick
func (m *Memory) note(name string, err error) {
	if m.log == nil {
		return
	}
	was := m.failing[name]
	switch {
	case err != nil && !was:
		m.failing[name] = true
		m.log.Debugln("read failed:", name, err)
	case err == nil && was:
		m.failing[name] = false
		m.log.Debugln("read recovered:", name)
	}
}
