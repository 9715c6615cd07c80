package splitter_test

import (
	"errors"
	"sync"
	"testing"

	"cosmicsplit/game"
	"cosmicsplit/game/gametest"
	"cosmicsplit/process"
	"cosmicsplit/process_blob"
	"cosmicsplit/splitter"
	"cosmicsplit/timer"
)

type diagnostics struct {
	mu       sync.Mutex
	messages []string
}

func (d *diagnostics) PrintMessage(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, msg)
}

func (d *diagnostics) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.messages)
}

type fixture struct {
	opener *process_blob.Opener
	timer  *timer.Recorder
	diag   *diagnostics
	s      *splitter.Splitter
}

func newFixture(settings splitter.Settings, games ...*gametest.Game) *fixture {
	f := &fixture{
		opener: process_blob.NewOpener(),
		timer:  timer.NewRecorder(),
		diag:   &diagnostics{},
	}
	for _, g := range games {
		f.opener.Add(g.Image)
	}
	f.s = splitter.New(splitter.Options{
		Opener:      f.opener,
		Timer:       f.timer,
		Settings:    splitter.StaticSettings(settings),
		Diagnostics: f.diag,
	})
	return f
}

func TestUpdateWithoutGame(t *testing.T) {
	f := newFixture(splitter.DefaultSettings())

	f.s.Update()
	f.s.Update()

	if f.s.Attached() {
		t.Fatalf("expected to stay detached")
	}
	if f.opener.Attempts() != 2 {
		t.Fatalf("expected an attach attempt per tick, got %d", f.opener.Attempts())
	}
	if len(f.timer.Commands()) != 0 {
		t.Fatalf("expected no timer commands, got %v", f.timer.Commands())
	}
	if f.diag.count() != 0 {
		t.Fatalf("expected no diagnostics for a missing process")
	}
}

func TestNewGameStartsTimer(t *testing.T) {
	g := gametest.New(100, game.V1_0_2)
	g.SetTransition(game.MenuMap)
	f := newFixture(splitter.DefaultSettings(), g)

	f.s.Update()
	if !f.s.Attached() {
		t.Fatalf("expected to attach")
	}
	if f.timer.Count(timer.CommandStart) != 0 {
		t.Fatalf("expected no start on the first tick, got %v", f.timer.Commands())
	}

	f.timer.Clear()
	g.SetTransition(game.HubMap)
	f.s.Update()

	got := f.timer.Commands()
	if len(got) < 2 || got[0] != timer.CommandReset || got[1] != timer.CommandStart {
		t.Fatalf("expected reset then start, got %v", got)
	}

	f.timer.Clear()
	f.s.Update()
	if f.timer.Count(timer.CommandStart) != 0 || f.timer.Count(timer.CommandReset) != 0 {
		t.Fatalf("expected Hub -> Hub not to start again, got %v", f.timer.Commands())
	}
}

func TestGameTimeFollowsLoading(t *testing.T) {
	g := gametest.New(100, game.V1_0_3)
	g.SetTransition(game.HubMap)
	g.SetFlowState(game.GameFlowGameplaySequence, 1)
	f := newFixture(splitter.DefaultSettings(), g)

	f.s.Update()
	if f.timer.Last() != timer.CommandResumeGameTime {
		t.Fatalf("expected resume, got %v", f.timer.Commands())
	}

	g.SetFlowState(game.GameFlowLoadingTransition, 1)
	f.s.Update()
	if f.timer.Last() != timer.CommandPauseGameTime {
		t.Fatalf("expected pause during a loading transition, got %v", f.timer.Commands())
	}

	g.SetFlowState(game.GameFlowGameplaySequence, 0)
	g.SetStreamingLevelsBeingLoaded(3)
	f.s.Update()
	if f.timer.Last() != timer.CommandPauseGameTime {
		t.Fatalf("expected pause while streaming with an empty state list, got %v", f.timer.Commands())
	}

	g.SetStreamingLevelsBeingLoaded(0)
	f.s.Update()
	if f.timer.Last() != timer.CommandResumeGameTime {
		t.Fatalf("expected resume once streaming finished, got %v", f.timer.Commands())
	}

	g.SetBegunPlay(false)
	f.s.Update()
	if f.timer.Last() != timer.CommandPauseGameTime {
		t.Fatalf("expected pause before the world has begun play, got %v", f.timer.Commands())
	}
}

func TestFinalSplit(t *testing.T) {
	g := gametest.New(100, game.V1_0_2)
	g.SetTransition(game.HubMap)
	g.SetFlowState(game.GameFlowBossBattle, 1)
	g.SetStreamingLevels(5)
	g.SetBossHealth(1)
	f := newFixture(splitter.DefaultSettings(), g)
	f.timer.SetState(timer.Running)

	f.s.Update()
	g.SetBossHealth(0)
	f.s.Update()
	if f.timer.Count(timer.CommandSplit) != 0 {
		t.Fatalf("expected no split when the boss health reaches zero")
	}

	g.SetFlowState(game.GameFlowCinematicSequence, 1)
	f.s.Update()
	if f.timer.Count(timer.CommandSplit) != 0 {
		t.Fatalf("expected no split during the cinematic")
	}

	g.SetFlowState(game.GameFlowLoadingTransition, 1)
	g.SetStreamingLevels(2)
	f.s.Update()
	f.s.Update()
	if got := f.timer.Count(timer.CommandSplit); got != 1 {
		t.Fatalf("expected exactly one split, got %d", got)
	}
}

func TestFinalSplitOnceAfterArenaUnloads(t *testing.T) {
	g := gametest.New(100, game.V1_0_2)
	g.SetTransition(game.HubMap)
	g.SetFlowState(game.GameFlowBossBattle, 1)
	g.SetStreamingLevels(5)
	g.SetBossHealth(1)
	f := newFixture(splitter.DefaultSettings(), g)
	f.timer.SetState(timer.Running)

	f.s.Update()
	g.SetBossHealth(0)
	f.s.Update()

	g.SetStreamingLevels(2)
	g.SetFlowState(game.GameFlowCinematicSequence, 1)
	f.s.Update()

	g.SetFlowState(game.GameFlowLoadingTransition, 1)
	for i := 0; i < 5; i++ {
		f.s.Update()
	}
	if got := f.timer.Count(timer.CommandSplit); got != 1 {
		t.Fatalf("expected exactly one split, got %d", got)
	}
}

func TestNewGameNotRepeatedOnUnknownLevel(t *testing.T) {
	g := gametest.New(100, game.V1_0_2)
	g.SetTransition(game.MenuMap)
	f := newFixture(splitter.Settings{ResetOnNewGame: true}, g)

	f.s.Update()
	g.SetTransition(game.HubMap)
	f.s.Update()

	g.SetTransition("/Game/Maps/Somewhere/Else")
	for i := 0; i < 3; i++ {
		f.s.Update()
	}
	if got := f.timer.Count(timer.CommandReset); got != 1 {
		t.Fatalf("expected one reset, got %d (%v)", got, f.timer.Commands())
	}
	if got := f.timer.Count(timer.CommandStart); got != 1 {
		t.Fatalf("expected one start, got %d (%v)", got, f.timer.Commands())
	}
}

func TestBossHealthIgnoredOutsideArena(t *testing.T) {
	g := gametest.New(100, game.V1_0_2)
	g.SetStreamingLevels(4)
	g.SetBossHealth(1)
	f := newFixture(splitter.DefaultSettings(), g)

	f.s.Update()
	g.SetBossHealth(0)
	f.s.Update()
	g.SetFlowState(game.GameFlowLoadingTransition, 1)
	f.s.Update()

	if f.timer.Count(timer.CommandSplit) != 0 {
		t.Fatalf("expected no split from a health value outside the arena")
	}
}

func TestUnknownVersion(t *testing.T) {
	g := gametest.NewWithModuleSize(100, 0x5D7_4000)
	f := newFixture(splitter.DefaultSettings(), g)

	f.s.Update()
	if f.s.Attached() {
		t.Fatalf("expected to stay detached")
	}
	if f.diag.count() != 1 || f.diag.messages[0] != splitter.MessageUnknownVersion {
		t.Fatalf("expected one diagnostic, got %v", f.diag.messages)
	}
	if g.IsOpen() || g.Closes() != 1 {
		t.Fatalf("expected the handle to be released, open %v closes %d", g.IsOpen(), g.Closes())
	}

	f.s.Update()
	if f.opener.Attempts() != 2 {
		t.Fatalf("expected a fresh attach attempt, got %d", f.opener.Attempts())
	}
	if f.diag.count() != 2 || g.Closes() != 2 {
		t.Fatalf("expected one diagnostic and one close per attempt, got %d / %d", f.diag.count(), g.Closes())
	}
	if len(f.timer.Commands()) != 0 {
		t.Fatalf("expected no timer commands, got %v", f.timer.Commands())
	}
}

func TestVersionFromImageHeader(t *testing.T) {
	g := gametest.NewWithModuleSize(100, 0x5D7_4000)
	g.SetImageHeader(gametest.ModuleSize(game.V1_0_3))
	f := newFixture(splitter.DefaultSettings(), g)

	f.s.Update()
	if !f.s.Attached() {
		t.Fatalf("expected SizeOfImage to pick the version, got %v", f.diag.messages)
	}
	if f.diag.count() != 0 {
		t.Fatalf("expected no diagnostics, got %v", f.diag.messages)
	}
}

type closeFails struct {
	*process_blob.Image
}

func (c closeFails) Close() error {
	c.Image.Close()
	return errors.New("handle already released")
}

func TestCloseErrorDoesNotStopDetach(t *testing.T) {
	g := gametest.New(100, game.V1_0_2)
	g.SetTransition(game.MenuMap)
	inner := process_blob.NewOpener()
	inner.Add(g.Image)
	s := splitter.New(splitter.Options{
		Opener: process.OpenerFunc(func(name string) (process.Process, error) {
			proc, err := inner.OpenProcessByName(name)
			if err != nil {
				return nil, err
			}
			return closeFails{proc.(*process_blob.Image)}, nil
		}),
		Timer:       timer.NewRecorder(),
		Diagnostics: &diagnostics{},
	})

	s.Update()
	if !s.Attached() {
		t.Fatalf("expected to attach")
	}

	g.Kill()
	s.Update()
	if s.Attached() {
		t.Fatalf("expected to detach when the process exits")
	}
	if g.Closes() != 1 {
		t.Fatalf("expected the handle to be closed once, got %d", g.Closes())
	}
}

func TestReattachStartsCold(t *testing.T) {
	first := gametest.New(100, game.V1_0_2)
	first.SetTransition(game.MenuMap)
	first.SetFlowState(game.GameFlowBossBattle, 1)
	first.SetStreamingLevels(5)
	first.SetBossHealth(1)
	f := newFixture(splitter.DefaultSettings(), first)

	f.s.Update()
	first.SetBossHealth(0)
	f.s.Update()

	// game restarts straight into the hub mid loading screen
	first.Kill()
	second := gametest.New(101, game.V1_0_2)
	second.SetTransition(game.HubMap)
	second.SetFlowState(game.GameFlowLoadingTransition, 1)
	f.opener.Add(second.Image)
	f.timer.Clear()

	f.s.Update()
	if !f.s.Attached() {
		t.Fatalf("expected to re-attach")
	}
	if first.Closes() != 1 {
		t.Fatalf("expected the old handle to be closed")
	}

	snap, ok := f.s.Snapshot()
	if !ok || snap.Transition == nil || snap.Transition.Changed() {
		t.Fatalf("expected a fresh transition pair, got %v", snap.Transition)
	}
	if f.timer.Count(timer.CommandStart) != 0 || f.timer.Count(timer.CommandReset) != 0 {
		t.Fatalf("expected no start after re-attach, got %v", f.timer.Commands())
	}
	if f.timer.Count(timer.CommandSplit) != 0 {
		t.Fatalf("expected the end of run latch to be discarded, got %v", f.timer.Commands())
	}
}

func TestTransientReadFailure(t *testing.T) {
	g := gametest.New(100, game.V1_0_2)
	g.SetTransition(game.MenuMap)
	f := newFixture(splitter.DefaultSettings(), g)

	f.s.Update()
	g.BreakEngine()
	f.s.Update()
	if !f.s.Attached() {
		t.Fatalf("expected read failures not to detach")
	}

	g.RestoreEngine()
	g.SetTransition(game.HubMap)
	f.s.Update()
	if f.timer.Count(timer.CommandStart) != 1 {
		t.Fatalf("expected the stale Menu sample to pair with Hub, got %v", f.timer.Commands())
	}
}

func TestConcurrentUpdates(t *testing.T) {
	g := gametest.New(100, game.V1_0_2)
	f := newFixture(splitter.DefaultSettings(), g)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				f.s.Update()
			}
		}()
	}
	wg.Wait()

	if f.opener.Attempts() != 1 {
		t.Fatalf("expected a single attach, got %d", f.opener.Attempts())
	}
	if got := len(f.timer.Commands()); got != 400 {
		t.Fatalf("expected one game time command per tick, got %d", got)
	}
}
