// Package gametest lays out the engine objects the game package reads inside a
// process_blob.Image, so memory and splitter logic can be driven without the game.
package gametest

import (
	"cosmicsplit/game"
	"cosmicsplit/process"
	"cosmicsplit/process_blob"
)

const (
	ModuleBase process.ProcessMemoryAddress = 0x1_4000_0000

	engine          process.ProcessMemoryAddress = 0x1000_0000
	instance        process.ProcessMemoryAddress = 0x1010_0000
	unknown         process.ProcessMemoryAddress = 0x1020_0000
	flowManager     process.ProcessMemoryAddress = 0x1030_0000
	activeStates    process.ProcessMemoryAddress = 0x1040_0000
	description     process.ProcessMemoryAddress = 0x1050_0000
	worldContext    process.ProcessMemoryAddress = 0x1060_0000
	world           process.ProcessMemoryAddress = 0x1070_0000
	streamingLevels process.ProcessMemoryAddress = 0x1080_0000
	bossLevel       process.ProcessMemoryAddress = 0x1090_0000
	persistentLevel process.ProcessMemoryAddress = 0x10A0_0000
	actors          process.ProcessMemoryAddress = 0x10B0_0000
	boss            process.ProcessMemoryAddress = 0x10C0_0000
	healthComponent process.ProcessMemoryAddress = 0x10D0_0000
)

// Offsets shared by every supported build
const (
	gameEngineOffset = 0x0575_8730
	currentHealth    = 0x264
)

// ModuleSize returns the main module size the given build reports
func ModuleSize(v game.Version) process.ProcessMemorySize {
	switch v {
	case game.V1_0_2:
		return 0x5D7_3000
	case game.V1_0_3:
		return 0x5D4_B000
	}
	return 0x1000
}

// Game is a fake game process. A fresh Game sits in a loaded hub world with an
// empty flow state list and no boss arena.
type Game struct {
	*process_blob.Image
}

func New(pid process.ProcessID, v game.Version) *Game {
	return NewWithModuleSize(pid, ModuleSize(v))
}

func NewWithModuleSize(pid process.ProcessID, size process.ProcessMemorySize) *Game {
	img := process_blob.NewImage(pid, game.Executable)
	img.AddModule(process.ModuleInfo{Name: game.Executable, Base: ModuleBase, Size: size})

	g := &Game{Image: img}

	img.PutPointer(ModuleBase+gameEngineOffset, engine)
	img.PutPointer(engine+0xD28, instance)
	img.PutPointer(instance+0xF0, unknown)
	img.PutPointer(unknown+0xC8, flowManager)
	img.PutPointer(flowManager+0x60, activeStates)
	img.PutPointer(engine+0x8B0, description)
	img.PutPointer(instance+0x30, worldContext)

	img.PutPointer(world+0x88, streamingLevels)
	img.PutPointer(streamingLevels+0x8, bossLevel)
	img.PutPointer(bossLevel+0x128, persistentLevel)
	img.PutPointer(persistentLevel+0x98, actors)
	img.PutPointer(actors+0x3F0, boss)
	img.PutPointer(boss+0x508, healthComponent)

	g.SetTransition("")
	g.SetFlowState(game.GameFlowUndefined, 0)
	g.SetWorld(true)
	g.SetBegunPlay(true)
	g.SetStreamingLevelsBeingLoaded(0)
	g.SetStreamingLevels(1)
	g.SetBossHealth(0)
	return g
}

// SetTransition writes a level path into the description buffer
func (g *Game) SetTransition(levelPath string) {
	g.PutUTF16(description, levelPath, game.TransitionDescriptionUnits)
}

// SetRawTransition writes the description buffer as is, without a terminator
func (g *Game) SetRawTransition(units [game.TransitionDescriptionUnits]uint16) {
	for i, u := range units {
		g.PutUINT16(description+process.ProcessMemoryAddress(i*2), u)
	}
}

// SetFlowState stores the first active flow state and the list length
func (g *Game) SetFlowState(state game.GameFlowState, listLen uint32) {
	g.PutUINT8(activeStates, uint8(state))
	g.PutUINT32(flowManager+0x68, listLen)
}

// SetRawFlowState stores an arbitrary byte as the first active flow state
func (g *Game) SetRawFlowState(b uint8, listLen uint32) {
	g.PutUINT8(activeStates, b)
	g.PutUINT32(flowManager+0x68, listLen)
}

// SetWorld points the world context at the world, or at nothing
func (g *Game) SetWorld(present bool) {
	if present {
		g.PutPointer(worldContext+0x280, world)
		return
	}
	g.PutPointer(worldContext+0x280, 0)
}

// BreakWorldContext makes the world pointer unreadable
func (g *Game) BreakWorldContext() {
	g.Unmap(worldContext)
}

// BreakEngine makes every path unreadable
func (g *Game) BreakEngine() {
	g.Unmap(ModuleBase + gameEngineOffset)
}

// RestoreEngine undoes BreakEngine
func (g *Game) RestoreEngine() {
	g.PutPointer(ModuleBase+gameEngineOffset, engine)
}

// SetBegunPlay sets bit 0 of the world flags byte, keeping the other bits set
func (g *Game) SetBegunPlay(begun bool) {
	var flags uint8 = 0xFE
	if begun {
		flags |= 1
	}
	g.PutUINT8(world+0x10D, flags)
}

func (g *Game) SetStreamingLevelsBeingLoaded(n uint16) {
	g.PutUINT16(world+0x5EA, n)
}

// SetStreamingLevels sets the streaming level count; 5 means the boss arena is loaded
func (g *Game) SetStreamingLevels(n uint32) {
	g.PutUINT32(world+0x90, n)
}

func (g *Game) SetBossHealth(health uint32) {
	g.PutUINT32(healthComponent+currentHealth, health)
}

// SetImageHeader writes a PE32+ header at the module base reporting size as SizeOfImage
func (g *Game) SetImageHeader(size process.ProcessMemorySize) {
	const nt = 0x100
	g.PutUINT16(ModuleBase, 0x5A4D)
	g.PutUINT32(ModuleBase+0x3C, nt)
	g.PutUINT32(ModuleBase+nt, 0x00004550)
	g.PutUINT16(ModuleBase+nt+0x18, 0x20B)
	g.PutUINT32(ModuleBase+nt+0x18+0x38, uint32(size))
}

// BreakBoss makes the boss health path fail at the actor array
func (g *Game) BreakBoss() {
	g.Unmap(actors)
}
