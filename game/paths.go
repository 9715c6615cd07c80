package game

import (
	"cosmicsplit/process"
)

type offset = process.ProcessMemorySize

// offsets is the complete set of engine offsets for one build. Builds do not share
// fields: a patch can move any of them independently.
type offsets struct {
	gameEngine      offset // GEngine, relative to the module base
	gameInstance    offset
	unknownObject   offset // between GameInstance and the flow manager, type not identified
	gameFlowManager offset
	activeStates    offset // TArray data pointer of active flow states
	activeStatesLen offset // TArray Num; the engine zeroes it and keeps stale data around

	transitionDescription offset

	worldContext                  offset
	currentWorld                  offset
	numStreamingLevelsBeingLoaded offset
	begunPlay                     offset
	begunPlayBit                  uint8

	streamingLevels    offset
	streamingLevelsLen offset
	persistentLevel    offset
	actors             offset
	healthComponent    offset
	currentHealth      offset

	// Fixed array slots locating the final boss. Fragile to content changes.
	bossStreamingLevel offset // 2nd streaming level
	bossActor          offset // 0x7E'th actor
	bossLevelCount     uint32 // streaming level count while the boss arena is loaded
}

var versionOffsets = map[Version]offsets{
	V1_0_2: {
		gameEngine:      0x0575_8730,
		gameInstance:    0xD28,
		unknownObject:   0xF0,
		gameFlowManager: 0xC8,
		activeStates:    0x60,
		activeStatesLen: 0x68,

		transitionDescription: 0x8B0,

		worldContext:                  0x30,
		currentWorld:                  0x280,
		numStreamingLevelsBeingLoaded: 0x5EA,
		begunPlay:                     0x10D,
		begunPlayBit:                  0,

		streamingLevels:    0x88,
		streamingLevelsLen: 0x90,
		persistentLevel:    0x128,
		actors:             0x98,
		healthComponent:    0x508,
		currentHealth:      0x264,

		bossStreamingLevel: 0x8,
		bossActor:          0x3F0,
		bossLevelCount:     5,
	},
	V1_0_3: {
		gameEngine:      0x0575_8730,
		gameInstance:    0xD28,
		unknownObject:   0xF0,
		gameFlowManager: 0xC8,
		activeStates:    0x60,
		activeStatesLen: 0x68,

		transitionDescription: 0x8B0,

		worldContext:                  0x30,
		currentWorld:                  0x280,
		numStreamingLevelsBeingLoaded: 0x5EA,
		begunPlay:                     0x10D,
		begunPlayBit:                  0,

		streamingLevels:    0x88,
		streamingLevelsLen: 0x90,
		persistentLevel:    0x128,
		actors:             0x98,
		healthComponent:    0x508,
		currentHealth:      0x264,

		bossStreamingLevel: 0x8,
		bossActor:          0x3F0,
		bossLevelCount:     5,
	},
}

// Paths holds one pointer path per observed quantity for a single build.
// All paths start at the main module base.
type Paths struct {
	Version Version

	GameFlowState                 process.Path[GameFlowState]
	GameFlowStateLen              process.Path[uint32]
	TransitionDescription         process.Path[[TransitionDescriptionUnits]uint16]
	CurrentWorld                  process.Path[uint64]
	NumStreamingLevelsBeingLoaded process.Path[uint16]
	BegunPlay                     process.BitPath
	BossHealth                    process.Path[uint32]
	StreamingLevelsLen            process.Path[uint32]

	// BossLevelCount is the StreamingLevelsLen value that makes BossHealth trustworthy
	BossLevelCount uint32
}

// NewPaths builds the path table for a build; ok is false for an unknown build
func NewPaths(v Version) (Paths, bool) {
	o, ok := versionOffsets[v]
	if !ok {
		return Paths{}, false
	}

	flowManager := []offset{o.gameEngine, o.gameInstance, o.unknownObject, o.gameFlowManager}
	world := []offset{o.gameEngine, o.gameInstance, o.worldContext, o.currentWorld}

	return Paths{
		Version: v,

		GameFlowState:                 process.MustPath[GameFlowState](join(flowManager, o.activeStates, 0x0)...),
		GameFlowStateLen:              process.MustPath[uint32](join(flowManager, o.activeStatesLen)...),
		TransitionDescription:         process.MustPath[[TransitionDescriptionUnits]uint16](o.gameEngine, o.transitionDescription, 0x0),
		CurrentWorld:                  process.MustPath[uint64](world...),
		NumStreamingLevelsBeingLoaded: process.MustPath[uint16](join(world, o.numStreamingLevelsBeingLoaded)...),
		BegunPlay:                     process.MustBitPath(process.MustPath[uint8](join(world, o.begunPlay)...), o.begunPlayBit),
		BossHealth: process.MustPath[uint32](join(world,
			o.streamingLevels,
			o.bossStreamingLevel,
			o.persistentLevel,
			o.actors,
			o.bossActor,
			o.healthComponent,
			o.currentHealth,
		)...),
		StreamingLevelsLen: process.MustPath[uint32](join(world, o.streamingLevelsLen)...),

		BossLevelCount: o.bossLevelCount,
	}, true
}

func join(prefix []offset, rest ...offset) []offset {
	out := make([]offset, 0, len(prefix)+len(rest))
	out = append(out, prefix...)
	return append(out, rest...)
}
