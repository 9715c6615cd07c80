package game

import (
	"cosmicsplit/pod"
)

// TransitionDescriptionUnits is the width of the transition description buffer read from the engine
const TransitionDescriptionUnits = 34

// Transition classifies the level the engine is transitioning to
type Transition uint8

const (
	TransitionMenu Transition = iota + 1
	TransitionHub
	TransitionOverworld
)

const (
	MenuMap      = "/Game/CS/Maps/MainMenu/MainMenu_P"
	HubMap       = "/Game/CS/Maps/BikiniBottom/BB_P"
	OverworldMap = "/Game/CS/Maps/StreamingOverworld/Overworld_P"
)

var transitionMaps = map[string]Transition{
	MenuMap:      TransitionMenu,
	HubMap:       TransitionHub,
	OverworldMap: TransitionOverworld,
}

func (t Transition) String() string {
	switch t {
	case TransitionMenu:
		return "Menu"
	case TransitionHub:
		return "Hub"
	case TransitionOverworld:
		return "Overworld"
	}
	return "Unknown"
}

// ParseTransition classifies a level path. Any other path is not a Transition.
func ParseTransition(levelPath string) (Transition, bool) {
	t, ok := transitionMaps[levelPath]
	return t, ok
}

// DecodeTransition decodes the raw description buffer. The engine does not always
// terminate it, so the last unit is treated as the terminator.
func DecodeTransition(buf [TransitionDescriptionUnits]uint16) (Transition, bool) {
	levelPath, err := pod.CString16(buf[:])
	if err != nil {
		return 0, false
	}
	return ParseTransition(levelPath)
}
