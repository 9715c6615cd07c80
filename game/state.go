package game

import "fmt"

// GameFlowState is the engine's active game-flow state, stored as a byte
type GameFlowState uint8

const (
	GameFlowUndefined GameFlowState = iota
	GameFlowBossBattle
	GameFlowGameplaySequence
	GameFlowCinematicSequence
	GameFlowLoadingTransition
	GameFlowNPCDialogue
	GameFlowQuickTravelTransition
	GameFlowVideoPlayer
	GameFlowMount
	GameFlowRescue
	GameFlowChallenge
	GameFlowMinigame
	GameFlowTutorial
	GameFlowSlingshot

	gameFlowStateCount
)

var gameFlowStateNames = [...]string{
	GameFlowUndefined:             "Undefined",
	GameFlowBossBattle:            "BossBattleState",
	GameFlowGameplaySequence:      "GameplaySequenceState",
	GameFlowCinematicSequence:     "CinematicSequenceState",
	GameFlowLoadingTransition:     "LoadingTransitionState",
	GameFlowNPCDialogue:           "NPCDialogueState",
	GameFlowQuickTravelTransition: "QuickTravelTransitionState",
	GameFlowVideoPlayer:           "VideoPlayerState",
	GameFlowMount:                 "MountState",
	GameFlowRescue:                "RescueState",
	GameFlowChallenge:             "ChallengeState",
	GameFlowMinigame:              "MinigameState",
	GameFlowTutorial:              "TutorialState",
	GameFlowSlingshot:             "SlingshotState",
}

// ValidBitPattern rejects bytes that do not name a state, so a garbage read fails
// instead of decoding into an invalid state.
func (s GameFlowState) ValidBitPattern() bool {
	return s < gameFlowStateCount
}

func (s GameFlowState) String() string {
	if !s.ValidBitPattern() {
		return fmt.Sprintf("GameFlowState(%d)", uint8(s))
	}
	return gameFlowStateNames[s]
}
