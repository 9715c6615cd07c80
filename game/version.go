package game

import (
	"fmt"

	"cosmicsplit/process"
)

// Executable is the main module of the game, also used to find the process
const Executable = "CosmicShake-Win64-Shipping.exe"

// Version identifies a supported game build
type Version uint8

const (
	V1_0_2 Version = iota + 1 // Revision 684088
	V1_0_3                    // Revision 687718
)

var moduleSizes = map[process.ProcessMemorySize]Version{
	0x5D7_3000: V1_0_2,
	0x5D4_B000: V1_0_3,
}

// VersionFromModuleSize matches the exact size of the main module against known builds
func VersionFromModuleSize(size process.ProcessMemorySize) (Version, bool) {
	v, ok := moduleSizes[size]
	return v, ok
}

func (v Version) String() string {
	switch v {
	case V1_0_2:
		return "1.0.2"
	case V1_0_3:
		return "1.0.3"
	}
	return fmt.Sprintf("Version(%d)", uint8(v))
}
