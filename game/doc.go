// Package game knows where the interesting values live in the game process.
//
// Offsets differ between builds, so each supported build is identified by the size of
// the main module and owns a complete, independent offset set. Memory samples every
// tracked quantity once per tick through those paths and keeps an old/current pair per
// quantity; a failed read leaves that quantity's pair untouched for the tick.
package game
