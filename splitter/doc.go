// Package splitter ties the game reader to a speedrun timer.
//
// A Splitter is driven by calling Update on a fixed cadence. Each call makes sure a
// game process is attached, samples game memory once and issues timer commands.
// Update never fails: read errors only mean nothing changes this tick.
package splitter
