package main

import (
	"cosmicsplit/process"
	"cosmicsplit/process_windows"
)

func newOpener() process.Opener {
	return process_windows.NewOpener()
}
