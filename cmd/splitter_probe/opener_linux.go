package main

import (
	"cosmicsplit/process"
	"cosmicsplit/process_linux"
)

func newOpener() process.Opener {
	return process_linux.NewOpener()
}
