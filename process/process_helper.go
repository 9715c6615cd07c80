package process

// Opener defines how a process is located and opened by its executable name
type Opener interface {
	// OpenProcessByName opens a process by its name (returns the first match)
	OpenProcessByName(name string) (Process, error)
}

// OpenerFunc adapts a plain function to the Opener interface
type OpenerFunc func(name string) (Process, error)

func (f OpenerFunc) OpenProcessByName(name string) (Process, error) {
	return f(name)
}
