package splitter

// Settings are the user facing toggles, read once per tick
type Settings struct {
	// ResetOnNewGame resets a running timer when a new game is started from the menu
	ResetOnNewGame bool
}

func DefaultSettings() Settings {
	return Settings{ResetOnNewGame: true}
}

type SettingsSource interface {
	Settings() Settings
}

// StaticSettings always returns the same Settings
type StaticSettings Settings

func (s StaticSettings) Settings() Settings {
	return Settings(s)
}

// Diagnostics receives messages meant for the operator
type Diagnostics interface {
	PrintMessage(msg string)
}

type DiagnosticsFunc func(msg string)

func (f DiagnosticsFunc) PrintMessage(msg string) {
	f(msg)
}
