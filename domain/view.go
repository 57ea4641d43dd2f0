package domain

// View is a read-only snapshot of the engine state handed to the presentation layer.
type View struct {
	Identity    Identity
	Active      bool
	State       ConnectionState
	Entries     []ChatEntry
	Online      []string
	ShowWelcome bool
}
