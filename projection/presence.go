package projection

import (
	"slices"

	"github.com/samber/lo"
)

type Set map[string]struct{}

// Presence is the set of participants currently considered online in the channel.
type Presence struct {
	members Set
}

func NewPresence() *Presence {
	return &Presence{members: make(Set)}
}

// ApplySnapshot replaces the set with names, whatever was known before.
func (p *Presence) ApplySnapshot(names []string) {
	members := make(Set, len(names))
	for _, name := range names {
		members[name] = struct{}{}
	}
	p.members = members
}

// ApplyJoin adds name and reports whether the set changed.
func (p *Presence) ApplyJoin(name string) bool {
	if _, ok := p.members[name]; ok {
		return false
	}
	p.members[name] = struct{}{}
	return true
}

// ApplyLeave removes name and reports whether the set changed.
func (p *Presence) ApplyLeave(name string) bool {
	if _, ok := p.members[name]; !ok {
		return false
	}
	delete(p.members, name)
	return true
}

func (p *Presence) Reset() {
	p.members = make(Set)
}

func (p *Presence) Contains(name string) bool {
	_, ok := p.members[name]
	return ok
}

func (p *Presence) Len() int {
	return len(p.members)
}

// Names returns the participants sorted, for display.
func (p *Presence) Names() []string {
	names := lo.Keys(p.members)
	slices.Sort(names)
	return names
}
