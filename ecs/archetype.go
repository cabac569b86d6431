package ecs

import (
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// Archetype is a named, fixed set of component kinds with its precomputed
// mask. World.Spawn uses it to give a new entity the default value of each
// kind in one step.
type Archetype struct {
	name  string
	kinds []ComponentKind
	mask  Mask
}

// NewArchetype creates an archetype. Duplicate kinds collapse; kinds are kept
// sorted.
func NewArchetype(name string, kinds ...ComponentKind) *Archetype {
	mask := MaskOf(kinds...)
	return &Archetype{
		name:  name,
		kinds: mask.Kinds(),
		mask:  mask,
	}
}

// Name returns the archetype name.
func (a *Archetype) Name() string {
	return a.name
}

// Kinds returns the sorted component kinds of this archetype.
func (a *Archetype) Kinds() []ComponentKind {
	return slices.Clone(a.kinds)
}

// Mask returns the precomputed mask of all kinds.
func (a *Archetype) Mask() Mask {
	return a.mask
}

// HasComponent reports whether the archetype includes kind.
func (a *Archetype) HasComponent(kind ComponentKind) bool {
	return a.mask.Has(kind)
}

// ArchetypeTable indexes archetypes by name and by mask. Two archetypes may
// not share either.
type ArchetypeTable struct {
	byMask *intmap.Map[Mask, *Archetype]
	byName map[string]*Archetype
	order  []*Archetype
}

// NewArchetypeTable creates an empty table.
func NewArchetypeTable() *ArchetypeTable {
	return &ArchetypeTable{
		byMask: intmap.New[Mask, *Archetype](16),
		byName: make(map[string]*Archetype),
	}
}

// Register adds a to the table.
func (t *ArchetypeTable) Register(a *Archetype) error {
	if a == nil || a.name == "" {
		return eris.Wrap(ErrInvalidArgument, "archetype must have a name")
	}
	if a.mask == 0 {
		return eris.Wrapf(ErrInvalidArgument, "archetype %q has no component kinds", a.name)
	}
	if _, ok := t.byName[a.name]; ok {
		return eris.Wrapf(ErrDuplicateHandle, "archetype %q already registered", a.name)
	}
	if other, ok := t.byMask.Get(a.mask); ok {
		return eris.Wrapf(ErrDuplicateHandle, "archetype %q has the same kinds as %q", a.name, other.name)
	}

	t.byMask.Put(a.mask, a)
	t.byName[a.name] = a
	t.order = append(t.order, a)
	return nil
}

// ByMask returns the archetype whose kinds are exactly mask.
func (t *ArchetypeTable) ByMask(mask Mask) (*Archetype, bool) {
	return t.byMask.Get(mask)
}

// ByName returns the archetype registered under name.
func (t *ArchetypeTable) ByName(name string) (*Archetype, bool) {
	a, ok := t.byName[name]
	return a, ok
}

// All returns the registered archetypes in registration order.
func (t *ArchetypeTable) All() []*Archetype {
	return slices.Clone(t.order)
}

// Len returns the number of registered archetypes.
func (t *ArchetypeTable) Len() int {
	return len(t.order)
}
