package ecs

import (
	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

// Commands buffers structural changes requested while systems run and applies
// them at the end of the frame, so stores are never reshuffled under an
// iterating system.
type Commands struct {
	spawns   []*Archetype
	destroys []EntityId
	detaches []detachCommand
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type detachCommand struct {
	entity EntityId
	kind   ComponentKind
}

// Spawn queues creation of an entity of archetype a.
func (c *Commands) Spawn(a *Archetype) {
	c.spawns = append(c.spawns, a)
}

// Destroy queues destruction of entity.
func (c *Commands) Destroy(entity EntityId) {
	c.destroys = append(c.destroys, entity)
}

// Detach queues removal of kind from entity.
func (c *Commands) Detach(entity EntityId, kind ComponentKind) {
	c.detaches = append(c.detaches, detachCommand{entity: entity, kind: kind})
}

// Defer queues fn to run after every other command.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Flush applies all queued commands to world and resets the buffer. Failed
// commands are logged and skipped; their count is returned.
func (c *Commands) Flush(world *World) int {
	failed := 0
	destroyed := intmap.New[EntityId, struct{}](max(len(c.destroys), 1))

	for _, id := range c.destroys {
		if _, seen := destroyed.Get(id); seen {
			continue
		}
		if err := world.Destroy(id); err != nil {
			failed++
			world.logger.Warn().Str("error", eris.ToString(err, false)).Int32("entity_id", int32(id)).Msg("deferred destroy failed")
			continue
		}
		destroyed.Put(id, struct{}{})
	}

	for _, cmd := range c.detaches {
		if _, seen := destroyed.Get(cmd.entity); seen {
			continue
		}
		if err := world.Detach(cmd.entity, cmd.kind); err != nil {
			failed++
			world.logger.Warn().Str("error", eris.ToString(err, false)).Int32("entity_id", int32(cmd.entity)).Msg("deferred detach failed")
		}
	}

	for _, a := range c.spawns {
		if _, err := world.Spawn(a); err != nil {
			failed++
			world.logger.Warn().Str("error", eris.ToString(err, false)).Str("archetype", a.Name()).Msg("deferred spawn failed")
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.destroys = c.destroys[:0]
	c.detaches = c.detaches[:0]
	c.defers = c.defers[:0]
	return failed
}
