package ecs_test

import (
	"fmt"

	"github.com/plus3/packstore/ecs"
)

type CleanupSystem struct {
	Living *ecs.Query

	healths *ecs.ScalarStorage[int32]
}

func (s *CleanupSystem) Execute(frame *ecs.UpdateFrame) {
	deadCount := 0
	for id := range s.Living.Iter() {
		if hp, _ := s.healths.Get(id); hp <= 0 {
			frame.Commands.Destroy(id)
			deadCount++
		}
	}
	if deadCount > 0 {
		fmt.Printf("Queued %d dead entities for destruction\n", deadCount)
	}
}

// ExampleCommands demonstrates using command buffers to defer structural
// changes. Destroying an entity while a system iterates would reorder the
// packed stores under it, so systems queue the change and the Scheduler
// applies it at the end of the frame.
func ExampleCommands() {
	world, _ := ecs.NewWorld(16)
	cfg := ecs.StoreConfig{InitialCapacity: 4, MaxCapacity: 16}
	health, healths, _ := ecs.RegisterScalar[int32](world, "health", cfg, 100)
	unit, _ := world.RegisterArchetype("unit", health)

	for _, hp := range []int32{0, 50, 100} {
		id, _ := world.Spawn(unit)
		healths.Set(id, hp)
	}

	scheduler := ecs.NewScheduler(world)
	scheduler.Register(&CleanupSystem{
		Living:  ecs.NewQuery(world, health),
		healths: healths,
	})

	scheduler.Once(1.0)

	fmt.Printf("Remaining entities: %d\n", world.Entities().Len())

	// Output:
	// Queued 1 dead entities for destruction
	// Remaining entities: 2
}

// ExampleCommands_Spawn queues new entities from inside a system.
func ExampleCommands_Spawn() {
	world, _ := ecs.NewWorld(16)
	cfg := ecs.StoreConfig{InitialCapacity: 4, MaxCapacity: 16}
	timer, timers, _ := ecs.RegisterScalar[float32](world, "timer", cfg, 0)
	velocity, _, _ := ecs.RegisterVector[float32](world, "velocity", cfg, 5, 0)
	shooter, _ := world.RegisterArchetype("shooter", timer)
	projectile, _ := world.RegisterArchetype("projectile", velocity)

	world.Spawn(shooter)

	scheduler := ecs.NewScheduler(world)
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		for id, t := range timers.All() {
			if t <= 0 {
				frame.Commands.Spawn(projectile)
				timers.Set(id, 10)
			}
		}
	}))

	scheduler.Once(1.0)
	scheduler.Once(1.0)

	fmt.Printf("Entities after two frames: %d\n", world.Entities().Len())

	// Output:
	// Entities after two frames: 2
}
