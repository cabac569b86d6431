package ecs

import "github.com/rs/zerolog"

type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	World     *World
	// Logger is scoped to the system currently executing.
	Logger zerolog.Logger
}

func newUpdateFrame(dt float64, world *World) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(),
		World:     world,
		Logger:    world.logger,
	}
}
