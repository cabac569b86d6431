package ecs

// System is a behavior run once per frame by the Scheduler. Exported *Query
// fields are refreshed before each Execute; other fields persist between
// frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}
