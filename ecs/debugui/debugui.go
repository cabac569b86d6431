// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It renders inspection panels over a World and tracks ImGui's input capture state.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/packstore/ecs"
)

// ImguiItem holds a Dear ImGui render function run once per frame.
type ImguiItem struct {
	Name   string
	Render func()
}

// ImguiInputState tracks whether Dear ImGui is capturing input this frame.
// Use this to decide whether game input handling should run.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem defers every registered render function to the end of the frame,
// after the world has settled, and refreshes the input capture state.
type ImguiSystem struct {
	Items []ImguiItem
	Input ImguiInputState
}

// Add registers a render function.
func (i *ImguiSystem) Add(name string, render func()) {
	i.Items = append(i.Items, ImguiItem{Name: name, Render: render})
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	i.Input.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	i.Input.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for _, item := range i.Items {
		frame.Commands.Defer(item.Render)
	}
}
