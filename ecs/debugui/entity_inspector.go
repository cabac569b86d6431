package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/packstore/ecs"
)

var axisLabels = [...]string{"x", "y"}

func NewEntityInspectorPanel() *EntityInspectorPanel {
	return &EntityInspectorPanel{selectedEntityId: noEntity}
}

func (ei *EntityInspectorPanel) Render(world *ecs.World, selectedEntityId ecs.EntityId) {
	if !imgui.BeginV("Entity Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ei.selectedEntityId = selectedEntityId

	if ei.selectedEntityId == noEntity {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	mask, err := world.Entities().ComponentMask(ei.selectedEntityId)
	if err != nil {
		imgui.Text(fmt.Sprintf("Entity %d not found", ei.selectedEntityId))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", ei.selectedEntityId))
	imgui.Text(fmt.Sprintf("Mask: 0x%X (%d components)", uint64(mask), mask.Count()))
	imgui.Separator()

	for _, kind := range mask.Kinds() {
		store, ok := world.Store(kind)
		if !ok {
			continue
		}

		name := world.KindName(kind)
		values, ok := store.ValuesOf(ei.selectedEntityId)
		if !ok {
			imgui.BulletText(fmt.Sprintf("%s: missing from store", name))
			continue
		}

		if imgui.TreeNodeStr(name) {
			ei.renderValues(name, values, store)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ei *EntityInspectorPanel) renderValues(name string, values []float64, store ecs.ComponentStore) {
	changed := false
	for i, v := range values {
		label := "value"
		if len(values) == len(axisLabels) {
			label = axisLabels[i]
		}

		f := float32(v)
		imgui.Text(fmt.Sprintf("%s:", label))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s_%s", name, label), &f) {
			values[i] = float64(f)
			changed = true
		}
	}

	if changed {
		_ = store.SetValuesOf(ei.selectedEntityId, values)
	}
}
