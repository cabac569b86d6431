package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/packstore/ecs"
)

type QueryDebuggerCache struct {
	kinds         []ecs.ComponentKind
	names         []string
	lastKindCount int
}

func NewQueryDebuggerPanel() *QueryDebuggerPanel {
	return &QueryDebuggerPanel{
		included: make(map[ecs.ComponentKind]bool),
		excluded: make(map[ecs.ComponentKind]bool),
		cache: &QueryDebuggerCache{
			lastKindCount: -1,
		},
	}
}

func (qd *QueryDebuggerPanel) Render(world *ecs.World) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	qd.rebuildCacheIfNeeded(world)

	imgui.Text("Require / exclude component kinds:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.included = make(map[ecs.ComponentKind]bool)
		qd.excluded = make(map[ecs.ComponentKind]bool)
	}

	for i, kind := range qd.cache.kinds {
		name := qd.cache.names[i]
		required := qd.included[kind]
		if imgui.Checkbox(name, &required) {
			toggle(qd.included, kind, required)
			if required {
				delete(qd.excluded, kind)
			}
		}
		imgui.SameLine()
		excluded := qd.excluded[kind]
		if imgui.Checkbox(fmt.Sprintf("not##%s", name), &excluded) {
			toggle(qd.excluded, kind, excluded)
			if excluded {
				delete(qd.included, kind)
			}
		}
	}

	imgui.Separator()

	if len(qd.included) == 0 {
		imgui.Text("No component kinds required")
		imgui.End()
		return
	}

	query := qd.buildQuery(world)
	query.Execute()
	matching := matchingArchetypes(world, query)

	imgui.Text(fmt.Sprintf("Matching Entities: %d", query.Len()))
	imgui.Text(fmt.Sprintf("Matching Archetypes: %d", len(matching)))

	if imgui.TreeNodeStr("Archetype Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryArchTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Archetype")
			imgui.TableSetupColumn("Mask")
			imgui.TableSetupColumn("Components")
			imgui.TableHeadersRow()

			for _, arch := range matching {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(arch.Name())

				imgui.TableSetColumnIndex(1)
				imgui.Text(fmt.Sprintf("0x%X", uint64(arch.Mask())))

				imgui.TableSetColumnIndex(2)
				componentNames := make([]string, 0, len(arch.Kinds()))
				for _, k := range arch.Kinds() {
					componentNames = append(componentNames, world.KindName(k))
				}
				imgui.Text(fmt.Sprintf("%v", componentNames))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func toggle(set map[ecs.ComponentKind]bool, kind ecs.ComponentKind, on bool) {
	if on {
		set[kind] = true
	} else {
		delete(set, kind)
	}
}

func (qd *QueryDebuggerPanel) rebuildCacheIfNeeded(world *ecs.World) {
	kinds := world.Kinds()
	if qd.cache.lastKindCount == len(kinds) {
		return
	}
	qd.cache.lastKindCount = len(kinds)
	qd.cache.kinds = kinds
	qd.cache.names = make([]string, len(kinds))
	for i, k := range kinds {
		qd.cache.names[i] = world.KindName(k)
	}
}

func (qd *QueryDebuggerPanel) buildQuery(world *ecs.World) *ecs.Query {
	include := make([]ecs.ComponentKind, 0, len(qd.included))
	for k := range qd.included {
		include = append(include, k)
	}
	exclude := make([]ecs.ComponentKind, 0, len(qd.excluded))
	for k := range qd.excluded {
		exclude = append(exclude, k)
	}
	return ecs.NewQuery(world, include...).Without(exclude...)
}

func matchingArchetypes(world *ecs.World, query *ecs.Query) []*ecs.Archetype {
	matching := make([]*ecs.Archetype, 0)
	for _, arch := range world.Archetypes().All() {
		if query.Matches(arch.Mask()) {
			matching = append(matching, arch)
		}
	}
	return matching
}
