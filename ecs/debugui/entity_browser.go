package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/packstore/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityId
	Mask           ecs.Mask
	ComponentNames []string
	ComponentCount int
}

type browserSignature struct {
	live int
	free int
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	signature     browserSignature
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowserPanel(maxEntitiesPerPage int) *EntityBrowserPanel {
	return &EntityBrowserPanel{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		selectedEntityId:   noEntity,
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserPanel) Render(world *ecs.World) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(world)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.filterKind = nil
	}
	imgui.SameLine()
	if imgui.Button("Refresh") {
		eb.cache.entities = nil
	}
	if eb.filterKind != nil {
		imgui.Text(fmt.Sprintf("Holding: %s", world.KindName(*eb.filterKind)))
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Mask")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		filteredEntities := filterEntities(eb.cache.entities, eb.filterText, eb.filterKind)

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", uint64(entity.Mask)))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentNames, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	filteredEntities := filterEntities(eb.cache.entities, eb.filterText, eb.filterKind)

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		eb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

// SetKindFilter restricts the table to entities holding kind.
func (eb *EntityBrowserPanel) SetKindFilter(kind ecs.ComponentKind) {
	eb.filterKind = &kind
	eb.currentPage = 0
}

func (eb *EntityBrowserPanel) rebuildCacheIfNeeded(world *ecs.World) {
	entities := world.Entities()
	sig := browserSignature{live: entities.Len(), free: entities.FreeCount()}
	if eb.cache.signature != sig {
		eb.cache.entities = nil
		eb.cache.signature = sig
	}

	if eb.cache.entities == nil {
		eb.cache.entities = collectEntityInfos(world)
		sortEntities(eb.cache.entities, eb.cache.sortColumn, eb.cache.sortAscending)
	}
}

func collectEntityInfos(world *ecs.World) []EntityInfo {
	infos := make([]EntityInfo, 0, world.Entities().Len())
	for id, mask := range world.Entities().All() {
		kinds := mask.Kinds()
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = world.KindName(k)
		}
		infos = append(infos, EntityInfo{
			ID:             id,
			Mask:           mask,
			ComponentNames: names,
			ComponentCount: len(kinds),
		})
	}
	return infos
}

func sortEntities(entities []EntityInfo, column int, ascending bool) {
	sort.Slice(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if !ascending {
			a, b = b, a
		}

		switch column {
		case 1:
			return a.Mask < b.Mask
		case 2:
			return strings.Join(a.ComponentNames, ",") < strings.Join(b.ComponentNames, ",")
		case 3:
			return a.ComponentCount < b.ComponentCount
		default:
			return a.ID < b.ID
		}
	})
}

func filterEntities(entities []EntityInfo, text string, kind *ecs.ComponentKind) []EntityInfo {
	if text == "" && kind == nil {
		return entities
	}

	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)

	for _, entity := range entities {
		if kind != nil && !entity.Mask.Has(*kind) {
			continue
		}

		if text != "" {
			idStr := fmt.Sprintf("%d", entity.ID)
			maskStr := fmt.Sprintf("0x%x", uint64(entity.Mask))
			componentsStr := strings.ToLower(strings.Join(entity.ComponentNames, " "))

			if !strings.Contains(idStr, filterLower) &&
				!strings.Contains(maskStr, filterLower) &&
				!strings.Contains(componentsStr, filterLower) {
				continue
			}
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

func (eb *EntityBrowserPanel) GetSelectedEntity() ecs.EntityId {
	return eb.selectedEntityId
}
