package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/packstore/ecs"
)

type StoreInfo struct {
	Kind          ecs.ComponentKind
	Name          string
	Width         int
	Len           int
	MaxCapacity   int
	ValueCapacity int
}

type StoreViewerCache struct {
	stores        []StoreInfo
	lastKindCount int
	sortColumn    int
	sortAscending bool
}

func NewStoreViewerPanel() *StoreViewerPanel {
	return &StoreViewerPanel{
		cache: &StoreViewerCache{
			sortColumn:    3,
			sortAscending: false,
		},
		sortColumn:    3,
		sortAscending: false,
	}
}

// Render draws one row per component store and returns the kind clicked this
// frame, if any.
func (sv *StoreViewerPanel) Render(world *ecs.World) *ecs.ComponentKind {
	if !imgui.BeginV("Store Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}

	sv.rebuildCacheIfNeeded(world)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("StoreTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Kind")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Width")
		imgui.TableSetupColumn("Entities")
		imgui.TableSetupColumn("Value Cap")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			sv.cache.sortColumn = int(spec.ColumnIndex())
			sv.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sv.sortColumn = sv.cache.sortColumn
			sv.sortAscending = sv.cache.sortAscending
			sortStores(sv.cache.stores, sv.cache.sortColumn, sv.cache.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		var clickedKind *ecs.ComponentKind

		for _, store := range sv.cache.stores {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := sv.selectedKind != nil && *sv.selectedKind == store.Kind
			if imgui.SelectableBoolV(fmt.Sprintf("%d", store.Kind), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				kindCopy := store.Kind
				clickedKind = &kindCopy
				sv.selectedKind = &kindCopy
			}

			imgui.TableNextColumn()
			imgui.Text(store.Name)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", store.Width))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d / %d", store.Len, store.MaxCapacity))

			if store.MaxCapacity > 0 {
				barWidth := float32(store.Len) / float32(store.MaxCapacity) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", store.ValueCapacity))
		}

		imgui.EndTable()

		imgui.End()
		return clickedKind
	}

	imgui.End()
	return nil
}

func (sv *StoreViewerPanel) rebuildCacheIfNeeded(world *ecs.World) {
	currentKindCount := len(world.Kinds())
	if sv.cache.lastKindCount != currentKindCount {
		sv.cache.stores = nil
		sv.cache.lastKindCount = currentKindCount
	}

	if sv.cache.stores == nil {
		sv.cache.stores = collectStoreInfos(world)
	} else {
		sv.updateCounts(world)
	}
	sortStores(sv.cache.stores, sv.cache.sortColumn, sv.cache.sortAscending)
}

func collectStoreInfos(world *ecs.World) []StoreInfo {
	stats := world.CollectStats()
	infos := make([]StoreInfo, 0, len(stats.Kinds))
	for _, k := range stats.Kinds {
		infos = append(infos, StoreInfo{
			Kind:          k.Kind,
			Name:          k.Name,
			Width:         k.Width,
			Len:           k.Len,
			MaxCapacity:   k.MaxCapacity,
			ValueCapacity: k.ValueCapacity,
		})
	}
	return infos
}

func (sv *StoreViewerPanel) updateCounts(world *ecs.World) {
	for i := range sv.cache.stores {
		store, ok := world.Store(sv.cache.stores[i].Kind)
		if !ok {
			continue
		}
		stats := store.Stats()
		sv.cache.stores[i].Len = stats.Len
		sv.cache.stores[i].ValueCapacity = stats.ValueCapacity
	}
}

func sortStores(stores []StoreInfo, column int, ascending bool) {
	sort.SliceStable(stores, func(i, j int) bool {
		a, b := stores[i], stores[j]
		if !ascending {
			a, b = b, a
		}

		switch column {
		case 0:
			return a.Kind < b.Kind
		case 1:
			return a.Name < b.Name
		case 2:
			return a.Width < b.Width
		case 4:
			return a.ValueCapacity < b.ValueCapacity
		default:
			return a.Len < b.Len
		}
	})
}
