package debugui

import (
	"github.com/plus3/packstore/ecs"
)

// noEntity marks an empty selection; 0 is a valid handle.
const noEntity ecs.EntityId = -1

type EntityBrowserPanel struct {
	cache              *EntityBrowserCache
	selectedEntityId   ecs.EntityId
	filterText         string
	filterKind         *ecs.ComponentKind
	maxEntitiesPerPage int
	currentPage        int
}

type EntityInspectorPanel struct {
	selectedEntityId ecs.EntityId
}

type StoreViewerPanel struct {
	cache         *StoreViewerCache
	selectedKind  *ecs.ComponentKind
	sortColumn    int
	sortAscending bool
}

type PerformanceStatsPanel struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

type QueryDebuggerPanel struct {
	included map[ecs.ComponentKind]bool
	excluded map[ecs.ComponentKind]bool
	cache    *QueryDebuggerCache
}
