package debugui

import "github.com/plus3/packstore/ecs"

// DebugUI bundles the inspection panels for one World. The entity browser's
// selection drives the inspector, and clicking a store filters the browser.
type DebugUI struct {
	Browser     *EntityBrowserPanel
	Inspector   *EntityInspectorPanel
	Stores      *StoreViewerPanel
	Performance *PerformanceStatsPanel
	Queries     *QueryDebuggerPanel

	world     *ecs.World
	scheduler *ecs.Scheduler
	timer     *FrameTimer
}

// NewDebugUI creates the panels. scheduler may be nil, in which case system
// timings are not shown.
func NewDebugUI(world *ecs.World, scheduler *ecs.Scheduler) *DebugUI {
	return &DebugUI{
		Browser:     NewEntityBrowserPanel(100),
		Inspector:   NewEntityInspectorPanel(),
		Stores:      NewStoreViewerPanel(),
		Performance: NewPerformanceStatsPanel(120),
		Queries:     NewQueryDebuggerPanel(),
		world:       world,
		scheduler:   scheduler,
		timer:       NewFrameTimer(),
	}
}

// Attach registers every panel with sys.
func (d *DebugUI) Attach(sys *ImguiSystem) {
	sys.Add("entity-browser", func() {
		d.Browser.Render(d.world)
	})
	sys.Add("store-viewer", func() {
		if kind := d.Stores.Render(d.world); kind != nil {
			d.Browser.SetKindFilter(*kind)
		}
	})
	sys.Add("entity-inspector", func() {
		d.Inspector.Render(d.world, d.Browser.GetSelectedEntity())
	})
	sys.Add("performance-stats", func() {
		d.Performance.Render(d.world, d.scheduler, d.timer.GetDeltaTime())
	})
	sys.Add("query-debugger", func() {
		d.Queries.Render(d.world)
	})
}
