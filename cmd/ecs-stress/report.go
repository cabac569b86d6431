package main

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"text/template"
	"time"

	"github.com/goccy/go-json"
	"github.com/plus3/packstore/ecs"
)

type Report struct {
	RunID string

	// Configuration
	Duration   time.Duration
	Entities   int
	Capacity   int
	Components int
	Archetypes int
	Systems    int
	Churn      int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
	World          ecs.WorldStats
	SlowestSystems []ecs.SystemStats
}

// setSystems keeps the n systems with the highest average duration.
func (r *Report) setSystems(stats *ecs.SchedulerStats, n int) {
	systems := append([]ecs.SystemStats(nil), stats.Systems...)
	sort.Slice(systems, func(i, j int) bool {
		return systems[i].AvgDuration > systems[j].AvgDuration
	})
	r.SlowestSystems = systems[:min(n, len(systems))]
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run ID:** {{.RunID}}
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}} (capacity {{.Capacity}})
- **Component Kinds:** {{.Components}}
- **Archetypes:** {{.Archetypes}}
- **Drift Systems:** {{.Systems}}
- **Churn per Frame:** {{.Churn}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## World at Exit
- **Live Entities:** {{.World.LiveEntities}} / {{.World.EntityCapacity}}
- **Free Handles:** {{.World.FreeHandles}}
{{range .World.Kinds}}- {{.Name}}: {{.Len}} entities, width {{.Width}}, value capacity {{.ValueCapacity}}
{{end}}
## Slowest Systems
{{range .SlowestSystems}}- {{.Name}}: avg {{.AvgDuration}}, max {{.MaxDuration}}, runs {{.ExecutionCount}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}

// jsonReport is the machine-readable subset of a Report.
type jsonReport struct {
	RunID        string           `json:"run_id"`
	Duration     string           `json:"duration"`
	Entities     int              `json:"entities"`
	Capacity     int              `json:"capacity"`
	Components   int              `json:"components"`
	Archetypes   int              `json:"archetypes"`
	Systems      int              `json:"systems"`
	Churn        int              `json:"churn"`
	TotalUpdates int64            `json:"total_updates"`
	TotalTimeNs  int64            `json:"total_time_ns"`
	UpdateNs     jsonDurations    `json:"update_ns"`
	World        jsonWorld        `json:"world"`
	Slowest      []jsonSystem     `json:"slowest_systems"`
	Memory       map[string]int64 `json:"memory_delta"`
}

type jsonDurations struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
	Avg int64 `json:"avg"`
}

type jsonWorld struct {
	LiveEntities   int        `json:"live_entities"`
	EntityCapacity int        `json:"entity_capacity"`
	FreeHandles    int        `json:"free_handles"`
	ArchetypeCount int        `json:"archetype_count"`
	Kinds          []jsonKind `json:"kinds"`
}

type jsonKind struct {
	Name          string `json:"name"`
	Len           int    `json:"len"`
	Width         int    `json:"width"`
	MaxCapacity   int    `json:"max_capacity"`
	ValueCapacity int    `json:"value_capacity"`
}

type jsonSystem struct {
	Name   string `json:"name"`
	Runs   int64  `json:"runs"`
	AvgNs  int64  `json:"avg_ns"`
	MaxNs  int64  `json:"max_ns"`
	LastNs int64  `json:"last_ns"`
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	out := jsonReport{
		RunID:        r.RunID,
		Duration:     r.Duration.String(),
		Entities:     r.Entities,
		Capacity:     r.Capacity,
		Components:   r.Components,
		Archetypes:   r.Archetypes,
		Systems:      r.Systems,
		Churn:        r.Churn,
		TotalUpdates: r.TotalUpdates,
		TotalTimeNs:  r.TotalTime.Nanoseconds(),
		UpdateNs: jsonDurations{
			Min: r.UpdateTime.Min.Nanoseconds(),
			Max: r.UpdateTime.Max.Nanoseconds(),
			Avg: r.UpdateTime.Avg.Nanoseconds(),
		},
		World: jsonWorld{
			LiveEntities:   r.World.LiveEntities,
			EntityCapacity: r.World.EntityCapacity,
			FreeHandles:    r.World.FreeHandles,
			ArchetypeCount: r.World.ArchetypeCount,
		},
		Memory: map[string]int64{
			"heap_alloc":  int64(r.MemStatsEnd.HeapAlloc) - int64(r.MemStatsStart.HeapAlloc),
			"total_alloc": int64(r.MemStatsEnd.TotalAlloc) - int64(r.MemStatsStart.TotalAlloc),
			"sys":         int64(r.MemStatsEnd.Sys) - int64(r.MemStatsStart.Sys),
			"num_gc":      int64(r.MemStatsEnd.NumGC) - int64(r.MemStatsStart.NumGC),
		},
	}
	for _, k := range r.World.Kinds {
		out.World.Kinds = append(out.World.Kinds, jsonKind{
			Name:          k.Name,
			Len:           k.Len,
			Width:         k.Width,
			MaxCapacity:   k.MaxCapacity,
			ValueCapacity: k.ValueCapacity,
		})
	}
	for _, s := range r.SlowestSystems {
		out.Slowest = append(out.Slowest, jsonSystem{
			Name:   s.Name,
			Runs:   s.ExecutionCount,
			AvgNs:  s.AvgDuration.Nanoseconds(),
			MaxNs:  s.MaxDuration.Nanoseconds(),
			LastNs: s.LastDuration.Nanoseconds(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
