package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/plus3/packstore/ecs"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// sim is the generated workload: alternating scalar and vector kinds, random
// archetypes over them and one drift system per requested system.
type sim struct {
	world      *ecs.World
	scheduler  *ecs.Scheduler
	archetypes []*ecs.Archetype
	rng        *rand.Rand
}

func newSim(cfg Config, logger zerolog.Logger) (*sim, error) {
	world, err := ecs.NewWorld(cfg.Capacity, ecs.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	s := &sim{
		world: world,
		rng:   rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}

	storeCfg := ecs.StoreConfig{
		InitialCapacity: max(1, min(cfg.Entities, cfg.Capacity)/4),
		MaxCapacity:     cfg.Capacity,
	}
	var scalars []*ecs.ScalarStorage[float32]
	var vectors []*ecs.VectorStorage[float32]
	var scalarKinds []ecs.ComponentKind
	for i := 0; i < cfg.Components; i++ {
		if i%2 == 0 {
			_, store, err := ecs.RegisterVector[float32](world, fmt.Sprintf("vec%02d", i), storeCfg, 0, 1)
			if err != nil {
				return nil, err
			}
			vectors = append(vectors, store)
			continue
		}
		kind, store, err := ecs.RegisterScalar[float32](world, fmt.Sprintf("scalar%02d", i), storeCfg, 1)
		if err != nil {
			return nil, err
		}
		scalars = append(scalars, store)
		scalarKinds = append(scalarKinds, kind)
	}

	kinds := world.Kinds()
	for i := 0; i < cfg.Archetypes; i++ {
		n := s.rng.IntN(min(5, len(kinds))) + 1
		picked := make([]ecs.ComponentKind, 0, n)
		for _, idx := range s.rng.Perm(len(kinds))[:n] {
			picked = append(picked, kinds[idx])
		}
		mask := ecs.MaskOf(picked...)
		if existing, ok := world.Archetypes().ByMask(mask); ok {
			s.archetypes = append(s.archetypes, existing)
			continue
		}
		a, err := world.RegisterArchetype(fmt.Sprintf("arch%02d", i), picked...)
		if err != nil {
			return nil, err
		}
		s.archetypes = append(s.archetypes, a)
	}

	s.scheduler = ecs.NewScheduler(world)
	for i := 0; i < cfg.Systems; i++ {
		if i%2 == 0 || len(scalars) == 0 {
			v := i / 2 % len(vectors)
			s.scheduler.Register(&VectorDriftSystem{store: vectors[v]})
			continue
		}
		sc := i / 2 % len(scalars)
		s.scheduler.Register(&ScalarDecaySystem{
			Matching: ecs.NewQuery(world, scalarKinds[sc]),
			store:    scalars[sc],
		})
	}
	s.scheduler.Register(&ChurnSystem{
		rng:        s.rng,
		archetypes: s.archetypes,
		perFrame:   cfg.Churn,
	})

	return s, nil
}

// populate spawns n entities from random archetypes.
func (s *sim) populate(n int) error {
	for i := 0; i < n; i++ {
		a := s.archetypes[s.rng.IntN(len(s.archetypes))]
		if _, err := s.world.Spawn(a); err != nil {
			return eris.Wrapf(err, "spawning entity %d", i)
		}
	}
	return nil
}

// VectorDriftSystem integrates x by y for every entity in its store. It walks
// the packed values directly instead of going through a query.
type VectorDriftSystem struct {
	store *ecs.VectorStorage[float32]
}

func (s *VectorDriftSystem) Execute(frame *ecs.UpdateFrame) {
	dt := float32(frame.DeltaTime)
	values := s.store.Values()
	for i := 0; i+1 < len(values); i += 2 {
		values[i] += values[i+1] * dt
	}
}

// ScalarDecaySystem halves every value roughly once a second and resets it to
// one when it gets small.
type ScalarDecaySystem struct {
	Matching *ecs.Query

	store *ecs.ScalarStorage[float32]
}

func (s *ScalarDecaySystem) Execute(frame *ecs.UpdateFrame) {
	decay := 1 - 0.5*float32(frame.DeltaTime)
	for id := range s.Matching.Iter() {
		v, err := s.store.Get(id)
		if err != nil {
			frame.Logger.Warn().Int32("entity_id", int32(id)).Msg("query matched an entity missing from its store")
			continue
		}
		v *= decay
		if v < 0.01 {
			v = 1
		}
		_ = s.store.Set(id, v)
	}
}

// ChurnSystem destroys random live entities and spawns replacements through
// the frame's command buffer.
type ChurnSystem struct {
	rng        *rand.Rand
	archetypes []*ecs.Archetype
	perFrame   int
}

func (s *ChurnSystem) Execute(frame *ecs.UpdateFrame) {
	live := frame.World.Entities().Entities()
	if len(live) == 0 {
		return
	}
	// partial shuffle so each victim is picked once
	n := min(s.perFrame, len(live))
	for i := 0; i < n; i++ {
		j := i + s.rng.IntN(len(live)-i)
		live[i], live[j] = live[j], live[i]
		frame.Commands.Destroy(live[i])
		frame.Commands.Spawn(s.archetypes[s.rng.IntN(len(s.archetypes))])
	}
}
