package system

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/prefabs"
	"github.com/milk9111/side2d0/traversal"
	"github.com/quasilyte/gdata"
	"gopkg.in/yaml.v3"
)

// SavedTuning is an accepted tuning together with the prefab params the
// character spawned with when it was accepted.
type SavedTuning struct {
	Prefab traversal.Params `yaml:"prefab"`
	Tuned  traversal.Params `yaml:"tuned"`
}

// TuningStore keeps accepted traversal tunings between sessions.
type TuningStore interface {
	LoadTuning(source string) (SavedTuning, bool, error)
	SaveTuning(source string, t SavedTuning) error
}

// GdataTuningStore persists tunings in the per-user app data directory.
type GdataTuningStore struct {
	m *gdata.Manager
}

func OpenTuningStore(appName string) (*GdataTuningStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("tuning: open store: %w", err)
	}
	return &GdataTuningStore{m: m}, nil
}

func tuningKey(source string) string {
	base := filepath.Base(filepath.ToSlash(source))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return "tuning_" + base
}

func (s *GdataTuningStore) LoadTuning(source string) (SavedTuning, bool, error) {
	if s == nil || s.m == nil {
		return SavedTuning{}, false, nil
	}
	data, err := s.m.LoadItem(tuningKey(source))
	if err != nil {
		return SavedTuning{}, false, fmt.Errorf("tuning: load %s: %w", source, err)
	}
	if data == nil {
		return SavedTuning{}, false, nil
	}
	t, err := decodeSavedTuning(data)
	if err != nil {
		return SavedTuning{}, false, fmt.Errorf("tuning: decode %s: %w", source, err)
	}
	return t, true, nil
}

func decodeSavedTuning(data []byte) (SavedTuning, error) {
	t := SavedTuning{
		Prefab: traversal.DefaultParams(),
		Tuned:  traversal.DefaultParams(),
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return SavedTuning{}, err
	}
	return t, nil
}

func (s *GdataTuningStore) SaveTuning(source string, t SavedTuning) error {
	if s == nil || s.m == nil {
		return nil
	}
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("tuning: encode %s: %w", source, err)
	}
	if err := s.m.SaveItem(tuningKey(source), data); err != nil {
		return fmt.Errorf("tuning: save %s: %w", source, err)
	}
	return nil
}

// TuningSystem swaps traversal params on the update thread. Changed prefab
// files arrive on the watcher channel; params that fail validation are
// logged and dropped, leaving the previous tuning active. Accepted params
// are saved to the store, and saved params are restored on first sight of a
// character unless its prefab params changed since the tuning was saved.
type TuningSystem struct {
	changes <-chan string
	store   TuningStore
	load    func(source string) (traversal.Params, error)
	// spawned holds the params each character had when first seen.
	spawned map[ecs.Entity]traversal.Params
	debug   bool
}

type TuningOption func(*TuningSystem)

func WithTuningStore(store TuningStore) TuningOption {
	return func(s *TuningSystem) {
		s.store = store
	}
}

func WithTuningLoader(load func(source string) (traversal.Params, error)) TuningOption {
	return func(s *TuningSystem) {
		s.load = load
	}
}

func NewTuningSystem(changes <-chan string, opts ...TuningOption) *TuningSystem {
	s := &TuningSystem{
		changes: changes,
		load:    prefabs.LoadTraversalParams,
		spawned: make(map[ecs.Entity]traversal.Params),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TuningSystem) SetDebug(debug bool) {
	if s != nil {
		s.debug = debug
	}
}

// Reset forgets every character seen so far.
func (s *TuningSystem) Reset() {
	s.spawned = make(map[ecs.Entity]traversal.Params)
}

func (s *TuningSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	s.restore(w)

	for {
		select {
		case name, ok := <-s.changes:
			if !ok {
				s.changes = nil
				return
			}
			s.reload(w, name)
		default:
			return
		}
	}
}

func (s *TuningSystem) restore(w *ecs.World) {
	for e := range s.spawned {
		if !w.IsAlive(e) {
			delete(s.spawned, e)
		}
	}
	ecs.ForEach(w, component.TraversalComponent.Kind(), func(e ecs.Entity, tr *component.Traversal) {
		if _, seen := s.spawned[e]; seen {
			return
		}
		s.spawned[e] = tr.Params
		if s.store == nil || tr.Source == "" {
			return
		}
		saved, ok, err := s.store.LoadTuning(tr.Source)
		if err != nil {
			log.Printf("tuning: %v", err)
			return
		}
		if !ok {
			return
		}
		if saved.Prefab != tr.Params {
			log.Printf("tuning: %s changed since its tuning was saved, keeping prefab params", tr.Source)
			return
		}
		s.apply(w, e, tr, saved.Tuned, "saved")
	})
}

func (s *TuningSystem) reload(w *ecs.World, name string) {
	changed := filepath.Base(name)
	var params *traversal.Params

	ecs.ForEach(w, component.TraversalComponent.Kind(), func(e ecs.Entity, tr *component.Traversal) {
		if tr.Source == "" || filepath.Base(tr.Source) != changed {
			return
		}
		if params == nil {
			p, err := s.load(tr.Source)
			if err != nil {
				log.Printf("tuning: reload %s: %v", tr.Source, err)
				return
			}
			params = &p
		}
		if s.apply(w, e, tr, *params, "reload") && s.store != nil {
			saved := SavedTuning{Prefab: s.spawned[e], Tuned: *params}
			if err := s.store.SaveTuning(tr.Source, saved); err != nil {
				log.Printf("tuning: %v", err)
			}
		}
	})
}

func (s *TuningSystem) apply(w *ecs.World, e ecs.Entity, tr *component.Traversal, p traversal.Params, origin string) bool {
	if err := p.Validate(); err != nil {
		log.Printf("tuning: rejected %s params for %s: %v", origin, tr.Source, err)
		return false
	}
	tr.Params = p
	w.Events().Push(ecs.Event{Type: ecs.EventParamsApplied, Data: e})
	if s.debug {
		log.Printf("tuning: applied %s params for %v from %s", origin, e, tr.Source)
	}
	return true
}
