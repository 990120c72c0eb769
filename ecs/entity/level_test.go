package entity

import (
	"testing"

	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/levels"
)

func TestMergedTileColliders(t *testing.T) {
	// ##.
	// ##.
	// ###
	layer := []int{
		1, 1, 0,
		1, 1, 0,
		1, 1, 1,
	}
	w := ecs.NewWorld()
	if err := addMergedTileColliders(w, layer, 3, 3, 10, false); err != nil {
		t.Fatalf("merge: %v", err)
	}

	type box struct{ x, y, w, h float64 }
	var got []box
	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		if !body.Static || !body.AlignTopLeft || !ecs.Has(w, e, component.WallTagComponent.Kind()) {
			t.Fatalf("expected a static top-left wall, got %+v", body)
		}
		got = append(got, box{tr.X, tr.Y, body.Width, body.Height})
	}
	want := map[box]bool{
		{0, 0, 20, 30}:   true,
		{20, 20, 10, 10}: true,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d boxes, got %+v", len(want), got)
	}
	for _, b := range got {
		if !want[b] {
			t.Fatalf("unexpected box %+v", b)
		}
	}
}

func TestSensorLayerColliders(t *testing.T) {
	w := ecs.NewWorld()
	if err := addMergedTileColliders(w, []int{1, 1}, 2, 1, 32, true); err != nil {
		t.Fatalf("merge: %v", err)
	}
	bodies := w.Query(component.PhysicsBodyComponent.Kind())
	if len(bodies) != 1 {
		t.Fatalf("expected one merged sensor, got %d", len(bodies))
	}
	body, _ := ecs.Get(w, bodies[0], component.PhysicsBodyComponent.Kind())
	if !body.Sensor || ecs.Has(w, bodies[0], component.WallTagComponent.Kind()) {
		t.Fatalf("expected a sensor without a wall tag, got %+v", body)
	}
}

func TestLoadLevel(t *testing.T) {
	w := ecs.NewWorld()
	lvl, err := LoadLevel(w, "wallrun", LevelOptions{Script: "wallrun"})
	if err != nil {
		t.Fatalf("load level: %v", err)
	}

	bounds, ok := w.First(component.LevelBoundsComponent.Kind())
	if !ok {
		t.Fatalf("expected level bounds")
	}
	b, _ := ecs.Get(w, bounds, component.LevelBoundsComponent.Kind())
	if b.Width != float64(lvl.Width)*lvl.Tile() || b.Height != float64(lvl.Height)*lvl.Tile() {
		t.Fatalf("unexpected bounds %+v", b)
	}

	if got := len(w.Query(component.WallTagComponent.Kind())); got != 5 {
		t.Fatalf("expected 5 merged walls, got %d", got)
	}
	sensors := 0
	for _, e := range w.Query(component.PhysicsBodyComponent.Kind()) {
		if body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); body.Sensor {
			sensors++
		}
	}
	if sensors != 1 {
		t.Fatalf("expected 1 sensor volume, got %d", sensors)
	}

	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		t.Fatalf("expected a player")
	}
	si, ok := ecs.Get(w, player, component.ScriptInputComponent.Kind())
	if !ok || si.Path != "wallrun" {
		t.Fatalf("expected the player to be scripted, got %+v", si)
	}
	if got := len(w.Query(component.PropTagComponent.Kind())); got != 1 {
		t.Fatalf("expected one crate, got %d", got)
	}
	if _, ok := w.First(component.CameraComponent.Kind()); !ok {
		t.Fatalf("expected a camera")
	}
}

func TestNewLevelWorld(t *testing.T) {
	w, lvl, err := NewLevelWorld("wallrun", LevelOptions{})
	if err != nil {
		t.Fatalf("new level world: %v", err)
	}
	if w == nil || lvl == nil {
		t.Fatalf("expected a world and a level")
	}
	if _, ok := w.First(component.PlayerTagComponent.Kind()); !ok {
		t.Fatalf("expected the player in the new world")
	}

	w, lvl, err = NewLevelWorld("no_such_level", LevelOptions{})
	if err == nil {
		t.Fatalf("expected an error for a missing level")
	}
	if w != nil || lvl != nil {
		t.Fatalf("expected no partial world on failure, got %v %v", w, lvl)
	}
}

func TestLoadLevelToWorldErrors(t *testing.T) {
	tests := []struct {
		name string
		lvl  *levels.Level
	}{
		{name: "nil", lvl: nil},
		{name: "bad_size", lvl: &levels.Level{Width: 0, Height: 2}},
		{name: "short_layer", lvl: &levels.Level{Width: 2, Height: 2, Layers: [][]int{{1}}}},
		{name: "unknown_entity", lvl: &levels.Level{Width: 1, Height: 1, Entities: []levels.Entity{{Type: "dragon"}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := LoadLevelToWorld(ecs.NewWorld(), tc.lvl, LevelOptions{}); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
