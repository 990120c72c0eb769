package entity

import (
	"fmt"
	"strings"

	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/levels"
)

// LevelOptions tweak how a level is spawned.
type LevelOptions struct {
	// Script, when set, drives the player from a tengo script.
	Script string
}

// LoadLevelToWorld fills the world with a level: bounds, merged colliders
// for each physics layer, then the listed entities.
func LoadLevelToWorld(world *ecs.World, lvl *levels.Level, opts LevelOptions) error {
	if world == nil || lvl == nil {
		return fmt.Errorf("level: nil world or level")
	}
	if err := lvl.Validate(); err != nil {
		return err
	}

	tileSize := lvl.Tile()
	boundsEntity := world.CreateEntity()
	if err := ecs.Add(world, boundsEntity, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:  float64(lvl.Width) * tileSize,
		Height: float64(lvl.Height) * tileSize,
	}); err != nil {
		return err
	}

	for layerIdx, layer := range lvl.Layers {
		if layerIdx >= len(lvl.LayerMeta) || !lvl.LayerMeta[layerIdx].Physics {
			continue
		}
		sensor := lvl.LayerMeta[layerIdx].Sensor
		if err := addMergedTileColliders(world, layer, lvl.Width, lvl.Height, tileSize, sensor); err != nil {
			return fmt.Errorf("level: layer %d: %w", layerIdx, err)
		}
	}

	for _, ent := range lvl.Entities {
		x, y := float64(ent.X), float64(ent.Y)
		switch strings.ToLower(ent.Type) {
		case "player":
			player, err := NewPlayerAt(world, x, y)
			if err != nil {
				return err
			}
			script := opts.Script
			if s, ok := ent.Props["script"].(string); ok && script == "" {
				script = s
			}
			if err := AttachScript(world, player, script); err != nil {
				return err
			}
		case "crate", "prop":
			prefab, _ := ent.Props["prefab"].(string)
			if _, err := NewPropAt(world, prefab, x, y); err != nil {
				return err
			}
		case "camera":
			if _, err := NewCameraAt(world, x, y); err != nil {
				return err
			}
		default:
			return fmt.Errorf("level: unknown entity type %q", ent.Type)
		}
	}

	return nil
}

// addMergedTileColliders greedily merges solid tiles into rectangles so a
// wall is one box instead of dozens.
func addMergedTileColliders(world *ecs.World, layer []int, width, height int, tileSize float64, sensor bool) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	visited := make([]bool, width*height)
	index := func(x, y int) int { return y*width + x }
	solid := func(idx int) bool { return idx < len(layer) && !visited[idx] && layer[idx] > 0 }

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !solid(index(x, y)) {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width && solid(index(x2, y)); x2++ {
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if !solid(index(x2, y2)) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, yy)] = true
				}
			}

			if err := addStaticBox(world, float64(x)*tileSize, float64(y)*tileSize, float64(maxW)*tileSize, float64(maxH)*tileSize, sensor); err != nil {
				return err
			}
		}
	}
	return nil
}

func addStaticBox(world *ecs.World, x, y, w, h float64, sensor bool) error {
	e := world.CreateEntity()
	if err := ecs.Add(world, e, component.TransformComponent.Kind(), &component.Transform{
		X:      x,
		Y:      y,
		ScaleX: 1,
		ScaleY: 1,
	}); err != nil {
		return err
	}
	if !sensor {
		if err := ecs.Add(world, e, component.WallTagComponent.Kind(), &component.WallTag{}); err != nil {
			return err
		}
	}
	return ecs.Add(world, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:        w,
		Height:       h,
		Friction:     0.9,
		Static:       true,
		Sensor:       sensor,
		AlignTopLeft: true,
	})
}

// NewLevelWorld spawns the named level into a fresh world. The world is only
// returned when the whole level spawned.
func NewLevelWorld(name string, opts LevelOptions) (*ecs.World, *levels.Level, error) {
	w := ecs.NewWorld()
	lvl, err := LoadLevel(w, name, opts)
	if err != nil {
		return nil, nil, err
	}
	return w, lvl, nil
}

// LoadLevel reads the named level and spawns it into world.
func LoadLevel(world *ecs.World, name string, opts LevelOptions) (*levels.Level, error) {
	lvl, err := levels.Load(name)
	if err != nil {
		return nil, fmt.Errorf("level: load %s: %w", name, err)
	}
	if err := LoadLevelToWorld(world, lvl, opts); err != nil {
		return nil, fmt.Errorf("level: spawn %s: %w", name, err)
	}
	return lvl, nil
}
