package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed *.json
var LevelsFS embed.FS

// DefaultTileSize is used when a level leaves tile_size unset.
const DefaultTileSize = 32.0

type Level struct {
	Name      string      `json:"name,omitempty"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  float64     `json:"tile_size,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

// LayerMeta marks which tile layers become colliders. Sensor layers overlap
// without blocking.
type LayerMeta struct {
	Physics bool `json:"physics"`
	Sensor  bool `json:"sensor,omitempty"`
}

type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

func (l *Level) Tile() float64 {
	if l == nil || l.TileSize <= 0 {
		return DefaultTileSize
	}
	return l.TileSize
}

// Validate checks that every layer covers the whole grid.
func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("level: invalid size %dx%d", l.Width, l.Height)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("level: layer %d has %d tiles, want %d", i, len(layer), l.Width*l.Height)
		}
	}
	return nil
}

func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return decode(data)
}

// Load reads a level from levels/ on disk when present, else from the
// embedded set.
func Load(name string) (*Level, error) {
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	if data, err := os.ReadFile(filepath.Join("levels", filepath.Base(name))); err == nil {
		return decode(data)
	}
	return LoadLevelFromFS(filepath.Base(name))
}

func decode(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}
