package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var LevelsFS embed.FS

// Level is a map definition: grid dimensions, the wall tile layer as rows
// of '#'/'.', and free-standing props. Rows are indexed top-down, so
// Walls[y][x] corresponds to grid cell (x, y).
type Level struct {
	Name     string  `yaml:"name"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	CellSize float64 `yaml:"cell_size"`

	Walls []string `yaml:"walls"`
	Props []Prop   `yaml:"props"`

	Guards []GuardSpawn `yaml:"guards"`
}

// Prop is an axis-aligned rectangle placed in world space. Layer selects
// which obstacle probe it answers: "object" marks tile-layer occupancy,
// "collider" a physical blocker tested by circle overlap. Anything else is
// decorative and never blocks.
type Prop struct {
	Name   string  `yaml:"name"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Layer  string  `yaml:"layer"`
}

// GuardSpawn places a guard on the map. Behavior is "patrol" or "hostile".
type GuardSpawn struct {
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	Behavior     string  `yaml:"behavior"`
	PatrolRadius float64 `yaml:"patrol_radius"`
}

const (
	LayerObject   = "object"
	LayerCollider = "collider"
)

// Parse decodes and validates a level definition.
func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Load reads a bundled level by file name.
func Load(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a level from disk. Used by the hot-reload watcher.
func LoadFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

// Names lists the bundled level files in lexical order.
func Names() ([]string, error) {
	entries, err := fs.Glob(LevelsFS, "*.yaml")
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (l *Level) validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("level %q: dimensions %dx%d are invalid", l.Name, l.Width, l.Height)
	}
	if l.CellSize <= 0 {
		return fmt.Errorf("level %q: cell_size must be positive", l.Name)
	}
	if len(l.Walls) != l.Height {
		return fmt.Errorf("level %q: %d wall rows, want %d", l.Name, len(l.Walls), l.Height)
	}
	for y, row := range l.Walls {
		if len(row) != l.Width {
			return fmt.Errorf("level %q: wall row %d has %d columns, want %d", l.Name, y, len(row), l.Width)
		}
	}
	for _, p := range l.Props {
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("level %q: prop %q has non-positive dimensions", l.Name, p.Name)
		}
	}
	return nil
}

// WallAtCell reports whether the wall layer occupies grid cell (x, y).
// Out-of-range cells count as walls.
func (l *Level) WallAtCell(x, y int) bool {
	if y < 0 || y >= len(l.Walls) || x < 0 || x >= len(l.Walls[y]) {
		return true
	}
	return l.Walls[y][x] == '#'
}
