package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed tuning.yaml
var defaultTuning []byte

//go:embed tuning.schema.json
var tuningSchema string

// Tuning holds the gameplay constants a run is played with.
type Tuning struct {
	TickRate    int         `yaml:"tick_rate"`   // Ticks per second
	ScrollStep  int         `yaml:"scroll_step"` // Distance entities move toward the camera per tick
	RowSpacing  int         `yaml:"row_spacing"` // Distance between spawned rows
	SpawnZ      float64     `yaml:"spawn_z"`     // Where new rows appear
	CoinChance  float64     `yaml:"coin_chance"` // Chance of a coin on a lane without an obstacle
	TickScore   int         `yaml:"tick_score"`
	CoinScore   int         `yaml:"coin_score"`
	MinScale    float64     `yaml:"min_scale"`
	InitialRows InitialRows `yaml:"initial_rows"`
	LevelLength int         `yaml:"level_length"` // Rows per difficulty level
	Levels      []Level     `yaml:"levels"`
	Fog         Fog         `yaml:"fog"`
}

// InitialRows describes the rows placed before the first tick. Row i sits
// at z = -i * RowSpacing.
type InitialRows struct {
	First       int     `yaml:"first"`
	Last        int     `yaml:"last"`
	Probability float64 `yaml:"probability"`
	MaxScale    float64 `yaml:"max_scale"`
}

// Level is the spawn policy of one difficulty level.
type Level struct {
	TreePresenceProb float64 `yaml:"tree_presence_prob"`
	MaxTreeSize      float64 `yaml:"max_tree_size"`
}

// Fog is the visibility range and how it closes in as difficulty grows.
type Fog struct {
	Near    float64     `yaml:"near"`
	Start   float64     `yaml:"start"`
	Floor   float64     `yaml:"floor"`
	Windows []FogWindow `yaml:"windows"`
}

// FogWindow pulls the fog in by Total spread evenly over the rows of levels
// [FromLevel, ToLevel).
type FogWindow struct {
	FromLevel int     `yaml:"from_level"`
	ToLevel   int     `yaml:"to_level"`
	Total     float64 `yaml:"total"`
}

// Level returns the spawn policy for level n (1-based). Levels past the end
// of the table keep the last entry.
func (t Tuning) Level(n int) Level {
	if n < 1 {
		n = 1
	}
	if n > len(t.Levels) {
		n = len(t.Levels)
	}
	return t.Levels[n-1]
}

// FogStep returns how far the fog moves in when the difficulty reaches d.
func (t Tuning) FogStep(d int) float64 {
	for _, w := range t.Fog.Windows {
		if d >= w.FromLevel*t.LevelLength && d < w.ToLevel*t.LevelLength {
			return w.Total / float64(t.LevelLength)
		}
	}
	return 0
}

// Default returns the built-in tuning.
func Default() Tuning {
	t, err := Parse(defaultTuning)
	if err != nil {
		panic(fmt.Sprintf("built-in tuning: %v", err))
	}
	return t
}

// Load reads a tuning file. An empty path yields the built-in tuning.
func Load(path string) (Tuning, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	t, err := Parse(raw)
	if err != nil {
		return Tuning{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates a YAML tuning document.
func Parse(raw []byte) (Tuning, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Tuning{}, fmt.Errorf("tuning yaml: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return Tuning{}, err
	}

	var t Tuning
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Tuning{}, fmt.Errorf("tuning yaml: %w", err)
	}
	if err := t.check(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// check covers the cross-field rules a schema cannot express.
func (t Tuning) check() error {
	var errs []error
	if t.InitialRows.Last < t.InitialRows.First {
		errs = append(errs, errors.New("initial_rows: last before first"))
	}
	if t.ScrollStep > 0 && t.RowSpacing%t.ScrollStep != 0 {
		errs = append(errs, errors.New("row_spacing must be a multiple of scroll_step"))
	}
	if t.Fog.Floor > t.Fog.Start {
		errs = append(errs, errors.New("fog: floor beyond start"))
	}
	for i, w := range t.Fog.Windows {
		if w.ToLevel <= w.FromLevel {
			errs = append(errs, fmt.Errorf("fog window %d: empty range", i))
		}
	}
	return errors.Join(errs...)
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("tuning.schema.json", strings.NewReader(tuningSchema)); err != nil {
		return nil, err
	}
	return c.Compile("tuning.schema.json")
})

// validateSchema checks a decoded YAML document against the tuning schema.
// The document takes a trip through JSON so the validator sees JSON types.
func validateSchema(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("tuning schema: %w", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("tuning to json: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("tuning to json: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("invalid tuning: %w", err)
	}
	return nil
}
