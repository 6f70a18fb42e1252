package config

import (
	"bytes"
	"io"
	"io/ioutil"
	"math"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultScenePath = "track.dae"
	DefaultLevelPath = "EasyOneSaber.dat"
)

// Offset moves and rotates a whole scene before it is decomposed into walls.
// Rotations are in degrees.
type Offset struct {
	X              float64 `yaml:"x"`
	Y              float64 `yaml:"y"`
	Z              float64 `yaml:"z"`
	RotX           float64 `yaml:"rot_x"`
	RotY           float64 `yaml:"rot_y"`
	RotZ           float64 `yaml:"rot_z"`
	GlobalRotation float64 `yaml:"global_rotation"`
}

// Axes names the scene axis ("x", "y" or "z") feeding each game axis.
type Axes struct {
	Time       string  `yaml:"time"`
	Horizontal string  `yaml:"horizontal"`
	Vertical   string  `yaml:"vertical"`
	TimeSign   float64 `yaml:"time_sign"`
}

type Config struct {
	Scene string `yaml:"scene"`
	Level string `yaml:"level"`

	// Multiplier for the horizontal and vertical game axes. Time is never scaled.
	Scale         float64 `yaml:"scale"`
	HyperDuration float64 `yaml:"hyper_duration"`
	HyperPrefix   string  `yaml:"hyper_prefix"`

	// RGB of materials whose name contains UnnamedMaterialMarker is
	// multiplied by ColorMultiplier.
	ColorMultiplier       float64 `yaml:"color_multiplier"`
	UnnamedMaterialMarker string  `yaml:"unnamed_material_marker"`

	Track                   string  `yaml:"track"`
	NoteJumpStartBeatOffset float64 `yaml:"note_jump_start_beat_offset"`

	// Must be kept in sync with the song length by hand.
	FadeOutTime     float64 `yaml:"fade_out_time"`
	FadeOutDuration float64 `yaml:"fade_out_duration"`

	ScaleEpsilon float64 `yaml:"scale_epsilon"`

	Offset Offset `yaml:"offset"`
	Axes   Axes   `yaml:"axes"`
}

func Default() *Config {
	return &Config{
		Scene:                   DefaultScenePath,
		Level:                   DefaultLevelPath,
		Scale:                   5,
		HyperDuration:           -10,
		HyperPrefix:             "hyper",
		ColorMultiplier:         20,
		UnnamedMaterialMarker:   "Material",
		Track:                   "New Mombasa",
		NoteJumpStartBeatOffset: 4,
		FadeOutTime:             338.75,
		FadeOutDuration:         5,
		ScaleEpsilon:            1e-9,
		Axes: Axes{
			Time:       "x",
			Horizontal: "y",
			Vertical:   "z",
			TimeSign:   -1,
		},
	}
}

// Decode overlays yaml from r on top of the defaults.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "Failed to unmarshal yaml")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a yaml config file. Empty path means defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read config %q", path)
	}

	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "Config %q", path)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.Scale == 0 || math.IsNaN(cfg.Scale) || math.IsInf(cfg.Scale, 0) {
		return errors.Errorf("Invalid scale %v", cfg.Scale)
	}
	if cfg.ScaleEpsilon < 0 {
		return errors.Errorf("Negative scale_epsilon %v", cfg.ScaleEpsilon)
	}
	if cfg.FadeOutDuration < 0 {
		return errors.Errorf("Negative fade_out_duration %v", cfg.FadeOutDuration)
	}
	if cfg.Track == "" {
		return errors.Errorf("Empty track name")
	}
	if cfg.UnnamedMaterialMarker == "" {
		return errors.Errorf("Empty unnamed_material_marker")
	}

	seen := make(map[string]bool)
	for _, axis := range []string{cfg.Axes.Time, cfg.Axes.Horizontal, cfg.Axes.Vertical} {
		switch axis {
		case "x", "y", "z":
		default:
			return errors.Errorf("Unknown axis %q", axis)
		}
		if seen[axis] {
			return errors.Errorf("Axis %q mapped twice", axis)
		}
		seen[axis] = true
	}
	if cfg.Axes.TimeSign != 1 && cfg.Axes.TimeSign != -1 {
		return errors.Errorf("time_sign must be 1 or -1, got %v", cfg.Axes.TimeSign)
	}
	return nil
}

// Marshal renders the config as yaml, used to print effective settings.
func (cfg *Config) Marshal() ([]byte, error) {
	var buffer bytes.Buffer
	enc := yaml.NewEncoder(&buffer)
	enc.SetIndent(2)

	if err := enc.Encode(cfg); err != nil {
		return nil, errors.Wrapf(err, "Failed to marshal yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrapf(err, "Failed to close yaml encoder")
	}
	return buffer.Bytes(), nil
}

func (cfg *Config) Save(path string) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "Failed to write config %q", path)
	}
	return nil
}
