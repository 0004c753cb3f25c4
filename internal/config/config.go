// Package config loads funnel generation jobs.
//
// Config file locations (priority order):
//  1. --config flag
//  2. $FUNNEL_CONFIG
//  3. ./funnel.yaml
//
// Without a config file the two reference funnels and default quality
// levels are used.
package config

import (
	"fmt"
	"os"

	"github.com/funnelworks/funnel/form3/obj3/funnel"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath is the environment variable naming the config file.
	EnvConfigPath = "FUNNEL_CONFIG"
	// ConfigFileName is the config file looked up in the working directory.
	ConfigFileName = "funnel.yaml"
)

// Quality levels select the tessellation resolution.
const (
	QualityPreview = "preview"
	QualityExport  = "export"
)

// Config is a funnel generation job.
type Config struct {
	Quality   QualityConfig `yaml:"quality"`
	Material  string        `yaml:"material"`
	OutputDir string        `yaml:"output_dir"`
	Profile   ProfileConfig `yaml:"profile"`
	Finned    FinnedConfig  `yaml:"finned"`
}

// QualityConfig holds the mesh cells along the longest model axis per quality level.
type QualityConfig struct {
	Preview int `yaml:"preview"`
	Export  int `yaml:"export"`
}

// ProfileConfig holds the parameters of the revolved profile funnel.
type ProfileConfig struct {
	FunnelHeight    float64 `yaml:"funnel_height"`
	FunnelTopRadius float64 `yaml:"funnel_top_radius"`
	ThroatHeight    float64 `yaml:"throat_height"`
	ThroatRadius    float64 `yaml:"throat_radius"`
	WallThickness   float64 `yaml:"wall_thickness"`
	TopEdgeHeight   float64 `yaml:"top_edge_height"`
}

// FinnedConfig holds the parameters of the finned funnel.
type FinnedConfig struct {
	OuterDiameter    float64 `yaml:"outer_diameter"`
	ConeAngle        float64 `yaml:"cone_angle"`
	StemDiameter     float64 `yaml:"stem_diameter"`
	StemLength       float64 `yaml:"stem_length"`
	StemTaper        float64 `yaml:"stem_taper"`
	AirGapPercentage float64 `yaml:"air_gap_percentage"`
	FinType          int     `yaml:"fin_type"`
	FinCount         int     `yaml:"fin_count"`
	FinTwistAngle    float64 `yaml:"fin_twist_angle"`
	FinDirection     int     `yaml:"fin_direction"`
	FinDepth         float64 `yaml:"fin_depth"`
	FinWidth         float64 `yaml:"fin_width"`
	TabDiameter      float64 `yaml:"tab_diameter"`
	TabHeight        float64 `yaml:"tab_height"`
}

// Load finds and loads the config file, or returns defaults if none found.
// A non empty explicit path takes precedence and must exist.
func Load(explicit string) (*Config, string, error) {
	if explicit != "" {
		return LoadFromPath(explicit)
	}
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}
	// unset keys keep their default values.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, path, nil
}

// FindConfigPath returns the first existing config file, or "" if there is none.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}
	if fileExists(ConfigFileName) {
		return ConfigFileName
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the reference funnels at default quality.
func DefaultConfig() *Config {
	return &Config{
		Quality:   QualityConfig{Preview: 64, Export: 256},
		Material:  "none",
		OutputDir: ".",
		Profile: ProfileConfig{
			FunnelHeight:    60,
			FunnelTopRadius: 50,
			ThroatHeight:    20,
			ThroatRadius:    15,
			WallThickness:   0.8,
			TopEdgeHeight:   5,
		},
		Finned: FinnedConfig{
			OuterDiameter:    70,
			ConeAngle:        60,
			StemDiameter:     12,
			StemLength:       50,
			StemTaper:        15,
			AirGapPercentage: 40,
			FinType:          int(funnel.FinBasic),
			FinCount:         10,
			FinTwistAngle:    45,
			FinDirection:     int(funnel.Clockwise),
			FinDepth:         3,
		},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Quality.Preview <= 0 {
		c.Quality.Preview = def.Quality.Preview
	}
	if c.Quality.Export <= 0 {
		c.Quality.Export = def.Quality.Export
	}
	if c.Material == "" {
		c.Material = def.Material
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
}

// MeshCells returns the mesh resolution for a quality level.
func (c *Config) MeshCells(quality string) (int, error) {
	switch quality {
	case QualityPreview:
		return c.Quality.Preview, nil
	case QualityExport:
		return c.Quality.Export, nil
	}
	return 0, fmt.Errorf("unknown quality %q, want %q or %q", quality, QualityPreview, QualityExport)
}

// Parms returns the generator parameters.
func (p ProfileConfig) Parms() funnel.ProfileParms {
	return funnel.ProfileParms{
		FunnelHeight:    p.FunnelHeight,
		FunnelTopRadius: p.FunnelTopRadius,
		ThroatHeight:    p.ThroatHeight,
		ThroatRadius:    p.ThroatRadius,
		WallThickness:   p.WallThickness,
		TopEdgeHeight:   p.TopEdgeHeight,
	}
}

// Parms returns the generator parameters.
func (f FinnedConfig) Parms() funnel.FinnedParms {
	return funnel.FinnedParms{
		OuterDiameter:    f.OuterDiameter,
		ConeAngle:        f.ConeAngle,
		StemDiameter:     f.StemDiameter,
		StemLength:       f.StemLength,
		StemTaper:        f.StemTaper,
		AirGapPercentage: f.AirGapPercentage,
		FinType:          funnel.FinType(f.FinType),
		FinCount:         f.FinCount,
		FinTwistAngle:    f.FinTwistAngle,
		FinDirection:     funnel.FinDirection(f.FinDirection),
		FinDepth:         f.FinDepth,
		FinWidth:         f.FinWidth,
		TabDiameter:      f.TabDiameter,
		TabHeight:        f.TabHeight,
	}
}
