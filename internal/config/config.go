// Package config maps YAML files and named presets onto engine constants
// and run inputs. Values omitted from a file keep their defaults.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bioproc/chosim/internal/ferment"
	"github.com/bioproc/chosim/internal/stress"
)

// Config is the on-disk shape of a simulation setup: the time grid, the
// kinetic constants, the environmental response model and the default run
// inputs.
type Config struct {
	Process     ProcessConfig     `yaml:"process"`
	Kinetics    KineticsConfig    `yaml:"kinetics"`
	Environment EnvironmentConfig `yaml:"environment"`
	Run         RunConfig         `yaml:"run"`
}

type ProcessConfig struct {
	Duration float64 `yaml:"duration"`  // h
	TimeStep float64 `yaml:"time_step"` // h
}

type KineticsConfig struct {
	MaxGrowthRate          float64 `yaml:"max_growth_rate"`
	SubstrateAffinity      float64 `yaml:"substrate_affinity"`
	InhibitionConstant     float64 `yaml:"inhibition_constant"`
	YieldCoefficient       float64 `yaml:"yield_coefficient"`
	MaintenanceCoefficient float64 `yaml:"maintenance_coefficient"`
	BaseDeathRate          float64 `yaml:"base_death_rate"`
	AntibodyProductivity   float64 `yaml:"antibody_productivity"`
}

type EnvironmentConfig struct {
	Optimal stress.Factors `yaml:"optimal"`
	Sigma   stress.Factors `yaml:"sigma"`
}

type RunConfig struct {
	InitialGlucose  float64 `yaml:"initial_glucose"`  // g/L
	InitialVCD      float64 `yaml:"initial_vcd"`      // 1e6 cells/mL
	Temperature     float64 `yaml:"temperature"`      // C
	PH              float64 `yaml:"ph"`               //
	DissolvedOxygen float64 `yaml:"dissolved_oxygen"` // % saturation
}

// DefaultConfig mirrors the engine defaults plus the usual seeding inputs.
func DefaultConfig() *Config {
	eng := ferment.DefaultConfig()
	return &Config{
		Process: ProcessConfig{
			Duration: eng.Duration,
			TimeStep: eng.TimeStep,
		},
		Kinetics: KineticsConfig{
			MaxGrowthRate:          eng.MaxGrowthRate,
			SubstrateAffinity:      eng.SubstrateAffinity,
			InhibitionConstant:     eng.InhibitionConstant,
			YieldCoefficient:       eng.YieldCoefficient,
			MaintenanceCoefficient: eng.MaintenanceCoefficient,
			BaseDeathRate:          eng.BaseDeathRate,
			AntibodyProductivity:   eng.AntibodyProductivity,
		},
		Environment: EnvironmentConfig{
			Optimal: eng.Optimal,
			Sigma:   eng.Sigma,
		},
		Run: RunConfig{
			InitialGlucose:  25.0,
			InitialVCD:      0.5,
			Temperature:     37.0,
			PH:              7.2,
			DissolvedOxygen: 50.0,
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Engine converts to the engine's Config. Validation happens at
// ferment.New, not here.
func (c *Config) Engine() ferment.Config {
	return ferment.Config{
		Duration:               c.Process.Duration,
		TimeStep:               c.Process.TimeStep,
		MaxGrowthRate:          c.Kinetics.MaxGrowthRate,
		SubstrateAffinity:      c.Kinetics.SubstrateAffinity,
		InhibitionConstant:     c.Kinetics.InhibitionConstant,
		YieldCoefficient:       c.Kinetics.YieldCoefficient,
		MaintenanceCoefficient: c.Kinetics.MaintenanceCoefficient,
		BaseDeathRate:          c.Kinetics.BaseDeathRate,
		AntibodyProductivity:   c.Kinetics.AntibodyProductivity,
		Optimal:                c.Environment.Optimal,
		Sigma:                  c.Environment.Sigma,
	}
}

// Params returns the configured run inputs.
func (c *Config) Params() ferment.RunParams {
	return ferment.RunParams{
		InitialGlucose:  c.Run.InitialGlucose,
		InitialVCD:      c.Run.InitialVCD,
		Temperature:     c.Run.Temperature,
		PH:              c.Run.PH,
		DissolvedOxygen: c.Run.DissolvedOxygen,
	}
}
