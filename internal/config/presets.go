package config

import "sort"

// withRun returns the default config with its run inputs replaced.
// Presets vary the culture conditions, never the kinetic constants.
func withRun(run RunConfig) *Config {
	cfg := DefaultConfig()
	cfg.Run = run
	return cfg
}

// Presets are ready-made culture scenarios.
var Presets = map[string]*Config{
	"baseline": withRun(RunConfig{
		InitialGlucose:  25.0,
		InitialVCD:      0.5,
		Temperature:     37.0,
		PH:              7.2,
		DissolvedOxygen: 50.0,
	}),
	"high-density": withRun(RunConfig{
		InitialGlucose:  35.0,
		InitialVCD:      2.0,
		Temperature:     37.0,
		PH:              7.2,
		DissolvedOxygen: 50.0,
	}),
	"mild-hypothermia": withRun(RunConfig{
		InitialGlucose:  25.0,
		InitialVCD:      0.5,
		Temperature:     33.0,
		PH:              7.2,
		DissolvedOxygen: 50.0,
	}),
	"heat-stress": withRun(RunConfig{
		InitialGlucose:  25.0,
		InitialVCD:      0.5,
		Temperature:     42.0,
		PH:              7.2,
		DissolvedOxygen: 50.0,
	}),
	"acidosis": withRun(RunConfig{
		InitialGlucose:  25.0,
		InitialVCD:      0.5,
		Temperature:     37.0,
		PH:              6.6,
		DissolvedOxygen: 50.0,
	}),
	"hypoxia": withRun(RunConfig{
		InitialGlucose:  25.0,
		InitialVCD:      0.5,
		Temperature:     37.0,
		PH:              7.2,
		DissolvedOxygen: 15.0,
	}),
	"starvation": withRun(RunConfig{
		InitialGlucose:  5.0,
		InitialVCD:      0.5,
		Temperature:     37.0,
		PH:              7.2,
		DissolvedOxygen: 50.0,
	}),
}

// GetPreset returns the named scenario, or nil if there is none.
func GetPreset(name string) *Config {
	return Presets[name]
}

// ListPresets returns the scenario names sorted alphabetically.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
