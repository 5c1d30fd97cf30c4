package config

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/bioproc/chosim/internal/ferment"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Process.Duration != 288.0 {
		t.Errorf("expected duration 288, got %g", cfg.Process.Duration)
	}
	if cfg.Process.TimeStep != 1.0 {
		t.Errorf("expected time step 1, got %g", cfg.Process.TimeStep)
	}
	if cfg.Kinetics.MaxGrowthRate != 0.035 {
		t.Errorf("expected max growth rate 0.035, got %g", cfg.Kinetics.MaxGrowthRate)
	}
	if cfg.Environment.Optimal.Temperature != 37.0 {
		t.Errorf("expected optimal temperature 37, got %g", cfg.Environment.Optimal.Temperature)
	}
	if cfg.Run.InitialGlucose != 25.0 {
		t.Errorf("expected initial glucose 25, got %g", cfg.Run.InitialGlucose)
	}
}

func TestEngineRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Engine() != ferment.DefaultConfig() {
		t.Error("default config should map onto the default engine config")
	}
	if err := cfg.Engine().Validate(); err != nil {
		t.Errorf("default engine config should validate, got %v", err)
	}
}

func TestParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Run.Temperature = 33.0

	p := cfg.Params()
	if p.Temperature != 33.0 {
		t.Errorf("expected temperature 33, got %g", p.Temperature)
	}
	if p.InitialVCD != 0.5 {
		t.Errorf("expected initial vcd 0.5, got %g", p.InitialVCD)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("mild-hypothermia")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Run.Temperature != 33.0 {
		t.Errorf("expected temperature 33, got %g", cfg.Run.Temperature)
	}
	if cfg.Run.InitialGlucose != 25.0 {
		t.Errorf("expected initial glucose 25, got %g", cfg.Run.InitialGlucose)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsKeepKinetics(t *testing.T) {
	def := DefaultConfig()
	for name, cfg := range Presets {
		if cfg.Kinetics != def.Kinetics {
			t.Errorf("preset %s should not change kinetic constants", name)
		}
		if cfg.Process != def.Process {
			t.Errorf("preset %s should not change the time grid", name)
		}
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("expected sorted names, got %v", names)
	}
	found := false
	for _, name := range names {
		if name == "baseline" {
			found = true
		}
	}
	if !found {
		t.Error("expected baseline among presets")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "culture.yaml")
	yml := []byte("run:\n  temperature: 31.5\n  ph: 6.9\n")
	if err := os.WriteFile(path, yml, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Run.Temperature != 31.5 {
		t.Errorf("expected temperature 31.5, got %g", cfg.Run.Temperature)
	}
	if cfg.Run.PH != 6.9 {
		t.Errorf("expected ph 6.9, got %g", cfg.Run.PH)
	}
	// Everything the file omits keeps its default.
	if cfg.Run.InitialGlucose != 25.0 {
		t.Errorf("expected initial glucose 25, got %g", cfg.Run.InitialGlucose)
	}
	if cfg.Kinetics.YieldCoefficient != 0.4 {
		t.Errorf("expected yield 0.4, got %g", cfg.Kinetics.YieldCoefficient)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "culture.yaml")

	want := DefaultConfig()
	want.Run.DissolvedOxygen = 35.0
	want.Kinetics.BaseDeathRate = 0.008
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Errorf("round trip changed config:\nwant %+v\ngot  %+v", *want, *got)
	}
}
