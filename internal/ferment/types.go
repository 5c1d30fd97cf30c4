package ferment

import "github.com/bioproc/chosim/internal/stress"

// Process constants for a typical antibody-producing CHO batch culture.
// DefaultConfig wires them into a runnable Config.
const (
	DefaultDuration     = 288.0 // h, a 12 day batch
	DefaultTimeStep     = 1.0   // h
	DefaultMaxGrowth    = 0.035 // 1/h
	DefaultAffinity     = 2.0   // g/L, Monod half-saturation
	DefaultInhibition   = 50.0  // g/L, Haldane inhibition constant
	DefaultYield        = 0.4   // 1e6 cells per g glucose
	DefaultMaintenance  = 0.02  // g glucose per 1e6 cells per h
	DefaultBaseDeath    = 0.005 // 1/h at optimal conditions
	DefaultProductivity = 0.8   // ug antibody per 1e6 cells per h
)

// Config holds every process constant of the model. It is fixed at
// Simulator construction; the per-run inputs live in RunParams.
type Config struct {
	Duration float64 // total simulated time, h
	TimeStep float64 // integration step, h

	MaxGrowthRate          float64 // specific growth rate ceiling, 1/h
	SubstrateAffinity      float64 // Monod ks, g/L
	InhibitionConstant     float64 // Haldane ki, g/L
	YieldCoefficient       float64 // cells formed per glucose consumed
	MaintenanceCoefficient float64 // glucose burned per cell independent of growth
	BaseDeathRate          float64 // death rate at optimal conditions, 1/h
	AntibodyProductivity   float64 // specific productivity, ug per 1e6 cells per h

	Optimal stress.Factors // environmental set-points
	Sigma   stress.Factors // tolerance width per factor
}

// DefaultConfig returns the CHO process constants used throughout.
func DefaultConfig() Config {
	return Config{
		Duration:               DefaultDuration,
		TimeStep:               DefaultTimeStep,
		MaxGrowthRate:          DefaultMaxGrowth,
		SubstrateAffinity:      DefaultAffinity,
		InhibitionConstant:     DefaultInhibition,
		YieldCoefficient:       DefaultYield,
		MaintenanceCoefficient: DefaultMaintenance,
		BaseDeathRate:          DefaultBaseDeath,
		AntibodyProductivity:   DefaultProductivity,
		Optimal:                stress.Factors{Temperature: 37.0, PH: 7.2, Oxygen: 50.0, Glucose: 20.0},
		Sigma:                  stress.Factors{Temperature: 2.0, PH: 0.4, Oxygen: 20.0, Glucose: 40.0},
	}
}

// RunParams are the five inputs that vary between runs. Temperature, pH and
// dissolved oxygen are held constant over the whole batch.
type RunParams struct {
	InitialGlucose  float64 `json:"initial_glucose" yaml:"initial_glucose"`   // g/L
	InitialVCD      float64 `json:"initial_vcd" yaml:"initial_vcd"`           // 1e6 cells/mL
	Temperature     float64 `json:"temperature" yaml:"temperature"`           // C
	PH              float64 `json:"ph" yaml:"ph"`                             //
	DissolvedOxygen float64 `json:"dissolved_oxygen" yaml:"dissolved_oxygen"` // % saturation
}

// State is one sampled row of a trajectory. Values are rounded to two
// decimals; TCD always equals VCD + DeadCells exactly.
type State struct {
	Time      float64 `json:"time"`       // h
	Glucose   float64 `json:"glucose"`    // g/L
	VCD       float64 `json:"vcd"`        // viable cells, 1e6/mL
	DeadCells float64 `json:"dead_cells"` // accumulated dead cells, 1e6/mL
	TCD       float64 `json:"tcd"`        // total cells, 1e6/mL
	Viability float64 `json:"viability"`  // %
	Titer     float64 `json:"titer"`      // ug/mL
}

// Trajectory is a completed batch: the run inputs plus one State per grid
// point. Row 0 is the initial condition.
type Trajectory struct {
	Params RunParams
	Rows   []State
}

// Len returns the number of sampled rows, duration/timeStep + 1.
func (t *Trajectory) Len() int { return len(t.Rows) }

// Final returns the last sampled row.
func (t *Trajectory) Final() State {
	if len(t.Rows) == 0 {
		return State{}
	}
	return t.Rows[len(t.Rows)-1]
}

func (t *Trajectory) collect(f func(State) float64) []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = f(r)
	}
	return out
}

// Times returns the sample times in hours.
func (t *Trajectory) Times() []float64 { return t.collect(func(s State) float64 { return s.Time }) }

// GlucoseSeries returns the glucose column.
func (t *Trajectory) GlucoseSeries() []float64 {
	return t.collect(func(s State) float64 { return s.Glucose })
}

// VCDSeries returns the viable cell density column.
func (t *Trajectory) VCDSeries() []float64 { return t.collect(func(s State) float64 { return s.VCD }) }

// TCDSeries returns the total cell density column.
func (t *Trajectory) TCDSeries() []float64 { return t.collect(func(s State) float64 { return s.TCD }) }

// ViabilitySeries returns the viability column in percent.
func (t *Trajectory) ViabilitySeries() []float64 {
	return t.collect(func(s State) float64 { return s.Viability })
}

// TiterSeries returns the antibody titer column.
func (t *Trajectory) TiterSeries() []float64 {
	return t.collect(func(s State) float64 { return s.Titer })
}
