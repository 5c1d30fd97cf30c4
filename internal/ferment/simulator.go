package ferment

import (
	"fmt"
	"math"

	"github.com/bioproc/chosim/internal/kinetics"
	"github.com/bioproc/chosim/internal/stress"
)

// Simulator runs batch cultures against a validated Config.
type Simulator struct {
	cfg   Config
	model stress.Model
}

// New validates cfg and returns a Simulator. Validation failures are the
// only error path in the package.
func New(cfg Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{
		cfg: cfg,
		model: stress.Model{
			Optimal:       cfg.Optimal,
			Sigma:         cfg.Sigma,
			BaseDeathRate: cfg.BaseDeathRate,
		},
	}, nil
}

// Config returns the process constants the Simulator was built with.
func (s *Simulator) Config() Config { return s.cfg }

// Validate checks the preconditions the recurrence depends on.
func (c Config) Validate() error {
	if c.TimeStep <= 0 {
		return fmt.Errorf("%w, got %g", ErrTimeStep, c.TimeStep)
	}
	if c.Duration < c.TimeStep {
		return fmt.Errorf("%w, got duration %g with step %g", ErrDuration, c.Duration, c.TimeStep)
	}
	sigmas := []struct {
		name  string
		value float64
	}{
		{"temperature", c.Sigma.Temperature},
		{"ph", c.Sigma.PH},
		{"oxygen", c.Sigma.Oxygen},
		{"glucose", c.Sigma.Glucose},
	}
	for _, s := range sigmas {
		if s.value <= 0 {
			return fmt.Errorf("%w: %s, got %g", ErrSigma, s.name, s.value)
		}
	}
	if c.YieldCoefficient <= 0 {
		return fmt.Errorf("%w, got %g", ErrYield, c.YieldCoefficient)
	}
	return nil
}

// steps returns the number of integration steps. The small bias absorbs
// float division error so that e.g. 0.3/0.1 still counts 3 steps.
func (c Config) steps() int {
	return int(c.Duration/c.TimeStep + 1e-9)
}

// Simulate runs one batch and returns its trajectory. It never fails: the
// Config was validated at construction and the recurrence floors cell
// density and glucose at zero instead of signaling. Negative initial
// amounts are clamped to zero.
func (s *Simulator) Simulate(p RunParams) *Trajectory {
	p.InitialGlucose = math.Max(0, p.InitialGlucose)
	p.InitialVCD = math.Max(0, p.InitialVCD)

	cfg := s.cfg
	dt := cfg.TimeStep
	n := cfg.steps() + 1

	glucose := make([]float64, n)
	vcd := make([]float64, n)
	dead := make([]float64, n)
	titer := make([]float64, n)

	glucose[0] = p.InitialGlucose
	vcd[0] = p.InitialVCD

	cond := stress.Factors{
		Temperature: p.Temperature,
		PH:          p.PH,
		Oxygen:      p.DissolvedOxygen,
	}

	for i := 1; i < n; i++ {
		// Everything reads from step i-1; glucose feeds back into the
		// stress response as well as the uptake kinetics.
		cond.Glucose = glucose[i-1]
		act, deathRate := s.model.Evaluate(cond)

		substrate := kinetics.Haldane(glucose[i-1], cfg.SubstrateAffinity, cfg.InhibitionConstant)

		var grown, died float64
		if vcd[i-1] > 0 {
			grown = cfg.MaxGrowthRate * substrate * act * vcd[i-1] * dt
			died = deathRate * vcd[i-1] * dt
		}

		vcd[i] = math.Max(0, vcd[i-1]+grown-died)

		// Dead cells accumulate the full death term even when the viable
		// count floors at zero; the accumulator never decreases.
		dead[i] = dead[i-1] + died

		consumed := grown/cfg.YieldCoefficient + cfg.MaintenanceCoefficient*vcd[i-1]*dt
		glucose[i] = math.Max(0, glucose[i-1]-consumed)

		titer[i] = titer[i-1]
		if vcd[i] > 0 {
			titer[i] += cfg.AntibodyProductivity * vcd[i] * dt * act
		}
	}

	rows := make([]State, n)
	for i := range rows {
		v := round2(vcd[i])
		d := round2(dead[i])
		row := State{
			Time:      round2(float64(i) * dt),
			Glucose:   round2(glucose[i]),
			VCD:       v,
			DeadCells: d,
			// Assigned from the rounded parts so the identity survives
			// presentation rounding.
			TCD:   v + d,
			Titer: round2(titer[i]),
		}
		if tcd := vcd[i] + dead[i]; tcd > 0 {
			row.Viability = round2(100 * vcd[i] / tcd)
		}
		rows[i] = row
	}

	return &Trajectory{Params: p, Rows: rows}
}

// round2 rounds to two decimals for presentation.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
