// Package sweep fans a grid of run parameters out over worker goroutines
// and collects the indicators of every combination. A sweep never touches
// disk; its output feeds the session ledger and the correlation matrix.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/bioproc/chosim/internal/ferment"
	"github.com/bioproc/chosim/internal/kpi"
)

var (
	// ErrUnknownParam indicates an axis name outside the five run inputs.
	ErrUnknownParam = errors.New("sweep: unknown parameter")

	// ErrNoAxes indicates a sweep without a single axis.
	ErrNoAxes = errors.New("sweep: need at least one axis")
)

// Axis is one swept run parameter with an inclusive linear range.
type Axis struct {
	Param  string
	From   float64
	To     float64
	Points int
}

// Values returns the sampled grid points. A single-point axis collapses to
// From; otherwise the last point lands exactly on To.
func (a Axis) Values() []float64 {
	if a.Points <= 1 {
		return []float64{a.From}
	}
	vals := make([]float64, a.Points)
	step := (a.To - a.From) / float64(a.Points-1)
	for i := range vals {
		vals[i] = a.From + float64(i)*step
	}
	vals[a.Points-1] = a.To
	return vals
}

// Apply sets the named run parameter. Names follow the CLI flags: glucose,
// vcd, temperature, ph, oxygen.
func Apply(p ferment.RunParams, param string, v float64) (ferment.RunParams, error) {
	switch param {
	case "glucose":
		p.InitialGlucose = v
	case "vcd":
		p.InitialVCD = v
	case "temperature":
		p.Temperature = v
	case "ph":
		p.PH = v
	case "oxygen":
		p.DissolvedOxygen = v
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownParam, param)
	}
	return p, nil
}

// Value reads the named run parameter, mirroring Apply.
func Value(p ferment.RunParams, param string) (float64, error) {
	switch param {
	case "glucose":
		return p.InitialGlucose, nil
	case "vcd":
		return p.InitialVCD, nil
	case "temperature":
		return p.Temperature, nil
	case "ph":
		return p.PH, nil
	case "oxygen":
		return p.DissolvedOxygen, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, param)
	}
}

// Result pairs one grid combination with its indicators.
type Result struct {
	Params ferment.RunParams
	KPIs   kpi.Summary
}

// Sweep runs the cross product of its axes against one Simulator.
type Sweep struct {
	sim     *ferment.Simulator
	base    ferment.RunParams
	axes    []Axis
	workers int
}

// New validates the axes against the known parameter names. workers <= 0
// takes one worker per available CPU.
func New(sim *ferment.Simulator, base ferment.RunParams, axes []Axis, workers int) (*Sweep, error) {
	if len(axes) == 0 {
		return nil, ErrNoAxes
	}
	for _, a := range axes {
		if _, err := Apply(base, a.Param, a.From); err != nil {
			return nil, err
		}
		if a.Points < 1 {
			return nil, fmt.Errorf("sweep: axis %s needs at least one point", a.Param)
		}
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Sweep{sim: sim, base: base, axes: axes, workers: workers}, nil
}

// combos expands the axes into the full grid in row-major order: the last
// axis varies fastest. Apply cannot fail here, New already vetted the names.
func (s *Sweep) combos() []ferment.RunParams {
	grid := []ferment.RunParams{s.base}
	for _, axis := range s.axes {
		vals := axis.Values()
		next := make([]ferment.RunParams, 0, len(grid)*len(vals))
		for _, p := range grid {
			for _, v := range vals {
				np, _ := Apply(p, axis.Param, v)
				next = append(next, np)
			}
		}
		grid = next
	}
	return grid
}

// Size returns the number of grid combinations.
func (s *Sweep) Size() int {
	n := 1
	for _, a := range s.axes {
		n *= a.Points
	}
	return n
}

// Run executes every combination and returns results in grid order
// regardless of completion order. It honors ctx between dispatches.
func (s *Sweep) Run(ctx context.Context) ([]Result, error) {
	combos := s.combos()
	results := make([]Result, len(combos))

	workers := s.workers
	if workers > len(combos) {
		workers = len(combos)
	}
	slog.Debug("sweep dispatch", "combos", len(combos), "workers", workers)

	idx := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range idx {
				tr := s.sim.Simulate(combos[i])
				results[i] = Result{Params: combos[i], KPIs: kpi.Compute(tr)}
			}
		}()
	}

	var err error
feed:
	for i := range combos {
		if err = ctx.Err(); err != nil {
			break feed
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case idx <- i:
		}
	}
	close(idx)
	wg.Wait()

	if err != nil {
		return nil, err
	}
	return results, nil
}

// Best returns the result with the highest final titer.
func Best(results []Result) (Result, bool) {
	if len(results) == 0 {
		return Result{}, false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.KPIs.FinalTiter > best.KPIs.FinalTiter {
			best = r
		}
	}
	return best, true
}
