package kpi

import (
	"math"
	"testing"

	"github.com/bioproc/chosim/internal/ferment"
)

func rowsTrajectory(rows ...ferment.State) *ferment.Trajectory {
	return &ferment.Trajectory{Rows: rows}
}

func TestComputeEmpty(t *testing.T) {
	if got := Compute(nil); got != (Summary{}) {
		t.Errorf("expected zero summary for nil trajectory, got %+v", got)
	}
	if got := Compute(&ferment.Trajectory{}); got != (Summary{}) {
		t.Errorf("expected zero summary for empty trajectory, got %+v", got)
	}
}

func TestComputeReductions(t *testing.T) {
	tr := rowsTrajectory(
		ferment.State{Time: 0, VCD: 0.5, Viability: 100, Titer: 0},
		ferment.State{Time: 1, VCD: 2.4, Viability: 98, Titer: 10},
		ferment.State{Time: 2, VCD: 3.1, Viability: 80, Titer: 55},
		ferment.State{Time: 3, VCD: 1.2, Viability: 42, Titer: 70},
	)

	got := Compute(tr)

	if got.FinalTiter != 70 {
		t.Errorf("expected final titer 70, got %f", got.FinalTiter)
	}
	if got.MaxVCD != 3.1 {
		t.Errorf("expected max vcd 3.1, got %f", got.MaxVCD)
	}
	if got.MinViability != 42 {
		t.Errorf("expected min viability 42, got %f", got.MinViability)
	}
	if math.Abs(got.AvgViability-80) > 1e-12 {
		t.Errorf("expected avg viability 80, got %f", got.AvgViability)
	}
}

func TestComputeSingleRow(t *testing.T) {
	tr := rowsTrajectory(ferment.State{VCD: 0.5, Viability: 100})

	got := Compute(tr)
	if got.MaxVCD != 0.5 || got.MinViability != 100 || got.AvgViability != 100 {
		t.Errorf("unexpected summary for single row: %+v", got)
	}
}

func TestComputeEndToEnd(t *testing.T) {
	sim, err := ferment.New(ferment.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	tr := sim.Simulate(ferment.RunParams{
		InitialGlucose: 25, InitialVCD: 0.5,
		Temperature: 37, PH: 7.2, DissolvedOxygen: 50,
	})
	got := Compute(tr)

	if got.FinalTiter != tr.Final().Titer {
		t.Errorf("final titer mismatch: %f vs %f", got.FinalTiter, tr.Final().Titer)
	}
	if got.MaxVCD < tr.Rows[0].VCD {
		t.Errorf("max vcd %f below initial %f", got.MaxVCD, tr.Rows[0].VCD)
	}
	if got.MinViability > got.AvgViability || got.AvgViability > 100 {
		t.Errorf("viability ordering violated: min %f avg %f", got.MinViability, got.AvgViability)
	}
}
