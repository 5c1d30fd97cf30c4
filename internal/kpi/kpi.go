// Package kpi reduces a completed trajectory to the four headline process
// indicators used for run comparison.
package kpi

import "github.com/bioproc/chosim/internal/ferment"

// Summary holds the per-run key performance indicators.
type Summary struct {
	FinalTiter   float64 `json:"final_titer" yaml:"final_titer"`     // ug/mL at harvest
	MaxVCD       float64 `json:"max_vcd" yaml:"max_vcd"`             // peak viable density, 1e6/mL
	AvgViability float64 `json:"avg_viability" yaml:"avg_viability"` // mean %, whole batch
	MinViability float64 `json:"min_viability" yaml:"min_viability"` // worst %, whole batch
}

// Compute reduces tr in a single pass. An empty trajectory yields the zero
// Summary.
func Compute(tr *ferment.Trajectory) Summary {
	if tr == nil || len(tr.Rows) == 0 {
		return Summary{}
	}

	s := Summary{
		FinalTiter:   tr.Final().Titer,
		MaxVCD:       tr.Rows[0].VCD,
		MinViability: tr.Rows[0].Viability,
	}

	var viaSum float64
	for _, row := range tr.Rows {
		if row.VCD > s.MaxVCD {
			s.MaxVCD = row.VCD
		}
		if row.Viability < s.MinViability {
			s.MinViability = row.Viability
		}
		viaSum += row.Viability
	}
	s.AvgViability = viaSum / float64(len(tr.Rows))

	return s
}
