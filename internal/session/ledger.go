// Package session keeps completed runs of the current process in memory so
// they can be listed, compared and correlated. Nothing is written to disk;
// the ledger dies with the process.
package session

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/bioproc/chosim/internal/analysis"
	"github.com/bioproc/chosim/internal/ferment"
	"github.com/bioproc/chosim/internal/kpi"
)

// Correlation labels, in presentation order.
var (
	ParamLabels = []string{"initial_glucose", "initial_vcd", "temperature", "ph", "oxygen"}
	KPILabels   = []string{"final_titer", "max_vcd", "avg_viability", "min_viability"}
)

// Record is one completed run.
type Record struct {
	ID        string
	Number    int // 1-based, in insertion order
	Label     string
	CreatedAt time.Time
	Params    ferment.RunParams
	KPIs      kpi.Summary
}

// Ledger is an append-only in-memory run history, safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	records []Record
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Add stores a completed run and returns the record, with a fresh ID and
// the next run number assigned.
func (l *Ledger) Add(label string, p ferment.RunParams, s kpi.Summary) Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := Record{
		ID:        uuid.New().String(),
		Number:    len(l.records) + 1,
		Label:     label,
		CreatedAt: time.Now(),
		Params:    p,
		KPIs:      s,
	}
	l.records = append(l.records, rec)
	return rec
}

// List returns a copy of all records in insertion order.
func (l *Ledger) List() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of recorded runs.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Clear drops all records; run numbers restart at 1.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}

// Correlation returns the Pearson matrix of run inputs against indicators
// over every recorded run. With fewer than two runs every coefficient is 0.
func (l *Ledger) Correlation() analysis.Matrix {
	recs := l.List()

	paramCols := make([][]float64, len(ParamLabels))
	kpiCols := make([][]float64, len(KPILabels))
	for i := range paramCols {
		paramCols[i] = make([]float64, len(recs))
	}
	for j := range kpiCols {
		kpiCols[j] = make([]float64, len(recs))
	}

	for n, r := range recs {
		paramCols[0][n] = r.Params.InitialGlucose
		paramCols[1][n] = r.Params.InitialVCD
		paramCols[2][n] = r.Params.Temperature
		paramCols[3][n] = r.Params.PH
		paramCols[4][n] = r.Params.DissolvedOxygen

		kpiCols[0][n] = r.KPIs.FinalTiter
		kpiCols[1][n] = r.KPIs.MaxVCD
		kpiCols[2][n] = r.KPIs.AvgViability
		kpiCols[3][n] = r.KPIs.MinViability
	}

	return analysis.NewMatrix(ParamLabels, KPILabels, paramCols, kpiCols)
}

// FprintComparison renders the run history as an aligned table, one row per
// run with its inputs and indicators.
func (l *Ledger) FprintComparison(w io.Writer) error {
	recs := l.List()
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "no runs recorded")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tLABEL\tGLC\tVCD\tTEMP\tPH\tDO2\tTITER\tMAX VCD\tAVG VIA\tMIN VIA")
	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.2f\t%.1f\t%.2f\t%.1f\t%.1f\t%.2f\t%.1f\t%.1f\n",
			r.Number, r.Label,
			r.Params.InitialGlucose, r.Params.InitialVCD,
			r.Params.Temperature, r.Params.PH, r.Params.DissolvedOxygen,
			r.KPIs.FinalTiter, r.KPIs.MaxVCD, r.KPIs.AvgViability, r.KPIs.MinViability,
		)
	}
	return tw.Flush()
}
