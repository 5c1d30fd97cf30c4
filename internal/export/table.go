// Package export renders completed trajectories for consumption outside the
// process: delimited tables for piping, JSON documents for tooling and PNG
// charts for reports. It never stores simulation state; everything it writes
// is re-derivable from the run inputs.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/bioproc/chosim/internal/ferment"
	"github.com/bioproc/chosim/internal/kpi"
)

// Columns is the ordered trajectory schema. The three environment columns
// are constant for a run and repeated per row so downstream joins need no
// side table.
var Columns = []string{
	"time", "glucose", "vcd", "tcd", "viability", "titer",
	"temperature", "ph", "oxygen",
}

func rowValues(tr *ferment.Trajectory, s ferment.State) []float64 {
	return []float64{
		s.Time, s.Glucose, s.VCD, s.TCD, s.Viability, s.Titer,
		tr.Params.Temperature, tr.Params.PH, tr.Params.DissolvedOxygen,
	}
}

// WriteCSV writes the full trajectory with a header row.
func WriteCSV(w io.Writer, tr *ferment.Trajectory) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return err
	}
	record := make([]string, len(Columns))
	for _, row := range tr.Rows {
		for i, v := range rowValues(tr, row) {
			record[i] = strconv.FormatFloat(v, 'f', 2, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Document is the JSON export shape: run inputs, indicators and the full
// row set.
type Document struct {
	Params ferment.RunParams `json:"params"`
	KPIs   kpi.Summary       `json:"kpis"`
	Rows   []ferment.State   `json:"rows"`
}

// WriteJSON writes an indented Document.
func WriteJSON(w io.Writer, tr *ferment.Trajectory, s kpi.Summary) error {
	doc := Document{
		Params: tr.Params,
		KPIs:   s,
		Rows:   tr.Rows,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// FprintTable renders an aligned table. every > 1 keeps only every Nth row,
// counted from the initial condition, so long batches stay readable.
func FprintTable(w io.Writer, tr *ferment.Trajectory, every int) error {
	if every < 1 {
		every = 1
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME(H)\tGLUCOSE(G/L)\tVCD\tTCD\tVIABILITY(%)\tTITER(UG/ML)\tTEMP(C)\tPH\tDO2(%)")

	for i := 0; i < len(tr.Rows); i += every {
		row := tr.Rows[i]
		fmt.Fprintf(tw, "%g\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.1f\t%.2f\t%.1f\n",
			row.Time, row.Glucose, row.VCD, row.TCD, row.Viability, row.Titer,
			tr.Params.Temperature, tr.Params.PH, tr.Params.DissolvedOxygen,
		)
	}

	return tw.Flush()
}
