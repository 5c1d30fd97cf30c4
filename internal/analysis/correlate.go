package analysis

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Matrix is a labelled grid of correlation coefficients, one row per input
// column and one column per indicator column.
type Matrix struct {
	RowLabels []string
	ColLabels []string
	Coeffs    [][]float64
}

// NewMatrix correlates every row column against every col column. rowCols
// and colCols carry one sample slice per label, all of equal length (one
// entry per run).
func NewMatrix(rowLabels, colLabels []string, rowCols, colCols [][]float64) Matrix {
	m := Matrix{
		RowLabels: rowLabels,
		ColLabels: colLabels,
		Coeffs:    make([][]float64, len(rowLabels)),
	}
	for i := range rowLabels {
		m.Coeffs[i] = make([]float64, len(colLabels))
		for j := range colLabels {
			m.Coeffs[i][j] = Pearson(rowCols[i], colCols[j])
		}
	}
	return m
}

// At returns the coefficient for the named row and column, 0 when either
// label is unknown.
func (m Matrix) At(row, col string) float64 {
	ri, ci := -1, -1
	for i, l := range m.RowLabels {
		if l == row {
			ri = i
		}
	}
	for j, l := range m.ColLabels {
		if l == col {
			ci = j
		}
	}
	if ri < 0 || ci < 0 {
		return 0
	}
	return m.Coeffs[ri][ci]
}

// Fprint renders the matrix as an aligned signed table.
func (m Matrix) Fprint(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprint(tw, "PARAM")
	for _, col := range m.ColLabels {
		fmt.Fprintf(tw, "\t%s", col)
	}
	fmt.Fprintln(tw)

	for i, row := range m.RowLabels {
		fmt.Fprint(tw, row)
		for j := range m.ColLabels {
			fmt.Fprintf(tw, "\t%+.2f", m.Coeffs[i][j])
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}
