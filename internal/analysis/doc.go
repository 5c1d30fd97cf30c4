// Package analysis provides statistics over collections of completed runs.
//
// The package answers the question "which input moved which outcome" for a
// batch of simulations:
//
//   - [Pearson]: linear correlation between two equal-length samples
//   - [Matrix]: labelled correlation grid, inputs against indicators
//   - [Mean], [Std]: descriptive statistics shared by sweep reporting
//
// # Reading the Matrix
//
// Coefficients near +1 or -1 mark inputs that linearly drive an indicator;
// a column of zeros usually means the input was held constant across runs:
//
//	m := analysis.NewMatrix(paramLabels, kpiLabels, paramCols, kpiCols)
//	m.Fprint(os.Stdout)
package analysis
