// Package stress maps deviations from optimal culture conditions to a growth
// activity factor and a death-rate multiplier.
//
// Each of the four controlled factors (temperature, pH, dissolved oxygen,
// glucose) contributes a Gaussian response in (0, 1] that equals 1 at its
// optimum. Activity is the product of the four responses. The death rate is
// the base rate times the product of the reciprocal responses, so it grows
// without bound as conditions worsen and is never clamped: far enough from
// the optimum a response underflows to 0 and the reciprocal becomes +Inf,
// which callers must tolerate.
package stress

import "math"

// Factors holds one value per controlled environmental factor. The same
// struct serves as current conditions, optimum set-points and tolerance
// widths. The factor list is fixed; adding a factor means touching Evaluate.
type Factors struct {
	Temperature float64 `yaml:"temperature" json:"temperature"`
	PH          float64 `yaml:"ph" json:"ph"`
	Oxygen      float64 `yaml:"oxygen" json:"oxygen"`
	Glucose     float64 `yaml:"glucose" json:"glucose"`
}

// Model evaluates environmental stress against an optimum. Sigma widths must
// all be positive; the engine checks them at construction.
type Model struct {
	Optimal       Factors
	Sigma         Factors
	BaseDeathRate float64
}

// Gaussian is the bell response exp(-0.5·((value-optimal)/sigma)²).
// It is 1 at the optimum and falls toward 0 with deviation; sigma sets the
// width in the factor's own units.
func Gaussian(value, optimal, sigma float64) float64 {
	dev := (value - optimal) / sigma
	return math.Exp(-0.5 * dev * dev)
}

func (m Model) responses(f Factors) (t, ph, o2, glc float64) {
	t = Gaussian(f.Temperature, m.Optimal.Temperature, m.Sigma.Temperature)
	ph = Gaussian(f.PH, m.Optimal.PH, m.Sigma.PH)
	o2 = Gaussian(f.Oxygen, m.Optimal.Oxygen, m.Sigma.Oxygen)
	glc = Gaussian(f.Glucose, m.Optimal.Glucose, m.Sigma.Glucose)
	return
}

// Activity returns the product of the four Gaussian responses, in (0, 1].
func (m Model) Activity(f Factors) float64 {
	t, ph, o2, glc := m.responses(f)
	return t * ph * o2 * glc
}

// Evaluate returns the growth activity factor and the specific death rate
// under the given conditions. The death rate is unbounded above.
func (m Model) Evaluate(f Factors) (activity, deathRate float64) {
	t, ph, o2, glc := m.responses(f)
	activity = t * ph * o2 * glc
	deathRate = m.BaseDeathRate * (1 / t) * (1 / ph) * (1 / o2) * (1 / glc)
	return activity, deathRate
}
