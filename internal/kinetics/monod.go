// Package kinetics provides substrate-limitation factors for cell culture
// growth models. Both factors are dimensionless, lie in [0, 1) and vanish
// when the substrate is exhausted.
package kinetics

// Monod returns the classic saturation factor s / (ks + s), where ks is the
// substrate concentration at which growth runs at half its maximum rate.
func Monod(s, ks float64) float64 {
	if s <= 0 {
		return 0
	}
	return s / (ks + s)
}

// Haldane extends Monod with substrate inhibition: s / (ks + s + s²/ki).
// High concentrations depress the factor again, with an interior maximum at
// s = sqrt(ks·ki). ki must be positive.
func Haldane(s, ks, ki float64) float64 {
	if s <= 0 {
		return 0
	}
	return s / (ks + s + s*s/ki)
}
