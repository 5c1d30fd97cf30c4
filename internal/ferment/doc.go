// Package ferment simulates a batch CHO cell culture in a stirred bioreactor.
//
// The model tracks viable cell density, accumulated dead cells, glucose and
// antibody titer over a fixed time grid under a constant environment:
//
//   - [Config]: process constants (kinetics, stress optima, time grid)
//   - [RunParams]: the five per-run inputs (initial glucose and VCD,
//     temperature, pH, dissolved oxygen)
//   - [Simulator]: validates a Config once and runs batches against it
//   - [Trajectory]: the sampled result, one [State] row per grid point
//
// Growth follows Haldane substrate kinetics scaled by a multiplicative
// environmental activity factor; death scales with the reciprocal of that
// factor and is unbounded under severe stress. Integration is a fixed-step
// explicit Euler recurrence with floors at zero for cell density and
// glucose. Trajectory rows are rounded to two decimals for presentation;
// the recurrence itself runs at full precision.
//
// # Example
//
//	sim, err := ferment.New(ferment.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	tr := sim.Simulate(ferment.RunParams{
//		InitialGlucose:  25,
//		InitialVCD:      0.5,
//		Temperature:     37,
//		PH:              7.2,
//		DissolvedOxygen: 50,
//	})
//	fmt.Println(tr.Final().Titer)
//
// # Thread Safety
//
// A Simulator is immutable after New and safe for concurrent Simulate calls;
// each call allocates its own working state.
package ferment
