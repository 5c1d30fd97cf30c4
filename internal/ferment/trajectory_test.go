package ferment_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bioproc/chosim/internal/ferment"
)

var _ = Describe("Simulator", func() {
	var sim *ferment.Simulator

	baseline := ferment.RunParams{
		InitialGlucose:  25,
		InitialVCD:      0.5,
		Temperature:     37,
		PH:              7.2,
		DissolvedOxygen: 50,
	}

	BeforeEach(func() {
		var err error
		sim, err = ferment.New(ferment.DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("the sample grid", func() {
		It("produces duration/step + 1 rows", func() {
			tr := sim.Simulate(baseline)
			Expect(tr.Rows).To(HaveLen(289))
		})

		It("spaces rows one time step apart", func() {
			tr := sim.Simulate(baseline)
			Expect(tr.Rows[0].Time).To(Equal(0.0))
			Expect(tr.Rows[1].Time).To(Equal(1.0))
			Expect(tr.Final().Time).To(Equal(288.0))
		})

		It("handles fractional steps without losing the last row", func() {
			cfg := ferment.DefaultConfig()
			cfg.Duration = 0.3
			cfg.TimeStep = 0.1
			short, err := ferment.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			tr := short.Simulate(baseline)
			Expect(tr.Rows).To(HaveLen(4))
			Expect(tr.Final().Time).To(Equal(0.3))
		})
	})

	Describe("the initial row", func() {
		It("reflects the run inputs", func() {
			tr := sim.Simulate(baseline)
			first := tr.Rows[0]
			Expect(first.Glucose).To(Equal(25.0))
			Expect(first.VCD).To(Equal(0.5))
			Expect(first.DeadCells).To(Equal(0.0))
			Expect(first.TCD).To(Equal(0.5))
			Expect(first.Viability).To(Equal(100.0))
			Expect(first.Titer).To(Equal(0.0))
		})

		It("clamps negative initial amounts to zero", func() {
			p := baseline
			p.InitialGlucose = -3
			p.InitialVCD = -1
			tr := sim.Simulate(p)
			Expect(tr.Rows[0].Glucose).To(Equal(0.0))
			Expect(tr.Rows[0].VCD).To(Equal(0.0))
			Expect(tr.Params.InitialGlucose).To(Equal(0.0))
		})
	})

	Describe("the first integration step", func() {
		// Hand-computed from the recurrence with the default constants:
		// only the glucose response is off optimum (25 vs 20 g/L).
		It("matches the recurrence worked by hand", func() {
			tr := sim.Simulate(baseline)
			row := tr.Rows[1]
			Expect(row.Glucose).To(Equal(24.96))
			Expect(row.VCD).To(Equal(0.51))
			Expect(row.DeadCells).To(Equal(0.0))
			Expect(row.TCD).To(Equal(0.51))
			Expect(row.Viability).To(Equal(99.51))
			Expect(row.Titer).To(Equal(0.4))
		})
	})

	Describe("trajectory invariants", func() {
		It("keeps TCD equal to VCD plus dead cells on every row", func() {
			tr := sim.Simulate(baseline)
			for _, row := range tr.Rows {
				Expect(row.TCD).To(Equal(row.VCD+row.DeadCells),
					"row at t=%g", row.Time)
			}
		})

		It("never goes negative on cell density or glucose", func() {
			tr := sim.Simulate(baseline)
			for _, row := range tr.Rows {
				Expect(row.VCD).To(BeNumerically(">=", 0))
				Expect(row.Glucose).To(BeNumerically(">=", 0))
			}
		})

		It("keeps viability within [0, 100]", func() {
			tr := sim.Simulate(baseline)
			for _, row := range tr.Rows {
				Expect(row.Viability).To(BeNumerically(">=", 0))
				Expect(row.Viability).To(BeNumerically("<=", 100))
			}
		})

		It("accumulates dead cells and titer monotonically", func() {
			tr := sim.Simulate(baseline)
			for i := 1; i < len(tr.Rows); i++ {
				Expect(tr.Rows[i].DeadCells).To(BeNumerically(">=", tr.Rows[i-1].DeadCells))
				Expect(tr.Rows[i].Titer).To(BeNumerically(">=", tr.Rows[i-1].Titer))
			}
		})

		It("is deterministic", func() {
			a := sim.Simulate(baseline)
			b := sim.Simulate(baseline)
			Expect(a.Rows).To(Equal(b.Rows))
		})
	})

	Describe("a culture started without cells", func() {
		It("stays empty and consumes nothing", func() {
			p := baseline
			p.InitialVCD = 0
			tr := sim.Simulate(p)
			for _, row := range tr.Rows {
				Expect(row.VCD).To(Equal(0.0))
				Expect(row.TCD).To(Equal(0.0))
				Expect(row.Viability).To(Equal(0.0))
				Expect(row.Titer).To(Equal(0.0))
				Expect(row.Glucose).To(Equal(25.0))
			}
		})
	})

	Describe("a culture under lethal heat stress", func() {
		It("crashes within a few steps without producing NaN", func() {
			p := baseline
			p.Temperature = 57 // ten tolerance widths above optimum
			tr := sim.Simulate(p)

			Expect(tr.Final().VCD).To(Equal(0.0))
			Expect(tr.Final().Viability).To(BeNumerically("<", 1))
			for _, row := range tr.Rows {
				Expect(math.IsNaN(row.DeadCells)).To(BeFalse(), "row at t=%g", row.Time)
				Expect(math.IsNaN(row.Viability)).To(BeFalse())
			}
		})

		It("survives a response underflow with an infinite death term", func() {
			p := baseline
			p.Temperature = 150 // far enough for the response to hit exact zero
			tr := sim.Simulate(p)

			// One step wipes out the culture; the accumulator saturates at
			// +Inf instead of poisoning later rows with NaN.
			Expect(tr.Rows[1].VCD).To(Equal(0.0))
			Expect(math.IsInf(tr.Final().DeadCells, 1)).To(BeTrue())
			Expect(tr.Final().Viability).To(Equal(0.0))
			for _, row := range tr.Rows {
				Expect(math.IsNaN(row.DeadCells)).To(BeFalse())
			}
		})
	})

	Describe("a culture at the exact optimum", func() {
		It("grows and produces from the first step", func() {
			p := ferment.RunParams{
				InitialGlucose:  20, // the glucose optimum
				InitialVCD:      0.5,
				Temperature:     37,
				PH:              7.2,
				DissolvedOxygen: 50,
			}
			tr := sim.Simulate(p)
			Expect(tr.Rows[1].VCD).To(BeNumerically(">", tr.Rows[0].VCD))
			Expect(tr.Rows[1].Titer).To(BeNumerically(">", 0))
			Expect(tr.Rows[1].Glucose).To(BeNumerically("<", 20))
		})
	})
})
