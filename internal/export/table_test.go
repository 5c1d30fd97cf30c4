package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bioproc/chosim/internal/ferment"
	"github.com/bioproc/chosim/internal/kpi"
)

func batchTrajectory(t *testing.T) *ferment.Trajectory {
	t.Helper()
	sim, err := ferment.New(ferment.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return sim.Simulate(ferment.RunParams{
		InitialGlucose: 25, InitialVCD: 0.5,
		Temperature: 37, PH: 7.2, DissolvedOxygen: 50,
	})
}

func TestWriteCSV(t *testing.T) {
	tr := batchTrajectory(t)

	var b bytes.Buffer
	if err := WriteCSV(&b, tr); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&b).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if len(records) != 1+289 {
		t.Fatalf("expected header plus 289 rows, got %d records", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(Columns, ",") {
		t.Errorf("unexpected header: %v", records[0])
	}

	first := records[1]
	if first[0] != "0.00" || first[1] != "25.00" || first[2] != "0.50" {
		t.Errorf("unexpected initial row: %v", first)
	}
	// Environment columns repeat the constant run inputs.
	if first[6] != "37.00" || first[7] != "7.20" || first[8] != "50.00" {
		t.Errorf("unexpected environment columns: %v", first)
	}
	last := records[len(records)-1]
	if last[0] != "288.00" {
		t.Errorf("expected final row at 288h, got %v", last[0])
	}
}

func TestWriteJSON(t *testing.T) {
	tr := batchTrajectory(t)
	sum := kpi.Compute(tr)

	var b bytes.Buffer
	if err := WriteJSON(&b, tr, sum); err != nil {
		t.Fatal(err)
	}

	var doc Document
	if err := json.Unmarshal(b.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}

	if len(doc.Rows) != 289 {
		t.Errorf("expected 289 rows, got %d", len(doc.Rows))
	}
	if doc.Params.Temperature != 37 {
		t.Errorf("expected temperature 37, got %f", doc.Params.Temperature)
	}
	if doc.KPIs != sum {
		t.Errorf("expected kpis %+v, got %+v", sum, doc.KPIs)
	}
	if doc.Rows[0].Viability != 100 {
		t.Errorf("expected initial viability 100, got %f", doc.Rows[0].Viability)
	}
}

func TestFprintTableStride(t *testing.T) {
	tr := batchTrajectory(t)

	var b bytes.Buffer
	if err := FprintTable(&b, tr, 6); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	// Header plus ceil(289/6) sampled rows.
	if len(lines) != 1+49 {
		t.Errorf("expected 50 lines at 6h stride, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "TIME") {
		t.Errorf("expected header line, got %q", lines[0])
	}
}

func TestFprintTableFullWhenStrideBelowOne(t *testing.T) {
	tr := batchTrajectory(t)

	var b bytes.Buffer
	if err := FprintTable(&b, tr, 0); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 1+289 {
		t.Errorf("expected every row at stride 0, got %d lines", len(lines))
	}
}
