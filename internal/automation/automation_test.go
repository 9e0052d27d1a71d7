package automation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/clothsim/internal/config"
)

const smallCloth = `cloth:
  num_width_points: 6
  num_height_points: 6
  pinned: [[0, 5], [5, 5]]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	clothCfg := writeFile(t, dir, "cloth.yaml", smallCloth)
	batchPath := writeFile(t, dir, "batch.yaml", `name: smoke
steps:
  - system: cloth
    config: `+clothCfg+`
    frames: 3
    params:
      ks: 2000
  - system: galaxy
    preset: binary
    frames: 5
`)

	b, err := LoadBatch(batchPath)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if b.Name != "smoke" || len(b.Steps) != 2 {
		t.Fatalf("unexpected batch %+v", b)
	}

	var seen []string
	results, err := RunBatch(context.Background(), b, func(i int, s Step) { seen = append(seen, s.System) })
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if strings.Join(seen, ",") != "cloth,galaxy" {
		t.Errorf("progress saw %v", seen)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Result.StepsTaken != 3 || results[1].Result.StepsTaken != 5 {
		t.Errorf("frames taken %d, %d", results[0].Result.StepsTaken, results[1].Result.StepsTaken)
	}
	if got := len(results[0].Result.Final().Positions); got != 36 {
		t.Errorf("cloth config not applied, %d points", got)
	}
	if _, ok := results[0].Result.Metrics["max_strain"]; !ok {
		t.Errorf("missing strain metric")
	}
}

func TestRunBatchStopsOnError(t *testing.T) {
	b := &Batch{Steps: []Step{
		{System: "galaxy", Preset: "binary", Frames: 2},
		{System: "cloth", Preset: "missing"},
		{System: "galaxy", Frames: 2},
	}}
	results, err := RunBatch(context.Background(), b, nil)
	if err == nil || !strings.Contains(err.Error(), "step 2") {
		t.Errorf("expected step 2 error, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected the first result to survive, got %d", len(results))
	}
}

func TestLoadBatchEmpty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yaml", "name: nothing\n")
	if _, err := LoadBatch(path); err == nil {
		t.Error("expected error for a batch without steps")
	}
}

func TestSweepValues(t *testing.T) {
	got := Sweep{Min: 1, Max: 2, Steps: 5}.Values()
	want := []float64{1, 1.25, 1.5, 1.75, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %v, want %v", i, got[i], want[i])
		}
	}
	if v := (Sweep{Min: 3, Max: 9, Steps: 1}).Values(); len(v) != 1 || v[0] != 3 {
		t.Errorf("single step = %v", v)
	}
}

func TestRunSweep(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cloth.NumWidthPoints, cfg.Cloth.NumHeightPoints = 5, 5
	cfg.Cloth.Pinned = [][2]int{{0, 4}, {4, 4}}
	cfg.Simulation.Frames = 4

	points, err := RunSweep(context.Background(), cfg, Sweep{System: "cloth", Param: "ks", Min: 1000, Max: 5000, Steps: 3})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for _, p := range points {
		if p.Stopped {
			t.Errorf("ks=%v stopped early", p.Value)
		}
		if p.Metrics["max_strain"] < 1 {
			t.Errorf("ks=%v strain %v below rest", p.Value, p.Metrics["max_strain"])
		}
	}
}
