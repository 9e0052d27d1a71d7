package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/vecmath"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	System      string             `json:"system"`
	Preset      string             `json:"preset,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	FPS         float64            `json:"fps"`
	Substeps    int                `json:"substeps"`
	Frames      int                `json:"frames"`
	Points      int                `json:"points"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
	Errors      []string           `json:"errors,omitempty"`
}

// NewMetadata fills the run description from a driver config and result.
func NewMetadata(preset string, cfg sim.Config, result *sim.Result) RunMetadata {
	meta := RunMetadata{
		System:      result.System,
		Preset:      preset,
		Timestamp:   time.Now(),
		Seed:        cfg.Seed,
		FPS:         cfg.FPS,
		Substeps:    cfg.Substeps,
		Frames:      result.StepsTaken,
		Points:      len(result.Final().Positions),
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}
	return meta
}

// Save writes metadata.json and frames.csv into a new run directory and
// returns the run id.
func (s *Store) Save(preset string, cfg sim.Config, result *sim.Result) (string, error) {
	meta := NewMetadata(preset, cfg, result)
	runID, err := s.createRunDir(fmt.Sprintf("%s_%d", meta.System, meta.Timestamp.UnixNano()))
	if err != nil {
		return "", err
	}
	meta.ID = runID
	runDir := filepath.Join(s.baseDir, runID)

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := writeFrames(w, result); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// createRunDir makes a fresh directory for base, adding a numeric suffix if
// the name is taken.
func (s *Store) createRunDir(base string) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	id := base
	for i := 1; ; i++ {
		err := os.Mkdir(filepath.Join(s.baseDir, id), 0755)
		if err == nil {
			return id, nil
		}
		if !os.IsExist(err) {
			return "", err
		}
		id = fmt.Sprintf("%s_%d", base, i)
	}
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }

func writeFrames(w *csv.Writer, result *sim.Result) error {
	if len(result.States) == 0 {
		return nil
	}

	header := []string{"time", "energy", "strain"}
	for i := range result.States[0].Positions {
		header = append(header, fmt.Sprintf("p%d_x", i), fmt.Sprintf("p%d_y", i), fmt.Sprintf("p%d_z", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, st := range result.States {
		row := []string{formatFloat(result.Times[i]), formatFloat(st.Energy), formatFloat(st.Strain)}
		for _, val := range st.Flatten() {
			row = append(row, formatFloat(val))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadStates reads frames.csv back into snapshots. Malformed rows are skipped.
func (s *Store) LoadStates(runID string) ([]sim.State, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []sim.State{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([]sim.State, 0, len(records)-1)

	for _, record := range records[1:] {
		vals, ok := parseRow(record)
		if !ok || len(vals) < 3 || (len(vals)-3)%3 != 0 {
			continue
		}

		st := sim.State{Energy: vals[1], Strain: vals[2]}
		for j := 3; j < len(vals); j += 3 {
			st.Positions = append(st.Positions, vecmath.New(vals[j], vals[j+1], vals[j+2]))
		}
		times = append(times, vals[0])
		states = append(states, st)
	}

	return states, times, nil
}

func parseRow(record []string) ([]float64, bool) {
	vals := make([]float64, len(record))
	for i, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

// Series extracts one per-frame scalar ("energy", "strain", "centroid_y")
// from a stored run for plotting.
func (s *Store) Series(runID, name string) ([]float64, error) {
	states, _, err := s.LoadStates(runID)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(states))
	for i, st := range states {
		switch name {
		case "energy":
			out[i] = st.Energy
		case "strain":
			out[i] = st.Strain
		case "centroid_y":
			out[i] = st.Centroid().Y
		default:
			return nil, fmt.Errorf("unknown series %q", name)
		}
	}
	return out, nil
}
