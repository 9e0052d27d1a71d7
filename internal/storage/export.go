package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/clothsim/internal/sim"
)

type ExportData struct {
	System   string             `json:"system"`
	FPS      float64            `json:"fps"`
	Substeps int                `json:"substeps"`
	Frames   int                `json:"frames"`
	Times    []float64          `json:"times"`
	Energy   []float64          `json:"energy"`
	Strain   []float64          `json:"strain"`
	States   [][]float64        `json:"states"`
	Metrics  map[string]float64 `json:"metrics"`
}

func NewExportData(meta RunMetadata, states []sim.State, times []float64) ExportData {
	data := ExportData{
		System:   meta.System,
		FPS:      meta.FPS,
		Substeps: meta.Substeps,
		Frames:   len(times),
		Times:    times,
		Energy:   make([]float64, len(states)),
		Strain:   make([]float64, len(states)),
		States:   make([][]float64, len(states)),
		Metrics:  meta.Metrics,
	}
	for i, s := range states {
		data.Energy[i] = s.Energy
		data.Strain[i] = s.Strain
		data.States[i] = s.Flatten()
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func ExportJSONStdout(data ExportData) error {
	return WriteJSON(os.Stdout, data)
}

// Export loads a stored run and packages it for JSON output.
func (s *Store) Export(runID string) (ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return ExportData{}, err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return ExportData{}, err
	}
	return NewExportData(*meta, states, times), nil
}
