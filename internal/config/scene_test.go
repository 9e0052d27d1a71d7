package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const solarScene = `{
  "spheres": [
    {"origin": [0, 0, 0], "radius": 20, "friction": 0.3, "velocity": [0, 0, 0], "mass": 1.989e30},
    {"origin": [1496, 0, 0], "radius": 2, "friction": 0.3, "velocity": [0, 0, 29.8], "mass": 5.972e24},
    {"origin": [2279, 0, 0], "radius": 1, "friction": 0.3, "velocity": [0, 0, 24.1], "mass": 6.39e23}
  ]
}`

func TestParseScene(t *testing.T) {
	scene, err := ParseScene([]byte(solarScene))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(scene.Bodies) != 3 {
		t.Fatalf("expected 3 bodies, got %d", len(scene.Bodies))
	}
	earth := scene.Bodies[1]
	if earth.Origin[0] != 1496 || earth.Velocity[2] != 29.8 || earth.Mass != 5.972e24 {
		t.Errorf("unexpected body %+v", earth)
	}
	if scene.DisplayScale != 1000 {
		t.Errorf("expected display scale 1000, got %f", scene.DisplayScale)
	}
}

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		field   string
	}{
		{"unknown key", `{"teapot": {}}`, ErrInvalidSceneObject, "teapot"},
		{"missing mass", `{"spheres": [{"origin": [1,2,3], "radius": 1, "friction": 0, "velocity": [0,0,0]}]}`, ErrIncompleteSphere, "mass"},
		{"missing origin", `{"spheres": [{"radius": 1, "friction": 0, "velocity": [0,0,0], "mass": 1}]}`, ErrIncompleteSphere, "origin"},
		{"missing velocity", `{"spheres": [{"origin": [1,2,3], "radius": 1, "friction": 0, "mass": 1}]}`, ErrIncompleteSphere, "velocity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene([]byte(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %q", err, tt.field)
			}
		})
	}
}

func TestParseSceneIgnoresOtherObjects(t *testing.T) {
	scene, err := ParseScene([]byte(`{"cloth": {"width": 1}, "plane": {}, "spheres": []}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(scene.Bodies) != 0 || scene.DisplayScale != 1 {
		t.Errorf("unexpected scene %+v", scene)
	}
}

func TestDisplayScale(t *testing.T) {
	tests := []struct {
		name   string
		coords [][3]float64
		want   float64
	}{
		{"none", nil, 1},
		{"all zero", [][3]float64{{0, 0, 0}}, 1},
		{"single digit", [][3]float64{{5, 0, 0}}, 1},
		{"hundreds", [][3]float64{{0, 250, 0}, {900, 0, 0}}, 100},
		{"negative smallest", [][3]float64{{-3000, 0, 0}, {5000, 0, 0}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bodies []BodyConfig
			for _, c := range tt.coords {
				bodies = append(bodies, BodyConfig{Origin: c})
			}
			if got := DisplayScale(bodies); got != tt.want {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestLoadSceneAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(solarScene), 0644); err != nil {
		t.Fatal(err)
	}
	scene, err := LoadScene(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	cfg := DefaultConfig()
	cfg.ApplyScene(scene)
	sys, err := cfg.BuildGalaxy()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if sys.Galaxy().Size() != 3 {
		t.Errorf("expected 3 planets, got %d", sys.Galaxy().Size())
	}
	if sys.Galaxy().Farthest().InitialOrigin.X != 2279 {
		t.Errorf("expected Mars-like body farthest, got %v", sys.Galaxy().Farthest().InitialOrigin)
	}
}
