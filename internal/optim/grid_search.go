// Package optim searches parameter grids of a configurable system for the
// values that minimize a run metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/clothsim/internal/sim"
)

var ErrNoCandidate = errors.New("optim: no candidate finished")

// Builder returns a fresh system for one grid point. The returned system must
// implement sim.Configurable and metrics must be fresh per call.
type Builder func() (sim.System, []sim.Metric, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Candidate is one evaluated grid point.
type Candidate struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Search evaluates every combination and returns the parameters with the
// smallest value of metricName. Runs that fail or stop on an invalid state
// are recorded and skipped.
func (g *GridSearch) Search(ctx context.Context, build Builder, cfg sim.Config, metricName string) (map[string]float64, float64, []Candidate, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("optim: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}
	var all []Candidate
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, map[string]float64{}, func(params map[string]float64) error {
		c := evaluate(ctx, build, cfg, metricName, params)
		all = append(all, c)
		if c.Err == nil && c.Value < best {
			best, bestParams = c.Value, c.Params
		}
		return ctx.Err()
	})
	if err != nil {
		return bestParams, best, all, err
	}
	if bestParams == nil {
		return nil, best, all, ErrNoCandidate
	}
	return bestParams, best, all, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64) error) error {
	if depth == len(g.paramNames) {
		return visit(current)
	}
	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val
		if err := g.searchRecursive(ctx, depth+1, next, visit); err != nil {
			return err
		}
	}
	return nil
}

func evaluate(ctx context.Context, build Builder, cfg sim.Config, metricName string, params map[string]float64) Candidate {
	c := Candidate{Params: params}
	sys, metrics, err := build()
	if err != nil {
		c.Err = err
		return c
	}
	tunable, ok := sys.(sim.Configurable)
	if !ok {
		c.Err = fmt.Errorf("optim: system %s has no parameters", sys.Name())
		return c
	}
	for k, v := range params {
		tunable.SetParam(k, v)
	}

	s := sim.New()
	for _, m := range metrics {
		s.AddMetric(m)
	}
	result, err := s.Run(ctx, sys, cfg)
	switch {
	case err != nil:
		c.Err = err
	case len(result.Errors) > 0:
		c.Err = result.Errors[0]
	default:
		v, ok := result.Metrics[metricName]
		if !ok {
			c.Err = fmt.Errorf("optim: unknown metric %q", metricName)
		}
		c.Value = v
	}
	return c
}
