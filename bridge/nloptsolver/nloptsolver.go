// Copyright 2026 The Goocp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nloptsolver drives a bridge.Bridge through NLopt's SLSQP
// algorithm, a gradient-based solver that natively supports nonlinear
// equality and inequality constraints, a close match for the transcription's
// constraint layout (an equality defects block plus a general-inequality
// path-constraints block). Gradients are supplied by central finite
// differences, so the bridge only needs value evaluations.
package nloptsolver

import (
	"time"

	"github.com/cpmech/gosl/num"
	"github.com/go-nlopt/nlopt"

	"github.com/cpmech/goocp/bridge"
	"github.com/cpmech/goocp/ocperr"
)

// Options configures the SLSQP run.
type Options struct {
	MaxEvalTime   time.Duration // 0 means no time limit
	ConstraintTol float64       // feasibility tolerance passed to every constraint
	RelativeXTol  float64       // convergence tolerance on the variable vector
	FDStep        float64       // finite-difference step for gradients
}

// DefaultOptions returns reasonable defaults for a first attempt.
func DefaultOptions() Options {
	return Options{MaxEvalTime: 30 * time.Second, ConstraintTol: 1e-8, RelativeXTol: 1e-6, FDStep: 1e-7}
}

// infeasible is returned from callbacks when an evaluation fails; NLopt has
// no error channel for user functions, so a huge value lets the line search
// back off instead of aborting the whole solve.
const infeasible = 1e300

// evalCache avoids recomputing the full constraint vector once per scalar
// NLopt constraint callback: NLopt calls each row's closure independently,
// but EvaluateConstraints fills every row in a single pass, so values (and
// the finite-difference Jacobian, when gradients are requested) are cached
// against the candidate vector (SLSQP evaluates every constraint at the same
// x before moving to the next iterate).
type evalCache struct {
	b      *bridge.Bridge
	fdStep float64

	x        []float64
	c        []float64
	jac      [][]float64 // Nc rows x Nv columns, allocated on first gradient request
	cValid   bool
	jacValid bool

	xp, cp, cm []float64 // perturbation scratch
}

func newEvalCache(b *bridge.Bridge, fdStep float64) *evalCache {
	n, m := b.NumVariables(), b.NumConstraints()
	return &evalCache{
		b:      b,
		fdStep: fdStep,
		x:      make([]float64, n),
		c:      make([]float64, m),
		xp:     make([]float64, n),
		cp:     make([]float64, m),
		cm:     make([]float64, m),
	}
}

func (e *evalCache) refresh(x []float64) {
	if e.cValid && sameVector(e.x, x) {
		return
	}
	copy(e.x, x)
	if err := e.b.EvaluateConstraints(e.x, e.c); err != nil {
		for i := range e.c {
			e.c[i] = infeasible
		}
	}
	e.cValid = true
	e.jacValid = false
}

// refreshJacobian fills jac with a central-difference dc/dx at the cached x,
// one pair of perturbed constraint-vector evaluations per variable.
func (e *evalCache) refreshJacobian() {
	n := len(e.x)
	if e.jac == nil {
		e.jac = make([][]float64, len(e.c))
		for i := range e.jac {
			e.jac[i] = make([]float64, n)
		}
	}
	copy(e.xp, e.x)
	for j := 0; j < n; j++ {
		h := e.fdStep * (1 + absf(e.x[j]))
		e.xp[j] = e.x[j] + h
		errP := e.b.EvaluateConstraints(e.xp, e.cp)
		e.xp[j] = e.x[j] - h
		errM := e.b.EvaluateConstraints(e.xp, e.cm)
		e.xp[j] = e.x[j]
		for i := range e.jac {
			if errP != nil || errM != nil {
				e.jac[i][j] = 0
				continue
			}
			e.jac[i][j] = (e.cp[i] - e.cm[i]) / (2 * h)
		}
	}
	e.jacValid = true
}

func (e *evalCache) constraintRow(x, gradient []float64, row int) float64 {
	e.refresh(x)
	if len(gradient) > 0 {
		if !e.jacValid {
			e.refreshJacobian()
		}
		copy(gradient, e.jac[row])
	}
	return e.c[row]
}

func sameVector(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Solve runs SLSQP starting from x0 (length b.NumVariables()) and returns the
// optimal flat vector.
func Solve(b *bridge.Bridge, x0 []float64, opts Options) ([]float64, error) {
	n := b.NumVariables()
	if len(x0) != n {
		return nil, ocperr.New(ocperr.DimensionMismatch, "initial guess has %d entries, want %d", len(x0), n)
	}
	if opts.FDStep <= 0 {
		opts.FDStep = DefaultOptions().FDStep
	}

	opt, err := nlopt.NewNLopt(nlopt.LD_SLSQP, uint(n))
	if err != nil {
		return nil, ocperr.New(ocperr.InvalidConfig, "cannot create NLopt solver: %v", err)
	}
	defer opt.Destroy()

	if err := opt.SetLowerBounds(b.VariableLower()); err != nil {
		return nil, err
	}
	if err := opt.SetUpperBounds(b.VariableUpper()); err != nil {
		return nil, err
	}
	if opts.MaxEvalTime > 0 {
		if err := opt.SetMaxTime(opts.MaxEvalTime.Seconds()); err != nil {
			return nil, err
		}
	}
	if opts.RelativeXTol > 0 {
		if err := opt.SetXtolRel(opts.RelativeXTol); err != nil {
			return nil, err
		}
	}

	xScratch := make([]float64, n)
	if err := opt.SetMinObjective(func(x, gradient []float64) float64 {
		val, err := b.EvaluateObjective(x)
		if err != nil {
			return infeasible
		}
		if len(gradient) > 0 {
			copy(xScratch, x)
			for j := 0; j < n; j++ {
				j := j
				h := opts.FDStep * (1 + absf(x[j]))
				d, derr := num.DerivCentral(func(v float64, args ...interface{}) float64 {
					xScratch[j] = v
					f, ferr := b.EvaluateObjective(xScratch)
					xScratch[j] = x[j]
					if ferr != nil {
						return infeasible
					}
					return f
				}, x[j], h)
				if derr != nil {
					d = 0
				}
				gradient[j] = d
			}
		}
		return val
	}); err != nil {
		return nil, err
	}

	cache := newEvalCache(b, opts.FDStep)
	lo, hi := b.ConstraintLower(), b.ConstraintUpper()
	for row := 0; row < b.NumConstraints(); row++ {
		row := row
		if lo[row] == hi[row] {
			target := lo[row]
			err := opt.AddEqualityConstraint(func(x, gradient []float64) float64 {
				return cache.constraintRow(x, gradient, row) - target
			}, opts.ConstraintTol)
			if err != nil {
				return nil, err
			}
			continue
		}
		upper, lower := hi[row], lo[row]
		if err := opt.AddInequalityConstraint(func(x, gradient []float64) float64 {
			return cache.constraintRow(x, gradient, row) - upper
		}, opts.ConstraintTol); err != nil {
			return nil, err
		}
		if err := opt.AddInequalityConstraint(func(x, gradient []float64) float64 {
			v := cache.constraintRow(x, gradient, row)
			if len(gradient) > 0 {
				for j := range gradient {
					gradient[j] = -gradient[j]
				}
			}
			return lower - v
		}, opts.ConstraintTol); err != nil {
			return nil, err
		}
	}

	xOpt, _, err := opt.Optimize(x0)
	if err != nil {
		return nil, ocperr.New(ocperr.NumericalFailure, "NLopt solve failed: %v", err)
	}
	return xOpt, nil
}
