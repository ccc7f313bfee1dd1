// Copyright 2026 The Goocp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh builds the normalized collocation mesh and its trapezoidal
// quadrature weights. The quadrature formula is written for a
// general non-uniform mesh so future mesh refinement does not require
// touching this code, even though NewUniform is currently the only
// constructor.
package mesh

import (
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/goocp/ocperr"
)

// Mesh holds the normalized mesh points tau in [0,1] and the trapezoidal
// quadrature weights w, with sum(w) == 1.
type Mesh struct {
	Tau     []float64
	Weights []float64
}

// NewUniform builds a uniform mesh of N points on [0,1].
func NewUniform(n int) (*Mesh, error) {
	if n < 2 {
		return nil, ocperr.New(ocperr.InvalidConfig, "num_mesh_points must be >= 2, got %d", n)
	}
	tau := utl.LinSpace(0, 1, n)
	return &Mesh{Tau: tau, Weights: quadratureWeights(tau)}, nil
}

// quadratureWeights computes w_0 = h_0/2, w_{n-1} = h_{n-2}/2,
// w_k = (h_{k-1}+h_k)/2 for interior k, from arbitrary (possibly non-uniform)
// mesh-interval lengths h_i = tau[i+1] - tau[i].
func quadratureWeights(tau []float64) []float64 {
	n := len(tau)
	w := make([]float64, n)
	if n == 1 {
		return w
	}
	h := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = tau[i+1] - tau[i]
	}
	w[0] = h[0] / 2
	w[n-1] = h[n-2] / 2
	for k := 1; k < n-1; k++ {
		w[k] = (h[k-1] + h[k]) / 2
	}
	return w
}
