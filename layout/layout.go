// Copyright 2026 The Goocp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout computes the flat-vector and constraint-vector offsets
// implied by the trapezoidal transcription's NLP layout:
//
//	x_NLP = [ t0, tf, x(0), u(0), x(1), u(1), ..., x(N-1), u(N-1) ]
//	c     = [ defects (N-1 cols of Nx rows), path constraints (N cols of Ng rows) ]
//
// It has no evaluation logic of its own; it is the shared arithmetic used by
// trapz, iterate and diag so the layout is defined exactly once.
package layout

// Layout describes the fixed dimensions of one configured transcription.
type Layout struct {
	Nx int // number of states
	Nu int // number of controls
	Ng int // number of path constraints
	N  int // number of mesh points, N >= 2
}

// BlockWidth is the number of flat-vector entries per mesh point, nx+nu.
func (l Layout) BlockWidth() int { return l.Nx + l.Nu }

// NumVariables returns Nv = 2 + N*(nx+nu).
func (l Layout) NumVariables() int { return 2 + l.N*l.BlockWidth() }

// NumConstraints returns Nc = nx*(N-1) + ng*N.
func (l Layout) NumConstraints() int { return l.Nx*(l.N-1) + l.Ng*l.N }

// NumDefects returns nx*(N-1), the size of the defects block.
func (l Layout) NumDefects() int { return l.Nx * (l.N - 1) }

// StateOffset returns the index of x_NLP[k]'s first state entry.
func (l Layout) StateOffset(k int) int { return 2 + k*l.BlockWidth() }

// ControlOffset returns the index of x_NLP[k]'s first control entry.
func (l Layout) ControlOffset(k int) int { return l.StateOffset(k) + l.Nx }

// DefectOffset returns the index, within the constraint vector, of defect
// interval i's first row (i = 0..N-2).
func (l Layout) DefectOffset(i int) int { return i * l.Nx }

// PathOffset returns the index, within the constraint vector, of mesh point
// k's first path-constraint row (k = 0..N-1).
func (l Layout) PathOffset(k int) int { return l.NumDefects() + k*l.Ng }
