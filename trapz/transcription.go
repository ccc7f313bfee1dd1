// Copyright 2026 The Goocp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trapz implements the trapezoidal direct-collocation transcription
// core: one-shot configuration of the flat-vector layout and
// bound vectors, and the hot-path objective/constraint assembly that an NLP
// solver calls repeatedly with candidate vectors.
package trapz

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/goocp/iterate"
	"github.com/cpmech/goocp/layout"
	"github.com/cpmech/goocp/mesh"
	"github.com/cpmech/goocp/ocp"
	"github.com/cpmech/goocp/ocperr"
)

// Config holds the recognized configuration options.
type Config struct {
	NumMeshPoints    int  // required, >= 2
	InterpolateGuess bool // resample initial-guess iterates onto the mesh
}

// Transcription is the trapezoidal transcription bound to one OCP. It is
// NOT safe for concurrent evaluation of multiple candidate vectors: the
// integrand/derivs scratch buffers are instance-owned and mutated on every
// call. One instance serves one logical evaluator.
type Transcription[S ocp.Scalar] struct {
	o                ocp.OCP[S]
	layout           layout.Layout
	mesh             *mesh.Mesh
	interpolateGuess bool

	varLo, varHi []float64
	conLo, conHi []float64

	// scratch, reused across evaluations
	integrand []S
	derivs    [][]S // Nx rows x N columns
}

// Configure queries o's dimensions and bounds, builds the NLP bound vectors
// once, builds the normalized mesh and quadrature weights, allocates scratch
// buffers, and calls o.InitializeOnMesh. This is the one-shot
// configuration step; CalcObjective/CalcConstraints assume it has already
// run.
func Configure[S ocp.Scalar](o ocp.OCP[S], cfg Config) (*Transcription[S], error) {
	if cfg.NumMeshPoints < 2 {
		return nil, ocperr.New(ocperr.InvalidConfig, "num_mesh_points must be >= 2, got %d", cfg.NumMeshPoints)
	}

	nx, nu, ng := o.NumStates(), o.NumControls(), o.NumPathConstraints()
	if len(o.StateNames()) != nx {
		return nil, ocperr.New(ocperr.InvalidConfig, "state names length %d != num_states %d", len(o.StateNames()), nx)
	}
	if len(o.ControlNames()) != nu {
		return nil, ocperr.New(ocperr.InvalidConfig, "control names length %d != num_controls %d", len(o.ControlNames()), nu)
	}
	if len(o.PathConstraintNames()) != ng {
		return nil, ocperr.New(ocperr.InvalidConfig, "path constraint names length %d != num_path_constraints %d", len(o.PathConstraintNames()), ng)
	}

	l := layout.Layout{Nx: nx, Nu: nu, Ng: ng, N: cfg.NumMeshPoints}

	b, err := o.GetAllBounds()
	if err != nil {
		return nil, err
	}
	if err := checkBoundLengths(b, l); err != nil {
		return nil, err
	}

	varLo, varHi := buildVariableBounds(b, l)
	conLo, conHi := buildConstraintBounds(b, l)

	m, err := mesh.NewUniform(l.N)
	if err != nil {
		return nil, err
	}

	tau := make([]S, l.N)
	for i, t := range m.Tau {
		tau[i] = S(t)
	}
	if err := o.InitializeOnMesh(tau); err != nil {
		return nil, err
	}

	derivs := make([][]S, nx)
	for i := range derivs {
		derivs[i] = make([]S, l.N)
	}

	tr := &Transcription[S]{
		o:                o,
		layout:           l,
		mesh:             m,
		interpolateGuess: cfg.InterpolateGuess,
		varLo:            varLo,
		varHi:            varHi,
		conLo:            conLo,
		conHi:            conHi,
		integrand:        make([]S, l.N),
		derivs:           derivs,
	}
	logConfig(l)
	return tr, nil
}

// Layout returns the configured flat-vector/constraint layout.
func (tr *Transcription[S]) Layout() layout.Layout { return tr.layout }

// StateNames/ControlNames/PathConstraintNames forward the OCP's row names,
// so diagnostic reports can label values without holding the OCP themselves.
func (tr *Transcription[S]) StateNames() []string          { return tr.o.StateNames() }
func (tr *Transcription[S]) ControlNames() []string        { return tr.o.ControlNames() }
func (tr *Transcription[S]) PathConstraintNames() []string { return tr.o.PathConstraintNames() }

// ConstructIterate builds a flat vector from traj. When the
// InterpolateGuess option was set at configuration, traj is first resampled
// onto the transcription mesh; otherwise its column count must already equal
// the number of mesh points.
func (tr *Transcription[S]) ConstructIterate(traj *iterate.Iterate) ([]S, error) {
	return iterate.ConstructFlat[S](tr.layout, traj, tr.interpolateGuess)
}

// DeconstructIterate reads a flat vector back into an owning Iterate, with
// the OCP's state and control names attached.
func (tr *Transcription[S]) DeconstructIterate(x []S) (*iterate.Iterate, error) {
	return iterate.DeconstructFlat[S](tr.layout, x, tr.o.StateNames(), tr.o.ControlNames())
}

// VariableLower/VariableUpper/ConstraintLower/ConstraintUpper expose the
// bound vectors built at Configure time.
func (tr *Transcription[S]) VariableLower() []float64   { return tr.varLo }
func (tr *Transcription[S]) VariableUpper() []float64   { return tr.varHi }
func (tr *Transcription[S]) ConstraintLower() []float64 { return tr.conLo }
func (tr *Transcription[S]) ConstraintUpper() []float64 { return tr.conHi }

// stateView returns a non-owning view over the nx state entries of mesh
// point k within x.
func (tr *Transcription[S]) stateView(x []S, k int) View[S] {
	return View[S]{x: x, base: tr.layout.StateOffset(k), length: tr.layout.Nx}
}

// controlView returns a non-owning view over the nu control entries of mesh
// point k within x.
func (tr *Transcription[S]) controlView(x []S, k int) View[S] {
	return View[S]{x: x, base: tr.layout.ControlOffset(k), length: tr.layout.Nu}
}

// CalcObjective assembles J = phi(tf, x(N-1)) + (tf-t0) * sum_k w_k * L_k.
// The weighted sum loops explicitly rather than using a dot
// product, since w is a fixed []float64 and integrand is []S: mixing a fixed
// double weight with a generic S accumulator must stay explicit to avoid
// scalar-mixing pitfalls.
func (tr *Transcription[S]) CalcObjective(x []S) (S, error) {
	n := tr.layout.N
	if len(x) != tr.layout.NumVariables() {
		return 0, ocperr.New(ocperr.DimensionMismatch, "flat vector has %d entries, want %d", len(x), tr.layout.NumVariables())
	}
	t0, tf := x[0], x[1]
	hTotal := tf - t0
	var step S
	if n > 1 {
		step = hTotal / S(n-1)
	}

	xFinal := tr.stateView(x, n-1).Window()
	j, err := tr.o.CalcEndpointCost(tf, xFinal)
	if err != nil {
		return 0, err
	}
	if isNonFinite(j) {
		return 0, ocperr.New(ocperr.NumericalFailure, "endpoint cost is not finite")
	}

	for k := 0; k < n; k++ {
		t := t0 + S(k)*step
		xs := tr.stateView(x, k).Window()
		us := tr.controlView(x, k).Window()
		l, err := tr.o.CalcIntegralCost(t, xs, us)
		if err != nil {
			return 0, err
		}
		if isNonFinite(l) {
			return 0, ocperr.New(ocperr.NumericalFailure, "integral cost at mesh point %d is not finite", k)
		}
		tr.integrand[k] = l
	}

	var sum S
	for k := 0; k < n; k++ {
		sum += S(tr.mesh.Weights[k]) * tr.integrand[k]
	}
	j += hTotal * sum
	return j, nil
}

// CalcConstraints assembles the defects block (trapezoidal rule) and the
// path-constraints block into c. DAE evaluations
// proceed for k=0..N-1 in increasing order; defects are computed strictly
// after every xDot has been populated.
func (tr *Transcription[S]) CalcConstraints(x []S, c []S) error {
	n := tr.layout.N
	if len(x) != tr.layout.NumVariables() {
		return ocperr.New(ocperr.DimensionMismatch, "flat vector has %d entries, want %d", len(x), tr.layout.NumVariables())
	}
	if len(c) != tr.layout.NumConstraints() {
		return ocperr.New(ocperr.DimensionMismatch, "constraint vector has %d entries, want %d", len(c), tr.layout.NumConstraints())
	}
	t0, tf := x[0], x[1]
	hTotal := tf - t0
	var step S
	if n > 1 {
		step = hTotal / S(n-1)
	}

	for k := 0; k < n; k++ {
		t := t0 + S(k)*step
		xs := tr.stateView(x, k).Window()
		us := tr.controlView(x, k).Window()
		xDot, g, err := tr.o.CalcDifferentialAlgebraicEquations(ocp.MeshPointInput[S]{I: k, T: t, X: xs, U: us})
		if err != nil {
			return err
		}
		if len(xDot) != tr.layout.Nx {
			return ocperr.New(ocperr.InvalidConfig, "xDot at mesh point %d has length %d, want %d", k, len(xDot), tr.layout.Nx)
		}
		for i, v := range xDot {
			if isNonFinite(v) {
				return ocperr.New(ocperr.NumericalFailure, "xDot[%d] at mesh point %d is not finite", i, k)
			}
			tr.derivs[i][k] = v
		}
		if tr.layout.Ng > 0 {
			if len(g) != tr.layout.Ng {
				return ocperr.New(ocperr.InvalidConfig, "g at mesh point %d has length %d, want %d", k, len(g), tr.layout.Ng)
			}
			po := tr.layout.PathOffset(k)
			for i, v := range g {
				if isNonFinite(v) {
					return ocperr.New(ocperr.NumericalFailure, "g[%d] at mesh point %d is not finite", i, k)
				}
				c[po+i] = v
			}
		}
	}

	half := S(0.5)
	for i := 0; i < n-1; i++ {
		do := tr.layout.DefectOffset(i)
		xk := tr.stateView(x, i)
		xk1 := tr.stateView(x, i+1)
		for j := 0; j < tr.layout.Nx; j++ {
			c[do+j] = xk1.At(j) - xk.At(j) - half*step*(tr.derivs[j][i]+tr.derivs[j][i+1])
		}
	}
	return nil
}

// ConstraintJacobianSparsity returns the structural nonzero pattern of
// d(defects,path)/d(x_NLP) implied by the trapezoidal stencil: each defect
// row touches t0, tf, and every state/control entry of mesh points i and
// i+1; each path-constraint row touches t0, tf, and every state/control
// entry of mesh point k. Values are not filled in (structure only).
func (tr *Transcription[S]) ConstraintJacobianSparsity() *la.Triplet {
	l := tr.layout
	nnz := 0
	for i := 0; i < l.N-1; i++ {
		nnz += l.Nx * (2 + 2*l.BlockWidth())
	}
	nnz += l.N * l.Ng * (2 + l.BlockWidth())

	t := new(la.Triplet)
	t.Init(l.NumConstraints(), l.NumVariables(), nnz)

	blockCols := func(k int) []int {
		cols := make([]int, 0, l.BlockWidth())
		so := l.StateOffset(k)
		for c := so; c < so+l.BlockWidth(); c++ {
			cols = append(cols, c)
		}
		return cols
	}

	for i := 0; i < l.N-1; i++ {
		cols := append(append([]int{0, 1}, blockCols(i)...), blockCols(i+1)...)
		for j := 0; j < l.Nx; j++ {
			row := l.DefectOffset(i) + j
			for _, col := range cols {
				t.Put(row, col, 1)
			}
		}
	}
	for k := 0; k < l.N; k++ {
		cols := append([]int{0, 1}, blockCols(k)...)
		for j := 0; j < l.Ng; j++ {
			row := l.PathOffset(k) + j
			for _, col := range cols {
				t.Put(row, col, 1)
			}
		}
	}
	return t
}

func isNonFinite[S ocp.Scalar](v S) bool {
	f := float64(v)
	return math.IsNaN(f) || math.IsInf(f, 0)
}

func checkBoundLengths[S ocp.Scalar](b ocp.Bounds[S], l layout.Layout) error {
	check := func(name string, got int, want int) error {
		if got != want {
			return ocperr.New(ocperr.InvalidConfig, "bounds.%s has length %d, want %d", name, got, want)
		}
		return nil
	}
	for _, e := range []struct {
		name string
		v    []S
		want int
	}{
		{"StatesLo", b.StatesLo, l.Nx}, {"StatesHi", b.StatesHi, l.Nx},
		{"InitialStatesLo", b.InitialStatesLo, l.Nx}, {"InitialStatesHi", b.InitialStatesHi, l.Nx},
		{"FinalStatesLo", b.FinalStatesLo, l.Nx}, {"FinalStatesHi", b.FinalStatesHi, l.Nx},
		{"ControlsLo", b.ControlsLo, l.Nu}, {"ControlsHi", b.ControlsHi, l.Nu},
		{"InitialControlsLo", b.InitialControlsLo, l.Nu}, {"InitialControlsHi", b.InitialControlsHi, l.Nu},
		{"FinalControlsLo", b.FinalControlsLo, l.Nu}, {"FinalControlsHi", b.FinalControlsHi, l.Nu},
		{"PathLo", b.PathLo, l.Ng}, {"PathHi", b.PathHi, l.Ng},
	} {
		if err := check(e.name, len(e.v), e.want); err != nil {
			return err
		}
	}
	return nil
}

// buildVariableBounds concatenates, in layout order:
//
//	[ t0_lo, tf_lo, ix_lo, iu_lo, (x_lo,u_lo)x(N-2), fx_lo, fu_lo ]
//
// (upper analogously). If N == 2 the interior block has zero copies.
func buildVariableBounds[S ocp.Scalar](b ocp.Bounds[S], l layout.Layout) (lo, hi []float64) {
	lo = make([]float64, l.NumVariables())
	hi = make([]float64, l.NumVariables())
	lo[0], hi[0] = float64(b.T0Lo), float64(b.T0Hi)
	lo[1], hi[1] = float64(b.TfLo), float64(b.TfHi)

	put := func(k int, xLo, xHi, uLo, uHi []S) {
		so, co := l.StateOffset(k), l.ControlOffset(k)
		for i := 0; i < l.Nx; i++ {
			lo[so+i], hi[so+i] = float64(xLo[i]), float64(xHi[i])
		}
		for i := 0; i < l.Nu; i++ {
			lo[co+i], hi[co+i] = float64(uLo[i]), float64(uHi[i])
		}
	}

	put(0, b.InitialStatesLo, b.InitialStatesHi, b.InitialControlsLo, b.InitialControlsHi)
	for k := 1; k < l.N-1; k++ {
		put(k, b.StatesLo, b.StatesHi, b.ControlsLo, b.ControlsHi)
	}
	if l.N > 1 {
		put(l.N-1, b.FinalStatesLo, b.FinalStatesHi, b.FinalControlsLo, b.FinalControlsHi)
	}
	return
}

// buildConstraintBounds returns all-zero (equality) defect bounds followed
// by (g_lo,g_hi) replicated N times.
func buildConstraintBounds[S ocp.Scalar](b ocp.Bounds[S], l layout.Layout) (lo, hi []float64) {
	lo = make([]float64, l.NumConstraints())
	hi = make([]float64, l.NumConstraints())
	for k := 0; k < l.N; k++ {
		po := l.PathOffset(k)
		for i := 0; i < l.Ng; i++ {
			lo[po+i], hi[po+i] = float64(b.PathLo[i]), float64(b.PathHi[i])
		}
	}
	return
}

// logConfig prints a one-line summary of the configured dimensions.
func logConfig(l layout.Layout) {
	io.Pf("> transcription configured: N=%d nx=%d nu=%d ng=%d Nv=%d Nc=%d\n",
		l.N, l.Nx, l.Nu, l.Ng, l.NumVariables(), l.NumConstraints())
}
