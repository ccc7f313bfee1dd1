// Copyright 2026 The Goocp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ocp defines the contract a user implements to describe a
// continuous-time optimal control problem: dimensions, names, bounds,
// dynamics, cost and path constraints. The transcription core in
// package trapz is the sole consumer of this interface.
package ocp

// Scalar is the numeric type evaluations are generic over: plain float64 for
// finite-difference solving, or an AD-enriched ~float64 type so analytic
// Jacobians can flow through the same code paths unchanged.
type Scalar interface {
	~float64
}

// Bounds holds every bound the transcription needs, as returned by a single
// aggregated GetAllBounds call. Lower/upper pairs with
// Lo == Hi encode an equality.
type Bounds[S Scalar] struct {
	T0Lo, T0Hi S
	TfLo, TfHi S

	StatesLo, StatesHi               []S // interior (non-endpoint) state bounds, length Nx
	InitialStatesLo, InitialStatesHi []S // length Nx
	FinalStatesLo, FinalStatesHi     []S // length Nx

	ControlsLo, ControlsHi               []S // interior control bounds, length Nu
	InitialControlsLo, InitialControlsHi []S // length Nu
	FinalControlsLo, FinalControlsHi     []S // length Nu

	PathLo, PathHi []S // length Ng
}

// MeshPointInput bundles the arguments of CalcDifferentialAlgebraicEquations:
// the mesh-point index, its time, and the state/control values there. X and
// U are non-owning views into the flat vector; do not retain them.
type MeshPointInput[S Scalar] struct {
	I int
	T S
	X []S // length Nx
	U []S // length Nu
}

// OCP is the contract the transcription core evaluates. It must be pure: the
// same (t0,tf,states,controls) must always evaluate to the same objective and
// constraint values, since x_NLP may be evaluated by the NLP solver with
// restarted/retried candidate vectors.
type OCP[S Scalar] interface {
	NumStates() int
	NumControls() int
	NumPathConstraints() int

	StateNames() []string
	ControlNames() []string
	PathConstraintNames() []string

	// GetAllBounds fills every bound in one aggregated call. Implementations
	// must return vectors whose lengths exactly match the declared
	// dimensions; trapz.Configure fails with ocperr.InvalidConfig otherwise.
	GetAllBounds() (Bounds[S], error)

	// InitializeOnMesh is called exactly once, after configuration, with the
	// normalized mesh tau in [0,1]. The OCP may precompute per-mesh-point
	// data here.
	InitializeOnMesh(tau []S) error

	// CalcEndpointCost assigns the Mayer term phi(tf, xFinal).
	CalcEndpointCost(tf S, xFinal []S) (S, error)

	// CalcIntegralCost assigns the Lagrange integrand L(t,x,u) at one point.
	CalcIntegralCost(t S, x, u []S) (S, error)

	// CalcDifferentialAlgebraicEquations assigns xDot and g simultaneously at
	// one mesh point, so shared subexpressions are computed once;
	// this is intentionally a single callback. xDot has length
	// Nx, g has length Ng (may be zero-length).
	CalcDifferentialAlgebraicEquations(in MeshPointInput[S]) (xDot, g []S, err error)
}
