// Copyright 2026 The Goocp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package iterate implements the in-memory trajectory representation: time
// samples, a states matrix and a controls matrix, piecewise-linear
// interpolation onto the transcription mesh, and the two conversions to/from
// the flat NLP vector.
package iterate

import (
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"

	"github.com/cpmech/goocp/layout"
	"github.com/cpmech/goocp/ocperr"
)

// Iterate is a candidate trajectory: a time row of length T, a states matrix
// (Nx x T) and a controls matrix (Nu x T), with row names. T need not equal
// the transcription's N prior to Interpolate.
type Iterate struct {
	Time         []float64
	States       [][]float64 // Nx rows, T columns
	Controls     [][]float64 // Nu rows, T columns
	StateNames   []string
	ControlNames []string
}

func (it *Iterate) nx() int { return len(it.States) }
func (it *Iterate) nu() int { return len(it.Controls) }
func (it *Iterate) cols() int { return len(it.Time) }

// checkColumns verifies every state and control row has as many columns as
// the time row, failing with DimensionMismatch otherwise.
func (it *Iterate) checkColumns() error {
	n := it.cols()
	for i, row := range it.States {
		if len(row) != n {
			return ocperr.New(ocperr.DimensionMismatch, "state row %d has %d columns, time has %d", i, len(row), n)
		}
	}
	for i, row := range it.Controls {
		if len(row) != n {
			return ocperr.New(ocperr.DimensionMismatch, "control row %d has %d columns, time has %d", i, len(row), n)
		}
	}
	return nil
}

// Column returns the time value and owning copies of the state and control
// subvectors at column k, failing with OutOfRange for k past the column
// count.
func (it *Iterate) Column(k int) (t float64, x, u []float64, err error) {
	if k < 0 || k >= it.cols() {
		return 0, nil, nil, ocperr.New(ocperr.OutOfRange, "column %d out of range [0,%d)", k, it.cols())
	}
	x = make([]float64, it.nx())
	for i := range x {
		x[i] = it.States[i][k]
	}
	u = make([]float64, it.nu())
	for i := range u {
		u[i] = it.Controls[i][k]
	}
	return it.Time[k], x, u, nil
}

// Interpolate returns a new Iterate with n points, time linearly spaced
// between it.Time's current endpoints, and every state/control row resampled
// by piecewise-linear interpolation. Piecewise-linear is the
// contractual choice: continuity without assuming smoothness. Values queried
// outside the source time range use constant extrapolation from the nearest
// endpoint, though the contract expects the source to already span the
// target.
func (it *Iterate) Interpolate(n int) (*Iterate, error) {
	if it.cols() < 2 {
		return nil, ocperr.New(ocperr.InvalidConfig, "cannot interpolate an iterate with fewer than 2 time points (got %d)", it.cols())
	}
	if err := it.checkColumns(); err != nil {
		return nil, err
	}
	t0, tf := it.Time[0], it.Time[it.cols()-1]
	newTime := utl.LinSpace(t0, tf, n)

	out := &Iterate{
		Time:         newTime,
		States:       la.MatAlloc(it.nx(), n),
		Controls:     la.MatAlloc(it.nu(), n),
		StateNames:   it.StateNames,
		ControlNames: it.ControlNames,
	}
	for i := 0; i < it.nx(); i++ {
		resampleRow(it.Time, it.States[i], newTime, out.States[i])
	}
	for i := 0; i < it.nu(); i++ {
		resampleRow(it.Time, it.Controls[i], newTime, out.Controls[i])
	}
	return out, nil
}

// resampleRow piecewise-linearly interpolates src (sampled at srcTime) onto
// dstTime, writing into dst. srcTime must be non-decreasing.
func resampleRow(srcTime, src, dstTime, dst []float64) {
	n := len(srcTime)
	for j, t := range dstTime {
		if t <= srcTime[0] {
			dst[j] = src[0]
			continue
		}
		if t >= srcTime[n-1] {
			dst[j] = src[n-1]
			continue
		}
		// locate the bracketing interval [srcTime[i], srcTime[i+1]]
		i := 0
		for i < n-2 && srcTime[i+1] < t {
			i++
		}
		t0, t1 := srcTime[i], srcTime[i+1]
		frac := 0.0
		if t1 > t0 {
			frac = (t - t0) / (t1 - t0)
		}
		dst[j] = src[i] + frac*(src[i+1]-src[i])
	}
}

// ConstructFlat builds a flat NLP vector from traj, following layout l. If
// interpolate is true, traj is first resampled onto l.N points; otherwise
// traj's time, states and controls column counts must all equal l.N already
// (each matrix row is checked against the time row, so a ragged iterate
// fails with DimensionMismatch instead of slicing out of range).
func ConstructFlat[S ~float64](l layout.Layout, traj *Iterate, interpolateGuess bool) ([]S, error) {
	if traj.nx() != l.Nx {
		return nil, ocperr.New(ocperr.InvalidConfig, "iterate has %d state rows, want %d", traj.nx(), l.Nx)
	}
	if traj.nu() != l.Nu {
		return nil, ocperr.New(ocperr.InvalidConfig, "iterate has %d control rows, want %d", traj.nu(), l.Nu)
	}
	if err := traj.checkColumns(); err != nil {
		return nil, err
	}

	src := traj
	if interpolateGuess {
		var err error
		src, err = traj.Interpolate(l.N)
		if err != nil {
			return nil, err
		}
	} else if traj.cols() != l.N {
		return nil, ocperr.New(ocperr.DimensionMismatch, "iterate has %d columns, transcription mesh has %d", traj.cols(), l.N)
	}

	x := make([]S, l.NumVariables())
	x[0] = S(src.Time[0])
	x[1] = S(src.Time[src.cols()-1])
	for k := 0; k < l.N; k++ {
		so := l.StateOffset(k)
		co := l.ControlOffset(k)
		for i := 0; i < l.Nx; i++ {
			x[so+i] = S(src.States[i][k])
		}
		for i := 0; i < l.Nu; i++ {
			x[co+i] = S(src.Controls[i][k])
		}
	}
	return x, nil
}

// DeconstructFlat reads a flat NLP vector back into an owning Iterate, with
// time as N linearly spaced samples between x[0] and x[1].
func DeconstructFlat[S ~float64](l layout.Layout, x []S, stateNames, controlNames []string) (*Iterate, error) {
	if len(x) != l.NumVariables() {
		return nil, ocperr.New(ocperr.DimensionMismatch, "flat vector has %d entries, want %d", len(x), l.NumVariables())
	}
	t0, tf := float64(x[0]), float64(x[1])
	out := &Iterate{
		Time:         utl.LinSpace(t0, tf, l.N),
		States:       la.MatAlloc(l.Nx, l.N),
		Controls:     la.MatAlloc(l.Nu, l.N),
		StateNames:   stateNames,
		ControlNames: controlNames,
	}
	for k := 0; k < l.N; k++ {
		so := l.StateOffset(k)
		co := l.ControlOffset(k)
		for i := 0; i < l.Nx; i++ {
			out.States[i][k] = float64(x[so+i])
		}
		for i := 0; i < l.Nu; i++ {
			out.Controls[i][k] = float64(x[co+i])
		}
	}
	return out, nil
}
