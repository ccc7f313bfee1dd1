// Copyright 2026 The Goocp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterate

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/goocp/layout"
	"github.com/cpmech/goocp/ocperr"
)

func Test_iterate01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("iterate01. construct/deconstruct bijection (no interpolation)")

	l := layout.Layout{Nx: 2, Nu: 1, Ng: 0, N: 4}
	traj := &Iterate{
		Time: []float64{0, 1, 2, 3},
		States: [][]float64{
			{0, 1, 2, 3},
			{10, 11, 12, 13},
		},
		Controls:     [][]float64{{5, 6, 7, 8}},
		StateNames:   []string{"x0", "x1"},
		ControlNames: []string{"u0"},
	}

	x, err := ConstructFlat[float64](l, traj, false)
	if err != nil {
		tst.Errorf("ConstructFlat failed: %v\n", err)
		return
	}
	chk.IntAssert(len(x), l.NumVariables())

	out, err := DeconstructFlat[float64](l, x, traj.StateNames, traj.ControlNames)
	if err != nil {
		tst.Errorf("DeconstructFlat failed: %v\n", err)
		return
	}

	chk.Array(tst, "time", 1e-15, out.Time, traj.Time)
	chk.Matrix(tst, "states", 1e-15, out.States, traj.States)
	chk.Matrix(tst, "controls", 1e-15, out.Controls, traj.Controls)
}

func Test_iterate02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("iterate02. interpolate is the identity on an already-LinSpaced iterate")

	traj := &Iterate{
		Time:         []float64{0, 0.5, 1.0},
		States:       [][]float64{{0, 1, 2}},
		Controls:     [][]float64{{10, 20, 30}},
		StateNames:   []string{"x"},
		ControlNames: []string{"u"},
	}

	out, err := traj.Interpolate(3)
	if err != nil {
		tst.Errorf("Interpolate failed: %v\n", err)
		return
	}
	chk.Array(tst, "time", 1e-14, out.Time, traj.Time)
	chk.Array(tst, "states", 1e-14, out.States[0], traj.States[0])
	chk.Array(tst, "controls", 1e-14, out.Controls[0], traj.Controls[0])
}

func Test_iterate03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("iterate03. piecewise-linear resampling midpoints")

	traj := &Iterate{
		Time:         []float64{0, 2},
		States:       [][]float64{{0, 10}},
		Controls:     [][]float64{{0, 0}},
		StateNames:   []string{"x"},
		ControlNames: []string{"u"},
	}
	out, err := traj.Interpolate(3)
	if err != nil {
		tst.Errorf("Interpolate failed: %v\n", err)
		return
	}
	chk.Array(tst, "time", 1e-14, out.Time, []float64{0, 1, 2})
	chk.Array(tst, "states", 1e-14, out.States[0], []float64{0, 5, 10})
}

func Test_iterate04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("iterate04. column-count mismatch without interpolation fails")

	l := layout.Layout{Nx: 1, Nu: 1, Ng: 0, N: 5}
	traj := &Iterate{
		Time:         []float64{0, 1, 2},
		States:       [][]float64{{0, 1, 2}},
		Controls:     [][]float64{{0, 1, 2}},
		StateNames:   []string{"x"},
		ControlNames: []string{"u"},
	}
	_, err := ConstructFlat[float64](l, traj, false)
	if err == nil {
		tst.Errorf("expected a DimensionMismatch error\n")
	}
}

func Test_iterate05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("iterate05. column access and out-of-range queries")

	traj := &Iterate{
		Time:         []float64{0, 1, 2},
		States:       [][]float64{{0, 1, 2}, {10, 11, 12}},
		Controls:     [][]float64{{5, 6, 7}},
		StateNames:   []string{"x0", "x1"},
		ControlNames: []string{"u0"},
	}

	t, x, u, err := traj.Column(1)
	if err != nil {
		tst.Errorf("Column failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "t", 1e-15, t, 1)
	chk.Array(tst, "x", 1e-15, x, []float64{1, 11})
	chk.Array(tst, "u", 1e-15, u, []float64{6})

	_, _, _, err = traj.Column(3)
	if !ocperr.Is(err, ocperr.OutOfRange) {
		tst.Errorf("expected an OutOfRange error, got %v\n", err)
	}
}

func Test_iterate06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("iterate06. ragged state/control columns fail with DimensionMismatch")

	l := layout.Layout{Nx: 1, Nu: 1, Ng: 0, N: 3}
	traj := &Iterate{
		Time:         []float64{0, 1, 2},
		States:       [][]float64{{0, 1}}, // one column short of the time row
		Controls:     [][]float64{{0, 1, 2}},
		StateNames:   []string{"x"},
		ControlNames: []string{"u"},
	}

	_, err := ConstructFlat[float64](l, traj, false)
	if !ocperr.Is(err, ocperr.DimensionMismatch) {
		tst.Errorf("expected a DimensionMismatch error, got %v\n", err)
	}
	_, err = ConstructFlat[float64](l, traj, true)
	if !ocperr.Is(err, ocperr.DimensionMismatch) {
		tst.Errorf("expected a DimensionMismatch error with interpolation, got %v\n", err)
	}
	_, err = traj.Interpolate(5)
	if !ocperr.Is(err, ocperr.DimensionMismatch) {
		tst.Errorf("expected a DimensionMismatch error from Interpolate, got %v\n", err)
	}

	traj.States = [][]float64{{0, 1, 2}}
	traj.Controls = [][]float64{{0, 1, 2, 3}} // one column past the time row
	_, err = ConstructFlat[float64](l, traj, false)
	if !ocperr.Is(err, ocperr.DimensionMismatch) {
		tst.Errorf("expected a DimensionMismatch error for an overlong row, got %v\n", err)
	}
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}
