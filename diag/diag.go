// Copyright 2026 The Goocp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diag reports diagnostic information about a candidate trajectory:
// which variable bounds (each state and control at each mesh point) are
// active or violated, and norms of the differential defects and path
// constraints. Constraint values are not classified against their bounds.
package diag

import (
	"io"
	"math"

	gio "github.com/cpmech/gosl/io"

	"github.com/cpmech/goocp/iterate"
	"github.com/cpmech/goocp/layout"
)

// Transcription is the evaluation surface PrintConstraintValues needs: the
// layout, bound vectors and names built at configuration time, plus the
// constraint assembly. trapz.Transcription[float64] satisfies it.
type Transcription interface {
	Layout() layout.Layout
	VariableLower() []float64
	VariableUpper() []float64
	ConstraintLower() []float64
	ConstraintUpper() []float64
	CalcConstraints(x, c []float64) error
	StateNames() []string
	ControlNames() []string
	PathConstraintNames() []string
}

// Activation classifies one scalar's relationship to its bounds.
type Activation int

const (
	// Inactive means lower < value < upper, or lower == upper == value
	// (an exactly satisfied equality, never reported as active).
	Inactive Activation = iota
	// ActiveLower means value <= lower (and not the equality case).
	ActiveLower
	// ActiveUpper means value >= upper (and not the equality case).
	ActiveUpper
)

// Classify reports whether value is active/violated against [lo,hi]. The
// lo==hi==value case (an equality constraint exactly satisfied) is always
// Inactive, to avoid noise.
func Classify(lo, value, hi float64) (act Activation, violated bool) {
	if lo == hi && value == lo {
		return Inactive, false
	}
	switch {
	case value <= lo:
		return ActiveLower, value < lo
	case value >= hi:
		return ActiveUpper, value > hi
	default:
		return Inactive, false
	}
}

// marker returns the single/two-character annotation for one
// bound check: blank, "L", "U", "L*", "U*".
func marker(act Activation, violated bool) string {
	switch act {
	case ActiveLower:
		if violated {
			return "L*"
		}
		return "L"
	case ActiveUpper:
		if violated {
			return "U*"
		}
		return "U"
	default:
		return ""
	}
}

// VariableReport is one reported row: a named scalar (state or control) at
// one mesh point, its bound, value, and activation marker.
type VariableReport struct {
	Name     string
	MeshPt   int
	Lower    float64
	Value    float64
	Upper    float64
	Marker   string
	Violated bool
}

// RowNorm is the Euclidean norm of one state's defect row, or one path
// constraint's row across mesh points.
type RowNorm struct {
	Name string
	Norm float64
}

// Report is the full diagnostic content of PrintConstraintValues: per-scalar
// bound activation, defect-row norms, and path-constraint values.
type Report struct {
	Variables   []VariableReport
	DefectNorms []RowNorm
	PathNorms   []RowNorm
	PathValues  [][]float64 // N rows (mesh points) x Ng columns
	PathNames   []string
}

// euclideanNorm returns sqrt(sum(v_i^2)).
func euclideanNorm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// BuildReport assembles a Report from the flat variable bounds/values and
// constraint bounds/values (already evaluated by the caller via
// trapz.Transcription). l describes the layout; varLo/varHi/x are length
// Nv; conLo/conHi/c are length Nc; stateNames/controlNames/pathNames name
// the rows.
func BuildReport(l layout.Layout, varLo, varHi, x []float64, conLo, conHi, c []float64, stateNames, controlNames, pathNames []string) Report {
	var rep Report

	for k := 0; k < l.N; k++ {
		so, co := l.StateOffset(k), l.ControlOffset(k)
		for i := 0; i < l.Nx; i++ {
			idx := so + i
			act, violated := Classify(varLo[idx], x[idx], varHi[idx])
			rep.Variables = append(rep.Variables, VariableReport{
				Name: stateNames[i], MeshPt: k,
				Lower: varLo[idx], Value: x[idx], Upper: varHi[idx],
				Marker: marker(act, violated), Violated: violated,
			})
		}
		for i := 0; i < l.Nu; i++ {
			idx := co + i
			act, violated := Classify(varLo[idx], x[idx], varHi[idx])
			rep.Variables = append(rep.Variables, VariableReport{
				Name: controlNames[i], MeshPt: k,
				Lower: varLo[idx], Value: x[idx], Upper: varHi[idx],
				Marker: marker(act, violated), Violated: violated,
			})
		}
	}

	for j := 0; j < l.Nx; j++ {
		row := make([]float64, l.N-1)
		for i := 0; i < l.N-1; i++ {
			row[i] = c[l.DefectOffset(i)+j]
		}
		rep.DefectNorms = append(rep.DefectNorms, RowNorm{Name: stateNames[j], Norm: euclideanNorm(row)})
	}

	if l.Ng > 0 {
		rep.PathNames = pathNames
		rep.PathValues = make([][]float64, l.N)
		for k := 0; k < l.N; k++ {
			po := l.PathOffset(k)
			rep.PathValues[k] = append([]float64(nil), c[po:po+l.Ng]...)
		}
		for j := 0; j < l.Ng; j++ {
			row := make([]float64, l.N)
			for k := 0; k < l.N; k++ {
				row[k] = rep.PathValues[k][j]
			}
			rep.PathNorms = append(rep.PathNorms, RowNorm{Name: pathNames[j], Norm: euclideanNorm(row)})
		}
	}

	return rep
}

// PrintConstraintValues reconstructs a flat vector from traj (no
// interpolation assumed), evaluates the constraints through tr, and writes
// the bound-activation / defect-norm / path-constraint report to w. traj's
// column count must equal the transcription mesh size.
func PrintConstraintValues(w io.Writer, tr Transcription, traj *iterate.Iterate) error {
	l := tr.Layout()
	x, err := iterate.ConstructFlat[float64](l, traj, false)
	if err != nil {
		return err
	}
	c := make([]float64, l.NumConstraints())
	if err := tr.CalcConstraints(x, c); err != nil {
		return err
	}
	rep := BuildReport(l, tr.VariableLower(), tr.VariableUpper(), x,
		tr.ConstraintLower(), tr.ConstraintUpper(), c,
		tr.StateNames(), tr.ControlNames(), tr.PathConstraintNames())
	Print(w, rep)
	return nil
}

// Print writes rep to w in a fixed-width diagnostic format.
func Print(w io.Writer, rep Report) {
	gio.Ff(w, "%-16s %4s %14s %14s %14s %6s\n", "name", "pt", "lower", "value", "upper", "mark")
	for _, v := range rep.Variables {
		gio.Ff(w, "%-16s %4d %14g %14g %14g %6s\n", v.Name, v.MeshPt, v.Lower, v.Value, v.Upper, v.Marker)
	}
	gio.Ff(w, "\ndefect norms:\n")
	for _, d := range rep.DefectNorms {
		gio.Ff(w, "  %-16s |.| = %g\n", d.Name, d.Norm)
	}
	if len(rep.PathNorms) > 0 {
		gio.Ff(w, "\npath constraint norms:\n")
		for _, p := range rep.PathNorms {
			gio.Ff(w, "  %-16s |.| = %g\n", p.Name, p.Norm)
		}
		gio.Ff(w, "\npath constraint values (mesh point x path constraint):\n")
		for k, row := range rep.PathValues {
			gio.Ff(w, "  pt %4d:", k)
			for _, v := range row {
				gio.Ff(w, " %14g", v)
			}
			gio.Ff(w, "\n")
		}
	}
}
