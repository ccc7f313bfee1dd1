// Copyright 2026 The Goocp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bridge exposes the transcription as the evaluation interface an
// external NLP solver expects: variable/constraint counts,
// bound vectors, and objective/constraint evaluation. It forwards every call
// to the transcription unchanged; the bridge owns no state of its own beyond
// a shared reference to it.
package bridge

// Transcription is the subset of trapz.Transcription[float64]'s API the
// bridge needs. It is expressed as an interface (rather than importing
// trapz's generic type directly) so a bridge can be built against any
// float64-evaluated transcription without coupling this package to trapz's
// generic scalar machinery; the NLP solver side only ever deals in
// float64.
type Transcription interface {
	VariableLower() []float64
	VariableUpper() []float64
	ConstraintLower() []float64
	ConstraintUpper() []float64
	CalcObjective(x []float64) (float64, error)
	CalcConstraints(x []float64, c []float64) error
}

// Bridge wraps a Transcription with the exact method names an external NLP
// solver expects. It holds the transcription by shared
// lifetime (the embedding program constructs both and keeps both alive for
// the duration of one solve) and forwards calls unchanged.
type Bridge struct {
	tr Transcription
}

// New wraps tr as an NLP-facing evaluation surface.
func New(tr Transcription) *Bridge { return &Bridge{tr: tr} }

// NumVariables returns len(VariableLower()).
func (b *Bridge) NumVariables() int { return len(b.tr.VariableLower()) }

// NumConstraints returns len(ConstraintLower()).
func (b *Bridge) NumConstraints() int { return len(b.tr.ConstraintLower()) }

// VariableLower/VariableUpper/ConstraintLower/ConstraintUpper forward to the
// wrapped transcription.
func (b *Bridge) VariableLower() []float64   { return b.tr.VariableLower() }
func (b *Bridge) VariableUpper() []float64   { return b.tr.VariableUpper() }
func (b *Bridge) ConstraintLower() []float64 { return b.tr.ConstraintLower() }
func (b *Bridge) ConstraintUpper() []float64 { return b.tr.ConstraintUpper() }

// EvaluateObjective forwards to the transcription's CalcObjective.
func (b *Bridge) EvaluateObjective(x []float64) (float64, error) { return b.tr.CalcObjective(x) }

// EvaluateConstraints forwards to the transcription's CalcConstraints,
// writing into c (length NumConstraints()).
func (b *Bridge) EvaluateConstraints(x []float64, c []float64) error {
	return b.tr.CalcConstraints(x, c)
}
