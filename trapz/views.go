// Copyright 2026 The Goocp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trapz

import "github.com/cpmech/goocp/ocp"

// View is a non-owning window over one mesh point's contiguous state (or
// control) entries in a flat vector: length entries starting at a base
// offset. It holds no stride; a View is built per mesh point from layout's
// offsets. It never copies; callers must not retain a View past the
// lifetime of the backing slice.
//
// Go has no native strided-view type, so instead of one strided view over
// all mesh points this uses one (base offset, length) window per mesh point.
type View[S ocp.Scalar] struct {
	x      []S
	base   int
	length int
}

// At returns the i-th entry of the view (0 <= i < Len()).
func (v View[S]) At(i int) S { return v.x[v.base+i] }

// Set assigns the i-th entry of the view.
func (v View[S]) Set(i int, val S) { v.x[v.base+i] = val }

// Len returns the number of entries in the view.
func (v View[S]) Len() int { return v.length }

// Window returns the backing subslice of the view without copying. The
// window aliases x and must not outlive it; its capacity is capped at the
// view's end, so an append cannot write into neighbouring entries. This is what the
// evaluation hot path passes to the OCP callbacks, so mesh-point columns
// are never copied per call.
func (v View[S]) Window() []S {
	return v.x[v.base : v.base+v.length : v.base+v.length]
}
