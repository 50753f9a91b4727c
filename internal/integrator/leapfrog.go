// Package integrator supplies the leapfrog time-stepping collaborator
// that sits external to the dynamical core: it commits the tendencies
// core.TendencyEngine produces onto the "next" leapfrog slot, applies
// a Robert–Asselin filter to the slot it just displaced, and damps
// high-degree coefficients with ∇^2n hyperdiffusion so the spectral
// spectrum does not pile up energy at the truncation limit.
package integrator

import "speedycore/core"

// Params collects the time-stepping constants: Δt, Robert–Asselin
// coefficients, and horizontal diffusion.
type Params struct {
	Dt float64 // Δt, seconds

	// RobertAlpha, RobertBeta are the Robert–Asselin–Williams filter
	// coefficients applied to the slot the step displaces. RobertBeta
	// is Williams (2009)'s splitting factor and defaults to RobertAlpha
	// when left at zero; the classical Robert–Asselin filter, which
	// leaves the incoming level unchanged, is RobertBeta = 1.
	RobertAlpha float64
	RobertBeta  float64

	// DiffusionOrder is n in the ∇^2n hyperdiffusion operator; 0
	// disables diffusion entirely.
	DiffusionOrder int
	// DiffusionTimescale is the e-folding time, seconds, of the
	// truncation-degree coefficient under the diffusion operator.
	DiffusionTimescale float64
}

// Leapfrog implements core.TimeIntegrator: a classical leapfrog step
// in spectral space with a Robert–Asselin–Williams filter and
// optional ∇^2n hyperdiffusion, applied before committing the new
// leapfrog slot.
type Leapfrog struct {
	Params Params

	// damp[l] is the per-degree multiplicative damping factor,
	// precomputed once at construction from DiffusionOrder/Timescale.
	damp []float64
}

// New builds a Leapfrog for geo's truncation. radius is geo.Planet.Radius;
// the diffusion eigenvalue is l(l+1)/R^2, the same horizontal Laplacian
// eigenvalue core.Operators.Laplacian uses.
func New(p Params, geo *core.Geometry) *Leapfrog {
	L := geo.Spec.Trunc
	damp := make([]float64, L+2)
	if p.DiffusionOrder > 0 && p.DiffusionTimescale > 0 {
		r2 := geo.Planet.Radius * geo.Planet.Radius
		lmaxEig := float64(L*(L+1)) / r2
		for l := 0; l <= L+1; l++ {
			eig := float64(l*(l+1)) / r2
			ratio := eig / lmaxEig
			for n := 1; n < p.DiffusionOrder; n++ {
				ratio *= eig / lmaxEig
			}
			damp[l] = 1 - ratio*p.Dt/p.DiffusionTimescale
			if damp[l] < 0 {
				damp[l] = 0
			}
		}
	} else {
		for l := range damp {
			damp[l] = 1
		}
	}
	beta := p.RobertBeta
	if beta == 0 {
		beta = p.RobertAlpha
	}
	p.RobertBeta = beta
	return &Leapfrog{Params: p, damp: damp}
}

// Step advances one field's leapfrog slots in place: new = old(lf-1) +
// 2Δt·tendency, damped by hyperdiffusion, then filters the slot lf
// just read (the time level the new value displaces) via
// Robert–Asselin–Williams. other is the slice not equal to lf.
func (lf *Leapfrog) stepField(field *core.LeapfrogField, cur, other int, tend *core.SpectralField, dt float64) {
	curSlice := field.At(cur)
	otherSlice := field.At(other)
	p := lf.Params

	unfiltered := make([]complex128, len(curSlice.Data))
	copy(unfiltered, otherSlice.Data)
	for i, t := range tend.Data {
		unfiltered[i] += complex(2*dt, 0) * t
	}
	for m := 0; m <= curSlice.Trunc; m++ {
		base := m * (curSlice.Trunc + 2)
		for l := m; l <= curSlice.Trunc+1; l++ {
			unfiltered[base+l] *= complex(lf.damp[l], 0)
		}
	}

	// otherSlice still holds time n-1 here; curSlice holds time n;
	// unfiltered holds the raw, undamped-for-filter time n+1. Williams
	// (2009)'s correction splits the classical Robert-Asselin
	// adjustment between the displaced level (n, filtered in place)
	// and the incoming level (n+1, nudged back toward n-1 by the
	// same increment scaled by (1-beta)).
	alpha := complex(p.RobertAlpha, 0)
	beta := complex(p.RobertBeta, 0)
	half := complex(0.5, 0)
	for i := range curSlice.Data {
		prev := otherSlice.Data[i]
		displaced := curSlice.Data[i]
		next := unfiltered[i]
		delta := alpha * half * (prev - 2*displaced + next)
		curSlice.Data[i] = displaced + delta
		otherSlice.Data[i] = next - (1-beta)*delta
	}
	otherSlice.Truncate()
}

// Step implements core.TimeIntegrator. lf selects the slice the
// tendencies in D were evaluated from; the returned index is the
// slice the next RHS evaluation should read.
func (lfg *Leapfrog) Step(V *core.PrognosticVariables, D *core.DiagnosticVariables, lfIdx int, dt float64) int {
	other := 3 - lfIdx
	for k := range V.Layers {
		layer := &V.Layers[k]
		dl := &D.Layers[k]
		lfg.stepField(layer.Vor, lfIdx, other, dl.VorTend, dt)
		lfg.stepField(layer.Div, lfIdx, other, dl.DivTend, dt)
		lfg.stepField(layer.Temp, lfIdx, other, dl.TempTend, dt)
		if layer.Humid != nil && dl.HumidTend != nil {
			lfg.stepField(layer.Humid, lfIdx, other, dl.HumidTend, dt)
		}
	}
	lfg.stepField(V.Pres, lfIdx, other, D.Surface.PresTend, dt)
	return other
}
