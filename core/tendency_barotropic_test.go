package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test_RunBarotropic_restState_isZero: a motionless, vorticity-free
// state produces an identically zero vor_tend.
func Test_RunBarotropic_restState_isZero(t *testing.T) {
	e, geo := testEngine(t, 10, 8, 1)
	V := NewPrognosticVariables(geo.Spec.Trunc, 1, false)
	D := NewDiagnosticVariables(geo, false)

	e.RunBarotropic(V, D, 1)

	for m := 0; m <= geo.Spec.Trunc; m++ {
		for l := m; l <= geo.Spec.Trunc; l++ {
			assert.Equal(t, complex(0.0, 0.0), D.Layers[0].VorTend.At(l, m))
		}
	}
}

// Test_RunBarotropic_truncationAndNoOtherTendencies checks that a
// nontrivial vorticity field produces a vor_tend that respects
// triangular truncation (zero tail row), and that no other prognostic
// tendency is touched by the barotropic tier.
func Test_RunBarotropic_truncationAndNoOtherTendencies(t *testing.T) {
	e, geo := testEngine(t, 10, 8, 1)
	V := NewPrognosticVariables(geo.Spec.Trunc, 1, false)
	D := NewDiagnosticVariables(geo, false)

	lp := &V.Layers[0]
	for m := 0; m <= geo.Spec.Trunc; m++ {
		for l := m; l <= geo.Spec.Trunc; l++ {
			lp.Vor.At(1).Set(l, m, complex(float64(l-m), float64(m)))
		}
	}

	e.RunBarotropic(V, D, 1)

	L := geo.Spec.Trunc
	tail := D.Layers[0].VorTend.Column(0)
	assert.Equal(t, complex(0.0, 0.0), tail[L+1])

	for m := 0; m <= L; m++ {
		for l := m; l <= L; l++ {
			assert.Equal(t, complex(0.0, 0.0), D.Layers[0].DivTend.At(l, m))
			assert.Equal(t, complex(0.0, 0.0), D.Layers[0].TempTend.At(l, m))
		}
	}
	assert.Equal(t, complex(0.0, 0.0), D.Surface.PresTend.At(0, 0))
}

// Test_RunBarotropic_solidBodyRotationIsSteady checks the analytic
// solid-body-rotation state u = u0 cos(phi), v = 0: a purely zonal
// flow has no meridional or zonal structure for the flux divergence to
// act on, so it is an exact steady state of the barotropic vorticity
// equation and vor_tend must vanish to roundoff.
func Test_RunBarotropic_solidBodyRotationIsSteady(t *testing.T) {
	e, geo := testEngine(t, 21, 16, 1)
	u0 := 30.0

	uCoslat := NewGridField(geo.Grid)
	vCoslat := NewGridField(geo.Grid)
	geo.Grid.EachRing(func(j, start, end int) {
		r := geo.Grid.Rings[j]
		for i := start; i < end; i++ {
			uCoslat.Data[i] = u0 * r.CosLat * r.CosLat
			vCoslat.Data[i] = 0
		}
	}, uCoslat, vCoslat)

	L := geo.Spec.Trunc
	uSpec := NewSpectralField(L)
	vSpec := NewSpectralField(L)
	vorSpec := NewSpectralField(L)
	divSpec := NewSpectralField(L)
	e.Tr.Forward(uCoslat, uSpec)
	e.Tr.Forward(vCoslat, vSpec)
	e.Op.DivergenceCurl(uSpec, vSpec, divSpec, vorSpec, false, false)

	V := NewPrognosticVariables(L, 1, false)
	D := NewDiagnosticVariables(geo, false)
	lp := &V.Layers[0]
	for m := 0; m <= L; m++ {
		col := vorSpec.Column(m)
		for l := m; l <= L; l++ {
			lp.Vor.At(1).Set(l, m, col[l])
		}
	}

	e.RunBarotropic(V, D, 1)

	const tol = 1e-6
	for m := 0; m <= L; m++ {
		col := D.Layers[0].VorTend.Column(m)
		for l := m; l <= L; l++ {
			assert.InDelta(t, 0.0, real(col[l]), tol)
			assert.InDelta(t, 0.0, imag(col[l]), tol)
		}
	}
}
