package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test_Transform_roundTripPreservesCoefficients checks that a T21
// spectral field on a full Gaussian grid (nlat = 32) survives an
// inverse-then-forward transform within numerical tolerance.
func Test_Transform_roundTripPreservesCoefficients(t *testing.T) {
	L := 21
	spec := SpectralGridSpec{Trunc: L, NLatHalf: 16, Kind: FullGaussianGrid}
	geo, err := NewGeometry(spec, NewEqualSigmaLevels(1), EarthLike())
	require.NoError(t, err)

	tr := NewSpectralTransform(geo)

	in := NewSpectralField(L)
	for m := 0; m <= L; m++ {
		col := in.Column(m)
		for l := m; l <= L; l++ {
			col[l] = complex(float64(l), float64(m))
		}
	}

	grid := NewGridField(geo.Grid)
	tr.Inverse(in, grid)

	out := NewSpectralField(L)
	tr.Forward(grid, out)

	for m := 0; m <= L; m++ {
		for l := m; l <= L; l++ {
			assert.InDelta(t, real(in.At(l, m)), real(out.At(l, m)), 1e-8)
			assert.InDelta(t, imag(in.At(l, m)), imag(out.At(l, m)), 1e-8)
		}
	}
}

func Test_Transform_Forward_panicsOnMismatchedGrid(t *testing.T) {
	spec := SpectralGridSpec{Trunc: 8, NLatHalf: 8, Kind: FullGaussianGrid}
	geo, err := NewGeometry(spec, NewEqualSigmaLevels(1), EarthLike())
	require.NoError(t, err)
	tr := NewSpectralTransform(geo)

	otherGeo, err := NewGeometry(spec, NewEqualSigmaLevels(1), EarthLike())
	require.NoError(t, err)
	g := NewGridField(otherGeo.Grid)
	out := NewSpectralField(8)

	assert.Panics(t, func() { tr.Forward(g, out) })
}
