package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewEqualSigmaLevels_partitionAndHalfFullSigma(t *testing.T) {
	s := NewEqualSigmaLevels(8)
	sum := 0.0
	for _, d := range s.DSigma {
		sum += d
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	require.Len(t, s.HalfSigma, 9)
	assert.Equal(t, 0.0, s.HalfSigma[0])
	assert.InDelta(t, 1.0, s.HalfSigma[8], 1e-12)
	require.Len(t, s.FullSigma, 8)
	for k := 0; k < 8; k++ {
		assert.InDelta(t, s.HalfSigma[k]+s.DSigma[k]/2, s.FullSigma[k], 1e-12)
	}
}

func Test_SigmaLevels_validate_rejectsBadPartition(t *testing.T) {
	s := SigmaLevels{NLev: 2, DSigma: []float64{0.3, 0.3}, A: []float64{0.5, 0.5}, B: []float64{0.5, 0.5}}
	err := s.validate()
	assert.Error(t, err)
	var ce *ConfigError
	assert.ErrorAs(t, err, &ce)
}

func Test_NewGeometry_full(t *testing.T) {
	spec := SpectralGridSpec{Trunc: 10, NLatHalf: 8, Kind: FullGaussianGrid}
	sigma := NewEqualSigmaLevels(4)
	geo, err := NewGeometry(spec, sigma, EarthLike())
	require.NoError(t, err)
	assert.Equal(t, 16, len(geo.Grid.Rings))
	assert.Equal(t, 4, geo.Sigma.NLev)

	weightSum := 0.0
	for _, r := range geo.Grid.Rings {
		weightSum += r.Weight
	}
	assert.InDelta(t, 2.0, weightSum, 1e-9)

	for _, r := range geo.Grid.Rings {
		assert.InDelta(t, 1/(r.CosLat*r.CosLat), r.CosLatInvSq, 1e-12)
	}
}

func Test_NewGeometry_rejectsTooFewLatitudes(t *testing.T) {
	spec := SpectralGridSpec{Trunc: 42, NLatHalf: 2, Kind: FullGaussianGrid}
	sigma := NewEqualSigmaLevels(1)
	_, err := NewGeometry(spec, sigma, EarthLike())
	assert.Error(t, err)
}

func Test_NewGeometry_octahedral(t *testing.T) {
	spec := SpectralGridSpec{Trunc: 10, NLatHalf: 8, Kind: OctahedralGaussianGrid}
	sigma := NewEqualSigmaLevels(1)
	geo, err := NewGeometry(spec, sigma, EarthLike())
	require.NoError(t, err)
	// Reduced grid: rings nearer the poles must not be longer than the equatorial ring.
	eqLen := geo.Grid.Rings[geo.Spec.NLatHalf-1].Length
	for _, r := range geo.Grid.Rings {
		assert.LessOrEqual(t, r.Length, eqLen)
	}
}

func Test_applyCoriolis_signsByHemisphere(t *testing.T) {
	spec := SpectralGridSpec{Trunc: 10, NLatHalf: 8, Kind: FullGaussianGrid}
	geo, err := NewGeometry(spec, NewEqualSigmaLevels(1), EarthLike())
	require.NoError(t, err)
	north := geo.Grid.Rings[0]
	south := geo.Grid.Rings[len(geo.Grid.Rings)-1]
	assert.Greater(t, north.Coriolis, 0.0)
	assert.Less(t, south.Coriolis, 0.0)
}
