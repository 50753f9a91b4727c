package core

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// SpectralTransform is the bidirectional transform between a
// triangularly-truncated spherical-harmonic representation and a
// latitude-ring grid. It owns one real-to-complex FFT
// plan per Northern-hemisphere ring (shared with its Southern
// partner, which always has the same ring length on the grids this
// package builds) and the Legendre/ε tables, and it never allocates
// inside Forward/Inverse: all scratch comes from the fnBuf/fsBuf
// fields sized once at construction to the widest ring.
type SpectralTransform struct {
	Geo *Geometry
	Leg *LegendreTable

	ffts []*fourier.FFT // one per Northern ring, index 0..NLatHalf-1

	fnBuf, fsBuf []complex128 // Fourier coefficients, Northern/Southern ring
}

// NewSpectralTransform precomputes the Legendre table and FFT plans
// for geo's grid.
func NewSpectralTransform(geo *Geometry) *SpectralTransform {
	nlatHalf := geo.Spec.NLatHalf
	sinLat := make([]float64, nlatHalf)
	for j := 0; j < nlatHalf; j++ {
		sinLat[j] = math.Sin(geo.Grid.Rings[j].Lat)
	}
	leg := NewLegendreTable(geo.Spec.Trunc, sinLat)

	ffts := make([]*fourier.FFT, nlatHalf)
	maxHalf := 0
	for j := 0; j < nlatHalf; j++ {
		n := geo.Grid.Rings[j].Length
		ffts[j] = fourier.NewFFT(n)
		if h := n/2 + 1; h > maxHalf {
			maxHalf = h
		}
	}

	return &SpectralTransform{
		Geo:   geo,
		Leg:   leg,
		ffts:  ffts,
		fnBuf: make([]complex128, maxHalf),
		fsBuf: make([]complex128, maxHalf),
	}
}

// Forward transforms a grid field into spectral coefficients,
// overwriting out.
func (t *SpectralTransform) Forward(g *GridField, out *SpectralField) {
	if !sameGrid(t.Geo.Grid, g) {
		panic(shapef("SpectralTransform.Forward", "field on transform's grid", "field on a different grid"))
	}
	out.Zero()
	L := out.Trunc
	geo := t.Geo
	nlatHalf := geo.Spec.NLatHalf
	nlat := len(geo.Grid.Rings)

	for j := 0; j < nlatHalf; j++ {
		rN := geo.Grid.Rings[j]
		sj := nlat - 1 - j
		rS := geo.Grid.Rings[sj]
		plan := t.ffts[j]
		half := rN.Length/2 + 1

		fn := plan.Coefficients(t.fnBuf[:half], g.Ring(j))
		fs := plan.Coefficients(t.fsBuf[:half], g.Ring(sj))

		// Coefficients is unnormalized (a factor nlon over Sequence), so
		// divide by the ring length along with the Gaussian weight.
		w := complex(rN.Weight/float64(rN.Length), 0)
		mMax := L
		if half-1 < mMax {
			mMax = half - 1
		}
		p := t.Leg.P[j]
		for m := 0; m <= mMax; m++ {
			e := w * (fn[m] + fs[m])
			o := w * (fn[m] - fs[m])
			col := out.Column(m)
			for l := m; l <= L; l++ {
				pv := complex(p.At(l, m), 0)
				if (l-m)%2 == 0 {
					col[l] += pv * e
				} else {
					col[l] += pv * o
				}
			}
		}
		_ = rS // rS.Length == rN.Length is the invariant buildGaussianGrid maintains
	}
}

// Inverse transforms spectral coefficients into a grid field,
// overwriting g.
func (t *SpectralTransform) Inverse(in *SpectralField, g *GridField) {
	if !sameGrid(t.Geo.Grid, g) {
		panic(shapef("SpectralTransform.Inverse", "field on transform's grid", "field on a different grid"))
	}
	L := in.Trunc
	geo := t.Geo
	nlatHalf := geo.Spec.NLatHalf
	nlat := len(geo.Grid.Rings)

	for j := 0; j < nlatHalf; j++ {
		rN := geo.Grid.Rings[j]
		sj := nlat - 1 - j
		half := rN.Length/2 + 1

		fn := t.fnBuf[:half]
		fs := t.fsBuf[:half]
		for i := range fn {
			fn[i] = 0
			fs[i] = 0
		}

		mMax := L
		if half-1 < mMax {
			mMax = half - 1
		}
		p := t.Leg.P[j]
		for m := 0; m <= mMax; m++ {
			col := in.Column(m)
			var even, odd complex128
			for l := m; l <= L; l++ {
				pv := complex(p.At(l, m), 0)
				if (l-m)%2 == 0 {
					even += pv * col[l]
				} else {
					odd += pv * col[l]
				}
			}
			fn[m] = even + odd
			fs[m] = even - odd
		}

		plan := t.ffts[j]
		plan.Sequence(g.Ring(j), fn)
		plan.Sequence(g.Ring(sj), fs)
	}
}
