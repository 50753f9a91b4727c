package core

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat"
)

// GridKind enumerates the supported horizontal grid layouts.
type GridKind int

const (
	FullGaussianGrid GridKind = iota
	OctahedralGaussianGrid
)

func (k GridKind) String() string {
	switch k {
	case FullGaussianGrid:
		return "full_gaussian"
	case OctahedralGaussianGrid:
		return "octahedral_gaussian"
	default:
		return "unknown"
	}
}

// SpectralGridSpec is the configuration descriptor for a run:
// triangular truncation, the half-hemisphere ring count, and grid kind.
type SpectralGridSpec struct {
	Trunc    int // L
	NLatHalf int // rings in one hemisphere
	Kind     GridKind
}

// SigmaLevels is the vertical σ-coordinate metadata: per layer
// thickness Δσ_k and the A_k, B_k coefficients projecting the
// half-level σ_dot flux onto d(ln p_s)/dt.
type SigmaLevels struct {
	NLev      int
	DSigma    []float64 // Δσ_k, len NLev, sums to 1
	A, B      []float64 // len NLev
	HalfSigma []float64 // σ at half-levels k-½, len NLev+1; HalfSigma[0]=0, HalfSigma[NLev]=1
	FullSigma []float64 // σ at full (layer-centered) levels, len NLev
}

// NewEqualSigmaLevels builds nlev equally thick σ-layers with the
// customary linear A_k, B_k projection (A_k + B_k = 1, B_k increasing
// with depth).
func NewEqualSigmaLevels(nlev int) SigmaLevels {
	d := make([]float64, nlev)
	a := make([]float64, nlev)
	b := make([]float64, nlev)
	for k := 0; k < nlev; k++ {
		d[k] = 1.0 / float64(nlev)
		b[k] = (float64(k) + 0.5) / float64(nlev)
		a[k] = 1 - b[k]
	}
	return newSigmaLevels(nlev, d, a, b)
}

func newSigmaLevels(nlev int, d, a, b []float64) SigmaLevels {
	half := make([]float64, nlev+1)
	full := make([]float64, nlev)
	for k := 0; k < nlev; k++ {
		half[k+1] = half[k] + d[k]
		full[k] = half[k] + d[k]/2
	}
	half[nlev] = 1
	return SigmaLevels{NLev: nlev, DSigma: d, A: a, B: b, HalfSigma: half, FullSigma: full}
}

// validate enforces the configuration-error invariant Σ Δσ_k = 1.
func (s SigmaLevels) validate() error {
	if len(s.DSigma) != s.NLev || len(s.A) != s.NLev || len(s.B) != s.NLev {
		return &ConfigError{Op: "SigmaLevels", Msg: "DSigma/A/B length must equal NLev"}
	}
	sum := floats.Sum(s.DSigma)
	if math.Abs(sum-1) > 1e-9 {
		return &ConfigError{Op: "SigmaLevels", Msg: "sum of DSigma must equal 1"}
	}
	return nil
}

// Geometry precomputes the per-ring latitude metadata, σ-levels,
// Coriolis factors and cosφ tables shared by every other component.
type Geometry struct {
	Spec   SpectralGridSpec
	Grid   *Grid
	Sigma  SigmaLevels
	Planet PlanetConstants
}

// NewGeometry builds the grid and validates the truncation/grid and
// σ-level invariants before any RHS evaluation can run.
func NewGeometry(spec SpectralGridSpec, sigma SigmaLevels, planet PlanetConstants) (*Geometry, error) {
	if err := sigma.validate(); err != nil {
		return nil, err
	}
	if len(sigma.HalfSigma) != sigma.NLev+1 || len(sigma.FullSigma) != sigma.NLev {
		sigma = newSigmaLevels(sigma.NLev, sigma.DSigma, sigma.A, sigma.B)
	}
	nlat := 2 * spec.NLatHalf
	if nlat < (3*spec.Trunc+1)/2 {
		return nil, &ConfigError{Op: "NewGeometry", Msg: "nlat too small for truncation: need nlat >= (3L+1)/2"}
	}
	grid, err := buildGaussianGrid(spec)
	if err != nil {
		return nil, err
	}
	if err := validateQuadratureWeights(grid); err != nil {
		return nil, err
	}
	g := &Geometry{Spec: spec, Grid: grid, Sigma: sigma, Planet: planet}
	g.applyCoriolis()
	return g, nil
}

// buildGaussianGrid lays out the Northern/Southern ring pairs of a
// (reduced or full) Gaussian grid, using Gauss-Legendre quadrature
// nodes and weights for the latitudes.
func buildGaussianGrid(spec SpectralGridSpec) (*Grid, error) {
	nlat := 2 * spec.NLatHalf
	x := make([]float64, nlat)
	w := make([]float64, nlat)
	quad.Legendre{}.FixedLocations(x, w, -1, 1)

	nlonFull := 4 * spec.NLatHalf
	if nlonFull < 3*spec.Trunc+1 {
		nlonFull = 3*spec.Trunc + 1
		if nlonFull%2 != 0 {
			nlonFull++
		}
	}

	// Ring 0 is the northernmost: rings take the nodes from the largest
	// down, whichever order FixedLocations returned them in.
	descending := x[0] > x[nlat-1]

	rings := make([]RingMeta, nlat)
	offset := 0
	for j := 0; j < nlat; j++ {
		idx := nlat - 1 - j
		if descending {
			idx = j
		}
		sinLat := x[idx]
		lat := math.Asin(sinLat)
		cosLat := math.Cos(lat)

		nlon := nlonFull
		if spec.Kind == OctahedralGaussianGrid {
			jj := j
			if jj >= spec.NLatHalf {
				jj = nlat - 1 - j
			}
			nlon = 4*(jj+1) + 16
			if nlon > nlonFull {
				nlon = nlonFull
			}
		}
		if nlon < 3*spec.Trunc+1 {
			return nil, &ConfigError{Op: "buildGaussianGrid", Msg: "nlon(j) too small for truncation: need nlon >= 3L+1"}
		}

		rings[j] = RingMeta{
			Start:       offset,
			Length:      nlon,
			Lat:         lat,
			CosLat:      cosLat,
			CosLatInvSq: 1 / (cosLat * cosLat),
			Weight:      w[idx],
			Coriolis:    0, // filled below once Ω is known
		}
		offset += nlon
	}

	return &Grid{Rings: rings, NPoints: offset}, nil
}

// validateQuadratureWeights checks the Gauss-Legendre normalization
// Σw_j = 2 over [-1, 1], expressed via the weights' mean rather than
// a raw sum so a single bad ring stands out against the expected
// per-ring average of 2/nlat.
func validateQuadratureWeights(grid *Grid) error {
	w := make([]float64, len(grid.Rings))
	for j, r := range grid.Rings {
		w[j] = r.Weight
	}
	mean := stat.Mean(w, nil)
	want := 2 / float64(len(w))
	if math.Abs(mean-want) > 1e-9 {
		return &ConfigError{Op: "validateQuadratureWeights", Msg: "Gauss-Legendre weights do not sum to 2"}
	}
	return nil
}

// applyCoriolis fills in f_j = 2Ω sinφ_j for every ring. Split from
// buildGaussianGrid because the grid itself does not depend on the
// planet's rotation rate.
func (g *Geometry) applyCoriolis() {
	omega := g.Planet.Rotation
	for j := range g.Grid.Rings {
		r := &g.Grid.Rings[j]
		r.Coriolis = 2 * omega * math.Sin(r.Lat)
	}
}
