package core

import "math"

// OrographyKind enumerates the boundary variants.
type OrographyKind int

const (
	ZeroOrography OrographyKind = iota
	AnalyticRidgeOrography
	FileOrography
)

func (k OrographyKind) String() string {
	switch k {
	case ZeroOrography:
		return "zero"
	case AnalyticRidgeOrography:
		return "analytic_ridge"
	case FileOrography:
		return "file"
	default:
		return "unknown"
	}
}

// Boundaries is the time-invariant surface boundary condition: grid
// orography height and its spectral surface geopotential Φ_s = g·h_s.
// Initialization writes both; the tendency pipeline only ever reads
// them afterward.
type Boundaries struct {
	Kind          OrographyKind
	OrographyGrid *GridField
	PhiS          *SpectralField
}

// NewZeroOrography returns a flat boundary, h_s ≡ 0.
func NewZeroOrography(geo *Geometry) *Boundaries {
	return &Boundaries{
		Kind:          ZeroOrography,
		OrographyGrid: NewGridField(geo.Grid),
		PhiS:          NewSpectralField(geo.Spec.Trunc),
	}
}

// AnalyticRidgeParams configures the analytic mountain: a cosine bell
// of the given height centered at (LatC, LonC). It is an isolated
// mountain, not a zonally uniform ridge.
type AnalyticRidgeParams struct {
	Height    float64 // h0, peak height in meters
	LatC      float64 // φ_c, ridge center latitude, radians
	LonC      float64 // λ_c, ridge center longitude, radians
	HalfWidth float64 // angular half-width; the standard test uses π/9
}

// DefaultAnalyticRidgeParams returns the Jablonowski–Williamson (2006)
// baroclinic-wave test mountain.
func DefaultAnalyticRidgeParams() AnalyticRidgeParams {
	return AnalyticRidgeParams{
		Height:    2000,
		LatC:      math.Pi / 6,
		LonC:      1.5 * math.Pi,
		HalfWidth: math.Pi / 9,
	}
}

// NewAnalyticRidgeOrography builds the cosine-bell mountain directly
// on the grid (zero beyond HalfWidth of the center), then derives Φ_s
// by forward transform.
func NewAnalyticRidgeOrography(geo *Geometry, tr *SpectralTransform, p AnalyticRidgeParams) *Boundaries {
	grid := geo.Grid
	hGrid := NewGridField(grid)
	grid.EachRing(func(j, start, end int) {
		r := grid.Rings[j]
		n := r.Length
		for i := start; i < end; i++ {
			lon := 2 * math.Pi * float64(i-start) / float64(n)
			d := angularDistance(r.Lat, lon, p.LatC, p.LonC)
			if d < p.HalfWidth {
				hGrid.Data[i] = p.Height / 2 * (1 + math.Cos(math.Pi*d/p.HalfWidth))
			}
		}
	}, hGrid)
	phiS := NewSpectralField(geo.Spec.Trunc)
	tr.Forward(hGrid, phiS)
	phiS.Truncate()
	scaleSpectral(phiS, geo.Planet.Gravity)
	return &Boundaries{Kind: AnalyticRidgeOrography, OrographyGrid: hGrid, PhiS: phiS}
}

func angularDistance(lat1, lon1, lat2, lon2 float64) float64 {
	cosD := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(lon1-lon2)
	if cosD > 1 {
		cosD = 1
	}
	if cosD < -1 {
		cosD = -1
	}
	return math.Acos(cosD)
}

func scaleSpectral(f *SpectralField, factor float64) {
	L := f.Trunc
	c := complex(factor, 0)
	for m := 0; m <= L; m++ {
		col := f.Column(m)
		for l := m; l <= L+1; l++ {
			col[l] *= c
		}
	}
}

// SmoothingParams configures the optional spectral smoothing applied
// to data-file orography.
type SmoothingParams struct {
	Power    float64
	Strength float64
	Fraction float64 // fraction of L below which smoothing is a no-op
}

// NewFileOrography builds a Boundaries from raw orography heights
// already interpolated onto geo's grid. Reading the backing NetCDF
// file and performing that interpolation is the job of the orography
// initializer (internal/netcdfio in this module), not of this package.
// scale multiplies the raw heights; smoothing,
// if non-nil, damps high-degree spectral coefficients before Φ_s is
// derived and the orography grid is rebuilt from the smoothed field.
func NewFileOrography(geo *Geometry, tr *SpectralTransform, rawHeights []float64, scale float64, smoothing *SmoothingParams) (*Boundaries, error) {
	grid := geo.Grid
	if len(rawHeights) != grid.NPointsTotal() {
		return nil, &ShapeError{Op: "NewFileOrography", Want: "len(rawHeights) == grid point count", Got: "mismatched length"}
	}
	hGrid := NewGridField(grid)
	for i, h := range rawHeights {
		hGrid.Data[i] = h * scale
	}
	phiS := NewSpectralField(geo.Spec.Trunc)
	tr.Forward(hGrid, phiS)
	phiS.Truncate()
	if smoothing != nil {
		applySpectralSmoothing(phiS, *smoothing)
		tr.Inverse(phiS, hGrid)
	}
	scaleSpectral(phiS, geo.Planet.Gravity)
	return &Boundaries{Kind: FileOrography, OrographyGrid: hGrid, PhiS: phiS}, nil
}

// applySpectralSmoothing damps coefficients above fraction·L with a
// rolloff of the given power and strength.
func applySpectralSmoothing(f *SpectralField, p SmoothingParams) {
	L := f.Trunc
	cutoff := p.Fraction * float64(L)
	denom := float64(L) - cutoff
	if denom <= 0 {
		denom = 1
	}
	for m := 0; m <= L; m++ {
		col := f.Column(m)
		for l := m; l <= L; l++ {
			if float64(l) <= cutoff {
				continue
			}
			damp := 1 - p.Strength*math.Pow((float64(l)-cutoff)/denom, p.Power)
			if damp < 0 {
				damp = 0
			}
			col[l] *= complex(damp, 0)
		}
	}
}
