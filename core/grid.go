package core

// RingMeta carries the per-ring metadata a Gaussian latitude grid
// precomputes once at construction.
type RingMeta struct {
	Start       int     // offset of this ring's first point in a GridField
	Length      int     // nlon(j)
	Lat         float64 // φ_j, radians, north positive
	CosLat      float64
	CosLatInvSq float64 // cos^-2 φ_j
	Weight      float64 // Gaussian quadrature weight w_j
	Coriolis    float64 // f_j = 2Ω sin φ_j
}

// Grid is a ring-indexed horizontal grid: a flat sequence of points
// grouped into rings of constant latitude, symmetric about the
// equator. It never stores a 2-D array so that reduced Gaussian grids
// (varying nlon per ring) work the same way as the full Gaussian grid.
type Grid struct {
	Rings   []RingMeta
	NPoints int
}

// NPointsTotal returns the number of grid points across all rings.
func (g *Grid) NPointsTotal() int { return g.NPoints }

// GridField is a horizontal field on a Grid: one float64 per grid
// point, laid out ring by ring per RingMeta.Start/Length.
type GridField struct {
	grid *Grid
	Data []float64
}

// NewGridField allocates a zeroed field on g. Fields are allocated once
// and reused; the tendency pipeline never allocates per RHS evaluation.
func NewGridField(g *Grid) *GridField {
	return &GridField{grid: g, Data: make([]float64, g.NPoints)}
}

// Ring returns the slice of Data belonging to ring j.
func (f *GridField) Ring(j int) []float64 {
	r := f.grid.Rings[j]
	return f.Data[r.Start : r.Start+r.Length]
}

// Zero clears the field in place.
func (f *GridField) Zero() {
	for i := range f.Data {
		f.Data[i] = 0
	}
}

// sameGrid reports whether all of fields share g's shape.
func sameGrid(g *Grid, fields ...*GridField) bool {
	for _, f := range fields {
		if f.grid != g || len(f.Data) != g.NPoints {
			return false
		}
	}
	return true
}

// axpyGrid adds a·src into dst in place, used throughout the tendency
// pipeline to accumulate σ-weighted vertical sums.
func axpyGrid(dst, src *GridField, a float64) {
	for i, v := range src.Data {
		dst.Data[i] += a * v
	}
}

// EachRing is the grid's single iteration primitive: it calls fn once
// per ring with the ring index and the shared start/end offsets into
// every field's Data, after asserting all fields share g's shape.
// Pure per-ring work driven through EachRing is safe to parallelize,
// because each ring's output offsets never overlap.
func (g *Grid) EachRing(fn func(j, start, end int), fields ...*GridField) {
	if !sameGrid(g, fields...) {
		panic(shapef("Grid.EachRing", "fields on this grid", "fields on a different grid or of the wrong length"))
	}
	for j, r := range g.Rings {
		fn(j, r.Start, r.Start+r.Length)
	}
}
