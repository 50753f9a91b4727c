package core

// SpectralField is a packed triangular array of spherical-harmonic
// coefficients, truncated at total degree L. Storage is the full
// (L+2)x(L+1) rectangle: column-major over
// order m (0 <= m <= L), each column holding degrees l = 0..L+1, with
// the tail degree l = L+1 and the invalid m > l slots always exactly
// zero. Consumers index a column directly by l, including l = L+1,
// without branching — that is what lets the ε-recurrences in
// core/operators.go vectorize over a column.
type SpectralField struct {
	Trunc int // L
	Data  []complex128
}

// NewSpectralField allocates a zeroed field truncated at degree L.
func NewSpectralField(L int) *SpectralField {
	return &SpectralField{Trunc: L, Data: make([]complex128, (L+2)*(L+1))}
}

func (f *SpectralField) rows() int { return f.Trunc + 2 }

// Column returns the backing slice for order m, indexable by degree
// l = 0..L+1. Entries with l < m are stored but must never be read;
// callers that only read l >= m (every operator in this package does)
// see exactly the packed-triangular semantics.
func (f *SpectralField) Column(m int) []complex128 {
	start := m * f.rows()
	return f.Data[start : start+f.rows()]
}

// At returns the coefficient at (l, m), or 0 if m > l.
func (f *SpectralField) At(l, m int) complex128 {
	if m > l {
		return 0
	}
	return f.Column(m)[l]
}

// Set writes the coefficient at (l, m). Panics if m > l: such
// coefficients are never read and this type never stores a nonzero
// value there.
func (f *SpectralField) Set(l, m int, v complex128) {
	if m > l {
		panic(shapef("SpectralField.Set", "m <= l", "m > l"))
	}
	f.Column(m)[l] = v
}

// Add accumulates into the coefficient at (l, m).
func (f *SpectralField) Add(l, m int, v complex128) {
	if m > l {
		panic(shapef("SpectralField.Add", "m <= l", "m > l"))
	}
	f.Column(m)[l] += v
}

// Zero clears the field in place, including the tail row.
func (f *SpectralField) Zero() {
	for i := range f.Data {
		f.Data[i] = 0
	}
}

// ZeroImag00 enforces that the (l=0,m=0) entry is real: it clears
// any imaginary part that roundoff may have introduced.
func (f *SpectralField) ZeroImag00() {
	v := f.At(0, 0)
	f.Set(0, 0, complex(real(v), 0))
}

// Truncate zeroes every coefficient at l = L+1, the tail row that an
// operator's output may have populated. Called after every transform
// or operator whose output can introduce tail coefficients.
func (f *SpectralField) Truncate() {
	L := f.Trunc
	for m := 0; m <= L; m++ {
		f.Column(m)[L+1] = 0
	}
}

// axpySpectral adds a·src into dst in place.
func axpySpectral(dst, src *SpectralField, a float64) {
	ca := complex(a, 0)
	for i, v := range src.Data {
		dst.Data[i] += ca * v
	}
}

// sameTrunc reports whether all of fields share f's truncation.
func sameTrunc(L int, fields ...*SpectralField) bool {
	for _, g := range fields {
		if g.Trunc != L {
			return false
		}
	}
	return true
}
