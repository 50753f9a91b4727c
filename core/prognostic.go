package core

// LeapfrogField holds the two time slices of one spectral prognostic
// field. The tendency pipeline receives an index lf ∈ {1, 2} selecting
// which slice is "current"; the time integrator (outside this package)
// owns writing the other slice.
type LeapfrogField struct {
	Slices [2]*SpectralField
}

// NewLeapfrogField allocates both slices at truncation L.
func NewLeapfrogField(L int) *LeapfrogField {
	return &LeapfrogField{Slices: [2]*SpectralField{NewSpectralField(L), NewSpectralField(L)}}
}

// At returns the slice for lf (1 or 2); any other value panics, since
// it is a caller bug.
func (f *LeapfrogField) At(lf int) *SpectralField {
	if lf != 1 && lf != 2 {
		panic(shapef("LeapfrogField.At", "lf in {1, 2}", "lf out of range"))
	}
	return f.Slices[lf-1]
}

// LayerPrognostic is one layer's prognostic spectral state. Humid is
// nil for a dry core.
type LayerPrognostic struct {
	Vor, Div, Temp, Humid *LeapfrogField
}

// PrognosticVariables is the packed triangular spectral state carried
// forward between RHS evaluations: per-layer vorticity, divergence,
// temperature, optional humidity, and the surface log pressure — each
// with two leapfrog slots.
type PrognosticVariables struct {
	Trunc  int
	NLev   int
	Wet    bool
	Layers []LayerPrognostic
	Pres   *LeapfrogField // spectral log surface pressure
}

// NewPrognosticVariables allocates a fully zeroed prognostic state for
// nlev layers at truncation L. wet selects whether humidity fields
// are carried (the dry_core configuration flag).
func NewPrognosticVariables(L, nlev int, wet bool) *PrognosticVariables {
	layers := make([]LayerPrognostic, nlev)
	for k := range layers {
		layers[k] = LayerPrognostic{
			Vor:  NewLeapfrogField(L),
			Div:  NewLeapfrogField(L),
			Temp: NewLeapfrogField(L),
		}
		if wet {
			layers[k].Humid = NewLeapfrogField(L)
		}
	}
	return &PrognosticVariables{
		Trunc:  L,
		NLev:   nlev,
		Wet:    wet,
		Layers: layers,
		Pres:   NewLeapfrogField(L),
	}
}
