package core

// LayerDiagnostic holds one layer's gridded fields and the scratch
// arrays the tendency pipeline needs while deriving them. Fields are
// reused across every RHS evaluation;
// callers must not assume their contents survive past the step that
// wrote them unless documented otherwise.
type LayerDiagnostic struct {
	U, V                 *GridField // u·cosφ, v·cosφ
	VorGrid, DivGrid     *GridField
	TempGrid             *GridField
	TempVirtGrid         *GridField // virtual temperature, grid
	HumidGrid            *GridField // nil for a dry core

	A, B         *SpectralField // general-purpose spectral scratch
	AGrid, BGrid *GridField     // grid images of A, B

	USpec, VSpec *SpectralField // spectral images of U, V, live only during gridded!

	SigmaTend *GridField // σ̇ at the half-level below this layer (k+½), grid
	SigmaM    *GridField // σ̇ restricted to the uv∇lnp term only, grid

	UVDLnP         *GridField // u·∂lnp_s/∂λ + v·∂lnp_s/∂φ, this layer
	LnpVertAdvGrid *GridField // vertical advection term for ln p_s bookkeeping

	Bernoulli     *SpectralField
	BernoulliGrid *GridField
	Geopot        *SpectralField // Φ_k, hydrostatically integrated

	UCoslat, VCoslat *GridField // flux-divergence operands, distinct from U/V

	UTendGrid, VTendGrid, TTendGrid *GridField // grid-space tendency accumulators, steps 5-7
	QTendGrid                       *GridField // nil for a dry core

	VorTend, DivTend, TempTend, HumidTend *SpectralField // HumidTend nil for a dry core
}

// SurfaceDiagnostic holds the gridded and spectral surface-pressure
// scratch shared across layers.
type SurfaceDiagnostic struct {
	PresGrid                     *GridField // ln p_s on the grid
	DPresDLon, DPresDLat         *SpectralField
	DPresDLonGrid, DPresDLatGrid *GridField
	UMeanGrid, VMeanGrid         *GridField // Σ Δσ_k (U_k, V_k)
	DivMeanGrid                  *GridField
	DivMean                      *SpectralField // Σ Δσ_k D_k
	PresTend                     *SpectralField
	PresTendGrid                 *GridField
}

// DiagnosticVariables is the scratch state the tendency pipeline
// derives from PrognosticVariables on every RHS evaluation. It owns no
// leapfrog history — everything here is recomputed from scratch by
// gridded each step.
type DiagnosticVariables struct {
	Trunc   int
	NLev    int
	Wet     bool
	Layers  []LayerDiagnostic
	Surface SurfaceDiagnostic
}

// NewDiagnosticVariables allocates scratch sized to geo's grid and
// truncation.
func NewDiagnosticVariables(geo *Geometry, wet bool) *DiagnosticVariables {
	L := geo.Spec.Trunc
	grid := geo.Grid
	nlev := geo.Sigma.NLev

	layers := make([]LayerDiagnostic, nlev)
	for k := range layers {
		ld := LayerDiagnostic{
			U: NewGridField(grid), V: NewGridField(grid),
			VorGrid: NewGridField(grid), DivGrid: NewGridField(grid),
			TempGrid: NewGridField(grid), TempVirtGrid: NewGridField(grid),

			A: NewSpectralField(L), B: NewSpectralField(L),
			AGrid: NewGridField(grid), BGrid: NewGridField(grid),

			USpec: NewSpectralField(L), VSpec: NewSpectralField(L),

			SigmaTend: NewGridField(grid),
			SigmaM:    NewGridField(grid),

			UVDLnP:         NewGridField(grid),
			LnpVertAdvGrid: NewGridField(grid),

			Bernoulli: NewSpectralField(L), BernoulliGrid: NewGridField(grid),
			Geopot: NewSpectralField(L),

			UCoslat: NewGridField(grid), VCoslat: NewGridField(grid),

			UTendGrid: NewGridField(grid), VTendGrid: NewGridField(grid), TTendGrid: NewGridField(grid),

			VorTend: NewSpectralField(L), DivTend: NewSpectralField(L), TempTend: NewSpectralField(L),
		}
		if wet {
			ld.HumidGrid = NewGridField(grid)
			ld.HumidTend = NewSpectralField(L)
			ld.QTendGrid = NewGridField(grid)
		}
		layers[k] = ld
	}

	surf := SurfaceDiagnostic{
		PresGrid:      NewGridField(grid),
		DPresDLon:     NewSpectralField(L),
		DPresDLat:     NewSpectralField(L),
		DPresDLonGrid: NewGridField(grid),
		DPresDLatGrid: NewGridField(grid),
		UMeanGrid:     NewGridField(grid),
		VMeanGrid:     NewGridField(grid),
		DivMeanGrid:   NewGridField(grid),
		DivMean:       NewSpectralField(L),
		PresTend:      NewSpectralField(L),
		PresTendGrid:  NewGridField(grid),
	}

	return &DiagnosticVariables{Trunc: L, NLev: nlev, Wet: wet, Layers: layers, Surface: surf}
}

// ZeroTendencies clears every layer's spectral tendency accumulators
// and the surface pressure tendency, readying D for the next RHS
// evaluation (each tendency step below accumulates with add=true).
func (d *DiagnosticVariables) ZeroTendencies() {
	for k := range d.Layers {
		ld := &d.Layers[k]
		ld.VorTend.Zero()
		ld.DivTend.Zero()
		ld.TempTend.Zero()
		if ld.HumidTend != nil {
			ld.HumidTend.Zero()
		}
	}
	d.Surface.PresTend.Zero()
}
