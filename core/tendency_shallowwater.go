package core

// ShallowWaterParams holds the constants the shallow-water RHS needs
// beyond the geometry; gravity already lives in Geometry.Planet.
type ShallowWaterParams struct {
	H0 float64 // reference fluid thickness
}

// RunShallowWater executes the reduced shallow-water RHS. η, the
// interface displacement, is carried in the model's
// surface prognostic slot (PrognosticVariables.Pres) — the primitive
// tier puts ln p_s there; the shallow-water tier has exactly one
// analogous surface scalar, so it reuses the same slot rather than
// adding a second leapfrog field the rest of the package would never
// exercise.
func (e *TendencyEngine) RunShallowWater(V *PrognosticVariables, D *DiagnosticVariables, lf int, sw ShallowWaterParams, relax *Relaxation, t float64) {
	D.ZeroTendencies()
	lp := &V.Layers[0]
	ld := &D.Layers[0]
	s := &D.Surface
	vor := lp.Vor.At(lf)
	div := lp.Div.At(lf)
	eta := V.Pres.At(lf)

	e.Op.UVFromVorDiv(vor, div, ld.USpec, ld.VSpec, ld.A, ld.B)
	e.Tr.Inverse(ld.USpec, ld.U)
	e.Tr.Inverse(ld.VSpec, ld.V)
	e.Tr.Inverse(vor, ld.VorGrid)
	e.Tr.Inverse(eta, s.PresGrid)

	g := e.Geo.Planet.Gravity
	e.Geo.Grid.EachRing(func(j, start, end int) {
		r := e.Geo.Grid.Rings[j]
		cosInvSq := r.CosLatInvSq
		f := r.Coriolis
		for i := start; i < end; i++ {
			absVor := (ld.VorGrid.Data[i] + f) * cosInvSq
			ld.UTendGrid.Data[i] = ld.U.Data[i] * absVor
			ld.VTendGrid.Data[i] = ld.V.Data[i] * absVor
			ld.AGrid.Data[i] = 0.5*(ld.U.Data[i]*ld.U.Data[i]+ld.V.Data[i]*ld.V.Data[i])*cosInvSq + g*s.PresGrid.Data[i]
		}
	}, ld.VorGrid, ld.U, ld.V, s.PresGrid, ld.UTendGrid, ld.VTendGrid, ld.AGrid)

	// vor_tend = -∇·(uω,vω), div_tend += +∇×(uω,vω); DivergenceCurl
	// forces the same add/flipsign on both outputs, so compute the
	// natural (unsigned) div/curl into scratch and apply the opposite
	// signs each target wants separately.
	e.Tr.Forward(ld.UTendGrid, ld.B)
	e.Tr.Forward(ld.VTendGrid, ld.A)
	e.Op.DivergenceCurl(ld.B, ld.A, ld.USpec, ld.VSpec, false, false)
	axpySpectral(ld.VorTend, ld.USpec, -1)
	axpySpectral(ld.DivTend, ld.VSpec, 1)

	e.Tr.Forward(ld.AGrid, ld.Bernoulli)
	e.Op.Laplacian(ld.Bernoulli, ld.DivTend, true, true)

	oro := e.Bnd.OrographyGrid.Data
	e.Geo.Grid.EachRing(func(j, start, end int) {
		cosInvSq := e.Geo.Grid.Rings[j].CosLatInvSq
		for i := start; i < end; i++ {
			h := s.PresGrid.Data[i] + sw.H0 - oro[i]
			ld.UCoslat.Data[i] = ld.U.Data[i] * h * cosInvSq
			ld.VCoslat.Data[i] = ld.V.Data[i] * h * cosInvSq
		}
	}, s.PresGrid, ld.U, ld.V, ld.UCoslat, ld.VCoslat, e.Bnd.OrographyGrid)
	e.Tr.Forward(ld.UCoslat, ld.B)
	e.Tr.Forward(ld.VCoslat, ld.A)
	e.Op.DivergenceCurl(ld.B, ld.A, s.PresTend, ld.USpec, true, true)

	if relax != nil {
		relax.Apply(s.PresTend, eta, t)
	}
}
