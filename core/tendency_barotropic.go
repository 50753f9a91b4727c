package core

// RunBarotropic executes the reduced barotropic-vorticity RHS: the
// only tendency produced is vor_tend, the divergence of the
// absolute-vorticity flux (uω, vω) with ω = (ζ+f)/cos²φ. No div_tend,
// temperature or surface-pressure tendency is touched.
func (e *TendencyEngine) RunBarotropic(V *PrognosticVariables, D *DiagnosticVariables, lf int) {
	D.ZeroTendencies()
	lp := &V.Layers[0]
	ld := &D.Layers[0]
	vor := lp.Vor.At(lf)
	div := lp.Div.At(lf) // identically zero for this tier; inverted anyway for (U, V)

	e.Op.UVFromVorDiv(vor, div, ld.USpec, ld.VSpec, ld.A, ld.B)
	e.Tr.Inverse(ld.USpec, ld.U)
	e.Tr.Inverse(ld.VSpec, ld.V)
	e.Tr.Inverse(vor, ld.VorGrid)

	e.Geo.Grid.EachRing(func(j, start, end int) {
		r := e.Geo.Grid.Rings[j]
		cosInvSq := r.CosLatInvSq
		f := r.Coriolis
		for i := start; i < end; i++ {
			absVor := (ld.VorGrid.Data[i] + f) * cosInvSq
			ld.UTendGrid.Data[i] = ld.U.Data[i] * absVor
			ld.VTendGrid.Data[i] = ld.V.Data[i] * absVor
		}
	}, ld.VorGrid, ld.U, ld.V, ld.UTendGrid, ld.VTendGrid)
	e.Tr.Forward(ld.UTendGrid, ld.B)
	e.Tr.Forward(ld.VTendGrid, ld.A)
	e.Op.DivergenceCurl(ld.B, ld.A, ld.VorTend, ld.USpec, true, true)
}
