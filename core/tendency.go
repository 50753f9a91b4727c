package core

import "math"

// TendencyEngine orchestrates the per-timestep RHS pipeline for the
// primitive-equation tier. It holds no simulation state of its own: every call operates on the PrognosticVariables and
// DiagnosticVariables passed to RunPrimitive, so one engine can drive
// any number of independently stepped simulations sharing the same
// truncation and grid.
type TendencyEngine struct {
	Geo *Geometry
	Tr  *SpectralTransform
	Op  *Operators
	Bnd *Boundaries
}

// NewTendencyEngine wires the shared geometry, transform, operators
// and boundary condition for one model configuration.
func NewTendencyEngine(geo *Geometry, tr *SpectralTransform, op *Operators, bnd *Boundaries) *TendencyEngine {
	return &TendencyEngine{Geo: geo, Tr: tr, Op: op, Bnd: bnd}
}

// RunPrimitive executes the nine tendency steps in strict order for
// leapfrog slice lf, writing spectral tendencies into D.
func (e *TendencyEngine) RunPrimitive(V *PrognosticVariables, D *DiagnosticVariables, lf int, atmo AtmosphereConstants) {
	D.ZeroTendencies()
	e.gridded(V, D, lf, atmo)
	e.verticalAverages(V, D, lf)
	e.surfacePressureTendency(V, D, lf)
	e.verticalVelocity(D)
	e.verticalAdvection(D)
	e.vorDivTendencies(D, atmo)
	e.temperatureTendency(D, atmo)
	if V.Wet {
		e.humidityTendency(D)
	}
	e.bernoulliPotential(D)
}

// gridded is step 1: restore grid-space U, V, ζ, D, T, (q) from the
// leapfrog slice lf, derive virtual temperature, and hydrostatically
// integrate the geopotential every later step needs.
func (e *TendencyEngine) gridded(V *PrognosticVariables, D *DiagnosticVariables, lf int, atmo AtmosphereConstants) {
	if len(V.Layers) != D.NLev {
		panic(shapef("TendencyEngine.gridded", "len(V.Layers) == D.NLev", "mismatched layer count"))
	}
	ratio := atmo.Rv/atmo.Rd - 1
	for k := range V.Layers {
		lp := &V.Layers[k]
		ld := &D.Layers[k]

		vor := lp.Vor.At(lf)
		div := lp.Div.At(lf)
		temp := lp.Temp.At(lf)

		e.Op.UVFromVorDiv(vor, div, ld.USpec, ld.VSpec, ld.A, ld.B)
		e.Tr.Inverse(ld.USpec, ld.U)
		e.Tr.Inverse(ld.VSpec, ld.V)
		e.Tr.Inverse(vor, ld.VorGrid)
		e.Tr.Inverse(div, ld.DivGrid)
		e.Tr.Inverse(temp, ld.TempGrid)

		if V.Wet {
			humid := lp.Humid.At(lf)
			e.Tr.Inverse(humid, ld.HumidGrid)
			for i, q := range ld.HumidGrid.Data {
				ld.TempVirtGrid.Data[i] = ld.TempGrid.Data[i] * (1 + ratio*q)
			}
		} else {
			copy(ld.TempVirtGrid.Data, ld.TempGrid.Data)
		}
	}
	e.Tr.Inverse(V.Pres.At(lf), D.Surface.PresGrid)
	e.hydrostaticGeopotential(D, atmo.Rd)
}

// hydrostaticGeopotential integrates Φ_k upward from the surface using
// the layer-centered trapezoidal rule in ln σ. This supplements the
// primitive-equation pipeline: every later step assumes Φ_k is
// current, but no step in the RHS pipeline names the integration
// itself, so it runs once per RHS evaluation immediately after gridded
// fills
// TempVirtGrid for every layer.
func (e *TendencyEngine) hydrostaticGeopotential(D *DiagnosticVariables, rd float64) {
	sigma := e.Geo.Sigma
	nlev := D.NLev
	n := e.Geo.Grid.NPointsTotal()
	g := e.Geo.Planet.Gravity
	oro := e.Bnd.OrographyGrid.Data

	for k := nlev - 1; k >= 0; k-- {
		ld := &D.Layers[k]
		dst := ld.BernoulliGrid.Data // staged here; bernoulliPotential (step 9) consumes and transforms it
		if k == nlev-1 {
			logRatio := math.Log(sigma.HalfSigma[nlev] / sigma.FullSigma[k])
			for i := 0; i < n; i++ {
				dst[i] = g*oro[i] + rd*ld.TempVirtGrid.Data[i]*logRatio
			}
			continue
		}
		below := &D.Layers[k+1]
		logRatio := math.Log(sigma.FullSigma[k+1] / sigma.FullSigma[k])
		for i := 0; i < n; i++ {
			dst[i] = below.BernoulliGrid.Data[i] + rd*0.5*(ld.TempVirtGrid.Data[i]+below.TempVirtGrid.Data[i])*logRatio
		}
	}
}

// verticalAverages is step 2.
func (e *TendencyEngine) verticalAverages(V *PrognosticVariables, D *DiagnosticVariables, lf int) {
	sigma := e.Geo.Sigma
	if len(sigma.DSigma) != D.NLev || len(V.Layers) != D.NLev {
		panic(shapef("TendencyEngine.verticalAverages", "len(DSigma) == len(V.Layers) == D.NLev", "mismatched layer count"))
	}
	s := &D.Surface
	s.UMeanGrid.Zero()
	s.VMeanGrid.Zero()
	s.DivMeanGrid.Zero()
	s.DivMean.Zero()
	for k := 0; k < D.NLev; k++ {
		dsig := sigma.DSigma[k]
		ld := &D.Layers[k]
		axpyGrid(s.UMeanGrid, ld.U, dsig)
		axpyGrid(s.VMeanGrid, ld.V, dsig)
		axpyGrid(s.DivMeanGrid, ld.DivGrid, dsig)
		axpySpectral(s.DivMean, V.Layers[k].Div.At(lf), dsig)
	}
}

// surfacePressureTendency is step 3.
func (e *TendencyEngine) surfacePressureTendency(V *PrognosticVariables, D *DiagnosticVariables, lf int) {
	s := &D.Surface
	pres := V.Pres.At(lf)
	e.Op.Gradient(pres, s.DPresDLon, s.DPresDLat, false, false)
	e.Tr.Inverse(s.DPresDLon, s.DPresDLonGrid)
	e.Tr.Inverse(s.DPresDLat, s.DPresDLatGrid)

	e.Geo.Grid.EachRing(func(j, start, end int) {
		invCos := 1 / e.Geo.Grid.Rings[j].CosLat
		for i := start; i < end; i++ {
			v := s.UMeanGrid.Data[i]*s.DPresDLonGrid.Data[i] + s.VMeanGrid.Data[i]*s.DPresDLatGrid.Data[i]
			s.PresTendGrid.Data[i] = -v * invCos
		}
	}, s.UMeanGrid, s.VMeanGrid, s.DPresDLonGrid, s.DPresDLatGrid, s.PresTendGrid)
	e.Tr.Forward(s.PresTendGrid, s.PresTend)
	axpySpectral(s.PresTend, s.DivMean, -1)
	s.PresTend.Set(0, 0, 0)
}

// verticalVelocity is step 4: the uv∇lnp_k term and the σ_tend, σ_m
// half-level flux recursions, top-to-bottom.
func (e *TendencyEngine) verticalVelocity(D *DiagnosticVariables) {
	s := &D.Surface
	n := e.Geo.Grid.NPointsTotal()
	sigma := e.Geo.Sigma

	for k := range D.Layers {
		ld := &D.Layers[k]
		for i := 0; i < n; i++ {
			ld.UVDLnP.Data[i] = (ld.U.Data[i]-s.UMeanGrid.Data[i])*s.DPresDLonGrid.Data[i] +
				(ld.V.Data[i]-s.VMeanGrid.Data[i])*s.DPresDLatGrid.Data[i]
		}
	}

	for i := 0; i < n; i++ {
		var tendAbove, mAbove float64 // top half-level is zero, not stored
		for k := 0; k < D.NLev; k++ {
			ld := &D.Layers[k]
			tend := tendAbove - sigma.DSigma[k]*(ld.UVDLnP.Data[i]+ld.DivGrid.Data[i]-s.DivMeanGrid.Data[i])
			m := mAbove - sigma.DSigma[k]*ld.UVDLnP.Data[i]
			ld.SigmaTend.Data[i] = tend
			ld.SigmaM.Data[i] = m
			tendAbove, mAbove = tend, m
		}
	}
}

// verticalAdvection is step 5. It also seeds UTendGrid, VTendGrid and
// TTendGrid (and QTendGrid if wet) with the vertical-advection
// contribution; steps 6-8 accumulate onto them before transforming.
func (e *TendencyEngine) verticalAdvection(D *DiagnosticVariables) {
	sigma := e.Geo.Sigma
	R := e.Geo.Planet.Radius
	nlev := D.NLev
	n := e.Geo.Grid.NPointsTotal()

	for k := 0; k < nlev; k++ {
		ld := &D.Layers[k]
		factor := R / (2 * sigma.DSigma[k])

		ka := k - 1
		if ka < 0 {
			ka = 0
		}
		kb := k + 1
		if kb > nlev-1 {
			kb = nlev - 1
		}
		ldAbove := &D.Layers[ka]
		ldBelow := &D.Layers[kb]

		for i := 0; i < n; i++ {
			var sAbove, sBelow float64
			if k > 0 {
				sAbove = D.Layers[k-1].SigmaTend.Data[i]
			}
			if k < nlev-1 {
				sBelow = ld.SigmaTend.Data[i]
			}

			ld.UTendGrid.Data[i] = -factor * (sBelow*(ldBelow.U.Data[i]-ld.U.Data[i]) + sAbove*(ld.U.Data[i]-ldAbove.U.Data[i]))
			ld.VTendGrid.Data[i] = -factor * (sBelow*(ldBelow.V.Data[i]-ld.V.Data[i]) + sAbove*(ld.V.Data[i]-ldAbove.V.Data[i]))
			ld.TTendGrid.Data[i] = -factor * (sBelow*(ldBelow.TempGrid.Data[i]-ld.TempGrid.Data[i]) + sAbove*(ld.TempGrid.Data[i]-ldAbove.TempGrid.Data[i]))
			if ld.QTendGrid != nil {
				ld.QTendGrid.Data[i] = -factor * (sBelow*(ldBelow.HumidGrid.Data[i]-ld.HumidGrid.Data[i]) + sAbove*(ld.HumidGrid.Data[i]-ldAbove.HumidGrid.Data[i]))
			}
			ld.LnpVertAdvGrid.Data[i] = sigma.A[k]*sAbove + sigma.B[k]*sBelow
		}
	}
}

// vorDivTendencies is step 6.
func (e *TendencyEngine) vorDivTendencies(D *DiagnosticVariables, atmo AtmosphereConstants) {
	s := &D.Surface
	for k := range D.Layers {
		ld := &D.Layers[k]
		e.Geo.Grid.EachRing(func(j, start, end int) {
			r := e.Geo.Grid.Rings[j]
			cosInvSq := r.CosLatInvSq
			f := r.Coriolis
			for i := start; i < end; i++ {
				absVor := ld.VorGrid.Data[i] + f
				uT := ld.V.Data[i]*absVor - atmo.Rd*ld.TempVirtGrid.Data[i]*s.DPresDLonGrid.Data[i]
				vT := -ld.U.Data[i]*absVor - atmo.Rd*ld.TempVirtGrid.Data[i]*s.DPresDLatGrid.Data[i]
				ld.UTendGrid.Data[i] += uT * cosInvSq
				ld.VTendGrid.Data[i] += vT * cosInvSq
			}
		}, ld.VorGrid, ld.V, ld.TempVirtGrid, s.DPresDLonGrid, s.DPresDLatGrid, ld.UTendGrid, ld.VTendGrid, ld.U)
		e.Tr.Forward(ld.UTendGrid, ld.B) // pu spectral, scratch
		e.Tr.Forward(ld.VTendGrid, ld.A) // pv spectral, scratch
		e.Op.DivergenceCurl(ld.B, ld.A, ld.DivTend, ld.VorTend, true, false)
	}
}

// temperatureTendency is step 7.
func (e *TendencyEngine) temperatureTendency(D *DiagnosticVariables, atmo AtmosphereConstants) {
	s := &D.Surface
	kappa := atmo.Kappa()
	for k := range D.Layers {
		ld := &D.Layers[k]
		for i := range ld.TTendGrid.Data {
			ld.TTendGrid.Data[i] += ld.TempGrid.Data[i]*ld.DivGrid.Data[i] +
				kappa*ld.TempVirtGrid.Data[i]*(ld.UVDLnP.Data[i]-s.DivMeanGrid.Data[i]+ld.LnpVertAdvGrid.Data[i])
		}
		e.Tr.Forward(ld.TTendGrid, ld.TempTend)
		e.fluxDivergence(ld, ld.TempGrid, ld.TempTend)
	}
}

// humidityTendency is step 8, skipped for a dry core.
func (e *TendencyEngine) humidityTendency(D *DiagnosticVariables) {
	for k := range D.Layers {
		ld := &D.Layers[k]
		if ld.HumidGrid == nil {
			continue
		}
		for i := range ld.QTendGrid.Data {
			ld.QTendGrid.Data[i] += ld.HumidGrid.Data[i] * ld.DivGrid.Data[i]
		}
		e.Tr.Forward(ld.QTendGrid, ld.HumidTend)
		e.fluxDivergence(ld, ld.HumidGrid, ld.HumidTend)
	}
}

// bernoulliPotential is step 9. BernoulliGrid already holds the
// hydrostatic geopotential Φ_k staged by gridded!; this step adds the
// kinetic term in spectral space.
func (e *TendencyEngine) bernoulliPotential(D *DiagnosticVariables) {
	for k := range D.Layers {
		ld := &D.Layers[k]
		e.Geo.Grid.EachRing(func(j, start, end int) {
			cosInvSq := e.Geo.Grid.Rings[j].CosLatInvSq
			for i := start; i < end; i++ {
				ld.AGrid.Data[i] = 0.5 * (ld.U.Data[i]*ld.U.Data[i] + ld.V.Data[i]*ld.V.Data[i]) * cosInvSq
			}
		}, ld.U, ld.V, ld.AGrid)
		e.Tr.Forward(ld.AGrid, ld.Bernoulli)
		e.Tr.Forward(ld.BernoulliGrid, ld.Geopot)
		axpySpectral(ld.Bernoulli, ld.Geopot, 1)
		e.Op.Laplacian(ld.Bernoulli, ld.DivTend, true, true)
	}
}

// fluxDivergence accumulates −∇·((u,v)·aGrid) into targetTend.
// aGrid is read-only; ld.A, ld.B, ld.AGrid, ld.BGrid
// and ld.USpec (as throwaway curl scratch) are clobbered.
func (e *TendencyEngine) fluxDivergence(ld *LayerDiagnostic, aGrid *GridField, targetTend *SpectralField) {
	e.Geo.Grid.EachRing(func(j, start, end int) {
		cosInvSq := e.Geo.Grid.Rings[j].CosLatInvSq
		for i := start; i < end; i++ {
			scaled := aGrid.Data[i] * cosInvSq
			ld.BGrid.Data[i] = ld.U.Data[i] * scaled
			ld.AGrid.Data[i] = ld.V.Data[i] * scaled
		}
	}, aGrid, ld.U, ld.V, ld.BGrid, ld.AGrid)
	e.Tr.Forward(ld.BGrid, ld.B)
	e.Tr.Forward(ld.AGrid, ld.A)
	e.Op.DivergenceCurl(ld.B, ld.A, targetTend, ld.USpec, true, true)
}
