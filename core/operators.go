package core

// Operators implements the spectral differential operators: gradient,
// divergence/curl of a vector, recovery of (U, V) from (ζ, D), the
// Laplacian and its inverse, and spectral truncation. Every operator
// is pure with respect to the transform, and every one except
// UVFromVorDiv accepts `add`/`flipsign` modifiers, so callers compose
// e.g. `∂ζ/∂t += −∇×(…)` as a single call.
type Operators struct {
	Trunc  int
	Eps    *EpsilonTable
	Radius float64 // R; use 1 for non-dimensional runs
}

// NewOperators builds the ε-recurrence table for truncation L.
func NewOperators(L int, radius float64) *Operators {
	return &Operators{Trunc: L, Eps: NewEpsilonTable(L), Radius: radius}
}

func combine(dst, v complex128, add, flipsign bool) complex128 {
	if flipsign {
		v = -v
	}
	if add {
		return dst + v
	}
	return v
}

// DLambda writes (or accumulates into) out the zonal derivative
// ∂F/∂λ, which multiplies F_l^m by i·m.
func (o *Operators) DLambda(F, out *SpectralField, add, flipsign bool) {
	if !sameTrunc(o.Trunc, F, out) {
		panic(shapef("Operators.DLambda", "matching truncation", "mismatched truncation"))
	}
	L := o.Trunc
	for m := 0; m <= L; m++ {
		colF := F.Column(m)
		colOut := out.Column(m)
		im := complex(0, float64(m))
		for l := m; l <= L; l++ {
			colOut[l] = combine(colOut[l], im*colF[l], add, flipsign)
		}
	}
	out.Truncate()
}

// DPhi writes (or accumulates into) out the meridional derivative
// ∂F/∂φ via the banded ε-recurrence, treating the tail row l = L+1 of
// F as zero.
func (o *Operators) DPhi(F, out *SpectralField, add, flipsign bool) {
	if !sameTrunc(o.Trunc, F, out) {
		panic(shapef("Operators.DPhi", "matching truncation", "mismatched truncation"))
	}
	L := o.Trunc
	for m := 0; m <= L; m++ {
		colF := F.Column(m)
		colOut := out.Column(m)
		for l := m; l <= L; l++ {
			var fLower complex128
			if l-1 >= 0 {
				fLower = colF[l-1]
			}
			fUpper := colF[l+1] // tail row, zero when l == L
			eA := complex(o.Eps.At(l, m), 0)
			eB := complex(o.Eps.At(l+1, m), 0)
			v := complex(float64(l-1), 0)*eA*fLower - complex(float64(l+2), 0)*eB*fUpper
			colOut[l] = combine(colOut[l], v, add, flipsign)
		}
	}
	out.Truncate()
}

// Gradient computes (∂F/∂λ, ∂F/∂φ) in one call.
func (o *Operators) Gradient(F, dLambda, dPhi *SpectralField, add, flipsign bool) {
	o.DLambda(F, dLambda, add, flipsign)
	o.DPhi(F, dPhi, add, flipsign)
}

// DivergenceCurl computes D = ∇·(u,v) and ζ = ∇×(u,v) from the
// spectral vector (U, V) = (u·cosφ, v·cosφ), using the same
// ε-recurrence as Gradient with the radius R factored in.
func (o *Operators) DivergenceCurl(U, V, div, curl *SpectralField, add, flipsign bool) {
	if !sameTrunc(o.Trunc, U, V, div, curl) {
		panic(shapef("Operators.DivergenceCurl", "matching truncation", "mismatched truncation"))
	}
	L := o.Trunc
	invR := complex(1/o.Radius, 0)
	for m := 0; m <= L; m++ {
		colU := U.Column(m)
		colV := V.Column(m)
		colD := div.Column(m)
		colC := curl.Column(m)
		for l := m; l <= L; l++ {
			var uLower, vLower complex128
			if l-1 >= 0 {
				uLower = colU[l-1]
				vLower = colV[l-1]
			}
			uUpper, vUpper := colU[l+1], colV[l+1]
			eA := complex(o.Eps.At(l, m), 0)
			eB := complex(o.Eps.At(l+1, m), 0)
			im := complex(0, float64(m))

			dTerm := im*colU[l] + complex(float64(l-1), 0)*eA*vLower - complex(float64(l+2), 0)*eB*vUpper
			cTerm := im*colV[l] - complex(float64(l-1), 0)*eA*uLower + complex(float64(l+2), 0)*eB*uUpper

			colD[l] = combine(colD[l], invR*dTerm, add, flipsign)
			colC[l] = combine(colC[l], invR*cTerm, add, flipsign)
		}
	}
	div.Truncate()
	curl.Truncate()
}

// Laplacian multiplies F_l^m by −l(l+1)/R².
func (o *Operators) Laplacian(F, out *SpectralField, add, flipsign bool) {
	if !sameTrunc(o.Trunc, F, out) {
		panic(shapef("Operators.Laplacian", "matching truncation", "mismatched truncation"))
	}
	L := o.Trunc
	r2 := o.Radius * o.Radius
	for m := 0; m <= L; m++ {
		colF := F.Column(m)
		colOut := out.Column(m)
		for l := m; l <= L; l++ {
			factor := complex(-float64(l*(l+1))/r2, 0)
			colOut[l] = combine(colOut[l], factor*colF[l], add, flipsign)
		}
	}
	out.Truncate()
}

// InverseLaplacian multiplies F_l^m by −R²/(l(l+1)); the (l=0,m=0)
// entry is fixed to zero exactly.
func (o *Operators) InverseLaplacian(F, out *SpectralField, add, flipsign bool) {
	if !sameTrunc(o.Trunc, F, out) {
		panic(shapef("Operators.InverseLaplacian", "matching truncation", "mismatched truncation"))
	}
	L := o.Trunc
	r2 := o.Radius * o.Radius
	for m := 0; m <= L; m++ {
		colF := F.Column(m)
		colOut := out.Column(m)
		for l := m; l <= L; l++ {
			var v complex128
			if l != 0 {
				factor := complex(-r2/float64(l*(l+1)), 0)
				v = factor * colF[l]
			}
			colOut[l] = combine(colOut[l], v, add, flipsign)
		}
	}
	out.Set(0, 0, 0)
	out.Truncate()
}

// UVFromVorDiv recovers (U, V) = (u·cosφ, v·cosφ) from (ζ, D) by
// inverting through the streamfunction Ψ and velocity potential Φ
// (∇²Ψ = ζ, ∇²Φ = D), then combining their gradients:
//
//	U = −cosφ ∂Ψ/∂φ + ∂Φ/∂λ
//	V =  cosφ ∂Φ/∂φ + ∂Ψ/∂λ
//
// psi and phi are caller-owned scratch spectral fields (the layer's
// general-purpose a/b buffers are a natural choice) clobbered by this
// call. The (0,0) mode of Ψ, Φ, U and V is fixed to zero — an
// arbitrary constant.
func (o *Operators) UVFromVorDiv(vor, div, U, V, psi, phi *SpectralField) {
	o.InverseLaplacian(vor, psi, false, false)
	o.InverseLaplacian(div, phi, false, false)
	psi.Set(0, 0, 0)
	phi.Set(0, 0, 0)

	o.DLambda(phi, U, false, false) // U = ∂Φ/∂λ
	o.DPhi(psi, U, true, true)      // U += −∂Ψ/∂φ

	o.DPhi(phi, V, false, false)   // V = ∂Φ/∂φ
	o.DLambda(psi, V, true, false) // V += ∂Ψ/∂λ

	U.Set(0, 0, 0)
	V.Set(0, 0, 0)
	U.Truncate()
	V.Truncate()
}
