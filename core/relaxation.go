package core

import "math"

// relaxationDeclinationScale is the empirical conversion from a
// tropic-of-cancer latitude to the Legendre-mode amplitudes used
// below.
const relaxationDeclinationScale = 45.0 / 23.5

// RelaxationParams configures shallow-water interface relaxation
// toward a prescribed seasonal target.
type RelaxationParams struct {
	Seasonal  bool
	Equinox   float64 // t_eq, days
	TropicLat float64 // φ_T, radians
	Amplitude float64 // A
	Timescale float64 // τ, seconds; zero disables relaxation
}

// Relaxation nudges the (l=1,m=0) and (l=2,m=0) modes of pres_tend
// toward a seasonally varying interface-height target.
type Relaxation struct {
	Params RelaxationParams
}

// NewRelaxation builds a Relaxation from p. A zero Timescale makes
// Apply a no-op, which is the natural way to disable relaxation
// without special-casing callers.
func NewRelaxation(p RelaxationParams) *Relaxation {
	return &Relaxation{Params: p}
}

// Apply nudges presTend at the two target modes given the current
// spectral interface height eta and model time t, in seconds since
// the run's start.
func (r *Relaxation) Apply(presTend, eta *SpectralField, t float64) {
	p := r.Params
	if p.Timescale == 0 {
		return
	}
	var theta float64
	if p.Seasonal {
		days := t / 86400
		theta = relaxationDeclinationScale * p.TropicLat * math.Sin(2*math.Pi*(days-p.Equinox)/365.25)
	}
	eta2Target := p.Amplitude * 2 * math.Sin(theta)
	eta3Target := p.Amplitude * (0.2 - 1.5*math.Cos(theta))

	invTau := complex(1/p.Timescale, 0)
	presTend.Add(1, 0, invTau*(complex(eta2Target, 0)-eta.At(1, 0)))
	presTend.Add(2, 0, invTau*(complex(eta3Target, 0)-eta.At(2, 0)))
}
