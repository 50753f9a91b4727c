package core

import "math"

// SaturationVaporPressure returns the saturation vapor pressure of
// water at tempK kelvin, in Pa, using the same piecewise Goff-Gratch
// form over and below freezing.
func SaturationVaporPressure(tempK float64) float64 {
	const (
		a1 = -6096.9385
		a2 = 21.2409642
		a3 = -0.02711193
		a4 = 0.00001673952
		a5 = 2.433502
		b1 = -6024.5282
		b2 = 29.32707
		b3 = 0.010613863
		b4 = -0.000013198825
		b5 = -0.49382577
	)
	t := tempK
	if tempK-273.15 >= 0.0 {
		return math.Exp(a1/t + a2 + a3*t + a4*t*t + a5*math.Log(t))
	}
	return math.Exp(b1/t + b2 + b3*t + b4*t*t + b5*math.Log(t))
}

// SaturationSpecificHumidity returns the saturation specific humidity,
// kg/kg, at the given temperature and pressure, using atmo's gas
// constant ratio Rd/Rv in place of the fixed 0.622 the psychrometric
// literature assumes for Earth air.
func SaturationSpecificHumidity(tempK, pressurePa float64, atmo AtmosphereConstants) float64 {
	pv := SaturationVaporPressure(tempK)
	ratio := atmo.Rd / atmo.Rv
	return ratio * pv / (pressurePa - (1-ratio)*pv)
}
