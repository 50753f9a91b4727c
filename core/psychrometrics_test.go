package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SaturationVaporPressure_increasesWithTemperature(t *testing.T) {
	lo := SaturationVaporPressure(263.15)
	hi := SaturationVaporPressure(303.15)
	assert.Less(t, lo, hi)
}

func Test_SaturationVaporPressure_matchesKnownValueNear0C(t *testing.T) {
	p := SaturationVaporPressure(273.15)
	assert.InDelta(t, 611.0, p, 20.0)
}

func Test_SaturationSpecificHumidity_increasesWithTemperature(t *testing.T) {
	atmo := EarthAtmosphere()
	lo := SaturationSpecificHumidity(263.15, 1e5, atmo)
	hi := SaturationSpecificHumidity(303.15, 1e5, atmo)
	assert.Less(t, lo, hi)
	assert.Greater(t, lo, 0.0)
}
