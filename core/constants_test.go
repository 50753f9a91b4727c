package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AtmosphereConstants_Kappa(t *testing.T) {
	a := AtmosphereConstants{Rd: 287.0, Cp: 1004.0}
	assert.InDelta(t, 287.0/1004.0, a.Kappa(), 1e-12)
}

func Test_EarthLike_EarthAtmosphere(t *testing.T) {
	p := EarthLike()
	assert.Equal(t, 9.81, p.Gravity)
	a := EarthAtmosphere()
	assert.Equal(t, 287.0, a.Rd)
}

func Test_ModelTier_StringAndFromString_roundTrip(t *testing.T) {
	for _, tier := range []ModelTier{Barotropic, ShallowWater, Primitive} {
		s := tier.String()
		got, err := ModelTierFromString(s)
		assert.NoError(t, err)
		assert.Equal(t, tier, got)
	}
}

func Test_ModelTierFromString_unknown(t *testing.T) {
	_, err := ModelTierFromString("not_a_tier")
	assert.Error(t, err)
	var ce *ConfigError
	assert.ErrorAs(t, err, &ce)
}
