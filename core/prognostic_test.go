package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LeapfrogField_AtPanicsOutOfRange(t *testing.T) {
	f := NewLeapfrogField(4)
	assert.Panics(t, func() { f.At(0) })
	assert.Panics(t, func() { f.At(3) })
	assert.NotPanics(t, func() { f.At(1); f.At(2) })
}

func Test_NewPrognosticVariables_dryCore(t *testing.T) {
	V := NewPrognosticVariables(10, 5, false)
	require.Len(t, V.Layers, 5)
	for _, layer := range V.Layers {
		assert.Nil(t, layer.Humid)
		assert.NotNil(t, layer.Vor)
		assert.NotNil(t, layer.Div)
		assert.NotNil(t, layer.Temp)
	}
	assert.NotNil(t, V.Pres)
	assert.False(t, V.Wet)
}

func Test_NewPrognosticVariables_wetCore(t *testing.T) {
	V := NewPrognosticVariables(10, 3, true)
	for _, layer := range V.Layers {
		assert.NotNil(t, layer.Humid)
	}
	assert.True(t, V.Wet)
}

func Test_NewPrognosticVariables_allocatesZeroedFields(t *testing.T) {
	V := NewPrognosticVariables(6, 1, false)
	assert.Equal(t, complex(0.0, 0.0), V.Layers[0].Vor.At(1).At(3, 2))
}
