package integrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speedycore/core"
)

func testGeo(t *testing.T, L, nlatHalf, nlev int) *core.Geometry {
	t.Helper()
	spec := core.SpectralGridSpec{Trunc: L, NLatHalf: nlatHalf, Kind: core.FullGaussianGrid}
	geo, err := core.NewGeometry(spec, core.NewEqualSigmaLevels(nlev), core.EarthLike())
	require.NoError(t, err)
	return geo
}

func Test_New_noDiffusionLeavesDampAtOne(t *testing.T) {
	geo := testGeo(t, 8, 8, 1)
	lf := New(Params{Dt: 900, RobertAlpha: 0.05}, geo)
	for _, d := range lf.damp {
		assert.Equal(t, 1.0, d)
	}
}

func Test_New_diffusionDampsHighDegreeMoreThanLow(t *testing.T) {
	geo := testGeo(t, 20, 16, 1)
	lf := New(Params{Dt: 900, DiffusionOrder: 4, DiffusionTimescale: 6 * 3600}, geo)
	assert.Equal(t, 1.0, lf.damp[0])
	assert.Less(t, lf.damp[20], lf.damp[5])
	assert.GreaterOrEqual(t, lf.damp[20], 0.0)
}

func Test_New_defaultsRobertBetaToAlpha(t *testing.T) {
	geo := testGeo(t, 8, 8, 1)
	lf := New(Params{Dt: 900, RobertAlpha: 0.1}, geo)
	assert.Equal(t, 0.1, lf.Params.RobertBeta)
}

func Test_Step_restStateStaysAtRest(t *testing.T) {
	geo := testGeo(t, 8, 8, 2)
	V := core.NewPrognosticVariables(geo.Spec.Trunc, 2, false)
	D := core.NewDiagnosticVariables(geo, false)
	lf := New(Params{Dt: 900, RobertAlpha: 0.05, DiffusionOrder: 4, DiffusionTimescale: 6 * 3600}, geo)

	next := lf.Step(V, D, 1, 900)
	assert.Equal(t, 2, next)
	for _, layer := range V.Layers {
		assert.Equal(t, complex(0.0, 0.0), layer.Vor.At(1).At(2, 1))
		assert.Equal(t, complex(0.0, 0.0), layer.Vor.At(2).At(2, 1))
	}
}

func Test_Step_advancesWithConstantTendency(t *testing.T) {
	geo := testGeo(t, 8, 8, 1)
	V := core.NewPrognosticVariables(geo.Spec.Trunc, 1, false)
	D := core.NewDiagnosticVariables(geo, false)
	D.Layers[0].VorTend.Set(2, 1, complex(1.0, 0))

	lf := New(Params{Dt: 10, RobertAlpha: 0}, geo)
	next := lf.Step(V, D, 1, 10)

	assert.Equal(t, 2, next)
	// next slot (other = 2) should hold old(lf=2, which is zero) + 2*dt*tend
	assert.Equal(t, complex(20.0, 0.0), V.Layers[0].Vor.At(2).At(2, 1))
}

func Test_Step_truncatesTailRow(t *testing.T) {
	geo := testGeo(t, 8, 8, 1)
	V := core.NewPrognosticVariables(geo.Spec.Trunc, 1, false)
	D := core.NewDiagnosticVariables(geo, false)
	L := geo.Spec.Trunc
	V.Layers[0].Vor.At(1).Set(L, 0, complex(5, 0))

	lf := New(Params{Dt: 10, RobertAlpha: 0.05}, geo)
	lf.Step(V, D, 1, 10)

	assert.Equal(t, complex(0.0, 0.0), V.Layers[0].Vor.At(2).Column(0)[L+1])
}
