package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIntegrator struct {
	calls int
	lf    int
}

func (r *recordingIntegrator) Step(V *PrognosticVariables, D *DiagnosticVariables, lf int, dt float64) int {
	r.calls++
	r.lf = lf
	return 3 - lf
}

type recordingWriter struct {
	steps []int
}

func (r *recordingWriter) Write(step int, t float64, V *PrognosticVariables, D *DiagnosticVariables) error {
	r.steps = append(r.steps, step)
	return nil
}

func newTestModel(t *testing.T, tier ModelTier, wet bool) *Model {
	t.Helper()
	geo := testGeometry(t, 8, 8, 3)
	tr := NewSpectralTransform(geo)
	op := NewOperators(geo.Spec.Trunc, geo.Planet.Radius)
	bnd := NewZeroOrography(geo)

	nlev := 1
	if tier == Primitive {
		nlev = geo.Sigma.NLev
	}
	V := NewPrognosticVariables(geo.Spec.Trunc, nlev, wet)
	m, err := NewModel(tier, geo, tr, op, bnd, EarthAtmosphere(), V)
	require.NoError(t, err)
	return m
}

func Test_NewModel_rejectsWetForNonPrimitiveTier(t *testing.T) {
	geo := testGeometry(t, 6, 8, 1)
	tr := NewSpectralTransform(geo)
	op := NewOperators(geo.Spec.Trunc, geo.Planet.Radius)
	bnd := NewZeroOrography(geo)
	V := NewPrognosticVariables(geo.Spec.Trunc, 1, true)

	_, err := NewModel(Barotropic, geo, tr, op, bnd, EarthAtmosphere(), V)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func Test_NewModel_rejectsLayerCountMismatch(t *testing.T) {
	geo := testGeometry(t, 6, 8, 1)
	tr := NewSpectralTransform(geo)
	op := NewOperators(geo.Spec.Trunc, geo.Planet.Radius)
	bnd := NewZeroOrography(geo)
	V := NewPrognosticVariables(geo.Spec.Trunc, 2, false)

	_, err := NewModel(Barotropic, geo, tr, op, bnd, EarthAtmosphere(), V)
	require.Error(t, err)
}

func Test_NewModel_primitiveRequiresFullLayerCount(t *testing.T) {
	geo := testGeometry(t, 6, 8, 4)
	tr := NewSpectralTransform(geo)
	op := NewOperators(geo.Spec.Trunc, geo.Planet.Radius)
	bnd := NewZeroOrography(geo)
	V := NewPrognosticVariables(geo.Spec.Trunc, 1, false)

	_, err := NewModel(Primitive, geo, tr, op, bnd, EarthAtmosphere(), V)
	require.Error(t, err)
}

func Test_Model_Tendencies_dispatchesByTier(t *testing.T) {
	for _, tier := range []ModelTier{Barotropic, ShallowWater, Primitive} {
		m := newTestModel(t, tier, false)
		assert.NotPanics(t, m.Tendencies)
	}
}

func Test_Model_Tendencies_panicsOnUnknownTier(t *testing.T) {
	m := newTestModel(t, Barotropic, false)
	m.Tier = ModelTier(99)
	assert.Panics(t, m.Tendencies)
}

func Test_Model_Step_withoutIntegratorOnlyEvaluatesTendencies(t *testing.T) {
	m := newTestModel(t, Barotropic, false)
	lfBefore := m.CurrentLeapfrog()
	err := m.Step(60)
	require.NoError(t, err)
	assert.Equal(t, lfBefore, m.CurrentLeapfrog())
}

func Test_Model_Step_withIntegratorAdvancesLeapfrogAndTime(t *testing.T) {
	m := newTestModel(t, Barotropic, false)
	integ := &recordingIntegrator{}
	m.Integrator = integ
	writer := &recordingWriter{}
	m.Writer = writer

	err := m.Step(60)
	require.NoError(t, err)

	assert.Equal(t, 1, integ.calls)
	assert.Equal(t, 2, m.CurrentLeapfrog())
	assert.Equal(t, 60.0, m.t)
	assert.Equal(t, []int{1}, writer.steps)
}
