package netcdfio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
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

func Test_NewWriter_createsMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	geo := testGeo(t, 6, 8, 1)
	_, err := NewWriter(dir, geo)
	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func Test_Write_producesReadableNetCDF(t *testing.T) {
	dir := t.TempDir()
	geo := testGeo(t, 6, 8, 2)
	w, err := NewWriter(dir, geo)
	require.NoError(t, err)

	D := core.NewDiagnosticVariables(geo, false)
	for k := range D.Layers {
		for i := range D.Layers[k].VorGrid.Data {
			D.Layers[k].VorGrid.Data[i] = float64(k) + float64(i)*0.01
		}
	}
	for i := range D.Surface.PresGrid.Data {
		D.Surface.PresGrid.Data[i] = 100000.0 + float64(i)
	}
	V := core.NewPrognosticVariables(geo.Spec.Trunc, 2, false)

	require.NoError(t, w.Write(1, 900, V, D))

	path := filepath.Join(dir, "speedy_000001.nc")
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cf, err := cdf.Open(f)
	require.NoError(t, err)

	dims := cf.Header.Lengths("vorticity")
	assert.Equal(t, []int{2, geo.Grid.NPointsTotal()}, dims)

	r := cf.Reader("vorticity", nil, nil)
	n := dims[0] * dims[1]
	buf := r.Zero(n)
	_, err = r.Read(buf)
	require.NoError(t, err)
	data, ok := buf.([]float32)
	require.True(t, ok)
	assert.InDelta(t, 0.0, data[0], 1e-5)
	assert.InDelta(t, 1.0, data[geo.Grid.NPointsTotal()], 1e-5)
}

func Test_Write_humidityOmittedForDryCore(t *testing.T) {
	dir := t.TempDir()
	geo := testGeo(t, 6, 8, 1)
	w, err := NewWriter(dir, geo)
	require.NoError(t, err)
	D := core.NewDiagnosticVariables(geo, false)
	V := core.NewPrognosticVariables(geo.Spec.Trunc, 1, false)
	require.NoError(t, w.Write(1, 0, V, D))

	f, err := os.Open(filepath.Join(dir, "speedy_000001.nc"))
	require.NoError(t, err)
	defer f.Close()
	cf, err := cdf.Open(f)
	require.NoError(t, err)
	assert.Nil(t, cf.Header.Lengths("humidity"))
}
