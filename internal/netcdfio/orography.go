// Package netcdfio supplies two concrete I/O collaborators that sit
// outside the dynamical core proper: a data-file orography reader and
// a core.OutputWriter backed by NetCDF, both grounded on the
// ctessum/cdf reader/writer idiom the wider pack uses (spatialmodel/
// inmap's aim.go getEmissionsNCF/writeOutput).
package netcdfio

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/gocarina/gocsv"

	"speedycore/core"
)

// ReadOrography opens path and reads variable (typically "orography"
// or "HGT") as a flat, row-major slice of raw heights sized to geo's
// grid point count — the same shape core.NewFileOrography expects for
// its rawHeights argument. The file's own dimensions are not checked
// against geo's ring layout beyond the flattened length: regridding
// a mismatched source grid onto geo's rings is a preprocessing step,
// not this reader's job.
func ReadOrography(path, variable string, geo *core.Geometry) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.ConfigError{Op: "ReadOrography", Msg: err.Error()}
	}
	defer f.Close()

	cf, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("netcdfio: open %s: %w", path, err)
	}

	dims := cf.Header.Lengths(variable)
	n := 1
	for _, d := range dims {
		n *= d
	}
	want := geo.Grid.NPointsTotal()
	if n != want {
		return nil, &core.ShapeError{Op: "ReadOrography", Want: fmt.Sprintf("%d points", want), Got: fmt.Sprintf("%d points in %s", n, variable)}
	}

	r := cf.Reader(variable, nil, nil)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("netcdfio: read %s from %s: %w", variable, path, err)
	}

	out := make([]float64, n)
	switch dat := buf.(type) {
	case []float64:
		copy(out, dat)
	case []float32:
		for i, v := range dat {
			out[i] = float64(v)
		}
	default:
		return nil, &core.ShapeError{Op: "ReadOrography", Want: "float32 or float64 variable", Got: fmt.Sprintf("%T", buf)}
	}
	return out, nil
}

// OrographyRow is one grid point of a tabular orography file, loaded
// via gocsv the same way SigmaLevelRow loads a σ-level partition in
// internal/config: one row per grid point, in ring order.
type OrographyRow struct {
	Height float64 `csv:"height"`
}

// ReadOrographyCSV is the tabular counterpart to ReadOrography, for
// sites and test fixtures that carry orography as a flat height column
// rather than a gridded NetCDF variable. Row order must match geo's
// flattened ring layout; length is checked the same way ReadOrography
// checks its NetCDF variable's flattened dimensions.
func ReadOrographyCSV(path string, geo *core.Geometry) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.ConfigError{Op: "ReadOrographyCSV", Msg: err.Error()}
	}
	defer f.Close()

	var rows []*OrographyRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("netcdfio: read %s: %w", path, err)
	}

	want := geo.Grid.NPointsTotal()
	if len(rows) != want {
		return nil, &core.ShapeError{Op: "ReadOrographyCSV", Want: fmt.Sprintf("%d points", want), Got: fmt.Sprintf("%d points in %s", len(rows), path)}
	}

	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Height
	}
	return out, nil
}
