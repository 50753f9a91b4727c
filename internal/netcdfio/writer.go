package netcdfio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"

	"speedycore/core"
)

// Writer is a reference core.OutputWriter: one NetCDF file per call to
// Write, named by step, the same one-snapshot-per-file shape as
// spatialmodel/inmap's writeOutput (aim.go). A streaming
// single-file-with-unlimited-time-dimension writer is possible with
// ctessum/cdf, but this keeps to the simpler idiom inmap itself shows.
type Writer struct {
	Dir    string
	Geo    *core.Geometry
	Prefix string // filename prefix; defaults to "speedy" if empty
}

// NewWriter returns a Writer that creates dir if it does not already
// exist.
func NewWriter(dir string, geo *core.Geometry) (*Writer, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.Mkdir(dir, 0755); err != nil {
			return nil, fmt.Errorf("netcdfio: create output dir %s: %w", dir, err)
		}
	}
	return &Writer{Dir: dir, Geo: geo, Prefix: "speedy"}, nil
}

// Write implements core.OutputWriter. It packs every layer's gridded
// vorticity, divergence, temperature, (humidity, if wet) and the
// surface field into sparse.DenseArray payloads shaped (nlev, npoint)
// and (npoint) respectively, then writes one self-describing NetCDF
// file.
func (w *Writer) Write(step int, t float64, V *core.PrognosticVariables, D *core.DiagnosticVariables) error {
	npoint := w.Geo.Grid.NPointsTotal()
	nlev := D.NLev

	vor := sparse.ZerosDense(nlev, npoint)
	div := sparse.ZerosDense(nlev, npoint)
	temp := sparse.ZerosDense(nlev, npoint)
	var humid *sparse.DenseArray
	if D.Wet {
		humid = sparse.ZerosDense(nlev, npoint)
	}
	for k := 0; k < nlev; k++ {
		ld := &D.Layers[k]
		for i := 0; i < npoint; i++ {
			vor.Set(ld.VorGrid.Data[i], k, i)
			div.Set(ld.DivGrid.Data[i], k, i)
			temp.Set(ld.TempGrid.Data[i], k, i)
			if humid != nil {
				humid.Set(ld.HumidGrid.Data[i], k, i)
			}
		}
	}
	pres := sparse.ZerosDense(npoint)
	for i := 0; i < npoint; i++ {
		pres.Set(D.Surface.PresGrid.Data[i], i)
	}

	h := cdf.NewHeader([]string{"lev", "point"}, []int{nlev, npoint})
	h.AddVariable("vorticity", []string{"lev", "point"}, []float32{0})
	h.AddVariable("divergence", []string{"lev", "point"}, []float32{0})
	h.AddVariable("temperature", []string{"lev", "point"}, []float32{0})
	if humid != nil {
		h.AddVariable("humidity", []string{"lev", "point"}, []float32{0})
	}
	h.AddVariable("surface_pressure", []string{"point"}, []float32{0})
	h.AddAttribute("", "step", []int32{int32(step)})
	h.AddAttribute("", "time_seconds", []float64{t})
	h.Define()

	path := filepath.Join(w.Dir, fmt.Sprintf("%s_%06d.nc", w.Prefix, step))
	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("netcdfio: create %s: %w", path, err)
	}
	defer ff.Close()

	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("netcdfio: write header to %s: %w", path, err)
	}

	for _, v := range []struct {
		name string
		data *sparse.DenseArray
	}{
		{"vorticity", vor}, {"divergence", div}, {"temperature", temp}, {"surface_pressure", pres},
	} {
		if err := writeVar(f, v.name, v.data); err != nil {
			return fmt.Errorf("netcdfio: write %s to %s: %w", v.name, path, err)
		}
	}
	if humid != nil {
		if err := writeVar(f, "humidity", humid); err != nil {
			return fmt.Errorf("netcdfio: write humidity to %s: %w", path, err)
		}
	}
	return nil
}

func writeVar(f *cdf.File, name string, data *sparse.DenseArray) error {
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	wr := f.Writer(name, start, end)
	_, err := wr.Write(data32)
	return err
}
