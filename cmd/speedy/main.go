// Command speedy is the flag-driven CLI entrypoint wiring a model
// descriptor to core.Model and running it forward in time.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"speedycore/core"
	"speedycore/internal/config"
	"speedycore/internal/integrator"
	"speedycore/internal/netcdfio"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "model descriptor JSON file")

	var outputDir string
	flag.StringVar(&outputDir, "o", ".", "output directory")

	var nsteps int
	flag.IntVar(&nsteps, "nsteps", 100, "number of timesteps to run")

	var dt float64
	flag.Float64Var(&dt, "dt", 900, "timestep, seconds")

	var outputEvery int
	flag.IntVar(&outputEvery, "output_every", 10, "write output every N steps")

	var robertAlpha float64
	flag.Float64Var(&robertAlpha, "robert_alpha", 0.05, "Robert-Asselin filter coefficient")

	var diffusionOrder int
	flag.IntVar(&diffusionOrder, "diffusion_order", 4, "hyperdiffusion order n in del^2n")

	var diffusionTimescale float64
	flag.Float64Var(&diffusionTimescale, "diffusion_timescale", 6*3600, "hyperdiffusion e-folding timescale at truncation, seconds")

	var orographyFile string
	flag.StringVar(&orographyFile, "orography_file", "", "NetCDF file holding raw orography heights, required for orography.kind=file")

	var orographyVar string
	flag.StringVar(&orographyVar, "orography_var", "orography", "variable name inside orography_file")

	var logLevel string
	flag.StringVar(&logLevel, "log", "info", "log level")

	flag.Parse()

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(logLevel); err == nil {
		log.SetLevel(lvl)
	}

	if configPath == "" {
		log.Fatal("config: -config is required")
	}

	mc, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load model descriptor")
	}

	geo, err := mc.BuildGeometry()
	if err != nil {
		log.WithError(err).Fatal("failed to build geometry")
	}
	log.WithFields(logrus.Fields{
		"trunc":     geo.Spec.Trunc,
		"nlat_half": geo.Spec.NLatHalf,
		"nlev":      geo.Sigma.NLev,
	}).Info("geometry built")

	tier, err := mc.Tier()
	if err != nil {
		log.WithError(err).Fatal("failed to parse model tier")
	}

	tr := core.NewSpectralTransform(geo)
	op := core.NewOperators(geo.Spec.Trunc, geo.Planet.Radius)

	var rawHeights []float64
	if mc.Orography.Kind == "file" {
		rawHeights, err = netcdfio.ReadOrography(orographyFile, orographyVar, geo)
		if err != nil {
			log.WithError(err).Fatal("failed to read orography file")
		}
	}
	bnd, err := mc.BuildBoundaries(geo, tr, rawHeights)
	if err != nil {
		log.WithError(err).Fatal("failed to build boundaries")
	}

	atmo := mc.BuildAtmosphere()

	relax, err := mc.BuildRelaxation()
	if err != nil {
		log.WithError(err).Fatal("failed to load relaxation fragment")
	}

	nlev := geo.Sigma.NLev
	if tier != core.Primitive {
		nlev = 1
	}
	V := core.NewPrognosticVariables(geo.Spec.Trunc, nlev, mc.Wet && tier == core.Primitive)
	restState(V, atmo)

	m, err := core.NewModel(tier, geo, tr, op, bnd, atmo, V)
	if err != nil {
		log.WithError(err).Fatal("failed to assemble model")
	}
	m.SW = core.ShallowWaterParams{H0: mc.H0}
	m.Relax = relax

	m.Integrator = integrator.New(integrator.Params{
		Dt:                 dt,
		RobertAlpha:        robertAlpha,
		DiffusionOrder:     diffusionOrder,
		DiffusionTimescale: diffusionTimescale,
	}, geo)

	writer, err := netcdfio.NewWriter(outputDir, geo)
	if err != nil {
		log.WithError(err).Fatal("failed to prepare output directory")
	}

	log.WithFields(logrus.Fields{"tier": tier.String(), "nsteps": nsteps, "dt": dt}).Info("starting run")
	for step := 1; step <= nsteps; step++ {
		if err := m.Step(dt); err != nil {
			log.WithField("step", step).WithError(err).Fatal("step failed")
		}
		if step%outputEvery == 0 || step == nsteps {
			if err := writer.Write(step, float64(step)*dt, m.V, m.D); err != nil {
				log.WithField("step", step).WithError(err).Fatal("output write failed")
			}
			log.WithField("step", step).Info("wrote output")
		}
	}
	fmt.Fprintln(os.Stdout, "run complete")
}

// restLevelTempK and restSurfacePressurePa are the reference state
// used to seed a wet run's humidity; they are not dynamically
// consistent with any particular sigma level, only representative
// enough to avoid starting a moist run bone dry.
const (
	restLevelTempK        = 288.0
	restSurfacePressurePa = 1.0e5
	restRelativeHumidity  = 0.5
)

// restState zeroes every prognostic field and leapfrog slice, then, for
// a wet run, seeds each layer's mean (l=0, m=0) humidity to a fraction
// of its saturation value. It is a trivial initial-conditions generator
// standing in for an external collaborator; the analytic solid-body-
// rotation steady state is exercised directly against
// core.TendencyEngine in tendency_barotropic_test.go and
// tendency_shallowwater_test.go rather than wired into this CLI.
func restState(V *core.PrognosticVariables, atmo core.AtmosphereConstants) {
	qRest := complex(restRelativeHumidity*core.SaturationSpecificHumidity(restLevelTempK, restSurfacePressurePa, atmo), 0)
	for _, layer := range V.Layers {
		layer.Vor.At(1).Zero()
		layer.Vor.At(2).Zero()
		layer.Div.At(1).Zero()
		layer.Div.At(2).Zero()
		layer.Temp.At(1).Zero()
		layer.Temp.At(2).Zero()
		if layer.Humid != nil {
			layer.Humid.At(1).Zero()
			layer.Humid.At(2).Zero()
			layer.Humid.At(1).Set(0, 0, qRest)
			layer.Humid.At(2).Set(0, 0, qRest)
		}
	}
	V.Pres.At(1).Zero()
	V.Pres.At(2).Zero()
}
