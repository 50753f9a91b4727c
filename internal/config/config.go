// Package config loads the model descriptor a run is built from: the
// JSON tree of grid/truncation/tier/atmosphere settings, read with
// encoding/json in the same style as heat_load_calc.go's Config struct,
// plus the orography-smoothing and interface-relaxation sub-configs,
// which are small enough to carry as embedded TOML fragments instead.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/gocarina/gocsv"

	"speedycore/core"
)

// GridConfig mirrors core.SpectralGridSpec in a JSON-friendly shape.
type GridConfig struct {
	Trunc    int    `json:"trunc"`
	NLatHalf int    `json:"nlat_half"`
	Kind     string `json:"kind"` // "full_gaussian" or "octahedral_gaussian"
}

// SigmaConfig lists the per-layer thickness directly; A_k, B_k are
// derived the same way core.NewEqualSigmaLevels derives them unless
// the descriptor overrides them explicitly. CSVPath, if set, names a
// tabular σ-level partition file and takes precedence over DSigma/A/B
// given inline in the JSON descriptor.
type SigmaConfig struct {
	DSigma  []float64 `json:"d_sigma"`
	A       []float64 `json:"a,omitempty"`
	B       []float64 `json:"b,omitempty"`
	CSVPath string    `json:"csv_path,omitempty"`
}

// SigmaLevelRow is one layer of a tabular σ-level partition, loaded via
// gocsv the way weather.go's WeatherDataRow loads expanded-AMeDAS
// fixtures: one struct tag per column, one row per layer, top layer
// first.
type SigmaLevelRow struct {
	DSigma float64 `csv:"d_sigma"`
	A      float64 `csv:"a"`
	B      float64 `csv:"b"`
}

// LoadSigmaLevelsCSV reads a tabular σ-level partition from path, one
// row per layer, and returns the DSigma/A/B columns in row order.
func LoadSigmaLevelsCSV(path string) (dSigma, a, b []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	var rows []*SigmaLevelRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, nil, nil, fmt.Errorf("config: sigma CSV %s: %w", path, err)
	}
	dSigma = make([]float64, len(rows))
	a = make([]float64, len(rows))
	b = make([]float64, len(rows))
	for i, r := range rows {
		dSigma[i] = r.DSigma
		a[i] = r.A
		b[i] = r.B
	}
	return dSigma, a, b, nil
}

// PlanetConfig mirrors core.PlanetConstants.
type PlanetConfig struct {
	Gravity  float64 `json:"gravity"`
	Rotation float64 `json:"rotation"`
	Radius   float64 `json:"radius"`
}

// AtmosphereConfig mirrors core.AtmosphereConstants.
type AtmosphereConfig struct {
	Rd float64 `json:"rd"`
	Rv float64 `json:"rv"`
	Cp float64 `json:"cp"`
}

// OrographyConfig selects and parameterizes the boundary of
// core/boundaries.go.
type OrographyConfig struct {
	Kind          string  `json:"kind"` // "zero", "analytic_ridge", "file"
	FilePath      string  `json:"file_path,omitempty"`
	Scale         float64 `json:"scale,omitempty"`
	SmoothingPath string  `json:"smoothing_path,omitempty"` // TOML fragment, optional
}

// RelaxationConfig selects the TOML fragment backing shallow-water
// interface relaxation; an empty Path disables it entirely.
type RelaxationConfig struct {
	Path string `json:"path,omitempty"`
}

// ModelConfiguration is the full descriptor for one run, unmarshalled
// from JSON the same way heat_load_calc.go's Config struct is.
type ModelConfiguration struct {
	TierName   string           `json:"tier"` // "barotropic", "shallow_water", "primitive"
	Wet        bool             `json:"wet"`
	Grid       GridConfig       `json:"grid"`
	Sigma      SigmaConfig      `json:"sigma"`
	Planet     PlanetConfig     `json:"planet"`
	Atmosphere AtmosphereConfig `json:"atmosphere"`
	Orography  OrographyConfig  `json:"orography"`
	Relaxation RelaxationConfig `json:"relaxation"`
	H0         float64          `json:"h0,omitempty"` // shallow-water reference thickness
}

// smoothingFragment is the TOML shape of an orography smoothing
// sub-config.
type smoothingFragment struct {
	Power    float64 `toml:"power"`
	Strength float64 `toml:"strength"`
	Fraction float64 `toml:"fraction"`
}

// relaxationFragment is the TOML shape of an interface-relaxation
// sub-config.
type relaxationFragment struct {
	Seasonal  bool    `toml:"seasonal"`
	Equinox   float64 `toml:"equinox"`
	TropicLat float64 `toml:"tropic_lat"`
	Amplitude float64 `toml:"amplitude"`
	Timescale float64 `toml:"timescale"`
}

// Load reads path as JSON and unmarshals it into a ModelConfiguration.
func Load(path string) (*ModelConfiguration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}
	var mc ModelConfiguration
	if err := json.Unmarshal(data, &mc); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &mc, nil
}

// gridKind parses the grid kind string, failing closed like
// core.ModelTierFromString does for tiers.
func gridKind(s string) (core.GridKind, error) {
	switch s {
	case "", "full_gaussian":
		return core.FullGaussianGrid, nil
	case "octahedral_gaussian":
		return core.OctahedralGaussianGrid, nil
	default:
		return 0, &core.ConfigError{Op: "gridKind", Msg: "unknown grid kind " + s}
	}
}

// BuildGeometry validates the σ-level partition and assembles a
// core.Geometry from mc, failing with a *core.ConfigError the way
// core.NewGeometry itself does for its own invariants — this just
// catches the sum-to-one check before any allocation happens, so a
// malformed descriptor never gets as far as the grid builder.
func (mc *ModelConfiguration) BuildGeometry() (*core.Geometry, error) {
	if mc.Sigma.CSVPath != "" {
		d, a, b, err := LoadSigmaLevelsCSV(mc.Sigma.CSVPath)
		if err != nil {
			return nil, err
		}
		mc.Sigma.DSigma, mc.Sigma.A, mc.Sigma.B = d, a, b
	}
	if len(mc.Sigma.DSigma) == 0 {
		return nil, &core.ConfigError{Op: "BuildGeometry", Msg: "sigma.d_sigma must not be empty"}
	}
	sum := 0.0
	for _, d := range mc.Sigma.DSigma {
		sum += d
	}
	if math.Abs(sum-1) > 1e-9 {
		return nil, &core.ConfigError{Op: "BuildGeometry", Msg: fmt.Sprintf("sum of sigma.d_sigma must equal 1, got %g", sum)}
	}

	kind, err := gridKind(mc.Grid.Kind)
	if err != nil {
		return nil, err
	}
	spec := core.SpectralGridSpec{Trunc: mc.Grid.Trunc, NLatHalf: mc.Grid.NLatHalf, Kind: kind}

	nlev := len(mc.Sigma.DSigma)
	var sigma core.SigmaLevels
	if len(mc.Sigma.A) == nlev && len(mc.Sigma.B) == nlev {
		sigma = core.SigmaLevels{NLev: nlev, DSigma: mc.Sigma.DSigma, A: mc.Sigma.A, B: mc.Sigma.B}
	} else {
		eq := core.NewEqualSigmaLevels(nlev)
		sigma = core.SigmaLevels{NLev: nlev, DSigma: mc.Sigma.DSigma, A: eq.A, B: eq.B}
	}

	planet := core.PlanetConstants{Gravity: mc.Planet.Gravity, Rotation: mc.Planet.Rotation, Radius: mc.Planet.Radius}
	if planet == (core.PlanetConstants{}) {
		planet = core.EarthLike()
	}

	return core.NewGeometry(spec, sigma, planet)
}

// BuildAtmosphere returns the gas constants mc names, falling back to
// Earth's when the descriptor leaves them zeroed.
func (mc *ModelConfiguration) BuildAtmosphere() core.AtmosphereConstants {
	a := core.AtmosphereConstants{Rd: mc.Atmosphere.Rd, Rv: mc.Atmosphere.Rv, Cp: mc.Atmosphere.Cp}
	if a == (core.AtmosphereConstants{}) {
		return core.EarthAtmosphere()
	}
	return a
}

// BuildBoundaries assembles the Boundaries mc.Orography names. rawHeights
// is required only for OrographyConfig.Kind == "file"; callers read the
// backing data file with internal/netcdfio and pass the interpolated
// heights in here, since file I/O is that package's concern, not this
// one's.
func (mc *ModelConfiguration) BuildBoundaries(geo *core.Geometry, tr *core.SpectralTransform, rawHeights []float64) (*core.Boundaries, error) {
	switch mc.Orography.Kind {
	case "", "zero":
		return core.NewZeroOrography(geo), nil
	case "analytic_ridge":
		return core.NewAnalyticRidgeOrography(geo, tr, core.DefaultAnalyticRidgeParams()), nil
	case "file":
		scale := mc.Orography.Scale
		if scale == 0 {
			scale = 1
		}
		smoothing, err := mc.loadSmoothing()
		if err != nil {
			return nil, err
		}
		return core.NewFileOrography(geo, tr, rawHeights, scale, smoothing)
	default:
		return nil, &core.ConfigError{Op: "BuildBoundaries", Msg: "unknown orography kind " + mc.Orography.Kind}
	}
}

func (mc *ModelConfiguration) loadSmoothing() (*core.SmoothingParams, error) {
	if mc.Orography.SmoothingPath == "" {
		return nil, nil
	}
	var frag smoothingFragment
	if _, err := toml.DecodeFile(mc.Orography.SmoothingPath, &frag); err != nil {
		return nil, fmt.Errorf("config: smoothing fragment %s: %w", mc.Orography.SmoothingPath, err)
	}
	return &core.SmoothingParams{Power: frag.Power, Strength: frag.Strength, Fraction: frag.Fraction}, nil
}

// BuildRelaxation loads the interface-relaxation TOML fragment, if
// any. A nil return disables relaxation, which is the shape
// core.Relaxation's own zero-Timescale no-op already expects.
func (mc *ModelConfiguration) BuildRelaxation() (*core.Relaxation, error) {
	if mc.Relaxation.Path == "" {
		return nil, nil
	}
	var frag relaxationFragment
	if _, err := toml.DecodeFile(mc.Relaxation.Path, &frag); err != nil {
		return nil, fmt.Errorf("config: relaxation fragment %s: %w", mc.Relaxation.Path, err)
	}
	return core.NewRelaxation(core.RelaxationParams{
		Seasonal:  frag.Seasonal,
		Equinox:   frag.Equinox,
		TropicLat: frag.TropicLat,
		Amplitude: frag.Amplitude,
		Timescale: frag.Timescale,
	}), nil
}

// Tier parses mc.TierName the way core.ModelTierFromString does.
func (mc *ModelConfiguration) Tier() (core.ModelTier, error) {
	return core.ModelTierFromString(mc.TierName)
}

// decodeTOMLBytes is a small seam so tests can exercise TOML decoding
// against an in-memory fragment instead of a fixture file.
func decodeTOMLBytes(data []byte, v interface{}) error {
	_, err := toml.DecodeReader(bytes.NewReader(data), v)
	return err
}
