package core

import "fmt"

// InitialConditions returns a fully populated prognostic-variable
// container for a new run. Implementations are supplied by the
// caller; this package only defines the boundary.
type InitialConditions interface {
	Generate(geo *Geometry, wet bool) (*PrognosticVariables, error)
}

// TimeIntegrator consumes the tendencies this package produces and
// commits the next leapfrog slice. It is expected to apply
// hyperdiffusion and the semi-implicit gravity-wave correction before
// doing so; neither lives in this package.
type TimeIntegrator interface {
	Step(V *PrognosticVariables, D *DiagnosticVariables, lf int, dt float64) (nextLf int)
}

// OutputWriter receives snapshots of prognostic and diagnostic arrays
// at scheduled steps.
type OutputWriter interface {
	Write(step int, t float64, V *PrognosticVariables, D *DiagnosticVariables) error
}

// Model composes the tagged-variant RHS pipeline: the tier is fixed
// at construction so Tendencies never virtual-dispatches per field,
// only once per call via a switch on a tier value set once.
type Model struct {
	Tier   ModelTier
	Geo    *Geometry
	Tr     *SpectralTransform
	Op     *Operators
	Bnd    *Boundaries
	Engine *TendencyEngine
	Atmo   AtmosphereConstants

	SW    ShallowWaterParams
	Relax *Relaxation // nil disables interface relaxation

	Integrator TimeIntegrator // nil: Step evaluates tendencies without committing
	Writer     OutputWriter   // nil: Step does not emit output

	V *PrognosticVariables
	D *DiagnosticVariables

	lf   int
	t    float64
	step int
}

// NewModel wires geometry, transform, operators and boundary into a
// runnable model of the given tier. V must already be populated by an
// InitialConditions collaborator and sized for the tier: one layer for
// Barotropic and ShallowWater, geo.Sigma.NLev for Primitive.
func NewModel(tier ModelTier, geo *Geometry, tr *SpectralTransform, op *Operators, bnd *Boundaries, atmo AtmosphereConstants, V *PrognosticVariables) (*Model, error) {
	if V.Wet && tier != Primitive {
		return nil, &ConfigError{Op: "NewModel", Msg: "humidity is only valid for the Primitive tier"}
	}
	wantLayers := 1
	if tier == Primitive {
		wantLayers = geo.Sigma.NLev
	}
	if len(V.Layers) != wantLayers {
		return nil, &ConfigError{Op: "NewModel", Msg: fmt.Sprintf("%s tier requires %d layer(s), got %d", tier, wantLayers, len(V.Layers))}
	}
	return &Model{
		Tier:   tier,
		Geo:    geo,
		Tr:     tr,
		Op:     op,
		Bnd:    bnd,
		Engine: NewTendencyEngine(geo, tr, op, bnd),
		Atmo:   atmo,
		V:      V,
		D:      NewDiagnosticVariables(geo, V.Wet),
		lf:     1,
	}, nil
}

// CurrentLeapfrog returns the leapfrog slice index Tendencies will
// next read.
func (m *Model) CurrentLeapfrog() int { return m.lf }

// Tendencies evaluates the RHS once for the model's current leapfrog
// slice, dispatching by Tier.
func (m *Model) Tendencies() {
	switch m.Tier {
	case Barotropic:
		m.Engine.RunBarotropic(m.V, m.D, m.lf)
	case ShallowWater:
		m.Engine.RunShallowWater(m.V, m.D, m.lf, m.SW, m.Relax, m.t)
	case Primitive:
		m.Engine.RunPrimitive(m.V, m.D, m.lf, m.Atmo)
	default:
		panic(shapef("Model.Tendencies", "a valid ModelTier", m.Tier.String()))
	}
}

// Step evaluates one RHS and, if an Integrator is attached, commits
// the resulting leapfrog slice and advances model time by dt. It is
// the reference driver — the core itself never calls Step; an
// assembled run does, once per timestep.
func (m *Model) Step(dt float64) error {
	m.Tendencies()
	if m.Integrator != nil {
		m.lf = m.Integrator.Step(m.V, m.D, m.lf, dt)
	}
	m.t += dt
	m.step++
	if m.Writer != nil {
		return m.Writer.Write(m.step, m.t, m.V, m.D)
	}
	return nil
}
