package tetwild

// Step names a stage of the pipeline, reported to a ProgressFunc.
type Step int

const (
	StepPreprocess Step = iota
	StepDelaunay
	StepFaceMatching
	StepBSP
	StepTetra
	StepOptimize
)

func (s Step) String() string {
	switch s {
	case StepPreprocess:
		return "Preprocess"
	case StepDelaunay:
		return "Delaunay"
	case StepFaceMatching:
		return "FaceMatching"
	case StepBSP:
		return "BSP"
	case StepTetra:
		return "Tetra"
	case StepOptimize:
		return "Optimize"
	default:
		return "Unknown"
	}
}

// ProgressFunc receives a stage and a fraction of that stage's work
// completed, in [0,1].
type ProgressFunc func(step Step, fraction float64)

// Config controls the tetrahedralization pipeline. Every field has a
// spec-mandated default; the zero Config is invalid (use DefaultConfig).
type Config struct {
	InitialEdgeLenRel  float64 // target edge length = bbox_diag / this.
	EpsRel             float64 // envelope tolerance = bbox_diag / this.
	SamplingDistRel    float64 // preprocessing envelope's triangle-sampling density = bbox_diag / this; 0 means "auto": derived from eps. The refinement envelope always samples at eps/sqrt(2).
	Stage              int     // retry index; refinement starts at envelope sub-stage Stage-1, so a higher Stage starts from a larger eps. The per-sub-stage eps increment does not depend on it.
	AdaptiveScalar     float64
	FilterEnergyThres  float64
	DeltaEnergyThres   float64
	MaxNumPasses       int
	UseVoxelStuffing   bool
	SmoothOpenBoundary bool
	TargetNumVertices  int    // -1 = unconstrained; otherwise seeds the initial target edge length from a BCC-lattice estimate (+-5% tolerance is best-effort).
	BackgroundMesh     string // path to a sizing field file ("x y z size" per line); caps per-vertex target edge length during refinement.
	Progress           ProgressFunc
}

// DefaultConfig returns spec.md section 6's defaults.
func DefaultConfig() Config {
	return Config{
		InitialEdgeLenRel: 20,
		EpsRel:            1000,
		SamplingDistRel:   0,
		Stage:             1,
		AdaptiveScalar:    0.6,
		FilterEnergyThres: 10,
		DeltaEnergyThres:  0.1,
		MaxNumPasses:      80,
		UseVoxelStuffing:  true,
		TargetNumVertices: -1,
	}
}

// Validate checks that cfg's numeric fields are in sane ranges, returning
// an InputInvalid *Error describing the first problem found.
func (cfg Config) Validate() error {
	switch {
	case cfg.InitialEdgeLenRel <= 0:
		return &Error{Kind: InputInvalid, Msg: "initial_edge_len_rel must be positive"}
	case cfg.EpsRel <= 0:
		return &Error{Kind: InputInvalid, Msg: "eps_rel must be positive"}
	case cfg.Stage < 1:
		return &Error{Kind: InputInvalid, Msg: "stage must be >= 1"}
	case cfg.AdaptiveScalar <= 0 || cfg.AdaptiveScalar >= 1:
		return &Error{Kind: InputInvalid, Msg: "adaptive_scalar must be in (0,1)"}
	case cfg.MaxNumPasses <= 0:
		return &Error{Kind: InputInvalid, Msg: "max_num_passes must be positive"}
	}
	return nil
}

func (cfg Config) progress(step Step, fraction float64) {
	if cfg.Progress != nil {
		cfg.Progress(step, fraction)
	}
}
