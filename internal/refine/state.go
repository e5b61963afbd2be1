package refine

// RefineState carries the per-run values the original fTetWild kept in a
// process-wide State singleton: eps, sampling distance, initial edge
// length, which envelope sub-stage is active, the input bbox diagonal,
// and whether the input surface is closed. Threading it explicitly
// through every stage call keeps the refinement engine safe to run more
// than once concurrently and makes every operation's envelope tolerance
// an explicit argument instead of hidden global state.
type RefineState struct {
	Eps            float64
	SamplingDist   float64
	InitialEdgeLen float64
	SubStage       int
	BBoxDiag       float64
	IsMeshClosed   bool
}

// EpsForSubStage computes the envelope tolerance for the state's current
// sub-stage: it starts at epsInput/nSubStages and ramps up by
// epsInput/nSubStages per sub-stage, reaching exactly epsInput on the
// final sub-stage (spec.md 4.8, "envelope ramping").
func (s RefineState) EpsForSubStage(epsInput float64, nSubStages int) float64 {
	if nSubStages <= 0 {
		return epsInput
	}
	delta := epsInput / float64(nSubStages)
	eps := delta * float64(s.SubStage+1)
	if eps > epsInput {
		eps = epsInput
	}
	return eps
}
