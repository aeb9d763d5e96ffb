package prediction

import (
	"math"

	"github.com/matchwatch/matchwatch/internal/domain/match"
)

const (
	ConfidenceStrong   = "strong"
	ConfidenceModerate = "moderate"
	ConfidenceClose    = "close"
)

const (
	formWeight        = 2.0
	headToHeadWeight  = 0.8
	smallSampleWeight = 0.4
	shrinkFloor       = 0.35
	dampenFactor      = 0.85
)

// Outcome is the estimator's verdict for one pairing. When LowData is set
// the probability is a tie-break artifact, not a number to present as
// authoritative.
type Outcome struct {
	Picked      match.Team
	Probability float64
	Confidence  string
	LowData     bool
}

// Estimate scores teamA against teamB from recent form and head-to-head
// counts, both taken over the same sample size n. Pure function, no I/O.
//
// The weights are a tuned contract: form difference doubled, decided
// head-to-head worth 0.8 (0.4 under three meetings), the whole signal shrunk
// toward zero when fewer than 2n recent matches back it, then squashed
// through a logistic and dampened so the model never claims certainty.
func Estimate(teamA, teamB match.Team, formA, formB FormStat, h2h HeadToHeadStat, n int) Outcome {
	rawScore := (formA.WinRate - formB.WinRate) * formWeight

	if h2h.Played >= 3 {
		rawScore += (float64(h2h.AWins-h2h.BWins) / float64(h2h.Played)) * headToHeadWeight
	} else if h2h.Played > 0 {
		rawScore += (float64(h2h.AWins-h2h.BWins) / float64(h2h.Played)) * smallSampleWeight
	}

	if n > 0 {
		shrink := clamp(float64(formA.Played+formB.Played)/float64(2*n), shrinkFloor, 1.0)
		rawScore *= shrink
	}

	p := 1.0 / (1.0 + math.Exp(-rawScore))
	p = 0.5 + (p-0.5)*dampenFactor

	outcome := Outcome{
		Picked:      teamA,
		Probability: p,
		Confidence:  confidenceLabel(p),
	}
	if rawScore < 0 {
		outcome.Picked = teamB
		outcome.Probability = 1.0 - p
	}
	if formA.Played == 0 || formB.Played == 0 {
		outcome.LowData = true
	}
	return outcome
}

// confidenceLabel grades the pre-dampening signal so the label stays
// consistent no matter how hard the probability was dampened.
func confidenceLabel(p float64) string {
	diff := 2.0 * math.Abs(p-0.5) / dampenFactor
	switch {
	case diff >= 0.30:
		return ConfidenceStrong
	case diff >= 0.15:
		return ConfidenceModerate
	default:
		return ConfidenceClose
	}
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
