package risk

import (
	"fmt"

	"github.com/felixgeelhaar/testrank/internal/exec"
)

// Detection shifts applied by Refine, keyed on the observed success rate.
const (
	reliableRate   = 0.9
	stableRate     = 0.7
	acceptableRate = 0.5
)

// Refine folds execution outcomes into the assessments. A scenario that
// mostly passes is easier to detect failures for (lower detection), one
// that mostly fails is harder. The input map is left untouched; ids without
// an outcome are copied through unchanged.
func Refine(assessments map[string]Assessment, outcomes map[string]exec.Outcome) map[string]Assessment {
	out := make(map[string]Assessment, len(assessments))
	for id, a := range assessments {
		o, ok := outcomes[id]
		if !ok {
			out[id] = a
			continue
		}

		before := a.Detection
		a.Detection += detectionShift(o.SuccessRate)
		a.recompute()
		a.Refined = true

		note := fmt.Sprintf("detection %g -> %g after %.0f%% step success", before, a.Detection, o.SuccessRate*100)
		if a.Reasoning == "" {
			a.Reasoning = note
		} else {
			a.Reasoning += "; " + note
		}
		out[id] = a
	}
	return out
}

func detectionShift(successRate float64) float64 {
	switch {
	case successRate >= reliableRate:
		return -2
	case successRate >= stableRate:
		return -1
	case successRate >= acceptableRate:
		return 0
	default:
		return 1
	}
}
