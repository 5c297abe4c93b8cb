package pipeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultRangeStep is the step used for start-end ranges when none is given.
const DefaultRangeStep = 10

// TargetSpec collects the three ways a run can name its target tempos. Nil
// fields are absent.
type TargetSpec struct {
	Single *float64
	List   *string
	Range  *string
	Step   int
}

// Parse assembles the target list. See ParseTargets.
func (s TargetSpec) Parse() ([]float64, error) {
	return ParseTargets(s.Single, s.List, s.Range, s.Step)
}

// ParseTargets combines a single value, a comma list and an inclusive
// "start-end" integer range, in that order, and drops repeats while keeping
// the first occurrence.
func ParseTargets(single *float64, list, rng *string, step int) ([]float64, error) {
	var result []float64

	if single != nil {
		result = append(result, *single)
	}

	if list != nil {
		for _, part := range strings.Split(*list, ",") {
			bpm, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, optionError(fmt.Sprintf("Invalid target BPM %q in list %q.", strings.TrimSpace(part), *list))
			}
			result = append(result, bpm)
		}
	}

	if rng != nil {
		values, err := expandRange(*rng, step)
		if err != nil {
			return nil, err
		}
		result = append(result, values...)
	}

	if len(result) == 0 {
		return nil, optionError("No target BPM specified. Use --target, --targets, or --range.")
	}

	seen := make(map[float64]struct{}, len(result))
	unique := make([]float64, 0, len(result))
	for _, bpm := range result {
		if !(bpm > 0) || math.IsInf(bpm, 0) {
			return nil, optionError(fmt.Sprintf("Target BPM must be positive (got %v).", bpm))
		}
		if _, ok := seen[bpm]; ok {
			continue
		}
		seen[bpm] = struct{}{}
		unique = append(unique, bpm)
	}
	return unique, nil
}

// MaxRangeTargets bounds how many tempos a single range may expand to.
const MaxRangeTargets = 1000

func expandRange(spec string, step int) ([]float64, error) {
	invalid := optionError(fmt.Sprintf("Invalid range format: %s. Use 'start-end'.", spec))
	parts := strings.Split(spec, "-")
	if len(parts) != 2 {
		return nil, invalid
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, invalid
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, invalid
	}
	if step <= 0 {
		return nil, optionError(fmt.Sprintf("Range step must be positive (got %d).", step))
	}
	if end < start {
		return nil, nil
	}
	count := (end-start)/step + 1
	if count > MaxRangeTargets {
		return nil, optionError(fmt.Sprintf("Range %s with step %d expands to %d targets (limit %d).", spec, step, count, MaxRangeTargets))
	}
	values := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		values = append(values, float64(start+i*step))
	}
	return values, nil
}
