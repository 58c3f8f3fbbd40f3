package engine

import "github.com/daryltucker/relevance-tuner/internal/model"

// Aggregate reduces the outcomes of one cell to its accuracy.
// Skipped outcomes count toward neither hits nor the denominator; a cell
// with nothing considered scores 0 instead of failing.
func Aggregate(params model.ParameterSet, outcomes []model.Outcome) model.EvaluationResult {
	res := model.EvaluationResult{Params: params}
	for _, o := range outcomes {
		switch o.Kind {
		case model.Hit:
			res.Hits++
		case model.Miss:
			res.Misses++
		default:
			res.Skipped++
		}
	}

	res.Considered = res.Hits + res.Misses
	if res.Considered > 0 {
		res.Accuracy = 100 * float64(res.Hits) / float64(res.Considered)
	}
	return res
}
