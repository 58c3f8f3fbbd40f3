package engine

import (
	"testing"

	"github.com/daryltucker/relevance-tuner/internal/model"
)

func TestAggregate(t *testing.T) {
	hit := model.Outcome{Kind: model.Hit}
	miss := model.Outcome{Kind: model.Miss}
	skip := model.Outcome{Kind: model.Skipped, Reason: model.SkipEmptyResultSet}

	tests := []struct {
		name           string
		outcomes       []model.Outcome
		wantAccuracy   float64
		wantConsidered int
	}{
		{"seven of ten", append(repeat(hit, 7), repeat(miss, 3)...), 70.0, 10},
		{"skips excluded", append(repeat(hit, 2), skip), 100.0, 2},
		{"all skipped", repeat(skip, 4), 0.0, 0},
		{"nothing at all", nil, 0.0, 0},
		{"all misses", repeat(miss, 3), 0.0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Aggregate(testParams, tt.outcomes)
			if res.Accuracy != tt.wantAccuracy {
				t.Errorf("Accuracy = %v, want %v", res.Accuracy, tt.wantAccuracy)
			}
			if res.Considered != tt.wantConsidered {
				t.Errorf("Considered = %d, want %d", res.Considered, tt.wantConsidered)
			}
			if res.Hits+res.Misses+res.Skipped != len(tt.outcomes) {
				t.Errorf("counts %d+%d+%d do not add up to %d", res.Hits, res.Misses, res.Skipped, len(tt.outcomes))
			}
		})
	}
}

func repeat(o model.Outcome, n int) []model.Outcome {
	out := make([]model.Outcome, n)
	for i := range out {
		out[i] = o
	}
	return out
}
