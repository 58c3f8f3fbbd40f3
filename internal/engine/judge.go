package engine

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/daryltucker/relevance-tuner/internal/model"
)

// Judge classifies one query against its ground truth. Only the top-ranked
// record is consulted. An id match is authoritative; a normalized title
// match is accepted as a fallback for indexes whose ids drifted from the
// dataset's.
func Judge(truth model.LabeledItem, records []model.ResultRecord, err error) model.Outcome {
	if err != nil {
		if errors.Is(err, model.ErrTransport) {
			return model.Outcome{Kind: model.Skipped, Reason: model.SkipTransportFailure}
		}
		return model.Outcome{Kind: model.Skipped, Reason: model.SkipNonSuccessStatus}
	}
	if len(records) == 0 {
		return model.Outcome{Kind: model.Skipped, Reason: model.SkipEmptyResultSet}
	}

	top := records[0]
	if top.ID == truth.ID || normalize(top.Title) == normalize(truth.Title) {
		return model.Outcome{Kind: model.Hit, ObservedID: top.ID, ObservedTitle: top.Title}
	}
	return model.Outcome{Kind: model.Miss, ObservedID: top.ID, ObservedTitle: top.Title}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
