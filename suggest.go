package adstrat

import (
	"context"
	"fmt"

	"github.com/pbanos/adstrat/feature"
)

// Predictor is the interface wrapping the Predict method, satisfied by
// *Forest and *tree.Tree.
type Predictor interface {
	Predict(ctx context.Context, r feature.Record) (feature.Label, error)
}

/*
Suggest takes a context, a record, a list of candidate ad placements and
a predictor and returns the first placement in the list, other than the
record's own, for which the predictor predicts a click on a copy of the
record shown at that placement. The boolean result is false, and the
placement empty, when no candidate is predicted to be clicked. The record
itself is never modified.
*/
func Suggest(ctx context.Context, r feature.Record, placements []string, p Predictor) (string, bool, error) {
	for _, placement := range placements {
		if placement == r.AdPosition {
			continue
		}
		l, err := p.Predict(ctx, r.With(feature.AdPosition, placement))
		if err != nil {
			return "", false, fmt.Errorf("predicting a click at %s: %w", placement, err)
		}
		if l == feature.Click {
			return placement, true, nil
		}
	}
	return "", false, nil
}
