package deeds

import (
	"context"

	"github.com/msalhab/deedbridge/internal/logging"
	"github.com/msalhab/deedbridge/internal/search"
)

// Orchestrator fans a validated request out into one remote call per deed
// number. Items are independent failure domains: a failed item records its
// error and the batch continues. No retries, no batch-level deadline — each
// call carries the transport timeout only.
type Orchestrator struct {
	client Client
	logger logging.Logger
}

func NewOrchestrator(client Client, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		client: client,
		logger: logger.With("module", "fetch_orchestrator"),
	}
}

// Fetch runs the batch and returns one Result per deed number, in request
// order. The returned slice always has len(req.DeedNumbers) elements.
func (o *Orchestrator) Fetch(ctx context.Context, req *search.Request, token string) []Result {
	results := make([]Result, 0, len(req.DeedNumbers))

	for _, deedNumber := range req.DeedNumbers {
		data, err := o.client.FetchDeed(ctx, req, deedNumber, token)
		if err != nil {
			o.logger.Warn(ctx, "deed fetch failed",
				"requestId", req.RequestID, "deedNumber", deedNumber, "error", err.Error())
			results = append(results, Result{DeedNumber: deedNumber, Err: err.Error()})
			continue
		}
		results = append(results, Result{DeedNumber: deedNumber, Success: true, Data: data})
	}

	return results
}

// CountSuccessful returns how many results in the batch succeeded.
func CountSuccessful(results []Result) int {
	n := 0
	for i := range results {
		if results[i].Success {
			n++
		}
	}
	return n
}
