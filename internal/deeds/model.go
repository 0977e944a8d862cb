// Package deeds talks to the remote registry lookup API and orchestrates
// batched per-deed fetches.
package deeds

import "encoding/json"

// Result is the outcome of one per-deed fetch.
//
// Invariant: Success implies Data is non-nil and Err is empty; failure
// implies the reverse. A successful fetch with no payload is not possible.
type Result struct {
	DeedNumber string
	Success    bool
	Data       json.RawMessage
	Err        string
}
