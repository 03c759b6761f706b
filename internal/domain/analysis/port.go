package analysis

import "context"

// Client is the inference port. Implementations try the candidate models in
// order and return the raw text body of the first one that succeeds.
type Client interface {
	Complete(ctx context.Context, instruction string, images []string, models []string) (string, error)
}
