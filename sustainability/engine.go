// Package sustainability maintains the per-product vote tallies, the
// per-user vote records, and the derived sustainability level, keeping
// the two document families consistent through the paired update in
// CastVote. There is no cross-document transaction: the user record is
// persisted first, then the product tally via atomic counter
// increments. A crash between the two steps leaves the tally stale
// until the next vote on the same pair; the second-step failure is
// surfaced as db.InconsistentUpdateError rather than hidden.
package sustainability

import (
	"context"

	"github.com/sdg12/foodfacts-api/db"
	"github.com/sdg12/foodfacts-api/types"
)

// Engine performs vote aggregation over the injected providers
type Engine struct {
	users    db.UserProvider
	products db.ProductProvider
}

// NewEngine creates a new vote aggregation engine
func NewEngine(users db.UserProvider, products db.ProductProvider) *Engine {
	return &Engine{
		users:    users,
		products: products,
	}
}

// VoteResult carries the state after a (possibly no-op) vote
type VoteResult struct {
	// Sustainability is the product tally including the derived level
	Sustainability types.Sustainability
	// Votes is the user's full vote record
	Votes types.VoteRecord
	// Conf is the user's stored preferences, echoed for the response
	Conf map[string]interface{}
}

// CastVote records the user's outcome for one (product, attribute) pair
// and folds the change into the product tally.
//
// Validation happens before any state is touched: an outcome outside
// {true, false, null} or an unknown attribute fails with
// db.InvalidArgumentError, an unknown user or product with
// db.NotFoundError. Re-casting the identical outcome is a no-op.
func (e *Engine) CastVote(ctx context.Context, username string, code string,
	attribute string, outcome Outcome) (*VoteResult, error) {

	if outcome == NoVote {
		return nil, db.NewInvalidArgumentError("vote value", outcome.String())
	}

	name, ok := NormalizeAttribute(attribute)
	if !ok {
		return nil, db.NewInvalidArgumentError("sustainability attribute", attribute)
	}

	user, err := e.users.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	product, err := e.products.GetProductByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	tally := product.Sustainability().Clone()
	previous := FromRecord(user.Outcome(code, name))

	if previous == outcome {
		// Idempotent: the tally and the record already agree
		return &VoteResult{
			Sustainability: tally,
			Votes:          user.Vot,
			Conf:           user.Conf,
		}, nil
	}

	increments := map[string]int{}
	if previous != NoVote {
		increments[CounterKey(name, previous)] = -1
	}
	increments[CounterKey(name, outcome)] = increments[CounterKey(name, outcome)] + 1

	for key, delta := range increments {
		tally[key] += float64(delta)
	}
	tally[types.LevelKey] = Score(tally)

	// User record first, then the product tally. The order matches the
	// original system; see the package comment for the consistency gap.
	err = e.users.SetUserVote(ctx, username, code, name, outcome.Record())
	if err != nil {
		return nil, err
	}

	err = e.products.ApplyVote(ctx, code, increments, tally[types.LevelKey])
	if err != nil {
		return nil, db.NewInconsistentUpdateError(code, err)
	}

	if user.Vot == nil {
		user.Vot = types.VoteRecord{}
	}
	if user.Vot[code] == nil {
		user.Vot[code] = map[string]*bool{}
	}
	user.Vot[code][name] = outcome.Record()

	return &VoteResult{
		Sustainability: tally,
		Votes:          user.Vot,
		Conf:           user.Conf,
	}, nil
}
