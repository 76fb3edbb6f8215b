package ports

import (
	"context"

	"github.com/aretw0/planfsa/pkg/domain"
)

// PlanSource defines how the learner retrieves its corpus.
// This allows the storage layer (directory, HTTP body, memory) to be decoupled.
type PlanSource interface {
	// ReadPlans returns every plan of the corpus in a stable order.
	// Sources may skip unreadable plans, but must return an error if nothing could be read.
	ReadPlans(ctx context.Context) ([]domain.Plan, error)
}

// DomainSignature is the read side of a planning domain used to type state arguments.
type DomainSignature interface {
	// Parameters returns the typed parameters of an action.
	Parameters(action string) ([]domain.Parameter, bool)

	// MoreGeneral returns whichever of two types is an ancestor of the other.
	MoreGeneral(a, b string) (string, bool)
}
