package services

import (
	"context"

	"github.com/yigit/schoolconnector/internal/pkg/connector"
)

// cleanupStep is one idempotent connector call tearing down a relationship.
type cleanupStep struct {
	name string
	run  func(ctx context.Context, conn connector.Client, relationshipID string) error
}

var (
	rejectStep = cleanupStep{name: "reject", run: func(ctx context.Context, conn connector.Client, id string) error {
		_, err := conn.RejectRelationship(ctx, id)
		return err
	}}
	terminateStep = cleanupStep{name: "terminate", run: func(ctx context.Context, conn connector.Client, id string) error {
		_, err := conn.TerminateRelationship(ctx, id)
		return err
	}}
	decomposeStep = cleanupStep{name: "decompose", run: func(ctx context.Context, conn connector.Client, id string) error {
		return conn.DecomposeRelationship(ctx, id)
	}}
)

// cleanupPlan selects the steps that bring a relationship in the given status
// to a decomposed state. Decompose is always the last step.
func cleanupPlan(status connector.RelationshipStatus) []cleanupStep {
	switch status {
	case connector.RelationshipPending:
		return []cleanupStep{rejectStep, decomposeStep}
	case connector.RelationshipActive:
		return []cleanupStep{terminateStep, decomposeStep}
	case connector.RelationshipRejected,
		connector.RelationshipRevoked,
		connector.RelationshipTerminated,
		connector.RelationshipDeletionProposed:
		return []cleanupStep{decomposeStep}
	default:
		return nil
	}
}

func stepNames(steps []cleanupStep) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.name
	}
	return names
}
