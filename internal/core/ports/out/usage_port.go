package out

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
)

// UsageStorePort persists instance counters. Backed by the relational
// store in production and by memory in tests.
type UsageStorePort interface {
	GetInstance(ctx context.Context, instanceID uuid.UUID) (*domain.TenantIntegrationInstance, error)
	SaveInstance(ctx context.Context, instance *domain.TenantIntegrationInstance) error
}

// UsagePort records per-instance request and failure counters.
// RecordAttempt never fails upward: a tracker problem is logged and
// swallowed so it cannot mask the operation's own result.
type UsagePort interface {
	RecordAttempt(ctx context.Context, instanceID uuid.UUID, success bool, errText string)
	Snapshot(ctx context.Context, instanceID uuid.UUID) (*domain.UsageSnapshot, error)
}
