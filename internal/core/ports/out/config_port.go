package out

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
)

// ConfigStorePort is the key/value configuration store the resolver
// reads from. Implementations must keep (instanceID, key) unique and
// store every value as text.
type ConfigStorePort interface {
	// FindInstance returns nil without an error when no instance
	// exists for the pair.
	FindInstance(ctx context.Context, tenantID uuid.UUID, templateSlug string) (*domain.TenantIntegrationInstance, error)

	// ListValues returns all stored rows for one instance as a
	// key -> value map.
	ListValues(ctx context.Context, instanceID uuid.UUID) (map[string]string, error)
}

// ResolveOptions tune one configuration lookup. The zero value means
// "active instances only, missing configuration is an error, no
// overrides".
type ResolveOptions struct {
	// IncludeInactive also resolves instances whose Active flag is off.
	IncludeInactive bool

	// Optional suppresses ErrConfigurationMissing; the resolver then
	// reports absence through the second return value.
	Optional bool

	// Overrides take precedence over stored tenant values.
	Overrides map[string]string
}

// ConfigResolverPort produces the effective configuration for one
// (tenant, template) pair. A nil tenantID resolves the process-wide
// default configuration unconditionally.
type ConfigResolverPort interface {
	Resolve(ctx context.Context, templateSlug string, tenantID *uuid.UUID, opts ResolveOptions) (domain.EffectiveConfig, bool, error)
}
