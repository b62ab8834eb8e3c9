package lab_gateway_service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

// UsageReport reads the instance counters from the local store. No
// remote call is made and nothing is recorded against the instance.
func (s *Service) UsageReport(ctx context.Context, templateSlug string, tenantID uuid.UUID) domain.ResultEnvelope[*domain.UsageSnapshot] {
	cfg, found, err := s.resolver.Resolve(ctx, templateSlug, &tenantID, out.ResolveOptions{
		IncludeInactive: true,
		Optional:        true,
	})
	if err != nil {
		return domain.Fail[*domain.UsageSnapshot](err)
	}
	if !found || cfg.InstanceID == nil {
		return domain.Fail[*domain.UsageSnapshot](fmt.Errorf("gateway.usage.no_instance %s/%s: %w", templateSlug, tenantID, domain.ErrConfigurationMissing))
	}

	snapshot, err := s.usage.Snapshot(ctx, *cfg.InstanceID)
	if err != nil {
		s.logger.Error("gateway.usage.snapshot_failed", out.LogFields{
			"template":   templateSlug,
			"tenantId":   tenantID.String(),
			"instanceId": cfg.InstanceID.String(),
			"error":      err.Error(),
		})
		return domain.Fail[*domain.UsageSnapshot](err)
	}

	return domain.Ok(snapshot)
}
