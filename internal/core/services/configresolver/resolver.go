package configresolver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

// Resolver builds the effective configuration for one (tenant,
// template) pair. Precedence, highest first: caller overrides, stored
// tenant values, process-wide defaults, template field defaults. When a
// tenant has no instance at all the whole chain falls through to the
// process defaults.
type Resolver struct {
	store           out.ConfigStorePort
	templates       map[string]domain.IntegrationTemplate
	processDefaults func(templateSlug string) map[string]string
	logger          out.LoggerPort
}

func NewResolver(
	store out.ConfigStorePort,
	templates map[string]domain.IntegrationTemplate,
	processDefaults func(templateSlug string) map[string]string,
	logger out.LoggerPort,
) *Resolver {
	return &Resolver{
		store:           store,
		templates:       templates,
		processDefaults: processDefaults,
		logger:          logger.WithModule("ConfigResolver"),
	}
}

// Resolve is read-only and idempotent. The second return value reports
// whether tenant-specific configuration was found; it is false for the
// process-default fallback.
func (r *Resolver) Resolve(ctx context.Context, templateSlug string, tenantID *uuid.UUID, opts out.ResolveOptions) (domain.EffectiveConfig, bool, error) {
	template, ok := r.templates[templateSlug]
	if !ok {
		return domain.EffectiveConfig{}, false, fmt.Errorf("config.resolve: unknown template %q: %w", templateSlug, domain.ErrConfigurationMissing)
	}

	if tenantID == nil {
		return r.processConfig(template, opts.Overrides), false, nil
	}

	instance, err := r.store.FindInstance(ctx, *tenantID, templateSlug)
	if err != nil {
		return domain.EffectiveConfig{}, false, fmt.Errorf("config.resolve.instance_lookup_failed: %w", err)
	}

	if instance != nil && !instance.Active && !opts.IncludeInactive {
		r.logger.Debug("config.resolve.instance_inactive", out.LogFields{
			"tenantId":     tenantID,
			"templateSlug": templateSlug,
		})
		instance = nil
	}

	if instance == nil {
		if opts.Optional {
			return r.processConfig(template, opts.Overrides), false, nil
		}
		return domain.EffectiveConfig{}, false, fmt.Errorf("config.resolve: no active instance for tenant %s template %s: %w",
			tenantID, templateSlug, domain.ErrConfigurationMissing)
	}

	stored, err := r.store.ListValues(ctx, instance.ID)
	if err != nil {
		return domain.EffectiveConfig{}, false, fmt.Errorf("config.resolve.values_lookup_failed: %w", err)
	}

	values := r.merge(template, stored, opts.Overrides)

	instanceID := instance.ID
	cfg := domain.EffectiveConfig{
		TemplateSlug:   templateSlug,
		TenantID:       tenantID,
		InstanceID:     &instanceID,
		TimeoutSeconds: instance.TimeoutSeconds,
		Values:         values,
	}

	r.logger.Debug("config.resolve.success", out.LogFields{
		"tenantId":     tenantID,
		"templateSlug": templateSlug,
		"instanceId":   instanceID,
		"keys":         len(values),
	})

	return cfg, true, nil
}

func (r *Resolver) processConfig(template domain.IntegrationTemplate, overrides map[string]string) domain.EffectiveConfig {
	values := r.merge(template, nil, overrides)
	return domain.EffectiveConfig{
		TemplateSlug: template.Slug,
		Values:       values,
	}
}

func (r *Resolver) merge(template domain.IntegrationTemplate, stored, overrides map[string]string) map[string]string {
	values := template.Defaults()

	for k, v := range r.processDefaults(template.Slug) {
		if v != "" {
			values[k] = v
		}
	}
	for k, v := range stored {
		values[k] = v
	}
	for k, v := range overrides {
		values[k] = v
	}

	return values
}
