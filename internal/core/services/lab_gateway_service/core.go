package lab_gateway_service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

// Service is the gateway façade. Every public method resolves the
// vendor adapter and a cached protocol client, delegates the call,
// records the attempt on the tenant instance and wraps the outcome in
// a result envelope. Nothing ever escapes as an error or a panic.
type Service struct {
	conn     out.ConnectionPort
	resolver out.ConfigResolverPort
	vendors  map[string]out.LabVendorPort
	usage    out.UsagePort
	logger   out.LoggerPort
}

func NewService(
	conn out.ConnectionPort,
	resolver out.ConfigResolverPort,
	vendors []out.LabVendorPort,
	usage out.UsagePort,
	logger out.LoggerPort,
) *Service {
	bySlug := make(map[string]out.LabVendorPort, len(vendors))
	for _, vendor := range vendors {
		bySlug[vendor.Slug()] = vendor
	}

	return &Service{
		conn:     conn,
		resolver: resolver,
		vendors:  bySlug,
		usage:    usage,
		logger:   logger.WithModule("LabGatewayService"),
	}
}

type vendorCall[T any] func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) (T, error)

// run is the shared operation pipeline. Generic methods are not a
// thing, so the façade methods call through this package-level helper.
func run[T any](ctx context.Context, s *Service, operation, templateSlug string, tenantID *uuid.UUID, call vendorCall[T]) (envelope domain.ResultEnvelope[T]) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("gateway.operation.panic", out.LogFields{
				"operation": operation,
				"template":  templateSlug,
				"panic":     fmt.Sprintf("%v", r),
			})
			envelope = domain.Fail[T](fmt.Errorf("gateway.operation.panic %s: %v: %w", operation, r, domain.ErrRemoteInvocation))
		}
	}()

	vendor, ok := s.vendors[templateSlug]
	if !ok {
		return domain.Fail[T](fmt.Errorf("gateway.template.unknown %s: %w", templateSlug, domain.ErrConfigurationMissing))
	}

	client, cfg, err := s.conn.GetClient(ctx, templateSlug, tenantID)
	if err != nil {
		s.logger.Error("gateway.client.unavailable", out.LogFields{
			"operation": operation,
			"template":  templateSlug,
			"tenantId":  tenantField(tenantID),
			"error":     err.Error(),
		})
		return domain.Fail[T](err)
	}

	data, err := call(ctx, vendor, client, cfg)
	s.track(ctx, cfg, err)
	if err != nil {
		s.logger.Error("gateway.operation.failed", out.LogFields{
			"operation": operation,
			"template":  templateSlug,
			"tenantId":  tenantField(tenantID),
			"error":     err.Error(),
		})
		return domain.Fail[T](err)
	}

	s.logger.Debug("gateway.operation.completed", out.LogFields{
		"operation": operation,
		"template":  templateSlug,
		"tenantId":  tenantField(tenantID),
	})
	return domain.Ok(data)
}

// track accounts one remote attempt. A parse failure means the remote
// side answered, so it counts as a successful attempt even though the
// caller receives a failure envelope.
func (s *Service) track(ctx context.Context, cfg domain.EffectiveConfig, err error) {
	if s.usage == nil || cfg.InstanceID == nil {
		return
	}

	success := err == nil || errors.Is(err, domain.ErrParse)
	errText := ""
	if !success {
		errText = err.Error()
	}
	s.usage.RecordAttempt(ctx, *cfg.InstanceID, success, errText)
}

func tenantField(tenantID *uuid.UUID) string {
	if tenantID == nil {
		return domain.FallbackCacheKey
	}
	return tenantID.String()
}
