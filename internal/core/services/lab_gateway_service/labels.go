package lab_gateway_service

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

func (s *Service) ReprintLabels(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[[]domain.PrintableLabel] {
	return run(ctx, s, "gateway.reprint_labels", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) ([]domain.PrintableLabel, error) {
			return vendor.ReprintLabels(ctx, client, cfg, orderCode)
		})
}

func (s *Service) GenerateRecollectionLabel(ctx context.Context, templateSlug string, tenantID *uuid.UUID, in domain.RecollectionRequest) domain.ResultEnvelope[*domain.PrintableLabel] {
	return run(ctx, s, "gateway.generate_recollection_label", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) (*domain.PrintableLabel, error) {
			return vendor.GenerateRecollectionLabel(ctx, client, cfg, in)
		})
}
