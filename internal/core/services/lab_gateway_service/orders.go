package lab_gateway_service

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

func (s *Service) SubmitOrder(ctx context.Context, templateSlug string, tenantID *uuid.UUID, in domain.OrderSubmission) domain.ResultEnvelope[*domain.OrderConfirmation] {
	return run(ctx, s, "gateway.submit_order", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) (*domain.OrderConfirmation, error) {
			return vendor.SubmitOrder(ctx, client, cfg, in)
		})
}

func (s *Service) QueryStatus(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[*domain.StatusReport] {
	return run(ctx, s, "gateway.query_status", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) (*domain.StatusReport, error) {
			return vendor.QueryStatus(ctx, client, cfg, orderCode)
		})
}

func (s *Service) CancelExam(ctx context.Context, templateSlug string, tenantID *uuid.UUID, in domain.ExamCancellation) domain.ResultEnvelope[*domain.StatusReport] {
	return run(ctx, s, "gateway.cancel_exam", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) (*domain.StatusReport, error) {
			return vendor.CancelExam(ctx, client, cfg, in)
		})
}
