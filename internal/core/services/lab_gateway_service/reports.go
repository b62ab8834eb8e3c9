package lab_gateway_service

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

func (s *Service) ListPendingIssues(ctx context.Context, templateSlug string, tenantID *uuid.UUID, period domain.Period) domain.ResultEnvelope[[]domain.PendingIssue] {
	return run(ctx, s, "gateway.list_pending_issues", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) ([]domain.PendingIssue, error) {
			return vendor.ListPendingIssues(ctx, client, cfg, period)
		})
}

func (s *Service) FetchPDFMask(ctx context.Context, templateSlug string, tenantID *uuid.UUID, examCode string) domain.ResultEnvelope[*domain.Report] {
	return run(ctx, s, "gateway.fetch_pdf_mask", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) (*domain.Report, error) {
			return vendor.FetchPDFMask(ctx, client, cfg, examCode)
		})
}

func (s *Service) FetchReport(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[*domain.Report] {
	return run(ctx, s, "gateway.fetch_report", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) (*domain.Report, error) {
			return vendor.FetchReport(ctx, client, cfg, orderCode)
		})
}

func (s *Service) QueryTraceability(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[[]domain.TraceEvent] {
	return run(ctx, s, "gateway.query_traceability", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) ([]domain.TraceEvent, error) {
			return vendor.QueryTraceability(ctx, client, cfg, orderCode)
		})
}
