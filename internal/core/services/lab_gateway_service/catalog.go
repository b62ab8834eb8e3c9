package lab_gateway_service

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

func (s *Service) ListExams(ctx context.Context, templateSlug string, tenantID *uuid.UUID) domain.ResultEnvelope[[]domain.ExamConfig] {
	return run(ctx, s, "gateway.list_exams", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) ([]domain.ExamConfig, error) {
			return vendor.ListExams(ctx, client, cfg)
		})
}

func (s *Service) GetExamInfo(ctx context.Context, templateSlug string, tenantID *uuid.UUID, examCode string) domain.ResultEnvelope[*domain.ExamInfo] {
	return run(ctx, s, "gateway.get_exam_info", templateSlug, tenantID,
		func(ctx context.Context, vendor out.LabVendorPort, client out.ProtocolClient, cfg domain.EffectiveConfig) (*domain.ExamInfo, error) {
			return vendor.GetExamInfo(ctx, client, cfg, examCode)
		})
}
