package in

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
)

// LabGatewayUseCase is the public operation surface of the gateway.
// Every method accepts the target template, an optional tenant and a
// typed input, and returns a result envelope; none of them ever
// propagates an error or panic past this boundary.
type LabGatewayUseCase interface {
	SubmitOrder(ctx context.Context, templateSlug string, tenantID *uuid.UUID, in domain.OrderSubmission) domain.ResultEnvelope[*domain.OrderConfirmation]

	QueryResult(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[*domain.LabResult]
	QueryResultBatch(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCodes []string) domain.ResultEnvelope[[]domain.LabResult]
	QueryResultsByPeriod(ctx context.Context, templateSlug string, tenantID *uuid.UUID, period domain.Period) domain.ResultEnvelope[[]domain.LabResult]

	QueryStatus(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[*domain.StatusReport]
	CancelExam(ctx context.Context, templateSlug string, tenantID *uuid.UUID, in domain.ExamCancellation) domain.ResultEnvelope[*domain.StatusReport]

	ReprintLabels(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[[]domain.PrintableLabel]
	GenerateRecollectionLabel(ctx context.Context, templateSlug string, tenantID *uuid.UUID, in domain.RecollectionRequest) domain.ResultEnvelope[*domain.PrintableLabel]

	ListPendingIssues(ctx context.Context, templateSlug string, tenantID *uuid.UUID, period domain.Period) domain.ResultEnvelope[[]domain.PendingIssue]

	FetchPDFMask(ctx context.Context, templateSlug string, tenantID *uuid.UUID, examCode string) domain.ResultEnvelope[*domain.Report]
	FetchReport(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[*domain.Report]

	QueryTraceability(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[[]domain.TraceEvent]

	ListExams(ctx context.Context, templateSlug string, tenantID *uuid.UUID) domain.ResultEnvelope[[]domain.ExamConfig]
	GetExamInfo(ctx context.Context, templateSlug string, tenantID *uuid.UUID, examCode string) domain.ResultEnvelope[*domain.ExamInfo]

	// UsageReport reads local counters only; no remote call is made.
	UsageReport(ctx context.Context, templateSlug string, tenantID uuid.UUID) domain.ResultEnvelope[*domain.UsageSnapshot]
}
