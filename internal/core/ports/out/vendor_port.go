package out

import (
	"context"

	"github.com/clinsys/lab-gateway/internal/core/domain"
)

// LabVendorPort is the one interface every vendor adapter implements.
// The façade obtains the protocol client and the configuration snapshot
// from the connection manager and hands both in; the adapter builds the
// vendor-specific payload, invokes the named operation and parses the
// response into a typed record. Errors wrap the domain sentinel errors;
// only the façade converts them to envelopes.
type LabVendorPort interface {
	Slug() string

	SubmitOrder(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig, in domain.OrderSubmission) (*domain.OrderConfirmation, error)
	QueryResult(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig, orderCode string) (*domain.LabResult, error)
	QueryResultBatch(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig, orderCodes []string) ([]domain.LabResult, error)
	QueryResultsByPeriod(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig, period domain.Period) ([]domain.LabResult, error)
	QueryStatus(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig, orderCode string) (*domain.StatusReport, error)
	CancelExam(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig, in domain.ExamCancellation) (*domain.StatusReport, error)
	ReprintLabels(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig, orderCode string) ([]domain.PrintableLabel, error)
	GenerateRecollectionLabel(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig, in domain.RecollectionRequest) (*domain.PrintableLabel, error)
	ListPendingIssues(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig, period domain.Period) ([]domain.PendingIssue, error)
	FetchPDFMask(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig, examCode string) (*domain.Report, error)
	FetchReport(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig, orderCode string) (*domain.Report, error)
	QueryTraceability(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig, orderCode string) ([]domain.TraceEvent, error)
	ListExams(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig) ([]domain.ExamConfig, error)
	GetExamInfo(ctx context.Context, client ProtocolClient, cfg domain.EffectiveConfig, examCode string) (*domain.ExamInfo, error)
}
