package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/clinsys/lab-gateway/internal/config"
	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/in"
)

// stubUseCase returns canned envelopes and records the tenant it was
// called with.
var _ in.LabGatewayUseCase = (*stubUseCase)(nil)

type stubUseCase struct {
	lastTenant  *uuid.UUID
	queryResult domain.ResultEnvelope[*domain.LabResult]
}

func (s *stubUseCase) SubmitOrder(ctx context.Context, templateSlug string, tenantID *uuid.UUID, in domain.OrderSubmission) domain.ResultEnvelope[*domain.OrderConfirmation] {
	s.lastTenant = tenantID
	return domain.Ok(&domain.OrderConfirmation{OrderCode: in.OrderCode, Accepted: true})
}

func (s *stubUseCase) QueryResult(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[*domain.LabResult] {
	s.lastTenant = tenantID
	return s.queryResult
}

func (s *stubUseCase) QueryResultBatch(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCodes []string) domain.ResultEnvelope[[]domain.LabResult] {
	return domain.Ok(make([]domain.LabResult, len(orderCodes)))
}

func (s *stubUseCase) QueryResultsByPeriod(ctx context.Context, templateSlug string, tenantID *uuid.UUID, period domain.Period) domain.ResultEnvelope[[]domain.LabResult] {
	return domain.Ok([]domain.LabResult{})
}

func (s *stubUseCase) QueryStatus(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[*domain.StatusReport] {
	return domain.Ok(&domain.StatusReport{OrderCode: orderCode})
}

func (s *stubUseCase) CancelExam(ctx context.Context, templateSlug string, tenantID *uuid.UUID, in domain.ExamCancellation) domain.ResultEnvelope[*domain.StatusReport] {
	return domain.Ok(&domain.StatusReport{OrderCode: in.OrderCode})
}

func (s *stubUseCase) ReprintLabels(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[[]domain.PrintableLabel] {
	return domain.Ok([]domain.PrintableLabel{})
}

func (s *stubUseCase) GenerateRecollectionLabel(ctx context.Context, templateSlug string, tenantID *uuid.UUID, in domain.RecollectionRequest) domain.ResultEnvelope[*domain.PrintableLabel] {
	return domain.Ok(&domain.PrintableLabel{})
}

func (s *stubUseCase) ListPendingIssues(ctx context.Context, templateSlug string, tenantID *uuid.UUID, period domain.Period) domain.ResultEnvelope[[]domain.PendingIssue] {
	return domain.Ok([]domain.PendingIssue{})
}

func (s *stubUseCase) FetchPDFMask(ctx context.Context, templateSlug string, tenantID *uuid.UUID, examCode string) domain.ResultEnvelope[*domain.Report] {
	return domain.Ok(&domain.Report{ExamCode: examCode})
}

func (s *stubUseCase) FetchReport(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[*domain.Report] {
	return domain.Ok(&domain.Report{OrderCode: orderCode})
}

func (s *stubUseCase) QueryTraceability(ctx context.Context, templateSlug string, tenantID *uuid.UUID, orderCode string) domain.ResultEnvelope[[]domain.TraceEvent] {
	return domain.Ok([]domain.TraceEvent{})
}

func (s *stubUseCase) ListExams(ctx context.Context, templateSlug string, tenantID *uuid.UUID) domain.ResultEnvelope[[]domain.ExamConfig] {
	return domain.Ok([]domain.ExamConfig{})
}

func (s *stubUseCase) GetExamInfo(ctx context.Context, templateSlug string, tenantID *uuid.UUID, examCode string) domain.ResultEnvelope[*domain.ExamInfo] {
	return domain.Ok(&domain.ExamInfo{})
}

func (s *stubUseCase) UsageReport(ctx context.Context, templateSlug string, tenantID uuid.UUID) domain.ResultEnvelope[*domain.UsageSnapshot] {
	return domain.Ok(&domain.UsageSnapshot{})
}

func newTestRouter(useCase in.LabGatewayUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Auth.BasicClients = []config.ConfigBasicClient{
		{Username: "crud", Password: "secret"},
	}

	router := gin.New()
	NewLabGatewayController(useCase, cfg).RegisterRoutes(router)
	return router
}

func doRequest(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth("crud", "secret")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestRoutes_RequireBasicAuth(t *testing.T) {
	router := newTestRouter(&stubUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/integrations/labmax/exams", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	req.SetBasicAuth("crud", "wrong")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestHealth_NoAuth(t *testing.T) {
	router := newTestRouter(&stubUseCase{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestTenantHeader_Parsing(t *testing.T) {
	useCase := &stubUseCase{queryResult: domain.Ok(&domain.LabResult{OrderCode: "PED-1"})}
	router := newTestRouter(useCase)
	tenantID := uuid.New()

	recorder := doRequest(router, http.MethodGet, "/api/v1/integrations/labmax/orders/PED-1/result", "", map[string]string{
		TenantHeader: tenantID.String(),
	})
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, &tenantID, useCase.lastTenant)

	// Absent header means fallback configuration.
	recorder = doRequest(router, http.MethodGet, "/api/v1/integrations/labmax/orders/PED-1/result", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, useCase.lastTenant)

	// Malformed header is rejected before the use case runs.
	recorder = doRequest(router, http.MethodGet, "/api/v1/integrations/labmax/orders/PED-1/result", "", map[string]string{
		TenantHeader: "not-a-uuid",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSubmitOrder_BindingValidation(t *testing.T) {
	router := newTestRouter(&stubUseCase{})

	recorder := doRequest(router, http.MethodPost, "/api/v1/integrations/labmax/orders",
		`{"orderCode": "PED-1"}`, nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSubmitOrder_Success(t *testing.T) {
	router := newTestRouter(&stubUseCase{})

	recorder := doRequest(router, http.MethodPost, "/api/v1/integrations/labmax/orders",
		`{"orderCode": "PED-1", "patientName": "Maria Souza", "exams": [{"code": "TSH"}]}`, nil)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var envelope domain.ResultEnvelope[*domain.OrderConfirmation]
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "PED-1", envelope.Data.OrderCode)
}

func TestRespond_StatusMapping(t *testing.T) {
	cases := []struct {
		statusCode string
		httpStatus int
	}{
		{"CONFIG_MISSING", http.StatusNotFound},
		{"CONNECTION_FAILURE", http.StatusServiceUnavailable},
		{"AUTH_FAILURE", http.StatusBadGateway},
		{"PARSE_ERROR", http.StatusBadGateway},
		{"REMOTE_ERROR", http.StatusBadGateway},
		{"104", http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		useCase := &stubUseCase{queryResult: domain.ResultEnvelope[*domain.LabResult]{
			Success:    false,
			Error:      "boom",
			StatusCode: tc.statusCode,
		}}
		router := newTestRouter(useCase)

		recorder := doRequest(router, http.MethodGet, "/api/v1/integrations/labmax/orders/PED-1/result", "", nil)

		assert.Equal(t, tc.httpStatus, recorder.Code, "status code %s", tc.statusCode)

		var envelope domain.ResultEnvelope[*domain.LabResult]
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.False(t, envelope.Success)
		assert.Equal(t, tc.statusCode, envelope.StatusCode)
	}
}

func TestPeriodQuery_Validation(t *testing.T) {
	router := newTestRouter(&stubUseCase{})

	recorder := doRequest(router, http.MethodGet, "/api/v1/integrations/labmax/results?start=2026-03-01&end=2026-03-15", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = doRequest(router, http.MethodGet, "/api/v1/integrations/labmax/results?start=bogus&end=2026-03-15", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
