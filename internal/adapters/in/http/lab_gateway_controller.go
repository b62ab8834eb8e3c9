package http

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/config"
	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/in"
)

// TenantHeader carries the tenant scoping an operation. Absent means
// the process-wide fallback configuration.
const TenantHeader = "X-Tenant-Id"

type LabGatewayController struct {
	useCase in.LabGatewayUseCase
	cfg     *config.Config
}

func NewLabGatewayController(useCase in.LabGatewayUseCase, cfg *config.Config) *LabGatewayController {
	return &LabGatewayController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *LabGatewayController) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1/integrations/:template")
	api.Use(c.basicAuth())
	{
		api.POST("/orders", c.submitOrder)
		api.POST("/orders/cancel", c.cancelExam)
		api.GET("/orders/:orderCode/status", c.queryStatus)
		api.GET("/orders/:orderCode/result", c.queryResult)
		api.GET("/orders/:orderCode/labels", c.reprintLabels)
		api.GET("/orders/:orderCode/report", c.fetchReport)
		api.GET("/orders/:orderCode/trace", c.queryTraceability)

		api.POST("/results/batch", c.queryResultBatch)
		api.GET("/results", c.queryResultsByPeriod)

		api.POST("/labels/recollection", c.generateRecollectionLabel)

		api.GET("/pending", c.listPendingIssues)

		api.GET("/exams", c.listExams)
		api.GET("/exams/:examCode", c.getExamInfo)
		api.GET("/exams/:examCode/mask", c.fetchPDFMask)

		api.GET("/usage", c.usageReport)
	}
}

type QueryResultBatchRequest struct {
	OrderCodes []string `json:"orderCodes" binding:"required,min=1"`
}

func (c *LabGatewayController) submitOrder(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	var req domain.OrderSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	respond(ctx, c.useCase.SubmitOrder(ctx.Request.Context(), ctx.Param("template"), tenantID, req))
}

func (c *LabGatewayController) cancelExam(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	var req domain.ExamCancellation
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	respond(ctx, c.useCase.CancelExam(ctx.Request.Context(), ctx.Param("template"), tenantID, req))
}

func (c *LabGatewayController) queryStatus(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	respond(ctx, c.useCase.QueryStatus(ctx.Request.Context(), ctx.Param("template"), tenantID, ctx.Param("orderCode")))
}

func (c *LabGatewayController) queryResult(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	respond(ctx, c.useCase.QueryResult(ctx.Request.Context(), ctx.Param("template"), tenantID, ctx.Param("orderCode")))
}

func (c *LabGatewayController) queryResultBatch(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	var req QueryResultBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	respond(ctx, c.useCase.QueryResultBatch(ctx.Request.Context(), ctx.Param("template"), tenantID, req.OrderCodes))
}

func (c *LabGatewayController) queryResultsByPeriod(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	period, ok := periodFromQuery(ctx)
	if !ok {
		return
	}

	respond(ctx, c.useCase.QueryResultsByPeriod(ctx.Request.Context(), ctx.Param("template"), tenantID, period))
}

func (c *LabGatewayController) reprintLabels(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	respond(ctx, c.useCase.ReprintLabels(ctx.Request.Context(), ctx.Param("template"), tenantID, ctx.Param("orderCode")))
}

func (c *LabGatewayController) generateRecollectionLabel(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	var req domain.RecollectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	respond(ctx, c.useCase.GenerateRecollectionLabel(ctx.Request.Context(), ctx.Param("template"), tenantID, req))
}

func (c *LabGatewayController) listPendingIssues(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	period, ok := periodFromQuery(ctx)
	if !ok {
		return
	}

	respond(ctx, c.useCase.ListPendingIssues(ctx.Request.Context(), ctx.Param("template"), tenantID, period))
}

func (c *LabGatewayController) fetchPDFMask(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	respond(ctx, c.useCase.FetchPDFMask(ctx.Request.Context(), ctx.Param("template"), tenantID, ctx.Param("examCode")))
}

func (c *LabGatewayController) fetchReport(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	respond(ctx, c.useCase.FetchReport(ctx.Request.Context(), ctx.Param("template"), tenantID, ctx.Param("orderCode")))
}

func (c *LabGatewayController) queryTraceability(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	respond(ctx, c.useCase.QueryTraceability(ctx.Request.Context(), ctx.Param("template"), tenantID, ctx.Param("orderCode")))
}

func (c *LabGatewayController) listExams(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	respond(ctx, c.useCase.ListExams(ctx.Request.Context(), ctx.Param("template"), tenantID))
}

func (c *LabGatewayController) getExamInfo(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}

	respond(ctx, c.useCase.GetExamInfo(ctx.Request.Context(), ctx.Param("template"), tenantID, ctx.Param("examCode")))
}

func (c *LabGatewayController) usageReport(ctx *gin.Context) {
	tenantID, ok := tenantFromHeader(ctx)
	if !ok {
		return
	}
	if tenantID == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "X-Tenant-Id header is required"})
		return
	}

	respond(ctx, c.useCase.UsageReport(ctx.Request.Context(), ctx.Param("template"), *tenantID))
}

// tenantFromHeader parses the optional tenant header. A malformed value
// aborts the request with 400; absence means fallback configuration.
func tenantFromHeader(ctx *gin.Context) (*uuid.UUID, bool) {
	raw := ctx.GetHeader(TenantHeader)
	if raw == "" {
		return nil, true
	}

	tenantID, err := uuid.Parse(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID format"})
		return nil, false
	}
	return &tenantID, true
}

func periodFromQuery(ctx *gin.Context) (domain.Period, bool) {
	start, ok := parseQueryTime(ctx, "start")
	if !ok {
		return domain.Period{}, false
	}
	end, ok := parseQueryTime(ctx, "end")
	if !ok {
		return domain.Period{}, false
	}
	return domain.Period{Start: start, End: end}, true
}

func parseQueryTime(ctx *gin.Context, name string) (time.Time, bool) {
	raw := ctx.Query(name)

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}

	ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " date format"})
	return time.Time{}, false
}

// respond maps the envelope's status code to an HTTP status. The
// envelope itself is always the body, so callers get the same shape on
// both paths.
func respond[T any](ctx *gin.Context, envelope domain.ResultEnvelope[T]) {
	if envelope.Success {
		ctx.JSON(http.StatusOK, envelope)
		return
	}

	status := http.StatusUnprocessableEntity
	switch envelope.StatusCode {
	case "CONFIG_MISSING":
		status = http.StatusNotFound
	case "CONNECTION_FAILURE":
		status = http.StatusServiceUnavailable
	case "AUTH_FAILURE", "REMOTE_ERROR", "PARSE_ERROR":
		status = http.StatusBadGateway
	}

	ctx.JSON(status, envelope)
}

func (c *LabGatewayController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
				subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
