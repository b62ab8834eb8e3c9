package labmax

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

// Adapter implements the vendor port for the Labmax gateway. Labmax is
// stateless on the wire: every request carries the lab client code and
// password from the effective configuration.
type Adapter struct {
	logger out.LoggerPort
}

func NewAdapter(logger out.LoggerPort) *Adapter {
	return &Adapter{
		logger: logger.WithModule("LabmaxAdapter"),
	}
}

func (a *Adapter) Slug() string {
	return domain.TemplateLabmax
}

func creds(cfg domain.EffectiveConfig) credentials {
	return credentials{
		Codigo: cfg.Get(domain.ConfigKeyLabCode),
		Senha:  cfg.Get(domain.ConfigKeyPassword),
	}
}

// invoke performs one remote operation and decodes the payload into the
// operation's response shape, translating a non-success Status into a
// VendorError.
func invoke[T any](ctx context.Context, a *Adapter, client out.ProtocolClient, operation string, params interface{}) (*T, error) {
	raw, err := client.Invoke(ctx, operation, params)
	if err != nil {
		return nil, err
	}

	var resp T
	if err := json.Unmarshal(raw, &resp); err != nil {
		a.logger.Error("labmax.parse_failed", out.LogFields{
			"operation": operation,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("labmax.parse_failed %s: %v: %w", operation, err, domain.ErrParse)
	}

	if h, ok := any(&resp).(interface{ header() responseHeader }); ok {
		header := h.header()
		if !header.Status.OK() {
			return nil, &domain.VendorError{
				Code:    header.Status.String(),
				Message: header.Mensagem.String(),
			}
		}
	}

	return &resp, nil
}

func (a *Adapter) SubmitOrder(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, in domain.OrderSubmission) (*domain.OrderConfirmation, error) {
	req := incluirPedidoRequest{credentials: creds(cfg)}
	req.Pedido.Codigo = in.OrderCode
	req.Pedido.Paciente = in.PatientName
	req.Pedido.Documento = in.PatientDocument
	req.Pedido.Nascimento = in.BirthDate
	req.Pedido.Sexo = in.Sex
	req.Pedido.Observacao = in.Notes
	req.Pedido.Impressora = cfg.Get(domain.ConfigKeyPrinter)
	for _, exam := range in.Exams {
		req.Pedido.Exames = append(req.Pedido.Exames, examePedidoDTO{
			Codigo:   exam.Code,
			Material: exam.Material,
		})
	}

	resp, err := invoke[incluirPedidoResponse](ctx, a, client, opIncluirPedido, req)
	if err != nil {
		return nil, err
	}

	return parseOrderConfirmation(in.OrderCode, *resp), nil
}

func (a *Adapter) QueryResult(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, orderCode string) (*domain.LabResult, error) {
	resp, err := invoke[consultarResultadoResponse](ctx, a, client, opConsultarResultado, pedidoRequest{
		credentials: creds(cfg),
		Pedido:      orderCode,
	})
	if err != nil {
		return nil, err
	}

	result := parseResult(resp.Resultado)
	return &result, nil
}

func (a *Adapter) QueryResultBatch(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, orderCodes []string) ([]domain.LabResult, error) {
	resp, err := invoke[consultarResultadoLoteResponse](ctx, a, client, opConsultarResultadoLote, lotePedidosRequest{
		credentials: creds(cfg),
		Pedidos:     orderCodes,
	})
	if err != nil {
		return nil, err
	}

	return parseResults(resp.Resultados.Resultado), nil
}

func (a *Adapter) QueryResultsByPeriod(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, period domain.Period) ([]domain.LabResult, error) {
	resp, err := invoke[consultarResultadoLoteResponse](ctx, a, client, opConsultarResultadoPer, periodoRequest{
		credentials: creds(cfg),
		DataInicio:  period.Start.Format("2006-01-02T15:04:05"),
		DataFim:     period.End.Format("2006-01-02T15:04:05"),
	})
	if err != nil {
		return nil, err
	}

	return parseResults(resp.Resultados.Resultado), nil
}

func (a *Adapter) QueryStatus(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, orderCode string) (*domain.StatusReport, error) {
	resp, err := invoke[statusPedidoResponse](ctx, a, client, opConsultarStatusPedido, pedidoRequest{
		credentials: creds(cfg),
		Pedido:      orderCode,
	})
	if err != nil {
		return nil, err
	}

	return parseStatusReport(*resp), nil
}

func (a *Adapter) CancelExam(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, in domain.ExamCancellation) (*domain.StatusReport, error) {
	resp, err := invoke[statusPedidoResponse](ctx, a, client, opCancelarExame, cancelarExameRequest{
		credentials: creds(cfg),
		Pedido:      in.OrderCode,
		Exame:       in.ExamCode,
		Motivo:      in.Reason,
	})
	if err != nil {
		return nil, err
	}

	return parseStatusReport(*resp), nil
}

func (a *Adapter) ReprintLabels(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, orderCode string) ([]domain.PrintableLabel, error) {
	resp, err := invoke[etiquetasResponse](ctx, a, client, opReimprimirEtiquetas, pedidoRequest{
		credentials: creds(cfg),
		Pedido:      orderCode,
	})
	if err != nil {
		return nil, err
	}

	return parseLabels(resp.Etiquetas), nil
}

func (a *Adapter) GenerateRecollectionLabel(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, in domain.RecollectionRequest) (*domain.PrintableLabel, error) {
	resp, err := invoke[etiquetaRecoletaResponse](ctx, a, client, opGerarEtiquetaRecoleta, recoletaRequest{
		credentials: creds(cfg),
		Pedido:      in.OrderCode,
		Exame:       in.ExamCode,
		Motivo:      in.Reason,
	})
	if err != nil {
		return nil, err
	}

	label := parseLabel(resp.Etiqueta)
	return &label, nil
}

func (a *Adapter) ListPendingIssues(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, period domain.Period) ([]domain.PendingIssue, error) {
	resp, err := invoke[pendenciasResponse](ctx, a, client, opConsultarPendencias, periodoRequest{
		credentials: creds(cfg),
		DataInicio:  period.Start.Format("2006-01-02T15:04:05"),
		DataFim:     period.End.Format("2006-01-02T15:04:05"),
	})
	if err != nil {
		return nil, err
	}

	return parsePendingIssues(*resp), nil
}

func (a *Adapter) FetchPDFMask(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, examCode string) (*domain.Report, error) {
	resp, err := invoke[mascaraLaudoResponse](ctx, a, client, opObterMascaraLaudo, exameRequest{
		credentials: creds(cfg),
		Exame:       examCode,
	})
	if err != nil {
		return nil, err
	}

	mime, name, content, err := parseFile(resp.Mascara, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("labmax.mask.decode_failed: %v: %w", err, domain.ErrParse)
	}

	return &domain.Report{
		ExamCode: examCode,
		MimeType: mime,
		FileName: name,
		Content:  content,
	}, nil
}

func (a *Adapter) FetchReport(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, orderCode string) (*domain.Report, error) {
	resp, err := invoke[laudoPDFResponse](ctx, a, client, opObterLaudoPDF, pedidoRequest{
		credentials: creds(cfg),
		Pedido:      orderCode,
	})
	if err != nil {
		return nil, err
	}

	mime, name, content, err := parseFile(resp.Laudo, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("labmax.report.decode_failed: %v: %w", err, domain.ErrParse)
	}

	return &domain.Report{
		OrderCode: orderCode,
		MimeType:  mime,
		FileName:  name,
		Content:   content,
	}, nil
}

func (a *Adapter) QueryTraceability(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, orderCode string) ([]domain.TraceEvent, error) {
	resp, err := invoke[rastreamentoResponse](ctx, a, client, opConsultarRastreamento, pedidoRequest{
		credentials: creds(cfg),
		Pedido:      orderCode,
	})
	if err != nil {
		return nil, err
	}

	return parseTraceEvents(*resp), nil
}

func (a *Adapter) ListExams(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig) ([]domain.ExamConfig, error) {
	resp, err := invoke[listarExamesResponse](ctx, a, client, opListarExames, creds(cfg))
	if err != nil {
		return nil, err
	}

	exams := make([]domain.ExamConfig, 0, len(resp.Exames.Exame))
	for _, e := range resp.Exames.Exame {
		exams = append(exams, parseExamConfig(e))
	}
	return exams, nil
}

func (a *Adapter) GetExamInfo(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, examCode string) (*domain.ExamInfo, error) {
	resp, err := invoke[consultarExameResponse](ctx, a, client, opConsultarExame, exameRequest{
		credentials: creds(cfg),
		Exame:       examCode,
	})
	if err != nil {
		return nil, err
	}

	return parseExamInfo(*resp), nil
}
