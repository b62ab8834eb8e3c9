package biocentro

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

// Adapter implements the vendor port for the Biocentro gateway.
// Biocentro uses a two-step token flow: Autenticar trades the tenant's
// username/password for a session token, cached by the connection
// manager; every other operation carries that token.
type Adapter struct {
	conn   out.ConnectionPort
	logger out.LoggerPort
}

func NewAdapter(conn out.ConnectionPort, logger out.LoggerPort) *Adapter {
	return &Adapter{
		conn:   conn,
		logger: logger.WithModule("BiocentroAdapter"),
	}
}

func (a *Adapter) Slug() string {
	return domain.TemplateBiocentro
}

// token returns the cached session token or acquires a fresh one. No
// retry: a failed login surfaces as an authentication failure and the
// token cache stays empty.
func (a *Adapter) token(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig) (string, error) {
	if token, ok := a.conn.GetToken(a.Slug(), cfg.TenantID); ok {
		return token, nil
	}

	a.logger.Info("biocentro.login", out.LogFields{
		"tenantId": cfg.TenantID,
	})

	raw, err := client.Invoke(ctx, opAutenticar, loginRequest{
		Usuario: cfg.Get(domain.ConfigKeyUsername),
		Senha:   cfg.Get(domain.ConfigKeyPassword),
	})
	if err != nil {
		return "", fmt.Errorf("biocentro.login.transport_failed: %v: %w", err, domain.ErrAuthenticationFailure)
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("biocentro.login.parse_failed: %v: %w", err, domain.ErrAuthenticationFailure)
	}

	if !resp.Status.OK() || resp.Token.String() == "" {
		a.logger.Error("biocentro.login.rejected", out.LogFields{
			"status":  resp.Status.String(),
			"message": resp.Mensagem.String(),
		})
		return "", fmt.Errorf("biocentro.login.rejected (%s): %s: %w",
			resp.Status.String(), resp.Mensagem.String(), domain.ErrAuthenticationFailure)
	}

	a.conn.SetToken(a.Slug(), cfg.TenantID, resp.Token.String())

	return resp.Token.String(), nil
}

// invoke acquires the session token, performs the operation and decodes
// the payload, translating a non-success status into a VendorError. An
// expired-token status also drops the cached token so the next call
// logs in again.
func invoke[T any](ctx context.Context, a *Adapter, client out.ProtocolClient, cfg domain.EffectiveConfig, operation string, build func(token string) interface{}) (*T, error) {
	token, err := a.token(ctx, client, cfg)
	if err != nil {
		return nil, err
	}

	raw, err := client.Invoke(ctx, operation, build(token))
	if err != nil {
		return nil, err
	}

	var resp T
	if err := json.Unmarshal(raw, &resp); err != nil {
		a.logger.Error("biocentro.parse_failed", out.LogFields{
			"operation": operation,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("biocentro.parse_failed %s: %v: %w", operation, err, domain.ErrParse)
	}

	if h, ok := any(&resp).(interface{ header() responseHeader }); ok {
		header := h.header()
		if !header.Status.OK() {
			if header.Status.String() == statusTokenExpired {
				a.conn.ClearToken(a.Slug(), cfg.TenantID)
			}
			return nil, &domain.VendorError{
				Code:    header.Status.String(),
				Message: header.Mensagem.String(),
			}
		}
	}

	return &resp, nil
}

func (a *Adapter) SubmitOrder(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, in domain.OrderSubmission) (*domain.OrderConfirmation, error) {
	resp, err := invoke[enviarPedidoResponse](ctx, a, client, cfg, opEnviarPedido, func(token string) interface{} {
		req := enviarPedidoRequest{tokenRequest: tokenRequest{Token: token}}
		req.Pedido = in.OrderCode
		req.Nome = in.PatientName
		req.CPF = in.PatientDocument
		req.DataNsc = in.BirthDate
		req.Sexo = in.Sex
		req.Obs = in.Notes
		for _, exam := range in.Exams {
			req.Exames = append(req.Exames, struct {
				Codigo   string `json:"codigo"`
				Material string `json:"material,omitempty"`
			}{Codigo: exam.Code, Material: exam.Material})
		}
		return req
	})
	if err != nil {
		return nil, err
	}

	return parseOrderConfirmation(in.OrderCode, *resp), nil
}

func (a *Adapter) QueryResult(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, orderCode string) (*domain.LabResult, error) {
	resp, err := invoke[resultadoResponse](ctx, a, client, cfg, opObterResultado, func(token string) interface{} {
		return pedidoRequest{tokenRequest{token}, orderCode}
	})
	if err != nil {
		return nil, err
	}

	result := parseResult(resp.Resultado)
	return &result, nil
}

func (a *Adapter) QueryResultBatch(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, orderCodes []string) ([]domain.LabResult, error) {
	resp, err := invoke[resultadosResponse](ctx, a, client, cfg, opResultadosLote, func(token string) interface{} {
		return loteRequest{tokenRequest{token}, orderCodes}
	})
	if err != nil {
		return nil, err
	}

	return parseResults(resp.Resultados), nil
}

func (a *Adapter) QueryResultsByPeriod(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, period domain.Period) ([]domain.LabResult, error) {
	resp, err := invoke[resultadosResponse](ctx, a, client, cfg, opResultadosPer, func(token string) interface{} {
		return periodoRequest{
			tokenRequest: tokenRequest{token},
			Inicio:       period.Start.Format("2006-01-02T15:04:05"),
			Fim:          period.End.Format("2006-01-02T15:04:05"),
		}
	})
	if err != nil {
		return nil, err
	}

	return parseResults(resp.Resultados), nil
}

func (a *Adapter) QueryStatus(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, orderCode string) (*domain.StatusReport, error) {
	resp, err := invoke[situacaoResponse](ctx, a, client, cfg, opSituacaoPedido, func(token string) interface{} {
		return pedidoRequest{tokenRequest{token}, orderCode}
	})
	if err != nil {
		return nil, err
	}

	return parseStatusReport(*resp), nil
}

func (a *Adapter) CancelExam(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, in domain.ExamCancellation) (*domain.StatusReport, error) {
	resp, err := invoke[situacaoResponse](ctx, a, client, cfg, opCancelarExame, func(token string) interface{} {
		return cancelamentoRequest{
			tokenRequest: tokenRequest{token},
			Pedido:       in.OrderCode,
			Exame:        in.ExamCode,
			Motivo:       in.Reason,
		}
	})
	if err != nil {
		return nil, err
	}

	return parseStatusReport(*resp), nil
}

func (a *Adapter) ReprintLabels(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, orderCode string) ([]domain.PrintableLabel, error) {
	resp, err := invoke[etiquetasResponse](ctx, a, client, cfg, opReimprimir, func(token string) interface{} {
		return pedidoRequest{tokenRequest{token}, orderCode}
	})
	if err != nil {
		return nil, err
	}

	return parseLabels(resp.Etiquetas), nil
}

func (a *Adapter) GenerateRecollectionLabel(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, in domain.RecollectionRequest) (*domain.PrintableLabel, error) {
	resp, err := invoke[recoletaResponse](ctx, a, client, cfg, opRecoleta, func(token string) interface{} {
		return cancelamentoRequest{
			tokenRequest: tokenRequest{token},
			Pedido:       in.OrderCode,
			Exame:        in.ExamCode,
			Motivo:       in.Reason,
		}
	})
	if err != nil {
		return nil, err
	}

	label := parseLabel(resp.Etiqueta)
	return &label, nil
}

func (a *Adapter) ListPendingIssues(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, period domain.Period) ([]domain.PendingIssue, error) {
	resp, err := invoke[pendenciasResponse](ctx, a, client, cfg, opPendencias, func(token string) interface{} {
		return periodoRequest{
			tokenRequest: tokenRequest{token},
			Inicio:       period.Start.Format("2006-01-02T15:04:05"),
			Fim:          period.End.Format("2006-01-02T15:04:05"),
		}
	})
	if err != nil {
		return nil, err
	}

	return parsePendingIssues(*resp), nil
}

func (a *Adapter) FetchPDFMask(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, examCode string) (*domain.Report, error) {
	resp, err := invoke[arquivoResponse](ctx, a, client, cfg, opObterMascara, func(token string) interface{} {
		return exameRequest{tokenRequest{token}, examCode}
	})
	if err != nil {
		return nil, err
	}

	mime, name, content, err := parseFile(*resp, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("biocentro.mask.decode_failed: %v: %w", err, domain.ErrParse)
	}

	return &domain.Report{
		ExamCode: examCode,
		MimeType: mime,
		FileName: name,
		Content:  content,
	}, nil
}

func (a *Adapter) FetchReport(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, orderCode string) (*domain.Report, error) {
	resp, err := invoke[arquivoResponse](ctx, a, client, cfg, opObterLaudo, func(token string) interface{} {
		return pedidoRequest{tokenRequest{token}, orderCode}
	})
	if err != nil {
		return nil, err
	}

	mime, name, content, err := parseFile(*resp, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("biocentro.report.decode_failed: %v: %w", err, domain.ErrParse)
	}

	return &domain.Report{
		OrderCode: orderCode,
		MimeType:  mime,
		FileName:  name,
		Content:   content,
	}, nil
}

func (a *Adapter) QueryTraceability(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, orderCode string) ([]domain.TraceEvent, error) {
	resp, err := invoke[rastreioResponse](ctx, a, client, cfg, opRastrear, func(token string) interface{} {
		return pedidoRequest{tokenRequest{token}, orderCode}
	})
	if err != nil {
		return nil, err
	}

	return parseTraceEvents(*resp), nil
}

func (a *Adapter) ListExams(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig) ([]domain.ExamConfig, error) {
	resp, err := invoke[catalogoResponse](ctx, a, client, cfg, opCatalogoExames, func(token string) interface{} {
		return tokenRequest{Token: token}
	})
	if err != nil {
		return nil, err
	}

	exams := make([]domain.ExamConfig, 0, len(resp.Exames))
	for _, e := range resp.Exames {
		exams = append(exams, parseExamConfig(e))
	}
	return exams, nil
}

func (a *Adapter) GetExamInfo(ctx context.Context, client out.ProtocolClient, cfg domain.EffectiveConfig, examCode string) (*domain.ExamInfo, error) {
	resp, err := invoke[detalheExameResponse](ctx, a, client, cfg, opDetalheExame, func(token string) interface{} {
		return exameRequest{tokenRequest{token}, examCode}
	})
	if err != nil {
		return nil, err
	}

	return parseExamInfo(*resp), nil
}
