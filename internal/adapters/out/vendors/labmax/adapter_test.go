package labmax

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

type stubClient struct {
	InvokeFunc func(ctx context.Context, operation string, params interface{}) (json.RawMessage, error)

	lastOperation string
	lastParams    interface{}
}

func (c *stubClient) Invoke(ctx context.Context, operation string, params interface{}) (json.RawMessage, error) {
	c.lastOperation = operation
	c.lastParams = params
	return c.InvokeFunc(ctx, operation, params)
}

func (c *stubClient) Endpoint() string {
	return "https://lab.example/ws"
}

type noopLogger struct{}

func (noopLogger) Debug(string, out.LogFields) {}
func (noopLogger) Info(string, out.LogFields)  {}
func (noopLogger) Warn(string, out.LogFields)  {}
func (noopLogger) Error(string, out.LogFields) {}

func (l noopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l noopLogger) WithModule(string) out.LoggerPort        { return l }

func testConfig() domain.EffectiveConfig {
	return domain.EffectiveConfig{
		TemplateSlug: domain.TemplateLabmax,
		Values: map[string]string{
			domain.ConfigKeyLabCode:  "CLI001",
			domain.ConfigKeyPassword: "secret",
			domain.ConfigKeyPrinter:  "zebra",
		},
	}
}

func respondWith(payload string) *stubClient {
	return &stubClient{
		InvokeFunc: func(ctx context.Context, operation string, params interface{}) (json.RawMessage, error) {
			return json.RawMessage(payload), nil
		},
	}
}

func TestSubmitOrder_ParsesLabelsAndWarnings(t *testing.T) {
	// Single Etiqueta arrives as a bare object, Aviso as an array.
	client := respondWith(`{
		"Status": "0",
		"Protocolo": "PROTO-9",
		"Etiquetas": {
			"Etiqueta": {
				"Codigo": "E1",
				"CodigoBarras": "789123",
				"Material": "SORO",
				"Recipiente": "Tubo seco",
				"Vias": "2",
				"Conteudo": "<!-- <etiqueta codigo=\"E1\"/> -->"
			}
		},
		"Avisos": {"Aviso": ["Paciente sem convênio", ""]}
	}`)
	adapter := NewAdapter(noopLogger{})

	confirmation, err := adapter.SubmitOrder(context.Background(), client, testConfig(), domain.OrderSubmission{
		OrderCode:   "PED-1",
		PatientName: "Maria Souza",
		Exams:       []domain.ExamRequest{{Code: "TSH"}},
	})

	assert.NoError(t, err)
	assert.Equal(t, opIncluirPedido, client.lastOperation)
	assert.Equal(t, "PED-1", confirmation.OrderCode)
	assert.Equal(t, "PROTO-9", confirmation.ProtocolCode)
	assert.True(t, confirmation.Accepted)
	assert.Len(t, confirmation.Labels, 1)
	assert.Equal(t, "E1", confirmation.Labels[0].Code)
	assert.Equal(t, "789123", confirmation.Labels[0].Barcode)
	assert.Equal(t, 2, confirmation.Labels[0].Copies)
	assert.Equal(t, []string{"Paciente sem convênio"}, confirmation.Messages)

	req, ok := client.lastParams.(incluirPedidoRequest)
	assert.True(t, ok)
	assert.Equal(t, "CLI001", req.Codigo)
	assert.Equal(t, "secret", req.Senha)
	assert.Equal(t, "zebra", req.Pedido.Impressora)
}

func TestSubmitOrder_VendorStatusBecomesVendorError(t *testing.T) {
	client := respondWith(`{"Status": "104", "Mensagem": "Pedido duplicado"}`)
	adapter := NewAdapter(noopLogger{})

	_, err := adapter.SubmitOrder(context.Background(), client, testConfig(), domain.OrderSubmission{
		OrderCode:   "PED-1",
		PatientName: "Maria Souza",
		Exams:       []domain.ExamRequest{{Code: "TSH"}},
	})

	var vendorErr *domain.VendorError
	assert.ErrorAs(t, err, &vendorErr)
	assert.Equal(t, "104", vendorErr.Code)
	assert.Equal(t, "Pedido duplicado", vendorErr.Message)
	assert.ErrorIs(t, err, domain.ErrRemoteInvocation)
}

func TestQueryResult_MalformedPayloadIsParseError(t *testing.T) {
	client := respondWith(`<html>gateway timeout</html>`)
	adapter := NewAdapter(noopLogger{})

	_, err := adapter.QueryResult(context.Background(), client, testConfig(), "PED-1")

	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestQueryResult_TransportErrorPassesThrough(t *testing.T) {
	transportErr := errors.New("dial tcp: connection refused")
	client := &stubClient{
		InvokeFunc: func(ctx context.Context, operation string, params interface{}) (json.RawMessage, error) {
			return nil, transportErr
		},
	}
	adapter := NewAdapter(noopLogger{})

	_, err := adapter.QueryResult(context.Background(), client, testConfig(), "PED-1")

	assert.ErrorIs(t, err, transportErr)
}

func TestQueryResult_ParsesItems(t *testing.T) {
	client := respondWith(`{
		"Status": 0,
		"Resultado": {
			"Pedido": "PED-1",
			"Paciente": "Maria Souza",
			"Situacao": "LIBERADO",
			"Parcial": "0",
			"Itens": {
				"Item": [
					{
						"CodigoExame": "TSH",
						"Valor": "2.31",
						"Unidade": "mUI/L",
						"Anormal": "s",
						"DataLiberacao": "15/03/2026 10:30:00"
					}
				]
			},
			"UrlLaudo": "https://lab.example/laudo/PED-1"
		}
	}`)
	adapter := NewAdapter(noopLogger{})

	result, err := adapter.QueryResult(context.Background(), client, testConfig(), "PED-1")

	assert.NoError(t, err)
	assert.Equal(t, "PED-1", result.OrderCode)
	assert.Equal(t, "LIBERADO", result.Status)
	assert.False(t, result.Partial)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, "TSH", result.Items[0].ExamCode)
	assert.Equal(t, "2.31", result.Items[0].Value)
	assert.True(t, result.Items[0].Abnormal)
	assert.NotNil(t, result.Items[0].ReleasedAt)
	assert.Equal(t, "https://lab.example/laudo/PED-1", result.ReportURL)
}

func TestQueryResultBatch_SingletonResultado(t *testing.T) {
	client := respondWith(`{
		"Status": "0",
		"Resultados": {"Resultado": {"Pedido": "PED-2", "Situacao": "EM_ANALISE"}}
	}`)
	adapter := NewAdapter(noopLogger{})

	results, err := adapter.QueryResultBatch(context.Background(), client, testConfig(), []string{"PED-2"})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "PED-2", results[0].OrderCode)
	assert.Equal(t, opConsultarResultadoLote, client.lastOperation)
}

func TestReprintLabels_MarkupFallback(t *testing.T) {
	// Flat fields absent; barcode, material and recipient come from the
	// embedded document.
	client := respondWith(`{
		"Status": "0",
		"Etiquetas": {
			"Etiqueta": {
				"Conteudo": "<!-- <etiqueta codigo=\"E7\" material=\"EDTA\"><codigobarras>456</codigobarras><recipiente>Tubo roxo</recipiente></etiqueta> -->"
			}
		}
	}`)
	adapter := NewAdapter(noopLogger{})

	labels, err := adapter.ReprintLabels(context.Background(), client, testConfig(), "PED-1")

	assert.NoError(t, err)
	assert.Len(t, labels, 1)
	assert.Equal(t, "E7", labels[0].Code)
	assert.Equal(t, "456", labels[0].Barcode)
	assert.Equal(t, "EDTA", labels[0].Material)
	assert.Equal(t, "Tubo roxo", labels[0].Recipient)
}

func TestFetchReport_DecodesBase64(t *testing.T) {
	content := base64.StdEncoding.EncodeToString([]byte("%PDF-1.7 fake"))
	client := respondWith(`{
		"Status": "0",
		"Laudo": {"Conteudo": "` + content + `", "NomeArquivo": "laudo.pdf"}
	}`)
	adapter := NewAdapter(noopLogger{})

	report, err := adapter.FetchReport(context.Background(), client, testConfig(), "PED-1")

	assert.NoError(t, err)
	assert.Equal(t, "PED-1", report.OrderCode)
	assert.Equal(t, []byte("%PDF-1.7 fake"), report.Content)
	assert.Equal(t, "laudo.pdf", report.FileName)
	// MimeType falls back when the vendor omits it.
	assert.Equal(t, "application/pdf", report.MimeType)
}

func TestFetchReport_BadBase64IsParseError(t *testing.T) {
	client := respondWith(`{"Status": "0", "Laudo": {"Conteudo": "not-base64!!"}}`)
	adapter := NewAdapter(noopLogger{})

	_, err := adapter.FetchReport(context.Background(), client, testConfig(), "PED-1")

	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestGetExamInfo_ParsesSynonymsAndPreparations(t *testing.T) {
	client := respondWith(`{
		"Status": "0",
		"Exame": {
			"Codigo": "GLI",
			"Nome": "Glicose",
			"PrazoDias": "1",
			"Jejum": "sim",
			"Sinonimos": {"Sinonimo": ["Glicemia", "Glicose sérica"]},
			"Preparos": {"Preparo": "Jejum de 8 horas"}
		}
	}`)
	adapter := NewAdapter(noopLogger{})

	info, err := adapter.GetExamInfo(context.Background(), client, testConfig(), "GLI")

	assert.NoError(t, err)
	assert.Equal(t, "GLI", info.Code)
	assert.Equal(t, 1, info.DeadlineDays)
	assert.True(t, info.RequiresFasting)
	assert.Equal(t, []string{"Glicemia", "Glicose sérica"}, info.Synonyms)
	assert.Equal(t, []string{"Jejum de 8 horas"}, info.Preparations)
}

func TestParseLabel_Idempotent(t *testing.T) {
	dto := etiquetaDTO{
		Conteudo: `<!-- <etiqueta codigo="E1" material="SORO"><codigobarras>123</codigobarras></etiqueta> -->`,
	}

	first := parseLabel(dto)
	second := parseLabel(dto)

	assert.Equal(t, first, second)
	assert.Equal(t, "E1", first.Code)
	assert.Equal(t, "123", first.Barcode)
}
