package soap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

// recordingLogger captures emitted events so tests can assert on the
// audit trail.
type recordingLogger struct {
	mu     sync.Mutex
	events []string
	fields []out.LogFields
}

func (l *recordingLogger) record(event string, fields out.LogFields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	l.fields = append(l.fields, fields)
}

func (l *recordingLogger) Debug(event string, fields out.LogFields) { l.record(event, fields) }
func (l *recordingLogger) Info(event string, fields out.LogFields)  { l.record(event, fields) }
func (l *recordingLogger) Warn(event string, fields out.LogFields)  { l.record(event, fields) }
func (l *recordingLogger) Error(event string, fields out.LogFields) { l.record(event, fields) }

func (l *recordingLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l *recordingLogger) WithModule(string) out.LoggerPort        { return l }

func (l *recordingLogger) find(event string) (out.LogFields, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.events {
		if e == event {
			return l.fields[i], true
		}
	}
	return nil, false
}

func clientConfig(endpoint string, audit bool) domain.EffectiveConfig {
	values := map[string]string{
		domain.ConfigKeyEndpoint: endpoint,
	}
	if audit {
		values[domain.ConfigKeyAuditWire] = "true"
	}
	return domain.EffectiveConfig{
		TemplateSlug: domain.TemplateLabmax,
		Values:       values,
	}
}

func newClient(t *testing.T, logger out.LoggerPort, endpoint string, audit bool) out.ProtocolClient {
	t.Helper()

	client, err := NewFactory(logger)(clientConfig(endpoint, audit))
	assert.NoError(t, err)
	return client
}

func TestInvoke_PassesThroughPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "IncluirPedido", r.Header.Get("SOAPAction"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"Pedido": "PED-1"}`, string(body))

		w.Write([]byte(`{"Status": "0", "Protocolo": "LM-9"}`))
	}))
	defer server.Close()

	client := newClient(t, &recordingLogger{}, server.URL, false)

	raw, err := client.Invoke(context.Background(), "IncluirPedido", map[string]string{"Pedido": "PED-1"})

	assert.NoError(t, err)
	assert.JSONEq(t, `{"Status": "0", "Protocolo": "LM-9"}`, string(raw))
}

func TestInvoke_NonOKStatusIsRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newClient(t, &recordingLogger{}, server.URL, false)

	_, err := client.Invoke(context.Background(), "SituacaoPedido", struct{}{})

	assert.ErrorIs(t, err, domain.ErrRemoteInvocation)
}

func TestInvoke_TimeoutIsRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := &Client{
		http:     &http.Client{Timeout: 50 * time.Millisecond},
		endpoint: server.URL,
		logger:   &recordingLogger{},
	}

	_, err := client.Invoke(context.Background(), "SituacaoPedido", struct{}{})

	assert.ErrorIs(t, err, domain.ErrRemoteInvocation)
}

func TestInvoke_ConnectionRefusedIsRemoteFailure(t *testing.T) {
	// A closed server gives a refused connection instead of a timeout.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newClient(t, &recordingLogger{}, server.URL, false)

	_, err := client.Invoke(context.Background(), "SituacaoPedido", struct{}{})

	assert.ErrorIs(t, err, domain.ErrRemoteInvocation)
}

func TestInvoke_UnencodableParams(t *testing.T) {
	client := newClient(t, &recordingLogger{}, "https://lab.example/ws", false)

	_, err := client.Invoke(context.Background(), "IncluirPedido", map[string]interface{}{
		"bad": make(chan int),
	})

	assert.ErrorIs(t, err, domain.ErrRemoteInvocation)
}

func TestInvoke_AuditCapturesRawPayloads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status": "0"}`))
	}))
	defer server.Close()

	logger := &recordingLogger{}
	client := newClient(t, logger, server.URL, true)

	_, err := client.Invoke(context.Background(), "IncluirPedido", map[string]string{"Pedido": "PED-1"})
	assert.NoError(t, err)

	fields, ok := logger.find("soap.invoke.audit")
	assert.True(t, ok)
	assert.Equal(t, "IncluirPedido", fields["operation"])
	assert.JSONEq(t, `{"Pedido": "PED-1"}`, fields["request"].(string))
	assert.JSONEq(t, `{"Status": "0"}`, fields["response"].(string))
}

func TestInvoke_AuditOffStaysQuiet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status": "0"}`))
	}))
	defer server.Close()

	logger := &recordingLogger{}
	client := newClient(t, logger, server.URL, false)

	_, err := client.Invoke(context.Background(), "IncluirPedido", struct{}{})
	assert.NoError(t, err)

	_, ok := logger.find("soap.invoke.audit")
	assert.False(t, ok)
}

func TestFactory_RequiresEndpoint(t *testing.T) {
	_, err := NewFactory(&recordingLogger{})(domain.EffectiveConfig{
		TemplateSlug: domain.TemplateLabmax,
		Values:       map[string]string{},
	})

	assert.Error(t, err)
}

func TestFactory_TimeoutFromConfig(t *testing.T) {
	client, err := NewFactory(&recordingLogger{})(domain.EffectiveConfig{
		TemplateSlug: domain.TemplateLabmax,
		Values: map[string]string{
			domain.ConfigKeyEndpoint: "https://lab.example/ws",
			domain.ConfigKeyTimeout:  "45",
		},
	})
	assert.NoError(t, err)

	soapClient, ok := client.(*Client)
	assert.True(t, ok)
	assert.Equal(t, 45*time.Second, soapClient.http.Timeout)
}
