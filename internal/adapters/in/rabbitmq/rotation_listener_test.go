package rabbitmq

import (
	"context"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

var _ out.ConnectionPort = (*fakePool)(nil)

type fakePool struct {
	cleared []*uuid.UUID
}

func (p *fakePool) GetClient(ctx context.Context, templateSlug string, tenantID *uuid.UUID) (out.ProtocolClient, domain.EffectiveConfig, error) {
	return nil, domain.EffectiveConfig{}, nil
}

func (p *fakePool) GetToken(templateSlug string, tenantID *uuid.UUID) (string, bool) {
	return "", false
}

func (p *fakePool) SetToken(templateSlug string, tenantID *uuid.UUID, token string) {}
func (p *fakePool) ClearToken(templateSlug string, tenantID *uuid.UUID)            {}

func (p *fakePool) Clear(tenantID *uuid.UUID) {
	p.cleared = append(p.cleared, tenantID)
}

type noopLogger struct{}

func (noopLogger) Debug(string, out.LogFields) {}
func (noopLogger) Info(string, out.LogFields)  {}
func (noopLogger) Warn(string, out.LogFields)  {}
func (noopLogger) Error(string, out.LogFields) {}

func (l noopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l noopLogger) WithModule(string) out.LoggerPort        { return l }

func newTestListener(pool *fakePool) *RotationListener {
	return &RotationListener{
		pool:   pool,
		logger: noopLogger{},
	}
}

func TestParseRotationRoutingKey(t *testing.T) {
	key, err := parseRotationRoutingKey("admin.lab-gateway.credentials.3f0e8a1c-1111-2222-3333-444455556666.rotated")

	assert.NoError(t, err)
	assert.Equal(t, "admin", key.Source)
	assert.Equal(t, "lab-gateway", key.Receiver)
	assert.Equal(t, RotationResourceCredentials, key.Resource)
	assert.Equal(t, "3f0e8a1c-1111-2222-3333-444455556666", key.TenantID)
	assert.Equal(t, RotationActionRotated, key.Action)
}

func TestParseRotationRoutingKey_TooShort(t *testing.T) {
	_, err := parseRotationRoutingKey("admin.lab-gateway.credentials")

	assert.Error(t, err)
}

func TestProcessMessage_ClearsOneTenant(t *testing.T) {
	pool := &fakePool{}
	listener := newTestListener(pool)
	tenantID := uuid.New()

	err := listener.processMessage(context.Background(), amqp.Delivery{
		RoutingKey: "admin.lab-gateway.instance." + tenantID.String() + ".updated",
	})

	assert.NoError(t, err)
	assert.Len(t, pool.cleared, 1)
	assert.Equal(t, tenantID, *pool.cleared[0])
}

func TestProcessMessage_ClearsEverything(t *testing.T) {
	pool := &fakePool{}
	listener := newTestListener(pool)

	err := listener.processMessage(context.Background(), amqp.Delivery{
		RoutingKey: "admin.lab-gateway.credentials._all_.rotated",
	})

	assert.NoError(t, err)
	assert.Len(t, pool.cleared, 1)
	assert.Nil(t, pool.cleared[0])
}

func TestProcessMessage_BadTenantID(t *testing.T) {
	pool := &fakePool{}
	listener := newTestListener(pool)

	err := listener.processMessage(context.Background(), amqp.Delivery{
		RoutingKey: "admin.lab-gateway.credentials.not-a-uuid.rotated",
	})

	assert.Error(t, err)
	assert.Empty(t, pool.cleared)
}
