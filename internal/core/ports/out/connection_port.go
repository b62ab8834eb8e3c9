package out

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
)

// ProtocolClient is one constructed remote-protocol client, bound to an
// endpoint and timeout. Invoke performs a single named remote operation
// and returns the raw vendor payload; it is the only untyped boundary
// in the system.
type ProtocolClient interface {
	Invoke(ctx context.Context, operation string, params interface{}) (json.RawMessage, error)
	Endpoint() string
}

// ClientFactory builds a protocol client from a resolved configuration.
// Registered per template at wiring time.
type ClientFactory func(cfg domain.EffectiveConfig) (ProtocolClient, error)

// ConnectionPort owns the client and token caches. Clients expire on
// their own TTL; tokens are attached to the client entry with an
// independent, shorter TTL.
type ConnectionPort interface {
	// GetClient returns the cached client for (template, tenant) or
	// lazily constructs one from freshly resolved configuration.
	GetClient(ctx context.Context, templateSlug string, tenantID *uuid.UUID) (ProtocolClient, domain.EffectiveConfig, error)

	// GetToken returns the cached auth token for the pair, if still
	// valid.
	GetToken(templateSlug string, tenantID *uuid.UUID) (string, bool)

	// SetToken stores a freshly acquired token; the implementation
	// stamps the expiry from its token TTL.
	SetToken(templateSlug string, tenantID *uuid.UUID, token string)

	// ClearToken drops the token without touching the client entry.
	ClearToken(templateSlug string, tenantID *uuid.UUID)

	// Clear evicts one tenant's entries, or everything when tenantID
	// is nil. Used after credential rotation.
	Clear(tenantID *uuid.UUID)
}

// Clock abstracts time for the TTL checks so cache behavior is
// deterministic under test.
type Clock interface {
	Now() time.Time
}
