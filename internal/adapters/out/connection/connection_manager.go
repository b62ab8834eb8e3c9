package connection

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

type clientEntry struct {
	client    out.ProtocolClient
	cfg       domain.EffectiveConfig
	createdAt time.Time

	token          string
	tokenExpiresAt time.Time
}

// Manager owns the protocol-client cache and the token cache attached
// to it. One instance per process, injected wherever a connection is
// needed. Construction for a never-seen key runs under per-key
// single-flight so concurrent first accesses perform one upstream
// construction.
type Manager struct {
	clients   *lru.Cache[string, *clientEntry]
	mu        sync.RWMutex
	group     singleflight.Group
	resolver  out.ConfigResolverPort
	factories map[string]out.ClientFactory
	clientTTL time.Duration
	tokenTTL  time.Duration
	clock     out.Clock
	logger    out.LoggerPort
}

type ManagerOptions struct {
	ClientTTL time.Duration
	TokenTTL  time.Duration
	CacheSize int
	Clock     out.Clock
}

func NewManager(
	resolver out.ConfigResolverPort,
	factories map[string]out.ClientFactory,
	opts ManagerOptions,
	logger out.LoggerPort,
) (*Manager, error) {
	if opts.ClientTTL == 0 {
		opts.ClientTTL = 30 * time.Minute
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 55 * time.Minute
	}
	if opts.CacheSize == 0 {
		opts.CacheSize = 512
	}
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}

	clients, err := lru.New[string, *clientEntry](opts.CacheSize)
	if err != nil {
		logger.Error("connection.cache.init_failed", out.LogFields{
			"error": err.Error(),
			"size":  opts.CacheSize,
		})
		return nil, err
	}

	return &Manager{
		clients:   clients,
		resolver:  resolver,
		factories: factories,
		clientTTL: opts.ClientTTL,
		tokenTTL:  opts.TokenTTL,
		clock:     opts.Clock,
		logger:    logger.WithModule("ConnectionManager"),
	}, nil
}

// TokenTTL is the configured token lifetime, kept strictly below the
// vendors' own validity window.
func (m *Manager) TokenTTL() time.Duration {
	return m.tokenTTL
}

func cacheKey(templateSlug string, tenantID *uuid.UUID) string {
	if tenantID == nil {
		return templateSlug + ":" + domain.FallbackCacheKey
	}
	return templateSlug + ":" + tenantID.String()
}

func (m *Manager) GetClient(ctx context.Context, templateSlug string, tenantID *uuid.UUID) (out.ProtocolClient, domain.EffectiveConfig, error) {
	key := cacheKey(templateSlug, tenantID)

	m.mu.RLock()
	entry, exists := m.clients.Get(key)
	m.mu.RUnlock()

	if exists && m.clock.Now().Sub(entry.createdAt) < m.clientTTL {
		m.logger.Debug("connection.client.cache_hit", out.LogFields{
			"key": key,
		})
		return entry.client, entry.cfg, nil
	}

	result, err, _ := m.group.Do(key, func() (interface{}, error) {
		// A concurrent flight may have stored a fresh entry already.
		m.mu.RLock()
		entry, exists := m.clients.Get(key)
		m.mu.RUnlock()
		if exists && m.clock.Now().Sub(entry.createdAt) < m.clientTTL {
			return entry, nil
		}
		// The flight is shared by every concurrent waiter, so it must
		// not die with the first caller's context.
		return m.construct(context.WithoutCancel(ctx), templateSlug, tenantID, key)
	})
	if err != nil {
		return nil, domain.EffectiveConfig{}, err
	}

	entry = result.(*clientEntry)
	return entry.client, entry.cfg, nil
}

func (m *Manager) construct(ctx context.Context, templateSlug string, tenantID *uuid.UUID, key string) (*clientEntry, error) {
	cfg, _, err := m.resolver.Resolve(ctx, templateSlug, tenantID, out.ResolveOptions{})
	if err != nil {
		return nil, err
	}

	factory, ok := m.factories[templateSlug]
	if !ok {
		return nil, fmt.Errorf("connection.client.no_factory for template %q: %w", templateSlug, domain.ErrConnectionFailure)
	}

	client, err := factory(cfg)
	if err != nil {
		m.logger.Error("connection.client.construct_failed", out.LogFields{
			"key":   key,
			"error": err.Error(),
		})
		// Nothing is cached on failure; the next caller retries.
		return nil, fmt.Errorf("connection.client.construct_failed: %w", domain.ErrConnectionFailure)
	}

	entry := &clientEntry{
		client:    client,
		cfg:       cfg,
		createdAt: m.clock.Now(),
	}

	m.mu.Lock()
	m.clients.Add(key, entry)
	m.mu.Unlock()

	m.logger.Info("connection.client.constructed", out.LogFields{
		"key":      key,
		"endpoint": client.Endpoint(),
	})

	return entry, nil
}

func (m *Manager) GetToken(templateSlug string, tenantID *uuid.UUID) (string, bool) {
	key := cacheKey(templateSlug, tenantID)

	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.clients.Get(key)
	if !exists || entry.token == "" {
		return "", false
	}
	if !m.clock.Now().Before(entry.tokenExpiresAt) {
		return "", false
	}

	return entry.token, true
}

func (m *Manager) SetToken(templateSlug string, tenantID *uuid.UUID, token string) {
	key := cacheKey(templateSlug, tenantID)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Tokens attach to the client entry; without one there is nothing
	// to attach to and the next GetClient rebuilds both anyway.
	entry, exists := m.clients.Get(key)
	if !exists {
		return
	}

	entry.token = token
	entry.tokenExpiresAt = m.clock.Now().Add(m.tokenTTL)
	m.clients.Add(key, entry)
}

func (m *Manager) ClearToken(templateSlug string, tenantID *uuid.UUID) {
	key := cacheKey(templateSlug, tenantID)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.clients.Get(key)
	if !exists {
		return
	}

	entry.token = ""
	entry.tokenExpiresAt = time.Time{}
}

// Clear evicts one tenant's entries across all templates, or the whole
// cache when tenantID is nil.
func (m *Manager) Clear(tenantID *uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if tenantID == nil {
		m.clients.Purge()
		m.logger.Info("connection.cache.purged", out.LogFields{})
		return
	}

	suffix := ":" + tenantID.String()
	for _, key := range m.clients.Keys() {
		if strings.HasSuffix(key, suffix) {
			m.clients.Remove(key)
		}
	}

	m.logger.Info("connection.cache.tenant_cleared", out.LogFields{
		"tenantId": tenantID,
	})
}
