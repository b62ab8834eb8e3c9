package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
)

// MemoryStore is the in-process implementation of the config and usage
// stores, used by tests and when no database is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	instances map[uuid.UUID]*domain.TenantIntegrationInstance
	values    map[uuid.UUID]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		instances: make(map[uuid.UUID]*domain.TenantIntegrationInstance),
		values:    make(map[uuid.UUID]map[string]string),
	}
}

// PutInstance seeds or replaces one instance.
func (s *MemoryStore) PutInstance(instance domain.TenantIntegrationInstance) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := instance
	s.instances[instance.ID] = &copied
}

// PutValue seeds one configuration row.
func (s *MemoryStore) PutValue(instanceID uuid.UUID, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values[instanceID] == nil {
		s.values[instanceID] = make(map[string]string)
	}
	s.values[instanceID][key] = value
}

func (s *MemoryStore) FindInstance(ctx context.Context, tenantID uuid.UUID, templateSlug string) (*domain.TenantIntegrationInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, instance := range s.instances {
		if instance.TenantID == tenantID && instance.TemplateSlug == templateSlug {
			copied := *instance
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) ListValues(ctx context.Context, instanceID uuid.UUID) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make(map[string]string, len(s.values[instanceID]))
	for k, v := range s.values[instanceID] {
		values[k] = v
	}
	return values, nil
}

func (s *MemoryStore) GetInstance(ctx context.Context, instanceID uuid.UUID) (*domain.TenantIntegrationInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	instance, ok := s.instances[instanceID]
	if !ok {
		return nil, fmt.Errorf("storage.instance_not_found %s: %w", instanceID, domain.ErrConfigurationMissing)
	}

	copied := *instance
	return &copied, nil
}

func (s *MemoryStore) SaveInstance(ctx context.Context, instance *domain.TenantIntegrationInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *instance
	s.instances[instance.ID] = &copied
	return nil
}
