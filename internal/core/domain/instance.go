package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type InstanceStatus string

const (
	InstanceStatusConfiguring InstanceStatus = "EM_CONFIGURACAO"
	InstanceStatusActive      InstanceStatus = "ATIVA"
	InstanceStatusError       InstanceStatus = "ERRO"
	InstanceStatusMaintenance InstanceStatus = "MANUTENCAO"
	InstanceStatusInactive    InstanceStatus = "INATIVA"
)

// TenantIntegrationInstance is one tenant's concrete, credentialed
// activation of a template. Created by the external admin workflow;
// counters are mutated by the usage tracker after every remote call.
type TenantIntegrationInstance struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	TemplateSlug string
	Code         string
	DisplayName  string
	Active       bool
	Status       InstanceStatus

	TimeoutSeconds int

	RequestsToday       int
	FailedAttempts      int
	ConsecutiveFailures int
	DailyResetDate      string // YYYY-MM-DD of the day the counters belong to

	LastAttemptAt *time.Time
	LastSyncAt    *time.Time
	LastError     string
}

// UsageSnapshot is the read-only view of an instance's counters exposed
// by the usage-report operation.
type UsageSnapshot struct {
	InstanceID          uuid.UUID      `json:"instanceId"`
	TemplateSlug        string         `json:"templateSlug"`
	Status              InstanceStatus `json:"status"`
	RequestsToday       int            `json:"requestsToday"`
	FailedAttempts      int            `json:"failedAttempts"`
	ConsecutiveFailures int            `json:"consecutiveFailures"`
	DailyResetDate      string         `json:"dailyResetDate"`
	LastAttemptAt       *time.Time     `json:"lastAttemptAt,omitempty"`
	LastSyncAt          *time.Time     `json:"lastSyncAt,omitempty"`
	LastError           string         `json:"lastError,omitempty"`
}

// FallbackCacheKey is the sentinel used in place of a tenant id when an
// operation runs against the process-wide default configuration.
const FallbackCacheKey = "__fallback__"

// EffectiveConfig is the resolved, merged key/value view used for one
// call. Built on demand, never persisted.
type EffectiveConfig struct {
	TemplateSlug   string
	TenantID       *uuid.UUID
	InstanceID     *uuid.UUID
	TimeoutSeconds int
	Values         map[string]string
}

func (c EffectiveConfig) Get(key string) string {
	return c.Values[key]
}

func (c EffectiveConfig) GetInt(key string) int {
	n, err := strconv.Atoi(c.Values[key])
	if err != nil {
		return 0
	}
	return n
}

func (c EffectiveConfig) GetBool(key string) bool {
	b, err := strconv.ParseBool(c.Values[key])
	if err != nil {
		return false
	}
	return b
}

func (c EffectiveConfig) Endpoint() string {
	return c.Get(ConfigKeyEndpoint)
}

// Timeout falls back to the template timeout key when the instance has
// no explicit timeout.
func (c EffectiveConfig) Timeout() time.Duration {
	seconds := c.TimeoutSeconds
	if seconds == 0 {
		seconds = c.GetInt(ConfigKeyTimeout)
	}
	if seconds == 0 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}

// CacheKey scopes a connection-cache entry by template and tenant.
func (c EffectiveConfig) CacheKey() string {
	if c.TenantID == nil {
		return c.TemplateSlug + ":" + FallbackCacheKey
	}
	return c.TemplateSlug + ":" + c.TenantID.String()
}
