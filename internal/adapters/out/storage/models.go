package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinsys/lab-gateway/internal/core/domain"
)

// Relational rows owned by this service. Clinical entities live with
// the CRUD layer; this store only carries integration instances and
// their key/value configuration.

type instanceModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID `gorm:"type:uuid;index:idx_tenant_template,unique"`
	TemplateSlug string    `gorm:"index:idx_tenant_template,unique"`
	Code         string
	DisplayName  string
	Active       bool
	Status       string

	TimeoutSeconds int

	RequestsToday       int
	FailedAttempts      int
	ConsecutiveFailures int
	DailyResetDate      string

	LastAttemptAt *time.Time
	LastSyncAt    *time.Time
	LastError     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (instanceModel) TableName() string {
	return "tenant_integration_instances"
}

type configValueModel struct {
	InstanceID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key        string    `gorm:"primaryKey;column:key"`
	Value      string
	Encrypted  bool

	UpdatedAt time.Time
}

func (configValueModel) TableName() string {
	return "integration_config_values"
}

func (m instanceModel) toDomain() *domain.TenantIntegrationInstance {
	return &domain.TenantIntegrationInstance{
		ID:                  m.ID,
		TenantID:            m.TenantID,
		TemplateSlug:        m.TemplateSlug,
		Code:                m.Code,
		DisplayName:         m.DisplayName,
		Active:              m.Active,
		Status:              domain.InstanceStatus(m.Status),
		TimeoutSeconds:      m.TimeoutSeconds,
		RequestsToday:       m.RequestsToday,
		FailedAttempts:      m.FailedAttempts,
		ConsecutiveFailures: m.ConsecutiveFailures,
		DailyResetDate:      m.DailyResetDate,
		LastAttemptAt:       m.LastAttemptAt,
		LastSyncAt:          m.LastSyncAt,
		LastError:           m.LastError,
	}
}

func fromDomain(instance *domain.TenantIntegrationInstance) instanceModel {
	return instanceModel{
		ID:                  instance.ID,
		TenantID:            instance.TenantID,
		TemplateSlug:        instance.TemplateSlug,
		Code:                instance.Code,
		DisplayName:         instance.DisplayName,
		Active:              instance.Active,
		Status:              string(instance.Status),
		TimeoutSeconds:      instance.TimeoutSeconds,
		RequestsToday:       instance.RequestsToday,
		FailedAttempts:      instance.FailedAttempts,
		ConsecutiveFailures: instance.ConsecutiveFailures,
		DailyResetDate:      instance.DailyResetDate,
		LastAttemptAt:       instance.LastAttemptAt,
		LastSyncAt:          instance.LastSyncAt,
		LastError:           instance.LastError,
	}
}
