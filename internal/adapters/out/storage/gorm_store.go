package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clinsys/lab-gateway/internal/core/domain"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

// GormStore implements both the config store and the usage store on the
// clinic's relational database.
type GormStore struct {
	db     *gorm.DB
	logger out.LoggerPort
}

func NewGormStore(dsn string, logger out.LoggerPort) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("storage.connect_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	if err := db.AutoMigrate(&instanceModel{}, &configValueModel{}); err != nil {
		return nil, fmt.Errorf("storage.migrate_failed: %w", err)
	}

	return &GormStore{
		db:     db,
		logger: logger.WithModule("GormStore"),
	}, nil
}

func (s *GormStore) FindInstance(ctx context.Context, tenantID uuid.UUID, templateSlug string) (*domain.TenantIntegrationInstance, error) {
	var model instanceModel
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND template_slug = ?", tenantID, templateSlug).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return model.toDomain(), nil
}

func (s *GormStore) ListValues(ctx context.Context, instanceID uuid.UUID) (map[string]string, error) {
	var rows []configValueModel
	if err := s.db.WithContext(ctx).
		Where("instance_id = ?", instanceID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

func (s *GormStore) GetInstance(ctx context.Context, instanceID uuid.UUID) (*domain.TenantIntegrationInstance, error) {
	var model instanceModel
	err := s.db.WithContext(ctx).First(&model, "id = ?", instanceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("storage.instance_not_found %s: %w", instanceID, domain.ErrConfigurationMissing)
	}
	if err != nil {
		return nil, err
	}

	return model.toDomain(), nil
}

func (s *GormStore) SaveInstance(ctx context.Context, instance *domain.TenantIntegrationInstance) error {
	model := fromDomain(instance)
	return s.db.WithContext(ctx).Save(&model).Error
}
