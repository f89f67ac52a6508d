package persistence

import (
	"context"
	"errors"

	"github.com/gestor/backend/internal/domain/ledger"
	"github.com/gestor/backend/internal/domain/shared"
	"github.com/gestor/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTenantRepository implements ledger.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID, active or not
func (r *GormTenantRepository) FindByID(ctx context.Context, id int64) (*ledger.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListActive returns the active tenants ordered by name
func (r *GormTenantRepository) ListActive(ctx context.Context) ([]ledger.Tenant, error) {
	var rows []models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("ativa = ?", true).
		Order("nome ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	tenants := make([]ledger.Tenant, 0, len(rows))
	for i := range rows {
		tenants = append(tenants, *rows[i].ToDomain())
	}
	return tenants, nil
}

// CountActiveUsers counts active users per tenant. Tenants without users are absent from the map.
func (r *GormTenantRepository) CountActiveUsers(ctx context.Context, tenantIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(tenantIDs))
	if len(tenantIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TenantID int64
		Count    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Select("empresa_id AS tenant_id, COUNT(*) AS count").
		Where("empresa_id IN ?", tenantIDs).
		Where("is_active = ?", true).
		Group("empresa_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TenantID] = row.Count
	}
	return counts, nil
}
