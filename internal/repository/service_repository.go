package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/servicecore/internal/model"
)

type ServiceRepo struct{ DB *sql.DB }

func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{DB: db} }

// ListActive returns the public service catalogue.
func (r *ServiceRepo) ListActive(ctx context.Context) ([]model.Service, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, name, description, base_price_cents, currency, is_active, created_at, updated_at
		 FROM services WHERE is_active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.BasePriceCents, &s.Currency,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID loads a single service, active or not (used when pricing a
// booking so a recently-deactivated service still resolves for audit).
func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (model.Service, error) {
	var s model.Service
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, description, base_price_cents, currency, is_active, created_at, updated_at
		 FROM services WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.Description, &s.BasePriceCents, &s.Currency, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// ProviderPriceCents returns a provider's override price for a service, or
// ok=false if the provider does not offer it.
func (r *ServiceRepo) ProviderPriceCents(ctx context.Context, providerID, serviceID uint64) (int64, bool, error) {
	var cents int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT price_cents FROM provider_services WHERE provider_id = ? AND service_id = ? AND is_active = TRUE`,
		providerID, serviceID).Scan(&cents)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return cents, true, nil
}
