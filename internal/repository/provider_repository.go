package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/servicecore/internal/model"
)

type ProviderRepo struct{ DB *sql.DB }

func NewProviderRepo(db *sql.DB) *ProviderRepo { return &ProviderRepo{DB: db} }

// GetByUserID resolves the provider row for an authenticated PROVIDER user.
func (r *ProviderRepo) GetByUserID(ctx context.Context, userID uint64) (model.Provider, error) {
	var p model.Provider
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, business_name, is_active, is_online, created_at, updated_at
		 FROM providers WHERE user_id = ?`, userID).
		Scan(&p.ID, &p.UserID, &p.BusinessName, &p.IsActive, &p.IsOnline, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// GetByID loads a provider by its id.
func (r *ProviderRepo) GetByID(ctx context.Context, id uint64) (model.Provider, error) {
	var p model.Provider
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, business_name, is_active, is_online, created_at, updated_at
		 FROM providers WHERE id = ?`, id).
		Scan(&p.ID, &p.UserID, &p.BusinessName, &p.IsActive, &p.IsOnline, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create inserts a provider row tied to a user account.
func (r *ProviderRepo) Create(ctx context.Context, userID uint64, businessName string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO providers (user_id, business_name, is_active) VALUES (?,?,?)`,
		userID, businessName, true)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SetOnline flips a provider's dispatch eligibility flag.
func (r *ProviderRepo) SetOnline(ctx context.Context, providerID uint64, online bool) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE providers SET is_online = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		online, providerID)
	return err
}

// ListOnlineForService returns up to limit active, online providers who
// offer the given service, ordered by provider creation time so the
// resulting candidate list is deterministic and stable within a
// transaction.
func (r *ProviderRepo) ListOnlineForService(ctx context.Context, serviceID uint64, limit int) ([]uint64, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT p.id FROM providers p
		 JOIN provider_services ps ON ps.provider_id = p.id
		 WHERE ps.service_id = ? AND ps.is_active = TRUE AND p.is_active = TRUE AND p.is_online = TRUE
		 ORDER BY p.created_at ASC LIMIT ?`,
		serviceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpsertLocation writes or refreshes a provider's last-known coordinate.
// Kept for admin/reporting use only; the dispatch queue never reads it.
func (r *ProviderRepo) UpsertLocation(ctx context.Context, providerID uint64, lat, lng float64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO provider_locations (provider_id, lat, lng, updated_at)
		 VALUES (?,?,?,CURRENT_TIMESTAMP)
		 ON DUPLICATE KEY UPDATE lat = ?, lng = ?, updated_at = CURRENT_TIMESTAMP`,
		providerID, lat, lng, lat, lng)
	return err
}

// ListServices returns the services a provider offers, joined with their
// provider-specific price override.
func (r *ProviderRepo) ListServices(ctx context.Context, providerID uint64) ([]model.ProviderService, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT provider_id, service_id, price_cents, is_active, created_at
		 FROM provider_services WHERE provider_id = ? AND is_active = TRUE`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ProviderService
	for rows.Next() {
		var ps model.ProviderService
		if err := rows.Scan(&ps.ProviderID, &ps.ServiceID, &ps.PriceCents, &ps.IsActive, &ps.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}
