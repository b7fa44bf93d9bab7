package model

import "time"

// Provider represents a row in the `providers` table: a vendor who offers
// one or more services and claims bookings through the dispatch queue.
//
// Fields:
//  ID        – primary key identifier of the providers row (distinct from users.id).
//  UserID    – the account that authenticates as this provider.
//  BusinessName – display name shown to customers.
//  IsActive  – whether the provider can currently claim bookings.
//  IsOnline  – whether the provider is currently eligible for dispatch.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Provider struct {
	ID           uint64
	UserID       uint64
	BusinessName string
	IsActive     bool
	IsOnline     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProviderLocation models an optional last-known coordinate for a provider.
// Kept only as an admin/reporting join target; the dispatch queue does not
// use it for matching.
type ProviderLocation struct {
	ProviderID uint64
	Lat        float64
	Lng        float64
	UpdatedAt  time.Time
}

// Service represents a row in the `services` table: a catalogue entry a
// customer can book (e.g. "Plumbing inspection", "House cleaning").
type Service struct {
	ID          uint64
	Name        string
	Description string
	BasePriceCents int64
	Currency    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProviderService is a join row linking a Provider to a Service it offers,
// with a provider-specific price override.
type ProviderService struct {
	ProviderID   uint64
	ServiceID    uint64
	PriceCents   int64
	IsActive     bool
	CreatedAt    time.Time
}
