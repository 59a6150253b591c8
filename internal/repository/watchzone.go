package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/savelyev/emergency_watch/internal/service"
)

const watchZoneColumns = `
	id,
	owner_id,
	name,
	ST_Y(center::geometry) as latitude,
	ST_X(center::geometry) as longitude,
	COALESCE(address, ''),
	radius_meters,
	is_active,
	last_alerted_at,
	created_at
`

type WatchZoneRepository struct {
	db *pgxpool.Pool
}

func NewWatchZoneRepository(db *pgxpool.Pool) service.WatchZoneRepository {
	return &WatchZoneRepository{db: db}
}

// Create создает новую зону наблюдения в бд
func (r *WatchZoneRepository) Create(ctx context.Context, zone *models.WatchZone) error {
	query := `
		INSERT INTO watch_zones (owner_id, name, center, address, radius_meters, is_active)
		VALUES ($1, $2, ST_SetSRID(ST_MakePoint($3, $4), 4326), $5, $6, $7)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		zone.OwnerID,
		zone.Name,
		zone.Center.Longitude,
		zone.Center.Latitude,
		zone.Center.Address,
		zone.RadiusMeters,
		zone.IsActive,
	).Scan(&zone.ID, &zone.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create watch zone: %w", err)
	}
	return nil
}

// GetByID возвращает зону наблюдения по ее UUID
func (r *WatchZoneRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WatchZone, error) {
	query := `SELECT ` + watchZoneColumns + ` FROM watch_zones WHERE id = $1;`
	zone, err := scanWatchZone(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("watch zone with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get watch zone by id: %w", err)
	}
	return zone, nil
}

// ListByOwner возвращает зоны наблюдения владельца
func (r *WatchZoneRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.WatchZone, error) {
	query := `
		SELECT ` + watchZoneColumns + `
		FROM watch_zones
		WHERE owner_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch zones: %w", err)
	}
	defer rows.Close()

	zones := make([]*models.WatchZone, 0)
	for rows.Next() {
		zone, err := scanWatchZone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch zone row: %w", err)
		}
		zones = append(zones, zone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration in ListByOwner: %w", err)
	}
	return zones, nil
}

// Update обновляет зону наблюдения
func (r *WatchZoneRepository) Update(ctx context.Context, zone *models.WatchZone) error {
	query := `
		UPDATE watch_zones SET
			name = $2,
			center = ST_SetSRID(ST_MakePoint($3, $4), 4326),
			address = $5,
			radius_meters = $6,
			is_active = $7
		WHERE id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		zone.ID,
		zone.Name,
		zone.Center.Longitude,
		zone.Center.Latitude,
		zone.Center.Address,
		zone.RadiusMeters,
		zone.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update watch zone: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("watch zone with id %s: %w", zone.ID, models.ErrNotFound)
	}
	return nil
}

// Delete удаляет зону наблюдения
func (r *WatchZoneRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM watch_zones WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete watch zone: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("watch zone with id %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// MarkAlerted фиксирует момент последнего срабатывания зоны
func (r *WatchZoneRepository) MarkAlerted(ctx context.Context, id uuid.UUID, at time.Time) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE watch_zones SET last_alerted_at = $2 WHERE id = $1;`, id, at)
	if err != nil {
		return fmt.Errorf("failed to mark watch zone alerted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("watch zone with id %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// scanWatchZone читает одну строку зоны наблюдения
func scanWatchZone(row pgx.Row) (*models.WatchZone, error) {
	zone := &models.WatchZone{}
	err := row.Scan(
		&zone.ID,
		&zone.OwnerID,
		&zone.Name,
		&zone.Center.Latitude,
		&zone.Center.Longitude,
		&zone.Center.Address,
		&zone.RadiusMeters,
		&zone.IsActive,
		&zone.LastAlertedAt,
		&zone.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return zone, nil
}
