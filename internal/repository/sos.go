package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/savelyev/emergency_watch/internal/service"
)

const sosColumns = `
	id,
	sender_id,
	ST_Y(location::geometry) as latitude,
	ST_X(location::geometry) as longitude,
	COALESCE(address, ''),
	contacts_notified,
	nearby_responders,
	status,
	created_at,
	resolved_at
`

type SOSRepository struct {
	db *pgxpool.Pool
}

func NewSOSRepository(db *pgxpool.Pool) service.SOSRepository {
	return &SOSRepository{db: db}
}

// Create создает новую запись о сигнале бедствия в бд
func (r *SOSRepository) Create(ctx context.Context, alert *models.SOSAlert) error {
	notified, err := json.Marshal(alert.ContactsNotified)
	if err != nil {
		return fmt.Errorf("failed to marshal contact notifications: %w", err)
	}

	query := `
		INSERT INTO sos_alerts (sender_id, location, address, contacts_notified, nearby_responders, status)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326), $4, $5, $6, $7)
		RETURNING id, created_at;
	`
	err = r.db.QueryRow(ctx, query,
		alert.SenderID,
		alert.Location.Longitude,
		alert.Location.Latitude,
		alert.Location.Address,
		notified,
		alert.NearbyRespondersNotified,
		alert.Status,
	).Scan(&alert.ID, &alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create SOS alert: %w", err)
	}
	return nil
}

// ListBySender возвращает сигналы отправителя, свежие первыми
func (r *SOSRepository) ListBySender(ctx context.Context, senderID string, limit int) ([]*models.SOSAlert, error) {
	query := `
		SELECT ` + sosColumns + `
		FROM sos_alerts
		WHERE sender_id = $1
		ORDER BY created_at DESC
		LIMIT NULLIF($2, 0);
	`
	rows, err := r.db.Query(ctx, query, senderID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list SOS alerts by sender: %w", err)
	}
	return collectSOSAlerts(rows, "ListBySender")
}

// ListCreatedSince возвращает сигналы, созданные не раньше since,
// свежие первыми
func (r *SOSRepository) ListCreatedSince(ctx context.Context, since time.Time, limit int) ([]*models.SOSAlert, error) {
	query := `
		SELECT ` + sosColumns + `
		FROM sos_alerts
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT NULLIF($2, 0);
	`
	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list SOS alerts since: %w", err)
	}
	return collectSOSAlerts(rows, "ListCreatedSince")
}

// collectSOSAlerts читает все строки выборки сигналов
func collectSOSAlerts(rows pgx.Rows, method string) ([]*models.SOSAlert, error) {
	defer rows.Close()

	alerts := make([]*models.SOSAlert, 0)
	for rows.Next() {
		alert := &models.SOSAlert{}
		var notified []byte
		err := rows.Scan(
			&alert.ID,
			&alert.SenderID,
			&alert.Location.Latitude,
			&alert.Location.Longitude,
			&alert.Location.Address,
			&notified,
			&alert.NearbyRespondersNotified,
			&alert.Status,
			&alert.CreatedAt,
			&alert.ResolvedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan SOS alert row in %s: %w", method, err)
		}
		if len(notified) > 0 {
			if err := json.Unmarshal(notified, &alert.ContactsNotified); err != nil {
				return nil, fmt.Errorf("failed to unmarshal contact notifications: %w", err)
			}
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration in %s: %w", method, err)
	}
	return alerts, nil
}
