package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/savelyev/emergency_watch/internal/service"
)

type ContactRepository struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) service.ContactRepository {
	return &ContactRepository{db: db}
}

// ListFavourites возвращает избранные контакты владельца -
// только они уведомляются при SOS
func (r *ContactRepository) ListFavourites(ctx context.Context, ownerID string) ([]*models.Contact, error) {
	query := `
		SELECT id, owner_id, name, COALESCE(webhook_url, ''), is_favourite, created_at
		FROM contacts
		WHERE owner_id = $1 AND is_favourite = true
		ORDER BY created_at;
	`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favourite contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]*models.Contact, 0)
	for rows.Next() {
		contact := &models.Contact{}
		err := rows.Scan(
			&contact.ID,
			&contact.OwnerID,
			&contact.Name,
			&contact.WebhookURL,
			&contact.IsFavourite,
			&contact.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration in ListFavourites: %w", err)
	}
	return contacts, nil
}
