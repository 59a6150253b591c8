package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/savelyev/emergency_watch/internal/confidence"
	"github.com/savelyev/emergency_watch/internal/models"
	"github.com/savelyev/emergency_watch/internal/service"
)

// responderCountCap - верхняя граница подсчета респондентов рядом с SOS
const responderCountCap = 50

const incidentColumns = `
	id,
	reporter_id,
	type,
	severity,
	ST_Y(location::geometry) as latitude,
	ST_X(location::geometry) as longitude,
	COALESCE(address, ''),
	COALESCE(description, ''),
	confidence,
	status,
	created_at,
	resolved_at
`

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	conf, err := json.Marshal(incident.Confidence)
	if err != nil {
		return fmt.Errorf("failed to marshal confidence: %w", err)
	}

	query := `
		INSERT INTO incidents (reporter_id, type, severity, location, address, description, confidence, status)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326), $6, $7, $8, $9)
		RETURNING id, created_at;
	`
	err = r.db.QueryRow(ctx, query,
		incident.ReporterID,
		incident.Type,
		incident.Severity,
		incident.Location.Longitude,
		incident.Location.Latitude,
		incident.Location.Address,
		incident.Description,
		conf,
		incident.Status,
	).Scan(&incident.ID, &incident.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// SetStatus переводит активный инцидент в терминальный статус
func (r *IncidentRepository) SetStatus(ctx context.Context, id uuid.UUID, status string, resolvedAt time.Time) error {
	query := `
		UPDATE incidents SET
			status = $2,
			resolved_at = $3
		WHERE id = $1 AND status = 'active';
	`
	cmdTag, err := r.db.Exec(ctx, query, id, status, resolvedAt)
	if err != nil {
		return fmt.Errorf("failed to set incident status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("active incident with id %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// AppendInfo дописывает дополнительную информацию к описанию инцидента.
// Существующее описание не перезаписывается.
func (r *IncidentRepository) AppendInfo(ctx context.Context, id uuid.UUID, info string) (*models.Incident, error) {
	query := `
		UPDATE incidents SET
			description = CASE
				WHEN description IS NULL OR description = '' THEN $2
				ELSE description || E'\n\n[Additional Info]: ' || $2
			END
		WHERE id = $1
		RETURNING ` + incidentColumns + `;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id, info))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to append incident info: %w", err)
	}
	return incident, nil
}

// CastVote применяет голос в транзакции с блокировкой строки инцидента.
// SELECT ... FOR UPDATE сериализует конкурентные голоса по одному
// инциденту: потерянных инкрементов не бывает.
func (r *IncidentRepository) CastVote(ctx context.Context, id uuid.UUID, voterID, action string) (*models.Confidence, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin vote transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx,
		`SELECT confidence FROM incidents WHERE id = $1 FOR UPDATE;`, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock incident for vote: %w", err)
	}

	var conf models.Confidence
	if err := json.Unmarshal(raw, &conf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal confidence: %w", err)
	}

	changed, err := confidence.Apply(&conf, voterID, action)
	if err != nil {
		return nil, err
	}

	if changed {
		updated, err := json.Marshal(conf)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal confidence: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE incidents SET confidence = $2 WHERE id = $1;`, id, updated,
		); err != nil {
			return nil, fmt.Errorf("failed to update confidence: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit vote transaction: %w", err)
	}
	return &conf, nil
}

// ListActive возвращает активные инциденты, свежие первыми
func (r *IncidentRepository) ListActive(ctx context.Context, limit int) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE status = 'active'
		ORDER BY created_at DESC
		LIMIT NULLIF($1, 0);
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list active incidents: %w", err)
	}
	return collectIncidents(rows, "ListActive")
}

// FindActiveNearby находит активные инциденты в радиусе точки,
// ближайшие первыми. hazardousOnly ограничивает выборку high/medium.
func (r *IncidentRepository) FindActiveNearby(ctx context.Context, lat, lon float64, radiusMeters int, hazardousOnly bool, limit int) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE
			status = 'active'
			AND ST_DWithin(
				location,
				ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
				$3
			)
			AND ($4 = false OR severity IN ('high', 'medium'))
		ORDER BY location <-> ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
		LIMIT NULLIF($5, 0);
	`
	rows, err := r.db.Query(ctx, query, lon, lat, radiusMeters, hazardousOnly, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find active incidents nearby: %w", err)
	}
	return collectIncidents(rows, "FindActiveNearby")
}

// FindNearbySince возвращает инциденты любого статуса в радиусе точки,
// созданные не раньше since
func (r *IncidentRepository) FindNearbySince(ctx context.Context, lat, lon float64, radiusMeters int, since time.Time) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE
			created_at >= $4
			AND ST_DWithin(
				location,
				ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
				$3
			);
	`
	rows, err := r.db.Query(ctx, query, lon, lat, radiusMeters, since)
	if err != nil {
		return nil, fmt.Errorf("failed to find incidents nearby since: %w", err)
	}
	return collectIncidents(rows, "FindNearbySince")
}

// FindWithinBoxSince возвращает инциденты внутри прямоугольной области,
// созданные не раньше since. Порядок не гарантируется.
func (r *IncidentRepository) FindWithinBoxSince(ctx context.Context, box models.BoundingBox, since time.Time) ([]*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents
		WHERE
			created_at >= $5
			AND ST_Intersects(
				location::geometry,
				ST_MakeEnvelope($1, $2, $3, $4, 4326)
			);
	`
	rows, err := r.db.Query(ctx, query,
		box.SouthWest.Longitude, box.SouthWest.Latitude,
		box.NorthEast.Longitude, box.NorthEast.Latitude,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find incidents within box: %w", err)
	}
	return collectIncidents(rows, "FindWithinBoxSince")
}

// SaveLocationCheck сохраняет запись об отметке присутствия в бд
func (r *IncidentRepository) SaveLocationCheck(ctx context.Context, check *models.LocationCheck) error {
	query := `
		INSERT INTO location_checks (user_id, location, is_dangerous)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326), $4) RETURNING id, checked_at;
	`
	err := r.db.QueryRow(ctx, query,
		check.UserID,
		check.Longitude,
		check.Latitude,
		check.IsDangerous,
	).Scan(&check.ID, &check.CheckedAt)
	if err != nil {
		return fmt.Errorf("failed to save location check: %w", err)
	}
	return nil
}

// CountActiveUsersNear считает уникальных пользователей с отметкой
// присутствия в радиусе точки за последние windowMinutes минут.
// Подсчет ограничен сверху, как и рассылка, которую он отражает.
func (r *IncidentRepository) CountActiveUsersNear(ctx context.Context, lat, lon float64, radiusMeters, windowMinutes int, excludeUserID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM (
			SELECT DISTINCT user_id
			FROM location_checks
			WHERE
				checked_at >= NOW() - ($1 * INTERVAL '1 minute')
				AND user_id <> $2
				AND ST_DWithin(
					location,
					ST_SetSRID(ST_MakePoint($3, $4), 4326)::geography,
					$5
				)
			LIMIT $6
		) AS nearby;
	`
	var count int
	err := r.db.QueryRow(ctx, query, windowMinutes, excludeUserID, lon, lat, radiusMeters, responderCountCap).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active users nearby: %w", err)
	}
	return count, nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id.String())
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID.String())
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	// Устанавливаем срок жизни кэша, например, 5 минут
	if err := r.redisClient.Set(ctx, key, val, 5*time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	key := fmt.Sprintf("incident:%s", id.String())
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}

// scanIncident читает одну строку инцидента
func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	var conf []byte
	err := row.Scan(
		&incident.ID,
		&incident.ReporterID,
		&incident.Type,
		&incident.Severity,
		&incident.Location.Latitude,
		&incident.Location.Longitude,
		&incident.Location.Address,
		&incident.Description,
		&conf,
		&incident.Status,
		&incident.CreatedAt,
		&incident.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(conf, &incident.Confidence); err != nil {
		return nil, fmt.Errorf("failed to unmarshal confidence: %w", err)
	}
	return incident, nil
}

// collectIncidents читает все строки выборки инцидентов
func collectIncidents(rows pgx.Rows, method string) ([]*models.Incident, error) {
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row in %s: %w", method, err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration in %s: %w", method, err)
	}
	return incidents, nil
}
