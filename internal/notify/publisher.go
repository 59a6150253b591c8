package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/savelyev/emergency_watch/internal/metrics"
	"github.com/savelyev/emergency_watch/internal/models"
)

const (
	// Очередь событий для доставки внешним потребителям вебхуком
	eventQueueKey = "notify_events"
	// Префикс pub/sub каналов
	channelPrefix = "events:"
)

// BroadcastChannel - общий канал для событий всем подключенным клиентам
const BroadcastChannel = "broadcast"

// Имена событий ядра
const (
	EventNewIncident       = "new-incident"
	EventIncidentUpdated   = "incident-updated"
	EventIncidentResolved  = "incident-resolved"
	EventConfidenceChanged = "confidence-changed"
	EventGeofenceAlert     = "geofence-alert"
	EventSOSAlert          = "sos-alert"
)

// UserChannel возвращает ключ персонального канала пользователя
func UserChannel(userID string) string {
	return "user:" + userID
}

// Event - конверт события для pub/sub и очереди вебхуков
type Event struct {
	Channel   string    `json:"channel"`
	Name      string    `json:"name"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher - интерфейс публикации событий. Доставка fire-and-forget:
// подтверждений от подписчиков нет.
type Publisher interface {
	Publish(ctx context.Context, channel, name string, payload any) error
}

// RedisPublisher публикует события в Redis pub/sub и дублирует их
// в очередь для воркера вебхуков.
type RedisPublisher struct {
	redisClient *redis.Client
	metrics     *metrics.Metrics
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client, m *metrics.Metrics) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
		metrics:     m,
	}
}

// Publish публикует событие в канал и ставит его в очередь вебхуков
func (p *RedisPublisher) Publish(ctx context.Context, channel, name string, payload any) error {
	event := Event{
		Channel:   channel,
		Name:      name,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %q: %w", name, err)
	}

	if err := p.redisClient.Publish(ctx, channelPrefix+channel, data).Err(); err != nil {
		return fmt.Errorf("%w: failed to publish event to Redis: %v", models.ErrUpstreamUnavailable, err)
	}

	// Используем LPUSH для добавления события в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, eventQueueKey, data).Err(); err != nil {
		return fmt.Errorf("%w: failed to enqueue event for webhook delivery: %v", models.ErrUpstreamUnavailable, err)
	}

	p.metrics.EventsPublished.WithLabelValues(name).Inc()
	return nil
}
