// Package publisher announces finished exports on a Redis stream
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/myusername/nfl-gamebook-scraper/pkg/models"
)

const (
	// ExportStream is the stream exports are announced on
	ExportStream = "gamebook:exports"
	// ExportedEvent is the event type of a finished export
	ExportedEvent = "gamebook.exported"
)

// Publisher publishes export events to a Redis stream
type Publisher struct {
	client *redis.Client
	stream string
}

// NewPublisher connects to the Redis server at redisURL
func NewPublisher(redisURL string) (*Publisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewPublisherFromClient(client), nil
}

// NewPublisherFromClient wraps an existing client
func NewPublisherFromClient(client *redis.Client) *Publisher {
	return &Publisher{client: client, stream: ExportStream}
}

// Close closes the Redis connection
func (p *Publisher) Close() error {
	return p.client.Close()
}

// PublishExport appends rec to the export stream
func (p *Publisher) PublishExport(ctx context.Context, rec models.ExportRecord) error {
	values, err := exportValues(rec)
	if err != nil {
		return err
	}
	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: 10000,
		Approx: true,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("publish export %s: %w", rec.RunID, err)
	}
	return nil
}

func exportValues(rec models.ExportRecord) (map[string]interface{}, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return map[string]interface{}{
		"type":    ExportedEvent,
		"run_id":  rec.RunID,
		"season":  rec.Season,
		"week":    rec.Week,
		"payload": string(payload),
	}, nil
}
