package notifier

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// Event adalah notifikasi fire-and-forget. Kegagalan pengiriman hanya
// di-log, tidak pernah menggagalkan operasi workflow yang memicunya.
type Event struct {
	Jenis      string `json:"jenis"`      // reviewer_assigned, status_changed, announcement
	PenerimaID string `json:"penerimaId"` // user tujuan, kosong untuk broadcast
	ProposalID string `json:"proposalId,omitempty"`
	Pesan      string `json:"pesan"`
}

type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

// ===== Redis stream =====

const streamEvents = "simppm.events"

type redisNotifier struct {
	rdb *redis.Client
}

// NewRedis mengirim event ke Redis stream; consumer (mailer/websocket)
// membaca stream itu di luar proses ini.
func NewRedis(rdb *redis.Client) Notifier {
	return &redisNotifier{rdb: rdb}
}

func (n *redisNotifier) Publish(ctx context.Context, ev Event) error {
	_, err := n.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamEvents,
		Values: map[string]interface{}{
			"jenis":      ev.Jenis,
			"penerimaId": ev.PenerimaID,
			"proposalId": ev.ProposalID,
			"pesan":      ev.Pesan,
		},
	}).Result()
	return err
}

// ===== Log fallback =====

type logNotifier struct{}

// NewLog dipakai saat Redis tidak dikonfigurasi dan oleh test.
func NewLog() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) Publish(ctx context.Context, ev Event) error {
	log.Printf("[NOTIFIER] %s -> %s: %s", ev.Jenis, ev.PenerimaID, ev.Pesan)
	return nil
}
