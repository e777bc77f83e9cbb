package audit

import (
	"context"
	"time"
)

// Entry is one recorded console action (login, manager/product mutation,
// checkout outcome).
type Entry struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Recorder interface {
	Insert(ctx context.Context, e Entry) error
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

type discard struct{}

func (discard) Insert(context.Context, Entry) error { return nil }

func (discard) ListRecent(context.Context, int) ([]Entry, error) { return []Entry{}, nil }

// Discard returns a Recorder that drops everything. Used when no audit
// database is configured.
func Discard() Recorder { return discard{} }
