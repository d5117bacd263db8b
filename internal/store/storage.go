package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Storage struct {
	IngestionHistory interface {
		InsertIngestionHistory(ctx context.Context, history *IngestionHistory) error
		GetLatest(ctx context.Context, limit int) ([]IngestionHistory, error)
		UpdateIngestionStatus(ctx context.Context, id int64, status string) error
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		IngestionHistory: &IngestionHistoryStore{db: db},
	}
}
