package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/toma828/HinaBaby/internal/app/models"
)

// ITimeStampRepository defines the interface for timestamp persistence
type ITimeStampRepository interface {
	Create(ctx context.Context, ts *models.TimeStamp) error
	ListByVideoID(ctx context.Context, videoID int64) ([]*models.TimeStamp, error)
}

// TimeStampRepository is the pgx implementation of ITimeStampRepository
type TimeStampRepository struct {
	db *pgxpool.Pool
}

// NewTimeStampRepository creates a new TimeStampRepository
func NewTimeStampRepository(db *pgxpool.Pool) *TimeStampRepository {
	return &TimeStampRepository{db: db}
}

// Create inserts a new timestamp row
func (r *TimeStampRepository) Create(ctx context.Context, ts *models.TimeStamp) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO timestamps (time_label, comment, video_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		ts.TimeLabel, ts.Comment, ts.VideoID).
		Scan(&ts.ID, &ts.CreatedAt)

	if err != nil {
		return fmt.Errorf("error creating timestamp: %w", err)
	}

	return nil
}

// ListByVideoID returns all timestamps of a video in insertion order
func (r *TimeStampRepository) ListByVideoID(ctx context.Context, videoID int64) ([]*models.TimeStamp, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, time_label, comment, video_id, created_at
		FROM timestamps
		WHERE video_id = $1
		ORDER BY id`,
		videoID)
	if err != nil {
		return nil, fmt.Errorf("error listing timestamps: %w", err)
	}
	defer rows.Close()

	var timestamps []*models.TimeStamp
	for rows.Next() {
		ts := &models.TimeStamp{}
		if err := rows.Scan(&ts.ID, &ts.TimeLabel, &ts.Comment, &ts.VideoID, &ts.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning timestamp: %w", err)
		}
		timestamps = append(timestamps, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timestamps: %w", err)
	}
	return timestamps, nil
}
