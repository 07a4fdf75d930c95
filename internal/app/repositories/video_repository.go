package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/toma828/HinaBaby/internal/app/models"
)

// IVideoRepository defines the interface for video persistence
type IVideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id int64) (*models.Video, error)
	ListAll(ctx context.Context, skip, limit int) ([]*models.VideoSummary, error)
	ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]*models.VideoSummary, error)
}

// VideoRepository is the pgx implementation of IVideoRepository
type VideoRepository struct {
	db *pgxpool.Pool
}

// NewVideoRepository creates a new VideoRepository
func NewVideoRepository(db *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new video row
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO videos (title, description, baby_age, practice_type, question, video_url, thumbnail_url, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		video.Title, video.Description, video.BabyAge, video.PracticeType,
		video.Question, video.VideoURL, video.ThumbnailURL, video.UserID).
		Scan(&video.ID, &video.CreatedAt)

	if err != nil {
		return fmt.Errorf("error creating video: %w", err)
	}

	return nil
}

// GetByID retrieves a video by ID; returns (nil, nil) when missing
func (r *VideoRepository) GetByID(ctx context.Context, id int64) (*models.Video, error) {
	video := &models.Video{}
	err := r.db.QueryRow(ctx, `
		SELECT id, title, description, baby_age, practice_type, question, video_url, thumbnail_url, user_id, created_at
		FROM videos
		WHERE id = $1`,
		id).Scan(
		&video.ID, &video.Title, &video.Description, &video.BabyAge, &video.PracticeType,
		&video.Question, &video.VideoURL, &video.ThumbnailURL, &video.UserID, &video.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting video: %w", err)
	}
	return video, nil
}

// summarySelect joins each video with its owner's username and a
// feedback existence flag in one query instead of per-row lookups.
const summarySelect = `
	SELECT v.id, v.title, v.description, v.baby_age, v.practice_type, v.question,
	       v.video_url, v.thumbnail_url, v.user_id, v.created_at,
	       COALESCE(u.username, 'Unknown') AS owner_name,
	       EXISTS(SELECT 1 FROM feedbacks f WHERE f.video_id = v.id) AS has_feedback
	FROM videos v
	LEFT JOIN users u ON u.id = v.user_id`

// ListAll returns summaries of all videos, paginated in insertion order
func (r *VideoRepository) ListAll(ctx context.Context, skip, limit int) ([]*models.VideoSummary, error) {
	rows, err := r.db.Query(ctx, summarySelect+`
		ORDER BY v.id
		OFFSET $1 LIMIT $2`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing videos: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// ListByOwner returns summaries of the videos owned by one account
func (r *VideoRepository) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]*models.VideoSummary, error) {
	rows, err := r.db.Query(ctx, summarySelect+`
		WHERE v.user_id = $1
		ORDER BY v.id
		OFFSET $2 LIMIT $3`, ownerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing videos by owner: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

func scanSummaries(rows pgx.Rows) ([]*models.VideoSummary, error) {
	var summaries []*models.VideoSummary
	for rows.Next() {
		s := &models.VideoSummary{}
		err := rows.Scan(
			&s.ID, &s.Title, &s.Description, &s.BabyAge, &s.PracticeType, &s.Question,
			&s.VideoURL, &s.ThumbnailURL, &s.UserID, &s.CreatedAt,
			&s.OwnerName, &s.HasFeedback)
		if err != nil {
			return nil, fmt.Errorf("error scanning video summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating video summaries: %w", err)
	}
	return summaries, nil
}
