package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/toma828/HinaBaby/internal/app/models"
)

// IFeedbackRepository defines the interface for feedback persistence
type IFeedbackRepository interface {
	Upsert(ctx context.Context, feedback *models.Feedback) error
	GetByVideoID(ctx context.Context, videoID int64) (*models.Feedback, error)
	GetWithTeacherByVideoID(ctx context.Context, videoID int64) (*models.FeedbackWithTeacher, error)
}

// FeedbackRepository is the pgx implementation of IFeedbackRepository
type FeedbackRepository struct {
	db *pgxpool.Pool
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Upsert creates the feedback for a video or, when one already exists,
// overwrites its content. The video_id unique constraint makes this
// atomic under concurrent writers; two racing inserts converge on one
// row. The authoring teacher of the first write is preserved.
func (r *FeedbackRepository) Upsert(ctx context.Context, feedback *models.Feedback) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO feedbacks (content, video_id, teacher_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (video_id) DO UPDATE
		SET content = EXCLUDED.content, updated_at = NOW()
		RETURNING id, teacher_id, created_at, updated_at`,
		feedback.Content, feedback.VideoID, feedback.TeacherID).
		Scan(&feedback.ID, &feedback.TeacherID, &feedback.CreatedAt, &feedback.UpdatedAt)

	if err != nil {
		return fmt.Errorf("error upserting feedback: %w", err)
	}

	return nil
}

// GetByVideoID retrieves the feedback for a video; returns (nil, nil)
// when none exists
func (r *FeedbackRepository) GetByVideoID(ctx context.Context, videoID int64) (*models.Feedback, error) {
	feedback := &models.Feedback{}
	err := r.db.QueryRow(ctx, `
		SELECT id, content, video_id, teacher_id, created_at, updated_at
		FROM feedbacks
		WHERE video_id = $1`,
		videoID).Scan(
		&feedback.ID, &feedback.Content, &feedback.VideoID, &feedback.TeacherID,
		&feedback.CreatedAt, &feedback.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting feedback: %w", err)
	}
	return feedback, nil
}

// GetWithTeacherByVideoID retrieves the feedback for a video together
// with the authoring teacher's username; the name falls back to
// "Unknown" when the teacher account is missing. Returns (nil, nil)
// when no feedback exists.
func (r *FeedbackRepository) GetWithTeacherByVideoID(ctx context.Context, videoID int64) (*models.FeedbackWithTeacher, error) {
	fb := &models.FeedbackWithTeacher{}
	err := r.db.QueryRow(ctx, `
		SELECT f.id, f.content, f.video_id, f.teacher_id, f.created_at, f.updated_at,
		       COALESCE(u.username, 'Unknown') AS teacher_name
		FROM feedbacks f
		LEFT JOIN users u ON u.id = f.teacher_id
		WHERE f.video_id = $1`,
		videoID).Scan(
		&fb.ID, &fb.Content, &fb.VideoID, &fb.TeacherID,
		&fb.CreatedAt, &fb.UpdatedAt, &fb.TeacherName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting feedback with teacher: %w", err)
	}
	return fb, nil
}
