package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	appAuth "github.com/toma828/HinaBaby/internal/app/auth"
	"github.com/toma828/HinaBaby/internal/app/models"
	"github.com/toma828/HinaBaby/internal/app/models/dto"
	"github.com/toma828/HinaBaby/internal/app/repositories/repotest"
	"github.com/toma828/HinaBaby/internal/pkg/apperrors"
)

type reviewServiceFixture struct {
	svc       ReviewService
	users     *repotest.MemoryUserRepository
	videos    *repotest.MemoryVideoRepository
	feedbacks *repotest.MemoryFeedbackRepository

	student *models.User
	teacher *models.User
	videoID int64
}

func newReviewServiceFixture(t *testing.T) *reviewServiceFixture {
	t.Helper()
	ctx := context.Background()

	users := repotest.NewMemoryUserRepository()
	feedbacks := repotest.NewMemoryFeedbackRepository(users)
	videos := repotest.NewMemoryVideoRepository(users, feedbacks)
	timestamps := repotest.NewMemoryTimeStampRepository()

	f := &reviewServiceFixture{
		svc:       NewReviewService(videos, feedbacks, timestamps, appAuth.NewAuthorizationService(), zerolog.Nop()),
		users:     users,
		videos:    videos,
		feedbacks: feedbacks,
	}

	f.student = &models.User{Username: "alice", Email: "alice@example.com", Password: "hashed", RoleType: models.RoleStudent, IsActive: true}
	if err := users.Create(ctx, f.student); err != nil {
		t.Fatalf("creating student: %v", err)
	}
	f.teacher = &models.User{Username: "bob", Email: "bob@example.com", Password: "hashed", RoleType: models.RoleTeacher, IsActive: true}
	if err := users.Create(ctx, f.teacher); err != nil {
		t.Fatalf("creating teacher: %v", err)
	}

	video := &models.Video{Title: "Leg massage", VideoURL: "http://localhost:8080/uploads/videos/x.mp4", UserID: f.student.ID}
	if err := videos.Create(ctx, video); err != nil {
		t.Fatalf("creating video: %v", err)
	}
	f.videoID = video.ID

	return f
}

func TestAddFeedback(t *testing.T) {
	f := newReviewServiceFixture(t)
	ctx := context.Background()

	resp, err := f.svc.AddFeedback(ctx, f.teacher, f.videoID, &dto.FeedbackRequest{Content: "Good rhythm"})
	if err != nil {
		t.Fatalf("AddFeedback returned error: %v", err)
	}
	if resp.Content != "Good rhythm" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.TeacherID != f.teacher.ID {
		t.Errorf("teacherID = %d, want %d", resp.TeacherID, f.teacher.ID)
	}
}

func TestAddFeedbackOverwrites(t *testing.T) {
	f := newReviewServiceFixture(t)
	ctx := context.Background()

	first, err := f.svc.AddFeedback(ctx, f.teacher, f.videoID, &dto.FeedbackRequest{Content: "First pass"})
	if err != nil {
		t.Fatalf("AddFeedback returned error: %v", err)
	}
	second, err := f.svc.AddFeedback(ctx, f.teacher, f.videoID, &dto.FeedbackRequest{Content: "Revised"})
	if err != nil {
		t.Fatalf("second AddFeedback returned error: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second feedback ID = %d, want %d (same record)", second.ID, first.ID)
	}
	if f.feedbacks.Len() != 1 {
		t.Errorf("stored feedback records = %d, want 1", f.feedbacks.Len())
	}

	stored, err := f.feedbacks.GetByVideoID(ctx, f.videoID)
	if err != nil {
		t.Fatalf("GetByVideoID: %v", err)
	}
	if stored.Content != "Revised" {
		t.Errorf("stored content = %q, want %q", stored.Content, "Revised")
	}
}

func TestAddFeedbackStudentForbidden(t *testing.T) {
	f := newReviewServiceFixture(t)

	_, err := f.svc.AddFeedback(context.Background(), f.student, f.videoID, &dto.FeedbackRequest{Content: "self-review"})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("error = %v, want ErrPermissionDenied", err)
	}
}

func TestAddFeedbackVideoNotFound(t *testing.T) {
	f := newReviewServiceFixture(t)

	_, err := f.svc.AddFeedback(context.Background(), f.teacher, 9999, &dto.FeedbackRequest{Content: "ghost"})
	if !errors.Is(err, apperrors.ErrVideoNotFound) {
		t.Errorf("error = %v, want ErrVideoNotFound", err)
	}
}

func TestAddTimeStamp(t *testing.T) {
	f := newReviewServiceFixture(t)
	ctx := context.Background()

	first, err := f.svc.AddTimeStamp(ctx, f.teacher, f.videoID, &dto.TimeStampRequest{Time: "00:30", Comment: "lighter touch"})
	if err != nil {
		t.Fatalf("AddTimeStamp returned error: %v", err)
	}
	second, err := f.svc.AddTimeStamp(ctx, f.teacher, f.videoID, &dto.TimeStampRequest{Time: "01:15", Comment: "good transition"})
	if err != nil {
		t.Fatalf("second AddTimeStamp returned error: %v", err)
	}

	// Timestamps accumulate, they are never merged.
	if first.ID == second.ID {
		t.Error("each timestamp should be a distinct record")
	}
	if first.Time != "00:30" || second.Time != "01:15" {
		t.Errorf("unexpected time labels: %q, %q", first.Time, second.Time)
	}
}

func TestAddTimeStampStudentForbidden(t *testing.T) {
	f := newReviewServiceFixture(t)

	_, err := f.svc.AddTimeStamp(context.Background(), f.student, f.videoID, &dto.TimeStampRequest{Time: "00:01", Comment: "nope"})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("error = %v, want ErrPermissionDenied", err)
	}
}

func TestAddTimeStampVideoNotFound(t *testing.T) {
	f := newReviewServiceFixture(t)

	_, err := f.svc.AddTimeStamp(context.Background(), f.teacher, 9999, &dto.TimeStampRequest{Time: "00:01", Comment: "ghost"})
	if !errors.Is(err, apperrors.ErrVideoNotFound) {
		t.Errorf("error = %v, want ErrVideoNotFound", err)
	}
}
