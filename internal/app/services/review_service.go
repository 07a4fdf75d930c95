package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	appAuth "github.com/toma828/HinaBaby/internal/app/auth"
	"github.com/toma828/HinaBaby/internal/app/models"
	"github.com/toma828/HinaBaby/internal/app/models/dto"
	"github.com/toma828/HinaBaby/internal/app/repositories"
	"github.com/toma828/HinaBaby/internal/pkg/apperrors"
)

// ReviewService defines the interface for teacher annotations:
// per-video feedback and timecoded comments.
type ReviewService interface {
	AddFeedback(ctx context.Context, teacher *models.User, videoID int64, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error)
	AddTimeStamp(ctx context.Context, teacher *models.User, videoID int64, req *dto.TimeStampRequest) (*dto.TimeStampResponse, error)
}

// reviewServiceImpl implements ReviewService
type reviewServiceImpl struct {
	videoRepo     repositories.IVideoRepository
	feedbackRepo  repositories.IFeedbackRepository
	timeStampRepo repositories.ITimeStampRepository
	authzService  *appAuth.AuthorizationService
	logger        zerolog.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	videoRepo repositories.IVideoRepository,
	feedbackRepo repositories.IFeedbackRepository,
	timeStampRepo repositories.ITimeStampRepository,
	authzService *appAuth.AuthorizationService,
	logger zerolog.Logger,
) ReviewService {
	return &reviewServiceImpl{
		videoRepo:     videoRepo,
		feedbackRepo:  feedbackRepo,
		timeStampRepo: timeStampRepo,
		authzService:  authzService,
		logger:        logger,
	}
}

// AddFeedback creates or overwrites the single feedback of a video.
// The route gate already restricts this to teachers; the check here
// keeps the rule enforced even when the service is called directly.
func (s *reviewServiceImpl) AddFeedback(ctx context.Context, teacher *models.User, videoID int64, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error) {
	if err := s.authzService.ValidateTeacher(teacher); err != nil {
		return nil, err
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("error getting video: %w", err)
	}
	if video == nil {
		return nil, apperrors.ErrVideoNotFound
	}

	feedback := &models.Feedback{
		Content:   req.Content,
		VideoID:   videoID,
		TeacherID: teacher.ID,
	}
	if err := s.feedbackRepo.Upsert(ctx, feedback); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("videoID", videoID).
		Int64("teacherID", teacher.ID).
		Int64("feedbackID", feedback.ID).
		Msg("Feedback saved")

	return &dto.FeedbackResponse{
		ID:        feedback.ID,
		Content:   feedback.Content,
		VideoID:   feedback.VideoID,
		TeacherID: feedback.TeacherID,
	}, nil
}

// AddTimeStamp appends a timecoded comment to a video. Unlike
// feedback there is no upsert; every call creates a new record.
func (s *reviewServiceImpl) AddTimeStamp(ctx context.Context, teacher *models.User, videoID int64, req *dto.TimeStampRequest) (*dto.TimeStampResponse, error) {
	if err := s.authzService.ValidateTeacher(teacher); err != nil {
		return nil, err
	}

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("error getting video: %w", err)
	}
	if video == nil {
		return nil, apperrors.ErrVideoNotFound
	}

	ts := &models.TimeStamp{
		TimeLabel: req.Time,
		Comment:   req.Comment,
		VideoID:   videoID,
	}
	if err := s.timeStampRepo.Create(ctx, ts); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("videoID", videoID).
		Int64("teacherID", teacher.ID).
		Int64("timestampID", ts.ID).
		Msg("Timestamp added")

	return &dto.TimeStampResponse{
		ID:      ts.ID,
		Time:    ts.TimeLabel,
		Comment: ts.Comment,
		VideoID: ts.VideoID,
	}, nil
}
