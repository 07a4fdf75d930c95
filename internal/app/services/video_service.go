package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	appAuth "github.com/toma828/HinaBaby/internal/app/auth"
	"github.com/toma828/HinaBaby/internal/app/models"
	"github.com/toma828/HinaBaby/internal/app/models/dto"
	"github.com/toma828/HinaBaby/internal/app/repositories"
	"github.com/toma828/HinaBaby/internal/pkg/apperrors"
	"github.com/toma828/HinaBaby/internal/pkg/filestorage"
)

// videoSubdir is the storage subdirectory for uploaded recordings
const videoSubdir = "videos"

// VideoService defines the interface for video upload and read paths
type VideoService interface {
	Upload(ctx context.Context, user *models.User, req *dto.UploadVideoRequest, file *multipart.FileHeader) (*dto.UploadVideoResponse, error)
	List(ctx context.Context, user *models.User, skip, limit int) ([]dto.VideoSummaryResponse, error)
	GetDetail(ctx context.Context, user *models.User, videoID int64) (*dto.VideoDetailResponse, error)
}

// videoServiceImpl implements VideoService
type videoServiceImpl struct {
	videoRepo     repositories.IVideoRepository
	userRepo      repositories.IUserRepository
	feedbackRepo  repositories.IFeedbackRepository
	timeStampRepo repositories.ITimeStampRepository
	storage       filestorage.FileStorage
	authzService  *appAuth.AuthorizationService
	maxUploadSize int64
	logger        zerolog.Logger
}

// NewVideoService creates a new VideoService
func NewVideoService(
	videoRepo repositories.IVideoRepository,
	userRepo repositories.IUserRepository,
	feedbackRepo repositories.IFeedbackRepository,
	timeStampRepo repositories.ITimeStampRepository,
	storage filestorage.FileStorage,
	authzService *appAuth.AuthorizationService,
	maxUploadSize int64,
	logger zerolog.Logger,
) VideoService {
	return &videoServiceImpl{
		videoRepo:     videoRepo,
		userRepo:      userRepo,
		feedbackRepo:  feedbackRepo,
		timeStampRepo: timeStampRepo,
		storage:       storage,
		authzService:  authzService,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// Upload validates and stores a student's practice recording, then
// persists the video row pointing at the stored file. The file is
// written first so a row never references bytes that were not stored;
// if the row insert fails the stored file is cleaned up (or, failing
// that, logged as orphaned).
func (s *videoServiceImpl) Upload(ctx context.Context, user *models.User, req *dto.UploadVideoRequest, file *multipart.FileHeader) (*dto.UploadVideoResponse, error) {
	if err := s.authzService.ValidateStudent(user); err != nil {
		return nil, err
	}

	if file == nil {
		return nil, apperrors.NewBadRequestError("missing video file")
	}
	if file.Size > s.maxUploadSize {
		return nil, apperrors.ErrFileTooLarge
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") {
		return nil, apperrors.ErrUnsupportedMediaType
	}

	videoURL, err := s.storage.SaveFileWithPath(file, videoSubdir)
	if err != nil {
		return nil, fmt.Errorf("error storing video file: %w", err)
	}

	video := &models.Video{
		Title:        req.Title,
		Description:  req.Description,
		BabyAge:      req.BabyAge,
		PracticeType: req.PracticeType,
		Question:     req.Question,
		VideoURL:     videoURL,
		UserID:       user.ID,
	}

	if err := s.videoRepo.Create(ctx, video); err != nil {
		s.logger.Error().Err(err).Str("videoUrl", videoURL).Msg("Video row insert failed, removing stored file")
		if delErr := s.storage.DeleteFile(videoURL); delErr != nil {
			s.logger.Error().Err(delErr).Str("videoUrl", videoURL).Msg("Stored file orphaned")
		}
		return nil, fmt.Errorf("error creating video: %w", err)
	}

	s.logger.Info().
		Int64("videoID", video.ID).
		Int64("userID", user.ID).
		Str("title", video.Title).
		Msg("Video uploaded")

	return &dto.UploadVideoResponse{
		ID:       video.ID,
		VideoURL: video.VideoURL,
		Message:  "Video uploaded successfully",
	}, nil
}

// List returns role-filtered video summaries: teachers see every
// video, students only their own.
func (s *videoServiceImpl) List(ctx context.Context, user *models.User, skip, limit int) ([]dto.VideoSummaryResponse, error) {
	var summaries []*models.VideoSummary
	var err error
	if user.IsTeacher() {
		summaries, err = s.videoRepo.ListAll(ctx, skip, limit)
	} else {
		summaries, err = s.videoRepo.ListByOwner(ctx, user.ID, skip, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing videos: %w", err)
	}

	responses := make([]dto.VideoSummaryResponse, 0, len(summaries))
	for _, v := range summaries {
		responses = append(responses, dto.VideoSummaryResponse{
			ID:           v.ID,
			Title:        v.Title,
			Description:  v.Description,
			BabyAge:      v.BabyAge,
			PracticeType: v.PracticeType,
			Question:     v.Question,
			VideoURL:     v.VideoURL,
			ThumbnailURL: v.ThumbnailURL,
			UserID:       v.UserID,
			OwnerName:    v.OwnerName,
			HasFeedback:  v.HasFeedback,
		})
	}
	return responses, nil
}

// GetDetail assembles the full detail payload for one video: the row,
// its owner's name, the feedback (with teacher name) if present and
// all timestamps in insertion order.
func (s *videoServiceImpl) GetDetail(ctx context.Context, user *models.User, videoID int64) (*dto.VideoDetailResponse, error) {
	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("error getting video: %w", err)
	}
	if video == nil {
		return nil, apperrors.ErrVideoNotFound
	}

	if err := s.authzService.ValidateVideoAccess(user, video); err != nil {
		return nil, err
	}

	ownerName := "Unknown"
	owner, err := s.userRepo.GetByID(ctx, video.UserID)
	if err != nil {
		return nil, fmt.Errorf("error getting video owner: %w", err)
	}
	if owner != nil {
		ownerName = owner.Username
	}

	var feedbackResp *dto.FeedbackResponse
	feedback, err := s.feedbackRepo.GetWithTeacherByVideoID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("error getting feedback: %w", err)
	}
	if feedback != nil {
		feedbackResp = &dto.FeedbackResponse{
			ID:          feedback.ID,
			Content:     feedback.Content,
			VideoID:     feedback.VideoID,
			TeacherID:   feedback.TeacherID,
			TeacherName: feedback.TeacherName,
		}
	}

	timestamps, err := s.timeStampRepo.ListByVideoID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("error getting timestamps: %w", err)
	}
	timestampResps := make([]dto.TimeStampResponse, 0, len(timestamps))
	for _, ts := range timestamps {
		timestampResps = append(timestampResps, dto.TimeStampResponse{
			ID:      ts.ID,
			Time:    ts.TimeLabel,
			Comment: ts.Comment,
			VideoID: ts.VideoID,
		})
	}

	return &dto.VideoDetailResponse{
		ID:           video.ID,
		Title:        video.Title,
		Description:  video.Description,
		BabyAge:      video.BabyAge,
		PracticeType: video.PracticeType,
		Question:     video.Question,
		VideoURL:     video.VideoURL,
		ThumbnailURL: video.ThumbnailURL,
		UserID:       video.UserID,
		OwnerName:    ownerName,
		CreatedAt:    video.CreatedAt,
		Feedback:     feedbackResp,
		Timestamps:   timestampResps,
	}, nil
}
