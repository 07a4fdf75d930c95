package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/toma828/HinaBaby/internal/app/models/dto"
	"github.com/toma828/HinaBaby/internal/app/services"
	"github.com/toma828/HinaBaby/internal/middleware"
	"github.com/toma828/HinaBaby/internal/pkg/helpers"
)

// videoFileField is the multipart form field carrying the upload
const videoFileField = "video_file"

// VideoController handles the video routes and their nested feedback
// and timestamp routes
type VideoController struct {
	videoService  services.VideoService
	reviewService services.ReviewService
	logger        zerolog.Logger
}

// NewVideoController creates a new VideoController
func NewVideoController(videoService services.VideoService, reviewService services.ReviewService, logger zerolog.Logger) *VideoController {
	return &VideoController{
		videoService:  videoService,
		reviewService: reviewService,
		logger:        logger,
	}
}

// List handles GET /api/videos
func (c *VideoController) List(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	skip, limit := helpers.ParseSkipLimit(ctx)

	videos, err := c.videoService.List(ctx.Request.Context(), user, skip, limit)
	if err != nil {
		c.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to list videos")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: videos})
}

// GetByID handles GET /api/videos/:id
func (c *VideoController) GetByID(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	videoID, ok := parseVideoID(ctx)
	if !ok {
		return
	}

	detail, err := c.videoService.GetDetail(ctx.Request.Context(), user, videoID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: detail})
}

// Upload handles POST /api/videos (multipart, student-only)
func (c *VideoController) Upload(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	var req dto.UploadVideoRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid upload request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	file, err := ctx.FormFile(videoFileField)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid or missing video file")))
		return
	}

	uploaded, err := c.videoService.Upload(ctx.Request.Context(), user, &req, file)
	if err != nil {
		c.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Video upload rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: uploaded})
}

// AddFeedback handles POST /api/videos/:id/feedback (teacher-only)
func (c *VideoController) AddFeedback(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	videoID, ok := parseVideoID(ctx)
	if !ok {
		return
	}

	var req dto.FeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	feedback, err := c.reviewService.AddFeedback(ctx.Request.Context(), user, videoID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: feedback})
}

// AddTimeStamp handles POST /api/videos/:id/timestamps (teacher-only)
func (c *VideoController) AddTimeStamp(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	videoID, ok := parseVideoID(ctx)
	if !ok {
		return
	}

	var req dto.TimeStampRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	ts, err := c.reviewService.AddTimeStamp(ctx.Request.Context(), user, videoID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: ts})
}

func parseVideoID(ctx *gin.Context) (int64, bool) {
	videoID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || videoID <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid video id")))
		return 0, false
	}
	return videoID, true
}
