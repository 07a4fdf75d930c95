package dto

import (
	"time"
)

// UploadVideoRequest represents the multipart form fields of a video
// upload. The file part itself ("video_file") is handled separately.
type UploadVideoRequest struct {
	Title        string  `form:"title" binding:"required"`
	Description  string  `form:"description" binding:"required"`
	BabyAge      string  `form:"baby_age" binding:"required"`
	PracticeType string  `form:"practice_type" binding:"required"`
	Question     *string `form:"question"`
}

// UploadVideoResponse acknowledges a stored upload
type UploadVideoResponse struct {
	ID       int64  `json:"id"`
	VideoURL string `json:"videoUrl"`
	Message  string `json:"message"`
}

// VideoSummaryResponse is one element of the video listing
type VideoSummaryResponse struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	BabyAge      string  `json:"babyAge"`
	PracticeType string  `json:"practiceType"`
	Question     *string `json:"question,omitempty"`
	VideoURL     string  `json:"videoUrl"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
	UserID       int64   `json:"userId"`
	OwnerName    string  `json:"ownerName"`
	HasFeedback  bool    `json:"hasFeedback"`
}

// FeedbackResponse represents a teacher's feedback on a video
type FeedbackResponse struct {
	ID          int64  `json:"id"`
	Content     string `json:"content"`
	VideoID     int64  `json:"videoId"`
	TeacherID   int64  `json:"teacherId"`
	TeacherName string `json:"teacherName,omitempty"`
}

// TimeStampResponse represents a timecoded comment on a video
type TimeStampResponse struct {
	ID      int64  `json:"id"`
	Time    string `json:"time"`
	Comment string `json:"comment"`
	VideoID int64  `json:"videoId"`
}

// VideoDetailResponse is the full assembly returned by the detail
// endpoint: the video row, its owner's name, the feedback if present
// and all timestamps in insertion order.
type VideoDetailResponse struct {
	ID           int64               `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	BabyAge      string              `json:"babyAge"`
	PracticeType string              `json:"practiceType"`
	Question     *string             `json:"question,omitempty"`
	VideoURL     string              `json:"videoUrl"`
	ThumbnailURL *string             `json:"thumbnailUrl,omitempty"`
	UserID       int64               `json:"userId"`
	OwnerName    string              `json:"ownerName"`
	CreatedAt    time.Time           `json:"createdAt"`
	Feedback     *FeedbackResponse   `json:"feedback"`
	Timestamps   []TimeStampResponse `json:"timestamps"`
}

// FeedbackRequest represents feedback creation/update content
type FeedbackRequest struct {
	Content string `json:"content" binding:"required"`
}

// TimeStampRequest represents a new timecoded comment
type TimeStampRequest struct {
	Time    string `json:"time" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}
