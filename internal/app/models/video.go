package models

import (
	"time"
)

// Video defines an uploaded practice recording based on the 'videos' table.
// A video is owned by exactly one student account and is immutable after
// upload except through its feedback and timestamp relations.
type Video struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	BabyAge      string    `json:"babyAge" db:"baby_age"`
	PracticeType string    `json:"practiceType" db:"practice_type"`
	Question     *string   `json:"question,omitempty" db:"question"`
	VideoURL     string    `json:"videoUrl" db:"video_url"`
	ThumbnailURL *string   `json:"thumbnailUrl,omitempty" db:"thumbnail_url"`
	UserID       int64     `json:"userId" db:"user_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// VideoSummary is a video row joined with its owner's display name and a
// feedback existence flag, as produced by the list query.
type VideoSummary struct {
	Video
	OwnerName   string `json:"ownerName" db:"owner_name"`
	HasFeedback bool   `json:"hasFeedback" db:"has_feedback"`
}

// Feedback defines a teacher's single annotation per video, based on the
// 'feedbacks' table. The video_id unique constraint enforces the
// at-most-one invariant; writes go through an upsert.
type Feedback struct {
	ID        int64     `json:"id" db:"id"`
	Content   string    `json:"content" db:"content"`
	VideoID   int64     `json:"videoId" db:"video_id"`
	TeacherID int64     `json:"teacherId" db:"teacher_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// FeedbackWithTeacher is a feedback row joined with the authoring
// teacher's display name ("Unknown" when the account is missing).
type FeedbackWithTeacher struct {
	Feedback
	TeacherName string `json:"teacherName" db:"teacher_name"`
}

// TimeStamp defines a teacher's timecoded comment on a video, based on
// the 'timestamps' table. Many timestamps may attach to one video.
type TimeStamp struct {
	ID        int64     `json:"id" db:"id"`
	TimeLabel string    `json:"time" db:"time_label"` // free text, e.g. "2:30"
	Comment   string    `json:"comment" db:"comment"`
	VideoID   int64     `json:"videoId" db:"video_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
