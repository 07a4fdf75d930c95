// Package repotest provides in-memory repository implementations for
// service and handler tests, with the same conflict and not-found
// semantics as the Postgres-backed ones.
package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/toma828/HinaBaby/internal/app/models"
	"github.com/toma828/HinaBaby/internal/pkg/apperrors"
)

// MemoryUserRepository is a map-backed IUserRepository.
type MemoryUserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

// NewMemoryUserRepository creates an empty in-memory user store
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{nextID: 1, users: make(map[int64]*models.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return apperrors.ErrUsernameAlreadyExists
		}
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}

	user.ID = r.nextID
	r.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	u, err := r.GetByUsername(ctx, username)
	return u != nil, err
}

func (r *MemoryUserRepository) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryUserRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// SetActive flips an account's is_active flag, for disabled-account tests.
func (r *MemoryUserRepository) SetActive(id int64, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.IsActive = active
	}
}

// MemoryVideoRepository is a slice-backed IVideoRepository.
type MemoryVideoRepository struct {
	mu     sync.Mutex
	nextID int64
	videos []*models.Video

	users     *MemoryUserRepository
	feedbacks *MemoryFeedbackRepository
}

// NewMemoryVideoRepository creates an in-memory video store. The user
// and feedback stores are consulted to build summaries the way the SQL
// join does; either may be nil when summaries are not under test.
func NewMemoryVideoRepository(users *MemoryUserRepository, feedbacks *MemoryFeedbackRepository) *MemoryVideoRepository {
	return &MemoryVideoRepository{nextID: 1, users: users, feedbacks: feedbacks}
}

func (r *MemoryVideoRepository) Create(_ context.Context, video *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	video.ID = r.nextID
	r.nextID++
	video.CreatedAt = time.Now()

	stored := *video
	r.videos = append(r.videos, &stored)
	return nil
}

func (r *MemoryVideoRepository) GetByID(_ context.Context, id int64) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.videos {
		if v.ID == id {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *MemoryVideoRepository) ListAll(ctx context.Context, skip, limit int) ([]*models.VideoSummary, error) {
	return r.list(ctx, func(*models.Video) bool { return true }, skip, limit)
}

func (r *MemoryVideoRepository) ListByOwner(ctx context.Context, ownerID int64, skip, limit int) ([]*models.VideoSummary, error) {
	return r.list(ctx, func(v *models.Video) bool { return v.UserID == ownerID }, skip, limit)
}

func (r *MemoryVideoRepository) list(ctx context.Context, match func(*models.Video) bool, skip, limit int) ([]*models.VideoSummary, error) {
	r.mu.Lock()
	var matched []*models.Video
	for _, v := range r.videos {
		if match(v) {
			matched = append(matched, v)
		}
	}
	r.mu.Unlock()

	if skip >= len(matched) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit < len(matched) {
		matched = matched[:limit]
	}

	var summaries []*models.VideoSummary
	for _, v := range matched {
		s := &models.VideoSummary{Video: *v, OwnerName: "Unknown"}
		if r.users != nil {
			if owner, _ := r.users.GetByID(ctx, v.UserID); owner != nil {
				s.OwnerName = owner.Username
			}
		}
		if r.feedbacks != nil {
			if fb, _ := r.feedbacks.GetByVideoID(ctx, v.ID); fb != nil {
				s.HasFeedback = true
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// MemoryFeedbackRepository is a map-backed IFeedbackRepository keyed by
// video ID, mirroring the one-feedback-per-video constraint.
type MemoryFeedbackRepository struct {
	mu        sync.Mutex
	nextID    int64
	byVideoID map[int64]*models.Feedback

	users *MemoryUserRepository
}

// NewMemoryFeedbackRepository creates an in-memory feedback store
func NewMemoryFeedbackRepository(users *MemoryUserRepository) *MemoryFeedbackRepository {
	return &MemoryFeedbackRepository{nextID: 1, byVideoID: make(map[int64]*models.Feedback), users: users}
}

func (r *MemoryFeedbackRepository) Upsert(_ context.Context, feedback *models.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.byVideoID[feedback.VideoID]; ok {
		existing.Content = feedback.Content
		existing.UpdatedAt = now
		*feedback = *existing
		return nil
	}

	feedback.ID = r.nextID
	r.nextID++
	feedback.CreatedAt = now
	feedback.UpdatedAt = now

	stored := *feedback
	r.byVideoID[feedback.VideoID] = &stored
	return nil
}

func (r *MemoryFeedbackRepository) GetByVideoID(_ context.Context, videoID int64) (*models.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fb, ok := r.byVideoID[videoID]
	if !ok {
		return nil, nil
	}
	copied := *fb
	return &copied, nil
}

func (r *MemoryFeedbackRepository) GetWithTeacherByVideoID(ctx context.Context, videoID int64) (*models.FeedbackWithTeacher, error) {
	fb, err := r.GetByVideoID(ctx, videoID)
	if err != nil || fb == nil {
		return nil, err
	}

	result := &models.FeedbackWithTeacher{Feedback: *fb, TeacherName: "Unknown"}
	if r.users != nil {
		if teacher, _ := r.users.GetByID(ctx, fb.TeacherID); teacher != nil {
			result.TeacherName = teacher.Username
		}
	}
	return result, nil
}

// Len returns the number of stored feedback records.
func (r *MemoryFeedbackRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byVideoID)
}

// MemoryTimeStampRepository is a slice-backed ITimeStampRepository.
type MemoryTimeStampRepository struct {
	mu         sync.Mutex
	nextID     int64
	timestamps []*models.TimeStamp
}

// NewMemoryTimeStampRepository creates an in-memory timestamp store
func NewMemoryTimeStampRepository() *MemoryTimeStampRepository {
	return &MemoryTimeStampRepository{nextID: 1}
}

func (r *MemoryTimeStampRepository) Create(_ context.Context, ts *models.TimeStamp) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts.ID = r.nextID
	r.nextID++
	ts.CreatedAt = time.Now()

	stored := *ts
	r.timestamps = append(r.timestamps, &stored)
	return nil
}

func (r *MemoryTimeStampRepository) ListByVideoID(_ context.Context, videoID int64) ([]*models.TimeStamp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*models.TimeStamp
	for _, ts := range r.timestamps {
		if ts.VideoID == videoID {
			copied := *ts
			result = append(result, &copied)
		}
	}
	return result, nil
}
