package auth

import (
	"github.com/toma828/HinaBaby/internal/app/models"
	"github.com/toma828/HinaBaby/internal/pkg/apperrors"
)

// AuthorizationService owns the visibility and mutation rules layered
// on every video operation. Videos are visible to teachers and to
// their owning student. Annotation is a pure role gate: a teacher may
// annotate any video, there is no assignment model.
type AuthorizationService struct{}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// CanViewVideo reports whether the account may read the video
func (s *AuthorizationService) CanViewVideo(user *models.User, video *models.Video) bool {
	return user.IsTeacher() || video.UserID == user.ID
}

// ValidateVideoAccess returns a permission error unless the account is
// a teacher or the video's owner
func (s *AuthorizationService) ValidateVideoAccess(user *models.User, video *models.Video) error {
	if !s.CanViewVideo(user, video) {
		return apperrors.NewForbiddenError("not authorized to access this video")
	}
	return nil
}

// ValidateTeacher returns a permission error unless the account holds
// the teacher role
func (s *AuthorizationService) ValidateTeacher(user *models.User) error {
	if !user.IsTeacher() {
		return apperrors.NewForbiddenError("only teachers can perform this action")
	}
	return nil
}

// ValidateStudent returns a permission error unless the account holds
// the student role. Uploads are student-only.
func (s *AuthorizationService) ValidateStudent(user *models.User) error {
	if user.IsTeacher() {
		return apperrors.NewForbiddenError("teachers cannot upload videos")
	}
	return nil
}
