package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository      *UserRepository
	VideoRepository     *VideoRepository
	FeedbackRepository  *FeedbackRepository
	TimeStampRepository *TimeStampRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:      NewUserRepository(db),
		VideoRepository:     NewVideoRepository(db),
		FeedbackRepository:  NewFeedbackRepository(db),
		TimeStampRepository: NewTimeStampRepository(db),
	}
}
