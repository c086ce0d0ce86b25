package repository

import (
	"context"

	"meetings-api/internal/domain/meeting"
	"meetings-api/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetUserByID(ctx context.Context, id int64) (user.User, error)
	GetUserByUsername(ctx context.Context, username string) (user.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type MeetingRepository interface {
	Create(ctx context.Context, m *meeting.Meeting) error
	GetByID(ctx context.Context, id int64) (meeting.Meeting, error)
	List(ctx context.Context) ([]meeting.Meeting, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]meeting.Meeting, error)
	Update(ctx context.Context, m meeting.Meeting) error
	Delete(ctx context.Context, id int64) error
}
