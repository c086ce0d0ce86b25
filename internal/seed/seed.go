// Package seed fills a fresh database with a demo account and a few meetings.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meetings-api/internal/domain/meeting"
	"meetings-api/internal/domain/user"
	"meetings-api/internal/repository"
	"meetings-api/internal/services"
	"meetings-api/pkg/database"
	apperrors "meetings-api/pkg/errors"
)

// Config holds configuration for seeding the database
type Config struct {
	Username string
	Password string
	Email    string
}

// DefaultConfig returns default seed configuration
func DefaultConfig() Config {
	return Config{
		Username: "demo",
		Password: "demo1234",
		Email:    "demo@example.com",
	}
}

// Result holds the result of the seeding operation
type Result struct {
	User        user.User
	UserCreated bool
	Meetings    []meeting.Meeting
}

// Run seeds db in a single transaction, so a failure leaves neither the user
// nor any of its meetings behind.
func Run(ctx context.Context, db repository.DBTX, dialect database.Dialect, cfg Config) (Result, error) {
	var result Result
	err := repository.WithTx(ctx, db, func(tx repository.DBTX) error {
		var err error
		result, err = Seed(ctx,
			repository.NewUserRepository(tx, dialect),
			repository.NewMeetingRepository(tx, dialect),
			cfg,
		)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// Seed creates the demo user and its sample meetings. Running it again for
// an existing username leaves that user and its meetings untouched.
func Seed(ctx context.Context, users repository.UserRepository, meetings repository.MeetingRepository, cfg Config) (Result, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return Result{}, apperrors.Invalid("seed username and password are required")
	}

	u, created, err := ensureUser(ctx, users, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("failed to seed user: %w", err)
	}
	result := Result{User: u, UserCreated: created}

	existing, err := meetings.ListByOwner(ctx, u.ID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list seeded meetings: %w", err)
	}
	if len(existing) > 0 {
		result.Meetings = existing
		return result, nil
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	for _, m := range sampleMeetings(now) {
		m.OwnerID = u.ID
		m.CreatedAt = now
		if err := meetings.Create(ctx, &m); err != nil {
			return Result{}, fmt.Errorf("failed to seed meeting %q: %w", m.Agenda, err)
		}
		result.Meetings = append(result.Meetings, m)
	}
	return result, nil
}

func ensureUser(ctx context.Context, users repository.UserRepository, cfg Config) (user.User, bool, error) {
	u, err := users.GetUserByUsername(ctx, cfg.Username)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return user.User{}, false, err
	}

	hash, err := services.HashPassword(cfg.Password)
	if err != nil {
		return user.User{}, false, err
	}
	u = user.User{
		Username:     cfg.Username,
		Email:        cfg.Email,
		PasswordHash: hash,
		DateJoined:   time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := users.Create(ctx, &u); err != nil {
		return user.User{}, false, err
	}
	return u, true, nil
}

func sampleMeetings(now time.Time) []meeting.Meeting {
	day := func(offset int) meeting.Date {
		d := now.AddDate(0, 0, offset)
		return meeting.NewDate(d.Year(), d.Month(), d.Day())
	}
	return []meeting.Meeting{
		{
			Agenda:      "Weekly sync",
			Description: "Status round and blockers",
			Status:      meeting.StatusUpcoming,
			Date:        day(1),
			StartTime:   meeting.NewTimeOfDay(9, 30, 0),
			MeetingURL:  "https://meet.example.com/weekly-sync",
		},
		{
			Agenda:      "Design review",
			Description: "Walk through the new booking flow",
			Status:      meeting.StatusInReview,
			Date:        day(3),
			StartTime:   meeting.NewTimeOfDay(14, 0, 0),
			MeetingURL:  "https://meet.example.com/design-review",
		},
		{
			Agenda:      "Quarterly planning",
			Description: "Targets for the next quarter",
			Status:      meeting.StatusPublished,
			Date:        day(-7),
			StartTime:   meeting.NewTimeOfDay(11, 0, 0),
			MeetingURL:  "https://meet.example.com/quarterly",
		},
	}
}
