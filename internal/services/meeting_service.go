package services

import (
	"context"
	"time"

	"meetings-api/internal/domain/meeting"
	"meetings-api/internal/domain/user"
	"meetings-api/internal/repository"
	apperrors "meetings-api/pkg/errors"
	"meetings-api/pkg/logger"

	"go.uber.org/zap"
)

type MeetingService struct {
	meetingRepo      repository.MeetingRepository
	log              *logger.Logger
	enforceOwnership bool
	now              func() time.Time
}

// NewMeetingService builds the service. With enforceOwnership unset any
// authenticated caller may modify any meeting; such writes are logged.
func NewMeetingService(meetingRepo repository.MeetingRepository, log *logger.Logger, enforceOwnership bool) *MeetingService {
	return &MeetingService{
		meetingRepo:      meetingRepo,
		log:              log,
		enforceOwnership: enforceOwnership,
		now:              time.Now,
	}
}

func (s *MeetingService) List(ctx context.Context) ([]meeting.Meeting, error) {
	return s.meetingRepo.List(ctx)
}

func (s *MeetingService) Create(ctx context.Context, caller user.User, in MeetingInput) (meeting.Meeting, error) {
	if err := ValidateMeetingInput(in, false); err != nil {
		return meeting.Meeting{}, err
	}

	m := meeting.Meeting{
		OwnerID:   caller.ID,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := applyMeetingInput(&m, in); err != nil {
		return meeting.Meeting{}, err
	}

	if err := s.meetingRepo.Create(ctx, &m); err != nil {
		return meeting.Meeting{}, err
	}

	s.log.Info(ctx, "meeting created",
		zap.Int64("meeting_id", m.ID),
		zap.Int64("owner_id", m.OwnerID),
	)
	return m, nil
}

func (s *MeetingService) Get(ctx context.Context, id int64) (meeting.Meeting, error) {
	return s.meetingRepo.GetByID(ctx, id)
}

// Update applies in to the meeting. A full update requires every required
// field; a partial one touches only the supplied fields.
func (s *MeetingService) Update(ctx context.Context, caller user.User, id int64, in MeetingInput, partial bool) (meeting.Meeting, error) {
	m, err := s.meetingRepo.GetByID(ctx, id)
	if err != nil {
		return meeting.Meeting{}, err
	}
	if err := s.checkOwnership(ctx, caller, m, "update"); err != nil {
		return meeting.Meeting{}, err
	}

	if err := ValidateMeetingInput(in, partial); err != nil {
		return meeting.Meeting{}, err
	}
	if err := applyMeetingInput(&m, in); err != nil {
		return meeting.Meeting{}, err
	}

	if err := s.meetingRepo.Update(ctx, m); err != nil {
		return meeting.Meeting{}, err
	}
	return m, nil
}

func (s *MeetingService) Delete(ctx context.Context, caller user.User, id int64) error {
	m, err := s.meetingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkOwnership(ctx, caller, m, "delete"); err != nil {
		return err
	}

	if err := s.meetingRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info(ctx, "meeting deleted", zap.Int64("meeting_id", id))
	return nil
}

func (s *MeetingService) checkOwnership(ctx context.Context, caller user.User, m meeting.Meeting, action string) error {
	if m.IsOwnedBy(caller.ID) {
		return nil
	}
	if s.enforceOwnership {
		return apperrors.WithMessage(apperrors.ErrForbidden, "You do not have permission to perform this action.")
	}
	s.log.Warn(ctx, "meeting modified by non-owner",
		zap.String("action", action),
		zap.Int64("meeting_id", m.ID),
		zap.Int64("owner_id", m.OwnerID),
		zap.Int64("caller_id", caller.ID),
	)
	return nil
}
