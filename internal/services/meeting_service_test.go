package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"meetings-api/internal/domain/meeting"
	"meetings-api/internal/domain/user"
	"meetings-api/internal/repository"
	"meetings-api/internal/testutil"
	apperrors "meetings-api/pkg/errors"
	"meetings-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func strPtr(s string) *string { return &s }

func validInput() MeetingInput {
	return MeetingInput{
		Agenda:      strPtr("Sprint planning"),
		Description: strPtr("Plan the next sprint"),
		Status:      strPtr("Upcoming"),
		Date:        strPtr("2024-05-01"),
		StartTime:   strPtr("10:00"),
		MeetingURL:  strPtr("https://meet.example.com/sprint"),
	}
}

type meetingFixture struct {
	svc   *MeetingService
	alice user.User
	bob   user.User
	logs  *observer.ObservedLogs
}

func newMeetingFixture(t *testing.T, enforce bool) meetingFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	users := repository.NewUserRepository(db.DB, db.Dialect)
	meetings := repository.NewMeetingRepository(db.DB, db.Dialect)

	core, logs := observer.New(zap.InfoLevel)
	log := &logger.Logger{Logger: zap.New(core)}

	mk := func(name string) user.User {
		u := user.User{Username: name, PasswordHash: "x", DateJoined: time.Now().UTC()}
		require.NoError(t, users.Create(context.Background(), &u))
		return u
	}

	return meetingFixture{
		svc:   NewMeetingService(meetings, log, enforce),
		alice: mk("alice"),
		bob:   mk("bob"),
		logs:  logs,
	}
}

func TestMeetingService_CreateAndGet(t *testing.T) {
	f := newMeetingFixture(t, false)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.alice, validInput())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, f.alice.ID, created.OwnerID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", got.Date.String())
	assert.Equal(t, "10:00", got.StartTime.String())
	assert.Equal(t, meeting.StatusUpcoming, got.Status)
	assert.Equal(t, f.alice.ID, got.OwnerID)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestMeetingService_CreateWithoutDescription(t *testing.T) {
	f := newMeetingFixture(t, false)
	in := validInput()
	in.Description = nil

	created, err := f.svc.Create(context.Background(), f.alice, in)
	require.NoError(t, err)
	assert.Equal(t, "", created.Description)
}

func TestMeetingService_CreateValidation(t *testing.T) {
	f := newMeetingFixture(t, false)

	tests := []struct {
		name   string
		mutate func(*MeetingInput)
		field  string
		msg    string
	}{
		{"missing agenda", func(in *MeetingInput) { in.Agenda = nil }, "agenda", "This field is required."},
		{"blank agenda", func(in *MeetingInput) { in.Agenda = strPtr("") }, "agenda", "This field may not be blank."},
		{"long agenda", func(in *MeetingInput) { in.Agenda = strPtr(strings.Repeat("a", 256)) }, "agenda", "Ensure this field has no more than 255 characters."},
		{"bad status", func(in *MeetingInput) { in.Status = strPtr("Done") }, "status", `"Done" is not a valid choice.`},
		{"lowercase status", func(in *MeetingInput) { in.Status = strPtr("upcoming") }, "status", `"upcoming" is not a valid choice.`},
		{"bad date", func(in *MeetingInput) { in.Date = strPtr("01/05/2024") }, "date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."},
		{"bad time", func(in *MeetingInput) { in.StartTime = strPtr("25:00") }, "start_time", "Time has wrong format. Use one of these formats instead: hh:mm[:ss[.uuuuuu]]."},
		{"relative url", func(in *MeetingInput) { in.MeetingURL = strPtr("/rooms/1") }, "meeting_url", "Enter a valid URL."},
		{"long url", func(in *MeetingInput) { in.MeetingURL = strPtr("https://x.example/" + strings.Repeat("a", 200)) }, "meeting_url", "Ensure this field has no more than 200 characters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := f.svc.Create(context.Background(), f.alice, in)
			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{tt.msg}, verr.Fields[tt.field])
			assert.Len(t, verr.Fields, 1)
		})
	}
}

func TestMeetingService_CreateReportsEveryField(t *testing.T) {
	f := newMeetingFixture(t, false)

	_, err := f.svc.Create(context.Background(), f.alice, MeetingInput{})
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"agenda", "status", "date", "start_time", "meeting_url"} {
		assert.Contains(t, verr.Fields, field)
	}
	assert.NotContains(t, verr.Fields, "description")
}

func TestMeetingService_FullUpdate(t *testing.T) {
	f := newMeetingFixture(t, false)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.alice, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Agenda = strPtr("Retro")
	in.Status = strPtr("In Review")
	updated, err := f.svc.Update(ctx, f.alice, created.ID, in, false)
	require.NoError(t, err)
	assert.Equal(t, "Retro", updated.Agenda)
	assert.Equal(t, meeting.StatusInReview, updated.Status)
	assert.Equal(t, created.OwnerID, updated.OwnerID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))

	partialBody := MeetingInput{Agenda: strPtr("Only agenda")}
	_, err = f.svc.Update(ctx, f.alice, created.ID, partialBody, false)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "PUT needs every required field")
}

func TestMeetingService_PartialUpdate(t *testing.T) {
	f := newMeetingFixture(t, false)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.alice, validInput())
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, f.alice, created.ID, MeetingInput{StartTime: strPtr("14:30:15")}, true)
	require.NoError(t, err)
	assert.Equal(t, "14:30:15", updated.StartTime.String())
	assert.Equal(t, "Sprint planning", updated.Agenda)
	assert.Equal(t, "Plan the next sprint", updated.Description)

	stored, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.StartTime, stored.StartTime)

	_, err = f.svc.Update(ctx, f.alice, created.ID, MeetingInput{Status: strPtr("Nope")}, true)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	unchanged, err := f.svc.Update(ctx, f.alice, created.ID, MeetingInput{}, true)
	require.NoError(t, err)
	assert.Equal(t, stored.Agenda, unchanged.Agenda)
}

func TestMeetingService_NotFound(t *testing.T) {
	f := newMeetingFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.Update(ctx, f.alice, 404, validInput(), false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.alice, 404), apperrors.ErrNotFound)
}

func TestMeetingService_Delete(t *testing.T) {
	f := newMeetingFixture(t, false)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.alice, validInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.alice, created.ID))
	_, err = f.svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMeetingService_NonOwnerAllowedAndLogged(t *testing.T) {
	f := newMeetingFixture(t, false)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.alice, validInput())
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.bob, created.ID, MeetingInput{Agenda: strPtr("Hijacked")}, true)
	require.NoError(t, err)

	warnings := f.logs.FilterMessage("meeting modified by non-owner").All()
	require.Len(t, warnings, 1)
	fields := warnings[0].ContextMap()
	assert.Equal(t, f.alice.ID, fields["owner_id"])
	assert.Equal(t, f.bob.ID, fields["caller_id"])

	require.NoError(t, f.svc.Delete(ctx, f.bob, created.ID))
	assert.Len(t, f.logs.FilterMessage("meeting modified by non-owner").All(), 2)
}

func TestMeetingService_OwnershipEnforced(t *testing.T) {
	f := newMeetingFixture(t, true)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.alice, validInput())
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, f.bob, created.ID, MeetingInput{Agenda: strPtr("Hijacked")}, true)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.bob, created.ID), apperrors.ErrForbidden)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sprint planning", got.Agenda)

	_, err = f.svc.Update(ctx, f.alice, created.ID, MeetingInput{Agenda: strPtr("Mine")}, true)
	assert.NoError(t, err)
}
