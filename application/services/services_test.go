package services

import (
	"context"
	"testing"
	"time"

	"plenum/application/ports"
	"plenum/domain/core/entities"
	"plenum/domain/core/valueobjects"
	"plenum/infrastructure/persistence/memory"
	pkgerrors "plenum/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedModeratedSeries(t *testing.T, repo *memory.SeriesRepository, moderators ...string) *entities.MeetingSeries {
	t.Helper()
	series, err := entities.NewMeetingSeries("Weekly Sync", "Platform", moderators)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), series))
	return series
}

func TestSeriesRoleResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("recognizes a moderator", func(t *testing.T) {
		repo := memory.NewSeriesRepository()
		series := seedModeratedSeries(t, repo, "mod-1", "mod-2")

		ok, err := NewSeriesRoleResolver(repo).IsModeratorOf(ctx, "mod-2", series.ID())

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("denies a non-moderator", func(t *testing.T) {
		repo := memory.NewSeriesRepository()
		series := seedModeratedSeries(t, repo, "mod-1")

		ok, err := NewSeriesRoleResolver(repo).IsModeratorOf(ctx, "visitor", series.ID())

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("a missing series is a plain denial, not an error", func(t *testing.T) {
		repo := memory.NewSeriesRepository()

		ok, err := NewSeriesRoleResolver(repo).IsModeratorOf(ctx, "mod-1", valueobjects.NewSeriesID())

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("repository failures surface", func(t *testing.T) {
		repo := memory.NewSeriesRepository()
		series := seedModeratedSeries(t, repo, "mod-1")
		repo.FailOn(func(op string) error {
			return pkgerrors.NewDatabaseError("GetItem", assert.AnError)
		})

		_, err := NewSeriesRoleResolver(repo).IsModeratorOf(ctx, "mod-1", series.ID())

		assert.True(t, pkgerrors.IsKind(err, pkgerrors.ErrorKindDatabase))
	})
}

func TestModeratorGate(t *testing.T) {
	ctx := context.Background()

	t.Run("passes a moderator through", func(t *testing.T) {
		repo := memory.NewSeriesRepository()
		series := seedModeratedSeries(t, repo, "mod-1")
		gate := NewModeratorGate(NewSeriesRoleResolver(repo))

		assert.NoError(t, gate.RequireModerator(ctx, "mod-1", series.ID()))
	})

	t.Run("empty user ID means not authenticated", func(t *testing.T) {
		repo := memory.NewSeriesRepository()
		series := seedModeratedSeries(t, repo, "mod-1")
		gate := NewModeratorGate(NewSeriesRoleResolver(repo))

		err := gate.RequireModerator(ctx, "", series.ID())

		assert.True(t, pkgerrors.IsNotAuthenticated(err))
	})

	t.Run("non-moderator is not authorized and the detail names the series", func(t *testing.T) {
		repo := memory.NewSeriesRepository()
		series := seedModeratedSeries(t, repo, "mod-1")
		gate := NewModeratorGate(NewSeriesRoleResolver(repo))

		err := gate.RequireModerator(ctx, "visitor", series.ID())

		require.True(t, pkgerrors.IsNotAuthorized(err))
		appErr := pkgerrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, series.ID().String(), appErr.Details["series_id"])
	})

	t.Run("resolver errors are wrapped, not swallowed", func(t *testing.T) {
		repo := memory.NewSeriesRepository()
		series := seedModeratedSeries(t, repo, "mod-1")
		repo.FailOn(func(op string) error {
			return pkgerrors.NewDatabaseError("GetItem", assert.AnError)
		})
		gate := NewModeratorGate(NewSeriesRoleResolver(repo))

		err := gate.RequireModerator(ctx, "mod-1", series.ID())

		require.Error(t, err)
		assert.True(t, pkgerrors.IsKind(err, pkgerrors.ErrorKindDatabase))
		assert.Contains(t, err.Error(), "resolving moderator role")
	})
}

type mailSettingsStub struct {
	enabled bool
	sender  string
}

func (s mailSettingsStub) IsEmailDeliveryEnabled() bool { return s.enabled }
func (s mailSettingsStub) DefaultSenderAddress() string { return s.sender }

// channelComposer reports each hand-off on a channel so the test can wait
// for the detached goroutine
type channelComposer struct {
	requests chan ports.SendMinutesRequest
}

func newChannelComposer() *channelComposer {
	return &channelComposer{requests: make(chan ports.SendMinutesRequest, 1)}
}

func (c *channelComposer) SendMinutes(ctx context.Context, req ports.SendMinutesRequest) error {
	c.requests <- req
	return nil
}

func (c *channelComposer) waitForRequest(t *testing.T) ports.SendMinutesRequest {
	t.Helper()
	select {
	case req := <-c.requests:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("composer was never called")
		return ports.SendMinutesRequest{}
	}
}

func notifierFixture(t *testing.T) (*entities.Minutes, *entities.MeetingSeries) {
	t.Helper()
	series, err := entities.NewMeetingSeries("Weekly Sync", "Platform", []string{"mod-1"})
	require.NoError(t, err)
	date, err := time.Parse("2006-01-02", "2026-03-02")
	require.NoError(t, err)
	m, err := entities.NewMinutes(valueobjects.NewMinutesID(), series.ID(), date, nil)
	require.NoError(t, err)
	return m, series
}

func TestFinalizeNotifier(t *testing.T) {
	t.Run("hands the minutes off to the composer", func(t *testing.T) {
		m, series := notifierFixture(t)
		composer := newChannelComposer()
		notifier := NewFinalizeNotifier(mailSettingsStub{enabled: true, sender: "noreply@example.org"}, composer, zap.NewNop())

		notifier.NotifyFinalized(m, series, NotifyOptions{
			SendActionItems: true,
			FinalizerEmail:  "moderator@example.org",
		})

		req := composer.waitForRequest(t)
		assert.Equal(t, m.ID(), req.MinutesID)
		assert.Equal(t, series.ID(), req.SeriesID)
		assert.Equal(t, "Weekly Sync", req.SeriesName)
		assert.Equal(t, "2026-03-02", req.MeetingDate)
		assert.Equal(t, "moderator@example.org", req.Sender)
		assert.True(t, req.SendActionItems)
		assert.False(t, req.SendInfoItems)
	})

	t.Run("falls back to the configured sender address", func(t *testing.T) {
		m, series := notifierFixture(t)
		composer := newChannelComposer()
		notifier := NewFinalizeNotifier(mailSettingsStub{enabled: true, sender: "noreply@example.org"}, composer, zap.NewNop())

		notifier.NotifyFinalized(m, series, NotifyOptions{})

		req := composer.waitForRequest(t)
		assert.Equal(t, "noreply@example.org", req.Sender)
	})

	t.Run("disabled delivery never reaches the composer", func(t *testing.T) {
		m, series := notifierFixture(t)
		composer := newChannelComposer()
		notifier := NewFinalizeNotifier(mailSettingsStub{enabled: false}, composer, zap.NewNop())

		notifier.NotifyFinalized(m, series, NotifyOptions{FinalizerEmail: "moderator@example.org"})

		select {
		case <-composer.requests:
			t.Fatal("composer must not be called while delivery is disabled")
		case <-time.After(50 * time.Millisecond):
		}
	})
}
