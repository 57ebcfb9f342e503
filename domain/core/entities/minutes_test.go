package entities

import (
	"testing"
	"time"

	"plenum/domain/core/valueobjects"
	pkgerrors "plenum/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestMinutes(t *testing.T, seriesID valueobjects.SeriesID, date string, carryOver []valueobjects.Topic) *Minutes {
	t.Helper()
	m, err := NewMinutes(valueobjects.NewMinutesID(), seriesID, testDate(date), carryOver)
	require.NoError(t, err)
	return m
}

func TestNewMinutes(t *testing.T) {
	seriesID := valueobjects.NewSeriesID()

	t.Run("starts as draft", func(t *testing.T) {
		m := newTestMinutes(t, seriesID, "2026-03-02", nil)

		assert.Equal(t, StageDraft, m.Stage())
		assert.False(t, m.IsFinalized())
		assert.False(t, m.IsUnfinalized())
		assert.Equal(t, 0, m.FinalizedVersion())
	})

	t.Run("carried-over topics lose their new flags", func(t *testing.T) {
		carryOver := []valueobjects.Topic{
			{ID: "t1", Subject: "Budget", IsOpen: true, IsNew: true, Items: []valueobjects.TopicItem{
				{ID: "i1", Kind: valueobjects.ItemKindAction, Subject: "Approve", IsOpen: true, IsNew: true},
			}},
		}

		m := newTestMinutes(t, seriesID, "2026-03-02", carryOver)

		require.Len(t, m.Topics(), 1)
		assert.False(t, m.Topics()[0].IsNew)
		assert.False(t, m.Topics()[0].Items[0].IsNew)
		assert.True(t, m.Topics()[0].IsOpen, "open state survives the carry-over")
	})

	t.Run("rejects zero series ID", func(t *testing.T) {
		_, err := NewMinutes(valueobjects.NewMinutesID(), valueobjects.SeriesID{}, testDate("2026-03-02"), nil)
		assert.True(t, pkgerrors.IsInvalidArgument(err))
	})
}

func TestMinutesFinalize(t *testing.T) {
	seriesID := valueobjects.NewSeriesID()

	t.Run("records actor, time and version", func(t *testing.T) {
		m := newTestMinutes(t, seriesID, "2026-03-02", nil)
		at := time.Now()

		require.NoError(t, m.Finalize("user-1", at))

		assert.True(t, m.IsFinalized())
		assert.Equal(t, StageFinalized, m.Stage())
		assert.Equal(t, "user-1", m.FinalizedBy())
		assert.Equal(t, at, m.FinalizedAt())
		assert.Equal(t, 1, m.FinalizedVersion())
	})

	t.Run("double finalize is rejected", func(t *testing.T) {
		m := newTestMinutes(t, seriesID, "2026-03-02", nil)
		require.NoError(t, m.Finalize("user-1", time.Now()))

		err := m.Finalize("user-1", time.Now())
		assert.True(t, pkgerrors.IsNotAllowed(err))
		assert.Equal(t, 1, m.FinalizedVersion())
	})

	t.Run("empty user is rejected", func(t *testing.T) {
		m := newTestMinutes(t, seriesID, "2026-03-02", nil)
		err := m.Finalize("", time.Now())
		assert.True(t, pkgerrors.IsInvalidArgument(err))
		assert.False(t, m.IsFinalized())
	})

	t.Run("version counts every finalize cycle", func(t *testing.T) {
		m := newTestMinutes(t, seriesID, "2026-03-02", nil)

		require.NoError(t, m.Finalize("user-1", time.Now()))
		require.NoError(t, m.Unfinalize())
		require.NoError(t, m.Finalize("user-2", time.Now()))

		assert.Equal(t, 2, m.FinalizedVersion())
		assert.Equal(t, "user-2", m.FinalizedBy())
	})
}

func TestMinutesUnfinalize(t *testing.T) {
	seriesID := valueobjects.NewSeriesID()

	t.Run("reopens a finalized minutes", func(t *testing.T) {
		m := newTestMinutes(t, seriesID, "2026-03-02", nil)
		require.NoError(t, m.Finalize("user-1", time.Now()))

		require.NoError(t, m.Unfinalize())

		assert.False(t, m.IsFinalized())
		assert.True(t, m.IsUnfinalized())
		assert.Equal(t, StageReopened, m.Stage())
	})

	t.Run("draft cannot be unfinalized", func(t *testing.T) {
		m := newTestMinutes(t, seriesID, "2026-03-02", nil)
		err := m.Unfinalize()
		assert.True(t, pkgerrors.IsNotAllowed(err))
	})
}

func TestMinutesSetTopics(t *testing.T) {
	seriesID := valueobjects.NewSeriesID()
	topics := []valueobjects.Topic{{ID: "t1", Subject: "Roadmap", IsOpen: true}}

	t.Run("draft topics are editable", func(t *testing.T) {
		m := newTestMinutes(t, seriesID, "2026-03-02", nil)
		require.NoError(t, m.SetTopics(topics))
		assert.Len(t, m.Topics(), 1)
	})

	t.Run("finalized topics are frozen", func(t *testing.T) {
		m := newTestMinutes(t, seriesID, "2026-03-02", nil)
		require.NoError(t, m.Finalize("user-1", time.Now()))

		err := m.SetTopics(topics)
		assert.True(t, pkgerrors.IsNotAllowed(err))
		assert.Empty(t, m.Topics())
	})
}
