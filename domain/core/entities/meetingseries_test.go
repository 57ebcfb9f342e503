package entities

import (
	"testing"
	"time"

	"plenum/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSeries(t *testing.T) *MeetingSeries {
	t.Helper()
	s, err := NewMeetingSeries("Weekly Sync", "Platform", []string{"mod-1", "mod-2"})
	require.NoError(t, err)
	return s
}

// addMinutes creates a minutes, registers it in the series list and returns it
func addMinutes(t *testing.T, s *MeetingSeries, date string, carryOver []valueobjects.Topic) *Minutes {
	t.Helper()
	m, err := NewMinutes(valueobjects.NewMinutesID(), s.ID(), testDate(date), carryOver)
	require.NoError(t, err)
	s.AppendMinutes(m.ID())
	return m
}

func finalize(t *testing.T, m *Minutes) {
	t.Helper()
	require.NoError(t, m.Finalize("mod-1", time.Now()))
}

func TestIsModerator(t *testing.T) {
	s := newTestSeries(t)

	assert.True(t, s.IsModerator("mod-1"))
	assert.True(t, s.IsModerator("mod-2"))
	assert.False(t, s.IsModerator("visitor"))
	assert.False(t, s.IsModerator(""))
}

func TestAddNewMinutesAllowed(t *testing.T) {
	t.Run("empty series allows adding", func(t *testing.T) {
		s := newTestSeries(t)
		assert.True(t, s.AddNewMinutesAllowed(nil))
	})

	t.Run("unfinalized last minutes blocks adding", func(t *testing.T) {
		s := newTestSeries(t)
		m := addMinutes(t, s, "2026-03-02", nil)
		assert.False(t, s.AddNewMinutesAllowed([]*Minutes{m}))
	})

	t.Run("finalized last minutes allows adding", func(t *testing.T) {
		s := newTestSeries(t)
		m := addMinutes(t, s, "2026-03-02", nil)
		finalize(t, m)
		assert.True(t, s.AddNewMinutesAllowed([]*Minutes{m}))
	})

	t.Run("reopened last minutes blocks adding", func(t *testing.T) {
		s := newTestSeries(t)
		m := addMinutes(t, s, "2026-03-02", nil)
		finalize(t, m)
		require.NoError(t, m.Unfinalize())
		assert.False(t, s.AddNewMinutesAllowed([]*Minutes{m}))
	})
}

func TestIsMinutesDateAllowed(t *testing.T) {
	s := newTestSeries(t)
	older := addMinutes(t, s, "2026-03-02", nil)
	finalize(t, older)
	loaded := []*Minutes{older}

	t.Run("later date is allowed", func(t *testing.T) {
		assert.True(t, s.IsMinutesDateAllowed(loaded, valueobjects.MinutesID{}, testDate("2026-03-09")))
	})

	t.Run("same date as a finalized minutes is rejected", func(t *testing.T) {
		assert.False(t, s.IsMinutesDateAllowed(loaded, valueobjects.MinutesID{}, testDate("2026-03-02")))
	})

	t.Run("earlier date is rejected", func(t *testing.T) {
		assert.False(t, s.IsMinutesDateAllowed(loaded, valueobjects.MinutesID{}, testDate("2026-02-23")))
	})

	t.Run("the excluded minutes does not constrain itself", func(t *testing.T) {
		assert.True(t, s.IsMinutesDateAllowed(loaded, older.ID(), testDate("2026-03-02")))
	})

	t.Run("drafts do not constrain the date", func(t *testing.T) {
		s2 := newTestSeries(t)
		draft := addMinutes(t, s2, "2026-03-02", nil)
		assert.True(t, s2.IsMinutesDateAllowed([]*Minutes{draft}, valueobjects.MinutesID{}, testDate("2026-02-23")))
	})
}

func TestLastMinutesAndLastFinalized(t *testing.T) {
	s := newTestSeries(t)
	first := addMinutes(t, s, "2026-03-02", nil)
	finalize(t, first)
	second := addMinutes(t, s, "2026-03-09", nil)
	loaded := []*Minutes{second, first} // deliberately unsorted

	assert.Equal(t, second.ID(), s.LastMinutes(loaded).ID(), "order comes from the series list, not the slice")
	assert.Equal(t, first.ID(), s.LastFinalized(loaded).ID())
	assert.True(t, s.IsLastMinutes(loaded, second.ID()))
	assert.False(t, s.IsLastMinutes(loaded, first.ID()))
}

func TestIsUnfinalizeAllowed(t *testing.T) {
	t.Run("only the last finalized minutes qualifies", func(t *testing.T) {
		s := newTestSeries(t)
		first := addMinutes(t, s, "2026-03-02", nil)
		finalize(t, first)
		second := addMinutes(t, s, "2026-03-09", nil)
		finalize(t, second)
		loaded := []*Minutes{first, second}

		assert.True(t, s.IsUnfinalizeAllowed(loaded, second.ID()))
		assert.False(t, s.IsUnfinalizeAllowed(loaded, first.ID()))
	})

	t.Run("a newer draft does not disqualify the last finalized one", func(t *testing.T) {
		s := newTestSeries(t)
		finalized := addMinutes(t, s, "2026-03-02", nil)
		finalize(t, finalized)
		draft := addMinutes(t, s, "2026-03-09", nil)
		loaded := []*Minutes{finalized, draft}

		assert.True(t, s.IsUnfinalizeAllowed(loaded, finalized.ID()))
		assert.False(t, s.IsUnfinalizeAllowed(loaded, draft.ID()))
	})

	t.Run("nothing finalized means nothing to reopen", func(t *testing.T) {
		s := newTestSeries(t)
		draft := addMinutes(t, s, "2026-03-02", nil)
		assert.False(t, s.IsUnfinalizeAllowed([]*Minutes{draft}, draft.ID()))
	})
}

func TestPreviousFinalized(t *testing.T) {
	s := newTestSeries(t)
	first := addMinutes(t, s, "2026-03-02", nil)
	finalize(t, first)
	second := addMinutes(t, s, "2026-03-09", nil)
	finalize(t, second)
	loaded := []*Minutes{first, second}

	prev := s.PreviousFinalized(loaded, second.ID())
	require.NotNil(t, prev)
	assert.Equal(t, first.ID(), prev.ID())

	assert.Nil(t, s.PreviousFinalized(loaded, first.ID()), "the only other finalized minutes is excluded")
}

func TestApplyAndRevertFinalizedMinutes(t *testing.T) {
	openTopic := valueobjects.Topic{ID: "t1", Subject: "Roadmap", IsOpen: true}
	closedTopic := valueobjects.Topic{ID: "t2", Subject: "Budget", IsOpen: false}

	t.Run("apply copies topics and filters the open ones", func(t *testing.T) {
		s := newTestSeries(t)
		m := addMinutes(t, s, "2026-03-02", nil)
		require.NoError(t, m.SetTopics([]valueobjects.Topic{openTopic, closedTopic}))
		finalize(t, m)

		s.ApplyFinalizedMinutes(m)

		assert.Len(t, s.Topics(), 2)
		require.Len(t, s.OpenTopics(), 1)
		assert.Equal(t, "t1", s.OpenTopics()[0].ID)
	})

	t.Run("revert to a previous finalized minutes", func(t *testing.T) {
		s := newTestSeries(t)
		first := addMinutes(t, s, "2026-03-02", nil)
		require.NoError(t, first.SetTopics([]valueobjects.Topic{closedTopic}))
		finalize(t, first)
		s.ApplyFinalizedMinutes(first)

		second := addMinutes(t, s, "2026-03-09", s.Topics())
		require.NoError(t, second.SetTopics([]valueobjects.Topic{openTopic, closedTopic}))
		finalize(t, second)
		s.ApplyFinalizedMinutes(second)

		s.RevertFinalizedMinutes(first)

		require.Len(t, s.Topics(), 1)
		assert.Equal(t, "t2", s.Topics()[0].ID)
		assert.Empty(t, s.OpenTopics())
	})

	t.Run("revert with no previous minutes clears the topic state", func(t *testing.T) {
		s := newTestSeries(t)
		m := addMinutes(t, s, "2026-03-02", nil)
		require.NoError(t, m.SetTopics([]valueobjects.Topic{openTopic}))
		finalize(t, m)
		s.ApplyFinalizedMinutes(m)

		s.RevertFinalizedMinutes(nil)

		assert.Empty(t, s.Topics())
		assert.Empty(t, s.OpenTopics())
	})

	t.Run("finalize, unfinalize and finalize again restores the same state", func(t *testing.T) {
		s := newTestSeries(t)
		m := addMinutes(t, s, "2026-03-02", nil)
		require.NoError(t, m.SetTopics([]valueobjects.Topic{openTopic, closedTopic}))
		finalize(t, m)
		s.ApplyFinalizedMinutes(m)

		wantTopics := valueobjects.CloneTopics(s.Topics())
		wantOpen := valueobjects.CloneTopics(s.OpenTopics())

		require.NoError(t, m.Unfinalize())
		s.RevertFinalizedMinutes(s.PreviousFinalized([]*Minutes{m}, m.ID()))

		finalize(t, m)
		s.ApplyFinalizedMinutes(m)

		assert.Equal(t, wantTopics, s.Topics())
		assert.Equal(t, wantOpen, s.OpenTopics())
	})
}

func TestPullMinutes(t *testing.T) {
	s := newTestSeries(t)
	first := addMinutes(t, s, "2026-03-02", nil)
	second := addMinutes(t, s, "2026-03-09", nil)

	assert.True(t, s.PullMinutes(first.ID()))
	assert.False(t, s.PullMinutes(first.ID()), "a second pull finds nothing")

	require.Len(t, s.MinutesIDs(), 1)
	assert.Equal(t, second.ID(), s.MinutesIDs()[0])
}
