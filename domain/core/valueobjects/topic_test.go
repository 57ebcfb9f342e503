package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneTopics(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, CloneTopics(nil))
	})

	t.Run("clone does not alias the original items", func(t *testing.T) {
		original := []Topic{
			{ID: "t1", Subject: "Budget", Items: []TopicItem{
				{ID: "i1", Kind: ItemKindAction, Subject: "Approve", IsOpen: true},
			}},
		}

		clone := CloneTopics(original)
		clone[0].Items[0].IsOpen = false
		clone[0].Subject = "Changed"

		assert.True(t, original[0].Items[0].IsOpen)
		assert.Equal(t, "Budget", original[0].Subject)
	})
}

func TestOpenTopicsOf(t *testing.T) {
	topics := []Topic{
		{ID: "t1", IsOpen: true},
		{ID: "t2", IsOpen: false},
		{ID: "t3", IsOpen: true},
	}

	open := OpenTopicsOf(topics)

	require.Len(t, open, 2)
	assert.Equal(t, "t1", open[0].ID)
	assert.Equal(t, "t3", open[1].ID)

	assert.Empty(t, OpenTopicsOf([]Topic{{ID: "t1"}}))
}

func TestMarkSeen(t *testing.T) {
	topics := []Topic{
		{ID: "t1", IsNew: true, IsOpen: true, Items: []TopicItem{
			{ID: "i1", IsNew: true, IsOpen: true},
		}},
	}

	seen := MarkSeen(topics)

	assert.False(t, seen[0].IsNew)
	assert.False(t, seen[0].Items[0].IsNew)
	assert.True(t, seen[0].IsOpen, "open flags are untouched")
	assert.True(t, topics[0].IsNew, "the input is not mutated")
}
