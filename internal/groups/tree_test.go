package groups_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/database/models"
	"github.com/hugh/linkstash/internal/groups"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id uuid.UUID, name string, parentID *uuid.UUID, sortOrder int, count int64) *groups.Node {
	return &groups.Node{
		Group: models.Group{
			Base:      models.Base{ID: id},
			Name:      name,
			ParentID:  parentID,
			SortOrder: sortOrder,
		},
		BookmarkCount: count,
	}
}

func TestBuildForest(t *testing.T) {
	rootID := uuid.New()
	childID := uuid.New()
	orphanParent := uuid.New()
	orphanID := uuid.New()

	t.Run("nests children under parents", func(t *testing.T) {
		forest := groups.BuildForest([]*groups.Node{
			node(rootID, "Root", nil, 0, 0),
			node(childID, "Child", &rootID, 0, 0),
		})

		require.Len(t, forest, 1)
		require.Len(t, forest[0].Children, 1)
		assert.Equal(t, childID, forest[0].Children[0].ID)
	})

	t.Run("absent parent promotes to root", func(t *testing.T) {
		forest := groups.BuildForest([]*groups.Node{
			node(orphanID, "Orphan", &orphanParent, 0, 0),
		})

		require.Len(t, forest, 1)
		assert.Equal(t, orphanID, forest[0].ID)
	})

	t.Run("siblings sort by sort_order then name", func(t *testing.T) {
		forest := groups.BuildForest([]*groups.Node{
			node(uuid.New(), "zeta", nil, 0, 0),
			node(uuid.New(), "Alpha", nil, 0, 0),
			node(uuid.New(), "first", nil, -1, 0),
		})

		require.Len(t, forest, 3)
		assert.Equal(t, "first", forest[0].Name)
		assert.Equal(t, "Alpha", forest[1].Name)
		assert.Equal(t, "zeta", forest[2].Name)
	})

	t.Run("leaves get empty children slices", func(t *testing.T) {
		forest := groups.BuildForest([]*groups.Node{
			node(uuid.New(), "Leaf", nil, 0, 0),
		})

		require.Len(t, forest, 1)
		assert.NotNil(t, forest[0].Children)
		assert.Empty(t, forest[0].Children)
	})
}

func TestRollUpCounts(t *testing.T) {
	rootID := uuid.New()
	midID := uuid.New()
	leafID := uuid.New()

	forest := groups.BuildForest([]*groups.Node{
		node(rootID, "Root", nil, 0, 1),
		node(midID, "Mid", &rootID, 0, 2),
		node(leafID, "Leaf", &midID, 0, 4),
	})
	groups.RollUpCounts(forest)

	require.Len(t, forest, 1)
	assert.Equal(t, int64(7), forest[0].BookmarkCount)
	assert.Equal(t, int64(6), forest[0].Children[0].BookmarkCount)
	assert.Equal(t, int64(4), forest[0].Children[0].Children[0].BookmarkCount)
}

func TestExpandDescendants(t *testing.T) {
	rootID := uuid.New()
	childID := uuid.New()
	grandchildID := uuid.New()
	otherID := uuid.New()

	all := []models.Group{
		{Base: models.Base{ID: rootID}},
		{Base: models.Base{ID: childID}, ParentID: &rootID},
		{Base: models.Base{ID: grandchildID}, ParentID: &childID},
		{Base: models.Base{ID: otherID}},
	}

	t.Run("includes the root and all transitive children", func(t *testing.T) {
		ids := groups.ExpandDescendants(rootID, all)
		assert.ElementsMatch(t, []uuid.UUID{rootID, childID, grandchildID}, ids)
	})

	t.Run("leaf expands to itself", func(t *testing.T) {
		ids := groups.ExpandDescendants(otherID, all)
		assert.Equal(t, []uuid.UUID{otherID}, ids)
	})

	t.Run("terminates on a corrupt parent cycle", func(t *testing.T) {
		a := uuid.New()
		b := uuid.New()
		cyclic := []models.Group{
			{Base: models.Base{ID: a}, ParentID: &b},
			{Base: models.Base{ID: b}, ParentID: &a},
		}

		ids := groups.ExpandDescendants(a, cyclic)
		assert.ElementsMatch(t, []uuid.UUID{a, b}, ids)
	})
}
