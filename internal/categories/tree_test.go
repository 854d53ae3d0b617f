package categories

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/backoffice-api/pkg/db/models"
)

func ptr[T any](v T) *T { return &v }

func cat(id int64, name string, parent *int64) models.ProductCategory {
	return models.ProductCategory{ID: id, Name: name, ParentCategoryID: parent}
}

func TestBuildTreeSortsSiblingsAndNests(t *testing.T) {
	flat := []models.ProductCategory{
		cat(1, "shoes", nil),
		cat(2, "Sneakers", ptr[int64](1)),
		cat(3, "boots", ptr[int64](1)),
		cat(4, "Apparel", nil),
		cat(5, "boots", ptr[int64](1)),
		cat(6, "High tops", ptr[int64](2)),
	}

	tree := BuildTree(flat)
	require.Len(t, tree, 2)
	assert.Equal(t, "Apparel", tree[0].Name)
	assert.Equal(t, "shoes", tree[1].Name)
	assert.Empty(t, tree[0].Children)
	assert.NotNil(t, tree[0].Children)

	shoes := tree[1]
	require.Len(t, shoes.Children, 3)
	assert.Equal(t, []int64{3, 5, 2}, []int64{shoes.Children[0].ID, shoes.Children[1].ID, shoes.Children[2].ID})
	require.Len(t, shoes.Children[2].Children, 1)
	assert.Equal(t, int64(6), shoes.Children[2].Children[0].ID)
}

func TestBuildTreeOrphansBecomeRootsAndCyclesTerminate(t *testing.T) {
	flat := []models.ProductCategory{
		cat(1, "Root", nil),
		cat(2, "Orphan", ptr[int64](99)),
		cat(3, "A", ptr[int64](4)),
		cat(4, "B", ptr[int64](3)),
	}

	tree := BuildTree(flat)
	require.Len(t, tree, 2)
	assert.Equal(t, "Orphan", tree[0].Name)
	assert.Equal(t, "Root", tree[1].Name)
	assert.Nil(t, FindNode(tree, 3))
	assert.Nil(t, FindNode(tree, 4))
}

func TestBuildTreeEmpty(t *testing.T) {
	tree := BuildTree(nil)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}

func TestToggleExpandedCopiesTree(t *testing.T) {
	tree := BuildTree([]models.ProductCategory{
		cat(1, "Shoes", nil),
		cat(2, "Sneakers", ptr[int64](1)),
	})

	toggled := ToggleExpanded(tree, 2)
	assert.True(t, FindNode(toggled, 2).IsExpanded)
	assert.False(t, FindNode(toggled, 1).IsExpanded)
	assert.False(t, FindNode(tree, 2).IsExpanded, "input must not change")

	again := ToggleExpanded(toggled, 2)
	assert.False(t, FindNode(again, 2).IsExpanded)
	assert.True(t, FindNode(toggled, 2).IsExpanded)
}

func TestLineageUsesFlatListRootFirst(t *testing.T) {
	flat := []models.ProductCategory{
		cat(1, "Shoes", nil),
		cat(2, "Sneakers", ptr[int64](1)),
		cat(3, "High tops", ptr[int64](2)),
	}
	byID := IndexByID(flat)

	lineage, err := Lineage(byID[3], byID, nil, len(flat))
	require.NoError(t, err)
	assert.Equal(t, []string{"Shoes", "Sneakers"}, Breadcrumb(lineage))

	rootLineage, err := Lineage(byID[1], byID, nil, len(flat))
	require.NoError(t, err)
	assert.Empty(t, rootLineage)
}

func TestLineageFetchesMissingRowsPerHop(t *testing.T) {
	rows := IndexByID([]models.ProductCategory{
		cat(1, "Shoes", nil),
		cat(2, "Sneakers", ptr[int64](1)),
	})
	var fetched []int64
	fetch := func(id int64) (*models.ProductCategory, error) {
		fetched = append(fetched, id)
		row, ok := rows[id]
		if !ok {
			return nil, nil
		}
		return &row, nil
	}

	lineage, err := Lineage(cat(3, "High tops", ptr[int64](2)), nil, fetch, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shoes", "Sneakers"}, Breadcrumb(lineage))
	assert.Equal(t, []int64{2, 1}, fetched)
}

func TestLineageStopsOnCycleAndHopLimit(t *testing.T) {
	flat := []models.ProductCategory{
		cat(1, "A", ptr[int64](3)),
		cat(2, "B", ptr[int64](1)),
		cat(3, "C", ptr[int64](2)),
	}
	byID := IndexByID(flat)

	lineage, err := Lineage(byID[1], byID, nil, len(flat))
	require.NoError(t, err)
	assert.Len(t, lineage, 2)
	assert.LessOrEqual(t, len(lineage), len(flat))

	calls := 0
	loop := func(id int64) (*models.ProductCategory, error) {
		calls++
		return &models.ProductCategory{ID: id + 1, Name: "n", ParentCategoryID: ptr(id + 2)}, nil
	}
	_, err = Lineage(cat(1, "start", ptr[int64](2)), nil, loop, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, calls)
}

func TestLineagePropagatesFetchError(t *testing.T) {
	boom := errors.New("db down")
	_, err := Lineage(cat(2, "B", ptr[int64](1)), nil, func(int64) (*models.ProductCategory, error) {
		return nil, boom
	}, 3)
	assert.ErrorIs(t, err, boom)
}

func TestCreatesCycle(t *testing.T) {
	byID := IndexByID([]models.ProductCategory{
		cat(1, "Shoes", nil),
		cat(2, "Sneakers", ptr[int64](1)),
		cat(3, "High tops", ptr[int64](2)),
		cat(4, "Apparel", nil),
		cat(5, "X", ptr[int64](6)),
		cat(6, "Y", ptr[int64](5)),
	})

	assert.True(t, CreatesCycle(1, 1, byID))
	assert.True(t, CreatesCycle(1, 3, byID))
	assert.True(t, CreatesCycle(2, 3, byID))
	assert.False(t, CreatesCycle(3, 4, byID))
	assert.False(t, CreatesCycle(4, 3, byID))
	assert.False(t, CreatesCycle(1, 5, byID), "existing cycles elsewhere must terminate")
}
