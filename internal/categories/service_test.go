package categories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/backoffice-api/internal/testutil"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

type fakeBlobs struct {
	deleted []string
	err     error
}

func (f *fakeBlobs) KeyFromURL(raw string) (string, bool) {
	const prefix = "https://media.example.com/"
	if len(raw) <= len(prefix) || raw[:len(prefix)] != prefix {
		return "", false
	}
	return raw[len(prefix):], true
}

func (f *fakeBlobs) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.err
}

func newTestService(t *testing.T, blobs BlobStore) Service {
	t.Helper()
	svc, err := NewService(NewRepository(testutil.OpenDB(t)), blobs, nil)
	require.NoError(t, err)
	return svc
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "   "})
	requireCode(t, err, pkgerrors.CodeValidation)

	shoes, err := svc.Create(ctx, CreateInput{Name: " Shoes "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), shoes.ID)
	assert.Equal(t, "Shoes", shoes.Name)
	assert.Nil(t, shoes.ParentCategoryID)
	assert.Nil(t, shoes.HeroImage)

	sneakers, err := svc.Create(ctx, CreateInput{Name: "Sneakers", ParentCategoryID: &shoes.ID})
	require.NoError(t, err)
	require.NotNil(t, sneakers.ParentCategoryID)
	assert.Equal(t, shoes.ID, *sneakers.ParentCategoryID)

	missing := int64(404)
	_, err = svc.Create(ctx, CreateInput{Name: "Ghost child", ParentCategoryID: &missing})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestGetReturnsLineage(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	shoes, err := svc.Create(ctx, CreateInput{Name: "Shoes"})
	require.NoError(t, err)
	sneakers, err := svc.Create(ctx, CreateInput{Name: "Sneakers", ParentCategoryID: &shoes.ID})
	require.NoError(t, err)

	detail, err := svc.Get(ctx, sneakers.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sneakers", detail.Name)
	assert.Equal(t, []string{"Shoes"}, detail.Lineage)

	lineage, err := svc.Lineage(ctx, sneakers.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shoes"}, Breadcrumb(lineage))

	_, err = svc.Get(ctx, 999)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdatePartialAndNullClears(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	desc := "All footwear"
	shoes, err := svc.Create(ctx, CreateInput{Name: "Shoes", Description: &desc})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, shoes.ID, UpdateInput{Name: types.Some("Footwear")})
	require.NoError(t, err)
	assert.Equal(t, "Footwear", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)

	cleared, err := svc.Update(ctx, shoes.ID, UpdateInput{Description: types.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)
	assert.Equal(t, "Footwear", cleared.Name)

	_, err = svc.Update(ctx, shoes.ID, UpdateInput{Name: types.Null[string]()})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Update(ctx, 999, UpdateInput{Name: types.Some("x")})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetWalksLineageWithoutTableScan(t *testing.T) {
	conn := testutil.OpenDB(t)
	svc, err := NewService(NewRepository(conn), nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	root, err := svc.Create(ctx, CreateInput{Name: "Apparel"})
	require.NoError(t, err)
	mid, err := svc.Create(ctx, CreateInput{Name: "Shoes", ParentCategoryID: &root.ID})
	require.NoError(t, err)
	leaf, err := svc.Create(ctx, CreateInput{Name: "Sneakers", ParentCategoryID: &mid.ID})
	require.NoError(t, err)

	detail, err := svc.Get(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apparel", "Shoes"}, detail.Lineage)

	detail, err = svc.Get(ctx, root.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Lineage)

	// a cycle written behind the service's back still terminates
	require.NoError(t, conn.Exec("UPDATE product_categories SET parent_category_id = ? WHERE id = ?", leaf.ID, root.ID).Error)
	detail, err = svc.Get(ctx, leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apparel", "Shoes"}, detail.Lineage)
}

func TestHeroImageMustBeURL(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	bad := "not a url"
	_, err := svc.Create(ctx, CreateInput{Name: "Shoes", HeroImage: &bad})
	requireCode(t, err, pkgerrors.CodeValidation)

	shoes, err := svc.Create(ctx, CreateInput{Name: "Shoes"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, shoes.ID, UpdateInput{HeroImage: types.Some("banner.png")})
	requireCode(t, err, pkgerrors.CodeValidation)
	_, err = svc.SetHeroImage(ctx, shoes.ID, "::")
	requireCode(t, err, pkgerrors.CodeValidation)

	updated, err := svc.Update(ctx, shoes.ID, UpdateInput{HeroImage: types.Some(" https://media.example.com/category_hero/1/b.png ")})
	require.NoError(t, err)
	require.NotNil(t, updated.HeroImage)
	assert.Equal(t, "https://media.example.com/category_hero/1/b.png", *updated.HeroImage)

	cleared, err := svc.Update(ctx, shoes.ID, UpdateInput{HeroImage: types.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.HeroImage)
}

func TestUpdateRejectsCycles(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, CreateInput{Name: "A"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, CreateInput{Name: "B", ParentCategoryID: &a.ID})
	require.NoError(t, err)
	c, err := svc.Create(ctx, CreateInput{Name: "C", ParentCategoryID: &b.ID})
	require.NoError(t, err)

	_, err = svc.Update(ctx, a.ID, UpdateInput{ParentCategoryID: types.Some(a.ID)})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Update(ctx, a.ID, UpdateInput{ParentCategoryID: types.Some(c.ID)})
	requireCode(t, err, pkgerrors.CodeValidation)

	moved, err := svc.Update(ctx, c.ID, UpdateInput{ParentCategoryID: types.Some(a.ID)})
	require.NoError(t, err)
	assert.Equal(t, a.ID, *moved.ParentCategoryID)

	root, err := svc.Update(ctx, b.ID, UpdateInput{ParentCategoryID: types.Null[int64]()})
	require.NoError(t, err)
	assert.Nil(t, root.ParentCategoryID)
}

func TestDeleteWithChildrenConflicts(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	parent, err := svc.Create(ctx, CreateInput{Name: "Parent"})
	require.NoError(t, err)
	child, err := svc.Create(ctx, CreateInput{Name: "Child", ParentCategoryID: &parent.ID})
	require.NoError(t, err)

	requireCode(t, svc.Delete(ctx, parent.ID), pkgerrors.CodeConflict)

	children, err := svc.Children(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	require.NoError(t, svc.Delete(ctx, child.ID))
	require.NoError(t, svc.Delete(ctx, parent.ID))
	requireCode(t, svc.Delete(ctx, parent.ID), pkgerrors.CodeNotFound)

	_, err = svc.Children(ctx, parent.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestListPagination(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	for i := 1; i <= 45; i++ {
		_, err := svc.Create(ctx, CreateInput{Name: fmt.Sprintf("Category %02d", i)})
		require.NoError(t, err)
	}

	params, err := Sort.Normalize(pagination.Params{Page: 2, Limit: 20})
	require.NoError(t, err)
	page, err := svc.List(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, int64(45), page.Total)
	require.Len(t, page.Rows, 20)
	assert.Equal(t, int64(21), page.Rows[0].ID)
	assert.Equal(t, int64(40), page.Rows[19].ID)

	desc, err := Sort.Normalize(pagination.Params{Page: 1, Limit: 5, OrderBy: "name", Order: pagination.Desc})
	require.NoError(t, err)
	page, err = svc.List(ctx, desc)
	require.NoError(t, err)
	assert.Equal(t, "Category 45", page.Rows[0].Name)

	_, err = Sort.Normalize(pagination.Params{OrderBy: "password"})
	require.Error(t, err)
}

func TestTree(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	shoes, err := svc.Create(ctx, CreateInput{Name: "Shoes"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "Apparel"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "Boots", ParentCategoryID: &shoes.ID})
	require.NoError(t, err)

	tree, err := svc.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Apparel", tree[0].Name)
	require.Len(t, tree[1].Children, 1)
	assert.Equal(t, "Boots", tree[1].Children[0].Name)
}

func TestHeroImageLifecycle(t *testing.T) {
	blobs := &fakeBlobs{}
	svc := newTestService(t, blobs)
	ctx := context.Background()

	row, err := svc.Create(ctx, CreateInput{Name: "Shoes"})
	require.NoError(t, err)

	withHero, err := svc.SetHeroImage(ctx, row.ID, "https://media.example.com/category_hero/1/a.png")
	require.NoError(t, err)
	require.NotNil(t, withHero.HeroImage)

	cleared, err := svc.ClearHeroImage(ctx, row.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.HeroImage)
	assert.Equal(t, []string{"category_hero/1/a.png"}, blobs.deleted)

	again, err := svc.ClearHeroImage(ctx, row.ID)
	require.NoError(t, err)
	assert.Nil(t, again.HeroImage)
	assert.Len(t, blobs.deleted, 1)

	_, err = svc.SetHeroImage(ctx, 999, "https://media.example.com/x.png")
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestClearHeroImageSwallowsBlobFailures(t *testing.T) {
	blobs := &fakeBlobs{err: errors.New("bucket unavailable")}
	svc := newTestService(t, blobs)
	ctx := context.Background()

	hero := "https://media.example.com/category_hero/1/a.png"
	row, err := svc.Create(ctx, CreateInput{Name: "Shoes", HeroImage: &hero})
	require.NoError(t, err)

	cleared, err := svc.ClearHeroImage(ctx, row.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.HeroImage)
	assert.Len(t, blobs.deleted, 1)

	foreign := "https://cdn.other.com/x.png"
	_, err = svc.SetHeroImage(ctx, row.ID, foreign)
	require.NoError(t, err)
	_, err = svc.ClearHeroImage(ctx, row.ID)
	require.NoError(t, err)
	assert.Len(t, blobs.deleted, 1, "foreign urls are never deleted")
}

