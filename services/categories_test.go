package services

import (
	"context"
	"testing"

	"github.com/Kariqs/satshop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "sport-hd", Slugify("Sport HD"))
	assert.Equal(t, "films-et-séries", Slugify("  Films \t et   Séries "))
	assert.Equal(t, "iptv", Slugify("IPTV"))
}

func TestCreateCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db, nil, 0, nil)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, models.CategoryInput{Name: "  "})
	assert.Equal(t, EINVALID, ErrorCode(err))

	_, err = svc.CreateCategory(ctx, models.CategoryInput{Name: "Sport", ParentID: ptr("missing")})
	assert.ErrorIs(t, err, ErrParentNotFound)

	root, err := svc.CreateCategory(ctx, models.CategoryInput{Name: "IPTV Europe", Icon: "Tv"})
	require.NoError(t, err)
	assert.Equal(t, "iptv-europe", root.Slug)
	assert.Nil(t, root.ParentID)

	child, err := svc.CreateCategory(ctx, models.CategoryInput{Name: "Sport", ParentID: &root.ID})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)
}

func TestCategoryTreeIsRecursive(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db, nil, 0, nil)

	c1 := seedCategory(t, db, "One", nil)
	c2 := seedCategory(t, db, "Two", &c1.ID)
	c3 := seedCategory(t, db, "Three", &c2.ID)

	tree, err := svc.Tree(context.Background())
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, c1.ID, tree[0].ID)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, c2.ID, tree[0].Children[0].ID)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, c3.ID, tree[0].Children[0].Children[0].ID)
	assert.Empty(t, tree[0].Children[0].Children[0].Children)
}

func TestBuildCategoryTreeOrphansAndCycles(t *testing.T) {
	categories := []models.Category{
		{ID: "root", Name: "Root"},
		{ID: "orphan", Name: "Orphan", ParentID: ptr("gone")},
		{ID: "a", Name: "A", ParentID: ptr("b")},
		{ID: "b", Name: "B", ParentID: ptr("a")},
		{ID: "self", Name: "Self", ParentID: ptr("self")},
	}

	tree := BuildCategoryTree(categories)

	ids := []string{}
	for _, n := range tree {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"root", "orphan", "self", "a"}, ids)

	a := tree[3]
	require.Len(t, a.Children, 1)
	assert.Equal(t, "b", a.Children[0].ID)
	assert.Empty(t, a.Children[0].Children)
}

func TestCategoryTreeCache(t *testing.T) {
	db := newTestDB(t)
	cache := newMemoryCache()
	svc := NewCategoryService(db, cache, 0, nil)
	ctx := context.Background()

	seedCategory(t, db, "One", nil)

	first, err := svc.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 0, cache.hits)

	second, err := svc.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first[0].ID, second[0].ID)

	_, err = svc.CreateCategory(ctx, models.CategoryInput{Name: "Two"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.deletes)

	third, err := svc.Tree(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 2)
	assert.Equal(t, 1, cache.hits)
}

func TestUpdateCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db, nil, 0, nil)
	c := &models.Category{Name: "Old", Slug: "old", Description: "keep"}
	require.NoError(t, db.Create(c).Error)

	updated, err := svc.UpdateCategory(context.Background(), c.ID, models.CategoryInput{Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "new-name", updated.Slug)
	assert.Equal(t, "keep", updated.Description)

	_, err = svc.UpdateCategory(context.Background(), "missing", models.CategoryInput{Name: "x"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestDeleteCategoryRules(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db, nil, 0, nil)
	ctx := context.Background()

	withProducts := seedCategory(t, db, "With products", nil)
	require.NoError(t, db.Create(&models.Product{Name: "IPTV", Price: dec("10"), CategoryID: withProducts.ID}).Error)

	parent := seedCategory(t, db, "Parent", nil)
	seedCategory(t, db, "Child", &parent.ID)

	empty := seedCategory(t, db, "Empty", nil)

	err := svc.DeleteCategory(ctx, withProducts.ID)
	assert.ErrorIs(t, err, ErrCategoryHasProducts)
	assert.Equal(t, "Cannot delete category with existing products", ErrorMessage(err))

	err = svc.DeleteCategory(ctx, parent.ID)
	assert.ErrorIs(t, err, ErrCategoryHasChildren)
	assert.Equal(t, "Cannot delete category with existing subcategories", ErrorMessage(err))

	require.NoError(t, svc.DeleteCategory(ctx, empty.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, empty.ID), ErrCategoryNotFound)
}

func TestCategoryProductsPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewCategoryService(db, nil, 0, nil)
	c := seedCategory(t, db, "IPTV", nil)
	for _, price := range []string{"20", "10", "30"} {
		require.NoError(t, db.Create(&models.Product{Name: "P" + price, Price: dec(price), CategoryID: c.ID}).Error)
	}

	page, err := svc.CategoryProducts(context.Background(), c.ID, PageQuery{Page: 2, Limit: 2, Sort: "price", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "P30", page.Products[0].Name)
	assert.Equal(t, Pagination{Total: 3, Page: 2, Limit: 2, Pages: 2}, page.Pagination)

	page, err = svc.CategoryProducts(context.Background(), c.ID, PageQuery{Sort: "price; drop table products", Order: "sideways"})
	require.NoError(t, err)
	assert.Len(t, page.Products, 3)
	assert.Equal(t, Pagination{Total: 3, Page: 1, Limit: 10, Pages: 1}, page.Pagination)
}
