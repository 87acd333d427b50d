package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ekoseller/eko-seller-api/internal/model"
)

func TestCreateCategoryWithExistingParent(t *testing.T) {
	cats := newFakeCategoryStore()
	h := NewCategoryHandler(cats)
	e := echo.New()

	parent := &model.Category{Name: "Clothing", Icon: "shirt", Color: "#fff"}
	require.NoError(t, cats.Create(nil, parent))

	c, rec := postJSON(e, `{"name":"Shoes","icon":"boot","color":"#000","parentCategory":"`+parent.ID.Hex()+`"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, cats.cats, 2)
	var child *model.Category
	for _, cat := range cats.cats {
		if cat.Name == "Shoes" {
			child = cat
		}
	}
	require.NotNil(t, child)
	require.NotNil(t, child.ParentCategory)
	assert.Equal(t, parent.ID, *child.ParentCategory)
}

func TestCreateCategoryAutoVivifiesParent(t *testing.T) {
	cats := newFakeCategoryStore()
	h := NewCategoryHandler(cats)
	e := echo.New()

	// The parent reference is a plain name, not an id of any existing
	// category: a parent with that name is created with defaults.
	c, rec := postJSON(e, `{"name":"Sneakers","parentCategory":"Footwear"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, cats.cats, 2)
	var parent, child *model.Category
	for _, cat := range cats.cats {
		switch cat.Name {
		case "Footwear":
			parent = cat
		case "Sneakers":
			child = cat
		}
	}
	require.NotNil(t, parent)
	require.NotNil(t, child)
	assert.Equal(t, model.DefaultCategoryIcon, parent.Icon)
	assert.Equal(t, model.DefaultCategoryColor, parent.Color)
	require.NotNil(t, child.ParentCategory)
	assert.Equal(t, parent.ID, *child.ParentCategory)
}

func TestCreateCategoryAutoVivifiesForUnknownID(t *testing.T) {
	cats := newFakeCategoryStore()
	h := NewCategoryHandler(cats)
	e := echo.New()

	// A well-formed id that matches nothing still becomes a parent
	// named after the raw value.
	ghost := primitive.NewObjectID().Hex()
	c, rec := postJSON(e, `{"name":"Sandals","parentCategory":"`+ghost+`"}`)
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	found := false
	for _, cat := range cats.cats {
		if cat.Name == ghost {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCategoryCRUDStatuses(t *testing.T) {
	cats := newFakeCategoryStore()
	h := NewCategoryHandler(cats)
	e := echo.New()

	c, rec := postJSON(e, `{"name":""}`)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = getReq(e, "/")
	c.SetParamNames("id")
	c.SetParamValues("bogus")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = getReq(e, "/")
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	cat := &model.Category{Name: "Food"}
	require.NoError(t, cats.Create(nil, cat))

	c, rec = postJSON(e, `{"name":"Groceries"}`)
	c.SetParamNames("id")
	c.SetParamValues(cat.ID.Hex())
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Groceries", cats.cats[cat.ID].Name)

	c, rec = getReq(e, "/")
	c.SetParamNames("id")
	c.SetParamValues(cat.ID.Hex())
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, cats.cats)
}

func TestUpdateCategoryEmptyBodyRejected(t *testing.T) {
	cats := newFakeCategoryStore()
	h := NewCategoryHandler(cats)
	e := echo.New()

	cat := &model.Category{Name: "Food", Icon: "apple", Color: "#0f0"}
	require.NoError(t, cats.Create(nil, cat))

	// No updatable field supplied: the request is rejected up front
	// instead of sending an empty $set to the store.
	c, rec := postJSON(e, `{}`)
	c.SetParamNames("id")
	c.SetParamValues(cat.ID.Hex())
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "nothing to update")
	assert.Equal(t, "Food", cats.cats[cat.ID].Name)
}

func TestGetCategoryPopulatesParentName(t *testing.T) {
	cats := newFakeCategoryStore()
	h := NewCategoryHandler(cats)
	e := echo.New()

	parent := &model.Category{Name: "Electronics"}
	require.NoError(t, cats.Create(nil, parent))
	child := &model.Category{Name: "Phones", ParentCategory: &parent.ID}
	require.NoError(t, cats.Create(nil, child))

	c, rec := getReq(e, "/")
	c.SetParamNames("id")
	c.SetParamValues(child.ID.Hex())
	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"parentName":"Electronics"`)
}
