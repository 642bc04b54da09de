package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bookbakery/storefront/internal/models"
)

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]any{
		"name":           "Jollof Spice Mix",
		"description":    "House blend",
		"price":          "1200.50",
		"stock_quantity": 25,
		"image_url":      "/images/jollof.jpg",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/admin/products", payload)
	require.NoError(t, env.P.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	require.Equal(t, "Jollof Spice Mix", resp.Name)
	require.True(t, resp.Price.Equal(decimal.RequireFromString("1200.50")))
	require.Equal(t, 25, resp.StockQuantity)
}

func TestCreateProductMissingName(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/admin/products", map[string]any{"price": "10.00"})
	requireHTTPError(t, env.P.CreateProduct(c), http.StatusBadRequest)
}

func TestGetProducts(t *testing.T) {
	env := newTestEnv(t)

	category := models.Category{Name: "Books"}
	require.NoError(t, env.DB.Create(&category).Error)

	book := env.seedProduct("The Fishermen", "950.00", 7)
	book.CategoryID = &category.ID
	require.NoError(t, env.DB.Save(&book).Error)
	env.seedProduct("Croissant", "250.00", 12)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/products", nil)
	require.NoError(t, env.P.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)

	// Category filter narrows the listing.
	rec, c = env.doJSONRequest(http.MethodGet, "/api/products?category="+category.ID, nil)
	require.NoError(t, env.P.GetProducts(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	require.Equal(t, book.ID, resp.Data[0].ID)
}

func TestPatchProduct(t *testing.T) {
	env := newTestEnv(t)

	p := env.seedProduct("Scones", "300.00", 4)

	payload := map[string]any{
		"name":           "Fruit Scones",
		"description":    "Now with raisins",
		"price":          "350.00",
		"stock_quantity": 6,
	}
	rec, c := env.doJSONRequest(http.MethodPatch, "/api/admin/products/"+p.ID, payload)
	c.SetParamNames("id")
	c.SetParamValues(p.ID)
	require.NoError(t, env.P.PatchProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Fruit Scones", resp.Name)
	require.True(t, resp.Price.Equal(decimal.RequireFromString("350.00")))
	require.Equal(t, 6, resp.StockQuantity)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)

	p := env.seedProduct("Day-old Bread", "50.00", 1)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/admin/products/"+p.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(p.ID)
	require.NoError(t, env.P.DeleteProduct(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/products/missing", nil)
	c.SetParamNames("id")
	c.SetParamValues("11111111-2222-3333-4444-555555555555")
	requireHTTPError(t, env.P.GetProduct(c), http.StatusNotFound)
}

func TestCategoryCRUD(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/admin/categories", map[string]string{
		"name":        "Bakery",
		"description": "Fresh daily",
	})
	require.NoError(t, env.C.CreateCategory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec, c = env.doJSONRequest(http.MethodPatch, "/api/admin/categories/"+created.ID, map[string]string{
		"name":        "Bakery Goods",
		"description": "Fresh daily",
	})
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	require.NoError(t, env.C.PatchCategory(c))

	rec, c = env.doJSONRequest(http.MethodGet, "/api/categories", nil)
	require.NoError(t, env.C.GetCategories(c))
	var categories []models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	require.Len(t, categories, 1)
	require.Equal(t, "Bakery Goods", categories[0].Name)

	rec, c = env.doJSONRequest(http.MethodDelete, "/api/admin/categories/"+created.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(created.ID)
	require.NoError(t, env.C.DeleteCategory(c))
	require.Equal(t, http.StatusNoContent, rec.Code)
}
