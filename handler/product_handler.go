package handler

import (
	"encoding/json"
	"go-shop-api/client"
	"go-shop-api/common"
	"net/http"
)

type ProductHandler struct {
	catalog client.ICatalogClient
}

func NewProductHandler(catalog client.ICatalogClient) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// ListProducts godoc
// @Summary      List catalog products
// @Description  Cached pass-through to the external product catalog
// @Tags         products
// @Produce      json
// @Param        skip query int false "Offset"
// @Param        limit query int false "Page size"
// @Success      200  {array}   model.Product
// @Failure      502  {object}  common.AppError
// @Router       /api/products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) *common.AppError {
	skip, limit := parsePaging(r)

	products, err := h.catalog.ListProducts(r.Context(), skip, limit)
	if err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(products)
	return nil
}

// GetProductByName godoc
// @Summary      Get a catalog product by title
// @Tags         products
// @Produce      json
// @Param        name path string true "Product title"
// @Success      200  {object}  model.Product
// @Failure      404  {object}  common.AppError
// @Failure      502  {object}  common.AppError
// @Router       /api/products/{name} [get]
func (h *ProductHandler) GetProductByName(w http.ResponseWriter, r *http.Request) *common.AppError {
	product, err := h.catalog.GetProductByName(r.Context(), r.PathValue("name"))
	if err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
	return nil
}
