package handler

import (
	"encoding/json"
	"fmt"
	"go-shop-api/common"
	"go-shop-api/model"
	"go-shop-api/report"
	"go-shop-api/repository"
	"go-shop-api/service"
	"net/http"
	"strconv"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListOrders godoc
// @Summary      List orders
// @Description  Lists orders enriched with catalog data. Customers only see their own.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id query int false "Filter by order ID"
// @Param        user_id query int false "Filter by owner ID"
// @Param        username query string false "Filter by owner username"
// @Param        email query string false "Filter by owner email"
// @Param        skip query int false "Offset"
// @Param        limit query int false "Page size"
// @Success      200  {array}   model.OrderRead
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) *common.AppError {
	current, ok := currentClaims(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid identity in token", nil)
	}

	orders, err := h.orderService.ListOrders(r.Context(), current, orderFilterFromQuery(r))
	if err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
	return nil
}

// CreateOrder godoc
// @Summary      Place an order
// @Description  Resolves the product in the catalog and records the order. Customers may only order for themselves.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.CreateOrderRequest true "Order payload"
// @Success      201  {object}  model.OrderRead
// @Failure      404  {object}  common.AppError
// @Router       /api/orders [post]
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) *common.AppError {
	current, ok := currentClaims(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid identity in token", nil)
	}

	var req model.CreateOrderRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	order, err := h.orderService.CreateOrder(r.Context(), current, req)
	if err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
	return nil
}

// UpdateOrder godoc
// @Summary      Update an order
// @Description  Changes an order's quantity. Customers may only update their own orders.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Param        request body model.UpdateOrderRequest true "Update payload"
// @Success      200  {object}  model.OrderRead
// @Failure      404  {object}  common.AppError
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) *common.AppError {
	current, ok := currentClaims(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid identity in token", nil)
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid order ID", nil)
	}

	var req model.UpdateOrderRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	order, err := h.orderService.UpdateOrder(r.Context(), current, id, req)
	if err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
	return nil
}

// DeleteOrder godoc
// @Summary      Delete an order
// @Description  Customers may only delete their own orders.
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Order ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  common.AppError
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) *common.AppError {
	current, ok := currentClaims(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid identity in token", nil)
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid order ID", nil)
	}

	if err := h.orderService.DeleteOrder(current, id); err != nil {
		return serviceError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"detail": "Order deleted successfully"})
	return nil
}

// ExportCSV godoc
// @Summary      Export a customer's orders as CSV
// @Tags         orders
// @Produce      text/csv
// @Security     BearerAuth
// @Param        username path string true "Customer username"
// @Success      200  {file}  file
// @Router       /api/orders/{username}/csv [get]
func (h *OrderHandler) ExportCSV(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.export(w, r, "csv")
}

// ExportExcel godoc
// @Summary      Export a customer's orders as an Excel workbook
// @Tags         orders
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        username path string true "Customer username"
// @Success      200  {file}  file
// @Router       /api/orders/{username}/excel [get]
func (h *OrderHandler) ExportExcel(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.export(w, r, "excel")
}

// ExportPDF godoc
// @Summary      Export a customer's orders as a PDF report
// @Tags         orders
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        username path string true "Customer username"
// @Success      200  {file}  file
// @Router       /api/orders/{username}/pdf [get]
func (h *OrderHandler) ExportPDF(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.export(w, r, "pdf")
}

func (h *OrderHandler) export(w http.ResponseWriter, r *http.Request, format string) *common.AppError {
	current, ok := currentClaims(r)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid identity in token", nil)
	}

	username := r.PathValue("username")
	skip, limit := parsePaging(r)
	filter := repository.OrderFilter{Username: username, Skip: skip, Limit: limit}

	orders, err := h.orderService.ListOrders(r.Context(), current, filter)
	if err != nil {
		return serviceError(err)
	}

	var (
		data        []byte
		contentType string
		extension   string
	)
	switch format {
	case "csv":
		data, err = report.GenerateCSV(orders)
		contentType, extension = "text/csv", "csv"
	case "excel":
		data, err = report.GenerateExcel(orders)
		contentType, extension = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	case "pdf":
		data, err = report.GeneratePDF(current.Subject, orders)
		contentType, extension = "application/pdf", "pdf"
	}
	if err != nil {
		if err == report.ErrNoData {
			return common.NewAppError(http.StatusNotFound, "No orders to export", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not generate report", err)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_orders.%s", username, extension))
	w.Write(data)
	return nil
}

func orderFilterFromQuery(r *http.Request) repository.OrderFilter {
	skip, limit := parsePaging(r)
	id, _ := strconv.Atoi(r.URL.Query().Get("id"))
	userID, _ := strconv.Atoi(r.URL.Query().Get("user_id"))
	return repository.OrderFilter{
		ID:       id,
		UserID:   userID,
		Username: r.URL.Query().Get("username"),
		Email:    r.URL.Query().Get("email"),
		Skip:     skip,
		Limit:    limit,
	}
}
