// file: service/order_service.go

package service

import (
	"context"
	"database/sql"
	"errors"
	"go-shop-api/client"
	"go-shop-api/logger"
	"go-shop-api/model"
	"go-shop-api/repository"

	"github.com/sirupsen/logrus"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderService handles order business logic. Orders persist only the catalog
// product ID; reads are enriched with the product title and current price
// through the catalog client.
type OrderService struct {
	orderRepo repository.IOrderRepository
	userRepo  repository.IUserRepository
	catalog   client.ICatalogClient
}

func NewOrderService(orderRepo repository.IOrderRepository, userRepo repository.IUserRepository, catalog client.ICatalogClient) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		catalog:   catalog,
	}
}

// ListOrders retrieves orders matching the filter, enriched with catalog
// data. Customers only ever see their own orders.
func (s *OrderService) ListOrders(ctx context.Context, current *model.AppClaims, filter repository.OrderFilter) ([]model.OrderRead, error) {
	if current.Role == model.RoleCustomer {
		filter.Username = current.Subject
		filter.UserID = 0
		filter.Email = ""
	}

	rows, err := s.orderRepo.ListOrders(filter)
	if err != nil {
		return nil, err
	}

	orders := make([]model.OrderRead, 0, len(rows))
	for _, row := range rows {
		product, err := s.catalog.GetProductByID(ctx, row.ProductID)
		if err != nil {
			return nil, err
		}
		orders = append(orders, model.OrderRead{
			ID:               row.ID,
			Product:          product.Title,
			Price:            product.Price,
			Quantity:         row.Quantity,
			CustomerUsername: row.CustomerUsername,
			CreatedAt:        row.CreatedAt,
		})
	}
	return orders, nil
}

// CreateOrder places an order for a customer. The owner must exist, the
// product must resolve in the catalog, and customers may only order for
// themselves.
func (s *OrderService) CreateOrder(ctx context.Context, current *model.AppClaims, req model.CreateOrderRequest) (*model.OrderRead, error) {
	owner, err := s.userRepo.GetUserByUsername(req.CustomerUsername)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	product, err := s.catalog.GetProductByName(ctx, req.Product)
	if err != nil {
		return nil, err
	}

	if current.Role == model.RoleCustomer && current.Subject != owner.Username {
		return nil, ErrPermissionDenied
	}

	order := &model.Order{
		UserID:    owner.ID,
		ProductID: product.ID,
		Quantity:  req.Quantity,
	}
	if err := s.orderRepo.CreateOrder(order); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"username": owner.Username,
		"product":  product.Title,
	}).Info("Order created")

	return &model.OrderRead{
		ID:               order.ID,
		Product:          product.Title,
		Price:            product.Price,
		Quantity:         order.Quantity,
		CustomerUsername: owner.Username,
		CreatedAt:        order.CreatedAt,
	}, nil
}

// UpdateOrder changes an order's quantity. Customers may only touch orders
// they own.
func (s *OrderService) UpdateOrder(ctx context.Context, current *model.AppClaims, id int, req model.UpdateOrderRequest) (*model.OrderRead, error) {
	order, owner, err := s.getOrderWithOwner(current, id)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateOrderQuantity(order.ID, req.Quantity); err != nil {
		return nil, err
	}
	order.Quantity = req.Quantity

	product, err := s.catalog.GetProductByID(ctx, order.ProductID)
	if err != nil {
		return nil, err
	}

	return &model.OrderRead{
		ID:               order.ID,
		Product:          product.Title,
		Price:            product.Price,
		Quantity:         order.Quantity,
		CustomerUsername: owner.Username,
		CreatedAt:        order.CreatedAt,
	}, nil
}

// DeleteOrder removes an order. Customers may only delete orders they own.
func (s *OrderService) DeleteOrder(current *model.AppClaims, id int) error {
	order, _, err := s.getOrderWithOwner(current, id)
	if err != nil {
		return err
	}
	return s.orderRepo.DeleteOrder(order.ID)
}

func (s *OrderService) getOrderWithOwner(current *model.AppClaims, id int) (*model.Order, *model.User, error) {
	order, err := s.orderRepo.GetOrderByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, err
	}

	owner, err := s.userRepo.GetUserByID(order.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	if current.Role == model.RoleCustomer && current.Subject != owner.Username {
		return nil, nil, ErrPermissionDenied
	}
	return order, owner, nil
}
