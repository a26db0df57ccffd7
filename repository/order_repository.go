package repository

import (
	"database/sql"
	"go-shop-api/logger"
	"go-shop-api/model"
	"strconv"

	"github.com/sirupsen/logrus"
)

// IOrderRepository defines the contract for order database operations.
type IOrderRepository interface {
	CreateOrder(order *model.Order) error
	GetOrderByID(id int) (*model.Order, error)
	ListOrders(filter OrderFilter) ([]*model.OrderRow, error)
	UpdateOrderQuantity(id, quantity int) error
	DeleteOrder(id int) error
}

// OrderFilter narrows ListOrders results. Zero values mean "no constraint".
type OrderFilter struct {
	ID       int
	UserID   int
	Username string
	Email    string
	Skip     int
	Limit    int
}

// OrderRepository implements IOrderRepository on top of Postgres.
type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) CreateOrder(order *model.Order) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    order.UserID,
		"product_id": order.ProductID,
		"quantity":   order.Quantity,
	})
	log.Info("Executing query to create a new order")

	query := `INSERT INTO orders (user_id, product_id, quantity) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.DB.QueryRow(query, order.UserID, order.ProductID, order.Quantity).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create order query")
		return err
	}
	return nil
}

func (r *OrderRepository) GetOrderByID(id int) (*model.Order, error) {
	order := &model.Order{}
	query := `SELECT id, user_id, product_id, quantity, created_at FROM orders WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&order.ID, &order.UserID, &order.ProductID, &order.Quantity, &order.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("order_id", id).Error("Failed to execute get order by ID query")
		}
		return nil, err
	}
	return order, nil
}

// ListOrders retrieves orders joined with their owning user, matching the
// filter with skip/limit paging.
func (r *OrderRepository) ListOrders(filter OrderFilter) ([]*model.OrderRow, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"filter_id":       filter.ID,
		"filter_user_id":  filter.UserID,
		"filter_username": filter.Username,
		"skip":            filter.Skip,
		"limit":           filter.Limit,
	})
	log.Info("Executing query to list orders")

	query := `
		SELECT o.id, o.product_id, o.quantity, u.username, o.created_at
		FROM orders o
		JOIN users u ON o.user_id = u.id
		WHERE 1=1`
	args := []interface{}{}

	if filter.ID != 0 {
		args = append(args, filter.ID)
		query += ` AND o.id = $` + strconv.Itoa(len(args))
	}
	if filter.UserID != 0 {
		args = append(args, filter.UserID)
		query += ` AND o.user_id = $` + strconv.Itoa(len(args))
	}
	if filter.Username != "" {
		args = append(args, filter.Username)
		query += ` AND u.username = $` + strconv.Itoa(len(args))
	}
	if filter.Email != "" {
		args = append(args, filter.Email)
		query += ` AND u.email = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY o.id`
	args = append(args, filter.Skip)
	query += ` OFFSET $` + strconv.Itoa(len(args))
	args = append(args, filter.Limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute list orders query")
		return nil, err
	}
	defer rows.Close()

	var orders []*model.OrderRow
	for rows.Next() {
		var o model.OrderRow
		if err := rows.Scan(&o.ID, &o.ProductID, &o.Quantity, &o.CustomerUsername, &o.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan order row")
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) UpdateOrderQuantity(id, quantity int) error {
	log := logger.Log.WithFields(logrus.Fields{
		"order_id": id,
		"quantity": quantity,
	})
	log.Info("Executing query to update order quantity")

	query := `UPDATE orders SET quantity = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, quantity, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute update order query")
		return err
	}
	return nil
}

func (r *OrderRepository) DeleteOrder(id int) error {
	log := logger.Log.WithField("order_id", id)
	log.Info("Executing query to delete order")

	query := `DELETE FROM orders WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete order query")
		return err
	}
	return nil
}
