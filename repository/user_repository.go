package repository

import (
	"database/sql"
	"go-shop-api/logger"
	"go-shop-api/model"
	"strconv"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByUsername(username string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	GetUserByRefreshToken(token string) (*model.User, error)
	ListUsers(filter UserFilter) ([]*model.User, error)
	UpdateUser(user *model.User) error
	UpdatePassword(userID int, hashedPassword string) error
	SetRefreshToken(userID int, token *string) error
	DeleteUser(id int) error
}

// UserFilter narrows ListUsers results. Zero values mean "no constraint".
type UserFilter struct {
	ID       int
	Username string
	Email    string
	Skip     int
	Limit    int
}

// UserRepository implements IUserRepository on top of Postgres.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, username, email, password, role, refresh_token, created_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Role, &user.RefreshToken, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user. Unique violations on username or email are
// translated into ErrDuplicateUsername / ErrDuplicateEmail.
func (r *UserRepository) CreateUser(user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (username, email, password, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.DB.QueryRow(query, user.Username, user.Email, user.Password, user.Role).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_username_key":
				return ErrDuplicateUsername
			case "users_email_key":
				return ErrDuplicateEmail
			}
		}
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

func (r *UserRepository) GetUserByUsername(username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.DB.QueryRow(query, username))
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.DB.QueryRow(query, email))
}

func (r *UserRepository) GetUserByID(id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRow(query, id))
}

// GetUserByRefreshToken finds the user whose stored refresh token equals the
// presented one. Refresh binds rotation to the single live session through
// this lookup rather than trusting the token's embedded subject.
func (r *UserRepository) GetUserByRefreshToken(token string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE refresh_token = $1`
	return scanUser(r.DB.QueryRow(query, token))
}

// ListUsers retrieves users matching the filter with skip/limit paging.
func (r *UserRepository) ListUsers(filter UserFilter) ([]*model.User, error) {
	log := logger.Log.WithFields(logrus.Fields{
		"filter_id":       filter.ID,
		"filter_username": filter.Username,
		"skip":            filter.Skip,
		"limit":           filter.Limit,
	})
	log.Info("Executing query to list users")

	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	args := []interface{}{}

	if filter.ID != 0 {
		args = append(args, filter.ID)
		query += ` AND id = $` + strconv.Itoa(len(args))
	}
	if filter.Username != "" {
		args = append(args, filter.Username)
		query += ` AND username = $` + strconv.Itoa(len(args))
	}
	if filter.Email != "" {
		args = append(args, filter.Email)
		query += ` AND email = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY id`
	args = append(args, filter.Skip)
	query += ` OFFSET $` + strconv.Itoa(len(args))
	args = append(args, filter.Limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute list users query")
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Role, &u.RefreshToken, &u.CreatedAt); err != nil {
			log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// UpdateUser persists username, email and role changes.
func (r *UserRepository) UpdateUser(user *model.User) error {
	log := logger.Log.WithField("user_id", user.ID)
	log.Info("Executing query to update user")

	query := `UPDATE users SET username = $1, email = $2, role = $3 WHERE id = $4`
	_, err := r.DB.Exec(query, user.Username, user.Email, user.Role, user.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_username_key":
				return ErrDuplicateUsername
			case "users_email_key":
				return ErrDuplicateEmail
			}
		}
		log.WithError(err).Error("Failed to execute update user query")
		return err
	}
	return nil
}

// UpdatePassword replaces the stored credential hash.
func (r *UserRepository) UpdatePassword(userID int, hashedPassword string) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to update user password")

	query := `UPDATE users SET password = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, hashedPassword, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update password query")
		return err
	}
	return nil
}

// SetRefreshToken stores the user's current refresh token association.
// A nil token clears the association (logout).
func (r *UserRepository) SetRefreshToken(userID int, token *string) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to set refresh token association")

	query := `UPDATE users SET refresh_token = $1 WHERE id = $2`
	_, err := r.DB.Exec(query, token, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute set refresh token query")
		return err
	}
	return nil
}

func (r *UserRepository) DeleteUser(id int) error {
	log := logger.Log.WithField("user_id", id)
	log.Info("Executing query to delete user")

	query := `DELETE FROM users WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete user query")
		return err
	}
	return nil
}
