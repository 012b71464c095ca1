package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/coursecraft/lms/internal/models"
)

// userRepository implements user data access over the profiles table
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{
		db: db,
	}
}

const profileColumns = `id, email, username, password_hash, full_name, avatar_url, role, created_at`

func scanProfile(row interface{ Scan(...any) error }) (*models.Profile, error) {
	user := &models.Profile{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.FullName,
		&user.AvatarURL,
		&user.Role,
		&user.CreatedAt,
	)
	return user, err
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *models.Profile) error {
	query := `
		INSERT INTO profiles (email, username, password_hash, full_name, avatar_url, role)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, user.Email, user.Username, user.PasswordHash, user.FullName, user.AvatarURL, user.Role)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = int(id)
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ? LIMIT 1`

	user, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = ? LIMIT 1`

	user, err := scanProfile(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetByEmailOrUsername retrieves a user by email or username
func (r *userRepository) GetByEmailOrUsername(ctx context.Context, login string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = ? OR username = ? LIMIT 1`

	user, err := scanProfile(r.db.QueryRowContext(ctx, query, login, login))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email or username: %w", err)
	}

	return user, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE email = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// ExistsByUsername checks if a user exists with the given username
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM profiles WHERE username = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// UpdateProfile updates full name and avatar of a user
func (r *userRepository) UpdateProfile(ctx context.Context, id int, fullName, avatarURL string) error {
	query := `UPDATE profiles SET full_name = ?, avatar_url = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, fullName, avatarURL, id); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}

// GetAll retrieves users with filtering and pagination
func (r *userRepository) GetAll(ctx context.Context, role *models.Role, search string, page, count int) ([]models.UserListItem, error) {
	var whereClauses []string
	args := []any{}

	if role != nil {
		whereClauses = append(whereClauses, "role = ?")
		args = append(args, *role)
	}

	if search != "" {
		whereClauses = append(whereClauses, "(email LIKE ? OR username LIKE ? OR full_name LIKE ?)")
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	offset := (page - 1) * count
	query := fmt.Sprintf(`
		SELECT id, email, username, full_name, role, created_at
		FROM profiles
		%s
		ORDER BY id
		LIMIT ? OFFSET ?
	`, whereClause)
	args = append(args, count, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.UserListItem{}
	for rows.Next() {
		var user models.UserListItem
		if err := rows.Scan(&user.ID, &user.Email, &user.Username, &user.FullName, &user.Role, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// GetUsernames returns usernames keyed by user ID
func (r *userRepository) GetUsernames(ctx context.Context, ids []int) (map[int]string, error) {
	names := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	placeholders, args := inPlaceholders(ids)
	query := fmt.Sprintf(`SELECT id, username FROM profiles WHERE id IN (%s)`, placeholders)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query usernames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var username string
		if err := rows.Scan(&id, &username); err != nil {
			return nil, fmt.Errorf("failed to scan username: %w", err)
		}
		names[id] = username
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return names, nil
}

// UpdateRole changes the role of a user
func (r *userRepository) UpdateRole(ctx context.Context, id int, role models.Role) error {
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET role = ? WHERE id = ?`, role, id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	return requireAffected(result, "user not found")
}

// Delete deletes a user. Dependent rows are removed by foreign key cascades.
func (r *userRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return requireAffected(result, "user not found")
}

// CountByRole returns the number of users per role name
func (r *userRepository) CountByRole(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM profiles GROUP BY role`)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var role models.Role
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("failed to scan role count: %w", err)
		}
		counts[role.String()] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}
