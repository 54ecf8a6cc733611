package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"swap-service/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already taken")
	ErrMobileTaken  = errors.New("mobile number already taken")
)

const userColumns = `id, name, email, password_hash, mobile_number, location, bio,
    skills_offered, skills_wanted, availability, is_public, role, is_banned,
    average_rating, total_ratings, created_at, updated_at`

// UserRepository abstracts identity persistence.
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	UpdateProfile(ctx context.Context, user models.User) (models.User, error)
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	Browse(ctx context.Context, viewerID, page, limit int) ([]models.User, int, error)
	SetBanned(ctx context.Context, id int, banned bool) error
	ListAll(ctx context.Context) ([]models.User, error)
	CountUsers(ctx context.Context) (total int, active int, err error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create stores a new user. Email must already be lowercased and the
// password hashed by the caller.
func (r *UserRepo) Create(ctx context.Context, user models.User) (models.User, error) {
	query := `INSERT INTO users (name, email, password_hash, location, skills_offered, skills_wanted)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + userColumns
	var created models.User
	err := r.db.GetContext(ctx, &created, query,
		user.Name, user.Email, user.PasswordHash, user.Location,
		emptyIfNil(user.SkillsOffered), emptyIfNil(user.SkillsWanted))
	if err != nil {
		return models.User{}, mapUniqueViolation(err)
	}
	return created, nil
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetByEmail fetches a user by email (case-insensitive).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email=$1`, strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile persists profile fields editable by the user.
func (r *UserRepo) UpdateProfile(ctx context.Context, user models.User) (models.User, error) {
	query := `UPDATE users SET
            name=$2, email=$3, mobile_number=$4, location=$5, bio=$6,
            skills_offered=$7, skills_wanted=$8, availability=$9, is_public=$10,
            updated_at=NOW()
        WHERE id=$1
        RETURNING ` + userColumns
	var updated models.User
	err := r.db.GetContext(ctx, &updated, query,
		user.ID, user.Name, user.Email, user.MobileNumber, user.Location, user.Bio,
		emptyIfNil(user.SkillsOffered), emptyIfNil(user.SkillsWanted),
		user.Availability, user.IsPublic)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, mapUniqueViolation(err)
	}
	return updated, nil
}

// UpdatePassword replaces the stored credential hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id=$1`, id, passwordHash)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Browse returns a page of public, non-banned users excluding the viewer,
// newest first, along with the total match count.
func (r *UserRepo) Browse(ctx context.Context, viewerID, page, limit int) ([]models.User, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM users WHERE id<>$1 AND is_public=TRUE AND is_banned=FALSE`, viewerID)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users
        WHERE id<>$1 AND is_public=TRUE AND is_banned=FALSE
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, viewerID, limit, (page-1)*limit); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetBanned toggles the ban flag. Open swaps are left untouched.
func (r *UserRepo) SetBanned(ctx context.Context, id int, banned bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_banned=$2, updated_at=NOW() WHERE id=$1`, id, banned)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListAll returns every user, newest first (admin listing).
func (r *UserRepo) ListAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	return users, err
}

// CountUsers returns total and non-banned user counts.
func (r *UserRepo) CountUsers(ctx context.Context) (int, int, error) {
	var counts struct {
		Total  int `db:"total"`
		Active int `db:"active"`
	}
	err := r.db.GetContext(ctx, &counts,
		`SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE is_banned=FALSE) AS active FROM users`)
	return counts.Total, counts.Active, err
}

func emptyIfNil(arr pq.StringArray) pq.StringArray {
	if arr == nil {
		return pq.StringArray{}
	}
	return arr
}

func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if strings.Contains(pqErr.Constraint, "mobile") {
			return ErrMobileTaken
		}
		return ErrEmailTaken
	}
	return err
}
