package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/Barun-Mishra-09/jobspot/internal/apperror"
	"github.com/Barun-Mishra-09/jobspot/internal/model"
	"github.com/Barun-Mishra-09/jobspot/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, fullname, email, password_hash, phone_number, role,
	bio, skills, resume_url, resume_original_name, profile_photo_url,
	created_at, updated_at`

// Create inserts a new user, generating the ID and timestamps.
// Returns apperror.ErrDuplicateAccount when the email is already taken —
// the UNIQUE constraint is the authority, so two racing registrations for
// one email cannot both succeed even if both passed the lookup check.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	skills, err := encodeSkills(user.Profile.Skills)
	if err != nil {
		return fmt.Errorf("sqlite: encoding skills: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Fullname,
		user.Email,
		user.PasswordHash,
		user.PhoneNumber,
		string(user.Role),
		user.Profile.Bio,
		skills,
		user.Profile.ResumeURL,
		user.Profile.ResumeOriginalName,
		user.Profile.ProfilePhotoURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return apperror.DuplicateAccount()
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetByEmail retrieves a user by email.
// Returns apperror.ErrNotFound if no account uses that email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// Update persists the mutable fields of an existing user.
// The role column is deliberately absent from the SET list: role is fixed at
// account creation and no update path may change it.
func (db *DB) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now().UTC()

	skills, err := encodeSkills(user.Profile.Skills)
	if err != nil {
		return fmt.Errorf("sqlite: encoding skills: %w", err)
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET
			fullname = ?, email = ?, password_hash = ?, phone_number = ?,
			bio = ?, skills = ?, resume_url = ?, resume_original_name = ?,
			profile_photo_url = ?, updated_at = ?
		 WHERE id = ?`,
		user.Fullname,
		user.Email,
		user.PasswordHash,
		user.PhoneNumber,
		user.Profile.Bio,
		skills,
		user.Profile.ResumeURL,
		user.Profile.ResumeOriginalName,
		user.Profile.ProfilePhotoURL,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}
	if n == 0 {
		return apperror.NotFound("user")
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*model.User, error) {
	var (
		u      model.User
		role   string
		skills string
	)

	err := row.Scan(
		&u.ID,
		&u.Fullname,
		&u.Email,
		&u.PasswordHash,
		&u.PhoneNumber,
		&role,
		&u.Profile.Bio,
		&skills,
		&u.Profile.ResumeURL,
		&u.Profile.ResumeOriginalName,
		&u.Profile.ProfilePhotoURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user")
		}
		return nil, fmt.Errorf("sqlite: scanning user: %w", err)
	}

	u.Role = model.Role(role)
	if err := json.Unmarshal([]byte(skills), &u.Profile.Skills); err != nil {
		return nil, fmt.Errorf("sqlite: decoding skills: %w", err)
	}

	return &u, nil
}

// encodeSkills stores the ordered skill list as a JSON array. nil encodes
// as the empty list so the column is never NULL.
func encodeSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
