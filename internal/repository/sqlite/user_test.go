package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/Barun-Mishra-09/jobspot/internal/apperror"
	"github.com/Barun-Mishra-09/jobspot/internal/model"
)

// newTestDB returns a DB backed by a fresh in-memory database, destroyed
// when the test finishes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates a user and fails the test if it errors.
func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		Fullname:     "Jane Doe",
		Email:        email,
		PasswordHash: "$2a$04$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		PhoneNumber:  "9876543210",
		Role:         model.RoleStudent,
	}
	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := &model.User{
		Fullname:     "Jane Doe",
		Email:        "jane@x.com",
		PasswordHash: "$2a$12$somehash",
		PhoneNumber:  "9876543210",
		Role:         model.RoleStudent,
		Profile: model.Profile{
			Bio:    "Backend developer",
			Skills: []string{"Go", "SQL", "Go"},
		},
	}

	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}

	got, err := db.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Email != "jane@x.com" {
		t.Errorf("Email = %q, want %q", got.Email, "jane@x.com")
	}
	if got.Role != model.RoleStudent {
		t.Errorf("Role = %q, want %q", got.Role, model.RoleStudent)
	}
	// Order and duplicates of the skill list survive the round trip.
	if len(got.Profile.Skills) != 3 || got.Profile.Skills[0] != "Go" || got.Profile.Skills[2] != "Go" {
		t.Errorf("Skills = %v, want [Go SQL Go]", got.Profile.Skills)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "jane@x.com")

	dup := &model.User{
		Fullname:     "Other Jane",
		Email:        "jane@x.com",
		PasswordHash: "$2a$12$otherhash",
		PhoneNumber:  "1234567",
		Role:         model.RoleRecruiter,
	}

	err := db.Create(context.Background(), dup)
	if !errors.Is(err, apperror.ErrDuplicateAccount) {
		t.Errorf("Create() duplicate email: error = %v, want ErrDuplicateAccount", err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "jane@x.com")

	got, err := db.GetByEmail(context.Background(), "jane@x.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}
}

func TestUserGetByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "missing-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "jane@x.com")

	user.Fullname = "Jane Q. Doe"
	user.PhoneNumber = "5551234"
	user.Profile.Bio = "Now a recruiter of Go developers"
	user.Profile.Skills = []string{"Hiring", "Go"}
	user.Profile.ResumeURL = "https://cdn.example.com/resume.pdf"
	user.Profile.ResumeOriginalName = "jane-cv.pdf"

	if err := db.Update(context.Background(), user); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := db.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Fullname != "Jane Q. Doe" {
		t.Errorf("Fullname = %q, want %q", got.Fullname, "Jane Q. Doe")
	}
	if got.PhoneNumber != "5551234" {
		t.Errorf("PhoneNumber = %q, want %q", got.PhoneNumber, "5551234")
	}
	if got.Profile.ResumeOriginalName != "jane-cv.pdf" {
		t.Errorf("ResumeOriginalName = %q, want %q", got.Profile.ResumeOriginalName, "jane-cv.pdf")
	}
	if len(got.Profile.Skills) != 2 || got.Profile.Skills[0] != "Hiring" {
		t.Errorf("Skills = %v, want [Hiring Go]", got.Profile.Skills)
	}
}

func TestUserUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	ghost := &model.User{ID: "missing-id", Email: "ghost@x.com"}
	err := db.Update(context.Background(), ghost)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}
