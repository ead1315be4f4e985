package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/Barun-Mishra-09/jobspot/internal/model"
	"github.com/Barun-Mishra-09/jobspot/internal/repository"
)

// compile-time check that *DB implements repository.SavedJobRepository
var _ repository.SavedJobRepository = (*DB)(nil)

// ToggleSavedJob atomically flips jobID's membership in the user's saved set.
//
// The conditional remove/add runs inside a single write transaction: SQLite
// serializes writers, so two concurrent toggles for the same pair commit in
// some order and each sees the other's effect. The BEGIN is deferred, but
// the first statement is the DELETE, a write, so the transaction holds the
// write lock from the membership check onward. There is no read-then-branch
// window — the DELETE itself is the membership check, and its affected-row
// count decides which way the toggle went.
func (db *DB) ToggleSavedJob(ctx context.Context, userID, jobID string) (bool, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("sqlite: beginning toggle transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM saved_jobs WHERE user_id = ? AND job_id = ?`,
		userID, jobID,
	)
	if err != nil {
		return false, fmt.Errorf("sqlite: removing saved job: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: removing saved job: %w", err)
	}

	saved := false
	if removed == 0 {
		// Not a member: this toggle saves. The composite primary key would
		// reject a duplicate, but inside this transaction none can occur.
		_, err = tx.ExecContext(ctx,
			`INSERT INTO saved_jobs (user_id, job_id, saved_at) VALUES (?, ?, ?)`,
			userID, jobID, time.Now().UTC(),
		)
		if err != nil {
			return false, fmt.Errorf("sqlite: inserting saved job: %w", err)
		}
		saved = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("sqlite: committing toggle: %w", err)
	}

	return saved, nil
}

// ListSavedJobs returns the user's saved jobs joined at read time with the
// display fields and the nested company summary, most recently saved first.
// Saved IDs whose job has since been deleted are skipped by the inner join —
// the saved set holds weak references and does not own job lifecycle.
func (db *DB) ListSavedJobs(ctx context.Context, userID string) ([]model.JobSummary, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT j.id, j.title, j.description, j.position, j.job_type, j.salary,
		        j.created_at, c.name, c.location, c.logo_url
		 FROM saved_jobs s
		 JOIN jobs j ON j.id = s.job_id
		 JOIN companies c ON c.id = j.company_id
		 WHERE s.user_id = ?
		 ORDER BY s.saved_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing saved jobs for %s: %w", userID, err)
	}
	defer rows.Close()

	summaries := []model.JobSummary{}
	for rows.Next() {
		var js model.JobSummary
		if err := rows.Scan(
			&js.ID,
			&js.Title,
			&js.Description,
			&js.Position,
			&js.JobType,
			&js.Salary,
			&js.CreatedAt,
			&js.Company.Name,
			&js.Company.Location,
			&js.Company.LogoURL,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning saved job: %w", err)
		}
		summaries = append(summaries, js)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: listing saved jobs for %s: %w", userID, err)
	}

	return summaries, nil
}

// CreateCompany inserts a company row. The job/company CRUD surface lives
// outside this subsystem; this minimal writer exists for seeding and for the
// saved-job join tests.
func (db *DB) CreateCompany(ctx context.Context, name, location, logoURL string) (string, error) {
	id := xid.New().String()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO companies (id, name, location, logo_url) VALUES (?, ?, ?, ?)`,
		id, name, location, logoURL,
	)
	if err != nil {
		return "", fmt.Errorf("sqlite: inserting company %q: %w", name, err)
	}
	return id, nil
}

// CreateJob inserts a job row belonging to a company. See CreateCompany.
func (db *DB) CreateJob(ctx context.Context, title, description string, position int, jobType string, salary int64, companyID string) (string, error) {
	id := xid.New().String()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO jobs (id, title, description, position, job_type, salary, company_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, title, description, position, jobType, salary, companyID, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("sqlite: inserting job %q: %w", title, err)
	}
	return id, nil
}
