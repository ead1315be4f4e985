package model

import "time"

// CompanySummary is the minimal company view nested inside a saved-job row.
type CompanySummary struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	LogoURL  string `json:"logo"`
}

// JobSummary is the display shape returned when listing a user's saved jobs.
// It is assembled at read time by joining the jobs and companies tables —
// the saved set itself only stores job IDs.
type JobSummary struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Position    int            `json:"position"`
	JobType     string         `json:"jobType"`
	Salary      int64          `json:"salary"`
	CreatedAt   time.Time      `json:"createdAt"`
	Company     CompanySummary `json:"company"`
}
