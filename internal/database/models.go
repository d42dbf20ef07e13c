package database

// Subject is a tracked public figure.
type Subject struct {
	ID        int64
	Slug      string
	Name      string
	Office    *string
	CreatedAt *string
	UpdatedAt *string
}

// Report is one saved analysis run for a subject. DashboardJSON holds the
// serialized dashboard model; ResponseJSON the raw service response.
type Report struct {
	ID            int64
	SubjectID     int64
	SubjectName   string
	SubjectSlug   string
	Kind          string // "weekly" or "daily"
	Period        string
	DashboardJSON string
	ResponseJSON  *string
	CreatedAt     *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	Subjects      int
	Reports       int
	WeeklyReports int
	DailyReports  int
}
