package database

import "database/sql"

// InsertReport saves a serialized dashboard for a subject. Returns the ID.
func (db *DB) InsertReport(subjectID int64, kind, period, dashboardJSON string, responseJSON *string) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO reports (subject_id, kind, period, dashboard_json, response_json)
		VALUES (?, ?, ?, ?, ?)`,
		subjectID, kind, period, dashboardJSON, responseJSON,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const reportColumns = `r.id, r.subject_id, s.name, s.slug, r.kind, r.period,
	r.dashboard_json, r.response_json, r.created_at`

// GetReport returns one report by ID, or nil when it does not exist.
func (db *DB) GetReport(id int64) (*Report, error) {
	row := db.conn.QueryRow(
		"SELECT "+reportColumns+" FROM reports r JOIN subjects s ON s.id = r.subject_id WHERE r.id = ?", id,
	)
	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetAllReports returns every report, newest first.
func (db *DB) GetAllReports() ([]Report, error) {
	rows, err := db.conn.Query(
		"SELECT " + reportColumns + " FROM reports r JOIN subjects s ON s.id = r.subject_id ORDER BY r.created_at DESC, r.id DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

// GetReportsForSubject returns a subject's reports, newest first.
func (db *DB) GetReportsForSubject(slug string) ([]Report, error) {
	rows, err := db.conn.Query(
		"SELECT "+reportColumns+` FROM reports r JOIN subjects s ON s.id = r.subject_id
		WHERE s.slug = ? ORDER BY r.created_at DESC, r.id DESC`, slug,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

// DeleteReport removes one report by ID.
func (db *DB) DeleteReport(id int64) error {
	_, err := db.conn.Exec("DELETE FROM reports WHERE id = ?", id)
	return err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanReport(row scannable) (*Report, error) {
	var r Report
	err := row.Scan(&r.ID, &r.SubjectID, &r.SubjectName, &r.SubjectSlug, &r.Kind,
		&r.Period, &r.DashboardJSON, &r.ResponseJSON, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func scanReports(rows *sql.Rows) ([]Report, error) {
	var reports []Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}
