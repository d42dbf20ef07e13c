package database

import (
	"database/sql"
	"strings"
)

// Slugify derives a stable subject identifier from a display name:
// lowercase, accents stripped, non-alphanumerics collapsed to hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if folded, ok := accentFold[r]; ok {
			r = folded
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

var accentFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'ä': 'a', 'â': 'a',
	'é': 'e', 'è': 'e', 'ë': 'e', 'ê': 'e',
	'í': 'i', 'ì': 'i', 'ï': 'i', 'î': 'i',
	'ó': 'o', 'ò': 'o', 'ö': 'o', 'ô': 'o',
	'ú': 'u', 'ù': 'u', 'ü': 'u', 'û': 'u',
	'ñ': 'n', 'ç': 'c',
}

// UpsertSubject inserts a subject or refreshes an existing one's name and
// office. Returns the subject ID.
func (db *DB) UpsertSubject(name string, office *string) (int64, error) {
	slug := Slugify(name)

	_, err := db.conn.Exec(
		`INSERT INTO subjects (slug, name, office) VALUES (?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			name = excluded.name,
			office = COALESCE(excluded.office, subjects.office),
			updated_at = datetime('now')`,
		slug, name, office,
	)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := db.conn.QueryRow("SELECT id FROM subjects WHERE slug = ?", slug).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetSubjectBySlug returns a subject, or nil when it does not exist.
func (db *DB) GetSubjectBySlug(slug string) (*Subject, error) {
	row := db.conn.QueryRow(
		"SELECT id, slug, name, office, created_at, updated_at FROM subjects WHERE slug = ?", slug,
	)
	var s Subject
	if err := row.Scan(&s.ID, &s.Slug, &s.Name, &s.Office, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// GetAllSubjects returns every subject ordered by most recently updated.
func (db *DB) GetAllSubjects() ([]Subject, error) {
	rows, err := db.conn.Query(
		"SELECT id, slug, name, office, created_at, updated_at FROM subjects ORDER BY updated_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []Subject
	for rows.Next() {
		var s Subject
		if err := rows.Scan(&s.ID, &s.Slug, &s.Name, &s.Office, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// DeleteSubject removes a subject and, via FK cascade, its reports.
func (db *DB) DeleteSubject(slug string) error {
	_, err := db.conn.Exec("DELETE FROM subjects WHERE slug = ?", slug)
	return err
}

// GetStats returns aggregate counts for the status command.
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM subjects").Scan(&stats.Subjects); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM reports").Scan(&stats.Reports); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM reports WHERE kind = 'weekly'").Scan(&stats.WeeklyReports); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM reports WHERE kind = 'daily'").Scan(&stats.DailyReports); err != nil {
		return nil, err
	}
	return stats, nil
}
