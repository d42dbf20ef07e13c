package database

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Juan Pérez", "juan-perez"},
		{"María José Gutiérrez", "maria-jose-gutierrez"},
		{"  Ana  López  ", "ana-lopez"},
		{"O'Brien-Núñez", "o-brien-nunez"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestUpsertSubject(t *testing.T) {
	db := openTestDB(t)
	id, err := db.UpsertSubject("Juan Pérez", ptr("Alcalde"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero subject ID")
	}

	subject, err := db.GetSubjectBySlug("juan-perez")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject == nil {
		t.Fatal("expected subject")
	}
	if subject.Name != "Juan Pérez" {
		t.Errorf("expected name 'Juan Pérez', got %q", subject.Name)
	}
	if subject.Office == nil || *subject.Office != "Alcalde" {
		t.Error("expected office 'Alcalde'")
	}
}

func TestUpsertSubjectUpdatesExisting(t *testing.T) {
	db := openTestDB(t)
	first, _ := db.UpsertSubject("Juan Pérez", nil)
	second, err := db.UpsertSubject("Juan Pérez", ptr("Senador"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("expected same ID on upsert, got %d and %d", first, second)
	}

	subject, _ := db.GetSubjectBySlug("juan-perez")
	if subject.Office == nil || *subject.Office != "Senador" {
		t.Error("expected office updated to 'Senador'")
	}

	subjects, _ := db.GetAllSubjects()
	if len(subjects) != 1 {
		t.Errorf("expected 1 subject, got %d", len(subjects))
	}
}

func TestGetSubjectBySlugMissing(t *testing.T) {
	db := openTestDB(t)
	subject, err := db.GetSubjectBySlug("nadie")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != nil {
		t.Error("expected nil for missing subject")
	}
}

func TestReportLifecycle(t *testing.T) {
	db := openTestDB(t)
	sid, _ := db.UpsertSubject("Juan Pérez", nil)

	id, err := db.InsertReport(sid, "weekly", "2 ago – 15 ago 2026", `{"actor":"Juan Pérez"}`, ptr(`{"politician":"Juan Pérez"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero report ID")
	}

	r, err := db.GetReport(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r == nil {
		t.Fatal("expected report")
	}
	if r.Kind != "weekly" {
		t.Errorf("expected kind 'weekly', got %q", r.Kind)
	}
	if r.SubjectName != "Juan Pérez" {
		t.Errorf("expected subject name 'Juan Pérez', got %q", r.SubjectName)
	}
	if r.SubjectSlug != "juan-perez" {
		t.Errorf("expected subject slug 'juan-perez', got %q", r.SubjectSlug)
	}
	if r.ResponseJSON == nil || *r.ResponseJSON != `{"politician":"Juan Pérez"}` {
		t.Error("expected raw response round-trip")
	}

	if err := db.DeleteReport(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, _ = db.GetReport(id)
	if r != nil {
		t.Error("expected nil after delete")
	}
}

func TestGetReportMissing(t *testing.T) {
	db := openTestDB(t)
	r, err := db.GetReport(42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != nil {
		t.Error("expected nil for missing report")
	}
}

func TestGetReportsForSubject(t *testing.T) {
	db := openTestDB(t)
	a, _ := db.UpsertSubject("Juan Pérez", nil)
	b, _ := db.UpsertSubject("Ana López", nil)
	db.InsertReport(a, "weekly", "p1", "{}", nil)
	db.InsertReport(a, "daily", "p2", "{}", nil)
	db.InsertReport(b, "weekly", "p3", "{}", nil)

	reports, err := db.GetReportsForSubject("juan-perez")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != 2 {
		t.Errorf("expected 2 reports, got %d", len(reports))
	}

	all, _ := db.GetAllReports()
	if len(all) != 3 {
		t.Errorf("expected 3 reports, got %d", len(all))
	}
}

func TestDeleteSubjectCascades(t *testing.T) {
	db := openTestDB(t)
	sid, _ := db.UpsertSubject("Juan Pérez", nil)
	db.InsertReport(sid, "weekly", "p1", "{}", nil)

	if err := db.DeleteSubject("juan-perez"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reports, _ := db.GetAllReports()
	if len(reports) != 0 {
		t.Errorf("expected 0 reports after cascade, got %d", len(reports))
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Subjects != 0 || stats.Reports != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}

	sid, _ := db.UpsertSubject("Juan Pérez", nil)
	db.InsertReport(sid, "weekly", "p1", "{}", nil)
	db.InsertReport(sid, "daily", "p2", "{}", nil)

	stats, _ = db.GetStats()
	if stats.Subjects != 1 {
		t.Errorf("expected 1 subject, got %d", stats.Subjects)
	}
	if stats.Reports != 2 {
		t.Errorf("expected 2 reports, got %d", stats.Reports)
	}
	if stats.WeeklyReports != 1 || stats.DailyReports != 1 {
		t.Errorf("expected 1 weekly and 1 daily, got %d and %d", stats.WeeklyReports, stats.DailyReports)
	}
}
