// Package testutil builds Things database fixtures for tests.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/TWRT/things-taskwarrior/internal/models"
	_ "modernc.org/sqlite"
)

// schema mirrors the columns the converter reads. uuid carries no key
// constraint so tests can seed inconsistent stores.
const schema = `
CREATE TABLE TMTask (
	uuid TEXT,
	title TEXT,
	type INTEGER,
	trashed INTEGER,
	status INTEGER,
	creationDate REAL,
	userModificationDate REAL,
	startDate REAL,
	stopDate REAL,
	dueDate REAL,
	project TEXT,
	notes TEXT
);
CREATE TABLE TMTag (
	uuid TEXT,
	title TEXT
);
CREATE TABLE TMTaskTag (
	tasks TEXT,
	tags TEXT
);
`

// Fixture is the content of a fixture database.
type Fixture struct {
	Tasks []models.SourceTask
	Tags  []models.Tag
	Links []models.TaskTagLink
}

// NewThingsDB writes f into a fresh SQLite file under t.TempDir and returns its path.
func NewThingsDB(t testing.TB, f Fixture) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Things.sqlite3")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture DB: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create fixture schema: %v", err)
	}

	for _, task := range f.Tasks {
		_, err := db.Exec(`
			INSERT INTO TMTask (uuid, title, type, trashed, status,
				creationDate, userModificationDate, startDate, stopDate, dueDate,
				project, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			task.UUID, nullable(task.Title), int64(task.Type), task.Trashed, int64(task.Status),
			task.CreationDate, task.UserModificationDate, task.StartDate, task.StopDate, task.DueDate,
			nullable(task.Project), nullable(task.Notes),
		)
		if err != nil {
			t.Fatalf("insert task %s: %v", task.UUID, err)
		}
	}

	for _, tag := range f.Tags {
		if _, err := db.Exec(`INSERT INTO TMTag (uuid, title) VALUES (?, ?)`, tag.UUID, tag.Title); err != nil {
			t.Fatalf("insert tag %s: %v", tag.UUID, err)
		}
	}

	for _, l := range f.Links {
		if _, err := db.Exec(`INSERT INTO TMTaskTag (tasks, tags) VALUES (?, ?)`, l.TaskUUID, l.TagUUID); err != nil {
			t.Fatalf("insert task tag %s/%s: %v", l.TaskUUID, l.TagUUID, err)
		}
	}

	return path
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
