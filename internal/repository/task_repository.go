package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TWRT/things-taskwarrior/internal/models"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// GetTasks returns every TMTask row in store order.
func (r *TaskRepository) GetTasks(ctx context.Context) ([]models.SourceTask, error) {
	query := `
	SELECT uuid, title, type, trashed, status,
	       creationDate, userModificationDate, startDate, stopDate, dueDate,
	       project, notes
	FROM TMTask
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.SourceTask

	for rows.Next() {
		var (
			t       models.SourceTask
			title   sql.NullString
			project sql.NullString
			notes   sql.NullString
		)
		err := rows.Scan(
			&t.UUID,
			&title,
			&t.Type,
			&t.Trashed,
			&t.Status,
			&t.CreationDate,
			&t.UserModificationDate,
			&t.StartDate,
			&t.StopDate,
			&t.DueDate,
			&project,
			&notes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Title = nullableString(title)
		t.Project = nullableString(project)
		t.Notes = nullableString(notes)
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
