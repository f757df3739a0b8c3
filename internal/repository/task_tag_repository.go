package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TWRT/things-taskwarrior/internal/models"
)

type TaskTagRepository struct {
	db *sql.DB
}

func NewTaskTagRepository(db *sql.DB) *TaskTagRepository {
	return &TaskTagRepository{db: db}
}

// GetLinks returns the task/tag association rows in the order the store yields them.
func (r *TaskTagRepository) GetLinks(ctx context.Context) ([]models.TaskTagLink, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT tasks, tags FROM TMTaskTag`)
	if err != nil {
		return nil, fmt.Errorf("query task tags: %w", err)
	}
	defer rows.Close()

	var links []models.TaskTagLink

	for rows.Next() {
		var l models.TaskTagLink
		if err := rows.Scan(&l.TaskUUID, &l.TagUUID); err != nil {
			return nil, fmt.Errorf("scan task tag: %w", err)
		}
		links = append(links, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task tags: %w", err)
	}

	return links, nil
}
