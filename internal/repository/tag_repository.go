package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TWRT/things-taskwarrior/internal/models"
)

type TagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) GetTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT uuid, title FROM TMTag`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag

	for rows.Next() {
		var (
			tag   models.Tag
			title sql.NullString
		)
		if err := rows.Scan(&tag.UUID, &title); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tag.Title = title.String
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return tags, nil
}
