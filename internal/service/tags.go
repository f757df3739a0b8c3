package service

import (
	"fmt"

	"github.com/TWRT/things-taskwarrior/internal/models"
)

// TagIndex maps tag ids to names and tasks to the tag ids linked to them.
// It is built once per run and read-only afterwards.
type TagIndex struct {
	names  map[string]string
	byTask map[string][]string
}

// ResolveTags indexes the tag table and attaches every link to its task in
// link order. Duplicate tag ids and links to unknown tags are inconsistencies.
func ResolveTags(tags []models.Tag, links []models.TaskTagLink) (*TagIndex, error) {
	idx := &TagIndex{
		names:  make(map[string]string, len(tags)),
		byTask: make(map[string][]string),
	}

	for _, tag := range tags {
		if _, ok := idx.names[tag.UUID]; ok {
			return nil, fmt.Errorf("%w: duplicate tag %s", models.ErrInconsistentSchema, tag.UUID)
		}
		idx.names[tag.UUID] = tag.Title
	}

	for _, l := range links {
		if _, ok := idx.names[l.TagUUID]; !ok {
			return nil, fmt.Errorf("%w: task %s links unknown tag %s",
				models.ErrInconsistentSchema, l.TaskUUID, l.TagUUID)
		}
		idx.byTask[l.TaskUUID] = append(idx.byTask[l.TaskUUID], l.TagUUID)
	}

	return idx, nil
}

// Name returns the title of a tag id.
func (idx *TagIndex) Name(tagUUID string) (string, bool) {
	name, ok := idx.names[tagUUID]
	return name, ok
}

// TaskTags returns the tags linked to a task in link order. A task without
// links gets an empty, non-nil slice.
func (idx *TagIndex) TaskTags(taskUUID string) []models.Tag {
	ids := idx.byTask[taskUUID]
	tags := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		tags = append(tags, models.Tag{UUID: id, Title: idx.names[id]})
	}
	return tags
}
