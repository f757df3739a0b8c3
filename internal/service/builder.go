package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/TWRT/things-taskwarrior/internal/models"
	"github.com/TWRT/things-taskwarrior/internal/taskwarrior"
	"github.com/google/uuid"
)

// NormalizedTask is a source task with parsed dates and resolved tags.
type NormalizedTask struct {
	models.SourceTask

	Entry    *time.Time
	Modified *time.Time
	Start    *time.Time
	Stop     *time.Time
	Due      *time.Time

	Tags []models.Tag
}

type Outcome int

const (
	OutcomeEmitted Outcome = iota
	OutcomeCanceled
	OutcomeUntitled
)

// RecordBuilder turns normalized tasks into Taskwarrior records.
type RecordBuilder struct {
	classifier *StatusClassifier
	tasks      map[string]*NormalizedTask
}

// NewRecordBuilder returns a builder resolving project references against tasks.
func NewRecordBuilder(classifier *StatusClassifier, tasks map[string]*NormalizedTask) *RecordBuilder {
	return &RecordBuilder{classifier: classifier, tasks: tasks}
}

// Build returns the record for task. Canceled and untitled tasks yield a nil
// record and the matching Outcome. Untitled tasks are only skipped once every
// other field has been computed, so their inconsistencies still surface.
func (b *RecordBuilder) Build(ctx context.Context, task *NormalizedTask) (*taskwarrior.Record, Outcome, error) {
	cls, err := b.classifier.Classify(ctx, task.SourceTask)
	if err != nil {
		return nil, 0, err
	}
	if cls.Drop {
		return nil, OutcomeCanceled, nil
	}

	rec := &taskwarrior.Record{
		Status:      cls.Status,
		Wait:        cls.Wait,
		UUID:        normalizeUUID(task.UUID),
		Entry:       taskwarrior.NewTime(task.Entry),
		Description: task.TitleOrEmpty(),
		Modified:    taskwarrior.NewTime(task.Modified),
		Start:       taskwarrior.NewTime(task.Start),
		Stop:        taskwarrior.NewTime(task.Stop),
		Due:         taskwarrior.NewTime(task.Due),
	}

	if task.Project != nil {
		project, ok := b.tasks[*task.Project]
		if !ok {
			return nil, 0, fmt.Errorf("%w: task %s references unknown project %s",
				models.ErrInconsistentSchema, task.UUID, *task.Project)
		}
		rec.Project = project.TitleOrEmpty()
	}

	priority, tags := ExtractPriority(task.Tags)
	rec.Priority = priority
	if len(tags) > 0 {
		rec.Tags = make([]string, 0, len(tags))
		for _, tag := range tags {
			rec.Tags = append(rec.Tags, tag.Title)
		}
	}

	if task.Notes != nil {
		annotation, err := buildAnnotation(task)
		if err != nil {
			return nil, 0, err
		}
		if annotation != nil {
			rec.Annotations = []taskwarrior.Annotation{*annotation}
		}
	}

	if rec.Description == "" {
		return nil, OutcomeUntitled, nil
	}

	return rec, OutcomeEmitted, nil
}

func buildAnnotation(task *NormalizedTask) (*taskwarrior.Annotation, error) {
	entry := task.Modified
	if entry == nil {
		entry = task.Entry
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: task %s has notes but no creation or modification date",
			models.ErrInconsistentSchema, task.UUID)
	}

	body, err := ParseNotes(*task.Notes)
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", task.UUID, err)
	}
	if body == nil {
		return nil, nil
	}

	return &taskwarrior.Annotation{
		Entry:       taskwarrior.NewTime(entry),
		Description: *body,
	}, nil
}

// normalizeUUID lower-cases the id and keeps its shape otherwise.
func normalizeUUID(id string) string {
	return strings.ToLower(id)
}

// IsCanonicalUUID reports whether id is a dashed, lower-case UUID, the only
// form `task import` accepts.
func IsCanonicalUUID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}
