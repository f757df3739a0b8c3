package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/TWRT/things-taskwarrior/internal/client"
	"github.com/TWRT/things-taskwarrior/internal/models"
	"github.com/TWRT/things-taskwarrior/internal/repository"
	"github.com/TWRT/things-taskwarrior/internal/taskwarrior"
	"github.com/dustin/go-humanize"
)

// Summary counts what happened to the source rows during one run.
type Summary struct {
	Tasks    int
	Emitted  int
	Canceled int
	Untitled int
	NonTasks int
}

type ConversionService struct {
	taskRepo    *repository.TaskRepository
	tagRepo     *repository.TagRepository
	taskTagRepo *repository.TaskTagRepository
	someday     client.SomedayProvider
	logger      *slog.Logger
}

func NewConversionService(
	taskRepo *repository.TaskRepository,
	tagRepo *repository.TagRepository,
	taskTagRepo *repository.TaskTagRepository,
	someday client.SomedayProvider,
	logger *slog.Logger,
) *ConversionService {
	return &ConversionService{
		taskRepo:    taskRepo,
		tagRepo:     tagRepo,
		taskTagRepo: taskTagRepo,
		someday:     someday,
		logger:      logger,
	}
}

// Convert reads the whole source store and writes one Taskwarrior JSON line
// per eligible task to w, in store order. Any inconsistency aborts the run.
func (s *ConversionService) Convert(ctx context.Context, w io.Writer) (Summary, error) {
	var summary Summary

	sources, err := s.taskRepo.GetTasks(ctx)
	if err != nil {
		return summary, fmt.Errorf("load tasks: %w", err)
	}
	summary.Tasks = len(sources)

	tasks, index, err := s.normalizeTasks(sources)
	if err != nil {
		return summary, err
	}

	if err := s.attachTags(ctx, tasks, index); err != nil {
		return summary, err
	}

	builder := NewRecordBuilder(NewStatusClassifier(NewSomeday(s.someday)), index)
	enc := taskwarrior.NewEncoder(w)

	for _, task := range tasks {
		if !task.IsTask() {
			summary.NonTasks++
			continue
		}

		rec, outcome, err := builder.Build(ctx, task)
		if err != nil {
			return summary, err
		}

		switch outcome {
		case OutcomeCanceled:
			summary.Canceled++
			s.logger.Debug("skipped canceled task", "uuid", task.UUID)
		case OutcomeUntitled:
			summary.Untitled++
			s.logger.Debug("skipped untitled task", "uuid", task.UUID)
		case OutcomeEmitted:
			if !IsCanonicalUUID(rec.UUID) {
				s.logger.Warn("task id is not a UUID, task import may reject it", "uuid", rec.UUID)
			}
			if err := enc.Encode(rec); err != nil {
				return summary, err
			}
			summary.Emitted++
		}
	}

	s.logger.Info("conversion finished",
		"converted", humanize.Comma(int64(summary.Emitted)),
		"canceled", humanize.Comma(int64(summary.Canceled)),
		"untitled", humanize.Comma(int64(summary.Untitled)),
		"projects_and_headings", humanize.Comma(int64(summary.NonTasks)),
	)

	return summary, nil
}

// normalizeTasks parses every date column, fixes same-day start dates and
// indexes tasks by id. The returned slice keeps store order.
func (s *ConversionService) normalizeTasks(sources []models.SourceTask) ([]*NormalizedTask, map[string]*NormalizedTask, error) {
	tasks := make([]*NormalizedTask, 0, len(sources))
	index := make(map[string]*NormalizedTask, len(sources))

	for _, src := range sources {
		if _, ok := index[src.UUID]; ok {
			return nil, nil, fmt.Errorf("%w: duplicate task %s", models.ErrInconsistentSchema, src.UUID)
		}

		task := &NormalizedTask{SourceTask: src}

		columns := []struct {
			name string
			raw  any
			dst  **time.Time
		}{
			{"creationDate", src.CreationDate, &task.Entry},
			{"userModificationDate", src.UserModificationDate, &task.Modified},
			{"startDate", src.StartDate, &task.Start},
			{"stopDate", src.StopDate, &task.Stop},
			{"dueDate", src.DueDate, &task.Due},
		}
		for _, col := range columns {
			parsed, err := ParseDate(col.raw)
			if err != nil {
				s.logger.Error("invalid date", "uuid", src.UUID, "column", col.name, "value", fmt.Sprintf("%#v", col.raw))
				return nil, nil, fmt.Errorf("task %s %s: %w", src.UUID, col.name, err)
			}
			*col.dst = parsed
		}

		task.Start = NormalizeStart(s.logger, src.TitleOrEmpty(), task.Entry, task.Start)

		tasks = append(tasks, task)
		index[src.UUID] = task
	}

	return tasks, index, nil
}

func (s *ConversionService) attachTags(ctx context.Context, tasks []*NormalizedTask, index map[string]*NormalizedTask) error {
	tags, err := s.tagRepo.GetTags(ctx)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}

	links, err := s.taskTagRepo.GetLinks(ctx)
	if err != nil {
		return fmt.Errorf("load task tags: %w", err)
	}

	for _, l := range links {
		if _, ok := index[l.TaskUUID]; !ok {
			return fmt.Errorf("%w: tag %s linked to unknown task %s",
				models.ErrInconsistentSchema, l.TagUUID, l.TaskUUID)
		}
	}

	tagIndex, err := ResolveTags(tags, links)
	if err != nil {
		return err
	}

	for _, task := range tasks {
		task.Tags = tagIndex.TaskTags(task.UUID)
	}
	return nil
}
