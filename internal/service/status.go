package service

import (
	"context"
	"fmt"

	"github.com/TWRT/things-taskwarrior/internal/models"
	"github.com/TWRT/things-taskwarrior/internal/taskwarrior"
)

type TransitionKind int

const (
	TransitionEmit TransitionKind = iota
	TransitionDrop
)

// Transition is the outcome of classifying a task's source flags.
type Transition struct {
	Kind   TransitionKind
	Status string
	// Wait is set when the task must carry the someday wait date.
	Wait bool
}

// statusTable is evaluated top to bottom; the first matching row wins.
var statusTable = []struct {
	trashed   int64
	status    models.TaskStatus
	anyStatus bool
	result    Transition
}{
	{trashed: 1, anyStatus: true, result: Transition{Kind: TransitionEmit, Status: taskwarrior.DELETED}},
	{trashed: 0, status: models.TaskStatusOpen, result: Transition{Kind: TransitionEmit, Status: taskwarrior.PENDING}},
	{trashed: 0, status: models.TaskStatusCanceled, result: Transition{Kind: TransitionDrop}},
	{trashed: 0, status: models.TaskStatusWaiting, result: Transition{Kind: TransitionEmit, Status: taskwarrior.WAITING, Wait: true}},
	{trashed: 0, status: models.TaskStatusCompleted, result: Transition{Kind: TransitionEmit, Status: taskwarrior.COMPLETED}},
}

// Classify maps the trashed and status columns to a Taskwarrior status.
// Canceled tasks are dropped. Combinations outside the table are
// ErrInconsistentSchema.
func Classify(trashed int64, status models.TaskStatus) (Transition, error) {
	for _, row := range statusTable {
		if row.trashed != trashed {
			continue
		}
		if row.anyStatus || row.status == status {
			return row.result, nil
		}
	}
	return Transition{}, fmt.Errorf("%w: trashed=%d status=%d",
		models.ErrInconsistentSchema, trashed, status)
}

// Classification is a resolved Transition with the wait date attached.
type Classification struct {
	Drop   bool
	Status string
	Wait   string
}

// StatusClassifier classifies tasks and attaches the memoized someday date
// to waiting ones.
type StatusClassifier struct {
	someday *Someday
}

func NewStatusClassifier(someday *Someday) *StatusClassifier {
	return &StatusClassifier{someday: someday}
}

func (c *StatusClassifier) Classify(ctx context.Context, task models.SourceTask) (Classification, error) {
	if !task.IsTask() {
		return Classification{}, fmt.Errorf("%w: %s has type %d, only tasks are classified",
			models.ErrInconsistentSchema, task.UUID, task.Type)
	}

	tr, err := Classify(task.Trashed, task.Status)
	if err != nil {
		return Classification{}, fmt.Errorf("task %s: %w", task.UUID, err)
	}
	if tr.Kind == TransitionDrop {
		return Classification{Drop: true}, nil
	}

	cls := Classification{Status: tr.Status}
	if tr.Wait {
		wait, err := c.someday.Value(ctx)
		if err != nil {
			return Classification{}, err
		}
		cls.Wait = wait
	}
	return cls, nil
}
