package models

// TaskType is the kind of row stored in TMTask.
type TaskType int64

const (
	TaskTypeTask    TaskType = 0
	TaskTypeProject TaskType = 1
	TaskTypeHeading TaskType = 2
)

// TaskStatus is the raw status column of TMTask.
type TaskStatus int64

const (
	TaskStatusOpen      TaskStatus = 0
	TaskStatusCanceled  TaskStatus = 1
	TaskStatusWaiting   TaskStatus = 2
	TaskStatusCompleted TaskStatus = 3
)

// SourceTask is one TMTask row as read from the source store.
// Date fields hold the raw column values; they are normalized by the service layer.
type SourceTask struct {
	UUID    string
	Title   *string
	Type    TaskType
	Trashed int64
	Status  TaskStatus

	CreationDate         any
	UserModificationDate any
	StartDate            any
	StopDate             any
	DueDate              any

	Project *string
	Notes   *string
}

// IsTask reports whether the row is a plain task (not a project or heading).
func (t SourceTask) IsTask() bool {
	return t.Type == TaskTypeTask
}

// TitleOrEmpty returns the title, or "" when the column is NULL.
func (t SourceTask) TitleOrEmpty() string {
	if t.Title == nil {
		return ""
	}
	return *t.Title
}
