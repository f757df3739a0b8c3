package models

type Tag struct {
	UUID  string
	Title string
}

// TaskTagLink is one TMTaskTag row.
type TaskTagLink struct {
	TaskUUID string
	TagUUID  string
}
