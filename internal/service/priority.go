package service

import (
	"github.com/TWRT/things-taskwarrior/internal/models"
	"github.com/TWRT/things-taskwarrior/internal/taskwarrior"
)

// Things ships its priority tags with these ids.
const (
	MarkerHigh   = "CC-Things-Tag-High"
	MarkerMedium = "CC-Things-Tag-Medium"
	MarkerLow    = "CC-Things-Tag-Low"
)

var priorityMarkers = []struct {
	marker   string
	priority string
}{
	{MarkerHigh, taskwarrior.PriorityHigh},
	{MarkerMedium, taskwarrior.PriorityMedium},
	{MarkerLow, taskwarrior.PriorityLow},
}

// ExtractPriority pulls priority markers out of a task's tags. Markers are
// checked high, medium, low and each hit overwrites the previous one, so low
// wins when several are present. The returned tags contain no markers.
func ExtractPriority(tags []models.Tag) (string, []models.Tag) {
	priority := ""
	for _, pm := range priorityMarkers {
		var found bool
		tags, found = removeMarker(tags, pm.marker)
		if found {
			priority = pm.priority
		}
	}
	return priority, tags
}

func removeMarker(tags []models.Tag, marker string) ([]models.Tag, bool) {
	kept := make([]models.Tag, 0, len(tags))
	found := false
	for _, tag := range tags {
		if tag.UUID == marker || tag.Title == marker {
			found = true
			continue
		}
		kept = append(kept, tag)
	}
	return kept, found
}
