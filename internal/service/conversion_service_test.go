package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/TWRT/things-taskwarrior/internal/logging"
	"github.com/TWRT/things-taskwarrior/internal/models"
	"github.com/TWRT/things-taskwarrior/internal/repository"
	"github.com/TWRT/things-taskwarrior/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	jan5_10am = 1704448800.0 // 2024-01-05T10:00:00Z
	jan5_8am  = 1704441600.0 // 2024-01-05T08:00:00Z
	jan4_8am  = 1704355200.0 // 2024-01-04T08:00:00Z
	mar1      = 1677628800.0 // 2023-03-01T00:00:00Z
)

type run struct {
	lines    []map[string]any
	raw      string
	summary  Summary
	log      string
	provider *fakeSomeday
}

func convert(t *testing.T, f testutil.Fixture) (run, error) {
	t.Helper()

	db, err := repository.OpenDB(testutil.NewThingsDB(t, f))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return convertDB(t, db)
}

func convertDB(t *testing.T, db *sql.DB) (run, error) {
	t.Helper()

	var out, logs bytes.Buffer
	provider := &fakeSomeday{value: "2038-01-18T00:00:00"}
	svc := NewConversionService(
		repository.NewTaskRepository(db),
		repository.NewTagRepository(db),
		repository.NewTaskTagRepository(db),
		provider,
		logging.New(&logs, logging.ParseLevel("debug")),
	)

	summary, err := svc.Convert(context.Background(), &out)

	r := run{raw: out.String(), summary: summary, log: logs.String(), provider: provider}
	for _, line := range strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		r.lines = append(r.lines, m)
	}
	return r, err
}

func task(uuid, title string) models.SourceTask {
	return models.SourceTask{UUID: uuid, Title: testutil.Ptr(title), CreationDate: mar1}
}

func TestConvert_EndToEnd(t *testing.T) {
	project := task("PROJ", "Home")
	project.Type = models.TaskTypeProject

	heading := task("HEAD", "Kitchen")
	heading.Type = models.TaskTypeHeading

	milk := task("MILK", "Buy milk")
	milk.Project = testutil.Ptr("PROJ")
	milk.Notes = testutil.Ptr("<note>Buy milk</note>")

	waiting1 := task("WAIT1", "Renew passport")
	waiting1.Status = models.TaskStatusWaiting
	waiting2 := task("WAIT2", "Learn piano")
	waiting2.Status = models.TaskStatusWaiting

	canceled := task("CANCEL", "Never mind")
	canceled.Status = models.TaskStatusCanceled

	untitled := models.SourceTask{UUID: "EMPTY", CreationDate: mar1}

	trashed := task("TRASH", "Old stuff")
	trashed.Trashed = 1
	trashed.Status = models.TaskStatusCompleted

	r, err := convert(t, testutil.Fixture{
		Tasks: []models.SourceTask{project, heading, milk, waiting1, canceled, untitled, waiting2, trashed},
		Tags: []models.Tag{
			{UUID: "T-ERRAND", Title: "errand"},
			{UUID: "T-HIGH", Title: MarkerHigh},
			{UUID: "T-LOW", Title: MarkerLow},
			{UUID: "T-CITY", Title: "city"},
		},
		Links: []models.TaskTagLink{
			{TaskUUID: "MILK", TagUUID: "T-CITY"},
			{TaskUUID: "MILK", TagUUID: "T-HIGH"},
			{TaskUUID: "MILK", TagUUID: "T-LOW"},
			{TaskUUID: "MILK", TagUUID: "T-ERRAND"},
		},
	})
	require.NoError(t, err)

	require.Len(t, r.lines, 4)
	uuids := []any{}
	for _, l := range r.lines {
		uuids = append(uuids, l["uuid"])
	}
	assert.Equal(t, []any{"milk", "wait1", "wait2", "trash"}, uuids)

	first := r.lines[0]
	assert.Equal(t, map[string]any{
		"status":      "pending",
		"uuid":        "milk",
		"entry":       "20230301T000000Z",
		"description": "Buy milk",
		"project":     "Home",
		"priority":    "L",
		"tags":        []any{"city", "errand"},
		"annotations": []any{map[string]any{"entry": "20230301T000000Z", "description": "Buy milk"}},
	}, first)

	assert.Equal(t, "waiting", r.lines[1]["status"])
	assert.Equal(t, "2038-01-18T00:00:00", r.lines[1]["wait"])
	assert.Equal(t, r.lines[1]["wait"], r.lines[2]["wait"])
	assert.Equal(t, 1, r.provider.calls)

	assert.Equal(t, "deleted", r.lines[3]["status"])

	assert.Equal(t, Summary{Tasks: 8, Emitted: 4, Canceled: 1, Untitled: 1, NonTasks: 2}, r.summary)
	assert.NotContains(t, r.raw, "null")
	assert.Contains(t, r.log, "conversion finished")
	assert.Contains(t, r.log, "task id is not a UUID")
}

func TestConvert_UUIDIdsAreNotReported(t *testing.T) {
	r, err := convert(t, testutil.Fixture{Tasks: []models.SourceTask{
		task("F45A05B3-C12E-42E5-9C9C-333333333333", "a"),
	}})
	require.NoError(t, err)
	require.Len(t, r.lines, 1)
	assert.Equal(t, "f45a05b3-c12e-42e5-9c9c-333333333333", r.lines[0]["uuid"])
	assert.NotContains(t, r.log, "not a UUID")
}

func TestConvert_SameDayStartIsNormalized(t *testing.T) {
	early := task("EARLY", "Write report")
	early.CreationDate = jan5_10am
	early.StartDate = jan5_8am

	otherDay := task("OTHER", "Plan trip")
	otherDay.CreationDate = jan5_10am
	otherDay.StartDate = jan4_8am

	r, err := convert(t, testutil.Fixture{Tasks: []models.SourceTask{early, otherDay}})
	require.NoError(t, err)
	require.Len(t, r.lines, 2)

	assert.Equal(t, "20240105T100000Z", r.lines[0]["start"])
	assert.Equal(t, "20240104T080000Z", r.lines[1]["start"])
	assert.Contains(t, r.log, "normalized start date")
}

func TestConvert_AllDateFields(t *testing.T) {
	tk := task("DATES", "Dated")
	tk.UserModificationDate = jan5_8am
	tk.StartDate = jan5_10am
	tk.StopDate = jan5_10am + 3600
	tk.DueDate = jan5_10am + 86400

	r, err := convert(t, testutil.Fixture{Tasks: []models.SourceTask{tk}})
	require.NoError(t, err)
	require.Len(t, r.lines, 1)

	assert.Equal(t, "20240105T080000Z", r.lines[0]["modified"])
	assert.Equal(t, "20240105T100000Z", r.lines[0]["start"])
	assert.Equal(t, "20240105T110000Z", r.lines[0]["stop"])
	assert.Equal(t, "20240106T100000Z", r.lines[0]["due"])
}

func TestConvert_NoWaitingTasksNeverCallsSomeday(t *testing.T) {
	r, err := convert(t, testutil.Fixture{Tasks: []models.SourceTask{task("A", "a")}})
	require.NoError(t, err)
	assert.Zero(t, r.provider.calls)
}

func TestConvert_EmptyStore(t *testing.T) {
	r, err := convert(t, testutil.Fixture{})
	require.NoError(t, err)
	assert.Empty(t, r.raw)
	assert.Equal(t, Summary{}, r.summary)
}

func TestConvert_Errors(t *testing.T) {
	invalidDate := task("BAD", "Bad date")
	invalidDate.DueDate = "tomorrow"

	badStatus := task("ODD", "Odd")
	badStatus.Status = 7

	dangling := task("ORPHAN", "Orphan")
	dangling.Project = testutil.Ptr("NOPE")

	badNotes := task("NOTES", "Notes")
	badNotes.Notes = testutil.Ptr("<memo>x</memo>")

	noDates := models.SourceTask{UUID: "NODATE", Title: testutil.Ptr("x"), Notes: testutil.Ptr("<note>x</note>")}

	tests := []struct {
		name    string
		fixture testutil.Fixture
		want    error
	}{
		{"invalid date", testutil.Fixture{Tasks: []models.SourceTask{invalidDate}}, models.ErrInvalidDate},
		{"duplicate task", testutil.Fixture{Tasks: []models.SourceTask{task("A", "a"), task("A", "b")}}, models.ErrInconsistentSchema},
		{"status outside table", testutil.Fixture{Tasks: []models.SourceTask{badStatus}}, models.ErrInconsistentSchema},
		{"dangling project", testutil.Fixture{Tasks: []models.SourceTask{dangling}}, models.ErrInconsistentSchema},
		{"malformed notes", testutil.Fixture{Tasks: []models.SourceTask{badNotes}}, models.ErrMalformedNotes},
		{"notes without dates", testutil.Fixture{Tasks: []models.SourceTask{noDates}}, models.ErrInconsistentSchema},
		{"unknown tag", testutil.Fixture{
			Tasks: []models.SourceTask{task("A", "a")},
			Links: []models.TaskTagLink{{TaskUUID: "A", TagUUID: "ghost"}},
		}, models.ErrInconsistentSchema},
		{"link to unknown task", testutil.Fixture{
			Tags:  []models.Tag{{UUID: "t", Title: "work"}},
			Links: []models.TaskTagLink{{TaskUUID: "ghost", TagUUID: "t"}},
		}, models.ErrInconsistentSchema},
		{"duplicate tag", testutil.Fixture{
			Tags: []models.Tag{{UUID: "t", Title: "a"}, {UUID: "t", Title: "b"}},
		}, models.ErrInconsistentSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := convert(t, tt.fixture)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestConvert_InvalidDateIsReported(t *testing.T) {
	tk := task("BAD", "Bad date")
	tk.StartDate = "soon"

	r, err := convert(t, testutil.Fixture{Tasks: []models.SourceTask{tk}})
	require.Error(t, err)
	assert.Contains(t, r.log, "invalid date")
	assert.Contains(t, r.log, "startDate")
}

func TestConvert_FatalErrorStopsEmission(t *testing.T) {
	bad := task("B", "second")
	bad.Status = 9

	r, err := convert(t, testutil.Fixture{Tasks: []models.SourceTask{task("A", "first"), bad, task("C", "third")}})
	require.Error(t, err)
	assert.NotContains(t, r.raw, "third")
}
