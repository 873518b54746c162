package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/testutil"
)

func testClock() *testutil.MockClock {
	return &testutil.MockClock{NowTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
}

// seedReportTask stores a task with one atomic step and a composite step with
// two children, the standard shape for subtask tests.
func seedReportTask(repo *testutil.MockTaskRepository) *domain.Task {
	created := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	task := &domain.Task{
		ID:      "t1",
		Title:   "Write report",
		Created: created,
		Updated: created,
		Subtasks: []domain.Subtask{
			{ID: "s-gather", ParentTaskID: "t1", Title: "Gather sources", State: domain.SubtaskActive, Order: 0},
			{ID: "s-write", ParentTaskID: "t1", Title: "Write draft", State: domain.SubtaskActive, Order: 1, IsComposite: true},
			{ID: "s-intro", ParentTaskID: "t1", ParentSubtaskID: "s-write", Title: "Intro", State: domain.SubtaskActive, Order: 0},
			{ID: "s-body", ParentTaskID: "t1", ParentSubtaskID: "s-write", Title: "Body", State: domain.SubtaskActive, Order: 1},
		},
	}
	task.RecomputeProgress()
	repo.Tasks["t1"] = task
	return task
}

func TestNewTask(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	clock := testClock()
	uc := NewNewTask(repo, clock)

	out, err := uc.Execute(context.Background(), NewTaskInput{Title: "  Write report  ", Description: "quarterly"})
	require.NoError(t, err)
	assert.Equal(t, "Write report", out.Task.Title, "title is trimmed")
	assert.Equal(t, "quarterly", out.Task.Description)
	assert.Equal(t, domain.StatusPending, out.Task.Status)
	assert.Equal(t, clock.NowTime, out.Task.Created)
	assert.NotEmpty(t, out.Task.ID)
	assert.Contains(t, repo.Tasks, out.Task.ID)
}

func TestNewTask_EmptyTitle(t *testing.T) {
	uc := NewNewTask(testutil.NewMockTaskRepository(), testClock())

	_, err := uc.Execute(context.Background(), NewTaskInput{Title: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
}

func TestEditTask(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	clock := testClock()
	seedReportTask(repo)
	uc := NewEditTask(repo, clock)

	title := "Write the report"
	out, err := uc.Execute(context.Background(), EditTaskInput{TaskID: "t1", Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Write the report", out.Task.Title)
	assert.Equal(t, clock.NowTime, out.Task.Updated)

	desc := "with sources"
	out, err = uc.Execute(context.Background(), EditTaskInput{TaskID: "t1", Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Write the report", out.Task.Title, "nil fields stay untouched")
	assert.Equal(t, "with sources", out.Task.Description)
}

func TestEditTask_EmptyTitle(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewEditTask(repo, testClock())

	empty := "  "
	_, err := uc.Execute(context.Background(), EditTaskInput{TaskID: "t1", Title: &empty})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
}

func TestEditTask_NotFound(t *testing.T) {
	uc := NewEditTask(testutil.NewMockTaskRepository(), testClock())

	title := "x"
	_, err := uc.Execute(context.Background(), EditTaskInput{TaskID: "nope", Title: &title})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestListTasks(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	base := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	repo.Tasks["t-a"] = &domain.Task{ID: "t-a", Title: "A", Status: domain.StatusPending, Created: base}
	repo.Tasks["t-b"] = &domain.Task{ID: "t-b", Title: "B", Status: domain.StatusCompleted, Created: base.Add(time.Hour)}
	uc := NewListTasks(repo)

	out, err := uc.Execute(context.Background(), ListTasksInput{})
	require.NoError(t, err)
	require.Len(t, out.Tasks, 2)
	assert.Equal(t, "t-a", out.Tasks[0].ID)

	out, err = uc.Execute(context.Background(), ListTasksInput{Status: domain.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "t-b", out.Tasks[0].ID)
}

func TestListTasks_InvalidStatus(t *testing.T) {
	uc := NewListTasks(testutil.NewMockTaskRepository())

	_, err := uc.Execute(context.Background(), ListTasksInput{Status: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestDeleteTask(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewDeleteTask(repo)

	require.NoError(t, uc.Execute(context.Background(), DeleteTaskInput{TaskID: "t1"}))
	assert.Empty(t, repo.Tasks)

	err := uc.Execute(context.Background(), DeleteTaskInput{TaskID: "t1"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestShowTask(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewShowTask(repo)

	out, err := uc.Execute(context.Background(), ShowTaskInput{TaskID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, "Write report", out.Task.Title)
	assert.Len(t, out.Task.Subtasks, 4)

	_, err = uc.Execute(context.Background(), ShowTaskInput{TaskID: "nope"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

type initRecorder struct {
	calls int
}

func (r *initRecorder) Initialize() error {
	r.calls++
	return nil
}

func TestInitStore(t *testing.T) {
	rec := &initRecorder{}
	uc := NewInitStore(rec)

	require.NoError(t, uc.Execute(context.Background()))
	assert.Equal(t, 1, rec.calls)
}
