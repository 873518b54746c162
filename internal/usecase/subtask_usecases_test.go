package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/testutil"
)

func TestAddSubtask_TopLevel(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	clock := testClock()
	seedReportTask(repo)
	uc := NewAddSubtask(repo, clock)

	out, err := uc.Execute(context.Background(), AddSubtaskInput{
		TaskID:           "t1",
		Title:            "  Send it  ",
		StepType:         domain.StepPhysical,
		EstimatedMinutes: 10,
	})
	require.NoError(t, err)

	idx := out.Task.SubtaskIndex(out.SubtaskID)
	require.GreaterOrEqual(t, idx, 0)
	sub := out.Task.Subtasks[idx]
	assert.Equal(t, "Send it", sub.Title)
	assert.Equal(t, domain.SubtaskActive, sub.State)
	assert.Equal(t, 2, sub.Order, "appended after the existing top-level group")
	assert.Equal(t, 10, sub.EstimatedMinutes)
	assert.Equal(t, clock.NowTime, out.Task.Updated)
}

func TestAddSubtask_ChildMarksParentComposite(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewAddSubtask(repo, testClock())

	out, err := uc.Execute(context.Background(), AddSubtaskInput{
		TaskID:          "t1",
		ParentSubtaskID: "s-gather",
		Title:           "Library trip",
	})
	require.NoError(t, err)

	pi := out.Task.SubtaskIndex("s-gather")
	assert.True(t, out.Task.Subtasks[pi].IsComposite)

	ci := out.Task.SubtaskIndex(out.SubtaskID)
	assert.Equal(t, "s-gather", out.Task.Subtasks[ci].ParentSubtaskID)
	assert.Equal(t, 0, out.Task.Subtasks[ci].Order, "first child of its group")
}

func TestAddSubtask_Draft(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewAddSubtask(repo, testClock())

	out, err := uc.Execute(context.Background(), AddSubtaskInput{TaskID: "t1", Title: "Maybe", Draft: true})
	require.NoError(t, err)

	sub := out.Task.Subtasks[out.Task.SubtaskIndex(out.SubtaskID)]
	assert.Equal(t, domain.SubtaskDraft, sub.State)
}

func TestAddSubtask_Errors(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewAddSubtask(repo, testClock())

	_, err := uc.Execute(context.Background(), AddSubtaskInput{TaskID: "t1", Title: " "})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = uc.Execute(context.Background(), AddSubtaskInput{TaskID: "t1", Title: "x", ParentSubtaskID: "nope"})
	assert.ErrorIs(t, err, domain.ErrSubtaskNotFound)
}

func TestToggleSubtask(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	clock := testClock()
	seedReportTask(repo)
	uc := NewToggleSubtask(repo, clock)

	out, err := uc.Execute(context.Background(), ToggleSubtaskInput{TaskID: "t1", SubtaskID: "s-gather"})
	require.NoError(t, err)
	assert.True(t, out.Task.Subtasks[out.Task.SubtaskIndex("s-gather")].IsCompleted)
	assert.Equal(t, 25, out.Task.Progress)
	assert.Equal(t, domain.StatusInProgress, out.Task.Status)
	assert.Equal(t, clock.NowTime, out.Task.Updated)

	// Toggling again reopens.
	out, err = uc.Execute(context.Background(), ToggleSubtaskInput{TaskID: "t1", SubtaskID: "s-gather"})
	require.NoError(t, err)
	assert.False(t, out.Task.Subtasks[out.Task.SubtaskIndex("s-gather")].IsCompleted)
	assert.Equal(t, domain.StatusPending, out.Task.Status)
}

func TestToggleSubtask_LastChildCompletesParent(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewToggleSubtask(repo, testClock())

	_, err := uc.Execute(context.Background(), ToggleSubtaskInput{TaskID: "t1", SubtaskID: "s-intro"})
	require.NoError(t, err)
	out, err := uc.Execute(context.Background(), ToggleSubtaskInput{TaskID: "t1", SubtaskID: "s-body"})
	require.NoError(t, err)
	assert.True(t, out.Task.Subtasks[out.Task.SubtaskIndex("s-write")].IsCompleted)
	assert.Equal(t, 75, out.Task.Progress)

	// Reopening a child reopens the parent with it.
	out, err = uc.Execute(context.Background(), ToggleSubtaskInput{TaskID: "t1", SubtaskID: "s-body"})
	require.NoError(t, err)
	assert.False(t, out.Task.Subtasks[out.Task.SubtaskIndex("s-write")].IsCompleted)
}

func TestToggleSubtask_CompositeRejected(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewToggleSubtask(repo, testClock())

	_, err := uc.Execute(context.Background(), ToggleSubtaskInput{TaskID: "t1", SubtaskID: "s-write"})
	assert.ErrorIs(t, err, domain.ErrCompositeToggle)
}

func TestDeleteSubtask_CascadesToChildren(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewDeleteSubtask(repo, testClock())

	out, err := uc.Execute(context.Background(), DeleteSubtaskInput{TaskID: "t1", SubtaskID: "s-write"})
	require.NoError(t, err)
	require.Len(t, out.Task.Subtasks, 1)
	assert.Equal(t, "s-gather", out.Task.Subtasks[0].ID)
}

func TestDeleteSubtask_LastChildDemotesParent(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewDeleteSubtask(repo, testClock())

	_, err := uc.Execute(context.Background(), DeleteSubtaskInput{TaskID: "t1", SubtaskID: "s-intro"})
	require.NoError(t, err)
	out, err := uc.Execute(context.Background(), DeleteSubtaskInput{TaskID: "t1", SubtaskID: "s-body"})
	require.NoError(t, err)

	parent := out.Task.Subtasks[out.Task.SubtaskIndex("s-write")]
	assert.False(t, parent.IsComposite, "a parent with no children is atomic again")
	assert.False(t, parent.IsCompleted)
}

func TestDeleteSubtask_ResolvesParentWhenRemainingChildrenDone(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task := seedReportTask(repo)
	task.Subtasks[task.SubtaskIndex("s-intro")].IsCompleted = true
	uc := NewDeleteSubtask(repo, testClock())

	out, err := uc.Execute(context.Background(), DeleteSubtaskInput{TaskID: "t1", SubtaskID: "s-body"})
	require.NoError(t, err)
	assert.True(t, out.Task.Subtasks[out.Task.SubtaskIndex("s-write")].IsCompleted)
}

func TestDeleteSubtask_NotFound(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewDeleteSubtask(repo, testClock())

	_, err := uc.Execute(context.Background(), DeleteSubtaskInput{TaskID: "t1", SubtaskID: "nope"})
	assert.ErrorIs(t, err, domain.ErrSubtaskNotFound)
}

func TestReorderSubtasks_TopLevel(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewReorderSubtasks(repo, testClock())

	out, err := uc.Execute(context.Background(), ReorderSubtasksInput{
		TaskID:     "t1",
		SubtaskIDs: []string{"s-write", "s-gather"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Task.Subtasks[out.Task.SubtaskIndex("s-write")].Order)
	assert.Equal(t, 1, out.Task.Subtasks[out.Task.SubtaskIndex("s-gather")].Order)

	// Child orders are untouched by a top-level reorder.
	assert.Equal(t, 0, out.Task.Subtasks[out.Task.SubtaskIndex("s-intro")].Order)
}

func TestReorderSubtasks_ChildGroup(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewReorderSubtasks(repo, testClock())

	out, err := uc.Execute(context.Background(), ReorderSubtasksInput{
		TaskID:          "t1",
		ParentSubtaskID: "s-write",
		SubtaskIDs:      []string{"s-body", "s-intro"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Task.Subtasks[out.Task.SubtaskIndex("s-body")].Order)
	assert.Equal(t, 1, out.Task.Subtasks[out.Task.SubtaskIndex("s-intro")].Order)
}

func TestReorderSubtasks_InvalidPermutations(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewReorderSubtasks(repo, testClock())

	cases := []struct {
		name string
		ids  []string
	}{
		{"wrong length", []string{"s-gather"}},
		{"foreign id", []string{"s-gather", "s-intro"}},
		{"duplicate", []string{"s-gather", "s-gather"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), ReorderSubtasksInput{TaskID: "t1", SubtaskIDs: tc.ids})
			assert.ErrorIs(t, err, domain.ErrInvalidOrder)
		})
	}
}

func TestArchiveSubtask_ParentArchivesChildren(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	seedReportTask(repo)
	uc := NewArchiveSubtask(repo, testClock())

	out, err := uc.Execute(context.Background(), ArchiveSubtaskInput{TaskID: "t1", SubtaskID: "s-write"})
	require.NoError(t, err)
	assert.True(t, out.Task.Subtasks[out.Task.SubtaskIndex("s-write")].IsArchived)
	assert.True(t, out.Task.Subtasks[out.Task.SubtaskIndex("s-intro")].IsArchived)
	assert.True(t, out.Task.Subtasks[out.Task.SubtaskIndex("s-body")].IsArchived)

	// Only the remaining open step counts toward progress.
	assert.Equal(t, 0, out.Task.Progress)
	assert.Equal(t, domain.StatusPending, out.Task.Status)
}

func TestArchiveSubtask_LastOpenChildResolvesParent(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task := seedReportTask(repo)
	task.Subtasks[task.SubtaskIndex("s-intro")].IsCompleted = true
	uc := NewArchiveSubtask(repo, testClock())

	out, err := uc.Execute(context.Background(), ArchiveSubtaskInput{TaskID: "t1", SubtaskID: "s-body"})
	require.NoError(t, err)
	assert.True(t, out.Task.Subtasks[out.Task.SubtaskIndex("s-write")].IsCompleted)
}

func TestArchiveSubtask_Restore(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	task := seedReportTask(repo)
	task.Subtasks[task.SubtaskIndex("s-gather")].IsArchived = true
	uc := NewArchiveSubtask(repo, testClock())

	out, err := uc.Execute(context.Background(), ArchiveSubtaskInput{TaskID: "t1", SubtaskID: "s-gather", Unarchive: true})
	require.NoError(t, err)
	assert.False(t, out.Task.Subtasks[out.Task.SubtaskIndex("s-gather")].IsArchived)
}

func TestLinkTask(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	clock := testClock()
	seedReportTask(repo)
	uc := NewLinkTask(repo, clock)

	out, err := uc.Execute(context.Background(), LinkTaskInput{TaskID: "t1", SubtaskID: "s-gather"})
	require.NoError(t, err)
	require.NotNil(t, out.Linked)
	assert.Equal(t, "Gather sources", out.Linked.Title)
	assert.Equal(t, `Split off from "Write report"`, out.Linked.Description)
	assert.Equal(t, out.Linked.ID, out.Task.Subtasks[out.Task.SubtaskIndex("s-gather")].LinkedTaskID)
	assert.Len(t, repo.Tasks, 2)

	// Linking again returns the existing task instead of creating another.
	again, err := uc.Execute(context.Background(), LinkTaskInput{TaskID: "t1", SubtaskID: "s-gather"})
	require.NoError(t, err)
	assert.Equal(t, out.Linked.ID, again.Linked.ID)
	assert.Len(t, repo.Tasks, 2)
}
