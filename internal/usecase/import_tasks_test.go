package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/testutil"
)

const importDocument = `
tasks:
  - title: Write report
    description: quarterly numbers
    subtasks:
      - title: Gather sources
        stepType: mental
        estimatedMinutes: 20
      - title: Write draft
        children:
          - title: Intro
          - title: Body
            strategyTag: interleave
  - title: Clean desk
`

func TestImportTasks(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	clock := testClock()
	uc := NewImportTasks(repo, clock)

	out, err := uc.Execute(context.Background(), ImportTasksInput{Reader: strings.NewReader(importDocument)})
	require.NoError(t, err)
	require.Len(t, out.Tasks, 2)
	assert.Len(t, repo.Tasks, 2)

	report := out.Tasks[0]
	assert.Equal(t, "Write report", report.Title)
	assert.Equal(t, "quarterly numbers", report.Description)
	assert.Equal(t, clock.NowTime, report.Created)
	require.Len(t, report.Subtasks, 4)

	gather := report.Subtasks[0]
	assert.Equal(t, domain.StepMental, gather.StepType)
	assert.Equal(t, 20, gather.EstimatedMinutes)
	assert.Equal(t, 0, gather.Order)

	draft := report.Subtasks[1]
	assert.True(t, draft.IsComposite)
	assert.Equal(t, 1, draft.Order)

	intro, body := report.Subtasks[2], report.Subtasks[3]
	assert.Equal(t, draft.ID, intro.ParentSubtaskID)
	assert.Equal(t, draft.ID, body.ParentSubtaskID)
	assert.Equal(t, 0, intro.Order)
	assert.Equal(t, 1, body.Order)
	assert.Equal(t, "interleave", body.StrategyTag)

	assert.Equal(t, "Clean desk", out.Tasks[1].Title)
	assert.Empty(t, out.Tasks[1].Subtasks)
}

func TestImportTasks_EmptyTitleFailsWholeImport(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	uc := NewImportTasks(repo, testClock())

	doc := "tasks:\n  - title: Fine\n  - title: \"  \"\n"
	_, err := uc.Execute(context.Background(), ImportTasksInput{Reader: strings.NewReader(doc)})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	assert.Empty(t, repo.Tasks, "validation runs before anything is written")
}

func TestImportTasks_RejectsDeepNesting(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	uc := NewImportTasks(repo, testClock())

	doc := `
tasks:
  - title: Too deep
    subtasks:
      - title: Level one
        children:
          - title: Level two
            children:
              - title: Level three
`
	_, err := uc.Execute(context.Background(), ImportTasksInput{Reader: strings.NewReader(doc)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting")
	assert.Empty(t, repo.Tasks)
}

func TestImportTasks_MalformedYAML(t *testing.T) {
	uc := NewImportTasks(testutil.NewMockTaskRepository(), testClock())

	_, err := uc.Execute(context.Background(), ImportTasksInput{Reader: strings.NewReader("tasks: [}{")})
	assert.Error(t, err)
}
