package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/testutil"
)

func TestResolveTask(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Tasks["aaaa1111"] = &domain.Task{ID: "aaaa1111", Title: "First"}
	repo.Tasks["aaab2222"] = &domain.Task{ID: "aaab2222", Title: "Second"}
	repo.Tasks["bbbb3333"] = &domain.Task{ID: "bbbb3333", Title: "Third"}

	got, err := resolveTask(repo, "aaaa1111")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Title)

	got, err = resolveTask(repo, "bb")
	require.NoError(t, err)
	assert.Equal(t, "Third", got.Title)

	_, err = resolveTask(repo, "aaa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = resolveTask(repo, "zz")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = resolveTask(repo, "")
	assert.Error(t, err)
}

func TestResolveSubtask(t *testing.T) {
	task := &domain.Task{
		ID: "t1",
		Subtasks: []domain.Subtask{
			{ID: "cccc1111", Title: "Gather"},
			{ID: "cccd2222", Title: "Write"},
		},
	}

	got, err := resolveSubtask(task, "cccd")
	require.NoError(t, err)
	assert.Equal(t, "Write", got.Title)

	_, err = resolveSubtask(task, "ccc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	_, err = resolveSubtask(task, "zz")
	assert.ErrorIs(t, err, domain.ErrSubtaskNotFound)
}

func TestConfirm(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"sure\n", false},
	}
	for _, tc := range cases {
		var out strings.Builder
		got := confirm(strings.NewReader(tc.input), &out, "Delete?")
		assert.Equal(t, tc.want, got, "input %q", tc.input)
		assert.Contains(t, out.String(), "[y/N]")
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "12345678", shortID("12345678-abcd"))
	assert.Equal(t, "short", shortID("short"))
}
