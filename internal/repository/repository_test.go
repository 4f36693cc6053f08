package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/models"
)

func titles(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

// runRepositoryContract exercises the behavior every store backend must share.
func runRepositoryContract(t *testing.T, users UserRepository, tasks TaskRepository) {
	ctx := context.Background()

	alice := &models.User{Username: "alice", Password: "hash-a"}
	require.NoError(t, users.Create(ctx, alice))
	require.NotEmpty(t, alice.ID)
	bob := &models.User{Username: "bob", Password: "hash-b"}
	require.NoError(t, users.Create(ctx, bob))

	t.Run("users", func(t *testing.T) {
		err := users.Create(ctx, &models.User{Username: "alice", Password: "other"})
		assert.ErrorIs(t, err, ErrDuplicate)

		found, err := users.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)
		assert.Equal(t, "hash-a", found.Password)

		_, err = users.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	seed := []models.Task{
		{Title: "Task123", Status: models.StatusInProgress, Priority: models.PriorityLow, DueDate: &due},
		{Title: "Buy milk", Status: models.StatusPending, Priority: models.PriorityHigh},
		{Title: "TASK backlog", Status: models.StatusPending, Priority: models.PriorityLow},
	}
	for i := range seed {
		seed[i].UserID = alice.ID
		require.NoError(t, tasks.Create(ctx, &seed[i]))
		require.NotEmpty(t, seed[i].ID)
		time.Sleep(2 * time.Millisecond)
	}
	bobTask := models.Task{Title: "bob's task", Status: models.StatusPending, Priority: models.PriorityLow, UserID: bob.ID}
	require.NoError(t, tasks.Create(ctx, &bobTask))

	t.Run("list pages", func(t *testing.T) {
		first, err := tasks.List(ctx, alice.ID, 0, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Task123", "Buy milk"}, titles(first))

		second, err := tasks.List(ctx, alice.ID, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"TASK backlog"}, titles(second))

		beyond, err := tasks.List(ctx, alice.ID, 10, 2)
		require.NoError(t, err)
		assert.Empty(t, beyond)

		rest, err := tasks.List(ctx, alice.ID, 1, math.MaxInt)
		require.NoError(t, err)
		assert.Equal(t, []string{"Buy milk", "TASK backlog"}, titles(rest))
	})

	t.Run("find is owner scoped", func(t *testing.T) {
		got, err := tasks.FindByID(ctx, seed[0].ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Task123", got.Title)
		require.NotNil(t, got.DueDate)
		assert.True(t, due.Equal(*got.DueDate))

		_, err = tasks.FindByID(ctx, seed[0].ID, bob.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = tasks.FindByID(ctx, "not-an-id", alice.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("search", func(t *testing.T) {
		found, err := tasks.SearchByTitle(ctx, alice.ID, "task")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Task123", "TASK backlog"}, titles(found))

		literal, err := tasks.SearchByTitle(ctx, alice.ID, "Task.*")
		require.NoError(t, err)
		assert.Empty(t, literal)
	})

	t.Run("filter", func(t *testing.T) {
		byStatus, err := tasks.Filter(ctx, alice.ID, models.TaskFilter{Status: models.StatusPending})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Buy milk", "TASK backlog"}, titles(byStatus))

		byPriority, err := tasks.Filter(ctx, alice.ID, models.TaskFilter{Priority: models.PriorityLow})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Task123", "TASK backlog"}, titles(byPriority))

		both, err := tasks.Filter(ctx, alice.ID, models.TaskFilter{Status: models.StatusPending, Priority: models.PriorityLow})
		require.NoError(t, err)
		assert.Equal(t, []string{"TASK backlog"}, titles(both))
	})

	t.Run("update", func(t *testing.T) {
		title := "Task123 renamed"
		completed := models.StatusCompleted

		_, err := tasks.Update(ctx, seed[0].ID, bob.ID, models.TaskPatch{Title: &title})
		assert.ErrorIs(t, err, ErrNotFound)

		updated, err := tasks.Update(ctx, seed[0].ID, alice.ID, models.TaskPatch{Title: &title, Status: &completed})
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
		assert.Equal(t, models.StatusCompleted, updated.Status)
		assert.Equal(t, models.PriorityLow, updated.Priority)
		assert.Equal(t, alice.ID, updated.UserID)

		noop, err := tasks.Update(ctx, seed[1].ID, alice.ID, models.TaskPatch{})
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", noop.Title)
	})

	t.Run("delete", func(t *testing.T) {
		assert.ErrorIs(t, tasks.Delete(ctx, seed[2].ID, bob.ID), ErrNotFound)
		require.NoError(t, tasks.Delete(ctx, seed[2].ID, alice.ID))
		assert.ErrorIs(t, tasks.Delete(ctx, seed[2].ID, alice.ID), ErrNotFound)

		_, err := tasks.FindByID(ctx, bobTask.ID, bob.ID)
		assert.NoError(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	runRepositoryContract(t, store.Users(), store.Tasks())
}
