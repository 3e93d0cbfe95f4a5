package service

import (
	"context"
	"testing"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestCreateTaskRequiresStaffAssignee(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &TaskService{Store: s}

	staff := createUser(t, s, "carol", "long-enough-pw", domain.RoleStaff)
	client := createUser(t, s, "alice", "long-enough-pw", domain.RoleClient)

	task, err := svc.CreateTask(ctx, CreateTaskParams{Title: "Prepare report", AssigneeID: staff.ID})
	require.NoError(t, err)
	require.Equal(t, domain.TaskPending, task.Status)
	require.Equal(t, domain.TaskPriorityMedium, task.Priority)

	_, err = svc.CreateTask(ctx, CreateTaskParams{Title: "Prepare report", AssigneeID: client.ID})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTask(ctx, CreateTaskParams{Title: "  ", AssigneeID: staff.ID})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTask(ctx, CreateTaskParams{Title: "Orphan", AssigneeID: idx.New()})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTaskOwnership(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &TaskService{Store: s}

	carol := createUser(t, s, "carol", "long-enough-pw", domain.RoleStaff)
	dave := createUser(t, s, "dave", "long-enough-pw", domain.RoleStaff)
	admin := createUser(t, s, "admin", "long-enough-pw", domain.RoleAdmin)

	task, err := svc.CreateTask(ctx, CreateTaskParams{Title: "Carol's task", AssigneeID: carol.ID})
	require.NoError(t, err)

	// Assignee and admin can read it.
	_, err = svc.GetTask(ctx, &carol, task.ID)
	require.NoError(t, err)
	_, err = svc.GetTask(ctx, &admin, task.ID)
	require.NoError(t, err)

	// A peer staff member sees a foreign task as missing.
	_, err = svc.GetTask(ctx, &dave, task.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, svc.UpdateStatus(ctx, &dave, task.ID, domain.TaskCompleted), store.ErrNotFound)

	// Ownership never transferred: carol keeps control.
	require.NoError(t, svc.UpdateStatus(ctx, &carol, task.ID, domain.TaskCompleted))

	done, err := svc.GetTask(ctx, &carol, task.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TaskCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
}

func TestUpdateStatusValidatesValue(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &TaskService{Store: s}

	carol := createUser(t, s, "carol", "long-enough-pw", domain.RoleStaff)
	task, err := svc.CreateTask(ctx, CreateTaskParams{Title: "Task", AssigneeID: carol.ID})
	require.NoError(t, err)

	require.ErrorIs(t, svc.UpdateStatus(ctx, &carol, task.ID, domain.TaskStatus("done")), domain.ErrInvalidStatus)

	// Reopening a completed task clears the completion stamp.
	require.NoError(t, svc.UpdateStatus(ctx, &carol, task.ID, domain.TaskCompleted))
	require.NoError(t, svc.UpdateStatus(ctx, &carol, task.ID, domain.TaskInProgress))

	reopened, err := svc.GetTask(ctx, &carol, task.ID)
	require.NoError(t, err)
	require.Nil(t, reopened.CompletedAt)
}

func TestListMineFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := &TaskService{Store: s}

	carol := createUser(t, s, "carol", "long-enough-pw", domain.RoleStaff)
	dave := createUser(t, s, "dave", "long-enough-pw", domain.RoleStaff)

	t1, err := svc.CreateTask(ctx, CreateTaskParams{Title: "One", AssigneeID: carol.ID, Priority: domain.TaskPriorityHigh})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, CreateTaskParams{Title: "Two", AssigneeID: carol.ID})
	require.NoError(t, err)
	_, err = svc.CreateTask(ctx, CreateTaskParams{Title: "Dave's", AssigneeID: dave.ID})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, &carol, t1.ID, domain.TaskInProgress))

	all, err := svc.ListMine(ctx, &carol, "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	inProgress, err := svc.ListMine(ctx, &carol, domain.TaskInProgress, "")
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	require.Equal(t, "One", inProgress[0].Title)

	high, err := svc.ListMine(ctx, &carol, "", domain.TaskPriorityHigh)
	require.NoError(t, err)
	require.Len(t, high, 1)

	_, err = svc.ListMine(ctx, nil, "", "")
	require.ErrorIs(t, err, ErrForbidden)
}
