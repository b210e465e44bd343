package usecase

import (
	"context"
	"sync"
	"testing"

	"freelance-booking/internal/data/entity"
	"freelance-booking/internal/dto/request"
	"freelance-booking/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_UpdateProject_WritesTimeline(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, projectID, userID := submitTestBooking(t, env)

	resp, err := env.svc.Project.UpdateProject(ctx, projectID, &request.UpdateProjectRequest{
		Status:   ptr("in-progress"),
		Progress: ptr(25),
		Note:     ptr("Wireframes approved"),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStatusInProgress, resp.Status)
	assert.Equal(t, 25, resp.Progress)

	updates := env.store.projectUpdates(projectID)
	require.Len(t, updates, 1)
	assert.Equal(t, "Status changed to in-progress", updates[0].Title)
	assert.Equal(t, "Wireframes approved", updates[0].Description)
	assert.True(t, updates[0].VisibleToClient)

	var updated int
	for _, n := range env.store.notificationsFor(userID) {
		if n.Type == entity.NotifProjectUpdated {
			updated++
		}
	}
	assert.Equal(t, 1, updated)
	assert.Contains(t, env.publisher.types(), events.TypeProjectUpdated)
}

func TestProjectService_UpdateProject_InternalNoteStaysHidden(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, projectID, userID := submitTestBooking(t, env)

	_, err := env.svc.Project.UpdateProject(ctx, projectID, &request.UpdateProjectRequest{
		Progress: ptr(10),
		Internal: true,
	})
	require.NoError(t, err)

	updates := env.store.projectUpdates(projectID)
	require.Len(t, updates, 1)
	assert.False(t, updates[0].VisibleToClient)
	assert.Equal(t, "Progress updated", updates[0].Title)

	for _, n := range env.store.notificationsFor(userID) {
		assert.NotEqual(t, entity.NotifProjectUpdated, n.Type)
	}
	assert.NotContains(t, env.publisher.types(), events.TypeProjectUpdated)

	visible, err := env.svc.Dashboard.ClientProjectUpdates(ctx, userID, projectID)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := env.svc.Project.ListUpdates(ctx, projectID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestProjectService_UpdateProject_RejectsIllegalTransition(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, projectID, _ := submitTestBooking(t, env)

	_, err := env.svc.Project.UpdateProject(ctx, projectID, &request.UpdateProjectRequest{Status: ptr("completed")})
	require.NoError(t, err)

	_, err = env.svc.Project.UpdateProject(ctx, projectID, &request.UpdateProjectRequest{Status: ptr("planning")})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.svc.Project.UpdateProject(ctx, projectID, &request.UpdateProjectRequest{Progress: ptr(140)})
	assert.ErrorIs(t, err, ErrValidation)

	got, err := env.svc.Project.GetProject(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStatusCompleted, got.Status)
}

func TestProjectService_UpdateProject_ConcurrentEditsSeeLatestStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, projectID, _ := submitTestBooking(t, env)

	// planning -> planning is a no-op, completed -> planning is illegal;
	// whichever order wins, completed must not be overwritten
	var wg sync.WaitGroup
	for _, status := range []string{"completed", "planning"} {
		wg.Add(1)
		go func(status string) {
			defer wg.Done()
			_, _ = env.svc.Project.UpdateProject(ctx, projectID, &request.UpdateProjectRequest{Status: ptr(status)})
		}(status)
	}
	wg.Wait()

	got, err := env.svc.Project.GetProject(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStatusCompleted, got.Status)
	assert.Equal(t, 2, env.store.lockedProjectReads)
}

func TestProjectService_UpdateProject_FieldsOnlyNoTimeline(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, projectID, _ := submitTestBooking(t, env)

	resp, err := env.svc.Project.UpdateProject(ctx, projectID, &request.UpdateProjectRequest{
		AssignedTo: ptr("Sam"),
		Priority:   ptr("high"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Sam", resp.AssignedTo)
	assert.Equal(t, entity.PriorityHigh, resp.Priority)
	assert.Empty(t, env.store.projectUpdates(projectID))
}

func TestProjectService_CreateAndList(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	created, err := env.svc.Project.CreateProject(ctx, &request.CreateProjectRequest{
		Name:        "Brand refresh",
		ClientEmail: "Client@Y.com",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectStatusPlanning, created.Status)
	assert.Equal(t, entity.PriorityMedium, created.Priority)
	assert.Equal(t, "client@y.com", created.ClientEmail)

	_, err = env.svc.Project.CreateProject(ctx, &request.CreateProjectRequest{
		Name: "Other", ClientEmail: "client@y.com", Status: "testing",
	})
	require.NoError(t, err)

	all, err := env.svc.Project.ListProjects(ctx, "", &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Pagination.Total)

	filtered, err := env.svc.Project.ListProjects(ctx, "testing", &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, filtered.Data, 1)
	assert.Equal(t, "Other", filtered.Data[0].Name)

	_, err = env.svc.Project.ListProjects(ctx, "shipped", &request.PaginatedRequest{Page: 1, PerPage: 10})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProjectService_CreateProject_DuplicateBooking(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	bookingID, _, _ := submitTestBooking(t, env)

	_, err := env.svc.Project.CreateProject(ctx, &request.CreateProjectRequest{
		Name: "Again", ClientEmail: "jane@x.com", BookingID: ptr(bookingID.String()),
	})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestProjectService_DeleteProject(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, projectID, _ := submitTestBooking(t, env)

	require.NoError(t, env.svc.Project.DeleteProject(ctx, projectID))

	_, err := env.svc.Project.GetProject(ctx, projectID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.svc.Project.DeleteProject(ctx, projectID), ErrNotFound)
}

func TestProjectService_SendMessage(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	_, projectID, userID := submitTestBooking(t, env)

	msg, err := env.svc.Project.SendMessage(ctx, projectID, &request.SendMessageRequest{Body: "Kickoff call on Monday?"})

	require.NoError(t, err)
	assert.Equal(t, entity.SenderAdmin, msg.Sender)
	assert.Equal(t, "web-app - Jane Doe", msg.Subject)

	messages, err := env.svc.Inbox.ListMessages(ctx, userID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.False(t, messages[0].IsRead)
	assert.Contains(t, env.publisher.types(), events.TypeMessageSent)

	_, err = env.svc.Project.SendMessage(ctx, uuid.New(), &request.SendMessageRequest{Body: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)
}
