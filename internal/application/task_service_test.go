package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/taskhive/taskhive/internal/application"
	"github.com/taskhive/taskhive/internal/domain/entity"
	"github.com/taskhive/taskhive/internal/infrastructure/memory"
	"github.com/taskhive/taskhive/pkg/events"
)

// recordingPublisher captures published task events for assertions.
type recordingPublisher struct {
	published []events.TaskEvent
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	ev, ok := body.(events.TaskEvent)
	if !ok {
		return errors.New("unexpected payload type")
	}
	p.published = append(p.published, ev)
	return nil
}

func newTaskService(t *testing.T) (*application.TaskService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc := application.NewTaskService(memory.NewTaskRepository(), pub, nil, "", quietLogger())
	return svc, pub
}

func TestTaskService_CreateDefaultsStatus(t *testing.T) {
	svc, pub := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "T", "", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != entity.StatusTodo {
		t.Fatalf("expected default status %q, got %q", entity.StatusTodo, task.Status)
	}
	if task.OwnerID != 1 {
		t.Fatalf("expected owner 1, got %d", task.OwnerID)
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.published))
	}
	ev := pub.published[0]
	if ev.Action != events.TaskCreated || ev.ID != task.ID || ev.OwnerID != 1 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.EventID == "" {
		t.Fatal("expected event id to be set")
	}
}

func TestTaskService_RejectsUnknownStatus(t *testing.T) {
	svc, pub := newTaskService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, 1, "T", "", "Later"); !errors.Is(err, application.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("expected no events for a rejected create, got %d", len(pub.published))
	}

	task, err := svc.Create(ctx, 1, "T", "", entity.StatusTodo)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	bogus := entity.TaskStatus("Later")
	if _, err := svc.Update(ctx, 1, task.ID, entity.TaskPatch{Status: &bogus}); !errors.Is(err, application.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	got, err := svc.Get(ctx, 1, task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != entity.StatusTodo {
		t.Fatalf("rejected update must not change status, got %q", got.Status)
	}
}

func TestTaskService_OwnerIsolation(t *testing.T) {
	svc, _ := newTaskService(t)
	ctx := context.Background()

	mine, err := svc.Create(ctx, 1, "mine", "", entity.StatusTodo)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	theirs, err := svc.Create(ctx, 2, "theirs", "", entity.StatusTodo)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tasks, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != mine.ID {
		t.Fatalf("expected only owner 1 tasks, got %+v", tasks)
	}

	if _, err := svc.Get(ctx, 1, theirs.ID); !errors.Is(err, application.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for cross-owner get, got %v", err)
	}
	if err := svc.Delete(ctx, 1, theirs.ID); !errors.Is(err, application.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for cross-owner delete, got %v", err)
	}
}

func TestTaskService_UpdateAndDeleteEvents(t *testing.T) {
	svc, pub := newTaskService(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, 1, "T", "", entity.StatusTodo)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := entity.StatusDone
	if _, err := svc.Update(ctx, 1, task.ID, entity.TaskPatch{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := svc.Delete(ctx, 1, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(pub.published) != 3 {
		t.Fatalf("expected 3 events, got %d", len(pub.published))
	}
	if pub.published[1].Action != events.TaskUpdated || pub.published[1].Status != string(entity.StatusDone) {
		t.Fatalf("unexpected update event: %+v", pub.published[1])
	}
	if pub.published[2].Action != events.TaskDeleted || pub.published[2].ID != task.ID {
		t.Fatalf("unexpected delete event: %+v", pub.published[2])
	}
}

func TestTaskService_UpdateMissingTask(t *testing.T) {
	svc, pub := newTaskService(t)

	title := "x"
	if _, err := svc.Update(context.Background(), 1, 42, entity.TaskPatch{Title: &title}); !errors.Is(err, application.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("expected no events for a failed update, got %d", len(pub.published))
	}
}

func TestTaskService_SearchWithoutIndex(t *testing.T) {
	svc, _ := newTaskService(t)

	hits, err := svc.Search(context.Background(), 1, "anything", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected no hits without an index, got %d", len(hits))
	}
}
