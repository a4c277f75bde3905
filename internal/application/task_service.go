package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/taskhive/taskhive/internal/domain/entity"
	repo "github.com/taskhive/taskhive/internal/domain/repository"
	"github.com/taskhive/taskhive/pkg/events"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidStatus = errors.New("invalid task status")
)

// EventPublisher is satisfied by helpers.RabbitPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// TaskService exposes owner-scoped task operations. The owner id comes from
// the auth gateway and is threaded through every repository call; there is
// no unscoped path to a task.
type TaskService struct {
	Tasks   repo.TaskRepository
	Pub     EventPublisher // optional; task mutations emit events when set
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewTaskService(tasks repo.TaskRepository, pub EventPublisher, es *elasticsearch.Client, esIndex string, logger *logrus.Logger) *TaskService {
	return &TaskService{Tasks: tasks, Pub: pub, ES: es, ESIndex: esIndex, Logger: logger}
}

func (s *TaskService) List(ctx context.Context, ownerID int64) ([]entity.Task, error) {
	return s.Tasks.List(ctx, ownerID)
}

func (s *TaskService) Get(ctx context.Context, ownerID, taskID int64) (*entity.Task, error) {
	t, err := s.Tasks.Get(ctx, ownerID, taskID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, ownerID int64, title, description string, status entity.TaskStatus) (*entity.Task, error) {
	if status == "" {
		status = entity.StatusTodo
	}
	// the binding layer enforces the enum for HTTP callers; this guards
	// everything else (seeders, future transports)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	t := &entity.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      status,
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.publish(ctx, events.TaskCreated, t)
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, ownerID, taskID int64, patch entity.TaskPatch) (*entity.Task, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	t, err := s.Tasks.Update(ctx, ownerID, taskID, patch)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	s.publish(ctx, events.TaskUpdated, t)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, taskID int64) error {
	if err := s.Tasks.Delete(ctx, ownerID, taskID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	s.publish(ctx, events.TaskDeleted, &entity.Task{ID: taskID, OwnerID: ownerID})
	return nil
}

// publish emits a task change event. The API never blocks or fails on the
// search pipeline; publish errors are logged and dropped.
func (s *TaskService) publish(ctx context.Context, action string, t *entity.Task) {
	if s.Pub == nil {
		return
	}
	ev := events.TaskEvent{
		EventID:     uuid.NewString(),
		Action:      action,
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.Pub.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"action": action, "task_id": t.ID}).Warn("publish task event failed")
	}
}

// Search performs a multi_match query on title and description against the
// task index, always filtered by owner. Returns an empty slice when the
// index is not configured; the write side lives in the indexer worker.
func (s *TaskService) Search(ctx context.Context, ownerID int64, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "description"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"owner_id": ownerID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
