package service

import (
	"context"
	"strconv"
	"time"

	"github.com/mbelyaev/taskboard/internal/logging"
	"github.com/mbelyaev/taskboard/internal/models"
	"github.com/mbelyaev/taskboard/internal/repo"
	"github.com/mbelyaev/taskboard/internal/service/search"
	"github.com/mbelyaev/taskboard/internal/transport"
)

type TaskService struct {
	Repo     *repo.GormRepo
	Producer EventPublisher
	Indexer  search.TaskIndexer
}

func (s *TaskService) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	return s.Repo.GetTask(ctx, id)
}

func (s *TaskService) GetTasks(ctx context.Context, offset, limit int) (int64, []models.Task, error) {
	return s.Repo.GetTasks(ctx, offset, limit)
}

func (s *TaskService) CreateTask(ctx context.Context, req transport.CreateTaskRequest) (*models.Task, error) {
	if req.Title == "" {
		return nil, ErrValidation
	}

	task := models.Task{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		StartingDate:   req.StartingDate,
		CompletionDate: req.CompletionDate,
		TaskTableID:    req.TaskTableID,
	}
	if task.Status == "" {
		task.Status = "todo"
	}

	if err := s.Repo.CreateTask(ctx, &task); err != nil {
		return nil, err
	}

	s.index(ctx, &task)
	s.publish(ctx, "task_created", task.ID)

	return &task, nil
}

func (s *TaskService) PatchTask(ctx context.Context, req transport.PatchTaskRequest, id uint) (*models.Task, error) {
	task, err := s.Repo.PatchTask(ctx, req, id)
	if err != nil {
		return nil, err
	}

	s.index(ctx, task)
	s.publish(ctx, "task_updated", task.ID)

	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteTask(ctx, id); err != nil {
		return err
	}

	if s.Indexer != nil {
		if err := s.Indexer.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Error("search_delete_error", "task_id", id, "error", err)
		}
	}
	s.publish(ctx, "task_deleted", id)

	return nil
}

func (s *TaskService) index(ctx context.Context, task *models.Task) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, task); err != nil {
		logging.FromContext(ctx).Error("search_index_error", "task_id", task.ID, "error", err)
	}
}

func (s *TaskService) publish(ctx context.Context, eventType string, id uint) {
	if s.Producer == nil {
		return
	}

	event := map[string]interface{}{
		"type":    eventType,
		"task_id": id,
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Producer.PublishEvent(pubCtx, TaskEventsTopic, strconv.FormatUint(uint64(id), 10), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "type", eventType, "error", err)
	}
}
