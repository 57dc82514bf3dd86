package service

import (
	"context"

	"github.com/mbelyaev/taskboard/internal/models"
	"github.com/mbelyaev/taskboard/internal/repo"
)

type TaskTableService struct {
	Repo *repo.GormRepo
}

func (s *TaskTableService) GetTaskTable(ctx context.Context, id uint) (*models.TaskTable, error) {
	return s.Repo.GetTaskTable(ctx, id)
}

func (s *TaskTableService) GetTaskTables(ctx context.Context, offset, limit int) (int64, []models.TaskTable, error) {
	return s.Repo.GetTaskTables(ctx, offset, limit)
}

func (s *TaskTableService) CreateTaskTable(ctx context.Context, name string) (*models.TaskTable, error) {
	if name == "" {
		return nil, ErrValidation
	}

	table := models.TaskTable{Name: name}
	if err := s.Repo.CreateTaskTable(ctx, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

func (s *TaskTableService) RenameTaskTable(ctx context.Context, id uint, name string) (*models.TaskTable, error) {
	if name == "" {
		return nil, ErrValidation
	}
	return s.Repo.RenameTaskTable(ctx, id, name)
}

func (s *TaskTableService) DeleteTaskTable(ctx context.Context, id uint) error {
	return s.Repo.DeleteTaskTable(ctx, id)
}
