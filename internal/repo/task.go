package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mbelyaev/taskboard/internal/models"
	"github.com/mbelyaev/taskboard/internal/transport"
)

func (r *GormRepo) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *GormRepo) GetTasks(ctx context.Context, offset, limit int) (int64, []models.Task, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Task{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Task
	if err := r.DB.WithContext(ctx).Model(&models.Task{}).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreateTask(ctx context.Context, task *models.Task) error {
	return r.DB.WithContext(ctx).Create(task).Error
}

func (r *GormRepo) PatchTask(ctx context.Context, req transport.PatchTaskRequest, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.DB.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.StartingDate != nil {
		task.StartingDate = req.StartingDate
	}
	if req.CompletionDate != nil {
		task.CompletionDate = req.CompletionDate
	}
	if req.TaskTableID != nil {
		task.TaskTableID = *req.TaskTableID
	}

	if err := r.DB.WithContext(ctx).Save(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *GormRepo) DeleteTask(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Task{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
