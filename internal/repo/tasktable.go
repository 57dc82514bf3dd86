package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mbelyaev/taskboard/internal/models"
)

func (r *GormRepo) GetTaskTable(ctx context.Context, id uint) (*models.TaskTable, error) {
	var table models.TaskTable
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *GormRepo) GetTaskTables(ctx context.Context, offset, limit int) (int64, []models.TaskTable, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.TaskTable{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.TaskTable
	if err := r.DB.WithContext(ctx).Model(&models.TaskTable{}).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreateTaskTable(ctx context.Context, table *models.TaskTable) error {
	return r.DB.WithContext(ctx).Create(table).Error
}

func (r *GormRepo) RenameTaskTable(ctx context.Context, id uint, name string) (*models.TaskTable, error) {
	var table models.TaskTable
	if err := r.DB.WithContext(ctx).First(&table, id).Error; err != nil {
		return nil, err
	}
	table.Name = name
	if err := r.DB.WithContext(ctx).Save(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *GormRepo) DeleteTaskTable(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.TaskTable{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
