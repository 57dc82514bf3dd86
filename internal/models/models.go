package models

import "time"

type User struct {
	ID                   uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                 string     `gorm:"not null"                 json:"name"`
	Email                string     `gorm:"unique;not null"          json:"email"`
	PasswordHash         string     `gorm:"not null"                 json:"-"`
	Role                 string     `gorm:"not null;default:user"    json:"role"`
	ResetPasswordToken   *string    `gorm:"index"                    json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	RefreshToken         *string    `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type TaskTable struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Task struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string     `gorm:"not null"                 json:"title"`
	Description    string     `json:"description"`
	Status         string     `gorm:"not null;default:todo"    json:"status"`
	Priority       string     `json:"priority"`
	StartingDate   *time.Time `json:"starting_date"`
	CompletionDate *time.Time `json:"completion_date"`
	TaskTableID    uint       `gorm:"index"                    json:"task_table_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
