package transport

import "time"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	IsAdmin      bool
}

type RefreshResult struct {
	AccessToken string
	AccessExp   time.Time
}

type AssignRoleRequest struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

type ChangePasswordRequest struct {
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type CreateTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	StartingDate   *time.Time `json:"starting_date"`
	CompletionDate *time.Time `json:"completion_date"`
	TaskTableID    uint       `json:"task_table_id"`
}

type PatchTaskRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	StartingDate   *time.Time `json:"starting_date"`
	CompletionDate *time.Time `json:"completion_date"`
	TaskTableID    *uint      `json:"task_table_id"`
}

type TaskTableRequest struct {
	Name string `json:"name"`
}
