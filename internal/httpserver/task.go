package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mbelyaev/taskboard/internal/logging"
	"github.com/mbelyaev/taskboard/internal/service"
	"github.com/mbelyaev/taskboard/internal/service/search"
	"github.com/mbelyaev/taskboard/internal/transport"
	"github.com/mbelyaev/taskboard/internal/util"
)

type TaskHTTP struct {
	Svc    *service.TaskService
	Search *search.ESIndex
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func (h *TaskHTTP) GetTask(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	task, err := h.Svc.GetTask(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to retrieve task")
	}

	return respond(c, http.StatusOK, "Task retrieved successfully", task)
}

func (h *TaskHTTP) GetTasks(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, limit := util.Calculate(page, size)

	total, tasks, err := h.Svc.GetTasks(c.Request().Context(), from, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to retrieve tasks")
	}

	return respond(c, http.StatusOK, "Tasks retrieved successfully", echo.Map{
		"total": total,
		"tasks": tasks,
	})
}

func (h *TaskHTTP) CreateTask(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task_create")

	var req transport.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	task, err := h.Svc.CreateTask(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "title is required")
		}
		l.Error("task_create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create task")
	}

	return respond(c, http.StatusCreated, "Task created successfully", task)
}

func (h *TaskHTTP) PatchTask(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task_patch")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.PatchTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	task, err := h.Svc.PatchTask(ctx, req, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		l.Error("task_patch_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update task")
	}

	return respond(c, http.StatusOK, "Task updated successfully", task)
}

func (h *TaskHTTP) DeleteTask(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task_delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteTask(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		l.Error("task_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete task")
	}

	return respond(c, http.StatusOK, "Task removed successfully", nil)
}

func (h *TaskHTTP) SearchTasks(c echo.Context) error {
	if h.Search == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, limit := util.Calculate(page, size)

	total, tasks, err := h.Search.Search(c.Request().Context(), q, from, limit)
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("task_search_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return respond(c, http.StatusOK, "Tasks retrieved successfully", echo.Map{
		"total": total,
		"tasks": tasks,
	})
}
