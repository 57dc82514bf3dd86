package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mbelyaev/taskboard/internal/logging"
	"github.com/mbelyaev/taskboard/internal/service"
	"github.com/mbelyaev/taskboard/internal/transport"
	"github.com/mbelyaev/taskboard/internal/util"
)

type TaskTableHTTP struct {
	Svc *service.TaskTableService
}

func (h *TaskTableHTTP) GetTaskTable(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	table, err := h.Svc.GetTaskTable(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task table not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to retrieve task table")
	}

	return respond(c, http.StatusOK, "TaskTable retrieved successfully", table)
}

func (h *TaskTableHTTP) GetTaskTables(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, limit := util.Calculate(page, size)

	total, tables, err := h.Svc.GetTaskTables(c.Request().Context(), from, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to retrieve task tables")
	}

	return respond(c, http.StatusOK, "TaskTables retrieved successfully", echo.Map{
		"total":       total,
		"task_tables": tables,
	})
}

func (h *TaskTableHTTP) CreateTaskTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasktable_create")

	var req transport.TaskTableRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	table, err := h.Svc.CreateTaskTable(ctx, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "name is required")
		}
		l.Error("tasktable_create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create task table")
	}

	return respond(c, http.StatusCreated, "TaskTable created successfully", table)
}

func (h *TaskTableHTTP) PatchTaskTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasktable_patch")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req transport.TaskTableRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	table, err := h.Svc.RenameTaskTable(ctx, id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, "name is required")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "task table not found")
		default:
			l.Error("tasktable_patch_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update task table")
		}
	}

	return respond(c, http.StatusOK, "TaskTable updated successfully", table)
}

func (h *TaskTableHTTP) DeleteTaskTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasktable_delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteTaskTable(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task table not found")
		}
		l.Error("tasktable_delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete task table")
	}

	return respond(c, http.StatusOK, "TaskTable removed successfully", nil)
}
