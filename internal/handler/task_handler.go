package handler

import (
	"context"
	"net/http"

	"taskapi/internal/model"
	"taskapi/internal/query"
	"taskapi/internal/service"

	"github.com/gin-gonic/gin"
)

type TaskService interface {
	List(ctx context.Context, spec query.Spec) (service.Page[model.Task], error)
	Get(ctx context.Context, id string, proj query.Projection) (*model.Task, error)
	Create(ctx context.Context, in service.TaskInput) (*model.Task, error)
	Update(ctx context.Context, id string, in service.TaskInput) (*model.Task, error)
	Delete(ctx context.Context, id string) error
}

var _ TaskService = (*service.TaskService)(nil)

type TaskHandler struct {
	service      TaskService
	defaultLimit int
}

// NewTaskHandler builds the /tasks handlers. defaultLimit caps lists that carry
// no limit parameter; 0 leaves them unlimited.
func NewTaskHandler(svc TaskService, defaultLimit int) *TaskHandler {
	return &TaskHandler{service: svc, defaultLimit: defaultLimit}
}

// List godoc
// @Summary  List tasks
// @Tags     Tasks
// @Produce  json
// @Param    where   query string false "JSON filter"
// @Param    sort    query string false "JSON sort"
// @Param    select  query string false "JSON projection"
// @Param    skip    query int    false "Documents to skip"
// @Param    limit   query int    false "Maximum documents (default 100)"
// @Param    count   query bool   false "Return only the count"
// @Success  200 {object} Response
// @Failure  400 {object} Response
// @Router   /api/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	spec, ok := translateList(c, model.TaskSchema, query.Options{DefaultLimit: h.defaultLimit})
	if !ok {
		return
	}

	page, err := h.service.List(c.Request.Context(), spec)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, page, spec.Projection)
}

// GetByID godoc
// @Summary  Get a task
// @Tags     Tasks
// @Produce  json
// @Param    id      path  string true  "Task ID"
// @Param    select  query string false "JSON projection"
// @Success  200 {object} Response
// @Failure  404 {object} Response
// @Router   /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	proj, ok := translateProjection(c, model.TaskSchema)
	if !ok {
		return
	}

	task, err := h.service.Get(c.Request.Context(), c.Param("id"), proj)
	if err != nil {
		respondError(c, err)
		return
	}
	respondDocument(c, http.StatusOK, "OK", task, proj)
}

// Create godoc
// @Summary  Create a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    task body     service.TaskInput true "Task"
// @Success  201  {object} Response
// @Failure  400  {object} Response
// @Router   /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var in service.TaskInput
	if !bindBody(c, &in) {
		return
	}

	task, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Task created", task)
}

// Update godoc
// @Summary  Replace a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    id   path     string            true "Task ID"
// @Param    task body     service.TaskInput true "Task"
// @Success  200  {object} Response
// @Failure  400  {object} Response
// @Failure  404  {object} Response
// @Router   /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	var in service.TaskInput
	if !bindBody(c, &in) {
		return
	}

	task, err := h.service.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Task updated", task)
}

// Delete godoc
// @Summary  Delete a task
// @Tags     Tasks
// @Produce  json
// @Param    id  path     string true "Task ID"
// @Success  200 {object} Response
// @Failure  404 {object} Response
// @Router   /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Task deleted", nil)
}
