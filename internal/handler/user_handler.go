package handler

import (
	"context"
	"net/http"

	"taskapi/internal/model"
	"taskapi/internal/query"
	"taskapi/internal/service"

	"github.com/gin-gonic/gin"
)

type UserService interface {
	List(ctx context.Context, spec query.Spec) (service.Page[model.User], error)
	Get(ctx context.Context, id string, proj query.Projection) (*model.User, error)
	Create(ctx context.Context, in service.UserInput) (*model.User, error)
	Update(ctx context.Context, id string, in service.UserInput) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

var _ UserService = (*service.UserService)(nil)

type UserHandler struct {
	service UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary  List users
// @Tags     Users
// @Produce  json
// @Param    where   query string false "JSON filter"
// @Param    sort    query string false "JSON sort"
// @Param    select  query string false "JSON projection"
// @Param    skip    query int    false "Documents to skip"
// @Param    limit   query int    false "Maximum documents"
// @Param    count   query bool   false "Return only the count"
// @Success  200 {object} Response
// @Failure  400 {object} Response
// @Router   /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	spec, ok := translateList(c, model.UserSchema, query.Options{})
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
// @Summary  Get a user
// @Tags     Users
// @Produce  json
// @Param    id      path  string true  "User ID"
// @Param    select  query string false "JSON projection"
// @Success  200 {object} Response
// @Failure  404 {object} Response
// @Router   /api/users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	proj, ok := translateProjection(c, model.UserSchema)
	if !ok {
		return
	}

	user, err := h.service.Get(c.Request.Context(), c.Param("id"), proj)
	if err != nil {
		respondError(c, err)
		return
	}
	respondDocument(c, http.StatusOK, "OK", user, proj)
}

// Create godoc
// @Summary  Create a user
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    user body     service.UserInput true "User"
// @Success  201  {object} Response
// @Failure  400  {object} Response
// @Router   /api/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var in service.UserInput
	if !bindBody(c, &in) {
		return
	}

	user, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "User created", user)
}

// Update godoc
// @Summary  Replace a user
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    id   path     string            true "User ID"
// @Param    user body     service.UserInput true "User"
// @Success  200  {object} Response
// @Failure  400  {object} Response
// @Failure  404  {object} Response
// @Router   /api/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var in service.UserInput
	if !bindBody(c, &in) {
		return
	}

	user, err := h.service.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User updated", user)
}

// Delete godoc
// @Summary  Delete a user
// @Tags     Users
// @Produce  json
// @Param    id  path     string true "User ID"
// @Success  200 {object} Response
// @Failure  404 {object} Response
// @Router   /api/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User deleted", nil)
}
