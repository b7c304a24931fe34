package handler

import (
	"errors"
	"net/http"

	"taskapi/internal/logger"
	"taskapi/internal/query"
	"taskapi/internal/service"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every reply.
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respond(c *gin.Context, status int, message string, data any) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Response{Message: message, Data: data})
}

// respondError maps service errors to status codes. Anything unexpected is a
// store failure: it is logged and answered without detail.
func respondError(c *gin.Context, err error) {
	var (
		verr *service.ValidationError
		nf   *service.NotFoundError
		perr *query.ParamError
	)
	switch {
	case errors.As(err, &verr):
		respond(c, http.StatusBadRequest, verr.Message, nil)
	case errors.As(err, &perr):
		respond(c, http.StatusBadRequest, perr.Error(), nil)
	case errors.As(err, &nf):
		respond(c, http.StatusNotFound, nf.Error(), nil)
	default:
		logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		respond(c, http.StatusInternalServerError, "Server error", nil)
	}
}

// Recover answers a panicking request with the 500 envelope. It is meant for
// gin.CustomRecovery.
func Recover(c *gin.Context, rec any) {
	logger.ErrorContext(c.Request.Context(), "request panicked",
		"method", c.Request.Method,
		"path", c.FullPath(),
		"panic", rec,
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, Response{Message: "Server error", Data: gin.H{}})
}

// translateList parses the list parameters. On failure the 400 has already been
// written and the caller must stop.
func translateList(c *gin.Context, schema *query.Schema, opts query.Options) (query.Spec, bool) {
	spec, err := query.Translate(c.Request.URL.Query(), schema, opts)
	if err != nil {
		respondError(c, err)
		return query.Spec{}, false
	}
	return spec, true
}

// translateProjection is translateList for single-document reads.
func translateProjection(c *gin.Context, schema *query.Schema) (query.Projection, bool) {
	proj, err := query.TranslateProjection(c.Request.URL.Query(), schema)
	if err != nil {
		respondError(c, err)
		return query.Projection{}, false
	}
	return proj, true
}

func respondPage[T any](c *gin.Context, page service.Page[T], proj query.Projection) {
	if page.CountOnly {
		respond(c, http.StatusOK, "OK", page.Count)
		return
	}
	if proj.IsZero() {
		items := page.Items
		if items == nil {
			items = []T{}
		}
		respond(c, http.StatusOK, "OK", items)
		return
	}

	out := make([]map[string]any, 0, len(page.Items))
	for i := range page.Items {
		doc, err := proj.Apply(page.Items[i])
		if err != nil {
			respondError(c, err)
			return
		}
		out = append(out, doc)
	}
	respond(c, http.StatusOK, "OK", out)
}

func respondDocument(c *gin.Context, status int, message string, doc any, proj query.Projection) {
	if proj.IsZero() {
		respond(c, status, message, doc)
		return
	}
	out, err := proj.Apply(doc)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, status, message, out)
}

func bindBody(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respond(c, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	return true
}
