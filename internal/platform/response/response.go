package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outingly/service-planner/internal/platform/errs"
)

// Envelope is the standard JSON body for successful responses.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorBody is the standard JSON body for failed responses.
type ErrorBody struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// NoContent writes a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Success: false, Error: msg})
}

// PaginatedEnvelope is the JSON body for paginated list responses.
type PaginatedEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}

// Paginated writes a 200 response with pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, PaginatedEnvelope{
		Success: true,
		Data:    items,
		Total:   total,
		Page:    page,
		Limit:   limit,
	})
}

// Error maps an application error to its HTTP status and writes the response.
func Error(c *gin.Context, err error) {
	kind, ok := errs.KindOf(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorBody{Success: false, Error: "internal server error"})
		return
	}

	switch kind {
	case errs.KindValidation:
		c.JSON(http.StatusBadRequest, ErrorBody{Success: false, Error: err.Error()})
	case errs.KindNotFound:
		c.JSON(http.StatusNotFound, ErrorBody{Success: false, Error: err.Error()})
	case errs.KindConflict:
		c.JSON(http.StatusConflict, ErrorBody{Success: false, Error: err.Error()})
	case errs.KindForbidden:
		c.JSON(http.StatusForbidden, ErrorBody{Success: false, Error: err.Error()})
	case errs.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, ErrorBody{Success: false, Error: err.Error()})
	case errs.KindNoCandidates:
		var nc *errs.NoCandidatesError
		var details interface{}
		if errors.As(err, &nc) {
			details = gin.H{"empty_categories": nc.Categories}
		}
		c.JSON(http.StatusUnprocessableEntity, ErrorBody{Success: false, Error: err.Error(), Details: details})
	default:
		c.JSON(http.StatusInternalServerError, ErrorBody{Success: false, Error: "internal server error"})
	}
}
