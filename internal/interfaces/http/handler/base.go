// Package handler holds the gin handlers of the SiparisBot API.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/interfaces/http/dto"
	"github.com/siparisbot/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getTenantID returns the tenant resolved by the auth middleware.
// Unauthenticated routes never call it.
func getTenantID(c *gin.Context) uuid.UUID {
	id, _ := middleware.GetTenantID(c)
	return id
}

// platformParam parses the :platform path segment
func platformParam(c *gin.Context) (integration.PlatformCode, error) {
	return integration.ParsePlatformCode(c.Param("platform"))
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// ErrorWithCode sends an error response, deriving the status from the code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeBadRequest, message)
}

// BindError sends a 400 for a failed JSON or query binding
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	h.BadRequest(c, middleware.ValidationMessage(err))
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.ErrorWithCode(c, dto.ErrCodeInternal, message)
}

// ProviderError sends a 502 for a failed provider call; the code follows the failure kind
func (h *BaseHandler) ProviderError(c *gin.Context, kind integration.ErrorKind, message string) {
	h.ErrorWithCode(c, dto.CodeForKind(kind), message)
}

// ProviderErr is ProviderError for a raw error
func (h *BaseHandler) ProviderErr(c *gin.Context, err error) {
	h.ProviderError(c, integration.KindOf(err), integration.Message(err))
}
