package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/llm-aggregator/internal/logging"
)

// ErrorResponse is the error body of the /api routes.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GenerateResponse is the body of a successful generation.
type GenerateResponse struct {
	Response string `json:"response"`
}

// ProvidersResponse lists the configured providers.
type ProvidersResponse struct {
	Providers []string `json:"providers"`
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondInternalError logs err and sends message with a 500. The cause is
// never exposed to the client.
func respondInternalError(c *gin.Context, err error, message string) {
	logging.FromContext(c.Request.Context()).WithError(err).Error(message)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}
