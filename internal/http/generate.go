package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/llm-aggregator/internal/auth"
	"github.com/mrlokans/llm-aggregator/internal/logging"
	"github.com/mrlokans/llm-aggregator/internal/providers"
)

type generateRequest struct {
	Prompt string `form:"prompt" json:"prompt"`
}

// GenerateController proxies prompts to the provider named in the path.
type GenerateController struct {
	dispatcher Dispatcher
}

func NewGenerateController(dispatcher Dispatcher) *GenerateController {
	return &GenerateController{dispatcher: dispatcher}
}

// Generate handles POST /api/:service.
func (gc *GenerateController) Generate(c *gin.Context) {
	service := c.Param("service")

	var req generateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			respondBadRequest(c, "Invalid request body")
			return
		}
	}

	// The provider call outlives a disconnected client; its result is
	// dropped when nobody is listening.
	ctx := context.WithoutCancel(c.Request.Context())

	result, err := gc.dispatcher.Dispatch(ctx, service, req.Prompt)
	if err != nil {
		switch {
		case errors.Is(err, providers.ErrInvalidRequest):
			respondBadRequest(c, "Prompt is required")
		case errors.Is(err, providers.ErrUnknownProvider):
			respondBadRequest(c, "Invalid service name")
		default:
			respondInternalError(c, err, "Error fetching from "+service)
		}
		return
	}

	logging.FromContext(ctx).
		WithField("provider", result.Provider).
		WithField("identity_id", auth.GetIdentityID(c)).
		Info("generation completed")
	c.JSON(http.StatusOK, GenerateResponse{Response: result.Text})
}

// Providers handles GET /api/providers.
func (gc *GenerateController) Providers(c *gin.Context) {
	names := gc.dispatcher.Names()
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, ProvidersResponse{Providers: names})
}
