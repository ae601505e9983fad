package statusserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/componentkit/errors"
)

// DataResponse is the success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// respondError renders an AppError with its own status; anything else is a 500.
func respondError(c *gin.Context, err error) {
	status, body := apperrors.Response(err)
	c.JSON(status, body)
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}
