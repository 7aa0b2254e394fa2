package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shriiii01/investment-agent/internal/utils"
)

// respondError maps the error taxonomy to HTTP status codes and emits the
// user-facing message only. Raw error detail never reaches the response.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var validationErr *utils.ValidationError
	var stockDataErr *utils.StockDataError
	var apiErr *utils.APIError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &stockDataErr):
		status = http.StatusBadGateway
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   utils.UserMessage(err),
	})
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
