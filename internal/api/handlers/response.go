// Package handlers provides the HTTP handlers of the usage-analytics API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the success envelope of the analytics API.
type APIResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// APIError is the failure envelope of the analytics API.
type APIError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// respondOK sends a successful response with the data envelope.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, APIError{Success: false, Error: message})
}

// respondBadRequest sends a 400 Bad Request error.
func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

// respondInternalError sends a 500 Internal Server Error.
func respondInternalError(c *gin.Context, message string) {
	respondError(c, http.StatusInternalServerError, message)
}
