package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"traffic-report/be/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// intParam parses a path parameter as an integer and writes a 400 when it is not one.
func intParam(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return value, true
}

// respondError maps service errors onto status codes. Anything unrecognised is
// logged and reported as a 500 with the generic message.
func respondError(c *gin.Context, log *zap.Logger, err error, message string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrUnknownDevice), errors.Is(err, services.ErrUnknownUser):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateSerial):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
