package handlers

import (
	"errors"
	"net/http"

	"github.com/Ashvita9/ProjectDashboard/internal/services"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps a service error onto the response status taxonomy:
// 400 for validation, 401 for bad credentials, 403 for ownership, 404 for
// unresolved resources, 409 for registration conflicts, 500 otherwise.
func writeServiceError(c *gin.Context, err error) {
	var missingErr *services.MissingFieldsError
	if errors.As(err, &missingErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message":        missingErr.Error(),
			"missing_fields": missingErr.Fields,
		})
		return
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundErr.Error()})
		return
	}

	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, gin.H{"message": conflictErr.Error()})
		return
	}

	var dateErr *services.InvalidDateError
	if errors.As(err, &dateErr) {
		c.JSON(http.StatusBadRequest, gin.H{"message": dateErr.Error()})
		return
	}

	var statusErr *services.InvalidStatusError
	if errors.As(err, &statusErr) {
		c.JSON(http.StatusBadRequest, gin.H{"message": statusErr.Error()})
		return
	}

	switch {
	case errors.Is(err, services.ErrPasswordMismatch),
		errors.Is(err, services.ErrNoChange),
		errors.Is(err, services.ErrPasswordRequired),
		errors.Is(err, services.ErrIdentityRequired):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "failed to process request",
			"error":   err.Error(),
		})
	}
}
