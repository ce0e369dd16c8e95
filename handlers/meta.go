package handlers

import (
	"net/http"

	"claims-management-api/apperror"
	"claims-management-api/docs"
	"claims-management-api/logger"
	"claims-management-api/models"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "Claims Management API"
	serviceVersion = "1.0.0"
)

// Health check endpoint
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the " + serviceName,
		"docs":    "/api-docs",
		"health":  "/health",
		"metrics": "/metrics",
		"roles":   []models.UserRole{models.RoleUser, models.RoleAdmin},
	})
}

// APIDocs serves the OpenAPI document as JSON.
func APIDocs(c *gin.Context) {
	doc, err := docs.Document()
	if err != nil {
		apperror.Abort(c, logger.New("handlers").Function("APIDocs").Err("failed to parse openapi document", err))
		return
	}
	c.JSON(http.StatusOK, doc)
}

func APISpecYAML(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", docs.YAML())
}
