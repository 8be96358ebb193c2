package handlers

import (
	"net/http"

	"github.com/Ashvita9/ProjectDashboard/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	db             *gorm.DB
	projectService services.ProjectService
}

func NewProjectHandler(db *gorm.DB, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{db: db, projectService: projectService}
}

// ListProjects returns every project owned by the user named in the
// user_id query parameter.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID := c.Query("user_id")

	projects, err := h.projectService.ListProjects(h.db, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "projects fetched successfully",
		"projects": projects,
	})
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req services.ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	project, err := h.projectService.CreateProject(h.db, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "project created successfully",
		"project": project,
	})
}

// UpdateProject is the full-replace endpoint; absent optional fields reset
// to their defaults.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req services.ProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	project, err := h.projectService.UpdateProject(h.db, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "project updated successfully",
		"project": project,
	})
}

// PatchProject applies only the fields present in the payload.
func (h *ProjectHandler) PatchProject(c *gin.Context) {
	var req services.ProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	project, err := h.projectService.PatchProject(h.db, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "project updated successfully",
		"project": project,
	})
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	var req services.ProjectDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	if err := h.projectService.DeleteProject(h.db, req); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "project deleted successfully"})
}
