package handlers

import (
	"net/http"

	"github.com/Ashvita9/ProjectDashboard/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	db          *gorm.DB
	taskService services.TaskService
}

func NewTaskHandler(db *gorm.DB, taskService services.TaskService) *TaskHandler {
	return &TaskHandler{db: db, taskService: taskService}
}

// ListTasks returns the tasks of one project. project_id is required and
// user_id, when given, must match the project owner.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	req := services.TaskListRequest{
		ProjectID: c.Query("project_id"),
		UserID:    c.Query("user_id"),
	}

	tasks, err := h.taskService.ListTasks(h.db, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "tasks fetched successfully",
		"tasks":   tasks,
	})
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req services.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	task, err := h.taskService.CreateTask(h.db, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "task created successfully",
		"task":    task,
	})
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req services.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	task, err := h.taskService.UpdateTask(h.db, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "task updated successfully",
		"task":    task,
	})
}

func (h *TaskHandler) PatchTask(c *gin.Context) {
	var req services.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	task, err := h.taskService.PatchTask(h.db, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "task updated successfully",
		"task":    task,
	})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	var req services.TaskDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	if err := h.taskService.DeleteTask(h.db, req); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted successfully"})
}
