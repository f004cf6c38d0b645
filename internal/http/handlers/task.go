package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chorepoints/chorepoints-backend/internal/http/response"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/apierr"
	"github.com/chorepoints/chorepoints-backend/internal/services"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// POST /api/tasks
// body: { "title": "...", "points": 10, "kid_id": "..." }
func (th *TaskHandler) CreateTask(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	var req struct {
		Title  string `json:"title"`
		Points int    `json:"points"`
		KidID  string `json:"kid_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	kidID, err := uuid.Parse(req.KidID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	task, err := th.taskService.CreateTask(c.Request.Context(), principal, services.CreateTaskInput{
		Title:  req.Title,
		Points: req.Points,
		KidID:  kidID,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"task": task})
}

// GET /api/tasks?kid_id=...
func (th *TaskHandler) ListTasks(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	kidID, err := optionalKidIDQuery(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	tasks, err := th.taskService.ListTasks(c.Request.Context(), principal, kidID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"tasks": tasks})
}

// PUT /api/tasks/:id/complete?kid_id=...
func (th *TaskHandler) CompleteTask(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	kidID, err := optionalKidIDQuery(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	task, err := th.taskService.CompleteTask(c.Request.Context(), principal, taskID, kidID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"task": task})
}

// DELETE /api/tasks/:id
func (th *TaskHandler) DeleteTask(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := th.taskService.DeleteTask(c.Request.Context(), principal, taskID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
