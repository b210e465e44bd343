package adaptor

import (
	"net/http"

	"freelance-booking/internal/dto/request"
	"freelance-booking/internal/usecase"
	"freelance-booking/pkg/utils"

	"go.uber.org/zap"
)

type ProjectHandler struct {
	service usecase.ProjectService
	log     *zap.Logger
}

func NewProjectHandler(service usecase.ProjectService, log *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		log:     log.With(zap.String("handler", "project")),
	}
}

// CreateProject handles POST /api/projects (admin)
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req request.CreateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := h.service.CreateProject(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create project")
		return
	}

	utils.ResponseCreated(w, "Project created", project)
}

// ListProjects handles GET /api/projects?status=&page=&per_page= (admin)
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListProjects(r.Context(), r.URL.Query().Get("status"), paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "list projects")
		return
	}

	utils.ResponseSuccess(w, "success", projects)
}

// GetProject handles GET /api/projects/{id} (admin)
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	project, err := h.service.GetProject(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get project")
		return
	}

	utils.ResponseSuccess(w, "success", project)
}

// UpdateProject handles PUT /api/projects/{id} (admin)
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := h.service.UpdateProject(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update project")
		return
	}

	utils.ResponseSuccess(w, "Project updated", project)
}

// DeleteProject handles DELETE /api/projects/{id} (admin)
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteProject(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete project")
		return
	}

	utils.ResponseSuccess(w, "Project deleted", nil)
}

// ListUpdates handles GET /api/projects/{id}/updates (admin, includes internal notes)
func (h *ProjectHandler) ListUpdates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	updates, err := h.service.ListUpdates(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "list project updates")
		return
	}

	utils.ResponseSuccess(w, "success", updates)
}

// SendMessage handles POST /api/projects/{id}/messages (admin)
func (h *ProjectHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.service.SendMessage(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "send message")
		return
	}

	utils.ResponseCreated(w, "Message sent", msg)
}
