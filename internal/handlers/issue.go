package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greencity/waste-pickup/internal/audit"
	"github.com/greencity/waste-pickup/internal/db"
	"github.com/greencity/waste-pickup/internal/lifecycle"
	"github.com/greencity/waste-pickup/internal/middleware"
	"github.com/greencity/waste-pickup/internal/models"
)

// IssueHandler serves the issue-reporting endpoints
type IssueHandler struct {
	issues db.IssueCollection
	users  db.UserCollection
	audit  *audit.Recorder
}

// NewIssueHandler creates a new issue handler
func NewIssueHandler(issues db.IssueCollection, users db.UserCollection, recorder *audit.Recorder) *IssueHandler {
	return &IssueHandler{
		issues: issues,
		users:  users,
		audit:  recorder,
	}
}

type createIssueRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Category    models.IssueCategory `json:"category"`
}

// Create handles POST /api/issues
func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req createIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		writeError(w, fmt.Errorf("%w: title and description are required", lifecycle.ErrValidation))
		return
	}
	if !models.IsValidIssueCategory(req.Category) {
		writeError(w, fmt.Errorf("%w: unknown category %q", lifecycle.ErrValidation, req.Category))
		return
	}

	reporterID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusUnauthorized)
		return
	}

	reporter, err := h.users.FindUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	issue, err := h.issues.InsertIssue(r.Context(), models.Issue{
		UserID:      reporterID,
		UserName:    reporter.Name,
		Email:       reporter.Email,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      models.IssuePending,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Issue reported successfully",
		"issue":   issue,
	})
}

// MyIssues handles GET /api/issues/my
func (h *IssueHandler) MyIssues(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	reporterID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusUnauthorized)
		return
	}

	issues, err := h.issues.FindIssues(r.Context(), db.IssueFilter{UserID: &reporterID})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, issues)
}

// List handles GET /api/admin/issues
func (h *IssueHandler) List(w http.ResponseWriter, r *http.Request) {
	issues, err := h.issues.FindIssues(r.Context(), db.IssueFilter{})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, issues)
}

type updateIssueRequest struct {
	Status      models.IssueStatus `json:"status"`
	AdminRemark string             `json:"admin_remark"`
}

// UpdateStatus handles PATCH /api/admin/issues/{id}/status. One
// UPDATE_STATUS audit entry is recorded, but only when the status
// actually changed.
func (h *IssueHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	var req updateIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Status != "" && !models.IsValidIssueStatus(req.Status) {
		writeError(w, fmt.Errorf("%w: unknown status %q", lifecycle.ErrValidation, req.Status))
		return
	}

	adminID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusUnauthorized)
		return
	}

	issue, err := h.issues.FindIssueByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	oldStatus := issue.Status
	if req.Status != "" {
		issue.Status = req.Status
	}
	if req.AdminRemark != "" {
		issue.AdminRemark = req.AdminRemark
	}

	if err := h.issues.UpdateIssue(r.Context(), mux.Vars(r)["id"], *issue); err != nil {
		writeError(w, err)
		return
	}

	if req.Status != "" && req.Status != oldStatus {
		targetID := issue.ID
		h.audit.Record(r.Context(), models.AuditLogEntry{
			Admin:         adminID,
			ActionType:    models.ActionUpdateStatus,
			TargetType:    models.TargetIssue,
			TargetID:      &targetID,
			PreviousValue: bson.M{"status": oldStatus},
			NewValue:      bson.M{"status": issue.Status},
			Meta: models.AuditMeta{
				IP:     middleware.ClientIP(r),
				Device: r.UserAgent(),
			},
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Issue marked as %s", issue.Status),
		"issue":   issue,
	})
}
