package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"warehouse-backend/internal/models"
	"warehouse-backend/internal/reconcile"
	"warehouse-backend/internal/repositories"
	"warehouse-backend/internal/services"
	"warehouse-backend/pkg/utils"
)

// SessionHandler serves the session workbench for both workflows.
type SessionHandler struct {
	workbench *services.WorkbenchService
	reports   *services.ReportService
	validate  *validator.Validate
	logger    *logrus.Logger
}

func NewSessionHandler(workbench *services.WorkbenchService, reports *services.ReportService, validate *validator.Validate, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{workbench: workbench, reports: reports, validate: validate, logger: logger}
}

// sessionResponse carries the snapshot and, where relevant, the outcome of a
// save or delete.
type sessionResponse struct {
	*services.Snapshot
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// List handles GET /api/{workflow}/{ref}/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reload := r.URL.Query().Get("reload") == "1"

	snap, err := h.workbench.Sessions(r.Context(), vars["workflow"], vars["ref"], reload)
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}
	utils.JSON(w, http.StatusOK, sessionResponse{Snapshot: snap})
}

// UpdateEntry handles PATCH /api/{workflow}/{ref}/sessions/{sid}/entries/{eid}
func (h *SessionHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var patch reconcile.EntryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := h.workbench.UpdateEntry(r.Context(), vars["workflow"], vars["ref"], vars["sid"], vars["eid"], patch)
	if err != nil {
		h.writeError(w, r, err, snap)
		return
	}
	utils.JSON(w, http.StatusOK, sessionResponse{Snapshot: snap})
}

// Save handles POST /api/{workflow}/{ref}/sessions
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req models.SaveSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}
	if err := h.validate.Struct(req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]interface{}{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	result, snap, err := h.workbench.Save(r.Context(), vars["workflow"], vars["ref"], req.Name)
	if err != nil {
		h.writeError(w, r, err, snap)
		return
	}
	utils.JSON(w, http.StatusCreated, sessionResponse{Snapshot: snap, Result: result})
}

// Delete handles DELETE /api/{workflow}/{ref}/sessions/{sid}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	result, snap, err := h.workbench.Delete(r.Context(), vars["workflow"], vars["ref"], vars["sid"])
	if err != nil {
		h.writeError(w, r, err, snap)
		return
	}
	utils.JSON(w, http.StatusOK, sessionResponse{Snapshot: snap, Result: result})
}

// Sheet handles GET /api/{workflow}/{ref}/sessions/{sid}/sheet
func (h *SessionHandler) Sheet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	snap, err := h.workbench.Sessions(r.Context(), vars["workflow"], vars["ref"], false)
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}
	var sess *reconcile.Session
	for i := range snap.Sessions {
		if snap.Sessions[i].ID == vars["sid"] {
			sess = &snap.Sessions[i]
			break
		}
	}
	if sess == nil {
		h.writeError(w, r, reconcile.ErrSessionNotFound, nil)
		return
	}

	pdf, err := h.reports.SessionSheetPDF(snap.Workflow, snap.ReferenceID, *sess)
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s-%s-%s.pdf", snap.Workflow, snap.ReferenceID, sess.ID))
	w.Write(pdf)
}

// Export handles GET /api/{workflow}/{ref}/export
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	snap, err := h.workbench.Sessions(r.Context(), vars["workflow"], vars["ref"], false)
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}
	out, err := h.reports.SessionHistoryXLSX(snap.Workflow, snap.ReferenceID, snap.Sessions)
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%s-sessions.xlsx", snap.Workflow, snap.ReferenceID))
	w.Write(out)
}

func (h *SessionHandler) writeError(w http.ResponseWriter, r *http.Request, err error, snap *services.Snapshot) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("session request failed")
		utils.Error(w, status, "Internal server error")
		return
	}
	utils.JSON(w, status, sessionResponse{Snapshot: snap, Error: err.Error()})
}

func statusFor(err error) int {
	var verr *reconcile.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, reconcile.ErrNothingToSave),
		errors.Is(err, services.ErrInvalidLocation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrUnknownWorkflow),
		errors.Is(err, repositories.ErrNotFound),
		errors.Is(err, reconcile.ErrSessionNotFound),
		errors.Is(err, reconcile.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSaveInProgress),
		errors.Is(err, reconcile.ErrSessionSaved),
		errors.Is(err, reconcile.ErrLiveSessionNotDeletable),
		errors.Is(err, repositories.ErrOverAllocated):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
