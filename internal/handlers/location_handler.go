package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"warehouse-backend/internal/models"
	"warehouse-backend/internal/repositories"
	"warehouse-backend/internal/services"
	"warehouse-backend/pkg/utils"
)

type LocationHandler struct {
	service  *services.LocationService
	validate *validator.Validate
	logger   *logrus.Logger
}

func NewLocationHandler(service *services.LocationService, validate *validator.Validate, logger *logrus.Logger) *LocationHandler {
	return &LocationHandler{service: service, validate: validate, logger: logger}
}

// ListWarehouses handles GET /api/warehouses
func (h *LocationHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.service.ListWarehouses(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("list warehouses failed")
		http.Error(w, "Failed to load warehouses", http.StatusInternalServerError)
		return
	}
	if warehouses == nil {
		warehouses = []models.Warehouse{}
	}
	utils.JSON(w, http.StatusOK, warehouses)
}

// Tree handles GET /api/warehouses/{id}/tree
func (h *LocationHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.Tree(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, repositories.ErrNotFound) {
		http.Error(w, "Warehouse not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("warehouse tree failed")
		http.Error(w, "Failed to load warehouse", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, tree)
}

// GenerateLayout handles POST /api/warehouses/{id}/layout
func (h *LocationHandler) GenerateLayout(w http.ResponseWriter, r *http.Request) {
	var req models.LayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.JSON(w, http.StatusBadRequest, map[string]interface{}{"errors": utils.ProcessValidationErrors(err)})
		return
	}

	result, err := h.service.GenerateLayout(r.Context(), mux.Vars(r)["id"], req)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		http.Error(w, "Warehouse not found", http.StatusNotFound)
		return
	case errors.Is(err, repositories.ErrLayoutExists):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		h.logger.WithError(err).Error("layout generation failed")
		http.Error(w, "Failed to generate layout", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusCreated, result)
}
