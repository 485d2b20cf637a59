/**
 * @description
 * HTTP handlers for profile, settings and category management. Category
 * endpoints always respond with the full category list of the owning
 * account, matching the account-document shape the frontend works with.
 */

package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spendwise/expense-service/internal/app"
)

type addCategoryRequest struct {
	Name   string  `json:"name"`
	Budget float64 `json:"budget"`
	Color  string  `json:"color"`
}

type settingsRequest struct {
	Currency      *string  `json:"currency"`
	MonthlyBudget *float64 `json:"monthlyBudget"`
}

func userIDParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

// GetProfileHandler handles GET /users/profile/{id}.
func (h *Handlers) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	user, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "Error fetching user profile")
		return
	}
	h.writeSuccess(w, http.StatusOK, "", envelope{"user": user})
}

// UpdateProfileHandler handles PUT /users/profile/{id}. Only name, currency
// and monthlyBudget are reachable through this path.
func (h *Handlers) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	var patch app.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	user, err := h.service.UpdateProfile(r.Context(), id, patch)
	if err != nil {
		h.respondError(w, err, "Error updating profile")
		return
	}
	h.writeSuccess(w, http.StatusOK, "Profile updated successfully", envelope{"user": user})
}

// ListCategoriesHandler handles GET /users/{id}/categories.
func (h *Handlers) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	categories, err := h.service.ListCategories(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "Error fetching categories")
		return
	}
	h.writeSuccess(w, http.StatusOK, "", envelope{"categories": categories})
}

// AddCategoryHandler handles POST /users/{id}/categories.
func (h *Handlers) AddCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	var req addCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	categories, err := h.service.AddCategory(r.Context(), id, req.Name, req.Budget, req.Color)
	if err != nil {
		h.respondError(w, err, "Error adding category")
		return
	}
	h.writeSuccess(w, http.StatusCreated, "Category added successfully", envelope{"categories": categories})
}

// UpdateCategoryHandler handles PUT /users/{id}/categories/{categoryId}.
func (h *Handlers) UpdateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	categoryID, ok := userIDParam(r, "categoryId")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	var patch app.CategoryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	categories, err := h.service.UpdateCategory(r.Context(), id, categoryID, patch)
	if err != nil {
		h.respondError(w, err, "Error updating category")
		return
	}
	h.writeSuccess(w, http.StatusOK, "Category updated successfully", envelope{"categories": categories})
}

// RemoveCategoryHandler handles DELETE /users/{id}/categories/{categoryId}.
func (h *Handlers) RemoveCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	categoryID, ok := userIDParam(r, "categoryId")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	categories, err := h.service.RemoveCategory(r.Context(), id, categoryID)
	if err != nil {
		h.respondError(w, err, "Error deleting category")
		return
	}
	h.writeSuccess(w, http.StatusOK, "Category deleted successfully", envelope{"categories": categories})
}

// GetSettingsHandler handles GET /users/{id}/settings.
func (h *Handlers) GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	settings, err := h.service.GetSettings(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "Error fetching settings")
		return
	}
	h.writeSuccess(w, http.StatusOK, "", envelope{"settings": settings})
}

// UpdateSettingsHandler handles PUT /users/{id}/settings.
func (h *Handlers) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	settings, err := h.service.UpdateSettings(r.Context(), id, req.Currency, req.MonthlyBudget)
	if err != nil {
		h.respondError(w, err, "Error updating settings")
		return
	}
	h.writeSuccess(w, http.StatusOK, "Settings updated successfully", envelope{"settings": settings})
}

// DeleteAccountHandler handles DELETE /users/{id}.
func (h *Handlers) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDParam(r, "id")
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	if err := h.service.DeleteAccount(r.Context(), id); err != nil {
		if status, _ := mapError(err); status == 0 {
			log.Printf("level=error component=api endpoint=delete_user outcome=failed user_id=%s err=%v", id, err)
		}
		h.respondError(w, err, "Error deleting user account")
		return
	}
	h.writeSuccess(w, http.StatusOK, "User account deleted successfully", nil)
}
