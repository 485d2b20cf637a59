/**
 * @description
 * This file contains the HTTP handlers for registration and login, plus the
 * service banner and health endpoints. Handlers parse incoming requests,
 * call the application service, and write the JSON envelope response; they
 * are the bridge between the web layer and the business logic layer.
 */

package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/spendwise/expense-service/internal/app"
)

// Handlers holds the application service that handlers will use, and a
// readiness probe for the backing store.
type Handlers struct {
	service *app.Service
	ready   func(ctx context.Context) error
}

// NewHandlers creates a new instance of Handlers. The ready probe may be nil
// when no backing store check is available.
func NewHandlers(service *app.Service, ready func(ctx context.Context) error) *Handlers {
	return &Handlers{service: service, ready: ready}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler handles POST /auth/register.
func (h *Handlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "Please provide name, email, and password")
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if status, _ := mapError(err); status == 0 {
			log.Printf("level=error component=api endpoint=register outcome=failed err=%v", err)
		}
		h.respondError(w, err, "Error registering user")
		return
	}

	h.writeSuccess(w, http.StatusCreated, "User registered successfully", envelope{"user": user})
}

// LoginHandler handles POST /auth/login.
func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if status, _ := mapError(err); status == 0 {
			log.Printf("level=error component=api endpoint=login outcome=failed err=%v", err)
		}
		h.respondError(w, err, "Error during login")
		return
	}

	h.writeSuccess(w, http.StatusOK, "Login successful", envelope{"user": user})
}

// RootHandler handles GET / with a short service banner.
func (h *Handlers) RootHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, envelope{
		"message": "Expense Tracker API is running!",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"auth":     "/auth",
			"users":    "/users",
			"expenses": "/expenses",
		},
	})
}

// HealthHandler handles GET /health, reporting store readiness.
func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	database := "Connected"
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			database = "Disconnected"
		}
	}
	h.writeJSON(w, http.StatusOK, envelope{
		"status":    "OK",
		"database":  database,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
