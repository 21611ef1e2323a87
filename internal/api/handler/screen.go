package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/xctimer/internal/api/request"
	"github.com/mcoot/xctimer/internal/api/response"
	"github.com/mcoot/xctimer/internal/model"
	"github.com/mcoot/xctimer/internal/services/navigation"
)

// ScreenHandler handles the navigation endpoints
type ScreenHandler struct {
	navigator *navigation.Navigator
}

// NewScreenHandler creates a new screen handler
func NewScreenHandler(navigator *navigation.Navigator) *ScreenHandler {
	return &ScreenHandler{navigator: navigator}
}

// Get handles GET /api/v1/screen
func (h *ScreenHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Screen{Screen: string(h.navigator.Current())})
}

// Set handles PUT /api/v1/screen
func (h *ScreenHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req request.SetScreenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.navigator.Set(model.Screen(req.Screen)); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Screen{Screen: string(h.navigator.Current())})
}
