package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"swap_server/auth"
	"swap_server/models"
	"swap_server/services"

	"github.com/gorilla/mux"
)

// SwapController handles requests related to swap records
type SwapController struct {
	SwapService *services.SwapService
}

// NewSwapController creates a new instance of SwapController
func NewSwapController(swapService *services.SwapService) *SwapController {
	return &SwapController{SwapService: swapService}
}

func (c *SwapController) CreateSwap(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)

	var req models.CreateSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Failed to decode request body: %v", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Description == "" || req.DueDate == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	swap, err := c.SwapService.CreateSwap(r.Context(), req.Description, req.DueDate, userID)
	if err != nil {
		log.Printf("Failed to create swap: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"item": swap})
}

// GetSwaps returns the caller's own swaps
func (c *SwapController) GetSwaps(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)

	swaps, err := c.SwapService.GetSwaps(r.Context(), userID)
	if err != nil {
		log.Printf("Failed to list swaps for user %s: %v", userID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeItems(w, swaps)
}

// GetFeedSwaps returns every swap except the caller's own. On an
// unauthenticated feed configuration there is no caller to exclude and the
// full listing is returned.
func (c *SwapController) GetFeedSwaps(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)

	var swaps []models.SwapItem
	var err error
	if userID == "" {
		swaps, err = c.SwapService.GetAllSwaps(r.Context())
	} else {
		swaps, err = c.SwapService.GetFeedSwaps(r.Context(), userID)
	}
	if err != nil {
		log.Printf("Failed to list feed swaps: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeItems(w, swaps)
}

// GetAllSwaps returns every swap; this route takes no identity input
func (c *SwapController) GetAllSwaps(w http.ResponseWriter, r *http.Request) {
	swaps, err := c.SwapService.GetAllSwaps(r.Context())
	if err != nil {
		log.Printf("Failed to list all swaps: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeItems(w, swaps)
}

// GetSwap returns a single swap by id
func (c *SwapController) GetSwap(w http.ResponseWriter, r *http.Request) {
	swapID := mux.Vars(r)["swapId"]

	swap, err := c.SwapService.GetSwap(r.Context(), swapID)
	if err != nil {
		if errors.Is(err, services.ErrSwapNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to fetch swap %s: %v", swapID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"item": swap})
}

// UpdateSwap applies an edit or an offer toggle depending on ownership
func (c *SwapController) UpdateSwap(w http.ResponseWriter, r *http.Request) {
	swapID := mux.Vars(r)["swapId"]
	userID := auth.UserID(r)

	var req models.UpdateSwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Failed to decode request body: %v", err)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := c.SwapService.UpdateSwap(r.Context(), swapID, userID, req); err != nil {
		switch {
		case errors.Is(err, services.ErrSwapNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrConditionFailed):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			log.Printf("Failed to update swap %s: %v", swapID, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteSwap removes a swap. Only the owner may delete; deleting an id that
// no longer exists succeeds.
func (c *SwapController) DeleteSwap(w http.ResponseWriter, r *http.Request) {
	swapID := mux.Vars(r)["swapId"]
	userID := auth.UserID(r)

	swap, err := c.SwapService.GetSwap(r.Context(), swapID)
	if err != nil && !errors.Is(err, services.ErrSwapNotFound) {
		log.Printf("Failed to fetch swap %s before delete: %v", swapID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if swap != nil && swap.UserID != userID {
		http.Error(w, "only the owner may delete a swap", http.StatusForbidden)
		return
	}

	if err := c.SwapService.DeleteSwap(r.Context(), swapID); err != nil {
		log.Printf("Failed to delete swap %s: %v", swapID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateUploadURL issues a presigned attachment upload URL for a swap
func (c *SwapController) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	swapID := mux.Vars(r)["swapId"]

	uploadURL, err := c.SwapService.GetUploadURL(r.Context(), swapID)
	if err != nil {
		log.Printf("Failed to generate upload url for swap %s: %v", swapID, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"uploadUrl": uploadURL})
}

func writeItems(w http.ResponseWriter, swaps []models.SwapItem) {
	if swaps == nil {
		swaps = []models.SwapItem{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"items": swaps})
}
