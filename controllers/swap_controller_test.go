package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"swap_server/auth"
	"swap_server/models"
	"swap_server/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySwapStore struct {
	swaps map[string]models.SwapItem
}

func newMemorySwapStore() *memorySwapStore {
	return &memorySwapStore{swaps: map[string]models.SwapItem{}}
}

func (m *memorySwapStore) CreateSwapData(ctx context.Context, swap models.SwapItem) (models.SwapItem, error) {
	m.swaps[swap.SwapID] = swap
	return swap, nil
}

func (m *memorySwapStore) GetSwapData(ctx context.Context, swapID string) (*models.SwapItem, error) {
	swap, ok := m.swaps[swapID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", services.ErrSwapNotFound, swapID)
	}
	return &swap, nil
}

func (m *memorySwapStore) DeleteSwapData(ctx context.Context, swapID string) error {
	delete(m.swaps, swapID)
	return nil
}

func (m *memorySwapStore) GetSwapsData(ctx context.Context, userID string) ([]models.SwapItem, error) {
	var out []models.SwapItem
	for _, swap := range m.swaps {
		if swap.UserID == userID {
			out = append(out, swap)
		}
	}
	return out, nil
}

func (m *memorySwapStore) GetFeedSwapsData(ctx context.Context, userID string) ([]models.SwapItem, error) {
	var out []models.SwapItem
	for _, swap := range m.swaps {
		if swap.UserID != userID {
			out = append(out, swap)
		}
	}
	return out, nil
}

func (m *memorySwapStore) GetAllSwapsData(ctx context.Context) ([]models.SwapItem, error) {
	var out []models.SwapItem
	for _, swap := range m.swaps {
		out = append(out, swap)
	}
	return out, nil
}

func (m *memorySwapStore) UpdateSwapData(ctx context.Context, swapID string, description string, offers, prevOffers []string) error {
	swap, ok := m.swaps[swapID]
	if !ok {
		return fmt.Errorf("%w: %s", services.ErrSwapNotFound, swapID)
	}
	swap.Description = description
	if offers != nil {
		swap.Offers = offers
	}
	m.swaps[swapID] = swap
	return nil
}

func (m *memorySwapStore) GetSignedURLData(ctx context.Context, swapID string) (string, error) {
	return "https://uploads.test/" + swapID + "?signed", nil
}

// newTestRouter wires the controller on the production paths but without the
// auth middleware; tests inject the caller identity directly.
func newTestRouter(store services.SwapStore) (*mux.Router, *services.SwapService) {
	service := &services.SwapService{Store: store, Bucket: "swap-attachments", Region: "us-east-1"}
	controller := NewSwapController(service)

	r := mux.NewRouter()
	r.HandleFunc("/api/swaps/all", controller.GetAllSwaps).Methods("GET")
	r.HandleFunc("/api/swaps/feed", controller.GetFeedSwaps).Methods("GET")
	r.HandleFunc("/api/swaps", controller.CreateSwap).Methods("POST")
	r.HandleFunc("/api/swaps", controller.GetSwaps).Methods("GET")
	r.HandleFunc("/api/swaps/{swapId}", controller.GetSwap).Methods("GET")
	r.HandleFunc("/api/swaps/{swapId}", controller.UpdateSwap).Methods("PATCH")
	r.HandleFunc("/api/swaps/{swapId}", controller.DeleteSwap).Methods("DELETE")
	r.HandleFunc("/api/swaps/{swapId}/attachment", controller.GenerateUploadURL).Methods("POST")
	return r, service
}

func doRequest(r *mux.Router, method, path, userID, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateSwapHandler(t *testing.T) {
	r, _ := newTestRouter(newMemorySwapStore())

	rec := doRequest(r, http.MethodPost, "/api/swaps", "u1", `{"description":"chair","dueDate":"2024-01-08"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Item models.SwapItem `json:"item"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "chair", body.Item.Description)
	assert.Equal(t, "u1", body.Item.UserID)
	assert.NotEmpty(t, body.Item.SwapID)
	assert.Equal(t,
		"https://swap-attachments.s3.us-east-1.amazonaws.com/"+body.Item.SwapID,
		body.Item.AttachmentURL)
}

func TestCreateSwapHandler_BadRequests(t *testing.T) {
	r, _ := newTestRouter(newMemorySwapStore())

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"description":`},
		{"missing description", `{"dueDate":"2024-01-08"}`},
		{"missing due date", `{"description":"chair"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(r, http.MethodPost, "/api/swaps", "u1", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetSwapHandler_NotFound(t *testing.T) {
	r, _ := newTestRouter(newMemorySwapStore())

	rec := doRequest(r, http.MethodGet, "/api/swaps/nope", "u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListHandlers(t *testing.T) {
	store := newMemorySwapStore()
	r, service := newTestRouter(store)

	_, err := service.CreateSwap(context.Background(), "mine", "2024-01-08", "u1")
	require.NoError(t, err)
	_, err = service.CreateSwap(context.Background(), "theirs", "2024-01-08", "u2")
	require.NoError(t, err)

	type listBody struct {
		Items []models.SwapItem `json:"items"`
	}

	rec := doRequest(r, http.MethodGet, "/api/swaps", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var mine listBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&mine))
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "mine", mine.Items[0].Description)

	rec = doRequest(r, http.MethodGet, "/api/swaps/feed", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var feed listBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&feed))
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "theirs", feed.Items[0].Description)

	rec = doRequest(r, http.MethodGet, "/api/swaps/all", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all listBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&all))
	assert.Len(t, all.Items, 2)
}

func TestListHandlers_EmptyTable(t *testing.T) {
	r, _ := newTestRouter(newMemorySwapStore())

	rec := doRequest(r, http.MethodGet, "/api/swaps", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestUpdateSwapHandler(t *testing.T) {
	store := newMemorySwapStore()
	r, service := newTestRouter(store)

	swap, err := service.CreateSwap(context.Background(), "chair", "2024-01-08", "u1")
	require.NoError(t, err)

	// Owner edit.
	rec := doRequest(r, http.MethodPatch, "/api/swaps/"+swap.SwapID, "u1", `{"description":"red chair"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	// Non-owner offer toggle; extra fields in the body are dropped.
	rec = doRequest(r, http.MethodPatch, "/api/swaps/"+swap.SwapID, "u2", `{"dueDate":"1999-01-01","createdAt":"x"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	got, err := service.GetSwap(context.Background(), swap.SwapID)
	require.NoError(t, err)
	assert.Equal(t, "red chair", got.Description)
	assert.Equal(t, []string{"u2"}, got.Offers)
	assert.Equal(t, "2024-01-08", got.DueDate)

	// Missing record.
	rec = doRequest(r, http.MethodPatch, "/api/swaps/missing", "u1", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Malformed body.
	rec = doRequest(r, http.MethodPatch, "/api/swaps/"+swap.SwapID, "u1", `{"description":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSwapHandler(t *testing.T) {
	store := newMemorySwapStore()
	r, service := newTestRouter(store)

	swap, err := service.CreateSwap(context.Background(), "chair", "2024-01-08", "u1")
	require.NoError(t, err)

	// A non-owner may not delete.
	rec := doRequest(r, http.MethodDelete, "/api/swaps/"+swap.SwapID, "u2", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	_, err = service.GetSwap(context.Background(), swap.SwapID)
	assert.NoError(t, err)

	// The owner may.
	rec = doRequest(r, http.MethodDelete, "/api/swaps/"+swap.SwapID, "u1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Deleting an id that is already gone still succeeds.
	rec = doRequest(r, http.MethodDelete, "/api/swaps/"+swap.SwapID, "u1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGenerateUploadURLHandler(t *testing.T) {
	r, _ := newTestRouter(newMemorySwapStore())

	rec := doRequest(r, http.MethodPost, "/api/swaps/swap-1/attachment", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		UploadURL string `json:"uploadUrl"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body.UploadURL, "swap-1")
}
