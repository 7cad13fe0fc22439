package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"swap_server/auth"
	"swap_server/models"
	"swap_server/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

type stubSwapStore struct{}

func (stubSwapStore) CreateSwapData(ctx context.Context, swap models.SwapItem) (models.SwapItem, error) {
	return swap, nil
}

func (stubSwapStore) GetSwapData(ctx context.Context, swapID string) (*models.SwapItem, error) {
	return nil, services.ErrSwapNotFound
}

func (stubSwapStore) DeleteSwapData(ctx context.Context, swapID string) error { return nil }

func (stubSwapStore) GetSwapsData(ctx context.Context, userID string) ([]models.SwapItem, error) {
	return nil, nil
}

func (stubSwapStore) GetFeedSwapsData(ctx context.Context, userID string) ([]models.SwapItem, error) {
	return nil, nil
}

func (stubSwapStore) GetAllSwapsData(ctx context.Context) ([]models.SwapItem, error) {
	return nil, nil
}

func (stubSwapStore) UpdateSwapData(ctx context.Context, swapID string, description string, offers, prevOffers []string) error {
	return nil
}

func (stubSwapStore) GetSignedURLData(ctx context.Context, swapID string) (string, error) {
	return "", nil
}

func newRouter(allowAnonymousFeed bool) *mux.Router {
	service := &services.SwapService{Store: stubSwapStore{}, Bucket: "b", Region: "us-east-1"}
	// The verifier never reaches the key set endpoint in these tests: a
	// missing header fails before any fetch.
	verifier := auth.NewVerifier("http://127.0.0.1:0/jwks.json")

	r := mux.NewRouter()
	RegisterSwapRoutes(r, service, verifier, allowAnonymousFeed)
	return r
}

func get(r *mux.Router, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes_AllListingNeverRequiresAuth(t *testing.T) {
	r := newRouter(false)
	assert.Equal(t, http.StatusOK, get(r, "/api/swaps/all").Code)
}

func TestRoutes_ProtectedRoutesRejectMissingToken(t *testing.T) {
	r := newRouter(false)

	paths := []string{"/api/swaps", "/api/swaps/feed", "/api/swaps/some-id"}
	for _, path := range paths {
		assert.Equal(t, http.StatusUnauthorized, get(r, path).Code, "GET %s", path)
	}
}

func TestRoutes_AnonymousFeedConfiguration(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, get(newRouter(false), "/api/swaps/feed").Code)
	assert.Equal(t, http.StatusOK, get(newRouter(true), "/api/swaps/feed").Code)
}
