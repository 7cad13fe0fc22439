package routes

import (
	"swap_server/auth"
	"swap_server/controllers"
	"swap_server/services"

	"github.com/gorilla/mux"
)

// RegisterSwapRoutes sets up routes for swap operations under /api/swaps.
// The all-listing never requires a token; the feed skips auth only when
// allowAnonymousFeed is set.
func RegisterSwapRoutes(r *mux.Router, swapService *services.SwapService, verifier *auth.Verifier, allowAnonymousFeed bool) {
	controller := controllers.NewSwapController(swapService)

	// Unauthenticated routes must be registered before the guarded
	// subrouter so they are matched first.
	r.HandleFunc("/api/swaps/all", controller.GetAllSwaps).Methods("GET")
	if allowAnonymousFeed {
		r.HandleFunc("/api/swaps/feed", controller.GetFeedSwaps).Methods("GET")
	}

	swapRouter := r.PathPrefix("/api/swaps").Subrouter()
	swapRouter.Use(auth.Middleware(verifier))

	if !allowAnonymousFeed {
		swapRouter.HandleFunc("/feed", controller.GetFeedSwaps).Methods("GET")
	}
	swapRouter.HandleFunc("", controller.CreateSwap).Methods("POST")
	swapRouter.HandleFunc("", controller.GetSwaps).Methods("GET")
	swapRouter.HandleFunc("/{swapId}", controller.GetSwap).Methods("GET")
	swapRouter.HandleFunc("/{swapId}", controller.UpdateSwap).Methods("PATCH")
	swapRouter.HandleFunc("/{swapId}", controller.DeleteSwap).Methods("DELETE")
	swapRouter.HandleFunc("/{swapId}/attachment", controller.GenerateUploadURL).Methods("POST")
}
