package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"swap_server/auth"
	"swap_server/config"
	"swap_server/routes"
	"swap_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	swapStore := services.NewDynamoSwapStore(
		dynamoService,
		services.InitializeS3PresignClient(cfg.AWSRegion),
		cfg.SwapsTable,
		cfg.SwapsIndex,
		cfg.AttachmentsBucket,
	)
	swapService := &services.SwapService{
		Store:  swapStore,
		Bucket: cfg.AttachmentsBucket,
		Region: cfg.AWSRegion,
	}
	verifier := auth.NewVerifier(cfg.JwksURL)

	log.Printf("Using server port: %s\n", cfg.Port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to SwapShop")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterSwapRoutes(r, swapService, verifier, cfg.AllowAnonymousFeed)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
