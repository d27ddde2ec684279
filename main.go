package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"pulse_server/models"
	"pulse_server/routes"
	"pulse_server/services"
	"pulse_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and repository
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	repo := &services.DynamoRepository{Dynamo: dynamoService}
	log.Println("DynamoDB client initialized.")

	snapshotService := &services.SnapshotService{
		Client: services.InitializeS3Client(),
		Bucket: os.Getenv("S3_BUCKET_NAME"),
	}

	// One lock serializes every discovery/match state mutation.
	var stateMu sync.RWMutex
	clock := services.SystemClock{}

	checkInService := services.NewCheckInService(&stateMu, clock, repo)
	activityService := &services.ActivityService{CheckIns: checkInService}
	heatService := services.HeatService{Activity: activityService}
	chatService := services.NewChatService(&stateMu, clock, repo)
	matchService := services.NewMatchService(&stateMu, clock, repo, chatService)

	if raw := os.Getenv("MATCH_PROBABILITY"); raw != "" {
		chance, err := strconv.ParseFloat(raw, 64)
		if err != nil || chance < 0 || chance > 1 {
			log.Fatalf("Invalid MATCH_PROBABILITY %q", raw)
		}
		matchService.MatchChance = chance
	}

	// Restore active check-ins from the last snapshot, then keep the
	// snapshot slots fresh in the background.
	var restored []models.CheckIn
	if found, err := snapshotService.LoadSnapshot(context.Background(), models.SlotRecentCheckIns, &restored); err != nil {
		log.Printf("❌ Failed to load check-in snapshot: %v", err)
	} else if found {
		checkInService.Restore(restored)
		log.Printf("Restored %d check-ins from snapshot", len(restored))
	}
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			ctx := context.Background()
			if err := snapshotService.SaveSnapshot(ctx, models.SlotRecentCheckIns, checkInService.Snapshot()); err != nil {
				log.Printf("❌ Failed to save check-in snapshot: %v", err)
			}
			if err := snapshotService.SaveSnapshot(ctx, models.SlotHeatMap, activityService.Counts()); err != nil {
				log.Printf("❌ Failed to save heat snapshot: %v", err)
			}
		}
	}()

	// Realtime hub
	hub := socket.NewHub()
	go func() {
		if err := hub.Server.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer hub.Server.Close()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Pulse")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterCheckInRoutes(r, checkInService, repo, clock)
	routes.RegisterDiscoveryRoutes(r, checkInService, repo)
	routes.RegisterMatchRoutes(r, matchService, repo, hub)
	routes.RegisterChatRoutes(r, chatService, hub)
	routes.RegisterHeatRoutes(r, activityService, heatService, repo)
	routes.RegisterMediaRoutes(r, snapshotService)

	// Mount the Socket.IO endpoint
	r.PathPrefix("/socket.io/").Handler(hub.Server)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
