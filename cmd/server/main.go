package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Capstone-E1/aquasmart_wqi/config"
	httphandlers "github.com/Capstone-E1/aquasmart_wqi/internal/http"
	"github.com/Capstone-E1/aquasmart_wqi/internal/models"
	"github.com/Capstone-E1/aquasmart_wqi/internal/mqtt"
	"github.com/Capstone-E1/aquasmart_wqi/internal/store"
	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
	"github.com/Capstone-E1/aquasmart_wqi/internal/ws"
)

func main() {
	log.Println("🌊 Starting AquaSmart Water Quality Index Backend...")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found: %v", err)
	} else {
		log.Println("✅ Loaded .env file")
	}

	// Load configuration
	cfg := config.Load()
	log.Printf("📋 Loaded configuration: Server port=%s, default variant=%s",
		cfg.Server.Port, cfg.Scoring.DefaultVariant)

	// Build scorers; a broken parameter table stops startup
	engine, err := wqi.DefaultEngine()
	if err != nil {
		log.Fatalf("❌ Failed to configure scoring engine: %v", err)
	}
	defaultVariant := wqi.Variant(cfg.Scoring.DefaultVariant)
	if _, err := engine.Scorer(defaultVariant); err != nil {
		log.Fatalf("❌ Invalid WQI_DEFAULT_VARIANT: %v", err)
	}
	log.Printf("🧮 Scoring engine ready with variants %v", engine.Variants())

	// Latest evaluation per device, kept in memory
	dataStore := store.NewStore()
	log.Println("💾 Initialized in-memory evaluation store")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()
	log.Println("🔌 Started WebSocket hub")

	// Initialize MQTT client (skip if no broker URL configured)
	var mqttStatus httphandlers.ConnectionStatus
	if cfg.MQTT.Enabled() {
		log.Println("📡 Attempting to connect to MQTT broker...")
		mqttConfig := mqtt.DefaultConfig()
		mqttConfig.BrokerURL = cfg.MQTT.BrokerURL
		mqttConfig.Username = cfg.MQTT.Username
		mqttConfig.Password = cfg.MQTT.Password
		mqttConfig.ConnectRetry = cfg.MQTT.ConnectRetry
		if cfg.MQTT.ClientID != "" {
			mqttConfig.ClientID = cfg.MQTT.ClientID
		}
		if cfg.MQTT.KeepAlive > 0 {
			mqttConfig.KeepAlive = cfg.MQTT.KeepAlive
		}
		if cfg.MQTT.PingTimeout > 0 {
			mqttConfig.PingTimeout = cfg.MQTT.PingTimeout
		}
		if cfg.MQTT.TopicMeasurements != "" {
			mqttConfig.TopicMeasurements = cfg.MQTT.TopicMeasurements
		}
		if cfg.MQTT.TopicResults != "" {
			mqttConfig.TopicResults = cfg.MQTT.TopicResults
		}
		mqttClient := mqtt.NewClient(mqttConfig, engine)

		mqttClient.SetEvaluationHandler(func(eval *models.Evaluation) {
			dataStore.SaveEvaluation(eval)
			wsHub.BroadcastEvaluation(eval)
		})
		mqttClient.SetErrorHandler(func(err error) {
			wsHub.BroadcastError(err.Error())
		})

		if err := mqttClient.Connect(); err != nil {
			log.Printf("⚠️  Warning: Failed to connect to MQTT broker: %v", err)
			log.Println("📡 Continuing while the client retries in the background")
		} else {
			log.Printf("📡 MQTT client connected - Broker: %s", cfg.MQTT.BrokerURL)
		}
		defer mqttClient.Disconnect()
		mqttStatus = mqttClient
	} else {
		log.Println("📡 MQTT broker not configured, skipping MQTT initialization")
	}

	router := httphandlers.SetupRoutes(engine, dataStore, wsHub, mqttStatus, defaultVariant)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Printf("🚀 Starting HTTP server on port %s", cfg.Server.Port)
		log.Println("📡 API endpoints available:")
		log.Println("  GET /api/v1/health - Service status")
		log.Println("  GET /api/v1/variants - Scoring variants with parameters and bands")
		log.Println("  GET /api/v1/variants/{variant} - One scoring variant")
		log.Println("  POST /api/v1/variants/{variant}/evaluate - Evaluate measurements")
		log.Println("  POST /api/v1/evaluate - Evaluate with the default variant")
		log.Println("  POST /api/v1/variants/{variant}/report.xlsx - Excel report")
		log.Println("  POST /api/v1/variants/{variant}/report.csv - CSV report")
		log.Println("  GET /api/v1/evaluations/latest - Latest evaluation per device")
		log.Println("  GET /api/v1/reference - Water class reference table")
		log.Println("  WS /ws - WebSocket for live evaluations")
		log.Printf("🌐 Server running at http://localhost:%s", cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ HTTP server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	// Shutdown HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}
	wsHub.Stop()

	log.Println("✅ Server shutdown complete")
}
