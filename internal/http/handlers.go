package http

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Capstone-E1/aquasmart_wqi/internal/export"
	"github.com/Capstone-E1/aquasmart_wqi/internal/models"
	"github.com/Capstone-E1/aquasmart_wqi/internal/services"
	"github.com/Capstone-E1/aquasmart_wqi/internal/store"
	"github.com/Capstone-E1/aquasmart_wqi/internal/wqi"
)

// maxBodySize bounds measurement request bodies
const maxBodySize = 64 << 10

// Broadcaster receives every evaluation produced over HTTP
type Broadcaster interface {
	BroadcastEvaluation(eval *models.Evaluation)
	GetConnectedClientsCount() int
}

// ConnectionStatus reports whether an optional link (the MQTT broker) is up
type ConnectionStatus interface {
	IsConnected() bool
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	engine         *wqi.Engine
	store          store.DataStore
	hub            Broadcaster
	mqtt           ConnectionStatus
	parser         *services.MeasurementParser
	exportService  *export.ExportService
	defaultVariant wqi.Variant
}

// NewHandlers creates a new handlers instance. mqtt may be nil when no broker is configured.
func NewHandlers(engine *wqi.Engine, dataStore store.DataStore, hub Broadcaster, mqtt ConnectionStatus, defaultVariant wqi.Variant) *Handlers {
	return &Handlers{
		engine:         engine,
		store:          dataStore,
		hub:            hub,
		mqtt:           mqtt,
		parser:         services.NewMeasurementParser(),
		exportService:  export.NewExportService(),
		defaultVariant: defaultVariant,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthStatus is the body of the health endpoint
type HealthStatus struct {
	Status           string        `json:"status"`
	Variants         []wqi.Variant `json:"variants"`
	DefaultVariant   wqi.Variant   `json:"default_variant"`
	WebSocketClients int           `json:"websocket_clients"`
	Evaluations      int           `json:"evaluations"`
	ActiveDevices    []string      `json:"active_devices"`
	MQTT             string        `json:"mqtt"`
	Timestamp        time.Time     `json:"timestamp"`
}

// GetHealth reports service status
func (h *Handlers) GetHealth(w http.ResponseWriter, r *http.Request) {
	mqttStatus := "disabled"
	if h.mqtt != nil {
		mqttStatus = "disconnected"
		if h.mqtt.IsConnected() {
			mqttStatus = "connected"
		}
	}

	status := HealthStatus{
		Status:           "ok",
		Variants:         h.engine.Variants(),
		DefaultVariant:   h.defaultVariant,
		WebSocketClients: h.hub.GetConnectedClientsCount(),
		Evaluations:      h.store.GetEvaluationCount(),
		ActiveDevices:    h.store.GetActiveDevices(),
		MQTT:             mqttStatus,
		Timestamp:        time.Now(),
	}

	h.sendJSON(w, APIResponse{Success: true, Data: status})
}

// GetVariants lists every scoring variant with its parameters and bands
func (h *Handlers) GetVariants(w http.ResponseWriter, r *http.Request) {
	variants := h.engine.Variants()
	infos := make([]models.VariantInfo, 0, len(variants))
	for _, v := range variants {
		scorer, err := h.engine.Scorer(v)
		if err != nil {
			continue
		}
		infos = append(infos, models.NewVariantInfo(scorer.Spec()))
	}

	h.sendJSON(w, APIResponse{Success: true, Data: infos})
}

// GetVariant returns one variant description
func (h *Handlers) GetVariant(w http.ResponseWriter, r *http.Request) {
	scorer, err := h.engine.Scorer(variantParam(r))
	if err != nil {
		h.sendError(w, err)
		return
	}

	h.sendJSON(w, APIResponse{Success: true, Data: models.NewVariantInfo(scorer.Spec())})
}

// Evaluate scores the posted measurements with the variant in the path and
// broadcasts the evaluation to websocket clients
func (h *Handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	h.evaluateAndPublish(w, r, variantParam(r))
}

// EvaluateDefault scores the posted measurements with the configured default variant
func (h *Handlers) EvaluateDefault(w http.ResponseWriter, r *http.Request) {
	h.evaluateAndPublish(w, r, h.defaultVariant)
}

// evaluateAndPublish scores the request, keeps the result as the device's
// latest and broadcasts it before responding
func (h *Handlers) evaluateAndPublish(w http.ResponseWriter, r *http.Request, variant wqi.Variant) {
	eval, err := h.evaluate(r, variant)
	if err != nil {
		h.sendError(w, err)
		return
	}

	h.store.SaveEvaluation(eval)
	h.hub.BroadcastEvaluation(eval)

	h.sendJSON(w, APIResponse{
		Success: true,
		Message: fmt.Sprintf("%s: %s", eval.Title, eval.Status),
		Data:    eval,
	})
}

// ExportReportExcel evaluates the posted measurements and returns an Excel report
func (h *Handlers) ExportReportExcel(w http.ResponseWriter, r *http.Request) {
	eval, err := h.evaluate(r, variantParam(r))
	if err != nil {
		h.sendError(w, err)
		return
	}

	report := export.NewReport(eval)
	excelFile, err := h.exportService.GenerateExcel(report)
	if err != nil {
		log.Printf("Failed to generate Excel report: %v", err)
		h.sendErrorResponse(w, "Failed to generate Excel file", http.StatusInternalServerError)
		return
	}
	defer excelFile.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", report.Filename("xlsx")))

	if err := excelFile.Write(w); err != nil {
		log.Printf("Failed to write Excel report: %v", err)
	}
}

// ExportReportCSV evaluates the posted measurements and returns a CSV report
func (h *Handlers) ExportReportCSV(w http.ResponseWriter, r *http.Request) {
	eval, err := h.evaluate(r, variantParam(r))
	if err != nil {
		h.sendError(w, err)
		return
	}

	report := export.NewReport(eval)
	csvData, err := h.exportService.GenerateCSV(report)
	if err != nil {
		log.Printf("Failed to generate CSV report: %v", err)
		h.sendErrorResponse(w, "Failed to generate CSV data", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", report.Filename("csv")))

	if err := h.exportService.WriteCSV(csv.NewWriter(w), csvData); err != nil {
		log.Printf("Failed to write CSV report: %v", err)
	}
}

// GetLatestEvaluations returns the latest evaluation per device, optionally
// filtered by ?variant= and ?device_id=
func (h *Handlers) GetLatestEvaluations(w http.ResponseWriter, r *http.Request) {
	variant := wqi.Variant(strings.ToLower(r.URL.Query().Get("variant")))
	if variant != "" {
		if _, err := h.engine.Scorer(variant); err != nil {
			h.sendError(w, err)
			return
		}
	}

	if deviceID := r.URL.Query().Get("device_id"); deviceID != "" {
		if variant == "" {
			variant = h.defaultVariant
		}
		eval, exists := h.store.GetLatestEvaluation(variant, deviceID)
		if !exists {
			h.sendErrorResponse(w, "No evaluation available for specified device", http.StatusNotFound)
			return
		}
		h.sendJSON(w, APIResponse{Success: true, Data: eval})
		return
	}

	h.sendJSON(w, APIResponse{Success: true, Data: h.store.GetLatestEvaluations(variant)})
}

// GetReference returns the regulatory water class reference table
func (h *Handlers) GetReference(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, APIResponse{Success: true, Data: models.WaterClassReference()})
}

// evaluate reads the request body and scores it with variant
func (h *Handlers) evaluate(r *http.Request, variant wqi.Variant) (*models.Evaluation, error) {
	scorer, err := h.engine.Scorer(variant)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize+1))
	if err != nil {
		return nil, &requestError{msg: "Failed to read request body"}
	}
	if len(body) > maxBodySize {
		return nil, &requestError{msg: "Request body too large"}
	}

	var req *models.EvaluationRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/plain") {
		req, err = h.parser.ParseText(string(body))
	} else {
		req, err = h.parser.ParseJSON(body)
	}
	if err != nil {
		return nil, &requestError{msg: "Invalid request body: " + err.Error()}
	}

	res, err := scorer.Evaluate(req.Values)
	if err != nil {
		return nil, err
	}

	eval := models.NewEvaluation(scorer.Spec(), res, models.SourceHTTP, req.DeviceID)
	log.Printf("Evaluated %s via HTTP: index=%.3f status=%s (%s)",
		eval.Variant, eval.Index, eval.Status, h.parser.FormatMeasurements(req.Values))
	return eval, nil
}

// requestError is a malformed request body
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

// statusCode maps an evaluation error to its HTTP status
func statusCode(err error) int {
	var reqErr *requestError
	var variantErr *wqi.UnknownVariantError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.As(err, &variantErr):
		return http.StatusNotFound
	case errors.Is(err, wqi.ErrInvalidMeasurement):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func variantParam(r *http.Request) wqi.Variant {
	return wqi.Variant(strings.ToLower(chi.URLParam(r, "variant")))
}

// sendError sends err with the status it maps to
func (h *Handlers) sendError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		log.Printf("Evaluation failed: %v", err)
	}
	h.sendErrorResponse(w, err.Error(), code)
}

// sendErrorResponse sends a standardized error response
func (h *Handlers) sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	response := APIResponse{
		Success: false,
		Error:   message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}

// sendJSON encodes before writing so an unencodable body becomes a 500
func (h *Handlers) sendJSON(w http.ResponseWriter, response APIResponse) {
	body, err := json.Marshal(response)
	if err != nil {
		log.Printf("Failed to encode response: %v", err)
		h.sendErrorResponse(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(append(body, '\n')); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}
