package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Uokoroafor/hot-take-generator/internal/hottake"
)

// Error codes carried in the error envelope.
const (
	codeInvalidRequest       = "invalid_request"
	codeInvalidAgent         = "invalid_agent"
	codeNoAgentAvailable     = "no_agent_available"
	codeGenerationFailed     = "generation_failed"
	codeStreamingUnsupported = "streaming_unsupported"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// writeGenerateError maps generation service errors onto the envelope.
func writeGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, hottake.ErrEmptyTopic):
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "topic is required")
	case errors.Is(err, hottake.ErrUnknownAgent), errors.Is(err, hottake.ErrAgentNotConfigured):
		writeError(w, http.StatusBadRequest, codeInvalidAgent, err.Error())
	case errors.Is(err, hottake.ErrNoConfiguredAgent):
		writeError(w, http.StatusServiceUnavailable, codeNoAgentAvailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeGenerationFailed, err.Error())
	}
}
