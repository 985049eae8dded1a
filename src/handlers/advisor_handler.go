package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"fintrack-server/src/advisor"
	"fintrack-server/src/models"
)

const defaultHistoryLimit = 50

func Chat(service *advisor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode chat request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		advice, err := service.GetAdvice(r.Context(), userID, req.Query)
		if err != nil {
			log.Printf("ERROR: Failed to get financial advice for user %d: %v", userID, err)
			http.Error(w, err.Error(), advisoryStatus(err))
			return
		}

		log.Printf("INFO: Generated financial advice for user %d", userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"advice":  advice,
		})
	}
}

func GetChatHistory(service *advisor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		limit := defaultHistoryLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		history, err := service.GetHistory(r.Context(), userID, limit)
		if err != nil {
			log.Printf("ERROR: Failed to get conversation history for user %d: %v", userID, err)
			http.Error(w, "failed to get conversation history", http.StatusInternalServerError)
			return
		}
		if history == nil {
			history = []models.ConversationTurn{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"history": history,
		})
	}
}

func ClearChatHistory(service *advisor.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		if err := service.ClearHistory(r.Context(), userID); err != nil {
			log.Printf("ERROR: Failed to clear conversation history for user %d: %v", userID, err)
			http.Error(w, "failed to clear conversation history", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Cleared conversation history for user %d", userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "conversation history cleared",
		})
	}
}

func AdvisorHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "financial advisor service is running",
		})
	}
}

// advisoryStatus maps the advisory error taxonomy onto HTTP status codes.
func advisoryStatus(err error) int {
	var (
		validationErr *advisor.ValidationError
		serviceErr    *advisor.ServiceError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &serviceErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
