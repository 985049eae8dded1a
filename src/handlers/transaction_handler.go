package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func validateTransactionRequest(req *models.TransactionRequest) string {
	if !models.ValidTransactionType(req.Type) {
		return "type must be either income or expense"
	}
	if strings.TrimSpace(req.Category) == "" {
		return "category is required"
	}
	if !req.Amount.GreaterThan(decimal.Zero) {
		return "amount must be a positive number"
	}
	return ""
}

func CreateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req models.TransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if msg := validateTransactionRequest(&req); msg != "" {
			log.Printf("ERROR: Invalid create transaction request for user %d: %s", userID, msg)
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		created, err := db.CreateTransaction(r.Context(), pool, userID, &req)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction for user %d: %v", userID, err)
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created %s transaction id %d for user %d", created.Type, created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var (
			txns []models.Transaction
			err  error
		)
		txType := r.URL.Query().Get("type")
		if models.ValidTransactionType(txType) {
			txns, err = db.GetTransactionsByType(r.Context(), pool, userID, txType)
		} else {
			txns, err = db.GetAllTransactions(r.Context(), pool, userID)
		}
		if err != nil {
			log.Printf("ERROR: Failed to get transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}
		if txns == nil {
			txns = []models.Transaction{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"transactions": txns,
			"total":        len(txns),
		})
	}
}

func GetTransactionByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		transactionIDStr := chi.URLParam(r, "transaction_id")
		transactionID, err := strconv.ParseInt(transactionIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", transactionIDStr)
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		txn, err := db.GetTransactionByID(r.Context(), pool, userID, transactionID)
		if err != nil {
			if err == pgx.ErrNoRows {
				http.Error(w, "transaction not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to get transaction id %d for user %d: %v", transactionID, userID, err)
			http.Error(w, "failed to get transaction", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(txn)
	}
}

func UpdateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		transactionIDStr := chi.URLParam(r, "transaction_id")
		transactionID, err := strconv.ParseInt(transactionIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", transactionIDStr)
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		var req models.TransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if msg := validateTransactionRequest(&req); msg != "" {
			log.Printf("ERROR: Invalid update transaction request for user %d: %s", userID, msg)
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		updated, err := db.UpdateTransaction(r.Context(), pool, userID, transactionID, &req)
		if err != nil {
			if err == pgx.ErrNoRows {
				http.Error(w, "transaction not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to update transaction id %d for user %d: %v", transactionID, userID, err)
			http.Error(w, "failed to update transaction", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Updated transaction id %d for user %d", updated.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		transactionIDStr := chi.URLParam(r, "transaction_id")
		transactionID, err := strconv.ParseInt(transactionIDStr, 10, 64)
		if err != nil {
			log.Printf("ERROR: Invalid transaction id param: %s", transactionIDStr)
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		if err := db.DeleteTransaction(r.Context(), pool, userID, transactionID); err != nil {
			log.Printf("ERROR: Failed to delete transaction id %d for user %d: %v", transactionID, userID, err)
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted transaction id %d for user %d", transactionID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "transaction deleted"})
	}
}

func GetBalanceSummary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		summary, err := db.GetBalanceSummary(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get balance summary for user %d: %v", userID, err)
			http.Error(w, "failed to get balance summary", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	}
}
