package db

import (
	"context"
	"fmt"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, userID int64, req *models.TransactionRequest) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, type, category, amount, description, transaction_date)
		VALUES ($1, $2, $3, $4, $5, CURRENT_DATE)
		RETURNING id, user_id, type, category, amount, description, transaction_date, created_at, updated_at
	`
	var t models.Transaction
	err := pool.QueryRow(ctx, query, userID, req.Type, req.Category, req.Amount, req.Description).
		Scan(&t.ID, &t.UserID, &t.Type, &t.Category, &t.Amount, &t.Description, &t.TransactionDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAllTransactions returns every transaction for the user, most recently
// created first.
func GetAllTransactions(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, type, category, amount, description, transaction_date, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Category, &t.Amount, &t.Description, &t.TransactionDate, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func GetTransactionsByType(ctx context.Context, pool *pgxpool.Pool, userID int64, txType string) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, type, category, amount, description, transaction_date, created_at, updated_at
		FROM transactions
		WHERE user_id = $1 AND type = $2
		ORDER BY transaction_date DESC, created_at DESC
	`
	rows, err := pool.Query(ctx, query, userID, txType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Category, &t.Amount, &t.Description, &t.TransactionDate, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

func GetTransactionByID(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int64) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, type, category, amount, description, transaction_date, created_at, updated_at
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`
	var t models.Transaction
	err := pool.QueryRow(ctx, query, transactionID, userID).
		Scan(&t.ID, &t.UserID, &t.Type, &t.Category, &t.Amount, &t.Description, &t.TransactionDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int64, req *models.TransactionRequest) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET type = $1, category = $2, amount = $3, description = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, type, category, amount, description, transaction_date, created_at, updated_at
	`
	var t models.Transaction
	err := pool.QueryRow(ctx, query, req.Type, req.Category, req.Amount, req.Description, transactionID, userID).
		Scan(&t.ID, &t.UserID, &t.Type, &t.Category, &t.Amount, &t.Description, &t.TransactionDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int64) error {
	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, transactionID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}

// GetBalanceSummary computes all three totals in a single statement so both
// sums reflect the same transaction snapshot. COALESCE keeps the fields at
// zero for users with no transactions.
func GetBalanceSummary(ctx context.Context, pool *pgxpool.Pool, userID int64) (*models.BalanceSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS total_income,
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS total_expenses,
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0) AS balance
		FROM transactions
		WHERE user_id = $1
	`
	var s models.BalanceSummary
	err := pool.QueryRow(ctx, query, userID).Scan(&s.TotalIncome, &s.TotalExpenses, &s.Balance)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
