package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	sqldb "fintrack-server/src/db/sql"
	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const recentPerKind = 5

// Aggregator supplies the raw financial data the context block is built
// from.
type Aggregator interface {
	Transactions(ctx context.Context, userID int64) ([]models.Transaction, error)
	Balance(ctx context.Context, userID int64) (*models.BalanceSummary, error)
	Categories(ctx context.Context, userID int64) ([]models.Category, error)
}

// PGAggregator reads from the transactions and categories tables.
type PGAggregator struct {
	pool *pgxpool.Pool
}

func NewPGAggregator(pool *pgxpool.Pool) *PGAggregator {
	return &PGAggregator{pool: pool}
}

func (a *PGAggregator) Transactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return sqldb.GetAllTransactions(ctx, a.pool, userID)
}

func (a *PGAggregator) Balance(ctx context.Context, userID int64) (*models.BalanceSummary, error) {
	return sqldb.GetBalanceSummary(ctx, a.pool, userID)
}

func (a *PGAggregator) Categories(ctx context.Context, userID int64) ([]models.Category, error) {
	return sqldb.GetCategoriesForUser(ctx, a.pool, userID)
}

// ContextBuilder renders a user's financial data into the fixed-format
// summary block injected into the advisory prompt. The output is
// deterministic for a given data set and clock reading.
type ContextBuilder struct {
	agg Aggregator
	now func() time.Time
}

func NewContextBuilder(agg Aggregator) *ContextBuilder {
	return &ContextBuilder{agg: agg, now: time.Now}
}

// BuildContext assembles the full block or fails; it never renders a
// partial summary.
func (b *ContextBuilder) BuildContext(ctx context.Context, userID int64) (string, error) {
	txns, err := b.agg.Transactions(ctx, userID)
	if err != nil {
		return "", &ContextError{Err: fmt.Errorf("fetching transactions: %w", err)}
	}

	summary, err := b.agg.Balance(ctx, userID)
	if err != nil {
		return "", &ContextError{Err: fmt.Errorf("fetching balance summary: %w", err)}
	}

	categories, err := b.agg.Categories(ctx, userID)
	if err != nil {
		return "", &ContextError{Err: fmt.Errorf("fetching categories: %w", err)}
	}

	var recentIncomes, recentExpenses []models.Transaction
	for _, t := range txns {
		switch t.Type {
		case models.TypeIncome:
			if len(recentIncomes) < recentPerKind {
				recentIncomes = append(recentIncomes, t)
			}
		case models.TypeExpense:
			if len(recentExpenses) < recentPerKind {
				recentExpenses = append(recentExpenses, t)
			}
		}
	}

	monthlyIncome, monthlyExpenses := b.monthlyTotals(txns)

	var sb strings.Builder
	sb.WriteString("FINANCIAL SUMMARY:\n")
	fmt.Fprintf(&sb, "Total Income: $%s\n", summary.TotalIncome.StringFixed(2))
	fmt.Fprintf(&sb, "Total Expenses: $%s\n", summary.TotalExpenses.StringFixed(2))
	fmt.Fprintf(&sb, "Current Balance: $%s\n", summary.Balance.StringFixed(2))

	sb.WriteString("\nTHIS MONTH:\n")
	fmt.Fprintf(&sb, "Monthly Income: $%s\n", monthlyIncome.StringFixed(2))
	fmt.Fprintf(&sb, "Monthly Expenses: $%s\n", monthlyExpenses.StringFixed(2))
	fmt.Fprintf(&sb, "Monthly Balance: $%s\n", monthlyIncome.Sub(monthlyExpenses).StringFixed(2))

	sb.WriteString("\nRECENT INCOME TRANSACTIONS:\n")
	writeTransactionLines(&sb, recentIncomes)

	sb.WriteString("\nRECENT EXPENSE TRANSACTIONS:\n")
	writeTransactionLines(&sb, recentExpenses)

	sb.WriteString("\nAVAILABLE CATEGORIES:\n")
	fmt.Fprintf(&sb, "Income: %s\n", strings.Join(categoryNames(categories, models.TypeIncome), ", "))
	fmt.Fprintf(&sb, "Expense: %s\n", strings.Join(categoryNames(categories, models.TypeExpense), ", "))

	return sb.String(), nil
}

// monthlyTotals partitions transactions whose date falls within
// [first day of the current month, today] and sums each kind.
func (b *ContextBuilder) monthlyTotals(txns []models.Transaction) (income, expenses decimal.Decimal) {
	now := b.now()
	firstDay := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, t := range txns {
		d := time.Date(t.TransactionDate.Year(), t.TransactionDate.Month(), t.TransactionDate.Day(), 0, 0, 0, 0, now.Location())
		if d.Before(firstDay) || d.After(today) {
			continue
		}
		switch t.Type {
		case models.TypeIncome:
			income = income.Add(t.Amount)
		case models.TypeExpense:
			expenses = expenses.Add(t.Amount)
		}
	}
	return income, expenses
}

func writeTransactionLines(sb *strings.Builder, txns []models.Transaction) {
	for _, t := range txns {
		description := "No description"
		if t.Description != nil && *t.Description != "" {
			description = *t.Description
		}
		fmt.Fprintf(sb, "- %s: $%s (%s) - %s\n",
			t.TransactionDate.Format("2006-01-02"), t.Amount.StringFixed(2), t.Category, description)
	}
}

func categoryNames(categories []models.Category, catType string) []string {
	var names []string
	for _, c := range categories {
		if c.Type == catType {
			names = append(names, c.Name)
		}
	}
	return names
}
