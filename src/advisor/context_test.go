package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fintrack-server/src/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAggregator struct {
	txns       []models.Transaction
	balance    *models.BalanceSummary
	categories []models.Category

	txnErr     error
	balanceErr error
	catErr     error
}

func (f *fakeAggregator) Transactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return f.txns, f.txnErr
}

func (f *fakeAggregator) Balance(ctx context.Context, userID int64) (*models.BalanceSummary, error) {
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	if f.balance != nil {
		return f.balance, nil
	}
	return computeBalance(f.txns), nil
}

func (f *fakeAggregator) Categories(ctx context.Context, userID int64) ([]models.Category, error) {
	return f.categories, f.catErr
}

// computeBalance mirrors the single-pass SQL aggregation.
func computeBalance(txns []models.Transaction) *models.BalanceSummary {
	s := &models.BalanceSummary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		Balance:       decimal.Zero,
	}
	for _, t := range txns {
		switch t.Type {
		case models.TypeIncome:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
			s.Balance = s.Balance.Add(t.Amount)
		case models.TypeExpense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
			s.Balance = s.Balance.Sub(t.Amount)
		}
	}
	return s
}

func txn(id int64, txType, category, amount string, date time.Time, description *string) models.Transaction {
	return models.Transaction{
		ID:              id,
		UserID:          1,
		Type:            txType,
		Category:        category,
		Amount:          decimal.RequireFromString(amount),
		Description:     description,
		TransactionDate: date,
		CreatedAt:       date,
	}
}

func strPtr(s string) *string { return &s }

func fixedClock(b *ContextBuilder, t time.Time) *ContextBuilder {
	b.now = func() time.Time { return t }
	return b
}

func TestComputeBalance_Scenario(t *testing.T) {
	txns := []models.Transaction{
		txn(1, models.TypeIncome, "Salary", "1000.00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil),
		txn(2, models.TypeExpense, "Food & Dining", "200.50", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), nil),
	}

	s := computeBalance(txns)
	assert.Equal(t, "1000.00", s.TotalIncome.StringFixed(2))
	assert.Equal(t, "200.50", s.TotalExpenses.StringFixed(2))
	assert.Equal(t, "799.50", s.Balance.StringFixed(2))
	assert.True(t, s.Balance.Equal(s.TotalIncome.Sub(s.TotalExpenses)))
}

func TestComputeBalance_Empty(t *testing.T) {
	s := computeBalance(nil)
	assert.True(t, s.TotalIncome.IsZero())
	assert.True(t, s.TotalExpenses.IsZero())
	assert.True(t, s.Balance.IsZero())
}

func TestBuildContext_RendersTotals(t *testing.T) {
	agg := &fakeAggregator{
		txns: []models.Transaction{
			txn(1, models.TypeIncome, "Salary", "1000.00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), strPtr("January pay")),
			txn(2, models.TypeExpense, "Food & Dining", "200.50", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), nil),
		},
		categories: []models.Category{
			{ID: 1, Name: "Salary", Type: models.TypeIncome},
			{ID: 2, Name: "Food & Dining", Type: models.TypeExpense},
			{ID: 3, Name: "Housing", Type: models.TypeExpense},
		},
	}
	b := fixedClock(NewContextBuilder(agg), time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))

	out, err := b.BuildContext(context.Background(), 1)
	require.NoError(t, err)

	assert.Contains(t, out, "Total Income: $1000.00")
	assert.Contains(t, out, "Total Expenses: $200.50")
	assert.Contains(t, out, "Current Balance: $799.50")
	assert.Contains(t, out, "Monthly Income: $1000.00")
	assert.Contains(t, out, "Monthly Expenses: $200.50")
	assert.Contains(t, out, "Monthly Balance: $799.50")
	assert.Contains(t, out, "- 2024-01-01: $1000.00 (Salary) - January pay")
	assert.Contains(t, out, "- 2024-01-05: $200.50 (Food & Dining) - No description")
	assert.Contains(t, out, "Income: Salary")
	assert.Contains(t, out, "Expense: Food & Dining, Housing")
}

func TestBuildContext_MonthlyPartition(t *testing.T) {
	now := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	agg := &fakeAggregator{
		txns: []models.Transaction{
			// inside [2024-02-01, 2024-02-10]
			txn(1, models.TypeIncome, "Salary", "500.00", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), nil),
			txn(2, models.TypeExpense, "Housing", "100.00", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), nil),
			// outside: previous month and future-dated
			txn(3, models.TypeIncome, "Salary", "999.00", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), nil),
			txn(4, models.TypeExpense, "Housing", "888.00", time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC), nil),
		},
	}
	b := fixedClock(NewContextBuilder(agg), now)

	out, err := b.BuildContext(context.Background(), 1)
	require.NoError(t, err)

	assert.Contains(t, out, "Monthly Income: $500.00")
	assert.Contains(t, out, "Monthly Expenses: $100.00")
	assert.Contains(t, out, "Monthly Balance: $400.00")
}

func TestBuildContext_CapsRecentTransactions(t *testing.T) {
	var txns []models.Transaction
	for i := 0; i < 8; i++ {
		date := time.Date(2024, 1, 20-i, 0, 0, 0, 0, time.UTC)
		txns = append(txns, txn(int64(2*i+1), models.TypeIncome, "Salary", "10.00", date, nil))
		txns = append(txns, txn(int64(2*i+2), models.TypeExpense, "Housing", "5.00", date, nil))
	}
	agg := &fakeAggregator{txns: txns}
	b := fixedClock(NewContextBuilder(agg), time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC))

	out, err := b.BuildContext(context.Background(), 1)
	require.NoError(t, err)

	incomeSection := section(out, "RECENT INCOME TRANSACTIONS:", "RECENT EXPENSE TRANSACTIONS:")
	expenseSection := section(out, "RECENT EXPENSE TRANSACTIONS:", "AVAILABLE CATEGORIES:")
	assert.Equal(t, 5, strings.Count(incomeSection, "- "))
	assert.Equal(t, 5, strings.Count(expenseSection, "- "))
}

func TestBuildContext_Deterministic(t *testing.T) {
	agg := &fakeAggregator{
		txns: []models.Transaction{
			txn(1, models.TypeIncome, "Salary", "1000.00", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil),
		},
		categories: []models.Category{{ID: 1, Name: "Salary", Type: models.TypeIncome}},
	}
	b := fixedClock(NewContextBuilder(agg), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	first, err := b.BuildContext(context.Background(), 1)
	require.NoError(t, err)
	second, err := b.BuildContext(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildContext_TotalsMatchBalanceSummary(t *testing.T) {
	agg := &fakeAggregator{
		txns: []models.Transaction{
			txn(1, models.TypeIncome, "Salary", "1234.56", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), nil),
			txn(2, models.TypeExpense, "Housing", "400.00", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), nil),
			txn(3, models.TypeExpense, "Shopping", "34.56", time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), nil),
		},
	}
	b := fixedClock(NewContextBuilder(agg), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	out, err := b.BuildContext(context.Background(), 1)
	require.NoError(t, err)

	summary := computeBalance(agg.txns)
	assert.True(t, summary.TotalIncome.Equal(parseAmount(t, out, "Total Income: ")))
	assert.True(t, summary.TotalExpenses.Equal(parseAmount(t, out, "Total Expenses: ")))
	assert.True(t, summary.Balance.Equal(parseAmount(t, out, "Current Balance: ")))
}

func TestBuildContext_FailureWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	agg := &fakeAggregator{balanceErr: cause}
	b := NewContextBuilder(agg)

	_, err := b.BuildContext(context.Background(), 1)

	var contextErr *ContextError
	require.ErrorAs(t, err, &contextErr)
	assert.ErrorIs(t, err, cause)
}

// section returns the text between two markers.
func section(s, from, to string) string {
	start := strings.Index(s, from)
	end := strings.Index(s, to)
	if start < 0 || end < 0 || end < start {
		return ""
	}
	return s[start:end]
}

func parseAmount(t *testing.T, out, label string) decimal.Decimal {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, label) {
			value := strings.TrimPrefix(strings.TrimPrefix(line, label), "$")
			d, err := decimal.NewFromString(value)
			require.NoError(t, err)
			return d
		}
	}
	t.Fatalf("line with label %q not found in context block", label)
	return decimal.Zero
}
