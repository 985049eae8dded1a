package db

import (
	"context"
	"fmt"

	cache "fintrack-server/src/db"
	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

func categoryCacheKey(userID int64) string {
	return fmt.Sprintf("categories:%d", userID)
}

// GetCategoriesForUser returns the global default categories unioned with
// the user's own. Results are cached until the user's catalog changes.
func GetCategoriesForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.Category, error) {
	cacheKey := categoryCacheKey(userID)
	if cached, found := cache.Cache.Get(cacheKey); found {
		if categories, ok := cached.([]models.Category); ok {
			return categories, nil
		}
	}

	query := `
		SELECT id, user_id, name, type
		FROM categories
		WHERE user_id IS NULL OR user_id = $1
		ORDER BY type, name
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cache.SetCategoryCache(cacheKey, categories)
	return categories, nil
}

func CreateCategory(ctx context.Context, pool *pgxpool.Pool, userID int64, name, catType string) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, type
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, userID, name, catType).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Type)
	if err != nil {
		return nil, err
	}
	cache.DelCategoryCache(categoryCacheKey(userID))
	return &c, nil
}

// DeleteCategory removes one of the user's own categories. Global defaults
// (user_id NULL) never match the filter.
func DeleteCategory(ctx context.Context, pool *pgxpool.Pool, userID, categoryID int64) error {
	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, categoryID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("category not found")
	}
	cache.DelCategoryCache(categoryCacheKey(userID))
	return nil
}
