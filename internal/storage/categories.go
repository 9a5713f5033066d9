package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/model"
)

const categoryColumns = `id, user_id, name, description, is_income, parent_id, created_at`

// CreateCategory inserts a new category row.
func (s *Store) CreateCategory(ctx context.Context, category model.Category) error {
	return s.withDB(ctx, func(db *sql.DB) error {
		if category.ParentID != nil {
			if err := checkParentChain(ctx, db, category.ID, *category.ParentID); err != nil {
				return err
			}
		}

		_, err := db.ExecContext(ctx,
			`INSERT INTO categories (id, user_id, name, description, is_income, parent_id)
			VALUES (?, ?, ?, ?, ?, ?)`,
			category.ID, category.UserID, category.Name,
			nullable(category.Description), category.IsIncome,
			nullableRef(category.ParentID))
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		slog.Info("created category", "id", category.ID, "name", category.Name)
		return nil
	})
}

// GetCategory returns a category by id, or ErrNotFound.
func (s *Store) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var category *model.Category
	err := s.withDB(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
		c, scanErr := scanCategory(row)
		if scanErr == sql.ErrNoRows {
			return fmt.Errorf("%w: category %s", ErrNotFound, id)
		}
		if scanErr != nil {
			return fmt.Errorf("failed to scan category: %w", scanErr)
		}
		category = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories returns all of a user's categories ordered by name.
func (s *Store) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var categories []model.Category
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? ORDER BY name`, userID)
		if err != nil {
			return fmt.Errorf("failed to query categories: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			c, scanErr := scanCategory(rows)
			if scanErr != nil {
				return fmt.Errorf("failed to scan category: %w", scanErr)
			}
			categories = append(categories, *c)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateCategory updates a category. A parent change is rejected if it would
// introduce a cycle in the category tree.
func (s *Store) UpdateCategory(ctx context.Context, category model.Category) error {
	return s.withDB(ctx, func(db *sql.DB) error {
		if category.ParentID != nil {
			if err := checkParentChain(ctx, db, category.ID, *category.ParentID); err != nil {
				return err
			}
		}

		res, err := db.ExecContext(ctx,
			`UPDATE categories SET name = ?, description = ?, is_income = ?, parent_id = ?
			WHERE id = ? AND user_id = ?`,
			category.Name, nullable(category.Description), category.IsIncome,
			nullableRef(category.ParentID), category.ID, category.UserID)
		if err != nil {
			return fmt.Errorf("failed to update category: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return fmt.Errorf("%w: category %s", ErrNotFound, category.ID)
		}
		return nil
	})
}

// DeleteCategory removes a category. Deletion is blocked while transactions
// still reference it.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.withDB(ctx, func(db *sql.DB) error {
		var inUse int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM transactions WHERE category_id = ?`, id).Scan(&inUse)
		if err != nil {
			return fmt.Errorf("failed to count category transactions: %w", err)
		}
		if inUse > 0 {
			return fmt.Errorf("%w: category %s has %d transactions", common.ErrCategoryInUse, id, inUse)
		}

		res, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return fmt.Errorf("%w: category %s", ErrNotFound, id)
		}
		return nil
	})
}

// checkParentChain walks up from parentID and rejects the assignment if the
// chain reaches id (which would close a cycle) or a missing row.
func checkParentChain(ctx context.Context, db *sql.DB, id, parentID string) error {
	current := parentID
	for current != "" {
		if current == id {
			return fmt.Errorf("%w: category %s", common.ErrCategoryCycle, id)
		}
		var next sql.NullString
		err := db.QueryRowContext(ctx,
			`SELECT parent_id FROM categories WHERE id = ?`, current).Scan(&next)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: parent category %s", ErrNotFound, current)
		}
		if err != nil {
			return fmt.Errorf("failed to walk category parents: %w", err)
		}
		current = next.String
	}
	return nil
}

func scanCategory(row scanner) (*model.Category, error) {
	var c model.Category
	var description, parentID sql.NullString
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &description, &c.IsIncome, &parentID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Description = description.String
	if parentID.Valid {
		c.ParentID = &parentID.String
	}
	return &c, nil
}
