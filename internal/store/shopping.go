package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/taskminder/internal/model"
)

type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

// ShoppingFilter narrows a shopping item query. A nil Purchased matches all items.
type ShoppingFilter struct {
	Purchased *bool
}

func scanShoppingItem(scanner interface{ Scan(...any) error }) (*model.ShoppingItem, error) {
	var item model.ShoppingItem
	var purchased int
	err := scanner.Scan(
		&item.ID, &item.UserID, &item.ItemName, &item.Quantity, &item.Category,
		&purchased, &item.Notes, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.IsPurchased = purchased != 0
	return &item, nil
}

const shoppingCols = `id, user_id, item_name, quantity, category, is_purchased, notes, created_at, updated_at`

func (s *ShoppingStore) Create(userID int64, itemName, quantity, category, notes string) (*model.ShoppingItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO shopping_items (user_id, item_name, quantity, category, notes) VALUES (?, ?, ?, ?, ?)`,
		userID, itemName, quantity, category, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert shopping item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(userID, id)
}

// GetByID returns the item only if it belongs to userID.
func (s *ShoppingStore) GetByID(userID, id int64) (*model.ShoppingItem, error) {
	row := s.db.QueryRow(`SELECT `+shoppingCols+` FROM shopping_items WHERE id = ? AND user_id = ?`, id, userID)
	item, err := scanShoppingItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping item: %w", err)
	}
	return item, nil
}

// List returns the user's items matching f, newest first.
func (s *ShoppingStore) List(userID int64, f ShoppingFilter) ([]model.ShoppingItem, error) {
	query := `SELECT ` + shoppingCols + ` FROM shopping_items WHERE user_id = ?`
	args := []any{userID}
	if f.Purchased != nil {
		query += ` AND is_purchased = ?`
		args = append(args, boolToInt(*f.Purchased))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shopping items: %w", err)
	}
	defer rows.Close()

	var items []model.ShoppingItem
	for rows.Next() {
		item, err := scanShoppingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shopping item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ShoppingStore) Update(item *model.ShoppingItem) (*model.ShoppingItem, error) {
	result, err := s.db.Exec(
		`UPDATE shopping_items SET item_name = ?, quantity = ?, category = ?, notes = ?, is_purchased = ?,
		 updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		item.ItemName, item.Quantity, item.Category, item.Notes, boolToInt(item.IsPurchased), item.ID, item.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("update shopping item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetByID(item.UserID, item.ID)
}

// Delete reports whether a row owned by userID was removed.
func (s *ShoppingStore) Delete(userID, id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM shopping_items WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete shopping item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// TogglePurchased flips is_purchased in place and returns the updated item.
func (s *ShoppingStore) TogglePurchased(userID, id int64) (*model.ShoppingItem, error) {
	result, err := s.db.Exec(
		`UPDATE shopping_items SET is_purchased = 1 - is_purchased, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle purchased: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetByID(userID, id)
}

func (s *ShoppingStore) ClearPurchased(userID int64) (int64, error) {
	result, err := s.db.Exec(
		`DELETE FROM shopping_items WHERE user_id = ? AND is_purchased = 1`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("clear purchased: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
