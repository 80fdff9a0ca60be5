package planner

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/taskminder/internal/model"
	"github.com/dukerupert/taskminder/internal/store"
)

// ShoppingItemInput is the payload for adding an item to the list.
type ShoppingItemInput struct {
	ItemName string `json:"item_name" validate:"required,max=200"`
	Quantity string `json:"quantity" validate:"max=50"`
	Category string `json:"category" validate:"max=50"`
	Notes    string `json:"notes"`
}

// ShoppingItemPatch is a partial update. Nil fields keep their stored value.
type ShoppingItemPatch struct {
	ItemName    *string `json:"item_name" validate:"omitempty,max=200"`
	Quantity    *string `json:"quantity" validate:"omitempty,max=50"`
	Category    *string `json:"category" validate:"omitempty,max=50"`
	Notes       *string `json:"notes"`
	IsPurchased *bool   `json:"is_purchased"`
}

type ShoppingService struct {
	items    *store.ShoppingStore
	validate *validator.Validate
}

func NewShoppingService(ss *store.ShoppingStore) *ShoppingService {
	return &ShoppingService{items: ss, validate: newValidator()}
}

// List returns the owner's items for the named filter, newest first.
func (s *ShoppingService) List(userID int64, filter string) ([]model.ShoppingItem, error) {
	items, err := s.items.List(userID, ParseShoppingView(filter).Filter())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.ShoppingItem{}
	}
	return items, nil
}

func (s *ShoppingService) Create(userID int64, in ShoppingItemInput) (*model.ShoppingItem, error) {
	in.ItemName = strings.TrimSpace(in.ItemName)
	in.Category = strings.TrimSpace(in.Category)
	if err := checkStruct(s.validate, in); err != nil {
		return nil, err
	}
	if in.Quantity == "" {
		in.Quantity = model.DefaultShoppingQuantity
	}
	if in.Category == "" {
		in.Category = model.DefaultShoppingCategory
	}
	return s.items.Create(userID, in.ItemName, in.Quantity, in.Category, in.Notes)
}

func (s *ShoppingService) Update(userID, id int64, p ShoppingItemPatch) (*model.ShoppingItem, error) {
	if err := checkStruct(s.validate, p); err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	if p.ItemName != nil {
		name := strings.TrimSpace(*p.ItemName)
		if name == "" {
			return nil, invalid("item_name", "item_name cannot be empty")
		}
		item.ItemName = name
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Category != nil {
		item.Category = strings.TrimSpace(*p.Category)
		if item.Category == "" {
			item.Category = model.DefaultShoppingCategory
		}
	}
	if p.Notes != nil {
		item.Notes = *p.Notes
	}
	if p.IsPurchased != nil {
		item.IsPurchased = *p.IsPurchased
	}

	updated, err := s.items.Update(item)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

func (s *ShoppingService) Delete(userID, id int64) error {
	deleted, err := s.items.Delete(userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// Toggle flips the purchased flag and returns the item in its new state.
func (s *ShoppingService) Toggle(userID, id int64) (*model.ShoppingItem, error) {
	item, err := s.items.TogglePurchased(userID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// ClearPurchased deletes every purchased item the owner has and returns
// how many were removed. Zero is not an error.
func (s *ShoppingService) ClearPurchased(userID int64) (int64, error) {
	return s.items.ClearPurchased(userID)
}
