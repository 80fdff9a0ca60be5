package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/taskminder/internal/auth"
	"github.com/dukerupert/taskminder/internal/planner"
)

const (
	entityShoppingItem = "shopping_item"
	itemNotFoundMsg    = "Item not found"
)

type ShoppingHandler struct {
	items  *planner.ShoppingService
	events Broadcaster
	logger *slog.Logger
}

func NewShoppingHandler(ss *planner.ShoppingService, events Broadcaster, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{items: ss, events: events, logger: logger}
}

func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(auth.UserID(r.Context()), r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, h.logger, err, itemNotFoundMsg)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ShoppingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req planner.ShoppingItemInput
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := auth.UserID(r.Context())
	item, err := h.items.Create(userID, req)
	if err != nil {
		writeError(w, h.logger, err, itemNotFoundMsg)
		return
	}

	publish(h.events, userID, entityShoppingItem, "created", item.ID, nil)
	writeOK(w, "Item added to shopping list", map[string]any{"item": item})
}

func (h *ShoppingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeFail(w, http.StatusNotFound, itemNotFoundMsg)
		return
	}

	var req planner.ShoppingItemPatch
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := auth.UserID(r.Context())
	item, err := h.items.Update(userID, id, req)
	if err != nil {
		writeError(w, h.logger, err, itemNotFoundMsg)
		return
	}

	publish(h.events, userID, entityShoppingItem, "updated", item.ID, nil)
	writeOK(w, "Item updated successfully", map[string]any{"item": item})
}

func (h *ShoppingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeFail(w, http.StatusNotFound, itemNotFoundMsg)
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.items.Delete(userID, id); err != nil {
		writeError(w, h.logger, err, itemNotFoundMsg)
		return
	}

	publish(h.events, userID, entityShoppingItem, "deleted", id, nil)
	writeOK(w, "Item deleted successfully", nil)
}

func (h *ShoppingHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeFail(w, http.StatusNotFound, itemNotFoundMsg)
		return
	}

	userID := auth.UserID(r.Context())
	item, err := h.items.Toggle(userID, id)
	if err != nil {
		writeError(w, h.logger, err, itemNotFoundMsg)
		return
	}

	msg := "Item marked as not purchased"
	if item.IsPurchased {
		msg = "Item marked as purchased"
	}
	publish(h.events, userID, entityShoppingItem, "toggled", item.ID, map[string]any{"is_purchased": item.IsPurchased})
	writeOK(w, msg, map[string]any{"is_purchased": item.IsPurchased})
}

func (h *ShoppingHandler) ClearPurchased(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	n, err := h.items.ClearPurchased(userID)
	if err != nil {
		writeError(w, h.logger, err, itemNotFoundMsg)
		return
	}

	if n > 0 {
		publish(h.events, userID, entityShoppingItem, "cleared", 0, map[string]any{"count": n})
	}
	writeOK(w, "Purchased items cleared", map[string]any{"cleared": n})
}
