package handlers

import (
	"net/http"
	"strings"

	"online-canteen-api/models"
	"online-canteen-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ListShops returns shops currently accepting orders (public)
func (h *Handler) ListShops(c *gin.Context) {
	shops, err := h.shops.ListOperational(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if loc := c.Query("location"); loc != "" {
		want := models.ShopLocation(strings.ToUpper(loc))
		filtered := shops[:0]
		for _, s := range shops {
			if s.Location == want {
				filtered = append(filtered, s)
			}
		}
		shops = filtered
	}
	c.JSON(http.StatusOK, gin.H{"count": len(shops), "shops": toShops(shops)})
}

// GetShop returns a single shop
func (h *Handler) GetShop(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	shop, err := h.shops.GetShop(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shop": toShop(shop)})
}

// GetMenu returns the menu for a shop; ?available=true hides sold-out items
func (h *Handler) GetMenu(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	shop, err := h.shops.GetShop(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	var items []models.MenuItem
	if c.Query("available") == "true" {
		items, err = h.menu.GetAvailableByShop(ctx, id)
	} else {
		items, err = h.menu.GetByShop(ctx, id)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shop":  shop.Name,
		"count": len(items),
		"menu":  toMenuItems(items),
	})
}

// SearchMenu matches item names case-insensitively
func (h *Handler) SearchMenu(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}
	items, err := h.menu.Search(c.Request.Context(), id, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": toMenuItems(items)})
}

// MenuByMaxPrice lists items priced at or below ?max=
func (h *Handler) MenuByMaxPrice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	max, err := decimal.NewFromString(c.Query("max"))
	if err != nil || max.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter max must be a non-negative amount"})
		return
	}
	items, err := h.menu.ByMaxPrice(c.Request.Context(), id, max)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": toMenuItems(items)})
}

func (h *Handler) CountAvailableMenu(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	n, err := h.menu.CountAvailable(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shop_id": id, "available": n})
}

func (h *Handler) GetMenuItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := h.menu.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu_item": toMenuItem(item)})
}

// GetMenuItemOptions returns the item with variants, addons and flavors
func (h *Handler) GetMenuItemOptions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := h.menu.GetOptions(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menu_item": toMenuItem(item)})
}

// ListLocations returns the canteen sites a shop can be placed at
func (h *Handler) ListLocations(c *gin.Context) {
	locs := models.Locations()
	out := make([]gin.H, 0, len(locs))
	for _, l := range locs {
		out = append(out, gin.H{"value": l, "display_name": l.DisplayName()})
	}
	c.JSON(http.StatusOK, gin.H{"locations": out})
}

// GetStateMachineInfo returns both state machines for informational purposes
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"order": gin.H{
			"transitions":     statemachine.GetAllTransitions(),
			"terminal_states": models.TerminalStatuses,
			"description":     "Canteen order lifecycle",
		},
		"shop": gin.H{
			"transitions": statemachine.GetAllShopTransitions(),
			"description": "Shop approval workflow",
		},
	})
}
