package handlers

import (
	"net/http"

	"online-canteen-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ── Menu Management ──────────────────────────────────────────────────────────

type AddonRequest struct {
	Label string          `json:"label" binding:"required"`
	Price decimal.Decimal `json:"price"`
}

type MenuItemRequest struct {
	Name        string           `json:"name" binding:"required,max=100"`
	Description string           `json:"description" binding:"max=500"`
	ImageURL    string           `json:"image_url" binding:"omitempty,url"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	IsAvailable *bool            `json:"is_available"`
	Variants    []string         `json:"variants"`
	Addons      []AddonRequest   `json:"addons" binding:"dive"`
	Flavors     []string         `json:"flavors"`
}

// input falls back to available when is_available is omitted
func (r MenuItemRequest) input(available bool) services.MenuItemInput {
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}
	in := services.MenuItemInput{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Price:       *r.Price,
		IsAvailable: available,
		Variants:    r.Variants,
		Flavors:     r.Flavors,
	}
	for _, a := range r.Addons {
		in.Addons = append(in.Addons, services.AddonInput{Label: a.Label, Price: a.Price})
	}
	return in
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// CreateMenuItem adds an item to the caller's ACTIVE shop
func (h *Handler) CreateMenuItem(c *gin.Context) {
	shopID, ok := parseID(c, "id")
	if !ok || !h.requireShopOwner(c, shopID) {
		return
	}
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.menu.CreateMenuItem(c.Request.Context(), shopID, req.input(true))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "menu_item": toMenuItem(item)})
}

// ownedMenuItem loads the item and checks the caller owns its shop
func (h *Handler) ownedMenuItem(c *gin.Context) (uint, bool, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return 0, false, false
	}
	item, err := h.menu.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return 0, false, false
	}
	if !h.requireShopOwner(c, item.ShopID) {
		return 0, false, false
	}
	return id, item.IsAvailable, true
}

func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, available, ok := h.ownedMenuItem(c)
	if !ok {
		return
	}
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.menu.UpdateMenuItem(c.Request.Context(), id, req.input(available))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "menu_item": toMenuItem(item)})
}

func (h *Handler) UpdateMenuItemAvailability(c *gin.Context) {
	id, _, ok := h.ownedMenuItem(c)
	if !ok {
		return
	}
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.menu.UpdateAvailability(c.Request.Context(), id, *req.IsAvailable)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated", "menu_item": toMenuItem(item)})
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, _, ok := h.ownedMenuItem(c)
	if !ok {
		return
	}
	if err := h.menu.DeleteMenuItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
