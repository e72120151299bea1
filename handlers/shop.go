package handlers

import (
	"net/http"

	"online-canteen-api/middleware"
	"online-canteen-api/models"
	"online-canteen-api/services"

	"github.com/gin-gonic/gin"
)

// ── Shop Management ──────────────────────────────────────────────────────────

// ShopRequest carries descriptive fields only. Status, owner and isOpen are
// never read from the payload.
type ShopRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Description   string `json:"description" binding:"max=500"`
	Address       string `json:"address" binding:"max=200"`
	Location      string `json:"location" binding:"omitempty,shop_location"`
	ContactNumber string `json:"contact_number" binding:"omitempty,contact_number"`
	ImageURL      string `json:"image_url" binding:"omitempty,url"`
}

func (r ShopRequest) input() services.ShopInput {
	return services.ShopInput{
		Name:          r.Name,
		Description:   r.Description,
		Address:       r.Address,
		Location:      models.ShopLocation(r.Location),
		ContactNumber: r.ContactNumber,
		ImageURL:      r.ImageURL,
	}
}

// CreateShop files a shop application for the caller
func (h *Handler) CreateShop(c *gin.Context) {
	var req ShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	shop, err := h.shops.CreateShop(c.Request.Context(), middleware.GetUserID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Shop application submitted and awaiting admin approval",
		"shop":    toShop(shop),
	})
}

// GetMyShops lists every shop owned by the caller, whatever its status
func (h *Handler) GetMyShops(c *gin.Context) {
	shops, err := h.shops.ListByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(shops), "shops": toShops(shops)})
}

// UpdateShop updates shop details (owner only)
func (h *Handler) UpdateShop(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok || !h.requireShopOwner(c, id) {
		return
	}
	var req ShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	shop, err := h.shops.UpdateShop(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shop updated", "shop": toShop(shop)})
}

// DeleteShop soft-deletes a shop by closing it (owner only)
func (h *Handler) DeleteShop(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok || !h.requireShopOwner(c, id) {
		return
	}
	shop, err := h.shops.SoftDelete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shop closed", "shop": toShop(shop)})
}

// ToggleShopStatus opens or closes an ACTIVE shop for the day
func (h *Handler) ToggleShopStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok || !h.requireShopOwner(c, id) {
		return
	}
	shop, err := h.shops.ToggleOpenStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	state := "closed"
	if shop.IsOpen {
		state = "open"
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shop is now " + state, "shop": toShop(shop)})
}
