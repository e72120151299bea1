package handlers

import (
	"net/http"
	"strings"
	"time"

	"online-canteen-api/models"
	"online-canteen-api/services"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// GetShopOrders lists a shop's orders, newest first; ?status= narrows them
func (h *Handler) GetShopOrders(c *gin.Context) {
	shopID, ok := parseID(c, "id")
	if !ok || !h.requireShopOwner(c, shopID) {
		return
	}
	status := models.OrderStatus(strings.ToUpper(c.Query("status")))
	orders, err := h.orders.GetByShop(c.Request.Context(), shopID, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": toOrders(orders)})
}

// GetActiveShopOrders is the kitchen queue: open orders by queue number
func (h *Handler) GetActiveShopOrders(c *gin.Context) {
	shopID, ok := parseID(c, "id")
	if !ok || !h.requireShopOwner(c, shopID) {
		return
	}
	orders, err := h.orders.GetActiveByShop(c.Request.Context(), shopID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": toOrders(orders)})
}

// GetShopRevenue sums COMPLETED orders between startDate and endDate, both
// inclusive calendar days
func (h *Handler) GetShopRevenue(c *gin.Context) {
	shopID, ok := parseID(c, "id")
	if !ok || !h.requireShopOwner(c, shopID) {
		return
	}
	loc := h.orders.Location()
	startDay, err1 := time.ParseInLocation(dateLayout, c.Query("startDate"), loc)
	endDay, err2 := time.ParseInLocation(dateLayout, c.Query("endDate"), loc)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate and endDate must be dates in YYYY-MM-DD format"})
		return
	}
	start, _ := services.DayBounds(startDay, loc)
	_, end := services.DayBounds(endDay, loc)

	revenue, err := h.orders.CalculateRevenue(c.Request.Context(), shopID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"shop_id":    shopID,
		"start_date": c.Query("startDate"),
		"end_date":   c.Query("endDate"),
		"revenue":    money(revenue),
	})
}
