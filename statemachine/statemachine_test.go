package statemachine

import (
	"testing"

	"online-canteen-api/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_Order(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		actor    Actor
		ok       bool
	}{
		{models.StatusPending, models.StatusPreparing, ActorSeller, true},
		{models.StatusPreparing, models.StatusReady, ActorSeller, true},
		{models.StatusReady, models.StatusCompleted, ActorSeller, true},
		{models.StatusPending, models.StatusCancelled, ActorCustomer, true},
		{models.StatusReady, models.StatusCancelled, ActorSeller, true},
		{models.StatusPending, models.StatusPreparing, ActorCustomer, false},
		{models.StatusPending, models.StatusCompleted, ActorSeller, false},
		{models.StatusReady, models.StatusPreparing, ActorSeller, false},
		{models.StatusCompleted, models.StatusCancelled, ActorSeller, false},
		{models.StatusCancelled, models.StatusPending, ActorSeller, false},
	}
	for _, tt := range tests {
		err := CanTransition(tt.from, tt.to, tt.actor)
		if tt.ok {
			assert.NoError(t, err, "%s -> %s by %s", tt.from, tt.to, tt.actor)
		} else {
			assert.Error(t, err, "%s -> %s by %s", tt.from, tt.to, tt.actor)
		}
	}
}

func TestValidTransitionsFrom_Terminal(t *testing.T) {
	assert.Empty(t, ValidTransitionsFrom(models.StatusCompleted))
	assert.Empty(t, ValidTransitionsFrom(models.StatusCancelled))
	assert.ElementsMatch(t,
		[]models.OrderStatus{models.StatusPreparing, models.StatusCancelled},
		ValidTransitionsFrom(models.StatusPending))

	err := CanTransition(models.StatusCompleted, models.StatusReady, ActorSeller)
	assert.Contains(t, err.Error(), "terminal state")
}

func TestCanTransitionShop(t *testing.T) {
	assert.NoError(t, CanTransitionShop(models.ShopPending, models.ShopActive, ActorAdmin))
	assert.NoError(t, CanTransitionShop(models.ShopSuspended, models.ShopActive, ActorAdmin))
	assert.NoError(t, CanTransitionShop(models.ShopActive, models.ShopClosed, ActorOwner))
	assert.Error(t, CanTransitionShop(models.ShopActive, models.ShopActive, ActorAdmin))
	assert.Error(t, CanTransitionShop(models.ShopPending, models.ShopActive, ActorOwner))
	assert.Error(t, CanTransitionShop(models.ShopRejected, models.ShopActive, ActorAdmin))
	assert.Error(t, CanTransitionShop(models.ShopClosed, models.ShopActive, ActorAdmin))
}

func TestShopSourcesFor(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.ShopStatus{models.ShopPending, models.ShopSuspended},
		ShopSourcesFor(models.ShopActive, ActorAdmin))
	assert.Equal(t, []models.ShopStatus{models.ShopPending}, ShopSourcesFor(models.ShopRejected, ActorAdmin))
}
