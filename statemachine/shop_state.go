package statemachine

import (
	"fmt"

	"online-canteen-api/models"
)

type ShopTransition struct {
	From  models.ShopStatus `json:"from"`
	To    models.ShopStatus `json:"to"`
	Actor Actor             `json:"actor"`
}

// shopTransitions drives the approval workflow. REJECTED and CLOSED are terminal.
var shopTransitions = []ShopTransition{
	{From: models.ShopPending, To: models.ShopActive, Actor: ActorAdmin},
	{From: models.ShopPending, To: models.ShopRejected, Actor: ActorAdmin},
	{From: models.ShopActive, To: models.ShopSuspended, Actor: ActorAdmin},
	{From: models.ShopSuspended, To: models.ShopActive, Actor: ActorAdmin},

	{From: models.ShopPending, To: models.ShopClosed, Actor: ActorAdmin},
	{From: models.ShopActive, To: models.ShopClosed, Actor: ActorAdmin},
	{From: models.ShopSuspended, To: models.ShopClosed, Actor: ActorAdmin},

	// owner withdrawing an application or soft-deleting the shop
	{From: models.ShopPending, To: models.ShopClosed, Actor: ActorOwner},
	{From: models.ShopActive, To: models.ShopClosed, Actor: ActorOwner},
	{From: models.ShopSuspended, To: models.ShopClosed, Actor: ActorOwner},
}

type shopKey struct {
	From  models.ShopStatus
	To    models.ShopStatus
	Actor Actor
}

var shopTransitionMap = func() map[shopKey]bool {
	m := make(map[shopKey]bool)
	for _, t := range shopTransitions {
		m[shopKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// CanTransitionShop checks a shop status change for the given actor
func CanTransitionShop(from, to models.ShopStatus, actor Actor) error {
	if shopTransitionMap[shopKey{from, to, actor}] {
		return nil
	}
	return fmt.Errorf("shop cannot move from %s to %s as %s", from, to, actor)
}

// ShopSourcesFor lists the states from which actor may move a shop to target
func ShopSourcesFor(to models.ShopStatus, actor Actor) []models.ShopStatus {
	var from []models.ShopStatus
	for _, t := range shopTransitions {
		if t.To == to && t.Actor == actor {
			from = append(from, t.From)
		}
	}
	return from
}

func GetAllShopTransitions() []ShopTransition {
	return shopTransitions
}
