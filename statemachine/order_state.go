package statemachine

import (
	"fmt"
	"strings"

	"online-canteen-api/models"
)

// Actor identifies who requests a transition
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorSeller   Actor = "seller"
	ActorAdmin    Actor = "admin"
	ActorOwner    Actor = "owner"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor Actor              `json:"actor"`
}

// validTransitions is the authoritative order state machine definition
var validTransitions = []Transition{
	// Seller moves the ticket through the kitchen
	{From: models.StatusPending, To: models.StatusPreparing, Actor: ActorSeller},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: ActorSeller},
	{From: models.StatusReady, To: models.StatusCompleted, Actor: ActorSeller},
	// Either side may cancel while the order is still open
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorSeller},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorSeller},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorSeller},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: ActorCustomer},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move an order from one state to another
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("invalid transition: %s → %s is not allowed for actor '%s'. Valid transitions from %s are: %s",
		from, to, actor, from, describeValidFrom(from))
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	parts := make([]string, len(nexts))
	for i, s := range nexts {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// GetAllTransitions returns the full order state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
