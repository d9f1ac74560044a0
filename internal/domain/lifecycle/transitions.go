package lifecycle

import (
	"time"

	"coti/internal/domain/entity"

	"github.com/google/uuid"
)

// Party identifies which side of an order an actor is on.
type Party string

const (
	// PartyBuyer is the order's buyer.
	PartyBuyer Party = "buyer"
	// PartySeller is the order's seller.
	PartySeller Party = "seller"
	// PartyNone means the actor is not a party to the order.
	PartyNone Party = "none"
)

// PartyOf resolves the actor's party on an order.
func PartyOf(order *entity.Order, actorID uuid.UUID) Party {
	switch actorID {
	case order.BuyerID:
		return PartyBuyer
	case order.SellerID:
		return PartySeller
	default:
		return PartyNone
	}
}

// orderEdge is one legal transition of the order state machine.
type orderEdge struct {
	from  entity.OrderStatus
	to    entity.OrderStatus
	actor Party
}

// orderTransitions is the complete transition table for orders. Transitions
// are strictly forward; there are no skip edges and no re-entry into a state.
var orderTransitions = []orderEdge{
	{from: entity.OrderStatusConfirmed, to: entity.OrderStatusEnviado, actor: PartySeller},
	{from: entity.OrderStatusEnviado, to: entity.OrderStatusCompleted, actor: PartyBuyer},
}

// OrderAdvanceDecision is the verdict on a requested order transition.
type OrderAdvanceDecision int

const (
	// AdvanceOK means the transition is legal for this actor.
	AdvanceOK OrderAdvanceDecision = iota
	// AdvanceIllegalTransition means no edge connects the current and target statuses.
	AdvanceIllegalTransition
	// AdvanceWrongActor means the edge exists but belongs to the other party.
	AdvanceWrongActor
	// AdvanceNotParty means the actor is neither the buyer nor the seller.
	AdvanceNotParty
)

// CheckOrderAdvance validates {current status, actor, target status} against
// the transition table without touching storage.
func CheckOrderAdvance(order *entity.Order, actorID uuid.UUID, target entity.OrderStatus) OrderAdvanceDecision {
	party := PartyOf(order, actorID)
	if party == PartyNone {
		return AdvanceNotParty
	}

	for _, edge := range orderTransitions {
		if edge.from != order.Status || edge.to != target {
			continue
		}
		if edge.actor != party {
			return AdvanceWrongActor
		}

		return AdvanceOK
	}

	return AdvanceIllegalTransition
}

// RequiredActorFor returns the party allowed to drive the order into target
// from its current status, or PartyNone when no such edge exists.
func RequiredActorFor(current, target entity.OrderStatus) Party {
	for _, edge := range orderTransitions {
		if edge.from == current && edge.to == target {
			return edge.actor
		}
	}

	return PartyNone
}

// CanAcceptOffer checks the preconditions of the accept-offer transaction:
// the caller owns the list, the list is still open and the offer is pending.
// The returned sentinel distinguishes the failure for the error taxonomy.
func CanAcceptOffer(list *entity.ShoppingList, offer *entity.Offer, buyerID uuid.UUID) AcceptDecision {
	if list.BuyerID != buyerID {
		return AcceptNotListBuyer
	}
	if list.Status != entity.ListStatusActive {
		return AcceptListNotActive
	}
	if offer.Status != entity.OfferStatusPending {
		return AcceptOfferNotPending
	}
	if offer.ShoppingListID != list.ID {
		return AcceptOfferListMismatch
	}

	return AcceptOK
}

// AcceptDecision is the verdict on an accept-offer attempt.
type AcceptDecision int

const (
	// AcceptOK means the offer may be accepted.
	AcceptOK AcceptDecision = iota
	// AcceptNotListBuyer means the caller does not own the list.
	AcceptNotListBuyer
	// AcceptListNotActive means the list already closed (usually a lost race).
	AcceptListNotActive
	// AcceptOfferNotPending means the offer was already decided.
	AcceptOfferNotPending
	// AcceptOfferListMismatch means the offer does not belong to the list.
	AcceptOfferListMismatch
)

// CanSubmitOffer checks that a list is open for new offers: active status
// and an offer window that has not yet closed. Expiry is enforced lazily at
// read and submit time; nothing rewrites the stored status.
func CanSubmitOffer(list *entity.ShoppingList, now time.Time) bool {
	return list.Status == entity.ListStatusActive && !list.IsExpired(now)
}

// CanRate checks that an order is in a state where ratings are accepted and
// that the rater is a party to it.
func CanRate(order *entity.Order, raterID uuid.UUID) bool {
	return order.Status == entity.OrderStatusCompleted && order.IsParty(raterID)
}
