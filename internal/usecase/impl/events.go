package impl

import (
	"context"
	"fmt"
	"log/slog"

	deliverycontext "coti/internal/delivery/context"
	"coti/internal/domain/entity"
	"coti/internal/domain/service"

	"github.com/google/uuid"
)

// Notification content builders. Titles and bodies are Spanish, matching the
// product locale. Each event carries the entity IDs the mobile client needs
// to deep-link into the right screen.

func offerReceivedEvent(list *entity.ShoppingList, offer *entity.Offer) *service.NotificationEvent {
	return &service.NotificationEvent{
		Kind:         service.EventOfferReceived,
		RecipientIDs: []string{list.BuyerID.String()},
		Title:        "Nueva oferta recibida",
		Body:         fmt.Sprintf("Recibiste una oferta de $%.2f por \"%s\"", offer.Price, list.Title),
		Data: map[string]string{
			"list_id":  list.ID.String(),
			"offer_id": offer.ID.String(),
		},
	}
}

func offerAcceptedEvent(list *entity.ShoppingList, order *entity.Order) *service.NotificationEvent {
	return &service.NotificationEvent{
		Kind:         service.EventOfferAccepted,
		RecipientIDs: []string{order.SellerID.String()},
		Title:        "¡Tu oferta fue aceptada!",
		Body:         fmt.Sprintf("El comprador aceptó tu oferta por \"%s\"", list.Title),
		Data: map[string]string{
			"list_id":  list.ID.String(),
			"offer_id": order.OfferID.String(),
			"order_id": order.ID.String(),
		},
	}
}

func offerRejectedEvent(list *entity.ShoppingList, rejectedSellerIDs []uuid.UUID) *service.NotificationEvent {
	recipients := make([]string, len(rejectedSellerIDs))
	for i, id := range rejectedSellerIDs {
		recipients[i] = id.String()
	}

	return &service.NotificationEvent{
		Kind:         service.EventOfferRejected,
		RecipientIDs: recipients,
		Title:        "Oferta no seleccionada",
		Body:         fmt.Sprintf("El comprador eligió otra oferta para \"%s\"", list.Title),
		Data: map[string]string{
			"list_id": list.ID.String(),
		},
	}
}

func orderShippedEvent(order *entity.Order) *service.NotificationEvent {
	return &service.NotificationEvent{
		Kind:         service.EventOrderShipped,
		RecipientIDs: []string{order.BuyerID.String()},
		Title:        "Pedido en camino",
		Body:         "El vendedor marcó tu pedido como enviado",
		Data: map[string]string{
			"order_id": order.ID.String(),
		},
	}
}

// orderCompletedEvent goes to both parties: completion opens the rating
// window for each of them.
func orderCompletedEvent(order *entity.Order) *service.NotificationEvent {
	return &service.NotificationEvent{
		Kind:         service.EventOrderCompleted,
		RecipientIDs: []string{order.BuyerID.String(), order.SellerID.String()},
		Title:        "Pedido completado",
		Body:         "La entrega fue confirmada. ¡Ya puedes calificar a tu contraparte!",
		Data: map[string]string{
			"order_id": order.ID.String(),
		},
	}
}

// publishEvent hands an event to the publisher after the triggering write has
// committed. Failures are logged and swallowed: a lost push never rolls back
// or fails a lifecycle transition.
func publishEvent(ctx context.Context, publisher service.EventPublisher, logger *slog.Logger, event *service.NotificationEvent) {
	if publisher == nil || event == nil || len(event.RecipientIDs) == 0 {
		return
	}

	event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)

	if err := publisher.PublishNotificationEvent(ctx, event); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, logger).Warn("Failed to publish notification event",
			slog.String("kind", event.Kind),
			slog.Any("error", err))
	}
}
