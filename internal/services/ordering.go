package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
)

type OrderService struct {
	clientRepo repository.ClientRepository
}

func NewOrderService(clientRepo repository.ClientRepository) *OrderService {
	return &OrderService{clientRepo: clientRepo}
}

// ChangePosition moves a client to the 1-based newPosition within its
// day list and densely renumbers every member of that list. The whole
// renumbering lands in one batch write, not a single-record patch.
// Non-positive positions are a no-op.
func (service *OrderService) ChangePosition(ctx context.Context, scope models.Scope, clientID string, newPosition int, day string, now time.Time) error {
	if newPosition <= 0 {
		return nil
	}

	clients, err := service.clientRepo.FindAll(ctx, scope)
	if err != nil {
		return fmt.Errorf("loading clients for reorder: %w", err)
	}

	ordered := append(VisibleClients(clients, day, now), CompletedClients(clients, day)...)

	index := -1
	for i, client := range ordered {
		if client.ID == clientID {
			index = i
			break
		}
	}
	if index < 0 {
		// Not on this day's list; nothing to renumber.
		return nil
	}

	target := ordered[index]
	ordered = append(ordered[:index], ordered[index+1:]...)

	insertAt := newPosition - 1
	if insertAt > len(ordered) {
		insertAt = len(ordered)
	}
	ordered = append(ordered[:insertAt], append([]models.Client{target}, ordered[insertAt:]...)...)

	updates := make([]repository.ListOrderUpdate, 0, len(ordered))
	for position, client := range ordered {
		updates = append(updates, repository.ListOrderUpdate{
			ClientID: client.ID,
			Day:      day,
			Position: position,
		})
	}
	if err := service.clientRepo.BatchUpdateListOrders(ctx, updates); err != nil {
		return fmt.Errorf("renumbering day list: %w", err)
	}
	return nil
}
