package services

import (
	"context"
	"testing"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/testutil"
)

func seedDayList(t *testing.T, clientRepo repository.ClientRepository, scope models.Scope, names ...string) []models.Client {
	t.Helper()
	ctx := context.Background()

	var clients []models.Client
	for position, name := range names {
		created, err := clientRepo.Create(ctx, models.Client{
			Name:       name,
			Frequency:  models.FrequencyWeekly,
			VisitDay:   models.DayLunes,
			ListOrders: map[string]int{models.DayLunes: position},
			Scope:      scope,
		})
		if err != nil {
			t.Fatalf("creating client %s: %v", name, err)
		}
		clients = append(clients, created)
	}
	return clients
}

func lunesOrder(t *testing.T, clientRepo repository.ClientRepository, scope models.Scope) []string {
	t.Helper()

	clients, err := clientRepo.FindAll(context.Background(), scope)
	if err != nil {
		t.Fatalf("loading clients: %v", err)
	}

	byRank := make(map[int]string, len(clients))
	for _, client := range clients {
		rank, ok := client.ListOrders[models.DayLunes]
		if !ok {
			t.Fatalf("client %s missing Lunes rank", client.Name)
		}
		if _, taken := byRank[rank]; taken {
			t.Fatalf("duplicate rank %d", rank)
		}
		byRank[rank] = client.Name
	}

	names := make([]string, len(clients))
	for rank := 0; rank < len(clients); rank++ {
		name, ok := byRank[rank]
		if !ok {
			t.Fatalf("ranks not contiguous, missing %d", rank)
		}
		names[rank] = name
	}
	return names
}

func TestChangePosition_DenseRenumbering(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	clientRepo := repository.NewClientRepository(db)
	service := NewOrderService(clientRepo)
	scope := models.UserScope("user-1")
	ctx := context.Background()

	clients := seedDayList(t, clientRepo, scope, "A", "B", "C", "D", "E")

	// Move A to position 3: B C A D E, ranks 0..4.
	if err := service.ChangePosition(ctx, scope, clients[0].ID, 3, models.DayLunes, wednesday); err != nil {
		t.Fatalf("changing position: %v", err)
	}

	got := lunesOrder(t, clientRepo, scope)
	want := []string{"B", "C", "A", "D", "E"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestChangePosition_ClampsPastEnd(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	clientRepo := repository.NewClientRepository(db)
	service := NewOrderService(clientRepo)
	scope := models.UserScope("user-1")
	ctx := context.Background()

	clients := seedDayList(t, clientRepo, scope, "A", "B", "C")

	if err := service.ChangePosition(ctx, scope, clients[0].ID, 99, models.DayLunes, wednesday); err != nil {
		t.Fatalf("changing position: %v", err)
	}

	got := lunesOrder(t, clientRepo, scope)
	want := []string{"B", "C", "A"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestChangePosition_NonPositiveIsNoOp(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	clientRepo := repository.NewClientRepository(db)
	service := NewOrderService(clientRepo)
	scope := models.UserScope("user-1")
	ctx := context.Background()

	clients := seedDayList(t, clientRepo, scope, "A", "B", "C")

	if err := service.ChangePosition(ctx, scope, clients[2].ID, 0, models.DayLunes, wednesday); err != nil {
		t.Fatalf("changing position: %v", err)
	}
	if err := service.ChangePosition(ctx, scope, clients[2].ID, -2, models.DayLunes, wednesday); err != nil {
		t.Fatalf("changing position: %v", err)
	}

	got := lunesOrder(t, clientRepo, scope)
	want := []string{"A", "B", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected untouched order %v, got %v", want, got)
		}
	}
}

func TestChangePosition_UnknownClientLeavesListAlone(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	clientRepo := repository.NewClientRepository(db)
	service := NewOrderService(clientRepo)
	scope := models.UserScope("user-1")
	ctx := context.Background()

	seedDayList(t, clientRepo, scope, "A", "B")

	if err := service.ChangePosition(ctx, scope, "missing", 1, models.DayLunes, wednesday); err != nil {
		t.Fatalf("changing position: %v", err)
	}

	got := lunesOrder(t, clientRepo, scope)
	want := []string{"A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected untouched order %v, got %v", want, got)
		}
	}
}

func TestChangePosition_UsesProvidedClock(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	clientRepo := repository.NewClientRepository(db)
	service := NewOrderService(clientRepo)
	scope := models.UserScope("user-1")
	ctx := context.Background()

	clients := seedDayList(t, clientRepo, scope, "A", "B")
	notYet, err := clientRepo.Create(ctx, models.Client{
		Name:        "NotYet",
		Frequency:   models.FrequencyBiweekly,
		VisitDay:    models.DayLunes,
		LastVisited: datePtr(2025, 6, 21),
		ListOrders:  map[string]int{models.DayLunes: 2},
		Scope:       scope,
	})
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	// On the Monday clock the biweekly client is pushed to next week and
	// sits outside the day list, so renumbering leaves its rank alone.
	if err := service.ChangePosition(ctx, scope, clients[0].ID, 2, models.DayLunes, monday); err != nil {
		t.Fatalf("changing position: %v", err)
	}

	got := lunesOrder(t, clientRepo, scope)
	want := []string{"B", "A", "NotYet"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
	found, err := clientRepo.FindByID(ctx, notYet.ID)
	if err != nil {
		t.Fatalf("finding client: %v", err)
	}
	if found.ListOrders[models.DayLunes] != 2 {
		t.Errorf("expected untouched rank 2, got %d", found.ListOrders[models.DayLunes])
	}
}

func TestChangePosition_IncludesCompletedTail(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	clientRepo := repository.NewClientRepository(db)
	service := NewOrderService(clientRepo)
	scope := models.UserScope("user-1")
	ctx := context.Background()

	clients := seedDayList(t, clientRepo, scope, "A", "B", "C")
	if err := clientRepo.SetCompleted(ctx, clients[2].ID, true, nil); err != nil {
		t.Fatalf("completing client: %v", err)
	}

	// C sits in the completed tail; moving B to the end renumbers all
	// three entries of the day list.
	if err := service.ChangePosition(ctx, scope, clients[1].ID, 3, models.DayLunes, wednesday); err != nil {
		t.Fatalf("changing position: %v", err)
	}

	got := lunesOrder(t, clientRepo, scope)
	want := []string{"A", "C", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}
