package services

import (
	"sort"
	"strings"
	"time"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
)

// Ranks above this are corrupted leftovers from an old overflow bug and
// are treated as "front of the list" rather than trusted.
const maxTrustedRank = 100000

// dayRank is the sort key for one day's list: the per-day rank when one
// exists, else the legacy global rank, else zero.
func dayRank(client models.Client, day string) int {
	rank, ok := client.ListOrders[day]
	if !ok {
		rank = client.ListOrder
	}
	if rank > maxTrustedRank {
		return 0
	}
	return rank
}

func sortByRank(clients []models.Client, day string) {
	sort.SliceStable(clients, func(i, j int) bool {
		return dayRank(clients[i], day) < dayRank(clients[j], day)
	})
}

// VisibleClients filters the snapshot down to the clients due on the
// given day, sorted by their manual rank. On-demand and completed
// clients never appear.
func VisibleClients(clients []models.Client, day string, now time.Time) []models.Client {
	var visible []models.Client
	for _, client := range clients {
		if client.Frequency == models.FrequencyOnDemand || client.IsCompleted {
			continue
		}
		if !client.OnDay(day) {
			continue
		}
		if !dueOn(client, day, now) {
			continue
		}
		visible = append(visible, client)
	}
	sortByRank(visible, day)
	return visible
}

// dueOn applies the frequency gate on top of day membership. Days later
// this week show their multi-week clients eagerly; past-or-today days
// only show a client whose computed date has arrived.
func dueOn(client models.Client, day string, now time.Time) bool {
	switch client.Frequency {
	case models.FrequencyOnce, models.FrequencyWeekly:
		return true
	}

	dayIndex, ok := monFirstIndex(day)
	if !ok {
		return false
	}
	if dayIndex > todayMonFirst(now) {
		return true
	}

	next := NextVisitDate(client, day, now)
	if next == nil {
		// No resolvable anchor: hide rather than spam an undated client.
		return false
	}
	return !startOfDay(*next).After(startOfDay(now))
}

// CompletedClients lists the day's completed entries. Membership only;
// the frequency and date rules do not apply here.
func CompletedClients(clients []models.Client, day string) []models.Client {
	var completed []models.Client
	for _, client := range clients {
		if client.IsCompleted && client.OnDay(day) {
			completed = append(completed, client)
		}
	}
	sortByRank(completed, day)
	return completed
}

// DirectoryClients is the full roster sorted by name, used for search
// and for scheduling one-off visits.
func DirectoryClients(clients []models.Client) []models.Client {
	directory := make([]models.Client, len(clients))
	copy(directory, clients)
	sort.SliceStable(directory, func(i, j int) bool {
		return strings.ToLower(directory[i].Name) < strings.ToLower(directory[j].Name)
	})
	return directory
}
