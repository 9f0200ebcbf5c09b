package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency governs how often a client receives deliveries.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyTriweekly Frequency = "triweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyOnce      Frequency = "once"
	FrequencyOnDemand  Frequency = "on_demand"
)

// IntervalWeeks returns the cycle length in weeks, or 0 for
// frequencies that carry no cycle (once, on demand).
func (frequency Frequency) IntervalWeeks() int {
	switch frequency {
	case FrequencyWeekly:
		return 1
	case FrequencyBiweekly:
		return 2
	case FrequencyTriweekly:
		return 3
	case FrequencyMonthly:
		return 4
	default:
		return 0
	}
}

func (frequency Frequency) Valid() bool {
	switch frequency {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyTriweekly,
		FrequencyMonthly, FrequencyOnce, FrequencyOnDemand:
		return true
	}
	return false
}

// Delivery days. Routes run Monday through Saturday.
const (
	DayLunes     = "Lunes"
	DayMartes    = "Martes"
	DayMiercoles = "Miércoles"
	DayJueves    = "Jueves"
	DayViernes   = "Viernes"
	DaySabado    = "Sábado"
)

var WeekDays = []string{DayLunes, DayMartes, DayMiercoles, DayJueves, DayViernes, DaySabado}

// Scope is the owner discriminator applied to every collection: a record
// belongs either to a single user or to a shared group, never both.
type Scope struct {
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
}

func UserScope(userID string) Scope {
	return Scope{UserID: userID}
}

func GroupScope(groupID string) Scope {
	return Scope{GroupID: groupID}
}

func (scope Scope) IsGroup() bool {
	return scope.GroupID != ""
}

func (scope Scope) IsZero() bool {
	return scope.UserID == "" && scope.GroupID == ""
}

// ScopeFor resolves the scope a user's records live under: the group
// scope when they belong to one, otherwise their personal scope.
func ScopeFor(user User) Scope {
	if user.GroupID != nil && *user.GroupID != "" {
		return GroupScope(*user.GroupID)
	}
	return UserScope(user.ID)
}

// Products is the standing order delivered on each visit.
type Products struct {
	Jugs       int `json:"jugs"`
	Bottles    int `json:"bottles"`
	Dispensers int `json:"dispensers"`
}

// Client is a delivery target, or a note entry sharing the day lists.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Notes   string `json:"notes,omitempty"`

	Frequency    Frequency  `json:"freq"`
	VisitDay     string     `json:"visitDay,omitempty"`
	VisitDays    []string   `json:"visitDays,omitempty"`
	SpecificDate *time.Time `json:"specificDate,omitempty"`
	LastVisited  *time.Time `json:"lastVisited,omitempty"`

	ListOrder  int            `json:"listOrder,omitempty"`
	ListOrders map[string]int `json:"listOrders,omitempty"`

	IsCompleted bool    `json:"isCompleted"`
	IsStarred   bool    `json:"isStarred"`
	IsNote      bool    `json:"isNote"`
	Alarm       *string `json:"alarm,omitempty"`

	Products Products `json:"products"`

	// Cached projections over the debt/transfer sets. The collections
	// remain the source of truth; see BillingService.
	HasDebt            bool `json:"hasDebt"`
	HasPendingTransfer bool `json:"hasPendingTransfer"`

	Scope     Scope     `json:"scope"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OnDay reports whether the client is assigned to the given weekday.
func (client Client) OnDay(day string) bool {
	if client.VisitDay == day {
		return true
	}
	for _, visitDay := range client.VisitDays {
		if visitDay == day {
			return true
		}
	}
	return false
}

// Debt is an amount owed by one client. A client may hold any number of
// debts; a debt is deleted outright when paid.
type Debt struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"clientId"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	Scope     Scope           `json:"scope"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Transfer is a pending bank-transfer review marker, at most one open
// per client (enforced best-effort by BillingService).
type Transfer struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Scope     Scope     `json:"scope"`
	CreatedAt time.Time `json:"createdAt"`
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	GroupID   *string   `json:"groupId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type APIToken struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	TokenHash string     `json:"-"`
	UserID    string     `json:"userId"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
