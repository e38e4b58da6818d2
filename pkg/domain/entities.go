// Package domain defines the persisted gym records, their identifiers, and the
// error values shared by the store and its callers.
package domain

import (
	"strings"
	"time"
)

// EntityType identifies the type of record stored in the gym ledger.
type EntityType string

// Supported entity type identifiers used in errors, log attributes and metrics.
const (
	// EntityMember identifies a gym member record.
	EntityMember EntityType = "member"
	// EntityCourse identifies a training course record.
	EntityCourse EntityType = "course"
	// EntityDietPlan identifies a diet plan record.
	EntityDietPlan EntityType = "diet_plan"
	// EntityProduct identifies an inventory product record.
	EntityProduct EntityType = "product"
	// EntitySale identifies a sale ledger row.
	EntitySale EntityType = "sale"
	// EntitySession identifies the singleton auth session.
	EntitySession EntityType = "session"
)

// Action describes the kind of mutation applied to a record.
type Action string

// Mutation kinds.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Member is a registered gym member. Courses and DietPlans hold ids only; the
// referenced rows are owned by their own collections.
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Height    float64   `json:"height"` // cm
	Weight    float64   `json:"weight"` // kg
	Courses   []string  `json:"courses"`
	DietPlans []string  `json:"dietPlans"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Course is a training course members can enrol in.
type Course struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DietPlan is a nutrition plan members can follow.
type DietPlan struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Product is an inventory item sold at the front desk.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"` // per unit
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sale is an immutable ledger row. ProductName and UnitPrice are copied from
// the product when the sale is recorded and never follow later edits.
type Sale struct {
	ID          string    `json:"id"`
	BuyerName   string    `json:"buyerName"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unitPrice"`
	TotalPrice  float64   `json:"totalPrice"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AuthSession is the process-wide login flag gating client-side routes.
type AuthSession struct {
	IsAuthenticated bool       `json:"isAuthenticated"`
	LoginTime       *time.Time `json:"loginTime,omitempty"`
}

// MemberProfile is a member with its course and diet plan references resolved
// to display names. Unknown references resolve to the raw id.
type MemberProfile struct {
	Member        Member   `json:"member"`
	CourseNames   []string `json:"courseNames"`
	DietPlanNames []string `json:"dietPlanNames"`
}

// EntityID returns the member id.
func (m Member) EntityID() string { return m.ID }

// EntityID returns the course id.
func (c Course) EntityID() string { return c.ID }

// EntityID returns the diet plan id.
func (d DietPlan) EntityID() string { return d.ID }

// EntityID returns the product id.
func (p Product) EntityID() string { return p.ID }

// EntityID returns the sale id.
func (s Sale) EntityID() string { return s.ID }

// ReferencesCourse reports whether the member lists courseID.
func (m Member) ReferencesCourse(courseID string) bool {
	return containsString(m.Courses, courseID)
}

// ReferencesDietPlan reports whether the member lists dietPlanID.
func (m Member) ReferencesDietPlan(dietPlanID string) bool {
	return containsString(m.DietPlans, dietPlanID)
}

// MatchesTerm reports whether the member name contains term, ignoring case.
func (m Member) MatchesTerm(term string) bool {
	return containsFold(m.Name, term)
}

// MatchesTerm reports whether the course name or description contains term.
func (c Course) MatchesTerm(term string) bool {
	return containsFold(c.Name, term) || containsFold(c.Description, term)
}

// MatchesTerm reports whether the diet plan name or description contains term.
func (d DietPlan) MatchesTerm(term string) bool {
	return containsFold(d.Name, term) || containsFold(d.Description, term)
}

// MatchesTerm reports whether the product name contains term.
func (p Product) MatchesTerm(term string) bool {
	return containsFold(p.Name, term)
}

func containsString(values []string, id string) bool {
	for _, existing := range values {
		if existing == id {
			return true
		}
	}
	return false
}

func containsFold(s, term string) bool {
	if s == "" {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}
