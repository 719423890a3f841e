// Package facets turns user-selected filter and sort values into a
// store-agnostic task query. Nothing here touches the database.
package facets

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/skillanthropy/skillanthropy-api/internal/models"
)

var ErrInvalidFacet = errors.New("invalid facet value")

// SortOrder is an ordering direction. Anything other than asc or desc means unsorted.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

func (o SortOrder) valid() bool {
	return o == Asc || o == Desc
}

// Selection is the set of facet values a user picked. It is a value type:
// the With* helpers return modified copies.
type Selection struct {
	Categories []string
	Skills     []string
	Urgency    models.TaskUrgency
	Status     models.TaskStatus
	Deadline   SortOrder
	CreatedAt  SortOrder
	UpdatedAt  SortOrder
}

// Field is a task attribute a query may constrain or order by.
type Field string

const (
	FieldCategory  Field = "category"
	FieldSkill     Field = "skill"
	FieldUrgency   Field = "urgency"
	FieldStatus    Field = "status"
	FieldDeadline  Field = "deadline"
	FieldCreatedAt Field = "created_at"
	FieldUpdatedAt Field = "updated_at"
)

type Operator string

const (
	// ContainsAny matches when the task's set shares at least one value.
	ContainsAny Operator = "contains_any"
	Equals      Operator = "equals"
)

type Condition struct {
	Field  Field
	Op     Operator
	Values []string
}

type Order struct {
	Field     Field
	Direction SortOrder
}

// Query is a predicate plus ordering. Conditions are ANDed.
type Query struct {
	Conditions []Condition
	Order      []Order
}

// Constrains reports whether the query has a condition on field.
func (q Query) Constrains(field Field) bool {
	for _, c := range q.Conditions {
		if c.Field == field {
			return true
		}
	}
	return false
}

var tiebreaker = Order{Field: FieldCreatedAt, Direction: Desc}

// ExplicitOrder returns the orderings without the trailing createdAt desc
// tiebreaker, for listings that break ties on another column.
func (q Query) ExplicitOrder() []Order {
	if n := len(q.Order); n > 0 && q.Order[n-1] == tiebreaker {
		return q.Order[:n-1]
	}
	return q.Order
}

// Build composes a query from a selection. Empty facets are left out; the
// date orderings are appended deadline, updatedAt, createdAt, followed by a
// createdAt desc tiebreaker.
func Build(sel Selection) Query {
	var q Query

	if cats := compact(sel.Categories); len(cats) > 0 {
		q.Conditions = append(q.Conditions, Condition{Field: FieldCategory, Op: ContainsAny, Values: cats})
	}
	if skills := compact(sel.Skills); len(skills) > 0 {
		q.Conditions = append(q.Conditions, Condition{Field: FieldSkill, Op: ContainsAny, Values: skills})
	}
	if sel.Urgency != "" {
		q.Conditions = append(q.Conditions, Condition{Field: FieldUrgency, Op: Equals, Values: []string{string(sel.Urgency)}})
	}
	if sel.Status != "" {
		q.Conditions = append(q.Conditions, Condition{Field: FieldStatus, Op: Equals, Values: []string{string(sel.Status)}})
	}

	if sel.Deadline.valid() {
		q.Order = append(q.Order, Order{Field: FieldDeadline, Direction: sel.Deadline})
	}
	if sel.UpdatedAt.valid() {
		q.Order = append(q.Order, Order{Field: FieldUpdatedAt, Direction: sel.UpdatedAt})
	}
	if sel.CreatedAt.valid() {
		q.Order = append(q.Order, Order{Field: FieldCreatedAt, Direction: sel.CreatedAt})
	}
	q.Order = append(q.Order, tiebreaker)

	return q
}

// Validate checks the enum facets.
func (s Selection) Validate() error {
	if s.Urgency != "" && !s.Urgency.Valid() {
		return fmt.Errorf("%w: urgency %q", ErrInvalidFacet, s.Urgency)
	}
	if s.Status != "" && !s.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidFacet, s.Status)
	}
	return nil
}

// IsEmpty reports whether no facet is set.
func (s Selection) IsEmpty() bool {
	return len(compact(s.Categories)) == 0 && len(compact(s.Skills)) == 0 &&
		s.Urgency == "" && s.Status == "" &&
		s.Deadline == "" && s.CreatedAt == "" && s.UpdatedAt == ""
}

// WithStatus returns a copy of s constrained to status.
func (s Selection) WithStatus(status models.TaskStatus) Selection {
	s.Status = status
	return s
}

// WithSkills returns a copy of s with the skill facet replaced.
func (s Selection) WithSkills(skills ...string) Selection {
	s.Skills = append([]string(nil), skills...)
	return s
}

// ParseSelection reads facets from query parameters. Multi-valued facets are
// comma separated; single-valued ones keep their first value. The category
// facet is accepted under both "category" and "charity".
func ParseSelection(values url.Values) (Selection, error) {
	categories := splitList(values.Get("category"))
	if len(categories) == 0 {
		categories = splitList(values.Get("charity"))
	}

	sel := Selection{
		Categories: categories,
		Skills:     splitList(values.Get("skills")),
		Urgency:    models.TaskUrgency(strings.ToUpper(first(values.Get("urgency")))),
		Status:     models.TaskStatus(strings.ToUpper(first(values.Get("status")))),
		Deadline:   SortOrder(strings.ToLower(first(values.Get("deadline")))),
		CreatedAt:  SortOrder(strings.ToLower(first(values.Get("createdAt")))),
		UpdatedAt:  SortOrder(strings.ToLower(first(values.Get("updatedAt")))),
	}

	if err := sel.Validate(); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	return compact(strings.Split(raw, ","))
}

func first(raw string) string {
	parts := splitList(raw)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
