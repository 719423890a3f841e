package repository

import (
	"strings"

	"github.com/skillanthropy/skillanthropy-api/internal/facets"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"gorm.io/gorm"
)

// orderColumns whitelists the task columns a facet query may sort by.
var orderColumns = map[facets.Field]string{
	facets.FieldDeadline:  "tasks.deadline",
	facets.FieldCreatedAt: "tasks.created_at",
	facets.FieldUpdatedAt: "tasks.updated_at",
}

// whereFacets adds the query's conditions on the tasks table to query.
// root builds the set-membership subqueries.
func whereFacets(root, query *gorm.DB, q facets.Query) *gorm.DB {
	for _, c := range q.Conditions {
		switch c.Field {
		case facets.FieldCategory:
			sub := root.Model(&models.TaskCategory{}).
				Select("1").
				Where("task_categories.task_id = tasks.id").
				Where("task_categories.name IN ?", c.Values)
			query = query.Where("EXISTS (?)", sub)
		case facets.FieldSkill:
			sub := root.Model(&models.TaskSkill{}).
				Select("1").
				Where("task_skills.task_id = tasks.id").
				Where("task_skills.name IN ?", c.Values)
			query = query.Where("EXISTS (?)", sub)
		case facets.FieldUrgency:
			query = query.Where("tasks.urgency IN ?", c.Values)
		case facets.FieldStatus:
			query = query.Where("tasks.status IN ?", c.Values)
		}
	}
	return query
}

// orderFacets appends the given orderings on the tasks table to query.
func orderFacets(query *gorm.DB, orders []facets.Order) *gorm.DB {
	for _, o := range orders {
		column, ok := orderColumns[o.Field]
		if !ok || (o.Direction != facets.Asc && o.Direction != facets.Desc) {
			continue
		}
		query = query.Order(column + " " + strings.ToUpper(string(o.Direction)))
	}
	return query
}
