package models

import (
	"regexp"
	"time"

	"github.com/shahkeval/lead-management-sub000/internal/common/apperror"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FilterType tags a filterable field so operators can be validated per type.
type FilterType string

const (
	FilterTypeText   FilterType = "text"
	FilterTypeStatus FilterType = "status"
	FilterTypeDate   FilterType = "date"
	FilterTypeNumber FilterType = "number"
)

// Filter is one clause of a list query. Clauses are ANDed together.
type Filter struct {
	Field    string      `json:"field"`
	Type     FilterType  `json:"type"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value"`
}

var allowedOperators = map[FilterType]map[string]bool{
	FilterTypeText:   {"contains": true, "eq": true},
	FilterTypeStatus: {"eq": true},
	FilterTypeDate:   {"eq": true, "before": true, "after": true},
	FilterTypeNumber: {"eq": true, "gt": true, "lt": true},
}

// BuildFilterQuery converts typed filters into a Mongo predicate. fields maps
// filterable field names to their declared type; an unknown field, a type
// mismatch, or an operator outside the type's whitelist rejects the request.
func BuildFilterQuery(filters []Filter, fields map[string]FilterType) (bson.M, error) {
	query := bson.M{}

	for _, f := range filters {
		declared, ok := fields[f.Field]
		if !ok {
			return nil, apperror.Validation("field %q is not filterable", f.Field)
		}
		if f.Type != declared {
			return nil, apperror.Validation("field %q is of type %s, got %s", f.Field, declared, f.Type)
		}
		ops, ok := allowedOperators[f.Type]
		if !ok || !ops[f.Operator] {
			return nil, apperror.Validation("operator %q is not valid for %s filters", f.Operator, f.Type)
		}

		switch f.Type {
		case FilterTypeText:
			value, ok := f.Value.(string)
			if !ok {
				return nil, apperror.Validation("field %q expects a string value", f.Field)
			}
			if f.Operator == "eq" {
				query[f.Field] = value
			} else {
				query[f.Field] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}}
			}
		case FilterTypeStatus:
			value, ok := f.Value.(string)
			if !ok {
				return nil, apperror.Validation("field %q expects a string value", f.Field)
			}
			query[f.Field] = value
		case FilterTypeDate:
			start, end, err := dayRange(f.Field, f.Value)
			if err != nil {
				return nil, err
			}
			switch f.Operator {
			case "eq":
				query[f.Field] = bson.M{"$gte": start, "$lt": end}
			case "before":
				query[f.Field] = bson.M{"$lt": start}
			case "after":
				query[f.Field] = bson.M{"$gte": end}
			}
		case FilterTypeNumber:
			value, ok := f.Value.(float64) // JSON numbers decode as float64
			if !ok {
				return nil, apperror.Validation("field %q expects a numeric value", f.Field)
			}
			switch f.Operator {
			case "eq":
				query[f.Field] = value
			case "gt":
				query[f.Field] = bson.M{"$gt": value}
			case "lt":
				query[f.Field] = bson.M{"$lt": value}
			}
		}
	}

	return query, nil
}

// SearchQuery builds an OR-across-fields substring match for global search.
func SearchQuery(search string, fields []string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	clauses := make([]bson.M, 0, len(fields))
	for _, field := range fields {
		clauses = append(clauses, bson.M{field: bson.M{"$regex": pattern}})
	}
	return bson.M{"$or": clauses}
}

// dayRange resolves a date filter value to the [start, end) bounds of its day.
func dayRange(field string, value interface{}) (time.Time, time.Time, error) {
	raw, ok := value.(string)
	if !ok {
		return time.Time{}, time.Time{}, apperror.Validation("field %q expects a date string", field)
	}

	var parsed time.Time
	var err error
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		parsed, err = time.Parse(layout, raw)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, time.Time{}, apperror.Validation("field %q has unparseable date %q", field, raw)
	}

	start := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, parsed.Location())
	return start, start.AddDate(0, 0, 1), nil
}
