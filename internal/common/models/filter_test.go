package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildFilterQuery(t *testing.T) {
	fields := map[string]FilterType{
		"client_name": FilterTypeText,
		"lead_status": FilterTypeStatus,
		"date_time":   FilterTypeDate,
		"amount":      FilterTypeNumber,
	}

	tests := []struct {
		name    string
		filters []Filter
		want    bson.M
		wantErr bool
	}{
		{
			name: "text equality",
			filters: []Filter{
				{Field: "client_name", Type: FilterTypeText, Operator: "eq", Value: "Acme"},
			},
			want: bson.M{"client_name": "Acme"},
		},
		{
			name: "text contains escapes regex metacharacters",
			filters: []Filter{
				{Field: "client_name", Type: FilterTypeText, Operator: "contains", Value: "A.B"},
			},
			want: bson.M{"client_name": bson.M{"$regex": primitive.Regex{Pattern: `A\.B`, Options: "i"}}},
		},
		{
			name: "status equality",
			filters: []Filter{
				{Field: "lead_status", Type: FilterTypeStatus, Operator: "eq", Value: "Won"},
			},
			want: bson.M{"lead_status": "Won"},
		},
		{
			name: "number greater than",
			filters: []Filter{
				{Field: "amount", Type: FilterTypeNumber, Operator: "gt", Value: 18.0},
			},
			want: bson.M{"amount": bson.M{"$gt": 18.0}},
		},
		{
			name: "unknown field rejected",
			filters: []Filter{
				{Field: "password", Type: FilterTypeText, Operator: "eq", Value: "x"},
			},
			wantErr: true,
		},
		{
			name: "type mismatch rejected",
			filters: []Filter{
				{Field: "client_name", Type: FilterTypeStatus, Operator: "eq", Value: "x"},
			},
			wantErr: true,
		},
		{
			name: "operator outside whitelist rejected",
			filters: []Filter{
				{Field: "lead_status", Type: FilterTypeStatus, Operator: "contains", Value: "Won"},
			},
			wantErr: true,
		},
		{
			name: "non string text value rejected",
			filters: []Filter{
				{Field: "client_name", Type: FilterTypeText, Operator: "eq", Value: 42.0},
			},
			wantErr: true,
		},
		{
			name: "bad date rejected",
			filters: []Filter{
				{Field: "date_time", Type: FilterTypeDate, Operator: "eq", Value: "not-a-date"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildFilterQuery(tt.filters, fields)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BuildFilterQuery() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			for k, v := range tt.want {
				gotVal, ok := got[k]
				if !ok {
					t.Errorf("missing key %s", k)
					continue
				}
				switch want := v.(type) {
				case bson.M:
					gotM, ok := gotVal.(bson.M)
					if !ok {
						t.Errorf("key %s: expected bson.M, got %T", k, gotVal)
						continue
					}
					for op, wantOp := range want {
						if gotM[op] != wantOp {
							t.Errorf("key %s op %s: got %v, want %v", k, op, gotM[op], wantOp)
						}
					}
				default:
					if gotVal != v {
						t.Errorf("key %s: got %v, want %v", k, gotVal, v)
					}
				}
			}
		})
	}
}

func TestBuildFilterQueryDateBounds(t *testing.T) {
	fields := map[string]FilterType{"date_time": FilterTypeDate}

	query, err := BuildFilterQuery([]Filter{
		{Field: "date_time", Type: FilterTypeDate, Operator: "eq", Value: "2025-03-10"},
	}, fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clause, ok := query["date_time"].(bson.M)
	if !ok {
		t.Fatalf("expected range clause, got %v", query["date_time"])
	}

	start := clause["$gte"].(time.Time)
	end := clause["$lt"].(time.Time)
	if start.Hour() != 0 || start.Day() != 10 {
		t.Errorf("start should be midnight of the day, got %v", start)
	}
	if !end.Equal(start.AddDate(0, 0, 1)) {
		t.Errorf("end should be start plus one day, got %v", end)
	}
}

func TestSearchQuery(t *testing.T) {
	query := SearchQuery("acme (inc)", []string{"client_name", "company_name"})

	clauses, ok := query["$or"].([]bson.M)
	if !ok {
		t.Fatalf("expected $or clauses, got %v", query)
	}
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(clauses))
	}

	re := clauses[0]["client_name"].(bson.M)["$regex"].(primitive.Regex)
	if re.Pattern != `acme \(inc\)` {
		t.Errorf("search pattern should be escaped, got %q", re.Pattern)
	}
	if re.Options != "i" {
		t.Errorf("search should be case-insensitive, got options %q", re.Options)
	}
}
