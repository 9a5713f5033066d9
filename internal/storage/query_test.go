package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/pocketledger/pocketledger/internal/model"
)

const uuidUser = "123e4567-e89b-42d3-a456-426614174000"

func TestBuildTransactionQuery_Defaults(t *testing.T) {
	plan, err := buildTransactionQuery(uuidUser, model.QueryFilter{})
	if err != nil {
		t.Fatal(err)
	}

	if plan.where != "user_id = ?" {
		t.Errorf("where = %q", plan.where)
	}
	if plan.orderBy != "transaction_date DESC, id DESC" {
		t.Errorf("orderBy = %q", plan.orderBy)
	}
	if plan.limit != model.DefaultPageLimit {
		t.Errorf("limit = %d, want default %d", plan.limit, model.DefaultPageLimit)
	}
	if plan.offset != 0 {
		t.Errorf("offset = %d, want 0", plan.offset)
	}
}

func TestBuildTransactionQuery_RejectsBadSort(t *testing.T) {
	_, err := buildTransactionQuery(uuidUser, model.QueryFilter{SortBy: "malicious_field"})
	if !errors.Is(err, ErrInvalidSortField) {
		t.Errorf("bad sort field error = %v, want ErrInvalidSortField", err)
	}

	_, err = buildTransactionQuery(uuidUser, model.QueryFilter{SortBy: "amount; DROP TABLE transactions"})
	if !errors.Is(err, ErrInvalidSortField) {
		t.Errorf("injection-shaped sort field error = %v, want ErrInvalidSortField", err)
	}

	_, err = buildTransactionQuery(uuidUser, model.QueryFilter{SortDir: "sideways"})
	if !errors.Is(err, ErrInvalidSortDir) {
		t.Errorf("bad sort direction error = %v, want ErrInvalidSortDir", err)
	}
}

func TestBuildTransactionQuery_LimitClamp(t *testing.T) {
	plan, err := buildTransactionQuery(uuidUser, model.QueryFilter{Limit: 5000, Offset: -3})
	if err != nil {
		t.Fatal(err)
	}
	if plan.limit != model.MaxPageLimit {
		t.Errorf("limit = %d, want clamped to %d", plan.limit, model.MaxPageLimit)
	}
	if plan.offset != 0 {
		t.Errorf("negative offset = %d, want 0", plan.offset)
	}
}

func TestBuildTransactionQuery_SearchSanitized(t *testing.T) {
	plan, err := buildTransactionQuery(uuidUser, model.QueryFilter{
		Search: `coffee'; DROP TABLE transactions; --`,
	})
	if err != nil {
		t.Fatal(err)
	}

	// The search term travels only as a bound LIKE parameter, never as text.
	if strings.Contains(plan.where, "DROP") {
		t.Errorf("raw search leaked into SQL: %q", plan.where)
	}
	if !strings.Contains(plan.where, "LIKE ?") {
		t.Errorf("search did not produce a LIKE predicate: %q", plan.where)
	}

	found := false
	for _, a := range plan.args {
		s, ok := a.(string)
		if !ok {
			continue
		}
		if strings.Contains(s, "coffee") {
			found = true
			if strings.ContainsAny(s, `'";<>`) {
				t.Errorf("search argument not sanitized: %q", s)
			}
		}
	}
	if !found {
		t.Error("search term missing from bound arguments")
	}
}

func TestBuildTransactionQuery_FiltersAreAnded(t *testing.T) {
	txnType := model.TypeExpense
	min := 5.0
	plan, err := buildTransactionQuery(uuidUser, model.QueryFilter{
		AccountID: "223e4567-e89b-42d3-a456-426614174000",
		Type:      txnType,
		MinAmount: &min,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"user_id = ?", "account_id = ?", "type = ?", "amount >= ?"} {
		if !strings.Contains(plan.where, want) {
			t.Errorf("where %q missing predicate %q", plan.where, want)
		}
	}
	if got := strings.Count(plan.where, " AND "); got != 3 {
		t.Errorf("predicates joined with %d ANDs, want 3", got)
	}
	if len(plan.args) != 4 {
		t.Errorf("args = %d, want 4", len(plan.args))
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"50% off", `50\% off`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
