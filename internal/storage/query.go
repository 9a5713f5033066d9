package storage

import (
	"fmt"
	"strings"

	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/validation"
)

// TransactionSortFields is the allow-list for dynamic ORDER BY construction.
// A filter naming anything else is an error, not a silent fallback.
var TransactionSortFields = []string{
	"transaction_date",
	"amount",
	"description",
	"type",
	"status",
	"created_at",
}

// transactionQuery is a safe, deterministic query plan built from a
// QueryFilter. Every value interpolated into SQL text has passed an
// allow-list check; everything else travels as a bound parameter.
type transactionQuery struct {
	where   string
	orderBy string
	args    []any
	limit   int
	offset  int
}

// buildTransactionQuery turns a filter into a query plan scoped to one user.
func buildTransactionQuery(userID string, filter model.QueryFilter) (*transactionQuery, error) {
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	conds := []string{"user_id = ?"}
	args := []any{userID}

	if filter.AccountID != "" {
		conds = append(conds, "account_id = ?")
		args = append(args, filter.AccountID)
	}
	if filter.CategoryID != nil {
		conds = append(conds, "category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.Type != "" {
		conds = append(conds, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.StartDate != nil {
		conds = append(conds, "transaction_date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conds = append(conds, "transaction_date <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.MinAmount != nil {
		conds = append(conds, "amount >= ?")
		args = append(args, *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		conds = append(conds, "amount <= ?")
		args = append(args, *filter.MaxAmount)
	}

	if search := validation.SanitizeSearchQuery(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		conds = append(conds,
			`(LOWER(description) LIKE ? ESCAPE '\' OR LOWER(COALESCE(payee, '')) LIKE ? ESCAPE '\' OR LOWER(COALESCE(notes, '')) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "transaction_date"
	}
	if !validation.ValidateSortField(sortBy, TransactionSortFields) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSortField, sortBy)
	}

	sortDir := filter.SortDir
	if sortDir == "" {
		sortDir = model.SortDesc
	}
	if !validation.ValidateSortDirection(sortDir) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSortDir, sortDir)
	}
	sortDir = strings.ToUpper(strings.TrimSpace(sortDir))

	limit := filter.Limit
	if limit <= 0 {
		limit = model.DefaultPageLimit
	}
	if limit > model.MaxPageLimit {
		limit = model.MaxPageLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	return &transactionQuery{
		where: strings.Join(conds, " AND "),
		args:  args,
		// sortBy and sortDir both passed the allow-list checks above. A
		// secondary id sort keeps pagination deterministic for ties.
		orderBy: fmt.Sprintf("%s %s, id %s", sortBy, sortDir, sortDir),
		limit:   limit,
		offset:  offset,
	}, nil
}

// escapeLike escapes LIKE wildcards in a search term.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}
