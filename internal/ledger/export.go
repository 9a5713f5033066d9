package ledger

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/storage"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

var csvHeader = []string{
	"id", "date", "type", "status", "amount", "description",
	"account_id", "category_id", "payee", "reference", "notes", "tags",
}

// ExportTransactions writes the named transactions to w in the requested
// format. Transactions are written in the order the ids were given; an id
// the user does not own fails the whole export.
func (s *Service) ExportTransactions(ctx context.Context, userID string, ids []string, format string, w io.Writer) error {
	if len(ids) == 0 {
		return &CommandError{Message: "no transaction ids given", Code: CodeValidationFailed}
	}

	transactions := make([]model.Transaction, 0, len(ids))
	for _, id := range ids {
		txn, err := s.store.GetTransaction(ctx, id)
		if err != nil {
			return storageError("failed to load transaction", err)
		}
		if txn.UserID != userID {
			return storageError("failed to load transaction",
				fmt.Errorf("%w: transaction %s", storage.ErrNotFound, id))
		}
		transactions = append(transactions, *txn)
	}

	switch strings.ToLower(format) {
	case FormatCSV:
		return writeCSV(w, transactions)
	case FormatJSON:
		return writeJSON(w, transactions)
	default:
		return &CommandError{
			Message: fmt.Sprintf("unsupported export format %q", format),
			Code:    CodeValidationFailed,
		}
	}
}

func writeCSV(w io.Writer, transactions []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range transactions {
		categoryID := ""
		if t.CategoryID != nil {
			categoryID = *t.CategoryID
		}
		record := []string{
			t.ID,
			t.Date.Format(time.RFC3339),
			t.Type,
			t.Status,
			decimal.NewFromFloat(t.Amount).StringFixed(2),
			t.Description,
			t.AccountID,
			categoryID,
			t.Payee,
			t.Reference,
			t.Notes,
			strings.Join(t.Tags, "|"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

type exportedTransaction struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Amount      string   `json:"amount"`
	Description string   `json:"description"`
	AccountID   string   `json:"account_id"`
	CategoryID  string   `json:"category_id,omitempty"`
	Payee       string   `json:"payee,omitempty"`
	Reference   string   `json:"reference,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func writeJSON(w io.Writer, transactions []model.Transaction) error {
	out := make([]exportedTransaction, 0, len(transactions))
	for _, t := range transactions {
		e := exportedTransaction{
			ID:          t.ID,
			Date:        t.Date.Format(time.RFC3339),
			Type:        t.Type,
			Status:      t.Status,
			Amount:      decimal.NewFromFloat(t.Amount).StringFixed(2),
			Description: t.Description,
			AccountID:   t.AccountID,
			Payee:       t.Payee,
			Reference:   t.Reference,
			Notes:       t.Notes,
			Tags:        t.Tags,
		}
		if t.CategoryID != nil {
			e.CategoryID = *t.CategoryID
		}
		out = append(out, e)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode JSON export: %w", err)
	}
	return nil
}
