package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/validation"
)

func seedExportTransactions(t *testing.T, svc *Service, userID, accountID string) []string {
	t.Helper()
	ctx := context.Background()

	var ids []string
	for _, seed := range []struct {
		description string
		txnType     string
		amount      float64
	}{
		{"Salary", model.TypeIncome, 3210.5},
		{"Coffee", model.TypeExpense, 4},
	} {
		txn, err := svc.CreateTransaction(ctx, validation.CreateTransactionRequest{
			UserID:      userID,
			AccountID:   accountID,
			Amount:      seed.amount,
			Description: seed.description,
			Date:        "2024-06-01T09:00:00Z",
			Type:        seed.txnType,
			Tags:        []string{"export", "test"},
		})
		require.NoError(t, err)
		ids = append(ids, txn.ID)
	}
	return ids
}

func TestExportTransactions_CSV(t *testing.T) {
	svc, db := newTestService(t)
	account := db.SeedAccount("Checking", 0)
	ids := seedExportTransactions(t, svc, db.UserID, account.ID)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportTransactions(context.Background(), db.UserID, ids, FormatCSV, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus two rows")
	assert.Equal(t, csvHeader, records[0])

	// Rows come back in the order the ids were given, with two-decimal
	// amounts.
	assert.Equal(t, ids[0], records[1][0])
	assert.Equal(t, "3210.50", records[1][4])
	assert.Equal(t, "Salary", records[1][5])
	assert.Equal(t, ids[1], records[2][0])
	assert.Equal(t, "4.00", records[2][4])
	assert.Equal(t, "export|test", records[2][11])
}

func TestExportTransactions_JSON(t *testing.T) {
	svc, db := newTestService(t)
	account := db.SeedAccount("Checking", 0)
	ids := seedExportTransactions(t, svc, db.UserID, account.ID)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportTransactions(context.Background(), db.UserID, ids, FormatJSON, &buf))

	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, ids[0], out[0]["id"])
	assert.Equal(t, "3210.50", out[0]["amount"])
	assert.Equal(t, "income", out[0]["type"])
	assert.Equal(t, "4.00", out[1]["amount"])
	assert.NotContains(t, out[1], "category_id", "empty optionals omitted")
}

func TestExportTransactions_Rejections(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	account := db.SeedAccount("Checking", 0)
	ids := seedExportTransactions(t, svc, db.UserID, account.ID)

	var buf bytes.Buffer

	t.Run("empty id list", func(t *testing.T) {
		err := svc.ExportTransactions(ctx, db.UserID, nil, FormatCSV, &buf)
		cmdErr := commandCode(t, err)
		assert.Equal(t, CodeValidationFailed, cmdErr.Code)
	})

	t.Run("unsupported format", func(t *testing.T) {
		err := svc.ExportTransactions(ctx, db.UserID, ids, "xml", &buf)
		cmdErr := commandCode(t, err)
		assert.Equal(t, CodeValidationFailed, cmdErr.Code)
	})

	t.Run("foreign transaction id", func(t *testing.T) {
		other, err := svc.RegisterUser(ctx, validation.CreateUserRequest{
			Username: "intruder",
			Password: "StrongPass123!",
		})
		require.NoError(t, err)

		err = svc.ExportTransactions(ctx, other.ID, ids, FormatCSV, &buf)
		cmdErr := commandCode(t, err)
		assert.Equal(t, CodeNotFound, cmdErr.Code)
	})
}
