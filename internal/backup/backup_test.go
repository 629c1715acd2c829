package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlocatelli/progetta/internal/model"
)

func TestFileName(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 30, 45, 0, time.UTC)

	assert.Equal(t, "progetta_backup_2025-06-15_09-30-45.json", FileName(now))
}

func TestExportImport_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	snap := model.Snapshot{
		Clients: []model.Client{{ID: "c1", Name: "Acme"}},
		Projects: []model.Project{{
			ID:            "p1",
			ClientID:      "c1",
			Name:          "Website",
			Value:         decimal.RequireFromString("1000"),
			WorkStatus:    model.WorkInProgress,
			PaymentStatus: model.PaymentPartiallyPaid,
			Priority:      model.PriorityHigh,
			CreatedAt:     now,
			Payments: []model.Payment{{
				ID:        "pay1",
				ProjectID: "p1",
				Amount:    decimal.RequireFromString("400"),
				Date:      now,
			}},
		}},
		Todos: []model.Todo{{ID: "t1", ProjectID: "p1", Task: "Design"}},
	}

	require.NoError(t, Export(path, snap))

	loaded, err := Import(path)
	require.NoError(t, err)
	require.Len(t, loaded.Clients, 1)
	require.Len(t, loaded.Projects, 1)
	require.Len(t, loaded.Todos, 1)

	p := loaded.Projects[0]
	assert.Equal(t, model.WorkInProgress, p.WorkStatus)
	assert.Equal(t, model.PaymentPartiallyPaid, p.PaymentStatus)
	assert.Equal(t, model.PriorityHigh, p.Priority)
	require.Len(t, p.Payments, 1)
	assert.True(t, decimal.RequireFromString("400").Equal(p.Payments[0].Amount))
}

func TestImport_LegacyBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	legacy := `{
		"clients": [{"id": "c1", "name": "Acme"}],
		"projects": [
			{"id": "p1", "client_id": "c1", "name": "Logo", "value": "500", "status": "awaiting_payment"}
		],
		"todos": []
	}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	snap, err := Import(path)
	require.NoError(t, err)
	require.Len(t, snap.Projects, 1)

	p := snap.Projects[0]
	assert.Equal(t, model.WorkDelivered, p.WorkStatus)
	assert.Equal(t, model.PaymentInvoiced, p.PaymentStatus)
	assert.Equal(t, model.PriorityMedium, p.Priority)
	assert.NotNil(t, p.Payments)
}

func TestImport_MissingCollectionRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"clients": [], "projects": []}`), 0o644))

	_, err := Import(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "todos")
}

func TestImport_UnreadableFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
