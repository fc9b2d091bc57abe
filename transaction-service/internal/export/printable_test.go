package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStatement(t *testing.T) {
	created := time.Date(2024, 3, 2, 10, 30, 0, 0, time.UTC)
	s := Statement{
		Customer: models.Customer{Name: "Adaeze Okafor", Phone: "08031234567", Address: "12 Market Road"},
		Transactions: []models.TransactionView{
			{Type: ledger.Debt, Amount: decimal.RequireFromString("500"), Description: "Rice <50kg>", TransactionDate: "2024-03-01", CreatedAt: created},
			{Type: ledger.Payment, Amount: decimal.RequireFromString("200.5"), TransactionDate: "2024-03-02", CreatedAt: created},
		},
		ExportedAt: time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, s))
	html := buf.String()

	assert.Contains(t, html, "<strong>Adaeze Okafor</strong>")
	assert.Contains(t, html, "Phone: 08031234567")
	assert.Contains(t, html, "Address: 12 Market Road")
	assert.NotContains(t, html, "Email:")
	assert.Contains(t, html, "Export date: 2024-03-05")
	assert.Contains(t, html, "-500.00")
	assert.Contains(t, html, "+200.50")
	assert.Contains(t, html, "Rice &lt;50kg&gt;")
	assert.NotContains(t, html, "Rice <50kg>")
	assert.Contains(t, html, "2024-03-02T10:30:00Z")
	assert.Contains(t, html, "window.print()")
	assert.Contains(t, html, "-₦299.50")
	assert.Equal(t, 2, strings.Count(html, "<tr><td>"))
}

func TestRenderEmptyStatement(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Statement{Customer: models.Customer{Name: "Nobody"}})

	assert.ErrorIs(t, err, ErrNothingToExport)
	assert.Zero(t, buf.Len())
}
