package models

import (
	"encoding/json"
	"testing"

	"github.com/PerfectBenjamin/the-benjamites-ledger/shared/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomerViewSkipsEmptyGuarantors(t *testing.T) {
	c := Customer{
		ID:         "c1",
		Name:       "Adaeze Okafor",
		Guarantor1: Guarantor{Address: "4 Broad Street"},
	}

	view := NewCustomerView(c, decimal.RequireFromString("-25"))
	require.Len(t, view.Guarantors, 1)
	assert.Equal(t, "4 Broad Street", view.Guarantors[0].Address)
	assert.Equal(t, ledger.Credit, view.Balance.Standing)

	body, err := json.Marshal(NewCustomerView(Customer{ID: "c2", Name: "Bello Musa"}, decimal.Zero))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"guarantors":[]`)
}
