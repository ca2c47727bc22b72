// internal/documents/documents_test.go
package documents

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, d Document)
	}{
		{
			name:  "balance sheet",
			input: `{"type":"balance_sheet","fields":{"currentAssets":"₹500000","currentLiabilities":"₹250000"}}`,
			check: func(t *testing.T, d Document) {
				bs, ok := d.Fields.(*BalanceSheet)
				require.True(t, ok)
				assert.Equal(t, Amount("₹500000"), bs.CurrentAssets)
				assert.Equal(t, Amount("₹250000"), bs.CurrentLiabilities)
			},
		},
		{
			name:  "numeric amount",
			input: `{"type":"profit_loss","fields":{"revenue":12500000,"netProfit":"₹15.50 L"}}`,
			check: func(t *testing.T, d Document) {
				pl, ok := d.Fields.(*ProfitLoss)
				require.True(t, ok)
				assert.Equal(t, Amount("12500000"), pl.Revenue)
				assert.Equal(t, Amount("₹15.50 L"), pl.NetProfit)
			},
		},
		{
			name:  "bank statement",
			input: `{"type":"bank_statement","fields":{"chequeBounces":2,"cashFlowPattern":"positive","loanEMIs":"50000"}}`,
			check: func(t *testing.T, d Document) {
				bs, ok := d.Fields.(*BankStatement)
				require.True(t, ok)
				assert.Equal(t, 2, bs.ChequeBounces)
				assert.Equal(t, CashFlowPositive, bs.CashFlowPattern)
				assert.Equal(t, Amount("50000"), bs.LoanEMIs)
			},
		},
		{
			name:  "cibil without score",
			input: `{"type":"cibil_report","fields":{"score":null,"reportDate":"2024-03-01"}}`,
			check: func(t *testing.T, d Document) {
				cr, ok := d.Fields.(*CIBILReport)
				require.True(t, ok)
				assert.Nil(t, cr.Score)
				assert.Equal(t, "2024-03-01", cr.ReportDate)
			},
		},
		{
			name:  "known type without fields",
			input: `{"type":"gst_returns"}`,
			check: func(t *testing.T, d Document) {
				assert.Equal(t, &GSTReturns{}, d.Fields)
			},
		},
		{
			name:  "unknown type",
			input: `{"type":"utility_bill","fields":{"amount":"100"}}`,
			check: func(t *testing.T, d Document) {
				assert.Equal(t, Type("utility_bill"), d.Type)
				assert.Nil(t, d.Fields)
				assert.False(t, d.Type.Known())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Document
			require.NoError(t, json.Unmarshal([]byte(tt.input), &d))
			tt.check(t, d)
		})
	}
}

func TestDocument_UnmarshalJSON_Malformed(t *testing.T) {
	inputs := []string{
		`{"type":"bank_statement","fields":{"chequeBounces":"many"}}`,
		`{"type":"profit_loss","fields":{"revenue":true}}`,
		`{"type":"balance_sheet","fields":"oops"}`,
		`[]`,
	}

	for _, input := range inputs {
		var d Document
		assert.Error(t, json.Unmarshal([]byte(input), &d), input)
	}
}

func TestDocument_MarshalJSON(t *testing.T) {
	d := New(&CIBILReport{Score: IntPtr(742)})

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"cibil_report","fields":{"score":742}}`, string(data))

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}

func TestLocate_FirstPerTypeWins(t *testing.T) {
	first := &BalanceSheet{CurrentAssets: "100"}
	second := &BalanceSheet{CurrentAssets: "999"}

	set := Locate([]Document{
		{Type: "unknown"},
		New(first),
		New(&BankStatement{ChequeBounces: 1}),
		New(second),
	})

	assert.Same(t, first, set.BalanceSheet)
	require.NotNil(t, set.BankStatement)
	assert.Nil(t, set.ProfitLoss)
	assert.Equal(t, 2, set.Count())
	assert.Equal(t, []Type{TypeBalanceSheet, TypeBankStatement}, set.Present())
}

func TestLocate_Empty(t *testing.T) {
	set := Locate(nil)
	assert.Equal(t, 0, set.Count())
	assert.Empty(t, set.Present())
}

func TestType_Known(t *testing.T) {
	for _, typ := range Types {
		assert.True(t, typ.Known(), typ)
	}
	assert.False(t, Type("").Known())
}
