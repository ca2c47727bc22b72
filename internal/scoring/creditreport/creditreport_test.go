// internal/scoring/creditreport/creditreport_test.go
package creditreport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-assessment-workers/internal/documents"
)

const sampleReport = `TransUnion CIBIL Consumer Credit Report
Report Date: 15/03/2024
Your CIBIL Score: 762
Account Summary
Active Accounts: 3
Overdue Accounts: 1
Account Status: Active  Home Loan  HDFC Bank
Status: Closed  Credit Card
Enquiry Summary
Total Enquiries: 4
Payment History
0 0 0 30 0 60 0 XXX 0 0`

func TestExtract_FullReport(t *testing.T) {
	s := Extract(sampleReport)

	require.NotNil(t, s.Score)
	assert.Equal(t, 762, *s.Score)
	assert.Equal(t, "15/03/2024", s.ReportDate)
	assert.Equal(t, []Section{SectionSummary, SectionAccountDetails, SectionEnquirySummary, SectionPaymentHistory}, s.Sections)

	assert.Equal(t, PaymentHistory{
		OnTime:         7,
		Late30:         1,
		Late60:         1,
		Late120Plus:    1,
		TotalDelays:    3,
		BehaviourScore: 70,
	}, s.PaymentHistory)

	assert.Equal(t, []string{"credit card", "home loan"}, s.LoanTypes)
	assert.Equal(t, []string{"active", "closed"}, s.AccountStatuses)

	require.NotNil(t, s.ActiveAccounts)
	assert.Equal(t, 3, *s.ActiveAccounts)
	require.NotNil(t, s.OverdueAccounts)
	assert.Equal(t, 1, *s.OverdueAccounts)
	require.NotNil(t, s.EnquiryCount)
	assert.Equal(t, 4, *s.EnquiryCount)
}

func TestExtract_Empty(t *testing.T) {
	s := Extract("")

	assert.Nil(t, s.Score)
	assert.Empty(t, s.Sections)
	assert.Equal(t, PaymentHistory{}, s.PaymentHistory)
	assert.Empty(t, s.LoanTypes)
	assert.Empty(t, s.AccountStatuses)
	assert.Nil(t, s.EnquiryCount)
	assert.Empty(t, s.Accounts)
	assert.Equal(t, Quality{}, s.Quality)
}

func TestExtract_DPDWithoutSection(t *testing.T) {
	s := Extract("score 700 DPD 0 0 90 STD")

	require.NotNil(t, s.Score)
	assert.Equal(t, 700, *s.Score)
	assert.Equal(t, 2, s.PaymentHistory.OnTime)
	assert.Equal(t, 1, s.PaymentHistory.Late90)
	assert.Equal(t, 1, s.PaymentHistory.Late120Plus)
	assert.Equal(t, 2, s.PaymentHistory.TotalDelays)
	assert.Equal(t, 50, s.PaymentHistory.BehaviourScore)
}

func TestExtract_ScoreOutOfRangeSkipped(t *testing.T) {
	s := Extract("score: 950 but bureau reports 780 credit rating")

	require.NotNil(t, s.Score)
	assert.Equal(t, 780, *s.Score)

	assert.Nil(t, Extract("score: 120").Score)
}

func TestSummary_Document(t *testing.T) {
	d := Extract(sampleReport).Document()

	assert.Equal(t, documents.TypeCIBILReport, d.Type)
	report, ok := d.Fields.(*documents.CIBILReport)
	require.True(t, ok)
	require.NotNil(t, report.Score)
	assert.Equal(t, 762, *report.Score)
	assert.Equal(t, "15/03/2024", report.ReportDate)
	assert.Equal(t, 3, *report.ActiveAccounts)
}

const accountsReport = `TransUnion CIBIL Consumer Credit Report
Your CIBIL Score: 742
Active Accounts: 2
Account Details
Member Name: HDFC Bank
Account Number: HDFC00012345
Account Type: Home Loan
Sanctioned Amount: ₹25,00,000
Current Balance: ₹18,40,000
Overdue Amount: 0
Account Status: Active
Date Opened: 01/04/2019
Last Payment Date: 05/03/2024
Payment History: 0 0 0 30 0 0
Member Name: Bajaj Finance Ltd
Account Number: BJF987654321
Account Type: Personal Loan
Sanctioned Amount: ₹5 L
Current Balance: ₹1,20,000
Overdue Amount: ₹15,000
Status: Settled
Payment History: 0 60 90 STD
Account Number: HDFC00012345
Bank Name: HDFC Bank
Current Balance: ₹18,00,000`

func float(v float64) *float64 { return &v }

func TestExtract_Accounts(t *testing.T) {
	s := Extract(accountsReport)

	require.Len(t, s.Accounts, 2)
	assert.Equal(t, Account{
		Number:           "HDFC00012345",
		Lender:           "HDFC Bank",
		LoanType:         "home loan",
		SanctionedAmount: float(2500000),
		CurrentBalance:   float(1840000),
		OverdueAmount:    float(0),
		Status:           "active",
		OpenedOn:         "01/04/2019",
		LastPaymentOn:    "05/03/2024",
		PaymentHistory:   []string{"0", "0", "0", "30", "0", "0"},
	}, s.Accounts[0])
	assert.Equal(t, Account{
		Number:           "BJF987654321",
		Lender:           "Bajaj Finance Ltd",
		LoanType:         "personal loan",
		SanctionedAmount: float(500000),
		CurrentBalance:   float(120000),
		OverdueAmount:    float(15000),
		Status:           "settled",
		PaymentHistory:   []string{"0", "60", "90", "STD"},
	}, s.Accounts[1])

	assert.InDelta(t, 1, s.Quality.Completeness, 1e-9)
	assert.InDelta(t, 1, s.Quality.AccountCompleteness, 1e-9)
	assert.InDelta(t, 1, s.Quality.Overall, 1e-9)
}

func TestExtract_AccountQuality(t *testing.T) {
	tests := []struct {
		name                string
		text                string
		accounts            int
		completeness        float64
		accountCompleteness float64
	}{
		{
			name:     "no accounts",
			text:     "CIBIL Score: 701\nActive Accounts: 0",
			accounts: 0, completeness: 2.0 / 3, accountCompleteness: 0,
		},
		{
			name:     "account without lender",
			text:     "Account No: 1234567890\nOutstanding: 50000",
			accounts: 1, completeness: 1.0 / 3, accountCompleteness: 0,
		},
		{
			name:     "one of two accounts complete",
			text:     "Score: 688\nBank Name: ICICI Bank\nAccount No: ICIC55550000\nLoan Type: Car Loan\nAccount No: 9988776655\nBalance: 1000",
			accounts: 2, completeness: 2.0 / 3, accountCompleteness: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Extract(tt.text)

			assert.Len(t, s.Accounts, tt.accounts)
			assert.InDelta(t, tt.completeness, s.Quality.Completeness, 1e-9)
			assert.InDelta(t, tt.accountCompleteness, s.Quality.AccountCompleteness, 1e-9)
			assert.InDelta(t, tt.completeness*0.4+tt.accountCompleteness*0.6, s.Quality.Overall, 1e-9)
		})
	}
}

func TestExtract_AccountHistoryCapped(t *testing.T) {
	s := Extract("Account Number: SBIN00001111\nDPD: " + strings.Repeat("0 ", 30))

	require.Len(t, s.Accounts, 1)
	assert.Len(t, s.Accounts[0].PaymentHistory, 24)
}
