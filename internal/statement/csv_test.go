package statement

import (
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("imp-%d", n)
	}
}

func newTestParser() *Parser {
	return NewParserWithIDs(sequentialIDs())
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseCSV_DefaultOptions(t *testing.T) {
	content := "Date,Description,Amount\n01/15/2024,COFFEE SHOP,-4.50\n01/16/2024,PAYROLL DEPOSIT,2000.00"

	result := newTestParser().ParseCSV(content, CSVOptions{})

	require.True(t, result.Success)
	assert.True(t, result.IsFullyClean())
	assert.Empty(t, result.Error)
	require.Len(t, result.Transactions, 2)

	coffee := result.Transactions[0]
	assert.Equal(t, date(2024, time.January, 15), coffee.Date)
	assert.Equal(t, "COFFEE SHOP", coffee.Description)
	assert.InDelta(t, 4.50, coffee.Amount, 1e-9)
	assert.Equal(t, model.TypeDebit, coffee.Type)
	assert.Equal(t, "imp-1", coffee.ID)
	assert.Nil(t, coffee.MatchedTransactionID)
	assert.Zero(t, coffee.Confidence)

	payroll := result.Transactions[1]
	assert.Equal(t, date(2024, time.January, 16), payroll.Date)
	assert.Equal(t, "PAYROLL DEPOSIT", payroll.Description)
	assert.InDelta(t, 2000.00, payroll.Amount, 1e-9)
	assert.Equal(t, model.TypeCredit, payroll.Type)
}

func TestParseCSV_PartialFailure(t *testing.T) {
	content := `Date,Description,Amount
01/01/2024,ONE,-1.00
01/02/2024,TWO,-2.00
01/03/2024,THREE,abc
01/04/2024,FOUR,4.00
01/05/2024,FIVE,-5.00`

	result := newTestParser().ParseCSV(content, CSVOptions{})

	assert.False(t, result.Success)
	assert.False(t, result.IsFullyClean())
	assert.False(t, result.Failed(), "row errors do not fail the document")
	assert.Len(t, result.Transactions, 4)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 4, result.Errors[0].Row)
	assert.Equal(t, "Row 4: Invalid amount", result.Errors[0].Error())
	assert.Equal(t, "Row 4: Invalid amount", result.Error)
}

func TestParseCSV_RowErrors(t *testing.T) {
	content := "Date,Description,Amount\n" +
		"not-a-date,BAD DATE,-1.00\n" +
		"\n" +
		"01/10/2024,EMPTY AMOUNT,\n" +
		"01/11/2024,GOOD,12.00\n"

	result := newTestParser().ParseCSV(content, CSVOptions{})

	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "GOOD", result.Transactions[0].Description)
	assert.Equal(t, []string{"Row 2: Invalid date format", "Row 4: Invalid amount"}, result.ErrorMessages())
	assert.Equal(t, "Row 2: Invalid date format; Row 4: Invalid amount", result.Error)
}

func TestParseCSV_SkipsBlankRecords(t *testing.T) {
	content := "Date,Description,Amount\n" +
		"01/15/2024,COFFEE,-4.50\n" +
		"   \n" +
		",,\n" +
		"01/16/2024,PAY,2000\n" +
		" , , \n"

	result := newTestParser().ParseCSV(content, CSVOptions{})

	assert.True(t, result.IsFullyClean())
	assert.Empty(t, result.Errors)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "COFFEE", result.Transactions[0].Description)
	assert.Equal(t, "PAY", result.Transactions[1].Description)
}

func TestParseCSV_BlankRecordsKeepLineNumbers(t *testing.T) {
	content := "Date,Description,Amount\n" +
		"01/15/2024,COFFEE,-4.50\n" +
		"\t\n" +
		",,\n" +
		"01/17/2024,BAD,xyz\n"

	result := newTestParser().ParseCSV(content, CSVOptions{})

	require.Len(t, result.Transactions, 1)
	assert.Equal(t, []string{"Row 5: Invalid amount"}, result.ErrorMessages())
}

func TestParseCSV_BareQuotes(t *testing.T) {
	content := "Date,Description,Amount\n" +
		"01/15/2024,Joe's \"Cafe\",-8.25\n" +
		"01/16/2024,\"QUOTED, WITH COMMA\",-1.00\n"

	result := newTestParser().ParseCSV(content, CSVOptions{})

	require.True(t, result.IsFullyClean(), result.Error)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, `Joe's "Cafe"`, result.Transactions[0].Description)
	assert.InDelta(t, 8.25, result.Transactions[0].Amount, 1e-9)
	assert.Equal(t, "QUOTED, WITH COMMA", result.Transactions[1].Description)
}

func TestParseCSV_TypeResolution(t *testing.T) {
	content := `Date,Description,Amount,Type
2024-02-01,REFUND,-10.00,Deposit
2024-02-02,INTEREST,-0.50,CREDIT
2024-02-03,ATM,-60.00,Withdrawal
2024-02-04,ADJUSTMENT,15.00,Debit
2024-02-05,NO TYPE,-3.00,`

	result := newTestParser().ParseCSV(content, CSVOptions{})
	require.True(t, result.Success)

	want := []model.TransactionType{
		model.TypeCredit, // keyword wins over sign
		model.TypeCredit,
		model.TypeDebit,
		model.TypeCredit, // positive raw amount is a credit even when labelled debit
		model.TypeDebit,
	}
	require.Len(t, result.Transactions, len(want))
	for i, txn := range result.Transactions {
		assert.Equal(t, want[i], txn.Type, txn.Description)
		assert.GreaterOrEqual(t, txn.Amount, 0.0, txn.Description)
	}
}

func TestParseCSV_AmountFormats(t *testing.T) {
	content := `Date,Description,Amount
01/17/2024,"ACME, INC.","$1,234.56"
01/18/2024,  PADDED  ,  (45.00)  
01/19/2024,EURO,€12.30
01/20/2024,PLUS,+7`

	result := newTestParser().ParseCSV(content, CSVOptions{})
	require.True(t, result.Success, result.Error)
	require.Len(t, result.Transactions, 4)

	assert.Equal(t, "ACME, INC.", result.Transactions[0].Description)
	assert.InDelta(t, 1234.56, result.Transactions[0].Amount, 1e-9)
	assert.Equal(t, model.TypeCredit, result.Transactions[0].Type)

	assert.Equal(t, "PADDED", result.Transactions[1].Description)
	assert.InDelta(t, 45.00, result.Transactions[1].Amount, 1e-9)
	assert.Equal(t, model.TypeDebit, result.Transactions[1].Type)

	assert.InDelta(t, 12.30, result.Transactions[2].Amount, 1e-9)
	assert.InDelta(t, 7.00, result.Transactions[3].Amount, 1e-9)
}

func TestParseCSV_CustomColumns(t *testing.T) {
	content := `Posted,Memo,Value,Kind,Check No
15/01/2024,RENT,-1500.00,DEBIT,1042
16/01/2024,,25.00,,`

	opts := CSVOptions{
		DateColumn:        "posted",
		DescriptionColumn: "Memo",
		AmountColumn:      "Value",
		TypeColumn:        "Kind",
		ReferenceColumn:   "Check No",
		DateFormat:        "DD/MM/YYYY",
	}

	result := newTestParser().ParseCSV(content, opts)
	require.True(t, result.Success, result.Error)
	require.Len(t, result.Transactions, 2)

	rent := result.Transactions[0]
	assert.Equal(t, date(2024, time.January, 15), rent.Date)
	assert.Equal(t, "1042", rent.Reference)
	assert.Equal(t, model.TypeDebit, rent.Type)

	assert.Equal(t, DefaultDescription, result.Transactions[1].Description)
	assert.Empty(t, result.Transactions[1].Reference)
}

func TestParseCSV_WithoutHeader(t *testing.T) {
	t.Run("default positions", func(t *testing.T) {
		content := "2024-03-01,GROCERIES,-82.10,,REF1\n2024-03-02,SALARY,3000,,REF2"

		result := newTestParser().ParseCSV(content, CSVOptions{}.WithHeader(false))
		require.True(t, result.Success, result.Error)
		require.Len(t, result.Transactions, 2)
		assert.Equal(t, "GROCERIES", result.Transactions[0].Description)
		assert.Equal(t, "REF1", result.Transactions[0].Reference)
		assert.Equal(t, model.TypeCredit, result.Transactions[1].Type)
	})

	t.Run("numeric column options", func(t *testing.T) {
		content := "-82.10,GROCERIES,2024-03-01"
		opts := CSVOptions{DateColumn: "2", DescriptionColumn: "1", AmountColumn: "0"}.WithHeader(false)

		result := newTestParser().ParseCSV(content, opts)
		require.True(t, result.Success, result.Error)
		require.Len(t, result.Transactions, 1)
		assert.Equal(t, date(2024, time.March, 1), result.Transactions[0].Date)
		assert.InDelta(t, 82.10, result.Transactions[0].Amount, 1e-9)
	})
}

func TestParseCSV_DocumentErrors(t *testing.T) {
	t.Run("missing amount column", func(t *testing.T) {
		result := newTestParser().ParseCSV("Date,Description\n01/01/2024,X", CSVOptions{})
		assert.False(t, result.Success)
		assert.True(t, result.Failed())
		assert.Empty(t, result.Transactions)
		assert.Contains(t, result.Error, `missing required column "Amount"`)
	})

	t.Run("empty content", func(t *testing.T) {
		result := newTestParser().ParseCSV("", CSVOptions{})
		assert.True(t, result.Success)
		assert.Empty(t, result.Transactions)
	})

	t.Run("byte order mark before header", func(t *testing.T) {
		result := newTestParser().ParseCSV("\ufeffDate,Description,Amount\n01/01/2024,X,1", CSVOptions{})
		require.True(t, result.Success, result.Error)
		assert.Len(t, result.Transactions, 1)
	})
}

func TestParseCSV_UniqueIDs(t *testing.T) {
	content := "Date,Description,Amount\n01/01/2024,A,1\n01/01/2024,A,1"

	result := NewParser().ParseCSV(content, CSVOptions{})
	require.Len(t, result.Transactions, 2)
	assert.NotEmpty(t, result.Transactions[0].ID)
	assert.NotEqual(t, result.Transactions[0].ID, result.Transactions[1].ID)
}
