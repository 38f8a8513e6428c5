package statement

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

const (
	transactionLabel  = "Transaction"
	noTransactionsMsg = "No transactions found"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags missing their closing bracket at end of line.
	unclosedTagRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in OFX files.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = unclosedTagRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseOFX converts an OFX/QFX document into imported transactions.
// Well-formed documents go through ofxgo; documents it rejects are read
// transaction by transaction so one bad entry only drops itself.
func (p *Parser) ParseOFX(content string) *ParseResult {
	processed := preprocessOFX(content)

	resp, err := ofxgo.ParseResponse(strings.NewReader(processed))
	if err != nil {
		slog.Debug("Strict OFX parse failed, scanning transactions individually", "error", err)
		return p.scanOFX(processed)
	}

	result := newParseResult()
	var lists []*ofxgo.TransactionList

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			lists = append(lists, stmt.BankTranList)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			lists = append(lists, stmt.BankTranList)
		}
	}

	if len(lists) == 0 {
		return result.fail(noTransactionsMsg)
	}

	n := 0
	for _, list := range lists {
		for _, ofxTx := range list.Transactions {
			n++
			txn, reason := p.convertOFXTransaction(ofxTx)
			if reason != "" {
				slog.Warn("Skipping OFX transaction", "index", n, "fitid", ofxTx.FiTID, "reason", reason)
				result.addRowError(transactionLabel, n, reason)
				continue
			}
			result.Transactions = append(result.Transactions, txn)
		}
	}

	slog.Info("Parsed OFX statement",
		"statements", len(lists),
		"transactions", len(result.Transactions),
		"skipped", len(result.Errors))

	return result.finish()
}

func (p *Parser) convertOFXTransaction(ofxTx ofxgo.Transaction) (model.ImportedTransaction, string) {
	if ofxTx.DtPosted.IsZero() {
		return model.ImportedTransaction{}, "Invalid date format"
	}

	amount, err := decimal.NewFromString(ofxTx.TrnAmt.Rat.FloatString(4))
	if err != nil {
		return model.ImportedTransaction{}, "Invalid amount"
	}

	payee := ""
	if ofxTx.Payee != nil {
		payee = string(ofxTx.Payee.Name)
	}

	return p.newOFXTransaction(
		calendarDate(ofxTx.DtPosted.Time),
		amount,
		firstNonEmpty(string(ofxTx.Memo), string(ofxTx.Name), payee),
		string(ofxTx.FiTID),
	), ""
}

// newOFXTransaction applies the OFX sign convention: positive amounts are credits.
func (p *Parser) newOFXTransaction(date time.Time, amount decimal.Decimal, description, fitID string) model.ImportedTransaction {
	kind := model.TypeDebit
	if amount.IsPositive() {
		kind = model.TypeCredit
	}

	return model.ImportedTransaction{
		ID:          p.newID(),
		Date:        date,
		Description: description,
		Amount:      amount.Abs().InexactFloat64(),
		Type:        kind,
		Reference:   strings.TrimSpace(fitID),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return DefaultDescription
}
