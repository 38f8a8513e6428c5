package statement

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	tranListRegex = regexp.MustCompile(`(?i)<BANKTRANLIST>`)
	stmtTrnRegex  = regexp.MustCompile(`(?is)<STMTTRN>(.*?)</STMTTRN>`)
	ofxFieldRegex = map[string]*regexp.Regexp{}
)

func init() {
	for _, tag := range []string{"DTPOSTED", "TRNAMT", "MEMO", "NAME", "FITID"} {
		ofxFieldRegex[tag] = regexp.MustCompile(`(?i)<` + tag + `>([^<\r\n]*)`)
	}
}

// scanOFX reads STMTTRN blocks directly from the document text.
func (p *Parser) scanOFX(content string) *ParseResult {
	result := newParseResult()

	if !tranListRegex.MatchString(content) {
		return result.fail(noTransactionsMsg)
	}

	for i, match := range stmtTrnRegex.FindAllStringSubmatch(content, -1) {
		n := i + 1
		block := match[1]

		date, err := parseOFXDate(ofxField(block, "DTPOSTED"))
		if err != nil {
			slog.Warn("Skipping OFX transaction", "index", n, "error", err)
			result.addRowError(transactionLabel, n, "Invalid date format")
			continue
		}

		amount, err := parseOFXAmount(ofxField(block, "TRNAMT"))
		if err != nil {
			slog.Warn("Skipping OFX transaction", "index", n, "error", err)
			result.addRowError(transactionLabel, n, "Invalid amount")
			continue
		}

		description := firstNonEmpty(ofxField(block, "MEMO"), ofxField(block, "NAME"))
		result.Transactions = append(result.Transactions,
			p.newOFXTransaction(date, amount, description, ofxField(block, "FITID")))
	}

	slog.Info("Scanned OFX statement",
		"transactions", len(result.Transactions),
		"skipped", len(result.Errors))

	return result.finish()
}

func ofxField(block, tag string) string {
	if m := ofxFieldRegex[tag].FindStringSubmatch(block); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// parseOFXDate reads the YYYYMMDD prefix of an OFX datetime such as
// 20240115120000.000[-5:EST].
func parseOFXDate(s string) (time.Time, error) {
	if len(s) < 8 {
		return time.Time{}, fmt.Errorf("malformed DTPOSTED %q", s)
	}
	t, err := time.Parse("20060102", s[:8])
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed DTPOSTED %q: %w", s, err)
	}
	return t, nil
}

// parseOFXAmount accepts a comma as the decimal mark, which some banks emit.
func parseOFXAmount(s string) (decimal.Decimal, error) {
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return parseAmount(s)
}
