// Package statement parses bank statement files into normalized imported transactions.
package statement

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Veraticus/statement-reconciler/internal/common"
	"github.com/google/uuid"
)

// FileType identifies a statement format.
type FileType string

// Supported statement formats.
const (
	FileTypeCSV FileType = "csv"
	FileTypeOFX FileType = "ofx"
	FileTypeQFX FileType = "qfx" // Quicken flavour of OFX
)

// ParseFileType normalizes a user-supplied format name.
func ParseFileType(s string) (FileType, error) {
	switch FileType(strings.ToLower(strings.TrimSpace(s))) {
	case FileTypeCSV:
		return FileTypeCSV, nil
	case FileTypeOFX:
		return FileTypeOFX, nil
	case FileTypeQFX:
		return FileTypeQFX, nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, s)
	}
}

// DetectFileType infers the statement format from a file name.
func DetectFileType(filename string) (FileType, error) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", common.ErrUnsupportedFormat, filename)
	}
	return ParseFileType(ext)
}

// Parser converts statement content into imported transactions.
type Parser struct {
	newID func() string
}

// NewParser creates a new statement parser.
func NewParser() *Parser {
	return &Parser{newID: uuid.NewString}
}

// NewParserWithIDs creates a parser that draws transaction ids from newID.
func NewParserWithIDs(newID func() string) *Parser {
	return &Parser{newID: newID}
}

// Parse dispatches content to the parser for fileType.
func (p *Parser) Parse(content string, fileType FileType, opts CSVOptions) (*ParseResult, error) {
	switch fileType {
	case FileTypeCSV:
		return p.ParseCSV(content, opts), nil
	case FileTypeOFX, FileTypeQFX:
		return p.ParseOFX(content), nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, fileType)
	}
}
