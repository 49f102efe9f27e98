package service

import (
	"bytes"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PDFDataURLPrefix is prepended to base64 PDF content stored in a document url.
const PDFDataURLPrefix = "data:application/pdf;base64,"

var (
	errNotPDF        = errors.New("file is not a PDF")
	errUnreadablePDF = errors.New("file is not a readable PDF")
)

// ParseResult contains what is extracted from an uploaded PDF
type ParseResult struct {
	Pages    int
	Size     int
	Checksum string
	DataURL  string
}

// Parser handles uploaded document parsing
type Parser struct {
	maxSize int
}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{maxSize: 15 * 1024 * 1024}
}

// Parse checks the PDF signature and extracts page count and checksum
func (p *Parser) Parse(content []byte) (*ParseResult, error) {
	if !bytes.HasPrefix(content, []byte("%PDF-")) {
		return nil, errNotPDF
	}
	if len(content) > p.maxSize {
		return nil, errors.New("file is too large")
	}

	pages, err := p.countPages(content)
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		Pages:    pages,
		Size:     len(content),
		Checksum: p.calculateChecksum(content),
		DataURL:  PDFDataURLPrefix + base64.StdEncoding.EncodeToString(content),
	}, nil
}

// countPages reads /Count from the page tree root, following cross-reference
// streams and compressed object streams.
func (p *Parser) countPages(content []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("%w: %v", errUnreadablePDF, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errUnreadablePDF, err)
	}
	return r.NumPage(), nil
}

// calculateChecksum computes MD5 hash of content
func (p *Parser) calculateChecksum(content []byte) string {
	hash := md5.Sum(content)
	return hex.EncodeToString(hash[:])
}

// DecodeDataURL returns the bytes of a base64 PDF data URL.
func DecodeDataURL(url string) ([]byte, bool) {
	if !bytes.HasPrefix([]byte(url), []byte(PDFDataURLPrefix)) {
		return nil, false
	}
	b, err := base64.StdEncoding.DecodeString(url[len(PDFDataURLPrefix):])
	if err != nil {
		return nil, false
	}
	return b, true
}
