// Package loader turns uploaded document bytes into plain text for model
// providers that cannot take the original format inline.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedMimeType = errors.New("unsupported mime type")

const (
	MimePDF  = "application/pdf"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Text extracts readable text from data according to mimeType.
func Text(mimeType string, data []byte) (string, error) {
	switch {
	case isPlainText(mimeType):
		return string(data), nil
	case mimeType == MimePDF:
		return pdfText(data)
	case mimeType == MimeXLSX:
		return spreadsheetText(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMimeType, mimeType)
	}
}

func isPlainText(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch mimeType {
	case "application/json", "application/xml", "application/x-yaml":
		return true
	}
	return false
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "[Page %d]\n%s\n\n", i, text)
	}

	if sb.Len() == 0 {
		return "", errors.New("no extractable text in PDF")
	}
	return sb.String(), nil
}

func spreadsheetText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("opening spreadsheet: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		fmt.Fprintf(&sb, "[Sheet %s]\n", sheet)
		for _, row := range rows {
			sb.WriteString(strings.Join(row, "\t"))
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
