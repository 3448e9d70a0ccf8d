package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SalesHeader is the header line of every sales extract
const SalesHeader = "Order ID,Product,Quantity Ordered,Price Each,Order Date,Purchase Address"

// HeaderLiteralRow is the repeated header that appears inside raw extracts
const HeaderLiteralRow = SalesHeader

// SalesRow builds one CSV line. The address is quoted because it contains commas.
func SalesRow(orderID, product, qty, price, date, address string) string {
	if address != "" {
		address = `"` + address + `"`
	}
	return strings.Join([]string{orderID, product, qty, price, date, address}, ",")
}

// WriteSalesCSV writes a sales extract with the standard header followed by rows
// and returns its path.
func WriteSalesCSV(t *testing.T, dir, name string, rows ...string) string {
	t.Helper()
	return WriteRawFile(t, dir, name, SalesHeader+"\n"+joinLines(rows))
}

// WriteRawFile writes content verbatim and returns its path
func WriteRawFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// DallasScenario returns the three-row April extract: a repeated header, a
// line with no price and one valid Dallas order.
func DallasScenario() []string {
	return []string{
		HeaderLiteralRow,
		SalesRow("176560", "Google Phone", "1", "", "04/12/19 14:38", "669 Spruce St, Los Angeles, CA 90001"),
		SalesRow("176558", "USB-C Charging Cable", "2", "11.95", "04/19/19 08:46", "917 1st St, Dallas, TX 75001"),
	}
}

func joinLines(rows []string) string {
	if len(rows) == 0 {
		return ""
	}
	return strings.Join(rows, "\n") + "\n"
}
