package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Document", "WPM", "Tokens"}
	rows := [][]string{
		{"My Book", "312", "1500"},
		{"Short", "95", "40"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Document  WPM  Tokens" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "My Book   312    1500" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Short      95      40" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected nil for empty table, got %v", lines)
	}
}
