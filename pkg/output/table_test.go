package output

import (
	"strings"
	"testing"
)

func tableLines(t *testing.T, table string) []string {
	t.Helper()
	return strings.Split(strings.TrimSuffix(table, "\n"), "\n")
}

func TestTableRendersHeaderAndRows(t *testing.T) {
	t.Setenv("KDEV_TABLE_MAX_WIDTH", "120")

	table := Table(
		[]string{"build", "family"},
		[][]string{
			{"10323.104.0", "lts"},
			{"10895.0.0", "dev"},
		},
		0,
	)

	lines := tableLines(t, table)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), table)
	}
	if !strings.Contains(lines[0], "BUILD") || !strings.Contains(lines[0], "FAMILY") {
		t.Fatalf("expected uppercase headers, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "10323.104.0") || !strings.Contains(lines[2], "10895.0.0") {
		t.Fatalf("rows not rendered in order: %q", table)
	}
}

func TestTableRepeatsHeader(t *testing.T) {
	t.Setenv("KDEV_TABLE_MAX_WIDTH", "120")

	rows := make([][]string, 5)
	for i := range rows {
		rows[i] = []string{"row"}
	}

	table := Table([]string{"col"}, rows, 2)

	headerCount := strings.Count(table, "COL")
	if headerCount != 3 {
		t.Fatalf("expected header emitted 3 times, got %d:\n%s", headerCount, table)
	}

	lines := tableLines(t, table)
	// header, 2 rows, header, 2 rows, header, 1 row
	if len(lines) != 8 {
		t.Fatalf("expected 8 lines, got %d:\n%s", len(lines), table)
	}
	if !strings.HasPrefix(lines[3], "COL") {
		t.Fatalf("expected repeated header at line 3, got %q", lines[3])
	}
}

func TestTableNoRepeatForShortListing(t *testing.T) {
	t.Setenv("KDEV_TABLE_MAX_WIDTH", "120")

	table := Table([]string{"col"}, [][]string{{"a"}, {"b"}}, 25)

	if strings.Count(table, "COL") != 1 {
		t.Fatalf("expected single header for short listing:\n%s", table)
	}
}

func TestTableTruncatesWhenWidthExceeded(t *testing.T) {
	t.Setenv("KDEV_TABLE_MAX_WIDTH", "20")

	table := Table(
		[]string{"Col1", "Col2"},
		[][]string{{"this-is-a-very-long-value", "short"}},
		0,
	)

	for i, line := range tableLines(t, table) {
		if displayWidth(line) > 20 {
			t.Fatalf("line %d exceeds max width: %d > 20", i, displayWidth(line))
		}
	}
	if !strings.Contains(table, "...") {
		t.Fatalf("expected truncated output to contain ellipsis")
	}
}

func TestTableClampPreservesShortColumn(t *testing.T) {
	t.Setenv("KDEV_TABLE_MAX_WIDTH", "30")

	table := Table(
		[]string{"Short", "Longer"},
		[][]string{{"ok", "this-is-a-very-long-value-that-should-truncate"}},
		0,
	)

	lines := tableLines(t, table)
	for i, line := range lines {
		if displayWidth(line) > 30 {
			t.Fatalf("line %d exceeds max width: %d > 30", i, displayWidth(line))
		}
	}
	if strings.Contains(lines[1], "ok...") {
		t.Fatalf("short column should not be truncated: %q", lines[1])
	}
	if !strings.Contains(lines[1], "...") {
		t.Fatalf("long column should be truncated with ellipsis")
	}
}

func TestTableFitsWhenMaxWidthSmallerThanColumnCount(t *testing.T) {
	t.Setenv("KDEV_TABLE_MAX_WIDTH", "20")

	table := Table(
		[]string{"A", "B", "C", "D"},
		[][]string{{"val1", "val2", "val3", "val4"}},
		0,
	)

	for i, line := range tableLines(t, table) {
		if width := displayWidth(line); width > 20 {
			t.Fatalf("line %d exceeds max width: %d > 20 (content: %q)", i, width, line)
		}
	}
	if len(table) == 0 {
		t.Fatalf("table should not be empty even with severe constraints")
	}
}

func TestTableEmptyHeaders(t *testing.T) {
	if got := Table(nil, [][]string{{"x"}}, 0); got != "" {
		t.Fatalf("expected empty output without headers, got %q", got)
	}
}

func TestTableShortRowPadded(t *testing.T) {
	t.Setenv("KDEV_TABLE_MAX_WIDTH", "120")

	table := Table([]string{"A", "B"}, [][]string{{"only-a"}}, 0)

	lines := tableLines(t, table)
	if !strings.Contains(lines[1], "only-a") {
		t.Fatalf("row value missing: %q", lines[1])
	}
}
