package output

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	ansiReset      = "\033[0m"
	ansiDimUnder   = "\033[2;4m"
	colSeparator   = "  "
	ellipsisWidth  = 3
	defaultWidth   = 120
	minColumnWidth = 3
)

// ansiPattern strips ANSI/OSC escape sequences
var ansiPattern = regexp.MustCompile(`\x1b(?:\[[0-9;?]*[ -/]*[@-~]|\][^\a]*(?:\a|\x1b\\)|[P_\]^][^\x1b]*\x1b\\)`)

// Table renders headers and rows as a fixed-width text table. With
// repeatHeader > 0 the header line is re-emitted before every
// repeatHeader-th data row, which keeps long listings readable when they
// scroll past a screenful.
func Table(headers []string, rows [][]string, repeatHeader int) string {
	if len(headers) == 0 {
		return ""
	}

	useColor := ColorEnabled()
	maxWidth := detectedTableWidth()

	upperHeaders := make([]string, len(headers))
	for i, header := range headers {
		upperHeaders[i] = strings.ToUpper(header)
	}

	colWidths := make([]int, len(headers))
	for i, header := range upperHeaders {
		colWidths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(colWidths); i++ {
			if width := displayWidth(row[i]); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}
	clampColumnWidths(colWidths, maxWidth)

	var builder strings.Builder
	writeHeader := func() {
		for i, upperHeader := range upperHeaders {
			if useColor {
				builder.WriteString(ansiDimUnder)
			}
			writePadded(&builder, truncateToWidth(upperHeader, colWidths[i]), colWidths[i])
			if useColor {
				builder.WriteString(ansiReset)
			}
			if i < len(headers)-1 {
				builder.WriteString(colSeparator)
			}
		}
		builder.WriteString("\n")
	}

	writeHeader()
	for n, row := range rows {
		if repeatHeader > 0 && n > 0 && n%repeatHeader == 0 {
			writeHeader()
		}
		for i := range headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			writePadded(&builder, truncateToWidth(value, colWidths[i]), colWidths[i])
			if i < len(headers)-1 {
				builder.WriteString(colSeparator)
			}
		}
		builder.WriteString("\n")
	}

	return builder.String()
}

func detectedTableWidth() int {
	if env := os.Getenv("KDEV_TABLE_MAX_WIDTH"); env != "" {
		if width, err := strconv.Atoi(env); err == nil && width > 0 {
			return width
		}
	}
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return defaultWidth
}

func displayWidth(s string) int {
	stripped := ansiPattern.ReplaceAllString(s, "")
	return runewidth.StringWidth(stripped)
}

func writePadded(builder *strings.Builder, s string, width int) {
	visible := displayWidth(s)
	builder.WriteString(s)
	for i := visible; i < width; i++ {
		builder.WriteByte(' ')
	}
}

func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}

	if displayWidth(s) <= width {
		return s
	}

	if width <= ellipsisWidth {
		return trimToWidth(s, width)
	}

	trimmed := trimToWidth(s, width-ellipsisWidth)
	return trimmed + "..."
}

func trimToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}

	stripped := ansiPattern.ReplaceAllString(s, "")
	if runewidth.StringWidth(stripped) <= width {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	currentWidth := 0
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError {
			break
		}

		rw := runewidth.RuneWidth(r)
		if currentWidth+rw > width {
			break
		}

		b.WriteString(s[i : i+size])
		currentWidth += rw
		i += size
	}

	return b.String()
}

// clampColumnWidths shrinks the widest columns until the table fits in
// maxWidth, never below minColumnWidth.
func clampColumnWidths(colWidths []int, maxWidth int) {
	sepTotal := (len(colWidths) - 1) * len(colSeparator)
	for {
		total := sepTotal
		for _, w := range colWidths {
			total += w
		}
		if total <= maxWidth {
			return
		}

		widest := 0
		for i, w := range colWidths {
			if w > colWidths[widest] {
				widest = i
			}
		}
		if colWidths[widest] <= minColumnWidth {
			return
		}
		colWidths[widest]--
	}
}
