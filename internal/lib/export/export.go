// Package export renders report documents as plain text or XLSX
// workbooks.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/deppfellow/campus-manager/internal/model/report"
	"github.com/xuri/excelize/v2"
)

const (
	FormatText = "txt"
	FormatXLSX = "xlsx"

	ContentTypeText = "text/plain; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Text renders doc as aligned columns, one block per section.
func Text(doc report.Document) string {
	var b strings.Builder

	b.WriteString(doc.Title + "\n")
	b.WriteString(strings.Repeat("=", utf8.RuneCountInString(doc.Title)) + "\n")
	b.WriteString("Generated at " + doc.GeneratedAt.UTC().Format("2006-01-02 15:04 MST") + "\n")

	for _, s := range doc.Sections {
		b.WriteString("\n" + s.Title + "\n")
		b.WriteString(strings.Repeat("-", utf8.RuneCountInString(s.Title)) + "\n")

		if len(s.Rows) == 0 {
			b.WriteString("(no records)\n")
		} else {
			writeTable(&b, s.Headers, s.Rows)
		}
		for _, line := range s.Summary {
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

func writeTable(b *strings.Builder, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	line := func(cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = cell + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell))
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, "  "), " ") + "\n")
	}

	line(headers)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	line(sep)
	for _, row := range rows {
		line(row)
	}
}

// XLSX renders doc as a workbook with one sheet per section.
func XLSX(doc report.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	sections := doc.Sections
	if len(sections) == 0 {
		sections = []report.Section{{Title: doc.Title}}
	}

	used := map[string]int{}
	for i, s := range sections {
		name := sheetName(s.Title, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("naming sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("creating sheet %q: %w", name, err)
		}

		if err := writeSheet(f, name, s, bold); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, s report.Section, headerStyle int) error {
	row := 1
	if len(s.Headers) > 0 {
		if err := setRow(f, sheet, row, s.Headers); err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(len(s.Headers), row)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
			return fmt.Errorf("styling header: %w", err)
		}
		row++
	}

	for _, cells := range s.Rows {
		if err := setRow(f, sheet, row, cells); err != nil {
			return err
		}
		row++
	}

	if len(s.Summary) > 0 {
		row++
		for _, line := range s.Summary {
			if err := setRow(f, sheet, row, []string{line}); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d of %q: %w", row, sheet, err)
	}
	return nil
}

// sheetName trims title to Excel's 31 character limit, drops the
// characters Excel rejects and de-duplicates.
func sheetName(title string, used map[string]int) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "Sheet"
	}
	name = truncate(name, 31)

	used[name]++
	if n := used[name]; n > 1 {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncate(name, 31-len(suffix)) + suffix
	}
	return name
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
