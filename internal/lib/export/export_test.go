package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/deppfellow/campus-manager/internal/model/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleDocument() report.Document {
	return report.Document{
		Title:       "Hostel Occupancy",
		GeneratedAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		Sections: []report.Section{
			{
				Title:   "Rooms",
				Headers: []string{"Room", "Occupied"},
				Rows: [][]string{
					{"A-101", "2/2"},
					{"B-12", "0/4"},
				},
				Summary: []string{"Occupancy rate: 33.3%"},
			},
			{
				Title:   "Blocks: per block",
				Headers: []string{"Block"},
			},
		},
	}
}

func TestText(t *testing.T) {
	out := Text(sampleDocument())

	assert.Contains(t, out, "Hostel Occupancy\n================\n")
	assert.Contains(t, out, "Generated at 2026-03-02 09:30 UTC")
	assert.Contains(t, out, "Room   Occupied\n-----  --------\nA-101  2/2\nB-12   0/4\n")
	assert.Contains(t, out, "Occupancy rate: 33.3%")
	assert.Contains(t, out, "(no records)")
}

func TestXLSX(t *testing.T) {
	data, err := XLSX(sampleDocument())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Rooms", "Blocks per block"}, f.GetSheetList())

	rows, err := f.GetRows("Rooms")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Room", "Occupied"}, rows[0])
	assert.Equal(t, []string{"A-101", "2/2"}, rows[1])
	assert.Equal(t, []string{"Occupancy rate: 33.3%"}, rows[4])
}

func TestXLSX_EmptyDocument(t *testing.T) {
	data, err := XLSX(report.Document{Title: "Empty"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Empty"}, f.GetSheetList())
}

func TestSheetName(t *testing.T) {
	used := map[string]int{}
	assert.Equal(t, "Results", sheetName("Results", used))
	assert.Equal(t, "Results (2)", sheetName("Results", used))
	assert.Equal(t, "Sheet", sheetName("[]", used))
	assert.Len(t, []rune(sheetName("A very long section title that overflows", used)), 31)
}
