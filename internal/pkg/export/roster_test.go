package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseRoster_CSVHeaderOrderAndBlankLines(t *testing.T) {
	input := "studentId,Name,grade,vaccinationStatus,extra\n" +
		"S-1, Ada ,10th,vaccinated,x\n" +
		",,,,\n" +
		"S-2,Grace,11th,,\n"

	rows, err := ParseRoster(FormatCSV, strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, RosterRow{Line: 2, Name: "Ada", StudentID: "S-1", Grade: "10th", VaccinationStatus: "vaccinated"}, rows[0])
	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "Grace", rows[1].Name)
}

func TestParseRoster_MissingColumn(t *testing.T) {
	_, err := ParseRoster(FormatCSV, strings.NewReader("name,grade\nAda,10th\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "studentid")
}

func TestParseRoster_Empty(t *testing.T) {
	_, err := ParseRoster(FormatCSV, strings.NewReader(""))
	assert.Error(t, err)
}

func TestRosterCSVRoundTrip(t *testing.T) {
	in := []RosterRow{{Name: "Ada, Countess", StudentID: "S-1", Grade: "10th", DateOfBirth: "2010-05-04"}}

	var buf bytes.Buffer
	require.NoError(t, WriteRosterCSV(&buf, in))
	assert.True(t, strings.HasPrefix(buf.String(), strings.Join(RosterColumns, ",")+"\n"))

	out, err := ParseRoster(FormatCSV, &buf)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Ada, Countess", out[0].Name)
	assert.Equal(t, "2010-05-04", out[0].DateOfBirth)
}

func TestRosterXLSXRoundTrip(t *testing.T) {
	in := []RosterRow{
		{Name: "Ada", StudentID: "S-1", Grade: "10th"},
		{Name: "Grace", StudentID: "S-2", Grade: "12th", VaccinationStatus: "not_vaccinated"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRosterXLSX(&buf, in))

	out, err := ParseRoster(FormatXLSX, &buf)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "S-2", out[1].StudentID)
	assert.Equal(t, "not_vaccinated", out[1].VaccinationStatus)
}

func TestWriteWorkbook_Sheets(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWorkbook(&buf, []SheetSpec{
		{Title: "Status", Header: []string{"status", "count"}, Rows: [][]string{{"vaccinated", "3"}}},
		{Title: "Grades", Header: []string{"grade", "rate"}},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Status", "Grades"}, f.GetSheetList())
	v, err := f.GetCellValue("Status", "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestFormatFromFilename(t *testing.T) {
	f, err := FormatFromFilename("roster.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = FormatFromFilename("roster.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatFromFilename("roster.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
