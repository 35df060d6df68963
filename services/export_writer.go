// services/export_writer.go - spreadsheet serialization of report rows
package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Submissions"

// WriteXLSX serializes report rows into a styled workbook.
func (b *ExportBuilder) WriteXLSX(title string, rows []ExportRow) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	f.SetCellValue(exportSheetName, "A1", title)
	f.SetCellStyle(exportSheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(exportSheetName, 1, 30)
	f.SetCellValue(exportSheetName, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	const headerRow = 4
	for colIdx, column := range b.columns {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, headerRow)
		f.SetCellValue(exportSheetName, cell, column.Title)
		f.SetCellStyle(exportSheetName, cell, cell, headerStyle)
		letter := columnIndexToLetter(colIdx + 1)
		f.SetColWidth(exportSheetName, letter, letter, 22)
	}

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "CCCCCC", Style: 1},
			{Type: "right", Color: "CCCCCC", Style: 1},
			{Type: "top", Color: "CCCCCC", Style: 1},
			{Type: "bottom", Color: "CCCCCC", Style: 1},
		},
	})

	for rowIdx, reportRow := range rows {
		for colIdx, value := range reportRow {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, headerRow+1+rowIdx)
			if value != nil {
				f.SetCellValue(exportSheetName, cell, value)
			}
			f.SetCellStyle(exportSheetName, cell, cell, dataStyle)
		}
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

// WriteXLSXBuffer serializes the workbook into a downloadable buffer.
func (b *ExportBuilder) WriteXLSXBuffer(title string, rows []ExportRow) (*bytes.Buffer, error) {
	f, err := b.WriteXLSX(title, rows)
	if err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

// WriteCSV serializes report rows as CSV with the column titles as header.
func (b *ExportBuilder) WriteCSV(rows []ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := make([]string, 0, len(b.columns))
	for _, column := range b.columns {
		header = append(header, column.Title)
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, reportRow := range rows {
		record := make([]string, 0, len(reportRow))
		for _, value := range reportRow {
			if value == nil {
				record = append(record, "")
				continue
			}
			record = append(record, fmt.Sprintf("%v", value))
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}

// ExportFilename builds a unique report filename for the given extension.
func ExportFilename(yearLabel, ext string) string {
	if yearLabel == "" {
		yearLabel = "all-years"
	}
	stamp := time.Now().Format("20060102_150405")
	short := uuid.New().String()[:8]
	return fmt.Sprintf("submissions_%s_%s_%s.%s", yearLabel, stamp, short, ext)
}

func columnIndexToLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+(col%26))) + result
		col /= 26
	}
	return result
}
