package source

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// WriteCSV writes a result set as CSV with a header row.
func WriteCSV(w io.Writer, rs *ResultSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rs.Columns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, row := range rs.Rows {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// WriteXLSX writes a result set as a single-sheet XLSX workbook.
func WriteXLSX(w io.Writer, rs *ResultSet) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Results")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range rs.Columns {
		header.AddCell().Value = col
	}
	for _, row := range rs.Rows {
		r := sheet.AddRow()
		for _, val := range row {
			r.AddCell().Value = val
		}
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}
