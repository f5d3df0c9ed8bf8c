package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type ExcelExporter interface {
	GetCellValues() []interface{}
}

func (r ProductionRow) GetCellValues() []interface{} {
	return []interface{}{
		r.Name,
		r.Committed,
		r.Stock,
		r.ToProduce,
	}
}

// WriteProductionDashboardExcel streams the dashboard as an XLSX workbook.
func WriteProductionDashboardExcel(w io.Writer, dashboard *ProductionDashboardResponse) error {

	f := excelize.NewFile()
	sheetName := "Sheet1"
	_, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "Route")
	f.SetCellValue(sheetName, "B1", dashboard.RouteName)
	f.SetCellValue(sheetName, "C1", "Date")
	f.SetCellValue(sheetName, "D1", dashboard.Date.Format("2006-01-02"))

	headings := []string{"Product", "Committed", "Stock", "To Produce"}
	col := 'A'
	for _, h := range headings {
		f.SetCellValue(sheetName, string(col)+"3", h)
		col++
	}

	rowNo := 4
	for _, row := range dashboard.Rows {
		col := 'A'
		for _, value := range row.GetCellValues() {
			f.SetCellValue(sheetName, string(col)+fmt.Sprint(rowNo), fmt.Sprint(value))
			col++
		}
		rowNo++
	}

	return f.Write(w)
}
