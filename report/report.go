// file: report/report.go

// Package report renders order listings into downloadable CSV, Excel and PDF
// documents.
package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"go-shop-api/model"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ErrNoData is returned when there are no orders to render.
var ErrNoData = errors.New("no data to generate report")

var columns = []string{"ID", "Product", "Price", "Quantity", "Customer", "Created At"}

func orderCells(o model.OrderRead) []string {
	return []string{
		strconv.Itoa(o.ID),
		o.Product,
		strconv.FormatFloat(o.Price, 'f', 2, 64),
		strconv.Itoa(o.Quantity),
		o.CustomerUsername,
		o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GenerateCSV renders the orders as a CSV document with a header row.
func GenerateCSV(orders []model.OrderRead) ([]byte, error) {
	if len(orders) == 0 {
		return nil, ErrNoData
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if err := w.Write(orderCells(o)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateExcel renders the orders as an xlsx workbook with a single "Orders"
// sheet.
func GenerateExcel(orders []model.OrderRead) ([]byte, error) {
	if len(orders) == 0 {
		return nil, ErrNoData
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
	}

	for rowIdx, o := range orders {
		values := []interface{}{o.ID, o.Product, o.Price, o.Quantity, o.CustomerUsername, o.CreatedAt.Format("2006-01-02 15:04:05")}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GeneratePDF renders the orders as a PDF table with a grand total row.
func GeneratePDF(customerName string, orders []model.OrderRead) ([]byte, error) {
	if len(orders) == 0 {
		return nil, ErrNoData
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Orders for %s", customerName))
	pdf.Ln(12)

	colWidths := []float64{15, 90, 30, 25, 60, 45}

	pdf.SetFont("Arial", "B", 10)
	for i, name := range columns {
		pdf.CellFormat(colWidths[i], 8, name, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	grandTotal := 0.0
	for _, o := range orders {
		for i, cell := range orderCells(o) {
			pdf.CellFormat(colWidths[i], 8, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		grandTotal += o.Price * float64(o.Quantity)
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(colWidths[0]+colWidths[1], 8, "Grand Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[2], 8, strconv.FormatFloat(grandTotal, 'f', 2, 64), "1", 0, "L", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
