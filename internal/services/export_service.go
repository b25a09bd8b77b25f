package services

import (
	"fmt"

	"wmsconsole/internal/models"

	"github.com/xuri/excelize/v2"
)

const inventorySheet = "Inventory"

var inventoryHeaders = []string{"ID", "Name", "SKU", "Category", "Tags", "Quantity", "Low Stock Threshold", "Status", "Archived"}

// ProductsWorkbook renders products as an XLSX file, one row per product
func ProductsWorkbook(products []models.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", inventorySheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lowStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create status style: %w", err)
	}

	for i, h := range inventoryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(inventorySheet, cell, h); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(inventoryHeaders), 1)
	if err := f.SetCellStyle(inventorySheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, p := range products {
		row := i + 2
		values := []interface{}{p.ID, p.Name, p.SKU, p.Category, p.Tags, p.Quantity, p.LowStockThreshold, p.StockStatus(), p.IsArchived}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(inventorySheet, start, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if p.IsLowStock() {
			cell, _ := excelize.CoordinatesToCellName(8, row)
			if err := f.SetCellStyle(inventorySheet, cell, cell, lowStyle); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(inventorySheet, "B", "B", 32); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
