// internal/export/export.go

// Package export renders the product list and the merged movement ledger
// into portable files.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/estoqueapp/estoque/internal/core/domain"
)

// Metadata describes an export payload.
type Metadata struct {
	ExportDate     time.Time `json:"export_date"`
	TotalProducts  int       `json:"total_products"`
	TotalMovements int       `json:"total_movements"`
}

// JSONPayload is the JSON export envelope.
type JSONPayload struct {
	Products  []domain.Product  `json:"products"`
	Movements []domain.Movement `json:"movements"`
	Metadata  Metadata          `json:"metadata"`
}

// JSON renders products and ledger as a single JSON document.
func JSON(products []domain.Product, movements []domain.Movement) ([]byte, error) {
	payload := JSONPayload{
		Products:  products,
		Movements: movements,
		Metadata: Metadata{
			ExportDate:     time.Now(),
			TotalProducts:  len(products),
			TotalMovements: len(movements),
		},
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return data, nil
}

// Excel renders products and ledger as an xlsx workbook with one sheet
// per collection. Movement rows resolve product names through the given
// list; excluido rows fall back to the note, which carries the deleted
// product's name.
func Excel(products []domain.Product, movements []domain.Movement) ([]byte, error) {
	file := xlsx.NewFile()

	if err := addProductSheet(file, products); err != nil {
		return nil, err
	}
	if err := addMovementSheet(file, products, movements); err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buffer.Bytes(), nil
}

func addProductSheet(file *xlsx.File, products []domain.Product) error {
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	addHeaderRow(sheet, []string{"ID", "Name", "Description", "Price", "Quantity", "Min Quantity"})

	for _, p := range products {
		row := sheet.AddRow()
		addCells(row,
			fmt.Sprintf("%d", p.ID),
			p.Name,
			p.Description,
			p.Price.StringFixed(2),
			fmt.Sprintf("%d", p.Quantity),
			fmt.Sprintf("%d", p.MinQuantity),
		)
	}

	for i := 1; i <= 6; i++ {
		sheet.SetColWidth(i, i, 18)
	}
	return nil
}

func addMovementSheet(file *xlsx.File, products []domain.Product, movements []domain.Movement) error {
	sheet, err := file.AddSheet("Movements")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	addHeaderRow(sheet, []string{"ID", "Timestamp", "Type", "Product", "Quantity", "Note"})

	for _, m := range movements {
		name := names[m.ProductID]
		if name == "" && m.Type == domain.MovementDeleted {
			name = m.Note
		}

		row := sheet.AddRow()
		addCells(row,
			fmt.Sprintf("%d", m.ID),
			m.Timestamp.Format(time.RFC3339),
			string(m.Type),
			name,
			fmt.Sprintf("%d", m.Quantity),
			m.Note,
		)
	}

	for i := 1; i <= 6; i++ {
		sheet.SetColWidth(i, i, 22)
	}
	return nil
}

func addHeaderRow(sheet *xlsx.Sheet, headers []string) {
	row := sheet.AddRow()
	for _, header := range headers {
		cell := row.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}
}

func addCells(row *xlsx.Row, values ...string) {
	for _, v := range values {
		cell := row.AddCell()
		cell.Value = v
	}
}
