package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"backend_assetflow/models"
)

// ExportService produces downloadable documents: the asset inventory as a
// spreadsheet and per-assignment handover receipts.
type ExportService struct {
	DB *gorm.DB
}

// NewExportService creates a new ExportService.
func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{DB: db}
}

var assetSheetHeaders = []string{
	"ID", "Name", "Category", "Serial Number", "Condition",
	"Location", "Total", "Available", "Purchase Date", "Created At",
}

// AssetsXLSX builds an XLSX workbook with the full asset inventory,
// newest-created-first.
func (es *ExportService) AssetsXLSX() (*excelize.File, error) {
	var assets []models.Asset
	if err := es.DB.Order("created_at DESC").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Assets"
	f.SetSheetName("Sheet1", sheet)

	for i, header := range assetSheetHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for rowIdx, asset := range assets {
		serial := ""
		if asset.SerialNumber != nil {
			serial = *asset.SerialNumber
		}
		purchase := ""
		if asset.PurchaseDate != nil {
			purchase = asset.PurchaseDate.Format("2006-01-02")
		}

		values := []interface{}{
			asset.ID, asset.Name, asset.Category, serial, asset.Condition,
			asset.Location, asset.Quantity.Total, asset.Quantity.Available,
			purchase, asset.CreatedAt.Format("2006-01-02 15:04"),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	endCell, _ := excelize.CoordinatesToCellName(len(assetSheetHeaders), len(assets)+1)
	f.AutoFilter(sheet, "A1:"+endCell, []excelize.AutoFilterOptions{})

	return f, nil
}

// AssignmentReceiptPDF renders a handover receipt for one assignment. The
// assignment should have its Asset and AssignedBy relations loaded.
func (es *ExportService) AssignmentReceiptPDF(a *models.Assignment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Asset Handover Receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(55, 8, label)
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 8, value)
		pdf.Ln(8)
	}

	line("Receipt No.", fmt.Sprintf("A-%06d", a.ID))
	if a.Asset != nil {
		line("Asset", a.Asset.Name)
		if a.Asset.SerialNumber != nil {
			line("Serial Number", *a.Asset.SerialNumber)
		}
	}
	line("Assigned To", fmt.Sprintf("%s (%s)", a.Assignee.Name, a.Assignee.Type))
	if a.AssignedBy != nil {
		line("Authorized By", a.AssignedBy.Name)
	}
	line("Assigned Date", a.AssignedDate.Format("2006-01-02"))
	if a.ExpectedReturnDate != nil {
		line("Expected Return", a.ExpectedReturnDate.Format("2006-01-02"))
	}
	line("Condition", a.ConditionAtAssignment)
	line("Status", a.Status)
	if a.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 8, "Notes")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, a.Notes, "", "", false)
	}

	pdf.Ln(16)
	pdf.SetFont("Arial", "I", 9)
	pdf.Cell(0, 6, "Generated "+time.Now().Format("2006-01-02 15:04"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
