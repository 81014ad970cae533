package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cixi/storefront-backend/internal/app/model"
	"github.com/cixi/storefront-backend/internal/app/repository"
	"github.com/cixi/storefront-backend/pkg/logger"
	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
	ExportPDF  ExportFormat = "pdf"

	ExportSheetName = "Productos"
	exportPDFTitle  = "Listado de productos"
)

var ErrUnsupportedExportFormat = errors.New("unsupported export format")

var exportHeader = []string{"ID", "Nombre", "Categoría", "Descripción", "Precio", "Disponible", "Promedio", "Calificaciones", "Imagen"}

// ExportFile is a rendered product listing ready to download
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

type ExportService interface {
	ExportProducts(format ExportFormat, filter repository.ProductFilter) (*ExportFile, error)
}

type exportService struct {
	productRepo repository.ProductRepository
	now         func() time.Time
}

func NewExportService(productRepo repository.ProductRepository) ExportService {
	return &exportService{productRepo: productRepo, now: time.Now}
}

func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(s); f {
	case ExportCSV, ExportXLSX, ExportPDF:
		return f, nil
	case "":
		return ExportCSV, nil
	}
	return "", ErrUnsupportedExportFormat
}

func (s *exportService) ExportProducts(format ExportFormat, filter repository.ProductFilter) (*ExportFile, error) {
	products, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}

	var (
		data        []byte
		contentType string
	)
	switch format {
	case ExportCSV:
		data, err = renderCSV(products)
		contentType = "text/csv; charset=utf-8"
	case ExportXLSX:
		data, err = renderXLSX(products)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportPDF:
		data, err = renderPDF(products)
		contentType = "application/pdf"
	default:
		return nil, ErrUnsupportedExportFormat
	}
	if err != nil {
		logger.Error("Failed to render product export", err, map[string]interface{}{
			"format": format,
		})
		return nil, err
	}

	logger.Info("Products exported", map[string]interface{}{
		"format": format,
		"rows":   len(products),
		"bytes":  len(data),
	})
	return &ExportFile{
		Name:        fmt.Sprintf("productos_%s.%s", s.now().Format("20060102_1504"), format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func exportRow(p model.Product) []string {
	return []string{
		strconv.FormatUint(uint64(p.ID), 10),
		p.Name,
		p.CategoryName(),
		p.Description,
		formatMoney(p.Price),
		strconv.Itoa(p.Stock),
		strconv.FormatFloat(p.AverageRating, 'f', 1, 64),
		strconv.Itoa(p.RatingCount),
		p.Image,
	}
}

// renderCSV writes RFC 4180 rows behind a UTF-8 BOM so spreadsheets detect the encoding
func renderCSV(products []model.Product) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")

	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, p := range products {
		if err := w.Write(exportRow(p)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(products []model.Product) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheetName); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(ExportSheetName, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(ExportSheetName, "A1", "I1", bold); err != nil {
		return nil, err
	}

	for i, p := range products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			p.ID, p.Name, p.CategoryName(), p.Description,
			p.Price, p.Stock, p.AverageRating, p.RatingCount, p.Image,
		}
		if err := f.SetSheetRow(ExportSheetName, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(ExportSheetName, "B", "D", 28); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PDF columns drop Imagen
var pdfColumnWidths = []float64{12, 55, 35, 80, 22, 22, 20, 27}

func renderPDF(products []model.Product) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(exportPDFTitle, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(exportPDFTitle), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	header := exportHeader[:len(pdfColumnWidths)]
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(pdfColumnWidths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, p := range products {
		row := exportRow(p)[:len(pdfColumnWidths)]
		for i, v := range row {
			align := "L"
			if i == 0 || i >= 4 {
				align = "R"
			}
			pdf.CellFormat(pdfColumnWidths[i], 6, tr(truncate(v, pdfColumnWidths[i])), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// truncate keeps roughly what fits in a cell of width mm at 8pt
func truncate(s string, width float64) string {
	limit := int(width / 1.6)
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
