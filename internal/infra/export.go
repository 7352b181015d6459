package infra

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Tabla is a fixed-column export: one header row plus one row per entity.
type Tabla struct {
	Hoja     string
	Columnas []string
	Filas    [][]any
}

// Content types and extensions per export format.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// EscribirXLSX writes t as a single-sheet workbook with a bold, frozen header.
func EscribirXLSX(w io.Writer, t Tabla) error {
	f := excelize.NewFile()
	defer f.Close()

	hoja := t.Hoja
	if hoja == "" {
		hoja = "Datos"
	}
	if err := f.SetSheetName("Sheet1", hoja); err != nil {
		return fmt.Errorf("export: sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: style: %w", err)
	}
	header := make([]any, len(t.Columnas))
	for i, c := range t.Columnas {
		header[i] = c
	}
	if err := f.SetSheetRow(hoja, "A1", &header); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}
	if len(t.Columnas) > 0 {
		ultima, _ := excelize.CoordinatesToCellName(len(t.Columnas), 1)
		if err := f.SetCellStyle(hoja, "A1", ultima, bold); err != nil {
			return fmt.Errorf("export: header style: %w", err)
		}
	}

	for i, fila := range t.Filas {
		celda, _ := excelize.CoordinatesToCellName(1, i+2)
		valores := make([]any, len(fila))
		for j, v := range fila {
			valores[j] = valorCelda(v)
		}
		if err := f.SetSheetRow(hoja, celda, &valores); err != nil {
			return fmt.Errorf("export: row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(hoja, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("export: panes: %w", err)
	}
	return f.Write(w)
}

// EscribirCSV writes t as UTF-8 CSV with a header row.
func EscribirCSV(w io.Writer, t Tabla) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columnas); err != nil {
		return err
	}
	for _, fila := range t.Filas {
		registro := make([]string, len(fila))
		for j, v := range fila {
			registro[j] = textoCelda(v)
		}
		if err := cw.Write(registro); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// valorCelda keeps numbers numeric in the workbook.
func valorCelda(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		f, _ := x.Float64()
		return f
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case bool:
		if x {
			return "Si"
		}
		return "No"
	case time.Time:
		return x.Format("2006-01-02")
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.Format("2006-01-02")
	}
	return v
}

func textoCelda(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.String()
	}
	if s, ok := valorCelda(v).(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
