package infra

// pdf.go renders invoices (facturas) with go-pdf/fpdf on A4 paper:
//   - emisor header with RUC and timbrado
//   - numero, fecha, condicion de venta and cliente
//   - one row per detalle split into exenta / 5% / 10% columns
//   - subtotals, total, total in words and IVA liquidation

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DerliscrDev/bodega-eirete/internal/model"
	"github.com/DerliscrDev/bodega-eirete/internal/numletras"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Emisor identifies the business printed on the invoice header.
type Emisor struct {
	Nombre   string
	RUC      string
	Timbrado string
}

// FacturaPDF renders f and returns the PDF bytes. f.Cliente and f.Detalles
// must be loaded.
func FacturaPDF(f *model.Factura, emisor Emisor) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	p := message.NewPrinter(language.Spanish)

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW*0.6, 7, tr(emisor.Nombre), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW*0.4, 7, "FACTURA", "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW*0.6, 5, tr("RUC: "+emisor.RUC), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 5, tr("N° "+f.Numero), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW*0.6, 5, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 5, tr("Timbrado: "+f.Timbrado), "", 1, "R", false, 0, "")
	pdf.Ln(3)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Cliente ──────────────────────────────────────────────────────────────
	cliente, ruc := "", ""
	if f.Cliente != nil {
		cliente = f.Cliente.NombreCompleto()
		switch {
		case f.Cliente.RUC != nil:
			ruc = *f.Cliente.RUC
		case f.Cliente.Documento != nil:
			ruc = *f.Cliente.Documento
		}
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW*0.6, 5, tr("Fecha de emisión: "+f.Fecha.Format("02/01/2006")), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 5, tr("Condición de venta: "+f.CondicionVenta), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW*0.6, 5, tr("Nombre o razón social: "+cliente), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 5, tr("RUC / CI: "+ruc), "", 1, "R", false, 0, "")
	pdf.Ln(3)

	// ── Detalles ─────────────────────────────────────────────────────────────
	cols := []float64{contentW * 0.08, contentW * 0.37, contentW * 0.14, contentW * 0.13, contentW * 0.14, contentW * 0.14}
	headers := []string{"Cant.", "Descripción", "Precio unit.", "Exentas", "5%", "10%"}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(cols[i], 6, tr(h), "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Helvetica", "", 8)
	for _, d := range f.Detalles {
		exenta, iva5, iva10 := "", "", ""
		switch d.IVAAplicado {
		case 5:
			iva5 = guaranies(p, d.Subtotal)
		case 10:
			iva10 = guaranies(p, d.Subtotal)
		default:
			exenta = guaranies(p, d.Subtotal)
		}
		pdf.CellFormat(cols[0], 6, p.Sprintf("%d", d.Cantidad), "1", 0, "C", false, 0, "")
		pdf.CellFormat(cols[1], 6, tr(truncar(d.Descripcion, 45)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 6, guaranies(p, d.PrecioUnitario), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 6, exenta, "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 6, iva5, "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[5], 6, iva10, "1", 1, "R", false, 0, "")
	}

	// ── Totales ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(cols[0]+cols[1]+cols[2], 6, "Subtotales", "1", 0, "L", false, 0, "")
	pdf.CellFormat(cols[3], 6, guaranies(p, f.TotalExenta), "1", 0, "R", false, 0, "")
	pdf.CellFormat(cols[4], 6, guaranies(p, f.TotalIVA5), "1", 0, "R", false, 0, "")
	pdf.CellFormat(cols[5], 6, guaranies(p, f.TotalIVA10), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW-cols[5], 7, "TOTAL A PAGAR", "1", 0, "L", false, 0, "")
	pdf.CellFormat(cols[5], 7, guaranies(p, f.Total), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(contentW, 6, tr(TotalEnLetras(f.Total)), "1", "L", false)

	liq := p.Sprintf("Liquidación del IVA:   (5%%) %s   (10%%) %s   Total IVA: %s",
		guaranies(p, f.LiquidacionIVA5),
		guaranies(p, f.LiquidacionIVA10),
		guaranies(p, f.LiquidacionIVA5.Add(f.LiquidacionIVA10)))
	pdf.CellFormat(contentW, 6, tr(liq), "1", 1, "L", false, 0, "")

	if f.Estado == model.FacturaAnulada {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(contentW, 10, "ANULADA", "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render factura %s: %w", f.Numero, err)
	}
	return buf.Bytes(), nil
}

// GuardarFacturaPDF renders f into dir/factura_{numero}.pdf, creating dir if
// needed, and returns the file path.
func GuardarFacturaPDF(f *model.Factura, emisor Emisor, dir string) (string, error) {
	data, err := FacturaPDF(f, emisor)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(dir, "factura_"+f.Numero+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}

// TotalEnLetras renders the "SON GUARANIES: ..." line printed under the total.
func TotalEnLetras(total decimal.Decimal) string {
	return "SON GUARANIES: " + strings.ToUpper(numletras.Monto(total))
}

// guaranies formats an amount with Spanish digit grouping and no decimals
// unless the amount has cents.
func guaranies(p *message.Printer, d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return p.Sprintf("%d", d.IntPart())
	}
	f, _ := d.Float64()
	return p.Sprintf("%.2f", f)
}

func truncar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
