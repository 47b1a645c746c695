// Package pdf genera la orden de compra imprimible para enviar al proveedor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda              │  PC-000001 + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: Nombre + fechas prevista / entrega              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | Costo unit. | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Flete / Descuento / TOTAL              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: forma de pago + observaciones                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/tenant"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa orders.PurchaseOrderPDF usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador con formato monetario pt-BR.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.BrazilianPortuguese)}
}

// PurchaseOrderPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) PurchaseOrderPDF(ctx context.Context, o *entity.PurchaseOrder) ([]byte, error) {
	store, _ := tenant.FromContext(ctx)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ordem de Compra "+o.DisplayNumber(), true).
		WithAuthor(store, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(o, store))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.itemRows(o.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(o))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRows(o)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar orden de compra: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(o *entity.PurchaseOrder, store string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(store, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("ORDEM DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(o.DisplayNumber(), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Data: "+o.OrderDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func supplierRow(o *entity.PurchaseOrder) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("FORNECEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(o.SupplierName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Previsão: %s   |   Entrega: %s   |   Status: %s",
				formatDate(o.ExpectedDate),
				formatDate(o.DeliveredDate),
				o.Status,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qtd.", 1, align.Center),
		h("Descrição", 6, align.Left),
		h("Custo unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func (g *MarotoPDFGenerator) itemRows(items []entity.PurchaseOrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				g.money(it.UnitCost),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				g.money(it.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func (g *MarotoPDFGenerator) totalsRow(o *entity.PurchaseOrder) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}

	return row.New(28).Add(
		col.New(5),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Frete:", 7),
			label("Desconto:", 13),
			label("TOTAL:", 20),
		),
		col.New(4).Add(
			value(g.money(o.Subtotal), 1),
			value(g.money(o.Freight), 7),
			value("- "+g.money(o.Discount), 13),
			grand(g.money(o.Total), 20),
		),
	)
}

func footerRows(o *entity.PurchaseOrder) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("Forma de pagamento: "+nonEmpty(o.PaymentMethod, "—"), props.Text{
				Size: 8, Color: colorGray, Top: 1,
			}),
		)),
	}
	if o.Notes != "" {
		rows = append(rows, row.New(12).Add(col.New(12).Add(
			text.New("Observações: "+o.Notes, props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money formatea en reales: 1234.5 -> "R$ 1.234,50".
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("R$ %v", number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("02/01/2006")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
