package entity

import "fmt"

// DocumentType familia de documentos con numeración propia por tenant.
type DocumentType string

const (
	DocCatalogOrder  DocumentType = "catalog_order"
	DocPurchaseOrder DocumentType = "purchase_order"
)

// Valid indica si el tipo tiene secuencia.
func (d DocumentType) Valid() bool {
	return d == DocCatalogOrder || d == DocPurchaseOrder
}

// Display formatea el número para mostrarlo: #0001 o PC-000001.
func (d DocumentType) Display(number int64) string {
	switch d {
	case DocCatalogOrder:
		return fmt.Sprintf("#%04d", number)
	case DocPurchaseOrder:
		return fmt.Sprintf("PC-%06d", number)
	default:
		return fmt.Sprintf("%d", number)
	}
}
