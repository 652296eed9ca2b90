package entity

import "time"

// MovementType tipo de movimiento del ledger (enumeración cerrada).
// Cualquier valor fuera de estas constantes se rechaza en validación;
// las agregaciones hacen switch exhaustivo sobre este tipo.
type MovementType string

const (
	MovementIn       MovementType = "in"         // entrada (importación, ingreso inicial)
	MovementOut      MovementType = "out"        // salida (venta)
	MovementAdjust   MovementType = "adjustment" // ajuste manual o de lote
	MovementTransfer MovementType = "transfer"   // traslado entre bodegas
	MovementReceive  MovementType = "receive"    // recepción de orden de compra
)

// IsValid indica si el tipo pertenece a la enumeración.
func (t MovementType) IsValid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjust, MovementTransfer, MovementReceive:
		return true
	}
	return false
}

// ReferenceType tipo de la referencia cruzada de un movimiento (enumeración cerrada).
type ReferenceType string

const (
	RefNone          ReferenceType = ""
	RefSale          ReferenceType = "sale"
	RefPurchaseOrder ReferenceType = "purchase_order"
	RefLocation      ReferenceType = "location" // contraparte de un traslado
	RefBatch         ReferenceType = "batch"
	RefImport        ReferenceType = "import"
)

// IsValid indica si el tipo de referencia pertenece a la enumeración (vacío es válido).
func (t ReferenceType) IsValid() bool {
	switch t {
	case RefNone, RefSale, RefPurchaseOrder, RefLocation, RefBatch, RefImport:
		return true
	}
	return false
}

// StockMovement es una entrada inmutable del ledger de inventario (append-only).
// Se crea una vez y nunca se actualiza ni se borra: es el sistema de registro
// de "qué pasó". Product.Quantity es una proyección incremental de estos deltas.
type StockMovement struct {
	ID            string
	CompanyID     string
	ProductID     string
	LocationID    *string // nil para movimientos sin bodega (ajuste agregado, venta)
	BatchID       *string
	Type          MovementType
	Quantity      int64 // delta firmado: positivo entrada, negativo salida
	Reference     string
	ReferenceType ReferenceType
	Note          string
	CreatedBy     string // UserID
	CreatedAt     time.Time
}
