package repository

import (
	"context"
	"time"
)

// ProductSalesResult resultado crudo de la agregación de ventas por producto
// en una ventana histórica, partida a la mitad para detectar tendencia.
// Lo produce la DB; el use case lo convierte en DTO.
type ProductSalesResult struct {
	ProductID       string
	SKU             string
	ProductName     string
	CurrentQuantity int64
	TotalUnits      int64 // unidades vendidas en toda la ventana
	FirstHalfUnits  int64 // unidades en la primera mitad de la ventana
	SecondHalfUnits int64 // unidades en la segunda mitad
}

// LowStockResult producto en o bajo su umbral de stock bajo.
type LowStockResult struct {
	ProductID         string
	SKU               string
	ProductName       string
	Quantity          int64
	LowStockThreshold int64
}

// InsightsRepository define las consultas de lectura para los calculadores
// derivados (reorden, forecast, stock bajo). Las implementaciones son
// read-only: jamás mutan el ledger ni los contadores.
type InsightsRepository interface {
	// GetProductSales agrega las líneas de ventas completadas entre start y end,
	// usando mid como corte de mitades para la tendencia.
	GetProductSales(ctx context.Context, companyID string, start, mid, end time.Time) ([]ProductSalesResult, error)

	// GetLowStockProducts devuelve los productos con umbral definido cuya
	// cantidad está en o bajo el umbral.
	GetLowStockProducts(ctx context.Context, companyID string) ([]LowStockResult, error)
}
