package dto

// Niveles de urgencia de una sugerencia de reposición.
const (
	UrgencyCritical = "critical"
	UrgencyWarning  = "warning"
	UrgencyNormal   = "normal"
)

// ReorderSuggestionDTO una sugerencia de reposición para un producto.
type ReorderSuggestionDTO struct {
	ProductID         string  `json:"product_id"`
	SKU               string  `json:"sku"`
	ProductName       string  `json:"product_name"`
	CurrentQuantity   int64   `json:"current_quantity"`
	ReorderPoint      int64   `json:"reorder_point"`
	SuggestedQuantity int64   `json:"suggested_quantity"`
	SupplierID        *string `json:"supplier_id,omitempty"`
	Urgency           string  `json:"urgency"` // critical | warning | normal
	HasRule           bool    `json:"has_rule"`
}

// Tendencias de demanda del forecast.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// ForecastDTO proyección de demanda para un producto.
type ForecastDTO struct {
	ProductID         string  `json:"product_id"`
	SKU               string  `json:"sku"`
	ProductName       string  `json:"product_name"`
	CurrentQuantity   int64   `json:"current_quantity"`
	AvgDailySales     float64 `json:"avg_daily_sales"`
	DaysUntilStockout float64 `json:"days_until_stockout"` // -1 = sin ventas en la ventana
	Trend             string  `json:"trend"`               // increasing | decreasing | stable
}

// UpsertReorderRuleRequest body para PUT /api/reorder-rules.
type UpsertReorderRuleRequest struct {
	ProductID       string  `json:"product_id"`
	ReorderPoint    int64   `json:"reorder_point"`
	ReorderQuantity int64   `json:"reorder_quantity"`
	SupplierID      *string `json:"supplier_id,omitempty"`
	Active          bool    `json:"active"`
}

// ReorderRuleResponse regla de reposición en respuestas.
type ReorderRuleResponse struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"product_id"`
	ReorderPoint    int64   `json:"reorder_point"`
	ReorderQuantity int64   `json:"reorder_quantity"`
	SupplierID      *string `json:"supplier_id,omitempty"`
	Active          bool    `json:"active"`
}

// LowStockDTO producto en o bajo su umbral de stock bajo.
type LowStockDTO struct {
	ProductID         string `json:"product_id"`
	SKU               string `json:"sku"`
	ProductName       string `json:"product_name"`
	Quantity          int64  `json:"quantity"`
	LowStockThreshold int64  `json:"low_stock_threshold"`
}
