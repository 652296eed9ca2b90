package entity

import (
	"encoding/json"
	"time"
)

// ActivityLog registra quién hizo qué (auditoría best-effort).
// Se escribe FUERA de la transacción principal: su fallo jamás revierte
// la mutación ya confirmada.
type ActivityLog struct {
	ID         string
	CompanyID  string
	UserID     string
	EntityType string // "product", "batch", "purchase_order", "sale", "location", ...
	EntityID   string
	Action     string // "adjust", "transfer", "receive", "checkout", "delete", ...
	Changes    json.RawMessage
	Note       string
	CreatedAt  time.Time
}
