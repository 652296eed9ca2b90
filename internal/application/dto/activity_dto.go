package dto

import (
	"encoding/json"
	"time"
)

// ActivityLogResponse una entrada de la bitácora en respuestas.
type ActivityLogResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id,omitempty"`
	Action     string          `json:"action"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ActivityListResponse listado paginado de la bitácora.
type ActivityListResponse struct {
	Items []ActivityLogResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
