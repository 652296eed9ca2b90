package ports

import "github.com/tu-usuario/bodega-pos/internal/domain/entity"

// AuditRecorder puerto del registrador de actividad best-effort.
// Record jamás bloquea ni devuelve error: la mutación primaria ya está
// confirmada cuando se invoca y su resultado no depende de la bitácora.
type AuditRecorder interface {
	Record(entry entity.ActivityLog)
}
