// Package audit implementa la bitácora de actividad best-effort como efecto
// de dos fases: la mutación primaria hace commit primero y la entrada de
// bitácora se persiste después, desacoplada, desde un worker en background.
// Un fallo aquí se loggea y se traga; jamás revierte ni falla la mutación.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
	"github.com/tu-usuario/bodega-pos/pkg/logger"
)

// Recorder acumula entradas en un canal con buffer y las drena un worker.
type Recorder struct {
	repo    repository.ActivityLogRepository
	log     *logger.Logger
	entries chan entity.ActivityLog
	done    chan struct{}
	once    sync.Once
}

// NewRecorder construye el registrador. bufferSize acota el canal: si se
// llena, Record descarta la entrada con un warn en vez de bloquear al caller.
func NewRecorder(repo repository.ActivityLogRepository, log *logger.Logger, bufferSize int) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Recorder{
		repo:    repo,
		log:     log,
		entries: make(chan entity.ActivityLog, bufferSize),
		done:    make(chan struct{}),
	}
}

// Start lanza el worker que drena el canal hacia la persistencia.
func (r *Recorder) Start() {
	go func() {
		defer close(r.done)
		for e := range r.entries {
			entry := e
			if err := r.repo.Create(&entry); err != nil {
				// Best-effort: se loggea y se sigue; la mutación ya confirmó.
				r.log.Warn().
					Err(err).
					Str("entity_type", entry.EntityType).
					Str("action", entry.Action).
					Msg("bitácora de actividad falló, entrada descartada")
			}
		}
	}()
}

// Record encola la entrada sin bloquear. Completa ID y CreatedAt si faltan.
func (r *Recorder) Record(e entity.ActivityLog) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	select {
	case r.entries <- e:
	default:
		r.log.Warn().
			Str("entity_type", e.EntityType).
			Str("action", e.Action).
			Msg("buffer de bitácora lleno, entrada descartada")
	}
}

// Close cierra el canal y espera a que el worker drene lo pendiente.
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.entries)
		<-r.done
	})
}
