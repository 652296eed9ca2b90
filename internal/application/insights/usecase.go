package insights

import (
	"time"

	"github.com/tu-usuario/bodega-pos/internal/application/ports"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
	"github.com/tu-usuario/bodega-pos/pkg/logger"
)

// UseCase implementa los calculadores de estado derivado: sugerencias de
// reposición, forecast de demanda y stock bajo. Todo es read-only sobre el
// ledger y los contadores; los resultados se cachean por empresa y cualquier
// mutación de stock los invalida.
type UseCase struct {
	insightsRepo repository.InsightsRepository
	ruleRepo     repository.ReorderRuleRepository
	productRepo  ProductReader
	cache        ports.Cache
	ttl          time.Duration
	lookbackDays int
	log          *logger.Logger
}

// ProductReader lecturas de producto para los calculadores.
type ProductReader interface {
	GetByID(id string) (*entity.Product, error)
	ListByIDs(companyID string, ids []string) ([]*entity.Product, error)
}

// NewUseCase construye el caso de uso de insights. ttl gobierna el cache de
// resultados y lookbackDays la ventana histórica del forecast.
func NewUseCase(
	insightsRepo repository.InsightsRepository,
	ruleRepo repository.ReorderRuleRepository,
	productRepo ProductReader,
	cache ports.Cache,
	ttl time.Duration,
	lookbackDays int,
	log *logger.Logger,
) *UseCase {
	if lookbackDays <= 0 {
		lookbackDays = 90
	}
	return &UseCase{
		insightsRepo: insightsRepo,
		ruleRepo:     ruleRepo,
		productRepo:  productRepo,
		cache:        cache,
		ttl:          ttl,
		lookbackDays: lookbackDays,
		log:          log,
	}
}
