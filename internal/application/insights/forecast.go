package insights

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/ports"
)

// ClassifyTrend compara las unidades vendidas en las dos mitades de la
// ventana histórica. Un cambio de más del 20% entre mitades marca tendencia;
// dentro de esa banda la demanda se considera estable.
func ClassifyTrend(firstHalf, secondHalf int64) string {
	if firstHalf == 0 {
		if secondHalf > 0 {
			return dto.TrendIncreasing
		}
		return dto.TrendStable
	}
	ratio := float64(secondHalf) / float64(firstHalf)
	switch {
	case ratio > 1.2:
		return dto.TrendIncreasing
	case ratio < 0.8:
		return dto.TrendDecreasing
	default:
		return dto.TrendStable
	}
}

// Forecast proyecta la demanda de cada producto con ventas en la ventana
// histórica: promedio diario, días hasta quiebre de stock al ritmo actual y
// tendencia entre mitades de la ventana. Productos sin ventas reportan
// DaysUntilStockout = -1. Read-only y cacheado por empresa.
func (uc *UseCase) Forecast(ctx context.Context, companyID string) ([]dto.ForecastDTO, error) {
	key := ports.TenantKey(companyID, fmt.Sprintf("insights:forecast:%d", uc.lookbackDays))
	if cached, ok := uc.cache.Get(key); ok {
		if out, ok := cached.([]dto.ForecastDTO); ok {
			return out, nil
		}
	}

	end := time.Now()
	start := end.AddDate(0, 0, -uc.lookbackDays)
	mid := start.Add(end.Sub(start) / 2)

	results, err := uc.insightsRepo.GetProductSales(ctx, companyID, start, mid, end)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ForecastDTO, 0, len(results))
	for _, r := range results {
		f := dto.ForecastDTO{
			ProductID:         r.ProductID,
			SKU:               r.SKU,
			ProductName:       r.ProductName,
			CurrentQuantity:   r.CurrentQuantity,
			DaysUntilStockout: -1,
			Trend:             ClassifyTrend(r.FirstHalfUnits, r.SecondHalfUnits),
		}
		if r.TotalUnits > 0 {
			f.AvgDailySales = float64(r.TotalUnits) / float64(uc.lookbackDays)
			f.DaysUntilStockout = math.Round(float64(r.CurrentQuantity)/f.AvgDailySales*10) / 10
		}
		out = append(out, f)
	}

	// Los quiebres más próximos primero; los sin ventas al final.
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].DaysUntilStockout, out[j].DaysUntilStockout
		if (di < 0) != (dj < 0) {
			return dj < 0
		}
		if di != dj {
			return di < dj
		}
		return out[i].SKU < out[j].SKU
	})

	uc.cache.Set(key, out, uc.ttl)
	return out, nil
}
