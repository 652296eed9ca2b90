package insights_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/insights"
	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
	"github.com/tu-usuario/bodega-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Clasificadores puros
// ──────────────────────────────────────────────────────────────────────────────

func TestClassifyUrgency(t *testing.T) {
	casos := []struct {
		nombre   string
		qty      int64
		punto    int64
		esperado string
	}{
		{"sin existencias es crítico", 0, 10, dto.UrgencyCritical},
		{"negativo defensivo es crítico", -1, 10, dto.UrgencyCritical},
		{"a la mitad del punto es crítico", 5, 10, dto.UrgencyCritical},
		{"bajo la mitad del punto es crítico", 3, 10, dto.UrgencyCritical},
		{"bajo el punto es alerta", 6, 10, dto.UrgencyWarning},
		{"exactamente en el punto es alerta", 10, 10, dto.UrgencyWarning},
		{"sobre el punto es normal", 15, 10, dto.UrgencyNormal},
		{"punto cero con stock es normal", 5, 0, dto.UrgencyNormal},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Equal(t, c.esperado, insights.ClassifyUrgency(c.qty, c.punto))
		})
	}
}

func TestClassifyTrend(t *testing.T) {
	casos := []struct {
		nombre   string
		primera  int64
		segunda  int64
		esperado string
	}{
		{"sin ventas en ambas mitades es estable", 0, 0, dto.TrendStable},
		{"arranque desde cero es creciente", 0, 5, dto.TrendIncreasing},
		{"más del 20% arriba es creciente", 10, 13, dto.TrendIncreasing},
		{"exactamente 20% arriba sigue estable", 10, 12, dto.TrendStable},
		{"más del 20% abajo es decreciente", 10, 7, dto.TrendDecreasing},
		{"exactamente 20% abajo sigue estable", 10, 8, dto.TrendStable},
		{"sin cambio es estable", 10, 10, dto.TrendStable},
		{"caída a cero es decreciente", 10, 0, dto.TrendDecreasing},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Equal(t, c.esperado, insights.ClassifyTrend(c.primera, c.segunda))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

const empresaA = "empresa-a"

type fakeInsightsRepo struct {
	sales    []repository.ProductSalesResult
	lowStock []repository.LowStockResult
}

func (r *fakeInsightsRepo) GetProductSales(_ context.Context, _ string, _, _, _ time.Time) ([]repository.ProductSalesResult, error) {
	return r.sales, nil
}
func (r *fakeInsightsRepo) GetLowStockProducts(_ context.Context, _ string) ([]repository.LowStockResult, error) {
	return r.lowStock, nil
}

type fakeRuleRepo struct{ rules map[string]*entity.ReorderRule }

func (r *fakeRuleRepo) Upsert(rule *entity.ReorderRule) error {
	r.rules[rule.ProductID] = rule
	return nil
}
func (r *fakeRuleRepo) GetByProduct(_, productID string) (*entity.ReorderRule, error) {
	return r.rules[productID], nil
}
func (r *fakeRuleRepo) ListActiveByCompany(string) ([]*entity.ReorderRule, error) {
	var out []*entity.ReorderRule
	for _, rule := range r.rules {
		if rule.Active {
			out = append(out, rule)
		}
	}
	return out, nil
}
func (r *fakeRuleRepo) Delete(id string) error {
	for k, rule := range r.rules {
		if rule.ID == id {
			delete(r.rules, k)
		}
	}
	return nil
}

type fakeProductReader struct{ products map[string]*entity.Product }

func (r *fakeProductReader) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductReader) ListByIDs(companyID string, ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

// cache fake con almacenamiento real para verificar hits y misses.
type recordingCache struct {
	items       map[string]any
	sets        int
	invalidated int
}

func newRecordingCache() *recordingCache { return &recordingCache{items: map[string]any{}} }

func (c *recordingCache) Get(key string) (any, bool) {
	v, ok := c.items[key]
	return v, ok
}
func (c *recordingCache) Set(key string, value any, _ time.Duration) {
	c.items[key] = value
	c.sets++
}
func (c *recordingCache) InvalidatePrefix(prefix string) {
	c.invalidated++
	for k := range c.items {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			delete(c.items, k)
		}
	}
}

type insightsFixture struct {
	insightsRepo *fakeInsightsRepo
	ruleRepo     *fakeRuleRepo
	products     *fakeProductReader
	cache        *recordingCache
	uc           *insights.UseCase
}

func newInsightsFixture() *insightsFixture {
	f := &insightsFixture{
		insightsRepo: &fakeInsightsRepo{},
		ruleRepo:     &fakeRuleRepo{rules: map[string]*entity.ReorderRule{}},
		products:     &fakeProductReader{products: map[string]*entity.Product{}},
		cache:        newRecordingCache(),
	}
	f.uc = insights.NewUseCase(f.insightsRepo, f.ruleRepo, f.products, f.cache, 5*time.Minute, 90, logger.Nop())
	return f
}

func (f *insightsFixture) seedProduct(id, sku string, qty int64) {
	f.products.products[id] = &entity.Product{ID: id, CompanyID: empresaA, SKU: sku, Name: "producto " + sku, Quantity: qty}
}

func (f *insightsFixture) seedRule(productID string, point, qty int64, active bool) {
	f.ruleRepo.rules[productID] = &entity.ReorderRule{
		ID: "regla-" + productID, CompanyID: empresaA, ProductID: productID,
		ReorderPoint: point, ReorderQuantity: qty, Active: active,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ReorderSuggestions
// ──────────────────────────────────────────────────────────────────────────────

func TestReorderSuggestions_ReglaEnOBajoElPunto(t *testing.T) {
	f := newInsightsFixture()
	f.seedProduct("p1", "SKU-1", 3)
	f.seedRule("p1", 5, 50, true)
	f.seedProduct("p2", "SKU-2", 100) // sobre el punto: no aparece
	f.seedRule("p2", 5, 50, true)

	out, err := f.uc.ReorderSuggestions(context.Background(), empresaA)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].ProductID)
	assert.Equal(t, int64(50), out[0].SuggestedQuantity, "con regla sugiere la cantidad configurada")
	assert.True(t, out[0].HasRule)
	assert.Equal(t, dto.UrgencyWarning, out[0].Urgency)
}

func TestReorderSuggestions_ReglaInactivaSeIgnora(t *testing.T) {
	f := newInsightsFixture()
	f.seedProduct("p1", "SKU-1", 0)
	f.seedRule("p1", 5, 50, false)

	out, err := f.uc.ReorderSuggestions(context.Background(), empresaA)
	require.NoError(t, err)
	assert.Empty(t, out)
}

// Productos con umbral pero sin regla entran con la heurística 2×umbral (mínimo 10).
func TestReorderSuggestions_SinRegla_HeuristicaDelUmbral(t *testing.T) {
	f := newInsightsFixture()
	f.insightsRepo.lowStock = []repository.LowStockResult{
		{ProductID: "p1", SKU: "SKU-1", ProductName: "Arroz", Quantity: 2, LowStockThreshold: 3},
		{ProductID: "p2", SKU: "SKU-2", ProductName: "Azúcar", Quantity: 10, LowStockThreshold: 20},
	}

	out, err := f.uc.ReorderSuggestions(context.Background(), empresaA)
	require.NoError(t, err)
	require.Len(t, out, 2)

	porID := map[string]dto.ReorderSuggestionDTO{}
	for _, s := range out {
		porID[s.ProductID] = s
	}
	assert.Equal(t, int64(10), porID["p1"].SuggestedQuantity, "2×3=6 sube al piso de 10")
	assert.Equal(t, int64(40), porID["p2"].SuggestedQuantity, "2×20")
	assert.False(t, porID["p1"].HasRule)
}

func TestReorderSuggestions_OrdenCriticosPrimero(t *testing.T) {
	f := newInsightsFixture()
	f.seedProduct("pa", "SKU-A", 4) // warning
	f.seedRule("pa", 5, 10, true)
	f.seedProduct("pb", "SKU-B", 0) // critical
	f.seedRule("pb", 5, 10, true)

	out, err := f.uc.ReorderSuggestions(context.Background(), empresaA)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, dto.UrgencyCritical, out[0].Urgency)
	assert.Equal(t, "pb", out[0].ProductID)
}

func TestReorderSuggestions_SegundaLlamadaVieneDelCache(t *testing.T) {
	f := newInsightsFixture()
	f.seedProduct("p1", "SKU-1", 0)
	f.seedRule("p1", 5, 50, true)

	_, err := f.uc.ReorderSuggestions(context.Background(), empresaA)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets)

	// Cambiar el estado subyacente no afecta la segunda lectura: viene cacheada.
	f.products.products["p1"].Quantity = 1000
	out, err := f.uc.ReorderSuggestions(context.Background(), empresaA)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(0), out[0].CurrentQuantity, "el resultado cacheado no ve la mutación")
	assert.Equal(t, 1, f.cache.sets, "no debe recomputar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Forecast
// ──────────────────────────────────────────────────────────────────────────────

func TestForecast_CalculaPromedioYQuiebre(t *testing.T) {
	f := newInsightsFixture()
	f.insightsRepo.sales = []repository.ProductSalesResult{
		// 90 unidades en 90 días: 1/día; 30 en stock → 30 días al quiebre.
		{ProductID: "p1", SKU: "SKU-1", CurrentQuantity: 30, TotalUnits: 90, FirstHalfUnits: 45, SecondHalfUnits: 45},
	}

	out, err := f.uc.Forecast(context.Background(), empresaA)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.InDelta(t, 1.0, out[0].AvgDailySales, 0.001)
	assert.InDelta(t, 30.0, out[0].DaysUntilStockout, 0.001)
	assert.Equal(t, dto.TrendStable, out[0].Trend)
}

func TestForecast_SinVentas_MarcaMenosUno(t *testing.T) {
	f := newInsightsFixture()
	f.insightsRepo.sales = []repository.ProductSalesResult{
		{ProductID: "p1", SKU: "SKU-1", CurrentQuantity: 50, TotalUnits: 0},
	}

	out, err := f.uc.Forecast(context.Background(), empresaA)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, float64(-1), out[0].DaysUntilStockout)
	assert.Equal(t, float64(0), out[0].AvgDailySales)
}

func TestForecast_OrdenaQuiebresProximosPrimero(t *testing.T) {
	f := newInsightsFixture()
	f.insightsRepo.sales = []repository.ProductSalesResult{
		{ProductID: "lento", SKU: "SKU-L", CurrentQuantity: 900, TotalUnits: 90, FirstHalfUnits: 45, SecondHalfUnits: 45},
		{ProductID: "sin-ventas", SKU: "SKU-S", CurrentQuantity: 10, TotalUnits: 0},
		{ProductID: "urgente", SKU: "SKU-U", CurrentQuantity: 9, TotalUnits: 90, FirstHalfUnits: 30, SecondHalfUnits: 60},
	}

	out, err := f.uc.Forecast(context.Background(), empresaA)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "urgente", out[0].ProductID)
	assert.Equal(t, "lento", out[1].ProductID)
	assert.Equal(t, "sin-ventas", out[2].ProductID, "los sin ventas van al final")
	assert.Equal(t, dto.TrendIncreasing, out[0].Trend)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reglas de reposición
// ──────────────────────────────────────────────────────────────────────────────

func TestUpsertRule_CreaEInvalidaCache(t *testing.T) {
	f := newInsightsFixture()
	f.seedProduct("p1", "SKU-1", 20)

	rule, err := f.uc.UpsertRule(context.Background(), empresaA, dto.UpsertReorderRuleRequest{
		ProductID: "p1", ReorderPoint: 5, ReorderQuantity: 50, Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), rule.ReorderPoint)
	assert.Equal(t, 1, f.cache.invalidated, "cambiar una regla invalida el cache del tenant")
}

func TestUpsertRule_ActualizaLaExistente(t *testing.T) {
	f := newInsightsFixture()
	f.seedProduct("p1", "SKU-1", 20)
	f.seedRule("p1", 5, 50, true)

	rule, err := f.uc.UpsertRule(context.Background(), empresaA, dto.UpsertReorderRuleRequest{
		ProductID: "p1", ReorderPoint: 8, ReorderQuantity: 80, Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "regla-p1", rule.ID, "conserva el ID de la regla existente")
	assert.Equal(t, int64(8), rule.ReorderPoint)
}

func TestUpsertRule_CantidadNoPositiva_EsInvalida(t *testing.T) {
	f := newInsightsFixture()
	f.seedProduct("p1", "SKU-1", 20)

	_, err := f.uc.UpsertRule(context.Background(), empresaA, dto.UpsertReorderRuleRequest{
		ProductID: "p1", ReorderPoint: 5, ReorderQuantity: 0,
	})
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestDeleteRule_Inexistente_NotFound(t *testing.T) {
	f := newInsightsFixture()
	err := f.uc.DeleteRule(context.Background(), empresaA, "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
