package insights

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/ports"
	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
)

const reorderCacheKey = "insights:reorder"

// ClassifyUrgency clasifica qué tan urgente es reponer un producto dado su
// punto de reposición: crítico sin existencias o a la mitad del punto o menos,
// alerta en o bajo el punto, normal sobre él.
func ClassifyUrgency(quantity, reorderPoint int64) string {
	switch {
	case quantity <= 0:
		return dto.UrgencyCritical
	case reorderPoint > 0 && quantity*2 <= reorderPoint:
		return dto.UrgencyCritical
	case quantity <= reorderPoint:
		return dto.UrgencyWarning
	default:
		return dto.UrgencyNormal
	}
}

// ReorderSuggestions calcula las sugerencias de reposición de la empresa.
//
// Dos fuentes: reglas activas (el producto en o bajo su punto de reposición
// sugiere la cantidad configurada) y productos con umbral de stock bajo sin
// regla (sugerencia heurística). El resultado se cachea por empresa.
func (uc *UseCase) ReorderSuggestions(ctx context.Context, companyID string) ([]dto.ReorderSuggestionDTO, error) {
	key := ports.TenantKey(companyID, reorderCacheKey)
	if cached, ok := uc.cache.Get(key); ok {
		if out, ok := cached.([]dto.ReorderSuggestionDTO); ok {
			return out, nil
		}
	}

	rules, err := uc.ruleRepo.ListActiveByCompany(companyID)
	if err != nil {
		return nil, err
	}

	var out []dto.ReorderSuggestionDTO
	ruled := make(map[string]bool, len(rules))
	productIDs := make([]string, 0, len(rules))
	for _, rule := range rules {
		ruled[rule.ProductID] = true
		productIDs = append(productIDs, rule.ProductID)
	}
	products := make(map[string]*entity.Product, len(productIDs))
	if len(productIDs) > 0 {
		list, err := uc.productRepo.ListByIDs(companyID, productIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range list {
			products[p.ID] = p
		}
	}

	for _, rule := range rules {
		product, ok := products[rule.ProductID]
		if !ok {
			// La regla apunta a un producto borrado; se ignora.
			continue
		}
		if product.Quantity > rule.ReorderPoint {
			continue
		}
		supplierID := rule.SupplierID
		if supplierID == nil {
			supplierID = product.SupplierID
		}
		out = append(out, dto.ReorderSuggestionDTO{
			ProductID:         product.ID,
			SKU:               product.SKU,
			ProductName:       product.Name,
			CurrentQuantity:   product.Quantity,
			ReorderPoint:      rule.ReorderPoint,
			SuggestedQuantity: rule.ReorderQuantity,
			SupplierID:        supplierID,
			Urgency:           ClassifyUrgency(product.Quantity, rule.ReorderPoint),
			HasRule:           true,
		})
	}

	// Productos con umbral de stock bajo pero sin regla: heurística
	// mínima para que igual aparezcan en el tablero.
	lowStock, err := uc.insightsRepo.GetLowStockProducts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for _, p := range lowStock {
		if ruled[p.ProductID] {
			continue
		}
		suggested := p.LowStockThreshold * 2
		if suggested < 10 {
			suggested = 10
		}
		out = append(out, dto.ReorderSuggestionDTO{
			ProductID:         p.ProductID,
			SKU:               p.SKU,
			ProductName:       p.ProductName,
			CurrentQuantity:   p.Quantity,
			ReorderPoint:      p.LowStockThreshold,
			SuggestedQuantity: suggested,
			Urgency:           ClassifyUrgency(p.Quantity, p.LowStockThreshold),
			HasRule:           false,
		})
	}

	// Críticos primero, luego por SKU para un orden estable.
	rank := map[string]int{dto.UrgencyCritical: 0, dto.UrgencyWarning: 1, dto.UrgencyNormal: 2}
	sort.Slice(out, func(i, j int) bool {
		if rank[out[i].Urgency] != rank[out[j].Urgency] {
			return rank[out[i].Urgency] < rank[out[j].Urgency]
		}
		return out[i].SKU < out[j].SKU
	})

	uc.cache.Set(key, out, uc.ttl)
	return out, nil
}

// LowStock devuelve los productos en o bajo su umbral de stock bajo.
func (uc *UseCase) LowStock(ctx context.Context, companyID string) ([]dto.LowStockDTO, error) {
	results, err := uc.insightsRepo.GetLowStockProducts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockDTO, 0, len(results))
	for _, r := range results {
		out = append(out, dto.LowStockDTO{
			ProductID:         r.ProductID,
			SKU:               r.SKU,
			ProductName:       r.ProductName,
			Quantity:          r.Quantity,
			LowStockThreshold: r.LowStockThreshold,
		})
	}
	return out, nil
}

// UpsertRule crea o actualiza la regla de reposición de un producto.
func (uc *UseCase) UpsertRule(ctx context.Context, companyID string, in dto.UpsertReorderRuleRequest) (*entity.ReorderRule, error) {
	if in.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if in.ReorderPoint < 0 {
		return nil, domain.NewValidationError("reorder_point", "no puede ser negativo")
	}
	if in.ReorderQuantity <= 0 {
		return nil, domain.NewValidationError("reorder_quantity", "debe ser positiva")
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	rule, err := uc.ruleRepo.GetByProduct(companyID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		rule = &entity.ReorderRule{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			ProductID: in.ProductID,
			CreatedAt: now,
		}
	}
	rule.ReorderPoint = in.ReorderPoint
	rule.ReorderQuantity = in.ReorderQuantity
	rule.SupplierID = in.SupplierID
	rule.Active = in.Active
	rule.UpdatedAt = now
	if err := uc.ruleRepo.Upsert(rule); err != nil {
		return nil, err
	}
	uc.cache.InvalidatePrefix(ports.TenantPrefix(companyID))
	return rule, nil
}

// DeleteRule elimina la regla de reposición de un producto.
func (uc *UseCase) DeleteRule(ctx context.Context, companyID, productID string) error {
	rule, err := uc.ruleRepo.GetByProduct(companyID, productID)
	if err != nil {
		return err
	}
	if rule == nil {
		return domain.ErrNotFound
	}
	if err := uc.ruleRepo.Delete(rule.ID); err != nil {
		return err
	}
	uc.cache.InvalidatePrefix(ports.TenantPrefix(companyID))
	return nil
}
