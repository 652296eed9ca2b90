package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/purchasing"
	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/purchase"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
	"github.com/tu-usuario/bodega-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (mismo patrón commit/rollback que los tests de stock:
// el runner clona el estado y solo lo promueve si la función no falla)
// ──────────────────────────────────────────────────────────────────────────────

const (
	empresaA = "empresa-a"
	empresaB = "empresa-b"
	usuario  = "user-1"
)

type poStore struct {
	orders    map[string]*entity.PurchaseOrder
	products  map[string]*entity.Product
	suppliers map[string]*entity.Supplier
	movements []*entity.StockMovement
}

func newPOStore() *poStore {
	return &poStore{
		orders:    make(map[string]*entity.PurchaseOrder),
		products:  make(map[string]*entity.Product),
		suppliers: make(map[string]*entity.Supplier),
	}
}

func (s *poStore) clone() *poStore {
	c := newPOStore()
	for k, v := range s.orders {
		cp := *v
		cp.Items = append([]entity.PurchaseOrderItem(nil), v.Items...)
		c.orders[k] = &cp
	}
	for k, v := range s.products {
		cp := *v
		c.products[k] = &cp
	}
	for k, v := range s.suppliers {
		cp := *v
		c.suppliers[k] = &cp
	}
	c.movements = append(c.movements, s.movements...)
	return c
}

type poOrderRepo struct{ s *poStore }

func (r *poOrderRepo) Create(o *entity.PurchaseOrder) error {
	r.s.orders[o.ID] = o
	return nil
}
func (r *poOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	return r.s.orders[id], nil
}
func (r *poOrderRepo) GetForUpdate(id string) (*entity.PurchaseOrder, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o, nil
}
func (r *poOrderRepo) UpdateStatus(orderID string, status purchase.Status, orderedAt, receivedAt *time.Time) error {
	o := r.s.orders[orderID]
	o.Status = status
	o.OrderedAt = orderedAt
	o.ReceivedAt = receivedAt
	return nil
}
func (r *poOrderRepo) UpdateItemReceived(itemID string, received int64) error {
	for _, o := range r.s.orders {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				o.Items[i].ReceivedQuantity = received
				return nil
			}
		}
	}
	return domain.ErrNotFound
}
func (r *poOrderRepo) ListByCompany(companyID string, status purchase.Status, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	for _, o := range r.s.orders {
		if o.CompanyID != companyID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type poProductRepo struct{ s *poStore }

func (r *poProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *poProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *poProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
func (r *poProductRepo) GetByCompanyAndSKU(string, string) (*entity.Product, error) { return nil, nil }
func (r *poProductRepo) Update(p *entity.Product) error                             { r.s.products[p.ID] = p; return nil }
func (r *poProductRepo) UpdateQuantity(id string, qty int64) error {
	r.s.products[id].Quantity = qty
	return nil
}
func (r *poProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	r.s.products[id].Cost = cost
	return nil
}
func (r *poProductRepo) ListByCompany(string, string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *poProductRepo) ListByIDs(string, []string) ([]*entity.Product, error) { return nil, nil }
func (r *poProductRepo) Delete(id string) error                                { delete(r.s.products, id); return nil }

type poMovementRepo struct{ s *poStore }

func (r *poMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *poMovementRepo) ListByProduct(string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}
func (r *poMovementRepo) ListByCompany(string, int, int) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}

type poSupplierRepo struct{ s *poStore }

func (r *poSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return r.s.suppliers[id], nil
}

type poTxRunner struct{ s *poStore }

func (tx *poTxRunner) RunPurchasing(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.PurchaseOrderRepository,
) error) error {
	staging := tx.s.clone()
	if err := fn(&poMovementRepo{staging}, &poProductRepo{staging}, &poOrderRepo{staging}); err != nil {
		return err
	}
	*tx.s = *staging
	return nil
}

type poAudit struct{ entries []entity.ActivityLog }

func (a *poAudit) Record(e entity.ActivityLog) { a.entries = append(a.entries, e) }

type poCache struct{ invalidated []string }

func (c *poCache) Get(string) (any, bool)         { return nil, false }
func (c *poCache) Set(string, any, time.Duration) {}
func (c *poCache) InvalidatePrefix(p string)      { c.invalidated = append(c.invalidated, p) }

type poFixture struct {
	store *poStore
	uc    *purchasing.UseCase
	audit *poAudit
}

func newPOFixture() *poFixture {
	s := newPOStore()
	audit := &poAudit{}
	uc := purchasing.NewUseCase(&poTxRunner{s}, &poOrderRepo{s}, &poSupplierRepo{s}, audit, &poCache{}, logger.Nop())
	return &poFixture{store: s, uc: uc, audit: audit}
}

func (f *poFixture) seedSupplier(id, companyID string) {
	f.store.suppliers[id] = &entity.Supplier{ID: id, CompanyID: companyID, Name: "proveedor " + id}
}

func (f *poFixture) seedProduct(id string, qty int64) {
	f.store.products[id] = &entity.Product{ID: id, CompanyID: empresaA, SKU: "SKU-" + id, Quantity: qty}
}

// seedOrder crea una orden en el estado dado con las líneas indicadas.
func (f *poFixture) seedOrder(id string, status purchase.Status, items ...entity.PurchaseOrderItem) *entity.PurchaseOrder {
	o := &entity.PurchaseOrder{
		ID:          id,
		CompanyID:   empresaA,
		OrderNumber: "OC-TEST-" + id,
		SupplierID:  "s1",
		Status:      status,
		Items:       items,
	}
	f.store.orders[id] = o
	return o
}

func linea(id string, productID *string, ordered, received int64) entity.PurchaseOrderItem {
	return entity.PurchaseOrderItem{
		ID:               id,
		ProductID:        productID,
		OrderedQuantity:  ordered,
		ReceivedQuantity: received,
		UnitCost:         decimal.NewFromInt(100),
	}
}

func ptr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// CreateOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_NaceEnBorrador(t *testing.T) {
	f := newPOFixture()
	f.seedSupplier("s1", empresaA)

	order, err := f.uc.CreateOrder(context.Background(), empresaA, usuario, dto.CreateOrderRequest{
		SupplierID: "s1",
		Items: []dto.CreateOrderItemRequest{
			{ProductID: ptr("p1"), Quantity: 10, UnitCost: decimal.NewFromInt(500)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, purchase.StatusDraft, order.Status, "toda orden nace en draft")
	assert.Nil(t, order.OrderedAt)
	assert.Len(t, order.Items, 1)
	assert.Contains(t, order.OrderNumber, "OC-")
}

func TestCreateOrder_LineaLibreSinDescripcion_EsInvalida(t *testing.T) {
	f := newPOFixture()
	f.seedSupplier("s1", empresaA)

	_, err := f.uc.CreateOrder(context.Background(), empresaA, usuario, dto.CreateOrderRequest{
		SupplierID: "s1",
		Items: []dto.CreateOrderItemRequest{
			{Quantity: 5}, // sin producto ni descripción
		},
	})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "items[0].description")
}

func TestCreateOrder_ProveedorDeOtraEmpresa_NotFound(t *testing.T) {
	f := newPOFixture()
	f.seedSupplier("s1", empresaB)

	_, err := f.uc.CreateOrder(context.Background(), empresaA, usuario, dto.CreateOrderRequest{
		SupplierID: "s1",
		Items:      []dto.CreateOrderItemRequest{{Description: "cajas", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ChangeStatus — máquina de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestChangeStatus_DraftAOrdered_EstampaOrderedAt(t *testing.T) {
	f := newPOFixture()
	f.seedOrder("o1", purchase.StatusDraft, linea("i1", ptr("p1"), 10, 0))

	require.NoError(t, f.uc.ChangeStatus(context.Background(), empresaA, usuario, "o1",
		dto.ChangeOrderStatusRequest{Status: "ordered"}))

	o := f.store.orders["o1"]
	assert.Equal(t, purchase.StatusOrdered, o.Status)
	require.NotNil(t, o.OrderedAt, "entrar a ordered estampa OrderedAt")
}

func TestChangeStatus_TransicionInvalida_EsRechazada(t *testing.T) {
	f := newPOFixture()
	f.seedOrder("o1", purchase.StatusDraft)

	err := f.uc.ChangeStatus(context.Background(), empresaA, usuario, "o1",
		dto.ChangeOrderStatusRequest{Status: "received"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, purchase.StatusDraft, f.store.orders["o1"].Status, "el estado no debe cambiar")
}

func TestChangeStatus_EstadoDesconocido_EsInvalido(t *testing.T) {
	f := newPOFixture()
	f.seedOrder("o1", purchase.StatusDraft)

	err := f.uc.ChangeStatus(context.Background(), empresaA, usuario, "o1",
		dto.ChangeOrderStatusRequest{Status: "enviada"})
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

// Cancelar una orden parcial no revierte el stock ya recibido.
func TestChangeStatus_CancelarParcial_NoRevierteStock(t *testing.T) {
	f := newPOFixture()
	f.seedProduct("p1", 7) // 7 unidades ya recibidas antes
	f.seedOrder("o1", purchase.StatusPartial, linea("i1", ptr("p1"), 10, 7))

	require.NoError(t, f.uc.ChangeStatus(context.Background(), empresaA, usuario, "o1",
		dto.ChangeOrderStatusRequest{Status: "cancelled"}))

	assert.Equal(t, purchase.StatusCancelled, f.store.orders["o1"].Status)
	assert.Equal(t, int64(7), f.store.products["p1"].Quantity,
		"las unidades recibidas entraron al ledger y ahí se quedan")
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_RecepcionCompleta(t *testing.T) {
	f := newPOFixture()
	f.seedProduct("p1", 5)
	f.seedOrder("o1", purchase.StatusOrdered, linea("i1", ptr("p1"), 10, 0))

	require.NoError(t, f.uc.Receive(context.Background(), empresaA, usuario, "o1",
		dto.ReceiveOrderRequest{Lines: []dto.ReceiveLine{{ItemID: "i1", Quantity: 10}}}))

	o := f.store.orders["o1"]
	assert.Equal(t, purchase.StatusReceived, o.Status)
	require.NotNil(t, o.ReceivedAt, "entrar a received estampa ReceivedAt")
	assert.Equal(t, int64(10), o.Items[0].ReceivedQuantity)
	assert.Equal(t, int64(15), f.store.products["p1"].Quantity)

	require.Len(t, f.store.movements, 1)
	mov := f.store.movements[0]
	assert.Equal(t, entity.MovementReceive, mov.Type)
	assert.Equal(t, int64(10), mov.Quantity)
	assert.Equal(t, o.OrderNumber, mov.Reference, "el movimiento referencia el número de orden")
	assert.Equal(t, entity.RefPurchaseOrder, mov.ReferenceType)
}

func TestReceive_RecepcionParcial_PasaAPartial(t *testing.T) {
	f := newPOFixture()
	f.seedProduct("p1", 0)
	f.seedOrder("o1", purchase.StatusOrdered, linea("i1", ptr("p1"), 10, 0))

	require.NoError(t, f.uc.Receive(context.Background(), empresaA, usuario, "o1",
		dto.ReceiveOrderRequest{Lines: []dto.ReceiveLine{{ItemID: "i1", Quantity: 4}}}))

	assert.Equal(t, purchase.StatusPartial, f.store.orders["o1"].Status)
	assert.Nil(t, f.store.orders["o1"].ReceivedAt)
	assert.Equal(t, int64(4), f.store.products["p1"].Quantity)
}

// Recepciones incrementales: partial → partial no intenta transición.
func TestReceive_IncrementalSobreParcial(t *testing.T) {
	f := newPOFixture()
	f.seedProduct("p1", 4)
	f.seedOrder("o1", purchase.StatusPartial, linea("i1", ptr("p1"), 10, 4))

	require.NoError(t, f.uc.Receive(context.Background(), empresaA, usuario, "o1",
		dto.ReceiveOrderRequest{Lines: []dto.ReceiveLine{{ItemID: "i1", Quantity: 3}}}))

	assert.Equal(t, purchase.StatusPartial, f.store.orders["o1"].Status)
	assert.Equal(t, int64(7), f.store.orders["o1"].Items[0].ReceivedQuantity)
	assert.Equal(t, int64(7), f.store.products["p1"].Quantity)
}

// Una línea sobre-recibida revierte TODA la recepción, incluidas las
// líneas válidas del mismo request.
func TestReceive_SobreRecepcion_RevierteTodo(t *testing.T) {
	f := newPOFixture()
	f.seedProduct("p1", 0)
	f.seedProduct("p2", 0)
	f.seedOrder("o1", purchase.StatusOrdered,
		linea("i1", ptr("p1"), 10, 0),
		linea("i2", ptr("p2"), 5, 3),
	)

	err := f.uc.Receive(context.Background(), empresaA, usuario, "o1",
		dto.ReceiveOrderRequest{Lines: []dto.ReceiveLine{
			{ItemID: "i1", Quantity: 10}, // válida
			{ItemID: "i2", Quantity: 3},  // 3+3 > 5: sobre-recepción
		}})
	require.Error(t, err)

	var overErr *domain.OverReceiveError
	require.ErrorAs(t, err, &overErr)
	assert.Equal(t, "i2", overErr.ItemID)
	assert.Equal(t, int64(5), overErr.Ordered)

	o := f.store.orders["o1"]
	assert.Equal(t, int64(0), o.Items[0].ReceivedQuantity, "la línea válida tampoco se aplica")
	assert.Equal(t, int64(3), o.Items[1].ReceivedQuantity)
	assert.Equal(t, int64(0), f.store.products["p1"].Quantity)
	assert.Empty(t, f.store.movements)
	assert.Empty(t, f.audit.entries)
}

func TestReceive_EnDraft_EsRechazada(t *testing.T) {
	f := newPOFixture()
	f.seedOrder("o1", purchase.StatusDraft, linea("i1", ptr("p1"), 10, 0))

	err := f.uc.Receive(context.Background(), empresaA, usuario, "o1",
		dto.ReceiveOrderRequest{Lines: []dto.ReceiveLine{{ItemID: "i1", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"solo se recibe contra ordered o partial")
}

// Las líneas libres acumulan recepción pero no tocan stock ni ledger.
func TestReceive_LineaLibre_NoMueveStock(t *testing.T) {
	f := newPOFixture()
	f.seedOrder("o1", purchase.StatusOrdered, linea("i1", nil, 3, 0))

	require.NoError(t, f.uc.Receive(context.Background(), empresaA, usuario, "o1",
		dto.ReceiveOrderRequest{Lines: []dto.ReceiveLine{{ItemID: "i1", Quantity: 3}}}))

	assert.Equal(t, purchase.StatusReceived, f.store.orders["o1"].Status)
	assert.Empty(t, f.store.movements, "una línea libre no genera movimiento")
}

// Recibir actualiza el costo del producto al costo unitario de la línea.
func TestReceive_ActualizaCostoDelProducto(t *testing.T) {
	f := newPOFixture()
	f.seedProduct("p1", 0)
	item := linea("i1", ptr("p1"), 2, 0)
	item.UnitCost = decimal.NewFromInt(950)
	f.seedOrder("o1", purchase.StatusOrdered, item)

	require.NoError(t, f.uc.Receive(context.Background(), empresaA, usuario, "o1",
		dto.ReceiveOrderRequest{Lines: []dto.ReceiveLine{{ItemID: "i1", Quantity: 2}}}))

	assert.True(t, decimal.NewFromInt(950).Equal(f.store.products["p1"].Cost))
}

func TestReceive_ItemAjeno_NotFound(t *testing.T) {
	f := newPOFixture()
	f.seedOrder("o1", purchase.StatusOrdered, linea("i1", nil, 3, 0))

	err := f.uc.Receive(context.Background(), empresaA, usuario, "o1",
		dto.ReceiveOrderRequest{Lines: []dto.ReceiveLine{{ItemID: "otro", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// ListOrders
// ──────────────────────────────────────────────────────────────────────────────

func TestListOrders_FiltroPorEstadoInvalido(t *testing.T) {
	f := newPOFixture()
	_, err := f.uc.ListOrders(empresaA, "pendiente", dto.PageRequest{Limit: 10})
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestListOrders_FiltroPorEstado(t *testing.T) {
	f := newPOFixture()
	f.seedOrder("o1", purchase.StatusDraft)
	f.seedOrder("o2", purchase.StatusOrdered)

	orders, err := f.uc.ListOrders(empresaA, "ordered", dto.PageRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o2", orders[0].ID)
}
