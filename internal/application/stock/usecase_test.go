package stock_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/bodega-pos/internal/application/dto"
	"github.com/tu-usuario/bodega-pos/internal/application/stock"
	"github.com/tu-usuario/bodega-pos/internal/domain"
	"github.com/tu-usuario/bodega-pos/internal/domain/entity"
	"github.com/tu-usuario/bodega-pos/internal/domain/repository"
	"github.com/tu-usuario/bodega-pos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// fakeStore es el "estado de la base"; los repos fake operan sobre él. El
// fakeTxRunner clona el estado antes de ejecutar la función transaccional y
// solo promueve el clon si la función termina sin error, imitando el
// commit/rollback real. Así los tests de atomicidad son honestos: un fallo a
// mitad de camino no deja escrituras parciales visibles.
// ──────────────────────────────────────────────────────────────────────────────

const (
	empresaA = "empresa-a"
	empresaB = "empresa-b"
	usuario  = "user-1"
)

type fakeStore struct {
	products  map[string]*entity.Product
	stocks    map[string]*entity.ProductStock // clave productID|locationID
	batches   map[string]*entity.Batch
	movements []*entity.StockMovement
	locations map[string]*entity.Location
	lockOrder []string // ids de producto en el orden en que se pidió su lock
	upserts   []string // claves de stock escritas con valor absoluto (Upsert)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:  make(map[string]*entity.Product),
		stocks:    make(map[string]*entity.ProductStock),
		batches:   make(map[string]*entity.Batch),
		locations: make(map[string]*entity.Location),
	}
}

func (s *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range s.products {
		cp := *v
		c.products[k] = &cp
	}
	for k, v := range s.stocks {
		cp := *v
		c.stocks[k] = &cp
	}
	for k, v := range s.batches {
		cp := *v
		c.batches[k] = &cp
	}
	for k, v := range s.locations {
		cp := *v
		c.locations[k] = &cp
	}
	c.movements = append(c.movements, s.movements...)
	c.lockOrder = append(c.lockOrder, s.lockOrder...)
	c.upserts = append(c.upserts, s.upserts...)
	return c
}

func stockKey(productID, locationID string) string { return productID + "|" + locationID }

// ── repos fake ────────────────────────────────────────────────────────────────

type fakeProductRepo struct{ s *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.s.products[id], nil
}
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	r.s.lockOrder = append(r.s.lockOrder, id)
	p, ok := r.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
func (r *fakeProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error {
	r.s.products[p.ID] = p
	return nil
}
func (r *fakeProductRepo) UpdateQuantity(id string, qty int64) error {
	r.s.products[id].Quantity = qty
	return nil
}
func (r *fakeProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	r.s.products[id].Cost = cost
	return nil
}
func (r *fakeProductRepo) ListByCompany(companyID, search string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakeProductRepo) ListByIDs(companyID string, ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok && p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakeProductRepo) Delete(id string) error {
	delete(r.s.products, id)
	return nil
}

type fakeStockRepo struct{ s *fakeStore }

func (r *fakeStockRepo) Get(productID, locationID string) (*entity.ProductStock, error) {
	return r.s.stocks[stockKey(productID, locationID)], nil
}
func (r *fakeStockRepo) GetForUpdate(productID, locationID string) (*entity.ProductStock, error) {
	if st, ok := r.s.stocks[stockKey(productID, locationID)]; ok {
		return st, nil
	}
	return &entity.ProductStock{ProductID: productID, LocationID: locationID}, nil
}
func (r *fakeStockRepo) Upsert(st *entity.ProductStock) error {
	r.s.upserts = append(r.s.upserts, stockKey(st.ProductID, st.LocationID))
	r.s.stocks[stockKey(st.ProductID, st.LocationID)] = st
	return nil
}
func (r *fakeStockRepo) AddQuantity(productID, locationID string, delta int64, now time.Time) error {
	k := stockKey(productID, locationID)
	if st, ok := r.s.stocks[k]; ok {
		st.Quantity += delta
		st.UpdatedAt = now
		return nil
	}
	r.s.stocks[k] = &entity.ProductStock{ProductID: productID, LocationID: locationID, Quantity: delta, UpdatedAt: now}
	return nil
}
func (r *fakeStockRepo) ListByProduct(productID string) ([]*entity.ProductStock, error) {
	var out []*entity.ProductStock
	for _, st := range r.s.stocks {
		if st.ProductID == productID {
			out = append(out, st)
		}
	}
	return out, nil
}
func (r *fakeStockRepo) TotalByLocation(locationID string) (int64, error) {
	var total int64
	for _, st := range r.s.stocks {
		if st.LocationID == locationID {
			total += st.Quantity
		}
	}
	return total, nil
}

type fakeMovementRepo struct{ s *fakeStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *fakeMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *fakeMovementRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.CompanyID == companyID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeBatchRepo struct{ s *fakeStore }

func (r *fakeBatchRepo) Create(b *entity.Batch) error {
	r.s.batches[b.ID] = b
	return nil
}
func (r *fakeBatchRepo) GetByID(id string) (*entity.Batch, error) {
	return r.s.batches[id], nil
}
func (r *fakeBatchRepo) GetForUpdate(id string) (*entity.Batch, error) {
	b, ok := r.s.batches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}
func (r *fakeBatchRepo) GetByProductAndNumber(productID, number string) (*entity.Batch, error) {
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.BatchNumber == number {
			return b, nil
		}
	}
	return nil, nil
}
func (r *fakeBatchRepo) UpdateQuantity(id string, qty int64) error {
	r.s.batches[id].Quantity = qty
	return nil
}
func (r *fakeBatchRepo) ListByProduct(productID string, limit, offset int) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.s.batches {
		if b.ProductID == productID {
			out = append(out, b)
		}
	}
	return out, nil
}
func (r *fakeBatchRepo) Delete(id string) error {
	delete(r.s.batches, id)
	return nil
}

type fakeLocationRepo struct{ s *fakeStore }

func (r *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	return r.s.locations[id], nil
}

// fakeTxRunner ejecuta fn sobre un clon del estado y solo promueve el
// resultado si fn termina sin error (semántica commit/rollback).
type fakeTxRunner struct{ s *fakeStore }

func (tx *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.StockMovementRepository,
	stockRepo repository.ProductStockRepository,
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
) error) error {
	staging := tx.s.clone()
	err := fn(&fakeMovementRepo{staging}, &fakeStockRepo{staging}, &fakeProductRepo{staging}, &fakeBatchRepo{staging})
	if err != nil {
		return err
	}
	*tx.s = *staging
	return nil
}

// ── efectos post-commit fake ──────────────────────────────────────────────────

type fakeAudit struct{ entries []entity.ActivityLog }

func (a *fakeAudit) Record(e entity.ActivityLog) { a.entries = append(a.entries, e) }

type fakeCache struct{ invalidated []string }

func (c *fakeCache) Get(string) (any, bool)             { return nil, false }
func (c *fakeCache) Set(string, any, time.Duration)     {}
func (c *fakeCache) InvalidatePrefix(prefix string)     { c.invalidated = append(c.invalidated, prefix) }

// ── armado del caso de uso ────────────────────────────────────────────────────

type fixture struct {
	store *fakeStore
	uc    *stock.UseCase
	audit *fakeAudit
	cache *fakeCache
}

func newFixture() *fixture {
	s := newFakeStore()
	audit := &fakeAudit{}
	cache := &fakeCache{}
	uc := stock.NewUseCase(
		&fakeTxRunner{s},
		&fakeProductRepo{s},
		&fakeLocationRepo{s},
		&fakeBatchRepo{s},
		&fakeMovementRepo{s},
		&fakeStockRepo{s},
		audit,
		cache,
		logger.Nop(),
	)
	return &fixture{store: s, uc: uc, audit: audit, cache: cache}
}

func (f *fixture) seedProduct(id, companyID, sku string, qty int64) {
	f.store.products[id] = &entity.Product{ID: id, CompanyID: companyID, SKU: sku, Quantity: qty}
}

func (f *fixture) seedLocation(id, companyID string) {
	f.store.locations[id] = &entity.Location{ID: id, CompanyID: companyID, Name: "bodega " + id}
}

func (f *fixture) seedStock(productID, locationID string, qty int64) {
	f.store.stocks[stockKey(productID, locationID)] = &entity.ProductStock{
		ProductID: productID, LocationID: locationID, Quantity: qty,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// AdjustProduct
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustProduct_DeltaPositivoSuma(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 10)

	err := f.uc.AdjustProduct(context.Background(), empresaA, usuario, dto.AdjustProductRequest{
		ProductID: "p1", Delta: 5, Note: "conteo físico",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(15), f.store.products["p1"].Quantity)
	require.Len(t, f.store.movements, 1, "debe apendear exactamente un movimiento")
	mov := f.store.movements[0]
	assert.Equal(t, entity.MovementAdjust, mov.Type)
	assert.Equal(t, int64(5), mov.Quantity, "el movimiento registra el delta firmado")
	assert.Equal(t, usuario, mov.CreatedBy)
}

func TestAdjustProduct_DeltaNegativoResta(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 10)

	err := f.uc.AdjustProduct(context.Background(), empresaA, usuario, dto.AdjustProductRequest{
		ProductID: "p1", Delta: -10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.store.products["p1"].Quantity, "bajar exactamente a cero es válido")
}

// El caso central del motor: un delta que dejaría stock negativo se rechaza y
// NO deja rastro en el ledger ni en el contador.
func TestAdjustProduct_StockInsuficiente_NoEscribeNada(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 3)

	err := f.uc.AdjustProduct(context.Background(), empresaA, usuario, dto.AdjustProductRequest{
		ProductID: "p1", Delta: -5,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock),
		"debe reportar stock insuficiente")

	var negErr *domain.NegativeStockError
	require.ErrorAs(t, err, &negErr)
	assert.Equal(t, int64(2), negErr.Deficit, "faltan 2 unidades para cubrir el delta")

	assert.Equal(t, int64(3), f.store.products["p1"].Quantity, "el contador no debe cambiar")
	assert.Empty(t, f.store.movements, "no debe escribirse ningún movimiento")
	assert.Empty(t, f.audit.entries, "sin commit no hay bitácora")
	assert.Empty(t, f.cache.invalidated, "sin commit no se invalida cache")
}

func TestAdjustProduct_DeltaCero_EsInvalido(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 3)

	err := f.uc.AdjustProduct(context.Background(), empresaA, usuario, dto.AdjustProductRequest{
		ProductID: "p1", Delta: 0,
	})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "delta")
}

// Referencia cruzada de otro tenant se reporta igual que inexistente.
func TestAdjustProduct_ProductoDeOtraEmpresa_NotFound(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaB, "SKU-1", 10)

	err := f.uc.AdjustProduct(context.Background(), empresaA, usuario, dto.AdjustProductRequest{
		ProductID: "p1", Delta: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(10), f.store.products["p1"].Quantity)
}

func TestAdjustProduct_PostCommit_BitacoraYCache(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 10)

	require.NoError(t, f.uc.AdjustProduct(context.Background(), empresaA, usuario, dto.AdjustProductRequest{
		ProductID: "p1", Delta: 2,
	}))

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, empresaA, f.audit.entries[0].CompanyID)
	assert.Equal(t, "adjust", f.audit.entries[0].Action)

	require.Len(t, f.cache.invalidated, 1)
	assert.True(t, strings.HasPrefix(f.cache.invalidated[0], empresaA),
		"la invalidación debe ser del prefijo del tenant")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_MueveEntreBodegasSinTocarElAgregado(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 100)
	f.seedLocation("b1", empresaA)
	f.seedLocation("b2", empresaA)
	f.seedStock("p1", "b1", 40)

	err := f.uc.Transfer(context.Background(), empresaA, usuario, dto.TransferRequest{
		ProductID: "p1", FromLocationID: "b1", ToLocationID: "b2", Quantity: 15,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(25), f.store.stocks[stockKey("p1", "b1")].Quantity)
	assert.Equal(t, int64(15), f.store.stocks[stockKey("p1", "b2")].Quantity)
	assert.Equal(t, int64(100), f.store.products["p1"].Quantity,
		"el traslado interno no cambia el total de la empresa")

	// Dos filas en el ledger que suman cero y se referencian cruzadas.
	require.Len(t, f.store.movements, 2)
	out, in := f.store.movements[0], f.store.movements[1]
	assert.Equal(t, int64(-15), out.Quantity)
	assert.Equal(t, int64(15), in.Quantity)
	assert.Equal(t, int64(0), out.Quantity+in.Quantity)
	assert.Equal(t, "b2", out.Reference, "la salida referencia la bodega destino")
	assert.Equal(t, "b1", in.Reference, "la entrada referencia la bodega origen")
	assert.Equal(t, entity.RefLocation, out.ReferenceType)
	assert.Equal(t, entity.MovementTransfer, out.Type)
	assert.Equal(t, entity.MovementTransfer, in.Type)
}

func TestTransfer_OrigenInsuficiente_RevierteTodo(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 100)
	f.seedLocation("b1", empresaA)
	f.seedLocation("b2", empresaA)
	f.seedStock("p1", "b1", 5)

	err := f.uc.Transfer(context.Background(), empresaA, usuario, dto.TransferRequest{
		ProductID: "p1", FromLocationID: "b1", ToLocationID: "b2", Quantity: 8,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(5), f.store.stocks[stockKey("p1", "b1")].Quantity, "origen intacto")
	assert.Nil(t, f.store.stocks[stockKey("p1", "b2")], "destino no debe crearse")
	assert.Empty(t, f.store.movements)
}

func TestTransfer_OrigenSinFila_SeTrataComoCero(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 100)
	f.seedLocation("b1", empresaA)
	f.seedLocation("b2", empresaA)
	// sin fila de stock para b1

	err := f.uc.Transfer(context.Background(), empresaA, usuario, dto.TransferRequest{
		ProductID: "p1", FromLocationID: "b1", ToLocationID: "b2", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"una bodega sin fila tiene cero unidades")
}

func TestTransfer_MismaBodega_EsInvalido(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 100)
	f.seedLocation("b1", empresaA)

	err := f.uc.Transfer(context.Background(), empresaA, usuario, dto.TransferRequest{
		ProductID: "p1", FromLocationID: "b1", ToLocationID: "b1", Quantity: 1,
	})
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestTransfer_BodegaDeOtraEmpresa_NotFound(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 100)
	f.seedLocation("b1", empresaA)
	f.seedLocation("b2", empresaB)
	f.seedStock("p1", "b1", 50)

	err := f.uc.Transfer(context.Background(), empresaA, usuario, dto.TransferRequest{
		ProductID: "p1", FromLocationID: "b1", ToLocationID: "b2", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.store.movements)
}

func TestTransfer_IdaYVueltaRestauraAmbasBodegas(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 100)
	f.seedLocation("b1", empresaA)
	f.seedLocation("b2", empresaA)
	f.seedStock("p1", "b1", 40)
	f.seedStock("p1", "b2", 7)

	require.NoError(t, f.uc.Transfer(context.Background(), empresaA, usuario, dto.TransferRequest{
		ProductID: "p1", FromLocationID: "b1", ToLocationID: "b2", Quantity: 15,
	}))
	require.NoError(t, f.uc.Transfer(context.Background(), empresaA, usuario, dto.TransferRequest{
		ProductID: "p1", FromLocationID: "b2", ToLocationID: "b1", Quantity: 15,
	}))

	assert.Equal(t, int64(40), f.store.stocks[stockKey("p1", "b1")].Quantity,
		"el viaje de ida y vuelta deja el origen como estaba")
	assert.Equal(t, int64(7), f.store.stocks[stockKey("p1", "b2")].Quantity,
		"el viaje de ida y vuelta deja el destino como estaba")
	assert.Equal(t, int64(100), f.store.products["p1"].Quantity)

	// Cuatro filas en el ledger (dos por traslado) con delta neto cero.
	require.Len(t, f.store.movements, 4)
	var neto int64
	for _, m := range f.store.movements {
		neto += m.Quantity
	}
	assert.Equal(t, int64(0), neto)
}

func TestTransfer_DestinoSeEscribeComoDelta(t *testing.T) {
	// Dos traslados hacia la misma bodega toman locks de orígenes distintos,
	// así que el destino no puede escribirse como valor absoluto calculado de
	// una lectura sin lock: se perdería un incremento.
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 100)
	f.seedLocation("b1", empresaA)
	f.seedLocation("b2", empresaA)
	f.seedLocation("b3", empresaA)
	f.seedStock("p1", "b1", 40)
	f.seedStock("p1", "b2", 30)

	require.NoError(t, f.uc.Transfer(context.Background(), empresaA, usuario, dto.TransferRequest{
		ProductID: "p1", FromLocationID: "b1", ToLocationID: "b3", Quantity: 10,
	}))
	require.NoError(t, f.uc.Transfer(context.Background(), empresaA, usuario, dto.TransferRequest{
		ProductID: "p1", FromLocationID: "b2", ToLocationID: "b3", Quantity: 5,
	}))

	assert.Equal(t, int64(15), f.store.stocks[stockKey("p1", "b3")].Quantity,
		"el destino acumula ambos traslados")
	for _, k := range f.store.upserts {
		assert.NotEqual(t, stockKey("p1", "b3"), k,
			"el destino debe escribirse de forma aditiva, nunca con Upsert absoluto")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// BulkAdjust — todo-o-nada
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkAdjust_AplicaTodasLasLineas(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 10)
	f.seedProduct("p2", empresaA, "SKU-2", 20)

	err := f.uc.BulkAdjust(context.Background(), empresaA, usuario, dto.BulkAdjustRequest{
		Lines: []dto.BulkAdjustLine{
			{ProductID: "p1", Delta: 5},
			{ProductID: "p2", Delta: -20},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), f.store.products["p1"].Quantity)
	assert.Equal(t, int64(0), f.store.products["p2"].Quantity)
	assert.Len(t, f.store.movements, 2, "un movimiento por línea")
}

// Una sola línea inválida aborta el lote completo: ni contadores ni ledger.
func TestBulkAdjust_UnaLineaInvalida_AbortaElLote(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 10)
	f.seedProduct("p2", empresaA, "SKU-2", 3)

	err := f.uc.BulkAdjust(context.Background(), empresaA, usuario, dto.BulkAdjustRequest{
		Lines: []dto.BulkAdjustLine{
			{ProductID: "p1", Delta: 5},  // válida
			{ProductID: "p2", Delta: -4}, // dejaría -1
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), f.store.products["p1"].Quantity, "la línea válida tampoco se aplica")
	assert.Equal(t, int64(3), f.store.products["p2"].Quantity)
	assert.Empty(t, f.store.movements)
	assert.Empty(t, f.audit.entries)
}

func TestBulkAdjust_ProductoAjeno_AbortaSinEscrituras(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 10)
	f.seedProduct("ajeno", empresaB, "SKU-X", 10)

	err := f.uc.BulkAdjust(context.Background(), empresaA, usuario, dto.BulkAdjustRequest{
		Lines: []dto.BulkAdjustLine{
			{ProductID: "p1", Delta: 1},
			{ProductID: "ajeno", Delta: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(10), f.store.products["p1"].Quantity)
	assert.Empty(t, f.store.movements)
}

func TestBulkAdjust_BloqueaEnOrdenCanonico(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 10)
	f.seedProduct("p2", empresaA, "SKU-2", 10)
	f.seedProduct("p3", empresaA, "SKU-3", 10)

	// Las líneas llegan desordenadas; los locks deben pedirse por id ordenado
	// para que dos lotes concurrentes con líneas cruzadas no se interbloqueen.
	require.NoError(t, f.uc.BulkAdjust(context.Background(), empresaA, usuario, dto.BulkAdjustRequest{
		Lines: []dto.BulkAdjustLine{
			{ProductID: "p3", Delta: 1},
			{ProductID: "p1", Delta: 1},
			{ProductID: "p2", Delta: 1},
		},
	}))
	assert.Equal(t, []string{"p1", "p2", "p3"}, f.store.lockOrder)
}

func TestBulkAdjust_ProductoRepetido_EsInvalido(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 10)

	err := f.uc.BulkAdjust(context.Background(), empresaA, usuario, dto.BulkAdjustRequest{
		Lines: []dto.BulkAdjustLine{
			{ProductID: "p1", Delta: 1},
			{ProductID: "p1", Delta: 2},
		},
	})
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

// ──────────────────────────────────────────────────────────────────────────────
// BulkDelete / BulkImport
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkDelete_ValidaPertenenciaAntesDeBorrar(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 0)
	f.seedProduct("ajeno", empresaB, "SKU-X", 0)

	err := f.uc.BulkDelete(context.Background(), empresaA, usuario, dto.BulkDeleteRequest{
		ProductIDs: []string{"p1", "ajeno"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotNil(t, f.store.products["p1"], "ningún producto debe borrarse")
}

func TestBulkDelete_BorraTodos(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 0)
	f.seedProduct("p2", empresaA, "SKU-2", 0)

	require.NoError(t, f.uc.BulkDelete(context.Background(), empresaA, usuario, dto.BulkDeleteRequest{
		ProductIDs: []string{"p1", "p2"},
	}))
	assert.Empty(t, f.store.products)
}

func TestBulkImport_FilaConCantidadInicialGeneraMovimiento(t *testing.T) {
	f := newFixture()

	err := f.uc.BulkImport(context.Background(), empresaA, usuario, dto.ImportProductsRequest{
		Rows: []dto.ImportProductRow{
			{SKU: "SKU-1", Name: "Arroz 1kg", InitialQuantity: 30},
			{SKU: "SKU-2", Name: "Azúcar 1kg", InitialQuantity: 0},
		},
	})
	require.NoError(t, err)

	assert.Len(t, f.store.products, 2)
	require.Len(t, f.store.movements, 1, "solo la fila con cantidad > 0 genera movimiento")
	assert.Equal(t, entity.MovementIn, f.store.movements[0].Type)
	assert.Equal(t, int64(30), f.store.movements[0].Quantity)
	assert.Equal(t, entity.RefImport, f.store.movements[0].ReferenceType)
}

func TestBulkImport_SKUExistente_AbortaLaImportacion(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 5)

	err := f.uc.BulkImport(context.Background(), empresaA, usuario, dto.ImportProductsRequest{
		Rows: []dto.ImportProductRow{
			{SKU: "SKU-NUEVO", Name: "Nuevo"},
			{SKU: "SKU-1", Name: "Duplicado"},
		},
	})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, f.store.products, 1, "ninguna fila debe insertarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateBatch_CantidadInicialSumaAlProducto(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 10)

	batch, err := f.uc.CreateBatch(context.Background(), empresaA, usuario, dto.CreateBatchRequest{
		ProductID: "p1", BatchNumber: "L-001", Quantity: 25,
	})
	require.NoError(t, err)
	require.NotNil(t, batch)

	assert.Equal(t, int64(35), f.store.products["p1"].Quantity,
		"la cantidad inicial del lote entra al agregado del producto")
	require.Len(t, f.store.movements, 1)
	assert.Equal(t, entity.MovementIn, f.store.movements[0].Type)
	assert.Equal(t, entity.RefBatch, f.store.movements[0].ReferenceType)
}

func TestCreateBatch_NumeroDuplicado_EsDuplicate(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 10)
	f.store.batches["b1"] = &entity.Batch{ID: "b1", CompanyID: empresaA, ProductID: "p1", BatchNumber: "L-001"}

	_, err := f.uc.CreateBatch(context.Background(), empresaA, usuario, dto.CreateBatchRequest{
		ProductID: "p1", BatchNumber: "L-001", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// El ajuste de lote mueve el mismo delta en lote Y producto, con guard en ambos.
func TestAdjustBatch_DeltaAplicaEnLoteYProducto(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 50)
	f.store.batches["b1"] = &entity.Batch{ID: "b1", CompanyID: empresaA, ProductID: "p1", BatchNumber: "L-001", Quantity: 20}

	err := f.uc.AdjustBatch(context.Background(), empresaA, usuario, "b1", dto.AdjustBatchRequest{Delta: -8})
	require.NoError(t, err)

	assert.Equal(t, int64(12), f.store.batches["b1"].Quantity)
	assert.Equal(t, int64(42), f.store.products["p1"].Quantity)
	require.Len(t, f.store.movements, 1, "un solo movimiento con referencia al lote")
	require.NotNil(t, f.store.movements[0].BatchID)
	assert.Equal(t, "b1", *f.store.movements[0].BatchID)
}

func TestAdjustBatch_LoteQuedariaNegativo_NoEscribeNada(t *testing.T) {
	f := newFixture()
	f.seedProduct("p1", empresaA, "SKU-1", 50)
	f.store.batches["b1"] = &entity.Batch{ID: "b1", CompanyID: empresaA, ProductID: "p1", BatchNumber: "L-001", Quantity: 5}

	err := f.uc.AdjustBatch(context.Background(), empresaA, usuario, "b1", dto.AdjustBatchRequest{Delta: -6})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(5), f.store.batches["b1"].Quantity)
	assert.Equal(t, int64(50), f.store.products["p1"].Quantity)
	assert.Empty(t, f.store.movements)
}

func TestDeleteBatch_ConExistencias_EsConflict(t *testing.T) {
	f := newFixture()
	f.store.batches["b1"] = &entity.Batch{ID: "b1", CompanyID: empresaA, ProductID: "p1", BatchNumber: "L-001", Quantity: 3}

	err := f.uc.DeleteBatch(context.Background(), empresaA, usuario, "b1")
	require.ErrorIs(t, err, domain.ErrConflict,
		"un lote con unidades debe ajustarse a cero antes de borrarse")
	assert.NotNil(t, f.store.batches["b1"])
}

func TestDeleteBatch_EnCero_SeBorra(t *testing.T) {
	f := newFixture()
	f.store.batches["b1"] = &entity.Batch{ID: "b1", CompanyID: empresaA, ProductID: "p1", BatchNumber: "L-001", Quantity: 0}

	require.NoError(t, f.uc.DeleteBatch(context.Background(), empresaA, usuario, "b1"))
	assert.Empty(t, f.store.batches)
}
