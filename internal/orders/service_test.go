package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/backoffice-api/internal/testutil"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newFixture(t *testing.T) (*gorm.DB, Service) {
	t.Helper()
	conn := testutil.OpenDB(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return conn, svc
}

func seedProduct(t *testing.T, conn *gorm.DB, sku, price string) *models.Product {
	t.Helper()
	row := &models.Product{SKU: sku, Name: sku, Price: dec(price)}
	require.NoError(t, conn.Create(row).Error)
	return row
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestCreateOrderDefaults(t *testing.T) {
	_, svc := newFixture(t)
	ctx := context.Background()

	order, err := svc.Create(ctx, CreateInput{})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, order.Total.IsZero())

	_, err = svc.Create(ctx, CreateInput{Status: "lost"})
	requireCode(t, err, pkgerrors.CodeValidation)

	missing := int64(42)
	_, err = svc.Create(ctx, CreateInput{CustomerID: &missing})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestItemMutationsRecomputeTotal(t *testing.T) {
	conn, svc := newFixture(t)
	ctx := context.Background()
	tee := seedProduct(t, conn, "TEE", "10.00")
	mug := seedProduct(t, conn, "MUG", "4.50")

	order, err := svc.Create(ctx, CreateInput{})
	require.NoError(t, err)

	first, err := svc.CreateItem(ctx, order.ID, ItemInput{ProductID: tee.ID, Quantity: 2})
	require.NoError(t, err)
	assert.True(t, first.Price.Equal(dec("10")))

	custom := dec("3.25")
	second, err := svc.CreateItem(ctx, order.ID, ItemInput{ProductID: mug.ID, Quantity: 4, Price: &custom})
	require.NoError(t, err)

	reloaded, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Total.Equal(dec("33")), "total %s", reloaded.Total)

	_, err = svc.UpdateItem(ctx, order.ID, first.ID, ItemUpdate{Quantity: types.Some(1)})
	require.NoError(t, err)
	reloaded, err = svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Total.Equal(dec("23")), "total %s", reloaded.Total)

	require.NoError(t, svc.DeleteItem(ctx, order.ID, second.ID))
	reloaded, err = svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Total.Equal(dec("10")), "total %s", reloaded.Total)

	require.NoError(t, svc.DeleteItem(ctx, order.ID, first.ID))
	reloaded, err = svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Total.IsZero())
}

func TestItemsAreScopedToOrder(t *testing.T) {
	conn, svc := newFixture(t)
	ctx := context.Background()
	tee := seedProduct(t, conn, "TEE", "10.00")

	a, err := svc.Create(ctx, CreateInput{})
	require.NoError(t, err)
	b, err := svc.Create(ctx, CreateInput{})
	require.NoError(t, err)

	item, err := svc.CreateItem(ctx, a.ID, ItemInput{ProductID: tee.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.GetItem(ctx, b.ID, item.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
	_, err = svc.UpdateItem(ctx, b.ID, item.ID, ItemUpdate{Quantity: types.Some(3)})
	requireCode(t, err, pkgerrors.CodeNotFound)
	requireCode(t, svc.DeleteItem(ctx, b.ID, item.ID), pkgerrors.CodeNotFound)

	page, err := svc.ListItems(ctx, a.ID, pagination.Params{Page: 1, Limit: 10, OrderBy: "id"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	_, err = svc.ListItems(ctx, 999, pagination.Params{Page: 1, Limit: 10, OrderBy: "id"})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestItemQuantityCannotDropBelowShipped(t *testing.T) {
	conn, svc := newFixture(t)
	ctx := context.Background()
	tee := seedProduct(t, conn, "TEE", "10.00")

	order, err := svc.Create(ctx, CreateInput{})
	require.NoError(t, err)
	line, err := svc.CreateItem(ctx, order.ID, ItemInput{ProductID: tee.ID, Quantity: 5})
	require.NoError(t, err)

	shipment := &models.Shipment{OrderID: order.ID, Carrier: "ups", Status: enums.ShipmentStatusShipped}
	require.NoError(t, conn.Create(shipment).Error)
	require.NoError(t, conn.Create(&models.ShipmentItem{ShipmentID: shipment.ID, OrderItemID: line.ID, QuantityShipped: 3}).Error)
	require.NoError(t, conn.Create(&models.ShipmentItem{ShipmentID: shipment.ID, OrderItemID: line.ID, QuantityShipped: 2}).Error)

	_, err = svc.UpdateItem(ctx, order.ID, line.ID, ItemUpdate{Quantity: types.Some(1)})
	requireCode(t, err, pkgerrors.CodeValidation)

	reloaded, err := svc.GetItem(ctx, order.ID, line.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Quantity)

	updated, err := svc.UpdateItem(ctx, order.ID, line.ID, ItemUpdate{Quantity: types.Some(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	_, err = svc.UpdateItem(ctx, order.ID, line.ID, ItemUpdate{Quantity: types.Some(5)})
	require.NoError(t, err)
}

func TestItemValidation(t *testing.T) {
	conn, svc := newFixture(t)
	ctx := context.Background()
	tee := seedProduct(t, conn, "TEE", "10.00")
	order, err := svc.Create(ctx, CreateInput{})
	require.NoError(t, err)

	_, err = svc.CreateItem(ctx, order.ID, ItemInput{ProductID: tee.ID, Quantity: 0})
	requireCode(t, err, pkgerrors.CodeValidation)
	_, err = svc.CreateItem(ctx, order.ID, ItemInput{ProductID: 999, Quantity: 1})
	requireCode(t, err, pkgerrors.CodeValidation)
	negative := dec("-1")
	_, err = svc.CreateItem(ctx, order.ID, ItemInput{ProductID: tee.ID, Quantity: 1, Price: &negative})
	requireCode(t, err, pkgerrors.CodeValidation)
	_, err = svc.CreateItem(ctx, 999, ItemInput{ProductID: tee.ID, Quantity: 1})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateAndDeleteOrder(t *testing.T) {
	conn, svc := newFixture(t)
	ctx := context.Background()
	tee := seedProduct(t, conn, "TEE", "10.00")

	order, err := svc.Create(ctx, CreateInput{Notes: &[]string{" gift wrap "}[0]})
	require.NoError(t, err)
	require.NotNil(t, order.Notes)
	assert.Equal(t, "gift wrap", *order.Notes)

	updated, err := svc.Update(ctx, order.ID, UpdateInput{Status: types.Some("PAID"), Notes: types.Null[string]()})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, updated.Status)
	assert.Nil(t, updated.Notes)

	_, err = svc.CreateItem(ctx, order.ID, ItemInput{ProductID: tee.ID, Quantity: 1})
	require.NoError(t, err)

	shipment := &models.Shipment{OrderID: order.ID, Carrier: "UPS", Status: enums.ShipmentStatusPending}
	require.NoError(t, conn.Create(shipment).Error)
	requireCode(t, svc.Delete(ctx, order.ID), pkgerrors.CodeConflict)

	require.NoError(t, conn.Delete(shipment).Error)
	require.NoError(t, svc.Delete(ctx, order.ID))
	var items int64
	require.NoError(t, conn.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&items).Error)
	assert.Zero(t, items)
	requireCode(t, svc.Delete(ctx, order.ID), pkgerrors.CodeNotFound)
}

func TestEffectivePrice(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)
	p := &models.Product{Price: dec("10"), SalePrice: decimal.NewNullDecimal(dec("7"))}

	assert.True(t, EffectivePrice(p, now).Equal(dec("7")))

	p.SaleStart = &after
	assert.True(t, EffectivePrice(p, now).Equal(dec("10")))

	p.SaleStart = &before
	p.SaleEnd = &now
	assert.True(t, EffectivePrice(p, now).Equal(dec("10")))

	p.SaleEnd = &after
	assert.True(t, EffectivePrice(p, now).Equal(dec("7")))

	p.SalePrice = decimal.NullDecimal{}
	assert.True(t, EffectivePrice(p, now).Equal(dec("10")))
}
