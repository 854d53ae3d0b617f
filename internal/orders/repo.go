package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/backoffice-api/internal/repo"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

type Repository struct {
	db        *gorm.DB
	orders    repo.Store[models.Order]
	items     repo.Store[models.OrderItem]
	customers repo.Store[models.Customer]
	products  repo.Store[models.Product]
	shipments repo.Store[models.Shipment]
	shipped   repo.Store[models.ShipmentItem]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:        db,
		orders:    repo.NewStore[models.Order](db),
		items:     repo.NewStore[models.OrderItem](db),
		customers: repo.NewStore[models.Customer](db),
		products:  repo.NewStore[models.Product](db),
		shipments: repo.NewStore[models.Shipment](db),
		shipped:   repo.NewStore[models.ShipmentItem](db),
	}
}

func itemScope(orderID int64) repo.Scope {
	return repo.Where("order_id = ?", orderID)
}

func (r *Repository) CustomerExists(ctx context.Context, id int64) (bool, error) {
	return r.customers.Exists(ctx, id)
}

func (r *Repository) FindProduct(ctx context.Context, id int64) (*models.Product, error) {
	return r.products.FindByID(ctx, id)
}

func (r *Repository) CountShipments(ctx context.Context, orderID int64) (int64, error) {
	return r.shipments.Count(ctx, itemScope(orderID))
}

// ShippedQuantity sums quantity_shipped for one order line across shipments.
func (r *Repository) ShippedQuantity(ctx context.Context, orderItemID int64) (int, error) {
	var total int
	err := r.shipped.DB(ctx).
		Model(&models.ShipmentItem{}).
		Select("COALESCE(SUM(quantity_shipped), 0)").
		Where("order_item_id = ?", orderItemID).
		Scan(&total).Error
	return total, err
}

func (r *Repository) List(ctx context.Context, params pagination.Params) (pagination.Page[models.Order], error) {
	return r.orders.List(ctx, params)
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	return r.orders.FindByID(ctx, id)
}

func (r *Repository) Create(ctx context.Context, row *models.Order) error {
	return r.orders.Create(ctx, row)
}

func (r *Repository) Update(ctx context.Context, id int64, fields map[string]any) (*models.Order, error) {
	return r.orders.Update(ctx, id, fields)
}

// Delete removes the order and its items.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(itemScope(id)).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return r.orders.WithTx(tx).Delete(ctx, id)
	})
}

func (r *Repository) ListItems(ctx context.Context, orderID int64, params pagination.Params) (pagination.Page[models.OrderItem], error) {
	return r.items.List(ctx, params, itemScope(orderID))
}

func (r *Repository) FindItem(ctx context.Context, orderID, id int64) (*models.OrderItem, error) {
	return r.items.FindByID(ctx, id, itemScope(orderID))
}

// CreateItem inserts the line and recomputes the order total in one
// transaction.
func (r *Repository) CreateItem(ctx context.Context, row *models.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.items.WithTx(tx).Create(ctx, row); err != nil {
			return err
		}
		return recomputeTotal(tx, row.OrderID)
	})
}

func (r *Repository) UpdateItem(ctx context.Context, orderID, id int64, fields map[string]any) (*models.OrderItem, error) {
	var out *models.OrderItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := r.items.WithTx(tx).Update(ctx, id, fields, itemScope(orderID))
		if err != nil {
			return err
		}
		out = row
		return recomputeTotal(tx, orderID)
	})
	return out, err
}

func (r *Repository) DeleteItem(ctx context.Context, orderID, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.items.WithTx(tx).Delete(ctx, id, itemScope(orderID)); err != nil {
			return err
		}
		return recomputeTotal(tx, orderID)
	})
}

// recomputeTotal sets orders.total to the sum of its lines in one UPDATE.
func recomputeTotal(tx *gorm.DB, orderID int64) error {
	return tx.Exec(
		`UPDATE orders
		    SET total = (SELECT ROUND(COALESCE(SUM(quantity * price), 0), 2) FROM order_items WHERE order_id = ?),
		        updated_at = ?
		  WHERE id = ?`,
		orderID, time.Now().UTC(), orderID,
	).Error
}
