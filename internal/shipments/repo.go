package shipments

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/backoffice-api/internal/repo"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

type Repository struct {
	db         *gorm.DB
	shipments  repo.Store[models.Shipment]
	items      repo.Store[models.ShipmentItem]
	orders     repo.Store[models.Order]
	orderItems repo.Store[models.OrderItem]
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		shipments:  repo.NewStore[models.Shipment](db),
		items:      repo.NewStore[models.ShipmentItem](db),
		orders:     repo.NewStore[models.Order](db),
		orderItems: repo.NewStore[models.OrderItem](db),
	}
}

func itemScope(shipmentID int64) repo.Scope {
	return repo.Where("shipment_id = ?", shipmentID)
}

func (r *Repository) OrderExists(ctx context.Context, id int64) (bool, error) {
	return r.orders.Exists(ctx, id)
}

func (r *Repository) FindOrderItem(ctx context.Context, id int64) (*models.OrderItem, error) {
	return r.orderItems.FindByID(ctx, id)
}

// ShippedQuantity sums quantity_shipped for an order line across all
// shipments, optionally excluding one shipment item.
func (r *Repository) ShippedQuantity(ctx context.Context, orderItemID, excludeItemID int64) (int, error) {
	var total int
	err := r.items.DB(ctx).
		Model(&models.ShipmentItem{}).
		Select("COALESCE(SUM(quantity_shipped), 0)").
		Where("order_item_id = ? AND id <> ?", orderItemID, excludeItemID).
		Scan(&total).Error
	return total, err
}

func (r *Repository) List(ctx context.Context, params pagination.Params, orderID *int64) (pagination.Page[models.Shipment], error) {
	var scopes []repo.Scope
	if orderID != nil {
		scopes = append(scopes, repo.Where("order_id = ?", *orderID))
	}
	return r.shipments.List(ctx, params, scopes...)
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Shipment, error) {
	return r.shipments.FindByID(ctx, id)
}

func (r *Repository) Create(ctx context.Context, row *models.Shipment) error {
	return r.shipments.Create(ctx, row)
}

func (r *Repository) Update(ctx context.Context, id int64, fields map[string]any) (*models.Shipment, error) {
	return r.shipments.Update(ctx, id, fields)
}

// Delete removes the shipment and its items.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(itemScope(id)).Delete(&models.ShipmentItem{}).Error; err != nil {
			return err
		}
		return r.shipments.WithTx(tx).Delete(ctx, id)
	})
}

func (r *Repository) ListItems(ctx context.Context, shipmentID int64, params pagination.Params) (pagination.Page[models.ShipmentItem], error) {
	return r.items.List(ctx, params, itemScope(shipmentID))
}

func (r *Repository) FindItem(ctx context.Context, shipmentID, id int64) (*models.ShipmentItem, error) {
	return r.items.FindByID(ctx, id, itemScope(shipmentID))
}

func (r *Repository) CreateItem(ctx context.Context, row *models.ShipmentItem) error {
	return r.items.Create(ctx, row)
}

func (r *Repository) UpdateItem(ctx context.Context, shipmentID, id int64, fields map[string]any) (*models.ShipmentItem, error) {
	return r.items.Update(ctx, id, fields, itemScope(shipmentID))
}

func (r *Repository) DeleteItem(ctx context.Context, shipmentID, id int64) error {
	return r.items.Delete(ctx, id, itemScope(shipmentID))
}
