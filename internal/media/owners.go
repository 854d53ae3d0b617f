package media

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

type ownerColumn struct {
	table  string
	column string
}

var ownerColumns = map[enums.ImageType]ownerColumn{
	enums.ImageTypeAdminAvatar:    {table: "admin_users", column: "avatar_url"},
	enums.ImageTypeCustomerAvatar: {table: "customers", column: "avatar_url"},
	enums.ImageTypeCategoryHero:   {table: "product_categories", column: "hero_image"},
}

// OwnerRepository unlinks deleted images from the rows that reference them.
type OwnerRepository struct {
	db *gorm.DB
}

func NewOwnerRepository(db *gorm.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

// ClearImage nulls the owning column, or for product media drops the
// matching entry from the product's media list. A missing owner returns
// gorm.ErrRecordNotFound.
func (r *OwnerRepository) ClearImage(ctx context.Context, imageType enums.ImageType, ownerID int64, url string) error {
	if imageType == enums.ImageTypeProductMedia {
		return r.removeProductMedia(ctx, ownerID, url)
	}
	target, ok := ownerColumns[imageType]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).
		Table(target.table).
		Where("id = ?", ownerID).
		Updates(map[string]any{target.column: nil, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *OwnerRepository) removeProductMedia(ctx context.Context, productID int64, url string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("id = ?", productID).First(&product).Error; err != nil {
			return err
		}
		kept := make(types.JSONList[models.ProductMediaItem], 0, len(product.ProductMedia))
		for _, item := range product.ProductMedia {
			if item.URL != url {
				kept = append(kept, item)
			}
		}
		if len(kept) == len(product.ProductMedia) {
			return nil
		}
		return tx.Model(&models.Product{}).
			Where("id = ?", productID).
			Updates(map[string]any{"product_media": kept, "updated_at": time.Now().UTC()}).Error
	})
}
