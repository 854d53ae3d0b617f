package enums

import "fmt"

// ImageType selects the key prefix and owning column of an uploaded image.
type ImageType string

const (
	ImageTypeAdminAvatar    ImageType = "admin_avatar"
	ImageTypeCustomerAvatar ImageType = "customer_avatar"
	ImageTypeCategoryHero   ImageType = "category_hero"
	ImageTypeProductMedia   ImageType = "product_media"
)

var validImageTypes = []ImageType{
	ImageTypeAdminAvatar,
	ImageTypeCustomerAvatar,
	ImageTypeCategoryHero,
	ImageTypeProductMedia,
}

func (i ImageType) String() string {
	return string(i)
}

func (i ImageType) IsValid() bool {
	for _, candidate := range validImageTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

func ParseImageType(value string) (ImageType, error) {
	for _, candidate := range validImageTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid image type %q", value)
}
