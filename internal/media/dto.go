package media

import (
	"io"

	"github.com/angelmondragon/backoffice-api/pkg/enums"
)

// UploadInput carries one image to store under an owner prefix.
type UploadInput struct {
	Filename  string
	ImageType enums.ImageType
	OwnerID   int64
	OldURL    *string
	Body      io.Reader
}

// UploadResult is returned to clients after a successful upload.
type UploadResult struct {
	PublicURL string `json:"publicUrl"`
}

// DeleteInput removes an object and optionally unlinks it from its owner.
type DeleteInput struct {
	URL       string           `json:"imageUrl" validate:"required,url"`
	ImageType *enums.ImageType `json:"imageType,omitempty"`
	EntityID  *int64           `json:"entityId,omitempty"`
}
