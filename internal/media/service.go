package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/storage/gcs"
)

const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Service proxies image uploads and deletes to object storage.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*UploadResult, error)
	Delete(ctx context.Context, input DeleteInput) error
}

// BlobStore is the subset of the object store client used here.
type BlobStore interface {
	UploadObject(ctx context.Context, key, contentType string, body io.Reader) error
	DeleteObject(ctx context.Context, key string) error
	PublicURL(key string) string
	KeyFromURL(raw string) (string, bool)
}

// UploadCounter records upload outcomes per image type.
type UploadCounter interface {
	IncUpload(imageType, outcome string)
}

type ownerRepository interface {
	ClearImage(ctx context.Context, imageType enums.ImageType, ownerID int64, url string) error
}

type ServiceParams struct {
	Blobs          BlobStore
	Owners         ownerRepository
	Metrics        UploadCounter
	MaxUploadBytes int64
	Logger         *logger.Logger
}

type service struct {
	blobs    BlobStore
	owners   ownerRepository
	metrics  UploadCounter
	maxBytes int64
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if params.Owners == nil {
		return nil, fmt.Errorf("owner repository required")
	}
	if params.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max upload bytes must be positive")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		blobs:    params.Blobs,
		owners:   params.Owners,
		metrics:  params.Metrics,
		maxBytes: params.MaxUploadBytes,
		logg:     logg,
	}, nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	if !input.ImageType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid image type").
			WithDetails(map[string]any{"field": "imageType"})
	}
	if input.OwnerID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required").
			WithDetails(map[string]any{"field": "ownerId"})
	}
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required").
			WithDetails(map[string]any{"field": "file"})
	}

	data, err := io.ReadAll(io.LimitReader(input.Body, s.maxBytes+1))
	if err != nil {
		s.count(input.ImageType, outcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload")
	}
	if len(data) == 0 {
		s.count(input.ImageType, outcomeRejected)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty").
			WithDetails(map[string]any{"field": "file"})
	}
	if int64(len(data)) > s.maxBytes {
		s.count(input.ImageType, outcomeRejected)
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "file exceeds %d bytes", s.maxBytes).
			WithDetails(map[string]any{"field": "file", "max_bytes": s.maxBytes})
	}

	contentType, ext, ok := sniffImage(data)
	if !ok {
		s.count(input.ImageType, outcomeRejected)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported image type").
			WithDetails(map[string]any{"field": "file", "detected": contentType, "allowed": acceptedImageTypes()})
	}

	if input.OldURL != nil {
		s.deleteOld(ctx, input.ImageType, strings.TrimSpace(*input.OldURL))
	}

	key := objectKey(input.ImageType, input.OwnerID, ext)
	if err := s.blobs.UploadObject(ctx, key, contentType, bytes.NewReader(data)); err != nil {
		s.count(input.ImageType, outcomeFailed)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
	}
	s.count(input.ImageType, outcomeSuccess)

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"image_type": string(input.ImageType),
		"owner_id":   input.OwnerID,
		"key":        key,
		"bytes":      len(data),
		"filename":   input.Filename,
	}), "media.uploaded")

	return &UploadResult{PublicURL: s.blobs.PublicURL(key)}, nil
}

func (s *service) Delete(ctx context.Context, input DeleteInput) error {
	url := strings.TrimSpace(input.URL)
	if url == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "image url is required").
			WithDetails(map[string]any{"field": "imageUrl"})
	}
	key, ok := s.blobs.KeyFromURL(url)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "image url does not belong to this bucket").
			WithDetails(map[string]any{"field": "imageUrl"})
	}
	if input.ImageType != nil && !input.ImageType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid image type").
			WithDetails(map[string]any{"field": "imageType"})
	}

	if err := s.blobs.DeleteObject(ctx, key); err != nil && !errors.Is(err, gcs.ErrObjectNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete image")
	}

	if input.ImageType == nil || input.EntityID == nil {
		return nil
	}
	if err := s.owners.ClearImage(ctx, *input.ImageType, *input.EntityID, url); err != nil {
		return db.Classify(err, ownerResource(*input.ImageType), "clear image")
	}
	return nil
}

func (s *service) deleteOld(ctx context.Context, imageType enums.ImageType, url string) {
	if url == "" {
		return
	}
	key, ok := s.blobs.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.blobs.DeleteObject(ctx, key); err != nil && !errors.Is(err, gcs.ErrObjectNotFound) {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"image_type": string(imageType),
			"key":        key,
			"error":      err.Error(),
		}), "media.old_object_delete_failed")
	}
}

func (s *service) count(imageType enums.ImageType, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncUpload(string(imageType), outcome)
}

func objectKey(imageType enums.ImageType, ownerID int64, ext string) string {
	return string(imageType) + "/" + strconv.FormatInt(ownerID, 10) + "/" + uuid.NewString() + ext
}

func ownerResource(imageType enums.ImageType) string {
	switch imageType {
	case enums.ImageTypeAdminAvatar:
		return "AdminUser"
	case enums.ImageTypeCustomerAvatar:
		return "Customer"
	case enums.ImageTypeCategoryHero:
		return "Category"
	default:
		return "Product"
	}
}
