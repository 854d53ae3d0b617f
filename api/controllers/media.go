package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/backoffice-api/api/middleware"
	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/api/validators"
	"github.com/angelmondragon/backoffice-api/internal/adminusers"
	"github.com/angelmondragon/backoffice-api/internal/categories"
	"github.com/angelmondragon/backoffice-api/internal/customers"
	"github.com/angelmondragon/backoffice-api/internal/media"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
)

const (
	avatarFormField   = "avatar"
	multipartOverhead = 64 << 10
)

// ImageOwners checks and links the row an uploaded image belongs to.
// Nil services skip both steps for their image type.
type ImageOwners struct {
	Admins     adminusers.Service
	Customers  customers.Service
	Categories categories.Service
}

func (o ImageOwners) link(ctx context.Context, imageType enums.ImageType, ownerID int64, url string) error {
	switch imageType {
	case enums.ImageTypeAdminAvatar:
		if o.Admins != nil {
			_, err := o.Admins.SetAvatar(ctx, ownerID, &url)
			return err
		}
	case enums.ImageTypeCustomerAvatar:
		if o.Customers != nil {
			_, err := o.Customers.SetAvatar(ctx, ownerID, &url)
			return err
		}
	case enums.ImageTypeCategoryHero:
		if o.Categories != nil {
			_, err := o.Categories.SetHeroImage(ctx, ownerID, url)
			return err
		}
	}
	return nil
}

// ensure fails with NOT_FOUND when the owning row is missing, before any
// object is written or replaced.
func (o ImageOwners) ensure(ctx context.Context, imageType enums.ImageType, ownerID int64) error {
	var err error
	switch imageType {
	case enums.ImageTypeAdminAvatar:
		if o.Admins != nil {
			_, err = o.Admins.Get(ctx, ownerID)
		}
	case enums.ImageTypeCustomerAvatar:
		if o.Customers != nil {
			_, err = o.Customers.Get(ctx, ownerID)
		}
	case enums.ImageTypeCategoryHero:
		if o.Categories != nil {
			_, err = o.Categories.Get(ctx, ownerID)
		}
	}
	return err
}

// MediaUpload accepts a multipart image and stores it. The owner id comes
// from userId, categoryId or mediaId depending on imageType; an admin
// avatar without userId belongs to the caller.
func MediaUpload(svc media.Service, owners ImageOwners, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "media")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(maxBytes + multipartOverhead); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid multipart upload.").
				WithDetails(map[string]any{"field": avatarFormField, "max_bytes": maxBytes}))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, header, err := r.FormFile(avatarFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "File is required.").
				WithDetails(map[string]any{"field": avatarFormField}))
			return
		}
		defer file.Close()

		imageType, ownerID, err := uploadOwner(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := owners.ensure(r.Context(), imageType, ownerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := media.UploadInput{
			Filename:  header.Filename,
			ImageType: imageType,
			OwnerID:   ownerID,
			Body:      file,
		}
		if old := strings.TrimSpace(r.FormValue("oldAvatarUrl")); old != "" {
			input.OldURL = &old
		}

		result, err := svc.Upload(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := owners.link(r.Context(), imageType, ownerID, result.PublicURL); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Image uploaded.", result)
	}
}

func MediaDelete(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "media")
			return
		}
		var body media.DeleteInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Image deleted.", map[string]any{"imageUrl": body.URL})
	}
}

func uploadOwner(r *http.Request) (enums.ImageType, int64, error) {
	imageType := enums.ImageTypeAdminAvatar
	if raw := strings.TrimSpace(r.FormValue("imageType")); raw != "" {
		parsed, err := enums.ParseImageType(raw)
		if err != nil {
			return "", 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid image type.").
				WithDetails(map[string]any{"field": "imageType"})
		}
		imageType = parsed
	}

	field := "userId"
	switch imageType {
	case enums.ImageTypeCategoryHero:
		field = "categoryId"
	case enums.ImageTypeProductMedia:
		field = "mediaId"
	}

	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		if imageType == enums.ImageTypeAdminAvatar {
			if principal, ok := middleware.PrincipalFromContext(r.Context()); ok && principal.IsAdmin() {
				return imageType, principal.ID, nil
			}
		}
		return "", 0, pkgerrors.New(pkgerrors.CodeValidation, field+" is required.").
			WithDetails(map[string]any{"field": field})
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a positive integer.").
			WithDetails(map[string]any{"field": field})
	}
	return imageType, id, nil
}
