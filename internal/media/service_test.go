package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/backoffice-api/internal/testutil"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/storage/gcs"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

const publicBase = "https://cdn.example.com/bucket/"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type fakeBlobs struct {
	uploaded  map[string][]byte
	types     map[string]string
	deleted   []string
	deleteErr error
	uploadErr error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{uploaded: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBlobs) UploadObject(_ context.Context, key, contentType string, body io.Reader) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.uploaded[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeBlobs) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.deleteErr
}

func (f *fakeBlobs) PublicURL(key string) string {
	return publicBase + key
}

func (f *fakeBlobs) KeyFromURL(raw string) (string, bool) {
	if !strings.HasPrefix(raw, publicBase) || len(raw) == len(publicBase) {
		return "", false
	}
	return strings.TrimPrefix(raw, publicBase), true
}

type uploadCounts map[string]int

func (u uploadCounts) IncUpload(imageType, outcome string) {
	u[imageType+":"+outcome]++
}

func newTestService(t *testing.T, conn *gorm.DB, blobs *fakeBlobs, counts uploadCounts) Service {
	t.Helper()
	params := ServiceParams{
		Blobs:          blobs,
		Owners:         NewOwnerRepository(conn),
		MaxUploadBytes: 64,
	}
	if counts != nil {
		params.Metrics = counts
	}
	svc, err := NewService(params)
	require.NoError(t, err)
	return svc
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Owners: &OwnerRepository{}, MaxUploadBytes: 1})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Blobs: newFakeBlobs(), MaxUploadBytes: 1})
	require.Error(t, err)
	_, err = NewService(ServiceParams{Blobs: newFakeBlobs(), Owners: &OwnerRepository{}})
	require.Error(t, err)
}

func TestUploadStoresImageUnderOwnerPrefix(t *testing.T) {
	blobs := newFakeBlobs()
	counts := uploadCounts{}
	svc := newTestService(t, testutil.OpenDB(t), blobs, counts)

	res, err := svc.Upload(context.Background(), UploadInput{
		Filename:  "me.png",
		ImageType: enums.ImageTypeAdminAvatar,
		OwnerID:   7,
		Body:      bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.PublicURL, publicBase+"admin_avatar/7/"))
	assert.True(t, strings.HasSuffix(res.PublicURL, ".png"))

	key := strings.TrimPrefix(res.PublicURL, publicBase)
	assert.Equal(t, pngHeader, blobs.uploaded[key])
	assert.Equal(t, "image/png", blobs.types[key])
	assert.Equal(t, 1, counts["admin_avatar:success"])
}

func TestUploadRejectsOversizeAndNonImages(t *testing.T) {
	blobs := newFakeBlobs()
	counts := uploadCounts{}
	svc := newTestService(t, testutil.OpenDB(t), blobs, counts)
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadInput{
		ImageType: enums.ImageTypeCategoryHero,
		OwnerID:   1,
		Body:      bytes.NewReader(append(append([]byte{}, pngHeader...), make([]byte, 64)...)),
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Upload(ctx, UploadInput{
		ImageType: enums.ImageTypeCategoryHero,
		OwnerID:   1,
		Body:      strings.NewReader("plain text is not an image"),
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Upload(ctx, UploadInput{ImageType: "banner", OwnerID: 1, Body: bytes.NewReader(pngHeader)})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Upload(ctx, UploadInput{ImageType: enums.ImageTypeCategoryHero, Body: bytes.NewReader(pngHeader)})
	requireCode(t, err, pkgerrors.CodeValidation)

	assert.Empty(t, blobs.uploaded)
	assert.Equal(t, 2, counts["category_hero:rejected"])
}

func TestUploadReplacesOldObjectAndSwallowsDeleteFailure(t *testing.T) {
	blobs := newFakeBlobs()
	blobs.deleteErr = errors.New("bucket unavailable")
	svc := newTestService(t, testutil.OpenDB(t), blobs, nil)

	old := publicBase + "customer_avatar/3/old.png"
	foreign := "https://elsewhere.example.com/a.png"

	_, err := svc.Upload(context.Background(), UploadInput{
		ImageType: enums.ImageTypeCustomerAvatar,
		OwnerID:   3,
		OldURL:    &old,
		Body:      bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"customer_avatar/3/old.png"}, blobs.deleted)
	assert.Len(t, blobs.uploaded, 1)

	_, err = svc.Upload(context.Background(), UploadInput{
		ImageType: enums.ImageTypeCustomerAvatar,
		OwnerID:   3,
		OldURL:    &foreign,
		Body:      bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)
	assert.Len(t, blobs.deleted, 1)
}

func TestUploadFailureIsDependencyError(t *testing.T) {
	blobs := newFakeBlobs()
	blobs.uploadErr = errors.New("503")
	counts := uploadCounts{}
	svc := newTestService(t, testutil.OpenDB(t), blobs, counts)

	_, err := svc.Upload(context.Background(), UploadInput{
		ImageType: enums.ImageTypeProductMedia,
		OwnerID:   9,
		Body:      bytes.NewReader(pngHeader),
	})
	requireCode(t, err, pkgerrors.CodeDependency)
	assert.Equal(t, 1, counts["product_media:failed"])
}

func TestDeleteRejectsForeignURL(t *testing.T) {
	blobs := newFakeBlobs()
	svc := newTestService(t, testutil.OpenDB(t), blobs, nil)

	err := svc.Delete(context.Background(), DeleteInput{URL: "https://elsewhere.example.com/a.png"})
	requireCode(t, err, pkgerrors.CodeValidation)
	assert.Empty(t, blobs.deleted)
}

func TestDeleteToleratesMissingObject(t *testing.T) {
	blobs := newFakeBlobs()
	blobs.deleteErr = gcs.ErrObjectNotFound
	svc := newTestService(t, testutil.OpenDB(t), blobs, nil)

	require.NoError(t, svc.Delete(context.Background(), DeleteInput{URL: publicBase + "category_hero/1/x.png"}))

	blobs.deleteErr = errors.New("timeout")
	err := svc.Delete(context.Background(), DeleteInput{URL: publicBase + "category_hero/1/x.png"})
	requireCode(t, err, pkgerrors.CodeDependency)
}

func TestDeleteClearsOwnerColumns(t *testing.T) {
	conn := testutil.OpenDB(t)
	blobs := newFakeBlobs()
	svc := newTestService(t, conn, blobs, nil)
	ctx := context.Background()

	avatar := publicBase + "admin_avatar/1/a.png"
	admin := models.AdminUser{Email: "ops@example.com", PasswordHash: "x", FirstName: "Op", LastName: "Erator", RoleName: "admin", IsActive: true, AvatarURL: &avatar}
	require.NoError(t, conn.Create(&admin).Error)

	hero := publicBase + "category_hero/1/h.png"
	category := models.ProductCategory{Name: "Shoes", HeroImage: &hero}
	require.NoError(t, conn.Create(&category).Error)

	adminType := enums.ImageTypeAdminAvatar
	require.NoError(t, svc.Delete(ctx, DeleteInput{URL: avatar, ImageType: &adminType, EntityID: &admin.ID}))
	var reloadedAdmin models.AdminUser
	require.NoError(t, conn.First(&reloadedAdmin, admin.ID).Error)
	assert.Nil(t, reloadedAdmin.AvatarURL)

	heroType := enums.ImageTypeCategoryHero
	require.NoError(t, svc.Delete(ctx, DeleteInput{URL: hero, ImageType: &heroType, EntityID: &category.ID}))
	var reloadedCategory models.ProductCategory
	require.NoError(t, conn.First(&reloadedCategory, category.ID).Error)
	assert.Nil(t, reloadedCategory.HeroImage)

	missing := int64(404)
	err := svc.Delete(ctx, DeleteInput{URL: hero, ImageType: &heroType, EntityID: &missing})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestDeleteRemovesProductMediaEntry(t *testing.T) {
	conn := testutil.OpenDB(t)
	svc := newTestService(t, conn, newFakeBlobs(), nil)

	first := publicBase + "product_media/1/a.png"
	second := publicBase + "product_media/1/b.png"
	product := models.Product{
		SKU:   "SKU-1",
		Name:  "Runner",
		Price: decimal.RequireFromString("10.00"),
		ProductMedia: types.JSONList[models.ProductMediaItem]{
			{URL: first, Type: "image"},
			{URL: second, Type: "image"},
		},
	}
	require.NoError(t, conn.Create(&product).Error)

	mediaType := enums.ImageTypeProductMedia
	require.NoError(t, svc.Delete(context.Background(), DeleteInput{URL: first, ImageType: &mediaType, EntityID: &product.ID}))

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, product.ID).Error)
	require.Len(t, reloaded.ProductMedia, 1)
	assert.Equal(t, second, reloaded.ProductMedia[0].URL)
}
