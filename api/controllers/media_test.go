package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/backoffice-api/api/middleware"
	"github.com/angelmondragon/backoffice-api/internal/categories"
	"github.com/angelmondragon/backoffice-api/internal/media"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
)

type stubMediaService struct {
	upload  *media.UploadInput
	payload []byte
	deleted *media.DeleteInput
}

func (s *stubMediaService) Upload(_ context.Context, input media.UploadInput) (*media.UploadResult, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	s.upload = &input
	s.payload = data
	return &media.UploadResult{PublicURL: "https://cdn.example.com/" + string(input.ImageType) + "/x.png"}, nil
}

func (s *stubMediaService) Delete(_ context.Context, input media.DeleteInput) error {
	s.deleted = &input
	return nil
}

type heroLinker struct {
	categories.Service
	existing  int64
	linkedID  int64
	linkedURL string
}

func (h *heroLinker) Get(_ context.Context, id int64) (*categories.Detail, error) {
	if id != h.existing {
		return nil, pkgerrors.NotFound("Category")
	}
	return &categories.Detail{ProductCategory: models.ProductCategory{ID: id, Name: "Shoes"}}, nil
}

func (h *heroLinker) SetHeroImage(_ context.Context, id int64, url string) (*models.ProductCategory, error) {
	h.linkedID = id
	h.linkedURL = url
	return &models.ProductCategory{ID: id, HeroImage: &url}, nil
}

func multipartRequest(t *testing.T, ctx context.Context, fields map[string]string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile("avatar", "photo.png")
		if err != nil {
			t.Fatalf("create file: %v", err)
		}
		if _, err := part.Write(file); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/cloudflare-avatar", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req.WithContext(ctx)
}

func TestMediaUploadRoutesOwnerByImageType(t *testing.T) {
	svc := &stubMediaService{}
	linker := &heroLinker{existing: 8}
	req := multipartRequest(t, context.Background(), map[string]string{
		"imageType":    "category_hero",
		"categoryId":   "8",
		"userId":       "99",
		"oldAvatarUrl": "https://cdn.example.com/category_hero/8/old.png",
	}, []byte("fake-bytes"))

	rec, env := serve(t, MediaUpload(svc, ImageOwners{Categories: linker}, 1024, testLogger()), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.upload == nil || svc.upload.ImageType != enums.ImageTypeCategoryHero || svc.upload.OwnerID != 8 {
		t.Fatalf("unexpected upload input: %+v", svc.upload)
	}
	if svc.upload.OldURL == nil || *svc.upload.OldURL != "https://cdn.example.com/category_hero/8/old.png" {
		t.Fatalf("expected old url, got %v", svc.upload.OldURL)
	}
	if string(svc.payload) != "fake-bytes" || svc.upload.Filename != "photo.png" {
		t.Fatalf("unexpected file: %q %q", svc.payload, svc.upload.Filename)
	}
	if linker.linkedID != 8 || linker.linkedURL == "" {
		t.Fatalf("expected hero image link, got %d %q", linker.linkedID, linker.linkedURL)
	}
	var data struct {
		PublicURL string `json:"publicUrl"`
	}
	decodeData(t, env, &data)
	if data.PublicURL != linker.linkedURL {
		t.Fatalf("expected publicUrl %q, got %q", linker.linkedURL, data.PublicURL)
	}
}

func TestMediaUploadRejectsMissingOwnerBeforeStorage(t *testing.T) {
	svc := &stubMediaService{}
	linker := &heroLinker{existing: 8}
	req := multipartRequest(t, context.Background(), map[string]string{
		"imageType":    "category_hero",
		"categoryId":   "404",
		"oldAvatarUrl": "https://cdn.example.com/category_hero/404/old.png",
	}, []byte("fake-bytes"))

	rec, _ := serve(t, MediaUpload(svc, ImageOwners{Categories: linker}, 1024, testLogger()), req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.upload != nil {
		t.Fatalf("storage must not be touched for a missing owner, got %+v", svc.upload)
	}
	if linker.linkedID != 0 {
		t.Fatalf("expected no link, got %d", linker.linkedID)
	}
}

func TestMediaUploadDefaultsToCallerAvatar(t *testing.T) {
	svc := &stubMediaService{}
	ctx := middleware.WithPrincipal(context.Background(), middleware.Principal{ID: 4, Kind: enums.PrincipalKindAdmin})
	rec, _ := serve(t, MediaUpload(svc, ImageOwners{}, 1024, testLogger()), multipartRequest(t, ctx, nil, []byte("img")))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.upload.ImageType != enums.ImageTypeAdminAvatar || svc.upload.OwnerID != 4 {
		t.Fatalf("unexpected upload input: %+v", svc.upload)
	}
}

func TestMediaUploadValidation(t *testing.T) {
	logg := testLogger()
	cases := map[string]*http.Request{
		"missing file":     multipartRequest(t, context.Background(), map[string]string{"userId": "1"}, nil),
		"bad image type":   multipartRequest(t, context.Background(), map[string]string{"imageType": "banner", "userId": "1"}, []byte("img")),
		"missing owner":    multipartRequest(t, context.Background(), map[string]string{"imageType": "product_media"}, []byte("img")),
		"non numeric user": multipartRequest(t, context.Background(), map[string]string{"userId": "me"}, []byte("img")),
		"oversize body":    multipartRequest(t, context.Background(), map[string]string{"userId": "1"}, bytes.Repeat([]byte("a"), 256<<10)),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubMediaService{}
			rec, _ := serve(t, MediaUpload(svc, ImageOwners{}, 1024, logg), req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if svc.upload != nil {
				t.Fatal("service should not be called")
			}
		})
	}
}

func TestMediaDelete(t *testing.T) {
	svc := &stubMediaService{}
	body := `{"imageUrl":"https://cdn.example.com/admin_avatar/1/a.png","imageType":"admin_avatar","entityId":1}`
	rec, _ := serve(t, MediaDelete(svc, testLogger()), newRequest(context.Background(), http.MethodDelete, "/admin/cloudflare-image", body, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.deleted == nil || svc.deleted.ImageType == nil || *svc.deleted.ImageType != enums.ImageTypeAdminAvatar || *svc.deleted.EntityID != 1 {
		t.Fatalf("unexpected delete input: %+v", svc.deleted)
	}

	rec, _ = serve(t, MediaDelete(&stubMediaService{}, testLogger()), newRequest(context.Background(), http.MethodDelete, "/admin/cloudflare-image", `{}`, nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without imageUrl, got %d", rec.Code)
	}
}
