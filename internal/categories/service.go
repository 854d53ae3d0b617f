package categories

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/db/models"
	pkgerrors "github.com/angelmondragon/backoffice-api/pkg/errors"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/pagination"
)

var urlValidator = validator.New()

const (
	resourceName  = "Category"
	maxNameLength = 255
)

// Service exposes category tree management.
type Service interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[models.ProductCategory], error)
	Get(ctx context.Context, id int64) (*Detail, error)
	Create(ctx context.Context, input CreateInput) (*models.ProductCategory, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*models.ProductCategory, error)
	Delete(ctx context.Context, id int64) error
	Children(ctx context.Context, id int64) ([]models.ProductCategory, error)
	Lineage(ctx context.Context, id int64) ([]models.ProductCategory, error)
	Tree(ctx context.Context) ([]*TreeNode, error)
	SetHeroImage(ctx context.Context, id int64, url string) (*models.ProductCategory, error)
	ClearHeroImage(ctx context.Context, id int64) (*models.ProductCategory, error)
}

// BlobStore removes objects referenced by public URLs.
type BlobStore interface {
	KeyFromURL(raw string) (string, bool)
	DeleteObject(ctx context.Context, key string) error
}

type repository interface {
	List(ctx context.Context, params pagination.Params) (pagination.Page[models.ProductCategory], error)
	All(ctx context.Context) ([]models.ProductCategory, error)
	FindByID(ctx context.Context, id int64) (*models.ProductCategory, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, row *models.ProductCategory) error
	Update(ctx context.Context, id int64, fields map[string]any) (*models.ProductCategory, error)
	Delete(ctx context.Context, id int64) error
	Children(ctx context.Context, id int64) ([]models.ProductCategory, error)
	CountChildren(ctx context.Context, id int64) (int64, error)
}

type service struct {
	repo  repository
	blobs BlobStore
	logg  *logger.Logger
}

// NewService builds the category service. blobs may be nil when object
// storage is not configured; hero images are then only unlinked.
func NewService(repo repository, blobs BlobStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, blobs: blobs, logg: logg}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (pagination.Page[models.ProductCategory], error) {
	page, err := s.repo.List(ctx, params)
	if err != nil {
		return page, db.Classify(err, resourceName, "list categories")
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Detail, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, resourceName, "load category")
	}
	lineage, err := s.lineage(ctx, *row)
	if err != nil {
		return nil, err
	}
	return &Detail{ProductCategory: *row, Lineage: Breadcrumb(lineage)}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.ProductCategory, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}
	if input.ParentCategoryID != nil {
		if err := s.ensureParentExists(ctx, *input.ParentCategoryID); err != nil {
			return nil, err
		}
	}

	hero, err := heroImageURL(input.HeroImage)
	if err != nil {
		return nil, err
	}

	row := &models.ProductCategory{
		Name:             name,
		Description:      trimOptional(input.Description),
		ParentCategoryID: input.ParentCategoryID,
		HeroImage:        hero,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, db.Classify(err, resourceName, "create category")
	}
	return row, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*models.ProductCategory, error) {
	fields := map[string]any{}

	if input.Name.Valid {
		if input.Name.Value == nil {
			return nil, validationError("name", "name cannot be null")
		}
		name, err := normalizeName(*input.Name.Value)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if input.Description.Valid {
		fields["description"] = columnOrNil(trimOptional(input.Description.Value))
	}
	if input.HeroImage.Valid {
		hero, err := heroImageURL(input.HeroImage.Value)
		if err != nil {
			return nil, err
		}
		fields["hero_image"] = columnOrNil(hero)
	}
	if input.ParentCategoryID.Valid {
		if parentID := input.ParentCategoryID.Value; parentID != nil {
			if err := s.ensureAcyclic(ctx, id, *parentID); err != nil {
				return nil, err
			}
		}
		fields["parent_category_id"] = input.ParentCategoryID.Column()
	}

	row, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, db.Classify(err, resourceName, "update category")
	}
	return row, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return db.Classify(err, resourceName, "count child categories")
	}
	if children > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "Category has child categories and cannot be deleted.").
			WithDetails(map[string]any{"children": children})
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return db.Classify(err, resourceName, "delete category")
	}
	return nil
}

func (s *service) Children(ctx context.Context, id int64) ([]models.ProductCategory, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.Children(ctx, id)
	if err != nil {
		return nil, db.Classify(err, resourceName, "list child categories")
	}
	return rows, nil
}

// Lineage walks the parent chain one row at a time.
func (s *service) Lineage(ctx context.Context, id int64) ([]models.ProductCategory, error) {
	start, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, resourceName, "load category")
	}
	return s.lineage(ctx, *start)
}

// lineage fetches one parent per hop, never taking more hops than there
// are categories.
func (s *service) lineage(ctx context.Context, start models.ProductCategory) ([]models.ProductCategory, error) {
	if start.ParentCategoryID == nil {
		return []models.ProductCategory{}, nil
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, db.Classify(err, resourceName, "count categories")
	}
	fetch := func(parentID int64) (*models.ProductCategory, error) {
		row, err := s.repo.FindByID(ctx, parentID)
		if db.IsNotFound(err) {
			return nil, nil
		}
		if err != nil {
			return nil, db.Classify(err, resourceName, "load parent category")
		}
		return row, nil
	}
	return Lineage(start, nil, fetch, int(total))
}

func (s *service) Tree(ctx context.Context) ([]*TreeNode, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, db.Classify(err, resourceName, "load categories")
	}
	return BuildTree(all), nil
}

func (s *service) SetHeroImage(ctx context.Context, id int64, url string) (*models.ProductCategory, error) {
	hero, err := heroImageURL(&url)
	if err != nil {
		return nil, err
	}
	if hero == nil {
		return nil, validationError("hero_image", "hero_image is required")
	}
	row, err := s.repo.Update(ctx, id, map[string]any{"hero_image": *hero})
	if err != nil {
		return nil, db.Classify(err, resourceName, "set hero image")
	}
	return row, nil
}

// ClearHeroImage unlinks the hero image and then removes the blob. Blob
// removal failures leave an orphaned object and are only logged.
func (s *service) ClearHeroImage(ctx context.Context, id int64) (*models.ProductCategory, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.Classify(err, resourceName, "load category")
	}
	if current.HeroImage == nil {
		return current, nil
	}
	previous := *current.HeroImage

	row, err := s.repo.Update(ctx, id, map[string]any{"hero_image": nil})
	if err != nil {
		return nil, db.Classify(err, resourceName, "clear hero image")
	}
	s.deleteBlob(ctx, id, previous)
	return row, nil
}

func (s *service) deleteBlob(ctx context.Context, id int64, url string) {
	if s.blobs == nil {
		return
	}
	key, ok := s.blobs.KeyFromURL(url)
	if !ok {
		return
	}
	if err := s.blobs.DeleteObject(ctx, key); err != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{"category_id": id, "object_key": key, "error": err.Error()})
		s.logg.Warn(logCtx, "category.hero_image.delete_failed")
	}
}

func (s *service) ensureExists(ctx context.Context, id int64) error {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		return db.Classify(err, resourceName, "check category")
	}
	if !ok {
		return pkgerrors.NotFound(resourceName)
	}
	return nil
}

func (s *service) ensureParentExists(ctx context.Context, parentID int64) error {
	ok, err := s.repo.Exists(ctx, parentID)
	if err != nil {
		return db.Classify(err, resourceName, "check parent category")
	}
	if !ok {
		return validationError("parent_category_id", "parent category does not exist")
	}
	return nil
}

// ensureAcyclic rejects a parent that is id itself or one of its descendants.
func (s *service) ensureAcyclic(ctx context.Context, id, parentID int64) error {
	all, err := s.repo.All(ctx)
	if err != nil {
		return db.Classify(err, resourceName, "load categories")
	}
	byID := IndexByID(all)
	if _, ok := byID[id]; !ok {
		return pkgerrors.NotFound(resourceName)
	}
	if _, ok := byID[parentID]; !ok {
		return validationError("parent_category_id", "parent category does not exist")
	}
	if CreatesCycle(id, parentID, byID) {
		return validationError("parent_category_id", "parent_category_id would create a cycle")
	}
	return nil
}

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", validationError("name", "name is required")
	}
	if len(name) > maxNameLength {
		return "", validationError("name", fmt.Sprintf("name must be at most %d characters", maxNameLength))
	}
	return name, nil
}

// heroImageURL trims v and requires an absolute URL; blank means none.
func heroImageURL(v *string) (*string, error) {
	hero := trimOptional(v)
	if hero == nil {
		return nil, nil
	}
	if err := urlValidator.Var(*hero, "url"); err != nil {
		return nil, validationError("hero_image", "hero_image must be a valid URL")
	}
	return hero, nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func columnOrNil(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func validationError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}

