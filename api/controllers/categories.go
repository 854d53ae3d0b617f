package controllers

import (
	"net/http"

	"github.com/angelmondragon/backoffice-api/api/responses"
	"github.com/angelmondragon/backoffice-api/api/validators"
	"github.com/angelmondragon/backoffice-api/internal/categories"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	"github.com/angelmondragon/backoffice-api/pkg/types"
)

type createCategoryRequest struct {
	Name             string  `json:"name" validate:"required,max=255"`
	Description      *string `json:"description"`
	ParentCategoryID *int64  `json:"parent_category_id" validate:"omitempty,gt=0"`
	HeroImage        *string `json:"hero_image" validate:"omitempty,url"`
}

type updateCategoryRequest struct {
	Name             types.Nullable[string] `json:"name"`
	Description      types.Nullable[string] `json:"description"`
	ParentCategoryID types.Nullable[int64]  `json:"parent_category_id"`
	HeroImage        types.Nullable[string] `json:"hero_image"`
}

func CategoryList(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "category")
			return
		}
		params, err := validators.ParsePage(r, categories.Sort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Categories retrieved.", listPayload("categories", page))
	}
}

func CategoryTree(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "category")
			return
		}
		tree, err := svc.Tree(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if tree == nil {
			tree = []*categories.TreeNode{}
		}
		responses.WriteSuccess(w, "Category tree retrieved.", map[string]any{"tree": tree})
	}
}

func CategoryGet(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "category")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Category retrieved.", map[string]any{"category": detail})
	}
}

func CategoryCreate(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "category")
			return
		}
		var body createCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Create(r.Context(), categories.CreateInput{
			Name:             body.Name,
			Description:      body.Description,
			ParentCategoryID: body.ParentCategoryID,
			HeroImage:        body.HeroImage,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, "Category created.", map[string]any{"category": row})
	}
}

func CategoryUpdate(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "category")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Update(r.Context(), id, categories.UpdateInput{
			Name:             body.Name,
			Description:      body.Description,
			ParentCategoryID: body.ParentCategoryID,
			HeroImage:        body.HeroImage,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Category updated.", map[string]any{"category": row})
	}
}

func CategoryDelete(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "category")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Category deleted.", map[string]any{"id": id})
	}
}

func CategoryChildren(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "category")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		children, err := svc.Children(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Category children retrieved.", map[string]any{"categories": children, "total": len(children)})
	}
}

func CategoryLineage(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "category")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineage, err := svc.Lineage(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Category lineage retrieved.", map[string]any{"lineage": lineage})
	}
}

func CategoryClearHeroImage(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeUnavailable(w, r, logg, "category")
			return
		}
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.ClearHeroImage(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Category hero image removed.", map[string]any{"category": row})
	}
}
