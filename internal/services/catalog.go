package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/metrics"
	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/slug"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/microcosm-cc/bluemonday"
)

type CatalogService struct {
	pool      *db.DualPool
	blocklist atomic.Pointer[validator.Blocklist]
	sanitizer *bluemonday.Policy
}

func NewCatalogService(pool *db.DualPool, blocklist validator.Blocklist) *CatalogService {
	s := &CatalogService{
		pool:      pool,
		sanitizer: bluemonday.UGCPolicy(),
	}
	s.SetBlocklist(blocklist)
	return s
}

// SetBlocklist troca a lista de termos proibidos; usado quando o arquivo de
// políticas é recarregado.
func (s *CatalogService) SetBlocklist(b validator.Blocklist) {
	s.blocklist.Store(&b)
}

// ProductDetail é o produto com suas versões e o que o sujeito pode fazer com ele.
type ProductDetail struct {
	Product     db.ProductRow
	Versions    []db.Version
	CanEdit     bool
	CanModerate bool
	CanToggle   bool
}

func (s *CatalogService) Categories(ctx context.Context) ([]db.Category, error) {
	return s.pool.Queries().ListCategories(ctx)
}

func (s *CatalogService) List(ctx context.Context, subj policies.Subject, page int) (db.PagedResult[db.ProductRow], error) {
	vis := visibility(policies.VisibleSet(subj, policies.KindProduct))
	paging := db.PagingParams{Page: page, PerPage: defaultPerPage}

	q := s.pool.Queries()
	items, err := q.ListProducts(ctx, db.ListProductsParams{
		Visibility: vis,
		Limit:      paging.Limit(),
		Offset:     paging.Offset(),
	})
	if err != nil {
		return db.PagedResult[db.ProductRow]{}, fmt.Errorf("failed to list products: %w", err)
	}
	total, err := q.CountProducts(ctx, vis)
	if err != nil {
		return db.PagedResult[db.ProductRow]{}, fmt.Errorf("failed to count products: %w", err)
	}

	return db.PagedResult[db.ProductRow]{
		Items:       items,
		TotalItems:  int(total),
		CurrentPage: max(page, 1),
		PerPage:     defaultPerPage,
	}, nil
}

// ListMine lista os produtos do próprio sujeito, publicados ou não.
func (s *CatalogService) ListMine(ctx context.Context, subj policies.Subject) ([]db.ProductRow, error) {
	if !subj.Authenticated {
		return nil, policies.ErrForbidden
	}
	return s.pool.Queries().ListProductsByOwner(ctx, subj.UserID)
}

// Get carrega o detalhe sem filtro de visibilidade.
func (s *CatalogService) Get(ctx context.Context, subj policies.Subject, id int64) (ProductDetail, error) {
	row, err := s.pool.Queries().GetProduct(ctx, id)
	if err != nil {
		return ProductDetail{}, notFound(err)
	}
	entity := productEntity(row.Product)

	versions, err := s.pool.Queries().ListVersions(ctx, id)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("failed to list versions: %w", err)
	}

	_, toggleErr := policies.TogglePublished(subj, entity)
	return ProductDetail{
		Product:     row,
		Versions:    versions,
		CanEdit:     policies.CanMutate(subj, entity, policies.ActionEdit) == nil,
		CanModerate: policies.CanModerate(subj),
		CanToggle:   toggleErr == nil,
	}, nil
}

// Editable carrega o produto para o formulário do dono, já com as versões.
func (s *CatalogService) Editable(ctx context.Context, subj policies.Subject, id int64, action policies.Action) (ProductDetail, error) {
	p, err := s.load(ctx, subj, id, action)
	if err != nil {
		return ProductDetail{}, err
	}
	versions, err := s.pool.Queries().ListVersions(ctx, id)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("failed to list versions: %w", err)
	}
	return ProductDetail{Product: db.ProductRow{Product: p}, Versions: versions, CanEdit: true}, nil
}

// ForModeration carrega o produto para o formulário restrito, publicado ou não.
func (s *CatalogService) ForModeration(ctx context.Context, subj policies.Subject, id int64) (db.Product, error) {
	if !policies.CanModerate(subj) {
		return db.Product{}, policies.ErrForbidden
	}
	row, err := s.pool.Queries().GetProduct(ctx, id)
	if err != nil {
		return db.Product{}, notFound(err)
	}
	return row.Product, nil
}

// load busca o produto e aplica CanMutate para a ação.
func (s *CatalogService) load(ctx context.Context, subj policies.Subject, id int64, action policies.Action) (db.Product, error) {
	row, err := s.pool.Queries().GetProduct(ctx, id)
	if err != nil {
		return db.Product{}, notFound(err)
	}
	err = policies.CanMutate(subj, productEntity(row.Product), action)
	metrics.Decision(policies.KindProduct.String(), string(action), err)
	if err != nil {
		logging.AddToEvent(ctx, slog.String("policy_denied", string(action)), slog.Int64("product_id", id))
		return db.Product{}, err
	}
	return row.Product, nil
}

func (s *CatalogService) checkProductForm(form validator.ProductForm) (int64, *validator.FormError) {
	fe := validator.Check(form)
	price, err := validator.ParsePrice(form.Price)
	if err != nil {
		if fe == nil {
			fe = &validator.FormError{}
		}
		fe.Add("price", err.Error())
	}
	fe = s.blocklist.Load().Apply(fe, form.Name, form.Description)
	return price, fe
}

// Create grava um produto do sujeito autenticado, que passa a ser o dono.
func (s *CatalogService) Create(ctx context.Context, subj policies.Subject, form validator.ProductForm, imageURL string) (db.Product, error) {
	if !subj.Authenticated {
		return db.Product{}, policies.ErrForbidden
	}
	price, fe := s.checkProductForm(form)
	if fe != nil {
		return db.Product{}, fe
	}

	p, err := s.pool.QueriesWrite().CreateProduct(ctx, db.CreateProductParams{
		Name:        form.Name,
		Slug:        slug.Make(form.Name),
		Description: s.sanitizer.Sanitize(form.Description),
		ImageUrl:    nullString(imageURL),
		CategoryID:  form.CategoryID,
		PriceCents:  price,
		IsPublished: form.IsPublished,
		OwnerID:     owner(subj),
	})
	if err != nil {
		return db.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	logging.AddToEvent(ctx, slog.Int64("product_id", p.ID))
	return p, nil
}

// Update é o caminho do dono: todos os campos e as versões enviadas no mesmo formulário.
func (s *CatalogService) Update(ctx context.Context, subj policies.Subject, id int64, form validator.ProductForm, imageURL string, versions []validator.VersionForm) error {
	current, err := s.load(ctx, subj, id, policies.ActionEdit)
	if err != nil {
		return err
	}

	price, fe := s.checkProductForm(form)
	for i, v := range versions {
		if vfe := validator.Check(v); vfe != nil {
			if fe == nil {
				fe = &validator.FormError{}
			}
			for field, msg := range vfe.Fields {
				fe.Add(fmt.Sprintf("versions.%d.%s", i, field), msg)
			}
		}
	}
	if fe != nil {
		return fe
	}

	productSlug := current.Slug
	if form.Name != current.Name {
		productSlug = slug.Make(form.Name)
	}
	image := current.ImageUrl
	if imageURL != "" {
		image = nullString(imageURL)
	}

	return s.pool.WithTx(ctx, func(q *db.Queries) error {
		if err := q.UpdateProduct(ctx, db.UpdateProductParams{
			Name:        form.Name,
			Slug:        productSlug,
			Description: s.sanitizer.Sanitize(form.Description),
			ImageUrl:    image,
			CategoryID:  form.CategoryID,
			PriceCents:  price,
			IsPublished: form.IsPublished,
			ID:          id,
		}); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		for _, v := range versions {
			if _, err := saveVersion(ctx, q, id, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Moderate é o caminho restrito: só descrição, categoria e publicação.
func (s *CatalogService) Moderate(ctx context.Context, subj policies.Subject, id int64, form validator.ModerationForm) error {
	allowed := policies.CanModerate(subj)
	metrics.Decision(policies.KindProduct.String(), "moderate", boolErr(allowed))
	if !allowed {
		return policies.ErrForbidden
	}
	if _, err := s.pool.Queries().GetProduct(ctx, id); err != nil {
		return notFound(err)
	}

	fe := validator.Check(form)
	fe = s.blocklist.Load().Apply(fe, "", form.Description)
	if fe != nil {
		return fe
	}

	if err := s.pool.QueriesWrite().ModerateProduct(ctx, db.ModerateProductParams{
		Description: s.sanitizer.Sanitize(form.Description),
		CategoryID:  form.CategoryID,
		IsPublished: form.IsPublished,
		ID:          id,
	}); err != nil {
		return fmt.Errorf("failed to moderate product: %w", err)
	}
	logging.AddToEvent(ctx, slog.Int64("moderated_product_id", id))
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, subj policies.Subject, id int64) error {
	if _, err := s.load(ctx, subj, id, policies.ActionDelete); err != nil {
		return err
	}
	if err := s.pool.QueriesWrite().DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// TogglePublished inverte is_published e grava só essa coluna.
func (s *CatalogService) TogglePublished(ctx context.Context, subj policies.Subject, id int64) (bool, error) {
	row, err := s.pool.Queries().GetProduct(ctx, id)
	if err != nil {
		return false, notFound(err)
	}
	next, err := policies.TogglePublished(subj, productEntity(row.Product))
	metrics.Decision(policies.KindProduct.String(), "toggle", err)
	if err != nil {
		return row.IsPublished, err
	}
	if err := s.pool.QueriesWrite().SetProductPublished(ctx, db.SetPublishedParams{IsPublished: next, ID: id}); err != nil {
		return row.IsPublished, fmt.Errorf("failed to toggle product: %w", err)
	}
	logging.AddToEvent(ctx, slog.Int64("product_id", id), slog.Bool("is_published", next))
	return next, nil
}

// SaveVersion cria ou altera uma versão. Marcar uma como atual desmarca as
// demais do mesmo produto na mesma transação.
func (s *CatalogService) SaveVersion(ctx context.Context, subj policies.Subject, productID int64, form validator.VersionForm) (db.Version, error) {
	if _, err := s.load(ctx, subj, productID, policies.ActionEdit); err != nil {
		return db.Version{}, err
	}
	if fe := validator.Check(form); fe != nil {
		return db.Version{}, fe
	}

	var saved db.Version
	err := s.pool.WithTx(ctx, func(q *db.Queries) error {
		var err error
		saved, err = saveVersion(ctx, q, productID, form)
		return err
	})
	return saved, err
}

func (s *CatalogService) DeleteVersion(ctx context.Context, subj policies.Subject, productID, versionID int64) error {
	if _, err := s.load(ctx, subj, productID, policies.ActionEdit); err != nil {
		return err
	}
	return s.pool.QueriesWrite().DeleteVersion(ctx, versionID, productID)
}

func saveVersion(ctx context.Context, q *db.Queries, productID int64, form validator.VersionForm) (db.Version, error) {
	var v db.Version
	if form.ID == 0 {
		created, err := q.CreateVersion(ctx, db.CreateVersionParams{
			ProductID:     productID,
			VersionNumber: form.VersionNumber,
			VersionName:   form.VersionName,
			IsCurrent:     form.IsCurrent,
		})
		if err != nil {
			return v, fmt.Errorf("failed to create version: %w", err)
		}
		v = created
	} else {
		n, err := q.UpdateVersion(ctx, db.UpdateVersionParams{
			VersionNumber: form.VersionNumber,
			VersionName:   form.VersionName,
			IsCurrent:     form.IsCurrent,
			ID:            form.ID,
			ProductID:     productID,
		})
		if err != nil {
			return v, fmt.Errorf("failed to update version: %w", err)
		}
		if n == 0 {
			return v, policies.ErrNotFound
		}
		v = db.Version{ID: form.ID, ProductID: productID, VersionNumber: form.VersionNumber, VersionName: form.VersionName, IsCurrent: form.IsCurrent}
	}

	if v.IsCurrent {
		if err := q.ClearSiblingCurrent(ctx, db.ClearSiblingCurrentParams{ProductID: productID, KeepID: v.ID}); err != nil {
			return v, fmt.Errorf("failed to clear current version: %w", err)
		}
	}
	return v, nil
}

func boolErr(ok bool) error {
	if ok {
		return nil
	}
	return policies.ErrForbidden
}
