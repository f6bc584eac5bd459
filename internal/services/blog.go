package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PauloHFS/skystore/internal/db"
	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/metrics"
	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/slug"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/microcosm-cc/bluemonday"
)

type BlogService struct {
	pool      *db.DualPool
	sanitizer *bluemonday.Policy
}

func NewBlogService(pool *db.DualPool) *BlogService {
	return &BlogService{pool: pool, sanitizer: bluemonday.UGCPolicy()}
}

type PostDetail struct {
	Post      db.Post
	CanEdit   bool
	CanToggle bool
}

func (s *BlogService) List(ctx context.Context, subj policies.Subject, page int) (db.PagedResult[db.Post], error) {
	vis := visibility(policies.VisibleSet(subj, policies.KindPost))
	paging := db.PagingParams{Page: page, PerPage: defaultPerPage}

	q := s.pool.Queries()
	items, err := q.ListPosts(ctx, db.ListPostsParams{
		Visibility: vis,
		Limit:      paging.Limit(),
		Offset:     paging.Offset(),
	})
	if err != nil {
		return db.PagedResult[db.Post]{}, fmt.Errorf("failed to list posts: %w", err)
	}
	total, err := q.CountPosts(ctx, vis)
	if err != nil {
		return db.PagedResult[db.Post]{}, fmt.Errorf("failed to count posts: %w", err)
	}

	return db.PagedResult[db.Post]{
		Items:       items,
		TotalItems:  int(total),
		CurrentPage: max(page, 1),
		PerPage:     defaultPerPage,
	}, nil
}

// Get devolve o post e conta uma visualização. O detalhe é aberto a quem tiver
// o id, publicado ou não; só as listagens filtram. Não há deduplicação por leitor.
func (s *BlogService) Get(ctx context.Context, subj policies.Subject, id int64) (PostDetail, error) {
	post, err := s.pool.Queries().GetPost(ctx, id)
	if err != nil {
		return PostDetail{}, notFound(err)
	}
	entity := postEntity(post)

	views, err := s.pool.QueriesWrite().IncrementPostViews(ctx, id)
	if err != nil {
		return PostDetail{}, fmt.Errorf("failed to count view: %w", err)
	}
	post.ViewsCount = views
	metrics.PostViews.Inc()

	_, toggleErr := policies.TogglePublished(subj, entity)
	return PostDetail{
		Post:      post,
		CanEdit:   policies.CanMutate(subj, entity, policies.ActionEdit) == nil,
		CanToggle: toggleErr == nil,
	}, nil
}

// Editable carrega o post para edição ou remoção sem contar visualização.
func (s *BlogService) Editable(ctx context.Context, subj policies.Subject, id int64, action policies.Action) (db.Post, error) {
	return s.load(ctx, subj, id, action)
}

func (s *BlogService) load(ctx context.Context, subj policies.Subject, id int64, action policies.Action) (db.Post, error) {
	post, err := s.pool.Queries().GetPost(ctx, id)
	if err != nil {
		return db.Post{}, notFound(err)
	}
	err = policies.CanMutate(subj, postEntity(post), action)
	metrics.Decision(policies.KindPost.String(), string(action), err)
	if err != nil {
		logging.AddToEvent(ctx, slog.String("policy_denied", string(action)), slog.Int64("post_id", id))
		return db.Post{}, err
	}
	return post, nil
}

func (s *BlogService) Create(ctx context.Context, subj policies.Subject, form validator.PostForm, imageURL string) (db.Post, error) {
	if !subj.Authenticated {
		return db.Post{}, policies.ErrForbidden
	}
	if fe := validator.Check(form); fe != nil {
		return db.Post{}, fe
	}

	p, err := s.pool.QueriesWrite().CreatePost(ctx, db.CreatePostParams{
		Title:       form.Title,
		Slug:        slug.Make(form.Title),
		Description: s.sanitizer.Sanitize(form.Description),
		ImageUrl:    nullString(imageURL),
		IsPublished: form.IsPublished,
		OwnerID:     owner(subj),
	})
	if err != nil {
		return db.Post{}, fmt.Errorf("failed to create post: %w", err)
	}
	logging.AddToEvent(ctx, slog.Int64("post_id", p.ID))
	return p, nil
}

func (s *BlogService) Update(ctx context.Context, subj policies.Subject, id int64, form validator.PostForm, imageURL string) error {
	current, err := s.load(ctx, subj, id, policies.ActionEdit)
	if err != nil {
		return err
	}
	if fe := validator.Check(form); fe != nil {
		return fe
	}

	postSlug := current.Slug
	if form.Title != current.Title {
		postSlug = slug.Make(form.Title)
	}
	image := current.ImageUrl
	if imageURL != "" {
		image = nullString(imageURL)
	}

	if err := s.pool.QueriesWrite().UpdatePost(ctx, db.UpdatePostParams{
		Title:       form.Title,
		Slug:        postSlug,
		Description: s.sanitizer.Sanitize(form.Description),
		ImageUrl:    image,
		IsPublished: form.IsPublished,
		ID:          id,
	}); err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

func (s *BlogService) Delete(ctx context.Context, subj policies.Subject, id int64) error {
	if _, err := s.load(ctx, subj, id, policies.ActionDelete); err != nil {
		return err
	}
	if err := s.pool.QueriesWrite().DeletePost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (s *BlogService) TogglePublished(ctx context.Context, subj policies.Subject, id int64) (bool, error) {
	post, err := s.pool.Queries().GetPost(ctx, id)
	if err != nil {
		return false, notFound(err)
	}
	next, err := policies.TogglePublished(subj, postEntity(post))
	metrics.Decision(policies.KindPost.String(), "toggle", err)
	if err != nil {
		return post.IsPublished, err
	}
	if err := s.pool.QueriesWrite().SetPostPublished(ctx, db.SetPublishedParams{IsPublished: next, ID: id}); err != nil {
		return post.IsPublished, fmt.Errorf("failed to toggle post: %w", err)
	}
	logging.AddToEvent(ctx, slog.Int64("post_id", id), slog.Bool("is_published", next))
	return next, nil
}
