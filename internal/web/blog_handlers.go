package web

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/PauloHFS/skystore/internal/logging"
	"github.com/PauloHFS/skystore/internal/middleware"
	"github.com/PauloHFS/skystore/internal/policies"
	"github.com/PauloHFS/skystore/internal/routes"
	"github.com/PauloHFS/skystore/internal/upload"
	"github.com/PauloHFS/skystore/internal/validator"
	"github.com/PauloHFS/skystore/internal/view/pages"
)

func postForm(r *http.Request) validator.PostForm {
	return validator.PostForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: r.FormValue("description"),
		IsPublished: formBool(r, "is_published"),
	}
}

func handlePostList(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	subj := middleware.GetSubject(r.Context())
	result, err := deps.Blog.List(r.Context(), subj, pageParam(r))
	if err != nil {
		return err
	}
	render(w, r, http.StatusOK, pages.PostList(result, subj.Authenticated))
	return nil
}

func handlePostDetail(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	detail, err := deps.Blog.Get(r.Context(), middleware.GetSubject(r.Context()), id)
	if err != nil {
		return err
	}
	logging.AddToEvent(r.Context(), slog.Int64("post_id", id), slog.Int64("views_count", detail.Post.ViewsCount))
	render(w, r, http.StatusOK, pages.PostDetail(detail))
	return nil
}

func handlePostNew(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	render(w, r, http.StatusOK, pages.PostForm(0, validator.PostForm{}, nil))
	return nil
}

func handlePostCreate(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	logging.AddToEvent(r.Context(), slog.String("operation", "post_create"))
	if err := parseForm(r); err != nil {
		return err
	}
	form := postForm(r)

	imageURL, fe, err := saveImage(deps, r, "image", upload.PostImageConfig)
	if err != nil {
		return err
	}
	if fe != nil {
		render(w, r, http.StatusUnprocessableEntity, pages.PostForm(0, form, fe))
		return nil
	}

	post, err := deps.Blog.Create(r.Context(), middleware.GetSubject(r.Context()), form, imageURL)
	if err != nil {
		if fe, ok := formError(err); ok {
			render(w, r, http.StatusUnprocessableEntity, pages.PostForm(0, form, fe))
			return nil
		}
		return err
	}
	http.Redirect(w, r, routes.PostURL(post.ID), http.StatusSeeOther)
	return nil
}

func handlePostEdit(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	post, err := deps.Blog.Editable(r.Context(), middleware.GetSubject(r.Context()), id, policies.ActionEdit)
	if err != nil {
		return err
	}
	form := validator.PostForm{Title: post.Title, Description: post.Description, IsPublished: post.IsPublished}
	render(w, r, http.StatusOK, pages.PostForm(id, form, nil))
	return nil
}

func handlePostUpdate(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	logging.AddToEvent(r.Context(), slog.String("operation", "post_update"), slog.Int64("post_id", id))
	if err := parseForm(r); err != nil {
		return err
	}
	form := postForm(r)

	imageURL, fe, err := saveImage(deps, r, "image", upload.PostImageConfig)
	if err != nil {
		return err
	}
	if fe != nil {
		render(w, r, http.StatusUnprocessableEntity, pages.PostForm(id, form, fe))
		return nil
	}

	if err := deps.Blog.Update(r.Context(), middleware.GetSubject(r.Context()), id, form, imageURL); err != nil {
		if fe, ok := formError(err); ok {
			render(w, r, http.StatusUnprocessableEntity, pages.PostForm(id, form, fe))
			return nil
		}
		return err
	}
	http.Redirect(w, r, routes.PostURL(id), http.StatusSeeOther)
	return nil
}

func handlePostDeleteConfirm(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	post, err := deps.Blog.Editable(r.Context(), middleware.GetSubject(r.Context()), id, policies.ActionDelete)
	if err != nil {
		return err
	}
	render(w, r, http.StatusOK, pages.ConfirmDelete(post.Title, routes.PostDeleteURL(id), routes.PostURL(id)))
	return nil
}

func handlePostDelete(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	logging.AddToEvent(r.Context(), slog.String("operation", "post_delete"), slog.Int64("post_id", id))
	if err := deps.Blog.Delete(r.Context(), middleware.GetSubject(r.Context()), id); err != nil {
		return err
	}
	http.Redirect(w, r, routes.Posts, http.StatusSeeOther)
	return nil
}

func handlePostToggle(deps HandlerDeps, w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	logging.AddToEvent(r.Context(), slog.String("operation", "post_toggle"))
	if _, err := deps.Blog.TogglePublished(r.Context(), middleware.GetSubject(r.Context()), id); err != nil {
		return err
	}
	http.Redirect(w, r, routes.Posts, http.StatusSeeOther)
	return nil
}
