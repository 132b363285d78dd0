package handlers

import (
	"context"
	"log"
	"net/http"
	"yatube/internal/models"
	"yatube/internal/paginator"
	"yatube/internal/repository"
)

const (
	TemplateIndex      = "posts/index.html"
	TemplateGroupList  = "posts/group_list.html"
	TemplateProfile    = "posts/profile.html"
	TemplatePostDetail = "posts/post_detail.html"
	TemplatePostCreate = "posts/post_create.html"
	TemplateFollow     = "posts/follow.html"
	TemplateAuthor     = "about/author.html"
	TemplateTech       = "about/tech.html"
	TemplateLogin      = "users/login.html"
	TemplateNotFound   = "core/404.html"
	TemplateServer     = "core/500.html"
)

// TemplateResponse names the template to render and the context it gets.
type TemplateResponse struct {
	Template string                 `json:"template"`
	Context  map[string]interface{} `json:"context"`
}

// PageObj is one page of posts plus its navigation data.
type PageObj struct {
	paginator.Page
	Posts []models.Post `json:"posts"`
}

func render(w http.ResponseWriter, statusCode int, template string, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	writeSuccess(w, TemplateResponse{Template: template, Context: data}, statusCode)
}

func redirect(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusFound)
}

func notFound(w http.ResponseWriter) {
	render(w, http.StatusNotFound, TemplateNotFound, nil)
}

func serverError(w http.ResponseWriter, err error) {
	log.Printf("Внутренняя ошибка: %v", err)
	render(w, http.StatusInternalServerError, TemplateServer, nil)
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	notFound(w)
}

func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// pageOfPosts counts the posts matching filter, resolves the requested page
// number and loads only that page.
func (h *Handlers) pageOfPosts(ctx context.Context, filter repository.PostFilter, rawPage string) (*PageObj, error) {
	count, err := h.PostRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := h.Paginator.Page(count, rawPage)

	posts, err := h.PostRepo.List(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}

	return &PageObj{Page: page, Posts: posts}, nil
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

func postURL(postID string) string {
	return "/posts/" + postID + "/"
}
