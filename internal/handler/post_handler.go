package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"yatube/internal/forms"
	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/storage"

	"github.com/gorilla/mux"
)

// formats image
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// PostFormView is the post form as the template sees it: the submitted (or
// stored) values, field errors and the group choices.
type PostFormView struct {
	Text   string         `json:"text"`
	Group  string         `json:"group"`
	Image  *string        `json:"image,omitempty"`
	Errors forms.Errors   `json:"errors"`
	Groups []models.Group `json:"groups"`
}

type CommentFormView struct {
	Text   string       `json:"text"`
	Errors forms.Errors `json:"errors"`
}

func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageOfPosts(r.Context(), repository.PostFilter{}, r.URL.Query().Get("page"))
	if err != nil {
		serverError(w, err)
		return
	}

	render(w, http.StatusOK, TemplateIndex, map[string]interface{}{
		"page_obj": page,
	})
}

func (h *Handlers) GroupPosts(w http.ResponseWriter, r *http.Request) {
	group, err := h.GroupRepo.GetBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w)
		} else {
			serverError(w, err)
		}
		return
	}

	page, err := h.pageOfPosts(r.Context(), repository.PostFilter{GroupID: group.GroupID}, r.URL.Query().Get("page"))
	if err != nil {
		serverError(w, err)
		return
	}

	render(w, http.StatusOK, TemplateGroupList, map[string]interface{}{
		"page_obj": page,
		"group":    group,
	})
}

func (h *Handlers) PostDetail(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostRepo.GetByID(r.Context(), mux.Vars(r)["post_id"])
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w)
		} else {
			serverError(w, err)
		}
		return
	}

	comments, err := h.CommentRepo.GetByPostID(r.Context(), post.PostID)
	if err != nil {
		serverError(w, err)
		return
	}

	render(w, http.StatusOK, TemplatePostDetail, map[string]interface{}{
		"post":     post,
		"comments": comments,
		"form":     CommentFormView{Errors: forms.Errors{}},
	})
}

// maxFieldSize bounds a single non-file multipart field.
const maxFieldSize = 10 << 20

// readPostForm reads a urlencoded or multipart post form. Multipart bodies are
// consumed part by part, so fields that arrived before a broken or oversized
// image are still returned for redisplay.
func (h *Handlers) readPostForm(r *http.Request) (forms.PostForm, *storage.Upload, forms.Errors) {
	reader, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		form := forms.PostFormFromRequest(r)
		return form, nil, form.Validate(h.Validate)
	}
	if err != nil {
		errs := forms.Errors{}
		errs.Add("image", forms.MessageInvalidImage)
		return forms.PostForm{}, nil, errs
	}

	values := url.Values{}
	upload, imageErr := h.readParts(reader, values)

	form := forms.PostFormFromValues(values)
	errs := form.Validate(h.Validate)
	if imageErr != "" {
		errs.Add("image", imageErr)
		upload = nil
	}
	return form, upload, errs
}

// readParts collects plain fields into values and buffers the image part. It
// stops at the first malformed part and reports it as an image error.
func (h *Handlers) readParts(reader *multipart.Reader, values url.Values) (*storage.Upload, string) {
	var upload *storage.Upload
	imageErr := ""

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return upload, imageErr
		}
		if err != nil {
			return nil, forms.MessageInvalidImage
		}

		if part.FileName() == "" {
			value, err := io.ReadAll(io.LimitReader(part, maxFieldSize))
			part.Close()
			if err != nil {
				return nil, forms.MessageInvalidImage
			}
			values.Add(part.FormName(), string(value))
			continue
		}

		if part.FormName() == "image" {
			upload, imageErr = h.readImage(part)
		}
		part.Close()
	}
}

func (h *Handlers) readImage(part *multipart.Part) (*storage.Upload, string) {
	data, err := io.ReadAll(io.LimitReader(part, h.Cfg.MaxUploadSize+1))
	if err != nil {
		return nil, forms.MessageInvalidImage
	}

	contentType := part.Header.Get("Content-Type")
	switch {
	case int64(len(data)) > h.Cfg.MaxUploadSize:
		return nil, forms.MessageImageTooLarge
	case !allowedTypes[contentType]:
		return nil, forms.MessageInvalidImage
	}

	return &storage.Upload{
		FileName:    part.FileName(),
		ContentType: contentType,
		Size:        int64(len(data)),
		Reader:      bytes.NewReader(data),
	}, ""
}

func (h *Handlers) renderPostForm(ctx context.Context, w http.ResponseWriter, view PostFormView, extra map[string]interface{}) {
	groups, err := h.GroupRepo.List(ctx)
	if err != nil {
		serverError(w, err)
		return
	}
	view.Groups = groups
	if view.Errors == nil {
		view.Errors = forms.Errors{}
	}

	data := map[string]interface{}{"form": view}
	for k, v := range extra {
		data[k] = v
	}
	render(w, http.StatusOK, TemplatePostCreate, data)
}

func optionalGroup(form forms.PostForm) *string {
	if form.Group == "" {
		return nil
	}
	group := form.Group
	return &group
}

func (h *Handlers) PostCreate(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	if r.Method != http.MethodPost {
		h.renderPostForm(r.Context(), w, PostFormView{}, nil)
		return
	}

	form, upload, errs := h.readPostForm(r)

	view := PostFormView{Text: form.Text, Group: form.Group, Errors: errs}
	if !errs.Valid() {
		h.renderPostForm(r.Context(), w, view, nil)
		return
	}

	_, err := h.PostService.CreatePost(r.Context(), service.CreatePostRequest{
		AuthorID: user.UserID,
		Text:     form.Text,
		GroupID:  optionalGroup(form),
		Image:    upload,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidGroup):
			view.Errors.Add("group", forms.MessageInvalidChoice)
			h.renderPostForm(r.Context(), w, view, nil)
		case errors.Is(err, service.ErrStorageUnavailable):
			view.Errors.Add("image", forms.MessageImageDisabled)
			h.renderPostForm(r.Context(), w, view, nil)
		default:
			serverError(w, err)
		}
		return
	}

	redirect(w, r, profileURL(user.Username))
}

func (h *Handlers) PostEdit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	postID := mux.Vars(r)["post_id"]

	post, err := h.PostRepo.GetByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w)
		} else {
			serverError(w, err)
		}
		return
	}

	if post.AuthorID != user.UserID {
		redirect(w, r, postURL(postID))
		return
	}

	extra := map[string]interface{}{"is_edit": true, "post_id": postID}

	if r.Method != http.MethodPost {
		view := PostFormView{Text: post.Text, Image: post.Image}
		if post.GroupID != nil {
			view.Group = *post.GroupID
		}
		h.renderPostForm(r.Context(), w, view, extra)
		return
	}

	form, upload, errs := h.readPostForm(r)

	view := PostFormView{Text: form.Text, Group: form.Group, Image: post.Image, Errors: errs}
	if !errs.Valid() {
		h.renderPostForm(r.Context(), w, view, extra)
		return
	}

	_, err = h.PostService.UpdatePost(r.Context(), service.UpdatePostRequest{
		PostID:   postID,
		EditorID: user.UserID,
		Text:     form.Text,
		GroupID:  optionalGroup(form),
		Image:    upload,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwner):
			redirect(w, r, postURL(postID))
		case errors.Is(err, repository.ErrNotFound):
			notFound(w)
		case errors.Is(err, service.ErrInvalidGroup):
			view.Errors.Add("group", forms.MessageInvalidChoice)
			h.renderPostForm(r.Context(), w, view, extra)
		case errors.Is(err, service.ErrStorageUnavailable):
			view.Errors.Add("image", forms.MessageImageDisabled)
			h.renderPostForm(r.Context(), w, view, extra)
		default:
			serverError(w, err)
		}
		return
	}

	redirect(w, r, postURL(postID))
}

// AddComment drops invalid submissions silently; every outcome except a
// missing post redirects back to the post.
func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	postID := mux.Vars(r)["post_id"]

	if _, err := h.PostRepo.GetByID(r.Context(), postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w)
		} else {
			serverError(w, err)
		}
		return
	}

	form := forms.CommentFormFromRequest(r)
	if form.Validate(h.Validate).Valid() {
		_, err := h.PostService.AddComment(r.Context(), postID, user.UserID, form.Text)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				notFound(w)
			} else {
				serverError(w, err)
			}
			return
		}
	}

	redirect(w, r, postURL(postID))
}

func (h *Handlers) AboutAuthor(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, TemplateAuthor, nil)
}

func (h *Handlers) AboutTech(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, TemplateTech, nil)
}
