package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/inkpress/inkpress/backend/internal/blog/domain"
	"github.com/inkpress/inkpress/backend/internal/blog/service"
	"github.com/inkpress/inkpress/backend/internal/common/config"
	commonerrors "github.com/inkpress/inkpress/backend/internal/common/errors"
	commonhttp "github.com/inkpress/inkpress/backend/internal/common/http"
	"github.com/inkpress/inkpress/backend/internal/common/jwtverify"
	"github.com/inkpress/inkpress/backend/internal/common/logger"
)

type createRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updateRequest struct {
	ID      string  `json:"id"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type visibilityRequest struct {
	ID        string `json:"id"`
	Published bool   `json:"published"`
}

type postView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Handler struct {
	blog *service.BlogService
	log  *logger.Logger
}

func NewHandler(blog *service.BlogService, cfg config.APIConfig, log *logger.Logger) http.Handler {
	h := &Handler{blog: blog, log: log}

	get := commonhttp.RequireMethod(http.MethodGet)
	patch := commonhttp.RequireMethod(http.MethodPatch)
	withTimeout := commonhttp.WithTimeout(cfg.RequestTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/blog", withTimeout(h.blogRoot))
	mux.HandleFunc("/api/v1/blog/visibility", patch(withTimeout(h.visibility)))
	mux.HandleFunc("/api/v1/blog/bulk", get(withTimeout(h.listPublished)))
	mux.HandleFunc("/api/v1/blog/bulk/me", get(withTimeout(h.listMine)))
	mux.HandleFunc("/api/v1/blog/", get(withTimeout(h.getByID)))
	return mux
}

func (h *Handler) blogRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", "")
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrMissingAuthorization, h.log)
		return
	}

	var req createRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("create post failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	post, err := h.blog.CreatePost(r.Context(), identity.UserID, service.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toPostView(post))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrMissingAuthorization, h.log)
		return
	}

	var req updateRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("update post failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	post, err := h.blog.UpdatePost(r.Context(), identity.UserID, service.UpdatePostInput{
		ID:      req.ID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toPostView(post))
}

func (h *Handler) visibility(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrMissingAuthorization, h.log)
		return
	}

	var req visibilityRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("change visibility failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", "")
		return
	}

	err := h.blog.ChangeVisibility(r.Context(), identity.UserID, service.VisibilityInput{
		ID:        req.ID,
		Published: req.Published,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) listPublished(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListPublished(r.Context())
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toPostViews(posts))
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.HandleError(w, r, commonerrors.ErrMissingAuthorization, h.log)
		return
	}

	posts, err := h.blog.ListMine(r.Context(), identity.UserID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toPostViews(posts))
}

func (h *Handler) getByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/blog/")
	if strings.Contains(id, "/") {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidPath, "invalid path", "")
		return
	}
	if err := commonhttp.ValidateUUID(id); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	post, err := h.blog.GetPost(r.Context(), id)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toPostView(post))
}

func toPostView(post domain.Post) postView {
	return postView{
		ID:        string(post.ID),
		Title:     post.Title,
		Content:   post.Content,
		AuthorID:  post.AuthorID,
		Published: post.Published,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

func toPostViews(posts []domain.Post) []postView {
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, toPostView(p))
	}
	return views
}
