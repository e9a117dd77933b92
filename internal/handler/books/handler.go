package books

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/z-shelf/backend/internal/service/catalog"
	"github.com/zhouzirui/z-shelf/backend/pkg/utils"
)

// maxBodyBytes 单个请求体的上限
const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("unexpected data after JSON body")

// Handler 图书目录的HTTP处理器
type Handler struct {
	catalog *catalog.Service
}

// New 创建图书处理器
func New(catalogSvc *catalog.Service) *Handler {
	return &Handler{
		catalog: catalogSvc,
	}
}

// RegisterRoutes 注册图书相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/books", h.handleCreate)
	r.Get("/books", h.handleList)
	r.Get("/books/{id}", h.handleGet)
	r.Put("/books/{id}", h.handleUpdate)
	r.Delete("/books/{id}", h.handleDelete)
}

// handleCreate 创建图书
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload catalog.CreateInput
	if err := decodeBody(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.catalog.Create(r.Context(), payload)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, created)
}

// handleList 列出全部图书
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.catalog.List(r.Context()))
}

// handleGet 按ID查询图书
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	found, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, found)
}

// handleUpdate 局部更新图书
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	var payload catalog.UpdateInput
	if err := decodeBody(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.catalog.Update(r.Context(), id, payload)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, updated)
}

// handleDelete 删除图书
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondMessage(w, http.StatusOK, "Book deleted")
}

// bookID 返回解码后的路径参数；chi 在请求带 RawPath 时按转义形式路由
func bookID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return raw, true
	}

	id, err := url.PathUnescape(raw)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, catalog.ErrBookNotFound.Error())
		return "", false
	}
	return id, true
}

// decodeBody treats an empty body as an empty JSON object and rejects trailing data.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrBookNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrMissingFields),
		errors.Is(err, catalog.ErrBookExists):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[books] unexpected error: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
