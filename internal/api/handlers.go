package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"vgtrkvod/internal/catalog"
	"vgtrkvod/internal/history"
	"vgtrkvod/internal/vgtrk"
)

const Version = "0.1.0"

type Handler struct {
	catalog *catalog.Service
	history *history.Store
	logger  zerolog.Logger
}

func NewHandler(svc *catalog.Service, hist *history.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		catalog: svc,
		history: hist,
		logger:  logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Menu(r.Context())
	if err != nil {
		h.respondError(w, err, "failed to get menu")
		return
	}
	writeJSON(w, http.StatusOK, MenuResponse{Categories: categories})
}

func (h *Handler) BrowseCategory(w http.ResponseWriter, r *http.Request) {
	menuID, ok := pathID(w, r)
	if !ok {
		return
	}
	opts, ok := listOptions(w, r)
	if !ok {
		return
	}

	page, err := h.catalog.Category(r.Context(), menuID, opts)
	if err != nil {
		h.respondError(w, err, "failed to browse category")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// BrandVideos mirrors the addon navigation: without an offset parameter the
// brand shows its season pages, with one it shows an episode page.
func (h *Handler) BrandVideos(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("offset") == "" {
		h.BrandSeasons(w, r)
		return
	}
	h.BrandEpisodes(w, r)
}

func (h *Handler) BrandSeasons(w http.ResponseWriter, r *http.Request) {
	brandID, ok := pathID(w, r)
	if !ok {
		return
	}

	page, err := h.catalog.Seasons(r.Context(), brandID)
	if err != nil {
		h.respondError(w, err, "failed to list seasons")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) BrandEpisodes(w http.ResponseWriter, r *http.Request) {
	brandID, ok := pathID(w, r)
	if !ok {
		return
	}
	opts, ok := listOptions(w, r)
	if !ok {
		return
	}

	page, err := h.catalog.Episodes(r.Context(), brandID, opts)
	if err != nil {
		h.respondError(w, err, "failed to list episodes")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Missing keyword")
		return
	}
	opts, ok := listOptions(w, r)
	if !ok {
		return
	}

	all := r.URL.Query().Get("all") != "false"

	page, err := h.catalog.Search(r.Context(), keyword, all, opts)
	if err != nil {
		h.respondError(w, err, "search failed")
		return
	}

	// Quick searches come from suggestion widgets and stay out of history.
	if all {
		if err := h.history.Record(keyword); err != nil {
			h.logger.Warn().Err(err).Str("keyword", keyword).Msg("failed to record search history")
		}
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) GetSearchHistory(w http.ResponseWriter, r *http.Request) {
	items, err := h.history.List(0)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get search history")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get search history")
		return
	}
	if items == nil {
		items = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Items: items})
}

func (h *Handler) RemoveSearchHistory(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid history index")
		return
	}
	if err := h.history.RemoveAt(index); err != nil {
		h.logger.Error().Err(err).Int("index", index).Msg("failed to remove search history entry")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearSearchHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.history.Clear(); err != nil {
		h.logger.Error().Err(err).Msg("failed to clear search history")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PlayVideo(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r)
	if !ok {
		return
	}

	var quality *int
	if q := r.URL.Query().Get("quality"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < catalog.QualityLow || n > catalog.QualityFHD {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid quality")
			return
		}
		quality = &n
	}

	playback, err := h.catalog.Play(r.Context(), videoID, quality)
	if err != nil {
		h.respondError(w, err, "failed to resolve stream")
		return
	}
	writeJSON(w, http.StatusOK, playback)
}

// respondError maps the error taxonomy onto HTTP statuses: bad parameters
// are the caller's fault, missing/not-playable is 404, upstream and
// transport failures surface as 502.
func (h *Handler) respondError(w http.ResponseWriter, err error, msg string) {
	var confErr *catalog.ConfigurationError
	var notFound *vgtrk.NotFoundError
	var transport *vgtrk.TransportError
	var upstream *vgtrk.UpstreamError

	switch {
	case errors.As(err, &confErr):
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", confErr.Message)
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", notFound.Message)
	case errors.As(err, &transport):
		h.logger.Error().Err(err).Msg(msg)
		writeError(w, http.StatusBadGateway, "CONNECTION_ERROR", "Connection error")
	case errors.As(err, &upstream):
		h.logger.Error().Err(err).Msg(msg)
		writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", upstream.Message)
	default:
		h.logger.Error().Err(err).Msg(msg)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid id")
		return 0, false
	}
	return id, true
}

func listOptions(w http.ResponseWriter, r *http.Request) (catalog.ListOptions, bool) {
	q := r.URL.Query()
	opts := catalog.ListOptions{
		Sort:          q.Get("sort"),
		OriginalNames: q.Get("atl") == "1",
	}

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid offset")
			return opts, false
		}
		opts.Offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid limit")
			return opts, false
		}
		opts.Limit = n
	}
	return opts, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
