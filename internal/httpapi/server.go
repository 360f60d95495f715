// Package httpapi exposes the storefront over HTTP: JSON endpoints for the
// shopper's actions and a server-sent event stream of snapshots.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/user/shopfront/internal/assistant"
	"github.com/user/shopfront/internal/catalog"
	"github.com/user/shopfront/internal/delivery"
	"github.com/user/shopfront/internal/geometry"
	"github.com/user/shopfront/internal/storefront"
	"github.com/user/shopfront/internal/types"
)

// maxBodyBytes bounds request bodies; submissions carry a base64 photo.
const maxBodyBytes = 8 << 20

// DefaultKeepAlive is the interval between SSE comment frames.
const DefaultKeepAlive = 15 * time.Second

// DefaultMaxStreams caps concurrent /api/events connections.
const DefaultMaxStreams = 64

// Server is the HTTP handler for the storefront API.
type Server struct {
	store     *storefront.Storefront
	logger    *zap.Logger
	keepAlive time.Duration
	streams   *semaphore.Weighted
	mux       *http.ServeMux
}

// NewServer creates a Server over store. A nil logger disables logging.
func NewServer(store *storefront.Storefront, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:     store,
		logger:    logger,
		keepAlive: DefaultKeepAlive,
		streams:   semaphore.NewWeighted(DefaultMaxStreams),
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/assistant/submit", s.handleSubmit)
	s.mux.HandleFunc("POST /api/assistant/expand", s.handleExpand)
	s.mux.HandleFunc("POST /api/assistant/collapse", s.handleCollapse)
	s.mux.HandleFunc("POST /api/results/{index}/select", s.handleSelect)
	s.mux.HandleFunc("POST /api/flight/cancel", s.handleCancelFlight)
	s.mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	s.mux.HandleFunc("GET /api/events", s.handleEvents)
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps the core's sentinel errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrInvalidState), errors.Is(err, types.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, types.ErrQueueFull):
		return http.StatusTooManyRequests
	case errors.Is(err, types.ErrNotReady):
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", zap.Error(err))
		writeError(w, status, "internal server error")
		return
	}
	s.logger.Debug(op+" rejected", zap.Int("status", status), zap.Error(err))
	writeError(w, status, err.Error())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// submitRequest is the JSON body for POST /api/assistant/submit. Image is
// base64 in JSON.
type submitRequest struct {
	Text  string `json:"text"`
	Image []byte `json:"image"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	q := assistant.NewQuery(req.Text, req.Image)
	if q.HasImage() && !q.IsImage() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("attachment is %s, not an image", q.ImageType))
		return
	}

	id := s.store.Session.Submit(q)
	writeJSON(w, http.StatusAccepted, map[string]string{"submission_id": string(id)})
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Session.Expand(); err != nil {
		s.fail(w, "expand", err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleCollapse(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Session.Collapse(); err != nil {
		s.fail(w, "collapse", err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

// selectRequest carries the client's measurements, all viewport-relative.
// A missing field reads as an unmounted element.
type selectRequest struct {
	View *geometry.Viewport `json:"viewport"`
	Item *geometry.Rect     `json:"item"`
	Cart *geometry.Rect     `json:"cart"`

	index int
}

func (m selectRequest) Viewport() (geometry.Viewport, bool) {
	if m.View == nil {
		return geometry.Viewport{}, false
	}
	return *m.View, true
}

func (m selectRequest) Element(id geometry.ElementID) (geometry.Rect, bool) {
	var r *geometry.Rect
	switch id {
	case geometry.CartIcon:
		r = m.Cart
	case geometry.ResultElement(m.index):
		r = m.Item
	}
	if r == nil {
		return geometry.Rect{}, false
	}
	return *r, true
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "result index must be an integer")
		return
	}

	var req selectRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.index = index

	f, err := s.store.Session.SelectResult(index, req)
	if err != nil {
		s.fail(w, "select result", err)
		return
	}
	writeJSON(w, http.StatusAccepted, f)
}

func (s *Server) handleCancelFlight(w http.ResponseWriter, r *http.Request) {
	cancelled := s.store.Flights.Cancel()
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}

type catalogResponse struct {
	Categories []string         `json:"categories"`
	Category   string           `json:"category"`
	Products   []catalogProduct `json:"products"`
}

type catalogProduct struct {
	catalog.Product
	PriceLabel    string `json:"price_label"`
	DiscountLabel string `json:"discount_label"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = catalog.All
	}
	products, err := s.store.Catalog.Products(category)
	if err != nil {
		s.fail(w, "list catalog", err)
		return
	}

	resp := catalogResponse{
		Categories: catalog.Categories,
		Category:   category,
		Products:   make([]catalogProduct, 0, len(products)),
	}
	for _, p := range products {
		resp.Products = append(resp.Products, catalogProduct{
			Product:       p,
			PriceLabel:    p.PriceLabel(),
			DiscountLabel: p.DiscountLabel(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEvents streams every snapshot as an SSE "snapshot" event, starting
// with the current one. Slow clients only ever see the newest snapshot.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	if !s.streams.TryAcquire(1) {
		writeError(w, http.StatusServiceUnavailable, "too many event streams")
		return
	}
	defer s.streams.Release(1)

	ch := make(chan types.Snapshot, 1)
	id := types.NewSubscriberID("sse", uuid.NewString())
	s.store.Subscribe(id, delivery.Mailbox(ch))
	defer s.store.Unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s.logger.Debug("event stream opened", zap.String("subscriber", string(id)))
	defer s.logger.Debug("event stream closed", zap.String("subscriber", string(id)))

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	var lastSeq uint64
	sent := false
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case snap := <-ch:
			if sent && snap.Seq <= lastSeq {
				continue
			}
			data, err := json.Marshal(snap)
			if err != nil {
				s.logger.Error("marshal snapshot failed", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: snapshot\ndata: %s\n\n", snap.Seq, data); err != nil {
				return
			}
			flusher.Flush()
			lastSeq, sent = snap.Seq, true
		}
	}
}
