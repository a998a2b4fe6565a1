package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gorilla/schema"
	"golang.org/x/text/language"

	"leoga-storefront/engine"
	"leoga-storefront/models"
	"leoga-storefront/service"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPingPeriod = 30 * time.Second
)

// ViewResponse is a view state with its labels resolved for one language
type ViewResponse struct {
	ID   string `json:"id"`
	Lang string `json:"lang"`
	engine.ViewState
	FacetLabels []models.FacetLabel `json:"facetLabels"`
	NoticeText  string              `json:"noticeText,omitempty"`
	EmptyText   string              `json:"emptyText,omitempty"`
}

// BrowseController handles HTTP requests for browsing views
type BrowseController struct {
	views    *service.ViewService
	locales  *service.LocaleService
	lookbook *service.LookbookService
	decoder  *schema.Decoder
}

// NewBrowseController creates a new BrowseController
func NewBrowseController(views *service.ViewService, locales *service.LocaleService, lookbook *service.LookbookService) *BrowseController {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &BrowseController{
		views:    views,
		locales:  locales,
		lookbook: lookbook,
		decoder:  decoder,
	}
}

func (c *BrowseController) tag(r *http.Request, lang string) language.Tag {
	return c.locales.Match(lang, r.Header.Get("Accept-Language"))
}

func (c *BrowseController) respond(w http.ResponseWriter, status int, id string, view *engine.View, tag language.Tag) {
	writeJSON(w, status, c.buildResponse(id, view, tag))
}

func (c *BrowseController) buildResponse(id string, view *engine.View, tag language.Tag) ViewResponse {
	state := view.Snapshot()
	resp := ViewResponse{
		ID:          id,
		Lang:        tag.String(),
		ViewState:   state,
		FacetLabels: c.locales.LabelFacets(tag, state.Facets),
	}
	if state.Notice != "" {
		resp.NoticeText = c.locales.T(tag, state.Notice)
	}
	if state.Empty {
		resp.EmptyText = c.locales.T(tag, "catalog.empty")
	}
	return resp
}

// OpenView handles POST /views
// Opens a browsing view of ?kind=fabric|products|menu
func (c *BrowseController) OpenView(w http.ResponseWriter, r *http.Request) {
	log.Printf("📥 OpenView: Received %s request to %s", r.Method, r.URL.String())

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.OpenViewRequest
	if err := c.decoder.Decode(&req, r.URL.Query()); err != nil {
		log.Printf("❌ OpenView: Failed to decode query: %v", err)
		http.Error(w, fmt.Sprintf("Invalid query parameters: %v", err), http.StatusBadRequest)
		return
	}

	id, view, err := c.views.Open(r.Context(), req)
	if err != nil {
		log.Printf("❌ OpenView: %v", err)
		if errors.Is(err, service.ErrUnknownViewKind) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Failed to open view: %v", err), http.StatusGatewayTimeout)
		return
	}

	w.Header().Set("Location", "/views/"+id)
	c.respond(w, http.StatusCreated, id, view, c.tag(r, req.Lang))
}

// HandleView handles every /views/{id}/... route
func (c *BrowseController) HandleView(w http.ResponseWriter, r *http.Request) {
	id, rest := splitViewPath(r.URL.Path)
	if id == "" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	view, err := c.views.Get(id)
	if err != nil {
		http.Error(w, fmt.Sprintf("View not found: %s", id), http.StatusNotFound)
		return
	}

	var req models.ViewActionRequest
	if err := c.decoder.Decode(&req, r.URL.Query()); err != nil {
		http.Error(w, fmt.Sprintf("Invalid query parameters: %v", err), http.StatusBadRequest)
		return
	}
	tag := c.tag(r, req.Lang)

	if len(rest) == 0 {
		switch r.Method {
		case http.MethodGet:
			c.respond(w, http.StatusOK, id, view, tag)
		case http.MethodDelete:
			if err := c.views.Close(id); err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if r.Method == http.MethodGet {
		switch rest[0] {
		case "stream":
			c.StreamView(w, r, id, view, tag)
		case "lookbook":
			c.LookbookHTML(w, view, tag)
		case "lookbook.pdf":
			c.LookbookPDF(w, r, id, tag)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c.action(w, id, view, rest, req, tag)
}

func (c *BrowseController) action(w http.ResponseWriter, id string, view *engine.View, rest []string, req models.ViewActionRequest, tag language.Tag) {
	action := strings.Join(rest, "/")
	if len(rest) == 3 && rest[0] == "items" {
		itemID := rest[1]
		switch rest[2] {
		case "enter":
			if view.PointerEnter(itemID) {
				service.ObserveRotation()
			}
		case "leave":
			view.PointerLeave(itemID)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		c.respond(w, http.StatusOK, id, view, tag)
		return
	}

	switch action {
	case "facets/hover":
		view.HoverFacet(req.Facet, req.Anchor)
	case "facets/leave":
		view.LeaveFacet()
	case "preview/enter":
		view.EnterPreview()
	case "preview/leave":
		view.LeavePreview()
	case "commit":
		if !view.Commit(req.Facet, req.Value) {
			log.Printf("⚠️  Commit: rejected %s=%s on view %s", req.Facet, req.Value, id)
			http.Error(w, fmt.Sprintf("Invalid value %q for facet %q", req.Value, req.Facet), http.StatusBadRequest)
			return
		}
		service.ObserveCommit(view.Kind(), req.Facet)
	case "select":
		if !view.SelectFacet(req.Facet) {
			http.Error(w, fmt.Sprintf("Unknown facet %q", req.Facet), http.StatusBadRequest)
			return
		}
		service.ObserveCommit(view.Kind(), req.Facet)
	case "reset":
		view.Reset()
	case "page/next":
		view.NextPage()
	case "page/prev":
		view.PrevPage()
	case "page/goto":
		view.GoToPage(req.Index)
	case "highlight":
		if !view.Highlight(req.Item) {
			http.Error(w, fmt.Sprintf("Item not found: %s", req.Item), http.StatusNotFound)
			return
		}
	case "view-more":
		key, ok := view.ViewMore()
		if !ok {
			http.Error(w, "No category selected", http.StatusConflict)
			return
		}
		writeJSON(w, http.StatusOK, models.NavigationResponse{
			CategoryKey: key,
			Location:    "/products?category=" + url.QueryEscape(key),
		})
		return
	default:
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	c.respond(w, http.StatusOK, id, view, tag)
}

// StreamView handles GET /views/{id}/stream
// Pushes the labelled view state over a websocket after every change
func (c *BrowseController) StreamView(w http.ResponseWriter, r *http.Request, id string, view *engine.View, tag language.Tag) {
	// the server write timeout would otherwise cut long-lived streams
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Printf("⚠️  StreamView: could not clear write deadline: %v", err)
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("❌ StreamView: WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected stream exit")

	// the client never sends; CloseRead handles control frames and cancels on close
	ctx := conn.CloseRead(r.Context())

	changes, unsubscribe := view.Subscribe()
	defer unsubscribe()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	log.Printf("📡 StreamView: client attached to view %s", id)
	if err := c.writeState(ctx, conn, id, view, tag); err != nil {
		return
	}

	for {
		select {
		case _, ok := <-changes:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "view closed")
				return
			}
			if err := c.writeState(ctx, conn, id, view, tag); err != nil {
				return
			}
			c.views.Touch(id)
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, streamWriteWait)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
			// an attached stream keeps its view alive
			c.views.Touch(id)
		case <-ctx.Done():
			if status := websocket.CloseStatus(ctx.Err()); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && status != -1 {
				log.Printf("⚠️  StreamView: %v", ctx.Err())
			}
			return
		}
	}
}

func (c *BrowseController) writeState(ctx context.Context, conn *websocket.Conn, id string, view *engine.View, tag language.Tag) error {
	writeCtx, cancel := context.WithTimeout(ctx, streamWriteWait)
	defer cancel()
	if err := wsjson.Write(writeCtx, conn, c.buildResponse(id, view, tag)); err != nil {
		log.Printf("❌ StreamView: write error: %v", err)
		return err
	}
	return nil
}

// LookbookHTML handles GET /views/{id}/lookbook
func (c *BrowseController) LookbookHTML(w http.ResponseWriter, view *engine.View, tag language.Tag) {
	html, err := c.lookbook.RenderHTML(view, tag)
	if err != nil {
		log.Printf("❌ LookbookHTML: %v", err)
		http.Error(w, fmt.Sprintf("Failed to render lookbook: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

// LookbookPDF handles GET /views/{id}/lookbook.pdf
func (c *BrowseController) LookbookPDF(w http.ResponseWriter, r *http.Request, id string, tag language.Tag) {
	pdf, err := c.lookbook.GeneratePDF(r.Context(), id, tag)
	if err != nil {
		log.Printf("❌ LookbookPDF: %v", err)
		http.Error(w, fmt.Sprintf("Failed to generate PDF: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="lookbook-%s.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// splitViewPath splits /views/{id}/a/b into ("{id}", ["a", "b"])
func splitViewPath(path string) (string, []string) {
	trimmed := strings.Trim(strings.TrimPrefix(path, "/views/"), "/")
	if trimmed == "" {
		return "", nil
	}
	parts := strings.Split(trimmed, "/")
	return parts[0], parts[1:]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}
