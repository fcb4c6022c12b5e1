package handler

import (
	"io/fs"
	"net/http"
)

// LoginPath is where anonymous visitors are sent.
const LoginPath = "/login"

// PageHandler serves the static HTML pages. Access control for the
// dashboard is applied by the router.
type PageHandler struct {
	pages fs.FS
}

func NewPageHandler(pages fs.FS) *PageHandler {
	return &PageHandler{pages: pages}
}

func (h *PageHandler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, LoginPath, http.StatusFound)
}

func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "login.html")
}

func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "register.html")
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "dashboard.html")
}

func (h *PageHandler) serve(w http.ResponseWriter, r *http.Request, name string) {
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFileFS(w, r, h.pages, name)
}
