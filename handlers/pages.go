// ABOUTME: Landing, placeholder, and health endpoints
// ABOUTME: Placeholders render real chrome with a coming-soon body

package handlers

import (
	"net/http"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
)

// Index routes the bare domain: signed-in users land on the feed,
// everyone else on the login page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}
	if sess.auth.IsAuthenticated() {
		http.Redirect(w, r, "/landing", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Landing renders the signed-in home page with a teaser of fresh listings.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	// The teaser is best-effort; the landing page still renders when the
	// catalog is unreachable
	products, err := sess.catalog.Products(r.Context(), models.SearchFilters{SortBy: models.SortNewest})
	if err != nil {
		products = nil
	}
	if len(products) > 6 {
		products = products[:6]
	}

	h.render(w, "landing.html", sess, map[string]interface{}{
		"Products": h.withImageURLs(sess, products),
	})
}

// Placeholder returns a handler for pages that exist in the navigation
// but have no behavior yet.
func (h *Handler) Placeholder(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.session(w, r)
		if err != nil {
			writeError(w, "Session unavailable", http.StatusInternalServerError)
			return
		}
		h.render(w, "placeholder.html", sess, map[string]interface{}{
			"Title": title,
		})
	}
}

// Categories renders the category browse page; each entry links to the
// filtered product list.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	categories, err := sess.catalog.Categories(r.Context())
	if err != nil {
		h.handleError(w, r, sess, err)
		return
	}

	h.render(w, "categories.html", sess, map[string]interface{}{
		"Categories": categories,
	})
}

// About renders the static about page.
func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}
	h.render(w, "about.html", sess, nil)
}

// Contact renders the static contact page.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}
	h.render(w, "contact.html", sess, nil)
}

// Health reports process liveness as JSON.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": h.cfg.APIBaseURL,
	})
}
