// ABOUTME: Product page handlers: browse, detail, create, edit, delete, toggle
// ABOUTME: Browse fetches products and categories in parallel, then filters in-process

package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
)

// maxImageBytes caps product image uploads at 5 MB.
const maxImageBytes = 5 << 20

// Products renders the browse page. Search, category, price bounds, and
// sorting come from query parameters and are applied to the fetched list
// so typing in the search box never refires the backend query.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	var (
		products   []models.Product
		categories []models.Category
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		products, err = sess.catalog.Products(ctx, models.SearchFilters{})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = sess.catalog.Categories(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.handleError(w, r, sess, err)
		return
	}

	view := viewFilterFromQuery(r)
	h.render(w, "products.html", sess, map[string]interface{}{
		"Products":   h.withImageURLs(sess, models.ApplyView(products, view)),
		"Categories": categories,
		"Filter":     view,
	})
}

// ProductDetail renders a single listing.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	id, err := productID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	product, err := sess.catalog.Product(r.Context(), id)
	if err != nil {
		h.handleError(w, r, sess, err)
		return
	}

	user := sess.auth.CurrentUser()
	h.render(w, "product_detail.html", sess, map[string]interface{}{
		"Product":  product,
		"ImageURL": sess.catalog.ImageURL(product.Image),
		"IsOwner":  user != nil && user.ID == product.Owner,
	})
}

// NewProductPage renders the listing creation form.
func (h *Handler) NewProductPage(w http.ResponseWriter, r *http.Request) {
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
	h.render(w, "product_form.html", sess, map[string]interface{}{
		"Categories": categories,
	})
}

// CreateProduct handles the new listing form post, passing any uploaded
// image through to the backend.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	input := models.CreateProductInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    r.FormValue("category"),
		Price:       strings.TrimSpace(r.FormValue("price")),
	}
	input.ImageName, input.Image = formImage(r)

	product, err := sess.catalog.Create(r.Context(), input)
	if err != nil {
		categories, _ := sess.catalog.Categories(r.Context())
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "product_form.html", sess, map[string]interface{}{
			"Error":      err.Error(),
			"Form":       input,
			"Categories": categories,
		})
		return
	}

	http.Redirect(w, r, "/products/"+strconv.Itoa(product.ID), http.StatusSeeOther)
}

// EditProductPage renders the edit form pre-filled with the listing.
func (h *Handler) EditProductPage(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	id, err := productID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	product, err := sess.catalog.Product(r.Context(), id)
	if err != nil {
		h.handleError(w, r, sess, err)
		return
	}
	categories, err := sess.catalog.Categories(r.Context())
	if err != nil {
		h.handleError(w, r, sess, err)
		return
	}

	h.render(w, "product_form.html", sess, map[string]interface{}{
		"Product":    product,
		"Categories": categories,
		"Editing":    true,
	})
}

// UpdateProduct handles the edit form post. Only submitted fields reach
// the backend.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	id, err := productID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	input := models.UpdateProductInput{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    r.FormValue("category"),
		Price:       strings.TrimSpace(r.FormValue("price")),
	}
	input.ImageName, input.Image = formImage(r)

	if _, err := sess.catalog.Update(r.Context(), id, input); err != nil {
		h.handleError(w, r, sess, err)
		return
	}

	http.Redirect(w, r, "/products/"+strconv.Itoa(id), http.StatusSeeOther)
}

// DeleteProduct removes a listing and returns to the owner's list.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	id, err := productID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := sess.catalog.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, sess, err)
		return
	}

	http.Redirect(w, r, "/my-listings", http.StatusSeeOther)
}

// ToggleProduct flips a listing between available and sold.
func (h *Handler) ToggleProduct(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	id, err := productID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if _, err := sess.catalog.ToggleAvailability(r.Context(), id); err != nil {
		h.handleError(w, r, sess, err)
		return
	}

	http.Redirect(w, r, "/my-listings", http.StatusSeeOther)
}

// MyListings renders the signed-in user's own listings.
func (h *Handler) MyListings(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	products, err := sess.catalog.UserProducts(r.Context())
	if err != nil {
		h.handleError(w, r, sess, err)
		return
	}

	h.render(w, "my_listings.html", sess, map[string]interface{}{
		"Products": h.withImageURLs(sess, products),
	})
}

// productView pairs a product with its resolved image URL for templates.
type productView struct {
	models.Product
	ImageURL string
}

func (h *Handler) withImageURLs(sess *session, products []models.Product) []productView {
	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = productView{Product: p, ImageURL: sess.catalog.ImageURL(p.Image)}
	}
	return views
}

// viewFilterFromQuery reads the browse filters from the URL.
func viewFilterFromQuery(r *http.Request) models.ViewFilter {
	q := r.URL.Query()
	view := models.ViewFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: q.Get("category"),
		SortBy:   q.Get("sort"),
	}
	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
		view.MinPrice = v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
		view.MaxPrice = v
	}
	return view
}

// productID reads the {id} route variable.
func productID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

// formImage reads the optional image upload from a multipart form.
func formImage(r *http.Request) (string, []byte) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		return "", nil
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		return "", nil
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		return "", nil
	}
	return header.Filename, data
}
