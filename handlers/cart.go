// ABOUTME: Session-backed cart handlers
// ABOUTME: The cart lives in the session store; checkout is a dead-end page

package handlers

import (
	"net/http"
	"strconv"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/store"
)

func (h *Handler) cart(sess *session) models.Cart {
	raw, _ := sess.store.Get(store.KeyCart)
	return models.DecodeCart(raw)
}

func (h *Handler) saveCart(sess *session, cart models.Cart) {
	sess.store.Set(store.KeyCart, cart.Encode())
}

// Cart renders the cart page.
func (h *Handler) Cart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	cart := h.cart(sess)
	h.render(w, "cart.html", sess, map[string]interface{}{
		"Cart":      cart,
		"CartCount": cart.Count(),
		"Total":     cart.Total(),
	})
}

// AddToCart snapshots the listing into the session cart.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
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

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || quantity < 1 {
		quantity = 1
	}

	cart := h.cart(sess)
	cart.Add(models.CartItem{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  quantity,
	})
	h.saveCart(sess, cart)

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// RemoveFromCart drops a product from the session cart.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
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

	cart := h.cart(sess)
	cart.Remove(id)
	h.saveCart(sess, cart)

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
