// ABOUTME: Route table for the web frontend
// ABOUTME: Declares every page and action with its method and access guard

package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/middleware"
)

// access declares who may reach a route.
type access int

const (
	accessPublic access = iota
	accessAuth          // signed-in users only
	accessAnon          // signed-out visitors only
)

// Route defines an endpoint with its HTTP method, handler, and guard.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
	Access  access
}

// Routes returns every route for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Entry points
		{Method: http.MethodGet, Path: "/", Handler: h.Index, Access: accessPublic},
		{Method: http.MethodGet, Path: "/health", Handler: h.Health, Access: accessPublic},
		{Method: http.MethodGet, Path: "/landing", Handler: h.Landing, Access: accessAuth},
		{Method: http.MethodGet, Path: "/about", Handler: h.About, Access: accessPublic},
		{Method: http.MethodGet, Path: "/contact", Handler: h.Contact, Access: accessPublic},

		// Auth
		{Method: http.MethodGet, Path: "/login", Handler: h.LoginPage, Access: accessAnon},
		{Method: http.MethodPost, Path: "/login", Handler: h.Login, Access: accessAnon},
		{Method: http.MethodGet, Path: "/register", Handler: h.RegisterPage, Access: accessAnon},
		{Method: http.MethodPost, Path: "/register", Handler: h.Register, Access: accessAnon},
		{Method: http.MethodPost, Path: "/logout", Handler: h.Logout, Access: accessAuth},
		{Method: http.MethodGet, Path: "/forgot-password", Handler: h.PasswordResetPage, Access: accessAnon},
		{Method: http.MethodPost, Path: "/forgot-password", Handler: h.PasswordReset, Access: accessAnon},

		// Profile
		{Method: http.MethodGet, Path: "/dashboard", Handler: h.Dashboard, Access: accessAuth},
		{Method: http.MethodPost, Path: "/dashboard/profile", Handler: h.UpdateProfile, Access: accessAuth},
		{Method: http.MethodPost, Path: "/dashboard/password", Handler: h.ChangePassword, Access: accessAuth},

		// Catalog
		{Method: http.MethodGet, Path: "/categories", Handler: h.Categories, Access: accessAuth},
		{Method: http.MethodGet, Path: "/products", Handler: h.Products, Access: accessAuth},
		{Method: http.MethodGet, Path: "/products/new", Handler: h.NewProductPage, Access: accessAuth},
		{Method: http.MethodPost, Path: "/products", Handler: h.CreateProduct, Access: accessAuth},
		{Method: http.MethodGet, Path: "/products/{id:[0-9]+}", Handler: h.ProductDetail, Access: accessAuth},
		{Method: http.MethodGet, Path: "/products/{id:[0-9]+}/edit", Handler: h.EditProductPage, Access: accessAuth},
		{Method: http.MethodPost, Path: "/products/{id:[0-9]+}", Handler: h.UpdateProduct, Access: accessAuth},
		{Method: http.MethodPost, Path: "/products/{id:[0-9]+}/delete", Handler: h.DeleteProduct, Access: accessAuth},
		{Method: http.MethodPost, Path: "/products/{id:[0-9]+}/toggle", Handler: h.ToggleProduct, Access: accessAuth},
		{Method: http.MethodGet, Path: "/my-listings", Handler: h.MyListings, Access: accessAuth},

		// Cart
		{Method: http.MethodGet, Path: "/cart", Handler: h.Cart, Access: accessAuth},
		{Method: http.MethodPost, Path: "/cart/{id:[0-9]+}", Handler: h.AddToCart, Access: accessAuth},
		{Method: http.MethodPost, Path: "/cart/{id:[0-9]+}/remove", Handler: h.RemoveFromCart, Access: accessAuth},

		// Navigation stubs
		{Method: http.MethodGet, Path: "/messages", Handler: h.Placeholder("Messages"), Access: accessAuth},
		{Method: http.MethodGet, Path: "/favorites", Handler: h.Placeholder("Favorites"), Access: accessAuth},
	}
}

// RegisterRoutes wires every route onto the router with its guard applied.
func (h *Handler) RegisterRoutes(router *mux.Router, guard *middleware.Guard) {
	for _, route := range h.Routes() {
		var handler http.Handler = route.Handler
		switch route.Access {
		case accessAuth:
			handler = guard.RequireAuth(handler)
		case accessAnon:
			handler = guard.RequireAnon(handler)
		}
		router.Handle(route.Path, handler).Methods(route.Method)
	}
}
