// ABOUTME: End-to-end tests for the fully wired web server
// ABOUTME: Drives a real HTTP client with a cookie jar through login, browse, cart, and logout

package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/cache"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/config"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/handlers"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/middleware"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/services"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/store"
)

var csrfInputPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

// startBackend serves the minimal REST surface the flows below touch.
func startBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /accounts/login/", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]interface{}
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access":  "access-token",
			"refresh": "refresh-token",
			"user":    map[string]interface{}{"id": 7, "username": "eco", "email": "eco@example.com"},
		})
	})
	mux.HandleFunc("POST /accounts/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /products/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 1, "title": "Oak Bookshelf", "category": "furniture", "price": "120.00",
				"owner": 2, "owner_username": "sam", "is_available": true,
				"created_at": "2025-03-01T00:00:00Z"},
		})
	})
	mux.HandleFunc("GET /products/1/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 1, "title": "Oak Bookshelf", "description": "Solid oak", "category": "furniture",
			"price": "120.00", "owner": 2, "owner_username": "sam", "is_available": true,
		})
	})
	mux.HandleFunc("GET /products/categories/list/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{{"value": "furniture", "label": "Furniture"}})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// startFrontend assembles the server exactly as main.go does, middleware
// chain included, and returns it with a cookie-jar client that does not
// follow redirects.
func startFrontend(t *testing.T, backendURL string) (*httptest.Server, *http.Client) {
	t.Helper()
	cfg := &config.Config{
		Port:         "0",
		TemplatesDir: "../web/templates",
		APIBaseURL:   backendURL,
		APITimeout:   5,
		SessionTTL:   3600,
		CacheTTL:     300,
	}

	c := cache.New(5 * time.Minute)
	sessionCache := cache.New(time.Hour)
	sessions := services.NewWebSessions(func(sessionID string) store.Store {
		return store.NewMemoryStore(sessionCache, "session:"+sessionID+":", time.Hour)
	})

	templates := handlers.NewTemplateCache()
	if err := templates.Load(cfg.TemplatesDir); err != nil {
		t.Fatalf("failed to load templates: %v", err)
	}

	h := handlers.NewHandler(cfg, c, sessions, templates)
	router := mux.NewRouter()
	h.RegisterRoutes(router, middleware.NewGuard(sessions))

	handler := middleware.Chain(router,
		middleware.Recover,
		middleware.LogRequest,
		middleware.SecurityHeaders,
		middleware.CSRF(sessions),
	)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return server, client
}

// fetchCSRFToken loads a page and pulls the hidden form token out of it.
func fetchCSRFToken(t *testing.T, client *http.Client, pageURL string) string {
	t.Helper()
	resp, err := client.Get(pageURL)
	if err != nil {
		t.Fatalf("GET %s: %v", pageURL, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", pageURL, resp.StatusCode)
	}
	match := csrfInputPattern.FindSubmatch(body)
	if match == nil {
		t.Fatalf("no csrf_token input on %s", pageURL)
	}
	return string(match[1])
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(target, form)
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	return resp
}

func TestFullSessionFlow(t *testing.T) {
	backend := startBackend(t)
	server, client := startFrontend(t, backend.URL)

	// Anonymous visitors get bounced off protected pages.
	resp, err := client.Get(server.URL + "/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("anonymous /dashboard status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Errorf("anonymous /dashboard redirects to %q, want /login", loc)
	}

	// Login with the token rendered into the form.
	token := fetchCSRFToken(t, client, server.URL+"/login")
	resp = postForm(t, client, server.URL+"/login", url.Values{
		"csrf_token": {token},
		"username":   {"eco"},
		"password":   {"hunter2"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/landing" {
		t.Errorf("login redirects to %q, want /landing", loc)
	}

	// Authenticated users are pushed off the login page.
	resp, err = client.Get(server.URL + "/login")
	if err != nil {
		t.Fatalf("GET /login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("authenticated /login status = %d, want 303", resp.StatusCode)
	}

	// Browse the catalog.
	resp, err = client.Get(server.URL + "/products")
	if err != nil {
		t.Fatalf("GET /products: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/products status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Oak Bookshelf") {
		t.Error("expected product title on the products page")
	}

	// Add to cart and check it renders with the total.
	resp = postForm(t, client, server.URL+"/cart/1", url.Values{"csrf_token": {token}})
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("add to cart status = %d, want 303", resp.StatusCode)
	}
	resp, err = client.Get(server.URL + "/cart")
	if err != nil {
		t.Fatalf("GET /cart: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "120.00") {
		t.Error("expected cart total on the cart page")
	}

	// Logout clears the session; protected pages bounce again.
	resp = postForm(t, client, server.URL+"/logout", url.Values{"csrf_token": {token}})
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("logout status = %d, want 303", resp.StatusCode)
	}
	resp, err = client.Get(server.URL + "/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("post-logout /dashboard status = %d, want 303", resp.StatusCode)
	}
}

func TestCSRFRejectsDoctoredToken(t *testing.T) {
	backend := startBackend(t)
	server, client := startFrontend(t, backend.URL)

	// Prime a session so the check applies, then post a wrong token.
	fetchCSRFToken(t, client, server.URL+"/login")
	resp := postForm(t, client, server.URL+"/login", url.Values{
		"csrf_token": {"doctored"},
		"username":   {"eco"},
		"password":   {"hunter2"},
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("doctored token status = %d, want 403", resp.StatusCode)
	}
}

func TestBadCredentialsStayOnLoginPage(t *testing.T) {
	backend := startBackend(t)
	server, client := startFrontend(t, backend.URL)

	token := fetchCSRFToken(t, client, server.URL+"/login")
	resp := postForm(t, client, server.URL+"/login", url.Values{
		"csrf_token": {token},
		"username":   {"eco"},
		"password":   {"wrong"},
	})
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad credentials status = %d, want 401", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Invalid credentials") {
		t.Error("expected the backend error message rendered on the login page")
	}
}
