package httpserver

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"catshop/internal/domain"
	cartsvc "catshop/internal/service/cart"
	catalogsvc "catshop/internal/service/catalog"
	identitysvc "catshop/internal/service/identity"
	ordersvc "catshop/internal/service/order"
	"catshop/internal/store"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// newTestRouter wires the real services on a store rooted in a temp dir.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logDiscard()
	st := store.New(t.TempDir(), logger)
	err := st.Init([]domain.Cat{
		{ID: "cat-1", Name: "Margherita", Price: 10},
		{ID: "cat-2", Name: "Pepperoni", Price: 20},
	})
	if err != nil {
		t.Fatalf("init store: %v", err)
	}

	carts := cartsvc.New()
	return buildRouter(logger, Deps{
		Catalog:  catalogsvc.New(st),
		Identity: identitysvc.New(st, carts, logger),
		Carts:    carts,
		Orders:   ordersvc.New(st, carts, logger),
	}, nil)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeItems(t *testing.T, rec *httptest.ResponseRecorder) []domain.CartItem {
	t.Helper()
	var resp struct {
		Items []domain.CartItem `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode items: %v (%s)", err, rec.Body.String())
	}
	return resp.Items
}

func registerAndLogin(t *testing.T, router *gin.Engine, name, email, password string) string {
	t.Helper()
	body := `{"name":"` + name + `","email":"` + email + `","password":"` + password + `"}`
	if rec := doJSON(t, router, http.MethodPost, "/api/register", body, ""); rec.Code != http.StatusCreated {
		t.Fatalf("register: status %d: %s", rec.Code, rec.Body.String())
	}
	rec := doJSON(t, router, http.MethodPost, "/api/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return resp.Token
}

func TestHealthAndReady(t *testing.T) {
	router := newTestRouter(t)

	if rec := doJSON(t, router, http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: status %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodGet, "/readyz", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz: status %d", rec.Code)
	}
}

func TestListCats(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/cats", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var cats []domain.Cat
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cats) != 2 || cats[0].ID != "cat-1" {
		t.Fatalf("unexpected catalog: %+v", cats)
	}
}

func TestRegisterAndDuplicate(t *testing.T) {
	router := newTestRouter(t)

	body := `{"name":"A","email":"a@x.com","password":"p"}`
	rec := doJSON(t, router, http.MethodPost, "/api/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var user domain.PublicUser
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.ID != "user-1" || user.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if strings.Contains(rec.Body.String(), `"password"`) {
		t.Fatal("register response must not carry the password")
	}

	if rec := doJSON(t, router, http.MethodPost, "/api/register", body, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate email: expected 400, got %d", rec.Code)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/register", `{"email":"a@x.com"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoginFailures(t *testing.T) {
	router := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/register", `{"name":"A","email":"a@x.com","password":"p"}`, "")

	if rec := doJSON(t, router, http.MethodPost, "/api/login", `{"email":"a@x.com"}`, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing password: expected 400, got %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"wrong"}`, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad credentials: expected 401, got %d", rec.Code)
	}
}

func TestAnonymousCartAddMergesQuantities(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/cart/items", `{"id":"cat-1","name":"X","price":10}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodPost, "/api/cart/items", `{"id":"cat-1","name":"X","price":10,"quantity":2}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	items := decodeItems(t, rec)
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("expected one line with quantity 3, got %+v", items)
	}
}

func TestCartAddInvalidItem(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/cart/items", `{"id":"cat-1","name":"X"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("item without price: expected 400, got %d", rec.Code)
	}
}

func TestCartSetQuantity(t *testing.T) {
	router := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/cart/items", `{"id":"cat-1","name":"X","price":10}`, "")

	rec := doJSON(t, router, http.MethodPatch, "/api/cart/items/cat-1", `{"quantity":"three"}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric quantity: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPatch, "/api/cart/items/cat-1", `{"quantity":5}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	items := decodeItems(t, rec)
	if len(items) != 1 || items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %+v", items)
	}

	rec = doJSON(t, router, http.MethodPatch, "/api/cart/items/cat-1", `{"quantity":0}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if items := decodeItems(t, rec); len(items) != 0 {
		t.Fatalf("quantity 0 must drop the line, got %+v", items)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	router := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/cart/items", `{"id":"cat-1","name":"X","price":10}`, "")
	doJSON(t, router, http.MethodPost, "/api/cart/items", `{"id":"cat-2","name":"Y","price":20}`, "")

	if rec := doJSON(t, router, http.MethodDelete, "/api/cart/items/cat-1", "", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("remove: expected 204, got %d", rec.Code)
	}
	rec := doJSON(t, router, http.MethodGet, "/api/cart", "", "")
	if items := decodeItems(t, rec); len(items) != 1 || items[0].ID != "cat-2" {
		t.Fatalf("expected only cat-2 left, got %+v", items)
	}

	if rec := doJSON(t, router, http.MethodPost, "/api/cart/clear", "", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear: expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/cart", "", "")
	if items := decodeItems(t, rec); len(items) != 0 {
		t.Fatalf("expected empty cart, got %+v", items)
	}
}

func TestLoginMovesGuestCartToUser(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/cart/items", `{"id":"cat-1","name":"X","price":10}`, "")
	token := registerAndLogin(t, router, "A", "a@x.com", "p")

	rec := doJSON(t, router, http.MethodGet, "/api/cart", "", token)
	if items := decodeItems(t, rec); len(items) != 1 || items[0].ID != "cat-1" {
		t.Fatalf("user cart should hold the guest line, got %+v", items)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/cart", "", "")
	if items := decodeItems(t, rec); len(items) != 0 {
		t.Fatalf("guest cart must be empty after the merge, got %+v", items)
	}
}

func TestCheckoutClearsCartAndComputesTotal(t *testing.T) {
	router := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/cart/items", `{"id":"cat-1","name":"X","price":10,"quantity":3}`, "")

	rec := doJSON(t, router, http.MethodPost, "/api/orders", `{"customer":{"city":"Riga","street":"Main","house":"1","payment":"cash"}}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var order domain.Order
	if err := json.Unmarshal(rec.Body.Bytes(), &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order.ID != "order-1" || order.TotalPrice != 30 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if order.Customer == nil || order.Customer.City != "Riga" {
		t.Fatalf("customer info lost: %+v", order.Customer)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/cart", "", "")
	if items := decodeItems(t, rec); len(items) != 0 {
		t.Fatalf("cart must be empty after checkout, got %+v", items)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodPost, "/api/orders", `{}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty cart checkout: expected 400, got %d", rec.Code)
	}
}

func TestOrdersAreScopedByIdentity(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "A", "a@x.com", "p")

	doJSON(t, router, http.MethodPost, "/api/cart/items", `{"id":"cat-1","name":"X","price":10}`, token)
	if rec := doJSON(t, router, http.MethodPost, "/api/orders", `{}`, token); rec.Code != http.StatusCreated {
		t.Fatalf("checkout: status %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/orders", "", token)
	var resp struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Orders) != 1 {
		t.Fatalf("expected one order for the user, got %+v", resp.Orders)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/orders", "", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Orders) != 0 {
		t.Fatalf("anonymous must not see the user's orders, got %+v", resp.Orders)
	}
}

func TestDeleteOrdersByEmail(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "A", "a@x.com", "p")
	doJSON(t, router, http.MethodPost, "/api/cart/items", `{"id":"cat-1","name":"X","price":10}`, token)
	doJSON(t, router, http.MethodPost, "/api/orders", `{}`, token)

	if rec := doJSON(t, router, http.MethodDelete, "/api/orders/by-email", `{}`, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing email: expected 400, got %d", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodDelete, "/api/orders/by-email", `{"email":"nobody@x.com"}`, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown email: expected 404, got %d", rec.Code)
	}

	rec := doJSON(t, router, http.MethodDelete, "/api/orders/by-email", `{"email":"a@x.com"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		DeletedCount int `json:"deletedCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.DeletedCount != 1 {
		t.Fatalf("expected 1 deleted order, got %d", resp.DeletedCount)
	}
}

func TestDeleteUserByEmailRevokesToken(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "A", "a@x.com", "p")
	doJSON(t, router, http.MethodPost, "/api/cart/items", `{"id":"cat-1","name":"X","price":10}`, token)
	doJSON(t, router, http.MethodPost, "/api/orders", `{}`, token)

	rec := doJSON(t, router, http.MethodDelete, "/api/users/by-email", `{"email":"a@x.com"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		DeletedUsersCount  int `json:"deletedUsersCount"`
		DeletedOrdersCount int `json:"deletedOrdersCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.DeletedUsersCount != 1 || resp.DeletedOrdersCount != 1 {
		t.Fatalf("unexpected counts: %+v", resp)
	}

	// The revoked token now resolves to the anonymous identity, whose
	// order list is empty.
	rec = doJSON(t, router, http.MethodGet, "/api/orders", "", token)
	var orders struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &orders); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(orders.Orders) != 0 {
		t.Fatalf("revoked token must behave as anonymous, got %+v", orders.Orders)
	}

	// Logging in again fails: the user is gone.
	rec = doJSON(t, router, http.MethodPost, "/api/login", `{"email":"a@x.com","password":"p"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("deleted user login: expected 401, got %d", rec.Code)
	}
}
