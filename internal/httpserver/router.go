package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"catshop/internal/domain"
	cartsvc "catshop/internal/service/cart"
	identitysvc "catshop/internal/service/identity"
	ordersvc "catshop/internal/service/order"
)

// CatalogService lists the seeded catalog.
type CatalogService interface {
	List(ctx context.Context) ([]domain.Cat, error)
}

// IdentityService resolves callers and owns user records and tokens.
type IdentityService interface {
	Register(ctx context.Context, in identitysvc.RegisterInput) (*domain.PublicUser, error)
	Login(ctx context.Context, email, password string) (string, *domain.PublicUser, error)
	Resolve(authorization string) domain.Identity
	DeleteUserByEmail(ctx context.Context, email string) (identitysvc.DeleteResult, error)
}

// CartRegistry mutates per-identity carts.
type CartRegistry interface {
	Get(id domain.Identity) []domain.CartItem
	Add(id domain.Identity, in cartsvc.AddInput) ([]domain.CartItem, error)
	SetQuantity(id domain.Identity, itemID string, quantity *float64) ([]domain.CartItem, error)
	Remove(id domain.Identity, itemID string) []domain.CartItem
	Clear(id domain.Identity)
}

// OrderService checks out carts and lists orders.
type OrderService interface {
	Create(ctx context.Context, id domain.Identity, in ordersvc.CreateInput) (*domain.Order, error)
	List(ctx context.Context, id domain.Identity) ([]domain.Order, error)
	DeleteByEmail(ctx context.Context, email string) (int, error)
}

// Deps carries the services the router needs.
type Deps struct {
	Catalog  CatalogService
	Identity IdentityService
	Carts    CartRegistry
	Orders   OrderService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(corsOrigins) == 0 || (len(corsOrigins) == 1 && corsOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = corsOrigins
	}
	corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Catalog))

	api := router.Group("/api")
	{
		api.GET("/cats", listCatsHandler(logger, deps.Catalog))

		api.POST("/register", registerHandler(logger, deps.Identity))
		api.POST("/login", loginHandler(logger, deps.Identity))
		api.DELETE("/users/by-email", deleteUserHandler(logger, deps.Identity))

		api.GET("/cart", getCartHandler(deps.Identity, deps.Carts))
		api.POST("/cart/items", addCartItemHandler(logger, deps.Identity, deps.Carts))
		api.PATCH("/cart/items/:id", setCartQuantityHandler(logger, deps.Identity, deps.Carts))
		api.DELETE("/cart/items/:id", removeCartItemHandler(deps.Identity, deps.Carts))
		api.POST("/cart/clear", clearCartHandler(deps.Identity, deps.Carts))

		api.POST("/orders", createOrderHandler(logger, deps.Identity, deps.Orders))
		api.GET("/orders", listOrdersHandler(logger, deps.Identity, deps.Orders))
		api.DELETE("/orders/by-email", deleteOrdersHandler(logger, deps.Orders))
	}

	return router
}
