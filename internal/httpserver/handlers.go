package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"catshop/internal/domain"
	cartsvc "catshop/internal/service/cart"
	identitysvc "catshop/internal/service/identity"
	ordersvc "catshop/internal/service/order"
)

type itemsResponse struct {
	Items []domain.CartItem `json:"items"`
}

func listCatsHandler(logger *log.Logger, catalog CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := catalog.List(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, cats)
	}
}

func registerHandler(logger *log.Logger, identity IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in identitysvc.RegisterInput
		// A malformed body is treated like an empty one; the service
		// reports the missing fields.
		_ = c.ShouldBindJSON(&in)

		user, err := identity.Register(c.Request.Context(), in)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func loginHandler(logger *log.Logger, identity IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = c.ShouldBindJSON(&req)

		token, user, err := identity.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

func deleteUserHandler(logger *log.Logger, identity IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		_ = c.ShouldBindJSON(&req)

		res, err := identity.DeleteUserByEmail(c.Request.Context(), req.Email)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func getCartHandler(identity IdentityService, carts CartRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identity.Resolve(c.GetHeader("Authorization"))
		c.JSON(http.StatusOK, itemsResponse{Items: carts.Get(id)})
	}
}

func addCartItemHandler(logger *log.Logger, identity IdentityService, carts CartRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cartsvc.AddInput
		_ = c.ShouldBindJSON(&in)

		id := identity.Resolve(c.GetHeader("Authorization"))
		items, err := carts.Add(id, in)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, itemsResponse{Items: items})
	}
}

func setCartQuantityHandler(logger *log.Logger, identity IdentityService, carts CartRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Quantity *float64 `json:"quantity"`
		}
		_ = c.ShouldBindJSON(&req)

		id := identity.Resolve(c.GetHeader("Authorization"))
		items, err := carts.SetQuantity(id, c.Param("id"), req.Quantity)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, itemsResponse{Items: items})
	}
}

func removeCartItemHandler(identity IdentityService, carts CartRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identity.Resolve(c.GetHeader("Authorization"))
		carts.Remove(id, c.Param("id"))
		c.Status(http.StatusNoContent)
	}
}

func clearCartHandler(identity IdentityService, carts CartRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identity.Resolve(c.GetHeader("Authorization"))
		carts.Clear(id)
		c.Status(http.StatusNoContent)
	}
}

func createOrderHandler(logger *log.Logger, identity IdentityService, orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ordersvc.CreateInput
		_ = c.ShouldBindJSON(&in)

		id := identity.Resolve(c.GetHeader("Authorization"))
		order, err := orders.Create(c.Request.Context(), id, in)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func listOrdersHandler(logger *log.Logger, identity IdentityService, orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identity.Resolve(c.GetHeader("Authorization"))
		list, err := orders.List(c.Request.Context(), id)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": list})
	}
}

func deleteOrdersHandler(logger *log.Logger, orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		_ = c.ShouldBindJSON(&req)

		count, err := orders.DeleteByEmail(c.Request.Context(), req.Email)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deletedCount": count})
	}
}
