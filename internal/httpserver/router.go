package httpserver

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
	"storefront/internal/ratelimit"
	cartsvc "storefront/internal/service/cart"
	contactsvc "storefront/internal/service/contact"
	productsvc "storefront/internal/service/product"
	usersvc "storefront/internal/service/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type cartService interface {
	Get(ctx context.Context, owner cartsvc.Owner) (*domain.Cart, error)
	Add(ctx context.Context, owner cartsvc.Owner, productID string, qty int) (*domain.Cart, error)
	SetQuantity(ctx context.Context, owner cartsvc.Owner, productID string, qty int) (*domain.Cart, error)
	Remove(ctx context.Context, owner cartsvc.Owner, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, owner cartsvc.Owner) error
}

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in productsvc.Input) (*domain.Product, error)
	Update(ctx context.Context, id string, in productsvc.Input) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type userService interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (*usersvc.Session, error)
	Login(ctx context.Context, email, password, guestSessionID string) (*usersvc.Session, error)
	Logout(ctx context.Context, token string) error
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	AccessTTLSeconds() int
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, in usersvc.AdminInput) (*domain.User, error)
	Update(ctx context.Context, id string, in usersvc.AdminInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type contactService interface {
	List(ctx context.Context, userID string) ([]domain.Contact, error)
	Get(ctx context.Context, userID, id string) (*domain.Contact, error)
	Create(ctx context.Context, userID string, in contactsvc.Input) (*domain.Contact, error)
	Update(ctx context.Context, userID, id string, in contactsvc.Input) (*domain.Contact, error)
	Delete(ctx context.Context, userID, id string) error
}

// Deps carries the services the router dispatches to. CartLimiter is
// optional; without it the cart routes are not rate limited.
type Deps struct {
	CartSvc     cartService
	ProductSvc  productService
	UserSvc     userService
	ContactSvc  contactService
	CartLimiter *ratelimit.Keyed
	CORSOrigins []string
}

func (d Deps) validate() error {
	switch {
	case d.CartSvc == nil:
		return errors.New("cart service required")
	case d.ProductSvc == nil:
		return errors.New("product service required")
	case d.UserSvc == nil:
		return errors.New("user service required")
	case d.ContactSvc == nil:
		return errors.New("contact service required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{logger: logger, deps: deps}
	api := router.Group("/api")

	cart := api.Group("/cart", rateLimit(deps.CartLimiter), authenticate(deps.UserSvc, false))
	cart.POST("", h.getCart)
	cart.POST("/add", h.addToCart)
	cart.PUT("/update", h.updateCart)
	cart.DELETE("/remove", h.removeFromCart)
	cart.DELETE("/clear", h.clearCart)

	products := api.Group("/products")
	products.GET("", h.listProducts)
	products.GET("/:id", h.getProduct)
	productAdmin := products.Group("", authenticate(deps.UserSvc, true), requireAdmin())
	productAdmin.POST("/add", h.createProduct)
	productAdmin.PUT("/update/:id", h.updateProduct)
	productAdmin.DELETE("/delete/:id", h.deleteProduct)

	users := api.Group("/users")
	users.POST("/register", h.register)
	users.POST("/login", h.login)
	authed := users.Group("", authenticate(deps.UserSvc, true))
	authed.GET("/me", h.me)
	authed.POST("/logout", h.logout)
	userAdmin := authed.Group("", requireAdmin())
	userAdmin.GET("", h.listUsers)
	userAdmin.GET("/:id", h.getUser)
	userAdmin.POST("/new", h.createUser)
	userAdmin.PUT("/update/:id", h.updateUser)
	userAdmin.DELETE("/delete/:id", h.deleteUser)

	contacts := api.Group("/contacts", authenticate(deps.UserSvc, true))
	contacts.GET("", h.listContacts)
	contacts.POST("", h.createContact)
	contacts.GET("/:id", h.getContact)
	contacts.PUT("/:id", h.updateContact)
	contacts.DELETE("/:id", h.deleteContact)

	return router, nil
}

type handlers struct {
	logger *zap.Logger
	deps   Deps
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}
