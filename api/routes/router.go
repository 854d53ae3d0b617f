package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/backoffice-api/api/controllers"
	"github.com/angelmondragon/backoffice-api/api/middleware"
	"github.com/angelmondragon/backoffice-api/internal/adminusers"
	"github.com/angelmondragon/backoffice-api/internal/auth"
	"github.com/angelmondragon/backoffice-api/internal/categories"
	"github.com/angelmondragon/backoffice-api/internal/customers"
	"github.com/angelmondragon/backoffice-api/internal/inventory"
	"github.com/angelmondragon/backoffice-api/internal/media"
	"github.com/angelmondragon/backoffice-api/internal/options"
	"github.com/angelmondragon/backoffice-api/internal/orders"
	"github.com/angelmondragon/backoffice-api/internal/products"
	"github.com/angelmondragon/backoffice-api/internal/shipments"
	"github.com/angelmondragon/backoffice-api/internal/system"
	"github.com/angelmondragon/backoffice-api/pkg/config"
	"github.com/angelmondragon/backoffice-api/pkg/db"
	"github.com/angelmondragon/backoffice-api/pkg/enums"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
	pkgredis "github.com/angelmondragon/backoffice-api/pkg/redis"
)

// managerRoles may manage admin accounts and global preferences; staff
// cannot.
var managerRoles = []enums.AdminRole{enums.AdminRoleSuperAdmin, enums.AdminRoleAdmin}

// RedisStore is the Redis surface the router needs: login counters,
// idempotency records and the readiness ping.
type RedisStore interface {
	middleware.RateLimitStore
	pkgredis.IdempotencyStore
	Ping(ctx context.Context) error
}

// RequestObserver records per-route request metrics.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// Dependencies carries everything NewRouter wires. Redis, Metrics and
// Gatherer may be nil; a nil service answers its routes with 500.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Database db.Pinger
	Redis    RedisStore
	Metrics  RequestObserver
	Gatherer prometheus.Gatherer

	Auth       auth.Service
	AdminUsers adminusers.Service
	Customers  customers.Service
	Categories categories.Service
	Products   products.Service
	Options    options.Service
	Orders     orders.Service
	Shipments  shipments.Service
	Inventory  inventory.Service
	System     system.Service
	Media      media.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	var (
		rateStore   middleware.RateLimitStore
		idemStore   pkgredis.IdempotencyStore
		redisPinger controllers.Pinger
	)
	if deps.Redis != nil {
		rateStore, idemStore, redisPinger = deps.Redis, deps.Redis, deps.Redis
	}

	var auditWriter middleware.AuditWriter
	if deps.System != nil {
		auditWriter = deps.System
	}

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Recoverer(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Database, redisPinger))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route(middleware.APIPrefix, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(middleware.LoginRateLimitPolicy("admin_login", cfg.AuthRateLimit), rateStore, logg))
			r.Post("/adminAuth/login", controllers.AdminAuthLogin(deps.Auth, logg))
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(middleware.LoginRateLimitPolicy("customer_login", cfg.AuthRateLimit), rateStore, logg))
			r.Post("/customerAuth/login", controllers.CustomerAuthLogin(deps.Auth, logg))
		})

		adminOnly := []func(http.Handler) http.Handler{
			middleware.Auth(cfg.JWT, logg),
			middleware.RequireAdmin(logg),
			middleware.Audit(auditWriter, logg),
			middleware.Idempotency(idemStore, logg),
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/adminAuth/me", controllers.AdminAuthMe(deps.Auth, logg))
			r.Post("/adminAuth/logout", controllers.AuthLogout())
			r.Get("/customerAuth/me", controllers.CustomerAuthMe(deps.Auth, logg))
			r.Post("/customerAuth/logout", controllers.AuthLogout())
		})

		r.Group(func(r chi.Router) {
			r.Use(adminOnly...)

			mountCategories(r, deps.Categories, logg)
			mountAdminUsers(r, deps.AdminUsers, logg)
			mountCustomers(r, deps.Customers, logg)
			mountProducts(r, deps.Products, logg)
			mountOptions(r, deps.Options, logg)
			mountOrders(r, deps.Orders, logg)
			mountShipments(r, deps.Shipments, logg)
			mountInventory(r, deps.Inventory, logg)

			owners := controllers.ImageOwners{
				Admins:     deps.AdminUsers,
				Customers:  deps.Customers,
				Categories: deps.Categories,
			}
			r.Post("/admin/cloudflare-avatar", controllers.MediaUpload(deps.Media, owners, cfg.Media.MaxUploadBytes, logg))
			r.Delete("/admin/cloudflare-image", controllers.MediaDelete(deps.Media, logg))
		})

		mountSystem(r, deps.System, adminOnly, logg)
	})

	return r
}

func mountCategories(r chi.Router, svc categories.Service, logg *logger.Logger) {
	r.Route("/product_categories", func(r chi.Router) {
		r.Get("/", controllers.CategoryList(svc, logg))
		r.Post("/", controllers.CategoryCreate(svc, logg))
		r.Get("/tree", controllers.CategoryTree(svc, logg))
		r.Get("/{id}", controllers.CategoryGet(svc, logg))
		r.Put("/{id}", controllers.CategoryUpdate(svc, logg))
		r.Delete("/{id}", controllers.CategoryDelete(svc, logg))
		r.Get("/{id}/children", controllers.CategoryChildren(svc, logg))
		r.Get("/{id}/lineage", controllers.CategoryLineage(svc, logg))
		r.Delete("/{id}/hero_image", controllers.CategoryClearHeroImage(svc, logg))
	})
}

func mountAdminUsers(r chi.Router, svc adminusers.Service, logg *logger.Logger) {
	r.Route("/adminUsers", func(r chi.Router) {
		r.Use(middleware.RequireRole(logg, managerRoles...))
		r.Get("/", controllers.AdminUserList(svc, logg))
		r.Post("/", controllers.AdminUserCreate(svc, logg))
		r.Get("/{id}", controllers.AdminUserGet(svc, logg))
		r.Put("/{id}", controllers.AdminUserUpdate(svc, logg))
		r.Delete("/{id}", controllers.AdminUserDelete(svc, logg))
		r.Post("/{id}/validatePassword", controllers.AdminUserValidatePassword(svc, logg))
	})
}

func mountCustomers(r chi.Router, svc customers.Service, logg *logger.Logger) {
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", controllers.CustomerList(svc, logg))
		r.Post("/", controllers.CustomerCreate(svc, logg))
		r.Get("/{id}", controllers.CustomerGet(svc, logg))
		r.Put("/{id}", controllers.CustomerUpdate(svc, logg))
		r.Delete("/{id}", controllers.CustomerDelete(svc, logg))
		r.Post("/{id}/validatePassword", controllers.CustomerValidatePassword(svc, logg))
	})
}

func mountProducts(r chi.Router, svc products.Service, logg *logger.Logger) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(svc, logg))
		r.Post("/", controllers.ProductCreate(svc, logg))
		r.Get("/{id}", controllers.ProductGet(svc, logg))
		r.Put("/{id}", controllers.ProductUpdate(svc, logg))
		r.Delete("/{id}", controllers.ProductDelete(svc, logg))
	})
}

func mountOptions(r chi.Router, svc options.Service, logg *logger.Logger) {
	r.Route("/product_options", func(r chi.Router) {
		r.Get("/", controllers.OptionList(svc, logg))
		r.Post("/", controllers.OptionCreate(svc, logg))
		r.Get("/{optionId}", controllers.OptionGet(svc, logg))
		r.Put("/{optionId}", controllers.OptionUpdate(svc, logg))
		r.Delete("/{optionId}", controllers.OptionDelete(svc, logg))
		r.Route("/{optionId}/variants", func(r chi.Router) {
			r.Get("/", controllers.VariantList(svc, logg))
			r.Post("/", controllers.VariantCreate(svc, logg))
			r.Get("/{variantId}", controllers.VariantGet(svc, logg))
			r.Put("/{variantId}", controllers.VariantUpdate(svc, logg))
			r.Delete("/{variantId}", controllers.VariantDelete(svc, logg))
		})
	})
	r.Route("/product_option_skus", func(r chi.Router) {
		r.Get("/", controllers.SKUList(svc, logg))
		r.Post("/", controllers.SKUCreate(svc, logg))
		r.Get("/{id}", controllers.SKUGet(svc, logg))
		r.Put("/{id}", controllers.SKUUpdate(svc, logg))
		r.Delete("/{id}", controllers.SKUDelete(svc, logg))
	})
}

func mountOrders(r chi.Router, svc orders.Service, logg *logger.Logger) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", controllers.OrderList(svc, logg))
		r.Post("/", controllers.OrderCreate(svc, logg))
		r.Get("/{orderId}", controllers.OrderGet(svc, logg))
		r.Put("/{orderId}", controllers.OrderUpdate(svc, logg))
		r.Delete("/{orderId}", controllers.OrderDelete(svc, logg))
		r.Route("/{orderId}/items", func(r chi.Router) {
			r.Get("/", controllers.OrderItemList(svc, logg))
			r.Post("/", controllers.OrderItemCreate(svc, logg))
			r.Get("/{itemId}", controllers.OrderItemGet(svc, logg))
			r.Put("/{itemId}", controllers.OrderItemUpdate(svc, logg))
			r.Delete("/{itemId}", controllers.OrderItemDelete(svc, logg))
		})
	})
}

func mountShipments(r chi.Router, svc shipments.Service, logg *logger.Logger) {
	r.Route("/shipments", func(r chi.Router) {
		r.Get("/", controllers.ShipmentList(svc, logg))
		r.Post("/", controllers.ShipmentCreate(svc, logg))
		r.Get("/{shipmentId}", controllers.ShipmentGet(svc, logg))
		r.Put("/{shipmentId}", controllers.ShipmentUpdate(svc, logg))
		r.Delete("/{shipmentId}", controllers.ShipmentDelete(svc, logg))
		r.Route("/{shipmentId}/items", func(r chi.Router) {
			r.Get("/", controllers.ShipmentItemList(svc, logg))
			r.Post("/", controllers.ShipmentItemCreate(svc, logg))
			r.Get("/{itemId}", controllers.ShipmentItemGet(svc, logg))
			r.Put("/{itemId}", controllers.ShipmentItemUpdate(svc, logg))
			r.Delete("/{itemId}", controllers.ShipmentItemDelete(svc, logg))
		})
	})
}

func mountInventory(r chi.Router, svc inventory.Service, logg *logger.Logger) {
	r.Route("/inventory", func(r chi.Router) {
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", controllers.LocationList(svc, logg))
			r.Post("/", controllers.LocationCreate(svc, logg))
			r.Get("/{id}", controllers.LocationGet(svc, logg))
			r.Put("/{id}", controllers.LocationUpdate(svc, logg))
			r.Delete("/{id}", controllers.LocationDelete(svc, logg))
		})
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.StockList(svc, logg))
			r.Put("/", controllers.StockUpsert(svc, logg))
			r.Get("/{id}", controllers.StockGet(svc, logg))
			r.Delete("/{id}", controllers.StockDelete(svc, logg))
		})
	})
}

// mountSystem keeps preference reads public; every other system route
// runs behind the admin stack.
func mountSystem(r chi.Router, svc system.Service, adminOnly []func(http.Handler) http.Handler, logg *logger.Logger) {
	r.Route("/system", func(r chi.Router) {
		r.Get("/preferences", controllers.PreferenceList(svc, logg))
		r.Get("/preferences/{key}", controllers.PreferenceGet(svc, logg))
		r.Group(func(r chi.Router) {
			r.Use(adminOnly...)
			r.With(middleware.RequireRole(logg, managerRoles...)).Put("/preferences/{key}", controllers.PreferenceSet(svc, logg))
			r.With(middleware.RequireRole(logg, managerRoles...)).Delete("/preferences/{key}", controllers.PreferenceDelete(svc, logg))
			r.Get("/audit_logs", controllers.AuditLogList(svc, logg))
			r.Get("/database_status", controllers.DatabaseStatus(svc, logg))
		})
	})
}
