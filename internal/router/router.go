package router

import (
	"time"

	"github.com/Shoelmaxi/floreria-web/internal/config"
	"github.com/Shoelmaxi/floreria-web/internal/handler"
	"github.com/Shoelmaxi/floreria-web/internal/middleware"
	"github.com/Shoelmaxi/floreria-web/internal/repository"
	"github.com/Shoelmaxi/floreria-web/internal/service"
	"github.com/Shoelmaxi/floreria-web/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	formulaRepo := repository.NewFormulaRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	armadoRepo := repository.NewArmadoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, formulaRepo, rdb)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo, dispatcher, rdb)
	turnoSvc := service.NewTurnoService(turnoRepo)
	armadoSvc := service.NewArmadoService(armadoRepo, formulaRepo, productoRepo, inventarioSvc)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, inventarioSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	turnosH := handler.NewTurnosHandler(turnoSvc)
	armadosH := handler.NewArmadosHandler(armadoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: empleado, analista, admin — declared per-endpoint

		// Catalog — everyone authenticated can read
		v1.GET("/productos", middleware.RequireRole("empleado", "analista", "admin"), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole("empleado", "analista", "admin"), productosH.ObtenerPorID)
		v1.GET("/productos/:id/formula", middleware.RequireRole("empleado", "analista", "admin"), productosH.ObtenerFormula)
		v1.GET("/productos/:id/movimientos", middleware.RequireRole("empleado", "analista", "admin"), inventarioH.HistorialProducto)
		// Catalog writes — admin only
		prods := v1.Group("/productos", middleware.RequireRole("admin"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
		}
		v1.POST("/formulas", middleware.RequireRole("admin"), productosH.CrearFormula)
		v1.DELETE("/formulas/:formula_id", middleware.RequireRole("admin"), productosH.EliminarFormula)

		// Inventory — employees register the daily movements, reads open to all
		inv := v1.Group("/inventario")
		{
			inv.POST("/abastecimiento", middleware.RequireRole("empleado", "admin"), inventarioH.Abastecimiento)
			inv.POST("/merma", middleware.RequireRole("empleado", "admin"), inventarioH.Merma)
			inv.POST("/ajuste", middleware.RequireRole("admin"), inventarioH.AjusteManual)
			inv.GET("/movimientos", middleware.RequireRole("empleado", "analista", "admin"), inventarioH.ListarMovimientos)
			inv.GET("/resumen", middleware.RequireRole("empleado", "analista", "admin"), inventarioH.Resumen)
		}

		// Shifts
		turnos := v1.Group("/turnos")
		{
			turnos.POST("/abrir", middleware.RequireRole("empleado", "admin"), turnosH.Abrir)
			turnos.POST("/:id/cerrar", middleware.RequireRole("empleado", "admin"), turnosH.Cerrar)
			turnos.GET("/actual", middleware.RequireRole("empleado", "analista", "admin"), turnosH.Actual)
			turnos.GET("", middleware.RequireRole("analista", "admin"), turnosH.Listar)
		}

		// Assemblies
		v1.POST("/armados", middleware.RequireRole("empleado", "admin"), armadosH.Armar)
		v1.GET("/armados", middleware.RequireRole("empleado", "analista", "admin"), armadosH.Listar)

		// Sales
		v1.POST("/ventas", middleware.RequireRole("empleado", "admin"), ventasH.Registrar)
		v1.GET("/ventas", middleware.RequireRole("empleado", "analista", "admin"), ventasH.Listar)
		v1.GET("/ventas/:id", middleware.RequireRole("empleado", "analista", "admin"), ventasH.ObtenerPorID)

		// Users — admin only
		usuarios := v1.Group("/usuarios", middleware.RequireRole("admin"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
