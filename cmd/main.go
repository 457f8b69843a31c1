package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gofarma/config"
	"gofarma/internal/pkg/audit"
	"gofarma/internal/pkg/cache"
	"gofarma/internal/pkg/database"
	"gofarma/internal/pkg/logger"
	"gofarma/internal/pkg/token"

	"gofarma/internal/api/alerta"
	"gofarma/internal/api/categoria"
	"gofarma/internal/api/cliente"
	"gofarma/internal/api/dashboard"
	"gofarma/internal/api/estoque"
	"gofarma/internal/api/medicamento"
	"gofarma/internal/api/router"
	"gofarma/internal/api/user"
	"gofarma/internal/api/venda"

	"gofarma/internal/repository/categoriarepo"
	"gofarma/internal/repository/clienterepo"
	"gofarma/internal/repository/estoquerepo"
	"gofarma/internal/repository/medicamentorepo"
	"gofarma/internal/repository/userrepo"
	"gofarma/internal/repository/vendarepo"

	"gofarma/internal/service/alertaservice"
	"gofarma/internal/service/categoriaservice"
	"gofarma/internal/service/clienteservice"
	"gofarma/internal/service/dashboardservice"
	"gofarma/internal/service/estoqueservice"
	"gofarma/internal/service/medicamentoservice"
	"gofarma/internal/service/userservice"
	"gofarma/internal/service/vendaservice"
)

func main() {
	// O arquivo .env é opcional: em containers as variáveis vêm do ambiente.
	if err := godotenv.Load(); err != nil {
		log.Println("Aviso: arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	logg := logger.NewLogger(cfg.LogLevel)
	logg.Info("Configurações carregadas.", nil)

	// Infraestrutura: PostgreSQL e Redis
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		logg.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	logg.Info("Conexão PostgreSQL estabelecida.", nil)

	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	logg.Info("Conexão Redis estabelecida.", nil)

	// Colaboradores transversais
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	notifier := audit.NewLogNotifier(logg, cfg.AuditBufferSize)
	defer notifier.Close()

	// Injeção de dependências: Repository -> Service -> Handler
	categoriaRepo := categoriarepo.NewCategoriaRepository(db, cfg.DBTimeout, logg)
	medicamentoRepo := medicamentorepo.NewMedicamentoRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, logg)
	clienteRepo := clienterepo.NewClienteRepository(db, cfg.DBTimeout, logg)
	estoqueRepo := estoquerepo.NewEstoqueRepository(db, cacheClient, cfg.DBTimeout, logg)
	vendaRepo := vendarepo.NewVendaRepository(db, cfg.DBTimeout, logg)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, logg)

	categoriaSvc := categoriaservice.NewService(categoriaRepo, logg)
	medicamentoSvc := medicamentoservice.NewService(medicamentoRepo, categoriaRepo, notifier, logg)
	clienteSvc := clienteservice.NewService(clienteRepo, notifier, logg)
	estoqueSvc := estoqueservice.NewService(estoqueRepo, notifier, logg)
	alertaSvc := alertaservice.NewService(medicamentoRepo, cfg.AlertLowStockThreshold, cfg.AlertExpiryWindowDays, logg)
	vendaSvc := vendaservice.NewService(medicamentoRepo, clienteRepo, estoqueSvc, vendaRepo, notifier, logg)
	dashboardSvc := dashboardservice.NewService(medicamentoRepo, clienteRepo, vendaRepo, alertaSvc, logg)
	userSvc := userservice.NewService(userRepo, tokenSvc, logg)

	handlers := router.Handlers{
		Categoria:   categoria.NewHandler(categoriaSvc, logg),
		Medicamento: medicamento.NewHandler(medicamentoSvc, logg),
		Cliente:     cliente.NewHandler(clienteSvc, vendaSvc, logg),
		Estoque:     estoque.NewHandler(estoqueSvc, logg),
		Alerta:      alerta.NewHandler(alertaSvc, logg),
		Venda:       venda.NewHandler(vendaSvc, logg),
		Dashboard:   dashboard.NewHandler(dashboardSvc, logg),
		User:        user.NewHandler(userSvc, logg),
	}

	r := router.NewRouter(handlers, tokenSvc, cacheClient, router.RateLimitConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Period:      cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logg.Info("Servidor GoFarma ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal("Servidor falhou.", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logg.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logg.Error("Desligamento do servidor forçado.", err)
	}

	logg.Info("Servidor encerrado com sucesso.", nil)
}
