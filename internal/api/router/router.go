package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"gofarma/internal/api/alerta"
	"gofarma/internal/api/categoria"
	"gofarma/internal/api/cliente"
	"gofarma/internal/api/dashboard"
	"gofarma/internal/api/estoque"
	"gofarma/internal/api/medicamento"
	"gofarma/internal/api/user"
	"gofarma/internal/api/venda"
	"gofarma/internal/domain"
	"gofarma/internal/pkg/cache"
	"gofarma/internal/pkg/middleware"
)

// Handlers agrupa os handlers já inicializados, para injeção no roteador.
type Handlers struct {
	Categoria   *categoria.Handler
	Medicamento *medicamento.Handler
	Cliente     *cliente.Handler
	Estoque     *estoque.Handler
	Alerta      *alerta.Handler
	Venda       *venda.Handler
	Dashboard   *dashboard.Handler
	User        *user.Handler
}

// RateLimitConfig parametriza o limitador de requisições por IP.
type RateLimitConfig struct {
	MaxRequests int
	Period      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// As rotas de negócio exigem JWT; registro/login, health check e a documentação
// Swagger são públicos. O conjunto inteiro fica atrás do rate limiter.
func NewRouter(h Handlers, tokenSvc middleware.TokenService, cacheClient cache.Client, rl RateLimitConfig) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(tokenSvc)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.PermissionMiddleware(domain.RoleAdmin)(next))
	}

	// Health check
	mux.HandleFunc("GET /ping", PingHandler)

	// Documentação da API
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Usuários (rotas públicas)
	mux.HandleFunc("POST /v1/users/register", h.User.RegisterHandler)
	mux.HandleFunc("POST /v1/users/login", h.User.LoginHandler)

	// Categorias
	mux.HandleFunc("POST /v1/categorias", auth(h.Categoria.CriarHandler))
	mux.HandleFunc("GET /v1/categorias", auth(h.Categoria.ListarHandler))
	mux.HandleFunc("GET /v1/categorias/{id}", auth(h.Categoria.BuscarHandler))
	mux.HandleFunc("PUT /v1/categorias/{id}", auth(h.Categoria.AtualizarHandler))
	mux.HandleFunc("DELETE /v1/categorias/{id}", admin(h.Categoria.RemoverHandler))

	// Medicamentos (catálogo)
	mux.HandleFunc("POST /v1/medicamentos", auth(h.Medicamento.CriarHandler))
	mux.HandleFunc("GET /v1/medicamentos", auth(h.Medicamento.ListarHandler))
	mux.HandleFunc("GET /v1/medicamentos/{id}", auth(h.Medicamento.BuscarHandler))
	mux.HandleFunc("PUT /v1/medicamentos/{id}", auth(h.Medicamento.AtualizarHandler))
	mux.HandleFunc("PATCH /v1/medicamentos/{id}/status", auth(h.Medicamento.AlterarStatusHandler))
	mux.HandleFunc("DELETE /v1/medicamentos/{id}", admin(h.Medicamento.RemoverHandler))
	mux.HandleFunc("GET /v1/medicamentos/{id}/movimentacoes", auth(h.Estoque.ListarPorMedicamentoHandler))

	// Clientes
	mux.HandleFunc("POST /v1/clientes", auth(h.Cliente.CriarHandler))
	mux.HandleFunc("GET /v1/clientes", auth(h.Cliente.ListarHandler))
	mux.HandleFunc("GET /v1/clientes/{id}", auth(h.Cliente.BuscarHandler))
	mux.HandleFunc("PUT /v1/clientes/{id}", auth(h.Cliente.AtualizarHandler))
	mux.HandleFunc("DELETE /v1/clientes/{id}", admin(h.Cliente.RemoverHandler))
	mux.HandleFunc("GET /v1/clientes/{id}/vendas", auth(h.Cliente.VendasHandler))

	// Estoque (livro-razão)
	mux.HandleFunc("POST /v1/estoque/movimentacoes", auth(h.Estoque.RegistrarHandler))
	mux.HandleFunc("GET /v1/estoque/movimentacoes", auth(h.Estoque.ListarHandler))

	// Alertas
	mux.HandleFunc("GET /v1/alertas", auth(h.Alerta.ListarHandler))

	// Vendas
	mux.HandleFunc("POST /v1/vendas", auth(h.Venda.CriarHandler))
	mux.HandleFunc("GET /v1/vendas", auth(h.Venda.ListarHandler))
	mux.HandleFunc("GET /v1/vendas/{id}", auth(h.Venda.BuscarHandler))

	// Painel
	mux.HandleFunc("GET /v1/dashboard", auth(h.Dashboard.EstatisticasHandler))

	return middleware.RateLimiter(cacheClient, rl.MaxRequests, rl.Period)(mux)
}

// PingHandler é o health check da aplicação.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
