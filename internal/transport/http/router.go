package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	appaccount "smp-market/internal/app/account"
	appmarket "smp-market/internal/app/market"
	apppublic "smp-market/internal/app/public"
	apprequest "smp-market/internal/app/request"
	appsession "smp-market/internal/app/session"
	"smp-market/internal/config"
	"smp-market/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(st *store.Store, cfg config.ServerConfig) *chi.Mux {
	accountSvc := appaccount.NewService(st)
	publicSvc := apppublic.NewService(st)
	marketSvc := appmarket.NewService(st)
	sessionSvc := appsession.NewService(st)
	requestSvc := apprequest.NewService(st)

	accountHandlers := NewAccountHandlers(accountSvc)
	publicHandlers := NewPublicHandlers(publicSvc, sessionSvc)
	marketHandlers := NewMarketHandlers(marketSvc)
	sessionHandlers := NewSessionHandlers(sessionSvc)
	requestHandlers := NewRequestHandlers(requestSvc)
	adminHandlers := NewAdminHandlers(st, marketSvc, sessionSvc, requestSvc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Post("/accounts/register", accountHandlers.Register())

		r.Get("/public/nfts", publicHandlers.NFTs())
		r.Get("/public/nfts/{nft_id}", publicHandlers.NFT())
		r.Get("/public/sessions/active", publicHandlers.ActiveSession())

		r.Group(func(r chi.Router) {
			r.Use(AccountAuthMiddleware(st))
			r.Get("/accounts/me", accountHandlers.Me())
			r.Post("/sessions/{session_id}/register", sessionHandlers.Register())
			r.Get("/sessions/{session_id}/registered", sessionHandlers.Registered())
			r.Post("/nfts/{nft_id}/buy", marketHandlers.Buy())
			r.Post("/nfts/{nft_id}/pay", marketHandlers.Pay())
			r.Post("/checkout", marketHandlers.Checkout())
			r.Get("/checkout/pending", marketHandlers.Pending())
			r.Get("/me/transactions", marketHandlers.Transactions())
			r.Get("/me/ledger", publicHandlers.Ledger())
			r.Post("/requests", requestHandlers.Create())
			r.Get("/me/requests", requestHandlers.Mine())
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Route("/admin", func(r chi.Router) {
				r.Post("/nfts", adminHandlers.CreateNFT())
				r.Patch("/nfts/{nft_id}", adminHandlers.UpdateNFT())
				r.Delete("/nfts/{nft_id}", adminHandlers.DeleteNFT())
				r.Post("/sessions", adminHandlers.CreateSession())
				r.Post("/sessions/{session_id}/close", adminHandlers.CloseSession())
				r.Get("/sessions/{session_id}/registrations", adminHandlers.SessionRegistrations())
				r.Post("/requests/{request_id}/resolve", adminHandlers.ResolveRequest())
				r.Get("/accounts", adminHandlers.Accounts())
				r.Get("/ledger", adminHandlers.Ledger())
				r.Get("/requests", adminHandlers.Requests())

				r.Route("/debug", func(r chi.Router) {
					r.Use(BodyCaptureMiddleware(4096))
					r.Get("/vars", expvar.Handler().ServeHTTP)
				})
			})
		})
	})

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
