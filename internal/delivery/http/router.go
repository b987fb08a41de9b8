package http

import (
	"context"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"crewmatch/internal/delivery/http/controllers"
	"crewmatch/internal/delivery/http/helpers"
	_ "crewmatch/internal/docs"
)

// Pinger reports whether a backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps are the handlers and guards mounted by NewRouter.
type RouterDeps struct {
	Stays       *controllers.StayController
	Crew        *controllers.CrewController
	Telegram    *controllers.TelegramController
	RequireAuth func(http.HandlerFunc) http.HandlerFunc
	Metrics     http.Handler
	DB          Pinger
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(d RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()
	auth := d.RequireAuth

	// Rosters and stays
	mux.HandleFunc("POST /rosters", auth(d.Stays.ProcessRoster))
	mux.HandleFunc("POST /stays", auth(d.Stays.RecordStay))
	mux.HandleFunc("GET /stays", auth(d.Stays.ListStays))

	// Crew profile
	mux.HandleFunc("GET /crew/me", auth(d.Crew.GetMe))
	mux.HandleFunc("PUT /crew/me/home-base", auth(d.Crew.SetHomeBase))
	mux.HandleFunc("PUT /crew/me/email-opt-in", auth(d.Crew.SetEmailOptIn))

	// Telegram bot
	mux.HandleFunc("POST /telegram/webhook", d.Telegram.Webhook)

	// Ops
	mux.HandleFunc("GET /healthz", health(d.DB))
	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics)
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "database unreachable")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
