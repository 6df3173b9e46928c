package handler

import (
	"context"
	"net/http"

	"github.com/wadjakorntonsri/folio/pkg/app"
	"github.com/wadjakorntonsri/folio/pkg/config"
	"github.com/wadjakorntonsri/folio/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	lg := logger.New(cfg.LogLevel, false)

	// Note: On Vercel, a file database is ephemeral unless DATABASE_URL points at Turso
	a, err := app.New(context.Background(), cfg, lg)
	if err != nil {
		panic(err)
	}
	mux = a.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
