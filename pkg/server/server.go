package server

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/ftddns/ftddns/pkg/audit"
	"github.com/ftddns/ftddns/pkg/authenticator"
	"github.com/ftddns/ftddns/pkg/authenticator/signature"
	"github.com/ftddns/ftddns/pkg/credentials"
	"github.com/ftddns/ftddns/pkg/store"
	"github.com/ftddns/ftddns/pkg/updater"
	"github.com/ftddns/ftddns/pkg/zone"
)

// Server wires the router to the collaborators the endpoints need.
type Server struct {
	Router    *mux.Router
	DB        *gorm.DB
	Accounts  store.AccountStore
	Basic     *authenticator.Basic
	Signature *signature.Authenticator
	Issuer    *credentials.Issuer
	Zones     *zone.Resolver
	Updater   *updater.Updater
	Hasher    *credentials.Hasher
	Logger    *slog.Logger
	Audit     *audit.Logger

	// BaseURL is the externally reachable URL embedded in rendered
	// install scripts.
	BaseURL string

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	accounts store.AccountStore,
	zones *zone.Resolver,
	upd *updater.Updater,
	hasher *credentials.Hasher,
	issuer *credentials.Issuer,
	logger *slog.Logger,
	auditLogger *audit.Logger,
	baseURL string,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:    router,
		DB:        db,
		Accounts:  accounts,
		Basic:     authenticator.NewBasic(accounts, hasher),
		Signature: signature.New(accounts),
		Issuer:    issuer,
		Zones:     zones,
		Updater:   upd,
		Hasher:    hasher,
		Logger:    logger,
		Audit:     auditLogger,
		BaseURL:   baseURL,
		srv:       srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
