// Package server is the map viewer: it serves the tiles, the world overlay,
// the view table and a page wiring them into the mapping library.
package server

import (
	"context"
	"embed"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/voidshard/qudmap"
	"github.com/voidshard/qudmap/tiler"
)

//go:embed static
var static embed.FS

// Server serves one map.
type Server struct {
	Config *qudmap.ServerConfig
	View   *qudmap.View

	// consulted for tiles not found under Config.TilesDir, may be nil
	Index *tiler.Index

	cache  *lru.Cache[string, []byte]
	logger *slog.Logger
}

// New returns a server for `view`.
func New(view *qudmap.View, cfg *qudmap.ServerConfig) (*Server, error) {
	if view == nil {
		view = qudmap.DefaultView()
	}
	if cfg == nil {
		cfg = &qudmap.DefaultConfig().Server
	}
	if err := view.Validate(); err != nil {
		return nil, err
	}

	size := cfg.CacheSize
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, err
	}

	return &Server{
		Config: cfg,
		View:   view,
		cache:  cache,
		logger: slog.With("d", "viewer"),
	}, nil
}

// Router returns the viewer's routes.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(false)

	router.Path("/ping").HandlerFunc(pingPong).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Path("/view").HandlerFunc(s.handleView).Methods(http.MethodGet)
	api.Path("/transition").HandlerFunc(s.handleTransition).Methods(http.MethodPost)
	api.Path("/tile-url").HandlerFunc(s.handleTileURL).Methods(http.MethodGet)

	router.Path("/tiles/{level:[0-9]+}/{z:-?[0-9]+}/{x:-?[0-9]+}/{y:-?[0-9]+}").HandlerFunc(s.handleTileRedirect).Methods(http.MethodGet)
	router.Path("/tiles/{name}").HandlerFunc(s.handleTile).Methods(http.MethodGet)
	router.Path("/debug/{z:-?[0-9]+}/{x:-?[0-9]+}/{y:-?[0-9]+}.png").HandlerFunc(handleDebugTile).Methods(http.MethodGet)
	router.Path("/worldmap/{name}").HandlerFunc(s.handleWorld).Methods(http.MethodGet)

	router.Path("/").HandlerFunc(handleIndex).Methods(http.MethodGet)
	router.PathPrefix("/static/").Handler(http.FileServer(http.FS(static))).Methods(http.MethodGet)

	return router
}

// Handler returns the router wrapped in access logging & permissive CORS.
func (s *Server) Handler() http.Handler {
	cors := ghandlers.CORS(
		ghandlers.AllowedOrigins([]string{"*"}),
		ghandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost}),
		ghandlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return ghandlers.CombinedLoggingHandler(os.Stdout, cors(s.Router()))
}

// Run serves until `ctx` is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.Config.Address)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdown)
	if serveErr := <-errs; !errors.Is(serveErr, http.ErrServerClosed) && err == nil {
		err = serveErr
	}
	return err
}
