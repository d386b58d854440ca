package server

import (
	"IonAuth/internal/config"
	"IonAuth/internal/handlers"
	"IonAuth/internal/middleware"
	"IonAuth/internal/repo"
	"IonAuth/internal/service"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrPortDisabled — PORT нормализован в отрицательное значение, слушать нечего.
var ErrPortDisabled = errors.New("port is disabled")

const shutdownTimeout = 10 * time.Second

// routeSet — смонтированный набор маршрутов и соединение с БД, на котором он построен.
type routeSet struct {
	handler http.Handler
	db      *gorm.DB
}

type Server struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
	port   Port
	router chi.Router

	routes    atomic.Pointer[routeSet]
	ready     chan struct{}
	readyOnce sync.Once

	connect func(ctx context.Context, dsn string) (*gorm.DB, error)
	exit    func(code int)
}

// NewServer настраивает middleware и статику. Маршруты монтируются после попытки подключения к БД.
func NewServer(cfg *config.Config, logger *zap.SugaredLogger) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		port:    NormalizePort(cfg.Port),
		ready:   make(chan struct{}),
		connect: repo.InitDB,
		exit:    os.Exit,
	}

	r := chi.NewRouter()
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithMetrics)
	r.Use(middleware.WithCORS())
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithBodyParser(middleware.DefaultBodyLimit))
	r.Use(middleware.WithStatic(cfg.StaticRoot))
	r.Handle("/*", http.HandlerFunc(s.dispatch))
	s.router = r

	return s
}

// Handler — корневой обработчик сервера.
func (s *Server) Handler() http.Handler { return s.router }

// Port — нормализованный порт.
func (s *Server) Port() Port { return s.port }

// Ready закрывается, когда набор маршрутов смонтирован.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// dispatch передаёт запрос смонтированному набору маршрутов.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	rs := s.routes.Load()
	if rs == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Server is starting"})
		return
	}
	rs.handler.ServeHTTP(w, r)
}

// ConnectDB подключается к БД и монтирует маршруты.
// Успех — серверные маршруты и API, ошибка — только серверные. В обоих случаях в конце 404.
func (s *Server) ConnectDB(ctx context.Context) {
	db, err := s.connect(ctx, s.cfg.DatabaseDSN)
	if err != nil {
		s.logger.Errorw("database connection failed, serving server routes only", "error", err)
		s.mount(nil, nil, err)
		return
	}
	if ctx.Err() != nil {
		// сервер уже останавливается
		_ = repo.Close(db)
		s.mount(nil, nil, ctx.Err())
		return
	}
	s.logger.Infow("database connected")
	s.mount(db, service.NewUserService(repo.NewUserRepository(db)), nil)
}

func (s *Server) mount(db *gorm.DB, userService *service.UserService, dbErr error) {
	h := handlers.NewHandler(userService, dbErr, s.logger, s.cfg)
	old := s.routes.Swap(&routeSet{handler: h.Router, db: db})
	if old != nil && old.db != nil && old.db != db {
		_ = repo.Close(old.db)
	}
	s.readyOnce.Do(func() { close(s.ready) })
}

// Bootstrap запускает подключение к БД и слушает порт до отмены ctx.
func (s *Server) Bootstrap(ctx context.Context) error {
	if s.port.Disabled {
		return fmt.Errorf("%w: %q", ErrPortDisabled, s.cfg.Port)
	}

	go s.ConnectDB(ctx)

	ln, err := s.listen(ctx)
	if err != nil {
		return s.onError(err)
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Infof("Listening on %s", strings.ToLower(s.port.Bind()))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// ждём ConnectDB, чтобы Close увидел открытую БД
		select {
		case <-s.ready:
		case <-shutdownCtx.Done():
		}
		if cerr := s.Close(); err == nil {
			err = cerr
		}
		return err
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) listen(ctx context.Context) (net.Listener, error) {
	var lc net.ListenConfig
	if s.port.Pipe {
		return lc.Listen(ctx, "unix", s.port.Value)
	}
	return lc.Listen(ctx, "tcp", net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.port.Number)))
}

// onError обрабатывает только ошибки listen: EACCES и EADDRINUSE завершают процесс, остальное возвращается.
func (s *Server) onError(err error) error {
	var opErr *net.OpError
	if !errors.As(err, &opErr) || opErr.Op != "listen" {
		return err
	}
	bind := s.port.Bind()
	switch {
	case errors.Is(err, syscall.EACCES):
		s.logger.Errorf("%s requires elevated privileges", bind)
		s.exit(1)
	case errors.Is(err, syscall.EADDRINUSE):
		s.logger.Errorf("%s is already in use", bind)
		s.exit(1)
	}
	return err
}

// Close закрывает соединение с БД, если оно было открыто.
func (s *Server) Close() error {
	rs := s.routes.Load()
	if rs == nil {
		return nil
	}
	return repo.Close(rs.db)
}
