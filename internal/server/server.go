package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskapi/internal/config"
	"taskapi/internal/handler"
	"taskapi/internal/logger"
	"taskapi/internal/service"

	"github.com/gin-gonic/gin"
)

type Server struct {
	Engine *gin.Engine
	Config *config.Config
	store  *store
}

func Init(cfg *config.Config) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	taskService := service.NewTaskService(st.tasks, st.users)
	userService := service.NewUserService(st.users, st.tasks)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	Routes(r, Handlers{
		Tasks:  handler.NewTaskHandler(taskService, cfg.TaskDefaultLimit),
		Users:  handler.NewUserHandler(userService),
		Health: handler.NewHealthHandler(st.ping),
	})

	return &Server{
		Engine: r,
		Config: cfg,
		store:  st,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Server running on port %s", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("❌ Failed to listen", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("❌ Server forced to shutdown", "error", err)
	}
	if err := s.store.close(ctx); err != nil {
		logger.Error("❌ Failed to close store", "error", err)
	}

	logger.Info("✅ Server exited properly")
}
