package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"datahub-portal-be/internal/bootstrap"
	"datahub-portal-be/internal/config"
	"datahub-portal-be/internal/server"
	"datahub-portal-be/internal/tracer"
	"datahub-portal-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer(tracer.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
	})
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	pool := database.DefaultPoolConfig()
	pool.MaxIdleConns = cfg.Database.MaxIdleConns
	pool.MaxOpenConns = cfg.Database.MaxOpenConns
	gormDB, err := database.NewGormDBWithPool(cfg.Database.Connection, pool)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	go container.WebSocketHub.Run(ctx)

	log.Println("Background: Starting Consumer Service...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}
	if container.ActivityService != nil {
		if err := container.ActivityService.Start(ctx); err != nil {
			log.Printf("Background Activity Error: %v", err)
		}
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
