// @title           图书借阅系统 API
// @version         1.0
// @description     图书借阅、归还与借阅统计接口
// @host            localhost:8080
// @BasePath        /
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	_ "github.com/xiebiao/librarysystem/docs"
	"github.com/xiebiao/librarysystem/internal/infrastructure/config"
	"github.com/xiebiao/librarysystem/pkg/logger"
	"github.com/xiebiao/librarysystem/pkg/tracing"
)

// main 主程序入口
// 启动流程: 配置 → 日志 → 链路追踪 → Wire组装 → 演示数据 → HTTP/gRPC服务 → 优雅关闭
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	log, err := logger.New(cfg.Log.Options())
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("服务异常退出")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	log.Info().
		Int("port", cfg.Server.Port).
		Str("mode", cfg.Server.Mode).
		Str("driver", cfg.Database.Driver).
		Bool("redis", cfg.Redis.Enabled).
		Bool("rabbitmq", cfg.RabbitMQ.Enabled).
		Msg("配置加载成功")

	// 3. 链路追踪(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Warn().Err(err).Msg("关闭TracerProvider失败")
			}
		}()
	}

	// 4. 依赖注入
	app, cleanup, err := InitializeApp(cfg, log)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer cleanup()

	// 5. 演示数据
	if cfg.Database.SeedDemo {
		result, err := app.seed.Execute(context.Background())
		if err != nil {
			return fmt.Errorf("加载演示数据失败: %w", err)
		}
		log.Info().Int("books", result.Books).Int("users", result.Users).Int("lendings", result.Lendings).Msg("演示数据已加载")
	}

	return app.serve()
}

// serve 启动HTTP和gRPC服务,收到SIGINT/SIGTERM或任一服务失败后优雅关闭
func (a *App) serve() error {
	errCh := make(chan error, 2)

	srv := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      a.engine,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("HTTP服务启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP服务失败: %w", err)
		}
	}()

	if a.cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", a.cfg.GRPC.Addr())
		if err != nil {
			return fmt.Errorf("监听gRPC端口失败: %w", err)
		}
		go func() {
			a.log.Info().Str("addr", lis.Addr().String()).Msg("gRPC服务启动")
			if err := a.grpc.Serve(lis); err != nil {
				errCh <- fmt.Errorf("gRPC服务失败: %w", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-quit:
		a.log.Info().Str("signal", sig.String()).Msg("收到关闭信号,开始优雅关闭")
	case runErr = <-errCh:
		a.log.Error().Err(runErr).Msg("服务失败,开始关闭")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.log.Warn().Err(err).Msg("HTTP服务关闭超时")
	}
	if a.cfg.GRPC.Enabled {
		stopped := make(chan struct{})
		go func() {
			a.grpc.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			a.grpc.Stop()
		}
	}

	a.log.Info().Msg("服务已安全关闭")
	return runErr
}
