package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/adapter"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/availability"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/config"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/dispatch"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/handler"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/queue"
	"github.com/sysu-ecnc-dev/availability-sync/backend/internal/repository"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.OperationTimeout)*time.Second)
	defer cancel()

	// redis 只用于缓存和提示信息，连接失败时仍然可以提供服务
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("无法连接到 redis，将不使用缓存", "error", err)
		rdb = nil
	}

	/**********************************************
	 * 创建 repository
	 **********************************************/
	httpClient := &http.Client{Timeout: cfg.RequestTimeout()}
	repo := repository.NewRepository(cfg, httpClient, rdb)

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	sinks := []dispatch.AlertSink{repo}
	if cfg.RabbitMQ.DSN != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			logger.Error("无法连接到 rabbitmq", "error", err)
			return
		}
		defer conn.Close()

		// 建立通道
		ch, err := conn.Channel()
		if err != nil {
			logger.Error("无法建立通道", "error", err)
			return
		}
		defer ch.Close()

		if _, err := queue.Declare(ch, cfg.RabbitMQ.Queue); err != nil {
			logger.Error("无法声明队列", "error", err)
			return
		}

		publisher := queue.NewPublisher(ch, cfg.RabbitMQ.Queue, cfg.Email.AlertRecipients, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
		sinks = append(sinks, publisher)
	} else {
		logger.Warn("未配置 rabbitmq，提示信息不会通过邮件发送")
	}

	/**********************************************
	 * 创建 service 与 dispatcher
	 **********************************************/
	svc := availability.NewService(repo, adapter.New(cfg.Location()))
	dispatcher := dispatch.NewDispatcher(repo, sinks...)

	metrics.Register()

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, repo, svc, dispatcher)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port, "rostering", cfg.Rostering.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭")
}
