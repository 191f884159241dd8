package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsqio/go-nsq"

	"pagesift/internal/app"
	"pagesift/internal/config"
	"pagesift/internal/logger"
)

func main() {
	log := slog.New(logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil)))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := app.Bootstrap(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer deps.DB.Close()
	defer deps.NSQProducer.Stop()

	a, err := app.New(cfg, deps.DB, deps.Store, deps.NSQProducer)
	if err != nil {
		slog.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	var consumers []*nsq.Consumer

	if cfg.EnableIngestWorker {
		c, err := startConsumer(cfg, config.TopicIngestTask, "worker", cfg.IngestConcurrency, a.IngestConsumer)
		if err != nil {
			slog.Error("failed to start ingest consumer", "error", err)
			os.Exit(1)
		}
		consumers = append(consumers, c)
	}

	if cfg.EnableAPI {
		c, err := startConsumer(cfg, config.TopicIngestResult, "backend", 1, a.ResultConsumer)
		if err != nil {
			slog.Error("failed to start result consumer", "error", err)
			os.Exit(1)
		}
		consumers = append(consumers, c)
	}

	defer func() {
		for _, c := range consumers {
			c.Stop()
			<-c.StopChan
		}
	}()

	if cfg.EnableAPI {
		if err := a.Run(ctx); err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// Worker-only mode: block until a shutdown signal.
	slog.Info("worker running", "topic", config.TopicIngestTask)
	<-ctx.Done()
}

type nsqHandler interface {
	HandleMessage(m *nsq.Message) error
}

func startConsumer(cfg *config.Config, topic, channel string, concurrency int, h nsqHandler) (*nsq.Consumer, error) {
	nsqCfg := nsq.NewConfig()
	nsqCfg.MaxInFlight = concurrency

	consumer, err := nsq.NewConsumer(topic, channel, nsqCfg)
	if err != nil {
		return nil, err
	}

	consumer.AddConcurrentHandlers(nsq.HandlerFunc(func(m *nsq.Message) error {
		return h.HandleMessage(m)
	}), concurrency)

	if err := consumer.ConnectToNSQLookupd(cfg.NSQLookupd); err != nil {
		return nil, err
	}

	slog.Info("NSQ consumer connected", "topic", topic, "channel", channel, "concurrency", concurrency)
	return consumer, nil
}
