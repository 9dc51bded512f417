package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/inkdex/inkdex/backend/internal/queue"
	"github.com/inkdex/inkdex/backend/internal/util"
	"github.com/inkdex/inkdex/backend/pkg/logger"
	"github.com/inkdex/inkdex/backend/pkg/logger/console"
	"github.com/inkdex/inkdex/backend/pkg/resolve"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debug := util.GetEnvBool("DEBUG", false)
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	}))

	var aliases resolve.AliasTable
	if path := util.GetEnv("ALIAS_TABLE_PATH"); path != "" {
		table, err := resolve.LoadAliasTable(path)
		if err != nil {
			logger.Fatal("Could not load alias table", "path", path, "err", err)
		}
		aliases = table
		logger.Info("Loaded alias table", "path", path, "entries", len(table))
	}
	resolver := resolve.NewResolver(resolve.NewResolverParams{Aliases: aliases})

	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.ResolveQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	// Prefetch 1 serializes resolution passes: the pass itself relies on
	// single-writer discipline over the snapshot files.
	if err := ch.Qos(1, 0, true); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := ch.Consume(
		queue.ResolveQueue,
		"resolve_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.ResolveQueue, "err", err)
	}

	logger.Info("Listening for resolve jobs", "queue", queue.ResolveQueue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received, exiting...")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("Message channel closed")
				return
			}

			if err := queue.ProcessResolveMessage(ctx, resolver, string(msg.Body)); err != nil {
				logger.Error("Error processing message", "queue", queue.ResolveQueue, "err", err)
				queue.HandleProcessingError(ch, msg, queue.ResolveQueue)
				continue
			}
			if err := msg.Ack(false); err != nil {
				logger.Error("Failed to ack message", "err", err)
			}
		}
	}
}
