// Command budget-alerts consumes budget alerts from the broker and logs them.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"expensetracker/internal/amqp"
	"expensetracker/internal/cli"
	"expensetracker/internal/log"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.SetupLogger("info", log.ComponentAlerts).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentAlerts)

	if !cfg.AlertsEnabled() {
		logger.Error("AMQP_URL is required to consume budget alerts")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Consuming budget alerts", "queue", cfg.AMQPQueue)
	err = client.ConsumeBudgetAlerts(ctx, logAlert(logger))
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Alert consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Budget alert consumer stopped")
}

func logAlert(logger *log.Logger) amqp.AlertHandler {
	return func(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
		logger.WarnContext(ctx, "Budget exceeded",
			log.FieldCategory, msg.Category.String(),
			log.FieldPeriod, string(msg.Period),
			"window_start", msg.WindowStart.String(),
			"window_end", msg.WindowEnd.String(),
			"limit", msg.Limit.String(),
			"spent", msg.Spent.String(),
			"over_by", msg.Over().String(),
			log.FieldExpenseID, msg.ExpenseID)
		return nil
	}
}
