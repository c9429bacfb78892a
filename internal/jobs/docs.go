// Package jobs provides scheduled background tasks for the restaurant service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Schedules use the six-field format with seconds.
//
// # Available Jobs
//
// 1. PrinterReconnectJob - reconnects the configured printer when the connection dropped
// 2. KitchenBackfillJob - prints kitchen tickets of active orders placed while the printer was offline
//
// # Usage
//
//	reconnect := jobs.NewPrinterReconnectJob(printerHandler, dispatcher, "*/15 * * * * *", logger)
//	backfill := jobs.NewKitchenBackfillJob(backfillHandler, "*/30 * * * * *", logger)
//	jobManager := jobs.NewJobManager(backfill, reconnect)
//
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Jobs never stop on failure. An offline printer is logged as a warning and
// retried on the next tick.
package jobs
