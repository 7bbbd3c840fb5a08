// Package jobs provides the scheduled background tasks of the fulfillment service.
//
// Jobs are cron based (github.com/robfig/cron/v3, seconds field enabled):
//
//  1. ReservationExpiryJob moves ACTIVE reservations past their age threshold or explicit
//     expiry to EXPIRED, returning the held stock to the pool. Default schedule "0 */5 * * * *".
//  2. StuckOrderMonitorJob logs orders that sat in a non-terminal status longer than the
//     threshold. Default schedule "0 0 * * * *".
//
// Usage:
//
//	jobManager := jobs.NewJobManager(expiryJob, monitorJob)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// Errors inside a tick are logged and the next tick runs as scheduled.
package jobs
