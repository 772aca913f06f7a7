// Package retention prunes old validation reports on a cron schedule.
package retention
