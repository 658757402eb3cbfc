package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Commands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskbot_commands_total",
			Help: "Task commands handled, by action and result",
		},
		[]string{"action", "result"},
	)
	RemindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskbot_reminders_sent_total",
			Help: "Reminder notifications delivered to the transport",
		},
	)
	RemindersFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskbot_reminders_failed_total",
			Help: "Reminder notifications the transport rejected",
		},
	)
	ScanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taskbot_reminder_scan_duration_seconds",
			Help:    "Duration of one reminder scan tick",
			Buckets: prometheus.DefBuckets,
		},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskbot_rate_limiter_blocked_total",
			Help: "Commands blocked by the per-channel rate limiter",
		},
		[]string{"scope"},
	)
)

func init() {
	prometheus.MustRegister(Commands)
	prometheus.MustRegister(RemindersSent)
	prometheus.MustRegister(RemindersFailed)
	prometheus.MustRegister(ScanDuration)
	prometheus.MustRegister(RLBlocked)
}
