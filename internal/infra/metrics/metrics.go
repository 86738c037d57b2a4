package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	GraphicsTracked = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "graphics_tracked_total", Help: "Graphics put under lifecycle tracking"},
	)
	ParseRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "graphics_parse_rejected_total", Help: "Submissions whose text matched no date format"},
	)
	RemindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "graphics_reminders_sent_total", Help: "Reminder replies posted"},
	)
	ApprovalRequests = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "graphics_approval_requests_total", Help: "Deletion approval prompts sent to the moderator"},
	)
	ApprovalsResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "graphics_approvals_resolved_total", Help: "Approval decisions by outcome"},
		[]string{"outcome"},
	)
	GraphicsUnresolved = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "graphics_unresolved_total", Help: "Records routed to manual follow-up"},
	)
	EvaluatorErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "graphics_evaluator_errors_total", Help: "Per-record failures inside evaluator passes"},
		[]string{"job"},
	)
)

func MustRegister() {
	prometheus.MustRegister(
		GraphicsTracked, ParseRejected, RemindersSent,
		ApprovalRequests, ApprovalsResolved, GraphicsUnresolved, EvaluatorErrors,
	)
}
