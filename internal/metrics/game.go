// Package metrics exposes Prometheus instrumentation for game sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resistance_sessions_created_total",
		Help: "Total number of sessions created",
	})

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "resistance_sessions_active",
		Help: "Number of sessions currently held by the registry",
	})

	playersJoined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resistance_players_joined_total",
		Help: "Total number of seats claimed",
	})

	approvalVotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resistance_approval_votes_total",
		Help: "Approval votes cast by choice",
	}, []string{"vote"}) // vote=approve|reject

	proposals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resistance_proposals_total",
		Help: "Resolved operative proposals by outcome",
	}, []string{"outcome"}) // outcome=approved|rejected

	missions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resistance_missions_total",
		Help: "Resolved missions by outcome",
	}, []string{"outcome"}) // outcome=victory|failure

	gamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resistance_games_finished_total",
		Help: "Finished games by winning faction",
	}, []string{"winner"})

	operationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resistance_operation_errors_total",
		Help: "Rejected session operations by operation and error kind",
	}, []string{"op", "kind"})

	sseClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "resistance_sse_clients",
		Help: "Number of connected event stream clients",
	})
)

// RecordSessionCreated counts a new session and bumps the active gauge.
func RecordSessionCreated() {
	sessionsCreated.Inc()
	sessionsActive.Inc()
}

// RecordSessionRemoved lowers the active gauge.
func RecordSessionRemoved() {
	sessionsActive.Dec()
}

func RecordPlayerJoined() {
	playersJoined.Inc()
}

func RecordApprovalVote(approve bool) {
	if approve {
		approvalVotes.WithLabelValues("approve").Inc()
		return
	}
	approvalVotes.WithLabelValues("reject").Inc()
}

func RecordProposal(approved bool) {
	if approved {
		proposals.WithLabelValues("approved").Inc()
		return
	}
	proposals.WithLabelValues("rejected").Inc()
}

func RecordMission(outcome string) {
	missions.WithLabelValues(outcome).Inc()
}

func RecordGameFinished(winner string) {
	gamesFinished.WithLabelValues(winner).Inc()
}

// RecordOperationError counts a rejected call. kind comes from game.KindOf.
func RecordOperationError(op, kind string) {
	operationErrors.WithLabelValues(op, kind).Inc()
}

func SSEClientConnected() {
	sseClients.Inc()
}

func SSEClientDisconnected() {
	sseClients.Dec()
}
