package domain

// Outcomes of handling one notice, used in logs
const (
	OutcomeSent         = "sent"
	OutcomeDropped      = "dropped"
	OutcomeRequeued     = "requeued"
	OutcomeDeadLettered = "dead_lettered"
)
