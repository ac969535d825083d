package domain

const (
	// Job Kinds
	KindState   = "state"
	KindFeed    = "feed"
	KindContent = "content"

	// Job Statuses
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"

	// Redis Key Patterns
	RedisKeyState = "enricher:%s:state:%s"

	// Field names shared by posts and curation records
	FieldScotData         = "scotData"
	FieldAuthorReputation = "author_reputation"
	FieldTokenBalances    = "token_balances"
	FieldTokenStatus      = "token_status"
	FieldTransferHistory  = "transfer_history"

	// Curation queries for the state feed view always ask for one page of this size.
	StateFeedLimit = 20

	// Transfer history page size requested from the history service.
	TransferHistoryLimit = 100
)
