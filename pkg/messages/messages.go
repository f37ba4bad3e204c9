package messages

// Messages shared by the services and the gRPC boundary.
const (
	InvalidRequest      = "invalid request: %s"
	MissingField        = "missing required field %q"
	OperationInProgress = "operation already in progress, please wait"
	RequestCancelled    = "request cancelled"
	SummonerNotFound    = "summoner not found"
)
