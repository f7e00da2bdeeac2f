package metrics

const (
	LabelResource   = "resource"
	LabelOperation  = "operation"
	LabelEndpoint   = "endpoint"
	LabelState      = "state"
	LabelService    = "service"
	LabelHandler    = "handler"
	LabelMethod     = "method"
	LabelStatusCode = "code"
)

const (
	ResourceNode     = "node"
	ResourceGroup    = "group"
	ResourceDKGRound = "dkg_round"
)
