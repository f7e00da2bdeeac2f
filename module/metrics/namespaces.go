package metrics

// Prometheus metric namespaces
const (
	namespaceRandcast = "randcast"
	namespaceStorage  = "storage"
)

// Randcast subsystems
const (
	subsystemController    = "controller"
	subsystemNotifier      = "notifier"
	subsystemSubscriptions = "subscriptions"
	subsystemRestAPI       = "rest_api"
)

// Storage subsystems
const (
	subsystemCache = "cache"
)
