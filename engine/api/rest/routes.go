package rest

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/state/controller"
)

type route struct {
	Name    string
	Method  string
	Pattern string
	Handler ApiHandlerFunc
}

func newRoutes(tasks *TaskCache) []route {
	return []route{{
		Method:  http.MethodGet,
		Pattern: "/controller",
		Name:    "getController",
		Handler: GetController,
	}, {
		Method:  http.MethodGet,
		Pattern: "/nodes/{address}",
		Name:    "getNode",
		Handler: GetNode,
	}, {
		Method:  http.MethodGet,
		Pattern: "/nodes/{address}/stake",
		Name:    "getStake",
		Handler: GetStake,
	}, {
		Method:  http.MethodPost,
		Pattern: "/nodes",
		Name:    "registerNode",
		Handler: RegisterNode,
	}, {
		Method:  http.MethodGet,
		Pattern: "/groups",
		Name:    "getGroups",
		Handler: GetGroups,
	}, {
		Method:  http.MethodGet,
		Pattern: "/groups/{index}",
		Name:    "getGroup",
		Handler: GetGroup,
	}, {
		Method:  http.MethodGet,
		Pattern: "/groups/{index}/members/{slot}",
		Name:    "getMember",
		Handler: GetMember,
	}, {
		Method:  http.MethodGet,
		Pattern: "/groups/{index}/coordinator",
		Name:    "getCoordinator",
		Handler: GetCoordinator,
	}, {
		Method:  http.MethodGet,
		Pattern: "/groups/{index}/task",
		Name:    "getTask",
		Handler: tasks.GetTask,
	}, {
		Method:  http.MethodPost,
		Pattern: "/groups/{index}/commits",
		Name:    "commitDKG",
		Handler: CommitDKG,
	}, {
		Method:  http.MethodPost,
		Pattern: "/groups/{index}/post-process",
		Name:    "postProcessDKG",
		Handler: PostProcessDKG,
	}}
}

// SubscribeTasksPath is where nodes open websocket task subscriptions.
const SubscribeTasksPath = "/v1/tasks/subscribe"

// NewRouter returns the router serving all routes under /v1. The subscribe
// handler is optional; it is mounted outside the logging and metrics
// middleware, which do not support hijacking the connection.
func NewRouter(api API, tasks *TaskCache, restCollector module.RestMetrics, subscribe http.Handler, logger zerolog.Logger) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	if subscribe != nil {
		router.Methods(http.MethodGet).
			Path(SubscribeTasksPath).
			Name("subscribeTasks").
			Handler(subscribe)
	}
	v1SubRouter := router.PathPrefix("/v1").Subrouter()

	// common middleware for all request
	v1SubRouter.Use(LoggingMiddleware(logger))
	v1SubRouter.Use(MetricsMiddleware(restCollector))

	for _, r := range newRoutes(tasks) {
		h := NewHandler(logger, api, r.Handler)
		v1SubRouter.
			Methods(r.Method).
			Path(r.Pattern).
			Name(r.Name).
			Handler(h)
	}
	return router
}

func GetController(_ *Request, api API) (interface{}, error) {
	return Controller{
		GlobalEpoch: api.GlobalEpoch(),
		Groups:      len(api.Groups()),
		Nodes:       len(api.Nodes()),
		LastOutput:  api.LastOutput().Hex(),
	}, nil
}

func GetNode(r *Request, api API) (interface{}, error) {
	addr, err := r.Address("address")
	if err != nil {
		return nil, err
	}
	node, err := api.Node(addr)
	if err != nil {
		return nil, err
	}

	var response Node
	response.Build(node)
	return response, nil
}

func GetStake(r *Request, api API) (interface{}, error) {
	addr, err := r.Address("address")
	if err != nil {
		return nil, err
	}
	stake, reward, err := api.StakeOf(addr)
	if err != nil {
		return nil, err
	}
	return Stake{Address: addr, Stake: stake, Reward: reward}, nil
}

func RegisterNode(r *Request, api API) (interface{}, error) {
	var req RegisterRequest
	err := r.Body(&req)
	if err != nil {
		return nil, err
	}
	err = api.Register(req.Caller, req.DKGPublicKey)
	if err != nil {
		return nil, err
	}
	node, err := api.Node(req.Caller)
	if err != nil {
		return nil, err
	}

	var response Node
	response.Build(node)
	return response, nil
}

func GetGroups(_ *Request, api API) (interface{}, error) {
	groups := api.Groups()
	response := make([]Group, len(groups))
	for i, g := range groups {
		response[i].Build(g)
	}
	return response, nil
}

func GetGroup(r *Request, api API) (interface{}, error) {
	index, err := r.Uint64("index")
	if err != nil {
		return nil, err
	}
	group, err := api.Group(index)
	if err != nil {
		return nil, err
	}

	var response Group
	response.Build(group)
	return response, nil
}

func GetMember(r *Request, api API) (interface{}, error) {
	index, err := r.Uint64("index")
	if err != nil {
		return nil, err
	}
	slot, err := r.Int("slot")
	if err != nil {
		return nil, err
	}
	m, err := api.Member(index, slot)
	if err != nil {
		return nil, err
	}
	return Member{Slot: slot, Address: m.Address, PartialPublicKey: m.PartialPublicKey}, nil
}

func GetCoordinator(r *Request, api API) (interface{}, error) {
	index, err := r.Uint64("index")
	if err != nil {
		return nil, err
	}
	c, err := api.Coordinator(index)
	if err != nil {
		return nil, err
	}

	var response Coordinator
	response.Build(c)
	return response, nil
}

func CommitDKG(r *Request, api API) (interface{}, error) {
	index, err := r.Uint64("index")
	if err != nil {
		return nil, err
	}
	var req CommitRequest
	err = r.Body(&req)
	if err != nil {
		return nil, err
	}

	err = api.CommitDKG(req.Caller, controller.CommitParams{
		GroupIndex:        index,
		GroupEpoch:        req.GroupEpoch,
		PublicKey:         req.PublicKey,
		PartialPublicKey:  req.PartialPublicKey,
		DisqualifiedNodes: req.DisqualifiedNodes,
	})
	if err != nil {
		return nil, err
	}
	return groupResponse(api, index)
}

func PostProcessDKG(r *Request, api API) (interface{}, error) {
	index, err := r.Uint64("index")
	if err != nil {
		return nil, err
	}
	var req PostProcessRequest
	err = r.Body(&req)
	if err != nil {
		return nil, err
	}

	err = api.PostProcessDKG(req.Caller, index, req.GroupEpoch)
	if err != nil {
		return nil, err
	}
	return groupResponse(api, index)
}

func groupResponse(api API, index uint64) (interface{}, error) {
	group, err := api.Group(index)
	if err != nil {
		return nil, fmt.Errorf("could not read group %d after update: %w", index, err)
	}
	var response Group
	response.Build(group)
	return response, nil
}
