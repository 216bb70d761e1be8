package agents

// Agent describes one autonomous agent the backend can route a message to.
// The shape matches the serialized agent inside the routing frame.
type Agent struct {
	ID          string `json:"agent_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	EndpointURL string `json:"endpoint_url"`
}

// RoutingDecision reports which agent the backend selected for a message and
// why.
type RoutingDecision struct {
	Agent  Agent  `json:"agent"`
	Reason string `json:"reason,omitempty"`
}
