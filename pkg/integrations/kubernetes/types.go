package kubernetes

// Namespace is a cluster namespace. CreatedAt is RFC3339 or "Unknown".
type Namespace struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Pod is a simplified pod view. Containers holds container names.
type Pod struct {
	Name       string   `json:"name"`
	Namespace  string   `json:"namespace"`
	Status     string   `json:"status"`
	Containers []string `json:"containers"`
	Node       *string  `json:"node"`
}

// Service is a simplified service view. EndpointCount is the number of load
// balancer ingress points, when the service has any.
type Service struct {
	Name          string        `json:"name"`
	Namespace     string        `json:"namespace"`
	Type          string        `json:"type"`
	Ports         []ServicePort `json:"ports"`
	EndpointCount *uint32       `json:"endpoint_count"`
}

// ServicePort is one exposed port. TargetPort is a number or a named port,
// always rendered as a string.
type ServicePort struct {
	Name       *string `json:"name"`
	Port       int32   `json:"port"`
	TargetPort *string `json:"target_port"`
	Protocol   string  `json:"protocol"`
}
