package registry

import (
	"fmt"

	"github.com/hashicorp/consul/api"
)

// ConsulRegistry registers the service with a Consul agent so other services
// and load balancers can discover it.
type ConsulRegistry struct {
	client    *api.Client
	serviceID string
}

func NewConsulRegistry(address string) (*ConsulRegistry, error) {
	cfg := api.DefaultConfig()
	cfg.Address = address

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &ConsulRegistry{client: client}, nil
}

// Register registers the service with an HTTP health check. Consul removes
// the instance if the check stays critical for more than a minute.
func (r *ConsulRegistry) Register(name, id, host string, port int, healthPath string) error {
	registration := &api.AgentServiceRegistration{
		ID:      id,
		Name:    name,
		Address: host,
		Port:    port,
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d%s", host, port, healthPath),
			Interval:                       "10s",
			Timeout:                        "2s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := r.client.Agent().ServiceRegister(registration); err != nil {
		return err
	}

	r.serviceID = id

	return nil
}

// Deregister removes the service from the Consul agent.
func (r *ConsulRegistry) Deregister() error {
	if r.serviceID == "" {
		return nil
	}

	return r.client.Agent().ServiceDeregister(r.serviceID)
}
