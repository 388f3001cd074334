package registry

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// ServiceManager ties a service instance to its consul registration.
type ServiceManager struct {
	registry      *ConsulRegistry
	serviceConfig *ServiceConfig
}

func NewServiceManager(consulConfig *ConsulConfig, serviceConfig *ServiceConfig) (*ServiceManager, error) {
	consulRegistry, err := NewConsulRegistry(consulConfig)
	if err != nil {
		return nil, err
	}
	return &ServiceManager{
		registry:      consulRegistry,
		serviceConfig: serviceConfig,
	}, nil
}

func (sm *ServiceManager) Start() error {
	if err := sm.registry.RegisterService(sm.serviceConfig); err != nil {
		return fmt.Errorf("service registration failed: %w", err)
	}
	return nil
}

func (sm *ServiceManager) Stop() {
	if err := sm.registry.DeregisterService(sm.serviceConfig.ID); err != nil {
		log.Warn().Err(err).Msg("service deregistration failed")
	}
}

func (sm *ServiceManager) DiscoverService(serviceName string) ([]*ServiceInstance, error) {
	return sm.registry.DiscoverService(serviceName)
}
