package services

import (
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	"github.com/SscSPs/document_distribution_app/internal/platform/config"
)

// Integrations are the optional adapters wired into the services. Nil fields disable the integration.
type Integrations struct {
	Trigger       portssvc.DispatchTrigger
	LocationCache portssvc.LocationCache
	ManifestStore portssvc.ManifestStore
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, integrations Integrations) *portssvc.ServiceContainer {
	distributionOpts := []DistributionOption{}
	locationOpts := []LocationOption{}
	if integrations.Trigger != nil {
		distributionOpts = append(distributionOpts, WithDispatchTrigger(integrations.Trigger))
	}
	if integrations.LocationCache != nil {
		distributionOpts = append(distributionOpts, WithDistributionLocationCache(integrations.LocationCache))
		locationOpts = append(locationOpts, WithLocationCache(integrations.LocationCache))
	}

	return &portssvc.ServiceContainer{
		Distribution:  NewDistributionService(repos, distributionOpts...),
		Location:      NewLocationService(repos.LocationRepo, repos.DocumentRepo, locationOpts...),
		ReferenceData: NewReferenceDataService(repos.DepartmentRepo, repos.DistributionTypeRepo),
		User:          NewUserService(repos.UserRepo, repos.DepartmentRepo),
		Token:         NewTokenService(cfg),
		Manifest:      NewManifestService(repos.DistributionRepo, integrations.ManifestStore, cfg.ManifestURLExpiry),
	}
}
