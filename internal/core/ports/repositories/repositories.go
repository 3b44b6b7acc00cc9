package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	DistributionRepo     DistributionRepositoryWithTx
	DocumentRepo         DocumentRepositoryFacade
	LocationRepo         LocationRepositoryWithTx
	HistoryRepo          HistoryRepository
	DepartmentRepo       DepartmentRepository
	DistributionTypeRepo DistributionTypeRepository
	OutboxRepo           OutboxRepositoryWithTx
	UserRepo             UserRepositoryFacade
}
