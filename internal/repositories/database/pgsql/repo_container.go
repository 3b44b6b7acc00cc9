package pgsql

import (
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository onto one pool. Pass a *pgxpool.Pool in production.
func NewRepositoryProvider(dbPool PgxPool) portsrepo.RepositoryProvider {
	referenceRepo := newPgxReferenceRepository(dbPool)

	return portsrepo.RepositoryProvider{
		DistributionRepo:     newPgxDistributionRepository(dbPool),
		DocumentRepo:         newPgxDocumentRepository(dbPool),
		LocationRepo:         newPgxLocationRepository(dbPool),
		HistoryRepo:          newPgxHistoryRepository(dbPool),
		DepartmentRepo:       referenceRepo,
		DistributionTypeRepo: referenceRepo,
		OutboxRepo:           newPgxOutboxRepository(dbPool),
		UserRepo:             newPgxUserRepository(dbPool),
	}
}
