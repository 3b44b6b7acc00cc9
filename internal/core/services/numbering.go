package services

import (
	"context"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// numberGenerator allocates distribution numbers. It must run in the same
// transaction that inserts the distribution: the prefix lock is held until
// that transaction ends, so a concurrent create for the same prefix reads
// the committed maximum.
type numberGenerator struct {
	repo portsrepo.DistributionNumberer
}

func (g numberGenerator) Next(ctx context.Context, tx pgx.Tx, at time.Time, locationCode, typeCode string) (string, error) {
	prefix, err := domain.NumberPrefix(at.Year(), locationCode, typeCode)
	if err != nil {
		return "", err
	}
	if err := g.repo.LockNumberPrefix(ctx, tx, prefix); err != nil {
		return "", err
	}
	maxSeq, err := g.repo.MaxNumberSequence(ctx, tx, prefix)
	if err != nil {
		return "", err
	}
	return domain.FormatDistributionNumber(prefix, maxSeq+1), nil
}
