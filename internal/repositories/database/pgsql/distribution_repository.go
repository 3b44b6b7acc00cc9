package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/document_distribution_app/internal/apperrors"
	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portsrepo "github.com/SscSPs/document_distribution_app/internal/core/ports/repositories"
	"github.com/SscSPs/document_distribution_app/internal/models"
	"github.com/SscSPs/document_distribution_app/internal/utils/mapping"
	"github.com/SscSPs/document_distribution_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const distributionColumns = `distribution_id, distribution_number, type_id, origin_department_id, destination_department_id,
		document_kind, status, notes, sender_verified_at, sender_verified_by, sender_notes, sent_at, received_at,
		receiver_verified_at, receiver_verified_by, receiver_notes, completed_at, has_discrepancies, deleted_at,
		created_at, created_by, last_updated_at, last_updated_by`

const distributionDocumentColumns = `distribution_id, document_kind, document_id, auto_included, included_via_invoice_id,
		sender_verified, sender_verification_status, sender_verification_notes,
		receiver_verified, receiver_verification_status, receiver_verification_notes, created_at`

type PgxDistributionRepository struct {
	BaseRepository
}

// newPgxDistributionRepository creates a new repository for distributions and their bundles.
func newPgxDistributionRepository(pool PgxPool) portsrepo.DistributionRepositoryWithTx {
	return &PgxDistributionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxDistributionRepository implements portsrepo.DistributionRepositoryWithTx
var _ portsrepo.DistributionRepositoryWithTx = (*PgxDistributionRepository)(nil)

func scanDistribution(row pgx.Row) (*models.Distribution, error) {
	var m models.Distribution
	err := row.Scan(
		&m.DistributionID,
		&m.DistributionNumber,
		&m.TypeID,
		&m.OriginDepartmentID,
		&m.DestinationDepartmentID,
		&m.DocumentKind,
		&m.Status,
		&m.Notes,
		&m.SenderVerifiedAt,
		&m.SenderVerifiedBy,
		&m.SenderNotes,
		&m.SentAt,
		&m.ReceivedAt,
		&m.ReceiverVerifiedAt,
		&m.ReceiverVerifiedBy,
		&m.ReceiverNotes,
		&m.CompletedAt,
		&m.HasDiscrepancies,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxDistributionRepository) findDistribution(ctx context.Context, q querier, distributionID string, forUpdate bool) (*domain.Distribution, error) {
	query := `SELECT ` + distributionColumns + ` FROM distributions WHERE distribution_id = $1 AND deleted_at IS NULL`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanDistribution(q.QueryRow(ctx, query, distributionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: distribution %s", apperrors.ErrNotFound, distributionID)
		}
		return nil, fmt.Errorf("failed to find distribution %s: %w", distributionID, err)
	}
	d := mapping.ToDomainDistribution(*m)
	return &d, nil
}

// FindDistributionByID retrieves a live distribution.
func (r *PgxDistributionRepository) FindDistributionByID(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	return r.findDistribution(ctx, r.Pool, distributionID, false)
}

// LockDistribution retrieves a live distribution and holds its row lock until tx ends.
// Concurrent transitions on the same distribution queue here and re-read the committed status.
func (r *PgxDistributionRepository) LockDistribution(ctx context.Context, tx pgx.Tx, distributionID string) (*domain.Distribution, error) {
	return r.findDistribution(ctx, tx, distributionID, true)
}

// ListDistributions retrieves a page of distributions ordered by (created_at, distribution_id) descending.
func (r *PgxDistributionRepository) ListDistributions(ctx context.Context, filter domain.DistributionFilter, limit int, nextToken *string) ([]domain.Distribution, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	conditions := []string{"deleted_at IS NULL"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.DepartmentID != "" {
		p := arg(filter.DepartmentID)
		conditions = append(conditions, fmt.Sprintf("(origin_department_id = %s OR destination_department_id = %s)", p, p))
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = "+arg(string(filter.Status)))
	}
	switch filter.Role {
	case domain.RoleCreator:
		conditions = append(conditions, "created_by = "+arg(filter.UserID))
	case domain.RoleSenderVerifier:
		conditions = append(conditions, "sender_verified_by = "+arg(filter.UserID))
	case domain.RoleReceiverVerifier:
		conditions = append(conditions, "receiver_verified_by = "+arg(filter.UserID))
	case domain.RoleAny:
		p := arg(filter.UserID)
		conditions = append(conditions, fmt.Sprintf("(created_by = %s OR sender_verified_by = %s OR receiver_verified_by = %s)", p, p, p))
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		conditions = append(conditions, fmt.Sprintf("(created_at, distribution_id) < (%s, %s)", arg(lastCreatedAt), arg(lastID)))
	}

	// Fetch one extra row to know whether another page exists.
	query := `SELECT ` + distributionColumns + ` FROM distributions WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY created_at DESC, distribution_id DESC LIMIT ` + arg(limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list distributions: %w", err)
	}
	defer rows.Close()

	var results []models.Distribution
	for rows.Next() {
		m, err := scanDistribution(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan distribution row: %w", err)
		}
		results = append(results, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating distribution rows: %w", err)
	}

	var nextTokenVal *string
	if len(results) > limit {
		results = results[:limit]
		last := results[len(results)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.DistributionID)
		nextTokenVal = &token
	}
	return mapping.ToDomainDistributionSlice(results), nextTokenVal, nil
}

func (r *PgxDistributionRepository) findDocuments(ctx context.Context, q querier, distributionID string) ([]domain.DistributionDocument, error) {
	query := `SELECT ` + distributionDocumentColumns + ` FROM distribution_documents
		WHERE distribution_id = $1
		ORDER BY auto_included, created_at, document_kind, document_id`
	rows, err := q.Query(ctx, query, distributionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents of distribution %s: %w", distributionID, err)
	}
	defer rows.Close()

	var results []models.DistributionDocument
	for rows.Next() {
		var m models.DistributionDocument
		if err := rows.Scan(
			&m.DistributionID,
			&m.DocumentKind,
			&m.DocumentID,
			&m.AutoIncluded,
			&m.IncludedViaInvoiceID,
			&m.SenderVerified,
			&m.SenderStatus,
			&m.SenderNotes,
			&m.ReceiverVerified,
			&m.ReceiverStatus,
			&m.ReceiverNotes,
			&m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan distribution document row: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating distribution document rows: %w", err)
	}
	return mapping.ToDomainDistributionDocumentSlice(results), nil
}

// FindDistributionDocuments retrieves the bundle of a distribution.
func (r *PgxDistributionRepository) FindDistributionDocuments(ctx context.Context, distributionID string) ([]domain.DistributionDocument, error) {
	return r.findDocuments(ctx, r.Pool, distributionID)
}

// FindDistributionDocumentsInTx reads the bundle under tx.
func (r *PgxDistributionRepository) FindDistributionDocumentsInTx(ctx context.Context, tx pgx.Tx, distributionID string) ([]domain.DistributionDocument, error) {
	return r.findDocuments(ctx, tx, distributionID)
}

// SaveDistribution inserts a new distribution row.
func (r *PgxDistributionRepository) SaveDistribution(ctx context.Context, tx pgx.Tx, distribution domain.Distribution) error {
	m := mapping.ToModelDistribution(distribution)
	query := `
		INSERT INTO distributions (` + distributionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := tx.Exec(ctx, query,
		m.DistributionID,
		m.DistributionNumber,
		m.TypeID,
		m.OriginDepartmentID,
		m.DestinationDepartmentID,
		m.DocumentKind,
		m.Status,
		m.Notes,
		m.SenderVerifiedAt,
		m.SenderVerifiedBy,
		m.SenderNotes,
		m.SentAt,
		m.ReceivedAt,
		m.ReceiverVerifiedAt,
		m.ReceiverVerifiedBy,
		m.ReceiverNotes,
		m.CompletedAt,
		m.HasDiscrepancies,
		m.DeletedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: distribution number %s", apperrors.ErrDuplicate, m.DistributionNumber)
		}
		return fmt.Errorf("failed to insert distribution %s: %w", m.DistributionID, err)
	}
	return nil
}

// UpdateDistribution writes every mutable column. The number and origin are never rewritten.
func (r *PgxDistributionRepository) UpdateDistribution(ctx context.Context, tx pgx.Tx, distribution domain.Distribution) error {
	m := mapping.ToModelDistribution(distribution)
	query := `
		UPDATE distributions SET
			type_id = $2, destination_department_id = $3, status = $4, notes = $5,
			sender_verified_at = $6, sender_verified_by = $7, sender_notes = $8,
			sent_at = $9, received_at = $10,
			receiver_verified_at = $11, receiver_verified_by = $12, receiver_notes = $13,
			completed_at = $14, has_discrepancies = $15, deleted_at = $16,
			last_updated_at = $17, last_updated_by = $18
		WHERE distribution_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.DistributionID,
		m.TypeID,
		m.DestinationDepartmentID,
		m.Status,
		m.Notes,
		m.SenderVerifiedAt,
		m.SenderVerifiedBy,
		m.SenderNotes,
		m.SentAt,
		m.ReceivedAt,
		m.ReceiverVerifiedAt,
		m.ReceiverVerifiedBy,
		m.ReceiverNotes,
		m.CompletedAt,
		m.HasDiscrepancies,
		m.DeletedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update distribution %s: %w", m.DistributionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: distribution %s", apperrors.ErrNotFound, m.DistributionID)
	}
	return nil
}

// AddDistributionDocuments inserts bundle rows in one batch.
func (r *PgxDistributionRepository) AddDistributionDocuments(ctx context.Context, tx pgx.Tx, documents []domain.DistributionDocument) error {
	query := `
		INSERT INTO distribution_documents (` + distributionDocumentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	batch := &pgx.Batch{}
	for _, doc := range documents {
		m := mapping.ToModelDistributionDocument(doc)
		batch.Queue(query,
			m.DistributionID,
			m.DocumentKind,
			m.DocumentID,
			m.AutoIncluded,
			m.IncludedViaInvoiceID,
			m.SenderVerified,
			m.SenderStatus,
			m.SenderNotes,
			m.ReceiverVerified,
			m.ReceiverStatus,
			m.ReceiverNotes,
			m.CreatedAt,
		)
	}
	if err := sendBatch(ctx, tx, batch); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: document already bundled", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert distribution documents: %w", err)
	}
	return nil
}

// RemoveDistributionDocuments deletes the given bundle rows.
func (r *PgxDistributionRepository) RemoveDistributionDocuments(ctx context.Context, tx pgx.Tx, distributionID string, refs []domain.DocumentRef) (int64, error) {
	var removed int64
	query := `DELETE FROM distribution_documents WHERE distribution_id = $1 AND document_kind = $2 AND document_id = $3;`
	for _, ref := range refs {
		cmdTag, err := tx.Exec(ctx, query, distributionID, string(ref.Kind), ref.ID)
		if err != nil {
			return removed, fmt.Errorf("failed to remove %s from distribution %s: %w", ref, distributionID, err)
		}
		removed += cmdTag.RowsAffected()
	}
	return removed, nil
}

// SaveVerifications records one side's outcome for each listed document.
func (r *PgxDistributionRepository) SaveVerifications(ctx context.Context, tx pgx.Tx, distributionID string, side domain.VerificationSide, verifications []domain.DocumentVerification) error {
	var query string
	switch side {
	case domain.SideSender:
		query = `
			UPDATE distribution_documents
			SET sender_verified = TRUE, sender_verification_status = $4, sender_verification_notes = $5
			WHERE distribution_id = $1 AND document_kind = $2 AND document_id = $3;`
	case domain.SideReceiver:
		query = `
			UPDATE distribution_documents
			SET receiver_verified = TRUE, receiver_verification_status = $4, receiver_verification_notes = $5
			WHERE distribution_id = $1 AND document_kind = $2 AND document_id = $3;`
	default:
		return fmt.Errorf("%w: unknown verification side %q", apperrors.ErrValidation, side)
	}

	batch := &pgx.Batch{}
	for _, v := range verifications {
		var notes *string
		if v.Notes != "" {
			n := v.Notes
			notes = &n
		}
		batch.Queue(query, distributionID, string(v.Kind), v.ID, string(v.Status), notes)
	}
	if err := sendBatch(ctx, tx, batch); err != nil {
		return fmt.Errorf("failed to save %s verifications for distribution %s: %w", side, distributionID, err)
	}
	return nil
}

// LockNumberPrefix serialises number allocation for one prefix until tx ends.
func (r *PgxDistributionRepository) LockNumberPrefix(ctx context.Context, tx pgx.Tx, prefix string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0));`, prefix); err != nil {
		return fmt.Errorf("failed to lock number prefix %s: %w", prefix, err)
	}
	return nil
}

// MaxNumberSequence returns the highest suffix used under prefix. Soft-deleted
// distributions keep their numbers, so they are included.
func (r *PgxDistributionRepository) MaxNumberSequence(ctx context.Context, tx pgx.Tx, prefix string) (int, error) {
	query := `
		SELECT COALESCE(MAX(CAST(split_part(distribution_number, '/', 4) AS INTEGER)), 0)
		FROM distributions
		WHERE left(distribution_number, length($1)) = $1;
	`
	var maxSeq int
	if err := tx.QueryRow(ctx, query, prefix).Scan(&maxSeq); err != nil {
		return 0, fmt.Errorf("failed to read sequence for prefix %s: %w", prefix, err)
	}
	return maxSeq, nil
}
