package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/domain/repository"
)

var _ repository.DocumentSequenceRepository = (*DocumentSequenceRepo)(nil)

// DocumentSequenceRepo numeración por (tenant, tipo de documento).
type DocumentSequenceRepo struct {
	g *Gate
}

// NewDocumentSequenceRepository construye el repositorio.
func NewDocumentSequenceRepository(g *Gate) *DocumentSequenceRepo {
	return &DocumentSequenceRepo{g: g}
}

// Last mayor número emitido; es solo una pista, la clave única decide.
func (r *DocumentSequenceRepo) Last(ctx context.Context, docType entity.DocumentType) (int64, error) {
	const q = `SELECT COALESCE(MAX(number), 0) FROM document_sequences WHERE tenant_id = $1 AND document_type = $2`
	var n int64
	if err := r.g.QueryRow(ctx, q, string(docType)).Scan(&n); err != nil {
		return 0, fmt.Errorf("last sequence: %w", err)
	}
	return n, nil
}

// Reserve inserta el número. Si la clave compuesta ya existe devuelve domain.ErrNumberTaken.
func (r *DocumentSequenceRepo) Reserve(ctx context.Context, docType entity.DocumentType, number int64) error {
	const q = `INSERT INTO document_sequences (tenant_id, document_type, number, issued_at) VALUES ($1, $2, $3, now())`
	if _, err := r.g.Exec(ctx, q, string(docType), number); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrNumberTaken
		}
		return fmt.Errorf("reserve sequence: %w", err)
	}
	return nil
}
