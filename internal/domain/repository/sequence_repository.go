package repository

import (
	"context"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// DocumentSequenceRepository puerto de la tabla document_sequences.
// La clave (tenant_id, document_type, number) es la única exclusión mutua de la numeración.
type DocumentSequenceRepository interface {
	// Last devuelve el mayor número emitido para el tipo (0 si ninguno).
	Last(ctx context.Context, docType entity.DocumentType) (int64, error)
	// Reserve inserta el número; devuelve domain.ErrNumberTaken si otro escritor ya lo tomó.
	Reserve(ctx context.Context, docType entity.DocumentType, number int64) error
}
