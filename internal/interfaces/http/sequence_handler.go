package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// NumberReserver lo implementa *sequence.Generator.
type NumberReserver interface {
	Next(ctx context.Context, docType entity.DocumentType) (int64, error)
}

// SequenceHandler expone la reserva manual de números.
type SequenceHandler struct {
	gen NumberReserver
}

// NewSequenceHandler construye el handler.
func NewSequenceHandler(gen NumberReserver) *SequenceHandler {
	return &SequenceHandler{gen: gen}
}

// Next godoc
// @Summary      Reservar el siguiente número de documento
// @Description  Consume el número aunque no se cree documento.
// @Tags         sequences
// @Security     Bearer
// @Produce      json
// @Param        documentType  path  string  true  "catalog_order | purchase_order"
// @Success      200  {object}  dto.NextNumberResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sequences/{documentType}/next [post]
func (h *SequenceHandler) Next(c *fiber.Ctx) error {
	docType := entity.DocumentType(c.Params("documentType"))
	n, err := h.gen.Next(c.UserContext(), docType)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NextNumberResponse{
		DocumentType: string(docType),
		Number:       n,
		Display:      docType.Display(n),
	})
}
