package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/customer"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
)

// CustomerHandler maneja clientes y su libro de movimientos.
type CustomerHandler struct {
	uc *customer.UseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *customer.UseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerRequest  true  "Cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Nombre, documento o email"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.CustomerListResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), c.Query("search"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener cliente con movimientos
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar datos del cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del cliente"
// @Param        body  body  dto.CustomerRequest  true  "Cliente"
// @Success      200   {object}  dto.CustomerResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Desactivar cliente
// @Tags         customers
// @Security     Bearer
// @Param        id   path  string  true  "ID del cliente"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddTransaction godoc
// @Summary      Registrar movimiento en el libro del cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del cliente"
// @Param        body  body  dto.TransactionRequest  true  "Movimiento"
// @Success      201   {object}  dto.LedgerResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/transactions [post]
func (h *CustomerHandler) AddTransaction(c *fiber.Ctx) error {
	var in dto.TransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AddTransaction(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteTransaction godoc
// @Summary      Revertir un movimiento
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        transactionId  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.LedgerResultResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/customers/transactions/{transactionId} [delete]
func (h *CustomerHandler) DeleteTransaction(c *fiber.Ctx) error {
	transactionID, err := pathID(c, "transactionId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.DeleteTransaction(c.UserContext(), transactionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
