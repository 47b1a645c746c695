package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/finance"
)

const defaultUpcomingDays = 7

// ── Cuentas por pagar ────────────────────────────────────────────────────────

// PayableHandler maneja las cuentas por pagar.
type PayableHandler struct {
	uc *finance.PayableUseCase
}

// NewPayableHandler construye el handler.
func NewPayableHandler(uc *finance.PayableUseCase) *PayableHandler {
	return &PayableHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar cuenta por pagar
// @Tags         accounts-payable
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePayableRequest  true  "Cuenta"
// @Success      201   {object}  dto.PayableResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/accounts-payable [post]
func (h *PayableHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePayableRequest
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
// @Summary      Listar cuentas por pagar
// @Tags         accounts-payable
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        month   query  int     false  "Mes de vencimiento"
// @Param        year    query  int     false  "Año de vencimiento"
// @Success      200  {array}  dto.PayableResponse
// @Router       /api/accounts-payable [get]
func (h *PayableHandler) List(c *fiber.Ctx) error {
	var q dto.BillListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Upcoming godoc
// @Summary      Cuentas por pagar que vencen pronto
// @Tags         accounts-payable
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (defecto 7)"
// @Success      200  {array}  dto.PayableResponse
// @Router       /api/accounts-payable/upcoming [get]
func (h *PayableHandler) Upcoming(c *fiber.Ctx) error {
	out, err := h.uc.Upcoming(c.UserContext(), c.QueryInt("days", defaultUpcomingDays))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener cuenta por pagar
// @Tags         accounts-payable
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.PayableResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts-payable/{id} [get]
func (h *PayableHandler) Get(c *fiber.Ctx) error {
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

// Pay godoc
// @Summary      Registrar pago (total o parcial)
// @Tags         accounts-payable
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la cuenta"
// @Param        body  body  dto.SettleRequest  true  "Pago"
// @Success      200   {object}  dto.PayableResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/accounts-payable/{id}/pay [post]
func (h *PayableHandler) Pay(c *fiber.Ctx) error {
	var in dto.SettleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Pay(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar cuenta por pagar
// @Tags         accounts-payable
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.PayableResponse
// @Router       /api/accounts-payable/{id}/cancel [post]
func (h *PayableHandler) Cancel(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Cancel(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ── Cuentas por cobrar ───────────────────────────────────────────────────────

// ReceivableHandler maneja las cuentas por cobrar.
type ReceivableHandler struct {
	uc *finance.ReceivableUseCase
}

// NewReceivableHandler construye el handler.
func NewReceivableHandler(uc *finance.ReceivableUseCase) *ReceivableHandler {
	return &ReceivableHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar cuenta por cobrar
// @Tags         accounts-receivable
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceivableRequest  true  "Cuenta"
// @Success      201   {object}  dto.ReceivableResponse
// @Router       /api/accounts-receivable [post]
func (h *ReceivableHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReceivableRequest
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
// @Summary      Listar cuentas por cobrar
// @Tags         accounts-receivable
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        month   query  int     false  "Mes de vencimiento"
// @Param        year    query  int     false  "Año de vencimiento"
// @Success      200  {array}  dto.ReceivableResponse
// @Router       /api/accounts-receivable [get]
func (h *ReceivableHandler) List(c *fiber.Ctx) error {
	var q dto.BillListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Upcoming godoc
// @Summary      Cuentas por cobrar que vencen pronto
// @Tags         accounts-receivable
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (defecto 7)"
// @Success      200  {array}  dto.ReceivableResponse
// @Router       /api/accounts-receivable/upcoming [get]
func (h *ReceivableHandler) Upcoming(c *fiber.Ctx) error {
	out, err := h.uc.Upcoming(c.UserContext(), c.QueryInt("days", defaultUpcomingDays))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener cuenta por cobrar
// @Tags         accounts-receivable
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.ReceivableResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts-receivable/{id} [get]
func (h *ReceivableHandler) Get(c *fiber.Ctx) error {
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

// Receive godoc
// @Summary      Registrar cobro (total o parcial)
// @Tags         accounts-receivable
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la cuenta"
// @Param        body  body  dto.SettleRequest  true  "Cobro"
// @Success      200   {object}  dto.ReceivableResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/accounts-receivable/{id}/receive [post]
func (h *ReceivableHandler) Receive(c *fiber.Ctx) error {
	var in dto.SettleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Receive(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar cuenta por cobrar
// @Tags         accounts-receivable
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.ReceivableResponse
// @Router       /api/accounts-receivable/{id}/cancel [post]
func (h *ReceivableHandler) Cancel(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Cancel(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ── Suscripciones ────────────────────────────────────────────────────────────

// SubscriptionHandler maneja la suscripción del tenant al servicio.
type SubscriptionHandler struct {
	uc *finance.SubscriptionUseCase
}

// NewSubscriptionHandler construye el handler.
func NewSubscriptionHandler(uc *finance.SubscriptionUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear suscripción
// @Tags         subscriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSubscriptionRequest  true  "Suscripción"
// @Success      201   {object}  dto.SubscriptionResponse
// @Router       /api/subscriptions [post]
func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSubscriptionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Current godoc
// @Summary      Suscripción vigente del tenant
// @Tags         subscriptions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SubscriptionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/subscriptions/current [get]
func (h *SubscriptionHandler) Current(c *fiber.Ctx) error {
	out, err := h.uc.Current(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Historial de suscripciones
// @Tags         subscriptions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SubscriptionResponse
// @Router       /api/subscriptions [get]
func (h *SubscriptionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la suscripción
// @Tags         subscriptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                               true  "ID de la suscripción"
// @Param        body  body  dto.UpdateSubscriptionStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.SubscriptionResponse
// @Router       /api/subscriptions/{id}/status [patch]
func (h *SubscriptionHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateSubscriptionStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
