package ledger

import (
	"errors"
	"log"
	"time"

	"oficina-backend/internal/audit"
	"oficina-backend/internal/auth"
	"oficina-backend/internal/cards"
	"oficina-backend/internal/commission"
	"oficina-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// writeAudit registra a mutação na trilha de auditoria. Falha aqui não
// derruba a operação que já foi confirmada.
func writeAudit(c *fiber.Ctx, tenantID uint, entityType string, entityID uint, action models.AuditAction, description string, before, after any) {
	userID, _ := c.Locals(auth.CtxUserIDKey).(uint)
	tid := tenantID
	if err := audit.WriteLog(audit.LogOptions{
		TenantID:    &tid,
		UserID:      userID,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
		Before:      before,
		After:       after,
	}); err != nil {
		log.Println("Auditoria falhou:", err)
	}
}

type createReceivableRequest struct {
	TenantID        *uint                `json:"tenant_id"`
	SaleID          *uint                `json:"sale_id"`
	EmployeeID      *uint                `json:"employee_id"`
	Description     string               `json:"description"`
	Value           decimal.Decimal      `json:"value"`
	RecognitionDate time.Time            `json:"recognition_date"`
	DueDate         time.Time            `json:"due_date"`
	CashSettledNow  bool                 `json:"cash_settled_now"`
	Method          models.PaymentMethod `json:"method"`
}

// POST /api/receivables
func CreateReceivableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body createReceivableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		tenantID, err := auth.ResolveTenantIDFromBody(c, body.TenantID)
		if err != nil {
			return err
		}
		if body.RecognitionDate.IsZero() {
			body.RecognitionDate = time.Now()
		}
		if body.DueDate.IsZero() {
			body.DueDate = body.RecognitionDate
		}

		r, err := CreateReceivableFromSale(CreateReceivableInput{
			TenantID:        tenantID,
			SaleID:          body.SaleID,
			EmployeeID:      body.EmployeeID,
			Description:     body.Description,
			Value:           body.Value,
			RecognitionDate: body.RecognitionDate,
			DueDate:         body.DueDate,
			CashSettledNow:  body.CashSettledNow,
			Method:          body.Method,
		})
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(r)
	}
}

// GET /api/receivables?status=PENDING | GET /api/receivables?overdue=true
func ListReceivablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}

		if c.QueryBool("overdue", false) {
			rows, err := ListOverdueReceivables(tenantID, time.Now())
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as contas")
			}
			return c.JSON(rows)
		}

		rows, err := ListReceivables(tenantID, models.ReceivableStatus(c.Query("status")))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as contas")
		}
		return c.JSON(rows)
	}
}

type receiptRequest struct {
	TenantID *uint                `json:"tenant_id"`
	Amount   decimal.Decimal      `json:"amount"`
	Date     time.Time            `json:"date"`
	Method   models.PaymentMethod `json:"method"`
	Note     string               `json:"note"`
}

// POST /api/receivables/:id/receipts
func RegisterReceiptHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body receiptRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		tenantID, err := auth.ResolveTenantIDFromBody(c, body.TenantID)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		if body.Date.IsZero() {
			body.Date = time.Now()
		}

		r, receipt, err := RegisterReceipt(tenantID, uint(id), body.Amount, body.Date, body.Method, body.Note)
		if err != nil {
			return mapError(err)
		}
		writeAudit(c, tenantID, "cash_receipt", receipt.ID, models.AuditActionCreate,
			"Recebimento registrado", nil, receipt)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"receivable": r,
			"receipt":    receipt,
		})
	}
}

// GET /api/receivables/:id/receipts
func ListReceiptsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		rows, err := ListReceiptsForReceivable(tenantID, uint(id))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os recebimentos")
		}
		return c.JSON(rows)
	}
}

// POST /api/receipts/:id/reverse
func ReverseReceiptHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		r, err := ReverseReceipt(tenantID, uint(id))
		if err != nil {
			return mapError(err)
		}
		writeAudit(c, tenantID, "cash_receipt", uint(id), models.AuditActionDelete,
			"Recebimento estornado", nil, r)
		return c.JSON(r)
	}
}

type writeOffRequest struct {
	TenantID *uint  `json:"tenant_id"`
	Reason   string `json:"reason"`
}

// POST /api/receivables/:id/write-off
func WriteOffHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body writeOffRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		tenantID, err := auth.ResolveTenantIDFromBody(c, body.TenantID)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		r, err := WriteOffReceivable(tenantID, uint(id), body.Reason)
		if err != nil {
			return mapError(err)
		}
		writeAudit(c, tenantID, "receivable", r.ID, models.AuditActionUpdate,
			"Baixa por perda: "+body.Reason, nil, r)
		return c.JSON(r)
	}
}

// POST /api/receivables/:id/cancel
func CancelReceivableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		r, err := CancelReceivable(tenantID, uint(id))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(r)
	}
}

type createPayableRequest struct {
	TenantID       *uint                `json:"tenant_id"`
	Description    string               `json:"description"`
	Value          decimal.Decimal      `json:"value"`
	Kind           models.PayableKind   `json:"kind"`
	CompetencyDate time.Time            `json:"competency_date"`
	DueDate        time.Time            `json:"due_date"`
	EmployeeID     *uint                `json:"employee_id"`
	PaidNow        bool                 `json:"paid_now"`
	Method         models.PaymentMethod `json:"method"`
	Installments   int                  `json:"installments"`
}

// POST /api/payables
func CreatePayableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body createPayableRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		tenantID, err := auth.ResolveTenantIDFromBody(c, body.TenantID)
		if err != nil {
			return err
		}
		switch body.Kind {
		case "":
			body.Kind = models.PayableOperatingExpense
		case models.PayableOperatingExpense, models.PayableProfitDistribution, models.PayableTaxPayment:
			// lançamento direto permitido
		default:
			// fatura de cartão nasce no fluxo de despesas; comissão nasce na liquidação
			return fiber.NewError(fiber.StatusBadRequest, "Tipo de conta não pode ser criado diretamente")
		}
		if body.CompetencyDate.IsZero() {
			body.CompetencyDate = time.Now()
		}
		if body.DueDate.IsZero() {
			body.DueDate = body.CompetencyDate
		}

		switch body.Kind {
		case models.PayableProfitDistribution:
			p, err := CreateProfitDistribution(tenantID, body.Description, body.Value, body.CompetencyDate, body.Method)
			if err != nil {
				return mapError(err)
			}
			return c.Status(fiber.StatusCreated).JSON(p)

		case models.PayableTaxPayment:
			p, err := CreateTaxPayment(tenantID, body.Description, body.Value, body.CompetencyDate, body.DueDate)
			if err != nil {
				return mapError(err)
			}
			return c.Status(fiber.StatusCreated).JSON(p)
		}

		in := CreatePayableInput{
			TenantID:       tenantID,
			Description:    body.Description,
			Value:          body.Value,
			Kind:           body.Kind,
			CompetencyDate: body.CompetencyDate,
			DueDate:        body.DueDate,
			EmployeeID:     body.EmployeeID,
			PaidNow:        body.PaidNow,
			Method:         body.Method,
		}

		if body.Installments > 1 {
			rows, err := CreateInstallmentPayables(in, body.Installments)
			if err != nil {
				return mapError(err)
			}
			return c.Status(fiber.StatusCreated).JSON(rows)
		}

		p, err := CreatePayable(in)
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// GET /api/payables?status=PENDING | GET /api/payables?overdue=true
func ListPayablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}

		if c.QueryBool("overdue", false) {
			rows, err := ListOverduePayables(tenantID, time.Now())
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as contas")
			}
			return c.JSON(rows)
		}

		rows, err := ListPayables(tenantID, models.PayableStatus(c.Query("status")))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as contas")
		}
		return c.JSON(rows)
	}
}

type payRequest struct {
	TenantID *uint                `json:"tenant_id"`
	Date     time.Time            `json:"date"`
	Method   models.PaymentMethod `json:"method"`
}

// POST /api/payables/:id/pay
func PayPayableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body payRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		tenantID, err := auth.ResolveTenantIDFromBody(c, body.TenantID)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		if body.Date.IsZero() {
			body.Date = time.Now()
		}
		p, err := PayPayable(tenantID, uint(id), body.Date, body.Method)
		if err != nil {
			return mapError(err)
		}
		writeAudit(c, tenantID, "payable", p.ID, models.AuditActionUpdate,
			"Conta paga", nil, p)
		return c.JSON(p)
	}
}

// POST /api/payables/:id/cancel
func CancelPayableHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		p, err := CancelPayable(tenantID, uint(id))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(p)
	}
}

type expenseRequest struct {
	TenantID    *uint                  `json:"tenant_id"`
	Date        time.Time              `json:"date"`
	Amount      decimal.Decimal        `json:"amount"`
	Category    models.ExpenseCategory `json:"category"`
	Description string                 `json:"description"`
	CardID      *uint                  `json:"card_id"`
	DueDate     *time.Time             `json:"due_date"`
	PaidNow     bool                   `json:"paid_now"`
	Method      models.PaymentMethod   `json:"method"`
}

// POST /api/expenses
func RegisterExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body expenseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		tenantID, err := auth.ResolveTenantIDFromBody(c, body.TenantID)
		if err != nil {
			return err
		}
		if body.Category == "" {
			body.Category = models.ExpenseOther
		}
		if body.Date.IsZero() {
			body.Date = time.Now()
		}

		exp, payable, err := RegisterExpense(RegisterExpenseInput{
			TenantID:    tenantID,
			Date:        body.Date,
			Amount:      body.Amount,
			Category:    body.Category,
			Description: body.Description,
			CardID:      body.CardID,
			DueDate:     body.DueDate,
			PaidNow:     body.PaidNow,
			Method:      body.Method,
		})
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"expense": exp,
			"payable": payable,
		})
	}
}

// GET /api/expenses?from=2026-01-01&to=2026-01-31&category=fuel
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		from, to, err := parseRange(c)
		if err != nil {
			return err
		}
		rows, err := ListExpenses(tenantID, from, to, models.ExpenseCategory(c.Query("category")))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as despesas")
		}
		return c.JSON(rows)
	}
}

// DELETE /api/expenses/:id
func DeleteExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID, err := auth.ResolveTenantIDFromQuery(c)
		if err != nil {
			return err
		}
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID inválido")
		}
		if err := DeleteExpense(tenantID, uint(id)); err != nil {
			return mapError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type advanceRequest struct {
	TenantID    *uint                `json:"tenant_id"`
	EmployeeID  *uint                `json:"employee_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Date        time.Time            `json:"date"`
	Description string               `json:"description"`
	Method      models.PaymentMethod `json:"method"`
}

// POST /api/advances
func RegisterAdvanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body advanceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}
		tenantID, err := auth.ResolveTenantIDFromBody(c, body.TenantID)
		if err != nil {
			return err
		}
		if body.Date.IsZero() {
			body.Date = time.Now()
		}
		adv, err := RegisterAdvance(tenantID, body.EmployeeID, body.Amount, body.Date, body.Description, body.Method)
		if err != nil {
			return mapError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(adv)
	}
}

func parseRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	if s := c.Query("from"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "Parâmetro from inválido (use YYYY-MM-DD)")
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "Parâmetro to inválido (use YYYY-MM-DD)")
		}
		to = t
	}
	return from, to, nil
}

// mapError traduz erros do núcleo para status HTTP:
// violação de invariante 422, conflito de concorrência 409, ausência 404.
func mapError(err error) error {
	var limit *cards.LimitExceededError

	switch {
	case errors.Is(err, models.ErrAmountNotPositive),
		errors.Is(err, models.ErrOverPayment),
		errors.Is(err, models.ErrOverReversal),
		errors.Is(err, models.ErrAlreadyPaid),
		errors.Is(err, models.ErrCancelled),
		errors.Is(err, models.ErrWrittenOff):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &limit):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrVersionConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, cards.ErrCardNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	var ce *commission.NoActiveRuleError
	if errors.As(err, &ce) {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Erro interno")
}
