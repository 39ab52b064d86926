package lifecycle

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/rohitappsaga-debug/Rms-testing-sub001/internal/ledger"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/db/models"
	"github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/enums"
	pkgerrors "github.com/rohitappsaga-debug/Rms-testing-sub001/pkg/errors"
)

const (
	opSettlePayment = "settle_payment"
	opRefundPayment = "refund_payment"
)

func (s *service) SettlePayment(ctx context.Context, input SettleInput) (*SettlementResult, error) {
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive").
			WithDetails(map[string]any{"amount": input.Amount.String()})
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
			WithDetails(map[string]any{"method": string(input.Method)})
	}
	ctx = s.logg.WithOrderID(ctx, input.OrderID.String())

	result := &SettlementResult{}
	recorded := false
	tally := statusTally{}
	err := s.run(ctx, opSettlePayment, func(tx *gorm.DB) error {
		deps := s.bind(tx)
		order, err := deps.orders.FindByIDForUpdate(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order.IsPaid {
			return alreadySettled(order)
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeConflict, "cancelled orders cannot be settled").
				WithDetails(map[string]any{"orderId": order.ID})
		}

		paidAt := s.now()
		won, err := deps.orders.MarkPaid(ctx, order.ID, input.Method, paidAt)
		if err != nil {
			return err
		}
		if !won {
			return alreadySettled(order)
		}

		payment := &models.PaymentTransaction{
			OrderID:       order.ID,
			Amount:        input.Amount.Round(2),
			Method:        input.Method,
			Status:        enums.PaymentStatusCompleted,
			TransactionID: input.TransactionID,
			CreatedAt:     paidAt,
		}
		if err := deps.payments.Create(ctx, payment); err != nil {
			return err
		}

		if order.TableNumber != nil {
			freed, err := deps.tables.FreeIfCurrent(ctx, *order.TableNumber, order.ID)
			if err != nil {
				return err
			}
			result.FreedTables = freed
			tally.add(freed)
			if err := s.emitTables(ctx, tx, freed, &order.ID, input.Actor); err != nil {
				return err
			}
		}

		daily, err := s.ledger.RecordSettlement(ctx, tx, ledger.SettlementInput{
			PaymentID: payment.ID,
			OrderID:   order.ID,
			Amount:    payment.Amount,
			SettledAt: paidAt,
		})
		if err != nil {
			return err
		}
		recorded = daily.Recorded
		result.DailySales = daily.Record

		paid, err := deps.orders.FindByID(ctx, order.ID)
		if err != nil {
			return err
		}
		result.Order = paid
		result.Payment = payment
		return s.emitPaid(ctx, tx, paid, payment, input.Actor)
	})
	if err != nil {
		return nil, err
	}

	s.recordTally(tally)
	amount, _ := result.Payment.Amount.Float64()
	s.metrics.AddSettled(amount)
	if !recorded {
		s.metrics.IncLedgerDuplicate()
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"payment_id":     result.Payment.ID.String(),
		"payment_method": result.Payment.Method,
		"amount":         result.Payment.Amount.StringFixed(2),
		"freed_tables":   len(result.FreedTables),
	})
	s.logg.Info(logCtx, "order settled")
	return result, nil
}

func alreadySettled(order *models.Order) error {
	return pkgerrors.New(pkgerrors.CodeAlreadySettled, "order already settled").
		WithDetails(map[string]any{"orderId": order.ID})
}

// RefundPayment marks a completed payment refunded. The order stays paid and
// the daily ledger is not adjusted.
func (s *service) RefundPayment(ctx context.Context, input RefundInput) (*RefundResult, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund reason is required")
	}

	result := &RefundResult{}
	err := s.run(ctx, opRefundPayment, func(tx *gorm.DB) error {
		deps := s.bind(tx)
		payment, err := deps.payments.FindByIDForUpdate(ctx, input.PaymentID)
		if err != nil {
			return err
		}
		if payment.Status != enums.PaymentStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeConflict, "payment is not refundable").
				WithDetails(map[string]any{"paymentId": payment.ID, "status": payment.Status})
		}
		now := s.now()
		ok, err := deps.payments.MarkRefunded(ctx, payment.ID, reason, now)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "payment is not refundable").
				WithDetails(map[string]any{"paymentId": payment.ID})
		}
		payment.Status = enums.PaymentStatusRefunded
		payment.RefundReason = &reason
		payment.RefundedAt = &now

		order, err := deps.orders.FindByID(ctx, payment.OrderID)
		if err != nil {
			return err
		}
		result.Payment = payment
		result.Order = order
		return s.emitOrder(ctx, tx, enums.EventOrderUpdated, order, input.Actor)
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithField(ctx, "payment_id", result.Payment.ID.String()), "payment refunded")
	return result, nil
}
