package services

import (
	"context"
	"testing"

	"munaybol/constants"
	"munaybol/errors"
)

func floatPtr(f float64) *float64 { return &f }

func TestPaymentLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db, nopLog)
	ctx := context.Background()
	ana := actorOf(seedUser(t, db, "ana@munaybol.bo", constants.RoleUser))
	luis := actorOf(seedUser(t, db, "luis@munaybol.bo", constants.RoleUser))
	admin := superadmin(t, db)

	p, err := svc.CreatePayment(ctx, ana, PaymentInput{TipoPago: strPtr("QR"), Monto: floatPtr(350)})
	if err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if p.Estado != constants.PaymentPending || p.IDUsuario != ana.UserID || p.Fecha.IsZero() {
		t.Fatalf("payment = %+v", p)
	}

	if _, err := svc.CreatePayment(ctx, ana, PaymentInput{TipoPago: strPtr("QR"), Monto: floatPtr(0)}); !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Fatalf("zero amount: got %v", err)
	}
	if _, err := svc.CreatePayment(ctx, ana, PaymentInput{TipoPago: strPtr("QR"), Monto: floatPtr(10), Estado: strPtr(constants.PaymentCompleted)}); !errors.HasCode(err, errors.ErrCodeRestrictedField) {
		t.Fatalf("user completed: got %v", err)
	}

	if _, err := svc.GetPayment(ctx, luis, p.IDPago); !errors.HasCode(err, errors.ErrCodeDBNotFound) {
		t.Fatalf("foreign get: got %v, want DB_NOT_FOUND", err)
	}
	if _, err := svc.UpdatePayment(ctx, ana, p.IDPago, PaymentInput{Estado: strPtr(constants.PaymentCompleted)}); !errors.HasCode(err, errors.ErrCodeForbidden) {
		t.Fatalf("owner update: got %v, want FORBIDDEN", err)
	}
	if _, err := svc.UpdatePayment(ctx, admin, p.IDPago, PaymentInput{Estado: strPtr("pagado")}); !errors.HasCode(err, errors.ErrCodeValidation) {
		t.Fatalf("bad status: got %v", err)
	}
	done, err := svc.UpdatePayment(ctx, admin, p.IDPago, PaymentInput{Estado: strPtr(constants.PaymentCompleted)})
	if err != nil || done.Estado != constants.PaymentCompleted {
		t.Fatalf("admin update: %+v %v", done, err)
	}

	if _, err := svc.CreatePayment(ctx, luis, PaymentInput{TipoPago: strPtr("Tarjeta"), Monto: floatPtr(80)}); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	_, total, err := svc.ListPayments(ctx, ana, PaymentFilter{})
	if err != nil || total != 1 {
		t.Fatalf("owner list total = %d, err %v", total, err)
	}
	_, total, _ = svc.ListPayments(ctx, admin, PaymentFilter{Estado: constants.PaymentPending})
	if total != 1 {
		t.Fatalf("admin pending total = %d, want 1", total)
	}

	if err := svc.DeletePayment(ctx, ana, p.IDPago); !errors.HasCode(err, errors.ErrCodeForbidden) {
		t.Fatalf("owner delete: got %v, want FORBIDDEN", err)
	}
	if err := svc.DeletePayment(ctx, admin, p.IDPago); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, err := svc.GetPayment(ctx, admin, p.IDPago); !errors.HasCode(err, errors.ErrCodeDBNotFound) {
		t.Fatalf("deleted payment: got %v", err)
	}
}

func TestSuggestions(t *testing.T) {
	db := newTestDB(t)
	svc := NewPaymentService(db, nopLog)
	ctx := context.Background()
	ana := actorOf(seedUser(t, db, "ana@munaybol.bo", constants.RoleUser))
	luis := actorOf(seedUser(t, db, "luis@munaybol.bo", constants.RoleUser))

	if _, err := svc.CreateSuggestion(ctx, ana, "   "); !errors.HasCode(err, errors.ErrCodeRequiredField) {
		t.Fatalf("blank: got %v", err)
	}
	sg, err := svc.CreateSuggestion(ctx, ana, "Me gustan los salares y la comida típica")
	if err != nil {
		t.Fatalf("CreateSuggestion: %v", err)
	}

	items, total, err := svc.ListSuggestions(ctx, luis, 1, 10)
	if err != nil || total != 0 || len(items) != 0 {
		t.Fatalf("foreign list: %v %d %v", items, total, err)
	}
	if err := svc.DeleteSuggestion(ctx, luis, sg.IDSugerencia); !errors.HasCode(err, errors.ErrCodeDBNotFound) {
		t.Fatalf("foreign delete: got %v, want DB_NOT_FOUND", err)
	}
	if err := svc.DeleteSuggestion(ctx, ana, sg.IDSugerencia); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}
