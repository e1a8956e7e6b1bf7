package payment_test

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/audit"
	"github.com/BruksfildServices01/clinic-server/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/testutil"
	"github.com/BruksfildServices01/clinic-server/internal/usecase/appointment"
	"github.com/BruksfildServices01/clinic-server/internal/usecase/hospitalization"
	"github.com/BruksfildServices01/clinic-server/internal/usecase/payment"
	"github.com/BruksfildServices01/clinic-server/internal/usecase/prescription"
)

type fixture struct {
	db     *gorm.DB
	single *payment.ProcessSingle
	batch  *payment.ProcessBatch
	list   *payment.ListBilling
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewSeededDB(t)
	repo := repository.NewBillingGormRepository(db)

	return &fixture{
		db:     db,
		single: payment.NewProcessSingle(repo, audit.Discard),
		batch:  payment.NewProcessBatch(repo, audit.Discard),
		list:   payment.NewListBilling(repo),
	}
}

func (f *fixture) book(t *testing.T, patient, date string) *models.Appointment {
	t.Helper()

	uc := appointment.NewMakeAppointment(repository.NewAppointmentGormRepository(f.db), audit.Discard, 20)
	res, err := uc.Execute(context.Background(), appointment.MakeAppointmentInput{
		PatientID: patient,
		DoctorID:  "120001",
		Date:      date,
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	return res.Appointment
}

func (f *fixture) prescribe(t *testing.T, medicine, qty string) *models.Prescription {
	t.Helper()

	uc := prescription.NewSubmitPrescription(repository.NewPrescriptionGormRepository(f.db), audit.Discard, 10)
	res, err := uc.Execute(context.Background(), prescription.SubmitPrescriptionInput{
		PatientID:    "110001",
		DoctorID:     "120001",
		MedicineName: medicine,
		Quantity:     qty,
	})
	if err != nil {
		t.Fatalf("prescribe: %v", err)
	}
	return res.Prescription
}

func (f *fixture) records(t *testing.T) []models.PaymentRecord {
	t.Helper()
	var recs []models.PaymentRecord
	if err := f.db.Order("id").Find(&recs).Error; err != nil {
		t.Fatalf("records: %v", err)
	}
	return recs
}

func TestProcessSingle_SettlesAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.book(t, "110001", "2024-01-01")
	other := f.book(t, "110002", "2024-01-01")
	ref := fmt.Sprintf("APPT_%d", ap.ID)

	res, err := f.single.Execute(ctx, payment.SingleInput{PatientID: "110001", ApplicationID: ref, PaymentMethod: "wechat"})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if res.Record.ID == 0 || res.Record.Status != "settled" || res.Record.Amount != 100 || res.Record.PaymentMethod != "wechat" {
		t.Fatalf("unexpected record: %+v", res.Record)
	}

	var got models.Appointment
	f.db.First(&got, ap.ID)
	if got.Status != "confirmed" {
		t.Fatalf("expected confirmed, got %s", got.Status)
	}
	f.db.First(&got, other.ID)
	if got.Status != "pending" {
		t.Fatalf("other patient's appointment changed to %s", got.Status)
	}

	// paying twice finds nothing and writes nothing
	_, err = f.single.Execute(ctx, payment.SingleInput{PatientID: "110001", ApplicationID: ref})
	if !apperr.IsBusiness(err, apperr.PaymentItemNotFound) {
		t.Fatalf("expected PAYMENT_ITEM_NOT_FOUND, got %v", err)
	}
	if n := len(f.records(t)); n != 1 {
		t.Fatalf("expected 1 record, got %d", n)
	}
}

func TestProcessSingle_WrongPatient(t *testing.T) {
	f := newFixture(t)

	ap := f.book(t, "110001", "2024-01-01")
	_, err := f.single.Execute(context.Background(), payment.SingleInput{
		PatientID:     "110002",
		ApplicationID: fmt.Sprintf("APPT_%d", ap.ID),
	})
	if !apperr.IsBusiness(err, apperr.PaymentItemNotFound) {
		t.Fatalf("expected PAYMENT_ITEM_NOT_FOUND, got %v", err)
	}
}

func TestProcessSingle_SettlesPrescriptionRecordInPlace(t *testing.T) {
	f := newFixture(t)

	p := f.prescribe(t, "Amoxicillin Capsules", "2")
	res, err := f.single.Execute(context.Background(), payment.SingleInput{
		PatientID:     "110001",
		ApplicationID: fmt.Sprintf("PRESC_%d", p.ID),
	})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}

	recs := f.records(t)
	if len(recs) != 1 {
		t.Fatalf("expected the unsettled record to be reused, got %d records", len(recs))
	}
	if recs[0].Status != "settled" || recs[0].PaymentMethod != "online" || recs[0].PaymentTime == nil || recs[0].Amount != 37 {
		t.Fatalf("unexpected record: %+v", recs[0])
	}

	var got models.Prescription
	f.db.First(&got, p.ID)
	if got.Status != "paid" {
		t.Fatalf("expected paid prescription, got %s", got.Status)
	}
}

func TestProcessSingle_SettlesHospitalization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	submit := hospitalization.NewSubmit(repository.NewHospitalizationGormRepository(f.db), audit.Discard)
	h, err := submit.Execute(ctx, hospitalization.SubmitInput{
		PatientID:     "110001",
		DoctorID:      "120001",
		Department:    "Internal Medicine",
		Diagnosis:     "pneumonia",
		AdmissionDate: "2024-02-01",
		Fee:           "2000",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := f.single.Execute(ctx, payment.SingleInput{PatientID: "110001", ApplicationID: fmt.Sprintf("HOSP_%d", h.ID)}); err != nil {
		t.Fatalf("pay: %v", err)
	}

	var got models.HospitalizationApplication
	f.db.First(&got, h.ID)
	if got.Status != "paid" {
		t.Fatalf("expected paid, got %s", got.Status)
	}
}

func TestProcessBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.book(t, "110001", "2024-01-01")
	p := f.prescribe(t, "Amoxicillin Capsules", "2")

	var presItem models.PaymentItem
	f.db.Where("application_id = ?", fmt.Sprintf("PRESC_%d", p.ID)).First(&presItem)

	res, err := f.batch.Execute(ctx, payment.BatchInput{
		PatientID:   "110001",
		TotalAmount: 137,
		PaymentTime: "2024-01-01 10:00:00",
		Items: []payment.BatchLine{
			{ItemName: "anything", Amount: 100, ApplicationID: fmt.Sprintf("APPT_%d", ap.ID)},
			{ItemName: presItem.Description, Amount: 37},
		},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(res.Items) != 2 || res.Record.Amount != 137 || res.Record.PaymentMethod != "online" {
		t.Fatalf("unexpected result: %+v", res.Record)
	}

	recs := f.records(t)
	if len(recs) != 2 {
		t.Fatalf("expected pre-record plus batch record, got %d", len(recs))
	}
	if recs[0].Status != "superseded" || recs[1].Status != "settled" {
		t.Fatalf("unexpected statuses %s %s", recs[0].Status, recs[1].Status)
	}

	settled, err := f.list.Records(ctx, "110001")
	if err != nil || len(settled) != 1 || settled[0].PaymentTime != "2024-01-01 10:00:00" {
		t.Fatalf("settled records: %v %+v", err, settled)
	}
}

func TestProcessBatch_LegacyDescription(t *testing.T) {
	f := newFixture(t)

	ap := f.book(t, "110001", "2024-01-01")
	_, err := f.batch.Execute(context.Background(), payment.BatchInput{
		PatientID:   "110001",
		TotalAmount: 100,
		Items:       []payment.BatchLine{{ItemName: fmt.Sprintf("Registration, appointment no. %d", ap.ID), Amount: 99}},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}

	var got models.Appointment
	f.db.First(&got, ap.ID)
	if got.Status != "confirmed" {
		t.Fatalf("expected confirmed, got %s", got.Status)
	}
}

func TestProcessBatch_RollsBackOnFailure(t *testing.T) {
	tests := []struct {
		name   string
		total  float64
		extra  []payment.BatchLine
		reason string
	}{
		{"amount mismatch", 90, nil, apperr.AmountMismatch},
		{"unknown line", 150, []payment.BatchLine{{ItemName: "mystery", Amount: 50}}, apperr.PaymentItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ap := f.book(t, "110001", "2024-01-01")

			lines := append([]payment.BatchLine{{Amount: 100, ApplicationID: fmt.Sprintf("APPT_%d", ap.ID)}}, tt.extra...)
			_, err := f.batch.Execute(context.Background(), payment.BatchInput{
				PatientID:   "110001",
				TotalAmount: tt.total,
				Items:       lines,
			})
			if !apperr.IsBusiness(err, tt.reason) {
				t.Fatalf("expected %s, got %v", tt.reason, err)
			}

			var item models.PaymentItem
			f.db.Where("application_id = ?", fmt.Sprintf("APPT_%d", ap.ID)).First(&item)
			if item.Status != "pending" {
				t.Fatalf("expected item still pending, got %s", item.Status)
			}
			var got models.Appointment
			f.db.First(&got, ap.ID)
			if got.Status != "pending" {
				t.Fatalf("expected appointment still pending, got %s", got.Status)
			}
			if n := len(f.records(t)); n != 0 {
				t.Fatalf("expected no records, got %d", n)
			}
		})
	}
}

func TestListItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.book(t, "110001", "2024-01-01")

	items, err := f.list.Items(ctx, "110001")
	if err != nil || len(items) != 1 {
		t.Fatalf("items: %v %d", err, len(items))
	}
	if items[0].ApplicationID != fmt.Sprintf("APPT_%d", ap.ID) || items[0].Amount != 100 || items[0].Status != "pending" {
		t.Fatalf("unexpected item: %+v", items[0])
	}

	none, err := f.list.Items(ctx, "110003")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty list, got %v %v", none, err)
	}
}
