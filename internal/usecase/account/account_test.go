package account_test

import (
	"context"
	"strings"
	"testing"

	"github.com/BruksfildServices01/clinic-server/internal/apperr"
	"github.com/BruksfildServices01/clinic-server/internal/audit"
	"github.com/BruksfildServices01/clinic-server/internal/config"
	"github.com/BruksfildServices01/clinic-server/internal/contentstore"
	"github.com/BruksfildServices01/clinic-server/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-server/internal/models"
	"github.com/BruksfildServices01/clinic-server/internal/testutil"
	"github.com/BruksfildServices01/clinic-server/internal/usecase/account"
)

func ptr(s string) *string { return &s }

func TestLogin(t *testing.T) {
	db := testutil.NewSeededDB(t)
	uc := account.NewLogin(repository.NewAccountGormRepository(db), audit.Discard, account.NewPasswords(config.PasswordPlain))
	ctx := context.Background()

	u, err := uc.Execute(ctx, "110001", "123456")
	if err != nil || u.ID != "110001" {
		t.Fatalf("expected login, got %v", err)
	}

	for _, tc := range [][2]string{{"110001", "wrong"}, {"119999", "123456"}} {
		if _, err := uc.Execute(ctx, tc[0], tc[1]); !apperr.IsBusiness(err, apperr.InvalidCredentials) {
			t.Fatalf("%v: expected INVALID_CREDENTIALS, got %v", tc, err)
		}
	}
}

func TestPasswords_Bcrypt(t *testing.T) {
	p := account.NewPasswords(config.PasswordBcrypt)

	hashed, err := p.Hash("secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hashed == "secret" || !strings.HasPrefix(hashed, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hashed)
	}
	if !p.Match(hashed, "secret") || p.Match(hashed, "other") {
		t.Fatal("bcrypt match is wrong")
	}

	plain := account.NewPasswords(config.PasswordPlain)
	if h, _ := plain.Hash("secret"); h != "secret" || !plain.Match("secret", "secret") {
		t.Fatal("plain mode must store and compare verbatim")
	}
}

func newRegister(t *testing.T) (*account.Register, *repository.AccountGormRepository) {
	t.Helper()
	db := testutil.NewSeededDB(t)
	repo := repository.NewAccountGormRepository(db)
	return account.NewRegister(repo, audit.Discard, account.NewPasswords(config.PasswordPlain), 50, false), repo
}

func TestRegister_AssignsNextID(t *testing.T) {
	uc, repo := newRegister(t)
	ctx := context.Background()

	patient, err := uc.Execute(ctx, account.RegisterInput{Username: "newbie", Password: "pw", Identity: "病患", Phone: "13800000000"})
	if err != nil {
		t.Fatalf("register patient: %v", err)
	}
	if patient.ID != "110004" || patient.Role != models.RolePatient {
		t.Fatalf("unexpected patient %s %s", patient.ID, patient.Role)
	}
	if _, err := repo.GetPatient(ctx, patient.ID); err != nil {
		t.Fatalf("patient row missing: %v", err)
	}

	doctor, err := uc.Execute(ctx, account.RegisterInput{Username: "dr", Password: "pw", Identity: "doctor"})
	if err != nil {
		t.Fatalf("register doctor: %v", err)
	}
	if doctor.ID != "120004" {
		t.Fatalf("expected 120004, got %s", doctor.ID)
	}
	doc, err := repo.GetDoctor(ctx, doctor.ID)
	if err != nil || doc.Fee != 50 || doc.Department != "General" {
		t.Fatalf("unexpected doctor row: %+v %v", doc, err)
	}
}

func TestRegister_Failures(t *testing.T) {
	tests := []struct {
		name   string
		in     account.RegisterInput
		reason string
	}{
		{"missing password", account.RegisterInput{Username: "a", Identity: "patient"}, apperr.InvalidFormat},
		{"bad identity", account.RegisterInput{Username: "a", Password: "p", Identity: "nurse"}, apperr.InvalidIdentity},
		{"bad phone", account.RegisterInput{Username: "a", Password: "p", Identity: "patient", Phone: "123"}, apperr.InvalidField},
		{"bad email", account.RegisterInput{Username: "a", Password: "p", Identity: "patient", Email: "nope"}, apperr.InvalidField},
		{"bad id card", account.RegisterInput{Username: "a", Password: "p", Identity: "patient", IDCard: "12345"}, apperr.InvalidField},
		{"future birth date", account.RegisterInput{Username: "a", Password: "p", Identity: "patient", BirthDate: "2999-01-01"}, apperr.InvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newRegister(t)
			if _, err := uc.Execute(context.Background(), tt.in); !apperr.IsBusiness(err, tt.reason) {
				t.Fatalf("expected %s, got %v", tt.reason, err)
			}
		})
	}
}

func TestRegister_DuplicatePhone(t *testing.T) {
	uc, repo := newRegister(t)
	ctx := context.Background()

	in := account.RegisterInput{Username: "a", Password: "p", Identity: "patient", Phone: "13900000000"}
	if _, err := uc.Execute(ctx, in); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := uc.Execute(ctx, in); !apperr.IsBusiness(err, apperr.AlreadyExists) {
		t.Fatalf("expected ALREADY_EXISTS, got %v", err)
	}

	// the failed attempt left nothing behind
	ids, _ := repo.IDsWithPrefix(ctx, "11")
	if len(ids) != 4 {
		t.Fatalf("expected 4 patients, got %v", ids)
	}
}

func TestUserInfo_AndUpdate(t *testing.T) {
	db := testutil.NewSeededDB(t)
	repo := repository.NewAccountGormRepository(db)
	store, err := contentstore.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	ctx := context.Background()

	info := account.NewUserInfo(repo, store)
	update := account.NewUpdateUserInfo(repo, audit.Discard, store, false)

	got, err := info.Execute(ctx, "120001")
	if err != nil {
		t.Fatalf("doctor info: %v", err)
	}
	if got.Department != "Internal Medicine" || got.Fee == nil || *got.Fee != 100 || got.Name != "Zhang Wei" {
		t.Fatalf("unexpected doctor info: %+v", got)
	}

	_, err = update.Execute(ctx, "110001", account.UpdateUserInfoInput{
		ID:       "110001",
		Name:     ptr("Chen Jie Jr"),
		Birthday: ptr("1990-05-06"),
		Phone:    ptr("13700000000"),
		Email:    ptr("Chen@Example.com"),
		Avatar:   testutil.PNGBase64(t),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err = info.Execute(ctx, "110001")
	if err != nil {
		t.Fatalf("patient info: %v", err)
	}
	if got.Name != "Chen Jie Jr" || got.Birthday != "1990-05-06" || got.Phone != "13700000000" || got.Email != "chen@example.com" {
		t.Fatalf("unexpected patient info: %+v", got)
	}
	if got.Avatar == "" {
		t.Fatal("expected avatar to round-trip through the content store")
	}

	if _, err := update.Execute(ctx, "110002", account.UpdateUserInfoInput{ID: "110001"}); !apperr.IsBusiness(err, apperr.NotAuthenticated) {
		t.Fatalf("expected NOT_AUTHENTICATED, got %v", err)
	}
	if _, err := update.Execute(ctx, "", account.UpdateUserInfoInput{ID: "110001", Phone: ptr("1")}); !apperr.IsBusiness(err, apperr.InvalidField) {
		t.Fatalf("expected INVALID_FIELD, got %v", err)
	}
	if _, err := update.Execute(ctx, "", account.UpdateUserInfoInput{ID: "119999"}); !apperr.IsBusiness(err, apperr.UserNotFound) {
		t.Fatalf("expected USER_NOT_FOUND, got %v", err)
	}
	if _, err := info.Execute(ctx, "119999"); !apperr.IsBusiness(err, apperr.UserNotFound) {
		t.Fatalf("expected USER_NOT_FOUND, got %v", err)
	}
}
