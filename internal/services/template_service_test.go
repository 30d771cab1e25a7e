package services

import (
	"errors"
	"testing"

	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/models"
)

func TestTemplateOwnerScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)
	alice := newTestUser(t, db, "alice@example.com")
	bob := newTestUser(t, db, "bob@example.com")

	template, err := svc.Create(alice, &dto.EmailTemplateCreateRequest{
		Name:    "Viewing Follow-up",
		Subject: "Thanks for visiting",
		Body:    "Hi {{name}}, thanks for stopping by.",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(template.ID, bob); !errors.Is(err, ErrForbidden) {
		t.Errorf("cross-user get err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(template.ID, bob); !errors.Is(err, ErrForbidden) {
		t.Errorf("cross-user delete err = %v, want ErrForbidden", err)
	}

	bobTemplates, err := svc.List(bob)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bobTemplates) != 0 {
		t.Errorf("bob sees %d of alice's templates", len(bobTemplates))
	}
}

func TestTemplateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)
	user := newTestUser(t, db, "alice@example.com")

	cases := []dto.EmailTemplateCreateRequest{
		{Name: "", Subject: "s", Body: "b"},
		{Name: "n", Subject: "", Body: "b"},
		{Name: "n", Subject: "s", Body: ""},
	}
	for i, req := range cases {
		if _, err := svc.Create(user, &req); !errors.Is(err, ErrValidation) {
			t.Errorf("case %d: err = %v, want ErrValidation", i, err)
		}
	}
}

func TestTemplateSingleDefault(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)
	user := newTestUser(t, db, "alice@example.com")

	first, err := svc.Create(user, &dto.EmailTemplateCreateRequest{
		Name: "First", Subject: "s", Body: "b", IsDefault: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	second, err := svc.Create(user, &dto.EmailTemplateCreateRequest{
		Name: "Second", Subject: "s", Body: "b", IsDefault: true,
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if !second.IsDefault {
		t.Error("second template should be default")
	}

	var defaults int64
	db.Model(&models.EmailTemplate{}).Where("user_id = ? AND is_default = ?", user.ID, true).Count(&defaults)
	if defaults != 1 {
		t.Errorf("defaults = %d, want 1", defaults)
	}

	// Flipping the first back via update moves the flag again.
	reflagged := true
	if _, err := svc.Update(first.ID, user, &dto.EmailTemplateUpdateRequest{IsDefault: &reflagged}); err != nil {
		t.Fatalf("update: %v", err)
	}
	db.Model(&models.EmailTemplate{}).Where("user_id = ? AND is_default = ?", user.ID, true).Count(&defaults)
	if defaults != 1 {
		t.Errorf("defaults after update = %d, want 1", defaults)
	}
	got, err := svc.Get(first.ID, user)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsDefault {
		t.Error("first template should be default again")
	}
}

func TestTemplateUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewTemplateService(db)
	user := newTestUser(t, db, "alice@example.com")

	template, err := svc.Create(user, &dto.EmailTemplateCreateRequest{Name: "Offer", Subject: "s", Body: "b"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(template.ID, user, &dto.EmailTemplateUpdateRequest{Subject: strPtr("New offer")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Subject != "New offer" || updated.Name != "Offer" {
		t.Error("patch semantics violated")
	}

	if err := svc.Delete(template.ID, user); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(template.ID, user); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
}
