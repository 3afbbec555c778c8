package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeInto(form *CredentialsFormModel, text string) {
	for _, r := range text {
		form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func nextField(form *CredentialsFormModel) {
	form.Update(tea.KeyMsg{Type: tea.KeyTab})
}

func TestCreateForm_Credentials(t *testing.T) {
	form := NewCreateForm()
	form.Activate()

	typeInto(form, " https://x/dav ")
	nextField(form)
	typeInto(form, "jane@example.com")
	nextField(form)
	typeInto(form, "s3cret ")
	nextField(form)
	typeInto(form, "bewcloud")

	got := form.Credentials()
	if got.URL != "https://x/dav" {
		t.Errorf("expected trimmed URL, got %q", got.URL)
	}
	if got.Username != "jane@example.com" {
		t.Errorf("unexpected username %q", got.Username)
	}
	if got.Password != "s3cret " {
		t.Errorf("expected password kept verbatim, got %q", got.Password)
	}
	if got.Name != "bewcloud" {
		t.Errorf("unexpected name %q", got.Name)
	}
}

func TestCredentialsForm_HasNoNameField(t *testing.T) {
	form := NewCredentialsForm()
	form.Activate()

	for i := 0; i < 3; i++ {
		nextField(form)
	}
	typeInto(form, "https://x/dav")

	got := form.Credentials()
	if got.URL != "https://x/dav" {
		t.Errorf("expected focus to wrap to the URL field, got %q", got.URL)
	}
	if got.Name != "" {
		t.Errorf("expected no name, got %q", got.Name)
	}
}

func TestCredentialsForm_BusyIgnoresInput(t *testing.T) {
	form := NewCreateForm()
	form.Activate()
	form.SetBusy(true)

	typeInto(form, "https://x/dav")

	if got := form.Credentials().URL; got != "" {
		t.Errorf("expected no input while busy, got %q", got)
	}
}

func TestCredentialsForm_ClearPasswordAndReset(t *testing.T) {
	form := NewCreateForm()
	form.Activate()
	typeInto(form, "https://x/dav")
	nextField(form)
	nextField(form)
	typeInto(form, "s3cret")

	form.ClearPassword()
	if got := form.Credentials(); got.Password != "" || got.URL != "https://x/dav" {
		t.Errorf("expected only the password cleared, got %+v", got)
	}

	form.Reset()
	if got := form.Credentials(); got.URL != "" {
		t.Errorf("expected reset to clear the URL, got %q", got.URL)
	}
}
