package cli

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/recoverylog/internal/config"
)

func TestIsUnlocked(t *testing.T) {
	app := newTestApp(&fakeVS{}, &fakeJS{}, &fakeBS{}, nil)
	if app.isUnlocked() {
		t.Fatalf("expected isUnlocked() == false for a fresh vault")
	}

	app = newTestApp(&fakeVS{unlocked: true}, &fakeJS{}, &fakeBS{}, nil)
	if !app.isUnlocked() {
		t.Fatalf("expected isUnlocked() == true for an unlocked vault")
	}
}

func TestGetStatus(t *testing.T) {
	app := newTestApp(&fakeVS{}, &fakeJS{}, &fakeBS{}, nil)
	if got := app.getStatus(); got != "(u1 locked)" {
		t.Fatalf("got %q", got)
	}

	app = newTestApp(&fakeVS{unlocked: true}, &fakeJS{}, &fakeBS{}, nil)
	if got := app.getStatus(); got != "(u1 unlocked)" {
		t.Fatalf("got %q", got)
	}

	app.config = &config.Config{}
	if got := app.getStatus(); got != "(unlocked)" {
		t.Fatalf("got %q", got)
	}
}

func TestPreview(t *testing.T) {
	if got := preview("short"); got != "short" {
		t.Fatalf("got %q", got)
	}

	multi := "first line\nsecond line"
	if got := preview(multi); got != "first line second line" {
		t.Fatalf("newlines must be flattened, got %q", got)
	}

	wide := strings.Repeat("x", listPreviewLen+10)
	got := preview(wide)
	if len([]rune(got)) != listPreviewLen+3 {
		t.Fatalf("truncated preview has wrong length: %d", len([]rune(got)))
	}
	if got[len(got)-3:] != "..." {
		t.Fatalf("truncated preview must end with ellipsis, got %q", got)
	}
}
