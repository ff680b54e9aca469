package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/recoverylog/internal/config"
	"github.com/dmitrijs2005/recoverylog/internal/journal"
	"github.com/dmitrijs2005/recoverylog/internal/vault"
)

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func newTestApp(vs VaultService, js JournalService, bs BackupService, r *bufio.Reader) *App {
	return &App{
		config:         &config.Config{UserID: "u1", BackupTimeout: time.Minute},
		vaultService:   vs,
		journalService: js,
		backupService:  bs,
		reader:         r,
	}
}

// stubPIN replaces the interactive PIN prompt with a fixed sequence of answers.
func stubPIN(t *testing.T, pins ...string) {
	t.Helper()
	orig := getPIN
	i := 0
	getPIN = func(w io.Writer, prompt string) ([]byte, error) {
		if i >= len(pins) {
			return nil, errors.New("no more pins")
		}
		p := pins[i]
		i++
		return []byte(p), nil
	}
	t.Cleanup(func() { getPIN = orig })
}

type fakeVS struct {
	set      bool
	setErr   error
	unlocked bool

	setupPIN string
	setupErr error

	unlockPIN string
	unlockOK  bool
	unlockErr error

	lockCalls int
}

func (f *fakeVS) IsSet(ctx context.Context) (bool, error) { return f.set, f.setErr }
func (f *fakeVS) IsUnlocked() bool                        { return f.unlocked }
func (f *fakeVS) Setup(ctx context.Context, pin string) error {
	f.setupPIN = pin
	if f.setupErr != nil {
		return f.setupErr
	}
	f.set = true
	f.unlocked = true
	return nil
}
func (f *fakeVS) Unlock(ctx context.Context, pin string) (bool, error) {
	f.unlockPIN = pin
	if f.unlockErr != nil {
		return false, f.unlockErr
	}
	if f.unlockOK {
		f.unlocked = true
	}
	return f.unlockOK, nil
}
func (f *fakeVS) Lock() {
	f.lockCalls++
	f.unlocked = false
}

type fakeJS struct {
	// Add
	addCount   int
	addContent string
	addMood    int
	addErr     error

	// Update
	updID      string
	updContent string
	updMood    int
	updErr     error

	// Entry
	getID  string
	getOut *journal.Entry
	getErr error

	// Entries
	listOut []journal.Entry
	listErr error

	// Delete
	delID  string
	delErr error

	// Count
	count    int
	countErr error
}

func (f *fakeJS) Add(ctx context.Context, content string, mood int) (*journal.Entry, error) {
	f.addCount++
	f.addContent = content
	f.addMood = mood
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &journal.Entry{ID: "new-id", Content: content, Mood: mood}, nil
}
func (f *fakeJS) Update(ctx context.Context, id, content string, mood int) (*journal.Entry, error) {
	f.updID = id
	f.updContent = content
	f.updMood = mood
	if f.updErr != nil {
		return nil, f.updErr
	}
	return &journal.Entry{ID: id, Content: content, Mood: mood}, nil
}
func (f *fakeJS) Entry(ctx context.Context, id string) (*journal.Entry, error) {
	f.getID = id
	return f.getOut, f.getErr
}
func (f *fakeJS) Entries(ctx context.Context) ([]journal.Entry, error) {
	return f.listOut, f.listErr
}
func (f *fakeJS) Delete(ctx context.Context, id string) error { f.delID = id; return f.delErr }
func (f *fakeJS) Count(ctx context.Context) (int, error)      { return f.count, f.countErr }

type fakeBS struct {
	key     string
	local   string
	snapErr error

	restoreKey string
	restoreN   int
	restoreErr error

	shareKey string
	shareURL string
	shareErr error
}

func (f *fakeBS) Snapshot(ctx context.Context) (string, string, error) {
	if f.snapErr != nil {
		return "", "", f.snapErr
	}
	return f.key, f.local, nil
}
func (f *fakeBS) Restore(ctx context.Context, key string) (int, error) {
	f.restoreKey = key
	return f.restoreN, f.restoreErr
}
func (f *fakeBS) ShareURL(ctx context.Context, key string) (string, error) {
	f.shareKey = key
	if f.shareErr != nil {
		return "", f.shareErr
	}
	return f.shareURL, nil
}

// ------------ tests ------------

func TestSetup_PINConfirmed(t *testing.T) {
	stubPIN(t, "1234", "1234")

	vs := &fakeVS{}
	app := newTestApp(vs, &fakeJS{}, &fakeBS{}, nil)

	if err := app.Setup(context.Background()); err != nil {
		t.Fatalf("Setup err: %v", err)
	}
	if vs.setupPIN != "1234" {
		t.Fatalf("Setup called with wrong pin: %q", vs.setupPIN)
	}
	if !app.isUnlocked() {
		t.Fatalf("vault should be unlocked after setup")
	}
}

func TestSetup_PINMismatch(t *testing.T) {
	stubPIN(t, "1234", "9999")

	vs := &fakeVS{}
	app := newTestApp(vs, &fakeJS{}, &fakeBS{}, nil)

	if err := app.Setup(context.Background()); err != nil {
		t.Fatalf("Setup err: %v", err)
	}
	if vs.setupPIN != "" {
		t.Fatalf("Setup must not be called on mismatch, got pin %q", vs.setupPIN)
	}
}

func TestSetup_AlreadySetUp(t *testing.T) {
	stubPIN(t, "1234", "1234")

	vs := &fakeVS{setupErr: vault.ErrAlreadySetUp}
	app := newTestApp(vs, &fakeJS{}, &fakeBS{}, nil)

	if err := app.Setup(context.Background()); err != nil {
		t.Fatalf("an existing vault should not surface as an error, got: %v", err)
	}
}

func TestUnlock_RightAndWrongPIN(t *testing.T) {
	stubPIN(t, "1234")
	vs := &fakeVS{set: true, unlockOK: true}
	app := newTestApp(vs, &fakeJS{}, &fakeBS{}, nil)

	if err := app.Unlock(context.Background()); err != nil {
		t.Fatalf("Unlock err: %v", err)
	}
	if vs.unlockPIN != "1234" || !app.isUnlocked() {
		t.Fatalf("unlock not propagated: pin=%q unlocked=%v", vs.unlockPIN, app.isUnlocked())
	}

	stubPIN(t, "9999")
	vs = &fakeVS{set: true, unlockOK: false}
	app = newTestApp(vs, &fakeJS{}, &fakeBS{}, nil)

	if err := app.Unlock(context.Background()); err != nil {
		t.Fatalf("wrong pin should not surface as an error, got: %v", err)
	}
	if app.isUnlocked() {
		t.Fatalf("vault must stay locked on wrong pin")
	}
}

func TestUnlock_NotSetUp(t *testing.T) {
	stubPIN(t, "1234")
	vs := &fakeVS{unlockErr: vault.ErrNotSetUp}
	app := newTestApp(vs, &fakeJS{}, &fakeBS{}, nil)

	if err := app.Unlock(context.Background()); err != nil {
		t.Fatalf("missing vault should not surface as an error, got: %v", err)
	}
}

func TestLock(t *testing.T) {
	vs := &fakeVS{set: true, unlocked: true}
	app := newTestApp(vs, &fakeJS{}, &fakeBS{}, nil)

	if err := app.Lock(context.Background()); err != nil {
		t.Fatalf("Lock err: %v", err)
	}
	if vs.lockCalls != 1 || app.isUnlocked() {
		t.Fatalf("lock not propagated: calls=%d unlocked=%v", vs.lockCalls, app.isUnlocked())
	}
}

func TestAddEntry_CollectsBodyAndMood(t *testing.T) {
	js := &fakeJS{}
	r := readerFromLines(
		"First day, feeling ok", // entry body
		"",                      // end of multiline input
		"4",                     // mood
	)
	app := newTestApp(&fakeVS{}, js, &fakeBS{}, r)

	if err := app.AddEntry(context.Background()); err != nil {
		t.Fatalf("AddEntry err: %v", err)
	}
	if js.addCount != 1 {
		t.Fatalf("Add not called exactly once, got %d", js.addCount)
	}
	if js.addContent != "First day, feeling ok" || js.addMood != 4 {
		t.Fatalf("wrong Add call: content=%q mood=%d", js.addContent, js.addMood)
	}
}

func TestAddEntry_MoodSkipped(t *testing.T) {
	js := &fakeJS{}
	app := newTestApp(&fakeVS{}, js, &fakeBS{}, rdr("day two\n\n\n"))

	if err := app.AddEntry(context.Background()); err != nil {
		t.Fatalf("AddEntry err: %v", err)
	}
	if js.addMood != 0 {
		t.Fatalf("skipped mood should be 0, got %d", js.addMood)
	}
}

func TestAddEntry_BadMood(t *testing.T) {
	js := &fakeJS{}
	app := newTestApp(&fakeVS{}, js, &fakeBS{}, rdr("day three\n\nabc\n"))

	if err := app.AddEntry(context.Background()); err == nil {
		t.Fatalf("want error for non-numeric mood")
	}
	if js.addCount != 0 {
		t.Fatalf("Add must not be called on bad mood, got %d calls", js.addCount)
	}
}

func TestList_OK(t *testing.T) {
	js := &fakeJS{
		listOut: []journal.Entry{
			{ID: "1", Content: "A", Mood: 3, CreatedAt: time.Now()},
			{ID: "2", Content: "B", CreatedAt: time.Now()},
		},
	}
	app := newTestApp(&fakeVS{}, js, &fakeBS{}, nil)
	if err := app.List(context.Background()); err != nil {
		t.Fatalf("List err: %v", err)
	}
}

func TestShow_FetchesByID(t *testing.T) {
	js := &fakeJS{getOut: &journal.Entry{ID: "42", Content: "Body", CreatedAt: time.Now()}}
	app := newTestApp(&fakeVS{}, js, &fakeBS{}, readerFromLines("42"))

	if err := app.Show(context.Background()); err != nil {
		t.Fatalf("Show err: %v", err)
	}
	if js.getID != "42" {
		t.Fatalf("Entry called with wrong id: %q", js.getID)
	}
}

func TestShow_ErrorPropagates(t *testing.T) {
	js := &fakeJS{getErr: errors.New("boom")}
	app := newTestApp(&fakeVS{}, js, &fakeBS{}, readerFromLines("id-err"))
	if err := app.Show(context.Background()); err == nil {
		t.Fatalf("want error from Entry to propagate")
	}
}

func TestEdit_UpdatesEntry(t *testing.T) {
	js := &fakeJS{}
	app := newTestApp(&fakeVS{}, js, &fakeBS{}, rdr("42\nnew text\n\n5\n"))

	if err := app.Edit(context.Background()); err != nil {
		t.Fatalf("Edit err: %v", err)
	}
	if js.updID != "42" || js.updContent != "new text" || js.updMood != 5 {
		t.Fatalf("wrong Update call: id=%q content=%q mood=%d", js.updID, js.updContent, js.updMood)
	}
}

func TestDelete_OK(t *testing.T) {
	js := &fakeJS{}
	app := newTestApp(&fakeVS{}, js, &fakeBS{}, readerFromLines("777"))

	if err := app.Delete(context.Background()); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if js.delID != "777" {
		t.Fatalf("Delete called with wrong id: %q", js.delID)
	}
}

func TestStatus_ReportsStateAndCount(t *testing.T) {
	vs := &fakeVS{set: true}
	js := &fakeJS{count: 7}
	app := newTestApp(vs, js, &fakeBS{}, nil)

	if err := app.Status(context.Background()); err != nil {
		t.Fatalf("Status err: %v", err)
	}

	js.countErr = errors.New("boom")
	if err := app.Status(context.Background()); err == nil {
		t.Fatalf("want count error to propagate")
	}
}

func TestExport_OK(t *testing.T) {
	bs := &fakeBS{key: "backups/u1/s.json", local: "exports/s.json"}
	app := newTestApp(&fakeVS{}, &fakeJS{}, bs, nil)

	if err := app.Export(context.Background()); err != nil {
		t.Fatalf("Export err: %v", err)
	}
}

func TestExport_ErrorPropagates(t *testing.T) {
	bs := &fakeBS{snapErr: errors.New("boom")}
	app := newTestApp(&fakeVS{}, &fakeJS{}, bs, nil)

	if err := app.Export(context.Background()); err == nil {
		t.Fatalf("want snapshot error to propagate")
	}
}

func TestRestore_OK(t *testing.T) {
	bs := &fakeBS{restoreN: 3}
	app := newTestApp(&fakeVS{}, &fakeJS{}, bs, readerFromLines("backups/u1/s.json"))

	if err := app.Restore(context.Background()); err != nil {
		t.Fatalf("Restore err: %v", err)
	}
	if bs.restoreKey != "backups/u1/s.json" {
		t.Fatalf("Restore called with wrong key: %q", bs.restoreKey)
	}
}

func TestShare_OK(t *testing.T) {
	bs := &fakeBS{shareURL: "https://example.org/snap"}
	app := newTestApp(&fakeVS{}, &fakeJS{}, bs, readerFromLines("backups/u1/s.json"))

	if err := app.Share(context.Background()); err != nil {
		t.Fatalf("Share err: %v", err)
	}
	if bs.shareKey != "backups/u1/s.json" {
		t.Fatalf("ShareURL called with wrong key: %q", bs.shareKey)
	}
}
