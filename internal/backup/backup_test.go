package backup

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/upwell-app/upwell/internal/checkin"
	"github.com/upwell-app/upwell/internal/glp1"
	"github.com/upwell-app/upwell/internal/store"
	"github.com/upwell-app/upwell/internal/weight"
)

const testPassphrase = "correct-horse-battery-staple"

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "upwell.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seed(t *testing.T, db *store.DB) {
	t.Helper()
	ctx := context.Background()
	cs := checkin.NewStore(db)
	for _, c := range []checkin.CheckIn{
		{Date: "2024-03-04", Trained: true, DrankWater: true, Mood: checkin.MoodGood},
		{Date: "2024-03-05", Food: checkin.AdherencePartial, Contexts: []checkin.FoodContext{checkin.ContextOffHours}, Note: "plantão", Mood: checkin.MoodTired},
		{Date: "2024-03-06", SleptWell: true, ShieldActivated: true, Mood: checkin.MoodNeutral},
	} {
		if err := cs.Save(ctx, "u1", c); err != nil {
			t.Fatal(err)
		}
	}
	if err := weight.NewStore(db).Save(ctx, "u1", weight.Record{Date: "2024-03-04", Kg: 101.3, Context: "jejum"}); err != nil {
		t.Fatal(err)
	}
	if _, err := glp1.NewStore(db).Add(ctx, "u1", glp1.Application{Date: "2024-03-04", Medication: "Mounjaro", Dose: "2.5mg"}); err != nil {
		t.Fatal(err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := openTestDB(t)
	seed(t, src)

	path := filepath.Join(t.TempDir(), "upwell.age")
	snap, err := Export(ctx, src, "u1", path, testPassphrase, "2024-03-07")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(snap.CheckIns) != 3 || snap.CheckIns[0].Date != "2024-03-04" {
		t.Fatalf("snapshot check-ins = %+v", snap.CheckIns)
	}

	last, ok, err := LastExport(ctx, src)
	if err != nil || !ok || last != "2024-03-07" {
		t.Fatalf("LastExport = %q %v %v", last, ok, err)
	}

	dst := openTestDB(t)
	n, err := Import(ctx, dst, "u1", path, testPassphrase)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n.CheckIns != 3 || n.Weights != 1 || n.Applications != 1 {
		t.Fatalf("counts = %+v", n)
	}

	want, _ := checkin.NewStore(src).CheckIns(ctx, "u1")
	got, _ := checkin.NewStore(dst).CheckIns(ctx, "u1")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("restored check-ins differ:\n got %+v\nwant %+v", got, want)
	}
	wantApps, _ := glp1.NewStore(src).Applications(ctx, "u1")
	gotApps, _ := glp1.NewStore(dst).Applications(ctx, "u1")
	if !reflect.DeepEqual(gotApps, wantApps) {
		t.Errorf("restored applications differ:\n got %+v\nwant %+v", gotApps, wantApps)
	}
	gotWeights, _ := weight.NewStore(dst).Records(ctx, "u1")
	if len(gotWeights) != 1 || gotWeights[0].Kg != 101.3 || gotWeights[0].Context != "jejum" {
		t.Errorf("restored weights = %+v", gotWeights)
	}

	// Importing twice leaves a single copy of each application.
	if _, err := Import(ctx, dst, "u1", path, testPassphrase); err != nil {
		t.Fatalf("second Import: %v", err)
	}
	gotApps, _ = glp1.NewStore(dst).Applications(ctx, "u1")
	if len(gotApps) != 1 {
		t.Errorf("applications after re-import = %d, want 1", len(gotApps))
	}
}

func TestImportIntoAnotherUser(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seed(t, db)

	path := filepath.Join(t.TempDir(), "upwell.age")
	if _, err := Export(ctx, db, "u1", path, testPassphrase, "2024-03-07"); err != nil {
		t.Fatal(err)
	}

	n, err := Import(ctx, db, "u2", path, testPassphrase)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if n.Applications != 1 {
		t.Fatalf("applications imported = %d, want 1", n.Applications)
	}
	apps, err := glp1.NewStore(db).Applications(ctx, "u2")
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 1 || apps[0].Medication != "Mounjaro" {
		t.Fatalf("u2 applications = %+v, want the restored one", apps)
	}
	if own, _ := glp1.NewStore(db).Applications(ctx, "u1"); len(own) != 1 {
		t.Errorf("u1 applications = %d, want 1", len(own))
	}

	// A second restore finds every application already present.
	n, err = Import(ctx, db, "u2", path, testPassphrase)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if n.Applications != 0 {
		t.Errorf("applications counted on re-import = %d, want 0", n.Applications)
	}
}

func TestImportWrongPassphrase(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seed(t, db)

	path := filepath.Join(t.TempDir(), "upwell.age")
	if _, err := Export(ctx, db, "u1", path, testPassphrase, "2024-03-07"); err != nil {
		t.Fatal(err)
	}
	_, err := Import(ctx, openTestDB(t), "u1", path, "wrong-passphrase")
	if !errors.Is(err, ErrWrongPassphrase) {
		t.Fatalf("err = %v, want ErrWrongPassphrase", err)
	}
}

func TestDecryptCorrupted(t *testing.T) {
	_, err := Decrypt([]byte("this is not an age file"), testPassphrase)
	if !errors.Is(err, ErrCorrupted) {
		t.Fatalf("err = %v, want ErrCorrupted", err)
	}
}

func TestDecryptNewerFormat(t *testing.T) {
	raw, err := Encrypt(&Snapshot{Version: FormatVersion + 1}, testPassphrase)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decrypt(raw, testPassphrase); err == nil {
		t.Fatal("expected an error for a newer snapshot format")
	}
}

func TestBatchRejectsUnknownCodes(t *testing.T) {
	s := &Snapshot{Version: FormatVersion, CheckIns: []checkInJSON{{Date: "2024-03-04", Food: "sim", Mood: "eufórico"}}}
	if _, err := s.Batch(); !errors.Is(err, ErrCorrupted) {
		t.Fatalf("err = %v, want ErrCorrupted", err)
	}
}

func TestPlaintextNotOnDisk(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	seed(t, db)

	path := filepath.Join(t.TempDir(), "upwell.age")
	if _, err := Export(ctx, db, "u1", path, testPassphrase, "2024-03-07"); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte("Mounjaro")) || bytes.Contains(raw, []byte("plantão")) {
		t.Error("plaintext found in backup file")
	}
	if !bytes.HasPrefix(raw, []byte("-----BEGIN AGE ENCRYPTED FILE-----")) {
		t.Error("backup is not armored")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("backup permissions = %o, want 600", perm)
	}
}

func TestExportEmptyPassphrase(t *testing.T) {
	db := openTestDB(t)
	if _, err := Export(context.Background(), db, "u1", filepath.Join(t.TempDir(), "x.age"), "", "2024-03-07"); err == nil {
		t.Fatal("expected error for empty passphrase")
	}
}
