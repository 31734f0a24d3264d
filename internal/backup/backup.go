// Package backup writes and restores passphrase-encrypted snapshots of a
// user's records.
//
// A snapshot is JSON encrypted with age (scrypt recipient) and ASCII-armored,
// so it can be pasted into a note or sent by mail. Files are written
// atomically: temp file, fsync, rename.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/upwell-app/upwell/internal/checkin"
	"github.com/upwell-app/upwell/internal/glp1"
	"github.com/upwell-app/upwell/internal/importer"
	"github.com/upwell-app/upwell/internal/store"
	"github.com/upwell-app/upwell/internal/weight"
)

// FormatVersion is bumped whenever the snapshot layout changes.
const FormatVersion = 1

// LastExportKey is the kv key holding the date of the last export.
const LastExportKey = "backup.last_export"

// ErrWrongPassphrase is returned when decryption fails due to a bad passphrase.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// ErrCorrupted is returned when a file cannot be decrypted or parsed.
var ErrCorrupted = errors.New("backup file is corrupted or unreadable")

// Snapshot is the plaintext content of a backup.
type Snapshot struct {
	Version      int           `json:"version"`
	ExportedOn   string        `json:"exported_on"`
	CheckIns     []checkInJSON `json:"checkins"`
	Weights      []weightJSON  `json:"weights"`
	Applications []appJSON     `json:"applications"`
}

type checkInJSON struct {
	Date     string   `json:"date"`
	Trained  bool     `json:"trained"`
	Water    bool     `json:"water"`
	Slept    bool     `json:"slept"`
	Food     string   `json:"food"`
	Contexts []string `json:"contexts,omitempty"`
	Mood     string   `json:"mood"`
	Shield   bool     `json:"shield"`
	Note     string   `json:"note,omitempty"`
}

type weightJSON struct {
	Date    string  `json:"date"`
	Kg      float64 `json:"kg"`
	Context string  `json:"context,omitempty"`
	Notes   string  `json:"notes,omitempty"`
}

type appJSON struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Medication  string `json:"medication"`
	Dose        string `json:"dose,omitempty"`
	Observation string `json:"observation,omitempty"`
}

// Collect reads every record for userID into a Snapshot.
func Collect(ctx context.Context, db *store.DB, userID, today string) (*Snapshot, error) {
	checkins, err := checkin.NewStore(db).CheckIns(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading check-ins: %w", err)
	}
	weights, err := weight.NewStore(db).Records(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading weights: %w", err)
	}
	apps, err := glp1.NewStore(db).Applications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading applications: %w", err)
	}

	s := &Snapshot{
		Version:      FormatVersion,
		ExportedOn:   today,
		CheckIns:     make([]checkInJSON, 0, len(checkins)),
		Weights:      make([]weightJSON, 0, len(weights)),
		Applications: make([]appJSON, 0, len(apps)),
	}
	// Oldest first reads naturally and restores shields in week order.
	for i := len(checkins) - 1; i >= 0; i-- {
		c := checkins[i]
		j := checkInJSON{
			Date: c.Date, Trained: c.Trained, Water: c.DrankWater, Slept: c.SleptWell,
			Food: c.Food.Code(), Mood: c.Mood.Code(), Shield: c.ShieldActivated, Note: c.Note,
		}
		for _, x := range c.Contexts {
			j.Contexts = append(j.Contexts, x.Code())
		}
		s.CheckIns = append(s.CheckIns, j)
	}
	for _, r := range weights {
		s.Weights = append(s.Weights, weightJSON{Date: r.Date, Kg: r.Kg, Context: r.Context, Notes: r.Notes})
	}
	for i := len(apps) - 1; i >= 0; i-- {
		a := apps[i]
		s.Applications = append(s.Applications, appJSON{
			ID: a.ID, Date: a.Date, Medication: a.Medication, Dose: a.Dose, Observation: a.Observation,
		})
	}
	return s, nil
}

// Batch converts the snapshot back into records, rejecting unknown codes.
func (s *Snapshot) Batch() (importer.Batch, error) {
	var b importer.Batch
	for _, j := range s.CheckIns {
		c := checkin.CheckIn{
			Date: j.Date, Trained: j.Trained, DrankWater: j.Water, SleptWell: j.Slept,
			Note: j.Note, ShieldActivated: j.Shield,
		}
		var err error
		if c.Food, err = checkin.ParseFoodAdherence(j.Food); err != nil {
			return b, fmt.Errorf("%w: check-in %s: %v", ErrCorrupted, j.Date, err)
		}
		if c.Mood, err = checkin.ParseMood(j.Mood); err != nil {
			return b, fmt.Errorf("%w: check-in %s: %v", ErrCorrupted, j.Date, err)
		}
		for _, code := range j.Contexts {
			x, err := checkin.ParseFoodContext(code)
			if err != nil {
				return b, fmt.Errorf("%w: check-in %s: %v", ErrCorrupted, j.Date, err)
			}
			c.Contexts = append(c.Contexts, x)
		}
		b.CheckIns = append(b.CheckIns, c)
	}
	for _, j := range s.Weights {
		b.Weights = append(b.Weights, weight.Record{Date: j.Date, Kg: j.Kg, Context: j.Context, Notes: j.Notes})
	}
	for _, j := range s.Applications {
		b.Applications = append(b.Applications, glp1.Application{
			ID: j.ID, Date: j.Date, Medication: j.Medication, Dose: j.Dose, Observation: j.Observation,
		})
	}
	return b, nil
}

// Export writes an encrypted snapshot of userID's records to path and
// remembers today as the last export date.
func Export(ctx context.Context, db *store.DB, userID, path, passphrase, today string) (*Snapshot, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase must not be empty")
	}
	s, err := Collect(ctx, db, userID, today)
	if err != nil {
		return nil, err
	}
	raw, err := Encrypt(s, passphrase)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}
	if err := atomicWrite(path, raw); err != nil {
		return nil, err
	}
	if err := db.SetKV(ctx, LastExportKey, today); err != nil {
		return nil, err
	}
	return s, nil
}

// Import decrypts the backup at path and writes its records for userID.
// Existing check-ins and weights on the same dates are replaced;
// applications already present (same ID) are skipped.
func Import(ctx context.Context, db *store.DB, userID, path, passphrase string) (importer.Counts, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return importer.Counts{}, err
	}
	s, err := Decrypt(raw, passphrase)
	if err != nil {
		return importer.Counts{}, err
	}
	b, err := s.Batch()
	if err != nil {
		return importer.Counts{}, err
	}
	return importer.Apply(ctx, db, userID, b)
}

// Encrypt serializes and encrypts a snapshot.
func Encrypt(s *Snapshot, passphrase string) ([]byte, error) {
	plaintext, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("serializing backup: %w", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age recipient: %w", err)
	}

	var buf bytes.Buffer
	armorWriter := armor.NewWriter(&buf)
	w, err := age.Encrypt(armorWriter, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing age encryption: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("encrypting backup: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}
	return buf.Bytes(), nil
}

// Decrypt decrypts and parses a snapshot.
func Decrypt(raw []byte, passphrase string) (*Snapshot, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age identity: %w", err)
	}

	r, err := age.Decrypt(armor.NewReader(bytes.NewReader(raw)), identity)
	if err != nil {
		// age has no typed error for a bad scrypt passphrase; match its wording.
		msg := err.Error()
		if strings.Contains(msg, "no identity matched") || strings.Contains(msg, "incorrect") {
			return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading decrypted data: %v", ErrCorrupted, err)
	}

	var s Snapshot
	if err := json.Unmarshal(plaintext, &s); err != nil {
		return nil, fmt.Errorf("%w: parsing backup JSON: %v", ErrCorrupted, err)
	}
	if s.Version > FormatVersion {
		return nil, fmt.Errorf("backup format %d is newer than this version of upwell supports (%d)", s.Version, FormatVersion)
	}
	return &s, nil
}

// LastExport returns the date of the most recent export, if any.
func LastExport(ctx context.Context, db *store.DB) (string, bool, error) {
	return db.GetKV(ctx, LastExportKey)
}

// atomicWrite writes data to path: temp file, fsync, rename.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upwell-backup-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	if err := os.Chmod(tmpName, 0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting temp file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing backup: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("fsyncing backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("committing backup file: %w", err)
	}

	success = true
	return nil
}
