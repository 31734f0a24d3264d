// Package importer loads records in bulk, either from a YAML document
// written by hand or from a decoded backup, and writes them through the
// same stores the CLI uses so every record is validated on the way in.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/upwell-app/upwell/internal/checkin"
	"github.com/upwell-app/upwell/internal/glp1"
	"github.com/upwell-app/upwell/internal/store"
	"github.com/upwell-app/upwell/internal/weight"
)

// Batch is a set of records to write for one user.
type Batch struct {
	CheckIns     []checkin.CheckIn
	Weights      []weight.Record
	Applications []glp1.Application
}

// Counts reports how many records of each kind were written. Applications
// the user already had (same ID) are not counted.
type Counts struct {
	CheckIns     int
	Weights      int
	Applications int
}

// Total is the sum of all counts.
func (c Counts) Total() int { return c.CheckIns + c.Weights + c.Applications }

// Apply writes b through the stores in a single transaction. A rejected
// record rolls the whole batch back and Apply returns zero counts.
func Apply(ctx context.Context, db *store.DB, userID string, b Batch) (Counts, error) {
	var n Counts
	err := db.WithTx(ctx, func(tx *store.Tx) error {
		checkins := checkin.NewStore(tx)
		for _, c := range b.CheckIns {
			if err := checkins.Save(ctx, userID, c); err != nil {
				return fmt.Errorf("check-in %s: %w", c.Date, err)
			}
			n.CheckIns++
		}

		weights := weight.NewStore(tx)
		for _, r := range b.Weights {
			if err := weights.Save(ctx, userID, r); err != nil {
				return fmt.Errorf("weight %s: %w", r.Date, err)
			}
			n.Weights++
		}

		apps := glp1.NewStore(tx)
		for _, a := range b.Applications {
			_, inserted, err := apps.Restore(ctx, userID, a)
			if err != nil {
				return fmt.Errorf("application %s: %w", a.Date, err)
			}
			if inserted {
				n.Applications++
			}
		}
		return nil
	})
	if err != nil {
		return Counts{}, err
	}
	return n, nil
}

// document is the YAML layout accepted by ParseYAML.
type document struct {
	CheckIns     []yamlCheckIn     `yaml:"checkins"`
	Weights      []yamlWeight      `yaml:"weights"`
	Applications []yamlApplication `yaml:"applications"`
}

type yamlCheckIn struct {
	Date     string   `yaml:"date"`
	Trained  bool     `yaml:"trained"`
	Water    bool     `yaml:"water"`
	Slept    bool     `yaml:"slept"`
	Food     string   `yaml:"food"`
	Contexts []string `yaml:"contexts"`
	Mood     string   `yaml:"mood"`
	Shield   bool     `yaml:"shield"`
	Note     string   `yaml:"note"`
}

type yamlWeight struct {
	Date    string  `yaml:"date"`
	Kg      float64 `yaml:"kg"`
	Context string  `yaml:"context"`
	Notes   string  `yaml:"notes"`
}

type yamlApplication struct {
	Date        string `yaml:"date"`
	Medication  string `yaml:"medication"`
	Dose        string `yaml:"dose"`
	Observation string `yaml:"observation"`
}

// ParseYAML decodes a YAML document into a Batch. Unknown fields and
// unknown enum codes are rejected. Omitted food and mood default to "sim"
// and "neutro".
func ParseYAML(r io.Reader) (Batch, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Batch{}, nil
		}
		return Batch{}, fmt.Errorf("parsing yaml: %w", err)
	}

	var b Batch
	for i, y := range doc.CheckIns {
		c, err := y.checkIn()
		if err != nil {
			return Batch{}, fmt.Errorf("checkins[%d]: %w", i, err)
		}
		b.CheckIns = append(b.CheckIns, c)
	}
	for _, y := range doc.Weights {
		b.Weights = append(b.Weights, weight.Record{Date: y.Date, Kg: y.Kg, Context: y.Context, Notes: y.Notes})
	}
	for _, y := range doc.Applications {
		b.Applications = append(b.Applications, glp1.Application{
			Date:        y.Date,
			Medication:  y.Medication,
			Dose:        y.Dose,
			Observation: y.Observation,
		})
	}
	return b, nil
}

func (y yamlCheckIn) checkIn() (checkin.CheckIn, error) {
	c := checkin.CheckIn{
		Date:            y.Date,
		Trained:         y.Trained,
		DrankWater:      y.Water,
		SleptWell:       y.Slept,
		Note:            y.Note,
		Mood:            checkin.MoodNeutral,
		ShieldActivated: y.Shield,
	}
	var err error
	if y.Food != "" {
		if c.Food, err = checkin.ParseFoodAdherence(y.Food); err != nil {
			return c, err
		}
	}
	if y.Mood != "" {
		if c.Mood, err = checkin.ParseMood(y.Mood); err != nil {
			return c, err
		}
	}
	for _, code := range y.Contexts {
		ctx, err := checkin.ParseFoodContext(code)
		if err != nil {
			return c, err
		}
		c.Contexts = append(c.Contexts, ctx)
	}
	return c, c.Validate()
}

// ImportFile parses the YAML file at path and applies it.
func ImportFile(ctx context.Context, db *store.DB, userID, path string) (Counts, error) {
	f, err := os.Open(path)
	if err != nil {
		return Counts{}, err
	}
	defer f.Close()

	b, err := ParseYAML(f)
	if err != nil {
		return Counts{}, err
	}
	return Apply(ctx, db, userID, b)
}
