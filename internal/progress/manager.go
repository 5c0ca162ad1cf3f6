package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"time"

	"github.com/abhisek/mathgalaxy/internal/store"
	"github.com/sirupsen/logrus"
)

// Options configures a Manager.
type Options struct {
	// Key is the record key. Defaults to DefaultKey.
	Key string

	// RootID is the topic that is unlocked on first run.
	RootID string

	// TotalTopics is the live topic count used for the completion rate.
	TotalTopics int

	// Now stamps lastActivity. Defaults to time.Now.
	Now func() time.Time

	// Logger receives load and save diagnostics. Defaults to a discard logger.
	Logger logrus.FieldLogger
}

// Patch is a partial update. Nil fields are left unchanged; a non-nil field
// replaces the stored value wholesale, including non-nil empty values.
type Patch struct {
	CapturedTopics []string
	UnlockedTopics []string
	QuizAttempts   map[string]int
	QuizScores     map[string]int
}

// Manager is the only reader and writer of the persisted progress record.
//
// Update is a read-modify-write against the store and is not atomic with
// respect to other writers; a single writer is assumed.
type Manager struct {
	repo store.RecordRepo
	opts Options
	log  logrus.FieldLogger
}

// NewManager creates a Manager backed by repo.
func NewManager(repo store.RecordRepo, opts Options) *Manager {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Manager{
		repo: repo,
		opts: opts,
		log:  log.WithField("component", "progress"),
	}
}

// Default returns the first-run record for this manager's catalog.
func (m *Manager) Default() Record {
	return Default(m.opts.RootID).Normalize(m.opts.RootID, m.opts.TotalTopics)
}

// Load returns the persisted record, or the default record when nothing is
// stored or the stored document cannot be trusted. It never fails.
func (m *Manager) Load(ctx context.Context) Record {
	raw, err := m.repo.Get(ctx, m.opts.Key)
	if err != nil {
		m.log.WithError(err).Warn("read progress record failed, using default")
		return m.Default()
	}
	if raw == nil {
		return m.Default()
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		m.log.WithError(err).Warn("stored progress record is corrupt, using default")
		return m.Default()
	}
	return rec.Normalize(m.opts.RootID, m.opts.TotalTopics)
}

// Save writes the full record, stamping lastActivity and recomputing the
// completion rate. The stored record is returned even when the write fails,
// so callers can keep going with in-memory state.
func (m *Manager) Save(ctx context.Context, rec Record) (Record, error) {
	out := rec.Normalize(m.opts.RootID, m.opts.TotalTopics)
	out.LastActivity = m.opts.Now().UnixMilli()

	b, err := json.Marshal(out)
	if err != nil {
		m.log.WithError(err).Error("encode progress record failed")
		return out, fmt.Errorf("encode record: %w", err)
	}
	if err := m.repo.Put(ctx, m.opts.Key, b); err != nil {
		m.log.WithError(err).Error("save progress record failed")
		return out, fmt.Errorf("save record: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"captured":   len(out.CapturedTopics),
		"unlocked":   len(out.UnlockedTopics),
		"completion": out.CompletionRate,
	}).Debug("progress saved")
	return out, nil
}

// Update merges p into the currently stored record and saves the result.
func (m *Manager) Update(ctx context.Context, p Patch) (Record, error) {
	return m.Save(ctx, Merge(m.Load(ctx), p))
}

// Clear deletes the stored record. The next Load returns the default.
func (m *Manager) Clear(ctx context.Context) error {
	if err := m.repo.Delete(ctx, m.opts.Key); err != nil {
		m.log.WithError(err).Error("clear progress record failed")
		return fmt.Errorf("clear record: %w", err)
	}
	return nil
}

// Merge applies a field-level replace of p onto rec and returns the result.
func Merge(rec Record, p Patch) Record {
	out := rec.Clone()
	if p.CapturedTopics != nil {
		out.CapturedTopics = append([]string{}, p.CapturedTopics...)
	}
	if p.UnlockedTopics != nil {
		out.UnlockedTopics = append([]string{}, p.UnlockedTopics...)
	}
	if p.QuizAttempts != nil {
		out.QuizAttempts = maps.Clone(p.QuizAttempts)
	}
	if p.QuizScores != nil {
		out.QuizScores = maps.Clone(p.QuizScores)
	}
	return out
}

// PatchFrom returns a Patch that replaces every field with rec's values.
func PatchFrom(rec Record) Patch {
	c := rec.Clone()
	return Patch{
		CapturedTopics: c.CapturedTopics,
		UnlockedTopics: c.UnlockedTopics,
		QuizAttempts:   c.QuizAttempts,
		QuizScores:     c.QuizScores,
	}
}
