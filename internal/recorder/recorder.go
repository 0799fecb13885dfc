// Package recorder persists the simulation event stream into a local SQLite
// file so a run can be inspected after the fact.
package recorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crimecity/internal/game"
)

// Session is one simulation run.
type Session struct {
	ID        string `gorm:"primaryKey;size:36"`
	Seed      int64
	StartedAt time.Time
	Events    int64
}

// EventRecord is one bus event, flattened.
type EventRecord struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	SessionID string `gorm:"size:36;index"`
	Tick      int64  `gorm:"index"`
	Type      string `gorm:"size:32;index"`
	Entity    uint32
	X, Y      float64
	Data      int
}

var models = []any{&Session{}, &EventRecord{}}

// ErrNoSession is returned when events are flushed before Begin.
var ErrNoSession = errors.New("recorder: no session")

type Recorder struct {
	db         *gorm.DB
	log        zerolog.Logger
	session    string
	flushEvery int
	buf        []EventRecord
	written    int64
}

// Open creates or reuses the database at path. The buffer is flushed once it
// holds flushEvery events; zero or less means only explicit Flush calls write.
func Open(path string, flushEvery int, log zerolog.Logger) (*Recorder, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(models...); err != nil {
		return nil, fmt.Errorf("migrating recorder schema: %w", err)
	}
	return &Recorder{
		db:         db,
		log:        log.With().Str("component", "recorder").Logger(),
		flushEvery: flushEvery,
	}, nil
}

// Begin inserts the session row every later event is tagged with.
func (r *Recorder) Begin(session uuid.UUID, seed uint64) error {
	s := Session{
		ID:        session.String(),
		Seed:      int64(seed),
		StartedAt: time.Now().UTC(),
	}
	if err := r.db.Create(&s).Error; err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	r.session = s.ID
	r.log.Debug().Str("session", s.ID).Msg("recording started")
	return nil
}

// Attach buffers every event emitted on bus.
func (r *Recorder) Attach(bus *game.EventBus) {
	bus.SubscribeAll(r.record)
}

func (r *Recorder) record(e game.Event) {
	r.buf = append(r.buf, EventRecord{
		SessionID: r.session,
		Tick:      int64(e.Tick),
		Type:      e.Type.String(),
		Entity:    uint32(e.ID),
		X:         e.X,
		Y:         e.Y,
		Data:      e.Data,
	})
	if r.flushEvery > 0 && len(r.buf) >= r.flushEvery {
		if err := r.Flush(); err != nil {
			r.log.Error().Err(err).Int("pending", len(r.buf)).Msg("flush failed")
		}
	}
}

// Pending is the number of buffered, unwritten events.
func (r *Recorder) Pending() int { return len(r.buf) }

// Flush writes the buffered events and updates the session's event total.
func (r *Recorder) Flush() error {
	if len(r.buf) == 0 {
		return nil
	}
	if r.session == "" {
		return ErrNoSession
	}
	if err := r.db.CreateInBatches(r.buf, 500).Error; err != nil {
		return fmt.Errorf("writing %d events: %w", len(r.buf), err)
	}
	r.written += int64(len(r.buf))
	r.buf = r.buf[:0]
	err := r.db.Model(&Session{}).
		Where("id = ?", r.session).
		Update("events", r.written).Error
	if err != nil {
		return fmt.Errorf("updating session total: %w", err)
	}
	return nil
}

// Count returns the events stored for the current session.
func (r *Recorder) Count() (int64, error) {
	var n int64
	err := r.db.Model(&EventRecord{}).Where("session_id = ?", r.session).Count(&n).Error
	return n, err
}

// CountByType returns stored events of the current session grouped by type.
func (r *Recorder) CountByType() (map[string]int64, error) {
	var rows []struct {
		Type string
		N    int64
	}
	err := r.db.Model(&EventRecord{}).
		Select("type, count(*) as n").
		Where("session_id = ?", r.session).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Type] = row.N
	}
	return out, nil
}

// Close flushes what is left and closes the database.
func (r *Recorder) Close() error {
	flushErr := r.Flush()
	sqlDB, err := r.db.DB()
	if err != nil {
		return errors.Join(flushErr, err)
	}
	return errors.Join(flushErr, sqlDB.Close())
}
