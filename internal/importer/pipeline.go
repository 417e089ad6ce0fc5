// Package importer is the bulk ingestion pipeline: parse a tabular file of
// candidate students, validate every row, and commit the valid subset into
// the entity store. The pipeline is a linear state machine
// (Uploaded → Parsed → Validated → Importing → Complete) with a single
// backward edge, Reset, returning to Uploaded.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shrs/shrs/internal/idgen"
	"github.com/shrs/shrs/internal/model"
	"github.com/shrs/shrs/internal/store"
	"github.com/shrs/shrs/internal/validation"
)

// State names a pipeline stage.
type State string

const (
	StateUploaded  State = "Uploaded"
	StateParsed    State = "Parsed"
	StateValidated State = "Validated"
	StateImporting State = "Importing"
	StateComplete  State = "Complete"
)

// ErrWrongState is returned when an operation is invoked out of order, in
// particular when Commit is called twice without a Reset — commit is not
// idempotent, so the state machine gates it.
var ErrWrongState = errors.New("operation not allowed in current pipeline state")

// RowError is one validation or commit failure, addressed by the row number
// the operator sees in the source file (one-based, header inclusive).
type RowError struct {
	Row     int                  `json:"row"`
	Field   string               `json:"field"`
	Message string               `json:"message"`
	Data    validation.StudentRow `json:"data"`
}

// Summary reports the partition after validation.
type Summary struct {
	TotalRows int `json:"totalRows"`
	ValidRows int `json:"validRows"`
	ErrorRows int `json:"errorRows"`
}

// Progress reports how far a commit has advanced.
type Progress struct {
	State     State `json:"state"`
	Committed int   `json:"committed"`
	Total     int   `json:"total"`
}

// validRow pairs a parsed row with its source position.
type validRow struct {
	row     int
	raw     validation.StudentRow
	student validation.Student
}

// Pipeline is one import session. It is constructed once per upload (or per
// server, with Reset between uploads) and is safe for the concurrent
// progress polling the dashboard does while a commit runs.
type Pipeline struct {
	store *store.Store
	ids   *idgen.Generator
	now   func() time.Time
	log   zerolog.Logger

	mu        sync.Mutex
	state     State
	rows      []validation.StudentRow
	valids    []validRow
	errs      []RowError
	committed int
}

// New returns a Pipeline in the Uploaded state. A nil clock uses time.Now.
func New(st *store.Store, ids *idgen.Generator, now func() time.Time, log zerolog.Logger) *Pipeline {
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		store: st,
		ids:   ids,
		now:   now,
		log:   log.With().Str("component", "importer").Logger(),
		state: StateUploaded,
	}
}

// Parse reads the whole file into raw rows. A structural failure — bad CSV
// framing, missing required header, unreadable workbook — aborts the whole
// import before any row is evaluated.
func (p *Pipeline) Parse(r io.Reader, format Format) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateUploaded {
		return fmt.Errorf("%w: parse requires %s, pipeline is %s", ErrWrongState, StateUploaded, p.state)
	}

	rows, err := parse(r, format)
	if err != nil {
		return err
	}
	p.rows = rows
	p.state = StateParsed
	return nil
}

// Validate partitions the parsed rows into valid rows and errors. It is a
// pure function of the parsed rows and may be re-run; the same input always
// yields the same partition. Row numbers are one-based and count the header
// row, matching the file as the operator sees it.
func (p *Pipeline) Validate() (Summary, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateParsed && p.state != StateValidated {
		return Summary{}, fmt.Errorf("%w: validate requires %s, pipeline is %s", ErrWrongState, StateParsed, p.state)
	}

	p.valids = nil
	p.errs = nil
	for i, raw := range p.rows {
		fileRow := i + 2 // one-based, after the header row
		res := validation.ValidateStudentRow(raw)
		if res.Valid {
			p.valids = append(p.valids, validRow{row: fileRow, raw: raw, student: res.Student})
			continue
		}
		for _, fe := range res.Errors {
			p.errs = append(p.errs, RowError{Row: fileRow, Field: fe.Field, Message: fe.Message, Data: raw})
		}
	}
	p.state = StateValidated
	return p.summaryLocked(), nil
}

func (p *Pipeline) summaryLocked() Summary {
	errRows := make(map[int]struct{}, len(p.errs))
	for _, e := range p.errs {
		errRows[e.Row] = struct{}{}
	}
	return Summary{
		TotalRows: len(p.rows),
		ValidRows: len(p.valids),
		ErrorRows: len(errRows),
	}
}

// Summary returns the current partition counts.
func (p *Pipeline) Summary() Summary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.summaryLocked()
}

// Errors returns a copy of the accumulated row errors.
func (p *Pipeline) Errors() []RowError {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]RowError, len(p.errs))
	copy(out, p.errs)
	return out
}

// Progress reports the commit position; poll it while Commit runs.
func (p *Pipeline) Progress() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Progress{State: p.state, Committed: p.committed, Total: len(p.valids)}
}

// Commit writes every valid row into the store, in source order. Each row
// is independent: a failure is recorded as a RowError and the loop moves
// on. Rows that failed validation are never attempted. Cancellation via ctx
// stops between rows; rows already committed stay committed — partial
// commits are permanent by contract. onRow, when non-nil, is called after
// every attempted row with (done, total).
func (p *Pipeline) Commit(ctx context.Context, onRow func(done, total int)) (Summary, error) {
	p.mu.Lock()
	if p.state != StateValidated {
		state := p.state
		p.mu.Unlock()
		return Summary{}, fmt.Errorf("%w: commit requires %s, pipeline is %s", ErrWrongState, StateValidated, state)
	}
	p.state = StateImporting
	p.committed = 0
	valids := make([]validRow, len(p.valids))
	copy(valids, p.valids)
	p.mu.Unlock()

	total := len(valids)
	for i, v := range valids {
		if err := ctx.Err(); err != nil {
			p.mu.Lock()
			p.state = StateComplete
			committed := p.committed
			p.mu.Unlock()
			p.log.Warn().Int("committed", committed).Int("total", total).Msg("import cancelled, partial commit kept")
			return p.Summary(), err
		}
		if err := p.commitRow(ctx, v); err != nil {
			p.mu.Lock()
			p.errs = append(p.errs, RowError{Row: v.row, Field: "", Message: err.Error(), Data: v.raw})
			p.mu.Unlock()
			p.log.Warn().Err(err).Int("row", v.row).Msg("row commit failed")
		} else {
			p.mu.Lock()
			p.committed++
			p.mu.Unlock()
		}
		if onRow != nil {
			onRow(i+1, total)
		}
	}

	p.mu.Lock()
	p.state = StateComplete
	committed := p.committed
	summary := p.summaryLocked()
	p.mu.Unlock()
	p.log.Info().Int("committed", committed).Int("total", total).Msg("import complete")
	return summary, nil
}

// commitRow builds and stores one Student and, when guardian details were
// supplied, its linked primary emergency contact.
func (p *Pipeline) commitRow(ctx context.Context, v validRow) error {
	id := p.ids.NewID()
	if _, exists := p.store.Students.Get(id); exists {
		return fmt.Errorf("generated id %s already in use", id)
	}
	now := p.now()
	student := model.Student{
		ID:            id,
		RollNumber:    p.ids.RollNumber(v.student.Class, v.student.Section),
		StudentCode:   p.ids.StudentCode(),
		FirstName:     v.student.FirstName,
		LastName:      v.student.LastName,
		DateOfBirth:   v.student.DateOfBirth,
		Gender:        v.student.Gender,
		BloodGroup:    v.student.BloodGroup,
		Class:         v.student.Class,
		Section:       v.student.Section,
		AdmissionDate: v.student.AdmissionDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.store.Students.Add(ctx, student)

	if parent := v.student.Parent; parent != nil {
		p.store.AddContact(ctx, model.EmergencyContact{
			ID:           p.ids.NewID(),
			StudentID:    id,
			ContactName:  parent.Name,
			Relationship: parent.Relationship,
			PhonePrimary: parent.Phone,
			Email:        parent.Email,
			IsPrimary:    true,
		})
	}
	return nil
}

// Reset abandons the session and returns to Uploaded. Already-committed
// rows are not rolled back.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateUploaded
	p.rows = nil
	p.valids = nil
	p.errs = nil
	p.committed = 0
}

// State returns the current pipeline stage.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
