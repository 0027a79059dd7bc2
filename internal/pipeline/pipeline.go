package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"clima-etl/internal/extract"
	"clima-etl/internal/load"
	"clima-etl/internal/snapshot"
	"clima-etl/internal/transform"
	"clima-etl/internal/weather"
)

// State is the run's position in the flow. Any non-terminal state may
// transition directly to StateFailed.
type State string

const (
	StatePending      State = "PENDING"
	StateFetching     State = "FETCHING"
	StateTransforming State = "TRANSFORMING"
	StateWriting      State = "WRITING"
	StateValidating   State = "VALIDATING"
	StateLoading      State = "LOADING"
	StateSucceeded    State = "SUCCEEDED"
	StateFailed       State = "FAILED"
)

// Run records one end-to-end execution of the pipeline.
type Run struct {
	ID         string    `json:"id"`
	City       string    `json:"city"`
	State      State     `json:"state"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	FailedStep string    `json:"failed_step,omitempty"`
	Error      string    `json:"error,omitempty"`
	DocumentID string    `json:"document_id,omitempty"`
}

// Pipeline sequences fetch, normalize, snapshot write, read-back validation
// and load for a single configured city. Steps run strictly in order; the
// first failure aborts the run with no partial load.
type Pipeline struct {
	city     string
	fetcher  extract.Fetcher
	store    snapshot.Store
	loader   load.Loader
	policies Policies
	log      *logrus.Entry

	mu   sync.Mutex
	last *Run
}

func New(city string, fetcher extract.Fetcher, store snapshot.Store, loader load.Loader, policies Policies, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		city:     city,
		fetcher:  fetcher,
		store:    store,
		loader:   loader,
		policies: policies,
		log:      log.WithField("component", "pipeline"),
	}
}

// LastRun returns a copy of the most recent run, if any.
func (p *Pipeline) LastRun() (Run, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return Run{}, false
	}
	return *p.last, true
}

// Execute performs one run. The returned Run always carries a terminal
// state; the error is non-nil exactly when that state is StateFailed.
func (p *Pipeline) Execute(ctx context.Context) (Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		City:      p.city,
		State:     StatePending,
		StartedAt: time.Now().UTC(),
	}
	p.setLast(run)
	log := p.log.WithFields(logrus.Fields{"run_id": run.ID, "city": run.City})
	log.WithField("event", "run_start").Info("starting pipeline run")

	p.transition(run, log, StateFetching)
	raw, err := retry(ctx, p.policies.Fetch, func() (*extract.RawObservation, error) {
		return p.fetcher.Fetch(ctx, p.city)
	})
	if err != nil {
		return p.fail(run, log, "fetch", err)
	}

	p.transition(run, log, StateTransforming)
	rec, err := transform.Normalize(p.city, raw, time.Now().UTC())
	if err != nil {
		return p.fail(run, log, "transform", err)
	}

	p.transition(run, log, StateWriting)
	err = retryErr(ctx, p.policies.Snapshot, func() error {
		return p.store.Write(rec)
	})
	if err != nil {
		return p.fail(run, log, "snapshot_write", err)
	}

	p.transition(run, log, StateValidating)
	readBack, err := retry(ctx, p.policies.Snapshot, func() (weather.WeatherRecord, error) {
		return p.store.Read()
	})
	if err != nil {
		return p.fail(run, log, "snapshot_read", err)
	}
	if !weather.Equal(rec, readBack) {
		err := fmt.Errorf("%w: snapshot does not match normalized record", weather.ErrValidation)
		return p.fail(run, log, "snapshot_read", err)
	}

	p.transition(run, log, StateLoading)
	docID, err := retry(ctx, p.policies.Load, func() (string, error) {
		return p.loader.Load(ctx, readBack)
	})
	if err != nil {
		return p.fail(run, log, "load", err)
	}

	run.DocumentID = docID
	run.FinishedAt = time.Now().UTC()
	p.transition(run, log, StateSucceeded)
	log.WithFields(logrus.Fields{
		"event":       "run_success",
		"document_id": docID,
		"temperature": rec.Temperature,
		"duration":    run.FinishedAt.Sub(run.StartedAt).String(),
	}).Info("pipeline run succeeded")

	return *run, nil
}

func (p *Pipeline) transition(run *Run, log *logrus.Entry, next State) {
	run.State = next
	p.setLast(run)
	log.WithFields(logrus.Fields{"event": "state_change", "state": next}).Info("pipeline state change")
}

func (p *Pipeline) fail(run *Run, log *logrus.Entry, step string, err error) (Run, error) {
	run.State = StateFailed
	run.FailedStep = step
	run.Error = err.Error()
	run.FinishedAt = time.Now().UTC()
	p.setLast(run)
	log.WithError(err).WithFields(logrus.Fields{
		"event": "run_failed",
		"step":  step,
	}).Error("pipeline run failed")
	return *run, err
}

func (p *Pipeline) setLast(run *Run) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := *run
	p.last = &cp
}
