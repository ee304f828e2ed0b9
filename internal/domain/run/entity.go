package run

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status of a pipeline run. Transitions: pending → running → {completed, failed}.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Metrics are the per-run counters surfaced to pollers.
type Metrics struct {
	ArticlesIngested  int `json:"articles_ingested"`
	ArticlesEnriched  int `json:"articles_enriched"`
	StockRecordsAdded int `json:"stock_records_added"`
}

// View is an immutable snapshot of a run, safe to serialize while the
// run is still mutating.
type View struct {
	ID             uuid.UUID  `json:"id"`
	Symbol         string     `json:"symbol"`
	Status         Status     `json:"status"`
	StepsCompleted []string   `json:"steps_completed"`
	CurrentStep    string     `json:"current_step,omitempty"`
	Error          string     `json:"error,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Metrics        Metrics    `json:"metrics"`
}

// Result tracks one pipeline execution for one symbol. The orchestrator
// owns it for the duration of the run; pollers read snapshots through the
// registry. All mutation goes through methods, guarded by an internal
// mutex so a poll during a run never races.
type Result struct {
	mu sync.Mutex

	id             uuid.UUID
	symbol         string
	status         Status
	stepsCompleted []string
	currentStep    string
	err            string
	startedAt      time.Time
	completedAt    *time.Time
	metrics        Metrics
}

// NewResult creates a running result for a freshly submitted symbol.
func NewResult(symbol string) *Result {
	return &Result{
		id:        uuid.New(),
		symbol:    symbol,
		status:    StatusRunning,
		startedAt: time.Now().UTC(),
	}
}

// Symbol returns the entity key this run belongs to.
func (r *Result) Symbol() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.symbol
}

// Status returns the current run status.
func (r *Result) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// SetCurrentStep records the step the orchestrator is about to execute.
func (r *Result) SetCurrentStep(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentStep = name
}

// StepCompleted appends a step to the ordered completion list.
func (r *Result) StepCompleted(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stepsCompleted = append(r.stepsCompleted, name)
}

// SetArticlesIngested records how many articles the news step fetched.
func (r *Result) SetArticlesIngested(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.ArticlesIngested = n
}

// IncArticlesEnriched bumps the enriched counter for one article.
func (r *Result) IncArticlesEnriched() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.ArticlesEnriched++
}

// SetStockRecordsAdded records how many time-series rows were inserted.
func (r *Result) SetStockRecordsAdded(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.StockRecordsAdded = n
}

// Complete transitions the run to its successful terminal state.
// Ignored when the run is already terminal.
func (r *Result) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.terminal() {
		return
	}
	r.status = StatusCompleted
	now := time.Now().UTC()
	r.completedAt = &now
}

// Fail transitions the run to its failed terminal state with the
// verbatim error message. Ignored when the run is already terminal.
func (r *Result) Fail(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.terminal() {
		return
	}
	r.status = StatusFailed
	r.err = message
	now := time.Now().UTC()
	r.completedAt = &now
}

func (r *Result) terminal() bool {
	return r.status == StatusCompleted || r.status == StatusFailed
}

// Snapshot returns a copy of the current run state.
func (r *Result) Snapshot() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	steps := make([]string, len(r.stepsCompleted))
	copy(steps, r.stepsCompleted)

	var completedAt *time.Time
	if r.completedAt != nil {
		t := *r.completedAt
		completedAt = &t
	}

	return View{
		ID:             r.id,
		Symbol:         r.symbol,
		Status:         r.status,
		StepsCompleted: steps,
		CurrentStep:    r.currentStep,
		Error:          r.err,
		StartedAt:      r.startedAt,
		CompletedAt:    completedAt,
		Metrics:        r.metrics,
	}
}
