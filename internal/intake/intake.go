// Package intake produces the application_intake_v0_1 record a decision run
// starts from: a seeded synthetic applicant or one recorded on disk.
package intake

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"originate/internal/contract"
	"originate/internal/decision/models"
)

var (
	employmentStatuses = []string{"EMPLOYED", "SELF_EMPLOYED", "OTHER"}
	loanTerms          = []int{12, 24, 36, 48, 60}
)

// Generator synthesizes applications deterministically from the client ID
// and seed.
type Generator struct {
	existingCustomers bool
	now               func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator creates a generator. existingCustomers is stamped on every
// applicant, following the eligibility policy's only_existing_customers.
func NewGenerator(existingCustomers bool, opts ...GeneratorOption) *Generator {
	g := &Generator{existingCustomers: existingCustomers, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Application builds the applicant for req.
func (g *Generator) Application(ctx context.Context, req models.IntakeRequest) (*models.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.ClientID == "" {
		return nil, errors.New("client id is required")
	}
	started := g.now()

	seed := req.Seed
	for _, r := range req.ClientID {
		seed += int64(r)
	}
	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	between := func(lo, hi int) int { return lo + rng.IntN(hi-lo+1) }

	existing := g.existingCustomers
	employment := employmentStatuses[between(0, 2)]
	applicant := models.Applicant{
		CustomerID:         "cust-" + req.ClientID,
		IsExistingCustomer: &existing,
		Age:                21 + between(0, 35),
		IncomeMonthly:      float64(1200 + between(0, 5000)),
		EmploymentStatus:   employment,
		DeclaredDTI:        round4(0.1 + rng.Float64()*0.6),
	}
	loan := models.Loan{
		Amount:     float64(2000 + between(0, 30000)),
		TermMonths: loanTerms[between(0, 4)],
	}
	sensors := models.EligibilitySensors{
		EmploymentVerified: rng.Float64() > 0.15,
		TenureMonths:       between(0, 120),
		MarketStress7d:     round4(rng.Float64()),
	}

	app := &models.Application{
		SchemaVersion:  models.SchemaIntake,
		GeneratedAt:    g.now().UTC(),
		RequestContext: req.RequestContext,
		ApplicationID:  applicationID(req),
		Channel:        channel(req.Channel),
		AsOf:           asOf(req.AsOf, g.now),
		Applicant:      applicant,
		Loan:           loan,
		Sensors:        sensors,
	}
	app.LatencyMS = g.now().Sub(started).Milliseconds()
	return app, nil
}

// File serves a recorded application. The run's request context replaces
// whatever the file carries so every payload of the run shares one request ID.
type File struct {
	path string
}

// NewFile creates a file-backed intake source.
func NewFile(path string) *File {
	return &File{path: path}
}

// Application loads and validates the recorded application.
func (f *File) Application(ctx context.Context, req models.IntakeRequest) (*models.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	app, err := Load(f.path)
	if err != nil {
		return nil, err
	}
	app.RequestContext = req.RequestContext
	return app, nil
}

// Load reads an application_intake_v0_1 file and checks its contract.
func Load(path string) (*models.Application, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intake: %w", err)
	}
	app, err := contract.Decode[models.Application](raw, contract.Intake, "workflow_intake")
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func applicationID(req models.IntakeRequest) string {
	if req.ApplicationID != "" {
		return req.ApplicationID
	}
	id := req.RequestID
	if len(id) > 8 {
		id = id[:8]
	}
	return "app-" + id
}

func channel(c string) string {
	if c == "" {
		return "web"
	}
	return c
}

func asOf(t time.Time, now func() time.Time) time.Time {
	if t.IsZero() {
		return now().UTC()
	}
	return t.UTC()
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
