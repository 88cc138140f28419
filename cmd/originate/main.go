// Command originate runs one credit decision and prints the decision pack.
//
// Exit codes: 0 success, 1 contract violation, 2 any other failure, 3 replay
// mismatch.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"originate/internal/contract"
	"originate/internal/decision/models"
	"originate/internal/decision/orchestrator"
	"originate/internal/pipeline"
	"originate/internal/platform/config"
	"originate/internal/platform/logger"
	"originate/internal/report"
	dErrors "originate/pkg/domain-errors"
)

const (
	exitOK                = 0
	exitContractViolation = 1
	exitFailure           = 2
	exitReplayMismatch    = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	cfg         config.Pipeline
	clientID    string
	requestID   string
	application string
	fraudJSON   string
	out         string
	reportOut   string
	replay      string
	logLevel    string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	o := options{cfg: config.DefaultPipeline()}
	fs := flag.NewFlagSet("originate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.clientID, "client-id", "", "applicant client id (required unless -replay)")
	fs.Int64Var(&o.cfg.Seed, "seed", o.cfg.Seed, "deterministic seed")
	fs.StringVar(&o.requestID, "request-id", "", "request id (generated when empty)")
	fs.StringVar(&o.application, "application-id", "", "application id (derived from request id when empty)")
	fs.StringVar(&o.cfg.Channel, "channel", o.cfg.Channel, "intake channel")
	fs.StringVar(&o.cfg.IntakeFile, "intake-json", "", "application_intake_v0_1 file used instead of the seeded generator")

	fs.StringVar(&o.cfg.PolicyFile, "policy-file", o.cfg.PolicyFile, "canonical rules-engine policy alias")
	fs.StringVar(&o.cfg.EligibilityFile, "eligibility-file", o.cfg.EligibilityFile, "canonical eligibility alias")

	fs.StringVar(&o.cfg.BRMSURL, "brms-url", "", "rules-engine bridge URL (defaults to the policy snapshot)")
	fs.StringVar(&o.cfg.BRMSStub, "brms-stub", "", "brms_flags_v0_1 file used instead of the bridge")
	fs.BoolVar(&o.cfg.NoBRMS, "no-brms", false, "skip the rules engine")
	fs.DurationVar(&o.cfg.BRMSTimeout, "brms-timeout", o.cfg.BRMSTimeout, "rules-engine timeout")
	fs.StringVar(&o.cfg.BRMSDebugPath, "brms-debug-snapshot", "", "write the last raw bridge answer here")

	fs.StringVar(&o.cfg.ScorerMode, "scorer-mode", o.cfg.ScorerMode, "stub, http or command")
	fs.StringVar(&o.cfg.ScorerBaseURL, "scorer-url", "", "base URL for the http scorer")
	fs.StringVar(&o.cfg.ScorerCommand, "scorer-command", "", "command line for the command scorer")
	fs.DurationVar(&o.cfg.ScorerTimeout, "scorer-timeout", o.cfg.ScorerTimeout, "per-model scorer timeout")

	fs.StringVar(&o.cfg.SensorMode, "sensor-mode", o.cfg.SensorMode, "eligibility sensors: STUB or LIVE")
	fs.StringVar(&o.cfg.SensorBaseURL, "sensor-base-url", o.cfg.SensorBaseURL, "sensor service base URL")
	fs.DurationVar(&o.cfg.SensorTimeout, "sensor-timeout", o.cfg.SensorTimeout, "per-sensor timeout")

	fs.StringVar(&o.cfg.FraudSignalMode, "fraud-signal-mode", o.cfg.FraudSignalMode, "fraud telemetry: STUB or LIVE")
	fs.StringVar(&o.fraudJSON, "fraud-signal-json", "", "fraud_signal_v0_1 file attached to the run")
	fs.Float64Var(&o.cfg.DeviceHighThr, "device-high-thr", o.cfg.DeviceHighThr, "device behavior score treated as high")
	fs.Float64Var(&o.cfg.TxHighThr, "tx-high-thr", o.cfg.TxHighThr, "transaction anomaly score treated as high")
	fs.StringVar(&o.cfg.DoubleHighAction, "double-high-action", o.cfg.DoubleHighAction, "REVIEW or BLOCK when both fraud scores are high")

	fs.StringVar(&o.out, "out", "", "also write the decision pack here")
	fs.StringVar(&o.reportOut, "report-out", "", "write the reporter output here")
	fs.StringVar(&o.replay, "replay", "", "replay a stored decision pack instead of originating")
	fs.StringVar(&o.logLevel, "log-level", "warn", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.replay == "" && o.clientID == "" {
		return o, errors.New("-client-id is required")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return exitFailure
	}
	log := logger.NewWithWriter(stderr, o.logLevel, "text")

	svc, err := pipeline.Build(o.cfg, pipeline.WithLogger(log))
	if err != nil {
		return fail(stderr, "build pipeline", err)
	}

	if o.replay != "" {
		return replay(ctx, svc, o.replay, stdout, stderr)
	}

	req := orchestrator.Request{
		RequestID:     o.requestID,
		ClientID:      o.clientID,
		Seed:          &o.cfg.Seed,
		Channel:       o.cfg.Channel,
		ApplicationID: o.application,
	}
	if o.fraudJSON != "" {
		raw, err := os.ReadFile(o.fraudJSON)
		if err != nil {
			return fail(stderr, "read fraud signal", err)
		}
		req.FraudSignal = raw
	}

	pack, err := svc.Originate(ctx, req)
	if err != nil {
		return fail(stderr, "originate", err)
	}

	if err := writeJSON(stdout, o.out, pack); err != nil {
		return fail(stderr, "write decision pack", err)
	}
	if o.reportOut != "" {
		rep, err := report.Build(pack, time.Now())
		if err != nil {
			return fail(stderr, "build report", err)
		}
		if err := writeFile(o.reportOut, rep); err != nil {
			return fail(stderr, "write report", err)
		}
	}

	final := pack.Decisions.FinalDecision
	log.Info("decision originated",
		"request_id", pack.RequestID,
		"outcome", final.Outcome,
		"reason", final.ReasonCode,
	)
	return exitOK
}

func replay(ctx context.Context, svc *orchestrator.Service, path string, stdout, stderr io.Writer) int {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fail(stderr, "read decision pack", err)
	}
	pack, err := contract.Decode[models.DecisionPack](raw, contract.DecisionPack, "decision_pack")
	if err != nil {
		return fail(stderr, "decode decision pack", dErrors.Wrap(err, dErrors.CodeContractViolation, "decision pack"))
	}
	result, err := svc.Replay(ctx, &pack)
	if err != nil {
		return fail(stderr, "replay", err)
	}
	if err := writeJSON(stdout, "", result); err != nil {
		return fail(stderr, "write replay result", err)
	}
	if !result.Match {
		return exitReplayMismatch
	}
	return exitOK
}

// fail prints err and maps it to an exit code.
func fail(stderr io.Writer, stage string, err error) int {
	fmt.Fprintf(stderr, "originate: %s: %v\n", stage, err)
	if dErrors.HasCode(err, dErrors.CodeContractViolation) || contract.IsViolation(err) {
		return exitContractViolation
	}
	return exitFailure
}

func writeJSON(w io.Writer, path string, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	return writeFile(path, v)
}

func writeFile(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(raw, '\n'), 0o644)
}
