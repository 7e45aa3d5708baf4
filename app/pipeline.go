package app

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"claimsql/ai"
	"claimsql/domain/criteria"
	"claimsql/domain/sqlguard"
	"claimsql/internal/usage"
	"claimsql/models"
	"claimsql/ports"
)

// User-visible comment texts. Every failure path funnels into one of these
// (or a wrapped collaborator error) so the session store always explains the
// outcome.
const (
	commentCriteriaRequired  = "claim_criteria parameter is required"
	commentRestricted        = "Restricted operations are prohibited. Please ask criteria to pull the data from the database."
	commentInvalidSQL        = "Invalid SQL syntax. Please provide your criteria again."
	commentUploaded          = "File uploaded successfully"
	commentNoData            = "No data found"
	commentTruncatedAdvisory = "File uploaded successfully - The cleaned report currently generates approximately 200,000 rows. Please refine your search criteria."
)

// Request is one criteria-to-report invocation.
type Request struct {
	UserID      string            `json:"user_id"`
	TicketID    string            `json:"ticket_id"`
	ClaimID     string            `json:"claim_id"`
	Criteria    string            `json:"claim_criteria"`
	ReportType  string            `json:"report_type"`
	RequestTime string            `json:"request_time"`
	ReplaceDict map[string]string `json:"replace_dict"`
}

// Outcome is the terminal result of a run. No error ever propagates past the
// pipeline; failures collapse into Status/Comments.
type Outcome struct {
	Status       models.RunStatus `json:"status"`
	Comments     string           `json:"comments"`
	SQL          string           `json:"sql_query"`
	InputTokens  int              `json:"input_token_count"`
	OutputTokens int              `json:"output_token_count"`
	ReportPath   string           `json:"report_file_path"`
}

// Pipeline wires the criteria-to-report components around the external
// collaborators. All state is read-only after construction; concurrent runs
// need no coordination.
type Pipeline struct {
	normalizer *criteria.Normalizer
	assembler  *ai.PromptAssembler
	generator  *ai.QueryGenerator
	sanitizer  *sqlguard.Sanitizer
	executor   *Executor
	post       *PostProcessor

	retriever ports.Retriever
	exporter  ports.Exporter
	sessions  ports.SessionRepository
	usageRepo ports.UsageRepository
	tracker   *usage.Tracker

	retrieveK int
	model     string
}

// PipelineDeps bundles the pipeline's collaborators and components.
type PipelineDeps struct {
	Normalizer *criteria.Normalizer
	Assembler  *ai.PromptAssembler
	Generator  *ai.QueryGenerator
	Sanitizer  *sqlguard.Sanitizer
	Executor   *Executor
	Post       *PostProcessor
	Retriever  ports.Retriever
	Exporter   ports.Exporter
	Sessions   ports.SessionRepository
	UsageRepo  ports.UsageRepository
	Tracker    *usage.Tracker
	RetrieveK  int
	Model      string
}

// NewPipeline creates a pipeline from its dependencies.
func NewPipeline(deps PipelineDeps) *Pipeline {
	k := deps.RetrieveK
	if k <= 0 {
		k = 50
	}
	return &Pipeline{
		normalizer: deps.Normalizer,
		assembler:  deps.Assembler,
		generator:  deps.Generator,
		sanitizer:  deps.Sanitizer,
		executor:   deps.Executor,
		post:       deps.Post,
		retriever:  deps.Retriever,
		exporter:   deps.Exporter,
		sessions:   deps.Sessions,
		usageRepo:  deps.UsageRepo,
		tracker:    deps.Tracker,
		retrieveK:  k,
		model:      deps.Model,
	}
}

// Run executes one criteria-to-report invocation end to end and always
// returns a terminal outcome. Session and usage bookkeeping is written on
// every path, including failures.
func (p *Pipeline) Run(ctx context.Context, req Request) Outcome {
	outcome := Outcome{Status: models.RunStatusFailed}
	defer p.record(ctx, req, &outcome)

	if strings.TrimSpace(req.Criteria) == "" && strings.TrimSpace(req.ClaimID) == "" {
		outcome.Comments = commentCriteriaRequired
		return outcome
	}

	shaped := criteria.Shape(strings.TrimSpace(req.ClaimID), req.Criteria)
	if p.normalizer != nil {
		shaped = p.normalizer.Normalize(shaped)
	}
	log.Printf("[Pipeline] Shaped criteria: %s", shaped)

	parsed, err := criteria.Parse(shaped)
	if err != nil {
		outcome.Comments = err.Error()
		return outcome
	}

	docs, err := p.retriever.Search(ctx, strings.Join(parsed.Keys(), ";"), p.retrieveK)
	if err != nil {
		outcome.Comments = "Document retrieval failed: " + err.Error()
		return outcome
	}

	prompt := p.assembler.Build(docs, shaped)

	generated, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		outcome.Comments = err.Error()
		return outcome
	}
	outcome.InputTokens = generated.InputTokens
	outcome.OutputTokens = generated.OutputTokens
	outcome.SQL = generated.Text
	if p.tracker != nil {
		p.tracker.RecordTokens(generated.InputTokens, generated.OutputTokens)
	}

	switch generated.Kind {
	case models.QueryKindRefusal, models.QueryKindUnparseable:
		outcome.Comments = generated.Text
		return outcome
	}

	sql := applyReplaceDict(generated.Text, req.ReplaceDict)

	sanitized := p.sanitizer.Sanitize(sql)
	if sanitized.Restricted {
		outcome.Comments = commentRestricted
		return outcome
	}
	if !strings.Contains(strings.ToUpper(sanitized.SQL), "SELECT") {
		outcome.Comments = commentInvalidSQL
		return outcome
	}
	outcome.SQL = sanitized.SQL

	frame, err := p.executor.Execute(ctx, sanitized.SQL)
	if err != nil {
		outcome.Comments = "Error while executing query: " + err.Error()
		return outcome
	}
	truncated := frame.Truncated

	if frame.RowCount() > 0 {
		frame = p.post.Process(frame, req.ReportType, shaped)
	}

	path, err := p.exporter.Upload(ctx, frame, req.TicketID, req.RequestTime)
	if err != nil {
		outcome.Comments = "File upload failed: " + err.Error()
		return outcome
	}

	outcome.Status = models.RunStatusSuccess
	outcome.ReportPath = path
	switch {
	case truncated:
		outcome.Comments = commentTruncatedAdvisory
	case frame.RowCount() > 0:
		outcome.Comments = commentUploaded
	default:
		outcome.Comments = commentNoData
	}
	return outcome
}

// record writes session and usage bookkeeping. Bookkeeping failures are
// logged, never surfaced: the outcome the caller sees is already terminal.
func (p *Pipeline) record(ctx context.Context, req Request, outcome *Outcome) {
	if p.sessions == nil && p.usageRepo == nil {
		return
	}

	// Bookkeeping must still land when the run's context was cancelled, and
	// the two writes must not cancel each other.
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	if p.sessions != nil {
		g.Go(func() error {
			return p.sessions.UpsertSession(ctx, &models.SessionRecord{
				UserID:       req.UserID,
				TicketID:     req.TicketID,
				RequestTime:  req.RequestTime,
				Status:       string(outcome.Status),
				Comments:     outcome.Comments,
				SQLQuery:     outcome.SQL,
				ReportPath:   outcome.ReportPath,
				InputTokens:  outcome.InputTokens,
				OutputTokens: outcome.OutputTokens,
				UpdatedAt:    time.Now().UTC(),
			})
		})
	}
	if p.usageRepo != nil {
		g.Go(func() error {
			date := time.Now().UTC().Format("2006-01-02")
			return p.usageRepo.AddUsage(ctx, "CA_"+p.model, date, outcome.InputTokens, outcome.OutputTokens)
		})
	}
	if err := g.Wait(); err != nil {
		log.Printf("[Pipeline] Bookkeeping write failed: %v", err)
	}
}

// applyReplaceDict performs the caller-supplied literal substitutions in one
// pass so an inserted value is never re-matched by a later key.
func applyReplaceDict(sql string, dict map[string]string) string {
	if len(dict) == 0 {
		return sql
	}
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	// Longest key first so an overlapping shorter key never shadows it.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for i, k := range keys {
		keys[i] = regexp.QuoteMeta(k)
	}
	pattern := regexp.MustCompile(strings.Join(keys, "|"))
	return pattern.ReplaceAllStringFunc(sql, func(match string) string {
		return dict[match]
	})
}
