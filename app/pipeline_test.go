package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsql/adapters/docs"
	"claimsql/adapters/export"
	"claimsql/adapters/llm"
	"claimsql/adapters/postgres"
	"claimsql/adapters/warehouse"
	"claimsql/ai"
	"claimsql/domain/rules"
	"claimsql/domain/sqlguard"
	"claimsql/internal/usage"
	"claimsql/models"
	"claimsql/ports"
)

type pipelineFixture struct {
	pipeline  *Pipeline
	llm       *llm.MockLLMClient
	warehouse *warehouse.MockWarehouse
	exporter  *export.MockExporter
	sessions  *postgres.MockSessionRepository
	usageRepo *postgres.MockUsageRepository
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	tables := &rules.TablesConfig{Tables: []rules.TableSpec{{
		Name:          "CLM_WGS_GNCCLMP_CMPCT",
		SelectColumns: []string{"GNCHIIOS_HCLM_DCN", "GNCHIIOS_HCLM_SEQ_NBR"},
		JoinColumns:   []string{"GNCHIIOS_HCLM_DCN"},
		Columns: []rules.ColumnDoc{
			{Name: "GNCHIIOS_HCLM_DCN", Description: "claim number document control number"},
			{Name: "DDC_CD_ERR_CDE_1", Description: "error code position 1"},
		},
	}}}
	lookup := &rules.LookupConfig{
		ExcludeColumns:  map[string][]string{},
		ReplaceMappings: map[string]rules.ReplaceMapping{},
	}
	catalog := rules.NewCatalog()

	resultFrame := models.NewResultFrame([]string{"GNCHIIOS_HCLM_DCN", "GNCHIIOS_HCLM_SEQ_NBR"})
	resultFrame.AppendRow([]string{"C1", "1"})

	f := &pipelineFixture{
		llm: &llm.MockLLMClient{
			Response: "```sql\nSELECT CLM.GNCHIIOS_HCLM_DCN FROM CLM_WGS_GNCCLMP_CMPCT CLM\n```",
			Usage:    ports.UsageData{PromptTokens: 100, CompletionTokens: 20},
		},
		warehouse: &warehouse.MockWarehouse{
			States: []ports.ExecutionState{ports.ExecutionSuccess},
			Frame:  resultFrame,
		},
		exporter:  &export.MockExporter{},
		sessions:  postgres.NewMockSessionRepository(),
		usageRepo: postgres.NewMockUsageRepository(),
	}

	tracker := usage.NewTracker()
	f.pipeline = NewPipeline(PipelineDeps{
		Assembler: ai.NewPromptAssembler(catalog, tables),
		Generator: ai.NewQueryGenerator(f.llm),
		Sanitizer: sqlguard.NewSanitizer(catalog, tables),
		Executor:  NewExecutor(f.warehouse, 100, time.Millisecond, time.Second, tracker),
		Post:      NewPostProcessor(catalog, lookup),
		Retriever: docs.NewRetriever(tables),
		Exporter:  f.exporter,
		Sessions:  f.sessions,
		UsageRepo: f.usageRepo,
		Tracker:   tracker,
		RetrieveK: 50,
		Model:     "gpt-4o-0513",
	})
	return f
}

func baseRequest() Request {
	return Request{
		UserID:      "u1",
		TicketID:    "T100",
		ClaimID:     "12345",
		Criteria:    "error_code = A01",
		ReportType:  "line",
		RequestTime: "20260829120000",
	}
}

func TestRun_SuccessfulEndToEnd(t *testing.T) {
	f := newPipelineFixture(t)

	outcome := f.pipeline.Run(context.Background(), baseRequest())

	require.Equal(t, models.RunStatusSuccess, outcome.Status)
	assert.Equal(t, "File uploaded successfully", outcome.Comments)
	assert.NotEmpty(t, outcome.ReportPath)
	assert.Equal(t, 100, outcome.InputTokens)
	assert.Equal(t, 20, outcome.OutputTokens)

	// The prompt must carry the shaped criteria with the prepended claim.
	require.Len(t, f.llm.Prompts, 1)
	assert.Contains(t, f.llm.Prompts[0], "claim_number : 12345")
	assert.Contains(t, f.llm.Prompts[0], "error_code : A01")

	// The executed SQL is the sanitized one.
	require.Len(t, f.warehouse.SubmittedSQL, 1)
	assert.Contains(t, f.warehouse.SubmittedSQL[0], "ms.min_seq")

	// Bookkeeping landed.
	record, err := f.sessions.GetSession(context.Background(), "T100")
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", record.Status)
	usageRecord, err := f.usageRepo.GetUsage(context.Background(), "CA_gpt-4o-0513", time.Now().UTC().Format("2006-01-02"))
	require.NoError(t, err)
	assert.Equal(t, 1, usageRecord.APICount)
	assert.Equal(t, 120, usageRecord.TotalTokenCount)
}

func TestRun_MissingCriteriaFailsFast(t *testing.T) {
	f := newPipelineFixture(t)

	req := baseRequest()
	req.Criteria = ""
	req.ClaimID = ""
	outcome := f.pipeline.Run(context.Background(), req)

	require.Equal(t, models.RunStatusFailed, outcome.Status)
	assert.Equal(t, "claim_criteria parameter is required", outcome.Comments)
	assert.Empty(t, f.llm.Prompts)

	// The failure is still recorded.
	record, err := f.sessions.GetSession(context.Background(), "T100")
	require.NoError(t, err)
	assert.Equal(t, "FAILED", record.Status)
}

func TestRun_RestrictedQueryNeverExecutes(t *testing.T) {
	f := newPipelineFixture(t)
	f.llm.Response = "```sql\nDROP TABLE CLM_WGS_GNCCLMP_CMPCT\n```"

	outcome := f.pipeline.Run(context.Background(), baseRequest())

	require.Equal(t, models.RunStatusFailed, outcome.Status)
	assert.Equal(t, "Restricted operations are prohibited. Please ask criteria to pull the data from the database.", outcome.Comments)
	assert.Empty(t, f.warehouse.SubmittedSQL)
	assert.Empty(t, f.exporter.Uploaded)
}

func TestRun_RefusalShortCircuits(t *testing.T) {
	f := newPipelineFixture(t)
	f.llm.Response = "<response>Please provide claim criteria.</response>"

	outcome := f.pipeline.Run(context.Background(), baseRequest())

	require.Equal(t, models.RunStatusFailed, outcome.Status)
	assert.Equal(t, "Please provide claim criteria.", outcome.Comments)
	assert.Empty(t, f.warehouse.SubmittedSQL)
}

func TestRun_UnparseableResponse(t *testing.T) {
	f := newPipelineFixture(t)
	f.llm.Response = "I generated something but forgot the wrappers"

	outcome := f.pipeline.Run(context.Background(), baseRequest())

	require.Equal(t, models.RunStatusFailed, outcome.Status)
	assert.Equal(t, ai.UnparseableMessage, outcome.Comments)
}

func TestRun_NoDataStillSucceeds(t *testing.T) {
	f := newPipelineFixture(t)
	f.warehouse.Frame = models.NewResultFrame([]string{"GNCHIIOS_HCLM_DCN"})

	outcome := f.pipeline.Run(context.Background(), baseRequest())

	require.Equal(t, models.RunStatusSuccess, outcome.Status)
	assert.Equal(t, "No data found", outcome.Comments)
	require.Len(t, f.exporter.Uploaded, 1)
}

func TestRun_TruncatedResultCarriesAdvisory(t *testing.T) {
	f := newPipelineFixture(t)
	frame := models.NewResultFrame([]string{"GNCHIIOS_HCLM_DCN"})
	for i := 0; i < 100; i++ {
		frame.AppendRow([]string{"C"})
	}
	f.warehouse.Frame = frame // the executor row cap is 100

	outcome := f.pipeline.Run(context.Background(), baseRequest())

	require.Equal(t, models.RunStatusSuccess, outcome.Status)
	assert.Contains(t, outcome.Comments, "approximately 200,000 rows")
}

func TestRun_ExecutionFailureFunnelsToComments(t *testing.T) {
	f := newPipelineFixture(t)
	f.warehouse.States = []ports.ExecutionState{ports.ExecutionFailed}

	outcome := f.pipeline.Run(context.Background(), baseRequest())

	require.Equal(t, models.RunStatusFailed, outcome.Status)
	assert.Contains(t, outcome.Comments, "Error while executing query")
	assert.Empty(t, f.exporter.Uploaded)
}

func TestRun_ReplaceDictAppliedBeforeSanitize(t *testing.T) {
	f := newPipelineFixture(t)
	f.llm.Response = "```sql\nSELECT CLM.OLD_COL FROM CLM_WGS_GNCCLMP_CMPCT CLM WHERE CLM.OLD_COL = 'x'\n```"

	req := baseRequest()
	req.ReplaceDict = map[string]string{"OLD_COL": "GNCHIIOS_HCLM_DCN"}
	outcome := f.pipeline.Run(context.Background(), req)

	require.Equal(t, models.RunStatusSuccess, outcome.Status)
	require.Len(t, f.warehouse.SubmittedSQL, 1)
	assert.NotContains(t, f.warehouse.SubmittedSQL[0], "OLD_COL")
}

func TestRun_UploadFailure(t *testing.T) {
	f := newPipelineFixture(t)
	f.exporter.Err = assert.AnError

	outcome := f.pipeline.Run(context.Background(), baseRequest())

	require.Equal(t, models.RunStatusFailed, outcome.Status)
	assert.Contains(t, outcome.Comments, "File upload failed")
}

// slowUsageRepo observes whether its context was cancelled by the time the
// write runs.
type slowUsageRepo struct {
	called bool
	ctxErr error
}

func (r *slowUsageRepo) AddUsage(ctx context.Context, entityType, date string, inputTokens, outputTokens int) error {
	time.Sleep(20 * time.Millisecond)
	r.called = true
	r.ctxErr = ctx.Err()
	return nil
}

func (r *slowUsageRepo) GetUsage(ctx context.Context, entityType, date string) (*models.UsageRecord, error) {
	return nil, nil
}

func TestRun_SessionWriteFailureDoesNotCancelUsageWrite(t *testing.T) {
	f := newPipelineFixture(t)
	f.sessions.Err = assert.AnError
	repo := &slowUsageRepo{}
	f.pipeline.usageRepo = repo

	outcome := f.pipeline.Run(context.Background(), baseRequest())

	require.Equal(t, models.RunStatusSuccess, outcome.Status)
	require.True(t, repo.called)
	assert.NoError(t, repo.ctxErr)
}
