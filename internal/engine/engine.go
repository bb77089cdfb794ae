// Package engine wires the pipeline stages together: parsing, staged
// retrieval, analysis and report generation.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mizanlabs/mizan/internal/analysis"
	"github.com/mizanlabs/mizan/internal/common"
	"github.com/mizanlabs/mizan/internal/model"
	"github.com/mizanlabs/mizan/internal/parser"
	"github.com/mizanlabs/mizan/internal/report"
	"github.com/mizanlabs/mizan/internal/retrieval"
	"github.com/mizanlabs/mizan/internal/service"
)

// Outcome carries the output of every stage for one transaction.
type Outcome struct {
	Transaction model.Transaction
	Retrieval   retrieval.Results
	Analysis    analysis.Result
	Response    report.Response
}

// Pipeline runs the full identification flow for one transaction scenario.
type Pipeline struct {
	parser    *parser.Parser
	retrieval *retrieval.Stage
	analysis  *analysis.Engine
	report    *report.Generator
	logger    *slog.Logger
}

// New assembles a Pipeline from its two external collaborators. A nil
// logger falls back to slog.Default.
func New(retriever service.PassageRetriever, generator service.TextGenerator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		parser:    parser.New(),
		retrieval: retrieval.New(retriever, generator, logger, retrieval.Config{}),
		analysis:  analysis.New(generator, logger),
		report:    report.New(generator, logger),
		logger:    logger,
	}
}

// ProcessTransaction runs a scenario end to end. Retrieval and generation
// failures degrade inside their stages; the only hard errors are empty
// input and a canceled context.
func (p *Pipeline) ProcessTransaction(ctx context.Context, text string) (*Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: transaction text is empty", common.ErrInvalidConfig)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txn := p.parser.Parse(text)
	p.logger.Debug("transaction parsed",
		"types", len(txn.TransactionTypes),
		"journal_entries", len(txn.JournalEntries),
		"islamic_terms", len(txn.IslamicTerms))

	rag := p.retrieval.Process(ctx, &txn)
	p.logger.Debug("retrieval complete",
		"potential_standards", len(rag.DomainFiltering.PotentialStandards),
		"requirements", len(rag.DetailedContext.Requirements))

	result := p.analysis.AnalyzeTransaction(ctx, &txn, rag)
	p.logger.Debug("analysis complete", "ranked", len(result.ApplicableStandards))

	response := p.report.Generate(ctx, &txn, rag, result)

	return &Outcome{
		Transaction: txn,
		Retrieval:   rag,
		Analysis:    result,
		Response:    response,
	}, nil
}

// ProcessBatch runs each scenario in order. Failed scenarios are logged and
// skipped; the error reports how many failed.
func (p *Pipeline) ProcessBatch(ctx context.Context, scenarios []string) ([]*Outcome, error) {
	outcomes := make([]*Outcome, 0, len(scenarios))
	failed := 0

	for i, scenario := range scenarios {
		outcome, err := p.ProcessTransaction(ctx, scenario)
		if err != nil {
			if ctx.Err() != nil {
				return outcomes, ctx.Err()
			}
			p.logger.Warn("scenario failed", "index", i, "error", err)
			failed++
			continue
		}
		outcomes = append(outcomes, outcome)
	}

	if failed > 0 {
		return outcomes, fmt.Errorf("%d of %d scenarios failed", failed, len(scenarios))
	}
	return outcomes, nil
}
