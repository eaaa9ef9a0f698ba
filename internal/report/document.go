package report

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"go.uber.org/zap"

	"github.com/spigell/doesmyresumematch/internal/match"
	"github.com/spigell/doesmyresumematch/internal/pdf"
)

const (
	ContentType    = "application/pdf"
	filenamePrefix = "doesmyresumematch-"
)

// ErrSnapshotUnavailable means the authoritative copy could not be read.
var ErrSnapshotUnavailable = errors.New("snapshot unavailable")

//go:embed templates/document.html
var templatesFS embed.FS

var documentTmpl = template.Must(template.ParseFS(templatesFS, "templates/document.html"))

type documentCluster struct {
	Name  string
	Width string
}

type documentData struct {
	ResultID string
	Score    string
	Label    string
	Color    string
	Clusters []documentCluster
	Skills   []string
	Gaps     []string
	Rewrites []string
}

// DocumentHTML renders the printable report straight from the result.
func DocumentHTML(resultID string, r *match.Result) (string, error) {
	if r == nil {
		return "", fmt.Errorf("result is required")
	}

	data := documentData{
		ResultID: resultID,
		Score:    FormatScore(r.Score),
		Label:    r.Label,
		Color:    BandFor(r.Score).Color(),
		Rewrites: r.Rewrites,
	}
	for _, c := range r.Clusters {
		data.Clusters = append(data.Clusters, documentCluster{Name: c.Cluster, Width: formatPct(BarWidth(c.AlignPct))})
	}
	for _, s := range r.BestFit {
		data.Skills = append(data.Skills, s.Skill)
	}
	for _, g := range r.Gaps {
		data.Gaps = append(data.Gaps, g.Skill)
	}

	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return buf.String(), nil
}

// Filename is the download name for a result document.
func Filename(resultID string) string {
	return filenamePrefix + resultID + ".pdf"
}

// SnapshotReader reads the server-held copy of a result.
type SnapshotReader interface {
	Snapshot(ctx context.Context, resultID string) (*match.Result, error)
}

type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Exporter regenerates result documents from snapshots. It never reads local storage.
type Exporter struct {
	snapshots SnapshotReader
	converter pdf.Converter
	logger    *zap.Logger
}

func NewExporter(snapshots SnapshotReader, converter pdf.Converter, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{snapshots: snapshots, converter: converter, logger: logger}
}

func (e *Exporter) Export(ctx context.Context, resultID string) (*Document, error) {
	log := e.logger.With(zap.String("result_id", resultID))

	result, err := e.snapshots.Snapshot(ctx, resultID)
	if err != nil {
		log.Warn("snapshot read failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSnapshotUnavailable, err)
	}

	html, err := DocumentHTML(resultID, result)
	if err != nil {
		return nil, err
	}

	data, err := e.converter.ConvertHTMLToPDF(ctx, html, pdf.PaperA4, pdf.MarginsNormal)
	if err != nil {
		log.Warn("pdf conversion failed", zap.Error(err))
		return nil, fmt.Errorf("convert document: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("convert document: empty output")
	}

	log.Debug("document exported", zap.Int("bytes", len(data)))
	return &Document{
		Filename:    Filename(resultID),
		ContentType: ContentType,
		Data:        data,
	}, nil
}
