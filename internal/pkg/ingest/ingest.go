// Package ingest loads raw roster payloads and normalizes them into records.
//
// Payloads come as a single JSON document, either an array of objects or an
// array of arrays with a header row. Normalization is best-effort:
// structurally invalid payloads yield an empty record list, never an error.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/rosterlab/rosterviz/internal/pkg/model"
)

// Loader accumulates normalized records from files, readers or a remote URL.
type Loader struct {
	options

	records []model.Record
	sources []string
	l       *slog.Logger
}

// New [Loader] ready to ingest roster payloads.
func New(opts ...Option) *Loader {
	return &Loader{
		options: optionsWithDefaults(opts),
		l:       slog.Default().With(slog.String("module", "ingest")),
	}
}

// Normalize converts a raw decoded payload into a uniform record list.
//
// An array whose first element is itself an array is treated as tabular
// data with a header row: each subsequent row pairs header[i] with row[i],
// skipping blank header names. An array of objects passes through; scalar
// entries are wrapped as {"value": entry}. Anything else yields an empty
// list. Never fails: malformed rows degrade to records with missing keys.
func Normalize(payload any) []model.Record {
	rows, ok := payload.([]any)
	if !ok || len(rows) == 0 {
		return nil
	}

	if header, tabular := rows[0].([]any); tabular {
		return normalizeTabular(header, rows[1:])
	}

	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		if object, isObject := row.(map[string]any); isObject {
			records = append(records, model.Record(object))

			continue
		}

		records = append(records, model.Record{"value": row})
	}

	return records
}

func normalizeTabular(header []any, rows []any) []model.Record {
	names := make([]string, len(header))
	for i, cell := range header {
		if cell == nil {
			continue
		}
		names[i] = strings.TrimSpace(fmt.Sprint(cell))
	}

	records := make([]model.Record, 0, len(rows))
	for _, raw := range rows {
		record := make(model.Record, len(names))

		// a non-array row yields a record with no keys
		if cells, isRow := raw.([]any); isRow {
			for i, cell := range cells {
				if i >= len(names) || names[i] == "" {
					continue
				}
				record[names[i]] = cell
			}
		}

		records = append(records, record)
	}

	return records
}

// LoadFiles ingests one or more local payload files. The file name "-"
// reads from stdin.
func (p *Loader) LoadFiles(files ...string) error {
	for _, file := range files {
		var (
			reader io.ReadCloser
			err    error
		)

		if file == "-" {
			reader = os.Stdin
		} else {
			reader, err = os.Open(file)
			if err != nil {
				return fmt.Errorf("input file %q: %w", file, err)
			}
		}

		err = p.LoadInput(reader, file)
		if file != "-" {
			_ = reader.Close()
		}
		if err != nil {
			return err
		}
	}

	p.l.Info("roster input loaded",
		slog.Int("loaded_files", len(files)),
		slog.Int("records", len(p.records)),
	)

	return nil
}

// LoadInput decodes a JSON payload from the reader and appends its
// normalized records, tagged with the given source name.
func (p *Loader) LoadInput(r io.Reader, source string) error {
	var payload any
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return fmt.Errorf("decoding payload %q: %w", source, err)
	}

	records := Normalize(payload)
	if len(records) == 0 {
		p.l.Warn("payload yielded no records", slog.String("source", source))
	}

	p.records = append(p.records, records...)
	p.sources = append(p.sources, source)

	return nil
}

// Fetch performs a one-shot GET of the payload URL and appends its
// normalized records. The context cancels an in-flight request.
func (p *Loader) Fetch(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %q: %w", url, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %q: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %q: unexpected status %s", url, resp.Status)
	}

	return p.LoadInput(resp.Body, url)
}

// Records returns the accumulated normalized records.
func (p *Loader) Records() []model.Record {
	return p.records
}

// Dataset seals the accumulated records into a versioned [model.Dataset].
func (p *Loader) Dataset() *model.Dataset {
	return model.NewDataset(p.records)
}
