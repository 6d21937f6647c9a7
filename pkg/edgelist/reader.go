// Package edgelist reads bipartite interaction logs from CSV.
package edgelist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-communities/pkg/bipartite"
	"github.com/dd0wney/cluso-communities/pkg/logging"
)

var (
	ErrMissingColumn = errors.New("column not found")
	ErrNoRows        = errors.New("no edge rows")
)

// Options selects the two columns of an edge list
type Options struct {
	// SideAColumn and SideBColumn name the columns when HasHeader is set,
	// otherwise they are zero-based column indices ("0", "1", ...).
	SideAColumn string
	SideBColumn string
	HasHeader   bool
	Comma       rune // 0 means ','

	Logger logging.Logger
}

// ReadFile reads the edge list at path
func ReadFile(path string, opts Options) ([]bipartite.Edge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	edges, err := Read(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return edges, nil
}

// Read parses one edge per row. Repeated rows are kept, since each
// repetition adds weight. Rows with an empty id in either column are
// skipped and counted in a warning.
func Read(r io.Reader, opts Options) ([]bipartite.Edge, error) {
	logger := logging.OrNop(opts.Logger).With(logging.Component("edgelist"))

	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}

	var colA, colB int
	line := 0
	if opts.HasHeader {
		header, err := reader.Read()
		if err == io.EOF {
			return nil, ErrNoRows
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV header: %w", err)
		}
		line++
		logger.Debug("csv header", logging.Any("fields", header))

		colIndex := make(map[string]int, len(header))
		for i, name := range header {
			colIndex[strings.TrimSpace(name)] = i
		}
		if colA, err = lookupColumn(colIndex, opts.SideAColumn); err != nil {
			return nil, err
		}
		if colB, err = lookupColumn(colIndex, opts.SideBColumn); err != nil {
			return nil, err
		}
	} else {
		var err error
		if colA, err = parseIndex(opts.SideAColumn); err != nil {
			return nil, err
		}
		if colB, err = parseIndex(opts.SideBColumn); err != nil {
			return nil, err
		}
	}

	var edges []bipartite.Edge
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if len(record) <= max(colA, colB) {
			return nil, fmt.Errorf("line %d: expected at least %d columns, got %d", line, max(colA, colB)+1, len(record))
		}

		a := strings.TrimSpace(record[colA])
		b := strings.TrimSpace(record[colB])
		if a == "" || b == "" {
			skipped++
			continue
		}
		edges = append(edges, bipartite.Edge{A: a, B: b})
	}

	if skipped > 0 {
		logger.Warn("skipped rows with empty ids", logging.Count(skipped))
	}
	if len(edges) == 0 {
		return nil, ErrNoRows
	}

	logger.Info("read edge list", logging.Int("edges", len(edges)), logging.Int("lines", line))
	return edges, nil
}

func lookupColumn(colIndex map[string]int, name string) (int, error) {
	i, ok := colIndex[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return i, nil
}

func parseIndex(col string) (int, error) {
	i, err := strconv.Atoi(col)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: %q is not a column index", ErrMissingColumn, col)
	}
	return i, nil
}
