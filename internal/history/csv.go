package history

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/amishk599/boardwatch/internal/model"
)

// Columns is the header of the history file, in write order.
var Columns = []string{"title", "url", "posted_at"}

// utf8BOM is written at the start of the file so spreadsheet tools pick up
// UTF-8 for Korean titles.
const utf8BOM = "\ufeff"

// CSVStore keeps history in a CSV file with a title,url,posted_at header.
type CSVStore struct {
	path string
}

var _ Store = (*CSVStore)(nil)

// NewCSVStore returns a store backed by the CSV file at path. The file is
// not touched until Load or Save.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Location returns the file path.
func (s *CSVStore) Location() string { return s.path }

// Close is a no-op; the file is only open during Load and Save.
func (s *CSVStore) Close() error { return nil }

// Load reads every row of the history file. A missing file is the first-run
// case and yields no postings. Anything else that prevents reading every row
// is a *model.HistoryCorruptError.
func (s *CSVStore) Load(_ context.Context) ([]model.Posting, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Posting{}, nil
	}
	if err != nil {
		return nil, &model.HistoryCorruptError{Path: s.path, Err: err}
	}
	defer f.Close()

	postings, err := readPostings(f)
	if err != nil {
		return nil, &model.HistoryCorruptError{Path: s.path, Err: err}
	}
	return postings, nil
}

// Save atomically replaces the history file with postings: the new content
// is written to a temporary file in the same directory, synced, then
// renamed over the old file.
func (s *CSVStore) Save(_ context.Context, postings []model.Posting) error {
	var buf bytes.Buffer
	if err := writePostings(&buf, postings); err != nil {
		return &model.PersistError{Path: s.path, Err: err}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &model.PersistError{Path: s.path, Err: err}
		}
	}
	if err := renameio.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return &model.PersistError{Path: s.path, Err: err}
	}
	return nil
}

func readPostings(r io.Reader) ([]model.Posting, error) {
	// Accept files with or without a BOM; older files were written by tools
	// that add one.
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(decoded)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	postings := []model.Posting{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		p := model.Posting{
			Title:    rec[idx["title"]],
			URL:      rec[idx["url"]],
			PostedAt: rec[idx["posted_at"]],
		}
		if p.URL == "" {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: empty url", line)
		}
		postings = append(postings, p)
	}
	return postings, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, col := range Columns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("header %q lacks column %q", header, col)
		}
	}
	return idx, nil
}

func writePostings(w io.Writer, postings []model.Posting) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, p := range postings {
		if err := cw.Write([]string{p.Title, p.URL, p.PostedAt}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
