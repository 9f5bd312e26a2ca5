package codestore

import (
	"fmt"
	"os"
	"strings"

	"primelooter/lib/textutil"
)

// Separator is the fixed record delimiter in game_codes.txt. The
// format is a wire contract shared with the codes viewer, which
// splits on exactly this sentinel and parses the first line of every
// record as "<title> Code: <code>".
const Separator = "========================\n========================"

const codeMarker = " Code: "

// Record is one persisted claim code.
type Record struct {
	GameTitle    string
	ItemTitle    string
	ClaimCode    string
	Instructions string
}

// Title renders the "<game> - <item>" prefix of the record's first line.
func (r Record) Title() string {
	return fmt.Sprintf("%s - %s", r.GameTitle, r.ItemTitle)
}

// Store appends claim records to a plain-text file.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Append writes one record as a single O_APPEND write so a record is
// either fully present or absent, never truncated, even if several
// processes share the file.
func (s *Store) Append(rec Record) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	entry := fmt.Sprintf(
		"%s%s%s\n\n%s\n%s\n",
		rec.Title(),
		codeMarker,
		rec.ClaimCode,
		textutil.FlattenWhitespace(rec.Instructions),
		Separator,
	)
	_, err = f.WriteString(entry)
	return err
}

// Records reads the whole file back and parses it into records.
// A missing file is an empty store, not an error.
func (s *Store) Records() ([]Record, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return parse(string(raw)), nil
}

func parse(contents string) []Record {
	var records []Record

	for _, entry := range strings.Split(contents, Separator+"\n") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		lines := strings.SplitN(entry, "\n", 2)
		title := lines[0]
		instructions := ""
		if len(lines) > 1 {
			instructions = strings.TrimSpace(lines[1])
		}

		rec := Record{Instructions: instructions}
		if i := strings.LastIndex(title, codeMarker); i >= 0 {
			rec.ClaimCode = strings.TrimSpace(title[i+len(codeMarker):])
			title = title[:i]
		}
		if game, item, found := strings.Cut(title, " - "); found {
			rec.GameTitle = game
			rec.ItemTitle = item
		} else {
			rec.ItemTitle = title
		}
		records = append(records, rec)
	}

	return records
}
