// Package reportlog keeps an append-only JSONL audit trail of resolution
// reports, one entry per line.
package reportlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/suderio/arcanum/internal/resolver"
)

// Entry is one logged resolution outcome.
type Entry struct {
	Time      time.Time        `json:"time"`
	System    string           `json:"system"`
	Component string           `json:"component"`
	Resolved  bool             `json:"resolved"`
	Issues    []resolver.Issue `json:"issues,omitempty"`
}

// Store handles append-only storing of the report log.
type Store struct {
	file *os.File
}

// NewStore opens or creates the file at path for appending lines.
func NewStore(path string) (*Store, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open report log: %w", err)
	}
	return &Store{file: file}, nil
}

// Append writes one report as a JSONL line.
func (s *Store) Append(system string, rep *resolver.Report) error {
	entry := Entry{
		Time:      time.Now().UTC(),
		System:    system,
		Component: rep.Component,
		Resolved:  rep.Resolved,
		Issues:    rep.Issues,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return err
	}
	return s.file.Sync()
}

// Load replays every logged entry from the beginning of the file.
func (s *Store) Load() ([]Entry, error) {
	if _, err := s.file.Seek(0, 0); err != nil {
		return nil, err
	}

	var entries []Entry
	scanner := bufio.NewScanner(s.file)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, fmt.Errorf("failed to decode report log line: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Close handles safe shutdown.
func (s *Store) Close() error {
	return s.file.Close()
}
