package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
)

const defaultHistorySize = 1000

// DefaultHistoryPath returns ~/.shiptrack/history.
func DefaultHistoryPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".shiptrack", "history")
}

// History manages command history for the REPL. An empty file path keeps
// history in memory only.
type History struct {
	mu      sync.Mutex
	entries []string
	maxSize int
	file    string
}

// NewHistory creates a history backed by file.
func NewHistory(file string) *History {
	return &History{
		maxSize: defaultHistorySize,
		file:    file,
	}
}

// Add appends cmd, skipping immediate repeats and lines that carry
// credentials.
func (h *History) Add(cmd string) {
	if containsSecret(cmd) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

// Load reads history from the file. A missing file is not an error.
func (h *History) Load() error {
	if h.file == "" {
		return nil
	}
	file, err := os.Open(h.file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		h.Add(scanner.Text())
	}
	return scanner.Err()
}

// Save writes history to the file with owner-only permissions.
func (h *History) Save() error {
	if h.file == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.file), 0700); err != nil {
		return err
	}

	file, err := os.OpenFile(h.file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, entry := range h.Entries() {
		if _, err := w.WriteString(entry + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

// SecretFlags lists, per command, the short flag aliases whose values are
// credentials. Long flag names are recognised by their name alone.
var SecretFlags = map[string][]string{
	"login":  {"p", "r"},
	"signup": {"p", "r"},
}

// containsSecret reports whether a line passes a credential as a flag.
func containsSecret(line string) bool {
	fields := strings.Fields(line)

	aliases := make(map[string]bool)
	for _, field := range fields {
		for _, alias := range SecretFlags[field] {
			aliases[alias] = true
		}
	}

	for _, field := range fields {
		if !strings.HasPrefix(field, "-") {
			continue
		}
		name, _, _ := strings.Cut(strings.TrimLeft(field, "-"), "=")
		if aliases[name] || logger.IsSensitiveKey(strings.ReplaceAll(name, "-", "_")) {
			return true
		}
	}
	return false
}
