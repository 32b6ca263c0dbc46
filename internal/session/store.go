package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/alanmeadows/consultant/internal/store"
)

var validSlug = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Store keeps one directory per session under a root directory. The
// directory is the single source of truth for a session's state.
type Store struct {
	root        string
	lockTimeout time.Duration
	now         func() time.Time
}

// NewStore creates a Store rooted at root. The directory is created lazily.
func NewStore(root string) *Store {
	return &Store{root: root, lockTimeout: store.DefaultLockTimeout, now: time.Now}
}

// Root returns the sessions root directory.
func (s *Store) Root() string { return s.root }

// Dir returns the directory of session id.
func (s *Store) Dir(id string) string { return filepath.Join(s.root, id) }

func (s *Store) metadataPath(id string) string { return filepath.Join(s.Dir(id), MetadataFile) }

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func preview(prompt string) string {
	if utf8.RuneCountInString(prompt) <= previewLength {
		return prompt
	}
	return string([]rune(prompt)[:previewLength]) + "..."
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Create allocates a session id of the form <slug>-<unix-millis>, creates
// its directory and persists the full prompt and initial metadata. If the
// id is taken the timestamp is bumped until a free one is found.
func (s *Store) Create(p CreateParams) (string, error) {
	if !validSlug.MatchString(p.Slug) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlug, p.Slug)
	}
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return "", fmt.Errorf("creating sessions root %s: %w", s.root, err)
	}

	now := s.now()
	ts := now.UnixMilli()
	var id string
	for {
		id = fmt.Sprintf("%s-%d", p.Slug, ts)
		err := os.Mkdir(s.Dir(id), 0755)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("creating session directory: %w", err)
		}
		ts++
	}

	meta := Metadata{
		ID:              id,
		Slug:            p.Slug,
		CreatedAt:       now,
		UpdatedAt:       now,
		Status:          StatusRunning,
		Model:           p.Model,
		BaseURL:         p.BaseURL,
		ReasoningEffort: p.ReasoningEffort,
		PromptPreview:   preview(p.Prompt),
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		os.RemoveAll(s.Dir(id))
		return "", fmt.Errorf("encoding metadata: %w", err)
	}

	if err := store.WriteFile(filepath.Join(s.Dir(id), PromptFile), []byte(p.Prompt)); err != nil {
		os.RemoveAll(s.Dir(id))
		return "", err
	}
	if err := store.WriteFile(s.metadataPath(id), data); err != nil {
		os.RemoveAll(s.Dir(id))
		return "", err
	}

	slog.Debug("session created", "id", id, "model", p.Model)
	return id, nil
}

// Prompt returns the full prompt of session id.
func (s *Store) Prompt(id string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(id), PromptFile))
	if err != nil {
		return "", fmt.Errorf("reading prompt for %s: %w", id, err)
	}
	return string(data), nil
}

// UpdateStatus applies u to the session's metadata. Each set field
// overwrites its slot; everything else is preserved. Output and error text
// land in their own files before the metadata that announces them.
func (s *Store) UpdateStatus(id string, u Update) error {
	if !validID(id) {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if _, err := os.Stat(s.Dir(id)); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	path := s.metadataPath(id)

	return store.WithLock(path, s.lockTimeout, func() error {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("reading metadata for %s: %w", id, err)
		}

		now := s.now()
		set := func(key string, value any) {
			if err != nil {
				return
			}
			data, err = sjson.SetBytes(data, key, value)
		}

		if u.Status != "" {
			current := Status(gjson.GetBytes(data, "status").String())
			if !current.canTransition(u.Status) {
				return fmt.Errorf("%w: %s -> %s for session %s", ErrInvalidTransition, current, u.Status, id)
			}
			set("status", string(u.Status))
			if u.Status.Terminal() && !gjson.GetBytes(data, "completed_at").Exists() {
				set("completed_at", store.FormatTime(now))
			}
		}

		if u.Output != nil {
			if werr := store.WriteFile(filepath.Join(s.Dir(id), OutputFile), []byte(*u.Output)); werr != nil {
				return werr
			}
			set("output_length", utf8.RuneCountInString(*u.Output))
		}
		if u.Error != "" {
			details := fmt.Sprintf("Error: %s\n\nType: %s", u.Error, u.ErrorKind)
			if werr := store.WriteFile(filepath.Join(s.Dir(id), ErrorFile), []byte(details)); werr != nil {
				return werr
			}
			set("error", truncate(u.Error, maxErrorLength))
		}
		if u.ErrorKind != "" {
			set("error_kind", u.ErrorKind)
		}
		if u.Usage != nil {
			set("usage", u.Usage)
		}
		if u.Cost != nil {
			set("cost_info", u.Cost)
		}
		if u.Strategy != "" {
			set("strategy", u.Strategy)
		}
		if u.Resumable != nil {
			set("resumable", *u.Resumable)
		}
		if u.PID != 0 {
			set("pid", u.PID)
		}
		set("updated_at", store.FormatTime(now))
		if err != nil {
			return fmt.Errorf("updating metadata for %s: %w", id, err)
		}

		return store.WriteFile(path, data)
	})
}

func readMetadata(dir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, err
	}
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Join(dir, MetadataFile), err)
	}
	return &m, nil
}

// attach reads the output or error file that goes with a terminal status.
func attach(dir string, m *Metadata) {
	switch m.Status {
	case StatusCompleted:
		if data, err := os.ReadFile(filepath.Join(dir, OutputFile)); err == nil {
			m.Output = string(data)
		}
	case StatusError:
		if data, err := os.ReadFile(filepath.Join(dir, ErrorFile)); err == nil {
			m.ErrorDetails = string(data)
		}
	}
}

// Load returns the metadata of session id with output or error details
// attached.
func (s *Store) Load(id string) (*Metadata, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	dir := s.Dir(id)
	m, err := readMetadata(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	attach(dir, m)
	return m, nil
}

// matchesSlug reports whether a directory name is <slug>-<digits>.
func matchesSlug(name, slug string) bool {
	rest, ok := strings.CutPrefix(name, slug+"-")
	if !ok || rest == "" {
		return false
	}
	_, err := strconv.ParseUint(rest, 10, 64)
	return err == nil
}

// GetStatus resolves slug to its most recently modified session. An exact
// session id is also accepted.
func (s *Store) GetStatus(slug string) (*Metadata, error) {
	if !validID(slug) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	if store.Exists(s.metadataPath(slug)) {
		return s.Load(slug)
	}

	entries, err := os.ReadDir(s.root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return nil, fmt.Errorf("reading sessions root: %w", err)
	}

	var best string
	var bestMod time.Time
	for _, e := range entries {
		if !e.IsDir() || !matchesSlug(e.Name(), slug) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		mod := info.ModTime()
		if best == "" || mod.After(bestMod) || (mod.Equal(bestMod) && e.Name() > best) {
			best, bestMod = e.Name(), mod
		}
	}
	if best == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	return s.Load(best)
}

// List returns every session with readable metadata, newest first.
// Directories with missing or corrupt metadata are skipped.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, os.ErrNotExist) {
		return []Metadata{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading sessions root: %w", err)
	}

	sessions := make([]Metadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m, err := readMetadata(filepath.Join(s.root, e.Name()))
		if err != nil {
			slog.Debug("skipping session", "dir", e.Name(), "error", err)
			continue
		}
		sessions = append(sessions, *m)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// WaitForCompletion polls session id until it reaches a terminal status.
// Missing or undecodable metadata is treated as not yet consistent.
// Exceeding timeout returns ErrWaitTimeout; the session itself is left
// running.
func (s *Store) WaitForCompletion(ctx context.Context, id string, timeout, interval time.Duration) (*Metadata, error) {
	deadline := time.Now().Add(timeout)
	for {
		m, err := s.Load(id)
		if err == nil && m.Status.Terminal() {
			return m, nil
		}
		if err != nil {
			slog.Debug("session not readable yet", "id", id, "error", err)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w: session %s did not finish within %s", ErrWaitTimeout, id, timeout)
		}
		wait := interval
		if wait > remaining {
			wait = remaining
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}
