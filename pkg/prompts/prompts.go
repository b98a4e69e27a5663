// Package prompts persists the user's last generation prompt so the next
// invocation can offer it as a starting point.
package prompts

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/mindgrid/pkg/errors"
)

// slotFile is the fixed storage key for the single last-prompt slot.
const slotFile = "last_prompt"

// Store is a file-backed single-slot prompt store.
type Store struct {
	dir string
}

// NewStore creates a prompt store rooted at dir. An empty dir defaults to
// the user config directory (~/.config/mindgrid on Linux).
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "resolve config directory")
		}
		dir = filepath.Join(base, "mindgrid")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create prompt store directory")
	}
	return &Store{dir: dir}, nil
}

// Last returns the stored prompt, or the empty string if none is stored.
func (s *Store) Last() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, slotFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "read last prompt")
	}
	return strings.TrimSpace(string(data)), nil
}

// SetLast overwrites the slot with prompt. Empty prompts are ignored so a
// failed or aborted generation never clobbers the previous value.
func (s *Store) SetLast(prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil
	}
	if err := os.WriteFile(filepath.Join(s.dir, slotFile), []byte(prompt+"\n"), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write last prompt")
	}
	return nil
}

// Clear removes the stored prompt. Clearing an empty slot is not an error.
func (s *Store) Clear() error {
	err := os.Remove(filepath.Join(s.dir, slotFile))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeInternal, err, "clear last prompt")
	}
	return nil
}
