package chat

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// Conversation is one persisted chat session.
type Conversation struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Provider string    `json:"provider"`
	Model    string    `json:"model"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	Turns    []Turn    `json:"turns"`
}

// Store persists conversations as JSON files, one per conversation, under a
// directory (.codechat/history by convention). Writes are guarded by a file
// lock so concurrent CLI invocations cannot interleave partial writes.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// NewConversation creates and persists an empty conversation.
func (s *Store) NewConversation(title, provider, model string) (*Conversation, error) {
	now := time.Now().UTC()
	conv := &Conversation{
		ID:       uuid.NewString(),
		Title:    title,
		Provider: provider,
		Model:    model,
		Created:  now,
		Updated:  now,
	}
	if err := s.Save(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// Save writes the conversation atomically under the store lock.
func (s *Store) Save(conv *Conversation) error {
	conv.Updated = time.Now().UTC()

	lock := flock.New(s.lockPath())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock history store: %w", err)
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	path := s.path(conv.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write conversation: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load reads one conversation by ID.
func (s *Store) Load(id string) (*Conversation, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation %s: %w", id, err)
	}
	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("conversation %s is corrupted: %w", id, err)
	}
	return &conv, nil
}

// Append adds turns to a conversation and persists it.
func (s *Store) Append(conv *Conversation, turns ...Turn) error {
	conv.Turns = append(conv.Turns, turns...)
	return s.Save(conv)
}

// Delete removes a conversation. Deleting a missing conversation is not an
// error.
func (s *Store) Delete(id string) error {
	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns all conversations, most recently updated first.
func (s *Store) List() ([]*Conversation, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var convs []*Conversation
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		conv, err := s.Load(strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue // skip unreadable or corrupted sessions
		}
		convs = append(convs, conv)
	}
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].Updated.After(convs[j].Updated)
	})
	return convs, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) lockPath() string {
	return filepath.Join(s.dir, ".lock")
}
