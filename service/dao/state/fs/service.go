package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/dao"
)

// Service persists each contract state as <baseURL>/<id>.json.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

var _ dao.Service[string, model.State] = (*Service)(nil)

// Save writes the state document.
func (s *Service) Save(ctx context.Context, state *model.State) error {
	if state == nil {
		return dao.ErrNilEntity
	}
	if state.ID == "" {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state %s: %w", state.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.stateURL(state.ID)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save state to %s: %w", URL, err)
	}
	return nil
}

// Load reads the state document or returns dao.ErrNotFound.
func (s *Service) Load(ctx context.Context, id string) (*model.State, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	URL := s.stateURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check state %s: %w", URL, err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read state %s: %w", URL, err)
	}
	state := &model.State{}
	if err = json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state %s: %w", URL, err)
	}
	return state, nil
}

// Delete removes the state document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	URL := s.stateURL(id)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check state %s: %w", URL, err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	return s.fs.Delete(ctx, URL)
}

// List returns every stored state; unreadable documents fail the call.
func (s *Service) List(ctx context.Context) ([]*model.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	var result []*model.State
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			return nil, fmt.Errorf("failed to read state %s: %w", object.URL(), err)
		}
		state := &model.State{}
		if err = json.Unmarshal(data, state); err != nil {
			return nil, fmt.Errorf("failed to unmarshal state %s: %w", object.URL(), err)
		}
		result = append(result, state)
	}
	return result, nil
}

func (s *Service) stateURL(id string) string {
	return url.Join(s.baseURL, id+".json")
}

// New creates a state DAO rooted at baseURL, creating the location when needed.
func New(ctx context.Context, baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	fs := afs.New()
	baseURL = url.Normalize(baseURL, file.Scheme)
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create state location %s: %w", baseURL, err)
		}
	}
	return &Service{baseURL: baseURL, fs: fs}, nil
}
