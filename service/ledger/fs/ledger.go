// Package fs implements an outbox ledger: every directive is written as a
// JSON document under <baseURL>/pending/<id>.json for an external signer to
// pick up and submit.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/safesend/internal/clock"
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/ledger"
)

const pendingDir = "pending"

// Ledger writes directives to an afs backed outbox.
type Ledger struct {
	fs         afs.Service
	pendingURL string
}

var _ ledger.Ledger = (*Ledger)(nil)

// SubmitTransfer writes the directive; an existing document with the same id
// is treated as a failure so that a directive is never submitted twice.
func (l *Ledger) SubmitTransfer(ctx context.Context, directive *model.Directive) (*model.Receipt, error) {
	if directive == nil || directive.ID == "" {
		return nil, fmt.Errorf("invalid directive")
	}
	URL := url.Join(l.pendingURL, directive.ID+".json")
	exists, err := l.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check outbox %s: %w", URL, err)
	}
	if exists {
		return nil, fmt.Errorf("directive %s already submitted", directive.ID)
	}
	data, err := json.Marshal(directive)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal directive: %w", err)
	}
	if err = l.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to write directive %s: %w", URL, err)
	}
	return &model.Receipt{
		ID:          directive.ID,
		Receiver:    directive.Receiver,
		Amount:      directive.Amount,
		SubmittedAt: clock.Now(),
		Reference:   URL,
	}, nil
}

// Pending lists directives still waiting in the outbox.
func (l *Ledger) Pending(ctx context.Context) ([]*model.Directive, error) {
	objects, err := l.fs.List(ctx, l.pendingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list outbox: %w", err)
	}
	var result []*model.Directive
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := l.fs.Download(ctx, object)
		if err != nil {
			return nil, fmt.Errorf("failed to read directive %s: %w", object.URL(), err)
		}
		directive := &model.Directive{}
		if err = json.Unmarshal(data, directive); err != nil {
			return nil, fmt.Errorf("failed to unmarshal directive %s: %w", object.URL(), err)
		}
		result = append(result, directive)
	}
	return result, nil
}

// New creates an outbox ledger rooted at baseURL.
func New(ctx context.Context, baseURL string) (*Ledger, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	fs := afs.New()
	pendingURL := url.Join(url.Normalize(baseURL, file.Scheme), pendingDir)
	exists, _ := fs.Exists(ctx, pendingURL)
	if !exists {
		if err := fs.Create(ctx, pendingURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create outbox %s: %w", pendingURL, err)
		}
	}
	return &Ledger{fs: fs, pendingURL: pendingURL}, nil
}
