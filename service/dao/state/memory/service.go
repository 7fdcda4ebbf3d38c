package memory

import (
	"github.com/viant/safesend/model"
	"github.com/viant/safesend/service/dao"
	"github.com/viant/safesend/service/dao/store"
)

// Service keeps contract states in memory.  Records are cloned on save and
// load, so a state handed to a caller can never change the stored copy.
type Service struct {
	*store.MemoryStore[string, model.State]
}

var _ dao.Service[string, model.State] = (*Service)(nil)

func stateKey(s *model.State) string { return s.ID }

// New creates an in-memory state DAO.
func New() *Service {
	return &Service{MemoryStore: store.NewMemoryStore[string, model.State](stateKey, (*model.State).Clone)}
}
