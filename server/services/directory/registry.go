package directory

import (
	"fmt"
	"sync"

	"github.com/rostersync/rostersync/common/gerror"
	"github.com/rostersync/rostersync/common/models"
)

type Registry struct {
	directoryByName map[models.SystemName]Directory
	mutex           sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		directoryByName: make(map[models.SystemName]Directory),
	}
}

// Register a directory. If a directory with that name is already registered then this function will panic.
func (s *Registry) Register(directory Directory) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.directoryByName[directory.Name()]; ok {
		panic(fmt.Sprintf("DirectoryRegistry: attempt to register directory %q more than once", directory.Name()))
	}

	s.directoryByName[directory.Name()] = directory
}

// Get the registered directory by name. If a directory with the specified name does not
// exist an error will be returned.
func (s *Registry) Get(name models.SystemName) (Directory, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	directory, ok := s.directoryByName[name]
	if !ok {
		return nil, gerror.NewErrNotFound("Not Found").IDetail("directory", name)
	}
	return directory, nil
}
