package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Run states recorded in a status file.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Status is the document written to a status file.
type Status struct {
	RunID        string    `json:"run_id"`
	Status       string    `json:"status"`
	Step         string    `json:"step,omitempty"`
	OutputFolder string    `json:"output_folder,omitempty"`
	Message      string    `json:"message,omitempty"`
	Error        string    `json:"error,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StatusFile tracks the progress of one run in a JSON file that is
// replaced atomically on every update.
type StatusFile struct {
	mu    sync.Mutex
	path  string
	state Status
	now   func() time.Time
}

// NewStatusFile creates a status file for a new run with a fresh run id.
// Nothing is written until the first update.
func NewStatusFile(path string) *StatusFile {
	return &StatusFile{
		path:  path,
		state: Status{RunID: uuid.NewString()},
		now:   time.Now,
	}
}

// RunID returns the id of the run.
func (s *StatusFile) RunID() string {
	return s.state.RunID
}

// Processing records that step has started.
func (s *StatusFile) Processing(step, message string) error {
	return s.update(func(st *Status) {
		st.Status = StatusProcessing
		st.Step = step
		st.Message = message
	})
}

// Completed records a successful run and its output folder.
func (s *StatusFile) Completed(outputFolder, message string) error {
	return s.update(func(st *Status) {
		st.Status = StatusCompleted
		st.Step = ""
		st.OutputFolder = outputFolder
		st.Message = message
		st.Error = ""
	})
}

// Failed records that the run stopped with err.
func (s *StatusFile) Failed(err error) error {
	return s.update(func(st *Status) {
		st.Status = StatusError
		st.Message = ""
		st.Error = err.Error()
	})
}

// Snapshot returns the last recorded status.
func (s *StatusFile) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *StatusFile) update(fn func(*Status)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	s.state.UpdatedAt = s.now().UTC()

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, data)
}

// ReadStatus reads a status file.
func ReadStatus(path string) (Status, error) {
	var st Status
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
