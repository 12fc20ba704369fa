package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/telecom_charts/domain/models"
)

type session struct {
	id      string
	chatID  int64
	state   models.ViewState
	touched time.Time
}

// SessionStore keeps the view state of every Telegram chat and upload link.
// Each session owns the directory UploadDir/<id>.
type SessionStore struct {
	mu     sync.Mutex
	dir    string
	ttl    time.Duration
	now    func() time.Time
	byID   map[string]*session
	byChat map[int64]string
}

func NewSessionStore(dir string, ttl time.Duration) *SessionStore {
	return &SessionStore{
		dir:    dir,
		ttl:    ttl,
		now:    time.Now,
		byID:   map[string]*session{},
		byChat: map[int64]string{},
	}
}

func (s *SessionStore) newLocked(chatID int64) *session {
	sess := &session{
		id:      uuid.NewV4().String(),
		chatID:  chatID,
		touched: s.now(),
	}
	s.byID[sess.id] = sess
	if chatID != 0 {
		s.byChat[chatID] = sess.id
	}
	return sess
}

// New opens a session; chatID 0 means a browser-only session.
func (s *SessionStore) New(chatID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newLocked(chatID).id
}

// ForChat returns the chat's session, opening one on first use.
func (s *SessionStore) ForChat(chatID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byChat[chatID]; ok {
		if sess, ok := s.byID[id]; ok {
			sess.touched = s.now()
			return id
		}
	}
	return s.newLocked(chatID).id
}

// ChatID is 0 for sessions without a chat.
func (s *SessionStore) ChatID(id string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return 0, false
	}
	return sess.chatID, true
}

func (s *SessionStore) Dir(id string) string {
	return filepath.Join(s.dir, id)
}

// State returns a copy of the session's view state.
func (s *SessionStore) State(id string) (models.ViewState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return models.ViewState{}, false
	}
	state := sess.state
	state.Files = append([]string(nil), sess.state.Files...)
	return state, true
}

// Update applies fn to the session's view state under the lock.
func (s *SessionStore) Update(id string, fn func(*models.ViewState)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("session %s not found", id)
	}
	fn(&sess.state)
	sess.touched = s.now()
	return nil
}

// AddFiles appends uploaded spreadsheets, skipping paths already known.
func (s *SessionStore) AddFiles(id string, files ...string) error {
	return s.Update(id, func(st *models.ViewState) {
		for _, f := range files {
			known := false
			for _, have := range st.Files {
				if have == f {
					known = true
					break
				}
			}
			if !known {
				st.Files = append(st.Files, f)
			}
		}
	})
}

// Reset forgets the files and selections and removes the session directory.
func (s *SessionStore) Reset(id string) error {
	if err := s.Update(id, func(st *models.ViewState) { *st = models.ViewState{} }); err != nil {
		return err
	}
	return os.RemoveAll(s.Dir(id))
}

// Cleanup drops sessions idle longer than the TTL together with their files.
func (s *SessionStore) Cleanup() int {
	s.mu.Lock()
	cutoff := s.now().Add(-s.ttl)
	var expired []string
	for id, sess := range s.byID {
		if sess.touched.Before(cutoff) {
			expired = append(expired, id)
			delete(s.byID, id)
			if s.byChat[sess.chatID] == id {
				delete(s.byChat, sess.chatID)
			}
		}
	}
	live := make(map[string]bool, len(s.byID))
	for id := range s.byID {
		live[id] = true
	}
	s.mu.Unlock()

	for _, id := range expired {
		if err := os.RemoveAll(s.Dir(id)); err != nil {
			log.Warn().Err(err).Str("session", id).Msg("cannot remove session dir")
		}
	}
	// leftovers from sessions lost on restart
	entries, _ := os.ReadDir(s.dir)
	for _, e := range entries {
		if live[e.Name()] {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		if !e.IsDir() {
			if info, err := e.Info(); err == nil && info.ModTime().Before(cutoff) {
				os.Remove(path)
			}
			continue
		}
		if err := removeOldFiles(path, cutoff); err != nil {
			log.Warn().Err(err).Str("dir", path).Msg("cannot clean upload dir")
		}
	}
	return len(expired)
}

// RunCleanup calls Cleanup every interval until stop is closed.
func (s *SessionStore) RunCleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := s.Cleanup(); n > 0 {
				log.Info().Int("sessions", n).Msg("expired sessions removed")
			}
		}
	}
}

func removeOldFiles(dirPath string, maxAge time.Time) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return err
	}
	for _, file := range files {
		filePath := filepath.Join(dirPath, file.Name())
		if file.IsDir() {
			if err := removeOldFiles(filePath, maxAge); err != nil {
				return err
			}
			continue
		}
		info, err := file.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(maxAge) {
			if err := os.Remove(filePath); err != nil {
				return err
			}
			log.Debug().Str("file", filePath).Msg("removed stale upload")
		}
	}
	return nil
}
