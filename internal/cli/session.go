package cli

import (
	"log"

	"github.com/nissyi-gh/tareas/internal/config"
	"github.com/nissyi-gh/tareas/internal/model"
	"github.com/nissyi-gh/tareas/internal/store"
	"github.com/nissyi-gh/tareas/internal/tasks"
)

// session is the configuration and opened storage shared by every command.
type session struct {
	cfg     *config.Config
	kv      *store.SQLiteKV
	adapter *store.Adapter
	state   model.State
}

func openSession() (*session, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.DBPath
	if dbFlag != "" {
		dbPath = dbFlag
	}

	kv, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	adapter := store.NewAdapter(kv)
	state, err := adapter.Load()
	if err != nil {
		// Load already fell back per key; keep going with what it returned.
		log.Printf("[cli] warning: starting with partial state: %v", err)
	}

	return &session{cfg: cfg, kv: kv, adapter: adapter, state: state}, nil
}

// tasks returns a store without countdown timers, for one-shot commands.
func (s *session) tasks() *tasks.Store {
	return tasks.New(s.adapter, s.state)
}

func (s *session) Close() error {
	return s.kv.Close()
}
