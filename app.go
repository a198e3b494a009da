package focusdeck

import (
	"log/slog"

	"github.com/dmitrymomot/focusdeck/modules/subtasks"
	"github.com/dmitrymomot/focusdeck/pkg/cleanup"
	"github.com/dmitrymomot/focusdeck/pkg/config"
	"github.com/dmitrymomot/focusdeck/pkg/pipeline"
	"github.com/dmitrymomot/focusdeck/pkg/session"
	"github.com/dmitrymomot/focusdeck/pkg/storage"
)

// App is the assembled client core: one pipeline, one session, one set of
// storage surfaces, and the domain services built on top of them.
type App struct {
	API      *pipeline.Client
	Session  *session.Manager
	Subtasks *subtasks.Service
	Cleanup  *cleanup.Manager
	Cookies  *storage.Memory
	KV       *storage.MemoryKV
}

// New builds an App from environment configuration. Components share the
// same cookie store and cleanup manager, so a 401 observed anywhere tears
// down exactly the credentials every other component reads.
func New(log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	var pipeCfg pipeline.Config
	if err := config.Load(&pipeCfg); err != nil {
		return nil, err
	}
	var sessCfg session.Config
	if err := config.Load(&sessCfg); err != nil {
		return nil, err
	}

	cookies := storage.NewMemory()
	kv := storage.NewMemoryKV()
	clean := cleanup.New(cookies, kv, cleanup.WithLogger(log))

	api := pipeline.New(pipeCfg, cookies,
		pipeline.WithLogger(log),
		pipeline.WithErrorHandler(pipeline.AuthCleanup(clean, nil)),
	)

	sess := session.New(api, cookies, clean,
		session.WithConfig(sessCfg),
		session.WithLogger(log),
	)

	return &App{
		API:      api,
		Session:  sess,
		Subtasks: subtasks.NewService(api, subtasks.WithLogger(log)),
		Cleanup:  clean,
		Cookies:  cookies,
		KV:       kv,
	}, nil
}

// Close stops the session watchers. Call on shutdown.
func (a *App) Close() {
	a.Session.Close()
}
