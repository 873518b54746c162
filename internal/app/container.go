// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/gamify"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/infra/broadcast"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/infra/config"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/infra/gueststore"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/infra/kvstore"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/infra/logging"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/infra/notify"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/session"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/timersync"
	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/usecase"
)

// Paths holds the resolved file layout under the data directory.
type Paths struct {
	DataDir    string // Root data directory
	StorePath  string // Path to tasks.json
	KVPath     string // Path to state.json
	EventsPath string // Path to the timer event channel file
	LogsDir    string // Path to the log directory
}

// newPaths derives the file layout from the data directory.
func newPaths(dataDir string) Paths {
	return Paths{
		DataDir:    dataDir,
		StorePath:  domain.StorePath(dataDir),
		KVPath:     domain.KVPath(dataDir),
		EventsPath: domain.EventsPath(dataDir),
		LogsDir:    domain.LogsDir(dataDir),
	}
}

// DefaultDataDir returns the per-user data directory, honoring
// TASKFLOW_DATA_DIR and XDG_DATA_HOME.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv("TASKFLOW_DATA_DIR"); dir != "" {
		return dir, nil
	}
	if base := os.Getenv("XDG_DATA_HOME"); base != "" {
		return filepath.Join(base, "taskflow"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "taskflow"), nil
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tasks            domain.TaskRepository
	StoreInitializer domain.StoreInitializer
	KV               domain.KeyValueStore
	Bus              domain.TimerBus
	Clock            domain.Clock
	Logger           domain.Logger
	Notifier         domain.Notifier
	Sound            domain.SoundPlayer
	API              domain.TaskAPI // Nil in guest mode

	// Concrete collaborators
	Events     *broadcast.FileChannel // Nil when the event channel is unavailable
	Timer      *timersync.Syncer
	Ledger     *gamify.Store
	Chats      *session.ChatArchive
	Controller *session.Controller
	LogCloser  *logging.Logger

	// Configuration
	Config *domain.Config
	Paths  Paths
}

// New creates a new Container rooted at the given data directory. The
// directory is created if missing so first-run commands work without an
// explicit init.
func New(dataDir string) (*Container, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	paths := newPaths(dataDir)

	cfg, err := config.NewLoader(dataDir).Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(dataDir, logging.ParseLevel(cfg.Log.Level))

	guestStore := gueststore.New(paths.StorePath)
	kv := kvstore.New(paths.KVPath)

	// Cross-process replication through the shared event file. If the
	// channel cannot be set up the timer still works locally.
	var bus domain.TimerBus
	events, err := broadcast.NewFileChannel(paths.EventsPath, logger)
	if err != nil {
		logger.Warn("", "timer", fmt.Sprintf("event channel unavailable: %v", err))
		bus = broadcast.NewHub()
		events = nil
	} else {
		bus = events
	}

	clock := domain.RealClock{}
	notifier := notify.NewDesktop(logger)
	sound := notify.NewChime(logger)

	grace := time.Duration(cfg.Timer.GraceSeconds) * time.Second
	timer := timersync.New(clock, bus, kv, logger, grace)
	ledger := gamify.New(kv, clock, notifier, logger, cfg.Gamify.BaseXP)
	chats := session.NewChatArchive(kv, clock, logger,
		time.Duration(cfg.Chat.RetentionDays)*24*time.Hour, cfg.Chat.MaxMessages)
	controller := session.NewController(clock, timer, ledger, chats, logger, notifier, sound,
		time.Duration(cfg.Focus.InterleaveMinutes)*time.Minute)

	return &Container{
		Tasks:            guestStore,
		StoreInitializer: guestStore,
		KV:               kv,
		Bus:              bus,
		Clock:            clock,
		Logger:           logger,
		Notifier:         notifier,
		Sound:            sound,
		Events:           events,
		Timer:            timer,
		Ledger:           ledger,
		Chats:            chats,
		Controller:       controller,
		LogCloser:        logger,
		Config:           cfg,
		Paths:            paths,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(
	tasks domain.TaskRepository,
	storeInit domain.StoreInitializer,
	kv domain.KeyValueStore,
	bus domain.TimerBus,
	clock domain.Clock,
	logger domain.Logger,
	cfg *domain.Config,
) *Container {
	if cfg == nil {
		cfg = domain.DefaultConfig()
	}
	return &Container{
		Tasks:            tasks,
		StoreInitializer: storeInit,
		KV:               kv,
		Bus:              bus,
		Clock:            clock,
		Logger:           logger,
		Config:           cfg,
	}
}

// Close releases file handles held by the container.
func (c *Container) Close() error {
	var firstErr error
	if c.Events != nil {
		if err := c.Events.Close(); err != nil {
			firstErr = err
		}
	}
	if c.LogCloser != nil {
		if err := c.LogCloser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer)
}

// NewTaskUseCase returns a new NewTask use case.
func (c *Container) NewTaskUseCase() *usecase.NewTask {
	return usecase.NewNewTask(c.Tasks, c.Clock)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Tasks)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Tasks)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Tasks, c.Clock)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Tasks)
}

// AddSubtaskUseCase returns a new AddSubtask use case.
func (c *Container) AddSubtaskUseCase() *usecase.AddSubtask {
	return usecase.NewAddSubtask(c.Tasks, c.Clock)
}

// ToggleSubtaskUseCase returns a new ToggleSubtask use case.
func (c *Container) ToggleSubtaskUseCase() *usecase.ToggleSubtask {
	return usecase.NewToggleSubtask(c.Tasks, c.Clock)
}

// DeleteSubtaskUseCase returns a new DeleteSubtask use case.
func (c *Container) DeleteSubtaskUseCase() *usecase.DeleteSubtask {
	return usecase.NewDeleteSubtask(c.Tasks, c.Clock)
}

// ReorderSubtasksUseCase returns a new ReorderSubtasks use case.
func (c *Container) ReorderSubtasksUseCase() *usecase.ReorderSubtasks {
	return usecase.NewReorderSubtasks(c.Tasks, c.Clock)
}

// ArchiveSubtaskUseCase returns a new ArchiveSubtask use case.
func (c *Container) ArchiveSubtaskUseCase() *usecase.ArchiveSubtask {
	return usecase.NewArchiveSubtask(c.Tasks, c.Clock)
}

// LinkTaskUseCase returns a new LinkTask use case.
func (c *Container) LinkTaskUseCase() *usecase.LinkTask {
	return usecase.NewLinkTask(c.Tasks, c.Clock)
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.Tasks, c.Clock)
}

// MigrateGuestUseCase returns a new MigrateGuest use case.
func (c *Container) MigrateGuestUseCase() *usecase.MigrateGuest {
	return usecase.NewMigrateGuest(c.Tasks, c.API, c.KV, c.Logger)
}
