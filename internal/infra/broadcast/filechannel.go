package broadcast

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// debounceDelay coalesces rapid file events (a burst of ticks) into a single
// read of the new lines.
const debounceDelay = 50 * time.Millisecond

// maxEventsFileSize bounds the channel file. A running timer appends one tick
// line per second, so the file is truncated once it passes this size; readers
// detect the shrink and restart from offset zero.
const maxEventsFileSize = 1 << 20

// FileChannel replicates timer events across processes through an
// append-only JSONL file. Publishing appends one line; a filesystem watcher
// picks up appends in other processes and dispatches the new events to local
// subscribers. Events this process wrote are recognized by writer ID and
// skipped, so a FileChannel can sit directly under a Syncer without echo.
// Fields are ordered to minimize memory padding.
type FileChannel struct {
	hub      *Hub
	fsw      *fsnotify.Watcher
	logger   domain.Logger
	timer    *time.Timer
	locals   map[string]bool // Origins published through this process
	path     string
	writerID string
	offset   int64
	maxSize  int64
	mu       sync.Mutex
}

// NewFileChannel creates a FileChannel over the given events file. The file
// and its directory are created if missing.
func NewFileChannel(path string, logger domain.Logger) (*FileChannel, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create events directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create events file: %w", err)
	}
	info, err := f.Stat()
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("stat events file: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(path); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch events file: %w", err)
	}

	return &FileChannel{
		hub:      NewHub(),
		fsw:      fsw,
		logger:   logger,
		locals:   map[string]bool{},
		path:     path,
		writerID: uuid.NewString(),
		offset:   info.Size(), // Only events appended after startup matter
		maxSize:  maxEventsFileSize,
	}, nil
}

// Publish appends the event to the channel file and delivers it to local
// subscribers.
func (c *FileChannel) Publish(ev domain.TimerEvent) {
	if ev.Origin == "" {
		ev.Origin = c.writerID
	}

	line, err := json.Marshal(ev)
	if err != nil {
		c.warn(fmt.Sprintf("encode event: %v", err))
		return
	}

	c.mu.Lock()
	c.locals[ev.Origin] = true
	c.rotateLocked()
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err == nil {
		_, werr := f.Write(append(line, '\n'))
		if werr != nil {
			c.warn(fmt.Sprintf("append event: %v", werr))
		}
		_ = f.Close()
	} else {
		c.warn(fmt.Sprintf("append event: %v", err))
	}
	c.mu.Unlock()

	c.hub.Publish(ev)
}

// rotateLocked truncates the channel file once it passes the size cap.
// Replayed lines are never needed after delivery, so dropping the backlog
// is safe; each reader's next scan notices the shrink and resets its offset.
// Caller holds c.mu.
func (c *FileChannel) rotateLocked() {
	info, err := os.Stat(c.path)
	if err != nil || info.Size() < c.maxSize {
		return
	}
	if err := os.Truncate(c.path, 0); err != nil {
		c.warn(fmt.Sprintf("rotate events file: %v", err))
		return
	}
	c.offset = 0
}

// Subscribe registers a handler for events from other processes (and local
// publishes). The returned function removes the subscription.
func (c *FileChannel) Subscribe(fn func(domain.TimerEvent)) func() {
	return c.hub.Subscribe(fn)
}

// Run starts the watch loop. It blocks until the context is canceled.
func (c *FileChannel) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			if c.timer != nil {
				c.timer.Stop()
			}
			c.mu.Unlock()
			return
		case event, ok := <-c.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			c.debounce()
		case err, ok := <-c.fsw.Errors:
			if !ok {
				return
			}
			c.warn(fmt.Sprintf("watch events file: %v", err))
		}
	}
}

// Close stops the underlying filesystem watcher.
func (c *FileChannel) Close() error {
	return c.fsw.Close()
}

// WriterID returns the channel's writer identity, used to recognize
// self-published lines.
func (c *FileChannel) WriterID() string {
	return c.writerID
}

func (c *FileChannel) debounce() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(debounceDelay, c.drain)
}

// drain reads and dispatches every complete line appended since the last
// read, skipping lines this process wrote itself.
func (c *FileChannel) drain() {
	events, err := c.readNew()
	if err != nil {
		c.warn(fmt.Sprintf("read events: %v", err))
		return
	}
	for _, ev := range events {
		c.hub.Publish(ev)
	}
}

func (c *FileChannel) readNew() ([]domain.TimerEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() < c.offset {
		c.offset = 0 // File was truncated or replaced; start over
	}
	if info.Size() == c.offset {
		return nil, nil
	}
	if _, err := f.Seek(c.offset, 0); err != nil {
		return nil, err
	}

	var events []domain.TimerEvent
	scanner := bufio.NewScanner(f)
	read := int64(0)
	for scanner.Scan() {
		line := scanner.Bytes()
		read += int64(len(line)) + 1
		var ev domain.TimerEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			continue // Torn or foreign line; skip
		}
		if ev.Origin == c.writerID || c.locals[ev.Origin] {
			continue // Self-published; already delivered locally
		}
		events = append(events, ev)
	}
	c.offset += read
	return events, scanner.Err()
}

func (c *FileChannel) warn(msg string) {
	if c.logger != nil {
		c.logger.Warn("", "broadcast", msg)
	}
}

// Ensure FileChannel implements TimerBus.
var _ domain.TimerBus = (*FileChannel)(nil)
