package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/peek-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/peek-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/peek-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/peek-cli/internal/adapters/driving/tui/views/preview"
	"github.com/custodia-labs/peek-cli/internal/core/domain"
	"github.com/custodia-labs/peek-cli/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keys holds the keybindings.
	keys *keymap.KeyMap

	// previewView renders the preview panels.
	previewView *preview.View

	// request is the preview request the app was started with.
	request domain.PreviewRequest

	// downloadDir is where the download action writes files.
	downloadDir string

	// extractingGen is the generation an extraction was last started
	// for, so each request triggers at most one extraction.
	extractingGen  uint64
	extractStarted bool

	// changes emits when the previewed file changes on disk.
	changes <-chan struct{}

	// subscribed guards against stacking a second Updates listener
	// when the preview is reopened after a file change.
	subscribed bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports, req domain.PreviewRequest) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	keys := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keys:        keys,
		previewView: preview.NewView(s, keys),
		request:     req,
		downloadDir: ".",
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithDownloadDir sets the directory the download action writes to.
func (a *App) WithDownloadDir(dir string) *App {
	if dir != "" {
		a.downloadDir = dir
	}
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle(fmt.Sprintf("peek - %s", a.request.FileName)),
		a.previewView.Init(),
		a.openPreview(),
	}
	if a.ports.Watcher != nil {
		cmds = append(cmds, a.startWatch())
	}
	return tea.Batch(cmds...)
}

// openPreview starts the preview session for the initial request.
func (a *App) openPreview() tea.Cmd {
	return func() tea.Msg {
		err := a.ports.Preview.Open(a.ctx, a.request)
		return messages.PreviewOpened{Err: err}
	}
}

// waitForUpdate blocks until the session signals a snapshot change.
func (a *App) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-a.ctx.Done():
			return messages.Quit{}
		case <-a.ports.Preview.Updates():
			return messages.SnapshotUpdated{Snapshot: a.ports.Preview.Snapshot()}
		}
	}
}

// startWatch subscribes to on-disk changes of the previewed file.
func (a *App) startWatch() tea.Cmd {
	return func() tea.Msg {
		ch, err := a.ports.Watcher.Watch(a.ctx, a.request.Identifier())
		return messages.WatchStarted{Changes: ch, Err: err}
	}
}

// waitForChange blocks until the watched file changes on disk.
func (a *App) waitForChange() tea.Cmd {
	ch := a.changes
	return func() tea.Msg {
		select {
		case <-a.ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return messages.FileChanged{}
		}
	}
}

// extractText pulls text out of the binary resource for generation gen.
func (a *App) extractText(gen uint64, path string) tea.Cmd {
	return func() tea.Msg {
		text, err := a.ports.Extractor.ExtractText(path)
		return messages.TextExtracted{Generation: gen, Text: text, Err: err}
	}
}

// download copies the transient resource into the download directory.
func (a *App) download() tea.Cmd {
	return func() tea.Msg {
		path, err := a.ports.Preview.Download(a.downloadDir)
		return messages.DownloadCompleted{Path: path, Err: err}
	}
}

// openExternal hands the resource to the system default opener.
func (a *App) openExternal() tea.Cmd {
	return func() tea.Msg {
		return messages.OpenedExternally{Err: a.ports.Preview.OpenExternal()}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.previewView, cmd = a.previewView.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		keyStr := msg.String()
		switch {
		case keymap.Matches(keyStr, a.keys.Quit):
			return a, tea.Quit
		case keymap.Matches(keyStr, a.keys.Download):
			return a, a.download()
		case keymap.Matches(keyStr, a.keys.Open):
			return a, a.openExternal()
		}
		a.previewView, cmd = a.previewView.Update(msg)
		return a, cmd

	case messages.PreviewOpened:
		if msg.Err != nil {
			a.err = msg.Err
			a.previewView, cmd = a.previewView.Update(messages.ErrorOccurred{Err: msg.Err})
			return a, cmd
		}
		cmds := []tea.Cmd{func() tea.Msg {
			return messages.SnapshotUpdated{Snapshot: a.ports.Preview.Snapshot()}
		}}
		// A reopen after a file change reuses the existing listener.
		if !a.subscribed {
			a.subscribed = true
			cmds = append(cmds, a.waitForUpdate())
		}
		return a, tea.Batch(cmds...)

	case messages.SnapshotUpdated:
		cmds := []tea.Cmd{a.waitForUpdate(), a.previewView.SetSnapshot(msg.Snapshot)}
		if extract := a.maybeExtract(msg.Snapshot.Generation); extract != nil {
			cmds = append(cmds, extract)
		}
		return a, tea.Batch(cmds...)

	case messages.WatchStarted:
		if msg.Err != nil {
			logger.Warn("file watch unavailable: %v", msg.Err)
			return a, nil
		}
		a.changes = msg.Changes
		return a, a.waitForChange()

	case messages.FileChanged:
		return a, tea.Batch(a.openPreview(), a.waitForChange())

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.previewView, cmd = a.previewView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (spinner ticks, extraction and download
	// results) to the preview view.
	a.previewView, cmd = a.previewView.Update(msg)
	return a, cmd
}

// maybeExtract starts text extraction when the snapshot settles on the
// document-viewer instruction and an extractor is available. At most one
// extraction runs per generation.
func (a *App) maybeExtract(gen uint64) tea.Cmd {
	if a.ports.Extractor == nil {
		return nil
	}
	if a.extractStarted && a.extractingGen == gen {
		return nil
	}

	snap := a.ports.Preview.Snapshot()
	if snap.Generation != gen || snap.Resource == nil {
		return nil
	}
	inst := domain.SelectRenderer(snap.Category, snap.Original, snap.Resource)
	if inst.Kind != domain.RenderPDF {
		return nil
	}

	a.extractStarted = true
	a.extractingGen = gen
	a.previewView.SetExtracting()
	return a.extractText(gen, snap.Resource.Path)
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	return a.previewView.View()
}

// Run starts the TUI application and tears the session down when the
// program exits, releasing any transient resources.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, runErr := p.Run()

	if err := a.ports.Preview.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// CurrentPanel returns the active preview panel.
func (a *App) CurrentPanel() messages.PanelType {
	return a.previewView.Panel()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.previewView.SetDimensions(width, height)
}
