// Package preview provides the file preview view component for the TUI.
// It renders whatever the renderer decision table selects for the active
// panel: text, an error, a placeholder for binary formats, or a spinner
// while fetches are in flight.
package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/peek-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/peek-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/peek-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/peek-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/peek-cli/internal/core/domain"
	"github.com/custodia-labs/peek-cli/internal/core/ports/driving"
)

// View is the file preview view.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	spin   spinner.Model
	bar    *status.Bar

	snapshot     driving.Snapshot
	haveSnapshot bool
	panel        messages.PanelType

	// extracted holds text pulled out of a binary original, valid for
	// extractedGen only.
	extracted    string
	extractedGen uint64
	extractErr   error
	extracting   bool

	lines        []string
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// NewView creates a new preview view.
func NewView(s *styles.Styles, keys *keymap.KeyMap) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if keys == nil {
		keys = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles: s,
		keys:   keys,
		spin:   sp,
		bar:    status.NewBar(s, keys),
		panel:  messages.PanelOriginal,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.spin.Tick
}

// SetSnapshot replaces the view's snapshot. A generation change means a
// new request superseded the old one, so per-request state is reset.
func (v *View) SetSnapshot(snap driving.Snapshot) tea.Cmd {
	if v.haveSnapshot && snap.Generation != v.snapshot.Generation {
		v.extracted = ""
		v.extractErr = nil
		v.extracting = false
		v.scrollOffset = 0
		v.panel = messages.PanelOriginal
		v.bar.Clear()
	}
	v.snapshot = snap
	v.haveSnapshot = true

	if snap.Loading() {
		v.bar.SetState(status.StateLoading)
	} else if v.bar.State() == status.StateLoading {
		v.bar.SetState(status.StateReady)
	}

	v.rebuildLines()
	if snap.Loading() {
		return v.spin.Tick
	}
	return nil
}

// SetExtracting marks that text extraction is running for the current
// generation, so the view shows progress instead of a download hint.
func (v *View) SetExtracting() {
	v.extracting = true
	v.rebuildLines()
}

// Update handles messages for the preview view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		v.bar.SetWidth(msg.Width)
		v.rebuildLines()
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		if v.spinnerActive() {
			return v, cmd
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.TextExtracted:
		if !v.haveSnapshot || msg.Generation != v.snapshot.Generation {
			// Extraction outlived its request.
			return v, nil
		}
		v.extracting = false
		v.extracted = msg.Text
		v.extractErr = msg.Err
		v.extractedGen = msg.Generation
		v.rebuildLines()
		return v, nil

	case messages.DownloadCompleted:
		if msg.Err != nil {
			v.bar.SetState(status.StateError)
			v.bar.SetMessage(msg.Err.Error())
		} else {
			v.bar.SetState(status.StateNotice)
			v.bar.SetMessage(fmt.Sprintf("Saved to %s", msg.Path))
		}
		return v, nil

	case messages.OpenedExternally:
		if msg.Err != nil {
			v.bar.SetState(status.StateError)
			v.bar.SetMessage(msg.Err.Error())
		} else {
			v.bar.SetState(status.StateNotice)
			v.bar.SetMessage("Opened externally")
		}
		return v, nil

	case messages.ErrorOccurred:
		v.bar.SetState(status.StateError)
		v.bar.SetMessage(msg.Err.Error())
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses for scrolling and panel switching.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keys.Up):
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case keymap.Matches(keyStr, v.keys.Down):
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case keymap.Matches(keyStr, v.keys.PageUp):
		v.scrollOffset -= v.visibleLines()
		if v.scrollOffset < 0 {
			v.scrollOffset = 0
		}
	case keymap.Matches(keyStr, v.keys.PageDown):
		v.scrollOffset += v.visibleLines()
		if max := v.maxScrollOffset(); v.scrollOffset > max {
			v.scrollOffset = max
		}
	case keymap.Matches(keyStr, v.keys.Top):
		v.scrollOffset = 0
	case keymap.Matches(keyStr, v.keys.Bottom):
		v.scrollOffset = v.maxScrollOffset()
	case keymap.Matches(keyStr, v.keys.TogglePanel):
		if v.panel == messages.PanelOriginal {
			v.panel = messages.PanelIndexed
		} else {
			v.panel = messages.PanelOriginal
		}
		v.scrollOffset = 0
		v.rebuildLines()
	}

	return v, nil
}

// instruction returns the render instruction for the active panel.
func (v *View) instruction() domain.Instruction {
	if v.panel == messages.PanelIndexed {
		return domain.SelectIndexedRenderer(v.snapshot.Indexed)
	}
	return domain.SelectRenderer(v.snapshot.Category, v.snapshot.Original, v.snapshot.Resource)
}

// spinnerActive reports whether a spinner is visible and should keep ticking.
func (v *View) spinnerActive() bool {
	if !v.haveSnapshot {
		return true
	}
	return v.snapshot.Loading() || v.extracting
}

// rebuildLines recomputes the wrapped body for the active panel.
func (v *View) rebuildLines() {
	v.lines = nil
	if !v.haveSnapshot {
		return
	}

	inst := v.instruction()
	if inst.Kind == domain.RenderPDF && v.extracted != "" && v.extractedGen == v.snapshot.Generation {
		v.wrapText(v.extracted)
		return
	}
	if inst.Kind == domain.RenderText {
		v.wrapText(inst.Text)
		return
	}

	if max := v.maxScrollOffset(); v.scrollOffset > max {
		v.scrollOffset = max
	}
}

// wrapText wraps text to the view width.
func (v *View) wrapText(text string) {
	contentWidth := v.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	rawLines := strings.Split(text, "\n")
	v.lines = make([]string, 0, len(rawLines))

	for _, line := range rawLines {
		// Break on rune boundaries so a multibyte character at the
		// edge never splits into invalid UTF-8.
		runes := []rune(line)
		if len(runes) <= contentWidth {
			v.lines = append(v.lines, line)
			continue
		}
		for len(runes) > contentWidth {
			v.lines = append(v.lines, string(runes[:contentWidth]))
			runes = runes[contentWidth:]
		}
		if len(runes) > 0 {
			v.lines = append(v.lines, string(runes))
		}
	}

	if max := v.maxScrollOffset(); v.scrollOffset > max {
		v.scrollOffset = max
	}
}

// visibleLines returns the number of body lines that fit on screen.
func (v *View) visibleLines() int {
	// Title, separator, tabs, scroll indicator, status bar and spacing.
	reserved := 8
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	max := len(v.lines) - v.visibleLines()
	if max < 0 {
		max = 0
	}
	return max
}

// View renders the preview view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.renderHeader())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 72)))
	b.WriteString("\n")
	b.WriteString(v.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(v.renderBody())
	b.WriteString("\n")
	b.WriteString(v.bar.View())

	return b.String()
}

// renderHeader renders the file name with its category icon.
func (v *View) renderHeader() string {
	if !v.haveSnapshot {
		return v.styles.Title.Render("Preview")
	}
	name := v.snapshot.Request.FileName
	header := fmt.Sprintf("%s %s", v.snapshot.Category.Icon(), name)
	category := v.styles.Muted.Render(fmt.Sprintf("  (%s)", v.snapshot.Category))
	return v.styles.Title.Render(header) + category
}

// renderTabs renders the original/indexed panel tabs.
func (v *View) renderTabs() string {
	original := v.styles.Tab.Render("Original")
	indexed := v.styles.Tab.Render("Indexed")
	if v.panel == messages.PanelOriginal {
		original = v.styles.TabActive.Render("Original")
	} else {
		indexed = v.styles.TabActive.Render("Indexed")
	}
	return original + " " + indexed
}

// renderBody renders the active panel according to its instruction.
func (v *View) renderBody() string {
	if !v.haveSnapshot {
		return v.spin.View() + " " + v.styles.Muted.Render("Opening preview...")
	}

	inst := v.instruction()
	switch inst.Kind {
	case domain.RenderSpinner:
		return v.spin.View() + " " + v.styles.Muted.Render("Loading content...")

	case domain.RenderError:
		return v.styles.Error.Render(fmt.Sprintf("Error: %s", inst.Message))

	case domain.RenderPDF:
		return v.renderPDF()

	case domain.RenderImage:
		return v.renderBinaryPlaceholder("Image preview is not available in the terminal.")

	case domain.RenderDownload:
		return v.renderBinaryPlaceholder("This file type has no inline preview.")

	case domain.RenderText:
		return v.renderTextBody()

	case domain.RenderEmpty:
		if inst.Derived {
			return v.styles.Muted.Render("(No indexed content available)")
		}
		return v.styles.Muted.Render("(No content)")
	}

	return ""
}

// renderPDF renders extracted document text, extraction progress, or a
// download hint when no extractor is wired.
func (v *View) renderPDF() string {
	if v.extractErr != nil {
		return v.styles.Warning.Render("Could not extract text from this document.") +
			"\n\n" + v.downloadHint()
	}
	if v.extracted != "" && v.extractedGen == v.snapshot.Generation {
		return v.renderTextBody()
	}
	if v.extracting {
		return v.spin.View() + " " + v.styles.Muted.Render("Extracting text...")
	}
	return v.renderBinaryPlaceholder("Document preview is not available in the terminal.")
}

// renderBinaryPlaceholder renders file facts and actions for formats the
// terminal cannot display inline.
func (v *View) renderBinaryPlaceholder(reason string) string {
	var b strings.Builder
	b.WriteString(v.styles.Muted.Render(reason))
	b.WriteString("\n\n")

	if v.snapshot.Original.Status == domain.FetchReady {
		payload := v.snapshot.Original.Payload
		b.WriteString(v.styles.Normal.Render(fmt.Sprintf("  Type: %s", payload.MIMEType)))
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render(fmt.Sprintf("  Size: %s", formatSize(payload.Size))))
		b.WriteString("\n\n")
	}

	b.WriteString(v.downloadHint())
	return b.String()
}

// downloadHint renders the action hint for binary content.
func (v *View) downloadHint() string {
	return v.styles.Help.Render("[d] download  [o] open externally")
}

// renderTextBody renders the wrapped lines with a scroll indicator.
func (v *View) renderTextBody() string {
	if len(v.lines) == 0 {
		return v.styles.Muted.Render("(No content)")
	}

	var b strings.Builder
	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.styles.Normal.Render(v.lines[i]))
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		percentage := 0
		if v.maxScrollOffset() > 0 {
			percentage = v.scrollOffset * 100 / v.maxScrollOffset()
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
			percentage,
			v.scrollOffset+1,
			minInt(v.scrollOffset+visible, len(v.lines)),
			len(v.lines))))
		b.WriteString("\n")
	}

	return b.String()
}

// formatSize renders a byte count in a human-readable unit.
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.bar.SetWidth(width)
	v.rebuildLines()
}

// Snapshot returns the current snapshot.
func (v *View) Snapshot() driving.Snapshot {
	return v.snapshot
}

// Panel returns the active panel.
func (v *View) Panel() messages.PanelType {
	return v.panel
}

// ScrollOffset returns the current scroll offset.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Extracted returns the extracted document text.
func (v *View) Extracted() string {
	return v.extracted
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
