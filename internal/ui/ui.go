package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/albumctl/internal/models"
	"github.com/desertthunder/albumctl/internal/services"
	"github.com/desertthunder/albumctl/internal/shared"
	"github.com/desertthunder/albumctl/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CollectionsView ViewState = iota
	AlbumsView
	ModalView
	ConfirmView
	MoveTargetView
	DevicesView
	SearchView
)

// ModelOpts configures a [Model].
type ModelOpts struct {
	Backend  services.Backend
	Recorder tasks.ActivityRecorder
	Search   tasks.SearchOpts
	Logger   *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	backend  services.Backend
	recorder tasks.ActivityRecorder
	logger   *log.Logger
	width    int
	height   int

	collectionList list.Model
	listReady      bool
	collections    []models.CollectionSummary

	page     *tasks.CollectionPage
	reorder  *tasks.ReorderController
	playback *tasks.PlaybackController
	control  *tasks.AlbumControl
	cursor   int
	grabbed  string

	targets      []models.CollectionSummary
	targetCursor int
	devices      []models.Device
	deviceCursor int

	search       *tasks.SearchController
	searchInput  textinput.Model
	searchState  tasks.SearchState
	searchCursor int

	progressChan chan tasks.ProgressUpdate
	loading      string
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	input := textinput.New()
	input.Placeholder = "Search music or paste a link"
	input.CharLimit = 256

	m := &Model{
		ctx:          ctx,
		view:         CollectionsView,
		backend:      opts.Backend,
		recorder:     opts.Recorder,
		logger:       logger,
		searchInput:  input,
		progressChan: make(chan tasks.ProgressUpdate, 16),
		help:         help.New(),
		keys:         newKeyMap(),
	}
	searchOpts := opts.Search
	if searchOpts.Recorder == nil {
		searchOpts.Recorder = opts.Recorder
	}
	if searchOpts.Logger == nil {
		searchOpts.Logger = logger
	}
	m.search = tasks.NewSearchController(ctx, opts.Backend, searchOpts)
	m.searchState = m.search.State()
	return m
}

// Init fetches the collection index and starts listening for progress and search updates.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCollections(), m.waitForProgress(), m.waitForSearch())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.collectionList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CollectionsView:
			return m.handleCollectionKeys(msg)
		case AlbumsView:
			return m.handleAlbumKeys(msg)
		case ModalView:
			return m.handleModalKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case MoveTargetView:
			return m.handleMoveTargetKeys(msg)
		case DevicesView:
			return m.handleDeviceKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	if m.view == CollectionsView && m.listReady {
		var cmd tea.Cmd
		m.collectionList, cmd = m.collectionList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgCollectionsFetched:
		res := msg.data.(collectionsResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.err = nil
		m.collections = res.collections
		items := make([]list.Item, len(res.collections))
		for i, c := range res.collections {
			items[i] = collectionItem{collection: c}
		}
		m.collectionList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.collectionList.Title = "Collections"
		m.collectionList.SetSize(m.width-4, m.height-8)
		m.listReady = true
		return m, nil

	case MsgCollectionLoaded:
		res := msg.data.(pageResult)
		if res.err != nil {
			m.fail(res.err)
			return m, nil
		}
		m.openPage(res.page)
		return m, nil

	case MsgReorderSettled:
		res := msg.data.(albumResult)
		if res.err != nil {
			m.fail(fmt.Errorf("could not move %s: %w", res.album.Name, res.err))
		}
		return m, nil

	case MsgRemoved:
		res := msg.data.(albumResult)
		if res.err != nil {
			m.fail(res.err)
			m.view = ModalView
			return m, nil
		}
		m.status = fmt.Sprintf("Removed %s", res.album.Name)
		m.closeModal()
		return m, nil

	case MsgMoved:
		res := msg.data.(albumResult)
		if res.err != nil {
			m.fail(res.err)
			m.view = ModalView
			return m, nil
		}
		m.status = fmt.Sprintf("Moved %s", res.album.Name)
		m.closeModal()
		return m, nil

	case MsgDevicesFetched:
		res := msg.data.(devicesResult)
		if res.err != nil {
			m.fail(res.err)
			m.view = AlbumsView
			return m, nil
		}
		m.devices = res.devices
		m.deviceCursor = 0
		m.view = DevicesView
		return m, nil

	case MsgPlayed:
		if err, _ := msg.data.(error); err != nil {
			m.fail(err)
		} else {
			m.status = "Playback started"
		}
		m.view = AlbumsView
		return m, nil

	case MsgSearchState:
		m.searchState = msg.data.(tasks.SearchState)
		m.searchCursor = min(m.searchCursor, max(len(m.searchState.Results)-1, 0))
		return m, m.waitForSearch()

	case MsgProgressUpdate:
		update := msg.data.(tasks.ProgressUpdate)
		if update.Done() {
			m.loading = ""
		} else {
			m.loading = update.Message
		}
		return m, m.waitForProgress()
	}
	return m, nil
}

// fail shows err on the status line without leaving the current view.
func (m *Model) fail(err error) {
	m.status = ""
	m.err = err
}

func (m *Model) clearStatus() {
	m.status = ""
	m.err = nil
}

func (m *Model) openPage(page *tasks.CollectionPage) {
	m.page = page
	m.reorder = tasks.NewReorderController(page, m.backend, m.recorder, m.logger)
	m.playback = tasks.NewPlaybackController(page.ID(), m.backend, m.recorder, m.logger)
	selection := &tasks.Selection{}
	// The confirm view asks before the action runs.
	remove := tasks.NewRemoveAction(page, m.backend, tasks.AlwaysConfirm, selection, m.recorder, m.logger)
	m.control = tasks.NewAlbumControl(tasks.AlbumControlOpts{
		Page:      page,
		Selection: selection,
		Remove:    remove,
		Playback:  m.playback,
		Mover:     m.backend,
		Recorder:  m.recorder,
		Logger:    m.logger,
	})
	m.cursor = 0
	m.grabbed = ""
	m.view = AlbumsView
}

func (m *Model) closeModal() {
	m.control.Close()
	m.view = AlbumsView
	m.cursor = min(m.cursor, max(len(m.page.Albums())-1, 0))
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case CollectionsView:
		body = m.renderCollections()
	case AlbumsView:
		body = m.renderAlbums()
	case ModalView:
		body = m.renderModal()
	case ConfirmView:
		body = m.renderConfirm()
	case MoveTargetView:
		body = m.renderMoveTargets()
	case DevicesView:
		body = m.renderDevices()
	case SearchView:
		body = m.renderSearch()
	}
	return body + m.renderStatus()
}

func (m *Model) handleCollectionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.listReady {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}
	if m.collectionList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.collectionList, cmd = m.collectionList.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		return m.openSearch()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.collectionList.SelectedItem().(collectionItem); ok {
			m.clearStatus()
			return m, m.loadCollection(item.collection.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.collectionList, cmd = m.collectionList.Update(msg)
	return m, cmd
}

func (m *Model) handleAlbumKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	albums := m.page.Albums()
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		if m.grabbed != "" {
			m.grabbed = ""
			return m, nil
		}
		m.page = nil
		m.view = CollectionsView
		return m, nil
	case key.Matches(msg, m.keys.up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, m.keys.down):
		m.cursor = min(m.cursor+1, max(len(albums)-1, 0))
	case key.Matches(msg, m.keys.reorder):
		m.grabbed = ""
		m.page.ToggleReorderMode()
	case key.Matches(msg, m.keys.grab):
		return m.grabOrDrop(albums)
	case key.Matches(msg, m.keys.enter):
		if m.cursor >= len(albums) {
			return m, nil
		}
		if _, err := m.control.Open(albums[m.cursor].ID); err != nil {
			m.fail(err)
			return m, nil
		}
		m.clearStatus()
		m.view = ModalView
	case key.Matches(msg, m.keys.play):
		m.playback.SelectInOrder()
		return m, m.fetchDevices()
	case key.Matches(msg, m.keys.shuffle):
		m.playback.SelectShuffle()
		return m, m.fetchDevices()
	case key.Matches(msg, m.keys.search):
		return m.openSearch()
	}
	return m, nil
}

// grabOrDrop picks up the album under the cursor, or drops the held album at the cursor.
func (m *Model) grabOrDrop(albums []models.Album) (tea.Model, tea.Cmd) {
	if m.cursor >= len(albums) {
		return m, nil
	}
	if m.grabbed == "" {
		a := albums[m.cursor]
		switch {
		case !m.page.ReorderMode():
			m.fail(shared.ErrReorderModeOff)
		case !a.Complete:
			m.fail(fmt.Errorf("%s: %w", a.Name, shared.ErrIncompleteAlbum))
		default:
			m.clearStatus()
			m.grabbed = a.ID
		}
		return m, nil
	}

	id := m.grabbed
	m.grabbed = ""
	pending, err := m.reorder.Begin(id, m.cursor)
	if err != nil {
		m.fail(err)
		return m, nil
	}
	if pending == nil {
		return m, nil
	}
	album, _ := m.page.Album(id)
	ctx := m.ctx
	return m, func() tea.Msg {
		return reorderSettledMsg(album, pending.Submit(ctx))
	}
}

func (m *Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.closeModal()
	case key.Matches(msg, m.keys.remove):
		m.view = ConfirmView
	case key.Matches(msg, m.keys.move):
		m.targets = m.moveTargets()
		m.targetCursor = 0
		m.view = MoveTargetView
	case key.Matches(msg, m.keys.play):
		if _, err := m.control.PlayFromHere(); err != nil {
			m.fail(err)
			return m, nil
		}
		m.control.Close()
		return m, m.fetchDevices()
	case key.Matches(msg, m.keys.open):
		link, err := m.control.Link()
		if err == nil {
			err = shared.OpenBrowser(link)
		}
		if err != nil {
			m.fail(err)
		}
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		album, err := m.control.Target()
		if err != nil {
			m.fail(err)
			m.view = AlbumsView
			return m, nil
		}
		return m, m.removeAlbum(album)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = ModalView
	}
	return m, nil
}

func (m *Model) handleMoveTargetKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = ModalView
	case key.Matches(msg, m.keys.up):
		m.targetCursor = max(m.targetCursor-1, 0)
	case key.Matches(msg, m.keys.down):
		m.targetCursor = min(m.targetCursor+1, max(len(m.targets)-1, 0))
	case key.Matches(msg, m.keys.enter):
		if m.targetCursor >= len(m.targets) {
			return m, nil
		}
		album, err := m.control.Target()
		if err != nil {
			m.fail(err)
			return m, nil
		}
		return m, m.moveAlbum(album, m.targets[m.targetCursor].ID)
	}
	return m, nil
}

func (m *Model) handleDeviceKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = AlbumsView
	case key.Matches(msg, m.keys.up):
		m.deviceCursor = max(m.deviceCursor-1, 0)
	case key.Matches(msg, m.keys.down):
		m.deviceCursor = min(m.deviceCursor+1, max(len(m.devices)-1, 0))
	case key.Matches(msg, m.keys.enter):
		if m.deviceCursor < len(m.devices) {
			return m, m.play(m.devices[m.deviceCursor].ID)
		}
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.Blur()
		if m.page != nil {
			m.view = AlbumsView
		} else {
			m.view = CollectionsView
		}
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "up":
		m.searchCursor = max(m.searchCursor-1, 0)
		return m, nil
	case "down":
		m.searchCursor = min(m.searchCursor+1, max(len(m.searchState.Results)-1, 0))
		return m, nil
	case "tab":
		if m.searchState.MediaType == models.MediaTrack {
			m.search.SetMediaType(models.MediaAlbum)
		} else {
			m.search.SetMediaType(models.MediaTrack)
		}
		m.searchState = m.search.State()
		return m, nil
	case "enter":
		picked, err := m.search.Pick(m.searchCursor)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		m.searchState = m.search.State()
		m.searchInput.SetValue(picked.Link)
		m.searchCursor = 0
		if err := clipboard.WriteAll(picked.Link); err != nil {
			m.logger.Debug("clipboard unavailable", "error", err)
			m.status = fmt.Sprintf("Picked %s", picked.Name)
		} else {
			m.status = fmt.Sprintf("Copied %s", picked.Link)
		}
		m.err = nil
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != before {
		m.search.Input(value)
	}
	return m, cmd
}

func (m *Model) openSearch() (tea.Model, tea.Cmd) {
	m.view = SearchView
	m.clearStatus()
	return m, m.searchInput.Focus()
}

// moveTargets lists every collection except the open one.
func (m *Model) moveTargets() []models.CollectionSummary {
	targets := make([]models.CollectionSummary, 0, len(m.collections))
	for _, c := range m.collections {
		if c.ID != m.page.ID() {
			targets = append(targets, c)
		}
	}
	return targets
}

func (m *Model) fetchCollections() tea.Cmd {
	return func() tea.Msg {
		collections, err := m.backend.Collections(m.ctx)
		return collectionsFetchedMsg(collections, err)
	}
}

func (m *Model) loadCollection(id string) tea.Cmd {
	ctx, backend, progress := m.ctx, m.backend, m.progressChan
	return func() tea.Msg {
		page, err := tasks.LoadPage(ctx, progress, backend, id)
		return collectionLoadedMsg(page, err)
	}
}

func (m *Model) removeAlbum(album models.Album) tea.Cmd {
	ctx, control, progress := m.ctx, m.control, m.progressChan
	return func() tea.Msg {
		return removedMsg(album, control.Remove(ctx, progress))
	}
}

func (m *Model) moveAlbum(album models.Album, destID string) tea.Cmd {
	ctx, control, progress := m.ctx, m.control, m.progressChan
	return func() tea.Msg {
		return movedMsg(album, control.MoveTo(ctx, progress, destID))
	}
}

func (m *Model) fetchDevices() tea.Cmd {
	ctx, playback, progress := m.ctx, m.playback, m.progressChan
	return func() tea.Msg {
		devices, err := playback.Devices(ctx, progress)
		return devicesFetchedMsg(devices, err)
	}
}

func (m *Model) play(deviceID string) tea.Cmd {
	ctx, playback, progress := m.ctx, m.playback, m.progressChan
	return func() tea.Msg {
		return playedMsg(playback.Play(ctx, progress, deviceID))
	}
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	return func() tea.Msg {
		return progressUpdateMsg(<-progress)
	}
}

func (m *Model) waitForSearch() tea.Cmd {
	updates := m.search.Updates()
	return func() tea.Msg {
		return searchStateMsg(<-updates)
	}
}

func (m *Model) renderCollections() string {
	if !m.listReady {
		return "Loading collections..."
	}
	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.collectionList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderAlbums() string {
	var b strings.Builder
	title := m.page.Name()
	if m.page.ReorderMode() {
		title += " (reorder mode)"
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	albums := m.page.Albums()
	affordances := m.page.Affordances()
	if len(albums) == 0 {
		b.WriteString(styles.help.Render("No albums in this collection."))
		b.WriteString("\n")
	}
	for i, a := range albums {
		b.WriteString(renderAlbumRow(a, affordances[i], m.page.State(a.ID), i == m.cursor, a.ID == m.grabbed))
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.reorder}
	if m.page.ReorderMode() {
		helpKeys = append(helpKeys, m.keys.grab)
	}
	helpKeys = append(helpKeys, m.keys.play, m.keys.shuffle, m.keys.search, m.keys.back, m.keys.quit)
	return fmt.Sprintf("%s\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func renderAlbumRow(a models.Album, aff tasks.Affordance, state models.ItemState, current, grabbed bool) string {
	marker := "  "
	switch {
	case grabbed:
		marker = "▶ "
	case current:
		marker = "> "
	}
	handle := ""
	if aff.ShowOverlay {
		handle = "≡ "
	} else if aff.Cursor == tasks.CursorNotAllowed {
		handle = "⊘ "
	}
	line := fmt.Sprintf("%s%s%s - %s", marker, handle, a.Name, a.Artists)
	if !a.Complete {
		line += " (incomplete)"
	}
	if state != models.StateIdle {
		line += " [" + state.String() + "]"
	}

	switch {
	case state != models.StateIdle:
		return styles.state(state).Render(line)
	case aff.Dimmed:
		return styles.help.Render(line)
	case current || grabbed:
		return styles.selected.Render(line)
	default:
		return line
	}
}

func (m *Model) renderModal() string {
	album, err := m.control.Target()
	if err != nil {
		return styles.err.Render(err.Error())
	}
	title := styles.title.Render(album.Name)
	info := fmt.Sprintf("Artists: %s\nLink: %s\n", album.Artists, album.Link)
	if !album.Complete {
		info += styles.warn.Render("Some tracks are missing from your library.") + "\n"
	}
	helpKeys := []key.Binding{m.keys.remove, m.keys.move, m.keys.play, m.keys.open, m.keys.back}
	return fmt.Sprintf("%s\n%s\n%s", title, info, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	album, err := m.control.Target()
	if err != nil {
		return styles.err.Render(err.Error())
	}
	title := styles.title.Render(tasks.RemovePrompt(album.Name))
	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s", title, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderMoveTargets() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Move to collection"))
	b.WriteString("\n")
	if len(m.targets) == 0 {
		b.WriteString(styles.help.Render("No other collections."))
		b.WriteString("\n")
	}
	for i, c := range m.targets {
		b.WriteString(renderChoice(c.Name, i == m.targetCursor))
	}
	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.back}
	return fmt.Sprintf("%s\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDevices() string {
	var b strings.Builder
	mode, _ := m.playback.Mode()
	b.WriteString(styles.title.Render(fmt.Sprintf("Play (%s) on", mode)))
	b.WriteString("\n")
	for i, d := range m.devices {
		b.WriteString(renderChoice(d.Name, i == m.deviceCursor))
	}
	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.enter, m.keys.back}
	return fmt.Sprintf("%s\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func renderChoice(label string, current bool) string {
	if current {
		return styles.selected.Render("> "+label) + "\n"
	}
	return "  " + label + "\n"
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Search %ss", m.searchState.MediaType)))
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	switch m.searchState.Panel {
	case tasks.PanelInvalidLink:
		b.WriteString(styles.warn.Render("That link is not a valid album or track link."))
		b.WriteString("\n")
	case tasks.PanelNoResults:
		b.WriteString(styles.help.Render("No results."))
		b.WriteString("\n")
	case tasks.PanelResults:
		for i, r := range m.searchState.Results {
			b.WriteString(renderChoice(r.Name, i == m.searchCursor))
		}
	}

	helpKeys := []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "move")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick")),
		m.keys.media,
		m.keys.back,
	}
	return fmt.Sprintf("%s\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

// renderStatus shows the loading line, the last error or the last confirmation.
func (m *Model) renderStatus() string {
	var lines []string
	if m.loading != "" {
		lines = append(lines, styles.warn.Render(m.loading))
	}
	if m.err != nil {
		lines = append(lines, styles.err.Render(statusText(m.err)))
	} else if m.status != "" {
		lines = append(lines, styles.ok.Render(m.status))
	}
	if m.view == SearchView && m.searchState.Err != nil {
		lines = append(lines, styles.err.Render(statusText(m.searchState.Err)))
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n\n" + strings.Join(lines, "\n")
}

// statusText prefers the server's own message for application failures.
func statusText(err error) string {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) || errors.Is(err, shared.ErrTransport) {
		return services.UserMessage(err)
	}
	return err.Error()
}
