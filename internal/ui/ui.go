package ui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/okmusi/internal/auth"
	"github.com/desertthunder/okmusi/internal/catalog"
	"github.com/desertthunder/okmusi/internal/forms"
	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/session"
	"github.com/desertthunder/okmusi/internal/shared"
	"github.com/desertthunder/okmusi/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	SignupView
	DashboardView
	SearchView
)

func (v ViewState) String() string {
	switch v {
	case LoginView:
		return "login"
	case SignupView:
		return "signup"
	case DashboardView:
		return "dashboard"
	case SearchView:
		return "search"
	default:
		return "unknown"
	}
}

var (
	loginFields  = []string{forms.FieldEmail, forms.FieldPassword}
	signupFields = []string{forms.FieldName, forms.FieldEmail, forms.FieldPassword, forms.FieldConfirmPassword}
)

// termsIndex is the focus position of the signup terms checkbox, after the text inputs.
var termsIndex = len(signupFields)

// Options holds the TUI's dependencies.
type Options struct {
	Store   *session.Store
	Auth    *auth.Service
	Search  *tasks.SearchEngine
	Catalog *catalog.Catalog
	Logger  *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	ready   bool
	store   *session.Store
	auth    *auth.Service
	engine  *tasks.SearchEngine
	catalog *catalog.Catalog
	logger  *log.Logger

	user      *models.Session
	dashboard models.Dashboard

	login        forms.State[forms.LoginForm]
	signup       forms.State[forms.SignupForm]
	loginInputs  []textinput.Model
	signupInputs []textinput.Model
	focus        int

	query       textinput.Model
	results     list.Model
	listFocused bool
	search      tasks.SearchUpdate
	searchSeq   int
	searchTask  *tasks.Task[tasks.SearchUpdate]
	progress    chan tasks.SearchUpdate
	nowPlaying  *models.NowPlaying

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
	err     error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Search == nil {
		opts.Search = tasks.NewSearchEngine(opts.Catalog, 0)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	results := list.New(nil, list.NewDefaultDelegate(), 60, 16)
	results.SetFilteringEnabled(false)
	results.SetShowHelp(false)
	results.DisableQuitKeybindings()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.accent

	return &Model{
		ctx:     ctx,
		view:    LoginView,
		store:   opts.Store,
		auth:    opts.Auth,
		engine:  opts.Search,
		catalog: opts.Catalog,
		logger:  opts.Logger,
		loginInputs: []textinput.Model{
			newInput("you@example.com", false),
			newInput("Password", true),
		},
		signupInputs: []textinput.Model{
			newInput("Full name", false),
			newInput("you@example.com", false),
			newInput("Password (6+ characters)", true),
			newInput("Confirm password", true),
		},
		query:   newInput("Search songs, artists, albums...", false),
		results: results,
		search:  tasks.SearchUpdate{State: tasks.SearchIdle, Genres: catalog.PopularGenres()},
		spinner: sp,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 128
	ti.Width = 40
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

// CurrentView returns the view being shown.
func (m *Model) CurrentView() ViewState { return m.view }

// User returns the signed-in user, or nil.
func (m *Model) User() *models.Session { return m.user }

// Init applies the session gate.
func (m *Model) Init() tea.Cmd {
	return m.checkSession()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(max(msg.Width-4, 20), max(msg.Height-12, 6))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelSearch()
			return m, tea.Quit
		}
		if !m.ready {
			return m, nil
		}
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case SignupView:
			return m.handleSignupKeys(msg)
		case DashboardView:
			return m.handleDashboardKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		}

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionChecked:
		m.ready = true
		d := msg.data.(session.Decision)
		if d.Allowed() {
			m.enterDashboard(d.Session)
			return m, nil
		}
		m.logger.Debug("no session, showing login", "redirect", d.Redirect)
		return m, m.showForm(LoginView)

	case MsgAuthDone:
		res := msg.data.(authResult)
		if res.err != nil {
			m.logger.Warn("authentication failed", "view", m.view, "error", res.err)
			if m.view == SignupView {
				m.signup = m.signup.Fail(auth.Message(res.err))
			} else {
				m.login = m.login.Fail(auth.Message(res.err))
			}
			return m, nil
		}
		m.logger.Info("signed in", "id", res.user.ID, "email", res.user.Email)
		m.login = m.login.Done()
		m.signup = m.signup.Done()
		m.enterDashboard(res.user)
		return m, nil

	case MsgSearchUpdate:
		res := msg.data.(searchResult)
		if res.seq != m.searchSeq {
			return m, nil
		}
		m.search = res.update
		if res.update.State == tasks.SearchLoading {
			return m, tea.Batch(m.spinner.Tick, m.waitForSearch(res.seq, m.progress))
		}
		m.searchTask = nil
		m.results.SetItems(resultItems(res.update.Results))
		m.results.Select(0)
		m.results.Title = fmt.Sprintf("Results for %q", res.update.Query)
		if res.update.Err != nil {
			m.logger.Warn("search failed", "query", res.update.Query, "error", res.update.Err)
		}
		return m, nil

	case MsgLoggedOut:
		res := msg.data.(logoutResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.logger.Info("signed out", "redirect", res.redirect)
		m.reset()
		return m, m.showForm(LoginView)
	}
	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.Submitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.switchForm):
		return m, m.showForm(SignupView)
	case key.Matches(msg, m.keys.next):
		return m, m.moveFocus(len(loginFields), 1)
	case key.Matches(msg, m.keys.prev):
		return m, m.moveFocus(len(loginFields), -1)
	case key.Matches(msg, m.keys.submit):
		m.login = m.login.Submit()
		return m, tea.Batch(m.spinner.Tick, m.submitLogin(m.login.Form))
	}

	var cmd tea.Cmd
	before := m.loginInputs[m.focus].Value()
	m.loginInputs[m.focus], cmd = m.loginInputs[m.focus].Update(msg)
	if after := m.loginInputs[m.focus].Value(); after != before {
		m.login = m.login.Edit(loginFields[m.focus], after)
	}
	return m, cmd
}

func (m *Model) handleSignupKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.signup.Submitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.switchForm):
		return m, m.showForm(LoginView)
	case key.Matches(msg, m.keys.next):
		return m, m.moveFocus(termsIndex+1, 1)
	case key.Matches(msg, m.keys.prev):
		return m, m.moveFocus(termsIndex+1, -1)
	case key.Matches(msg, m.keys.submit):
		m.signup = m.signup.Submit()
		return m, tea.Batch(m.spinner.Tick, m.submitSignup(m.signup.Form))
	}

	if m.focus == termsIndex {
		if key.Matches(msg, m.keys.toggle) {
			m.signup = m.signup.Edit(forms.FieldAgreeToTerms, strconv.FormatBool(!m.signup.Form.AgreeToTerms))
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.signupInputs[m.focus].Value()
	m.signupInputs[m.focus], cmd = m.signupInputs[m.focus].Update(msg)
	if after := m.signupInputs[m.focus].Value(); after != before {
		m.signup = m.signup.Edit(signupFields[m.focus], after)
	}
	return m, cmd
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.view = SearchView
		m.listFocused = false
		m.results.SetItems(nil)
		m.search = tasks.SearchUpdate{State: tasks.SearchIdle, Genres: catalog.PopularGenres()}
		m.query.SetValue("")
		return m, m.query.Focus()
	case key.Matches(msg, m.keys.logout):
		return m, m.submitLogout()
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.cancelSearch()
		m.query.Blur()
		m.nowPlaying = nil
		m.view = DashboardView
		return m, nil
	case key.Matches(msg, m.keys.pane):
		if m.listFocused || len(m.results.Items()) == 0 {
			m.listFocused = false
			return m, m.query.Focus()
		}
		m.listFocused = true
		m.query.Blur()
		return m, nil
	case key.Matches(msg, m.keys.submit):
		if m.listFocused {
			m.play(m.results.SelectedItem())
			return m, nil
		}
		return m, m.startSearch(m.query.Value())
	}

	var cmd tea.Cmd
	if m.listFocused {
		m.results, cmd = m.results.Update(msg)
	} else {
		m.query, cmd = m.query.Update(msg)
	}
	return m, cmd
}

// play hands a selected song to the player. Artists and albums have no player hand-off.
func (m *Model) play(item list.Item) {
	s, ok := item.(songItem)
	if !ok {
		return
	}
	m.nowPlaying = &models.NowPlaying{Track: s.song.ID, Title: s.song.Title, Artist: s.song.Artist}
	m.logger.Info("now playing", "path", catalog.PlayerPath(s.song))
}

func (m *Model) busy() bool {
	return m.login.Submitting || m.signup.Submitting || m.search.State == tasks.SearchLoading
}

// showForm switches to a form view with its first field focused.
func (m *Model) showForm(v ViewState) tea.Cmd {
	m.view = v
	m.focus = 0
	return m.applyFocus()
}

// moveFocus cycles focus over count positions.
func (m *Model) moveFocus(count, delta int) tea.Cmd {
	m.focus = (m.focus + delta + count) % count
	return m.applyFocus()
}

func (m *Model) applyFocus() tea.Cmd {
	inputs := m.loginInputs
	if m.view == SignupView {
		inputs = m.signupInputs
	}

	var cmd tea.Cmd
	for i := range inputs {
		if i == m.focus {
			cmd = inputs[i].Focus()
		} else {
			inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) enterDashboard(user *models.Session) {
	m.user = user
	m.dashboard = m.catalog.Dashboard(*user)
	m.view = DashboardView
	m.err = nil
	for i := range m.loginInputs {
		m.loginInputs[i].Blur()
	}
	for i := range m.signupInputs {
		m.signupInputs[i].Blur()
	}
}

// reset clears every per-user value after logout.
func (m *Model) reset() {
	m.cancelSearch()
	m.user = nil
	m.dashboard = models.Dashboard{}
	m.login = forms.State[forms.LoginForm]{}
	m.signup = forms.State[forms.SignupForm]{}
	for i := range m.loginInputs {
		m.loginInputs[i].Reset()
	}
	for i := range m.signupInputs {
		m.signupInputs[i].Reset()
	}
	m.query.Reset()
	m.results.SetItems(nil)
	m.nowPlaying = nil
	m.err = nil
}

func (m *Model) checkSession() tea.Cmd {
	return func() tea.Msg {
		return sessionCheckedMsg(session.Enter(m.ctx, m.store))
	}
}

func (m *Model) submitLogin(form forms.LoginForm) tea.Cmd {
	return func() tea.Msg {
		user, err := m.auth.Login(m.ctx, m.store, form)
		return authDoneMsg(user, err)
	}
}

func (m *Model) submitSignup(form forms.SignupForm) tea.Cmd {
	return func() tea.Msg {
		user, err := m.auth.Signup(m.ctx, m.store, form)
		return authDoneMsg(user, err)
	}
}

func (m *Model) submitLogout() tea.Cmd {
	return func() tea.Msg {
		redirect, err := session.Logout(m.ctx, m.store)
		return loggedOutMsg(redirect, err)
	}
}

// startSearch cancels any search in flight and starts a new one.
func (m *Model) startSearch(query string) tea.Cmd {
	m.cancelSearch()
	m.searchSeq++
	m.nowPlaying = nil
	m.listFocused = false

	m.progress = make(chan tasks.SearchUpdate, 4)
	m.searchTask = m.engine.Start(m.ctx, query, m.progress)
	return m.waitForSearch(m.searchSeq, m.progress)
}

func (m *Model) cancelSearch() {
	if m.searchTask != nil {
		m.searchTask.Cancel()
		m.searchTask = nil
	}
}

// waitForSearch reads the next state of search seq. Every search reports a finished state, so the read returns.
func (m *Model) waitForSearch(seq int, progress <-chan tasks.SearchUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-progress
		if !ok {
			return nil
		}
		return searchUpdateMsg(seq, update)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if !m.ready {
		return styles.help.Render("Loading...")
	}

	var body string
	switch m.view {
	case LoginView:
		body = m.renderLogin()
	case SignupView:
		body = m.renderSignup()
	case DashboardView:
		body = m.renderDashboard()
	case SearchView:
		body = m.renderSearch()
	}

	if m.err != nil {
		body = styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + body
	}
	return body
}

func (m *Model) renderLogin() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("OKmusi · Welcome back"))
	b.WriteString("\n")
	for i, in := range m.loginInputs {
		fmt.Fprintf(&b, "%s\n%s\n\n", styles.label.Render(fieldLabel(loginFields[i])), in.View())
	}
	b.WriteString(m.formStatus(m.login.Submitting, m.login.Message, "Signing in..."))

	helpKeys := []key.Binding{m.keys.next, m.keys.submit, m.keys.switchForm}
	return b.String() + "\n" + m.help.ShortHelpView(helpKeys)
}

func (m *Model) renderSignup() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("OKmusi · Create account"))
	b.WriteString("\n")
	for i, in := range m.signupInputs {
		fmt.Fprintf(&b, "%s\n%s\n\n", styles.label.Render(fieldLabel(signupFields[i])), in.View())
	}

	box := "[ ]"
	if m.signup.Form.AgreeToTerms {
		box = "[x]"
	}
	terms := fmt.Sprintf("%s I agree to the terms and conditions", box)
	if m.focus == termsIndex {
		terms = styles.accent.Render(terms)
	}
	b.WriteString(terms + "\n\n")
	b.WriteString(m.formStatus(m.signup.Submitting, m.signup.Message, "Creating account..."))

	helpKeys := []key.Binding{m.keys.next, m.keys.toggle, m.keys.submit, m.keys.switchForm}
	return b.String() + "\n" + m.help.ShortHelpView(helpKeys)
}

func (m *Model) formStatus(submitting bool, message, pending string) string {
	switch {
	case submitting:
		return m.spinner.View() + " " + pending + "\n"
	case message != "":
		return styles.err.Render(message) + "\n"
	}
	return ""
}

func fieldLabel(field string) string {
	switch field {
	case forms.FieldName:
		return "Name"
	case forms.FieldEmail:
		return "Email"
	case forms.FieldPassword:
		return "Password"
	case forms.FieldConfirmPassword:
		return "Confirm password"
	}
	return field
}

func (m *Model) renderDashboard() string {
	var b strings.Builder
	d := m.dashboard

	avatar := styles.avatar.Render(shared.Initial(d.User.Name))
	fmt.Fprintf(&b, "%s %s\n", avatar, styles.title.Render(fmt.Sprintf("Welcome back, %s!", d.User.Name)))
	b.WriteString(styles.help.Render(d.User.Email) + "\n")

	b.WriteString(styles.section.Render("Recently Played") + "\n")
	for i, s := range d.RecentlyPlayed {
		fmt.Fprintf(&b, "  %d. %s - %s  %s\n", i+1, s.Title, s.Artist, styles.help.Render(s.Duration))
	}

	b.WriteString(styles.section.Render("Recommended for You") + "\n")
	for _, s := range d.Recommended {
		fmt.Fprintf(&b, "  ♪ %s - %s  %s\n", s.Title, s.Artist, styles.help.Render(s.Duration))
	}

	b.WriteString(styles.section.Render("Your Playlists") + "\n")
	for _, p := range d.Playlists {
		fmt.Fprintf(&b, "  %s · %d songs · %s\n", styles.accent.Render(p.Name), p.SongCount, p.Description)
	}

	helpKeys := []key.Binding{m.keys.search, m.keys.logout, m.keys.quit}
	return b.String() + "\n" + m.help.ShortHelpView(helpKeys)
}

func (m *Model) renderSearch() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Search"))
	b.WriteString("\n" + m.query.View() + "\n\n")

	switch m.search.State {
	case tasks.SearchIdle:
		b.WriteString(styles.section.Render("Browse popular genres") + "\n")
		b.WriteString("  " + strings.Join(m.search.Genres, " · ") + "\n")
	case tasks.SearchLoading:
		b.WriteString(m.spinner.View() + " Searching...\n")
	case tasks.SearchEmpty:
		b.WriteString(styles.warn.Render(fmt.Sprintf("No results found for %q", m.search.Query)) + "\n")
		b.WriteString(styles.help.Render("Try searching for something else") + "\n")
	case tasks.SearchError:
		b.WriteString(styles.err.Render(auth.Message(m.search.Err)) + "\n")
	case tasks.SearchResults:
		r := m.search.Results
		fmt.Fprintf(&b, "%d results: %d songs · %d artists · %d albums\n\n", r.Total(), len(r.Songs), len(r.Artists), len(r.Albums))
		b.WriteString(m.results.View() + "\n")
	}

	if m.nowPlaying != nil {
		b.WriteString("\n" + styles.ok.Render(fmt.Sprintf("Now playing: %s - %s", m.nowPlaying.Title, m.nowPlaying.Artist)) + "\n")
	}

	helpKeys := []key.Binding{m.keys.submit, m.keys.pane, m.keys.back}
	return b.String() + "\n" + m.help.ShortHelpView(helpKeys)
}
