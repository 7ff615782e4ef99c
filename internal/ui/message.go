package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/session"
	"github.com/desertthunder/okmusi/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSessionChecked MsgKind = iota
	MsgAuthDone
	MsgSearchUpdate
	MsgLoggedOut
)

type authResult struct {
	user *models.Session
	err  error
}

type searchResult struct {
	seq    int
	update tasks.SearchUpdate
}

type logoutResult struct {
	redirect string
	err      error
}

// sessionCheckedMsg is the constructor for [MsgSessionChecked]
func sessionCheckedMsg(d session.Decision) Msg {
	return Msg{kind: MsgSessionChecked, data: d}
}

// authDoneMsg is the constructor for [MsgAuthDone]
func authDoneMsg(user *models.Session, err error) Msg {
	return Msg{kind: MsgAuthDone, data: authResult{user, err}}
}

// searchUpdateMsg is the constructor for [MsgSearchUpdate]
func searchUpdateMsg(seq int, update tasks.SearchUpdate) Msg {
	return Msg{kind: MsgSearchUpdate, data: searchResult{seq, update}}
}

// loggedOutMsg is the constructor for [MsgLoggedOut]
func loggedOutMsg(redirect string, err error) Msg {
	return Msg{kind: MsgLoggedOut, data: logoutResult{redirect, err}}
}
