package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/notekeeper/internal/client/services"
	"github.com/stretchr/testify/require"
)

type stubExec struct {
	loggedIn bool
	email    string
	calls    []string
	errs     map[string]error
}

func (s *stubExec) record(name string, args ...string) error {
	if len(args) > 0 {
		name = fmt.Sprintf("%s(%s)", name, strings.Join(args, ","))
	}
	s.calls = append(s.calls, name)
	return s.errs[name]
}

func (s *stubExec) isLoggedIn(context.Context) bool { return s.loggedIn }
func (s *stubExec) status(context.Context) string   { return s.email }

func (s *stubExec) Register(context.Context) error       { return s.record("register") }
func (s *stubExec) Login(context.Context) error          { return s.record("login") }
func (s *stubExec) Logout(context.Context) error         { return s.record("logout") }
func (s *stubExec) ForgotPassword(context.Context) error { return s.record("forgot") }
func (s *stubExec) ResetPassword(context.Context) error  { return s.record("reset") }
func (s *stubExec) Me(context.Context) error             { return s.record("me") }
func (s *stubExec) AddNote(context.Context) error        { return s.record("add") }
func (s *stubExec) Categories(context.Context) error     { return s.record("categories") }
func (s *stubExec) Export(context.Context) error         { return s.record("export") }

func (s *stubExec) List(_ context.Context, args []string) error {
	return s.record("list", args...)
}
func (s *stubExec) Search(_ context.Context, args []string) error {
	return s.record("search", args...)
}
func (s *stubExec) Show(_ context.Context, args []string) error {
	return s.record("show", args...)
}
func (s *stubExec) Edit(_ context.Context, args []string) error {
	return s.record("edit", args...)
}
func (s *stubExec) Delete(_ context.Context, args []string) error {
	return s.record("delete", args...)
}

func TestRunREPL_Dispatch(t *testing.T) {
	input := strings.Join([]string{
		"register", "login", "forgot", "reset", "me",
		"add", "l", "list work", "search foo bar", "show 1", "edit 2", "delete 3",
		"categories", "export", "logout", "", "exit", "me",
	}, "\n") + "\n"

	ex := &stubExec{}
	var out bytes.Buffer
	runREPL(context.Background(), ex, rdr(input), &out)

	require.Equal(t, []string{
		"register", "login", "forgot", "reset", "me",
		"add", "list", "list(work)", "search(foo,bar)", "show(1)", "edit(2)", "delete(3)",
		"categories", "export", "logout",
	}, ex.calls)
	require.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_PromptAndHelp(t *testing.T) {
	ex := &stubExec{}
	var out bytes.Buffer
	runREPL(context.Background(), ex, rdr("help\n"), &out)
	require.Contains(t, out.String(), "nk> ")
	require.Contains(t, out.String(), helpLoggedOut)

	ex = &stubExec{loggedIn: true, email: "a@b.c"}
	out.Reset()
	runREPL(context.Background(), ex, rdr("help\n"), &out)
	require.Contains(t, out.String(), "nk (a@b.c)> ")
	require.Contains(t, out.String(), helpLoggedIn)
}

func TestRunREPL_UnknownCommand(t *testing.T) {
	var out bytes.Buffer
	runREPL(context.Background(), &stubExec{}, rdr("frobnicate\n"), &out)
	require.Contains(t, out.String(), "Unknown command: frobnicate")
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	ex := &stubExec{errs: map[string]error{
		"me":         services.ErrNotLoggedIn,
		"categories": fmt.Errorf("wrapped: %w", services.ErrSessionExpired),
		"export":     errors.New("boom"),
	}}
	var out bytes.Buffer
	runREPL(context.Background(), ex, rdr("me\ncategories\nexport\nlogout\n"), &out)

	got := out.String()
	require.Contains(t, got, "You are not logged in")
	require.Contains(t, got, "Your session has expired")
	require.Contains(t, got, "Error: boom")
	require.Equal(t, []string{"me", "categories", "export", "logout"}, ex.calls)
}
