package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/session"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
	"github.com/dmitrijs2005/notekeeper/internal/netx"
)

// getSimpleText, getPassword, getMultiline and download are indirections
// used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
	download      = netx.Download
)

type App struct {
	config      *config.Config
	db          *sql.DB
	authService services.AuthService
	noteService services.NoteService
	exportDir   string
	reader      *bufio.Reader
	out         io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient, err := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	as := services.NewAuthService(apiClient, session.NewSQLiteRepository(db))
	ns := services.NewNoteService(apiClient, as)

	return &App{
		config:      c,
		db:          db,
		authService: as,
		noteService: ns,
		exportDir:   c.ExportDir,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	fmt.Fprintln(a.out, "Welcome to notekeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.reader, a.out)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, err := a.authService.Session(ctx)
	return err == nil
}

// status is shown in the prompt: the logged-in email, if any.
func (a *App) status(ctx context.Context) string {
	s, err := a.authService.Session(ctx)
	if err != nil {
		return ""
	}
	return s.Email
}
