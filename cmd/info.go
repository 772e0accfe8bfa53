package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aurabank/aura/internal/app"
	"github.com/aurabank/aura/internal/ui"
	"github.com/aurabank/aura/internal/ui/views"
)

type infoRunner struct {
	app *app.App
}

func NewInfoCmd(application *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show configuration and device state",
		Long:  `Show the active configuration, data locations and device enrollment state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{app: application}
			return runner.Run()
		},
	}

	return cmd
}

func (r *infoRunner) Run() error {
	ui.PrintTitle("Aura Client Info")

	appDir, err := getAppDataDir()
	if err != nil {
		return err
	}

	dbPath := r.app.Config.Database.Path
	if dbPath == "" {
		dbPath = appDir + string(os.PathSeparator) + "aura.db"
	}
	_, statErr := os.Stat(dbPath)

	_, loggedIn := r.app.Session.Current()
	registered, err := r.app.Store.IdentityExists()
	if err != nil {
		return err
	}

	return views.RenderSystemInfo(views.SystemInfoItem{
		ConfigPath:  r.app.Config.ConfigPath,
		DBPath:      dbPath,
		DBExists:    statErr == nil,
		BackendMode: r.app.Config.Backend.Mode,
		ServerURL:   r.app.Config.Server.URL,
		LoggedIn:    loggedIn,
		Registered:  registered,
		AppDataDir:  appDir,
	})
}
