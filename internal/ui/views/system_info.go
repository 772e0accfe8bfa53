package views

import "github.com/pterm/pterm"

type SystemInfoItem struct {
	ConfigPath  string
	DBPath      string
	DBExists    bool
	BackendMode string
	ServerURL   string
	LoggedIn    bool
	Registered  bool
	AppDataDir  string
}

func RenderSystemInfo(item SystemInfoItem) error {
	dbState := "missing"
	if item.DBExists {
		dbState = "present"
	}

	serverURL := item.ServerURL
	if serverURL == "" {
		serverURL = "(not set)"
	}

	data := pterm.TableData{
		{"Config file", item.ConfigPath},
		{"App data dir", item.AppDataDir},
		{"Database", item.DBPath + " (" + dbState + ")"},
		{"Backend mode", item.BackendMode},
		{"Server URL", serverURL},
		{"Logged in", yesNo(item.LoggedIn)},
		{"Registered locally", yesNo(item.Registered)},
	}

	return pterm.DefaultTable.WithData(data).Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
