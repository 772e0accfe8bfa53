package constants

const CentsPerUnit = 100

const (
	// Backend modes
	BackendRemote = "remote"
	BackendLocal  = "local"

	// Challenge-unavailable policies
	PolicyDeny   = "deny"
	PolicyBypass = "bypass"
)

const (
	// Display layout for transaction timestamps
	TimeDisplayFormat = "Jan 02, 03:04 PM"
)
