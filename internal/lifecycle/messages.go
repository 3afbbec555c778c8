package lifecycle

import (
	"fmt"
	"os"
	"strings"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
)

// User-facing alert texts.
const (
	MsgURLRequired            = "A URL is required."
	MsgNameRequired           = "An account name is required."
	MsgRemoteDirectoryMissing = "At least one remote directory is required."
	MsgLocalDirectoryMissing  = "A local directory is required."
	MsgAddFailed              = "Failed to add new rclone remote. Please make sure rclone is installed and globally available."
	MsgUpdateFailed           = "Failed to update rclone remote. Please make sure rclone is installed and globally available."
	MsgDeleteFailed           = "Failed to delete rclone remote. Please make sure rclone is installed and globally available."
	MsgDeleteConfirmation     = "Are you sure you want to delete this remote and the local directory?"
	MsgNoAccounts             = "No configured accounts found."
)

// NonEmptyWarning is the confirmation text shown before pairing a folder
// that already has content.
func NonEmptyWarning(path string) string {
	return fmt.Sprintf("\"%s\" is not empty! That might cause unpredictable issues with synchronization. Continue?", path)
}

// Credentials are the connection details typed into a form. They live only
// as long as the step that needs them.
type Credentials struct {
	URL      string
	Username string
	Password string
	Name     string
}

func validateURL(url string) string {
	if strings.TrimSpace(url) == "" || !strings.Contains(url, "://") {
		return MsgURLRequired
	}
	return ""
}

func validateCredentials(credentials Credentials) string {
	if msg := validateURL(credentials.URL); msg != "" {
		return msg
	}
	if strings.TrimSpace(credentials.Name) == "" {
		return MsgNameRequired
	}
	return ""
}

func homeDirectory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.LogError("HOME_DIR", "", err)
		return string(os.PathSeparator)
	}
	return home
}
