package host

import (
	"file-gateway/src/internal/common"
	"file-gateway/src/internal/types"
)

// ConsoleMessenger logs notifications instead of presenting dialogs. There
// is no interactive choice on a console, so warnings always report
// "dismissed".
type ConsoleMessenger struct {
	logger *common.SafeLogger
}

// NewConsoleMessenger creates a messenger backed by the CLI logger
func NewConsoleMessenger() *ConsoleMessenger {
	return &ConsoleMessenger{logger: common.CLILogger}
}

// ShowWarning logs the warning and reports no action chosen
func (m *ConsoleMessenger) ShowWarning(message string, actions ...string) int {
	m.logger.Warn("%s", message)
	return -1
}

// OpenExternal logs the URL the user should visit
func (m *ConsoleMessenger) OpenExternal(url string) {
	m.logger.Info("see %s", url)
}

var _ types.Messenger = (*ConsoleMessenger)(nil)
