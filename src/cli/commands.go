package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.lsp.dev/uri"
	"gopkg.in/yaml.v3"

	"file-gateway/src/config"
	"file-gateway/src/internal/common"
	"file-gateway/src/internal/types"
	versionpkg "file-gateway/src/internal/version"
	"file-gateway/src/server"
	"file-gateway/src/server/engine"
	"file-gateway/src/server/host"
	"file-gateway/src/server/trash"
)

// CLI Constants
const (
	CmdWatch   = "watch"
	CmdConfig  = "config"
	CmdVersion = "version"
	FlagConfig = "config"
)

// CLI Variables
var (
	configPath string
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "file-gateway",
	Short: "File Gateway - an editor file service façade over a disk engine",
	Long: `File Gateway mediates between an editor's UI state and a disk-backed
file-access engine: it keeps filesystem watches in sync with which
out-of-workspace files are visible, applies per-resource encoding overrides,
times load/save operations, and deletes via the OS trash when possible.

QUICK START:
  file-gateway watch .                     # Watch the current workspace
  file-gateway watch /ws /tmp/notes.txt    # Also track an out-of-workspace file
  file-gateway config                      # Show the effective configuration`,
	SilenceUsage: true,
}

var watchCmd = &cobra.Command{
	Use:   CmdWatch + " <workspace-root> [visible-file...]",
	Short: "Run the file service against a workspace until interrupted",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

var configCmd = &cobra.Command{
	Use:   CmdConfig,
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

var versionCmd = &cobra.Command{
	Use:   CmdVersion,
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(versionpkg.GetFullVersionInfo())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, FlagConfig, "", "path to config file")
	rootCmd.AddCommand(watchCmd, configCmd, versionCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() *config.Config {
	path := configPath
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		common.CLILogger.Debug("using default configuration: %v", err)
		return config.GetDefaultConfig()
	}
	return cfg
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := common.ValidateAndGetWorkspaceRoot(args[0])
	if err != nil {
		return err
	}

	cfg := loadConfig()

	diskEngine, err := engine.NewDiskEngine(types.FileOptions{})
	if err != nil {
		return fmt.Errorf("failed to create file engine: %w", err)
	}

	workspace := host.NewWorkspace(root)
	editors := host.NewEditorRegistry()
	configService := config.NewService(cfg)
	lifecycle := host.NewShutdownSignal()
	storage := host.NewFileStorage(filepath.Join(common.SettingsHome(), "storage.json"))

	service := server.NewFileService(
		diskEngine, workspace, editors, configService,
		lifecycle, storage, host.NewConsoleMessenger(), trash.New(),
	)

	// The workspace gets its standing watch directly on the engine; the
	// coordinator only manages out-of-workspace resources.
	diskEngine.Watch(uri.File(root))

	inputs := make([]types.EditorInput, 0, len(args)-1)
	for _, arg := range args[1:] {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return err
		}
		inputs = append(inputs, host.FileEditor{Resource: uri.File(abs)})
	}
	editors.SetVisible(inputs...)

	go func() {
		for batch := range service.Events() {
			for _, event := range batch {
				common.CLILogger.Info("change %v: %s", event.Type, event.URI)
			}
		}
	}()

	common.CLILogger.Info("watching workspace %s, press Ctrl+C to stop", root)

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt, syscall.SIGTERM)
	<-interrupted

	lifecycle.Shutdown()
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
