// Command vfsdav serves a single structured data file as a read-only
// WebDAV namespace.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/worldiety/vfsdav/backend/osinfo"
	"github.com/worldiety/vfsdav/internal/config"
	"github.com/worldiety/vfsdav/internal/driver"
	"github.com/worldiety/vfsdav/internal/logging"
	"github.com/worldiety/vfsdav/vfs"
	"github.com/worldiety/vfsdav/webdav"
)

var (
	flagHost     string
	flagPort     int
	flagType     string
	flagLogLevel string
	flagConfig   string
	flagCORS     bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vfsdav [file]",
		Short: "vfsdav — read-only WebDAV server for structured data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(args[0], flagType)
		},
	}

	root.PersistentFlags().StringVar(&flagHost, "host", "", "host to bind to (default from config, else localhost)")
	root.PersistentFlags().IntVarP(&flagPort, "port", "p", 0, "port to listen on (default from config, else 8080)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVar(&flagCORS, "cors", false, "enable permissive CORS headers")
	root.Flags().StringVarP(&flagType, "type", "t", "", "force a backend type instead of detecting from extension")

	root.AddCommand(osinfoCmd())
	return root
}

func osinfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "osinfo",
		Short: "Mount OS/platform information (no file)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveBackend("OS info", osinfo.Open())
		},
	}
}

func serve(path string, forcedType string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%s not found", path)
	}

	resource, cleanup, err := driver.Open(path, forcedType)
	if err != nil {
		return err
	}
	defer cleanup()

	return serveBackend(path, resource)
}

func serveBackend(label string, resource vfs.Resource) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	cfg.ApplyFlags(flagHost, flagPort, flagLogLevel)

	if err := logging.Init(cfg.LogLevel); err != nil {
		return err
	}
	defer logging.Sync()

	var handler http.Handler = webdav.NewHandler(resource)
	handler = webdav.WithRequestID(handler)
	if flagCORS {
		handler = webdav.WithCORS(handler)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	logging.L.Infow("serving", "what", label, "addr", addr)
	fmt.Printf("Serving %s on http://%s/\n", label, addr)
	fmt.Println("Press Ctrl+C to stop.")

	return http.ListenAndServe(addr, handler)
}
