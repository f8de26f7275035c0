package main

import (
	"fmt"
	"os"

	"github.com/fansqz/go-debug-adapter/config"
	"github.com/spf13/cobra"
)

// 定义版本号
const Version = "1.1.0"

var (
	configPath  string
	addr        string
	port        int
	logLevel    string
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:   "go-debug-adapter",
	Short: "Debug adapter multiplexing one DAP client across many debuggee connections",
	Long: `go-debug-adapter speaks DAP with the client over stdio (or TCP when --addr is set)
and accepts any number of debuggee connections, each one exposed to the client as a thread.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 检查是否需要显示版本信息
		if showVersion {
			fmt.Printf("Version: %s\n", Version)
			return nil
		}
		conf, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			conf.Server.Addr = addr
		}
		if cmd.Flags().Changed("port") {
			conf.Debuggee.DefaultPort = port
		}
		if cmd.Flags().Changed("log-level") {
			conf.Logging.Level = logLevel
		}
		if err = conf.Validate(); err != nil {
			return err
		}

		//启动日志
		SetupLogger(&conf.Logging)
		defer CloseLogger()

		if conf.Server.Addr == "" {
			return serveStdio(conf)
		}
		return serveTCP(conf)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "config file path")
	rootCmd.Flags().StringVar(&addr, "addr", "", "TCP address for the DAP client, stdio when empty")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "default port debuggees connect to")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "show the version number")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
