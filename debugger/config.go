package debugger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fansqz/go-debug-adapter/constants"
	e "github.com/fansqz/go-debug-adapter/error"
	"github.com/fansqz/go-debug-adapter/launcher"
	"github.com/fansqz/go-debug-adapter/protocol"
)

// PathMapArgument attach/launch参数中的路径映射
type PathMapArgument struct {
	LocalPrefix  string `json:"localPrefix"`
	RemotePrefix string `json:"remotePrefix"`
}

// RequestArguments attach和launch共有的参数
type RequestArguments struct {
	WorkingDirectory string            `json:"workingDirectory"`
	SourceBasePath   string            `json:"sourceBasePath"`
	ListenPublicly   bool              `json:"listenPublicly"`
	ListenPort       int               `json:"listenPort"`
	SourceEncoding   string            `json:"sourceEncoding"`
	ConsoleEncoding  string            `json:"consoleEncoding"`
	StopOnEntry      bool              `json:"stopOnEntry"`
	PathMap          []PathMapArgument `json:"pathMap"`
	NoDebug          bool              `json:"noDebug"`
	Executable       string            `json:"executable"`
	Interpreter      string            `json:"interpreter"`
	Arguments        []string          `json:"arguments"`
}

type LaunchArguments struct {
	RequestArguments
	Env map[string]*string `json:"env"`
}

type AttachArguments struct {
	RequestArguments
	ExecutableNoDebug string `json:"executableNoDebug"`
	// RunMode 为shell时使用原生终端，否则使用task模式
	RunMode string `json:"runMode"`
}

// SessionConfig 调试会话的配置，attach/launch时设置，之后的请求只读取
type SessionConfig struct {
	SourceEncoding   string
	ConsoleEncoding  string
	SourceBasePath   string
	WorkingDirectory string
	DebuggeeHost     string
	DebuggeePort     int
	StopOnEntry      bool
	PathMap          []protocol.PathMapping
	// BreakPoints 小写的源文件路径 -> 最后一次setBreakpoints的原始参数
	BreakPoints map[string]string

	LaunchExecutable  string
	LaunchInterpreter string
	LaunchArguments   []string
	LaunchEnvironment map[string]*string
	TerminalMode      launcher.TerminalMode
	NoDebug           bool

	defaultPort int
}

func NewSessionConfig(defaultPort int) *SessionConfig {
	return &SessionConfig{
		SourceEncoding:  constants.DefaultEncoding,
		ConsoleEncoding: constants.DefaultEncoding,
		DebuggeePort:    defaultPort,
		BreakPoints:     map[string]string{},
		defaultPort:     defaultPort,
	}
}

// HasTarget 是否需要启动调试目标进程
func (c *SessionConfig) HasTarget() bool {
	return c.LaunchExecutable != "" || c.LaunchInterpreter != ""
}

func (c *SessionConfig) configureAttach(args *AttachArguments) error {
	if args.Executable != "" {
		c.LaunchExecutable = args.Executable
		if args.NoDebug && args.ExecutableNoDebug != "" {
			c.LaunchExecutable = args.ExecutableNoDebug
		}
		c.LaunchInterpreter = ""
	} else if args.Interpreter != "" {
		c.LaunchInterpreter = args.Interpreter
		c.LaunchExecutable = ""
	}

	if c.HasTarget() {
		c.LaunchArguments = nonNil(args.Arguments)
		c.TerminalMode = launcher.TaskTerminal
		if args.RunMode == constants.ShellRunMode {
			c.TerminalMode = launcher.NativeTerminal
		}
	}
	c.NoDebug = args.NoDebug
	return c.configureCommon(&args.RequestArguments)
}

func (c *SessionConfig) configureLaunch(args *LaunchArguments) error {
	if args.Executable != "" {
		c.LaunchExecutable = args.Executable
		c.LaunchInterpreter = ""
	} else {
		c.LaunchInterpreter = args.Interpreter
		if c.LaunchInterpreter == "" {
			c.LaunchInterpreter = constants.DefaultInterpreter
		}
		c.LaunchExecutable = ""
	}
	c.LaunchArguments = nonNil(args.Arguments)
	c.LaunchEnvironment = args.Env
	c.TerminalMode = launcher.TaskTerminal
	c.NoDebug = args.NoDebug
	return c.configureCommon(&args.RequestArguments)
}

func (c *SessionConfig) configureCommon(args *RequestArguments) error {
	c.DebuggeeHost = constants.LocalHost
	if args.ListenPublicly {
		c.DebuggeeHost = constants.PublicHost
	}
	c.DebuggeePort = args.ListenPort
	if c.DebuggeePort == 0 {
		c.DebuggeePort = c.defaultPort
	}
	if c.DebuggeePort < 0 || c.DebuggeePort > 65535 {
		return fmt.Errorf("%w: %d", e.ErrInvalidPort, args.ListenPort)
	}

	sourceEncoding, ok := constants.ParseEncoding(args.SourceEncoding)
	if !ok {
		sourceEncoding = constants.DefaultEncoding
	}
	c.SourceEncoding = sourceEncoding
	consoleEncoding, ok := constants.ParseEncoding(args.ConsoleEncoding)
	if !ok {
		consoleEncoding = c.SourceEncoding
	}
	c.ConsoleEncoding = consoleEncoding

	c.WorkingDirectory = args.WorkingDirectory
	if c.WorkingDirectory == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("%w: workingDirectory: %v", e.ErrInvalidArguments, err)
		}
		c.WorkingDirectory = wd
	}
	c.SourceBasePath = args.SourceBasePath
	if c.SourceBasePath == "" {
		c.SourceBasePath = c.WorkingDirectory
	}
	c.StopOnEntry = args.StopOnEntry

	c.PathMap = make([]protocol.PathMapping, 0, len(args.PathMap))
	for i, entry := range args.PathMap {
		if entry.LocalPrefix == "" || entry.RemotePrefix == "" {
			return fmt.Errorf("%w: index %d", e.ErrInvalidPathMap, i)
		}
		c.PathMap = append(c.PathMap, protocol.NewPathMapping(entry.LocalPrefix, entry.RemotePrefix, c.SourceBasePath))
	}
	return nil
}

func (c *SessionConfig) launchOptions() *launcher.Options {
	return &launcher.Options{
		Executable:       c.LaunchExecutable,
		Interpreter:      c.LaunchInterpreter,
		Arguments:        c.LaunchArguments,
		Environment:      c.LaunchEnvironment,
		WorkingDirectory: c.WorkingDirectory,
		ConsoleEncoding:  c.ConsoleEncoding,
		TerminalMode:     c.TerminalMode,
	}
}

func (c *SessionConfig) welcomeArguments() *protocol.WelcomeArguments {
	breakPoints := make(map[string]string, len(c.BreakPoints))
	for path, args := range c.BreakPoints {
		breakPoints[path] = args
	}
	return &protocol.WelcomeArguments{
		PathMap:            c.PathMap,
		StopOnEntry:        c.StopOnEntry,
		SourceBasePath:     c.SourceBasePath,
		DirectorySeparator: string(filepath.Separator),
		BreakPoints:        breakPoints,
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
