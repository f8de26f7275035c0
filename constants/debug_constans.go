package constants

type DebugMessageType string

const (
	RequestMessage  DebugMessageType = "request"
	ResponseMessage DebugMessageType = "response"
	EventMessage    DebugMessageType = "event"
	// WelcomeMessage 调试目标对welcome命令的回复类型
	WelcomeMessage DebugMessageType = "welcome"
)

// DebugCommand 控制端发送的请求命令
type DebugCommand string

const (
	Initialize             DebugCommand = "initialize"
	Launch                 DebugCommand = "launch"
	Attach                 DebugCommand = "attach"
	ConfigurationDone      DebugCommand = "configurationDone"
	Disconnect             DebugCommand = "disconnect"
	Threads                DebugCommand = "threads"
	SetBreakpoints         DebugCommand = "setBreakpoints"
	SetExceptionBreakpoint DebugCommand = "setExceptionBreakpoints"
	Next                   DebugCommand = "next"
	StepIn                 DebugCommand = "stepIn"
	StepOut                DebugCommand = "stepOut"
	Continue               DebugCommand = "continue"
	Pause                  DebugCommand = "pause"
	StackTrace             DebugCommand = "stackTrace"
	Scopes                 DebugCommand = "scopes"
	Variables              DebugCommand = "variables"
	SetVariable            DebugCommand = "setVariable"
	Evaluate               DebugCommand = "evaluate"
	// Welcome 新的调试目标连接后发送的第一条命令
	Welcome DebugCommand = "welcome"
)

// BroadcastCommands 没有指定线程时，会发送给所有调试目标的命令
var BroadcastCommands = []DebugCommand{Next, StepIn, StepOut, Pause}

// CurrentThreadCommands 没有指定线程时，发送给当前线程的命令
var CurrentThreadCommands = []DebugCommand{Scopes, Variables, Evaluate, SetVariable}

type DebugEventType string

const (
	InitializedEvent DebugEventType = "initialized"
	OutputEvent      DebugEventType = "output"
	ThreadEvent      DebugEventType = "thread"
	ExitedEvent      DebugEventType = "exited"
	TerminatedEvent  DebugEventType = "terminated"
)

// ThreadReasonType thread事件的原因
type ThreadReasonType string

const (
	ThreadStarted ThreadReasonType = "started"
	ThreadExited  ThreadReasonType = "exited"
)

// OutputCategory output事件的类别
type OutputCategory string

const (
	ConsoleCategory OutputCategory = "console"
	StdoutCategory  OutputCategory = "stdout"
	StderrCategory  OutputCategory = "stderr"
)

const (
	// DefaultPort 调试目标默认连接的端口
	DefaultPort = 56789
	// LocalHost 只在本机监听
	LocalHost = "127.0.0.1"
	// PublicHost 监听所有网卡
	PublicHost = "0.0.0.0"
	// DefaultInterpreter launch未指定executable时使用的解释器
	DefaultInterpreter = "lua"
	// DefaultThreadName 调试目标没有上报线程名称时使用的名称
	DefaultThreadName = "default"
	// DetachedThread 线程已经断开
	DetachedThread = -1
	// ShellRunMode attach时runMode为shell则使用原生终端
	ShellRunMode = "shell"
)
