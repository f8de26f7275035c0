package protocol

import (
	"github.com/fansqz/go-debug-adapter/constants"
	"github.com/google/go-dap"
)

// ErrorResponseID 错误回复中的错误码
const ErrorResponseID = 12345

func NewResponse(requestSeq int, command string) *dap.Response {
	return &dap.Response{
		ProtocolMessage: dap.ProtocolMessage{
			Seq:  0,
			Type: string(constants.ResponseMessage),
		},
		Command:    command,
		RequestSeq: requestSeq,
		Success:    true,
	}
}

func NewErrorResponse(requestSeq int, command string, message string) *dap.ErrorResponse {
	er := &dap.ErrorResponse{}
	er.Response = *NewResponse(requestSeq, command)
	er.Success = false
	er.Message = message
	er.Body.Error = &dap.ErrorMessage{
		Id:     ErrorResponseID,
		Format: message,
	}
	return er
}

// NewInitializeResponse 声明调试适配器支持的能力
func NewInitializeResponse(requestSeq int) *dap.InitializeResponse {
	response := &dap.InitializeResponse{}
	response.Response = *NewResponse(requestSeq, string(constants.Initialize))
	response.Body.SupportsConfigurationDoneRequest = true
	response.Body.SupportsEvaluateForHovers = true
	response.Body.SupportsStepBack = false
	response.Body.SupportsSetVariable = true
	response.Body.SupportsFunctionBreakpoints = false
	response.Body.SupportsConditionalBreakpoints = true
	response.Body.SupportsHitConditionalBreakpoints = true
	response.Body.SupportsLogPoints = true
	response.Body.SupportSuspendDebuggee = true
	response.Body.SupportTerminateDebuggee = true
	response.Body.SupportsSingleThreadExecutionRequests = true
	return response
}

// NewThreadsResponse 线程列表在本地生成，不需要转发给调试目标
func NewThreadsResponse(requestSeq int, threads []dap.Thread) *dap.ThreadsResponse {
	response := &dap.ThreadsResponse{}
	response.Response = *NewResponse(requestSeq, string(constants.Threads))
	if threads == nil {
		threads = []dap.Thread{}
	}
	response.Body.Threads = threads
	return response
}

// NewSetBreakpointsResponse 还没有调试目标时的回复，断点都标记为未验证
func NewSetBreakpointsResponse(requestSeq int, args *dap.SetBreakpointsArguments) *dap.SetBreakpointsResponse {
	response := &dap.SetBreakpointsResponse{}
	response.Response = *NewResponse(requestSeq, string(constants.SetBreakpoints))
	response.Body.Breakpoints = make([]dap.Breakpoint, len(args.Breakpoints))
	for i, b := range args.Breakpoints {
		response.Body.Breakpoints[i].Line = b.Line
		response.Body.Breakpoints[i].Verified = false
	}
	return response
}
