package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/fansqz/go-debug-adapter/config"
	"github.com/fansqz/go-debug-adapter/debugger"
	e "github.com/fansqz/go-debug-adapter/error"
	"github.com/fansqz/go-debug-adapter/transport"
	"github.com/fansqz/go-debug-adapter/utils/gosync"
	"github.com/sirupsen/logrus"
)

// stdio 通过标准输入输出与控制端通信
type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error {
	return os.Stdin.Close()
}

func serveStdio(conf *config.Config) error {
	logrus.Infof("serving DAP over stdio")
	handleConnection(stdio{Reader: os.Stdin, Writer: os.Stdout}, conf)
	return nil
}

func serveTCP(conf *config.Config) error {
	// 监听端口
	listener, err := net.Listen("tcp", conf.Server.Addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", e.ErrListenFailed, conf.Server.Addr, err)
	}
	defer listener.Close()
	logrus.Infof("started listening at: %s", listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logrus.Warnf("connection failed: %v", err)
			continue
		}
		logrus.Infof("accept connection from %s", conn.RemoteAddr())
		// 每个控制端连接一个独立的调试会话
		go handleConnection(conn, conf)
	}
}

// handleConnection 读取控制端的请求并交给调试会话处理，直到连接断开
func handleConnection(conn io.ReadWriteCloser, conf *config.Config) {
	controller := transport.NewController(conn)
	session := debugger.NewSession(&debugger.SessionOption{
		Controller: controller,
		Config:     conf,
	})
	done := make(chan struct{})
	gosync.Go(context.Background(), func(ctx context.Context) {
		defer close(done)
		session.Run()
	})

	for {
		request, err := controller.ReadRequest()
		if err != nil {
			if errors.Is(err, e.ErrNotRequest) || errors.Is(err, e.ErrInvalidMessage) {
				logrus.Warnf("drop client message, err = %v", err)
				continue
			}
			if errors.Is(err, io.EOF) {
				logrus.Infof("no more data to read")
			} else {
				logrus.Errorf("read request fail, err = %v", err)
			}
			break
		}
		session.Dispatch(request)
	}

	session.Close()
	<-done
	_ = conn.Close()
	logrus.Infof("connection closed")
}
