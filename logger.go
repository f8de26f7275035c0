package main

import (
	"os"
	"path/filepath"

	"github.com/fansqz/go-debug-adapter/config"
	"github.com/sirupsen/logrus"
)

var logFile *os.File

// SetupLogger 日志写入配置的文件，文件无法打开时写到标准错误
// 标准输出可能是控制端的DAP连接，日志不能写到标准输出
func SetupLogger(conf *config.LoggingConfig) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(conf.Level)
	if err != nil {
		logrus.Warnf("invalid log level %q, use info", conf.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if conf.File == "" {
		return
	}
	if err = os.MkdirAll(filepath.Dir(conf.File), os.ModePerm); err != nil {
		logrus.Warnf("create log dir fail, err = %v", err)
		return
	}
	logFile, err = os.OpenFile(conf.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		logrus.Warnf("open log file fail, err = %v", err)
		return
	}
	logrus.SetOutput(logFile)
}

func CloseLogger() {
	if logFile != nil {
		_ = logFile.Close()
	}
}
