package fiberlog

import "github.com/sirupsen/logrus"

// Config задаёт логгер и набор тегов, попадающих в каждую запись
type Config struct {
	Logger *logrus.Logger
	Tags   []string
}

var ConfigDefault = Config{
	Logger: nil,
	Tags: []string{
		TagStatus,
		TagLatency,
		TagMethod,
		TagPath,
		TagIP,
	},
}
