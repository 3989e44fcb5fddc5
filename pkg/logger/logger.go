// Package logger adapts zap to the store.Logger interface.
package logger

import (
	"go.uber.org/zap"

	"tinystore/pkg/store"
)

type wrapper struct {
	base *zap.SugaredLogger
}

var _ store.Logger = wrapper{}

// New returns a production-configured zap logger (JSON, info level).
func New() (store.Logger, error) {
	base, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return wrapper{base: base.Sugar()}, nil
}

// NewDevelopment returns a console logger at debug level, for local use.
func NewDevelopment() (store.Logger, error) {
	base, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return wrapper{base: base.Sugar()}, nil
}

// Wrap adapts an existing zap logger, so embedders can share one instance.
func Wrap(base *zap.Logger) store.Logger {
	return wrapper{base: base.Sugar()}
}

// With returns a logger namespaced under label.
func With(l store.Logger, label string) store.Logger {
	if w, ok := l.(wrapper); ok {
		return wrapper{base: w.base.Named(label)}
	}
	return l
}

func (w wrapper) Debug(msg string, args ...any) { w.base.Debugw(msg, args...) }
func (w wrapper) Info(msg string, args ...any)  { w.base.Infow(msg, args...) }
func (w wrapper) Warn(msg string, args ...any)  { w.base.Warnw(msg, args...) }
func (w wrapper) Error(msg string, args ...any) { w.base.Errorw(msg, args...) }
