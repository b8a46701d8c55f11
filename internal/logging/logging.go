/*
Copyright 2025 The resistor-search Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logging builds the zap-backed logr loggers used across the
// service and defines the verbosity levels they share.
package logging

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logr.V. INFO is always emitted; DEBUG and TRACE gate
// progressively noisier diagnostics.
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// NewLogger builds a logr.Logger backed by zap. verbosity is the highest V
// level that will be emitted. development switches to console encoding with
// caller annotations; production mode emits JSON.
func NewLogger(verbosity int, development bool) logr.Logger {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	// zapr maps logr V levels onto negative zap levels.
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	z, err := cfg.Build()
	if err != nil {
		z = zap.NewNop()
	}
	return zapr.NewLogger(z)
}

// NewTestLogger returns a development logger at TRACE verbosity for use in
// test suites.
func NewTestLogger() logr.Logger {
	return NewLogger(TRACE, true)
}

// IntoContext attaches log to ctx for retrieval with FromContext.
func IntoContext(ctx context.Context, log logr.Logger) context.Context {
	return logr.NewContext(ctx, log)
}

// FromContext returns the logger attached to ctx, or a discarding logger
// when none is attached.
func FromContext(ctx context.Context) logr.Logger {
	return logr.FromContextOrDiscard(ctx)
}
