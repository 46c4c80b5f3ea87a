/*
 * log.go, part of gomof.
 *
 * Copyright 2024 Raul Mera <rmeraa{at}academicos(dot)uta(dot)cl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package log holds the process-wide zap logger used by all gomof packages.
// Until InitLogger is called, an info-level console logger on stderr is used.
package log

import (
	"os"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config sets the level ("debug", "info", "warn", "error") and, optionally,
// a file to log to. Without a file, logs go to stderr.
type Config struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

var _globalL, _globalS atomic.Value

func init() {
	lg, _ := InitLogger(&Config{Level: "info"})
	ReplaceGlobals(lg)
}

// InitLogger builds a console logger from cfg. It does not replace the global one.
func InitLogger(cfg *Config, opts ...zap.Option) (*zap.Logger, error) {
	var output zapcore.WriteSyncer
	if cfg.File != "" {
		if st, err := os.Stat(cfg.File); err == nil && st.IsDir() {
			return nil, errors.Newf("can't use directory %s as log file", cfg.File)
		}
		out, _, err := zap.Open(cfg.File)
		if err != nil {
			return nil, errors.Wrapf(err, "opening log file %s", cfg.File)
		}
		output = out
	} else {
		output = zapcore.Lock(os.Stderr)
	}
	return InitLoggerWithWriteSyncer(cfg, output, opts...)
}

// InitLoggerWithWriteSyncer builds a console logger that writes to output.
func InitLoggerWithWriteSyncer(cfg *Config, output zapcore.WriteSyncer, opts ...zap.Option) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	lv := cfg.Level
	if lv == "" {
		lv = "info"
	}
	if err := level.UnmarshalText([]byte(lv)); err != nil {
		return nil, errors.Wrapf(err, "bad log level %q", cfg.Level)
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), output, level)
	return zap.New(core, opts...), nil
}

// L returns the global Logger. It's safe for concurrent use.
func L() *zap.Logger {
	return _globalL.Load().(*zap.Logger)
}

// S returns the global SugaredLogger. It's safe for concurrent use.
func S() *zap.SugaredLogger {
	return _globalS.Load().(*zap.SugaredLogger)
}

// ReplaceGlobals replaces the global Logger and SugaredLogger.
// It's safe for concurrent use.
func ReplaceGlobals(logger *zap.Logger) {
	_globalL.Store(logger)
	_globalS.Store(logger.Sugar())
}

// Sync flushes any buffered log entries.
func Sync() error {
	err := L().Sync()
	if err != nil {
		return err
	}
	return S().Sync()
}
