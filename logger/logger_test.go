package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{name: "JSON output mode", jsonOutput: true, verbosity: 0},
		{name: "Console output mode", jsonOutput: false, verbosity: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			err := Initialize(tt.jsonOutput, tt.verbosity)
			if err != nil {
				t.Fatalf("Initialize() error = %v", err)
			}
			if Logger == nil {
				t.Fatal("Initialize() did not set global Logger")
			}
			if JSONOutput != tt.jsonOutput {
				t.Errorf("Initialize() JSONOutput = %v, want %v", JSONOutput, tt.jsonOutput)
			}

			Logger = zap.NewNop().Sugar()
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{0, zapcore.WarnLevel},
		{1, zapcore.InfoLevel},
		{2, zapcore.DebugLevel},
		{5, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Debug (-vv)", LevelName(2))
	assert.Equal(t, "Debug (-vv+)", LevelName(3))
	assert.Equal(t, "Unknown", LevelName(-1))
}

func TestComponentAndChildLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	saved := Logger
	Logger = zap.New(core).Sugar()
	defer func() { Logger = saved }()

	run := ChildLogger(ComponentLogger("factory"), FieldRunID, "run-1")
	run.Infow("Generated factories", FieldCount, 3)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "factory", entries[0].LoggerName)
		fields := entries[0].ContextMap()
		assert.Equal(t, "run-1", fields[FieldRunID])
		assert.EqualValues(t, 3, fields[FieldCount])
	}
}

func TestHelpersWithNilLogger(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	// Must not panic
	Infow("info", "k", "v")
	Warnw("warn", "k", "v")
	Debugw("debug", "k", "v")
	Cleanup()
}
