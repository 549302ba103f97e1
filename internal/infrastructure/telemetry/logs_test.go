package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// recordingProcessor keeps emitted record bodies in memory.
type recordingProcessor struct {
	mu     sync.Mutex
	bodies []string
}

func (p *recordingProcessor) OnEmit(_ context.Context, record *sdklog.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bodies = append(p.bodies, record.Body().AsString())
	return nil
}

func (p *recordingProcessor) Enabled(context.Context, sdklog.EnabledParameters) bool { return true }

func (p *recordingProcessor) Shutdown(context.Context) error   { return nil }
func (p *recordingProcessor) ForceFlush(context.Context) error { return nil }

func (p *recordingProcessor) Bodies() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.bodies...)
}

func newRecordingLoggerProvider(t *testing.T) (*LoggerProvider, *recordingProcessor) {
	t.Helper()
	proc := &recordingProcessor{}
	sdk := sdklog.NewLoggerProvider(sdklog.WithProcessor(proc))
	t.Cleanup(func() { _ = sdk.Shutdown(context.Background()) })

	return &LoggerProvider{
		provider: sdk,
		logger:   zap.NewNop(),
		config:   LogsConfig{Enabled: true, ServiceName: "test-service"},
	}, proc
}

func TestNewZapOTELCore_NilProvider(t *testing.T) {
	core := NewZapOTELCore(ZapBridgeConfig{ServiceName: "test"})
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestNewZapOTELCore_DisabledProvider(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{}, zap.NewNop())
	require.NoError(t, err)

	core := NewZapOTELCore(ZapBridgeConfig{ServiceName: "test", LoggerProvider: lp})
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestNewZapOTELCore_ForwardsEntries(t *testing.T) {
	lp, proc := newRecordingLoggerProvider(t)

	core := NewZapOTELCore(ZapBridgeConfig{
		ServiceName:    "test-service",
		LoggerProvider: lp,
		Level:          zapcore.DebugLevel,
	})
	logger := zap.New(core)

	logger.Info("order synced", zap.String("platform", "TRENDYOL"))

	assert.Equal(t, []string{"order synced"}, proc.Bodies())
}

func TestNewZapOTELCore_LevelFilter(t *testing.T) {
	lp, proc := newRecordingLoggerProvider(t)

	core := NewZapOTELCore(ZapBridgeConfig{
		ServiceName:    "test-service",
		LoggerProvider: lp,
		Level:          zapcore.WarnLevel,
	})
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))

	logger := zap.New(core).With(zap.String("provider", "Shopify"))
	logger.Info("dropped")
	logger.Warn("kept")

	assert.Equal(t, []string{"kept"}, proc.Bodies())
}
