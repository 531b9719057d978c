package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// receiptRow is a minimal ledger-shaped model for exercising the callbacks
type receiptRow struct {
	ID        uint   `gorm:"primaryKey"`
	Number    string `gorm:"size:32"`
	Amount    string `gorm:"size:32"`
	CreatedAt time.Time
}

func (receiptRow) TableName() string { return "receipt_rows" }

func setupTracingTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&receiptRow{}))
	return db
}

func setupSpanRecorder(t *testing.T) (*trace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	return trace.NewTracerProvider(trace.WithSpanProcessor(recorder)), recorder
}

func spanAttr(span trace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, attr := range span.Attributes() {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL, "parameter values stay out of spans by default")
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "facturio", cfg.DBName)
}

func TestDBTracingPlugin_DisabledIsNoOp(t *testing.T) {
	db := setupTracingTestDB(t)
	plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

	require.NoError(t, plugin.RegisterOtelGorm(db))

	// No callbacks registered, plain queries still work.
	require.NoError(t, db.Create(&receiptRow{Number: "REC-2026-00001", Amount: "100"}).Error)
}

func TestDBTracingPlugin_RegisterEnabled(t *testing.T) {
	db := setupTracingTestDB(t)
	core, logs := observer.New(zap.InfoLevel)
	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: 200 * time.Millisecond,
		DBName:          "settlement_test",
	}, zap.New(core))

	require.NoError(t, plugin.RegisterOtelGorm(db))

	entries := logs.FilterMessage("Database tracing enabled").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "settlement_test", entries[0].ContextMap()["db_name"])
}

func TestDBTracingPlugin_DoubleRegistrationFails(t *testing.T) {
	db := setupTracingTestDB(t)
	cfg := DBTracingConfig{Enabled: true, SlowQueryThresh: time.Second, DBName: "settlement_test"}

	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))

	// gorm rejects duplicate callback names.
	err := NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db)
	require.Error(t, err)
}

func TestAfterCallback_RowsAffectedAndTable(t *testing.T) {
	db := setupTracingTestDB(t)
	tp, recorder := setupSpanRecorder(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Minute,
		DBName:          "settlement_test",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "receipt.save")
	require.NoError(t, db.WithContext(ctx).Create(&receiptRow{Number: "REC-2026-00002", Amount: "250"}).Error)
	span.End()

	var found bool
	for _, recorded := range recorder.Ended() {
		if rows, ok := spanAttr(recorded, "db.rows_affected"); ok {
			assert.Equal(t, int64(1), rows.AsInt64())
			if table, ok := spanAttr(recorded, "db.sql.table"); ok {
				assert.Equal(t, "receipt_rows", table.AsString())
			}
			found = true
		}
	}
	assert.True(t, found, "expected a span annotated with rows affected")
}

func TestAfterCallback_SlowQueryMarker(t *testing.T) {
	db := setupTracingTestDB(t)
	tp, recorder := setupSpanRecorder(t)
	// Zero threshold makes every statement slow.
	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled: true,
		DBName:  "settlement_test",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "receipt.list")
	var rows []receiptRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	span.End()

	var marked bool
	for _, recorded := range recorder.Ended() {
		slow, ok := spanAttr(recorded, "db.slow_query")
		if !ok || !slow.AsBool() {
			continue
		}
		marked = true
		duration, ok := spanAttr(recorded, "db.query_duration_ms")
		require.True(t, ok)
		assert.GreaterOrEqual(t, duration.AsInt64(), int64(0))

		var hasEvent bool
		for _, evt := range recorded.Events() {
			if evt.Name == "slow_query_warning" {
				hasEvent = true
			}
		}
		assert.True(t, hasEvent, "slow query emits a span event")
	}
	assert.True(t, marked, "expected a span marked as slow")
}

func TestAfterCallback_RecordNotFoundIsNotAnError(t *testing.T) {
	db := setupTracingTestDB(t)
	tp, recorder := setupSpanRecorder(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Minute,
		DBName:          "settlement_test",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "receipt.get")
	var row receiptRow
	err := db.WithContext(ctx).First(&row, "number = ?", "REC-2026-99999").Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	span.End()

	for _, recorded := range recorder.Ended() {
		assert.NotEqual(t, codes.Error, recorded.Status().Code,
			"a missed lookup must not mark the span errored")
	}
}

func TestAfterCallback_SQLErrorMarksSpan(t *testing.T) {
	db := setupTracingTestDB(t)
	tp, recorder := setupSpanRecorder(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Minute,
		DBName:          "settlement_test",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "receipt.raw")
	err := db.WithContext(ctx).Exec("INSERT INTO no_such_table (id) VALUES (1)").Error
	require.Error(t, err)
	span.End()

	var errored bool
	for _, recorded := range recorder.Ended() {
		if recorded.Status().Code == codes.Error {
			errored = true
		}
	}
	assert.True(t, errored, "a failing statement marks its span errored")
}

func TestAfterCallback_NoActiveSpan(t *testing.T) {
	db := setupTracingTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Minute,
		DBName:          "settlement_test",
	}, zap.NewNop())
	require.NoError(t, plugin.RegisterOtelGorm(db))

	// No recording span in the context; the callbacks must not panic.
	require.NoError(t, db.WithContext(context.Background()).Create(&receiptRow{Number: "REC-2026-00003", Amount: "75"}).Error)
}

func BenchmarkTracedQuery(b *testing.B) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		b.Fatal(err)
	}
	if err := db.AutoMigrate(&receiptRow{}); err != nil {
		b.Fatal(err)
	}
	plugin := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Minute,
		DBName:          "settlement_bench",
	}, zap.NewNop())
	if err := plugin.RegisterOtelGorm(db); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var rows []receiptRow
		_ = db.Find(&rows).Error
	}
}
