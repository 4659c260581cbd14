package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/g1kit/pkg/g1"
	"github.com/Faultbox/g1kit/pkg/imagetable"
)

func fileOptions(t *testing.T, level string) (Options, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spritetool.log")
	return Options{Level: level, File: FileConfig{Path: path, MaxSizeMB: 1}}, path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Console: &buf})

	log.Named("g1").Info("opened sprite file")
	log.Named("g1").Warn("sprite data shorter than declared")

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "g1")
	assert.Contains(t, out, "sprite data shorter than declared")
	assert.NotContains(t, out, "opened sprite file")
}

func TestNoSinksDiscards(t *testing.T) {
	log := New(Options{Level: "debug"})
	log.Error("nowhere")
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
}

func TestSpritePaddingWarningIsLogged(t *testing.T) {
	c := g1.New()
	_, err := c.Append(g1.Element{Width: 2, Height: 2}, []byte{1, 2, 3, 4})
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = c.WriteTo(&buf)
	require.NoError(t, err)
	short := buf.Bytes()[:buf.Len()-2]

	o, path := fileOptions(t, "info")
	log := New(o)
	_, err = g1.Read(bytes.NewReader(short), g1.WithLogger(log.Named("g1")))
	require.NoError(t, err)
	_ = log.Sync()

	content := readLog(t, path)
	assert.Contains(t, content, "WARN g1")
	assert.Contains(t, content, "padding with zeros")
}

func TestImageTablePlaceholderIsLogged(t *testing.T) {
	o, path := fileOptions(t, "warn")
	log := New(o)

	b := imagetable.NewBuilder(nil, imagetable.WithLogger(log.Named("imagetable")))
	table := b.Build(imagetable.Description{Entries: []imagetable.Entry{{Source: "$G1[0]"}}})
	require.Equal(t, 1, table.Placeholders())
	_ = log.Sync()

	content := readLog(t, path)
	assert.Contains(t, content, "imagetable")
	assert.Contains(t, content, "unresolved image source")
	assert.Contains(t, content, "$G1[0]")
}

func TestLogFileRotates(t *testing.T) {
	o, path := fileOptions(t, "debug")
	o.File.MaxBackups = 2
	log := New(o)

	// About 1.5 MB of entries forces one rotation at MaxSizeMB 1.
	name := strings.Repeat("n", 200)
	for i := 0; i < 6000; i++ {
		log.Debug("imported sprite", zap.Int("index", i), zap.String("name", name))
	}
	_ = log.Sync()

	backups, err := filepath.Glob(filepath.Join(filepath.Dir(path), "spritetool-*.log"))
	require.NoError(t, err)
	assert.NotEmpty(t, backups, "no rotated log files")
	assert.FileExists(t, path)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "debug",
		"DEBUG":   "debug",
		"warning": "warn",
		"warn":    "warn",
		"error":   "error",
		"info":    "info",
		"":        "info",
		"verbose": "info",
	}
	for in, want := range tests {
		if got := parseLevel(in).String(); got != want {
			t.Errorf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/spritetool.log")
	assert.Equal(t, FileConfig{
		Path:       "/tmp/spritetool.log",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 14,
		Compress:   true,
	}, cfg)
}

func TestInitAndNamed(t *testing.T) {
	Log = nil
	require.NotNil(t, Named("g1"), "Named returned nil before Init")
	Named("g1").Warn("dropped before Init")

	path := filepath.Join(t.TempDir(), "init.log")
	require.NoError(t, Init("error", path))
	t.Cleanup(func() { Log = nil })

	Named("spritetool").Warn("below level")
	Named("spritetool").Error(fmt.Sprintf("cannot open %s", "g1.dat"))
	Sync()

	content := readLog(t, path)
	assert.Contains(t, content, "ERROR spritetool")
	assert.Contains(t, content, "cannot open g1.dat")
	assert.NotContains(t, content, "below level")
}
