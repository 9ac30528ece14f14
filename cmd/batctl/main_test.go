package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"bat-monitor-be/internal/dto"
	"bat-monitor-be/pkg/classifier"
	"bat-monitor-be/pkg/events"
	"bat-monitor-be/pkg/remotestore"
	"bat-monitor-be/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	setColor(false)
}

func TestFormatClassification(t *testing.T) {
	tests := []struct {
		name string
		res  dto.ClassificationResult
		want string
	}{
		{
			name: "confident",
			res:  dto.ClassificationResult{Species: "Myotis myotis", Predicted: "Myotis myotis", Confidence: 88.5},
			want: "a.jpg: Myotis myotis 88.50%",
		},
		{
			name: "collapsed",
			res:  dto.ClassificationResult{Species: classifier.UnknownSpecies, Predicted: "Myotis myotis", Confidence: 50, LowConfidence: true},
			want: "a.jpg: Unknown species (best guess Myotis myotis) 50.00%",
		},
		{
			name: "raw low confidence",
			res:  dto.ClassificationResult{Species: "Myotis myotis", Predicted: "Myotis myotis", Confidence: 50, LowConfidence: true},
			want: "a.jpg: Myotis myotis (low confidence) 50.00%",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatClassification("a.jpg", &tt.res))
		})
	}
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "1.5 KiB", humanSize(1536))
	assert.Equal(t, "2.0 MiB", humanSize(2<<20))
}

func TestBundleRows(t *testing.T) {
	b := session.ClassifyFiles([]remotestore.File{
		{ID: "1", Name: "notes.md"},
		{ID: "2", Name: "Spectrogram.jpg", Size: 2048},
		{ID: "3", Name: "sensor.txt"},
	})

	rows := bundleRows(b)
	require.Len(t, rows, 3)
	assert.Equal(t, "spectrogram", rows[0].Role)
	assert.Equal(t, "sensor", rows[1].Role)
	assert.Equal(t, "other", rows[2].Role)

	out := renderAssetTable(rows)
	assert.Contains(t, out, "Spectrogram.jpg")
	assert.Contains(t, out, "2.0 KiB")
}

func TestReadCode(t *testing.T) {
	code, err := readCode(bufio.NewReader(strings.NewReader("  4/abc-def \n")))
	require.NoError(t, err)
	assert.Equal(t, "4/abc-def", code)

	code, err = readCode(bufio.NewReader(strings.NewReader("no-newline")))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", code)

	_, err = readCode(bufio.NewReader(strings.NewReader("\n")))
	assert.Error(t, err)
}

func TestFormatEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 21, 30, 0, 0, time.UTC)

	classified := events.SpeciesClassified{
		ServerID: "1", ClientID: "2", SessionID: "121",
		Label: "Nyctalus noctula", ConfidencePercent: 91.2, Policy: "collapse", OccurredAt: at,
	}
	line := formatEvent(classified)
	assert.Contains(t, line, "SERVER1_CLIENT2_121 Nyctalus noctula 91.2% [collapse]")

	upload := events.SpeciesClassified{Label: "Nyctalus noctula", ConfidencePercent: 80, Policy: "collapse", OccurredAt: at}
	assert.Contains(t, formatEvent(upload), "upload Nyctalus noctula")

	missing := events.SessionNotFound{FolderName: "SERVER1_CLIENT1_9", Unreachable: true, OccurredAt: at}
	assert.Contains(t, formatEvent(missing), "SERVER1_CLIENT1_9 store unreachable")
}

func TestFilesCommand_NotFound(t *testing.T) {
	t.Setenv("STORE_PROVIDER", "memory")

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"files", "BAT121", "--server", "3"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Contains(t, err.Error(), "SERVER3_CLIENT1_121")
}

func TestWatchCommand_RequiresNats(t *testing.T) {
	t.Setenv("NATS_URL", "")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"watch"})
	cmd.SetOut(&bytes.Buffer{})
	assert.EqualError(t, cmd.Execute(), "NATS_URL is not set")
}

func TestClassifyCommand_ModelMissing(t *testing.T) {
	t.Setenv("LABELS_PATH", t.TempDir()+"/none.json")

	cmd := newRootCommand()
	cmd.SetArgs([]string{"classify", "whatever.jpg"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, classifier.ErrModelUnavailable)
}
