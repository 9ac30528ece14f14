package session

import (
	"fmt"
	"math/rand"
	"testing"

	"bat-monitor-be/pkg/remotestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func files(names ...string) []remotestore.File {
	out := make([]remotestore.File, len(names))
	for i, n := range names {
		out[i] = remotestore.File{ID: fmt.Sprintf("id-%d", i), Name: n}
	}
	return out
}

func TestRoleOf(t *testing.T) {
	tests := []struct {
		name string
		want Role
	}{
		{"spectrogram.jpg", RoleSpectrogram},
		{"SPECTROGRAM_01.JPG", RoleSpectrogram},
		{"spectogram.jpg", RoleSpectrogram},
		{"Spectogram.jpg", RoleSpectrogram},
		{"spectrogram.png", RoleOther},
		{"spectrogram.jpeg", RoleOther},
		{"camera_spectrogram.jpg", RoleSpectrogram},
		{"Camera1.jpg", RoleCamera},
		{"camera.txt", RoleOther},
		{"Sensor.txt", RoleSensorLog},
		{"sensor_log.TXT", RoleSensorLog},
		{"sensor.csv", RoleOther},
		{"Audio.wav", RoleAudio},
		{"audio.mp3", RoleOther},
		{"notes.pdf", RoleOther},
		{"", RoleOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoleOf(tt.name))
		})
	}
}

func TestClassifyFiles_AllRoles(t *testing.T) {
	in := files("Spectogram.jpg", "Camera1.jpg", "Sensor.txt", "Audio.wav", "notes.pdf")

	b := ClassifyFiles(in)

	require.NotNil(t, b.Spectrogram)
	require.NotNil(t, b.Camera)
	require.NotNil(t, b.SensorLog)
	require.NotNil(t, b.Audio)
	assert.Equal(t, "Spectogram.jpg", b.Spectrogram.Name)
	assert.Equal(t, "Camera1.jpg", b.Camera.Name)
	assert.Equal(t, "Sensor.txt", b.SensorLog.Name)
	assert.Equal(t, "Audio.wav", b.Audio.Name)
	require.Len(t, b.Other, 1)
	assert.Equal(t, "notes.pdf", b.Other[0].Name)
	assert.Equal(t, len(in), b.Count())
}

func TestClassifyFiles_SurplusDropped(t *testing.T) {
	in := files("camera1.jpg", "readme.md", "camera2.jpg", "Camera3.JPG")

	b := ClassifyFiles(in)

	require.NotNil(t, b.Camera)
	assert.Equal(t, "camera1.jpg", b.Camera.Name)
	require.Len(t, b.Other, 1)
	assert.Equal(t, "readme.md", b.Other[0].Name)
	assert.Equal(t, 2, b.Count())
}

func TestClassifyFiles_Empty(t *testing.T) {
	b := ClassifyFiles(nil)
	assert.Nil(t, b.Spectrogram)
	assert.NotNil(t, b.Other)
	assert.Empty(t, b.Other)
	assert.Zero(t, b.Count())
}

func TestClassifyFiles_Idempotent(t *testing.T) {
	in := files("a.jpg", "spectrogram.jpg", "audio.wav", "b.txt", "sensor.txt", "audio2.wav")
	assert.Equal(t, ClassifyFiles(in), ClassifyFiles(in))
}

// Every file ends up in exactly one slot unless it is a surplus match, and
// the slot contents do not depend on where unrelated files sit in the list.
func TestClassifyFiles_PartitionProperty(t *testing.T) {
	pool := []string{
		"spectrogram_a.jpg", "spectogram_b.jpg", "camera.jpg", "CAMERA2.jpg",
		"sensor.txt", "Sensor_2.TXT", "audio.wav", "x.pdf", "y.png", "z",
	}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		n := rng.Intn(len(pool) + 1)
		picked := make([]string, n)
		for j := range picked {
			picked[j] = pool[rng.Intn(len(pool))]
		}
		in := files(picked...)

		b := ClassifyFiles(in)

		perRole := map[Role]int{}
		for _, f := range in {
			perRole[RoleOf(f.Name)]++
		}
		surplus := 0
		for role, c := range perRole {
			if role != RoleOther && c > 1 {
				surplus += c - 1
			}
		}

		assert.LessOrEqual(t, b.Count(), len(in))
		assert.Equal(t, len(in)-surplus, b.Count(), "input %v", picked)
		assert.Equal(t, perRole[RoleOther], len(b.Other))
		assert.Equal(t, perRole[RoleSpectrogram] > 0, b.Spectrogram != nil)
	}
}
