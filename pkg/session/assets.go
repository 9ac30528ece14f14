package session

import (
	"strings"

	"bat-monitor-be/pkg/remotestore"
)

type Role string

const (
	RoleSpectrogram Role = "spectrogram"
	RoleCamera      Role = "camera"
	RoleSensorLog   Role = "sensor"
	RoleAudio       Role = "audio"
	RoleOther       Role = "other"
)

// AssetBundle holds at most one file per named role. Everything that matches
// no rule lands in Other, in listing order.
type AssetBundle struct {
	Spectrogram *remotestore.File
	Camera      *remotestore.File
	SensorLog   *remotestore.File
	Audio       *remotestore.File
	Other       []remotestore.File
}

// Count is the number of files the bundle holds.
func (b AssetBundle) Count() int {
	n := len(b.Other)
	for _, f := range []*remotestore.File{b.Spectrogram, b.Camera, b.SensorLog, b.Audio} {
		if f != nil {
			n++
		}
	}
	return n
}

type rule struct {
	role     Role
	keywords []string
	suffix   string
}

// Checked in order. "spectogram" is a spelling the recorders actually emit.
var rules = []rule{
	{role: RoleSpectrogram, keywords: []string{"spectrogram", "spectogram"}, suffix: ".jpg"},
	{role: RoleCamera, keywords: []string{"camera"}, suffix: ".jpg"},
	{role: RoleSensorLog, keywords: []string{"sensor"}, suffix: ".txt"},
	{role: RoleAudio, keywords: []string{"audio"}, suffix: ".wav"},
}

// RoleOf reports the role a file name is bucketed into.
func RoleOf(name string) Role {
	lower := strings.ToLower(name)
	for _, r := range rules {
		if !strings.HasSuffix(lower, r.suffix) {
			continue
		}
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.role
			}
		}
	}
	return RoleOther
}

// ClassifyFiles buckets a listing by role. The first file matching a named
// role fills its slot; later matches for the same role are dropped, not
// moved to Other.
// TODO: surface dropped duplicates to the caller once product decides how
// duplicate recordings should be reported.
func ClassifyFiles(files []remotestore.File) AssetBundle {
	var b AssetBundle
	b.Other = []remotestore.File{}

	for _, f := range files {
		var slot **remotestore.File
		switch RoleOf(f.Name) {
		case RoleSpectrogram:
			slot = &b.Spectrogram
		case RoleCamera:
			slot = &b.Camera
		case RoleSensorLog:
			slot = &b.SensorLog
		case RoleAudio:
			slot = &b.Audio
		default:
			b.Other = append(b.Other, f)
			continue
		}
		if *slot == nil {
			file := f
			*slot = &file
		}
	}
	return b
}
