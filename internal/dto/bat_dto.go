package dto

import (
	"bat-monitor-be/pkg/remotestore"
	"bat-monitor-be/pkg/session"
)

// SessionQuery identifies one recording session. Server and Client fall
// back to the configured defaults when the query string omits them.
type SessionQuery struct {
	BatID  string `params:"batId" validate:"required,printascii,excludesall=/\\,max=64"`
	Server string `query:"server" validate:"required,printascii,excludesall=/\\,max=32"`
	Client string `query:"client" validate:"required,printascii,excludesall=/\\,max=32"`
	Raw    bool   `query:"raw"`
}

// Key strips the "BAT" prefix from BatID, so BAT121 and 121 address the
// same folder.
func (q SessionQuery) Key() session.Key {
	return session.Key{
		ServerID:  q.Server,
		ClientID:  q.Client,
		SessionID: session.NormalizeSessionID(q.BatID),
	}
}

type OrganizedFiles struct {
	Spectrogram *remotestore.File  `json:"spectrogram"`
	Camera      *remotestore.File  `json:"camera"`
	Sensor      *remotestore.File  `json:"sensor"`
	Audio       *remotestore.File  `json:"audio"`
	Other       []remotestore.File `json:"other"`
}

func NewOrganizedFiles(b session.AssetBundle) OrganizedFiles {
	other := b.Other
	if other == nil {
		other = []remotestore.File{}
	}
	return OrganizedFiles{
		Spectrogram: b.Spectrogram,
		Camera:      b.Camera,
		Sensor:      b.SensorLog,
		Audio:       b.Audio,
		Other:       other,
	}
}

type BatFilesResponse struct {
	Success    bool           `json:"success"`
	FolderName string         `json:"folder_name"`
	FolderID   string         `json:"folder_id"`
	Files      OrganizedFiles `json:"files"`
}
