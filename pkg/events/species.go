package events

import "time"

const (
	TypeSpeciesClassified = "SPECIES_CLASSIFIED"
	TypeSessionNotFound   = "SESSION_NOT_FOUND"
)

// SpeciesClassified is emitted after every successful classification, from
// the REST layer and from batctl alike. Key fields are empty for uploads
// that are not tied to a session.
type SpeciesClassified struct {
	ServerID          string
	ClientID          string
	SessionID         string
	FileID            string
	Label             string
	ConfidencePercent float64
	LowConfidence     bool
	Policy            string
	OccurredAt        time.Time
}

func (e SpeciesClassified) EventType() string { return TypeSpeciesClassified }

func (e SpeciesClassified) Payload() map[string]interface{} {
	return map[string]interface{}{
		"serverId":      e.ServerID,
		"clientId":      e.ClientID,
		"sessionId":     e.SessionID,
		"fileId":        e.FileID,
		"label":         e.Label,
		"confidence":    e.ConfidencePercent,
		"lowConfidence": e.LowConfidence,
		"policy":        e.Policy,
	}
}

func (e SpeciesClassified) Timestamp() time.Time { return e.OccurredAt }

// SessionNotFound records a lookup that resolved to no folder, or failed
// because the store was unreachable.
type SessionNotFound struct {
	FolderName  string
	Unreachable bool
	OccurredAt  time.Time
}

func (e SessionNotFound) EventType() string { return TypeSessionNotFound }

func (e SessionNotFound) Payload() map[string]interface{} {
	return map[string]interface{}{
		"folderName":  e.FolderName,
		"unreachable": e.Unreachable,
	}
}

func (e SessionNotFound) Timestamp() time.Time { return e.OccurredAt }
