// Package session maps a (server, client, session) triple to its remote
// folder and sorts the folder's files by role.
package session

import "strings"

// Key identifies one recording session. Values are used verbatim.
type Key struct {
	ServerID  string
	ClientID  string
	SessionID string
}

// CanonicalName is the folder name a session's recordings are uploaded
// under. It is the only matching key: no trimming, no case folding.
func (k Key) CanonicalName() string {
	return "SERVER" + k.ServerID + "_CLIENT" + k.ClientID + "_" + k.SessionID
}

// NormalizeSessionID turns a display id such as "BAT121" into the numeric
// session id the folders are named with. Every "BAT" occurrence is removed.
func NormalizeSessionID(batID string) string {
	return strings.ReplaceAll(batID, "BAT", "")
}
