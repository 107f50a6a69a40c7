package model

import (
	"strings"
	"time"
)

// NoNamePlaceholder substitutes an empty display name in records and notifications.
const NoNamePlaceholder = "Без имени"

// MemberStatus mirrors the chat member statuses reported by the Telegram Bot API.
type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

// IsJoin reports whether a status transition represents a genuine new subscriber.
// Chat member updates also fire for promotions, mutes and unmutes; only the
// left/kicked -> member/restricted edge counts as a join.
func IsJoin(old, new MemberStatus) bool {
	wasOut := old == StatusLeft || old == StatusKicked
	isIn := new == StatusMember || new == StatusRestricted
	return wasOut && isIn
}

// JoinRecord is one accepted join event. TsISO keeps the raw ISO-8601 text so
// a corrupted timestamp in persisted data spoils one record, not the whole load.
type JoinRecord struct {
	TsISO    string `json:"ts_iso"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name"`
}

// NewJoinRecord builds a record for a user observed joining at the given moment.
func NewJoinRecord(now time.Time, userID int64, username, fullName string) JoinRecord {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fullName = NoNamePlaceholder
	}
	return JoinRecord{
		TsISO:    now.Format(time.RFC3339),
		UserID:   userID,
		Username: username,
		FullName: fullName,
	}
}

// Time parses the record timestamp. Callers skip records that fail to parse.
func (r JoinRecord) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, r.TsISO)
}
