package models

// Session is a server-side session row. Expires is a unix timestamp in
// seconds; Data is the signed, encoded session payload.
type Session struct {
	SessionID string `gorm:"column:session_id;type:varchar(128);primaryKey"`
	Expires   int64  `gorm:"column:expires;not null;index"`
	Data      string `gorm:"column:data;type:text"`
}

// TableName pins the table name used by the session store.
func (Session) TableName() string {
	return "sessions"
}
