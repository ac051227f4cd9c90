// Package audit реализует журнал событий — единственный источник правды
// для сверки начислений. models.go описывает запись журнала и виды действий.
package audit

import "time"

// Action — вид события в журнале.
type Action string

// Все виды действий, которые пишутся в журнал.
// Детектор аномалий считает «заслуженными» только ActionClaim и ActionAdView.
const (
	ActionCreate       Action = "create"
	ActionAuthenticate Action = "authenticate"
	ActionClaim        Action = "claim"
	ActionAdView       Action = "ad_view"
	ActionAdSkip       Action = "ad_skip"
	ActionFlag         Action = "flag"
	ActionAutoBlock    Action = "auto_block"
	ActionAdminBlock   Action = "admin_block"
)

// Entry — одна запись журнала. Записи неизменяемы и никогда не удаляются.
type Entry struct {
	ID        int64     `db:"id"`
	AccountID int64     `db:"account_id"`
	Action    Action    `db:"action"`
	Detail    string    `db:"detail"`
	CreatedAt time.Time `db:"created_at"`
}
