package service

import (
	"fmt"
	"time"

	"subscriber-tracker/internal/repository"
)

// DigestService builds the once-a-day summary for the administrator.
// Scheduling lives outside: the caller invokes Build at the configured
// local time, which keeps the digest testable with a fixed clock.
type DigestService struct {
	store repository.JoinStore
	loc   *time.Location
}

func NewDigestService(store repository.JoinStore, loc *time.Location) *DigestService {
	return &DigestService{store: store, loc: loc}
}

// Build reports the join count for the previous full calendar day plus the
// all-time total, relative to now.
func (s *DigestService) Build(now time.Time) string {
	yesterday := now.In(s.loc).AddDate(0, 0, -1)
	from := StartOfDay(yesterday)
	to := EndOfDay(yesterday)

	records := s.store.Snapshot()
	count := CountInRange(records, from, to)

	return fmt.Sprintf(
		"📊 <b>Ежедневная сводка</b>\n🗓 За %s: <b>%d</b> новых подписчиков\nΣ Всего за всё время: <b>%d</b>",
		yesterday.Format("02.01.2006"), count, len(records),
	)
}
