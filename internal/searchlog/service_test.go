package searchlog

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/jwlee/fininsight/internal/model"
)

// --- 테스트용 모의 객체 ---

type logEntry struct {
	keyword    string
	searchedAt time.Time
}

// mockSearchLogRepo 는 SearchLogRepository 의 인메모리 구현.
// TopKeywords 는 실제 SQL과 같은 의미(윈도우 필터 + 건수 내림차순 + 먼저 기록된 순 동률 처리)를 재현한다.
type mockSearchLogRepo struct {
	entries   []logEntry
	lastSince time.Time
}

func (m *mockSearchLogRepo) Insert(_ context.Context, keyword string, searchedAt time.Time) error {
	m.entries = append(m.entries, logEntry{keyword: keyword, searchedAt: searchedAt})
	return nil
}

func (m *mockSearchLogRepo) TopKeywords(_ context.Context, since time.Time, limit int) ([]model.KeywordCount, error) {
	m.lastSince = since

	counts := make(map[string]int)
	firstSeen := make(map[string]int) // 동률 시 먼저 기록된 순서
	for i, e := range m.entries {
		if e.searchedAt.Before(since) {
			continue
		}
		counts[e.keyword]++
		if _, ok := firstSeen[e.keyword]; !ok {
			firstSeen[e.keyword] = i
		}
	}

	var results []model.KeywordCount
	for k, c := range counts {
		results = append(results, model.KeywordCount{Keyword: k, Count: c})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Count != results[j].Count {
			return results[i].Count > results[j].Count
		}
		return firstSeen[results[i].Keyword] < firstSeen[results[j].Keyword]
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func newServiceWithClock(repo *mockSearchLogRepo, now time.Time) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return now }
	return svc
}

// --- 테스트 ---

// TestRecordSearch_AppendsEntry 는 검색어가 현재 시각으로 추가되는지 검증한다.
func TestRecordSearch_AppendsEntry(t *testing.T) {
	repo := &mockSearchLogRepo{}
	now := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	svc := newServiceWithClock(repo, now)

	if err := svc.RecordSearch(context.Background(), "삼성전자"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(repo.entries) != 1 {
		t.Fatalf("기록된 건수 = %d, want 1", len(repo.entries))
	}
	if repo.entries[0].keyword != "삼성전자" {
		t.Errorf("keyword = %q, want %q", repo.entries[0].keyword, "삼성전자")
	}
	if !repo.entries[0].searchedAt.Equal(now) {
		t.Errorf("searchedAt = %v, want %v", repo.entries[0].searchedAt, now)
	}
}

// TestTopKeywords_ExcludesEntriesOlderThanWindow 는 24시간보다 오래된 검색이
// 집계에서 제외되는지 검증한다.
func TestTopKeywords_ExcludesEntriesOlderThanWindow(t *testing.T) {
	repo := &mockSearchLogRepo{}
	now := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	svc := newServiceWithClock(repo, now)

	// 25시간 전의 검색 — 윈도우 밖
	repo.entries = append(repo.entries, logEntry{keyword: "LG에너지솔루션", searchedAt: now.Add(-25 * time.Hour)})
	// 1시간 전의 검색 — 윈도우 안
	repo.entries = append(repo.entries, logEntry{keyword: "삼성전자", searchedAt: now.Add(-1 * time.Hour)})

	results, err := svc.TopKeywords(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("결과 건수 = %d, want 1", len(results))
	}
	if results[0].Keyword != "삼성전자" {
		t.Errorf("keyword = %q, want %q", results[0].Keyword, "삼성전자")
	}

	wantSince := now.Add(-24 * time.Hour)
	if !repo.lastSince.Equal(wantSince) {
		t.Errorf("since = %v, want %v", repo.lastSince, wantSince)
	}
}

// TestTopKeywords_OrdersByCountDesc 는 건수 내림차순 정렬과 동률의 기록 순 처리를 검증한다.
func TestTopKeywords_OrdersByCountDesc(t *testing.T) {
	repo := &mockSearchLogRepo{}
	now := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	svc := newServiceWithClock(repo, now)

	recent := now.Add(-time.Hour)
	for _, k := range []string{"삼성전자", "SK하이닉스", "삼성전자", "카카오", "SK하이닉스", "삼성전자"} {
		repo.entries = append(repo.entries, logEntry{keyword: k, searchedAt: recent})
	}

	results, err := svc.TopKeywords(context.Background(), 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("결과 건수 = %d, want 2", len(results))
	}
	if results[0].Keyword != "삼성전자" || results[0].Count != 3 {
		t.Errorf("1위 = %+v, want 삼성전자 3건", results[0])
	}
	if results[1].Keyword != "SK하이닉스" || results[1].Count != 2 {
		t.Errorf("2위 = %+v, want SK하이닉스 2건", results[1])
	}
}
